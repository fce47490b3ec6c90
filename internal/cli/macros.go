package cli

import (
	"Mansoor88-6/macro-plus/internal/models"
	"Mansoor88-6/macro-plus/internal/output"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved macros",
	Long:  "List saved macros sorted by name, with event count, duration and creation time.",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var showCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a saved macro",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a saved macro",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(deleteCmd)
	showCmd.Flags().Bool("events", false, "Include the recorded events")
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	summaries, err := a.store.List()
	if err != nil {
		return err
	}
	if summaries == nil {
		summaries = []models.MacroSummary{}
	}
	return output.Print(summaries)
}

func runShow(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	m, err := a.store.Load(args[0])
	if err != nil {
		return err
	}
	withEvents, _ := cmd.Flags().GetBool("events")
	return output.Print(output.NewMacroDetail(m, withEvents))
}

func runDelete(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.store.Delete(args[0]); err != nil {
		return err
	}
	return printAction("delete", args[0], "")
}
