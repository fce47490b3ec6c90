package cli

import (
	"Mansoor88-6/macro-plus/internal/models"
	"Mansoor88-6/macro-plus/internal/output"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history [name]",
	Short: "Show recent playback runs",
	Long:  "Show recent playback runs, newest first. Pass a macro name to filter.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().Int("limit", 20, "Maximum number of runs to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	var name string
	if len(args) == 1 {
		name = args[0]
	}
	limit, _ := cmd.Flags().GetInt("limit")

	runs, err := a.history.List(name, limit)
	if err != nil {
		return err
	}
	if runs == nil {
		runs = []*models.PlaybackRun{}
	}
	return output.Print(runs)
}
