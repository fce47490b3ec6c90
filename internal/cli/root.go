package cli

import (
	"os"

	"Mansoor88-6/macro-plus/internal/output"

	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:          "macro-plus",
	Short:        "Record and replay keyboard and mouse macros",
	Long:         "Records global keyboard and pointer input into named macros and replays them with adjustable speed and repeat.",
	SilenceUsage: true,
}

// Execute runs the command tree and exits non-zero on failure
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = Version
	rootCmd.PersistentFlags().String("config", "config/local.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().String("format", "yaml", "Output format: yaml, json")
	rootCmd.PersistentFlags().Bool("pretty", false, "Pretty-print JSON output")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		format, _ := rootCmd.PersistentFlags().GetString("format")
		f, err := output.ParseFormat(format)
		if err != nil {
			return err
		}
		output.OutputFormat = f
		output.PrettyOutput, _ = rootCmd.PersistentFlags().GetBool("pretty")
		return nil
	}
}

func configPath() string {
	path, _ := rootCmd.PersistentFlags().GetString("config")
	return path
}

// actionResult is printed by commands that change state
type actionResult struct {
	OK     bool   `yaml:"ok"               json:"ok"`
	Action string `yaml:"action"           json:"action"`
	Macro  string `yaml:"macro,omitempty"  json:"macro,omitempty"`
	Detail string `yaml:"detail,omitempty" json:"detail,omitempty"`
}

func printAction(action, macro, detail string) error {
	return output.Print(actionResult{OK: true, Action: action, Macro: macro, Detail: detail})
}
