package cli

import (
	"math"

	"Mansoor88-6/macro-plus/internal/output"
	"Mansoor88-6/macro-plus/internal/playback"
	"Mansoor88-6/macro-plus/internal/settings"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change the default playback speed and repeat count",
	Args:  cobra.NoArgs,
	RunE:  runSettings,
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.Flags().Float64("speed", settings.DefaultSpeed, "Playback speed multiplier")
	settingsCmd.Flags().Int("repeat", settings.DefaultRepeat, "Repeat count, 0 repeats until stopped")
}

func runSettings(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	path := a.cfg.Paths.SettingsFile
	s := settings.Load(path, a.log.Logger)

	changed := false
	if cmd.Flags().Changed("speed") {
		speed, _ := cmd.Flags().GetFloat64("speed")
		if speed <= 0 || math.IsNaN(speed) || math.IsInf(speed, 0) {
			return playback.ErrInvalidSpeed
		}
		s.Speed = speed
		changed = true
	}
	if cmd.Flags().Changed("repeat") {
		repeat, _ := cmd.Flags().GetInt("repeat")
		if repeat < 0 {
			return playback.ErrInvalidRepeat
		}
		s.Repeat = repeat
		changed = true
	}

	if changed {
		if err := settings.Save(path, s); err != nil {
			return err
		}
	}
	return output.Print(s)
}
