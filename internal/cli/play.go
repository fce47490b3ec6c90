package cli

import (
	"os/signal"

	"Mansoor88-6/macro-plus/internal/notify"
	"Mansoor88-6/macro-plus/internal/output"

	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play <name>",
	Short: "Play a saved macro",
	Long:  "Load a saved macro and replay it. Ctrl+C stops playback. Speed and repeat default to the values stored with the macro.",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().Float64("speed", 1, "Playback speed multiplier")
	playCmd.Flags().Int("repeat", 1, "Repeat count, 0 repeats until stopped")
}

func runPlay(cmd *cobra.Command, args []string) error {
	name := args[0]

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	input, err := openInput()
	if err != nil {
		return err
	}
	hotkeys, err := a.hotkeys()
	if err != nil {
		return err
	}
	svc := a.newService(input, hotkeys, notify.Nop{})
	defer closeService(svc, a.log.Logger)

	if _, err := svc.Load(name); err != nil {
		return err
	}
	if cmd.Flags().Changed("speed") {
		speed, _ := cmd.Flags().GetFloat64("speed")
		if err := svc.SetSpeed(speed); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("repeat") {
		repeat, _ := cmd.Flags().GetInt("repeat")
		if err := svc.SetRepeat(repeat); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(cmdContext(cmd), interruptSignals...)
	defer stop()

	if err := svc.Play(); err != nil {
		return err
	}

	done := make(chan struct{})
	go func() {
		svc.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		svc.StopPlayback()
		<-done
	}

	runs, err := a.history.List(name, 1)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		return printAction("play", name, "")
	}
	return output.Print(runs[0])
}
