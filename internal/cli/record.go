package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"Mansoor88-6/macro-plus/internal/notify"
	"Mansoor88-6/macro-plus/internal/output"
	"Mansoor88-6/macro-plus/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var errMacroExists = errors.New("macro already exists")

var recordCmd = &cobra.Command{
	Use:   "record <name>",
	Short: "Record a macro and save it",
	Long:  "Record global keyboard and pointer input until interrupted (Ctrl+C) or until --duration elapses, then save it under name. An existing macro is only replaced with --force.",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecord,
}

func init() {
	rootCmd.AddCommand(recordCmd)
	recordCmd.Flags().Duration("duration", 0, "Stop recording after this long (0 waits for Ctrl+C)")
	recordCmd.Flags().Bool("force", false, "Replace an existing macro with the same name")
}

func runRecord(cmd *cobra.Command, args []string) error {
	name := args[0]
	if err := store.ValidateName(name); err != nil {
		return err
	}
	duration, _ := cmd.Flags().GetDuration("duration")
	if duration < 0 {
		return fmt.Errorf("duration must not be negative")
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if force, _ := cmd.Flags().GetBool("force"); !force && a.store.Exists(name) {
		return fmt.Errorf("%w: %q (use --force to replace it)", errMacroExists, name)
	}

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

	ctx, stop := signal.NotifyContext(cmdContext(cmd), interruptSignals...)
	defer stop()

	if err := svc.StartRecording(); err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr, "Recording... press Ctrl+C to stop")

	var timeout <-chan time.Time
	if duration > 0 {
		timer := time.NewTimer(duration)
		defer timer.Stop()
		timeout = timer.C
	}
	select {
	case <-ctx.Done():
	case <-timeout:
	}

	m, err := svc.StopRecording()
	if err != nil {
		return err
	}
	if err := svc.SaveCurrent(name); err != nil {
		return err
	}
	a.log.Info("Macro recorded", zap.String("macro", name), zap.Int("event_count", m.EventCount()))

	m.Name = name
	return output.Print(m.Summary())
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
