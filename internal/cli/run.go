package cli

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"time"

	"Mansoor88-6/macro-plus/internal/config"
	"Mansoor88-6/macro-plus/internal/server"
	"Mansoor88-6/macro-plus/internal/service"
	"Mansoor88-6/macro-plus/internal/store"
	"Mansoor88-6/macro-plus/internal/tray"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the recorder with global hotkeys and the tray panel",
	Args:  cobra.NoArgs,
	RunE:  runDaemon,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Bool("no-tray", false, "Run without the system tray icon")
}

func runDaemon(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	log := a.log

	log.Info("Starting macro recorder",
		zap.String("env", a.cfg.Env),
		zap.String("config_path", configPath()),
		zap.String("data_dir", a.cfg.Paths.DataDir),
	)

	input, err := openInput()
	if err != nil {
		return err
	}
	logSystemInfo(input, log.Logger)

	hotkeys, err := a.hotkeys()
	if err != nil {
		return err
	}

	svc := a.newService(input, hotkeys, a.notifier())

	if err := input.RegisterHotkeys(svc.HotkeyBindings(hotkeys)); err != nil {
		closeService(svc, log.Logger)
		return fmt.Errorf("failed to register hotkeys: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmdContext(cmd), interruptSignals...)
	defer stop()

	var httpServer *http.Server
	if a.cfg.Server.Enabled {
		httpServer = startControlServer(a.cfg, svc, log.Logger)
	} else {
		log.Info("Control API disabled in configuration")
	}

	noTray, _ := cmd.Flags().GetBool("no-tray")
	var panel *tray.Tray
	if !noTray {
		panel = tray.New(svc, config.AppDirName, stop, log.Logger)
	}

	watcher := store.NewWatcher(a.cfg.Paths.MacrosDir, store.DefaultDebounce, func() {
		log.Debug("Macro directory changed")
		if panel != nil {
			panel.RefreshMacros()
		}
	}, log.Logger)
	if err := watcher.Start(ctx); err != nil {
		log.Warn("Macro directory watcher unavailable", zap.Error(err))
	}

	log.Info("Macro recorder started",
		zap.String("record_hotkey", hotkeys.Record.String()),
		zap.String("play_hotkey", hotkeys.Play.String()),
		zap.String("stop_hotkey", hotkeys.Stop.String()),
	)

	if panel != nil {
		go func() {
			<-ctx.Done()
			panel.Quit()
		}()
		panel.Run()
		stop()
	} else {
		<-ctx.Done()
	}

	log.Info("Shutting down macro recorder...")

	if err := watcher.Close(); err != nil {
		log.Warn("Watcher close error", zap.Error(err))
	}

	if httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Warn("Control API shutdown error", zap.Error(err))
		} else {
			log.Info("Control API stopped")
		}
	}

	if err := input.UnregisterHotkeys(); err != nil {
		log.Warn("Failed to unregister hotkeys", zap.Error(err))
	}

	done := make(chan struct{})
	go func() {
		closeService(svc, log.Logger)
		close(done)
	}()
	select {
	case <-done:
		log.Info("Macro service stopped")
	case <-time.After(3 * time.Second):
		log.Warn("Shutdown timeout reached")
	}

	log.Info("Macro recorder stopped")
	return nil
}

func startControlServer(cfg *config.Config, svc *service.MacroService, log *zap.Logger) *http.Server {
	addr := fmt.Sprintf("localhost:%d", cfg.Server.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      server.NewControlServer(svc, log),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Starting control API", zap.String("address", addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Control API error", zap.Error(err))
		}
	}()
	return httpServer
}
