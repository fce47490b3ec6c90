package cli

import (
	"fmt"
	"os"
	"syscall"

	"Mansoor88-6/macro-plus/internal/clock"
	"Mansoor88-6/macro-plus/internal/collector"
	"Mansoor88-6/macro-plus/internal/config"
	"Mansoor88-6/macro-plus/internal/database"
	"Mansoor88-6/macro-plus/internal/logger"
	"Mansoor88-6/macro-plus/internal/models"
	"Mansoor88-6/macro-plus/internal/notify"
	"Mansoor88-6/macro-plus/internal/platform"
	"Mansoor88-6/macro-plus/internal/playback"
	"Mansoor88-6/macro-plus/internal/recorder"
	"Mansoor88-6/macro-plus/internal/repository"
	"Mansoor88-6/macro-plus/internal/service"
	"Mansoor88-6/macro-plus/internal/store"

	"go.uber.org/zap"
)

// newPlatform is replaced in tests
var newPlatform = platform.NewPlatform

var interruptSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// inputDevice is what the recorder and the engine need from the platform
type inputDevice interface {
	platform.InputCapture
	platform.InputSynthesizer
}

// app holds the resources shared by all commands
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	db      *database.DB
	store   *store.FileStore
	history *repository.RunRepository
}

// openApp loads configuration, creates the data directories and opens the
// macro store and the run history
func openApp() (*app, error) {
	cfg, err := config.LoadConfig(configPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := cfg.EnsureDirs(); err != nil {
		return nil, err
	}

	macroStore, err := store.NewFileStore(cfg.Paths.MacrosDir, log.Logger)
	if err != nil {
		return nil, err
	}

	db, err := database.New(cfg.Paths.HistoryDB, log.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &app{
		cfg:     cfg,
		log:     log,
		db:      db,
		store:   macroStore,
		history: repository.NewRunRepository(db.DB),
	}, nil
}

// Close releases the database and flushes the logger
func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		a.log.Error("Failed to close database", zap.Error(err))
	}
	_ = a.log.Sync()
}

// hotkeys parses the configured control chords
func (a *app) hotkeys() (service.Hotkeys, error) {
	h := a.cfg.Hotkeys
	return service.ParseHotkeys(h.Record, h.Play, h.Stop)
}

// notifier returns the desktop notifier, or a no-op when disabled
func (a *app) notifier() notify.Notifier {
	if !a.cfg.Notifications.Enabled {
		return notify.Nop{}
	}
	return notify.NewDesktop(config.AppDirName, a.log.Logger)
}

// newService wires a recording session and a playback engine on top of input
func (a *app) newService(input inputDevice, hotkeys service.Hotkeys, notifier notify.Notifier) *service.MacroService {
	clk := clock.NewRealClock()

	var ignore []models.KeyID
	if a.cfg.Capture.IgnoreHotkeys {
		ignore = hotkeys.Keys()
	}

	buffer := collector.NewCaptureBuffer(a.cfg.Capture.BufferCapacity, a.log.Logger)
	session := recorder.NewSession(input, buffer, clk, recorder.Options{
		MoveInterval: a.cfg.Capture.MoveInterval,
		IgnoreKeys:   ignore,
	}, a.log.Logger)

	engine := playback.NewEngine(input, clk, playback.Options{
		SettleInterval:     a.cfg.Playback.SettleInterval,
		InterpolationSteps: a.cfg.Playback.InterpolationSteps,
		InterpolationDelay: a.cfg.Playback.InterpolationDelay,
	}, a.log.Logger)

	return service.NewMacroService(
		session,
		engine,
		a.store,
		a.history,
		notifier,
		clk,
		a.cfg.Paths.SettingsFile,
		a.log.Logger,
	)
}

// openInput creates the OS input platform
func openInput() (platform.Platform, error) {
	p, err := newPlatform()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize platform: %w", err)
	}
	return p, nil
}

// logSystemInfo records which host the hooks were installed on
func logSystemInfo(p platform.Platform, log *zap.Logger) {
	info, err := p.GetSystemInfo()
	if err != nil {
		log.Warn("Failed to read system info", zap.Error(err))
		return
	}
	log.Info("Input platform ready",
		zap.String("os", info.OS),
		zap.String("os_version", info.OSVersion),
		zap.String("arch", info.Arch),
		zap.String("hostname", info.Hostname),
	)
}

func closeService(svc *service.MacroService, log *zap.Logger) {
	if err := svc.Close(); err != nil {
		log.Warn("Failed to close macro service", zap.Error(err))
	}
}
