package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// AppDirName is the per-user directory holding macros, settings and history
const AppDirName = "MacroPlus"

// Config holds the process configuration
type Config struct {
	Env           string              `yaml:"env" env:"MACRO_ENV" env-default:"local"`
	Log           LogConfig           `yaml:"log"`
	Paths         PathsConfig         `yaml:"paths"`
	Capture       CaptureConfig       `yaml:"capture"`
	Playback      PlaybackConfig      `yaml:"playback"`
	Hotkeys       HotkeysConfig       `yaml:"hotkeys"`
	Server        ServerConfig        `yaml:"server"`
	Notifications NotificationsConfig `yaml:"notifications"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"MACRO_LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"MACRO_LOG_FORMAT" env-default:"console"`
}

// PathsConfig locates the data files. Relative paths are resolved against DataDir.
type PathsConfig struct {
	DataDir      string `yaml:"data_dir" env:"MACRO_DATA_DIR"`
	MacrosDir    string `yaml:"macros_dir" env:"MACRO_MACROS_DIR" env-default:"macros"`
	SettingsFile string `yaml:"settings_file" env:"MACRO_SETTINGS_FILE" env-default:"settings/config.json"`
	HistoryDB    string `yaml:"history_db" env:"MACRO_HISTORY_DB" env-default:"history.db"`
}

type CaptureConfig struct {
	BufferCapacity int           `yaml:"buffer_capacity" env:"MACRO_BUFFER_CAPACITY" env-default:"10000"`
	MoveInterval   time.Duration `yaml:"move_interval" env:"MACRO_MOVE_INTERVAL" env-default:"16ms"`
	// IgnoreHotkeys keeps the control hotkeys out of recordings.
	IgnoreHotkeys bool `yaml:"ignore_hotkeys" env:"MACRO_IGNORE_HOTKEYS"`
}

type PlaybackConfig struct {
	SettleInterval     time.Duration `yaml:"settle_interval" env:"MACRO_SETTLE_INTERVAL" env-default:"100ms"`
	InterpolationSteps int           `yaml:"interpolation_steps" env:"MACRO_INTERPOLATION_STEPS" env-default:"5"`
	InterpolationDelay time.Duration `yaml:"interpolation_delay" env:"MACRO_INTERPOLATION_DELAY" env-default:"1ms"`
}

type HotkeysConfig struct {
	Record string `yaml:"record" env:"MACRO_HOTKEY_RECORD" env-default:"F9"`
	Play   string `yaml:"play" env:"MACRO_HOTKEY_PLAY" env-default:"F10"`
	Stop   string `yaml:"stop" env:"MACRO_HOTKEY_STOP" env-default:"F11"`
}

type ServerConfig struct {
	Enabled bool `yaml:"enabled" env:"MACRO_SERVER_ENABLED"`
	Port    int  `yaml:"port" env:"MACRO_SERVER_PORT" env-default:"7879"`
}

type NotificationsConfig struct {
	Enabled bool `yaml:"enabled" env:"MACRO_NOTIFICATIONS_ENABLED"`
}

// defaults seeds the fields whose default is true. cleanenv only applies
// env-default to zero values, so an explicit false in the file would be lost.
func defaults() Config {
	return Config{
		Capture:       CaptureConfig{IgnoreHotkeys: true},
		Notifications: NotificationsConfig{Enabled: true},
	}
}

// LoadConfig reads the configuration file at path, then applies environment
// overrides. A missing file falls back to environment variables and defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := defaults()

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else if errors.Is(err, os.ErrNotExist) {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read config from environment: %w", err)
		}
	} else {
		return nil, fmt.Errorf("failed to stat config %s: %w", path, err)
	}

	if err := cfg.resolvePaths(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	switch {
	case c.Capture.BufferCapacity <= 0:
		return fmt.Errorf("capture.buffer_capacity must be positive, got %d", c.Capture.BufferCapacity)
	case c.Capture.MoveInterval <= 0:
		return fmt.Errorf("capture.move_interval must be positive, got %s", c.Capture.MoveInterval)
	case c.Playback.SettleInterval <= 0:
		return fmt.Errorf("playback.settle_interval must be positive, got %s", c.Playback.SettleInterval)
	case c.Playback.InterpolationSteps <= 0:
		return fmt.Errorf("playback.interpolation_steps must be positive, got %d", c.Playback.InterpolationSteps)
	case c.Playback.InterpolationDelay <= 0:
		return fmt.Errorf("playback.interpolation_delay must be positive, got %s", c.Playback.InterpolationDelay)
	case c.Server.Port <= 0 || c.Server.Port > 65535:
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	case c.Log.Format != "json" && c.Log.Format != "console":
		return fmt.Errorf("log.format must be json or console, got %q", c.Log.Format)
	}
	return nil
}

// EnsureDirs creates the directories the data files live in
func (c *Config) EnsureDirs() error {
	dirs := []string{
		c.Paths.DataDir,
		c.Paths.MacrosDir,
		filepath.Dir(c.Paths.SettingsFile),
		filepath.Dir(c.Paths.HistoryDB),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

func (c *Config) resolvePaths() error {
	if c.Paths.DataDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return fmt.Errorf("failed to get config directory: %w", err)
		}
		c.Paths.DataDir = filepath.Join(base, AppDirName)
	}
	c.Paths.MacrosDir = c.resolve(c.Paths.MacrosDir)
	c.Paths.SettingsFile = c.resolve(c.Paths.SettingsFile)
	c.Paths.HistoryDB = c.resolve(c.Paths.HistoryDB)
	return nil
}

func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Paths.DataDir, p)
}
