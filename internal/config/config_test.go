package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "local.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	dataDir := t.TempDir()
	t.Setenv("MACRO_DATA_DIR", dataDir)

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Capture.BufferCapacity != 10000 {
		t.Errorf("BufferCapacity = %d, want 10000", cfg.Capture.BufferCapacity)
	}
	if cfg.Capture.MoveInterval != 16*time.Millisecond {
		t.Errorf("MoveInterval = %v, want 16ms", cfg.Capture.MoveInterval)
	}
	if cfg.Playback.SettleInterval != 100*time.Millisecond || cfg.Playback.InterpolationSteps != 5 || cfg.Playback.InterpolationDelay != time.Millisecond {
		t.Errorf("unexpected playback defaults %+v", cfg.Playback)
	}
	if cfg.Hotkeys.Record != "F9" || cfg.Hotkeys.Play != "F10" || cfg.Hotkeys.Stop != "F11" {
		t.Errorf("unexpected hotkeys %+v", cfg.Hotkeys)
	}
	if !cfg.Capture.IgnoreHotkeys || !cfg.Notifications.Enabled || cfg.Server.Enabled {
		t.Errorf("unexpected boolean defaults %+v %+v %+v", cfg.Capture, cfg.Notifications, cfg.Server)
	}
	if cfg.Paths.MacrosDir != filepath.Join(dataDir, "macros") {
		t.Errorf("MacrosDir = %q", cfg.Paths.MacrosDir)
	}
	if cfg.Paths.SettingsFile != filepath.Join(dataDir, "settings", "config.json") {
		t.Errorf("SettingsFile = %q", cfg.Paths.SettingsFile)
	}
	if cfg.Paths.HistoryDB != filepath.Join(dataDir, "history.db") {
		t.Errorf("HistoryDB = %q", cfg.Paths.HistoryDB)
	}
}

func TestLoadConfig_File(t *testing.T) {
	dataDir := t.TempDir()
	absMacros := filepath.Join(t.TempDir(), "elsewhere")
	path := writeConfig(t, `
env: test
log:
  level: debug
  format: json
paths:
  data_dir: `+dataDir+`
  macros_dir: `+absMacros+`
capture:
  buffer_capacity: 500
  move_interval: 20ms
  ignore_hotkeys: false
playback:
  settle_interval: 250ms
hotkeys:
  record: ctrl+shift+r
server:
  enabled: true
  port: 9100
notifications:
  enabled: false
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Env != "test" || cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("unexpected env/log %q %+v", cfg.Env, cfg.Log)
	}
	if cfg.Capture.BufferCapacity != 500 || cfg.Capture.MoveInterval != 20*time.Millisecond {
		t.Errorf("unexpected capture %+v", cfg.Capture)
	}
	if cfg.Capture.IgnoreHotkeys || cfg.Notifications.Enabled {
		t.Error("explicit false values in the file must be kept")
	}
	if cfg.Playback.SettleInterval != 250*time.Millisecond || cfg.Playback.InterpolationSteps != 5 {
		t.Errorf("unexpected playback %+v", cfg.Playback)
	}
	if cfg.Hotkeys.Record != "ctrl+shift+r" || cfg.Hotkeys.Play != "F10" {
		t.Errorf("unexpected hotkeys %+v", cfg.Hotkeys)
	}
	if !cfg.Server.Enabled || cfg.Server.Port != 9100 {
		t.Errorf("unexpected server %+v", cfg.Server)
	}
	if cfg.Paths.MacrosDir != absMacros {
		t.Errorf("absolute MacrosDir rewritten to %q", cfg.Paths.MacrosDir)
	}
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	t.Setenv("MACRO_SERVER_PORT", "9200")
	path := writeConfig(t, "paths:\n  data_dir: "+t.TempDir()+"\nserver:\n  port: 9100\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 9200 {
		t.Errorf("Port = %d, want env override 9200", cfg.Server.Port)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := writeConfig(t, "paths:\n  data_dir: "+t.TempDir()+"\ncapture:\n  buffer_capacity: -1\n")
	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig() should reject a negative buffer capacity")
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Log:      LogConfig{Level: "info", Format: "json"},
			Capture:  CaptureConfig{BufferCapacity: 10, MoveInterval: time.Millisecond},
			Playback: PlaybackConfig{SettleInterval: time.Millisecond, InterpolationSteps: 1, InterpolationDelay: time.Millisecond},
			Server:   ServerConfig{Port: 8080},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"zero capacity", func(c *Config) { c.Capture.BufferCapacity = 0 }, true},
		{"zero move interval", func(c *Config) { c.Capture.MoveInterval = 0 }, true},
		{"zero settle", func(c *Config) { c.Playback.SettleInterval = 0 }, true},
		{"zero steps", func(c *Config) { c.Playback.InterpolationSteps = 0 }, true},
		{"zero delay", func(c *Config) { c.Playback.InterpolationDelay = 0 }, true},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }, true},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEnsureDirs(t *testing.T) {
	root := t.TempDir()
	cfg := Config{Paths: PathsConfig{
		DataDir:      root,
		MacrosDir:    filepath.Join(root, "macros"),
		SettingsFile: filepath.Join(root, "settings", "config.json"),
		HistoryDB:    filepath.Join(root, "history.db"),
	}}
	if err := cfg.EnsureDirs(); err != nil {
		t.Fatal(err)
	}
	for _, dir := range []string{"macros", "settings"} {
		if info, err := os.Stat(filepath.Join(root, dir)); err != nil || !info.IsDir() {
			t.Errorf("%s was not created", dir)
		}
	}
}
