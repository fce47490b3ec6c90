package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
	"go.uber.org/zap"
)

const (
	DefaultSpeed  = 1.0
	DefaultRepeat = 1
)

// Settings are the playback preferences remembered between runs
type Settings struct {
	Speed  float64 `json:"speed"`
	Repeat int     `json:"repeat"`
}

// Default returns the settings used when no valid file exists
func Default() Settings {
	return Settings{Speed: DefaultSpeed, Repeat: DefaultRepeat}
}

// Load reads the settings file. A missing or corrupt file yields the defaults
// and is logged rather than returned.
func Load(path string, logger *zap.Logger) Settings {
	s := Default()

	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("Cannot access settings file, using defaults", zap.String("path", path), zap.Error(err))
		}
		return s
	}

	if err := cleanenv.ReadConfig(path, &s); err != nil {
		logger.Warn("Corrupt settings file, using defaults", zap.String("path", path), zap.Error(err))
		return Default()
	}
	return s.sanitize(logger)
}

// Save writes the settings file, creating its directory if needed
func Save(path string, s Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}

// sanitize replaces out of range values with their defaults
func (s Settings) sanitize(logger *zap.Logger) Settings {
	if s.Speed <= 0 {
		logger.Warn("Ignoring invalid speed in settings", zap.Float64("speed", s.Speed))
		s.Speed = DefaultSpeed
	}
	if s.Repeat < 0 {
		logger.Warn("Ignoring invalid repeat in settings", zap.Int("repeat", s.Repeat))
		s.Repeat = DefaultRepeat
	}
	return s
}
