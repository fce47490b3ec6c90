package service

import (
	"fmt"

	"Mansoor88-6/macro-plus/internal/models"
	"Mansoor88-6/macro-plus/internal/platform"

	"go.uber.org/zap"
)

// Hotkeys are the chords bound to the three control actions
type Hotkeys struct {
	Record platform.Chord
	Play   platform.Chord
	Stop   platform.Chord
}

// ParseHotkeys parses the configured chords
func ParseHotkeys(record, play, stop string) (Hotkeys, error) {
	var h Hotkeys
	var err error
	if h.Record, err = platform.ParseChord(record); err != nil {
		return h, fmt.Errorf("record hotkey: %w", err)
	}
	if h.Play, err = platform.ParseChord(play); err != nil {
		return h, fmt.Errorf("play hotkey: %w", err)
	}
	if h.Stop, err = platform.ParseChord(stop); err != nil {
		return h, fmt.Errorf("stop hotkey: %w", err)
	}
	return h, nil
}

// Keys returns the main keys of the chords, which are kept out of recordings
func (h Hotkeys) Keys() []models.KeyID {
	return []models.KeyID{h.Record.Key.ID(), h.Play.Key.ID(), h.Stop.Key.ID()}
}

// HotkeyBindings maps the chords to service actions. Play only fires when a
// macro is loaded. Stop ends a recording if one is running, otherwise playback.
func (s *MacroService) HotkeyBindings(h Hotkeys) []platform.HotkeyBinding {
	return []platform.HotkeyBinding{
		{
			Chord: h.Record,
			Action: func() {
				if err := s.ToggleRecording(); err != nil {
					s.logger.Warn("Record hotkey failed", zap.Error(err))
				}
			},
		},
		{
			Chord: h.Play,
			Action: func() {
				if !s.HasMacro() {
					s.logger.Debug("Play hotkey ignored, no macro loaded")
					return
				}
				if err := s.Play(); err != nil {
					s.logger.Warn("Play hotkey failed", zap.Error(err))
				}
			},
		},
		{
			Chord:  h.Stop,
			Action: s.StopAll,
		},
	}
}
