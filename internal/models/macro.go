package models

import "time"

// Macro is a named recording together with its playback settings
type Macro struct {
	Name      string
	Events    []InputEvent
	CreatedAt time.Time
	Speed     float64
	Repeat    int // 0 = repeat until stopped
}

// MacroSummary is the listing metadata of a stored macro
type MacroSummary struct {
	Name            string    `json:"name" yaml:"name"`
	EventCount      int       `json:"event_count" yaml:"event_count"`
	DurationSeconds float64   `json:"duration" yaml:"duration"`
	CreatedAt       time.Time `json:"created" yaml:"created"`
}

// Duration returns the offset of the last event
func (m *Macro) Duration() time.Duration {
	return SequenceDuration(m.Events)
}

// EventCount returns the number of events in the macro
func (m *Macro) EventCount() int {
	return len(m.Events)
}

// Summary returns the listing metadata for the macro
func (m *Macro) Summary() MacroSummary {
	return MacroSummary{
		Name:            m.Name,
		EventCount:      m.EventCount(),
		DurationSeconds: Seconds(m.Duration()),
		CreatedAt:       m.CreatedAt,
	}
}
