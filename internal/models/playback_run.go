package models

import "time"

// PlaybackRun is one recorded execution of a macro
type PlaybackRun struct {
	ID              string     `json:"id" yaml:"id"`
	Macro           string     `json:"macro" yaml:"macro"`
	Speed           float64    `json:"speed" yaml:"speed"`
	Repeat          int        `json:"repeat" yaml:"repeat"`
	StartedAt       time.Time  `json:"started_at" yaml:"started_at"`
	FinishedAt      *time.Time `json:"finished_at,omitempty" yaml:"finished_at,omitempty"`
	Iterations      int        `json:"iterations" yaml:"iterations"`
	EventsSimulated int        `json:"events_simulated" yaml:"events_simulated"`
	KeyFailures     int        `json:"key_failures" yaml:"key_failures"`
	Cancelled       bool       `json:"cancelled" yaml:"cancelled"`
}

// RunOutcome is what a finished playback reports back to its run record
type RunOutcome struct {
	FinishedAt      time.Time
	Iterations      int
	EventsSimulated int
	KeyFailures     int
	Cancelled       bool
}
