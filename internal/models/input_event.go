package models

import (
	"math"
	"time"
)

// EventKind identifies one of the four kinds of captured input
type EventKind string

// Event kinds, named after their persisted type tag
const (
	KindKeyDown       EventKind = "key_press"
	KindKeyUp         EventKind = "key_release"
	KindPointerButton EventKind = "mouse_click"
	KindPointerMove   EventKind = "mouse_move"
)

// InputEvent is a captured input event with its offset from the start of recording.
// The set of implementations is closed: KeyDown, KeyUp, PointerMove and PointerButton.
type InputEvent interface {
	Kind() EventKind
	Offset() time.Duration
	inputEvent()
}

// KeyDown is a key press
type KeyDown struct {
	Key KeyID
	At  time.Duration
}

// KeyUp is a key release
type KeyUp struct {
	Key KeyID
	At  time.Duration
}

// PointerMove is an absolute pointer position sample
type PointerMove struct {
	X  int
	Y  int
	At time.Duration
}

// PointerButton is a pointer button press or release at a screen position
type PointerButton struct {
	X       int
	Y       int
	Button  Button
	Pressed bool
	At      time.Duration
}

func (KeyDown) Kind() EventKind       { return KindKeyDown }
func (KeyUp) Kind() EventKind         { return KindKeyUp }
func (PointerMove) Kind() EventKind   { return KindPointerMove }
func (PointerButton) Kind() EventKind { return KindPointerButton }

func (e KeyDown) Offset() time.Duration       { return e.At }
func (e KeyUp) Offset() time.Duration         { return e.At }
func (e PointerMove) Offset() time.Duration   { return e.At }
func (e PointerButton) Offset() time.Duration { return e.At }

func (KeyDown) inputEvent()       {}
func (KeyUp) inputEvent()         {}
func (PointerMove) inputEvent()   {}
func (PointerButton) inputEvent() {}

// SequenceDuration returns the offset of the last event, or 0 for an empty sequence
func SequenceDuration(events []InputEvent) time.Duration {
	if len(events) == 0 {
		return 0
	}
	return events[len(events)-1].Offset()
}

// Seconds converts an offset to the fractional seconds used on disk
func Seconds(d time.Duration) float64 {
	return d.Seconds()
}

// FromSeconds converts fractional seconds back to an offset, rounding to the nearest nanosecond
func FromSeconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}

// WithOffset returns a copy of the event moved to offset d
func WithOffset(e InputEvent, d time.Duration) InputEvent {
	switch ev := e.(type) {
	case KeyDown:
		ev.At = d
		return ev
	case KeyUp:
		ev.At = d
		return ev
	case PointerMove:
		ev.At = d
		return ev
	case PointerButton:
		ev.At = d
		return ev
	default:
		return e
	}
}
