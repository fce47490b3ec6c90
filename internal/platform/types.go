package platform

import "Mansoor88-6/macro-plus/internal/models"

// Platform bundles the OS input capabilities the macro core consumes
type Platform interface {
	InputCapture
	InputSynthesizer
	HotkeyRegistrar

	// GetSystemInfo returns system information
	GetSystemInfo() (*SystemInfo, error)
}

// InputCapture subscribes to global keyboard and pointer events.
// The callback may be invoked from hook threads owned by the platform.
type InputCapture interface {
	StartCapture(callback func(RawEvent)) error
	StopCapture() error
}

// InputSynthesizer injects keyboard and pointer events
type InputSynthesizer interface {
	KeyDown(key models.Key) error
	KeyUp(key models.Key) error
	MovePointer(x, y int) error
	PointerButton(button models.Button, pressed bool) error
}

// HotkeyRegistrar binds global hotkeys to actions
type HotkeyRegistrar interface {
	RegisterHotkeys(bindings []HotkeyBinding) error
	UnregisterHotkeys() error
}

// RawEvent is a single event delivered by the capture hooks
type RawEvent struct {
	Type    RawEventType
	Key     models.KeyID
	X       int
	Y       int
	Button  models.Button
	Pressed bool
}

// RawEventType represents the type of captured input
type RawEventType string

const (
	RawKeyDown       RawEventType = "key_down"
	RawKeyUp         RawEventType = "key_up"
	RawPointerMove   RawEventType = "pointer_move"
	RawPointerButton RawEventType = "pointer_button"
)

// HotkeyBinding associates a key chord with the action it triggers
type HotkeyBinding struct {
	Chord  Chord
	Action func()
}

// SystemInfo contains system information
type SystemInfo struct {
	OS        string
	OSVersion string
	Arch      string
	Hostname  string
}
