//go:build windows
// +build windows

package platform

import (
	"unicode"
	"unicode/utf16"

	"Mansoor88-6/macro-plus/internal/models"
)

const (
	vkShift    = 0x10
	vkControl  = 0x11
	vkMenu     = 0x12
	vkCapital  = 0x14
	vkNumpad0  = 0x60
	vkNumpad9  = 0x69
	vkLShift   = 0xA0
	vkLControl = 0xA2
	vkRMenu    = 0xA5

	// Keeps ToUnicodeEx from consuming a pending dead key in the kernel
	// buffer, which would otherwise swallow an accent the user is typing.
	toUnicodeNoStateChange = 0x4
)

// modifierState builds the key state array ToUnicodeEx expects. AltGr is
// reported by Windows as Ctrl+Alt.
func modifierState(shift, capsLock, altGr bool) *[256]byte {
	var state [256]byte
	if shift {
		state[vkShift] = 0x80
		state[vkLShift] = 0x80
	}
	if capsLock {
		state[vkCapital] = 0x01
	}
	if altGr {
		state[vkControl] = 0x80
		state[vkLControl] = 0x80
		state[vkMenu] = 0x80
		state[vkRMenu] = 0x80
	}
	return &state
}

// printableRune decodes a single translated character, rejecting control
// characters such as the "\b" that backspace produces
func printableRune(buf []uint16) (rune, bool) {
	runes := utf16.Decode(buf)
	if len(runes) != 1 || !unicode.IsPrint(runes[0]) {
		return 0, false
	}
	return runes[0], true
}

// keyTracker remembers the identifier reported when each virtual key went
// down, so the matching release reports the same character even if a
// modifier was let go in between.
type keyTracker struct {
	held map[uint16]models.KeyID
}

func newKeyTracker() *keyTracker {
	return &keyTracker{held: make(map[uint16]models.KeyID)}
}

// press returns the identifier to report for a key down. Auto-repeat keeps
// the identifier of the first press.
func (t *keyTracker) press(vk uint16, key models.KeyID) models.KeyID {
	if held, ok := t.held[vk]; ok {
		return held
	}
	t.held[vk] = key
	return key
}

func (t *keyTracker) release(vk uint16) (models.KeyID, bool) {
	key, ok := t.held[vk]
	delete(t.held, vk)
	return key, ok
}

// namedVK maps symbolic key names to Windows virtual-key codes
var namedVK = map[string]uint16{
	"backspace":         0x08,
	"tab":               0x09,
	"enter":             0x0D,
	"shift":             0x10,
	"ctrl":              0x11,
	"alt":               0x12,
	"pause":             0x13,
	"caps_lock":         0x14,
	"esc":               0x1B,
	"space":             0x20,
	"page_up":           0x21,
	"page_down":         0x22,
	"end":               0x23,
	"home":              0x24,
	"left":              0x25,
	"up":                0x26,
	"right":             0x27,
	"down":              0x28,
	"print_screen":      0x2C,
	"insert":            0x2D,
	"delete":            0x2E,
	"cmd":               0x5B,
	"cmd_l":             0x5B,
	"cmd_r":             0x5C,
	"menu":              0x5D,
	"num_lock":          0x90,
	"scroll_lock":       0x91,
	"shift_l":           0xA0,
	"shift_r":           0xA1,
	"ctrl_l":            0xA2,
	"ctrl_r":            0xA3,
	"alt_l":             0xA4,
	"alt_r":             0xA5,
	"alt_gr":            0xA5,
	"media_volume_mute": 0xAD,
	"media_volume_down": 0xAE,
	"media_volume_up":   0xAF,
	"media_next":        0xB0,
	"media_previous":    0xB1,
	"media_play_pause":  0xB3,
	"f1":                0x70,
	"f2":                0x71,
	"f3":                0x72,
	"f4":                0x73,
	"f5":                0x74,
	"f6":                0x75,
	"f7":                0x76,
	"f8":                0x77,
	"f9":                0x78,
	"f10":               0x79,
	"f11":               0x7A,
	"f12":               0x7B,
	"f13":               0x7C,
	"f14":               0x7D,
	"f15":               0x7E,
	"f16":               0x7F,
	"f17":               0x80,
	"f18":               0x81,
	"f19":               0x82,
	"f20":               0x83,
}

// vkName is the capture-side inverse of namedVK. Low-level hooks report the
// sided modifier codes, so the generic ones map to their left-hand names.
var vkName = func() map[uint16]string {
	m := make(map[uint16]string, len(namedVK))
	for name, vk := range namedVK {
		m[vk] = name
	}
	m[0x10] = "shift"
	m[0x11] = "ctrl"
	m[0x12] = "alt"
	m[0x5B] = "cmd"
	m[0xA5] = "alt_r"
	return m
}()

// extendedVK lists keys that must be injected with KEYEVENTF_EXTENDEDKEY
var extendedVK = map[uint16]bool{
	0x21: true, 0x22: true, 0x23: true, 0x24: true,
	0x25: true, 0x26: true, 0x27: true, 0x28: true,
	0x2D: true, 0x2E: true, 0x5B: true, 0x5C: true, 0x5D: true,
	0xA3: true, 0xA5: true,
}
