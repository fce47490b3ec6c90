package models

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// KeyID is a platform-neutral key identifier: either a named key in the form
// "Key.<name>" or a single printable character. It is persisted verbatim.
type KeyID string

// Button identifies a pointer button
type Button string

const (
	ButtonPrimary   Button = "primary"
	ButtonSecondary Button = "secondary"
	ButtonMiddle    Button = "middle"
)

const namedKeyPrefix = "Key."

var (
	ErrUnknownKey    = errors.New("unknown key identifier")
	ErrUnknownButton = errors.New("unknown pointer button")
)

// namedKeys is the set of symbolic key names a macro may contain
var namedKeys = map[string]struct{}{
	"alt": {}, "alt_l": {}, "alt_r": {}, "alt_gr": {},
	"backspace": {}, "caps_lock": {}, "cmd": {}, "cmd_l": {}, "cmd_r": {},
	"ctrl": {}, "ctrl_l": {}, "ctrl_r": {}, "delete": {}, "down": {}, "end": {},
	"enter": {}, "esc": {}, "home": {}, "insert": {}, "left": {}, "menu": {},
	"num_lock": {}, "page_down": {}, "page_up": {}, "pause": {}, "print_screen": {},
	"right": {}, "scroll_lock": {}, "shift": {}, "shift_l": {}, "shift_r": {},
	"space": {}, "tab": {}, "up": {},
	"media_play_pause": {}, "media_next": {}, "media_previous": {},
	"media_volume_up": {}, "media_volume_down": {}, "media_volume_mute": {},
	"f1": {}, "f2": {}, "f3": {}, "f4": {}, "f5": {}, "f6": {}, "f7": {}, "f8": {},
	"f9": {}, "f10": {}, "f11": {}, "f12": {}, "f13": {}, "f14": {}, "f15": {},
	"f16": {}, "f17": {}, "f18": {}, "f19": {}, "f20": {},
}

// Key is a resolved key identifier. Exactly one of Name or Char is set.
type Key struct {
	Name string
	Char rune
}

// IsNamed reports whether the key is a symbolic key rather than a character
func (k Key) IsNamed() bool {
	return k.Name != ""
}

// ID returns the canonical identifier for the key
func (k Key) ID() KeyID {
	if k.IsNamed() {
		return NamedKey(k.Name)
	}
	return CharKey(k.Char)
}

// NamedKey builds the identifier of a symbolic key such as "enter" or "f9"
func NamedKey(name string) KeyID {
	return KeyID(namedKeyPrefix + name)
}

// CharKey builds the identifier of a printable character
func CharKey(r rune) KeyID {
	return KeyID(string(r))
}

// IsKnownKeyName reports whether name is a recognised symbolic key name
func IsKnownKeyName(name string) bool {
	_, ok := namedKeys[name]
	return ok
}

// ParseKeyID resolves an identifier. Besides the canonical forms it accepts
// quoted characters ('a') and bare key names (enter).
func ParseKeyID(id KeyID) (Key, error) {
	s := string(id)
	if s == "" {
		return Key{}, fmt.Errorf("%w: empty", ErrUnknownKey)
	}

	if strings.HasPrefix(s, namedKeyPrefix) && len(s) > len(namedKeyPrefix) {
		name := strings.ToLower(s[len(namedKeyPrefix):])
		if IsKnownKeyName(name) {
			return Key{Name: name}, nil
		}
		return Key{}, fmt.Errorf("%w: %q", ErrUnknownKey, s)
	}

	if utf8.RuneCountInString(s) == 3 && strings.HasPrefix(s, "'") && strings.HasSuffix(s, "'") {
		r, _ := utf8.DecodeRuneInString(s[1:])
		return Key{Char: r}, nil
	}

	if utf8.RuneCountInString(s) == 1 {
		r, _ := utf8.DecodeRuneInString(s)
		if r == utf8.RuneError {
			return Key{}, fmt.Errorf("%w: %q", ErrUnknownKey, s)
		}
		return Key{Char: r}, nil
	}

	if name := strings.ToLower(s); IsKnownKeyName(name) {
		return Key{Name: name}, nil
	}

	return Key{}, fmt.Errorf("%w: %q", ErrUnknownKey, s)
}

// String returns the button name
func (b Button) String() string {
	return string(b)
}

// Persisted returns the on-disk spelling of the button
func (b Button) Persisted() string {
	switch b {
	case ButtonSecondary:
		return "Button.right"
	case ButtonMiddle:
		return "Button.middle"
	default:
		return "Button.left"
	}
}

// ParseButton accepts both the persisted spelling (Button.left) and the
// neutral names (primary, secondary, middle).
func ParseButton(s string) (Button, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.Contains(v, "left"), v == string(ButtonPrimary):
		return ButtonPrimary, nil
	case strings.Contains(v, "right"), v == string(ButtonSecondary):
		return ButtonSecondary, nil
	case strings.Contains(v, "middle"):
		return ButtonMiddle, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownButton, s)
	}
}
