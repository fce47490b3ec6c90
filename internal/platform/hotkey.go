package platform

import (
	"fmt"
	"strings"

	"Mansoor88-6/macro-plus/internal/models"
)

// Chord is a hotkey: a key plus the modifiers held with it
type Chord struct {
	Ctrl  bool
	Alt   bool
	Shift bool
	Super bool
	Key   models.Key
}

// ParseChord parses combinations such as "F9" or "ctrl+shift+r"
func ParseChord(s string) (Chord, error) {
	var c Chord
	parts := strings.Split(strings.TrimSpace(s), "+")
	if len(parts) == 0 || parts[0] == "" {
		return c, fmt.Errorf("empty hotkey")
	}

	for _, mod := range parts[:len(parts)-1] {
		switch strings.ToLower(strings.TrimSpace(mod)) {
		case "ctrl", "control":
			c.Ctrl = true
		case "alt":
			c.Alt = true
		case "shift":
			c.Shift = true
		case "super", "win", "cmd":
			c.Super = true
		default:
			return c, fmt.Errorf("invalid hotkey %q: unknown modifier %q", s, mod)
		}
	}

	last := strings.TrimSpace(parts[len(parts)-1])
	if last == "" {
		return c, fmt.Errorf("invalid hotkey %q: missing key", s)
	}
	if name := strings.ToLower(last); len([]rune(last)) > 1 {
		if !models.IsKnownKeyName(name) {
			return c, fmt.Errorf("invalid hotkey %q: unknown key %q", s, last)
		}
		c.Key = models.Key{Name: name}
		return c, nil
	}
	c.Key = models.Key{Char: []rune(strings.ToLower(last))[0]}
	return c, nil
}

// String formats the chord the way ParseChord accepts it
func (c Chord) String() string {
	var parts []string
	if c.Ctrl {
		parts = append(parts, "ctrl")
	}
	if c.Alt {
		parts = append(parts, "alt")
	}
	if c.Shift {
		parts = append(parts, "shift")
	}
	if c.Super {
		parts = append(parts, "super")
	}
	if c.Key.IsNamed() {
		parts = append(parts, strings.ToUpper(c.Key.Name[:1])+c.Key.Name[1:])
	} else {
		parts = append(parts, string(c.Key.Char))
	}
	return strings.Join(parts, "+")
}
