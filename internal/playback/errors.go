package playback

import (
	"errors"
	"fmt"

	"Mansoor88-6/macro-plus/internal/models"
)

var (
	ErrEmptyMacro     = errors.New("macro has no events")
	ErrAlreadyPlaying = errors.New("already playing")
	ErrInvalidSpeed   = errors.New("speed must be a positive number")
	ErrInvalidRepeat  = errors.New("repeat must be zero or greater")
)

// KeySynthesisError reports a key event that could not be simulated.
// Playback logs it and moves on to the next event.
type KeySynthesisError struct {
	Index int
	Key   models.KeyID
	Err   error
}

func (e *KeySynthesisError) Error() string {
	return fmt.Sprintf("key synthesis failed for %q at event %d: %v", e.Key, e.Index, e.Err)
}

func (e *KeySynthesisError) Unwrap() error {
	return e.Err
}
