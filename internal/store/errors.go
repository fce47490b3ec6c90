package store

import (
	"errors"
	"fmt"
)

var (
	ErrMacroNotFound = errors.New("macro not found")
	ErrInvalidName   = errors.New("invalid macro name")
)

// StorageError reports a macro file that could not be read or written
type StorageError struct {
	Op   string
	Name string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s macro %q: %v", e.Op, e.Name, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
