package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"Mansoor88-6/macro-plus/internal/models"

	"go.uber.org/zap"
)

const macroExt = ".json"

// FileStore keeps one JSON file per macro in a directory
type FileStore struct {
	dir    string
	logger *zap.Logger
}

// NewFileStore creates a store rooted at dir, creating the directory if needed
func NewFileStore(dir string, logger *zap.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create macros directory: %w", err)
	}
	return &FileStore{dir: dir, logger: logger}, nil
}

// Dir returns the directory holding the macro files
func (s *FileStore) Dir() string {
	return s.dir
}

// reservedNames are DOS device names Windows refuses as file names, with or
// without an extension
var reservedNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true, "COM5": true,
	"COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true, "LPT5": true,
	"LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// ValidateName checks that a macro name can be used as a file name on every
// supported OS, so macro directories can be shared between machines
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	switch {
	case trimmed == "":
		return fmt.Errorf("%w: empty", ErrInvalidName)
	case trimmed != name:
		return fmt.Errorf("%w: leading or trailing whitespace", ErrInvalidName)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidName, name)
	case strings.ContainsAny(name, `:*?"<>|`):
		return fmt.Errorf("%w: %q contains one of : * ? \" < > |", ErrInvalidName, name)
	case strings.ContainsFunc(name, unicode.IsControl):
		return fmt.Errorf("%w: %q contains a control character", ErrInvalidName, name)
	}

	base, _, _ := strings.Cut(name, ".")
	if reservedNames[strings.ToUpper(strings.TrimRight(base, " "))] {
		return fmt.Errorf("%w: %q is a reserved device name", ErrInvalidName, name)
	}
	return nil
}

// Save writes the macro, replacing any macro stored under the same name.
// The file is written to a temporary path and renamed into place.
func (s *FileStore) Save(m *models.Macro) error {
	if err := ValidateName(m.Name); err != nil {
		return err
	}

	data, err := encodeMacro(m)
	if err != nil {
		return &StorageError{Op: "save", Name: m.Name, Err: err}
	}

	path := s.path(m.Name)
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return &StorageError{Op: "save", Name: m.Name, Err: err}
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return &StorageError{Op: "save", Name: m.Name, Err: err}
	}

	s.logger.Info("Macro saved",
		zap.String("name", m.Name),
		zap.Int("event_count", len(m.Events)),
	)
	return nil
}

// Load reads the macro stored under name
func (s *FileStore) Load(name string) (*models.Macro, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMacroNotFound, name)
		}
		return nil, &StorageError{Op: "load", Name: name, Err: err}
	}

	m, err := decodeMacro(data)
	if err != nil {
		return nil, &StorageError{Op: "load", Name: name, Err: err}
	}
	// The file name is the storage key.
	m.Name = name
	return m, nil
}

// Delete removes the macro stored under name
func (s *FileStore) Delete(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	if err := os.Remove(s.path(name)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrMacroNotFound, name)
		}
		return &StorageError{Op: "delete", Name: name, Err: err}
	}

	s.logger.Info("Macro deleted", zap.String("name", name))
	return nil
}

// Exists reports whether a macro is stored under name
func (s *FileStore) Exists(name string) bool {
	if ValidateName(name) != nil {
		return false
	}
	info, err := os.Stat(s.path(name))
	return err == nil && !info.IsDir()
}

// List returns the summaries of all readable macros sorted by name.
// Unreadable or corrupt files are skipped.
func (s *FileStore) List() ([]models.MacroSummary, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, &StorageError{Op: "list", Name: s.dir, Err: err}
	}

	summaries := make([]models.MacroSummary, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != macroExt {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), macroExt)

		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			s.logger.Debug("Skipping unreadable macro", zap.String("file", entry.Name()), zap.Error(err))
			continue
		}
		summary, err := decodeSummary(data)
		if err != nil {
			s.logger.Debug("Skipping corrupt macro", zap.String("file", entry.Name()), zap.Error(err))
			continue
		}
		summary.Name = name
		summaries = append(summaries, summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Name < summaries[j].Name
	})
	return summaries, nil
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name+macroExt)
}
