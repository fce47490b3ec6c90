package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"Mansoor88-6/macro-plus/internal/models"

	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(filepath.Join(t.TempDir(), "macros"), zap.NewNop())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	return s
}

func sampleMacro(name string) *models.Macro {
	return &models.Macro{
		Name: name,
		Events: []models.InputEvent{
			models.KeyDown{Key: "Key.shift", At: 0},
			models.KeyDown{Key: "A", At: 120 * time.Millisecond},
			models.KeyUp{Key: "A", At: 180 * time.Millisecond},
			models.KeyUp{Key: "Key.shift", At: 250 * time.Millisecond},
			models.PointerMove{X: 0, Y: 0, At: 300 * time.Millisecond},
			models.PointerMove{X: -15, Y: 1080, At: 317 * time.Millisecond},
			models.PointerButton{X: -15, Y: 1080, Button: models.ButtonSecondary, Pressed: true, At: 400*time.Millisecond + 123456},
			models.PointerButton{X: -15, Y: 1080, Button: models.ButtonSecondary, Pressed: false, At: 480 * time.Millisecond},
			models.KeyDown{Key: "<65437>", At: 2*time.Second + 1},
		},
		CreatedAt: time.Date(2024, 3, 9, 14, 30, 0, 123456789, time.UTC),
		Speed:     1.5,
		Repeat:    0,
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	want := sampleMacro("login flow")

	if err := s.Save(want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := s.Load("login flow")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got.Name != want.Name {
		t.Errorf("Name = %q, want %q", got.Name, want.Name)
	}
	if len(got.Events) != len(want.Events) {
		t.Fatalf("got %d events, want %d", len(got.Events), len(want.Events))
	}
	for i := range want.Events {
		if got.Events[i] != want.Events[i] {
			t.Errorf("event %d = %+v, want %+v", i, got.Events[i], want.Events[i])
		}
	}
	if !got.CreatedAt.Equal(want.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, want.CreatedAt)
	}
	if got.Speed != 1.5 || got.Repeat != 0 {
		t.Errorf("Speed/Repeat = %v/%d, want 1.5/0", got.Speed, got.Repeat)
	}
}

func TestFileStore_SaveOverwrites(t *testing.T) {
	s := newTestStore(t)

	first := sampleMacro("m")
	if err := s.Save(first); err != nil {
		t.Fatal(err)
	}
	second := &models.Macro{
		Name:   "m",
		Events: []models.InputEvent{models.KeyDown{Key: "z", At: 0}},
		Speed:  1,
		Repeat: 2,
	}
	if err := s.Save(second); err != nil {
		t.Fatal(err)
	}

	got, err := s.Load("m")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Events) != 1 || got.Repeat != 2 {
		t.Errorf("Load() = %d events, repeat %d; want the second macro", len(got.Events), got.Repeat)
	}

	entries, _ := os.ReadDir(s.Dir())
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want 1 (no temp files left behind)", len(entries))
	}
}

func TestFileStore_NotFound(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Load("missing"); !errors.Is(err, ErrMacroNotFound) {
		t.Errorf("Load() error = %v, want ErrMacroNotFound", err)
	}
	if err := s.Delete("missing"); !errors.Is(err, ErrMacroNotFound) {
		t.Errorf("Delete() error = %v, want ErrMacroNotFound", err)
	}
}

func TestFileStore_DeleteThenLoad(t *testing.T) {
	s := newTestStore(t)
	if err := s.Save(sampleMacro("gone")); err != nil {
		t.Fatal(err)
	}
	if !s.Exists("gone") {
		t.Fatal("Exists() = false after save")
	}
	if err := s.Delete("gone"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Load("gone"); !errors.Is(err, ErrMacroNotFound) {
		t.Errorf("Load() after delete error = %v, want ErrMacroNotFound", err)
	}
	if s.Exists("gone") {
		t.Error("Exists() = true after delete")
	}
}

func TestFileStore_ListSkipsCorrupt(t *testing.T) {
	s := newTestStore(t)
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := s.Save(sampleMacro(name)); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(s.Dir(), "broken.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(s.Dir(), "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatal(err)
	}

	summaries, err := s.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	want := []string{"alpha", "mid", "zeta"}
	if len(summaries) != len(want) {
		t.Fatalf("List() returned %d entries, want %d", len(summaries), len(want))
	}
	for i, sum := range summaries {
		if sum.Name != want[i] {
			t.Errorf("entry %d = %q, want %q", i, sum.Name, want[i])
		}
		if sum.EventCount != 9 {
			t.Errorf("%s EventCount = %d, want 9", sum.Name, sum.EventCount)
		}
		if sum.DurationSeconds < 2 || sum.DurationSeconds > 2.001 {
			t.Errorf("%s DurationSeconds = %v, want ~2.0", sum.Name, sum.DurationSeconds)
		}
	}
}

func TestFileStore_LoadCorruptIsStorageError(t *testing.T) {
	s := newTestStore(t)
	if err := os.WriteFile(filepath.Join(s.Dir(), "bad.json"), []byte(`{"name":"bad","events":[{"type":"teleport"}]}`), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := s.Load("bad")
	var storageErr *StorageError
	if !errors.As(err, &storageErr) {
		t.Fatalf("Load() error = %v, want *StorageError", err)
	}
	if storageErr.Op != "load" || storageErr.Name != "bad" {
		t.Errorf("StorageError = %+v", storageErr)
	}
}

func TestFileStore_ReadsLegacyFiles(t *testing.T) {
	s := newTestStore(t)
	legacy := `{
  "name": "old",
  "events": [
    {"type": "key_press", "key": "Key.ctrl_l", "timestamp": 0.0},
    {"type": "key_press", "key": "'c'", "timestamp": 0.25},
    {"type": "mouse_move", "x": 10, "y": 20, "timestamp": 0.5},
    {"type": "mouse_click", "x": 10, "y": 20, "button": "Button.left", "pressed": true, "timestamp": 0.75}
  ],
  "created": "2024-05-01T09:15:30.500000",
  "duration": 0.75,
  "event_count": 4
}`
	if err := os.WriteFile(filepath.Join(s.Dir(), "old.json"), []byte(legacy), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := s.Load("old")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if m.Speed != 1.0 || m.Repeat != 1 {
		t.Errorf("missing speed/repeat should default to 1.0/1, got %v/%d", m.Speed, m.Repeat)
	}
	if m.CreatedAt.Year() != 2024 || m.CreatedAt.Nanosecond() != 500000000 {
		t.Errorf("CreatedAt = %v", m.CreatedAt)
	}
	wantEvents := []models.InputEvent{
		models.KeyDown{Key: "Key.ctrl_l", At: 0},
		models.KeyDown{Key: "'c'", At: 250 * time.Millisecond},
		models.PointerMove{X: 10, Y: 20, At: 500 * time.Millisecond},
		models.PointerButton{X: 10, Y: 20, Button: models.ButtonPrimary, Pressed: true, At: 750 * time.Millisecond},
	}
	for i := range wantEvents {
		if m.Events[i] != wantEvents[i] {
			t.Errorf("event %d = %+v, want %+v", i, m.Events[i], wantEvents[i])
		}
	}
}

func TestFileStore_InvalidNames(t *testing.T) {
	s := newTestStore(t)
	invalid := []string{
		"", "   ", "a/b", `a\b`, "..", " padded",
		"a:b", "what?", "star*", `say "hi"`, "<tag>", "pipe|d", "tab\there", "nul\x00byte",
		"CON", "con", "nul.txt", "Com1", "lpt9.backup", "aux .x",
	}
	for _, name := range invalid {
		m := sampleMacro(name)
		if err := s.Save(m); !errors.Is(err, ErrInvalidName) {
			t.Errorf("Save(%q) error = %v, want ErrInvalidName", name, err)
		}
		if _, err := s.Load(name); !errors.Is(err, ErrInvalidName) {
			t.Errorf("Load(%q) error = %v, want ErrInvalidName", name, err)
		}
	}
}

func TestValidateName_AcceptsOrdinaryNames(t *testing.T) {
	for _, name := range []string{"greet", "login flow", "v1.2", "café", "console", "COM10", "nullable", "lpt"} {
		if err := ValidateName(name); err != nil {
			t.Errorf("ValidateName(%q) = %v, want nil", name, err)
		}
	}
}

func TestFileStore_WritesPersistedFormat(t *testing.T) {
	s := newTestStore(t)
	m := &models.Macro{
		Name: "fmt",
		Events: []models.InputEvent{
			models.PointerButton{X: 0, Y: 0, Button: models.ButtonMiddle, Pressed: false, At: 0},
		},
		Speed:  2,
		Repeat: 3,
	}
	if err := s.Save(m); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(s.Dir(), "fmt.json"))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"type": "mouse_click"`, `"button": "Button.middle"`, `"pressed": false`, `"x": 0`, `"event_count": 1`, `"repeat": 3`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("file missing %s:\n%s", want, data)
		}
	}
}
