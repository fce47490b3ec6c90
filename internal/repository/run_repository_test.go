package repository

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"Mansoor88-6/macro-plus/internal/database"
	"Mansoor88-6/macro-plus/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func newTestRepository(t *testing.T) *RunRepository {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "history.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("database.New() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewRunRepository(db.DB)
}

var base = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func TestRunRepository_CreateAndFinish(t *testing.T) {
	repo := newTestRepository(t)

	run := &models.PlaybackRun{Macro: "login", Speed: 2, Repeat: 3, StartedAt: base}
	if err := repo.Create(run); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := uuid.Parse(run.ID); err != nil {
		t.Fatalf("Create() assigned id %q, want a uuid", run.ID)
	}

	pending, err := repo.GetByID(run.ID)
	if err != nil {
		t.Fatal(err)
	}
	if pending.FinishedAt != nil {
		t.Error("unfinished run has a finish time")
	}

	outcome := models.RunOutcome{
		FinishedAt:      base.Add(5 * time.Second),
		Iterations:      2,
		EventsSimulated: 17,
		KeyFailures:     1,
		Cancelled:       true,
	}
	if err := repo.Finish(run.ID, outcome); err != nil {
		t.Fatalf("Finish() error = %v", err)
	}

	got, err := repo.GetByID(run.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Macro != "login" || got.Speed != 2 || got.Repeat != 3 {
		t.Errorf("unexpected run %+v", got)
	}
	if !got.StartedAt.Equal(base) {
		t.Errorf("StartedAt = %v, want %v", got.StartedAt, base)
	}
	if got.FinishedAt == nil || !got.FinishedAt.Equal(outcome.FinishedAt) {
		t.Errorf("FinishedAt = %v, want %v", got.FinishedAt, outcome.FinishedAt)
	}
	if got.Iterations != 2 || got.EventsSimulated != 17 || got.KeyFailures != 1 || !got.Cancelled {
		t.Errorf("outcome not stored: %+v", got)
	}
}

func TestRunRepository_NotFound(t *testing.T) {
	repo := newTestRepository(t)

	if _, err := repo.GetByID("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("GetByID() error = %v, want ErrRunNotFound", err)
	}
	if err := repo.Finish("nope", models.RunOutcome{FinishedAt: base}); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Finish() error = %v, want ErrRunNotFound", err)
	}
}

func TestRunRepository_List(t *testing.T) {
	repo := newTestRepository(t)

	for i, name := range []string{"a", "b", "a", "a"} {
		run := &models.PlaybackRun{Macro: name, Speed: 1, Repeat: 1, StartedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := repo.Create(run); err != nil {
			t.Fatal(err)
		}
	}

	all, err := repo.List("", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 4 {
		t.Fatalf("List(all) returned %d runs, want 4", len(all))
	}
	if !all[0].StartedAt.After(all[1].StartedAt) {
		t.Error("runs should be listed newest first")
	}

	onlyA, err := repo.List("a", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(onlyA) != 2 {
		t.Fatalf("List(a, 2) returned %d runs, want 2", len(onlyA))
	}
	for _, run := range onlyA {
		if run.Macro != "a" {
			t.Errorf("List(a) returned run of %q", run.Macro)
		}
	}
	if !onlyA[0].StartedAt.Equal(base.Add(3 * time.Minute)) {
		t.Errorf("newest run of a started at %v", onlyA[0].StartedAt)
	}
}
