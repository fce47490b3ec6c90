package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"Mansoor88-6/macro-plus/internal/clock"
	"Mansoor88-6/macro-plus/internal/models"
	"Mansoor88-6/macro-plus/internal/notify"
	"Mansoor88-6/macro-plus/internal/playback"
	"Mansoor88-6/macro-plus/internal/recorder"
	"Mansoor88-6/macro-plus/internal/settings"
	"Mansoor88-6/macro-plus/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrBusy is returned when recording and playback would overlap
	ErrBusy   = errors.New("busy: recording and playback cannot run together")
	ErrClosed = errors.New("macro service closed")
)

// State is the combined state of the session
type State string

const (
	StateIdle      State = "idle"
	StateRecording State = "recording"
	StatePlaying   State = "playing"
)

// Status is a snapshot of the session for observers
type Status struct {
	State           State   `json:"state" yaml:"state"`
	Macro           string  `json:"macro,omitempty" yaml:"macro,omitempty"`
	EventCount      int     `json:"event_count" yaml:"event_count"`
	DurationSeconds float64 `json:"duration" yaml:"duration"`
	Speed           float64 `json:"speed" yaml:"speed"`
	Repeat          int     `json:"repeat" yaml:"repeat"`
}

// MacroStore persists named macros
type MacroStore interface {
	Save(m *models.Macro) error
	Load(name string) (*models.Macro, error)
	Delete(name string) error
	List() ([]models.MacroSummary, error)
}

// RunHistory records playback runs
type RunHistory interface {
	Create(run *models.PlaybackRun) error
	Finish(id string, outcome models.RunOutcome) error
	List(macro string, limit int) ([]*models.PlaybackRun, error)
}

// MacroService owns the recording session, the playback engine and the
// current macro. Front ends (hotkeys, tray, control API, CLI) only call it.
type MacroService struct {
	session      *recorder.Session
	engine       *playback.Engine
	store        MacroStore
	history      RunHistory
	notifier     notify.Notifier
	clock        clock.Clock
	settingsPath string
	logger       *zap.Logger

	mu          sync.Mutex
	current     *models.Macro
	speed       float64
	repeat      int
	subscribers []func(Status)
	closed      bool

	ctx    context.Context
	cancel context.CancelFunc
}

// NewMacroService creates the service and restores the saved playback settings.
// history and notifier may be nil.
func NewMacroService(
	session *recorder.Session,
	engine *playback.Engine,
	macroStore MacroStore,
	history RunHistory,
	notifier notify.Notifier,
	clk clock.Clock,
	settingsPath string,
	logger *zap.Logger,
) *MacroService {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	prefs := settings.Load(settingsPath, logger)
	ctx, cancel := context.WithCancel(context.Background())

	return &MacroService{
		session:      session,
		engine:       engine,
		store:        macroStore,
		history:      history,
		notifier:     notifier,
		clock:        clk,
		settingsPath: settingsPath,
		logger:       logger,
		speed:        prefs.Speed,
		repeat:       prefs.Repeat,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// StartRecording begins a new recording, discarding the unsaved current one
func (s *MacroService) StartRecording() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.engine.IsPlaying() {
		s.mu.Unlock()
		return ErrBusy
	}
	if err := s.session.Start(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	s.publish()
	return nil
}

// StopRecording ends the recording and makes it the current macro
func (s *MacroService) StopRecording() (*models.Macro, error) {
	s.mu.Lock()
	events, duration, err := s.session.Stop()
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.current = &models.Macro{
		Events:    events,
		CreatedAt: s.clock.Now(),
		Speed:     s.speed,
		Repeat:    s.repeat,
	}
	m := copyMacro(s.current)
	s.mu.Unlock()

	s.publish()
	s.notifyUser("Recording stopped", fmt.Sprintf("Recorded %d events, %.1fs", len(events), models.Seconds(duration)))
	return m, nil
}

// ToggleRecording starts recording when idle and stops it when recording
func (s *MacroService) ToggleRecording() error {
	if s.session.IsRecording() {
		_, err := s.StopRecording()
		if errors.Is(err, recorder.ErrNotRecording) {
			return nil
		}
		return err
	}
	return s.StartRecording()
}

// Play replays the current macro with the current speed and repeat settings
func (s *MacroService) Play() error {
	s.mu.Lock()
	if err := s.startPlaybackLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	s.publish()
	return nil
}

func (s *MacroService) startPlaybackLocked() error {
	if s.closed {
		return ErrClosed
	}
	if s.session.IsRecording() {
		return ErrBusy
	}
	if s.current == nil || len(s.current.Events) == 0 {
		return playback.ErrEmptyMacro
	}

	run := &models.PlaybackRun{
		ID:        uuid.New().String(),
		Macro:     s.current.Name,
		Speed:     s.speed,
		Repeat:    s.repeat,
		StartedAt: s.clock.Now(),
	}
	// The run row must exist before the completion callback finishes it.
	recorded := make(chan struct{})

	err := s.engine.Play(s.ctx, s.current.Events, s.speed, s.repeat, func(result playback.Result) {
		<-recorded
		s.finishRun(run, result)
	})
	if err != nil {
		return err
	}

	if s.history != nil {
		if err := s.history.Create(run); err != nil {
			s.logger.Warn("Failed to record playback run", zap.String("run_id", run.ID), zap.Error(err))
		}
	}
	close(recorded)
	return nil
}

// StopPlayback cancels the running playback, if any
func (s *MacroService) StopPlayback() {
	s.engine.Stop()
}

// StopAll stops recording when recording, otherwise stops playback
func (s *MacroService) StopAll() {
	if s.session.IsRecording() {
		if _, err := s.StopRecording(); err != nil && !errors.Is(err, recorder.ErrNotRecording) {
			s.logger.Warn("Failed to stop recording", zap.Error(err))
		}
		return
	}
	s.StopPlayback()
}

// SaveCurrent stores the current macro under name with the current playback settings
func (s *MacroService) SaveCurrent(name string) error {
	if err := store.ValidateName(name); err != nil {
		return err
	}

	s.mu.Lock()
	if s.current == nil || len(s.current.Events) == 0 {
		s.mu.Unlock()
		return playback.ErrEmptyMacro
	}
	m := copyMacro(s.current)
	m.Name = name
	m.Speed = s.speed
	m.Repeat = s.repeat
	if m.CreatedAt.IsZero() {
		m.CreatedAt = s.clock.Now()
	}
	s.mu.Unlock()

	if err := s.store.Save(m); err != nil {
		return err
	}

	s.mu.Lock()
	s.current = m
	s.mu.Unlock()

	s.publish()
	s.notifyUser("Macro saved", fmt.Sprintf("Saved '%s'", name))
	return nil
}

// Load replaces the current macro with a stored one and adopts its playback settings
func (s *MacroService) Load(name string) (*models.Macro, error) {
	if s.session.IsRecording() {
		return nil, ErrBusy
	}
	m, err := s.store.Load(name)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.current = m
	s.speed = m.Speed
	s.repeat = m.Repeat
	out := copyMacro(m)
	s.mu.Unlock()

	s.logger.Info("Macro loaded",
		zap.String("name", name),
		zap.Int("event_count", len(m.Events)),
	)
	s.publish()
	return out, nil
}

// Delete removes a stored macro. The current macro stays loaded.
func (s *MacroService) Delete(name string) error {
	if err := s.store.Delete(name); err != nil {
		return err
	}
	s.publish()
	return nil
}

// List returns the stored macros sorted by name
func (s *MacroService) List() ([]models.MacroSummary, error) {
	return s.store.List()
}

// Current returns a copy of the current macro, or nil if none
func (s *MacroService) Current() *models.Macro {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	return copyMacro(s.current)
}

// HasMacro reports whether a playable macro is loaded
func (s *MacroService) HasMacro() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil && len(s.current.Events) > 0
}

// Status returns a snapshot of the session. While recording, EventCount is
// the number of events captured so far.
func (s *MacroService) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusLocked()
}

func (s *MacroService) statusLocked() Status {
	st := Status{
		State:  StateIdle,
		Speed:  s.speed,
		Repeat: s.repeat,
	}
	switch {
	case s.session.IsRecording():
		st.State = StateRecording
		st.EventCount = s.session.Buffered()
		return st
	case s.engine.IsPlaying():
		st.State = StatePlaying
	}
	if s.current != nil {
		st.Macro = s.current.Name
		st.EventCount = len(s.current.Events)
		st.DurationSeconds = models.Seconds(s.current.Duration())
	}
	return st
}

// SetSpeed sets the playback speed multiplier used by the next Play
func (s *MacroService) SetSpeed(speed float64) error {
	if speed <= 0 || math.IsNaN(speed) || math.IsInf(speed, 0) {
		return playback.ErrInvalidSpeed
	}
	s.mu.Lock()
	s.speed = speed
	s.mu.Unlock()
	s.publish()
	return nil
}

// SetRepeat sets the repeat count used by the next Play. 0 repeats until stopped.
func (s *MacroService) SetRepeat(repeat int) error {
	if repeat < 0 {
		return playback.ErrInvalidRepeat
	}
	s.mu.Lock()
	s.repeat = repeat
	s.mu.Unlock()
	s.publish()
	return nil
}

// History returns recent playback runs, newest first. An empty name lists all macros.
func (s *MacroService) History(name string, limit int) ([]*models.PlaybackRun, error) {
	if s.history == nil {
		return nil, nil
	}
	return s.history.List(name, limit)
}

// Subscribe registers fn to receive a status snapshot after every state change
func (s *MacroService) Subscribe(fn func(Status)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// Wait blocks until the current playback, if any, has fully finished
func (s *MacroService) Wait() {
	s.engine.Wait()
}

// Close stops any activity and saves the playback settings
func (s *MacroService) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	if s.session.IsRecording() {
		if _, _, err := s.session.Stop(); err != nil && !errors.Is(err, recorder.ErrNotRecording) {
			s.logger.Warn("Failed to stop recording on close", zap.Error(err))
		}
	}
	s.cancel()
	s.engine.Wait()

	s.mu.Lock()
	prefs := settings.Settings{Speed: s.speed, Repeat: s.repeat}
	s.mu.Unlock()

	if err := settings.Save(s.settingsPath, prefs); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	s.logger.Info("Settings saved", zap.Float64("speed", prefs.Speed), zap.Int("repeat", prefs.Repeat))
	return nil
}

func (s *MacroService) finishRun(run *models.PlaybackRun, result playback.Result) {
	if s.history != nil {
		outcome := models.RunOutcome{
			FinishedAt:      s.clock.Now(),
			Iterations:      result.Iterations,
			EventsSimulated: result.EventsSimulated,
			KeyFailures:     result.KeyFailures,
			Cancelled:       result.Cancelled,
		}
		if err := s.history.Finish(run.ID, outcome); err != nil {
			s.logger.Warn("Failed to finish playback run", zap.String("run_id", run.ID), zap.Error(err))
		}
	}

	s.publish()
	if result.Cancelled {
		s.notifyUser("Playback stopped", fmt.Sprintf("Stopped after %d events", result.EventsSimulated))
	} else {
		s.notifyUser("Playback complete", fmt.Sprintf("Played %d events, %d iterations", result.EventsSimulated, result.Iterations))
	}
}

func (s *MacroService) publish() {
	s.mu.Lock()
	status := s.statusLocked()
	subscribers := make([]func(Status), len(s.subscribers))
	copy(subscribers, s.subscribers)
	s.mu.Unlock()

	for _, fn := range subscribers {
		fn(status)
	}
}

func (s *MacroService) notifyUser(title, message string) {
	if err := s.notifier.Notify(title, message); err != nil {
		s.logger.Debug("Notification not shown", zap.Error(err))
	}
}

func copyMacro(m *models.Macro) *models.Macro {
	out := *m
	out.Events = make([]models.InputEvent, len(m.Events))
	copy(out.Events, m.Events)
	return &out
}
