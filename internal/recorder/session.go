package recorder

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"Mansoor88-6/macro-plus/internal/clock"
	"Mansoor88-6/macro-plus/internal/collector"
	"Mansoor88-6/macro-plus/internal/models"
	"Mansoor88-6/macro-plus/internal/platform"

	"go.uber.org/zap"
)

// State represents the recording state
type State string

const (
	StateIdle      State = "idle"
	StateRecording State = "recording"
)

// DefaultMoveInterval is the minimum spacing between two recorded pointer moves
const DefaultMoveInterval = 16 * time.Millisecond

var (
	ErrAlreadyRecording = errors.New("already recording")
	ErrNotRecording     = errors.New("not recording")
)

// Options tunes what a session records
type Options struct {
	MoveInterval time.Duration
	// IgnoreKeys are never recorded, typically the control hotkeys.
	IgnoreKeys []models.KeyID
}

// Session captures global input into a capture buffer between Start and Stop
type Session struct {
	capture      platform.InputCapture
	buffer       *collector.CaptureBuffer
	clock        clock.Clock
	moveInterval time.Duration
	ignore       map[models.KeyID]struct{}
	logger       *zap.Logger

	mu        sync.Mutex // serialises Start and Stop
	recording atomic.Bool
	startTime time.Time
	lastMove  atomic.Int64 // offset of the last recorded move, -1 if none
}

// NewSession creates a new recording session
func NewSession(
	capture platform.InputCapture,
	buffer *collector.CaptureBuffer,
	clk clock.Clock,
	opts Options,
	logger *zap.Logger,
) *Session {
	if opts.MoveInterval <= 0 {
		opts.MoveInterval = DefaultMoveInterval
	}
	ignore := make(map[models.KeyID]struct{}, len(opts.IgnoreKeys))
	for _, k := range opts.IgnoreKeys {
		ignore[k] = struct{}{}
	}
	s := &Session{
		capture:      capture,
		buffer:       buffer,
		clock:        clk,
		moveInterval: opts.MoveInterval,
		ignore:       ignore,
		logger:       logger,
	}
	s.lastMove.Store(-1)
	return s
}

// Start clears any previous recording and begins capturing input
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.recording.Load() {
		return ErrAlreadyRecording
	}

	s.buffer.Clear()
	s.startTime = s.clock.Now()
	s.lastMove.Store(-1)
	s.recording.Store(true)

	if err := s.capture.StartCapture(s.handleRawEvent); err != nil {
		s.recording.Store(false)
		return fmt.Errorf("failed to start input capture: %w", err)
	}

	s.logger.Info("Recording started",
		zap.Duration("move_interval", s.moveInterval),
		zap.Int("buffer_capacity", s.buffer.Capacity()),
	)
	return nil
}

// Stop ends capture and returns the finalized event sequence and its duration
func (s *Session) Stop() ([]models.InputEvent, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.recording.Load() {
		return nil, 0, ErrNotRecording
	}

	// Late callbacks become no-ops before the hooks are torn down.
	s.recording.Store(false)
	if err := s.capture.StopCapture(); err != nil {
		s.logger.Warn("Failed to stop input capture cleanly", zap.Error(err))
	}

	evicted := s.buffer.Evicted()
	events := normalizeOffsets(s.buffer.DrainAll())
	duration := models.SequenceDuration(events)

	if evicted > 0 {
		s.logger.Warn("Capture buffer overflowed, the start of the recording was lost",
			zap.Int("evicted", evicted),
			zap.Int("capacity", s.buffer.Capacity()),
		)
	}
	s.logger.Info("Recording stopped",
		zap.Int("event_count", len(events)),
		zap.Int("evicted", evicted),
		zap.Duration("duration", duration),
	)
	return events, duration, nil
}

// State returns the current recording state
func (s *Session) State() State {
	if s.recording.Load() {
		return StateRecording
	}
	return StateIdle
}

// IsRecording reports whether capture is active
func (s *Session) IsRecording() bool {
	return s.recording.Load()
}

// Buffered returns the number of events captured so far in the current recording
func (s *Session) Buffered() int {
	return s.buffer.Len()
}

func (s *Session) handleRawEvent(event platform.RawEvent) {
	if !s.recording.Load() {
		return
	}
	offset := s.clock.Since(s.startTime)

	switch event.Type {
	case platform.RawKeyDown:
		if _, skip := s.ignore[event.Key]; skip {
			return
		}
		s.buffer.Push(models.KeyDown{Key: event.Key, At: offset})
	case platform.RawKeyUp:
		if _, skip := s.ignore[event.Key]; skip {
			return
		}
		s.buffer.Push(models.KeyUp{Key: event.Key, At: offset})
	case platform.RawPointerButton:
		s.buffer.Push(models.PointerButton{
			X:       event.X,
			Y:       event.Y,
			Button:  event.Button,
			Pressed: event.Pressed,
			At:      offset,
		})
	case platform.RawPointerMove:
		last := s.lastMove.Load()
		if last >= 0 && offset-time.Duration(last) <= s.moveInterval {
			return
		}
		if !s.lastMove.CompareAndSwap(last, int64(offset)) {
			return
		}
		s.buffer.Push(models.PointerMove{X: event.X, Y: event.Y, At: offset})
	}
}

// normalizeOffsets keeps offsets non-decreasing. Callbacks on different hook
// threads may compute their offsets in one order and push in the other.
func normalizeOffsets(events []models.InputEvent) []models.InputEvent {
	var prev time.Duration
	for i, e := range events {
		if e.Offset() < prev {
			events[i] = models.WithOffset(e, prev)
			continue
		}
		prev = e.Offset()
	}
	return events
}
