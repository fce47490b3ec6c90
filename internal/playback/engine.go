package playback

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"Mansoor88-6/macro-plus/internal/clock"
	"Mansoor88-6/macro-plus/internal/models"
	"Mansoor88-6/macro-plus/internal/platform"

	"go.uber.org/zap"
)

const (
	DefaultSettleInterval     = 100 * time.Millisecond
	DefaultInterpolationSteps = 5
	DefaultInterpolationDelay = time.Millisecond
)

// Options tunes playback pacing
type Options struct {
	// SettleInterval is the pause between two iterations of a repeated macro.
	SettleInterval     time.Duration
	InterpolationSteps int
	InterpolationDelay time.Duration
}

// Result summarises a finished playback
type Result struct {
	Iterations      int
	EventsSimulated int
	KeyFailures     int
	Cancelled       bool
	Elapsed         time.Duration
}

// Engine replays event sequences through an input synthesizer on a background goroutine
type Engine struct {
	synth  platform.InputSynthesizer
	clock  clock.Clock
	opts   Options
	logger *zap.Logger

	mu      sync.Mutex
	playing atomic.Bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewEngine creates a new playback engine
func NewEngine(synth platform.InputSynthesizer, clk clock.Clock, opts Options, logger *zap.Logger) *Engine {
	if opts.SettleInterval <= 0 {
		opts.SettleInterval = DefaultSettleInterval
	}
	if opts.InterpolationSteps <= 0 {
		opts.InterpolationSteps = DefaultInterpolationSteps
	}
	if opts.InterpolationDelay <= 0 {
		opts.InterpolationDelay = DefaultInterpolationDelay
	}
	return &Engine{
		synth:  synth,
		clock:  clk,
		opts:   opts,
		logger: logger,
	}
}

// Play starts replaying events and returns immediately.
// A repeat of 0 loops until Stop is called or ctx is cancelled.
// onDone, if non-nil, is called exactly once when playback ends.
func (e *Engine) Play(ctx context.Context, events []models.InputEvent, speed float64, repeat int, onDone func(Result)) error {
	if len(events) == 0 {
		return ErrEmptyMacro
	}
	if speed <= 0 || math.IsNaN(speed) || math.IsInf(speed, 0) {
		return ErrInvalidSpeed
	}
	if repeat < 0 {
		return ErrInvalidRepeat
	}

	e.mu.Lock()
	if e.playing.Load() {
		e.mu.Unlock()
		return ErrAlreadyPlaying
	}
	playCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	e.cancel = cancel
	e.done = done
	e.playing.Store(true)
	e.mu.Unlock()

	sequence := make([]models.InputEvent, len(events))
	copy(sequence, events)

	e.logger.Info("Playback started",
		zap.Int("event_count", len(sequence)),
		zap.Float64("speed", speed),
		zap.Int("repeat", repeat),
	)

	go func() {
		result := e.run(playCtx, sequence, speed, repeat)

		cancel()
		e.mu.Lock()
		e.cancel = nil
		e.playing.Store(false)
		e.mu.Unlock()

		e.logger.Info("Playback finished",
			zap.Int("iterations", result.Iterations),
			zap.Int("events_simulated", result.EventsSimulated),
			zap.Int("key_failures", result.KeyFailures),
			zap.Bool("cancelled", result.Cancelled),
			zap.Duration("elapsed", result.Elapsed),
		)

		if onDone != nil {
			onDone(result)
		}
		close(done)
	}()

	return nil
}

// Stop cancels the current playback. Safe to call when idle.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancel != nil {
		e.cancel()
	}
}

// IsPlaying reports whether a playback is in progress
func (e *Engine) IsPlaying() bool {
	return e.playing.Load()
}

// Wait blocks until the current playback, if any, has finished and its
// completion callback has returned
func (e *Engine) Wait() {
	e.mu.Lock()
	done := e.done
	e.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (e *Engine) run(ctx context.Context, events []models.InputEvent, speed float64, repeat int) (result Result) {
	start := e.clock.Now()
	defer func() {
		result.Elapsed = e.clock.Since(start)
	}()

	for iteration := 0; repeat == 0 || iteration < repeat; iteration++ {
		if ctx.Err() != nil {
			result.Cancelled = true
			return result
		}
		if iteration > 0 && !e.sleep(ctx, e.opts.SettleInterval) {
			result.Cancelled = true
			return result
		}
		if !e.runIteration(ctx, events, speed, &result) {
			result.Cancelled = true
			return result
		}
		result.Iterations++
	}
	return result
}

// runIteration plays the sequence once, anchoring every event to the
// iteration start. It returns false if playback was cancelled.
func (e *Engine) runIteration(ctx context.Context, events []models.InputEvent, speed float64, result *Result) bool {
	iterationStart := e.clock.Now()
	var lastMove *models.PointerMove

	for i, event := range events {
		if ctx.Err() != nil {
			return false
		}
		target := iterationStart.Add(time.Duration(float64(event.Offset()) / speed))
		if !e.sleep(ctx, target.Sub(e.clock.Now())) {
			return false
		}

		switch ev := event.(type) {
		case models.KeyDown:
			e.simulateKey(i, ev.Key, true, result)
			lastMove = nil
		case models.KeyUp:
			e.simulateKey(i, ev.Key, false, result)
			lastMove = nil
		case models.PointerButton:
			e.simulateButton(ev)
			lastMove = nil
		case models.PointerMove:
			if lastMove != nil {
				if !e.interpolate(ctx, *lastMove, ev) {
					return false
				}
			} else if err := e.synth.MovePointer(ev.X, ev.Y); err != nil {
				e.logger.Warn("Failed to move pointer", zap.Int("index", i), zap.Error(err))
			}
			lastMove = &ev
		}
		result.EventsSimulated++
	}
	return true
}

func (e *Engine) simulateKey(index int, id models.KeyID, pressed bool, result *Result) {
	key, err := models.ParseKeyID(id)
	if err == nil {
		if pressed {
			err = e.synth.KeyDown(key)
		} else {
			err = e.synth.KeyUp(key)
		}
	}
	if err != nil {
		result.KeyFailures++
		e.logger.Warn("Skipping key event", zap.Error(&KeySynthesisError{Index: index, Key: id, Err: err}))
	}
}

func (e *Engine) simulateButton(ev models.PointerButton) {
	if err := e.synth.MovePointer(ev.X, ev.Y); err != nil {
		e.logger.Warn("Failed to move pointer", zap.Error(err))
	}
	if err := e.synth.PointerButton(ev.Button, ev.Pressed); err != nil {
		e.logger.Warn("Failed to synthesize pointer button",
			zap.String("button", ev.Button.String()),
			zap.Bool("pressed", ev.Pressed),
			zap.Error(err),
		)
	}
}

// interpolate glides the pointer from one recorded sample to the next
func (e *Engine) interpolate(ctx context.Context, from, to models.PointerMove) bool {
	points := Interpolate(from.X, from.Y, to.X, to.Y, e.opts.InterpolationSteps)
	for i, p := range points {
		if ctx.Err() != nil {
			return false
		}
		if i > 0 && !e.sleep(ctx, e.opts.InterpolationDelay) {
			return false
		}
		if err := e.synth.MovePointer(p.X, p.Y); err != nil {
			e.logger.Warn("Failed to move pointer", zap.Error(err))
		}
	}
	return true
}

// sleep waits for d unless ctx is cancelled first.
// It returns false once cancellation has been observed.
func (e *Engine) sleep(ctx context.Context, d time.Duration) bool {
	if d > 0 {
		select {
		case <-ctx.Done():
			return false
		case <-e.clock.After(d):
		}
	}
	return ctx.Err() == nil
}
