package collector

import (
	"sync"

	"Mansoor88-6/macro-plus/internal/models"

	"go.uber.org/zap"
)

// DefaultCapacity is the number of events a capture buffer holds before it
// starts evicting the oldest entries
const DefaultCapacity = 10000

// CaptureBuffer is a bounded FIFO fed by input callbacks during recording.
// When full, a push evicts the oldest event.
type CaptureBuffer struct {
	mu      sync.Mutex
	events  []models.InputEvent
	head    int // index of the oldest event
	count   int
	evicted int
	logger  *zap.Logger
}

// NewCaptureBuffer creates a capture buffer with the given capacity
func NewCaptureBuffer(capacity int, logger *zap.Logger) *CaptureBuffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &CaptureBuffer{
		events: make([]models.InputEvent, capacity),
		logger: logger,
	}
}

// Push appends an event, evicting the oldest one if the buffer is full
func (cb *CaptureBuffer) Push(event models.InputEvent) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	capacity := len(cb.events)
	if cb.count == capacity {
		cb.events[cb.head] = event
		cb.head = (cb.head + 1) % capacity
		cb.evicted++
		if cb.evicted == 1 {
			cb.logger.Debug("Capture buffer full, evicting oldest events", zap.Int("capacity", capacity))
		}
		return
	}

	cb.events[(cb.head+cb.count)%capacity] = event
	cb.count++
}

// DrainAll copies out every buffered event in insertion order and clears the buffer
func (cb *CaptureBuffer) DrainAll() []models.InputEvent {
	cb.mu.Lock()
	capacity := len(cb.events)
	out := make([]models.InputEvent, cb.count)
	for i := 0; i < cb.count; i++ {
		idx := (cb.head + i) % capacity
		out[i] = cb.events[idx]
		cb.events[idx] = nil
	}
	cb.head = 0
	cb.count = 0
	cb.evicted = 0
	cb.mu.Unlock()

	return out
}

// Clear drops all buffered events
func (cb *CaptureBuffer) Clear() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	for i := range cb.events {
		cb.events[i] = nil
	}
	cb.head = 0
	cb.count = 0
	cb.evicted = 0
}

// Len returns the number of buffered events
func (cb *CaptureBuffer) Len() int {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.count
}

// Evicted returns how many events were evicted since the last drain
func (cb *CaptureBuffer) Evicted() int {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.evicted
}

// Capacity returns the maximum number of buffered events
func (cb *CaptureBuffer) Capacity() int {
	return len(cb.events)
}
