package framebuf

import (
	"sync"
	"time"
)

// InputKind identifies the type of an input event.
type InputKind uint8

const (
	// KeyDown is a key press.
	KeyDown InputKind = iota + 1

	// KeyUp is a key release.
	KeyUp

	// MouseDown is a mouse button press.
	MouseDown
)

// String returns a human-readable name for the kind.
func (k InputKind) String() string {
	switch k {
	case KeyDown:
		return "KeyDown"
	case KeyUp:
		return "KeyUp"
	case MouseDown:
		return "MouseDown"
	default:
		return "Unknown"
	}
}

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
)

// InputEvent is one keyboard or mouse event delivered by the platform.
type InputEvent struct {
	Kind InputKind

	// Key is the platform's key name for key events ("A", "ArrowLeft", ...).
	Key string

	// Rune is the typed character, if any.
	Rune rune

	// Button and X, Y are set for mouse events. X and Y are in surface
	// pixels with the origin at the top-left corner.
	Button MouseButton
	X, Y   float64

	Time time.Time
}

// DefaultInputQueueSize is the capacity used by NewInputQueue for n <= 0.
const DefaultInputQueueSize = 256

// InputQueue buffers input events between platform callbacks and the
// simulation. Any number of goroutines may Push; one consumer Drains.
//
// When the queue is full new events are dropped and counted, so a stalled
// consumer can never block the platform's event thread.
type InputQueue struct {
	mu      sync.Mutex
	events  []InputEvent
	limit   int
	dropped uint64
}

// NewInputQueue creates a queue holding at most n events.
func NewInputQueue(n int) *InputQueue {
	if n <= 0 {
		n = DefaultInputQueueSize
	}
	return &InputQueue{events: make([]InputEvent, 0, n), limit: n}
}

// Push appends ev. It reports false when the event was dropped.
func (q *InputQueue) Push(ev InputEvent) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.events) >= q.limit {
		q.dropped++
		return false
	}
	q.events = append(q.events, ev)
	return true
}

// Drain appends all queued events to dst in arrival order, empties the
// queue and returns the extended slice.
func (q *InputQueue) Drain(dst []InputEvent) []InputEvent {
	q.mu.Lock()
	defer q.mu.Unlock()
	dst = append(dst, q.events...)
	q.events = q.events[:0]
	return dst
}

// Len returns the number of queued events.
func (q *InputQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

// Dropped returns how many events were discarded because the queue was full.
func (q *InputQueue) Dropped() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}
