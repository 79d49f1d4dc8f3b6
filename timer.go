package framebuf

import (
	"math"
	"time"
)

// Clock supplies timestamps to the frame timer.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock. time.Now carries a monotonic reading,
// so differences are immune to wall-clock adjustments.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// FrameTimer holds the timestamp of the previous presented frame. It only
// measures; it never drives simulation logic.
type FrameTimer struct {
	previous time.Time
}

// Start records the initialization time.
func (t *FrameTimer) Start(now time.Time) {
	t.previous = now
}

// Previous returns the timestamp of the last successful present.
func (t *FrameTimer) Previous() time.Time {
	return t.previous
}

// Mark returns now minus the previous timestamp and sets previous to the
// later of the two. A clock that steps backwards yields zero and leaves
// previous in place, so timestamps never decrease.
func (t *FrameTimer) Mark(now time.Time) time.Duration {
	elapsed := now.Sub(t.previous)
	if elapsed < 0 {
		return 0
	}
	t.previous = now
	return elapsed
}

// FrameTimingReport is the telemetry returned by a successful present.
type FrameTimingReport struct {
	// Frame is the 1-based index of the presented frame.
	Frame uint64

	// Elapsed is the wall-clock time since the previous present (or since
	// initialization for the first frame), in seconds. Never negative.
	Elapsed float64

	// Timestamp is when the frame was submitted.
	Timestamp time.Time
}

// Duration returns Elapsed as a time.Duration.
func (r FrameTimingReport) Duration() time.Duration {
	return time.Duration(math.Round(r.Elapsed * float64(time.Second)))
}
