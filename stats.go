package framebuf

import (
	"sync"
	"time"
)

// DefaultStatsWindow is the number of frames FrameStats averages over.
const DefaultStatsWindow = 120

// StatsSnapshot is a point-in-time summary of recent frame times.
type StatsSnapshot struct {
	Frames uint64 // total frames observed since the last Reset
	Last   time.Duration
	Min    time.Duration // over the window
	Max    time.Duration // over the window
	Mean   time.Duration // over the window
	FPS    float64       // 1/Mean, zero before the first frame
}

// FrameStats accumulates frame timing reports over a sliding window.
// It is safe for concurrent use: a presenter writes while a HUD or logger
// goroutine reads.
type FrameStats struct {
	mu     sync.Mutex
	window []time.Duration
	next   int
	filled bool
	frames uint64
	last   time.Duration
}

// NewFrameStats creates a FrameStats averaging over size frames.
// A size <= 0 selects DefaultStatsWindow.
func NewFrameStats(size int) *FrameStats {
	if size <= 0 {
		size = DefaultStatsWindow
	}
	return &FrameStats{window: make([]time.Duration, size)}
}

// Observe records one frame.
func (s *FrameStats) Observe(r FrameTimingReport) {
	d := r.Duration()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.window[s.next] = d
	s.next++
	if s.next == len(s.window) {
		s.next = 0
		s.filled = true
	}
	s.frames++
	s.last = d
}

// Snapshot summarizes the frames in the window.
func (s *FrameStats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.next
	if s.filled {
		n = len(s.window)
	}
	snap := StatsSnapshot{Frames: s.frames, Last: s.last}
	if n == 0 {
		return snap
	}

	var total time.Duration
	snap.Min = s.window[0]
	for _, d := range s.window[:n] {
		total += d
		snap.Min = min(snap.Min, d)
		snap.Max = max(snap.Max, d)
	}
	snap.Mean = total / time.Duration(n)
	if snap.Mean > 0 {
		snap.FPS = float64(time.Second) / float64(snap.Mean)
	}
	return snap
}

// Reset discards all observations.
func (s *FrameStats) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.window)
	s.next = 0
	s.filled = false
	s.frames = 0
	s.last = 0
}
