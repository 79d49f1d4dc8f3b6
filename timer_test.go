package framebuf

import (
	"testing"
	"time"
)

func TestFrameTimerMark(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	var ft FrameTimer
	ft.Start(t0)

	if d := ft.Mark(t0.Add(16 * time.Millisecond)); d != 16*time.Millisecond {
		t.Errorf("Mark = %v, want 16ms", d)
	}
	if d := ft.Mark(t0.Add(16 * time.Millisecond)); d != 0 {
		t.Errorf("Mark at same instant = %v, want 0", d)
	}
	if d := ft.Mark(t0); d != 0 {
		t.Errorf("Mark in the past = %v, want 0", d)
	}
	if !ft.Previous().Equal(t0.Add(16 * time.Millisecond)) {
		t.Errorf("Previous moved backwards to %v", ft.Previous())
	}
}

func TestFrameTimingReportDuration(t *testing.T) {
	tests := []struct {
		seconds float64
		want    time.Duration
	}{
		{0, 0},
		{0.016, 16 * time.Millisecond},
		{0.02, 20 * time.Millisecond},
		{1.5, 1500 * time.Millisecond},
	}
	for _, tt := range tests {
		if got := (FrameTimingReport{Elapsed: tt.seconds}).Duration(); got != tt.want {
			t.Errorf("Duration(%v) = %v, want %v", tt.seconds, got, tt.want)
		}
	}
}

func TestSystemClockMonotonic(t *testing.T) {
	var c SystemClock
	a := c.Now()
	b := c.Now()
	if b.Before(a) {
		t.Errorf("SystemClock went backwards: %v then %v", a, b)
	}
}
