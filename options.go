package framebuf

import "log/slog"

// PresenterOption configures a Presenter during Initialize.
//
// Example:
//
//	stats := framebuf.NewFrameStats(0)
//	p, err := framebuf.Initialize(backend, framebuf.FormatBGRA8, 640, 360,
//	    framebuf.WithStats(stats),
//	    framebuf.WithLabel("main"))
type PresenterOption func(*presenterOptions)

// presenterOptions holds optional configuration for Presenter creation.
type presenterOptions struct {
	clock  Clock
	logger *slog.Logger
	stats  *FrameStats
	label  string
}

// defaultOptions returns the default presenter options.
func defaultOptions() presenterOptions {
	return presenterOptions{
		clock: SystemClock{},
		label: "presenter",
	}
}

// WithClock sets the clock used for frame timing. Tests use it to inject a
// simulated clock.
func WithClock(c Clock) PresenterOption {
	return func(o *presenterOptions) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithLogger overrides the package logger for this presenter only.
func WithLogger(l *slog.Logger) PresenterOption {
	return func(o *presenterOptions) {
		o.logger = l
	}
}

// WithStats feeds every successful frame's timing report into s.
func WithStats(s *FrameStats) PresenterOption {
	return func(o *presenterOptions) {
		o.stats = s
	}
}

// WithLabel names the presenter in log output.
func WithLabel(label string) PresenterOption {
	return func(o *presenterOptions) {
		o.label = label
	}
}
