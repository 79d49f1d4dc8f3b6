package framebuf

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// loggerSetter is implemented by backends that accept a logger.
type loggerSetter interface {
	SetLogger(*slog.Logger)
}

var (
	sinksMu sync.Mutex
	sinks   []loggerSetter
)

// SetLogger configures the logger for framebuf and every backend created
// through it. By default, framebuf produces no log output.
//
// SetLogger is safe for concurrent use. Pass nil to restore the default
// silent behavior.
//
// Log levels used by framebuf:
//   - [slog.LevelDebug]: texture (re)allocation, per-frame timing
//   - [slog.LevelInfo]: backend and device selection
//   - [slog.LevelWarn]: stale surfaces, resource release failures
//
// Example:
//
//	framebuf.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)

	sinksMu.Lock()
	defer sinksMu.Unlock()
	for _, s := range sinks {
		s.SetLogger(l)
	}
}

// Logger returns the current logger used by framebuf.
// Backend packages call this to share the same logger configuration.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// attachLogger hands the current logger to the presenter's backend if it
// accepts one and keeps it registered for later SetLogger calls. The
// registration ends at Close, or when the presenter is garbage collected
// without being closed.
func (p *Presenter) attachLogger() {
	ls, ok := p.backend.(loggerSetter)
	if !ok {
		return
	}
	ls.SetLogger(Logger())

	sinksMu.Lock()
	sinks = append(sinks, ls)
	sinksMu.Unlock()

	// ls must not reach p, or p is never collected.
	p.sinkCleanup = runtime.AddCleanup(p, removeSink, ls)
	p.hasSink = true
}

// detachLogger ends the registration made by attachLogger.
func (p *Presenter) detachLogger() {
	if !p.hasSink {
		return
	}
	p.hasSink = false
	p.sinkCleanup.Stop()
	removeSink(p.backend.(loggerSetter))
}

// removeSink removes ls from the propagation list.
func removeSink(ls loggerSetter) {
	sinksMu.Lock()
	defer sinksMu.Unlock()
	for i, s := range sinks {
		if s == ls {
			sinks = append(sinks[:i], sinks[i+1:]...)
			return
		}
	}
}

func sinkCount() int {
	sinksMu.Lock()
	defer sinksMu.Unlock()
	return len(sinks)
}
