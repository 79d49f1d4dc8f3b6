package framebuf

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"
)

// Presenter renders one CPU pixel buffer to one drawable surface per call.
//
// It owns a texture sized to the surface, re-uploads the whole buffer every
// frame, draws a fixed full-screen quad and reports the time elapsed since
// the previous frame.
//
// Presenter is NOT safe for concurrent use. Resize and PresentFrame must be
// called from the goroutine that services the platform's refresh callback,
// or behind an exclusive lock.
type Presenter struct {
	backend Backend
	format  Format
	texture Texture
	timer   FrameTimer
	frames  uint64

	clock  Clock
	logger *slog.Logger
	stats  *FrameStats
	label  string

	sinkCleanup runtime.Cleanup
	hasSink     bool

	closed bool
}

// Initialize builds the quad geometry and pipeline for format on backend and
// allocates a zeroed width x height texture. Frame timing starts now.
//
// Any failure wraps ErrInitialization and closes the backend; the caller
// must create a new backend to try again. There is no way to re-initialize a
// Presenter.
func Initialize(backend Backend, format Format, width, height int, opts ...PresenterOption) (*Presenter, error) {
	if backend == nil {
		return nil, fmt.Errorf("%w: %w", ErrInitialization, ErrNilBackend)
	}
	if width <= 0 || height <= 0 {
		_ = backend.Close()
		return nil, fmt.Errorf("%w: %w: %dx%d", ErrInitialization, ErrInvalidDimensions, width, height)
	}
	if !format.Valid() {
		_ = backend.Close()
		return nil, fmt.Errorf("%w: %w: %v", ErrInitialization, ErrUnsupportedFormat, format)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	p := &Presenter{
		backend: backend,
		format:  format,
		clock:   o.clock,
		logger:  o.logger,
		stats:   o.stats,
		label:   o.label,
	}
	p.attachLogger()

	if err := backend.Init(format, FullScreenQuad()); err != nil {
		p.abort()
		return nil, fmt.Errorf("%w: pipeline: %w", ErrInitialization, err)
	}

	tex, err := backend.CreateTexture(width, height)
	if err != nil {
		p.abort()
		return nil, fmt.Errorf("%w: texture %dx%d: %w", ErrInitialization, width, height, err)
	}
	p.texture = tex
	p.timer.Start(p.clock.Now())

	p.log().Info("framebuf: presenter ready",
		"label", p.label, "format", format, "width", width, "height", height)
	return p, nil
}

// abort tears down a presenter whose initialization failed.
func (p *Presenter) abort() {
	p.detachLogger()
	if err := p.backend.Close(); err != nil {
		p.log().Warn("framebuf: backend close after failed init", "label", p.label, "err", err)
	}
	p.closed = true
}

// log returns the presenter's logger, falling back to the package logger so
// that later SetLogger calls take effect.
func (p *Presenter) log() *slog.Logger {
	if p.logger != nil {
		return p.logger
	}
	return Logger()
}

// Resize reallocates the texture for a surface of width x height. The old
// contents are discarded; the next PresentFrame must supply a full buffer of
// the new size. Resizing to the current size is a no-op that keeps the
// existing texture.
//
// If allocation fails the previous texture stays in place.
func (p *Presenter) Resize(width, height int) error {
	if p.closed {
		return ErrNotReady
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if width == p.texture.Width() && height == p.texture.Height() {
		return nil
	}

	tex, err := p.backend.CreateTexture(width, height)
	if err != nil {
		return fmt.Errorf("framebuf: resize to %dx%d: %w", width, height, err)
	}
	old := p.texture
	p.texture = tex
	p.backend.ReleaseTexture(old)

	p.log().Debug("framebuf: texture reallocated",
		"label", p.label,
		"from", fmt.Sprintf("%dx%d", old.Width(), old.Height()),
		"to", fmt.Sprintf("%dx%d", width, height))
	return nil
}

// PresentFrame uploads buf into the texture, draws it over surface and
// submits the frame. It returns once the work is queued, without waiting for
// the GPU.
//
// Errors, checked in order before anything is uploaded:
//   - ErrInvalidBufferSize: len(buf.Pix) != buf.Width*buf.Height*4
//   - ErrSizeMismatch: buf dimensions differ from the texture's
//   - ErrStaleSurface: surface is nil, invalidated, or no longer the
//     texture's size
//
// A failed call leaves the texture and the frame timer untouched.
func (p *Presenter) PresentFrame(buf *PixelBuffer, surface Surface) (FrameTimingReport, error) {
	if p.closed {
		return FrameTimingReport{}, ErrNotReady
	}
	if err := buf.Valid(); err != nil {
		return FrameTimingReport{}, err
	}

	tw, th := p.texture.Width(), p.texture.Height()
	if buf.Width != tw || buf.Height != th {
		return FrameTimingReport{}, fmt.Errorf("%w: buffer %dx%d, texture %dx%d",
			ErrSizeMismatch, buf.Width, buf.Height, tw, th)
	}
	if err := p.checkSurface(surface, tw, th); err != nil {
		p.log().Warn("framebuf: skipping frame", "label", p.label, "err", err)
		return FrameTimingReport{}, err
	}

	if err := p.backend.Upload(p.texture, buf); err != nil {
		return FrameTimingReport{}, fmt.Errorf("framebuf: upload: %w", err)
	}
	if err := p.backend.Draw(p.texture, surface); err != nil {
		return FrameTimingReport{}, fmt.Errorf("framebuf: draw: %w", err)
	}

	elapsed := p.timer.Mark(p.clock.Now())
	p.frames++
	report := FrameTimingReport{
		Frame:     p.frames,
		Elapsed:   elapsed.Seconds(),
		Timestamp: p.timer.Previous(),
	}
	if p.stats != nil {
		p.stats.Observe(report)
	}

	p.log().Debug("framebuf: frame presented",
		"label", p.label, "frame", report.Frame, "elapsed", elapsed)
	return report, nil
}

func (p *Presenter) checkSurface(surface Surface, tw, th int) error {
	if surface == nil {
		return fmt.Errorf("%w: no surface", ErrStaleSurface)
	}
	if !surface.Valid() {
		return fmt.Errorf("%w: surface invalidated", ErrStaleSurface)
	}
	if sw, sh := surface.Size(); sw != tw || sh != th {
		return fmt.Errorf("%w: surface is %dx%d, texture %dx%d", ErrStaleSurface, sw, sh, tw, th)
	}
	return nil
}

// Close releases the texture and closes the backend. Close is idempotent.
// Every later call returns ErrNotReady.
//
// A presenter dropped without Close never closes its backend; it only
// stops receiving SetLogger updates once it is garbage collected.
func (p *Presenter) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true

	if p.texture != nil {
		p.backend.ReleaseTexture(p.texture)
		p.texture = nil
	}
	p.detachLogger()
	if err := p.backend.Close(); err != nil {
		return fmt.Errorf("framebuf: close backend: %w", err)
	}
	p.log().Info("framebuf: presenter closed", "label", p.label, "frames", p.frames)
	return nil
}

// Size returns the current texture dimensions, or 0, 0 after Close.
func (p *Presenter) Size() (width, height int) {
	if p.texture == nil {
		return 0, 0
	}
	return p.texture.Width(), p.texture.Height()
}

// Format returns the surface format the pipeline was built for.
func (p *Presenter) Format() Format {
	return p.format
}

// Frames returns the number of successfully presented frames.
func (p *Presenter) Frames() uint64 {
	return p.frames
}

// LastFrameTime returns the timestamp of the most recent successful present,
// or the initialization time before the first frame.
func (p *Presenter) LastFrameTime() time.Time {
	return p.timer.Previous()
}

// IsTransient reports whether err is a recoverable per-frame error: the
// caller can fix its inputs or re-acquire a surface and present again.
func IsTransient(err error) bool {
	return errors.Is(err, ErrStaleSurface) ||
		errors.Is(err, ErrSizeMismatch) ||
		errors.Is(err, ErrInvalidBufferSize)
}
