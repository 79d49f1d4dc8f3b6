package framebuf

import "errors"

// Presenter errors. All errors returned by this package wrap one of these
// sentinels and can be tested with errors.Is.
var (
	// ErrInitialization is returned when the backend cannot build the quad,
	// the pipeline, or the initial texture. It is fatal to the presenter:
	// tear it down and create a new one.
	ErrInitialization = errors.New("framebuf: initialization failed")

	// ErrInvalidBufferSize is returned when a pixel buffer's byte length is
	// not width*height*4.
	ErrInvalidBufferSize = errors.New("framebuf: invalid pixel buffer size")

	// ErrSizeMismatch is returned when a pixel buffer's dimensions differ
	// from the texture's. Call Resize first.
	ErrSizeMismatch = errors.New("framebuf: pixel buffer size does not match texture")

	// ErrStaleSurface is returned when the presentation surface was closed
	// or resized by the platform. Re-acquire a surface and present the same
	// buffer again; nothing was uploaded.
	ErrStaleSurface = errors.New("framebuf: presentation surface is stale")

	// ErrNotReady is returned when operating on a closed presenter.
	ErrNotReady = errors.New("framebuf: presenter is not ready")

	// ErrInvalidDimensions is returned for widths or heights <= 0.
	ErrInvalidDimensions = errors.New("framebuf: invalid dimensions")

	// ErrNilBackend is returned when Initialize is called without a backend.
	ErrNilBackend = errors.New("framebuf: nil backend")

	// ErrUnsupportedFormat is returned for unknown pixel formats.
	ErrUnsupportedFormat = errors.New("framebuf: unsupported pixel format")
)
