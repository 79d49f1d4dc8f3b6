//go:build !nogpu

package gpu

import "errors"

var (
	// ErrNoGPU is returned when no usable adapter was found.
	ErrNoGPU = errors.New("gpu: no compatible GPU found")

	// ErrNotInitialized is returned when drawing before Init.
	ErrNotInitialized = errors.New("gpu: backend not initialized")

	// ErrBackendClosed is returned after Close.
	ErrBackendClosed = errors.New("gpu: backend closed")

	// ErrForeignTexture is returned for textures created by another backend.
	ErrForeignTexture = errors.New("gpu: texture was not created by this backend")

	// ErrUnsupportedSurface is returned when a surface carries no texture view
	// this backend can render into.
	ErrUnsupportedSurface = errors.New("gpu: surface is not a SurfaceTarget or OffscreenTarget")

	// ErrNoHALProvider is returned when a device provider does not expose
	// hal.Device and hal.Queue.
	ErrNoHALProvider = errors.New("gpu: provider does not expose HAL types")
)
