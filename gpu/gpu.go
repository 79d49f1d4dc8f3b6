//go:build !nogpu

// Package gpu presents framebuf frames through the wgpu HAL (Vulkan, Metal,
// DX12, GLES) in pure Go.
//
// Share a host window's device:
//
//	backend, err := gpu.NewBackend(app.GPUContextProvider())
//	p, err := framebuf.Initialize(backend, gpu.SurfaceFormat(provider), w, h)
//
// or open a dedicated device for headless use:
//
//	backend, err := gpu.NewStandaloneBackend()
//	target, err := gpu.NewOffscreenTarget(backend, framebuf.FormatBGRA8, w, h)
//
// Importing the package registers a standalone backend as "gpu" with
// framebuf.RegisterBackend.
package gpu

import (
	"github.com/gogpu/framebuf"
	gpuimpl "github.com/gogpu/framebuf/internal/gpu"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// BackendName is the name this package registers with framebuf.
const BackendName = "gpu"

func init() {
	framebuf.RegisterBackend(BackendName, 100, func() (framebuf.Backend, error) {
		b, err := NewStandaloneBackend()
		if err != nil {
			return nil, err
		}
		return b, nil
	}, vulkanAvailable)
}

func vulkanAvailable() bool {
	_, ok := hal.GetBackend(gputypes.BackendVulkan)
	return ok
}

type (
	// Backend implements framebuf.Backend with the wgpu HAL.
	Backend = gpuimpl.Backend

	// Texture is a frame texture owned by a Backend.
	Texture = gpuimpl.Texture

	// SurfaceTarget wraps a platform-owned texture view.
	SurfaceTarget = gpuimpl.SurfaceTarget

	// OffscreenTarget is a backend-owned render target.
	OffscreenTarget = gpuimpl.OffscreenTarget

	// Option configures a Backend.
	Option = gpuimpl.Option
)

// Errors reported by the backend.
var (
	ErrNoGPU              = gpuimpl.ErrNoGPU
	ErrNotInitialized     = gpuimpl.ErrNotInitialized
	ErrBackendClosed      = gpuimpl.ErrBackendClosed
	ErrForeignTexture     = gpuimpl.ErrForeignTexture
	ErrUnsupportedSurface = gpuimpl.ErrUnsupportedSurface
	ErrNoHALProvider      = gpuimpl.ErrNoHALProvider
)

// NewBackend shares the GPU device of a host application. The provider
// should be a gpucontext.DeviceProvider that also implements HalDevice() any
// and HalQueue() any, such as gogpu.App.GPUContextProvider().
func NewBackend(provider any, opts ...Option) (*Backend, error) {
	return gpuimpl.NewWithProvider(provider, opts...)
}

// NewStandaloneBackend opens a dedicated Vulkan device.
func NewStandaloneBackend(opts ...Option) (*Backend, error) {
	return gpuimpl.NewStandalone(opts...)
}

// NewBackendWithDevice wraps an existing HAL device and queue. The caller
// keeps ownership of both.
func NewBackendWithDevice(device hal.Device, queue hal.Queue, opts ...Option) *Backend {
	return gpuimpl.NewWithDevice(device, queue, opts...)
}

// NewSurfaceTarget wraps view, a width x height drawable owned by the platform.
func NewSurfaceTarget(view hal.TextureView, width, height int) *SurfaceTarget {
	return gpuimpl.NewSurfaceTarget(view, width, height)
}

// NewOffscreenTarget allocates a render target on b.
func NewOffscreenTarget(b *Backend, format framebuf.Format, width, height int) (*OffscreenTarget, error) {
	return gpuimpl.NewOffscreenTarget(b, format, width, height)
}

// SurfaceFormat returns the provider's surface format, or FormatBGRA8 when
// the provider reports a format framebuf cannot render to.
func SurfaceFormat(provider gpucontext.DeviceProvider) framebuf.Format {
	if provider == nil {
		return framebuf.FormatBGRA8
	}
	if f, ok := framebuf.FormatFromGPU(provider.SurfaceFormat()); ok {
		return f
	}
	framebuf.Logger().Warn("gpu: unsupported surface format, using BGRA8",
		"format", provider.SurfaceFormat())
	return framebuf.FormatBGRA8
}

// WithSPIRV compiles the blit shader to SPIR-V with naga.
func WithSPIRV(enabled bool) Option { return gpuimpl.WithSPIRV(enabled) }

// WithLinearFilter samples the frame texture bilinearly.
func WithLinearFilter() Option { return gpuimpl.WithLinearFilter() }

// WithClearColor sets the render pass clear color.
func WithClearColor(r, g, b, a float64) Option { return gpuimpl.WithClearColor(r, g, b, a) }

// WithLabel prefixes GPU object debug labels.
func WithLabel(label string) Option { return gpuimpl.WithLabel(label) }
