// Package framebuf presents a CPU-rendered pixel buffer on a GPU surface.
//
// # Overview
//
// A simulation renders each frame into a [PixelBuffer] (BGRA, 4 bytes per
// pixel, tightly packed rows). Once per display refresh the platform calls
// [Presenter.PresentFrame], which uploads the whole buffer into a texture,
// draws a fixed six-vertex full-screen quad sampling that texture, submits
// the work without waiting for the GPU and returns the seconds elapsed since
// the previous frame.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/framebuf"
//	    "github.com/gogpu/framebuf/software"
//	)
//
//	backend := software.NewBackend()
//	p, err := framebuf.Initialize(backend, framebuf.FormatBGRA8, 640, 360)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Close()
//
//	buf := framebuf.NewPixelBuffer(640, 360)
//	surface := software.NewImageSurface(640, 360)
//	report, err := p.PresentFrame(buf, surface)
//
// # Backends
//
// The [Backend] interface isolates the GPU API:
//   - gpu: wgpu HAL (Vulkan, Metal, DX12, GLES) via gogpu/wgpu
//   - software: CPU blit into an image.RGBA, for headless runs and tests
//   - integration/ebitenwindow: an Ebitengine window
//
// integration/gogpuwindow drives the gpu backend from a gogpu window.
//
// # Threading
//
// A Presenter belongs to the goroutine that services the platform's refresh
// callback. Input arrives on other goroutines through an [InputQueue].
// [FrameStats] may be read from anywhere.
//
// # Errors
//
// Per-frame errors ([ErrInvalidBufferSize], [ErrSizeMismatch],
// [ErrStaleSurface]) leave the presenter usable; see [IsTransient].
// [ErrInitialization] is fatal.
package framebuf

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
