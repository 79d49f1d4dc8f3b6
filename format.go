package framebuf

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// Format is the pixel format of the presentation surface.
type Format uint8

const (
	// FormatBGRA8 is 8-bit BGRA, the byte order of PixelBuffer and the
	// usual swapchain format.
	FormatBGRA8 Format = iota

	// FormatRGBA8 is 8-bit RGBA.
	FormatRGBA8
)

// String returns a human-readable name for the format.
func (f Format) String() string {
	switch f {
	case FormatBGRA8:
		return "BGRA8"
	case FormatRGBA8:
		return "RGBA8"
	default:
		return fmt.Sprintf("Unknown(%d)", f)
	}
}

// BytesPerPixel returns the number of bytes per pixel for the format.
func (f Format) BytesPerPixel() int { return 4 }

// Valid reports whether f is a known format.
func (f Format) Valid() bool {
	return f == FormatBGRA8 || f == FormatRGBA8
}

// GPUFormat converts to the gputypes texture format.
func (f Format) GPUFormat() gputypes.TextureFormat {
	if f == FormatRGBA8 {
		return gputypes.TextureFormatRGBA8Unorm
	}
	return gputypes.TextureFormatBGRA8Unorm
}

// FormatFromGPU maps a surface format reported by the platform
// (for example gpucontext.DeviceProvider.SurfaceFormat) to a Format.
func FormatFromGPU(tf gputypes.TextureFormat) (Format, bool) {
	switch tf {
	case gputypes.TextureFormatBGRA8Unorm:
		return FormatBGRA8, true
	case gputypes.TextureFormatRGBA8Unorm:
		return FormatRGBA8, true
	default:
		return 0, false
	}
}
