package framebuf

import (
	"fmt"
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
)

// PixelBuffer is a CPU-side BGRA framebuffer: Width*Height samples of 4
// bytes each, row-major with no padding between rows.
//
// A PixelBuffer is produced and overwritten by the simulation every frame.
// The presenter only reads it.
type PixelBuffer struct {
	// Pix holds the samples in B, G, R, A byte order.
	Pix []byte

	Width  int
	Height int
}

// NewPixelBuffer allocates a zeroed (transparent black) buffer.
func NewPixelBuffer(width, height int) *PixelBuffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &PixelBuffer{
		Pix:    make([]byte, width*height*4),
		Width:  width,
		Height: height,
	}
}

// ExpectedLen returns the byte length implied by the buffer's dimensions.
func (b *PixelBuffer) ExpectedLen() int {
	return b.Width * b.Height * 4
}

// Valid reports whether the buffer's byte length matches its dimensions.
// The returned error wraps ErrInvalidBufferSize.
func (b *PixelBuffer) Valid() error {
	if b == nil {
		return fmt.Errorf("%w: nil buffer", ErrInvalidBufferSize)
	}
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidBufferSize, b.Width, b.Height)
	}
	if len(b.Pix) != b.ExpectedLen() {
		return fmt.Errorf("%w: got %d bytes, want %d for %dx%d",
			ErrInvalidBufferSize, len(b.Pix), b.ExpectedLen(), b.Width, b.Height)
	}
	return nil
}

// SetBGRA writes one sample. Out-of-range coordinates are ignored.
func (b *PixelBuffer) SetBGRA(x, y int, blue, green, red, alpha uint8) {
	if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
		return
	}
	i := (y*b.Width + x) * 4
	b.Pix[i+0] = blue
	b.Pix[i+1] = green
	b.Pix[i+2] = red
	b.Pix[i+3] = alpha
}

// Clear zeroes every sample.
func (b *PixelBuffer) Clear() {
	clear(b.Pix)
}

// Fill sets every sample to c.
func (b *PixelBuffer) Fill(c color.Color) {
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	for i := 0; i+3 < len(b.Pix); i += 4 {
		b.Pix[i+0] = rgba.B
		b.Pix[i+1] = rgba.G
		b.Pix[i+2] = rgba.R
		b.Pix[i+3] = rgba.A
	}
}

// Bounds implements the image.Image interface.
func (b *PixelBuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.Width, b.Height)
}

// ColorModel implements the image.Image interface.
func (b *PixelBuffer) ColorModel() color.Model {
	return color.RGBAModel
}

// At implements the image.Image interface.
func (b *PixelBuffer) At(x, y int) color.Color {
	if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
		return color.RGBA{}
	}
	i := (y*b.Width + x) * 4
	return color.RGBA{R: b.Pix[i+2], G: b.Pix[i+1], B: b.Pix[i+0], A: b.Pix[i+3]}
}

// Set implements the draw.Image interface.
func (b *PixelBuffer) Set(x, y int, c color.Color) {
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	b.SetBGRA(x, y, rgba.B, rgba.G, rgba.R, rgba.A)
}

// DrawImage scales src over the whole buffer with bilinear filtering.
func (b *PixelBuffer) DrawImage(src image.Image) {
	xdraw.ApproxBiLinear.Scale(b, b.Bounds(), src, src.Bounds(), xdraw.Src, nil)
}

// ToRGBA returns an RGBA copy of the buffer, for snapshots and encoding.
func (b *PixelBuffer) ToRGBA() *image.RGBA {
	img := image.NewRGBA(b.Bounds())
	swizzleBGRA(img.Pix, b.Pix)
	return img
}

// CopyFrom copies src's samples into b. Both must have the same dimensions.
func (b *PixelBuffer) CopyFrom(src *PixelBuffer) error {
	if err := src.Valid(); err != nil {
		return err
	}
	if src.Width != b.Width || src.Height != b.Height {
		return fmt.Errorf("%w: %dx%d into %dx%d",
			ErrSizeMismatch, src.Width, src.Height, b.Width, b.Height)
	}
	copy(b.Pix, src.Pix)
	return nil
}

// swizzleBGRA swaps the B and R channels from src into dst. It works in
// both directions.
func swizzleBGRA(dst, src []byte) {
	n := min(len(dst), len(src))
	for i := 0; i+3 < n; i += 4 {
		dst[i+0] = src[i+2]
		dst[i+1] = src[i+1]
		dst[i+2] = src[i+0]
		dst[i+3] = src[i+3]
	}
}

// SwizzleBGRA converts between BGRA and RGBA byte orders, writing into dst.
// Backends whose textures are RGBA use it on upload.
func SwizzleBGRA(dst, src []byte) {
	swizzleBGRA(dst, src)
}
