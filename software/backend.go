// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package software

import (
	"fmt"
	"image"
	"image/draw"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"

	"github.com/gogpu/framebuf"
	xdraw "golang.org/x/image/draw"
)

func init() {
	framebuf.RegisterBackend("software", 10, func() (framebuf.Backend, error) {
		return NewBackend(), nil
	}, nil)
}

// Texture is a CPU texture: a BGRA copy of the last committed upload plus
// the RGBA image the draw reads from.
type Texture struct {
	owner *Backend
	buf   *framebuf.PixelBuffer
	rgba  *image.RGBA

	// pending is the buffer staged by Upload, committed by the next Draw
	// that reaches a valid surface.
	pending  *framebuf.PixelBuffer
	released bool
}

// Width returns the texture width.
func (t *Texture) Width() int { return t.buf.Width }

// Height returns the texture height.
func (t *Texture) Height() int { return t.buf.Height }

// Pixels returns the texture contents as of the last successful draw.
func (t *Texture) Pixels() *framebuf.PixelBuffer { return t.buf }

// Backend implements framebuf.Backend on the CPU.
type Backend struct {
	mu sync.Mutex

	format framebuf.Format
	quad   framebuf.QuadGeometry
	ready  bool
	closed bool

	uploads uint64
	draws   uint64
	live    int

	logger atomic.Pointer[slog.Logger]
}

var _ framebuf.Backend = (*Backend)(nil)

// NewBackend creates an uninitialized backend.
func NewBackend() *Backend {
	b := &Backend{}
	b.logger.Store(framebuf.Logger())
	return b
}

// SetLogger sets the logger used by this backend. framebuf.SetLogger calls
// it for backends attached to a live presenter.
func (b *Backend) SetLogger(l *slog.Logger) {
	if l == nil {
		l = framebuf.Logger()
	}
	b.logger.Store(l)
}

func (b *Backend) log() *slog.Logger { return b.logger.Load() }

// Init records the target format and quad. Any valid format is accepted:
// an ImageSurface is always RGBA in memory.
func (b *Backend) Init(format framebuf.Format, quad framebuf.QuadGeometry) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	if !format.Valid() {
		return fmt.Errorf("software: %w: %v", framebuf.ErrUnsupportedFormat, format)
	}
	b.format = format
	b.quad = quad
	b.ready = true
	b.log().Info("software: backend ready", "format", format)
	return nil
}

// CreateTexture allocates a zeroed width x height texture.
func (b *Backend) CreateTexture(width, height int) (framebuf.Texture, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.usable(); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("software: %w: %dx%d", framebuf.ErrInvalidDimensions, width, height)
	}
	t := &Texture{
		owner: b,
		buf:   framebuf.NewPixelBuffer(width, height),
		rgba:  image.NewRGBA(image.Rect(0, 0, width, height)),
	}
	b.live++
	b.log().Debug("software: texture created", "width", width, "height", height, "live", b.live)
	return t, nil
}

// Upload stages buf for the texture. The copy happens in the following
// Draw, once the surface is known to be drawable, so buf must not change
// until that Draw returns.
func (b *Backend) Upload(tex framebuf.Texture, buf *framebuf.PixelBuffer) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.usable(); err != nil {
		return err
	}
	t, err := b.own(tex)
	if err != nil {
		return err
	}
	if err := buf.Valid(); err != nil {
		return fmt.Errorf("software: upload: %w", err)
	}
	if buf.Width != t.buf.Width || buf.Height != t.buf.Height {
		return fmt.Errorf("software: upload: %w: %dx%d into %dx%d",
			framebuf.ErrSizeMismatch, buf.Width, buf.Height, t.buf.Width, t.buf.Height)
	}
	t.pending = buf
	b.uploads++
	return nil
}

// Draw commits the staged upload, clears surface to black and scales the
// texture over the area the quad covers, which for the full-screen quad is
// the whole surface. If the surface is stale or unsupported the staged
// upload is dropped and the texture keeps its previous contents.
func (b *Backend) Draw(tex framebuf.Texture, surface framebuf.Surface) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.usable(); err != nil {
		return err
	}
	t, err := b.own(tex)
	if err != nil {
		return err
	}
	pending := t.pending
	t.pending = nil

	s, ok := surface.(*ImageSurface)
	if !ok {
		return ErrUnsupportedSurface
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.valid {
		return fmt.Errorf("software: %w", framebuf.ErrStaleSurface)
	}

	if pending != nil {
		copy(t.buf.Pix, pending.Pix)
		framebuf.SwizzleBGRA(t.rgba.Pix, t.buf.Pix)
	}
	dst := s.img
	bounds := dst.Bounds()
	rect := quadRect(b.quad, bounds)
	if rect != bounds {
		draw.Draw(dst, bounds, image.Black, image.Point{}, draw.Src)
	}
	src := t.rgba.Bounds()
	if rect.Size() == src.Size() {
		draw.Draw(dst, rect, t.rgba, src.Min, draw.Src)
	} else {
		xdraw.NearestNeighbor.Scale(dst, rect, t.rgba, src, xdraw.Src, nil)
	}
	b.draws++
	return nil
}

// quadRect maps the quad's NDC extent onto bounds. NDC y points up, image
// y points down.
func quadRect(q framebuf.QuadGeometry, bounds image.Rectangle) image.Rectangle {
	minX, minY := float32(math.MaxFloat32), float32(math.MaxFloat32)
	maxX, maxY := -minX, -minY
	for _, v := range q {
		minX, maxX = min(minX, v.X), max(maxX, v.X)
		minY, maxY = min(minY, v.Y), max(maxY, v.Y)
	}
	w, h := float64(bounds.Dx()), float64(bounds.Dy())
	toX := func(x float32) int { return bounds.Min.X + int(math.Round((float64(x)+1)/2*w)) }
	toY := func(y float32) int { return bounds.Min.Y + int(math.Round((1-float64(y))/2*h)) }
	r := image.Rect(toX(minX), toY(maxY), toX(maxX), toY(minY))
	return r.Intersect(bounds)
}

// ReleaseTexture frees tex. Releasing twice is a no-op.
func (b *Backend) ReleaseTexture(tex framebuf.Texture) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := tex.(*Texture)
	if !ok || t.owner != b || t.released {
		return
	}
	t.released = true
	t.rgba = nil
	t.pending = nil
	b.live--
}

// Close marks the backend closed. Close is idempotent.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	b.ready = false
	b.log().Debug("software: backend closed", "uploads", b.uploads, "draws", b.draws)
	return nil
}

// Uploads returns the number of successful uploads.
func (b *Backend) Uploads() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.uploads
}

// Draws returns the number of successful draws.
func (b *Backend) Draws() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.draws
}

// LiveTextures returns the number of textures created and not released.
func (b *Backend) LiveTextures() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.live
}

func (b *Backend) own(tex framebuf.Texture) (*Texture, error) {
	t, ok := tex.(*Texture)
	if !ok || t.owner != b || t.released {
		return nil, ErrForeignTexture
	}
	return t, nil
}

func (b *Backend) usable() error {
	if b.closed {
		return ErrClosed
	}
	if !b.ready {
		return ErrNotInitialized
	}
	return nil
}
