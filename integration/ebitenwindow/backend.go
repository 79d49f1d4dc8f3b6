// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ebitenwindow

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/framebuf"
	"github.com/hajimehoshi/ebiten/v2"
)

// Texture is a frame texture backed by an *ebiten.Image.
type Texture struct {
	owner   *Backend
	img     *ebiten.Image
	scratch []byte // RGBA staging for WritePixels
	width   int
	height  int

	pending  []byte // BGRA pixels staged by Upload
	released bool
}

// Width returns the texture width.
func (t *Texture) Width() int { return t.width }

// Height returns the texture height.
func (t *Texture) Height() int { return t.height }

// ScreenSurface is the drawable for one Game.Draw call.
type ScreenSurface struct {
	img *ebiten.Image
}

// NewScreenSurface wraps screen. A nil screen is never valid.
func NewScreenSurface(screen *ebiten.Image) *ScreenSurface {
	return &ScreenSurface{img: screen}
}

// Size returns the screen size in pixels.
func (s *ScreenSurface) Size() (width, height int) {
	if s.img == nil {
		return 0, 0
	}
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// Valid reports whether the surface still has a screen image.
func (s *ScreenSurface) Valid() bool { return s.img != nil }

// Release detaches the screen once ebiten's Draw returns; ebiten reuses the
// image for the next frame.
func (s *ScreenSurface) Release() { s.img = nil }

// Backend implements framebuf.Backend on ebiten images. ebiten only allows
// drawing from its own goroutine, so the backend is used from Game.Draw.
type Backend struct {
	format framebuf.Format
	ready  bool
	closed bool
	live   int

	logger atomic.Pointer[slog.Logger]
}

var _ framebuf.Backend = (*Backend)(nil)

// NewBackend creates an uninitialized backend.
func NewBackend() *Backend {
	b := &Backend{}
	b.logger.Store(framebuf.Logger())
	return b
}

// SetLogger sets the backend logger.
func (b *Backend) SetLogger(l *slog.Logger) {
	if l == nil {
		l = framebuf.Logger()
	}
	b.logger.Store(l)
}

// Init accepts any valid format. ebiten composes in RGBA and the quad is
// drawn as a scaled image covering the screen.
func (b *Backend) Init(format framebuf.Format, _ framebuf.QuadGeometry) error {
	if b.closed {
		return ErrClosed
	}
	if !format.Valid() {
		return fmt.Errorf("ebitenwindow: %w: %v", framebuf.ErrUnsupportedFormat, format)
	}
	b.format = format
	b.ready = true
	b.logger.Load().Info("ebitenwindow: backend ready", "format", format)
	return nil
}

// CreateTexture allocates a width x height ebiten image.
func (b *Backend) CreateTexture(width, height int) (framebuf.Texture, error) {
	if err := b.usable(); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("ebitenwindow: %w: %dx%d", framebuf.ErrInvalidDimensions, width, height)
	}
	t := &Texture{
		owner:   b,
		img:     ebiten.NewImage(width, height),
		scratch: make([]byte, width*height*4),
		width:   width,
		height:  height,
	}
	b.live++
	b.logger.Load().Debug("ebitenwindow: texture created", "width", width, "height", height)
	return t, nil
}

// Upload stages buf for the texture. Draw swizzles it to RGBA and writes
// it once the screen is known to be drawable, so buf must not change until
// that Draw returns.
func (b *Backend) Upload(tex framebuf.Texture, buf *framebuf.PixelBuffer) error {
	if err := b.usable(); err != nil {
		return err
	}
	t, err := b.own(tex)
	if err != nil {
		return err
	}
	if buf.Width != t.width || buf.Height != t.height || len(buf.Pix) != t.width*t.height*4 {
		return fmt.Errorf("ebitenwindow: upload %dx%d into %dx%d: %w",
			buf.Width, buf.Height, t.width, t.height, framebuf.ErrSizeMismatch)
	}
	t.pending = buf.Pix
	return nil
}

// Draw writes the staged upload, clears the screen and draws the texture
// stretched over it with nearest filtering. Without a screen the staged
// upload is dropped and the texture keeps its previous contents.
func (b *Backend) Draw(tex framebuf.Texture, surface framebuf.Surface) error {
	if err := b.usable(); err != nil {
		return err
	}
	t, err := b.own(tex)
	if err != nil {
		return err
	}
	pending := t.pending
	t.pending = nil

	s, ok := surface.(*ScreenSurface)
	if !ok {
		return ErrUnsupportedSurface
	}
	if s.img == nil {
		return fmt.Errorf("ebitenwindow: %w", framebuf.ErrStaleSurface)
	}
	if pending != nil {
		framebuf.SwizzleBGRA(t.scratch, pending)
		t.img.WritePixels(t.scratch)
	}

	sw, sh := s.Size()
	s.img.Clear()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(sw)/float64(t.width), float64(sh)/float64(t.height))
	op.Filter = ebiten.FilterNearest
	s.img.DrawImage(t.img, op)
	return nil
}

// ReleaseTexture deallocates the texture image.
func (b *Backend) ReleaseTexture(tex framebuf.Texture) {
	t, ok := tex.(*Texture)
	if !ok || t.owner != b || t.released {
		return
	}
	t.released = true
	if t.img != nil {
		t.img.Deallocate()
		t.img = nil
	}
	t.scratch = nil
	t.pending = nil
	b.live--
}

// LiveTextures returns the number of textures created and not released.
func (b *Backend) LiveTextures() int { return b.live }

// Close marks the backend closed. Close is idempotent.
func (b *Backend) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	b.ready = false
	return nil
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
