// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package software

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"sync"

	"github.com/gogpu/framebuf"
)

// ImageSurface is a CPU surface backed by an *image.RGBA.
//
// It plays the role a swapchain image plays for the GPU backend: the
// platform (or a test) owns it, the presenter draws into it, and it can be
// invalidated when the window it stands for goes away.
type ImageSurface struct {
	mu    sync.Mutex
	img   *image.RGBA
	valid bool
}

var _ framebuf.Surface = (*ImageSurface)(nil)

// NewImageSurface creates a valid, black surface. Non-positive dimensions
// are clamped to 1.
func NewImageSurface(width, height int) *ImageSurface {
	return &ImageSurface{img: newRGBA(width, height), valid: true}
}

// NewImageSurfaceFromImage creates a surface that draws into img directly.
func NewImageSurfaceFromImage(img *image.RGBA) *ImageSurface {
	return &ImageSurface{img: img, valid: true}
}

func newRGBA(width, height int) *image.RGBA {
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	return image.NewRGBA(image.Rect(0, 0, width, height))
}

// Size returns the surface dimensions in pixels.
func (s *ImageSurface) Size() (width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// Valid reports whether the surface can still be drawn to.
func (s *ImageSurface) Valid() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.valid
}

// Invalidate marks the surface stale, as a platform does when its window
// is resized or minimized. Presents fail with framebuf.ErrStaleSurface until
// Resize is called.
func (s *ImageSurface) Invalidate() {
	s.mu.Lock()
	s.valid = false
	s.mu.Unlock()
}

// Resize replaces the backing image with a black width x height one and
// makes the surface valid again.
func (s *ImageSurface) Resize(width, height int) {
	s.mu.Lock()
	s.img = newRGBA(width, height)
	s.valid = true
	s.mu.Unlock()
}

// Image returns the backing image. It is the live target, not a copy.
func (s *ImageSurface) Image() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.img
}

// Snapshot returns a copy of the current contents.
func (s *ImageSurface) Snapshot() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := image.NewRGBA(s.img.Bounds())
	copy(out.Pix, s.img.Pix)
	return out
}

// SavePNG writes the current contents to a PNG file.
func (s *ImageSurface) SavePNG(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return fmt.Errorf("software: save png: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	if err := png.Encode(f, s.Snapshot()); err != nil {
		return fmt.Errorf("software: encode png: %w", err)
	}
	return nil
}
