// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package software

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/gogpu/framebuf"
)

func newPresenter(t *testing.T, w, h int) (*framebuf.Presenter, *Backend) {
	t.Helper()
	b := NewBackend()
	p, err := framebuf.Initialize(b, framebuf.FormatBGRA8, w, h)
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	t.Cleanup(func() { _ = p.Close() })
	return p, b
}

func TestPresentZeroBufferIsBlack(t *testing.T) {
	p, b := newPresenter(t, 640, 360)
	s := NewImageSurface(640, 360)
	// Dirty the surface so the present has to overwrite it.
	for i := range s.Image().Pix {
		s.Image().Pix[i] = 0x7f
	}

	report, err := p.PresentFrame(framebuf.NewPixelBuffer(640, 360), s)
	if err != nil {
		t.Fatalf("PresentFrame: %v", err)
	}
	if report.Elapsed < 0 {
		t.Errorf("Elapsed = %v, want >= 0", report.Elapsed)
	}
	for i, v := range s.Image().Pix {
		if v != 0 {
			t.Fatalf("Pix[%d] = %d, want 0", i, v)
		}
	}
	if b.Uploads() != 1 || b.Draws() != 1 {
		t.Errorf("uploads/draws = %d/%d, want 1/1", b.Uploads(), b.Draws())
	}
}

func TestPresentSwizzlesBGRA(t *testing.T) {
	p, _ := newPresenter(t, 2, 1)
	s := NewImageSurface(2, 1)

	buf := framebuf.NewPixelBuffer(2, 1)
	buf.SetBGRA(0, 0, 255, 0, 0, 255) // blue
	buf.SetBGRA(1, 0, 0, 0, 255, 255) // red
	if _, err := p.PresentFrame(buf, s); err != nil {
		t.Fatalf("PresentFrame: %v", err)
	}

	img := s.Image()
	if got := img.RGBAAt(0, 0); got != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("pixel 0 = %v, want blue", got)
	}
	if got := img.RGBAAt(1, 0); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("pixel 1 = %v, want red", got)
	}
}

func TestInvalidBufferKeepsLastUpload(t *testing.T) {
	p, b := newPresenter(t, 4, 4)
	s := NewImageSurface(4, 4)

	good := framebuf.NewPixelBuffer(4, 4)
	good.Fill(color.RGBA{R: 10, G: 20, B: 30, A: 255})
	if _, err := p.PresentFrame(good, s); err != nil {
		t.Fatalf("first PresentFrame: %v", err)
	}

	bad := &framebuf.PixelBuffer{Width: 4, Height: 4, Pix: make([]byte, 4*4*4-1)}
	if _, err := p.PresentFrame(bad, s); !errors.Is(err, framebuf.ErrInvalidBufferSize) {
		t.Fatalf("bad buffer: err = %v, want ErrInvalidBufferSize", err)
	}
	if b.Uploads() != 1 {
		t.Errorf("Uploads = %d after rejected frame, want 1", b.Uploads())
	}

	if got := s.Image().RGBAAt(3, 3); got != (color.RGBA{R: 10, G: 20, B: 30, A: 255}) {
		t.Errorf("surface = %v, want the last valid upload", got)
	}
}

// currentTexture creates a texture on b with buf staged for the next Draw.
func currentTexture(t *testing.T, b *Backend, buf *framebuf.PixelBuffer) framebuf.Texture {
	t.Helper()
	tex, err := b.CreateTexture(buf.Width, buf.Height)
	if err != nil {
		t.Fatalf("CreateTexture: %v", err)
	}
	if err := b.Upload(tex, buf); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	t.Cleanup(func() { b.ReleaseTexture(tex) })
	return tex
}

func TestResizeThenMismatch(t *testing.T) {
	p, b := newPresenter(t, 640, 360)
	if err := p.Resize(800, 600); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if b.LiveTextures() != 1 {
		t.Errorf("LiveTextures = %d after resize, want 1", b.LiveTextures())
	}
	_, err := p.PresentFrame(framebuf.NewPixelBuffer(640, 360), NewImageSurface(800, 600))
	if !errors.Is(err, framebuf.ErrSizeMismatch) {
		t.Fatalf("err = %v, want ErrSizeMismatch", err)
	}
	if b.Uploads() != 0 {
		t.Errorf("Uploads = %d, want 0", b.Uploads())
	}
}

func TestInvalidatedSurface(t *testing.T) {
	p, b := newPresenter(t, 8, 8)
	s := NewImageSurface(8, 8)
	s.Invalidate()

	if _, err := p.PresentFrame(framebuf.NewPixelBuffer(8, 8), s); !errors.Is(err, framebuf.ErrStaleSurface) {
		t.Fatalf("err = %v, want ErrStaleSurface", err)
	}
	if b.Draws() != 0 {
		t.Errorf("Draws = %d on a stale surface, want 0", b.Draws())
	}

	s.Resize(8, 8)
	if _, err := p.PresentFrame(framebuf.NewPixelBuffer(8, 8), s); err != nil {
		t.Fatalf("PresentFrame after Resize: %v", err)
	}
}

func TestStaleDrawKeepsTexture(t *testing.T) {
	b := NewBackend()
	if err := b.Init(framebuf.FormatBGRA8, framebuf.FullScreenQuad()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer b.Close()

	red := framebuf.NewPixelBuffer(2, 2)
	red.Fill(color.RGBA{R: 255, A: 255})
	tex := currentTexture(t, b, red)
	s := NewImageSurface(2, 2)
	if err := b.Draw(tex, s); err != nil {
		t.Fatalf("Draw: %v", err)
	}

	white := framebuf.NewPixelBuffer(2, 2)
	white.Fill(color.White)

	tests := []struct {
		name    string
		surface framebuf.Surface
		want    error
	}{
		{"invalidated surface", func() framebuf.Surface {
			stale := NewImageSurface(2, 2)
			stale.Invalidate()
			return stale
		}(), framebuf.ErrStaleSurface},
		{"foreign surface", framebuf.Surface(nil), ErrUnsupportedSurface},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := b.Upload(tex, white); err != nil {
				t.Fatalf("Upload: %v", err)
			}
			if err := b.Draw(tex, tt.surface); !errors.Is(err, tt.want) {
				t.Fatalf("Draw: err = %v, want %v", err, tt.want)
			}
			pix := tex.(*Texture).Pixels().Pix
			if got := pix[0:4]; got[0] != 0 || got[2] != 255 {
				t.Errorf("texture = %v after a failed draw, want the red frame (BGRA 0 0 255 255)", got)
			}

			// The dropped upload does not reappear on the next draw.
			if err := b.Draw(tex, s); err != nil {
				t.Fatalf("redraw: %v", err)
			}
			if got := s.Image().RGBAAt(1, 1); got != (color.RGBA{R: 255, A: 255}) {
				t.Errorf("surface = %v, want red", got)
			}
		})
	}
}

func TestDrawScalesNearest(t *testing.T) {
	b := NewBackend()
	if err := b.Init(framebuf.FormatBGRA8, framebuf.FullScreenQuad()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer b.Close()

	buf := framebuf.NewPixelBuffer(2, 1)
	buf.SetBGRA(0, 0, 0, 0, 255, 255)
	buf.SetBGRA(1, 0, 0, 255, 0, 255)
	tex := currentTexture(t, b, buf)

	s := NewImageSurface(4, 2)
	if err := b.Draw(tex, s); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	red := color.RGBA{R: 255, A: 255}
	green := color.RGBA{G: 255, A: 255}
	want := [][]color.RGBA{{red, red, green, green}, {red, red, green, green}}
	for y, row := range want {
		for x, c := range row {
			if got := s.Image().RGBAAt(x, y); got != c {
				t.Errorf("(%d,%d) = %v, want %v", x, y, got, c)
			}
		}
	}
}

func TestQuadRect(t *testing.T) {
	half := framebuf.FullScreenQuad()
	for i := range half {
		half[i].X /= 2
		half[i].Y /= 2
	}

	tests := []struct {
		name   string
		quad   framebuf.QuadGeometry
		bounds image.Rectangle
		want   image.Rectangle
	}{
		{"full", framebuf.FullScreenQuad(), image.Rect(0, 0, 640, 360), image.Rect(0, 0, 640, 360)},
		{"offset bounds", framebuf.FullScreenQuad(), image.Rect(10, 20, 30, 40), image.Rect(10, 20, 30, 40)},
		{"half", half, image.Rect(0, 0, 100, 100), image.Rect(25, 25, 75, 75)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := quadRect(tt.quad, tt.bounds); got != tt.want {
				t.Errorf("quadRect = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBackendLifecycleErrors(t *testing.T) {
	b := NewBackend()
	if _, err := b.CreateTexture(1, 1); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("CreateTexture before Init: err = %v, want ErrNotInitialized", err)
	}
	if err := b.Init(framebuf.FormatBGRA8, framebuf.FullScreenQuad()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if _, err := b.CreateTexture(0, 1); !errors.Is(err, framebuf.ErrInvalidDimensions) {
		t.Errorf("CreateTexture(0,1): err = %v, want ErrInvalidDimensions", err)
	}

	other := NewBackend()
	_ = other.Init(framebuf.FormatBGRA8, framebuf.FullScreenQuad())
	foreign, _ := other.CreateTexture(1, 1)
	if err := b.Upload(foreign, framebuf.NewPixelBuffer(1, 1)); !errors.Is(err, ErrForeignTexture) {
		t.Errorf("Upload foreign: err = %v, want ErrForeignTexture", err)
	}

	tex, _ := b.CreateTexture(1, 1)
	if err := b.Draw(tex, nil); !errors.Is(err, ErrUnsupportedSurface) {
		t.Errorf("Draw nil surface: err = %v, want ErrUnsupportedSurface", err)
	}
	b.ReleaseTexture(tex)
	b.ReleaseTexture(tex)
	if b.LiveTextures() != 0 {
		t.Errorf("LiveTextures = %d after double release, want 0", b.LiveTextures())
	}
	if err := b.Upload(tex, framebuf.NewPixelBuffer(1, 1)); !errors.Is(err, ErrForeignTexture) {
		t.Errorf("Upload released: err = %v, want ErrForeignTexture", err)
	}

	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if err := b.Init(framebuf.FormatBGRA8, framebuf.FullScreenQuad()); !errors.Is(err, ErrClosed) {
		t.Errorf("Init after Close: err = %v, want ErrClosed", err)
	}
}

func TestRegistered(t *testing.T) {
	if !slices.Contains(framebuf.Backends(), "software") {
		t.Fatalf("Backends() = %v, want software registered", framebuf.Backends())
	}
	b, err := framebuf.NewBackendByName("software")
	if err != nil {
		t.Fatalf("NewBackendByName: %v", err)
	}
	if _, ok := b.(*Backend); !ok {
		t.Errorf("NewBackendByName returned %T", b)
	}
}

func TestSavePNG(t *testing.T) {
	s := NewImageSurface(3, 2)
	s.Image().SetRGBA(1, 1, color.RGBA{R: 200, A: 255})
	path := filepath.Join(t.TempDir(), "frame.png")
	if err := s.SavePNG(path); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() == 0 {
		t.Error("SavePNG wrote an empty file")
	}

	if err := s.SavePNG(filepath.Join(t.TempDir(), "missing", "frame.png")); err == nil {
		t.Error("SavePNG into a missing directory should fail")
	}
}

func TestImageSurface(t *testing.T) {
	s := NewImageSurface(0, -3)
	if w, h := s.Size(); w != 1 || h != 1 {
		t.Errorf("Size = %dx%d, want clamped 1x1", w, h)
	}
	s.Resize(5, 7)
	if w, h := s.Size(); w != 5 || h != 7 || !s.Valid() {
		t.Errorf("after Resize: %dx%d valid=%v", w, h, s.Valid())
	}

	snap := s.Snapshot()
	snap.Pix[0] = 99
	if s.Image().Pix[0] == 99 {
		t.Error("Snapshot should not alias the surface")
	}

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	if got := NewImageSurfaceFromImage(img).Image(); got != img {
		t.Error("NewImageSurfaceFromImage should draw into the given image")
	}
}
