// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ebitenwindow

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/gogpu/framebuf"
	"github.com/hajimehoshi/ebiten/v2"
)

func TestKeyRune(t *testing.T) {
	tests := []struct {
		name string
		want rune
	}{
		{"A", 'a'},
		{"Z", 'z'},
		{"Digit0", '0'},
		{"Digit9", '9'},
		{"Space", ' '},
		{"ArrowLeft", 0},
		{"DigitX", 0},
		{"", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := keyRune(tt.name); got != tt.want {
				t.Errorf("keyRune(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestKeyEvent(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	down := keyEvent(framebuf.KeyDown, ebiten.KeyW, now)
	if down.Kind != framebuf.KeyDown || down.Key != "W" || down.Rune != 'w' || !down.Time.Equal(now) {
		t.Errorf("down = %+v", down)
	}
	up := keyEvent(framebuf.KeyUp, ebiten.KeyW, now)
	if up.Kind != framebuf.KeyUp || up.Rune != 0 {
		t.Errorf("up = %+v, want KeyUp without rune", up)
	}
}

func TestMouseEvent(t *testing.T) {
	ev := mouseEvent(framebuf.MouseRight, 12, 34, time.Time{})
	if ev.Kind != framebuf.MouseDown || ev.Button != framebuf.MouseRight || ev.X != 12 || ev.Y != 34 {
		t.Errorf("event = %+v", ev)
	}
}

func TestPushCountsDrops(t *testing.T) {
	q := framebuf.NewInputQueue(1)
	push(q, mouseEvent(framebuf.MouseLeft, 0, 0, time.Time{}))
	push(q, mouseEvent(framebuf.MouseLeft, 1, 1, time.Time{}))
	if q.Len() != 1 || q.Dropped() != 1 {
		t.Errorf("Len = %d, Dropped = %d; want 1, 1", q.Len(), q.Dropped())
	}
}

func TestNewGame(t *testing.T) {
	if _, err := NewGame(Runner{Width: 10, Height: -1}); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("err = %v, want ErrInvalidDimensions", err)
	}

	g, err := NewGame(Runner{})
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	if w, h := g.Layout(1920, 1080); w != DefaultWidth || h != DefaultHeight {
		t.Errorf("Layout = %dx%d, want %dx%d", w, h, DefaultWidth, DefaultHeight)
	}
	if g.cfg.Scale != 1 || g.input == nil {
		t.Errorf("defaults not applied: %+v", g.cfg)
	}
	if err := g.Close(); err != nil {
		t.Errorf("Close before Draw: %v", err)
	}
}

func TestGameHandle(t *testing.T) {
	g, err := NewGame(Runner{Width: 4, Height: 4})
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}

	g.handle(fmt.Errorf("wrapped: %w", framebuf.ErrStaleSurface))
	if err := g.Update(); err != nil {
		t.Fatalf("transient error ended the game: %v", err)
	}

	fatal := errors.New("device lost")
	g.handle(fatal)
	if err := g.Update(); !errors.Is(err, fatal) {
		t.Errorf("Update = %v, want the fatal draw error", err)
	}
}

func TestScreenSurface(t *testing.T) {
	s := NewScreenSurface(nil)
	if s.Valid() {
		t.Error("surface without a screen should be invalid")
	}
	if w, h := s.Size(); w != 0 || h != 0 {
		t.Errorf("Size = %dx%d, want 0x0", w, h)
	}
}

func TestBackendLifecycle(t *testing.T) {
	b := NewBackend()
	if _, err := b.CreateTexture(4, 4); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("before Init: err = %v, want ErrNotInitialized", err)
	}
	if err := b.Init(framebuf.Format(99), framebuf.FullScreenQuad()); !errors.Is(err, framebuf.ErrUnsupportedFormat) {
		t.Errorf("bad format: err = %v, want ErrUnsupportedFormat", err)
	}
	if err := b.Init(framebuf.FormatRGBA8, framebuf.FullScreenQuad()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if _, err := b.CreateTexture(0, 4); !errors.Is(err, framebuf.ErrInvalidDimensions) {
		t.Errorf("zero width: err = %v, want ErrInvalidDimensions", err)
	}
	if err := b.Upload(&Texture{}, framebuf.NewPixelBuffer(1, 1)); !errors.Is(err, ErrForeignTexture) {
		t.Errorf("foreign texture: err = %v, want ErrForeignTexture", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := b.Draw(&Texture{}, NewScreenSurface(nil)); !errors.Is(err, ErrClosed) {
		t.Errorf("after Close: err = %v, want ErrClosed", err)
	}
}

func TestStaleDrawDropsUpload(t *testing.T) {
	b := NewBackend()
	if err := b.Init(framebuf.FormatBGRA8, framebuf.FullScreenQuad()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer b.Close()
	// No image: a draw that reached WritePixels would panic.
	tex := &Texture{owner: b, width: 2, height: 2}

	if err := b.Upload(tex, framebuf.NewPixelBuffer(2, 1)); !errors.Is(err, framebuf.ErrSizeMismatch) {
		t.Errorf("wrong size: err = %v, want ErrSizeMismatch", err)
	}
	if err := b.Upload(tex, framebuf.NewPixelBuffer(2, 2)); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if tex.pending == nil {
		t.Fatal("Upload did not stage the buffer")
	}
	if err := b.Draw(tex, NewScreenSurface(nil)); !errors.Is(err, framebuf.ErrStaleSurface) {
		t.Fatalf("Draw: err = %v, want ErrStaleSurface", err)
	}
	if tex.pending != nil {
		t.Error("staged upload kept after a stale draw")
	}

	b.ReleaseTexture(tex)
	b.ReleaseTexture(tex)
	if err := b.Upload(tex, framebuf.NewPixelBuffer(2, 2)); !errors.Is(err, ErrForeignTexture) {
		t.Errorf("released texture: err = %v, want ErrForeignTexture", err)
	}
}
