// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ebitenwindow

import (
	"fmt"
	"time"

	"github.com/gogpu/framebuf"
	"github.com/hajimehoshi/ebiten/v2"
)

// Default window settings.
const (
	DefaultTitle  = "framebuf"
	DefaultWidth  = 640
	DefaultHeight = 360
)

// Runner configures a window run.
type Runner struct {
	Title         string
	Width, Height int

	// Producer renders each frame. Nil shows a black window.
	Producer framebuf.Producer

	// Input receives key and mouse events. Nil allocates a default queue.
	Input *framebuf.InputQueue

	// Stats, when set, observes every presented frame.
	Stats *framebuf.FrameStats

	// Scale multiplies the window size; the logical screen stays
	// Width x Height. Zero means 1.
	Scale int

	PresenterOptions []framebuf.PresenterOption
}

func (r Runner) withDefaults() Runner {
	if r.Title == "" {
		r.Title = DefaultTitle
	}
	if r.Width == 0 && r.Height == 0 {
		r.Width, r.Height = DefaultWidth, DefaultHeight
	}
	if r.Scale <= 0 {
		r.Scale = 1
	}
	if r.Input == nil {
		r.Input = framebuf.NewInputQueue(0)
	}
	return r
}

func (r Runner) validate() error {
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, r.Width, r.Height)
	}
	return nil
}

// Run opens the window and blocks until it is closed.
func (r Runner) Run() error {
	g, err := NewGame(r)
	if err != nil {
		return err
	}
	defer func() { _ = g.Close() }()

	ebiten.SetWindowTitle(g.cfg.Title)
	ebiten.SetWindowSize(g.cfg.Width*g.cfg.Scale, g.cfg.Height*g.cfg.Scale)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("ebitenwindow: %w", err)
	}
	return nil
}

// Game implements ebiten.Game. Update polls input; Draw produces and
// presents one frame.
type Game struct {
	cfg     Runner
	backend *Backend
	loop    *framebuf.Loop
	input   *framebuf.InputQueue
	poller  inputPoller

	presenter *framebuf.Presenter
	err       error
}

var _ ebiten.Game = (*Game)(nil)

// NewGame creates a game for r. The presenter is created on the first
// Draw, when ebiten's graphics driver is up.
func NewGame(r Runner) (*Game, error) {
	r = r.withDefaults()
	if err := r.validate(); err != nil {
		return nil, err
	}
	return &Game{
		cfg:     r,
		backend: NewBackend(),
		loop:    framebuf.NewLoop(r.Producer, r.Input),
		input:   r.Input,
	}, nil
}

// Update implements ebiten.Game. A fatal presenting error from the last
// Draw ends the game.
func (g *Game) Update() error {
	if g.err != nil {
		return g.err
	}
	g.poller.poll(g.input, time.Now())
	return nil
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.err != nil {
		return
	}
	if g.presenter == nil {
		p, err := g.open()
		if err != nil {
			g.err = err
			return
		}
		g.presenter = p
	}

	surface := NewScreenSurface(screen)
	defer surface.Release()
	w, h := surface.Size()
	if _, err := g.loop.Frame(g.presenter, surface, w, h); err != nil {
		g.handle(err)
	}
}

func (g *Game) open() (*framebuf.Presenter, error) {
	opts := append([]framebuf.PresenterOption{framebuf.WithLabel(g.cfg.Title)}, g.cfg.PresenterOptions...)
	if g.cfg.Stats != nil {
		opts = append(opts, framebuf.WithStats(g.cfg.Stats))
	}
	p, err := framebuf.Initialize(g.backend, framebuf.FormatRGBA8, g.cfg.Width, g.cfg.Height, opts...)
	if err != nil {
		return nil, fmt.Errorf("ebitenwindow: %w", err)
	}
	return p, nil
}

// handle logs transient frame errors and keeps fatal ones for Update.
func (g *Game) handle(err error) {
	if framebuf.IsTransient(err) {
		framebuf.Logger().Debug("ebitenwindow: frame skipped", "err", err)
		return
	}
	framebuf.Logger().Error("ebitenwindow: frame failed", "err", err)
	g.err = err
}

// Layout implements ebiten.Game. The logical screen is always the
// configured size; ebiten scales it to the window.
func (g *Game) Layout(_, _ int) (screenWidth, screenHeight int) {
	return g.cfg.Width, g.cfg.Height
}

// Presenter returns the presenter, or nil before the first Draw.
func (g *Game) Presenter() *framebuf.Presenter { return g.presenter }

// Close releases the presenter. Close is idempotent.
func (g *Game) Close() error {
	if g.presenter == nil {
		return nil
	}
	err := g.presenter.Close()
	g.presenter = nil
	return err
}
