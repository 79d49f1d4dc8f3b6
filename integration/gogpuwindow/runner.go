// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gogpuwindow

import (
	"fmt"

	"github.com/gogpu/framebuf"
	"github.com/gogpu/framebuf/gpu"
	"github.com/gogpu/gogpu"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"
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

	// Input receives key and mouse events. Nil allocates a default-sized
	// queue.
	Input *framebuf.InputQueue

	// Stats, when set, observes every presented frame.
	Stats *framebuf.FrameStats

	GPUOptions       []gpu.Option
	PresenterOptions []framebuf.PresenterOption
}

func (r Runner) withDefaults() Runner {
	if r.Title == "" {
		r.Title = DefaultTitle
	}
	if r.Width == 0 && r.Height == 0 {
		r.Width, r.Height = DefaultWidth, DefaultHeight
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

// Run opens the window and blocks until it is closed. Frames are drawn at
// the display refresh rate.
func (r Runner) Run() error {
	r = r.withDefaults()
	if err := r.validate(); err != nil {
		return err
	}

	app := gogpu.NewApp(gogpu.DefaultConfig().
		WithTitle(r.Title).
		WithSize(r.Width, r.Height).
		WithContinuousRender(false))

	var (
		win       *Window
		animation *gogpu.AnimationToken
		fatal     error
	)
	log := framebuf.Logger()

	app.OnDraw(func(dc *gogpu.Context) {
		if fatal != nil {
			return
		}
		if win == nil {
			provider := app.GPUContextProvider()
			if provider == nil {
				return
			}
			var err error
			if win, err = NewWindow(provider, r); err != nil {
				fatal = err
				log.Error("gogpuwindow: window setup failed", "err", err)
				return
			}
			log.Info("gogpuwindow: rendering", "backend", dc.Backend())
			animation = app.StartAnimation()
		}

		view, ok := any(dc.SurfaceView()).(hal.TextureView)
		if !ok {
			log.Warn("gogpuwindow: skipping frame", "err", ErrNoSurfaceView)
			return
		}
		if _, err := win.Frame(view, dc.Width(), dc.Height()); err != nil {
			if framebuf.IsTransient(err) {
				log.Debug("gogpuwindow: frame skipped", "err", err)
				return
			}
			fatal = err
			log.Error("gogpuwindow: frame failed", "err", err)
		}
	})

	events := app.EventSource()
	events.OnKeyPress(func(key gpucontext.Key, mods gpucontext.Modifiers) {
		if win != nil {
			win.KeyPressed(key, mods)
		}
	})
	events.OnKeyRelease(func(key gpucontext.Key, mods gpucontext.Modifiers) {
		if win != nil {
			win.KeyReleased(key, mods)
		}
	})
	events.OnMousePress(func(button gpucontext.MouseButton, x, y float64) {
		if win != nil {
			win.MousePressed(button, x, y)
		}
	})

	app.OnClose(func() {
		if animation != nil {
			animation.Stop()
			animation = nil
		}
		if win != nil {
			if err := win.Close(); err != nil {
				log.Warn("gogpuwindow: close", "err", err)
			}
		}
	})

	if err := app.Run(); err != nil {
		return fmt.Errorf("gogpuwindow: %w", err)
	}
	return fatal
}
