// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gogpuwindow

import (
	"fmt"
	"time"

	"github.com/gogpu/framebuf"
	"github.com/gogpu/framebuf/gpu"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"
)

// BackendFactory opens the GPU backend for provider. The default shares the
// provider's device through gpu.NewBackend.
type BackendFactory func(provider gpucontext.DeviceProvider, opts ...gpu.Option) (*gpu.Backend, error)

func defaultBackendFactory(provider gpucontext.DeviceProvider, opts ...gpu.Option) (*gpu.Backend, error) {
	return gpu.NewBackend(provider, opts...)
}

// Window connects a gogpu window to a framebuf presenter. Runner.Run drives
// it from gogpu callbacks; tests drive it directly.
//
// Window is NOT safe for concurrent use.
type Window struct {
	provider   gpucontext.DeviceProvider
	newBackend BackendFactory
	cfg        Runner

	presenter *framebuf.Presenter
	target    *gpu.SurfaceTarget
	loop      *framebuf.Loop
	input     *framebuf.InputQueue

	closed bool
}

// NewWindow creates the window state for provider. No GPU object is
// created until the first Frame.
func NewWindow(provider gpucontext.DeviceProvider, cfg Runner) (*Window, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Window{
		provider:   provider,
		newBackend: defaultBackendFactory,
		cfg:        cfg,
		loop:       framebuf.NewLoop(cfg.Producer, cfg.Input),
		input:      cfg.Input,
	}, nil
}

// SetBackendFactory replaces the function that opens the GPU backend. It
// must be called before the first Frame.
func (w *Window) SetBackendFactory(f BackendFactory) {
	if f != nil {
		w.newBackend = f
	}
}

// Frame renders one frame into view, the window's current swapchain image
// of width x height pixels.
//
// A zero-sized window (minimized) is skipped without error. The view is
// only trusted for this call: the target is invalidated on return, so a
// view kept past its frame is never drawn to.
func (w *Window) Frame(view hal.TextureView, width, height int) (framebuf.FrameTimingReport, error) {
	if w.closed {
		return framebuf.FrameTimingReport{}, ErrWindowClosed
	}
	if width <= 0 || height <= 0 {
		return framebuf.FrameTimingReport{}, nil
	}
	if w.presenter == nil {
		if err := w.open(width, height); err != nil {
			return framebuf.FrameTimingReport{}, err
		}
	}

	if w.target == nil {
		w.target = gpu.NewSurfaceTarget(view, width, height)
	} else {
		w.target.Update(view, width, height)
	}
	defer w.target.Invalidate()

	return w.loop.Frame(w.presenter, w.target, width, height)
}

// open creates the backend and presenter for the first frame.
func (w *Window) open(width, height int) error {
	backend, err := w.newBackend(w.provider, w.cfg.GPUOptions...)
	if err != nil {
		return fmt.Errorf("gogpuwindow: open backend: %w", err)
	}
	format := gpu.SurfaceFormat(w.provider)

	opts := append([]framebuf.PresenterOption{framebuf.WithLabel(w.cfg.Title)}, w.cfg.PresenterOptions...)
	if w.cfg.Stats != nil {
		opts = append(opts, framebuf.WithStats(w.cfg.Stats))
	}
	p, err := framebuf.Initialize(backend, format, width, height, opts...)
	if err != nil {
		return fmt.Errorf("gogpuwindow: %w", err)
	}
	w.presenter = p
	framebuf.Logger().Info("gogpuwindow: presenter created",
		"width", width, "height", height, "format", format)
	return nil
}

// KeyPressed queues a key press for the producer. It matches the signature
// of gogpu's EventSource.OnKeyPress.
func (w *Window) KeyPressed(key gpucontext.Key, mods gpucontext.Modifiers) {
	ev := framebuf.InputEvent{
		Kind: framebuf.KeyDown,
		Key:  keyName(key),
		Rune: keyRune(key),
		Time: time.Now(),
	}
	framebuf.Logger().Debug("gogpuwindow: key pressed", "key", ev.Key, "mods", mods)
	w.push(ev)
}

// KeyReleased queues a key release. It matches EventSource.OnKeyRelease.
func (w *Window) KeyReleased(key gpucontext.Key, _ gpucontext.Modifiers) {
	w.push(framebuf.InputEvent{
		Kind: framebuf.KeyUp,
		Key:  keyName(key),
		Time: time.Now(),
	})
}

// MousePressed queues a button press at x, y in window coordinates. It
// matches EventSource.OnMousePress. Buttons beyond the middle one are
// ignored.
func (w *Window) MousePressed(button gpucontext.MouseButton, x, y float64) {
	b, ok := mouseButton(button)
	if !ok {
		return
	}
	framebuf.Logger().Debug("gogpuwindow: mouse pressed", "button", b, "x", x, "y", y)
	w.push(framebuf.InputEvent{
		Kind:   framebuf.MouseDown,
		Button: b,
		X:      x,
		Y:      y,
		Time:   time.Now(),
	})
}

func (w *Window) push(ev framebuf.InputEvent) {
	if w.input != nil && !w.input.Push(ev) {
		framebuf.Logger().Warn("gogpuwindow: input queue full, event dropped", "kind", ev.Kind, "key", ev.Key)
	}
}

// Presenter returns the presenter, or nil before the first frame.
func (w *Window) Presenter() *framebuf.Presenter {
	return w.presenter
}

// Close releases the presenter and its backend. The provider's device is
// left to gogpu. Close is idempotent.
func (w *Window) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	var err error
	if w.presenter != nil {
		err = w.presenter.Close()
		w.presenter = nil
	}
	if w.target != nil {
		w.target.Invalidate()
		w.target = nil
	}
	w.provider = nil
	if err != nil {
		return fmt.Errorf("gogpuwindow: close: %w", err)
	}
	return nil
}
