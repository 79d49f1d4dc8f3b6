//go:build !nogpu

package gpu

import (
	"fmt"
	"sync"

	"github.com/gogpu/framebuf"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// renderTarget is a surface this backend can render into.
type renderTarget interface {
	framebuf.Surface
	textureView() hal.TextureView
	markUsed(value uint64)
}

// SurfaceTarget wraps a texture view owned by the platform, typically the
// current swapchain image of a window.
//
// The platform calls Update with each frame's view and Invalidate when the
// window closes or resizes. SurfaceTarget never destroys the view.
type SurfaceTarget struct {
	mu     sync.Mutex
	view   hal.TextureView
	width  int
	height int
	valid  bool
}

// NewSurfaceTarget wraps view, a width x height drawable.
func NewSurfaceTarget(view hal.TextureView, width, height int) *SurfaceTarget {
	s := &SurfaceTarget{}
	s.Update(view, width, height)
	return s
}

// Update points the target at a new view. A nil view leaves it invalid.
func (s *SurfaceTarget) Update(view hal.TextureView, width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = view
	s.width = width
	s.height = height
	s.valid = view != nil && width > 0 && height > 0
}

// Invalidate marks the target stale until the next Update.
func (s *SurfaceTarget) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.valid = false
}

// Size implements framebuf.Surface.
func (s *SurfaceTarget) Size() (width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// Valid implements framebuf.Surface.
func (s *SurfaceTarget) Valid() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.valid
}

func (s *SurfaceTarget) textureView() hal.TextureView {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.valid {
		return nil
	}
	return s.view
}

func (s *SurfaceTarget) markUsed(uint64) {}

// OffscreenTarget is a render-attachment texture owned by the backend, for
// headless presentation and tests.
type OffscreenTarget struct {
	backend *Backend
	tex     hal.Texture
	view    hal.TextureView
	width   int
	height  int
	lastUse uint64
	closed  bool
}

// NewOffscreenTarget allocates a width x height target in format. The format
// must match the one the backend's pipeline was built for.
func NewOffscreenTarget(b *Backend, format framebuf.Format, width, height int) (*OffscreenTarget, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", framebuf.ErrInvalidDimensions, width, height)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrBackendClosed
	}

	label := b.opts.label + "_offscreen"
	tex, err := b.device.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          hal.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1}, //nolint:gosec // validated above
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format.GPUFormat(),
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("create offscreen texture: %w", err)
	}
	view, err := b.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         label + "_view",
		Format:        format.GPUFormat(),
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		b.device.DestroyTexture(tex)
		return nil, fmt.Errorf("create offscreen view: %w", err)
	}
	return &OffscreenTarget{backend: b, tex: tex, view: view, width: width, height: height}, nil
}

// Size implements framebuf.Surface.
func (t *OffscreenTarget) Size() (width, height int) { return t.width, t.height }

// Valid implements framebuf.Surface.
func (t *OffscreenTarget) Valid() bool { return !t.closed }

// Texture returns the underlying HAL texture, for readback.
func (t *OffscreenTarget) Texture() hal.Texture { return t.tex }

func (t *OffscreenTarget) textureView() hal.TextureView {
	if t.closed {
		return nil
	}
	return t.view
}

func (t *OffscreenTarget) markUsed(value uint64) { t.lastUse = value }

// Close releases the target once the GPU has finished with it. Close is
// idempotent.
func (t *OffscreenTarget) Close() {
	if t.closed {
		return
	}
	t.closed = true

	b := t.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.device == nil {
		return
	}
	view, tex := t.view, t.tex
	t.view, t.tex = nil, nil
	b.frames.retire(t.lastUse, func() {
		b.device.DestroyTextureView(view)
		b.device.DestroyTexture(tex)
	})
}
