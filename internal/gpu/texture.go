//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// frameTextureFormat is the format of every frame texture. It matches the
// byte order of framebuf.PixelBuffer regardless of the surface format.
const frameTextureFormat = gputypes.TextureFormatBGRA8Unorm

// Texture is a frame texture with its view and bind group.
type Texture struct {
	tex       hal.Texture
	view      hal.TextureView
	bindGroup hal.BindGroup

	width  int
	height int

	// lastUse is the fence value of the last submission that sampled the
	// texture. Zero means it was never drawn.
	lastUse uint64

	// pending holds the pixels staged by Upload until Draw writes them.
	pending []byte
}

// Width returns the texture width in pixels.
func (t *Texture) Width() int { return t.width }

// Height returns the texture height in pixels.
func (t *Texture) Height() int { return t.height }

// createFrameTexture allocates a texture, its view and its bind group. On
// error nothing is left allocated.
func (b *Backend) createFrameTexture(width, height int) (*Texture, error) {
	label := fmt.Sprintf("%s_frame_%dx%d", b.opts.label, width, height)
	size := hal.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1} //nolint:gosec // dimensions validated by the presenter

	tex, err := b.device.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        frameTextureFormat,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create texture: %w", err)
	}

	view, err := b.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         label + "_view",
		Format:        frameTextureFormat,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		b.device.DestroyTexture(tex)
		return nil, fmt.Errorf("create texture view: %w", err)
	}

	bg, err := b.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  label + "_bind",
		Layout: b.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.TextureViewBinding{TextureView: view.NativeHandle()}},
			{Binding: 1, Resource: gputypes.SamplerBinding{Sampler: b.sampler.NativeHandle()}},
		},
	})
	if err != nil {
		b.device.DestroyTextureView(view)
		b.device.DestroyTexture(tex)
		return nil, fmt.Errorf("create bind group: %w", err)
	}

	t := &Texture{tex: tex, view: view, bindGroup: bg, width: width, height: height}

	// HAL textures start undefined; clear to transparent black.
	b.writeTexture(t, make([]byte, width*height*4))
	return t, nil
}

// writeTexture replaces the whole texture with data (tightly packed BGRA).
func (b *Backend) writeTexture(t *Texture, data []byte) {
	w, h := uint32(t.width), uint32(t.height) //nolint:gosec // dimensions validated by the presenter
	b.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  t.tex,
			MipLevel: 0,
		},
		data,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  w * 4,
			RowsPerImage: h,
		},
		&hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	)
}

// destroyFrameTexture releases the bind group, view and texture, in that
// order.
func (b *Backend) destroyFrameTexture(t *Texture) {
	if t.bindGroup != nil {
		b.device.DestroyBindGroup(t.bindGroup)
		t.bindGroup = nil
	}
	if t.view != nil {
		b.device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.tex != nil {
		b.device.DestroyTexture(t.tex)
		t.tex = nil
	}
}
