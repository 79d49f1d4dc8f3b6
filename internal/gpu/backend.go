//go:build !nogpu

package gpu

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/gogpu/framebuf"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Backend presents frames with the wgpu HAL. It implements framebuf.Backend.
//
// A Backend is driven by one Presenter from one goroutine. The mutex only
// guards against OffscreenTarget.Close and Close racing with a frame.
type Backend struct {
	mu sync.Mutex

	device hal.Device
	queue  hal.Queue
	owned  *openedDevice // nil when the device is shared
	opts   options

	// Pipeline objects, created by Init.
	format     framebuf.Format
	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline
	sampler    hal.Sampler
	vertexBuf  hal.Buffer

	frames  frameTracker
	live    int    // textures created and not yet released
	uploads uint64 // staged uploads written to a texture

	ready  bool
	closed bool
}

var _ framebuf.Backend = (*Backend)(nil)

// NewWithDevice wraps an existing device and queue. The caller keeps
// ownership of both; Close does not destroy them.
func NewWithDevice(device hal.Device, queue hal.Queue, opts ...Option) *Backend {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Backend{device: device, queue: queue, opts: o}
}

// NewWithProvider shares the GPU device of a host application. provider
// must implement HalDevice() any and HalQueue() any returning hal.Device
// and hal.Queue, as gogpu's GPUContextProvider does.
func NewWithProvider(provider any, opts ...Option) (*Backend, error) {
	device, queue, err := halFromProvider(provider)
	if err != nil {
		return nil, err
	}
	slogger().Info("gpu: using shared device")
	return NewWithDevice(device, queue, opts...), nil
}

// NewStandalone opens a dedicated Vulkan device. Close destroys it.
func NewStandalone(opts ...Option) (*Backend, error) {
	dev, err := openStandaloneDevice()
	if err != nil {
		return nil, err
	}
	b := NewWithDevice(dev.device, dev.queue, opts...)
	b.owned = dev
	return b, nil
}

// AdapterName returns the adapter of a standalone device, or "shared".
func (b *Backend) AdapterName() string {
	if b.owned == nil {
		return "shared"
	}
	return b.owned.name
}

// SetLogger receives the logger from framebuf.SetLogger.
func (b *Backend) SetLogger(l *slog.Logger) { setLogger(l) }

// Init builds the pipeline for format and uploads quad into the vertex
// buffer. It is called once, by framebuf.Initialize.
func (b *Backend) Init(format framebuf.Format, quad framebuf.QuadGeometry) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrBackendClosed
	}
	if b.device == nil || b.queue == nil {
		return fmt.Errorf("gpu: nil device or queue")
	}
	if b.ready {
		return nil
	}

	b.format = format
	if err := b.createPipeline(format); err != nil {
		b.destroyPipeline()
		return err
	}
	if err := b.createVertexBuffer(quad); err != nil {
		b.destroyPipeline()
		return err
	}
	if err := b.frames.init(b.device); err != nil {
		b.destroyPipeline()
		return err
	}
	b.ready = true

	slogger().Debug("gpu: pipeline ready",
		"format", format, "spirv", b.opts.spirv, "filter", b.opts.filter)
	return nil
}

func (b *Backend) createPipeline(format framebuf.Format) error {
	label := b.opts.label

	source, err := blitShaderSourceFor(b.opts.spirv)
	if err != nil {
		return err
	}
	shader, err := b.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label + "_blit",
		Source: source,
	})
	if err != nil {
		return fmt.Errorf("compile blit shader: %w", err)
	}
	b.shader = shader

	// Bind group layout:
	//   Binding 0: frame texture (fragment)
	//   Binding 1: sampler (fragment)
	bindLayout, err := b.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: label + "_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}
	b.bindLayout = bindLayout

	pipeLayout, err := b.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            label + "_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{b.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	b.pipeLayout = pipeLayout

	sampler, err := b.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        label + "_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    b.opts.filter,
		MinFilter:    b.opts.filter,
		MipmapFilter: gputypes.FilterModeNearest,
	})
	if err != nil {
		return fmt.Errorf("create sampler: %w", err)
	}
	b.sampler = sampler

	pipeline, err := b.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  label + "_pipeline",
		Layout: b.pipeLayout,
		Vertex: hal.VertexState{
			Module:     b.shader,
			EntryPoint: "vs_main",
			Buffers:    quadVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     b.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    format.GPUFormat(),
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("create render pipeline: %w", err)
	}
	b.pipeline = pipeline
	return nil
}

func quadVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: framebuf.QuadVertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0}, // position
				{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1}, // tex_coord
			},
		},
	}
}

func (b *Backend) createVertexBuffer(quad framebuf.QuadGeometry) error {
	data := quad.Bytes()
	buf, err := b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: b.opts.label + "_quad",
		Size:  uint64(len(data)),
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create vertex buffer: %w", err)
	}
	b.vertexBuf = buf
	b.queue.WriteBuffer(buf, 0, data)
	return nil
}

// destroyPipeline releases pipeline objects in reverse creation order.
func (b *Backend) destroyPipeline() {
	if b.device == nil {
		return
	}
	if b.vertexBuf != nil {
		b.device.DestroyBuffer(b.vertexBuf)
		b.vertexBuf = nil
	}
	if b.pipeline != nil {
		b.device.DestroyRenderPipeline(b.pipeline)
		b.pipeline = nil
	}
	if b.sampler != nil {
		b.device.DestroySampler(b.sampler)
		b.sampler = nil
	}
	if b.pipeLayout != nil {
		b.device.DestroyPipelineLayout(b.pipeLayout)
		b.pipeLayout = nil
	}
	if b.bindLayout != nil {
		b.device.DestroyBindGroupLayout(b.bindLayout)
		b.bindLayout = nil
	}
	if b.shader != nil {
		b.device.DestroyShaderModule(b.shader)
		b.shader = nil
	}
}

// CreateTexture allocates a zeroed BGRA texture.
func (b *Backend) CreateTexture(width, height int) (framebuf.Texture, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.usable(); err != nil {
		return nil, err
	}
	t, err := b.createFrameTexture(width, height)
	if err != nil {
		return nil, err
	}
	b.live++
	slogger().Debug("gpu: texture created", "width", width, "height", height, "live", b.live)
	return t, nil
}

// Upload stages buf for the texture. The write is queued by the following
// Draw once the surface has a view, so buf must not change until that Draw
// returns.
func (b *Backend) Upload(tex framebuf.Texture, buf *framebuf.PixelBuffer) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.usable(); err != nil {
		return err
	}
	t, ok := tex.(*Texture)
	if !ok || t.tex == nil {
		return ErrForeignTexture
	}
	if buf.Width != t.width || buf.Height != t.height || len(buf.Pix) != t.width*t.height*4 {
		return fmt.Errorf("gpu: upload %dx%d (%d bytes) into %dx%d: %w",
			buf.Width, buf.Height, len(buf.Pix), t.width, t.height, framebuf.ErrSizeMismatch)
	}
	t.pending = buf.Pix
	return nil
}

// Draw writes the staged upload, renders tex over surface and submits the
// frame without waiting. surface must be a *SurfaceTarget or
// *OffscreenTarget. A stale or unsupported surface drops the staged upload
// and leaves the texture as it was.
func (b *Backend) Draw(tex framebuf.Texture, surface framebuf.Surface) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.usable(); err != nil {
		return err
	}
	t, ok := tex.(*Texture)
	if !ok || t.bindGroup == nil {
		return ErrForeignTexture
	}
	pending := t.pending
	t.pending = nil

	target, ok := surface.(renderTarget)
	if !ok {
		return ErrUnsupportedSurface
	}
	view := target.textureView()
	if view == nil {
		return fmt.Errorf("%w: no texture view", framebuf.ErrStaleSurface)
	}
	if pending != nil {
		b.writeTexture(t, pending)
		b.uploads++
	}

	if err := b.frames.poll(b.device); err != nil {
		slogger().Warn("gpu: fence poll failed", "err", err)
	}

	encoder, err := b.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: b.opts.label + "_encoder",
	})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(b.opts.label + "_frame"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: b.opts.label + "_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: b.opts.clear,
		}},
	})
	rp.SetPipeline(b.pipeline)
	rp.SetBindGroup(0, t.bindGroup, nil)
	rp.SetVertexBuffer(0, b.vertexBuf, 0)
	rp.Draw(framebuf.QuadVertexCount, 1, 0, 0)
	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	value, err := b.frames.submit(b.queue, cmdBuf)
	if err != nil {
		b.device.FreeCommandBuffer(cmdBuf)
		return err
	}
	t.lastUse = value
	target.markUsed(value)
	return nil
}

// ReleaseTexture destroys tex once no in-flight frame samples it.
func (b *Backend) ReleaseTexture(tex framebuf.Texture) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := tex.(*Texture)
	if !ok || t.tex == nil || b.device == nil {
		return
	}
	b.live--
	b.frames.retire(t.lastUse, func() { b.destroyFrameTexture(t) })
}

// LiveTextures returns the number of textures created and not yet released.
func (b *Backend) LiveTextures() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.live
}

// Uploads returns the number of staged uploads written to a texture.
func (b *Backend) Uploads() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.uploads
}

// InFlight returns the number of submitted frames not yet known complete.
func (b *Backend) InFlight() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.frames.inflight)
}

// Close waits for in-flight frames, then releases every GPU object the
// backend created. A standalone device is destroyed too. Close is
// idempotent.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	if b.device == nil {
		return nil
	}

	err := b.frames.drain(b.device, closeTimeout)
	if err != nil {
		slogger().Warn("gpu: closing with frames in flight", "err", err)
	}
	b.frames.destroy(b.device)
	b.destroyPipeline()
	b.ready = false

	if b.owned != nil {
		b.owned.destroy()
		b.owned = nil
	}
	b.device = nil
	b.queue = nil
	return err
}

func (b *Backend) usable() error {
	if b.closed {
		return ErrBackendClosed
	}
	if !b.ready {
		return ErrNotInitialized
	}
	return nil
}
