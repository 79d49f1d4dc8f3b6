//go:build !nogpu

package gpu

import (
	"errors"
	"image/color"
	"testing"

	"github.com/gogpu/framebuf"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// openNoopDevice opens a device on the noop HAL, which accepts every call
// without touching a GPU.
func openNoopDevice(t *testing.T) (hal.Device, hal.Queue) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() {
		openDev.Device.Destroy()
		instance.Destroy()
	})
	return openDev.Device, openDev.Queue
}

func newNoopPresenter(t *testing.T, w, h int, opts ...Option) (*framebuf.Presenter, *Backend) {
	t.Helper()
	device, queue := openNoopDevice(t)
	b := NewWithDevice(device, queue, opts...)
	p, err := framebuf.Initialize(b, framebuf.FormatBGRA8, w, h)
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	t.Cleanup(func() { _ = p.Close() })
	return p, b
}

func TestBackendInit(t *testing.T) {
	_, b := newNoopPresenter(t, 64, 32)

	if !b.ready {
		t.Fatal("backend not ready after Initialize")
	}
	if b.pipeline == nil || b.bindLayout == nil || b.sampler == nil || b.vertexBuf == nil {
		t.Error("pipeline objects missing after Init")
	}
	if b.LiveTextures() != 1 {
		t.Errorf("LiveTextures() = %d, want 1", b.LiveTextures())
	}
	if b.AdapterName() != "shared" {
		t.Errorf("AdapterName() = %q, want shared", b.AdapterName())
	}
}

func TestBackendInitSPIRV(t *testing.T) {
	_, b := newNoopPresenter(t, 8, 8, WithSPIRV(true), WithLinearFilter())
	if b.shader == nil {
		t.Fatal("no shader module with SPIR-V source")
	}
	if b.opts.filter != gputypes.FilterModeLinear {
		t.Errorf("filter = %v, want linear", b.opts.filter)
	}
}

func TestBackendPresentOffscreen(t *testing.T) {
	p, b := newNoopPresenter(t, 32, 16)

	target, err := NewOffscreenTarget(b, framebuf.FormatBGRA8, 32, 16)
	if err != nil {
		t.Fatalf("NewOffscreenTarget: %v", err)
	}
	defer target.Close()

	buf := framebuf.NewPixelBuffer(32, 16)
	for i := range 3 {
		buf.SetBGRA(i, 0, 255, 0, 0, 255)
		r, err := p.PresentFrame(buf, target)
		if err != nil {
			t.Fatalf("frame %d: %v", i+1, err)
		}
		if r.Frame != uint64(i+1) {
			t.Errorf("Frame = %d, want %d", r.Frame, i+1)
		}
	}
	if b.Uploads() != 3 {
		t.Errorf("Uploads = %d, want 3", b.Uploads())
	}
	if b.frames.submitted != 3 {
		t.Errorf("submitted = %d, want 3", b.frames.submitted)
	}
	if target.lastUse != 3 {
		t.Errorf("target lastUse = %d, want 3", target.lastUse)
	}
}

func TestBackendResizeReleasesOldTexture(t *testing.T) {
	p, b := newNoopPresenter(t, 16, 16)
	target, err := NewOffscreenTarget(b, framebuf.FormatBGRA8, 16, 16)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.PresentFrame(framebuf.NewPixelBuffer(16, 16), target); err != nil {
		t.Fatal(err)
	}
	target.Close()

	if err := p.Resize(24, 8); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if b.LiveTextures() != 1 {
		t.Errorf("LiveTextures() = %d after Resize, want 1", b.LiveTextures())
	}

	next, err := NewOffscreenTarget(b, framebuf.FormatBGRA8, 24, 8)
	if err != nil {
		t.Fatal(err)
	}
	defer next.Close()
	if _, err := p.PresentFrame(framebuf.NewPixelBuffer(24, 8), next); err != nil {
		t.Fatalf("PresentFrame after Resize: %v", err)
	}
}

func TestBackendStaleSurfaceTarget(t *testing.T) {
	p, b := newNoopPresenter(t, 8, 8)
	off, err := NewOffscreenTarget(b, framebuf.FormatBGRA8, 8, 8)
	if err != nil {
		t.Fatal(err)
	}
	defer off.Close()

	surface := NewSurfaceTarget(off.view, 8, 8)
	if _, err := p.PresentFrame(framebuf.NewPixelBuffer(8, 8), surface); err != nil {
		t.Fatalf("PresentFrame on live surface: %v", err)
	}

	surface.Invalidate()
	_, err = p.PresentFrame(framebuf.NewPixelBuffer(8, 8), surface)
	if !errors.Is(err, framebuf.ErrStaleSurface) {
		t.Errorf("invalidated surface: err = %v, want ErrStaleSurface", err)
	}

	surface.Update(nil, 8, 8)
	if surface.Valid() {
		t.Error("surface with nil view reports valid")
	}

	surface.Update(off.view, 8, 8)
	if _, err := p.PresentFrame(framebuf.NewPixelBuffer(8, 8), surface); err != nil {
		t.Errorf("PresentFrame after Update: %v", err)
	}
}

type plainSurface struct{}

func (plainSurface) Size() (int, int) { return 4, 4 }
func (plainSurface) Valid() bool      { return true }

func TestBackendUnsupportedSurface(t *testing.T) {
	p, _ := newNoopPresenter(t, 4, 4)
	_, err := p.PresentFrame(framebuf.NewPixelBuffer(4, 4), plainSurface{})
	if !errors.Is(err, ErrUnsupportedSurface) {
		t.Errorf("err = %v, want ErrUnsupportedSurface", err)
	}
}

func TestBackendFailedDrawDropsUpload(t *testing.T) {
	_, b := newNoopPresenter(t, 8, 8)
	off, err := NewOffscreenTarget(b, framebuf.FormatBGRA8, 8, 8)
	if err != nil {
		t.Fatal(err)
	}
	defer off.Close()

	tex, err := b.CreateTexture(8, 8)
	if err != nil {
		t.Fatalf("CreateTexture: %v", err)
	}
	defer b.ReleaseTexture(tex)

	stale := NewSurfaceTarget(off.view, 8, 8)
	stale.Invalidate()

	tests := []struct {
		name    string
		surface framebuf.Surface
		want    error
	}{
		{"stale target", stale, framebuf.ErrStaleSurface},
		{"unsupported surface", plainSurface{}, ErrUnsupportedSurface},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := framebuf.NewPixelBuffer(8, 8)
			buf.Fill(color.White)
			if err := b.Upload(tex, buf); err != nil {
				t.Fatalf("Upload: %v", err)
			}
			before := b.Uploads()
			if err := b.Draw(tex, tt.surface); !errors.Is(err, tt.want) {
				t.Fatalf("Draw: err = %v, want %v", err, tt.want)
			}
			if b.Uploads() != before {
				t.Errorf("Uploads = %d after a failed draw, want %d", b.Uploads(), before)
			}
			if tex.(*Texture).pending != nil {
				t.Error("staged upload kept after a failed draw")
			}
		})
	}

	// A later draw without a new upload writes nothing.
	before := b.Uploads()
	if err := b.Draw(tex, off); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if b.Uploads() != before {
		t.Errorf("Uploads = %d, want %d", b.Uploads(), before)
	}
}

func TestBackendUploadRejectsWrongSize(t *testing.T) {
	_, b := newNoopPresenter(t, 4, 4)
	tex, err := b.CreateTexture(4, 4)
	if err != nil {
		t.Fatalf("CreateTexture: %v", err)
	}
	defer b.ReleaseTexture(tex)

	if err := b.Upload(tex, framebuf.NewPixelBuffer(4, 2)); !errors.Is(err, framebuf.ErrSizeMismatch) {
		t.Errorf("err = %v, want ErrSizeMismatch", err)
	}
}

func TestBackendLifecycleErrors(t *testing.T) {
	device, queue := openNoopDevice(t)
	b := NewWithDevice(device, queue)

	if _, err := b.CreateTexture(4, 4); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("CreateTexture before Init = %v, want ErrNotInitialized", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Errorf("second Close = %v", err)
	}
	if err := b.Init(framebuf.FormatBGRA8, framebuf.FullScreenQuad()); !errors.Is(err, ErrBackendClosed) {
		t.Errorf("Init after Close = %v, want ErrBackendClosed", err)
	}
}

func TestBackendCloseDrainsFrames(t *testing.T) {
	device, queue := openNoopDevice(t)
	b := NewWithDevice(device, queue)
	p, err := framebuf.Initialize(b, framebuf.FormatRGBA8, 8, 8)
	if err != nil {
		t.Fatal(err)
	}
	target, err := NewOffscreenTarget(b, framebuf.FormatRGBA8, 8, 8)
	if err != nil {
		t.Fatal(err)
	}
	for range 4 {
		if _, err := p.PresentFrame(framebuf.NewPixelBuffer(8, 8), target); err != nil {
			t.Fatal(err)
		}
	}
	target.Close()

	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if b.InFlight() != 0 {
		t.Errorf("InFlight() = %d after Close, want 0", b.InFlight())
	}
	if b.LiveTextures() != 0 {
		t.Errorf("LiveTextures() = %d after Close, want 0", b.LiveTextures())
	}
	if b.device != nil {
		t.Error("shared device reference kept after Close")
	}
}

type halProviderStub struct {
	device any
	queue  any
}

func (p halProviderStub) HalDevice() any { return p.device }
func (p halProviderStub) HalQueue() any  { return p.queue }

func TestNewWithProvider(t *testing.T) {
	device, queue := openNoopDevice(t)

	b, err := NewWithProvider(halProviderStub{device: device, queue: queue})
	if err != nil {
		t.Fatalf("NewWithProvider: %v", err)
	}
	if b.device != device || b.queue != queue {
		t.Error("provider device/queue not used")
	}

	tests := []struct {
		name     string
		provider any
	}{
		{"no HAL methods", struct{}{}},
		{"wrong device type", halProviderStub{device: "device", queue: queue}},
		{"wrong queue type", halProviderStub{device: device, queue: 42}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewWithProvider(tt.provider); !errors.Is(err, ErrNoHALProvider) {
				t.Errorf("err = %v, want ErrNoHALProvider", err)
			}
		})
	}
}
