//go:build !nogpu

package gpu

import "github.com/gogpu/gputypes"

// Option configures a Backend.
type Option func(*options)

type options struct {
	spirv  bool
	filter gputypes.FilterMode
	clear  gputypes.Color
	label  string
}

func defaultOptions() options {
	return options{
		filter: gputypes.FilterModeNearest,
		clear:  gputypes.Color{R: 0, G: 0, B: 0, A: 1},
		label:  "framebuf",
	}
}

// WithSPIRV compiles the blit shader to SPIR-V with naga before handing it
// to the device, for drivers without a WGSL front end.
func WithSPIRV(enabled bool) Option {
	return func(o *options) {
		o.spirv = enabled
	}
}

// WithLinearFilter samples the frame texture bilinearly. The default is
// nearest filtering, which keeps pixel art sharp when the surface is scaled.
func WithLinearFilter() Option {
	return func(o *options) {
		o.filter = gputypes.FilterModeLinear
	}
}

// WithClearColor sets the color the render pass clears to before drawing.
// The quad covers the whole surface, so it only shows through transparent
// pixels.
func WithClearColor(r, g, b, a float64) Option {
	return func(o *options) {
		o.clear = gputypes.Color{R: r, G: g, B: b, A: a}
	}
}

// WithLabel prefixes the debug labels of every GPU object.
func WithLabel(label string) Option {
	return func(o *options) {
		if label != "" {
			o.label = label
		}
	}
}
