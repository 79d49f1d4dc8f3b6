package framebuf

// Backend is the GPU side of a presenter. Implementations live in the gpu
// package (wgpu/hal), the software package (CPU, headless) and the platform
// integrations.
//
// A Backend is driven by exactly one Presenter from one goroutine.
type Backend interface {
	// Init builds the static quad vertex buffer and compiles the
	// textured-quad pipeline for the given surface format.
	Init(format Format, quad QuadGeometry) error

	// CreateTexture allocates a zero-initialized BGRA texture.
	CreateTexture(width, height int) (Texture, error)

	// Upload stages buf as the whole new content of tex. buf has already
	// been validated against the texture's dimensions and is not modified
	// until the following Draw returns.
	Upload(tex Texture, buf *PixelBuffer) error

	// Draw checks surface, writes the staged upload into tex, draws the
	// quad over the whole surface and submits the work for presentation.
	// It must not wait for the GPU. If surface is stale or of the wrong
	// kind, Draw fails before touching tex and drops the staged upload.
	Draw(tex Texture, surface Surface) error

	// ReleaseTexture destroys tex. Backends may defer the destruction until
	// in-flight GPU work no longer references it.
	ReleaseTexture(tex Texture)

	// Close releases every resource owned by the backend.
	Close() error
}

// Texture is a GPU image owned by a Backend.
type Texture interface {
	Width() int
	Height() int
}

// Surface is the platform-owned drawable the quad is rendered into.
type Surface interface {
	// Size returns the drawable's current dimensions in pixels.
	Size() (width, height int)

	// Valid reports false once the platform has closed or invalidated the
	// drawable, for example after a resize.
	Valid() bool
}
