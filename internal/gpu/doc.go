//go:build !nogpu

// Package gpu implements framebuf.Backend on top of the wgpu HAL.
//
// It is an internal package; applications use github.com/gogpu/framebuf/gpu.
//
// # Resources
//
// A Backend owns, for its whole life:
//
//   - the blit shader module (WGSL, or SPIR-V compiled by naga)
//   - a bind group layout: binding 0 texture, binding 1 sampler
//   - a render pipeline drawing a triangle list into the surface format
//   - a 96-byte vertex buffer holding the full-screen quad
//   - one fence whose value increases by one per submitted frame
//
// Every Texture carries its own view and bind group.
//
// # Frame Submission
//
// Draw records one render pass into the surface view and submits it with
// the next fence value. It never blocks on the GPU. Command buffers and
// released textures are reclaimed on later frames once a zero-timeout
// fence poll reports their submission complete. Close is the only call that
// waits.
//
// # Device Sources
//
//   - NewWithProvider: shares a device from a host exposing HalDevice/HalQueue (gogpu)
//   - NewStandalone: opens its own Vulkan device
//   - NewWithDevice: wraps an existing hal.Device and hal.Queue (tests use hal/noop)
package gpu
