// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package software presents frames on the CPU.
//
// [Backend] implements framebuf.Backend without a GPU. Textures are plain
// BGRA pixel buffers; Draw swizzles the texture to RGBA and scales it over
// the quad's area of an [ImageSurface] with nearest-neighbour sampling, the
// same result the GPU pipeline produces with its nearest sampler.
//
// It serves headless runs (cmd/fbdemo -platform headless), CI machines
// without a GPU, and tests that need to inspect presented pixels:
//
//	b := software.NewBackend()
//	p, err := framebuf.Initialize(b, framebuf.FormatBGRA8, 320, 200)
//	...
//	s := software.NewImageSurface(320, 200)
//	_, err = p.PresentFrame(buf, s)
//	err = s.SavePNG("frame.png")
//
// Importing the package registers the backend as "software" with
// framebuf.RegisterBackend.
package software
