// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package software

import "errors"

var (
	// ErrNotInitialized is returned when a texture is requested before Init.
	ErrNotInitialized = errors.New("software: backend not initialized")

	// ErrClosed is returned by every call after Close.
	ErrClosed = errors.New("software: backend closed")

	// ErrForeignTexture is returned when a texture was not created by this
	// backend or has already been released.
	ErrForeignTexture = errors.New("software: texture not owned by this backend")

	// ErrUnsupportedSurface is returned when Draw gets a surface other than
	// an *ImageSurface.
	ErrUnsupportedSurface = errors.New("software: surface is not an *ImageSurface")
)
