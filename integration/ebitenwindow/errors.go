// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ebitenwindow

import "errors"

var (
	// ErrInvalidDimensions is returned when the configured size is invalid.
	ErrInvalidDimensions = errors.New("ebitenwindow: invalid dimensions")

	// ErrNotInitialized is returned when a texture is requested before Init.
	ErrNotInitialized = errors.New("ebitenwindow: backend not initialized")

	// ErrClosed is returned by every backend call after Close.
	ErrClosed = errors.New("ebitenwindow: backend closed")

	// ErrForeignTexture is returned for textures this backend did not
	// create or has already released.
	ErrForeignTexture = errors.New("ebitenwindow: texture not owned by this backend")

	// ErrUnsupportedSurface is returned when Draw gets a surface other than
	// a *ScreenSurface.
	ErrUnsupportedSurface = errors.New("ebitenwindow: surface is not a *ScreenSurface")
)
