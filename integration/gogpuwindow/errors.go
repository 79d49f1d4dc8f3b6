// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gogpuwindow

import "errors"

var (
	// ErrNilProvider is returned when a nil DeviceProvider is passed.
	ErrNilProvider = errors.New("gogpuwindow: nil DeviceProvider")

	// ErrInvalidDimensions is returned when the configured size is invalid.
	ErrInvalidDimensions = errors.New("gogpuwindow: invalid dimensions")

	// ErrWindowClosed is returned by Frame after Close.
	ErrWindowClosed = errors.New("gogpuwindow: window is closed")

	// ErrNoSurfaceView is returned when the frame context does not carry a
	// HAL texture view.
	ErrNoSurfaceView = errors.New("gogpuwindow: surface view is not a hal.TextureView")
)
