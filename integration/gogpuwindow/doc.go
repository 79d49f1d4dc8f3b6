// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gogpuwindow shows framebuf frames in a gogpu window.
//
// The window's GPU device is shared with the gpu backend, and each frame
// draws straight into the swapchain image the window hands to OnDraw:
//
//	producer (CPU) -> PixelBuffer -> gpu.Backend texture -> swapchain view
//
// # Usage
//
//	r := gogpuwindow.Runner{
//	    Title:    "framebuf",
//	    Width:    640,
//	    Height:   360,
//	    Producer: func(buf *framebuf.PixelBuffer, events []framebuf.InputEvent, report framebuf.FrameTimingReport) {
//	        // draw into buf
//	    },
//	}
//	if err := r.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// The presenter is created on the first frame, once the window knows its
// size and surface format, and is resized whenever the window is.
//
// # Thread Safety
//
// [Window] is NOT safe for concurrent use. gogpu calls OnDraw and the key
// callbacks on its main thread; input crosses to the producer through a
// framebuf.InputQueue.
package gogpuwindow
