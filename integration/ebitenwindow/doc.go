// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package ebitenwindow shows framebuf frames in an Ebitengine window.
//
// [Backend] implements framebuf.Backend with ebiten images: the frame
// texture is an *ebiten.Image refreshed with WritePixels, and the surface
// is the screen image ebiten passes to Game.Draw. [Game] wires a Presenter
// and a framebuf.Producer into ebiten's Update/Draw/Layout loop and feeds
// keyboard and mouse input to the producer.
//
//	err := ebitenwindow.Runner{
//	    Title:    "framebuf",
//	    Width:    640,
//	    Height:   360,
//	    Producer: produce,
//	}.Run()
package ebitenwindow
