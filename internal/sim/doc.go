// Package sim is the demo simulation rendered by cmd/fbdemo: an animated
// gradient steered by the keyboard and mouse, with a frame-time overlay.
//
// Everything here is a framebuf.Producer; it knows nothing about which
// platform or backend presents the frames.
package sim
