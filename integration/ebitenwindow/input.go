// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ebitenwindow

import (
	"strings"
	"time"

	"github.com/gogpu/framebuf"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// mouseButtons maps the buttons the producer sees.
var mouseButtons = []struct {
	ebiten ebiten.MouseButton
	button framebuf.MouseButton
}{
	{ebiten.MouseButtonLeft, framebuf.MouseLeft},
	{ebiten.MouseButtonRight, framebuf.MouseRight},
}

// inputPoller turns ebiten's per-tick input state into framebuf events.
type inputPoller struct {
	keys []ebiten.Key
}

// poll pushes the input that changed during this tick to q.
func (p *inputPoller) poll(q *framebuf.InputQueue, now time.Time) {
	p.keys = inpututil.AppendJustPressedKeys(p.keys[:0])
	pushKeys(q, framebuf.KeyDown, p.keys, now)
	p.keys = inpututil.AppendJustReleasedKeys(p.keys[:0])
	pushKeys(q, framebuf.KeyUp, p.keys, now)

	for _, mb := range mouseButtons {
		if !inpututil.IsMouseButtonJustPressed(mb.ebiten) {
			continue
		}
		x, y := ebiten.CursorPosition()
		push(q, mouseEvent(mb.button, x, y, now))
	}
}

func pushKeys(q *framebuf.InputQueue, kind framebuf.InputKind, keys []ebiten.Key, now time.Time) {
	for _, k := range keys {
		push(q, keyEvent(kind, k, now))
	}
}

func push(q *framebuf.InputQueue, ev framebuf.InputEvent) {
	framebuf.Logger().Debug("ebitenwindow: input", "kind", ev.Kind, "key", ev.Key, "x", ev.X, "y", ev.Y)
	if !q.Push(ev) {
		framebuf.Logger().Warn("ebitenwindow: input queue full, event dropped", "kind", ev.Kind)
	}
}

func keyEvent(kind framebuf.InputKind, k ebiten.Key, now time.Time) framebuf.InputEvent {
	ev := framebuf.InputEvent{Kind: kind, Key: k.String(), Time: now}
	if kind == framebuf.KeyDown {
		ev.Rune = keyRune(ev.Key)
	}
	return ev
}

// keyRune returns the unshifted character for ebiten's letter ("A"),
// digit ("Digit7") and "Space" key names.
func keyRune(name string) rune {
	switch {
	case len(name) == 1 && name[0] >= 'A' && name[0] <= 'Z':
		return rune(name[0]-'A') + 'a'
	case len(name) == 6 && strings.HasPrefix(name, "Digit") && name[5] >= '0' && name[5] <= '9':
		return rune(name[5])
	case name == "Space":
		return ' '
	}
	return 0
}

func mouseEvent(b framebuf.MouseButton, x, y int, now time.Time) framebuf.InputEvent {
	return framebuf.InputEvent{
		Kind:   framebuf.MouseDown,
		Button: b,
		X:      float64(x),
		Y:      float64(y),
		Time:   now,
	}
}
