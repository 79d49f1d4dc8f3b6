// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gogpuwindow

import (
	"strconv"

	"github.com/gogpu/framebuf"
	"github.com/gogpu/gpucontext"
)

// Key names follow the W3C KeyboardEvent.code spelling that ebiten's
// Key.String also uses, so producers see the same names on every platform.
var keyNames = map[gpucontext.Key]string{
	gpucontext.KeyEscape:    "Escape",
	gpucontext.KeyTab:       "Tab",
	gpucontext.KeyBackspace: "Backspace",
	gpucontext.KeyEnter:     "Enter",
	gpucontext.KeySpace:     "Space",
	gpucontext.KeyInsert:    "Insert",
	gpucontext.KeyDelete:    "Delete",
	gpucontext.KeyHome:      "Home",
	gpucontext.KeyEnd:       "End",
	gpucontext.KeyPageUp:    "PageUp",
	gpucontext.KeyPageDown:  "PageDown",
	gpucontext.KeyLeft:      "ArrowLeft",
	gpucontext.KeyRight:     "ArrowRight",
	gpucontext.KeyUp:        "ArrowUp",
	gpucontext.KeyDown:      "ArrowDown",

	gpucontext.KeyLeftShift:    "ShiftLeft",
	gpucontext.KeyRightShift:   "ShiftRight",
	gpucontext.KeyLeftControl:  "ControlLeft",
	gpucontext.KeyRightControl: "ControlRight",
	gpucontext.KeyLeftAlt:      "AltLeft",
	gpucontext.KeyRightAlt:     "AltRight",
	gpucontext.KeyLeftSuper:    "MetaLeft",
	gpucontext.KeyRightSuper:   "MetaRight",

	gpucontext.KeyMinus:        "Minus",
	gpucontext.KeyEqual:        "Equal",
	gpucontext.KeyLeftBracket:  "BracketLeft",
	gpucontext.KeyRightBracket: "BracketRight",
	gpucontext.KeyBackslash:    "Backslash",
	gpucontext.KeySemicolon:    "Semicolon",
	gpucontext.KeyApostrophe:   "Quote",
	gpucontext.KeyGrave:        "Backquote",
	gpucontext.KeyComma:        "Comma",
	gpucontext.KeyPeriod:       "Period",
	gpucontext.KeySlash:        "Slash",

	gpucontext.KeyCapsLock:    "CapsLock",
	gpucontext.KeyScrollLock:  "ScrollLock",
	gpucontext.KeyNumLock:     "NumLock",
	gpucontext.KeyPrintScreen: "PrintScreen",
	gpucontext.KeyPause:       "Pause",
}

// keyName returns the name of key, or "Key<code>" for keys without one.
func keyName(key gpucontext.Key) string {
	switch {
	case key >= gpucontext.KeyA && key <= gpucontext.KeyZ:
		return string(rune('A' + key - gpucontext.KeyA))
	case key >= gpucontext.Key0 && key <= gpucontext.Key9:
		return "Digit" + string(rune('0'+key-gpucontext.Key0))
	case key >= gpucontext.KeyF1 && key <= gpucontext.KeyF12:
		return "F" + strconv.Itoa(int(key-gpucontext.KeyF1)+1)
	case key >= gpucontext.KeyNumpad0 && key <= gpucontext.KeyNumpad9:
		return "Numpad" + string(rune('0'+key-gpucontext.KeyNumpad0))
	}
	if name, ok := keyNames[key]; ok {
		return name
	}
	return "Key" + strconv.Itoa(int(key))
}

// keyRune returns the unshifted character a key press types, or 0.
func keyRune(key gpucontext.Key) rune {
	switch {
	case key >= gpucontext.KeyA && key <= gpucontext.KeyZ:
		return rune('a' + key - gpucontext.KeyA)
	case key >= gpucontext.Key0 && key <= gpucontext.Key9:
		return rune('0' + key - gpucontext.Key0)
	case key == gpucontext.KeySpace:
		return ' '
	}
	return 0
}

// mouseButton maps a gogpu button to the producer's button.
func mouseButton(b gpucontext.MouseButton) (framebuf.MouseButton, bool) {
	switch b {
	case gpucontext.MouseButtonLeft:
		return framebuf.MouseLeft, true
	case gpucontext.MouseButtonRight:
		return framebuf.MouseRight, true
	case gpucontext.MouseButtonMiddle:
		return framebuf.MouseMiddle, true
	}
	return 0, false
}
