package sim

import (
	"math"
	"strings"

	"github.com/gogpu/framebuf"
)

// Gradient defaults.
const (
	DefaultSpeed = 60 // pixels per second
	DefaultStep  = 16 // pixels per key press
)

// Gradient draws blue = x + XOffset, green = y + YOffset, both wrapping at
// 256. The offsets scroll by Speed pixels per second along X and move by
// Step on arrow or WASD key presses. A left click moves the pattern origin
// to the cursor; a right click resets it.
type Gradient struct {
	XOffset, YOffset float64
	Speed            float64
	Step             float64
}

// NewGradient returns a gradient with the default speed and step.
func NewGradient() *Gradient {
	return &Gradient{Speed: DefaultSpeed, Step: DefaultStep}
}

// Apply updates the offsets from input events.
func (g *Gradient) Apply(events []framebuf.InputEvent) {
	for _, ev := range events {
		switch ev.Kind {
		case framebuf.KeyDown:
			dx, dy := direction(ev.Key)
			g.XOffset += dx * g.Step
			g.YOffset += dy * g.Step
		case framebuf.MouseDown:
			switch ev.Button {
			case framebuf.MouseLeft:
				g.XOffset, g.YOffset = -ev.X, -ev.Y
			case framebuf.MouseRight:
				g.XOffset, g.YOffset = 0, 0
			}
		}
	}
}

// direction maps a key name to a unit move. Platforms name keys
// differently ("ArrowLeft", "Left", "A"), so the match is loose.
func direction(key string) (dx, dy float64) {
	switch strings.ToLower(strings.TrimPrefix(key, "Key")) {
	case "arrowleft", "left", "a":
		return -1, 0
	case "arrowright", "right", "d":
		return 1, 0
	case "arrowup", "up", "w":
		return 0, -1
	case "arrowdown", "down", "s":
		return 0, 1
	}
	return 0, 0
}

// Advance scrolls the gradient by elapsed seconds.
func (g *Gradient) Advance(elapsed float64) {
	if elapsed <= 0 {
		return
	}
	g.XOffset += g.Speed * elapsed
}

// Render fills buf with the gradient.
func (g *Gradient) Render(buf *framebuf.PixelBuffer) {
	xo := int(math.Floor(g.XOffset))
	yo := int(math.Floor(g.YOffset))
	for y := 0; y < buf.Height; y++ {
		row := buf.Pix[y*buf.Width*4 : (y+1)*buf.Width*4]
		green := uint8(y + yo) //nolint:gosec // wraps at 256
		for x := 0; x < buf.Width; x++ {
			i := x * 4
			row[i+0] = uint8(x + xo) //nolint:gosec // wraps at 256
			row[i+1] = green
			row[i+2] = 0
			row[i+3] = 0xFF
		}
	}
}

// Produce implements framebuf.Producer.
func (g *Gradient) Produce(buf *framebuf.PixelBuffer, events []framebuf.InputEvent, report framebuf.FrameTimingReport) {
	g.Apply(events)
	g.Advance(report.Elapsed)
	g.Render(buf)
}
