package sim

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/gogpu/framebuf"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// HUD draws frame timing in the top-left corner of the buffer.
type HUD struct {
	// Stats supplies the averaged rate; without it the HUD shows the last
	// frame only.
	Stats *framebuf.FrameStats

	Face       font.Face
	Color      color.Color
	Background color.Color
	Margin     int

	printer *message.Printer
}

// NewHUD returns a HUD in 7x13 white text on a translucent black box.
func NewHUD(stats *framebuf.FrameStats) *HUD {
	return &HUD{
		Stats:      stats,
		Face:       basicfont.Face7x13,
		Color:      color.White,
		Background: color.RGBA{A: 0xA0},
		Margin:     4,
		printer:    message.NewPrinter(language.English),
	}
}

// Lines returns the text the HUD shows for report.
func (h *HUD) Lines(report framebuf.FrameTimingReport) []string {
	if h.printer == nil {
		h.printer = message.NewPrinter(language.English)
	}
	ms := report.Elapsed * 1000
	lines := []string{
		h.printer.Sprintf("frame %d", report.Frame),
		h.printer.Sprintf("%.2f ms", ms),
	}
	if h.Stats != nil {
		snap := h.Stats.Snapshot()
		lines = append(lines, h.printer.Sprintf("%.1f fps (max %.2f ms)",
			snap.FPS, float64(snap.Max.Microseconds())/1000))
	}
	return lines
}

// Draw renders the overlay for report into buf.
func (h *HUD) Draw(buf *framebuf.PixelBuffer, report framebuf.FrameTimingReport) {
	lines := h.Lines(report)
	metrics := h.Face.Metrics()
	lineHeight := metrics.Height.Ceil()
	ascent := metrics.Ascent.Ceil()

	d := &font.Drawer{Dst: buf, Src: image.NewUniform(h.Color), Face: h.Face}
	width := 0
	for _, l := range lines {
		width = max(width, d.MeasureString(l).Ceil())
	}
	box := image.Rect(0, 0, width+2*h.Margin, len(lines)*lineHeight+2*h.Margin).Intersect(buf.Bounds())
	draw.Draw(buf, box, image.NewUniform(h.Background), image.Point{}, draw.Over)

	for i, l := range lines {
		d.Dot = fixed.P(h.Margin, h.Margin+ascent+i*lineHeight)
		d.DrawString(l)
	}
}

// Demo is the full fbdemo producer: the gradient with the HUD on top.
type Demo struct {
	Gradient *Gradient
	HUD      *HUD
}

// NewDemo returns a demo whose HUD reads stats.
func NewDemo(stats *framebuf.FrameStats) *Demo {
	return &Demo{Gradient: NewGradient(), HUD: NewHUD(stats)}
}

// Produce implements framebuf.Producer.
func (d *Demo) Produce(buf *framebuf.PixelBuffer, events []framebuf.InputEvent, report framebuf.FrameTimingReport) {
	d.Gradient.Produce(buf, events, report)
	if d.HUD != nil {
		d.HUD.Draw(buf, report)
	}
}
