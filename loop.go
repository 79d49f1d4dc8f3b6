package framebuf

import "fmt"

// Producer renders the next frame into buf. events holds the input received
// since the previous call; report describes the last frame that reached
// the screen (zero before the first one).
//
// buf is reused between calls and reallocated when the surface is resized,
// so a Producer must not keep it.
type Producer func(buf *PixelBuffer, events []InputEvent, report FrameTimingReport)

// Loop runs one Producer against one Presenter. Platform integrations call
// Frame from their refresh callback; it keeps the buffer and texture sized
// to the surface, hands pending input to the producer and presents.
//
// Loop is NOT safe for concurrent use, matching Presenter.
type Loop struct {
	producer Producer
	input    *InputQueue

	buf    *PixelBuffer
	events []InputEvent
	last   FrameTimingReport
}

// NewLoop creates a loop. A nil input queue means the producer never sees
// events; a nil producer presents a black frame.
func NewLoop(producer Producer, input *InputQueue) *Loop {
	return &Loop{producer: producer, input: input}
}

// Frame renders and presents one frame on a width x height surface. When
// the size differs from the presenter's texture, the texture and the
// buffer are reallocated first.
//
// Errors are those of Presenter.Resize and Presenter.PresentFrame; use
// IsTransient to decide whether to keep going.
func (l *Loop) Frame(p *Presenter, surface Surface, width, height int) (FrameTimingReport, error) {
	if tw, th := p.Size(); tw != width || th != height {
		if err := p.Resize(width, height); err != nil {
			return FrameTimingReport{}, fmt.Errorf("framebuf: loop resize: %w", err)
		}
	}
	if l.buf == nil || l.buf.Width != width || l.buf.Height != height {
		l.buf = NewPixelBuffer(width, height)
	}

	l.events = l.events[:0]
	if l.input != nil {
		l.events = l.input.Drain(l.events)
	}
	if l.producer != nil {
		l.producer(l.buf, l.events, l.last)
	}

	report, err := p.PresentFrame(l.buf, surface)
	if err != nil {
		return FrameTimingReport{}, err
	}
	l.last = report
	return report, nil
}

// Buffer returns the current frame buffer, or nil before the first Frame.
func (l *Loop) Buffer() *PixelBuffer {
	return l.buf
}

// Last returns the report of the last successful Frame.
func (l *Loop) Last() FrameTimingReport {
	return l.last
}
