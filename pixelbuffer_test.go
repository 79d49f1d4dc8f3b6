package framebuf

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestNewPixelBuffer(t *testing.T) {
	b := NewPixelBuffer(5, 3)
	if len(b.Pix) != 5*3*4 {
		t.Fatalf("len(Pix) = %d, want %d", len(b.Pix), 5*3*4)
	}
	if err := b.Valid(); err != nil {
		t.Errorf("Valid() = %v", err)
	}
	if b.Bounds() != image.Rect(0, 0, 5, 3) {
		t.Errorf("Bounds() = %v", b.Bounds())
	}
}

func TestPixelBufferValid(t *testing.T) {
	tests := []struct {
		name string
		buf  *PixelBuffer
		ok   bool
	}{
		{"exact", &PixelBuffer{Pix: make([]byte, 16), Width: 2, Height: 2}, true},
		{"one short", &PixelBuffer{Pix: make([]byte, 15), Width: 2, Height: 2}, false},
		{"one long", &PixelBuffer{Pix: make([]byte, 17), Width: 2, Height: 2}, false},
		{"zero width", &PixelBuffer{Pix: nil, Width: 0, Height: 2}, false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.buf.Valid()
			if tt.ok && err != nil {
				t.Errorf("Valid() = %v, want nil", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidBufferSize) {
				t.Errorf("Valid() = %v, want ErrInvalidBufferSize", err)
			}
		})
	}
}

func TestPixelBufferByteOrder(t *testing.T) {
	b := NewPixelBuffer(2, 2)
	b.Set(1, 0, color.RGBA{R: 0x11, G: 0x22, B: 0x33, A: 0xFF})

	i := 1 * 4
	if got := b.Pix[i : i+4]; got[0] != 0x33 || got[1] != 0x22 || got[2] != 0x11 || got[3] != 0xFF {
		t.Errorf("Pix = % x, want 33 22 11 ff", got)
	}
	if c := b.At(1, 0).(color.RGBA); c != (color.RGBA{R: 0x11, G: 0x22, B: 0x33, A: 0xFF}) {
		t.Errorf("At(1,0) = %v", c)
	}

	// Out-of-range writes are ignored.
	b.SetBGRA(-1, 0, 1, 2, 3, 4)
	b.SetBGRA(2, 0, 1, 2, 3, 4)
	if c := b.At(5, 5); c != (color.RGBA{}) {
		t.Errorf("At out of range = %v, want zero", c)
	}
}

func TestPixelBufferFillClear(t *testing.T) {
	b := NewPixelBuffer(3, 1)
	b.Fill(color.RGBA{R: 1, G: 2, B: 3, A: 4})
	for x := range 3 {
		if got := b.Pix[x*4 : x*4+4]; got[0] != 3 || got[1] != 2 || got[2] != 1 || got[3] != 4 {
			t.Fatalf("pixel %d = %v", x, got)
		}
	}
	b.Clear()
	for i, v := range b.Pix {
		if v != 0 {
			t.Fatalf("byte %d = %d after Clear", i, v)
		}
	}
}

func TestPixelBufferToRGBA(t *testing.T) {
	b := NewPixelBuffer(1, 1)
	b.SetBGRA(0, 0, 10, 20, 30, 255)
	img := b.ToRGBA()
	if img.Pix[0] != 30 || img.Pix[1] != 20 || img.Pix[2] != 10 || img.Pix[3] != 255 {
		t.Errorf("ToRGBA Pix = %v, want [30 20 10 255]", img.Pix[:4])
	}
}

func TestPixelBufferDrawImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+3] = 200, 255
	}

	b := NewPixelBuffer(4, 4)
	b.DrawImage(img)
	for y := range 4 {
		for x := range 4 {
			c := b.At(x, y).(color.RGBA)
			if c.R < 199 || c.R > 200 || c.A != 255 || c.G != 0 || c.B != 0 {
				t.Fatalf("At(%d,%d) = %v, want solid red", x, y, c)
			}
		}
	}
}

func TestPixelBufferCopyFrom(t *testing.T) {
	dst := NewPixelBuffer(2, 2)
	src := NewPixelBuffer(2, 2)
	src.Fill(color.White)
	if err := dst.CopyFrom(src); err != nil {
		t.Fatal(err)
	}
	if dst.Pix[0] != 0xFF {
		t.Error("CopyFrom did not copy samples")
	}
	if err := dst.CopyFrom(NewPixelBuffer(3, 2)); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("CopyFrom mismatched = %v, want ErrSizeMismatch", err)
	}
}

func TestSwizzleBGRA(t *testing.T) {
	src := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	dst := make([]byte, len(src))
	SwizzleBGRA(dst, src)
	want := []byte{3, 2, 1, 4, 7, 6, 5, 8}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("SwizzleBGRA = %v, want %v", dst, want)
		}
	}
}
