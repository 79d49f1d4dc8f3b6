package framebuf

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestFullScreenQuadVertices(t *testing.T) {
	want := [6][4]float32{
		{-1, -1, 0, 1},
		{1, -1, 1, 1},
		{-1, 1, 0, 0},
		{1, -1, 1, 1},
		{1, 1, 1, 0},
		{-1, 1, 0, 0},
	}
	q := FullScreenQuad()
	for i, v := range q {
		got := [4]float32{v.X, v.Y, v.U, v.V}
		if got != want[i] {
			t.Errorf("vertex %d = %v, want %v", i, got, want[i])
		}
	}
}

func TestQuadBytes(t *testing.T) {
	q := FullScreenQuad()
	b := q.Bytes()
	if len(b) != QuadVertexCount*QuadVertexStride {
		t.Fatalf("len(Bytes()) = %d, want %d", len(b), QuadVertexCount*QuadVertexStride)
	}
	// Vertex 4 is (1, 1 | 1, 0).
	off := 4 * QuadVertexStride
	for i, want := range []float32{1, 1, 1, 0} {
		got := math.Float32frombits(binary.LittleEndian.Uint32(b[off+i*4:]))
		if got != want {
			t.Errorf("vertex 4 component %d = %v, want %v", i, got, want)
		}
	}
}
