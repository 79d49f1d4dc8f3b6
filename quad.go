package framebuf

import (
	"encoding/binary"
	"math"
)

// QuadVertexStride is the byte stride of one quad vertex:
//
//	position  (vec2<f32>) = 8 bytes  (location 0)
//	tex_coord (vec2<f32>) = 8 bytes  (location 1)
const QuadVertexStride = 16

// QuadVertexCount is the number of vertices drawn per frame: two triangles,
// no index buffer.
const QuadVertexCount = 6

// QuadVertex is one vertex of the full-screen quad.
type QuadVertex struct {
	X, Y float32 // normalized device coordinates
	U, V float32 // texture coordinates
}

// QuadGeometry is the static full-screen quad. It is an array, so every copy
// is independent and the original can never be mutated through a copy.
type QuadGeometry [QuadVertexCount]QuadVertex

// fullScreenQuad spans NDC [-1,1]x[-1,1]. V is flipped so that row 0 of the
// pixel buffer lands at the top of the surface.
var fullScreenQuad = QuadGeometry{
	{X: -1, Y: -1, U: 0, V: 1},
	{X: 1, Y: -1, U: 1, V: 1},
	{X: -1, Y: 1, U: 0, V: 0},
	{X: 1, Y: -1, U: 1, V: 1},
	{X: 1, Y: 1, U: 1, V: 0},
	{X: -1, Y: 1, U: 0, V: 0},
}

// FullScreenQuad returns the full-screen quad geometry.
func FullScreenQuad() QuadGeometry {
	return fullScreenQuad
}

// Bytes encodes the quad as a little-endian vertex buffer.
func (q QuadGeometry) Bytes() []byte {
	buf := make([]byte, len(q)*QuadVertexStride)
	for i, v := range q {
		off := i * QuadVertexStride
		binary.LittleEndian.PutUint32(buf[off+0:], math.Float32bits(v.X))
		binary.LittleEndian.PutUint32(buf[off+4:], math.Float32bits(v.Y))
		binary.LittleEndian.PutUint32(buf[off+8:], math.Float32bits(v.U))
		binary.LittleEndian.PutUint32(buf[off+12:], math.Float32bits(v.V))
	}
	return buf
}
