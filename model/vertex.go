package model

import (
	"math"
	"unsafe"

	"github.com/dskgfx/dsk/gpu"
	"github.com/dskgfx/dsk/internal/dedup"
	"github.com/dskgfx/dsk/internal/glm"
)

// Vertex is the interleaved per-vertex layout consumed by the shaders.
// Two vertices are equal when all four fields are equal.
type Vertex struct {
	Position glm.Vec3[float32]
	Color    glm.Vec3[float32]
	Normal   glm.Vec3[float32]
	UV       glm.Vec2[float32]
}

// BindingDescriptions describes the single interleaved vertex buffer.
func (Vertex) BindingDescriptions() []gpu.VertexInputBinding {
	return []gpu.VertexInputBinding{{
		Binding:   0,
		Stride:    uint32(unsafe.Sizeof(Vertex{})),
		InputRate: gpu.VertexInputRateVertex,
	}}
}

func (Vertex) AttributeDescriptions() []gpu.VertexInputAttribute {
	return []gpu.VertexInputAttribute{
		{Location: 0, Binding: 0, Format: gpu.FormatR32G32B32Sfloat, Offset: uint32(unsafe.Offsetof(Vertex{}.Position))},
		{Location: 1, Binding: 0, Format: gpu.FormatR32G32B32Sfloat, Offset: uint32(unsafe.Offsetof(Vertex{}.Color))},
		{Location: 2, Binding: 0, Format: gpu.FormatR32G32B32Sfloat, Offset: uint32(unsafe.Offsetof(Vertex{}.Normal))},
		{Location: 3, Binding: 0, Format: gpu.FormatR32G32Sfloat, Offset: uint32(unsafe.Offsetof(Vertex{}.UV))},
	}
}

// VertexHasher is the hash function object used to deduplicate vertices.
// It combines position, color, normal and uv, in that order, into one seed.
type VertexHasher struct{}

var _ dedup.Hasher[Vertex] = VertexHasher{}

func (VertexHasher) Hash(v Vertex) uint64 {
	var seed uint64
	seed = dedup.Combine(seed, hashFloats(v.Position[:]))
	seed = dedup.Combine(seed, hashFloats(v.Color[:]))
	seed = dedup.Combine(seed, hashFloats(v.Normal[:]))
	seed = dedup.Combine(seed, hashFloats(v.UV[:]))
	return seed
}

func (VertexHasher) Equal(a, b Vertex) bool {
	return a == b
}

func hashFloats(fs []float32) uint64 {
	var seed uint64
	for _, f := range fs {
		if f == 0 {
			f = 0 // -0 == +0, so they must hash alike
		}
		seed = dedup.Combine(seed, dedup.Mix64(uint64(math.Float32bits(f))))
	}
	return seed
}
