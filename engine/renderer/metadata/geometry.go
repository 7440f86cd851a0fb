package metadata

import (
	"unsafe"

	"github.com/spaghettifunk/lve/engine/math"
)

/**
 * @brief The vertex layout fed to the simple shader: a position and a colour.
 */
type Vertex struct {
	Position math.Vec3
	Color    math.Vec3
}

/** @brief Size in bytes of a single Vertex. */
const VertexStride = uint32(unsafe.Sizeof(Vertex{}))

type VertexInputRate int

const (
	VertexInputRateVertex   VertexInputRate = 0
	VertexInputRateInstance VertexInputRate = 1
)

/** @brief Describes one vertex buffer binding. */
type VertexBinding struct {
	Binding   uint32
	Stride    uint32
	InputRate VertexInputRate
}

/** @brief Describes one vertex attribute read from a binding. */
type VertexAttribute struct {
	Location uint32
	Binding  uint32
	Format   Format
	Offset   uint32
}

// VertexBindingDescriptions returns the single interleaved binding used by Vertex.
func VertexBindingDescriptions() []VertexBinding {
	return []VertexBinding{
		{Binding: 0, Stride: VertexStride, InputRate: VertexInputRateVertex},
	}
}

// VertexAttributeDescriptions returns position at location 0 and colour at location 1.
func VertexAttributeDescriptions() []VertexAttribute {
	return []VertexAttribute{
		{
			Location: 0,
			Binding:  0,
			Format:   FormatR32G32B32Sfloat,
			Offset:   uint32(unsafe.Offsetof(Vertex{}.Position)),
		},
		{
			Location: 1,
			Binding:  0,
			Format:   FormatR32G32B32Sfloat,
			Offset:   uint32(unsafe.Offsetof(Vertex{}.Color)),
		},
	}
}

// VerticesToBytes views the vertex slice as raw bytes for upload.
func VerticesToBytes(vertices []Vertex) []byte {
	if len(vertices) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&vertices[0])), len(vertices)*int(VertexStride))
}

// IndicesToBytes views the index slice as raw bytes for upload.
func IndicesToBytes(indices []uint32) []byte {
	if len(indices) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&indices[0])), len(indices)*4)
}
