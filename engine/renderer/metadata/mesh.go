package metadata

import (
	"sync/atomic"

	"github.com/spaghettifunk/lve/engine/core"
)

/**
 * @brief Vertex and index data living in device buffers. A mesh never
 * changes after upload and may be shared by many game objects; it keeps an
 * explicit reference count and its buffers are released when the last
 * reference goes away.
 */
type Mesh struct {
	/** @brief The mesh name, used for logging. */
	Name string
	/** @brief The device buffer holding the vertices. */
	VertexBuffer Buffer
	/** @brief The device buffer holding the indices, or NullBuffer. */
	IndexBuffer Buffer
	VertexCount uint32
	IndexCount  uint32

	refs    atomic.Int32
	release func(m *Mesh)
}

// NewMesh returns a mesh holding one reference. release runs once, when
// the count drops to zero.
func NewMesh(name string, vertexBuffer, indexBuffer Buffer, vertexCount, indexCount uint32, release func(m *Mesh)) *Mesh {
	m := &Mesh{
		Name:         name,
		VertexBuffer: vertexBuffer,
		IndexBuffer:  indexBuffer,
		VertexCount:  vertexCount,
		IndexCount:   indexCount,
		release:      release,
	}
	m.refs.Store(1)
	return m
}

// IsIndexed reports whether the mesh is drawn through its index buffer.
func (m *Mesh) IsIndexed() bool {
	return m.IndexBuffer != NullBuffer && m.IndexCount > 0
}

func (m *Mesh) Retain() *Mesh {
	n := m.refs.Add(1)
	core.Assert(n > 1, "Mesh.Retain", "mesh "+m.Name+" was already released")
	return m
}

// Release drops one reference and frees the buffers on the last one.
func (m *Mesh) Release() {
	n := m.refs.Add(-1)
	core.Assert(n >= 0, "Mesh.Release", "mesh "+m.Name+" released more times than retained")
	if n == 0 && m.release != nil {
		m.release(m)
	}
}

func (m *Mesh) RefCount() int32 {
	return m.refs.Load()
}
