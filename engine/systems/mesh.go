package systems

import (
	"fmt"

	"github.com/spaghettifunk/lve/engine/core"
	"github.com/spaghettifunk/lve/engine/renderer"
	"github.com/spaghettifunk/lve/engine/renderer/metadata"
)

// MeshSystem uploads vertex data to the device and frees the buffers once
// the last reference to a mesh is released.
type MeshSystem struct {
	backend renderer.BufferBackend
	live    map[*metadata.Mesh]struct{}
}

func NewMeshSystem(backend renderer.BufferBackend) *MeshSystem {
	return &MeshSystem{
		backend: backend,
		live:    make(map[*metadata.Mesh]struct{}),
	}
}

// Upload copies vertices, and indices when there are any, into device
// buffers. The returned mesh holds one reference owned by the caller.
func (ms *MeshSystem) Upload(name string, vertices []metadata.Vertex, indices []uint32) (*metadata.Mesh, error) {
	if len(vertices) < 3 {
		err := fmt.Errorf("mesh %s: vertex count must be at least 3, got %d", name, len(vertices))
		core.LogError(err.Error())
		return nil, err
	}

	vb, err := ms.backend.CreateVertexBuffer(metadata.VerticesToBytes(vertices))
	if err != nil {
		err = fmt.Errorf("mesh %s: failed to create vertex buffer: %w", name, err)
		core.LogError(err.Error())
		return nil, err
	}

	ib := metadata.NullBuffer
	if len(indices) > 0 {
		ib, err = ms.backend.CreateIndexBuffer(metadata.IndicesToBytes(indices))
		if err != nil {
			ms.backend.DestroyBuffer(vb)
			err = fmt.Errorf("mesh %s: failed to create index buffer: %w", name, err)
			core.LogError(err.Error())
			return nil, err
		}
	}

	mesh := metadata.NewMesh(name, vb, ib, uint32(len(vertices)), uint32(len(indices)), ms.destroy)
	ms.live[mesh] = struct{}{}
	core.LogDebug("mesh '%s' uploaded: %d vertices, %d indices", name, len(vertices), len(indices))
	return mesh, nil
}

func (ms *MeshSystem) destroy(mesh *metadata.Mesh) {
	if _, ok := ms.live[mesh]; !ok {
		return
	}
	delete(ms.live, mesh)
	ms.backend.DestroyBuffer(mesh.VertexBuffer)
	if mesh.IndexBuffer != metadata.NullBuffer {
		ms.backend.DestroyBuffer(mesh.IndexBuffer)
	}
	core.LogDebug("mesh '%s' released", mesh.Name)
}

// Live returns the number of meshes whose buffers are still allocated.
func (ms *MeshSystem) Live() int {
	return len(ms.live)
}

// Shutdown frees the buffers of every mesh still referenced. The device
// must be idle.
func (ms *MeshSystem) Shutdown() error {
	for mesh := range ms.live {
		core.LogWarn("mesh '%s' still has %d references at shutdown", mesh.Name, mesh.RefCount())
		ms.destroy(mesh)
	}
	return nil
}
