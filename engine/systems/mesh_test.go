package systems

import (
	"testing"

	"github.com/spaghettifunk/lve/engine/math"
	"github.com/spaghettifunk/lve/engine/renderer/metadata"
	"github.com/spaghettifunk/lve/engine/renderer/renderertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeshSystemUpload(t *testing.T) {
	backend := renderertest.NewBackend()
	meshes := NewMeshSystem(backend)

	vertices := Triangle(math.NewVec3(1, 0, 0))
	mesh, err := meshes.Upload("triangle", vertices, nil)
	require.NoError(t, err)

	assert.Equal(t, uint32(3), mesh.VertexCount)
	assert.False(t, mesh.IsIndexed())
	assert.Equal(t, metadata.NullBuffer, mesh.IndexBuffer)
	assert.Equal(t, int32(1), mesh.RefCount())
	assert.Equal(t, metadata.VerticesToBytes(vertices), backend.BufferData(mesh.VertexBuffer))
	assert.Equal(t, 1, backend.Live("buffer"))

	mesh.Release()
	assert.Zero(t, backend.Live("buffer"))
	assert.Zero(t, meshes.Live())
}

func TestMeshSystemUploadIndexed(t *testing.T) {
	backend := renderertest.NewBackend()
	meshes := NewMeshSystem(backend)

	vertices, indices := CubeIndexed(math.NewVec3Zero())
	mesh, err := meshes.Upload("cube", vertices, indices)
	require.NoError(t, err)

	assert.True(t, mesh.IsIndexed())
	assert.Equal(t, uint32(24), mesh.VertexCount)
	assert.Equal(t, uint32(36), mesh.IndexCount)
	assert.Equal(t, metadata.IndicesToBytes(indices), backend.BufferData(mesh.IndexBuffer))
	assert.Equal(t, 2, backend.Live("buffer"))

	mesh.Release()
	assert.Zero(t, backend.Live("buffer"))
}

func TestMeshSystemUploadErrors(t *testing.T) {
	t.Run("too few vertices", func(t *testing.T) {
		meshes := NewMeshSystem(renderertest.NewBackend())
		_, err := meshes.Upload("line", Triangle(math.NewVec3One())[:2], nil)
		assert.Error(t, err)
	})

	t.Run("index buffer rejected", func(t *testing.T) {
		backend := renderertest.NewBackend()
		backend.Fail("CreateIndexBuffer", renderertest.ErrInjected)
		meshes := NewMeshSystem(backend)
		vertices, indices := CubeIndexed(math.NewVec3Zero())
		_, err := meshes.Upload("cube", vertices, indices)
		assert.ErrorIs(t, err, renderertest.ErrInjected)
		assert.Zero(t, backend.Live("buffer"))
		assert.Zero(t, meshes.Live())
	})
}

func TestMeshSystemShutdownFreesLeakedMeshes(t *testing.T) {
	backend := renderertest.NewBackend()
	meshes := NewMeshSystem(backend)
	_, err := meshes.Upload("a", Cube(math.NewVec3Zero()), nil)
	require.NoError(t, err)
	_, err = meshes.Upload("b", Triangle(math.NewVec3One()), nil)
	require.NoError(t, err)

	require.NoError(t, meshes.Shutdown())
	assert.Zero(t, meshes.Live())
	assert.Zero(t, backend.Live("buffer"))
}
