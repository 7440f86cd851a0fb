package systems

import (
	"testing"
	"unsafe"

	"github.com/spaghettifunk/lve/engine/core"
	"github.com/spaghettifunk/lve/engine/math"
	"github.com/spaghettifunk/lve/engine/renderer/components"
	"github.com/spaghettifunk/lve/engine/renderer/metadata"
	"github.com/spaghettifunk/lve/engine/renderer/renderertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodePush(t *testing.T, data []byte) SimplePushConstantData {
	t.Helper()
	require.Len(t, data, int(SimplePushConstantSize))
	return *(*SimplePushConstantData)(unsafe.Pointer(&data[0]))
}

func TestPushConstantLayout(t *testing.T) {
	assert.Equal(t, uint32(80), SimplePushConstantSize)
	assert.Equal(t, uintptr(64), unsafe.Offsetof(SimplePushConstantData{}.Color))
}

func TestNewRenderSystem(t *testing.T) {
	s := newTestScene(t)
	rs := s.newRenderSystem(t)

	require.Len(t, s.backend.PushRanges, 1)
	assert.Equal(t, []metadata.PushConstantRange{{
		Stages: metadata.ShaderStageVertex | metadata.ShaderStageFragment,
		Offset: 0,
		Size:   80,
	}}, s.backend.PushRanges[0])

	require.Len(t, s.backend.Pipelines, 1)
	cfg := s.backend.Pipelines[0]
	assert.Equal(t, rs.PipelineLayout(), cfg.Layout)
	assert.Equal(t, s.renderer.RenderPass(), cfg.RenderPass)
	assert.True(t, cfg.HasDynamicState(metadata.DynamicStateViewport))
	assert.True(t, cfg.HasDynamicState(metadata.DynamicStateScissor))
	assert.Equal(t, []string{testShaders.Vertex, testShaders.Fragment}, s.loader.Reads)
	assert.Zero(t, s.backend.Live("shadermodule"))
}

func TestNewRenderSystemFailures(t *testing.T) {
	t.Run("missing shader", func(t *testing.T) {
		s := newTestScene(t)
		delete(s.loader.Files, testShaders.Fragment)
		_, err := NewRenderSystem(s.backend, s.loader, RenderSystemConfig{
			RenderPass: s.renderer.RenderPass(),
			Extent:     s.renderer.Extent(),
			Shaders:    testShaders,
		})
		var missing *core.MissingResourceError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, testShaders.Fragment, missing.Path)
		assert.Zero(t, s.backend.Live("pipelinelayout"))
	})

	t.Run("layout rejected", func(t *testing.T) {
		s := newTestScene(t)
		s.backend.Fail("CreatePipelineLayout", renderertest.ErrInjected)
		_, err := NewRenderSystem(s.backend, s.loader, RenderSystemConfig{
			RenderPass: s.renderer.RenderPass(),
			Shaders:    testShaders,
		})
		var rejected *core.BuildRejectedError
		require.ErrorAs(t, err, &rejected)
		assert.ErrorIs(t, err, renderertest.ErrInjected)
	})

	t.Run("no render pass", func(t *testing.T) {
		s := newTestScene(t)
		_, err := NewRenderSystem(s.backend, s.loader, RenderSystemConfig{Shaders: testShaders})
		assert.ErrorIs(t, err, core.ErrMissingRenderPass)
		assert.Zero(t, s.backend.Live("pipelinelayout"))
	})
}

func TestRenderObjectsThreeObjectScenario(t *testing.T) {
	s := newTestScene(t)
	rs := s.newRenderSystem(t)
	meshes := NewMeshSystem(s.backend)
	store := NewObjectStore(core.NewIDAllocator())

	cubeMesh, err := meshes.Upload("cube", Cube(math.NewVec3Zero()), nil)
	require.NoError(t, err)
	faceMesh, err := meshes.Upload("face", Face(math.NewVec3Zero()), nil)
	require.NoError(t, err)

	cube := store.Create()
	store.SetMesh(cube, cubeMesh)
	face := store.Create()
	store.SetMesh(face, faceMesh)
	store.Create()
	cubeMesh.Release()
	faceMesh.Release()

	var draws int
	s.frame(t, func(cb metadata.CommandBuffer) {
		draws = rs.RenderObjects(cb, store.Objects(), nil)
	})

	assert.Equal(t, 2, draws)
	require.Len(t, s.backend.Draws, 2)
	assert.Equal(t, cubeMesh.VertexBuffer, s.backend.Draws[0].VertexBuffer)
	assert.Equal(t, uint32(36), s.backend.Draws[0].Count)
	assert.Equal(t, faceMesh.VertexBuffer, s.backend.Draws[1].VertexBuffer)
	assert.Equal(t, faceMesh.VertexCount, s.backend.Draws[1].Count)
	for _, d := range s.backend.Draws {
		assert.False(t, d.Indexed)
		assert.Equal(t, rs.pipeline.Handle(), d.Pipeline)
	}

	store.Clear()
	assert.Zero(t, meshes.Live())
	assert.Zero(t, s.backend.Live("buffer"))
}

func TestRenderObjectsIndexedMesh(t *testing.T) {
	s := newTestScene(t)
	rs := s.newRenderSystem(t)
	meshes := NewMeshSystem(s.backend)

	vertices, indices := CubeIndexed(math.NewVec3Zero())
	mesh, err := meshes.Upload("cube", vertices, indices)
	require.NoError(t, err)
	defer mesh.Release()

	obj := &metadata.GameObject{Mesh: mesh, Transform: math.NewTransformComponent()}
	s.frame(t, func(cb metadata.CommandBuffer) {
		assert.Equal(t, 1, rs.RenderObjects(cb, []*metadata.GameObject{obj}, nil))
	})

	require.Len(t, s.backend.Draws, 1)
	d := s.backend.Draws[0]
	assert.True(t, d.Indexed)
	assert.Equal(t, uint32(36), d.Count)
	assert.Equal(t, mesh.IndexBuffer, d.IndexBuffer)
}

func TestRenderObjectsPushConstants(t *testing.T) {
	s := newTestScene(t)
	rs := s.newRenderSystem(t)
	meshes := NewMeshSystem(s.backend)
	mesh, err := meshes.Upload("triangle", Triangle(math.NewVec3One()), nil)
	require.NoError(t, err)
	defer mesh.Release()

	obj := &metadata.GameObject{
		Mesh:      mesh,
		Color:     math.NewVec3(.1, .2, .3),
		Transform: math.NewTransformComponent(),
	}
	obj.Transform.Translation = math.NewVec3(0, 0, 2.5)
	obj.Transform.Scale = math.NewVec3(.5, .5, .5)

	camera := components.NewCamera()
	camera.SetPerspectiveProjection(math.DegToRad(50), s.renderer.AspectRatio(), 0.1, 10)
	camera.SetViewTarget(math.NewVec3(-1, -2, 2), math.NewVec3(0, 0, 2.5), math.NewVec3(0, -1, 0))

	s.frame(t, func(cb metadata.CommandBuffer) {
		rs.RenderObjects(cb, []*metadata.GameObject{obj}, nil)
		rs.RenderObjects(cb, []*metadata.GameObject{obj}, camera)
	})

	require.Len(t, s.backend.Draws, 2)
	plain := decodePush(t, s.backend.Draws[0].PushConstants)
	assert.True(t, plain.Transform.Compare(obj.ModelMatrix(), 1e-6))
	assert.Equal(t, obj.Color, plain.Color)

	viewed := decodePush(t, s.backend.Draws[1].PushConstants)
	want := obj.ModelMatrix().Mul(camera.GetView()).Mul(camera.GetProjection())
	assert.True(t, viewed.Transform.Compare(want, 1e-4))
	assert.Equal(t, obj.Color, viewed.Color)
}

func TestRenderObjectsSkipsObjectsWithoutMesh(t *testing.T) {
	s := newTestScene(t)
	rs := s.newRenderSystem(t)

	s.frame(t, func(cb metadata.CommandBuffer) {
		n := rs.RenderObjects(cb, []*metadata.GameObject{nil, {Transform: math.NewTransformComponent()}}, nil)
		assert.Zero(t, n)
	})
	assert.Empty(t, s.backend.Draws)
}

func TestRenderSystemReload(t *testing.T) {
	s := newTestScene(t)
	rs := s.newRenderSystem(t)
	before := rs.pipeline.Handle()

	require.NoError(t, rs.Reload(s.renderer.RenderPass()))
	assert.NotEqual(t, before, rs.pipeline.Handle())
	assert.Equal(t, 1, s.backend.Live("pipeline"))

	current := rs.pipeline.Handle()
	s.backend.Fail("CreateGraphicsPipeline", renderertest.ErrInjected)
	err := rs.Reload(s.renderer.RenderPass())
	require.Error(t, err)
	assert.ErrorIs(t, err, renderertest.ErrInjected)
	assert.Equal(t, current, rs.pipeline.Handle())
	assert.Equal(t, 1, s.backend.Live("pipeline"))
}

func TestRenderSystemDestroy(t *testing.T) {
	s := newTestScene(t)
	rs := s.newRenderSystem(t)

	rs.Destroy()
	rs.Destroy()
	assert.Zero(t, s.backend.Live("pipeline"))
	assert.Zero(t, s.backend.Live("pipelinelayout"))
}
