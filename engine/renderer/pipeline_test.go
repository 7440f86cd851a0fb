package renderer

import (
	"errors"
	"testing"

	"github.com/spaghettifunk/lve/engine/core"
	"github.com/spaghettifunk/lve/engine/renderer/metadata"
	"github.com/spaghettifunk/lve/engine/renderer/renderertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	vertPath = "shaders/simple_shader.vert.spv"
	fragPath = "shaders/simple_shader.frag.spv"
)

func pipelineFixture(t *testing.T) (*renderertest.Backend, *renderertest.Loader, metadata.PipelineConfig) {
	t.Helper()
	backend := renderertest.NewBackend()
	loader := renderertest.NewLoader(map[string][]byte{
		vertPath: renderertest.SPIRV(),
		fragPath: renderertest.SPIRV(),
	})
	layout, err := backend.CreatePipelineLayout(nil)
	require.NoError(t, err)
	pass, err := backend.CreateRenderPass(metadata.FormatB8G8R8A8Unorm, metadata.FormatD32Sfloat)
	require.NoError(t, err)

	cfg := DefaultPipelineConfig(800, 600)
	cfg.Layout = layout
	cfg.RenderPass = pass
	return backend, loader, cfg
}

func TestDefaultPipelineConfig(t *testing.T) {
	cfg := DefaultPipelineConfig(800, 600)

	assert.Equal(t, metadata.Viewport{X: 0, Y: 0, Width: 800, Height: 600, MinDepth: 0, MaxDepth: 1}, cfg.Viewport)
	assert.Equal(t, metadata.Rect2D{OffsetX: 0, OffsetY: 0, Extent: metadata.Extent2D{Width: 800, Height: 600}}, cfg.Scissor)
	assert.Equal(t, metadata.TopologyTriangleList, cfg.Topology)
	assert.False(t, cfg.PrimitiveRestart)
	assert.Equal(t, metadata.PolygonModeFill, cfg.PolygonMode)
	assert.Equal(t, metadata.FaceCullModeNone, cfg.CullMode)
	assert.Equal(t, metadata.FrontFaceClockwise, cfg.FrontFace)
	assert.Equal(t, uint32(1), cfg.Samples)
	assert.False(t, cfg.ColorBlend.BlendEnable)
	assert.Equal(t, metadata.ColorComponentRGBA, cfg.ColorBlend.WriteMask)
	assert.True(t, cfg.DepthTest)
	assert.True(t, cfg.DepthWrite)
	assert.Equal(t, metadata.CompareOpLess, cfg.DepthCompareOp)
	assert.False(t, cfg.StencilTest)
	assert.Empty(t, cfg.DynamicStates)
	assert.Equal(t, metadata.NullPipelineLayout, cfg.Layout)
	assert.Equal(t, metadata.NullRenderPass, cfg.RenderPass)
	assert.Len(t, cfg.Attributes, 2)
}

func TestNewPipelineRequiresLayoutAndRenderPass(t *testing.T) {
	backend, loader, cfg := pipelineFixture(t)

	noLayout := cfg
	noLayout.Layout = metadata.NullPipelineLayout
	_, err := NewPipeline(backend, loader, vertPath, fragPath, noLayout)
	assert.ErrorIs(t, err, core.ErrMissingPipelineLayout)
	var rejected *core.BuildRejectedError
	assert.True(t, errors.As(err, &rejected))

	noPass := cfg
	noPass.RenderPass = metadata.NullRenderPass
	_, err = NewPipeline(backend, loader, vertPath, fragPath, noPass)
	assert.ErrorIs(t, err, core.ErrMissingRenderPass)

	assert.Empty(t, loader.Reads, "nothing is read before the config is validated")
}

func TestNewPipelineMissingShader(t *testing.T) {
	backend, loader, cfg := pipelineFixture(t)
	delete(loader.Files, fragPath)

	_, err := NewPipeline(backend, loader, vertPath, fragPath, cfg)
	var missing *core.MissingResourceError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, fragPath, missing.Path)
	assert.Zero(t, backend.Live("shadermodule"))
	assert.Zero(t, backend.Live("pipeline"))
}

func TestNewPipelineWrapsForeignLoaderErrors(t *testing.T) {
	backend, _, cfg := pipelineFixture(t)
	_, err := NewPipeline(backend, failingLoader{}, vertPath, fragPath, cfg)
	var missing *core.MissingResourceError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, vertPath, missing.Path)
	assert.ErrorIs(t, err, renderertest.ErrInjected)
}

type failingLoader struct{}

func (failingLoader) Load(path string) ([]byte, error) {
	return nil, renderertest.ErrInjected
}

func TestNewPipelineDeviceRejection(t *testing.T) {
	t.Run("shader module", func(t *testing.T) {
		backend, loader, cfg := pipelineFixture(t)
		loader.Files[vertPath] = []byte{1, 2, 3}

		_, err := NewPipeline(backend, loader, vertPath, fragPath, cfg)
		var rejected *core.BuildRejectedError
		require.True(t, errors.As(err, &rejected))
		assert.Contains(t, rejected.Object, vertPath)
		assert.Zero(t, backend.Live("shadermodule"))
	})
	t.Run("pipeline", func(t *testing.T) {
		backend, loader, cfg := pipelineFixture(t)
		backend.Fail("CreateGraphicsPipeline", renderertest.ErrInjected)

		_, err := NewPipeline(backend, loader, vertPath, fragPath, cfg)
		var rejected *core.BuildRejectedError
		require.True(t, errors.As(err, &rejected))
		assert.ErrorIs(t, err, renderertest.ErrInjected)
		assert.Zero(t, backend.Live("shadermodule"), "shader modules are released on failure")
	})
}

func TestPipelineLifecycle(t *testing.T) {
	backend, loader, cfg := pipelineFixture(t)
	cfg.EnableDynamicViewport()

	p, err := NewPipeline(backend, loader, vertPath, fragPath, cfg)
	require.NoError(t, err)
	assert.NotEqual(t, metadata.NullPipeline, p.Handle())
	assert.Equal(t, []string{vertPath, fragPath}, loader.Reads)
	assert.Len(t, backend.ShaderModules, 2)
	assert.Zero(t, backend.Live("shadermodule"), "shader modules only live during the build")
	require.Len(t, backend.Pipelines, 1)
	assert.True(t, backend.Pipelines[0].HasDynamicState(metadata.DynamicStateViewport))

	p.Destroy()
	p.Destroy()
	assert.Zero(t, backend.Live("pipeline"))
	assertContractViolation(t, "Pipeline.Bind", func() { p.Bind(1) })
}
