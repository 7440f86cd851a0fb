package systems

import (
	"io"
	"os"
	"testing"

	"github.com/spaghettifunk/lve/engine/core"
	"github.com/spaghettifunk/lve/engine/renderer"
	"github.com/spaghettifunk/lve/engine/renderer/metadata"
	"github.com/spaghettifunk/lve/engine/renderer/renderertest"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	core.SetLogOutput(io.Discard)
	os.Exit(m.Run())
}

var testShaders = ShaderPaths{
	Vertex:   "shaders/simple_shader.vert.spv",
	Fragment: "shaders/simple_shader.frag.spv",
}

func newTestLoader() *renderertest.Loader {
	return renderertest.NewLoader(map[string][]byte{
		testShaders.Vertex:   renderertest.SPIRV(),
		testShaders.Fragment: renderertest.SPIRV(),
	})
}

type testScene struct {
	backend  *renderertest.Backend
	window   *renderertest.Window
	loader   *renderertest.Loader
	renderer *renderer.Renderer
}

func newTestScene(t *testing.T) *testScene {
	t.Helper()
	backend := renderertest.NewBackend()
	window := renderertest.NewWindow(800, 600)
	r, err := renderer.NewRenderer(backend, window, renderer.Config{MaxFramesInFlight: 2})
	require.NoError(t, err)
	t.Cleanup(r.Shutdown)
	return &testScene{
		backend:  backend,
		window:   window,
		loader:   newTestLoader(),
		renderer: r,
	}
}

func (s *testScene) newRenderSystem(t *testing.T) *RenderSystem {
	t.Helper()
	rs, err := NewRenderSystem(s.backend, s.loader, RenderSystemConfig{
		RenderPass: s.renderer.RenderPass(),
		Extent:     s.renderer.Extent(),
		Shaders:    testShaders,
	})
	require.NoError(t, err)
	t.Cleanup(rs.Destroy)
	return rs
}

// frame runs record inside a begun swapchain render pass and submits it.
func (s *testScene) frame(t *testing.T, record func(cb metadata.CommandBuffer)) {
	t.Helper()
	cb, err := s.renderer.BeginFrame()
	require.NoError(t, err)
	require.NotEqual(t, metadata.NullCommandBuffer, cb)
	s.renderer.BeginSwapChainRenderPass(cb)
	record(cb)
	s.renderer.EndSwapChainRenderPass(cb)
	require.NoError(t, s.renderer.EndFrame())
}
