package renderer

import (
	"testing"

	"github.com/spaghettifunk/lve/engine/core"
	"github.com/spaghettifunk/lve/engine/renderer/metadata"
	"github.com/spaghettifunk/lve/engine/renderer/renderertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recreateEvent struct {
	extent     metadata.Extent2D
	compatible bool
}

func newTestRenderer(t *testing.T, frames int) (*Renderer, *renderertest.Backend, *renderertest.Window, *[]recreateEvent) {
	t.Helper()
	backend := renderertest.NewBackend()
	window := renderertest.NewWindow(800, 600)
	r, err := NewRenderer(backend, window, Config{MaxFramesInFlight: frames, ClearColor: [4]float32{0.01, 0.01, 0.01, 1}})
	require.NoError(t, err)

	events := &[]recreateEvent{}
	r.Subscribe(func(extent metadata.Extent2D, compatible bool) {
		*events = append(*events, recreateEvent{extent, compatible})
	})
	return r, backend, window, events
}

func renderFrame(t *testing.T, r *Renderer) metadata.CommandBuffer {
	t.Helper()
	cb, err := r.BeginFrame()
	require.NoError(t, err)
	if cb == metadata.NullCommandBuffer {
		return cb
	}
	r.BeginSwapChainRenderPass(cb)
	r.EndSwapChainRenderPass(cb)
	require.NoError(t, r.EndFrame())
	return cb
}

func assertContractViolation(t *testing.T, op string, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		require.NotNil(t, r, "expected a contract violation from %s", op)
		cv, ok := r.(*core.ContractViolation)
		require.True(t, ok, "panic value %v is not a contract violation", r)
		assert.Equal(t, op, cv.Op)
	}()
	fn()
}

func TestRendererFrameSlotsCycle(t *testing.T) {
	for _, frames := range []int{1, 2, 3} {
		r, _, _, _ := newTestRenderer(t, frames)
		for n := 0; n < 7; n++ {
			cb, err := r.BeginFrame()
			require.NoError(t, err)
			assert.Equal(t, n%frames, r.FrameIndex())
			assert.Equal(t, cb, r.CurrentCommandBuffer())
			require.NoError(t, r.EndFrame())
		}
		// after N frames the next slot is N mod frames
		_, err := r.BeginFrame()
		require.NoError(t, err)
		assert.Equal(t, 7%frames, r.FrameIndex())
		require.NoError(t, r.EndFrame())
		r.Shutdown()
	}
}

func TestRendererFramesAreMutuallyExclusive(t *testing.T) {
	r, _, _, _ := newTestRenderer(t, 2)
	assert.False(t, r.IsFrameInProgress())

	_, err := r.BeginFrame()
	require.NoError(t, err)
	assert.True(t, r.IsFrameInProgress())
	assertContractViolation(t, "Renderer.BeginFrame", func() { _, _ = r.BeginFrame() })

	require.NoError(t, r.EndFrame())
	assert.False(t, r.IsFrameInProgress())
	assertContractViolation(t, "Renderer.EndFrame", func() { _ = r.EndFrame() })
}

func TestRendererAccessorsRequireAFrame(t *testing.T) {
	r, _, _, _ := newTestRenderer(t, 2)
	assertContractViolation(t, "Renderer.CurrentCommandBuffer", func() { r.CurrentCommandBuffer() })
	assertContractViolation(t, "Renderer.FrameIndex", func() { r.FrameIndex() })
	assertContractViolation(t, "Renderer.BeginSwapChainRenderPass", func() { r.BeginSwapChainRenderPass(1) })
	assertContractViolation(t, "Renderer.EndSwapChainRenderPass", func() { r.EndSwapChainRenderPass(1) })
}

func TestRendererRejectsForeignCommandBuffer(t *testing.T) {
	r, _, _, _ := newTestRenderer(t, 2)
	cb, err := r.BeginFrame()
	require.NoError(t, err)
	assertContractViolation(t, "Renderer.BeginSwapChainRenderPass", func() { r.BeginSwapChainRenderPass(cb + 1000) })
}

func TestRendererSwapchainPassCoversExtent(t *testing.T) {
	r, backend, _, _ := newTestRenderer(t, 2)
	renderFrame(t, r)

	require.Len(t, backend.Viewports, 1)
	assert.Equal(t, metadata.Viewport{X: 0, Y: 0, Width: 800, Height: 600, MinDepth: 0, MaxDepth: 1}, backend.Viewports[0])
	assert.Equal(t, metadata.Rect2D{Extent: metadata.Extent2D{Width: 800, Height: 600}}, backend.Scissors[0])

	require.Len(t, backend.ClearValues, 1)
	assert.Equal(t, float32(1.0), backend.ClearValues[0].Depth)
	assert.Equal(t, uint32(0), backend.ClearValues[0].Stencil)
	assert.Equal(t, [4]float32{0.01, 0.01, 0.01, 1}, backend.ClearValues[0].Color)

	r.SetClearColor([4]float32{1, 0, 0, 1})
	renderFrame(t, r)
	assert.Equal(t, [4]float32{1, 0, 0, 1}, backend.ClearValues[1].Color)
}

func TestRendererRebuildsOnWindowResize(t *testing.T) {
	r, backend, window, events := newTestRenderer(t, 2)
	renderFrame(t, r)

	window.Resize(1024, 768)
	renderFrame(t, r)

	require.Len(t, backend.Swapchains, 2)
	assert.Equal(t, metadata.Extent2D{Width: 1024, Height: 768}, backend.Swapchains[1].Extent)
	assert.NotEqual(t, metadata.NullSwapchain, backend.Swapchains[1].Previous)
	assert.Equal(t, 1, backend.Live("swapchain"), "the old swapchain is destroyed")
	assert.False(t, window.WasResized())
	assert.Equal(t, []recreateEvent{{metadata.Extent2D{Width: 1024, Height: 768}, true}}, *events)
	assert.InDelta(t, 1024.0/768.0, r.AspectRatio(), 1e-6)

	renderFrame(t, r)
	assert.Equal(t, metadata.Viewport{Width: 1024, Height: 768, MaxDepth: 1}, backend.Viewports[len(backend.Viewports)-1])
}

func TestRendererSkipsFrameWhenAcquireIsOutOfDate(t *testing.T) {
	r, backend, _, events := newTestRenderer(t, 2)
	backend.AcquireStatus = []metadata.SurfaceStatus{metadata.SurfaceOutOfDate}

	cb, err := r.BeginFrame()
	require.NoError(t, err)
	assert.Equal(t, metadata.NullCommandBuffer, cb)
	assert.False(t, r.IsFrameInProgress())
	assert.Len(t, *events, 1)
	assert.Zero(t, backend.Submits)

	assert.NotEqual(t, metadata.NullCommandBuffer, renderFrame(t, r))
	assert.Equal(t, 1, backend.Submits)
}

func TestRendererRebuildsWhenPresentIsOutOfDate(t *testing.T) {
	r, backend, _, events := newTestRenderer(t, 2)
	backend.PresentStatus = []metadata.SurfaceStatus{metadata.SurfaceOutOfDate}

	renderFrame(t, r)
	assert.Len(t, *events, 1)
	assert.Len(t, backend.Swapchains, 2)
}

func TestRendererWaitsWhileMinimized(t *testing.T) {
	r, backend, window, _ := newTestRenderer(t, 2)
	window.Resize(0, 0)
	window.Pending = []metadata.Extent2D{{Width: 0, Height: 0}, {Width: 640, Height: 480}}

	renderFrame(t, r)
	assert.Equal(t, 2, window.WaitCalls)
	assert.Equal(t, metadata.Extent2D{Width: 640, Height: 480}, backend.Swapchains[1].Extent)
	assert.Equal(t, metadata.Extent2D{Width: 640, Height: 480}, r.Extent())
}

func TestRendererReportsFormatChange(t *testing.T) {
	r, backend, window, events := newTestRenderer(t, 2)
	oldPass := r.RenderPass()
	backend.DepthFormat = metadata.FormatD24UnormS8Uint

	window.Resize(800, 600)
	renderFrame(t, r)
	require.Len(t, *events, 1)
	assert.False(t, (*events)[0].compatible)
	assert.NotEqual(t, oldPass, r.RenderPass())
}

func TestRendererSurfacesFatalErrors(t *testing.T) {
	r, backend, _, _ := newTestRenderer(t, 2)
	backend.Fail("Submit", renderertest.ErrInjected)

	_, err := r.BeginFrame()
	require.NoError(t, err)
	err = r.EndFrame()
	assert.ErrorIs(t, err, renderertest.ErrInjected)
	assert.False(t, r.IsFrameInProgress())
}

func TestRendererRejectsMinimizedStart(t *testing.T) {
	backend := renderertest.NewBackend()
	_, err := NewRenderer(backend, renderertest.NewWindow(0, 0), Config{MaxFramesInFlight: 2})
	assert.ErrorIs(t, err, core.ErrZeroExtent)
}

func TestRendererShutdownIsIdempotent(t *testing.T) {
	r, backend, _, _ := newTestRenderer(t, 2)
	renderFrame(t, r)

	r.Shutdown()
	calls := backend.WaitIdleCalls
	r.Shutdown()
	assert.NoError(t, r.WaitIdle())
	assert.NoError(t, r.WaitIdle())
	assert.Equal(t, calls, backend.WaitIdleCalls)
	assert.Zero(t, backend.Live(""))
}

func TestRendererWaitIdleBeforeShutdown(t *testing.T) {
	r, backend, _, _ := newTestRenderer(t, 2)
	require.NoError(t, r.WaitIdle())
	require.NoError(t, r.WaitIdle())
	assert.Equal(t, 2, backend.WaitIdleCalls)
	r.Shutdown()
}

func TestRendererKeepsFatalErrorsWhenResized(t *testing.T) {
	for _, op := range []string{"Submit", "Present"} {
		t.Run(op, func(t *testing.T) {
			r, backend, window, events := newTestRenderer(t, 2)

			cb, err := r.BeginFrame()
			require.NoError(t, err)
			r.BeginSwapChainRenderPass(cb)
			r.EndSwapChainRenderPass(cb)

			backend.Fail(op, renderertest.ErrInjected)
			window.Resize(1024, 768)

			err = r.EndFrame()
			assert.ErrorIs(t, err, renderertest.ErrInjected)
			assert.False(t, r.IsFrameInProgress())
			assert.Empty(t, *events, "a failed frame does not rebuild the swapchain")
		})
	}
}

func TestRendererResizeDuringFrame(t *testing.T) {
	r, backend, window, events := newTestRenderer(t, 2)

	cb, err := r.BeginFrame()
	require.NoError(t, err)
	require.NotEqual(t, metadata.NullCommandBuffer, cb)
	r.BeginSwapChainRenderPass(cb)
	r.EndSwapChainRenderPass(cb)

	window.Resize(1024, 768)
	require.NoError(t, r.EndFrame())
	assert.Len(t, backend.Presented, 1)
	require.Len(t, *events, 1)
	assert.Equal(t, metadata.Extent2D{Width: 1024, Height: 768}, (*events)[0].extent)

	cb, err = r.BeginFrame()
	require.NoError(t, err)
	require.NotEqual(t, metadata.NullCommandBuffer, cb)
	assert.Equal(t, metadata.Extent2D{Width: 1024, Height: 768}, r.Extent())
	r.BeginSwapChainRenderPass(cb)
	r.EndSwapChainRenderPass(cb)
	require.NoError(t, r.EndFrame())

	assert.Equal(t, metadata.Viewport{Width: 1024, Height: 768, MaxDepth: 1}, backend.Viewports[len(backend.Viewports)-1])
	assert.Len(t, backend.Presented, 2)
}
