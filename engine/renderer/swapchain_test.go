package renderer

import (
	"errors"
	"io"
	"os"
	"testing"

	"github.com/spaghettifunk/lve/engine/core"
	"github.com/spaghettifunk/lve/engine/renderer/metadata"
	"github.com/spaghettifunk/lve/engine/renderer/renderertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ Backend = (*renderertest.Backend)(nil)
var _ Window = (*renderertest.Window)(nil)
var _ ShaderLoader = (*renderertest.Loader)(nil)

func TestMain(m *testing.M) {
	core.SetLogOutput(io.Discard)
	os.Exit(m.Run())
}

var extent800x600 = metadata.Extent2D{Width: 800, Height: 600}

func TestSwapchainRejectsZeroExtent(t *testing.T) {
	backend := renderertest.NewBackend()
	_, err := NewSwapchain(backend, metadata.Extent2D{Width: 800}, nil, 2)
	assert.ErrorIs(t, err, core.ErrZeroExtent)
	assert.Empty(t, backend.Swapchains)
}

func TestSwapchainRejectsTooFewImages(t *testing.T) {
	backend := renderertest.NewBackend()
	backend.ImageCount = 1
	backend.MinImageCount = 2

	_, err := NewSwapchain(backend, extent800x600, nil, 2)
	assert.ErrorIs(t, err, core.ErrInsufficientImages)
	assert.Zero(t, backend.Live(""), "partially created objects must be released")
}

func TestSwapchainCleansUpAfterPartialFailure(t *testing.T) {
	for _, op := range []string{"CreateDepthAttachment", "CreateRenderPass", "CreateFramebuffer", "CreateSemaphore", "CreateFence"} {
		t.Run(op, func(t *testing.T) {
			backend := renderertest.NewBackend()
			backend.Fail(op, renderertest.ErrInjected)

			_, err := NewSwapchain(backend, extent800x600, nil, 2)
			assert.ErrorIs(t, err, renderertest.ErrInjected)
			assert.Zero(t, backend.Live(""))
		})
	}
}

func TestSwapchainOwnsPerImageAndPerSlotObjects(t *testing.T) {
	backend := renderertest.NewBackend()
	sc, err := NewSwapchain(backend, extent800x600, nil, 2)
	require.NoError(t, err)

	assert.Equal(t, 3, sc.ImageCount())
	assert.Equal(t, 3, backend.Live("framebuffer"))
	assert.Equal(t, 4, backend.Live("semaphore"))
	assert.Equal(t, 2, backend.Live("fence"))
	assert.Equal(t, 1, backend.Live("renderpass"))
	assert.Equal(t, extent800x600, sc.Extent())
	assert.InDelta(t, 800.0/600.0, sc.AspectRatio(), 1e-6)
	assert.NotEqual(t, metadata.NullRenderPass, sc.RenderPass())

	sc.Destroy()
	sc.Destroy()
	assert.Zero(t, backend.Live(""))
}

func TestSwapchainPassesPreviousHandleAsHint(t *testing.T) {
	backend := renderertest.NewBackend()
	first, err := NewSwapchain(backend, extent800x600, nil, 2)
	require.NoError(t, err)
	second, err := NewSwapchain(backend, metadata.Extent2D{Width: 1024, Height: 768}, first, 2)
	require.NoError(t, err)

	require.Len(t, backend.Swapchains, 2)
	assert.Equal(t, metadata.NullSwapchain, backend.Swapchains[0].Previous)
	assert.Equal(t, first.info.Handle, backend.Swapchains[1].Previous)
	assert.True(t, first.CompareFormats(second))
	assert.False(t, first.CompareFormats(nil))

	first.Destroy()
	second.Destroy()
	assert.Zero(t, backend.Live(""))
}

func TestSwapchainAcquireAndPresent(t *testing.T) {
	backend := renderertest.NewBackend()
	sc, err := NewSwapchain(backend, extent800x600, nil, 2)
	require.NoError(t, err)
	cbs, err := backend.AllocateCommandBuffers(2)
	require.NoError(t, err)

	for frame := 0; frame < 10; frame++ {
		slot := frame % 2
		index, err := sc.AcquireNextImage(slot)
		require.NoError(t, err)
		assert.Less(t, int(index), sc.ImageCount())
		require.NoError(t, sc.SubmitAndPresent(cbs[slot], index, slot))
	}
	assert.Equal(t, 10, backend.Submits)
	assert.Len(t, backend.Presented, 10)
}

func TestSwapchainReportsOutOfDate(t *testing.T) {
	backend := renderertest.NewBackend()
	backend.AcquireStatus = []metadata.SurfaceStatus{metadata.SurfaceOutOfDate, metadata.SurfaceSuboptimal}
	backend.PresentStatus = []metadata.SurfaceStatus{metadata.SurfaceSuboptimal}
	sc, err := NewSwapchain(backend, extent800x600, nil, 2)
	require.NoError(t, err)
	cbs, err := backend.AllocateCommandBuffers(1)
	require.NoError(t, err)

	_, err = sc.AcquireNextImage(0)
	assert.True(t, IsOutOfDate(err))

	// suboptimal on acquire still renders the frame
	index, err := sc.AcquireNextImage(0)
	require.NoError(t, err)

	err = sc.SubmitAndPresent(cbs[0], index, 0)
	assert.True(t, IsOutOfDate(err))
	assert.Len(t, backend.Presented, 1)
}

func TestSwapchainSurfacesDeviceErrors(t *testing.T) {
	backend := renderertest.NewBackend()
	sc, err := NewSwapchain(backend, extent800x600, nil, 1)
	require.NoError(t, err)

	backend.Fail("AcquireNextImage", renderertest.ErrInjected)
	_, err = sc.AcquireNextImage(0)
	assert.ErrorIs(t, err, renderertest.ErrInjected)
	assert.False(t, IsOutOfDate(err))
}

func TestSwapchainSlotOutOfRangeIsContractViolation(t *testing.T) {
	backend := renderertest.NewBackend()
	sc, err := NewSwapchain(backend, extent800x600, nil, 2)
	require.NoError(t, err)

	defer func() {
		r := recover()
		var cv *core.ContractViolation
		require.True(t, errors.As(r.(error), &cv))
		assert.Equal(t, "Swapchain.AcquireNextImage", cv.Op)
	}()
	_, _ = sc.AcquireNextImage(2)
}
