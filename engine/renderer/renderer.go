package renderer

import (
	"fmt"

	"github.com/spaghettifunk/lve/engine/core"
	"github.com/spaghettifunk/lve/engine/renderer/metadata"
)

type frameState int

const (
	frameIdle frameState = iota
	frameInProgress
)

// Config holds the frame orchestration options.
type Config struct {
	// MaxFramesInFlight is how many frames the CPU may record ahead of the GPU.
	MaxFramesInFlight int
	// ClearColor is the RGBA colour the swapchain pass clears to.
	ClearColor [4]float32
}

// FnOnRecreate is called after the swapchain was rebuilt. compatible is
// false when the new render pass uses different formats, in which case
// pipelines built against the old one must be rebuilt.
type FnOnRecreate func(extent metadata.Extent2D, compatible bool)

// Renderer drives the frame lifecycle: it acquires swapchain images,
// records into one command buffer per frame slot, submits and presents,
// and rebuilds the swapchain when the surface changes.
type Renderer struct {
	backend   Backend
	window    Window
	swapchain *Swapchain

	commandBuffers    []metadata.CommandBuffer
	maxFramesInFlight int
	clear             metadata.ClearValues

	currentImageIndex uint32
	currentFrameIndex int
	state             frameState

	listeners []FnOnRecreate
	shutdown  bool
}

func NewRenderer(backend Backend, window Window, cfg Config) (*Renderer, error) {
	r := &Renderer{
		backend:           backend,
		window:            window,
		maxFramesInFlight: cfg.MaxFramesInFlight,
		clear: metadata.ClearValues{
			Color:   cfg.ClearColor,
			Depth:   1.0,
			Stencil: 0,
		},
	}

	sc, err := NewSwapchain(backend, window.Extent(), nil, cfg.MaxFramesInFlight)
	if err != nil {
		return nil, err
	}
	r.swapchain = sc

	cbs, err := backend.AllocateCommandBuffers(cfg.MaxFramesInFlight)
	if err != nil {
		sc.Destroy()
		err = fmt.Errorf("failed to allocate command buffers: %w", err)
		core.LogError(err.Error())
		return nil, err
	}
	r.commandBuffers = cbs

	core.LogInfo("renderer initialized with %d frames in flight", cfg.MaxFramesInFlight)
	return r, nil
}

// BeginFrame starts recording the next frame and returns its command
// buffer. When the swapchain had to be rebuilt first it returns
// NullCommandBuffer and no error: the caller skips this frame.
func (r *Renderer) BeginFrame() (metadata.CommandBuffer, error) {
	core.Assert(!r.shutdown, "Renderer.BeginFrame", "renderer is shut down")
	core.Assert(r.state == frameIdle, "Renderer.BeginFrame", "can't begin a frame while one is already in progress")

	index, err := r.swapchain.AcquireNextImage(r.currentFrameIndex)
	if IsOutOfDate(err) {
		if err := r.recreateSwapchain(); err != nil {
			return metadata.NullCommandBuffer, err
		}
		return metadata.NullCommandBuffer, nil
	}
	if err != nil {
		return metadata.NullCommandBuffer, err
	}
	r.currentImageIndex = index

	cb := r.commandBuffers[r.currentFrameIndex]
	if err := r.backend.BeginCommandBuffer(cb); err != nil {
		err = fmt.Errorf("failed to begin recording command buffer: %w", err)
		core.LogError(err.Error())
		return metadata.NullCommandBuffer, err
	}
	r.state = frameInProgress
	return cb, nil
}

// EndFrame finishes recording, submits and presents the frame, then moves
// to the next frame slot. A stale swapchain or a resized window triggers a
// rebuild; neither is an error. Any other failure is returned as is,
// even when the window was resized.
func (r *Renderer) EndFrame() error {
	core.Assert(r.state == frameInProgress, "Renderer.EndFrame", "can't end a frame that is not in progress")

	cb := r.commandBuffers[r.currentFrameIndex]
	if err := r.backend.EndCommandBuffer(cb); err != nil {
		r.state = frameIdle
		err = fmt.Errorf("failed to record command buffer: %w", err)
		core.LogError(err.Error())
		return err
	}

	err := r.swapchain.SubmitAndPresent(cb, r.currentImageIndex, r.currentFrameIndex)
	r.state = frameIdle
	r.currentFrameIndex = (r.currentFrameIndex + 1) % r.maxFramesInFlight

	if err != nil && !IsOutOfDate(err) {
		return err
	}
	if err != nil || r.window.WasResized() {
		r.window.ResetResized()
		return r.recreateSwapchain()
	}
	return nil
}

// BeginSwapChainRenderPass begins the swapchain render pass on cb, which
// must be the command buffer of the frame in progress. Viewport and scissor
// cover the whole swapchain extent.
func (r *Renderer) BeginSwapChainRenderPass(cb metadata.CommandBuffer) {
	core.Assert(r.state == frameInProgress, "Renderer.BeginSwapChainRenderPass", "can't begin a render pass when no frame is in progress")
	core.Assert(cb == r.commandBuffers[r.currentFrameIndex], "Renderer.BeginSwapChainRenderPass", "can't begin a render pass on a command buffer from a different frame")

	extent := r.swapchain.Extent()
	area := metadata.Rect2D{Extent: extent}
	r.backend.CmdBeginRenderPass(cb, r.swapchain.RenderPass(), r.swapchain.Framebuffer(r.currentImageIndex), area, r.clear)

	r.backend.CmdSetViewport(cb, metadata.Viewport{
		X:        0,
		Y:        0,
		Width:    float32(extent.Width),
		Height:   float32(extent.Height),
		MinDepth: 0,
		MaxDepth: 1,
	})
	r.backend.CmdSetScissor(cb, area)
}

func (r *Renderer) EndSwapChainRenderPass(cb metadata.CommandBuffer) {
	core.Assert(r.state == frameInProgress, "Renderer.EndSwapChainRenderPass", "can't end a render pass when no frame is in progress")
	core.Assert(cb == r.commandBuffers[r.currentFrameIndex], "Renderer.EndSwapChainRenderPass", "can't end a render pass on a command buffer from a different frame")
	r.backend.CmdEndRenderPass(cb)
}

func (r *Renderer) recreateSwapchain() error {
	extent := r.window.Extent()
	for extent.IsZero() {
		// Minimized: nothing can be presented until the window comes back.
		r.window.WaitEvents()
		extent = r.window.Extent()
	}

	if err := r.backend.WaitIdle(); err != nil {
		err = fmt.Errorf("failed to wait for device before swapchain rebuild: %w", err)
		core.LogError(err.Error())
		return err
	}

	old := r.swapchain
	sc, err := NewSwapchain(r.backend, extent, old, r.maxFramesInFlight)
	if err != nil {
		return err
	}
	compatible := old.CompareFormats(sc)
	old.Destroy()
	r.swapchain = sc

	if !compatible {
		core.LogWarn("swapchain formats changed, dependent pipelines will be rebuilt")
	}
	for _, fn := range r.listeners {
		fn(sc.Extent(), compatible)
	}
	return nil
}

// Subscribe registers fn to run after every swapchain rebuild.
func (r *Renderer) Subscribe(fn FnOnRecreate) {
	r.listeners = append(r.listeners, fn)
}

// CurrentCommandBuffer returns the command buffer of the frame in progress.
func (r *Renderer) CurrentCommandBuffer() metadata.CommandBuffer {
	core.Assert(r.state == frameInProgress, "Renderer.CurrentCommandBuffer", "cannot get command buffer when frame not in progress")
	return r.commandBuffers[r.currentFrameIndex]
}

// FrameIndex returns the frame slot in use, in [0, MaxFramesInFlight).
func (r *Renderer) FrameIndex() int {
	core.Assert(r.state == frameInProgress, "Renderer.FrameIndex", "cannot get frame index when frame not in progress")
	return r.currentFrameIndex
}

func (r *Renderer) IsFrameInProgress() bool {
	return r.state == frameInProgress
}

func (r *Renderer) AspectRatio() float32 {
	return r.swapchain.AspectRatio()
}

func (r *Renderer) RenderPass() metadata.RenderPass {
	return r.swapchain.RenderPass()
}

func (r *Renderer) Extent() metadata.Extent2D {
	return r.swapchain.Extent()
}

func (r *Renderer) ImageCount() int {
	return r.swapchain.ImageCount()
}

// SetClearColor changes the colour the next render passes clear to.
func (r *Renderer) SetClearColor(color [4]float32) {
	r.clear.Color = color
}

// WaitIdle blocks until the device finished all submitted frames. It does
// nothing once the renderer is shut down.
func (r *Renderer) WaitIdle() error {
	if r.shutdown {
		return nil
	}
	return r.backend.WaitIdle()
}

// Shutdown drains the device and releases the command buffers and the
// swapchain. Calling it again does nothing.
func (r *Renderer) Shutdown() {
	if r.shutdown {
		return
	}
	if r.state == frameInProgress {
		core.LogWarn("renderer shut down with a frame in progress")
		r.state = frameIdle
	}
	if err := r.backend.WaitIdle(); err != nil {
		core.LogError("failed to wait for device on shutdown: %s", err)
	}
	r.backend.FreeCommandBuffers(r.commandBuffers)
	r.commandBuffers = nil
	r.swapchain.Destroy()
	r.shutdown = true
	core.LogInfo("renderer shut down")
}
