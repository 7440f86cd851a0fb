package renderer

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spaghettifunk/lve/engine/core"
	"github.com/spaghettifunk/lve/engine/renderer/metadata"
)

// Swapchain owns the presentation images and everything sized to them: one
// depth attachment, the render pass, a framebuffer per image and the
// per-slot synchronization objects.
type Swapchain struct {
	backend Backend
	// Generation label, only used to tell rebuilds apart in the logs.
	id uuid.UUID

	info         metadata.SwapchainInfo
	depth        metadata.DepthAttachment
	renderPass   metadata.RenderPass
	framebuffers []metadata.Framebuffer

	maxFramesInFlight int
	imageAvailable    []metadata.Semaphore
	renderFinished    []metadata.Semaphore
	inFlight          []metadata.Fence
	// The slot fence of the frame currently using each image, or NullFence.
	imagesInFlight []metadata.Fence

	destroyed bool
}

// NewSwapchain creates a swapchain for extent. previous, when not nil, is
// handed to the device as a rebuild hint; it stays valid and must still be
// destroyed by the caller.
func NewSwapchain(backend Backend, extent metadata.Extent2D, previous *Swapchain, maxFramesInFlight int) (*Swapchain, error) {
	if extent.IsZero() {
		err := fmt.Errorf("cannot create swapchain of %dx%d: %w", extent.Width, extent.Height, core.ErrZeroExtent)
		core.LogError(err.Error())
		return nil, err
	}
	if maxFramesInFlight < 1 {
		err := fmt.Errorf("max frames in flight must be at least 1, got %d", maxFramesInFlight)
		core.LogError(err.Error())
		return nil, err
	}

	sc := &Swapchain{
		backend:           backend,
		id:                uuid.New(),
		maxFramesInFlight: maxFramesInFlight,
	}
	oldHandle := metadata.NullSwapchain
	if previous != nil {
		oldHandle = previous.info.Handle
	}
	if err := sc.create(extent, oldHandle); err != nil {
		sc.Destroy()
		core.LogError(err.Error())
		return nil, err
	}

	core.LogInfo("swapchain %s created: %dx%d, %d images, %d frames in flight",
		sc.id.String()[:8], sc.info.Extent.Width, sc.info.Extent.Height, len(sc.info.Views), maxFramesInFlight)
	return sc, nil
}

func (sc *Swapchain) create(extent metadata.Extent2D, oldHandle metadata.Swapchain) error {
	info, err := sc.backend.CreateSwapchain(extent, oldHandle)
	if err != nil {
		return fmt.Errorf("failed to create swapchain: %w", err)
	}
	sc.info = info
	if uint32(len(info.Views)) < info.MinImageCount {
		return fmt.Errorf("got %d images, need %d: %w", len(info.Views), info.MinImageCount, core.ErrInsufficientImages)
	}

	if sc.depth, err = sc.backend.CreateDepthAttachment(info.Extent); err != nil {
		return fmt.Errorf("failed to create depth attachment: %w", err)
	}
	if sc.renderPass, err = sc.backend.CreateRenderPass(info.ColorFormat, sc.depth.Format); err != nil {
		return fmt.Errorf("failed to create render pass: %w", err)
	}

	sc.framebuffers = make([]metadata.Framebuffer, 0, len(info.Views))
	for i, view := range info.Views {
		fb, err := sc.backend.CreateFramebuffer(sc.renderPass, []metadata.ImageView{view, sc.depth.View}, info.Extent)
		if err != nil {
			return fmt.Errorf("failed to create framebuffer %d: %w", i, err)
		}
		sc.framebuffers = append(sc.framebuffers, fb)
	}

	for i := 0; i < sc.maxFramesInFlight; i++ {
		available, err := sc.backend.CreateSemaphore()
		if err != nil {
			return fmt.Errorf("failed to create image available semaphore: %w", err)
		}
		sc.imageAvailable = append(sc.imageAvailable, available)

		finished, err := sc.backend.CreateSemaphore()
		if err != nil {
			return fmt.Errorf("failed to create render finished semaphore: %w", err)
		}
		sc.renderFinished = append(sc.renderFinished, finished)

		// Created signaled so the first wait of each slot returns at once.
		fence, err := sc.backend.CreateFence(true)
		if err != nil {
			return fmt.Errorf("failed to create in flight fence: %w", err)
		}
		sc.inFlight = append(sc.inFlight, fence)
	}
	sc.imagesInFlight = make([]metadata.Fence, len(info.Views))
	return nil
}

// AcquireNextImage waits until the frame slot is free and returns the index
// of the next presentable image. It returns core.ErrSurfaceOutOfDate when
// the swapchain must be rebuilt first.
func (sc *Swapchain) AcquireNextImage(slot int) (uint32, error) {
	core.Assert(!sc.destroyed, "Swapchain.AcquireNextImage", "swapchain is destroyed")
	core.Assert(slot >= 0 && slot < sc.maxFramesInFlight, "Swapchain.AcquireNextImage", fmt.Sprintf("slot %d out of range", slot))

	if err := sc.backend.WaitForFence(sc.inFlight[slot]); err != nil {
		err = fmt.Errorf("failed to wait for frame slot %d: %w", slot, err)
		core.LogError(err.Error())
		return 0, err
	}

	index, status, err := sc.backend.AcquireNextImage(sc.info.Handle, sc.imageAvailable[slot])
	if err != nil {
		err = fmt.Errorf("failed to acquire swapchain image: %w", err)
		core.LogError(err.Error())
		return 0, err
	}
	switch status {
	case metadata.SurfaceOutOfDate:
		return 0, core.ErrSurfaceOutOfDate
	case metadata.SurfaceSuboptimal:
		core.LogDebug("swapchain %s is suboptimal on acquire", sc.id.String()[:8])
	}
	if int(index) >= len(sc.framebuffers) {
		err := fmt.Errorf("device returned image %d, swapchain has %d", index, len(sc.framebuffers))
		core.LogError(err.Error())
		return 0, err
	}
	return index, nil
}

// SubmitAndPresent submits cb for the frame in slot and queues image index
// for presentation once rendering finished. A swapchain that no longer
// matches the surface is reported as core.ErrSurfaceOutOfDate after the
// frame was presented.
func (sc *Swapchain) SubmitAndPresent(cb metadata.CommandBuffer, index uint32, slot int) error {
	core.Assert(!sc.destroyed, "Swapchain.SubmitAndPresent", "swapchain is destroyed")
	core.Assert(slot >= 0 && slot < sc.maxFramesInFlight, "Swapchain.SubmitAndPresent", fmt.Sprintf("slot %d out of range", slot))
	core.Assert(int(index) < len(sc.imagesInFlight), "Swapchain.SubmitAndPresent", fmt.Sprintf("image %d out of range", index))

	// An earlier frame may still be rendering to this image.
	if fence := sc.imagesInFlight[index]; fence != metadata.NullFence {
		if err := sc.backend.WaitForFence(fence); err != nil {
			err = fmt.Errorf("failed to wait for image %d: %w", index, err)
			core.LogError(err.Error())
			return err
		}
	}
	sc.imagesInFlight[index] = sc.inFlight[slot]

	if err := sc.backend.ResetFence(sc.inFlight[slot]); err != nil {
		err = fmt.Errorf("failed to reset frame slot %d: %w", slot, err)
		core.LogError(err.Error())
		return err
	}
	if err := sc.backend.Submit(cb, sc.imageAvailable[slot], sc.renderFinished[slot], sc.inFlight[slot]); err != nil {
		err = fmt.Errorf("failed to submit draw command buffer: %w", err)
		core.LogError(err.Error())
		return err
	}

	status, err := sc.backend.Present(sc.info.Handle, index, sc.renderFinished[slot])
	if err != nil {
		err = fmt.Errorf("failed to present swapchain image: %w", err)
		core.LogError(err.Error())
		return err
	}
	if status != metadata.SurfaceOK {
		core.LogDebug("swapchain %s is %s on present", sc.id.String()[:8], status)
		return core.ErrSurfaceOutOfDate
	}
	return nil
}

// Destroy releases every object the swapchain owns. It is safe to call
// more than once and on a partially created swapchain.
func (sc *Swapchain) Destroy() {
	if sc == nil || sc.destroyed {
		return
	}
	sc.destroyed = true

	for i := range sc.inFlight {
		sc.backend.DestroyFence(sc.inFlight[i])
	}
	for i := range sc.renderFinished {
		sc.backend.DestroySemaphore(sc.renderFinished[i])
	}
	for i := range sc.imageAvailable {
		sc.backend.DestroySemaphore(sc.imageAvailable[i])
	}
	sc.inFlight, sc.renderFinished, sc.imageAvailable, sc.imagesInFlight = nil, nil, nil, nil

	for _, fb := range sc.framebuffers {
		sc.backend.DestroyFramebuffer(fb)
	}
	sc.framebuffers = nil

	if sc.renderPass != metadata.NullRenderPass {
		sc.backend.DestroyRenderPass(sc.renderPass)
		sc.renderPass = metadata.NullRenderPass
	}
	if sc.depth.Image != metadata.NullImage {
		sc.backend.DestroyDepthAttachment(sc.depth)
		sc.depth = metadata.DepthAttachment{}
	}
	if sc.info.Handle != metadata.NullSwapchain {
		sc.backend.DestroySwapchain(sc.info)
	}
	core.LogDebug("swapchain %s destroyed", sc.id.String()[:8])
}

// CompareFormats reports whether other renders to the same colour and depth
// formats, in which case pipelines built for one work with the other.
func (sc *Swapchain) CompareFormats(other *Swapchain) bool {
	if other == nil {
		return false
	}
	return sc.info.ColorFormat == other.info.ColorFormat && sc.depth.Format == other.depth.Format
}

func (sc *Swapchain) RenderPass() metadata.RenderPass {
	return sc.renderPass
}

func (sc *Swapchain) Framebuffer(index uint32) metadata.Framebuffer {
	core.Assert(int(index) < len(sc.framebuffers), "Swapchain.Framebuffer", fmt.Sprintf("image %d out of range", index))
	return sc.framebuffers[index]
}

func (sc *Swapchain) Extent() metadata.Extent2D {
	return sc.info.Extent
}

func (sc *Swapchain) ImageCount() int {
	return len(sc.info.Views)
}

func (sc *Swapchain) MaxFramesInFlight() int {
	return sc.maxFramesInFlight
}

func (sc *Swapchain) AspectRatio() float32 {
	return sc.info.Extent.AspectRatio()
}

// IsOutOfDate reports whether err asks for a swapchain rebuild.
func IsOutOfDate(err error) bool {
	return errors.Is(err, core.ErrSurfaceOutOfDate)
}
