package renderer

import "github.com/spaghettifunk/lve/engine/renderer/metadata"

// SwapchainBackend creates and drives the presentation chain and the
// attachments sized to it.
type SwapchainBackend interface {
	// CreateSwapchain builds a swapchain for the surface at the given extent.
	// previous is handed to the device as a rebuild hint and may be null.
	CreateSwapchain(extent metadata.Extent2D, previous metadata.Swapchain) (metadata.SwapchainInfo, error)
	// DestroySwapchain destroys the swapchain and the image views it returned.
	DestroySwapchain(info metadata.SwapchainInfo)
	CreateDepthAttachment(extent metadata.Extent2D) (metadata.DepthAttachment, error)
	DestroyDepthAttachment(depth metadata.DepthAttachment)
	CreateRenderPass(colorFormat, depthFormat metadata.Format) (metadata.RenderPass, error)
	DestroyRenderPass(pass metadata.RenderPass)
	CreateFramebuffer(pass metadata.RenderPass, attachments []metadata.ImageView, extent metadata.Extent2D) (metadata.Framebuffer, error)
	DestroyFramebuffer(fb metadata.Framebuffer)
	// AcquireNextImage signals sem once the returned image can be rendered to.
	AcquireNextImage(sc metadata.Swapchain, sem metadata.Semaphore) (uint32, metadata.SurfaceStatus, error)
	// Present queues the image once wait is signaled.
	Present(sc metadata.Swapchain, imageIndex uint32, wait metadata.Semaphore) (metadata.SurfaceStatus, error)
}

// SyncBackend manages the semaphores and fences pacing the frames.
type SyncBackend interface {
	CreateSemaphore() (metadata.Semaphore, error)
	DestroySemaphore(sem metadata.Semaphore)
	CreateFence(signaled bool) (metadata.Fence, error)
	DestroyFence(fence metadata.Fence)
	WaitForFence(fence metadata.Fence) error
	ResetFence(fence metadata.Fence) error
	// Submit queues cb for execution. It waits on wait, signals signal on
	// completion and then signals fence.
	Submit(cb metadata.CommandBuffer, wait, signal metadata.Semaphore, fence metadata.Fence) error
}

// CommandBackend records commands.
type CommandBackend interface {
	AllocateCommandBuffers(count int) ([]metadata.CommandBuffer, error)
	FreeCommandBuffers(cbs []metadata.CommandBuffer)
	BeginCommandBuffer(cb metadata.CommandBuffer) error
	EndCommandBuffer(cb metadata.CommandBuffer) error
	CmdBeginRenderPass(cb metadata.CommandBuffer, pass metadata.RenderPass, fb metadata.Framebuffer, area metadata.Rect2D, clear metadata.ClearValues)
	CmdEndRenderPass(cb metadata.CommandBuffer)
	CmdSetViewport(cb metadata.CommandBuffer, viewport metadata.Viewport)
	CmdSetScissor(cb metadata.CommandBuffer, scissor metadata.Rect2D)
	CmdBindPipeline(cb metadata.CommandBuffer, pipeline metadata.Pipeline)
	CmdPushConstants(cb metadata.CommandBuffer, layout metadata.PipelineLayout, stages metadata.ShaderStage, offset uint32, data []byte)
	CmdBindVertexBuffer(cb metadata.CommandBuffer, buffer metadata.Buffer)
	CmdBindIndexBuffer(cb metadata.CommandBuffer, buffer metadata.Buffer)
	CmdDraw(cb metadata.CommandBuffer, vertexCount uint32)
	CmdDrawIndexed(cb metadata.CommandBuffer, indexCount uint32)
}

// PipelineBackend builds shader modules, layouts and graphics pipelines.
type PipelineBackend interface {
	CreateShaderModule(code []byte) (metadata.ShaderModule, error)
	DestroyShaderModule(module metadata.ShaderModule)
	CreatePipelineLayout(pushConstants []metadata.PushConstantRange) (metadata.PipelineLayout, error)
	DestroyPipelineLayout(layout metadata.PipelineLayout)
	CreateGraphicsPipeline(stages []metadata.ShaderStageConfig, config *metadata.PipelineConfig) (metadata.Pipeline, error)
	DestroyPipeline(pipeline metadata.Pipeline)
}

// BufferBackend owns device buffers.
type BufferBackend interface {
	CreateVertexBuffer(data []byte) (metadata.Buffer, error)
	CreateIndexBuffer(data []byte) (metadata.Buffer, error)
	DestroyBuffer(buffer metadata.Buffer)
}

// Backend is everything the frame orchestrator, pipeline builder and
// render system need from the graphics device.
type Backend interface {
	SwapchainBackend
	SyncBackend
	CommandBackend
	PipelineBackend
	BufferBackend
	// WaitIdle blocks until the device has finished all submitted work.
	WaitIdle() error
}

// Window is the part of the platform window the renderer depends on.
type Window interface {
	// Extent is the framebuffer size in pixels. It is zero while minimized.
	Extent() metadata.Extent2D
	// WaitEvents blocks until at least one window event arrives.
	WaitEvents()
	WasResized() bool
	ResetResized()
}

// ShaderLoader reads compiled shader binaries.
type ShaderLoader interface {
	Load(path string) ([]byte, error)
}
