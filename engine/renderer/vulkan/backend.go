package vulkan

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/lve/engine/core"
	"github.com/spaghettifunk/lve/engine/renderer/metadata"
)

// SurfaceProvider is the window side of the backend: the instance
// extensions it needs and the surface it presents to.
type SurfaceProvider interface {
	RequiredInstanceExtensions() []string
	// CreateWindowSurface returns the VkSurfaceKHR for instance as a pointer.
	CreateWindowSurface(instance interface{}) (uintptr, error)
}

type VulkanBackendConfig struct {
	ApplicationName string
	// Validation enables the Khronos validation layer and routes its
	// reports to the log.
	Validation bool
}

// VulkanBackend implements renderer.Backend on a single device, with one
// graphics queue and the window's surface.
type VulkanBackend struct {
	config  VulkanBackendConfig
	context *VulkanContext
}

func New(surface SurfaceProvider, config VulkanBackendConfig) (*VulkanBackend, error) {
	vb := &VulkanBackend{
		config:  config,
		context: newVulkanContext(),
	}
	if err := vb.initialize(surface); err != nil {
		vb.Shutdown()
		return nil, err
	}
	return vb, nil
}

func (vb *VulkanBackend) initialize(surface SurfaceProvider) error {
	procAddr := glfw.GetVulkanGetInstanceProcAddress()
	if procAddr == nil {
		err := fmt.Errorf("GetInstanceProcAddress is nil")
		core.LogError(err.Error())
		return err
	}
	vk.SetGetInstanceProcAddr(procAddr)

	if err := vk.Init(); err != nil {
		core.LogError("failed to initialize vk: %s", err)
		return err
	}

	if err := vb.createInstance(surface.RequiredInstanceExtensions()); err != nil {
		return err
	}

	if vb.config.Validation {
		core.LogDebug("Creating Vulkan debugger...")
		debugCreateInfo := vk.DebugReportCallbackCreateInfo{
			SType:       vk.StructureTypeDebugReportCallbackCreateInfo,
			Flags:       vk.DebugReportFlags(vk.DebugReportErrorBit | vk.DebugReportWarningBit | vk.DebugReportPerformanceWarningBit),
			PfnCallback: dbgCallbackFunc,
		}
		if res := vk.CreateDebugReportCallback(vb.context.Instance, &debugCreateInfo, vb.context.Allocator, &vb.context.debugCallback); res != vk.Success {
			return resultError("vkCreateDebugReportCallbackEXT", res)
		}
		core.LogDebug("Vulkan debugger created.")
	}

	core.LogDebug("Creating Vulkan surface...")
	ptr, err := surface.CreateWindowSurface(vb.context.Instance)
	if err != nil {
		err = fmt.Errorf("vulkan surface creation failed: %w", err)
		core.LogError(err.Error())
		return err
	}
	vb.context.Surface = vk.SurfaceFromPointer(ptr)
	core.LogDebug("Vulkan surface created.")

	vb.context.Device = &VulkanDevice{
		GraphicsQueueIndex: -1,
		PresentQueueIndex:  -1,
		TransferQueueIndex: -1,
	}
	if err := DeviceCreate(vb.context); err != nil {
		return err
	}

	core.LogInfo("Vulkan backend initialized successfully.")
	return nil
}

func (vb *VulkanBackend) createInstance(windowExtensions []string) error {
	appInfo := &vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		ApiVersion:         uint32(vk.MakeVersion(1, 0, 0)),
		ApplicationVersion: uint32(vk.MakeVersion(1, 0, 0)),
		PApplicationName:   VulkanSafeString(vb.config.ApplicationName),
		PEngineName:        VulkanSafeString("LVE"),
	}

	createInfo := vk.InstanceCreateInfo{
		SType:            vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: appInfo,
	}

	requiredExtensions := append([]string{}, windowExtensions...)
	if runtime.GOOS == "darwin" {
		requiredExtensions = append(requiredExtensions,
			"VK_KHR_portability_enumeration",
			"VK_KHR_get_physical_device_properties2",
		)
		// VK_INSTANCE_CREATE_ENUMERATE_PORTABILITY_BIT_KHR
		createInfo.Flags |= 1
	}

	requiredLayers := []string{}
	if vb.config.Validation {
		requiredExtensions = append(requiredExtensions, vk.ExtDebugReportExtensionName)
		requiredLayers = append(requiredLayers, "VK_LAYER_KHRONOS_validation")
		if err := checkValidationLayers(requiredLayers); err != nil {
			return err
		}
	}

	core.LogDebug("Required extensions: %v", requiredExtensions)
	createInfo.EnabledExtensionCount = uint32(len(requiredExtensions))
	createInfo.PpEnabledExtensionNames = VulkanSafeStrings(requiredExtensions)
	createInfo.EnabledLayerCount = uint32(len(requiredLayers))
	createInfo.PpEnabledLayerNames = VulkanSafeStrings(requiredLayers)

	if res := vk.CreateInstance(&createInfo, vb.context.Allocator, &vb.context.Instance); res != vk.Success {
		return resultError("vkCreateInstance", res)
	}
	if err := vk.InitInstance(vb.context.Instance); err != nil {
		core.LogError(err.Error())
		return err
	}
	core.LogInfo("Vulkan Instance created.")
	return nil
}

func checkValidationLayers(required []string) error {
	core.LogInfo("Validation layers enabled. Enumerating...")
	var count uint32
	if res := vk.EnumerateInstanceLayerProperties(&count, nil); res != vk.Success {
		return resultError("vkEnumerateInstanceLayerProperties", res)
	}
	available := make([]vk.LayerProperties, count)
	if res := vk.EnumerateInstanceLayerProperties(&count, available); res != vk.Success {
		return resultError("vkEnumerateInstanceLayerProperties", res)
	}
	names := make(map[string]bool, count)
	for i := range available {
		available[i].Deref()
		names[cString(available[i].LayerName[:])] = true
	}
	for _, layer := range required {
		if !names[layer] {
			err := fmt.Errorf("required validation layer is missing: %s", layer)
			core.LogError(err.Error())
			return err
		}
	}
	core.LogInfo("All required validation layers are present.")
	return nil
}

// Shutdown destroys whatever the renderer left behind, then the device,
// surface and instance. The device is drained first.
func (vb *VulkanBackend) Shutdown() {
	ctx := vb.context
	if ctx.Device != nil && ctx.Device.LogicalDevice != nil {
		vk.DeviceWaitIdle(ctx.Device.LogicalDevice)

		leaked := 0
		for _, fb := range ctx.framebuffers.drain() {
			fb.Destroy(ctx)
			leaked++
		}
		for _, p := range ctx.pipelines.drain() {
			vk.DestroyPipeline(ctx.Device.LogicalDevice, p, ctx.Allocator)
			leaked++
		}
		for _, l := range ctx.pipelineLayouts.drain() {
			vk.DestroyPipelineLayout(ctx.Device.LogicalDevice, l, ctx.Allocator)
			leaked++
		}
		for _, m := range ctx.shaderModules.drain() {
			vk.DestroyShaderModule(ctx.Device.LogicalDevice, m, ctx.Allocator)
			leaked++
		}
		for _, rp := range ctx.renderpasses.drain() {
			rp.Destroy(ctx)
			leaked++
		}
		for _, b := range ctx.buffers.drain() {
			b.Destroy(ctx)
			leaked++
		}
		for _, cb := range ctx.commandBuffers.drain() {
			cb.Free(ctx, ctx.Device.GraphicsCommandPool)
			leaked++
		}
		for _, s := range ctx.semaphores.drain() {
			vk.DestroySemaphore(ctx.Device.LogicalDevice, s, ctx.Allocator)
			leaked++
		}
		for _, f := range ctx.fences.drain() {
			f.Destroy(ctx)
			leaked++
		}
		for _, img := range ctx.images.drain() {
			img.Destroy(ctx)
			leaked++
		}
		// Views left are owned by swapchains or images destroyed above.
		ctx.imageViews.drain()
		for _, sc := range ctx.swapchains.drain() {
			sc.Destroy(ctx)
			leaked++
		}
		if leaked > 0 {
			core.LogWarn("Vulkan backend destroyed %d objects still alive at shutdown.", leaked)
		}

		core.LogDebug("Destroying Vulkan device...")
		DeviceDestroy(ctx)
	}

	if ctx.Surface != vk.NullSurface {
		core.LogDebug("Destroying Vulkan surface...")
		vk.DestroySurface(ctx.Instance, ctx.Surface, ctx.Allocator)
		ctx.Surface = vk.NullSurface
	}

	if ctx.debugCallback != vk.NullDebugReportCallback {
		core.LogDebug("Destroying Vulkan debugger...")
		vk.DestroyDebugReportCallback(ctx.Instance, ctx.debugCallback, ctx.Allocator)
		ctx.debugCallback = vk.NullDebugReportCallback
	}

	if ctx.Instance != nil {
		core.LogDebug("Destroying Vulkan instance...")
		vk.DestroyInstance(ctx.Instance, ctx.Allocator)
		ctx.Instance = nil
	}
}

func (vb *VulkanBackend) WaitIdle() error {
	if res := vk.DeviceWaitIdle(vb.context.Device.LogicalDevice); res != vk.Success {
		return resultError("vkDeviceWaitIdle", res)
	}
	return nil
}

// lookup resolves a handle the renderer is expected to hold. An unknown
// handle here is a programming error.
func lookup[T any](table *handleTable[T], handle uint64, op, kind string) T {
	item, ok := table.get(handle)
	core.Assert(ok, op, fmt.Sprintf("unknown %s handle %d", kind, handle))
	return item
}

// resolve is lookup for creation paths, where an unknown handle is reported.
func resolve[T any](table *handleTable[T], handle uint64, kind string) (T, error) {
	item, ok := table.get(handle)
	if !ok {
		err := fmt.Errorf("%s %d: %w", kind, handle, core.ErrUnknownHandle)
		core.LogError(err.Error())
		return item, err
	}
	return item, nil
}

/* Swapchain */

func (vb *VulkanBackend) CreateSwapchain(extent metadata.Extent2D, previous metadata.Swapchain) (metadata.SwapchainInfo, error) {
	if extent.IsZero() {
		return metadata.SwapchainInfo{}, core.ErrZeroExtent
	}
	ctx := vb.context
	var old vk.Swapchain
	if previous != metadata.NullSwapchain {
		prev, err := resolve(ctx.swapchains, uint64(previous), "swapchain")
		if err != nil {
			return metadata.SwapchainInfo{}, err
		}
		old = prev.Handle
	}

	var sc *VulkanSwapchain
	if err := ctx.locks.SafeCall(SwapchainManagement, func() error {
		var err error
		sc, err = SwapchainCreate(ctx, extent.Width, extent.Height, old)
		return err
	}); err != nil {
		return metadata.SwapchainInfo{}, err
	}

	info := metadata.SwapchainInfo{
		Extent:        metadata.Extent2D{Width: sc.Extent.Width, Height: sc.Extent.Height},
		ColorFormat:   metadata.Format(sc.ImageFormat.Format),
		MinImageCount: ctx.Device.SwapchainSupport.Capabilities.MinImageCount,
		Views:         make([]metadata.ImageView, len(sc.Views)),
	}
	sc.viewHandles = make([]uint64, len(sc.Views))
	for i, view := range sc.Views {
		sc.viewHandles[i] = ctx.imageViews.add(view)
		info.Views[i] = metadata.ImageView(sc.viewHandles[i])
	}
	info.Handle = metadata.Swapchain(ctx.swapchains.add(sc))
	return info, nil
}

func (vb *VulkanBackend) DestroySwapchain(info metadata.SwapchainInfo) {
	ctx := vb.context
	sc, ok := ctx.swapchains.remove(uint64(info.Handle))
	if !ok {
		return
	}
	for _, h := range sc.viewHandles {
		ctx.imageViews.remove(h)
	}
	sc.Destroy(ctx)
}

func (vb *VulkanBackend) CreateDepthAttachment(extent metadata.Extent2D) (metadata.DepthAttachment, error) {
	ctx := vb.context
	image, err := ImageCreate(
		ctx,
		extent.Width,
		extent.Height,
		ctx.Device.DepthFormat,
		vk.ImageTilingOptimal,
		vk.ImageUsageFlags(vk.ImageUsageDepthStencilAttachmentBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit),
		true,
		vk.ImageAspectFlags(vk.ImageAspectDepthBit))
	if err != nil {
		return metadata.DepthAttachment{}, err
	}
	return metadata.DepthAttachment{
		Image:  metadata.Image(ctx.images.add(image)),
		View:   metadata.ImageView(ctx.imageViews.add(image.View)),
		Format: metadata.Format(image.Format),
	}, nil
}

func (vb *VulkanBackend) DestroyDepthAttachment(depth metadata.DepthAttachment) {
	ctx := vb.context
	ctx.imageViews.remove(uint64(depth.View))
	if image, ok := ctx.images.remove(uint64(depth.Image)); ok {
		image.Destroy(ctx)
	}
}

func (vb *VulkanBackend) CreateRenderPass(colorFormat, depthFormat metadata.Format) (metadata.RenderPass, error) {
	rp, err := RenderpassCreate(vb.context, vk.Format(colorFormat), vk.Format(depthFormat))
	if err != nil {
		return metadata.NullRenderPass, err
	}
	return metadata.RenderPass(vb.context.renderpasses.add(rp)), nil
}

func (vb *VulkanBackend) DestroyRenderPass(pass metadata.RenderPass) {
	if rp, ok := vb.context.renderpasses.remove(uint64(pass)); ok {
		rp.Destroy(vb.context)
	}
}

func (vb *VulkanBackend) CreateFramebuffer(pass metadata.RenderPass, attachments []metadata.ImageView, extent metadata.Extent2D) (metadata.Framebuffer, error) {
	ctx := vb.context
	rp, err := resolve(ctx.renderpasses, uint64(pass), "render pass")
	if err != nil {
		return metadata.NullFramebuffer, err
	}
	views := make([]vk.ImageView, len(attachments))
	for i, a := range attachments {
		if views[i], err = resolve(ctx.imageViews, uint64(a), "image view"); err != nil {
			return metadata.NullFramebuffer, err
		}
	}
	fb, err := FramebufferCreate(ctx, rp, extent.Width, extent.Height, views)
	if err != nil {
		return metadata.NullFramebuffer, err
	}
	return metadata.Framebuffer(ctx.framebuffers.add(fb)), nil
}

func (vb *VulkanBackend) DestroyFramebuffer(fb metadata.Framebuffer) {
	if f, ok := vb.context.framebuffers.remove(uint64(fb)); ok {
		f.Destroy(vb.context)
	}
}

func (vb *VulkanBackend) AcquireNextImage(sc metadata.Swapchain, sem metadata.Semaphore) (uint32, metadata.SurfaceStatus, error) {
	ctx := vb.context
	swapchain := lookup(ctx.swapchains, uint64(sc), "AcquireNextImage", "swapchain")
	semaphore := lookup(ctx.semaphores, uint64(sem), "AcquireNextImage", "semaphore")

	var imageIndex uint32
	result := vk.AcquireNextImage(ctx.Device.LogicalDevice, swapchain.Handle, vk.MaxUint64, semaphore, vk.NullFence, &imageIndex)
	status, err := surfaceStatus("vkAcquireNextImageKHR", result)
	return imageIndex, status, err
}

func (vb *VulkanBackend) Present(sc metadata.Swapchain, imageIndex uint32, wait metadata.Semaphore) (metadata.SurfaceStatus, error) {
	ctx := vb.context
	swapchain := lookup(ctx.swapchains, uint64(sc), "Present", "swapchain")
	semaphore := lookup(ctx.semaphores, uint64(wait), "Present", "semaphore")

	presentInfo := vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{semaphore},
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{swapchain.Handle},
		PImageIndices:      []uint32{imageIndex},
	}
	var result vk.Result
	_ = ctx.locks.SafeQueueCall(uint32(ctx.Device.PresentQueueIndex), func() error {
		result = vk.QueuePresent(ctx.Device.PresentQueue, &presentInfo)
		return nil
	})
	return surfaceStatus("vkQueuePresentKHR", result)
}

/* Sync */

func (vb *VulkanBackend) CreateSemaphore() (metadata.Semaphore, error) {
	ctx := vb.context
	createInfo := vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
	}
	var semaphore vk.Semaphore
	if res := vk.CreateSemaphore(ctx.Device.LogicalDevice, &createInfo, ctx.Allocator, &semaphore); res != vk.Success {
		return metadata.NullSemaphore, resultError("vkCreateSemaphore", res)
	}
	return metadata.Semaphore(ctx.semaphores.add(semaphore)), nil
}

func (vb *VulkanBackend) DestroySemaphore(sem metadata.Semaphore) {
	if s, ok := vb.context.semaphores.remove(uint64(sem)); ok {
		vk.DestroySemaphore(vb.context.Device.LogicalDevice, s, vb.context.Allocator)
	}
}

func (vb *VulkanBackend) CreateFence(signaled bool) (metadata.Fence, error) {
	f, err := NewFence(vb.context, signaled)
	if err != nil {
		return metadata.NullFence, err
	}
	return metadata.Fence(vb.context.fences.add(f)), nil
}

func (vb *VulkanBackend) DestroyFence(fence metadata.Fence) {
	if f, ok := vb.context.fences.remove(uint64(fence)); ok {
		f.Destroy(vb.context)
	}
}

func (vb *VulkanBackend) WaitForFence(fence metadata.Fence) error {
	return lookup(vb.context.fences, uint64(fence), "WaitForFence", "fence").Wait(vb.context, vk.MaxUint64)
}

func (vb *VulkanBackend) ResetFence(fence metadata.Fence) error {
	return lookup(vb.context.fences, uint64(fence), "ResetFence", "fence").Reset(vb.context)
}

func (vb *VulkanBackend) Submit(cb metadata.CommandBuffer, wait, signal metadata.Semaphore, fence metadata.Fence) error {
	ctx := vb.context
	commandBuffer := lookup(ctx.commandBuffers, uint64(cb), "Submit", "command buffer")

	submitInfo := vk.SubmitInfo{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: 1,
		PCommandBuffers:    []vk.CommandBuffer{commandBuffer.Handle},
	}
	if wait != metadata.NullSemaphore {
		// The colour output stage waits on the image being available.
		submitInfo.WaitSemaphoreCount = 1
		submitInfo.PWaitSemaphores = []vk.Semaphore{lookup(ctx.semaphores, uint64(wait), "Submit", "semaphore")}
		submitInfo.PWaitDstStageMask = []vk.PipelineStageFlags{vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit)}
	}
	if signal != metadata.NullSemaphore {
		submitInfo.SignalSemaphoreCount = 1
		submitInfo.PSignalSemaphores = []vk.Semaphore{lookup(ctx.semaphores, uint64(signal), "Submit", "semaphore")}
	}

	var vkFence vk.Fence = vk.NullFence
	var f *VulkanFence
	if fence != metadata.NullFence {
		f = lookup(ctx.fences, uint64(fence), "Submit", "fence")
		vkFence = f.Handle
	}

	return ctx.locks.SafeQueueCall(uint32(ctx.Device.GraphicsQueueIndex), func() error {
		if res := vk.QueueSubmit(ctx.Device.GraphicsQueue, 1, []vk.SubmitInfo{submitInfo}, vkFence); res != vk.Success {
			return resultError("vkQueueSubmit", res)
		}
		commandBuffer.UpdateSubmitted()
		if f != nil {
			f.Submitted()
		}
		return nil
	})
}

/* Commands */

func (vb *VulkanBackend) AllocateCommandBuffers(count int) ([]metadata.CommandBuffer, error) {
	ctx := vb.context
	cbs, err := NewVulkanCommandBuffers(ctx, ctx.Device.GraphicsCommandPool, count)
	if err != nil {
		return nil, err
	}
	out := make([]metadata.CommandBuffer, len(cbs))
	for i, cb := range cbs {
		out[i] = metadata.CommandBuffer(ctx.commandBuffers.add(cb))
	}
	return out, nil
}

func (vb *VulkanBackend) FreeCommandBuffers(cbs []metadata.CommandBuffer) {
	ctx := vb.context
	for _, h := range cbs {
		if cb, ok := ctx.commandBuffers.remove(uint64(h)); ok {
			cb.Free(ctx, ctx.Device.GraphicsCommandPool)
		}
	}
}

func (vb *VulkanBackend) commandBuffer(cb metadata.CommandBuffer, op string) *VulkanCommandBuffer {
	return lookup(vb.context.commandBuffers, uint64(cb), op, "command buffer")
}

func (vb *VulkanBackend) BeginCommandBuffer(cb metadata.CommandBuffer) error {
	return vb.commandBuffer(cb, "BeginCommandBuffer").Begin(false)
}

func (vb *VulkanBackend) EndCommandBuffer(cb metadata.CommandBuffer) error {
	return vb.commandBuffer(cb, "EndCommandBuffer").End()
}

func (vb *VulkanBackend) CmdBeginRenderPass(cb metadata.CommandBuffer, pass metadata.RenderPass, fb metadata.Framebuffer, area metadata.Rect2D, clear metadata.ClearValues) {
	commandBuffer := vb.commandBuffer(cb, "CmdBeginRenderPass")
	rp := lookup(vb.context.renderpasses, uint64(pass), "CmdBeginRenderPass", "render pass")
	framebuffer := lookup(vb.context.framebuffers, uint64(fb), "CmdBeginRenderPass", "framebuffer")
	rp.Begin(commandBuffer, framebuffer.Handle, area, clear)
}

func (vb *VulkanBackend) CmdEndRenderPass(cb metadata.CommandBuffer) {
	RenderpassEnd(vb.commandBuffer(cb, "CmdEndRenderPass"))
}

func (vb *VulkanBackend) CmdSetViewport(cb metadata.CommandBuffer, viewport metadata.Viewport) {
	vk.CmdSetViewport(vb.commandBuffer(cb, "CmdSetViewport").Handle, 0, 1, []vk.Viewport{toViewport(viewport)})
}

func (vb *VulkanBackend) CmdSetScissor(cb metadata.CommandBuffer, scissor metadata.Rect2D) {
	vk.CmdSetScissor(vb.commandBuffer(cb, "CmdSetScissor").Handle, 0, 1, []vk.Rect2D{toRect2D(scissor)})
}

func (vb *VulkanBackend) CmdBindPipeline(cb metadata.CommandBuffer, pipeline metadata.Pipeline) {
	p := lookup(vb.context.pipelines, uint64(pipeline), "CmdBindPipeline", "pipeline")
	vk.CmdBindPipeline(vb.commandBuffer(cb, "CmdBindPipeline").Handle, vk.PipelineBindPointGraphics, p)
}

func (vb *VulkanBackend) CmdPushConstants(cb metadata.CommandBuffer, layout metadata.PipelineLayout, stages metadata.ShaderStage, offset uint32, data []byte) {
	if len(data) == 0 {
		return
	}
	l := lookup(vb.context.pipelineLayouts, uint64(layout), "CmdPushConstants", "pipeline layout")
	vk.CmdPushConstants(vb.commandBuffer(cb, "CmdPushConstants").Handle, l, vk.ShaderStageFlags(stages), offset, uint32(len(data)), unsafe.Pointer(&data[0]))
}

func (vb *VulkanBackend) CmdBindVertexBuffer(cb metadata.CommandBuffer, buffer metadata.Buffer) {
	b := lookup(vb.context.buffers, uint64(buffer), "CmdBindVertexBuffer", "buffer")
	vk.CmdBindVertexBuffers(vb.commandBuffer(cb, "CmdBindVertexBuffer").Handle, 0, 1, []vk.Buffer{b.Handle}, []vk.DeviceSize{0})
}

func (vb *VulkanBackend) CmdBindIndexBuffer(cb metadata.CommandBuffer, buffer metadata.Buffer) {
	b := lookup(vb.context.buffers, uint64(buffer), "CmdBindIndexBuffer", "buffer")
	vk.CmdBindIndexBuffer(vb.commandBuffer(cb, "CmdBindIndexBuffer").Handle, b.Handle, 0, vk.IndexTypeUint32)
}

func (vb *VulkanBackend) CmdDraw(cb metadata.CommandBuffer, vertexCount uint32) {
	vk.CmdDraw(vb.commandBuffer(cb, "CmdDraw").Handle, vertexCount, 1, 0, 0)
}

func (vb *VulkanBackend) CmdDrawIndexed(cb metadata.CommandBuffer, indexCount uint32) {
	vk.CmdDrawIndexed(vb.commandBuffer(cb, "CmdDrawIndexed").Handle, indexCount, 1, 0, 0, 0)
}

/* Pipelines */

func (vb *VulkanBackend) CreateShaderModule(code []byte) (metadata.ShaderModule, error) {
	module, err := ShaderModuleCreate(vb.context, code)
	if err != nil {
		return metadata.NullShaderModule, err
	}
	return metadata.ShaderModule(vb.context.shaderModules.add(module)), nil
}

func (vb *VulkanBackend) DestroyShaderModule(module metadata.ShaderModule) {
	if m, ok := vb.context.shaderModules.remove(uint64(module)); ok {
		vk.DestroyShaderModule(vb.context.Device.LogicalDevice, m, vb.context.Allocator)
	}
}

func (vb *VulkanBackend) CreatePipelineLayout(pushConstants []metadata.PushConstantRange) (metadata.PipelineLayout, error) {
	layout, err := PipelineLayoutCreate(vb.context, pushConstants)
	if err != nil {
		return metadata.NullPipelineLayout, err
	}
	return metadata.PipelineLayout(vb.context.pipelineLayouts.add(layout)), nil
}

func (vb *VulkanBackend) DestroyPipelineLayout(layout metadata.PipelineLayout) {
	if l, ok := vb.context.pipelineLayouts.remove(uint64(layout)); ok {
		vk.DestroyPipelineLayout(vb.context.Device.LogicalDevice, l, vb.context.Allocator)
	}
}

func (vb *VulkanBackend) CreateGraphicsPipeline(stages []metadata.ShaderStageConfig, config *metadata.PipelineConfig) (metadata.Pipeline, error) {
	ctx := vb.context
	layout, err := resolve(ctx.pipelineLayouts, uint64(config.Layout), "pipeline layout")
	if err != nil {
		return metadata.NullPipeline, err
	}
	rp, err := resolve(ctx.renderpasses, uint64(config.RenderPass), "render pass")
	if err != nil {
		return metadata.NullPipeline, err
	}
	modules := make([]vk.ShaderModule, len(stages))
	for i, s := range stages {
		if modules[i], err = resolve(ctx.shaderModules, uint64(s.Module), "shader module"); err != nil {
			return metadata.NullPipeline, err
		}
	}
	pipeline, err := GraphicsPipelineCreate(ctx, stages, modules, config, layout, rp.Handle)
	if err != nil {
		return metadata.NullPipeline, err
	}
	return metadata.Pipeline(ctx.pipelines.add(pipeline)), nil
}

func (vb *VulkanBackend) DestroyPipeline(pipeline metadata.Pipeline) {
	if p, ok := vb.context.pipelines.remove(uint64(pipeline)); ok {
		_ = vb.context.locks.SafeCall(PipelineManagement, func() error {
			vk.DestroyPipeline(vb.context.Device.LogicalDevice, p, vb.context.Allocator)
			return nil
		})
	}
}

/* Buffers */

func (vb *VulkanBackend) createBuffer(data []byte, usage vk.BufferUsageFlagBits, kind string) (metadata.Buffer, error) {
	if len(data) == 0 {
		err := fmt.Errorf("cannot create an empty %s buffer", kind)
		core.LogError(err.Error())
		return metadata.NullBuffer, err
	}
	var buffer *VulkanBuffer
	if err := vb.context.locks.SafeCall(BufferManagement, func() error {
		var err error
		buffer, err = BufferCreateDeviceLocal(vb.context, data, vk.BufferUsageFlags(usage))
		return err
	}); err != nil {
		return metadata.NullBuffer, err
	}
	return metadata.Buffer(vb.context.buffers.add(buffer)), nil
}

func (vb *VulkanBackend) CreateVertexBuffer(data []byte) (metadata.Buffer, error) {
	return vb.createBuffer(data, vk.BufferUsageVertexBufferBit, "vertex")
}

func (vb *VulkanBackend) CreateIndexBuffer(data []byte) (metadata.Buffer, error) {
	return vb.createBuffer(data, vk.BufferUsageIndexBufferBit, "index")
}

func (vb *VulkanBackend) DestroyBuffer(buffer metadata.Buffer) {
	if b, ok := vb.context.buffers.remove(uint64(buffer)); ok {
		b.Destroy(vb.context)
	}
}

func dbgCallbackFunc(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType, object uint64, location uint, messageCode int32, pLayerPrefix string, pMessage string, pUserData unsafe.Pointer) vk.Bool32 {
	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		core.LogError("ERROR: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit) != 0:
		core.LogWarn("WARNING: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportPerformanceWarningBit) != 0:
		core.LogWarn("PERFORMANCE WARNING: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	default:
		core.LogDebug("INFORMATION: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	}
	return vk.Bool32(vk.False)
}
