package vulkan

import (
	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/lve/engine/core"
)

// VulkanContext holds the instance level state and every object created
// through the backend, indexed by the handles given out to the renderer.
type VulkanContext struct {
	Instance  vk.Instance
	Allocator *vk.AllocationCallbacks
	Surface   vk.Surface

	debugCallback vk.DebugReportCallback

	Device *VulkanDevice

	swapchains      *handleTable[*VulkanSwapchain]
	images          *handleTable[*VulkanImage]
	imageViews      *handleTable[vk.ImageView]
	renderpasses    *handleTable[*VulkanRenderpass]
	framebuffers    *handleTable[*VulkanFramebuffer]
	commandBuffers  *handleTable[*VulkanCommandBuffer]
	semaphores      *handleTable[vk.Semaphore]
	fences          *handleTable[*VulkanFence]
	shaderModules   *handleTable[vk.ShaderModule]
	pipelineLayouts *handleTable[vk.PipelineLayout]
	pipelines       *handleTable[vk.Pipeline]
	buffers         *handleTable[*VulkanBuffer]

	locks *VulkanLockPool
}

func newVulkanContext() *VulkanContext {
	return &VulkanContext{
		Allocator:       nil,
		swapchains:      newHandleTable[*VulkanSwapchain](),
		images:          newHandleTable[*VulkanImage](),
		imageViews:      newHandleTable[vk.ImageView](),
		renderpasses:    newHandleTable[*VulkanRenderpass](),
		framebuffers:    newHandleTable[*VulkanFramebuffer](),
		commandBuffers:  newHandleTable[*VulkanCommandBuffer](),
		semaphores:      newHandleTable[vk.Semaphore](),
		fences:          newHandleTable[*VulkanFence](),
		shaderModules:   newHandleTable[vk.ShaderModule](),
		pipelineLayouts: newHandleTable[vk.PipelineLayout](),
		pipelines:       newHandleTable[vk.Pipeline](),
		buffers:         newHandleTable[*VulkanBuffer](),
		locks:           NewVulkanLockPool(),
	}
}

// FindMemoryIndex returns the first memory type allowed by typeFilter that
// has every flag in propertyFlags, or -1.
func (vc *VulkanContext) FindMemoryIndex(typeFilter uint32, propertyFlags vk.MemoryPropertyFlags) int32 {
	var memoryProperties vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(vc.Device.PhysicalDevice, &memoryProperties)
	memoryProperties.Deref()

	for i := uint32(0); i < memoryProperties.MemoryTypeCount; i++ {
		// Check each memory type to see if its bit is set to 1.
		memoryProperties.MemoryTypes[i].Deref()
		if memoryTypeMatches(typeFilter, i, memoryProperties.MemoryTypes[i].PropertyFlags, propertyFlags) {
			return int32(i)
		}
	}
	core.LogWarn("Unable to find suitable memory type!")
	return -1
}

func memoryTypeMatches(typeFilter, index uint32, have, want vk.MemoryPropertyFlags) bool {
	return typeFilter&(1<<index) != 0 && have&want == want
}
