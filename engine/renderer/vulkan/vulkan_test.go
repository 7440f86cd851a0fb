package vulkan

import (
	"errors"
	"sync"
	"testing"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/lve/engine/core"
	"github.com/spaghettifunk/lve/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleTable(t *testing.T) {
	table := newHandleTable[string]()

	a := table.add("a")
	b := table.add("b")
	assert.NotZero(t, a)
	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, table.len())

	got, ok := table.get(a)
	require.True(t, ok)
	assert.Equal(t, "a", got)

	got, ok = table.remove(a)
	require.True(t, ok)
	assert.Equal(t, "a", got)
	_, ok = table.get(a)
	assert.False(t, ok)
	_, ok = table.remove(a)
	assert.False(t, ok)

	// Handles are not reused after removal.
	c := table.add("c")
	assert.NotEqual(t, a, c)

	drained := table.drain()
	assert.ElementsMatch(t, []string{"b", "c"}, drained)
	assert.Zero(t, table.len())
}

func TestLookupAndResolve(t *testing.T) {
	table := newHandleTable[int]()
	h := table.add(7)

	assert.Equal(t, 7, lookup(table, h, "Test", "thing"))
	assert.Panics(t, func() { lookup(table, h+1, "Test", "thing") })

	v, err := resolve(table, h, "thing")
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	_, err = resolve(table, 0, "thing")
	assert.True(t, errors.Is(err, core.ErrUnknownHandle))
}

func TestSelectQueueFamilies(t *testing.T) {
	graphics := vk.QueueFlags(vk.QueueGraphicsBit)
	compute := vk.QueueFlags(vk.QueueComputeBit)
	transfer := vk.QueueFlags(vk.QueueTransferBit)

	t.Run("single family does everything", func(t *testing.T) {
		info := selectQueueFamilies([]queueFamilySupport{
			{Flags: graphics | compute | transfer, Present: true},
		})
		assert.Equal(t, int32(0), info.GraphicsFamilyIndex)
		assert.Equal(t, int32(0), info.PresentFamilyIndex)
		assert.Equal(t, int32(0), info.ComputeFamilyIndex)
		assert.Equal(t, int32(0), info.TransferFamilyIndex)
		assert.Equal(t, []uint32{0}, info.uniqueQueueFamilies())
	})

	t.Run("dedicated transfer family is preferred", func(t *testing.T) {
		info := selectQueueFamilies([]queueFamilySupport{
			{Flags: graphics | compute | transfer, Present: true},
			{Flags: transfer},
		})
		assert.Equal(t, int32(0), info.GraphicsFamilyIndex)
		assert.Equal(t, int32(1), info.TransferFamilyIndex)
		assert.Equal(t, []uint32{0, 1}, info.uniqueQueueFamilies())
	})

	t.Run("graphics and present share a family when possible", func(t *testing.T) {
		info := selectQueueFamilies([]queueFamilySupport{
			{Flags: graphics},
			{Flags: compute, Present: true},
			{Flags: graphics | transfer, Present: true},
		})
		assert.Equal(t, int32(2), info.GraphicsFamilyIndex)
		assert.Equal(t, int32(2), info.PresentFamilyIndex)
		assert.Equal(t, int32(1), info.ComputeFamilyIndex)
	})

	t.Run("separate graphics and present", func(t *testing.T) {
		info := selectQueueFamilies([]queueFamilySupport{
			{Flags: graphics},
			{Flags: compute, Present: true},
		})
		assert.Equal(t, int32(0), info.GraphicsFamilyIndex)
		assert.Equal(t, int32(1), info.PresentFamilyIndex)
		// No transfer bit anywhere, graphics takes it.
		assert.Equal(t, int32(0), info.TransferFamilyIndex)
		assert.Equal(t, []uint32{0, 1}, info.uniqueQueueFamilies())
	})

	t.Run("missing present fails requirements", func(t *testing.T) {
		info := selectQueueFamilies([]queueFamilySupport{{Flags: graphics}})
		assert.Equal(t, int32(-1), info.PresentFamilyIndex)
		assert.False(t, info.meets(&VulkanPhysicalDeviceRequirements{Graphics: true, Present: true}))
		assert.True(t, info.meets(&VulkanPhysicalDeviceRequirements{Graphics: true}))
	})
}

func TestChooseSurfaceFormat(t *testing.T) {
	srgb := vk.SurfaceFormat{Format: vk.FormatB8g8r8a8Srgb, ColorSpace: vk.ColorSpaceSrgbNonlinear}
	unorm := vk.SurfaceFormat{Format: vk.FormatB8g8r8a8Unorm, ColorSpace: vk.ColorSpaceSrgbNonlinear}
	other := vk.SurfaceFormat{Format: vk.FormatR8g8b8a8Unorm, ColorSpace: vk.ColorSpaceSrgbNonlinear}

	assert.Equal(t, srgb, chooseSurfaceFormat([]vk.SurfaceFormat{other, unorm, srgb}))
	assert.Equal(t, unorm, chooseSurfaceFormat([]vk.SurfaceFormat{other, unorm}))
	assert.Equal(t, other, chooseSurfaceFormat([]vk.SurfaceFormat{other}))
}

func TestChoosePresentMode(t *testing.T) {
	assert.Equal(t, vk.PresentModeMailbox, choosePresentMode([]vk.PresentMode{vk.PresentModeFifo, vk.PresentModeMailbox}))
	assert.Equal(t, vk.PresentModeFifo, choosePresentMode([]vk.PresentMode{vk.PresentModeImmediate}))
	assert.Equal(t, vk.PresentModeFifo, choosePresentMode(nil))
}

func TestChooseExtent(t *testing.T) {
	caps := &vk.SurfaceCapabilities{
		CurrentExtent:  vk.Extent2D{Width: 800, Height: 600},
		MinImageExtent: vk.Extent2D{Width: 1, Height: 1},
		MaxImageExtent: vk.Extent2D{Width: 1920, Height: 1080},
	}
	assert.Equal(t, vk.Extent2D{Width: 800, Height: 600}, chooseExtent(caps, 1024, 768))

	caps.CurrentExtent = vk.Extent2D{Width: vk.MaxUint32, Height: vk.MaxUint32}
	assert.Equal(t, vk.Extent2D{Width: 1024, Height: 768}, chooseExtent(caps, 1024, 768))
	assert.Equal(t, vk.Extent2D{Width: 1920, Height: 1080}, chooseExtent(caps, 4000, 3000))
}

func TestChooseImageCount(t *testing.T) {
	assert.Equal(t, uint32(3), chooseImageCount(&vk.SurfaceCapabilities{MinImageCount: 2, MaxImageCount: 0}))
	assert.Equal(t, uint32(3), chooseImageCount(&vk.SurfaceCapabilities{MinImageCount: 2, MaxImageCount: 8}))
	assert.Equal(t, uint32(2), chooseImageCount(&vk.SurfaceCapabilities{MinImageCount: 2, MaxImageCount: 2}))
}

func TestVulkanSafeStrings(t *testing.T) {
	assert.Equal(t, "main\x00", VulkanSafeString("main"))
	assert.Equal(t, "main\x00", VulkanSafeString("main\x00"))
	assert.Equal(t, "\x00", VulkanSafeString(""))

	in := []string{"VK_KHR_surface", "VK_KHR_swapchain\x00"}
	out := VulkanSafeStrings(in)
	assert.Equal(t, []string{"VK_KHR_surface\x00", "VK_KHR_swapchain\x00"}, out)
	assert.Equal(t, "VK_KHR_surface", in[0])
}

func TestCString(t *testing.T) {
	assert.Equal(t, 3, FindFirstZeroInByteArray([]byte{'a', 'b', 'c', 0, 'd'}))
	assert.Equal(t, 2, FindFirstZeroInByteArray([]byte{'a', 'b'}))
	assert.Equal(t, "abc", cString([]byte{'a', 'b', 'c', 0, 0, 0}))
	assert.Equal(t, "ab", cString([]byte{'a', 'b'}))
}

func TestVulkanResultString(t *testing.T) {
	assert.Equal(t, "VK_SUCCESS", VulkanResultString(vk.Success, false))
	assert.Contains(t, VulkanResultString(vk.ErrorOutOfDate, true), "no longer compatible")
	assert.Equal(t, "VkResult(-12345)", VulkanResultString(vk.Result(-12345), false))

	assert.True(t, VulkanResultIsSuccess(vk.Suboptimal))
	assert.False(t, VulkanResultIsSuccess(vk.ErrorDeviceLost))
}

func TestSurfaceStatus(t *testing.T) {
	status, err := surfaceStatus("acquire", vk.Success)
	require.NoError(t, err)
	assert.Equal(t, metadata.SurfaceOK, status)

	status, err = surfaceStatus("acquire", vk.Suboptimal)
	require.NoError(t, err)
	assert.Equal(t, metadata.SurfaceSuboptimal, status)

	status, err = surfaceStatus("present", vk.ErrorOutOfDate)
	require.NoError(t, err)
	assert.Equal(t, metadata.SurfaceOutOfDate, status)

	_, err = surfaceStatus("present", vk.ErrorDeviceLost)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "VK_ERROR_DEVICE_LOST")
}

func TestPushConstantRanges(t *testing.T) {
	stages := metadata.ShaderStageVertex | metadata.ShaderStageFragment
	ranges, err := pushConstantRanges([]metadata.PushConstantRange{{Stages: stages, Offset: 0, Size: 128}})
	require.NoError(t, err)
	require.Len(t, ranges, 1)
	assert.Equal(t, uint32(128), ranges[0].Size)
	assert.Equal(t, vk.ShaderStageFlags(stages), ranges[0].StageFlags)

	_, err = pushConstantRanges([]metadata.PushConstantRange{{Stages: stages, Offset: 2, Size: 64}})
	assert.Error(t, err)
	_, err = pushConstantRanges([]metadata.PushConstantRange{{Stages: stages, Offset: 64, Size: 80}})
	assert.Error(t, err)
}

func TestMemoryTypeMatches(t *testing.T) {
	hostVisible := vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit)
	coherent := vk.MemoryPropertyFlags(vk.MemoryPropertyHostCoherentBit)

	assert.True(t, memoryTypeMatches(0b0100, 2, hostVisible|coherent, hostVisible))
	assert.False(t, memoryTypeMatches(0b0100, 1, hostVisible|coherent, hostVisible))
	assert.False(t, memoryTypeMatches(0b0100, 2, hostVisible, hostVisible|coherent))
}

func TestCullMode(t *testing.T) {
	assert.Equal(t, vk.CullModeFlags(vk.CullModeNone), cullMode(metadata.FaceCullModeNone))
	assert.Equal(t, vk.CullModeFlags(vk.CullModeBackBit), cullMode(metadata.FaceCullModeBack))
	assert.Equal(t, vk.CullModeFlags(vk.CullModeFrontAndBack), cullMode(metadata.FaceCullModeFrontAndBack))
}

func TestLockPoolSerializesGroup(t *testing.T) {
	pool := NewVulkanLockPool()
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = pool.SafeCall(BufferManagement, func() error {
				counter++
				return nil
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, counter)

	sentinel := errors.New("boom")
	assert.ErrorIs(t, pool.SafeQueueCall(0, func() error { return sentinel }), sentinel)
	assert.Same(t, pool.queueLock(0), pool.queueLock(0))
	assert.NotSame(t, pool.queueLock(0), pool.queueLock(1))
}
