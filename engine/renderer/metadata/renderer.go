package metadata

/**
 * @brief Opaque handles to objects owned by the renderer backend.
 * The zero value of every handle is the null handle.
 */
type (
	Swapchain      uint64
	Image          uint64
	ImageView      uint64
	RenderPass     uint64
	Framebuffer    uint64
	CommandBuffer  uint64
	Semaphore      uint64
	Fence          uint64
	ShaderModule   uint64
	PipelineLayout uint64
	Pipeline       uint64
	Buffer         uint64
)

const (
	NullSwapchain      Swapchain      = 0
	NullImage          Image          = 0
	NullImageView      ImageView      = 0
	NullRenderPass     RenderPass     = 0
	NullFramebuffer    Framebuffer    = 0
	NullCommandBuffer  CommandBuffer  = 0
	NullSemaphore      Semaphore      = 0
	NullFence          Fence          = 0
	NullShaderModule   ShaderModule   = 0
	NullPipelineLayout PipelineLayout = 0
	NullPipeline       Pipeline       = 0
	NullBuffer         Buffer         = 0
)

/**
 * @brief Pixel formats. Values match the Vulkan enumeration so the backend
 * can convert them with a plain cast.
 */
type Format uint32

const (
	FormatUndefined         Format = 0
	FormatR32G32Sfloat      Format = 103
	FormatR32G32B32Sfloat   Format = 106
	FormatB8G8R8A8Unorm     Format = 44
	FormatB8G8R8A8Srgb      Format = 50
	FormatD32Sfloat         Format = 126
	FormatD24UnormS8Uint    Format = 129
	FormatD32SfloatS8Uint   Format = 130
	FormatR8G8B8A8Unorm     Format = 37
	FormatR8G8B8A8Srgb      Format = 43
	FormatA2B10G10R10Unorm  Format = 64
	FormatR16G16B16A16Float Format = 97
)

/** @brief A two dimensional size in pixels. */
type Extent2D struct {
	Width  uint32
	Height uint32
}

// IsZero reports whether either dimension is zero, as happens while the
// window is minimized.
func (e Extent2D) IsZero() bool {
	return e.Width == 0 || e.Height == 0
}

// AspectRatio returns width / height, or 0 for a zero extent.
func (e Extent2D) AspectRatio() float32 {
	if e.IsZero() {
		return 0
	}
	return float32(e.Width) / float32(e.Height)
}

type Viewport struct {
	X        float32
	Y        float32
	Width    float32
	Height   float32
	MinDepth float32
	MaxDepth float32
}

type Rect2D struct {
	OffsetX int32
	OffsetY int32
	Extent  Extent2D
}

/** @brief The values a render pass clears its attachments to. */
type ClearValues struct {
	/** @brief RGBA clear colour. */
	Color [4]float32
	/** @brief Depth clear value, usually 1.0. */
	Depth float32
	/** @brief Stencil clear value. */
	Stencil uint32
}

/**
 * @brief What the backend hands back after creating a swapchain.
 */
type SwapchainInfo struct {
	/** @brief The backend swapchain handle. */
	Handle Swapchain
	/** @brief The extent actually chosen, clamped to the surface capabilities. */
	Extent Extent2D
	/** @brief The colour format of the swapchain images. */
	ColorFormat Format
	/** @brief The minimum number of images the surface requires. */
	MinImageCount uint32
	/** @brief One view per swapchain image, in image order. */
	Views []ImageView
}

/** @brief A depth image with its view, sized to the swapchain. */
type DepthAttachment struct {
	Image  Image
	View   ImageView
	Format Format
}

/** @brief The outcome of acquiring or presenting a swapchain image. */
type SurfaceStatus int

const (
	/** @brief The image was acquired or presented normally. */
	SurfaceOK SurfaceStatus = iota
	/** @brief It worked, but the swapchain no longer matches the surface exactly. */
	SurfaceSuboptimal
	/** @brief The swapchain can no longer be used with the surface. */
	SurfaceOutOfDate
)

func (s SurfaceStatus) String() string {
	switch s {
	case SurfaceOK:
		return "ok"
	case SurfaceSuboptimal:
		return "suboptimal"
	case SurfaceOutOfDate:
		return "out of date"
	}
	return "unknown"
}
