package metadata

/**
 * @brief Every fixed-function option of a graphics pipeline, named.
 * Layout and RenderPass must be set before a pipeline is built from it.
 */
type PipelineConfig struct {
	/** @brief How vertices are assembled into primitives. */
	Topology PrimitiveTopology
	/** @brief Whether a special index restarts strip topologies. */
	PrimitiveRestart bool

	/** @brief The viewport baked into the pipeline, unless it is dynamic. */
	Viewport Viewport
	/** @brief The scissor baked into the pipeline, unless it is dynamic. */
	Scissor Rect2D

	PolygonMode PolygonMode
	LineWidth   float32
	CullMode    FaceCullMode
	FrontFace   FrontFace
	/** @brief Rasterization samples per pixel. */
	Samples uint32

	ColorBlend ColorBlendAttachment

	DepthTest      bool
	DepthWrite     bool
	DepthCompareOp CompareOp
	StencilTest    bool

	/** @brief State set on the command buffer instead of baked in. */
	DynamicStates []DynamicState

	Bindings   []VertexBinding
	Attributes []VertexAttribute

	Layout     PipelineLayout
	RenderPass RenderPass
	Subpass    uint32
}

// EnableDynamicViewport marks viewport and scissor as dynamic so the
// pipeline keeps working after the swapchain extent changes.
func (c *PipelineConfig) EnableDynamicViewport() {
	for _, s := range c.DynamicStates {
		if s == DynamicStateViewport {
			return
		}
	}
	c.DynamicStates = append(c.DynamicStates, DynamicStateViewport, DynamicStateScissor)
}

// HasDynamicState reports whether s is set on the command buffer.
func (c *PipelineConfig) HasDynamicState(s DynamicState) bool {
	for _, d := range c.DynamicStates {
		if d == s {
			return true
		}
	}
	return false
}
