package metadata

/** @brief Determines face culling mode during rendering. */
type FaceCullMode int

const (
	/** @brief No faces are culled. */
	FaceCullModeNone FaceCullMode = 0x0
	/** @brief Only front faces are culled. */
	FaceCullModeFront FaceCullMode = 0x1
	/** @brief Only back faces are culled. */
	FaceCullModeBack FaceCullMode = 0x2
	/** @brief Both front and back faces are culled. */
	FaceCullModeFrontAndBack FaceCullMode = 0x3
)

/** @brief How vertices are assembled into primitives. */
type PrimitiveTopology int

const (
	TopologyPointList     PrimitiveTopology = 0
	TopologyLineList      PrimitiveTopology = 1
	TopologyLineStrip     PrimitiveTopology = 2
	TopologyTriangleList  PrimitiveTopology = 3
	TopologyTriangleStrip PrimitiveTopology = 4
)

type PolygonMode int

const (
	PolygonModeFill  PolygonMode = 0
	PolygonModeLine  PolygonMode = 1
	PolygonModePoint PolygonMode = 2
)

/** @brief The winding order of front facing triangles. */
type FrontFace int

const (
	FrontFaceCounterClockwise FrontFace = 0
	FrontFaceClockwise        FrontFace = 1
)

type CompareOp int

const (
	CompareOpNever          CompareOp = 0
	CompareOpLess           CompareOp = 1
	CompareOpEqual          CompareOp = 2
	CompareOpLessOrEqual    CompareOp = 3
	CompareOpGreater        CompareOp = 4
	CompareOpNotEqual       CompareOp = 5
	CompareOpGreaterOrEqual CompareOp = 6
	CompareOpAlways         CompareOp = 7
)

/** @brief Pipeline state that is set on the command buffer instead of baked in. */
type DynamicState int

const (
	DynamicStateViewport DynamicState = 0
	DynamicStateScissor  DynamicState = 1
)

/** @brief Which colour channels are written by a blend attachment. */
type ColorComponentFlags uint32

const (
	ColorComponentR ColorComponentFlags = 0x1
	ColorComponentG ColorComponentFlags = 0x2
	ColorComponentB ColorComponentFlags = 0x4
	ColorComponentA ColorComponentFlags = 0x8

	ColorComponentRGBA = ColorComponentR | ColorComponentG | ColorComponentB | ColorComponentA
)

/** @brief Blend factors. Only the ones used by the renderer are listed. */
type BlendFactor int

const (
	BlendFactorZero             BlendFactor = 0
	BlendFactorOne              BlendFactor = 1
	BlendFactorSrcAlpha         BlendFactor = 6
	BlendFactorOneMinusSrcAlpha BlendFactor = 7
)

type BlendOp int

const (
	BlendOpAdd BlendOp = 0
)

/** @brief The colour blend state of the single colour attachment. */
type ColorBlendAttachment struct {
	BlendEnable         bool
	SrcColorBlendFactor BlendFactor
	DstColorBlendFactor BlendFactor
	ColorBlendOp        BlendOp
	SrcAlphaBlendFactor BlendFactor
	DstAlphaBlendFactor BlendFactor
	AlphaBlendOp        BlendOp
	WriteMask           ColorComponentFlags
}
