package vulkan

import (
	"fmt"
	"unsafe"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/lve/engine/core"
	"github.com/spaghettifunk/lve/engine/renderer/metadata"
)

// Vulkan only guarantees 128 bytes of push constants.
const maxPushConstantBytes = 128

func vkBool(b bool) vk.Bool32 {
	if b {
		return vk.True
	}
	return vk.False
}

// ShaderModuleCreate wraps SPIR-V code in a shader module. The code size
// must be a multiple of 4.
func ShaderModuleCreate(context *VulkanContext, code []byte) (vk.ShaderModule, error) {
	if len(code) == 0 || len(code)%4 != 0 {
		err := fmt.Errorf("shader code size %d is not a positive multiple of 4", len(code))
		core.LogError(err.Error())
		return nil, err
	}
	createInfo := vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint(len(code)),
		PCode:    sliceUint32(code),
	}
	var module vk.ShaderModule
	if res := vk.CreateShaderModule(context.Device.LogicalDevice, &createInfo, context.Allocator, &module); res != vk.Success {
		return nil, resultError("vkCreateShaderModule", res)
	}
	return module, nil
}

func sliceUint32(data []byte) []uint32 {
	return unsafe.Slice((*uint32)(unsafe.Pointer(&data[0])), len(data)/4)
}

func pushConstantRanges(ranges []metadata.PushConstantRange) ([]vk.PushConstantRange, error) {
	out := make([]vk.PushConstantRange, len(ranges))
	for i, r := range ranges {
		if r.Offset%4 != 0 || r.Size%4 != 0 || r.Offset+r.Size > maxPushConstantBytes {
			err := fmt.Errorf("push constant range %d (offset %d, size %d) must be 4 byte aligned and within %d bytes", i, r.Offset, r.Size, maxPushConstantBytes)
			core.LogError(err.Error())
			return nil, err
		}
		out[i] = vk.PushConstantRange{
			StageFlags: vk.ShaderStageFlags(r.Stages),
			Offset:     r.Offset,
			Size:       r.Size,
		}
	}
	return out, nil
}

// PipelineLayoutCreate makes a layout with push constants and no
// descriptor sets.
func PipelineLayoutCreate(context *VulkanContext, ranges []metadata.PushConstantRange) (vk.PipelineLayout, error) {
	vkRanges, err := pushConstantRanges(ranges)
	if err != nil {
		return nil, err
	}
	createInfo := vk.PipelineLayoutCreateInfo{
		SType:                  vk.StructureTypePipelineLayoutCreateInfo,
		PushConstantRangeCount: uint32(len(vkRanges)),
		PPushConstantRanges:    vkRanges,
	}
	var layout vk.PipelineLayout
	if err := context.locks.SafeCall(PipelineManagement, func() error {
		if res := vk.CreatePipelineLayout(context.Device.LogicalDevice, &createInfo, context.Allocator, &layout); res != vk.Success {
			return resultError("vkCreatePipelineLayout", res)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return layout, nil
}

func shaderStages(stages []metadata.ShaderStageConfig, modules []vk.ShaderModule) []vk.PipelineShaderStageCreateInfo {
	out := make([]vk.PipelineShaderStageCreateInfo, len(stages))
	for i, s := range stages {
		entry := s.EntryPoint
		if entry == "" {
			entry = "main"
		}
		out[i] = vk.PipelineShaderStageCreateInfo{
			SType:  vk.StructureTypePipelineShaderStageCreateInfo,
			Stage:  vk.ShaderStageFlagBits(s.Stage),
			Module: modules[i],
			PName:  VulkanSafeString(entry),
		}
	}
	return out
}

func vertexInputState(config *metadata.PipelineConfig) vk.PipelineVertexInputStateCreateInfo {
	bindings := make([]vk.VertexInputBindingDescription, len(config.Bindings))
	for i, b := range config.Bindings {
		bindings[i] = vk.VertexInputBindingDescription{
			Binding:   b.Binding,
			Stride:    b.Stride,
			InputRate: vk.VertexInputRate(b.InputRate),
		}
	}
	attributes := make([]vk.VertexInputAttributeDescription, len(config.Attributes))
	for i, a := range config.Attributes {
		attributes[i] = vk.VertexInputAttributeDescription{
			Location: a.Location,
			Binding:  a.Binding,
			Format:   vk.Format(a.Format),
			Offset:   a.Offset,
		}
	}
	return vk.PipelineVertexInputStateCreateInfo{
		SType:                           vk.StructureTypePipelineVertexInputStateCreateInfo,
		VertexBindingDescriptionCount:   uint32(len(bindings)),
		PVertexBindingDescriptions:      bindings,
		VertexAttributeDescriptionCount: uint32(len(attributes)),
		PVertexAttributeDescriptions:    attributes,
	}
}

func cullMode(mode metadata.FaceCullMode) vk.CullModeFlags {
	switch mode {
	case metadata.FaceCullModeNone:
		return vk.CullModeFlags(vk.CullModeNone)
	case metadata.FaceCullModeFront:
		return vk.CullModeFlags(vk.CullModeFrontBit)
	case metadata.FaceCullModeFrontAndBack:
		return vk.CullModeFlags(vk.CullModeFrontAndBack)
	}
	return vk.CullModeFlags(vk.CullModeBackBit)
}

// GraphicsPipelineCreate translates config into a pipeline built from the
// given stage modules. Layout and render pass come in resolved.
func GraphicsPipelineCreate(
	context *VulkanContext,
	stages []metadata.ShaderStageConfig,
	modules []vk.ShaderModule,
	config *metadata.PipelineConfig,
	layout vk.PipelineLayout,
	renderpass vk.RenderPass,
) (vk.Pipeline, error) {
	vkStages := shaderStages(stages, modules)
	vertexInputInfo := vertexInputState(config)

	inputAssembly := vk.PipelineInputAssemblyStateCreateInfo{
		SType:                  vk.StructureTypePipelineInputAssemblyStateCreateInfo,
		Topology:               vk.PrimitiveTopology(config.Topology),
		PrimitiveRestartEnable: vkBool(config.PrimitiveRestart),
	}

	// Viewport state. With dynamic viewport and scissor the values here are
	// ignored but the counts still matter.
	viewportState := vk.PipelineViewportStateCreateInfo{
		SType:         vk.StructureTypePipelineViewportStateCreateInfo,
		ViewportCount: 1,
		PViewports:    []vk.Viewport{toViewport(config.Viewport)},
		ScissorCount:  1,
		PScissors:     []vk.Rect2D{toRect2D(config.Scissor)},
	}

	rasterizer := vk.PipelineRasterizationStateCreateInfo{
		SType:                   vk.StructureTypePipelineRasterizationStateCreateInfo,
		DepthClampEnable:        vk.False,
		RasterizerDiscardEnable: vk.False,
		PolygonMode:             vk.PolygonMode(config.PolygonMode),
		LineWidth:               config.LineWidth,
		CullMode:                cullMode(config.CullMode),
		FrontFace:               vk.FrontFace(config.FrontFace),
		DepthBiasEnable:         vk.False,
	}

	samples := config.Samples
	if samples == 0 {
		samples = 1
	}
	multisampling := vk.PipelineMultisampleStateCreateInfo{
		SType:                 vk.StructureTypePipelineMultisampleStateCreateInfo,
		RasterizationSamples:  vk.SampleCountFlagBits(samples),
		SampleShadingEnable:   vk.False,
		MinSampleShading:      1.0,
		AlphaToCoverageEnable: vk.False,
		AlphaToOneEnable:      vk.False,
	}

	depthStencil := vk.PipelineDepthStencilStateCreateInfo{
		SType:                 vk.StructureTypePipelineDepthStencilStateCreateInfo,
		DepthTestEnable:       vkBool(config.DepthTest),
		DepthWriteEnable:      vkBool(config.DepthWrite),
		DepthCompareOp:        vk.CompareOp(config.DepthCompareOp),
		DepthBoundsTestEnable: vk.False,
		StencilTestEnable:     vkBool(config.StencilTest),
		MinDepthBounds:        0.0,
		MaxDepthBounds:        1.0,
	}

	blend := config.ColorBlend
	colorBlendAttachment := vk.PipelineColorBlendAttachmentState{
		BlendEnable:         vkBool(blend.BlendEnable),
		SrcColorBlendFactor: vk.BlendFactor(blend.SrcColorBlendFactor),
		DstColorBlendFactor: vk.BlendFactor(blend.DstColorBlendFactor),
		ColorBlendOp:        vk.BlendOp(blend.ColorBlendOp),
		SrcAlphaBlendFactor: vk.BlendFactor(blend.SrcAlphaBlendFactor),
		DstAlphaBlendFactor: vk.BlendFactor(blend.DstAlphaBlendFactor),
		AlphaBlendOp:        vk.BlendOp(blend.AlphaBlendOp),
		ColorWriteMask:      vk.ColorComponentFlags(blend.WriteMask),
	}
	colorBlending := vk.PipelineColorBlendStateCreateInfo{
		SType:           vk.StructureTypePipelineColorBlendStateCreateInfo,
		LogicOpEnable:   vk.False,
		LogicOp:         vk.LogicOpCopy,
		AttachmentCount: 1,
		PAttachments:    []vk.PipelineColorBlendAttachmentState{colorBlendAttachment},
	}

	pipelineInfo := vk.GraphicsPipelineCreateInfo{
		SType:               vk.StructureTypeGraphicsPipelineCreateInfo,
		StageCount:          uint32(len(vkStages)),
		PStages:             vkStages,
		PVertexInputState:   &vertexInputInfo,
		PInputAssemblyState: &inputAssembly,
		PViewportState:      &viewportState,
		PRasterizationState: &rasterizer,
		PMultisampleState:   &multisampling,
		PDepthStencilState:  &depthStencil,
		PColorBlendState:    &colorBlending,
		Layout:              layout,
		RenderPass:          renderpass,
		Subpass:             config.Subpass,
		BasePipelineHandle:  vk.NullPipeline,
		BasePipelineIndex:   -1,
	}

	if len(config.DynamicStates) > 0 {
		dynamicStates := make([]vk.DynamicState, len(config.DynamicStates))
		for i, s := range config.DynamicStates {
			dynamicStates[i] = vk.DynamicState(s)
		}
		pipelineInfo.PDynamicState = &vk.PipelineDynamicStateCreateInfo{
			SType:             vk.StructureTypePipelineDynamicStateCreateInfo,
			DynamicStateCount: uint32(len(dynamicStates)),
			PDynamicStates:    dynamicStates,
		}
	}

	pipelines := make([]vk.Pipeline, 1)
	if err := context.locks.SafeCall(PipelineManagement, func() error {
		if res := vk.CreateGraphicsPipelines(context.Device.LogicalDevice, vk.NullPipelineCache, 1, []vk.GraphicsPipelineCreateInfo{pipelineInfo}, context.Allocator, pipelines); res != vk.Success {
			return resultError("vkCreateGraphicsPipelines", res)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	core.LogDebug("Graphics pipeline created!")
	return pipelines[0], nil
}
