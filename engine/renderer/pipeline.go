package renderer

import (
	"errors"
	"fmt"

	"github.com/spaghettifunk/lve/engine/core"
	"github.com/spaghettifunk/lve/engine/renderer/metadata"
)

/**
 * @brief Returns the fixed-function state used by the simple shader:
 * triangle lists filling a width x height viewport, no culling, no
 * blending and a depth test keeping the nearest fragment.
 */
func DefaultPipelineConfig(width, height uint32) metadata.PipelineConfig {
	extent := metadata.Extent2D{Width: width, Height: height}
	return metadata.PipelineConfig{
		Topology:         metadata.TopologyTriangleList,
		PrimitiveRestart: false,
		Viewport: metadata.Viewport{
			X:        0,
			Y:        0,
			Width:    float32(width),
			Height:   float32(height),
			MinDepth: 0,
			MaxDepth: 1,
		},
		Scissor: metadata.Rect2D{
			OffsetX: 0,
			OffsetY: 0,
			Extent:  extent,
		},
		PolygonMode: metadata.PolygonModeFill,
		LineWidth:   1.0,
		CullMode:    metadata.FaceCullModeNone,
		FrontFace:   metadata.FrontFaceClockwise,
		Samples:     1,
		ColorBlend: metadata.ColorBlendAttachment{
			BlendEnable:         false,
			SrcColorBlendFactor: metadata.BlendFactorOne,
			DstColorBlendFactor: metadata.BlendFactorZero,
			ColorBlendOp:        metadata.BlendOpAdd,
			SrcAlphaBlendFactor: metadata.BlendFactorOne,
			DstAlphaBlendFactor: metadata.BlendFactorZero,
			AlphaBlendOp:        metadata.BlendOpAdd,
			WriteMask:           metadata.ColorComponentRGBA,
		},
		DepthTest:      true,
		DepthWrite:     true,
		DepthCompareOp: metadata.CompareOpLess,
		StencilTest:    false,
		DynamicStates:  nil,
		Bindings:       metadata.VertexBindingDescriptions(),
		Attributes:     metadata.VertexAttributeDescriptions(),
		Layout:         metadata.NullPipelineLayout,
		RenderPass:     metadata.NullRenderPass,
		Subpass:        0,
	}
}

// Pipeline is a graphics pipeline built from a vertex and a fragment shader.
type Pipeline struct {
	backend   Backend
	handle    metadata.Pipeline
	vertPath  string
	fragPath  string
	destroyed bool
}

// NewPipeline reads both shader binaries through loader and builds a
// pipeline from config. The shader modules only live for the duration of
// the call.
func NewPipeline(backend Backend, loader ShaderLoader, vertPath, fragPath string, config metadata.PipelineConfig) (*Pipeline, error) {
	if config.Layout == metadata.NullPipelineLayout {
		err := &core.BuildRejectedError{Object: "graphics pipeline", Err: core.ErrMissingPipelineLayout}
		core.LogError(err.Error())
		return nil, err
	}
	if config.RenderPass == metadata.NullRenderPass {
		err := &core.BuildRejectedError{Object: "graphics pipeline", Err: core.ErrMissingRenderPass}
		core.LogError(err.Error())
		return nil, err
	}

	vertCode, err := readShader(loader, vertPath)
	if err != nil {
		return nil, err
	}
	fragCode, err := readShader(loader, fragPath)
	if err != nil {
		return nil, err
	}

	vertModule, err := createShaderModule(backend, vertPath, vertCode)
	if err != nil {
		return nil, err
	}
	defer backend.DestroyShaderModule(vertModule)

	fragModule, err := createShaderModule(backend, fragPath, fragCode)
	if err != nil {
		return nil, err
	}
	defer backend.DestroyShaderModule(fragModule)

	stages := []metadata.ShaderStageConfig{
		{Stage: metadata.ShaderStageVertex, Module: vertModule, EntryPoint: "main"},
		{Stage: metadata.ShaderStageFragment, Module: fragModule, EntryPoint: "main"},
	}
	handle, err := backend.CreateGraphicsPipeline(stages, &config)
	if err != nil {
		err := &core.BuildRejectedError{Object: "graphics pipeline", Err: err}
		core.LogError(err.Error())
		return nil, err
	}

	core.LogDebug("graphics pipeline created from %s and %s", vertPath, fragPath)
	return &Pipeline{
		backend:  backend,
		handle:   handle,
		vertPath: vertPath,
		fragPath: fragPath,
	}, nil
}

func readShader(loader ShaderLoader, path string) ([]byte, error) {
	code, err := loader.Load(path)
	if err != nil {
		var missing *core.MissingResourceError
		if !errors.As(err, &missing) {
			err = &core.MissingResourceError{Path: path, Err: err}
		}
		core.LogError(err.Error())
		return nil, err
	}
	return code, nil
}

func createShaderModule(backend Backend, path string, code []byte) (metadata.ShaderModule, error) {
	module, err := backend.CreateShaderModule(code)
	if err != nil {
		err := &core.BuildRejectedError{Object: fmt.Sprintf("shader module %s", path), Err: err}
		core.LogError(err.Error())
		return metadata.NullShaderModule, err
	}
	return module, nil
}

// Bind makes the pipeline current on cb.
func (p *Pipeline) Bind(cb metadata.CommandBuffer) {
	core.Assert(!p.destroyed, "Pipeline.Bind", "pipeline is destroyed")
	p.backend.CmdBindPipeline(cb, p.handle)
}

func (p *Pipeline) Handle() metadata.Pipeline {
	return p.handle
}

// Destroy releases the pipeline. Later calls do nothing.
func (p *Pipeline) Destroy() {
	if p == nil || p.destroyed {
		return
	}
	p.destroyed = true
	p.backend.DestroyPipeline(p.handle)
	p.handle = metadata.NullPipeline
}
