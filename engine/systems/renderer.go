package systems

import (
	"fmt"
	"unsafe"

	"github.com/spaghettifunk/lve/engine/core"
	"github.com/spaghettifunk/lve/engine/math"
	"github.com/spaghettifunk/lve/engine/renderer"
	"github.com/spaghettifunk/lve/engine/renderer/components"
	"github.com/spaghettifunk/lve/engine/renderer/metadata"
)

/**
 * @brief The push constant block read by the simple shader. The vec3 is
 * padded so the block matches the std430 layout of the shader.
 */
type SimplePushConstantData struct {
	Transform math.Mat4
	Color     math.Vec3
	_         float32
}

/** @brief Size in bytes of SimplePushConstantData, 80. */
const SimplePushConstantSize = uint32(unsafe.Sizeof(SimplePushConstantData{}))

const pushConstantStages = metadata.ShaderStageVertex | metadata.ShaderStageFragment

func (p *SimplePushConstantData) bytes() []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(p)), SimplePushConstantSize)
}

// ShaderPaths locates the compiled SPIR-V of the simple shader.
type ShaderPaths struct {
	Vertex   string
	Fragment string
}

type RenderSystemConfig struct {
	RenderPass metadata.RenderPass
	// Extent of the swapchain at creation, baked in as the initial viewport.
	Extent  metadata.Extent2D
	Shaders ShaderPaths
}

// RenderSystem draws game objects with the simple shader: one pipeline,
// one push constant block per object.
type RenderSystem struct {
	backend  renderer.Backend
	loader   renderer.ShaderLoader
	config   RenderSystemConfig
	layout   metadata.PipelineLayout
	pipeline *renderer.Pipeline
}

func NewRenderSystem(backend renderer.Backend, loader renderer.ShaderLoader, config RenderSystemConfig) (*RenderSystem, error) {
	rs := &RenderSystem{
		backend: backend,
		loader:  loader,
		config:  config,
	}
	if err := rs.createPipelineLayout(); err != nil {
		return nil, err
	}
	pipeline, err := rs.createPipeline(config.RenderPass)
	if err != nil {
		rs.backend.DestroyPipelineLayout(rs.layout)
		return nil, err
	}
	rs.pipeline = pipeline
	return rs, nil
}

func (rs *RenderSystem) createPipelineLayout() error {
	layout, err := rs.backend.CreatePipelineLayout([]metadata.PushConstantRange{
		{Stages: pushConstantStages, Offset: 0, Size: SimplePushConstantSize},
	})
	if err != nil {
		err := &core.BuildRejectedError{Object: "pipeline layout", Err: err}
		core.LogError(err.Error())
		return err
	}
	rs.layout = layout
	return nil
}

func (rs *RenderSystem) createPipeline(renderPass metadata.RenderPass) (*renderer.Pipeline, error) {
	extent := rs.config.Extent
	if extent.IsZero() {
		extent = metadata.Extent2D{Width: 1, Height: 1}
	}
	cfg := renderer.DefaultPipelineConfig(extent.Width, extent.Height)
	cfg.EnableDynamicViewport()
	cfg.Layout = rs.layout
	cfg.RenderPass = renderPass
	return renderer.NewPipeline(rs.backend, rs.loader, rs.config.Shaders.Vertex, rs.config.Shaders.Fragment, cfg)
}

// RenderObjects records one draw per object that has a mesh, in the order
// given. With a camera each object is transformed by projection * view *
// model, otherwise by its model matrix alone. It returns the number of
// draws recorded.
func (rs *RenderSystem) RenderObjects(cb metadata.CommandBuffer, objects []*metadata.GameObject, camera *components.Camera) int {
	rs.pipeline.Bind(cb)

	var projectionView math.Mat4
	if camera != nil {
		projectionView = camera.GetProjectionView()
	}

	draws := 0
	for _, obj := range objects {
		if obj == nil || obj.Mesh == nil {
			continue
		}
		push := SimplePushConstantData{
			Transform: obj.ModelMatrix(),
			Color:     obj.Color,
		}
		if camera != nil {
			push.Transform = push.Transform.Mul(projectionView)
		}
		rs.backend.CmdPushConstants(cb, rs.layout, pushConstantStages, 0, push.bytes())

		mesh := obj.Mesh
		rs.backend.CmdBindVertexBuffer(cb, mesh.VertexBuffer)
		if mesh.IsIndexed() {
			rs.backend.CmdBindIndexBuffer(cb, mesh.IndexBuffer)
			rs.backend.CmdDrawIndexed(cb, mesh.IndexCount)
		} else {
			rs.backend.CmdDraw(cb, mesh.VertexCount)
		}
		draws++
	}
	return draws
}

// Reload rebuilds the pipeline against renderPass, rereading the shaders.
// On failure the current pipeline stays in use. The device must be idle.
func (rs *RenderSystem) Reload(renderPass metadata.RenderPass) error {
	pipeline, err := rs.createPipeline(renderPass)
	if err != nil {
		return fmt.Errorf("pipeline reload failed, keeping the previous one: %w", err)
	}
	rs.pipeline.Destroy()
	rs.pipeline = pipeline
	rs.config.RenderPass = renderPass
	core.LogInfo("render system pipeline rebuilt")
	return nil
}

// Destroy releases the pipeline, then its layout. Later calls do nothing.
func (rs *RenderSystem) Destroy() {
	if rs.pipeline != nil {
		rs.pipeline.Destroy()
		rs.pipeline = nil
	}
	if rs.layout != metadata.NullPipelineLayout {
		rs.backend.DestroyPipelineLayout(rs.layout)
		rs.layout = metadata.NullPipelineLayout
	}
}

func (rs *RenderSystem) PipelineLayout() metadata.PipelineLayout {
	return rs.layout
}
