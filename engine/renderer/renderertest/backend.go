// Package renderertest provides in-memory stand-ins for the graphics device
// and the window so the frame lifecycle can be exercised without a GPU.
package renderertest

import (
	"errors"
	"fmt"

	"github.com/spaghettifunk/lve/engine/renderer/metadata"
)

// ErrInjected is returned by operations configured to fail with Fail.
var ErrInjected = errors.New("injected failure")

// Draw records one draw call together with the state bound when it was issued.
type Draw struct {
	CommandBuffer metadata.CommandBuffer
	Pipeline      metadata.Pipeline
	VertexBuffer  metadata.Buffer
	IndexBuffer   metadata.Buffer
	Count         uint32
	Indexed       bool
	// PushConstants is a copy of the last push constant block before the draw.
	PushConstants []byte
}

// SwapchainRequest records the arguments of one CreateSwapchain call.
type SwapchainRequest struct {
	Extent   metadata.Extent2D
	Previous metadata.Swapchain
}

type commandState struct {
	recording    bool
	inRenderPass bool
	pipeline     metadata.Pipeline
	vertexBuffer metadata.Buffer
	indexBuffer  metadata.Buffer
	push         []byte
}

// Backend is a fake graphics device. Handles are unique, every live object
// is tracked by kind, and common Vulkan usage errors are reported as errors.
type Backend struct {
	ImageCount    uint32
	MinImageCount uint32
	ColorFormat   metadata.Format
	DepthFormat   metadata.Format

	// AcquireStatus and PresentStatus are consumed one per call; when empty
	// the operation reports SurfaceOK.
	AcquireStatus []metadata.SurfaceStatus
	PresentStatus []metadata.SurfaceStatus

	Swapchains    []SwapchainRequest
	Draws         []Draw
	Viewports     []metadata.Viewport
	Scissors      []metadata.Rect2D
	ClearValues   []metadata.ClearValues
	Presented     []uint32
	Submits       int
	WaitIdleCalls int
	ShaderModules [][]byte
	Pipelines     []metadata.PipelineConfig
	PushRanges    [][]metadata.PushConstantRange

	next      uint64
	live      map[uint64]string
	failures  map[string]error
	nextImage uint32
	fences    map[metadata.Fence]bool
	commands  map[metadata.CommandBuffer]*commandState
	buffers   map[metadata.Buffer][]byte
}

func NewBackend() *Backend {
	return &Backend{
		ImageCount:    3,
		MinImageCount: 2,
		ColorFormat:   metadata.FormatB8G8R8A8Unorm,
		DepthFormat:   metadata.FormatD32Sfloat,
		live:          make(map[uint64]string),
		failures:      make(map[string]error),
		fences:        make(map[metadata.Fence]bool),
		commands:      make(map[metadata.CommandBuffer]*commandState),
		buffers:       make(map[metadata.Buffer][]byte),
	}
}

// Fail makes every later call of the named operation return err. Operation
// names are the method names, e.g. "CreateGraphicsPipeline". A nil err
// clears the failure.
func (b *Backend) Fail(op string, err error) {
	if err == nil {
		delete(b.failures, op)
		return
	}
	b.failures[op] = err
}

// Live returns how many objects of the given kind are alive. An empty
// kind counts everything.
func (b *Backend) Live(kind string) int {
	n := 0
	for _, k := range b.live {
		if kind == "" || k == kind {
			n++
		}
	}
	return n
}

// BufferData returns the bytes uploaded to buf.
func (b *Backend) BufferData(buf metadata.Buffer) []byte {
	return b.buffers[buf]
}

func (b *Backend) alloc(kind string) uint64 {
	b.next++
	b.live[b.next] = kind
	return b.next
}

func (b *Backend) free(kind string, h uint64) {
	if h == 0 {
		return
	}
	if got, ok := b.live[h]; !ok || got != kind {
		panic(fmt.Sprintf("renderertest: destroying unknown %s %d", kind, h))
	}
	delete(b.live, h)
}

func (b *Backend) failure(op string) error {
	return b.failures[op]
}

func (b *Backend) command(cb metadata.CommandBuffer) *commandState {
	st, ok := b.commands[cb]
	if !ok {
		panic(fmt.Sprintf("renderertest: unknown command buffer %d", cb))
	}
	return st
}

func (b *Backend) CreateSwapchain(extent metadata.Extent2D, previous metadata.Swapchain) (metadata.SwapchainInfo, error) {
	if err := b.failure("CreateSwapchain"); err != nil {
		return metadata.SwapchainInfo{}, err
	}
	b.Swapchains = append(b.Swapchains, SwapchainRequest{Extent: extent, Previous: previous})
	info := metadata.SwapchainInfo{
		Handle:        metadata.Swapchain(b.alloc("swapchain")),
		Extent:        extent,
		ColorFormat:   b.ColorFormat,
		MinImageCount: b.MinImageCount,
	}
	for i := uint32(0); i < b.ImageCount; i++ {
		info.Views = append(info.Views, metadata.ImageView(b.alloc("imageview")))
	}
	b.nextImage = 0
	return info, nil
}

func (b *Backend) DestroySwapchain(info metadata.SwapchainInfo) {
	for _, v := range info.Views {
		b.free("imageview", uint64(v))
	}
	b.free("swapchain", uint64(info.Handle))
}

func (b *Backend) CreateDepthAttachment(extent metadata.Extent2D) (metadata.DepthAttachment, error) {
	if err := b.failure("CreateDepthAttachment"); err != nil {
		return metadata.DepthAttachment{}, err
	}
	return metadata.DepthAttachment{
		Image:  metadata.Image(b.alloc("image")),
		View:   metadata.ImageView(b.alloc("imageview")),
		Format: b.DepthFormat,
	}, nil
}

func (b *Backend) DestroyDepthAttachment(depth metadata.DepthAttachment) {
	b.free("imageview", uint64(depth.View))
	b.free("image", uint64(depth.Image))
}

func (b *Backend) CreateRenderPass(colorFormat, depthFormat metadata.Format) (metadata.RenderPass, error) {
	if err := b.failure("CreateRenderPass"); err != nil {
		return metadata.NullRenderPass, err
	}
	return metadata.RenderPass(b.alloc("renderpass")), nil
}

func (b *Backend) DestroyRenderPass(pass metadata.RenderPass) {
	b.free("renderpass", uint64(pass))
}

func (b *Backend) CreateFramebuffer(pass metadata.RenderPass, attachments []metadata.ImageView, extent metadata.Extent2D) (metadata.Framebuffer, error) {
	if err := b.failure("CreateFramebuffer"); err != nil {
		return metadata.NullFramebuffer, err
	}
	if pass == metadata.NullRenderPass || len(attachments) != 2 {
		return metadata.NullFramebuffer, fmt.Errorf("framebuffer needs a render pass and 2 attachments, got %d", len(attachments))
	}
	return metadata.Framebuffer(b.alloc("framebuffer")), nil
}

func (b *Backend) DestroyFramebuffer(fb metadata.Framebuffer) {
	b.free("framebuffer", uint64(fb))
}

func (b *Backend) AcquireNextImage(sc metadata.Swapchain, sem metadata.Semaphore) (uint32, metadata.SurfaceStatus, error) {
	if err := b.failure("AcquireNextImage"); err != nil {
		return 0, metadata.SurfaceOK, err
	}
	status := metadata.SurfaceOK
	if len(b.AcquireStatus) > 0 {
		status, b.AcquireStatus = b.AcquireStatus[0], b.AcquireStatus[1:]
	}
	if status == metadata.SurfaceOutOfDate {
		return 0, status, nil
	}
	idx := b.nextImage % b.ImageCount
	b.nextImage++
	return idx, status, nil
}

func (b *Backend) Present(sc metadata.Swapchain, imageIndex uint32, wait metadata.Semaphore) (metadata.SurfaceStatus, error) {
	if err := b.failure("Present"); err != nil {
		return metadata.SurfaceOK, err
	}
	b.Presented = append(b.Presented, imageIndex)
	status := metadata.SurfaceOK
	if len(b.PresentStatus) > 0 {
		status, b.PresentStatus = b.PresentStatus[0], b.PresentStatus[1:]
	}
	return status, nil
}

func (b *Backend) CreateSemaphore() (metadata.Semaphore, error) {
	if err := b.failure("CreateSemaphore"); err != nil {
		return metadata.NullSemaphore, err
	}
	return metadata.Semaphore(b.alloc("semaphore")), nil
}

func (b *Backend) DestroySemaphore(sem metadata.Semaphore) {
	b.free("semaphore", uint64(sem))
}

func (b *Backend) CreateFence(signaled bool) (metadata.Fence, error) {
	if err := b.failure("CreateFence"); err != nil {
		return metadata.NullFence, err
	}
	f := metadata.Fence(b.alloc("fence"))
	b.fences[f] = signaled
	return f, nil
}

func (b *Backend) DestroyFence(fence metadata.Fence) {
	b.free("fence", uint64(fence))
	delete(b.fences, fence)
}

// WaitForFence fails instead of blocking forever on a fence nothing will signal.
func (b *Backend) WaitForFence(fence metadata.Fence) error {
	signaled, ok := b.fences[fence]
	if !ok {
		return fmt.Errorf("wait on unknown fence %d", fence)
	}
	if !signaled {
		return fmt.Errorf("wait on fence %d would deadlock: nothing signals it", fence)
	}
	return nil
}

func (b *Backend) ResetFence(fence metadata.Fence) error {
	if _, ok := b.fences[fence]; !ok {
		return fmt.Errorf("reset of unknown fence %d", fence)
	}
	b.fences[fence] = false
	return nil
}

func (b *Backend) Submit(cb metadata.CommandBuffer, wait, signal metadata.Semaphore, fence metadata.Fence) error {
	if err := b.failure("Submit"); err != nil {
		return err
	}
	st := b.command(cb)
	if st.recording {
		return fmt.Errorf("command buffer %d submitted while still recording", cb)
	}
	if b.fences[fence] {
		return fmt.Errorf("fence %d submitted while signaled", fence)
	}
	b.fences[fence] = true
	b.Submits++
	return nil
}

func (b *Backend) AllocateCommandBuffers(count int) ([]metadata.CommandBuffer, error) {
	if err := b.failure("AllocateCommandBuffers"); err != nil {
		return nil, err
	}
	cbs := make([]metadata.CommandBuffer, count)
	for i := range cbs {
		cbs[i] = metadata.CommandBuffer(b.alloc("commandbuffer"))
		b.commands[cbs[i]] = &commandState{}
	}
	return cbs, nil
}

func (b *Backend) FreeCommandBuffers(cbs []metadata.CommandBuffer) {
	for _, cb := range cbs {
		b.free("commandbuffer", uint64(cb))
		delete(b.commands, cb)
	}
}

func (b *Backend) BeginCommandBuffer(cb metadata.CommandBuffer) error {
	if err := b.failure("BeginCommandBuffer"); err != nil {
		return err
	}
	st := b.command(cb)
	if st.recording {
		return fmt.Errorf("command buffer %d is already recording", cb)
	}
	*st = commandState{recording: true}
	return nil
}

func (b *Backend) EndCommandBuffer(cb metadata.CommandBuffer) error {
	if err := b.failure("EndCommandBuffer"); err != nil {
		return err
	}
	st := b.command(cb)
	if !st.recording || st.inRenderPass {
		return fmt.Errorf("command buffer %d ended in an invalid state", cb)
	}
	st.recording = false
	return nil
}

func (b *Backend) CmdBeginRenderPass(cb metadata.CommandBuffer, pass metadata.RenderPass, fb metadata.Framebuffer, area metadata.Rect2D, clear metadata.ClearValues) {
	st := b.command(cb)
	if !st.recording || st.inRenderPass {
		panic("renderertest: render pass begun outside recording or nested")
	}
	st.inRenderPass = true
	b.ClearValues = append(b.ClearValues, clear)
}

func (b *Backend) CmdEndRenderPass(cb metadata.CommandBuffer) {
	st := b.command(cb)
	if !st.inRenderPass {
		panic("renderertest: render pass ended without being begun")
	}
	st.inRenderPass = false
}

func (b *Backend) CmdSetViewport(cb metadata.CommandBuffer, viewport metadata.Viewport) {
	b.Viewports = append(b.Viewports, viewport)
}

func (b *Backend) CmdSetScissor(cb metadata.CommandBuffer, scissor metadata.Rect2D) {
	b.Scissors = append(b.Scissors, scissor)
}

func (b *Backend) CmdBindPipeline(cb metadata.CommandBuffer, pipeline metadata.Pipeline) {
	b.command(cb).pipeline = pipeline
}

func (b *Backend) CmdPushConstants(cb metadata.CommandBuffer, layout metadata.PipelineLayout, stages metadata.ShaderStage, offset uint32, data []byte) {
	b.command(cb).push = append([]byte(nil), data...)
}

func (b *Backend) CmdBindVertexBuffer(cb metadata.CommandBuffer, buffer metadata.Buffer) {
	b.command(cb).vertexBuffer = buffer
}

func (b *Backend) CmdBindIndexBuffer(cb metadata.CommandBuffer, buffer metadata.Buffer) {
	b.command(cb).indexBuffer = buffer
}

func (b *Backend) CmdDraw(cb metadata.CommandBuffer, vertexCount uint32) {
	b.recordDraw(cb, vertexCount, false)
}

func (b *Backend) CmdDrawIndexed(cb metadata.CommandBuffer, indexCount uint32) {
	b.recordDraw(cb, indexCount, true)
}

func (b *Backend) recordDraw(cb metadata.CommandBuffer, count uint32, indexed bool) {
	st := b.command(cb)
	if !st.inRenderPass {
		panic("renderertest: draw outside of a render pass")
	}
	d := Draw{
		CommandBuffer: cb,
		Pipeline:      st.pipeline,
		VertexBuffer:  st.vertexBuffer,
		Count:         count,
		Indexed:       indexed,
		PushConstants: st.push,
	}
	if indexed {
		d.IndexBuffer = st.indexBuffer
	}
	b.Draws = append(b.Draws, d)
}

func (b *Backend) CreateShaderModule(code []byte) (metadata.ShaderModule, error) {
	if err := b.failure("CreateShaderModule"); err != nil {
		return metadata.NullShaderModule, err
	}
	if len(code) == 0 || len(code)%4 != 0 {
		return metadata.NullShaderModule, fmt.Errorf("shader code size %d is not a multiple of 4", len(code))
	}
	b.ShaderModules = append(b.ShaderModules, code)
	return metadata.ShaderModule(b.alloc("shadermodule")), nil
}

func (b *Backend) DestroyShaderModule(module metadata.ShaderModule) {
	b.free("shadermodule", uint64(module))
}

func (b *Backend) CreatePipelineLayout(pushConstants []metadata.PushConstantRange) (metadata.PipelineLayout, error) {
	if err := b.failure("CreatePipelineLayout"); err != nil {
		return metadata.NullPipelineLayout, err
	}
	b.PushRanges = append(b.PushRanges, pushConstants)
	return metadata.PipelineLayout(b.alloc("pipelinelayout")), nil
}

func (b *Backend) DestroyPipelineLayout(layout metadata.PipelineLayout) {
	b.free("pipelinelayout", uint64(layout))
}

func (b *Backend) CreateGraphicsPipeline(stages []metadata.ShaderStageConfig, config *metadata.PipelineConfig) (metadata.Pipeline, error) {
	if err := b.failure("CreateGraphicsPipeline"); err != nil {
		return metadata.NullPipeline, err
	}
	for _, s := range stages {
		if _, ok := b.live[uint64(s.Module)]; !ok {
			return metadata.NullPipeline, fmt.Errorf("pipeline stage %s uses a dead shader module", s.Stage)
		}
	}
	b.Pipelines = append(b.Pipelines, *config)
	return metadata.Pipeline(b.alloc("pipeline")), nil
}

func (b *Backend) DestroyPipeline(pipeline metadata.Pipeline) {
	b.free("pipeline", uint64(pipeline))
}

func (b *Backend) CreateVertexBuffer(data []byte) (metadata.Buffer, error) {
	return b.createBuffer("CreateVertexBuffer", data)
}

func (b *Backend) CreateIndexBuffer(data []byte) (metadata.Buffer, error) {
	return b.createBuffer("CreateIndexBuffer", data)
}

func (b *Backend) createBuffer(op string, data []byte) (metadata.Buffer, error) {
	if err := b.failure(op); err != nil {
		return metadata.NullBuffer, err
	}
	if len(data) == 0 {
		return metadata.NullBuffer, errors.New("buffer size must be greater than zero")
	}
	buf := metadata.Buffer(b.alloc("buffer"))
	b.buffers[buf] = append([]byte(nil), data...)
	return buf, nil
}

func (b *Backend) DestroyBuffer(buffer metadata.Buffer) {
	b.free("buffer", uint64(buffer))
	delete(b.buffers, buffer)
}

func (b *Backend) WaitIdle() error {
	b.WaitIdleCalls++
	return b.failure("WaitIdle")
}
