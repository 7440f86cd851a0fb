package platform

import (
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/spaghettifunk/lve/engine/config"
	"github.com/spaghettifunk/lve/engine/core"
	"github.com/spaghettifunk/lve/engine/renderer/metadata"
)

func init() {
	// GLFW event handling must run on the main OS thread
	runtime.LockOSThread()
}

// Platform owns the GLFW window. It serves as the renderer's window, the
// Vulkan surface provider and the keyboard the controllers read.
type Platform struct {
	Window *glfw.Window

	events    *core.EventBus
	keyboard  *core.Keyboard
	resized   bool
	startTime float64
}

func New(events *core.EventBus) *Platform {
	return &Platform{
		events:   events,
		keyboard: core.NewKeyboard(),
	}
}

// Startup opens a resizable window without a client API, as Vulkan needs.
func (p *Platform) Startup(cfg config.WindowConfig) error {
	if err := glfw.Init(); err != nil {
		core.LogError("failed to initialize glfw: %s", err)
		return err
	}
	if !glfw.VulkanSupported() {
		glfw.Terminate()
		err := errVulkanUnsupported
		core.LogError(err.Error())
		return err
	}

	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI) // Required for Vulkan.

	window, err := glfw.CreateWindow(int(cfg.Width), int(cfg.Height), cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		core.LogError("failed to create window: %s", err)
		return err
	}
	p.Window = window

	p.Window.SetKeyCallback(p.keyCallback)
	p.Window.SetFramebufferSizeCallback(p.framebufferSizeCallback)
	p.Window.SetPos(int(cfg.PosX), int(cfg.PosY))
	p.Window.Show()

	p.startTime = glfw.GetTime()
	return nil
}

func (p *Platform) Shutdown() error {
	if p.Window != nil {
		p.Window.Destroy()
		p.Window = nil
	}
	glfw.Terminate()
	return nil
}

// PumpMessages rolls the keyboard state over and processes pending events.
func (p *Platform) PumpMessages() {
	p.keyboard.Update()
	glfw.PollEvents()
}

func (p *Platform) ShouldClose() bool {
	return p.Window.ShouldClose()
}

// Close asks the window to close on the next ShouldClose check.
func (p *Platform) Close() {
	p.Window.SetShouldClose(true)
}

// Time is the number of seconds since Startup.
func (p *Platform) Time() float64 {
	return glfw.GetTime() - p.startTime
}

func (p *Platform) Extent() metadata.Extent2D {
	w, h := p.Window.GetFramebufferSize()
	return metadata.Extent2D{Width: uint32(max(w, 0)), Height: uint32(max(h, 0))}
}

func (p *Platform) WaitEvents() {
	glfw.WaitEvents()
}

// Wake unblocks a pending WaitEvents. It may be called from any goroutine.
func (p *Platform) Wake() {
	glfw.PostEmptyEvent()
}

func (p *Platform) WasResized() bool {
	return p.resized
}

func (p *Platform) ResetResized() {
	p.resized = false
}

func (p *Platform) IsKeyDown(key core.KeyCode) bool {
	return p.keyboard.IsKeyDown(key)
}

func (p *Platform) WasKeyDown(key core.KeyCode) bool {
	return p.keyboard.WasKeyDown(key)
}

func (p *Platform) RequiredInstanceExtensions() []string {
	return p.Window.GetRequiredInstanceExtensions()
}

func (p *Platform) CreateWindowSurface(instance interface{}) (uintptr, error) {
	return p.Window.CreateWindowSurface(instance, nil)
}

func (p *Platform) keyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action == glfw.Repeat {
		return
	}
	code, ok := translateKey(key)
	if !ok {
		return
	}
	pressed := action == glfw.Press
	if !p.keyboard.ProcessKey(code, pressed) {
		return
	}
	ev := core.EVENT_CODE_KEY_RELEASED
	if pressed {
		ev = core.EVENT_CODE_KEY_PRESSED
	}
	p.events.Fire(core.EventContext{Code: ev, KeyCode: code})
}

func (p *Platform) framebufferSizeCallback(w *glfw.Window, width, height int) {
	p.resized = true
	p.events.Fire(core.EventContext{
		Code:   core.EVENT_CODE_RESIZED,
		Width:  uint32(max(width, 0)),
		Height: uint32(max(height, 0)),
	})
}
