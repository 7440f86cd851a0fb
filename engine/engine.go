package engine

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/spaghettifunk/lve/engine/assets"
	"github.com/spaghettifunk/lve/engine/assets/loaders"
	"github.com/spaghettifunk/lve/engine/core"
	"github.com/spaghettifunk/lve/engine/platform"
	"github.com/spaghettifunk/lve/engine/renderer"
	"github.com/spaghettifunk/lve/engine/renderer/metadata"
	"github.com/spaghettifunk/lve/engine/renderer/vulkan"
	"github.com/spaghettifunk/lve/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

// shaderWatcher is the part of assets.ShaderWatcher the loop uses.
type shaderWatcher interface {
	Changed() []string
	Close() error
}

type Engine struct {
	currentStage  Stage
	gameInstance  *Game
	isRunning     atomic.Bool
	isSuspended   bool
	events        *core.EventBus
	platform      *platform.Platform
	backend       *vulkan.VulkanBackend
	renderer      *renderer.Renderer
	systemManager *systems.SystemManager
	watcher       shaderWatcher
	clock         *core.Clock
	metrics       *core.Metrics
	lastReport    float64
}

func New(g *Game) (*Engine, error) {
	if g == nil || g.ApplicationConfig == nil {
		return nil, errors.New("engine needs a game with an application config")
	}
	if g.FnInitialize == nil || g.FnUpdate == nil {
		return nil, errors.New("game must provide initialize and update functions")
	}
	events := core.NewEventBus()
	e := &Engine{
		currentStage: EngineStageUninitialized,
		gameInstance: g,
		events:       events,
		platform:     platform.New(events),
		clock:        core.NewClock(),
		metrics:      core.NewMetrics(),
	}
	return e, nil
}

// Initialize opens the window, brings up the device and the renderer, then
// hands over to the game's initialize function.
func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing
	config := e.gameInstance.ApplicationConfig

	if err := core.SetLogLevel(config.LogLevel); err != nil {
		return err
	}

	e.events.Register(core.EVENT_CODE_APPLICATION_QUIT, e.onEvent)
	e.events.Register(core.EVENT_CODE_KEY_PRESSED, e.onKey)
	e.events.Register(core.EVENT_CODE_RESIZED, e.onResized)

	if err := e.platform.Startup(config.windowConfig()); err != nil {
		return err
	}

	backend, err := vulkan.New(e.platform, vulkan.VulkanBackendConfig{
		ApplicationName: config.Name,
		Validation:      config.Validation,
	})
	if err != nil {
		return err
	}
	e.backend = backend

	r, err := renderer.NewRenderer(backend, e.platform, renderer.Config{
		MaxFramesInFlight: config.MaxFramesInFlight,
		ClearColor:        config.ClearColor,
	})
	if err != nil {
		return err
	}
	e.renderer = r

	sm, err := systems.NewSystemManager(backend, &loaders.BinaryLoader{}, r, config.Shaders)
	if err != nil {
		return err
	}
	e.systemManager = sm

	if config.HotReloadShaders {
		w, err := assets.NewShaderWatcher(config.Shaders.Vertex, config.Shaders.Fragment)
		if err != nil {
			// Hot reload is a convenience; run without it.
			core.LogWarn("shader hot reload disabled: %s", err)
		} else {
			e.watcher = w
		}
	}

	e.gameInstance.SystemManager = sm
	e.gameInstance.Input = e.platform
	if err := e.gameInstance.FnInitialize(); err != nil {
		return err
	}
	extent := r.Extent()
	if e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(extent.Width, extent.Height); err != nil {
			return err
		}
	}

	e.isRunning.Store(true)
	e.currentStage = EngineStageInitialized
	core.LogInfo("engine initialized")
	return nil
}

// Run loops until the window closes, Escape is pressed or Stop is called.
// It returns once the device has finished the last frame.
func (e *Engine) Run() error {
	core.Assert(e.currentStage == EngineStageInitialized, "Engine.Run", "engine is not initialized")
	e.currentStage = EngineStageRunning

	e.clock.Start()
	for e.isRunning.Load() {
		e.platform.PumpMessages()
		if e.platform.ShouldClose() {
			break
		}
		if e.isSuspended {
			e.platform.WaitEvents()
			continue
		}

		frameStart := e.platform.Time()
		delta := e.clock.Tick()
		if err := e.runFrame(delta); err != nil {
			core.LogError("frame failed, shutting down: %s", err)
			e.isRunning.Store(false)
			_ = e.renderer.WaitIdle()
			return err
		}
		e.metrics.Update(e.platform.Time() - frameStart)
		e.reportMetrics()
	}

	return e.renderer.WaitIdle()
}

// runFrame updates the game and records one frame of every object.
func (e *Engine) runFrame(delta float64) error {
	e.reloadShaders()

	if err := e.gameInstance.FnUpdate(delta, e.renderer.AspectRatio()); err != nil {
		return fmt.Errorf("game update failed: %w", err)
	}

	cb, err := e.renderer.BeginFrame()
	if err != nil {
		return err
	}
	if cb == metadata.NullCommandBuffer {
		// The swapchain was rebuilt, try again next iteration.
		return nil
	}

	sm := e.systemManager
	e.renderer.BeginSwapChainRenderPass(cb)
	sm.RenderSystem().RenderObjects(cb, sm.ObjectStore().Objects(), sm.CameraSystem().GetDefault())
	e.renderer.EndSwapChainRenderPass(cb)

	return e.renderer.EndFrame()
}

// reloadShaders rebuilds the pipeline when a watched shader changed. The
// previous pipeline stays when the new one can't be built.
func (e *Engine) reloadShaders() {
	if e.watcher == nil {
		return
	}
	changed := e.watcher.Changed()
	if len(changed) == 0 {
		return
	}
	core.LogInfo("shaders changed: %v", changed)
	if err := e.renderer.WaitIdle(); err != nil {
		core.LogError("failed to wait for device before shader reload: %s", err)
		return
	}
	if err := e.systemManager.RenderSystem().Reload(e.renderer.RenderPass()); err != nil {
		core.LogError(err.Error())
		return
	}
	for _, path := range changed {
		e.events.Fire(core.EventContext{Code: core.EVENT_CODE_SHADER_CHANGED, Path: path})
	}
}

func (e *Engine) reportMetrics() {
	e.clock.Update()
	if e.clock.Elapsed()-e.lastReport < 1 {
		return
	}
	e.lastReport = e.clock.Elapsed()
	fps, frameTime := e.metrics.Frame()
	core.LogDebug("FPS: %5.1f (%4.1fms)", fps, frameTime)
}

// Stop ends the loop after the current frame. Safe to call from a signal
// handler goroutine.
func (e *Engine) Stop() {
	e.isRunning.Store(false)
	if e.platform.Window != nil {
		e.platform.Wake()
	}
}

// Shutdown tears everything down in reverse creation order. It can be
// called after a failed Initialize.
func (e *Engine) Shutdown() error {
	e.currentStage = EngineStageShuttingDown
	e.isRunning.Store(false)

	var errs []error
	if e.renderer != nil {
		errs = append(errs, e.renderer.WaitIdle())
	}
	if e.systemManager != nil && e.gameInstance.FnShutdown != nil {
		errs = append(errs, e.gameInstance.FnShutdown())
	}
	if e.watcher != nil {
		errs = append(errs, e.watcher.Close())
		e.watcher = nil
	}
	if e.systemManager != nil {
		errs = append(errs, e.systemManager.Shutdown())
		e.systemManager = nil
	}
	if e.renderer != nil {
		e.renderer.Shutdown()
		e.renderer = nil
	}
	if e.backend != nil {
		e.backend.Shutdown()
		e.backend = nil
	}
	if e.platform.Window != nil {
		errs = append(errs, e.platform.Shutdown())
	}
	e.events.Shutdown()
	core.LogInfo("engine shut down")
	return errors.Join(errs...)
}

func (e *Engine) onEvent(context core.EventContext) bool {
	if context.Code == core.EVENT_CODE_APPLICATION_QUIT {
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
		e.isRunning.Store(false)
		return true
	}
	return false
}

func (e *Engine) onKey(context core.EventContext) bool {
	if context.KeyCode == core.KEY_ESCAPE {
		// NOTE: Technically firing an event to itself, but there may be other listeners.
		e.events.Fire(core.EventContext{Code: core.EVENT_CODE_APPLICATION_QUIT})
		// Block anything else from processing this.
		return true
	}
	return false
}

func (e *Engine) onResized(context core.EventContext) bool {
	// Handle minimization
	if context.Width == 0 || context.Height == 0 {
		if !e.isSuspended {
			core.LogInfo("Window minimized, suspending application.")
			e.isSuspended = true
		}
		return false
	}
	if e.isSuspended {
		core.LogInfo("Window restored, resuming application.")
		e.isSuspended = false
	}
	core.LogDebug("Window resize: %d, %d", context.Width, context.Height)
	if e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(context.Width, context.Height); err != nil {
			core.LogError(err.Error())
		}
	}
	return false
}
