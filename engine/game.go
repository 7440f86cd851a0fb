package engine

import (
	"github.com/spaghettifunk/lve/engine/core"
	"github.com/spaghettifunk/lve/engine/systems"
)

// Game is what the engine runs. The engine fills SystemManager and Input
// before FnInitialize is called.
type Game struct {
	ApplicationConfig *ApplicationConfig
	SystemManager     *systems.SystemManager
	Input             core.KeyState
	State             interface{}
	FnInitialize      Initialize
	FnUpdate          Update
	FnOnResize        OnResize
	FnShutdown        Shutdown
}

type Initialize func() error

// Update runs once per frame before recording. aspect is the swapchain's
// width over height.
type Update func(deltaTime float64, aspect float32) error
type OnResize func(width uint32, height uint32) error

// Shutdown runs while the device is idle and before the systems are torn
// down, so the game can release what it holds.
type Shutdown func() error
