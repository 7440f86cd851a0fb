package engine

import (
	"github.com/spaghettifunk/lve/engine/config"
	"github.com/spaghettifunk/lve/engine/systems"
)

type ApplicationConfig struct {
	// The application name used in windowing and reported to the driver.
	Name string
	// Window starting position x axis, if applicable.
	StartPosX int32
	// Window starting position y axis, if applicable.
	StartPosY int32
	// Window starting width.
	StartWidth uint32
	// Window starting height.
	StartHeight uint32
	LogLevel    string

	MaxFramesInFlight int
	ClearColor        [4]float32
	Validation        bool

	Shaders          systems.ShaderPaths
	HotReloadShaders bool
}

// NewApplicationConfig flattens the loaded configuration into what the
// engine needs at startup.
func NewApplicationConfig(cfg *config.Config) (*ApplicationConfig, error) {
	clearColor, err := cfg.Renderer.ClearColorRGBA()
	if err != nil {
		return nil, err
	}
	return &ApplicationConfig{
		Name:              cfg.Window.Title,
		StartPosX:         cfg.Window.PosX,
		StartPosY:         cfg.Window.PosY,
		StartWidth:        cfg.Window.Width,
		StartHeight:       cfg.Window.Height,
		LogLevel:          cfg.Log.Level,
		MaxFramesInFlight: cfg.Renderer.MaxFramesInFlight,
		ClearColor:        clearColor,
		Validation:        cfg.Renderer.Validation,
		Shaders: systems.ShaderPaths{
			Vertex:   cfg.Shaders.Vertex,
			Fragment: cfg.Shaders.Fragment,
		},
		HotReloadShaders: cfg.Shaders.HotReload,
	}, nil
}

func (ac *ApplicationConfig) windowConfig() config.WindowConfig {
	return config.WindowConfig{
		Title:  ac.Name,
		Width:  ac.StartWidth,
		Height: ac.StartHeight,
		PosX:   ac.StartPosX,
		PosY:   ac.StartPosY,
	}
}
