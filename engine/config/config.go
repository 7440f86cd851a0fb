package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/lve/engine/core"
)

type WindowConfig struct {
	Title  string `toml:"title"`
	Width  uint32 `toml:"width"`
	Height uint32 `toml:"height"`
	PosX   int32  `toml:"pos_x"`
	PosY   int32  `toml:"pos_y"`
}

type RendererConfig struct {
	MaxFramesInFlight int `toml:"max_frames_in_flight"`
	// ClearColor is a CSS color name or a hex string such as "#030303".
	ClearColor string `toml:"clear_color"`
	Validation bool   `toml:"validation"`
}

type ShaderConfig struct {
	Vertex    string `toml:"vertex"`
	Fragment  string `toml:"fragment"`
	HotReload bool   `toml:"hot_reload"`
}

type CameraConfig struct {
	// FOV is the vertical field of view in degrees.
	FOV  float32 `toml:"fov"`
	Near float32 `toml:"near"`
	Far  float32 `toml:"far"`
}

type KeyMapping struct {
	MoveLeft     string `toml:"move_left"`
	MoveRight    string `toml:"move_right"`
	MoveForward  string `toml:"move_forward"`
	MoveBackward string `toml:"move_backward"`
	MoveUp       string `toml:"move_up"`
	MoveDown     string `toml:"move_down"`
	LookLeft     string `toml:"look_left"`
	LookRight    string `toml:"look_right"`
	LookUp       string `toml:"look_up"`
	LookDown     string `toml:"look_down"`
}

type ControlsConfig struct {
	MoveSpeed float32    `toml:"move_speed"`
	LookSpeed float32    `toml:"look_speed"`
	Keys      KeyMapping `toml:"keys"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type Config struct {
	Window   WindowConfig   `toml:"window"`
	Renderer RendererConfig `toml:"renderer"`
	Shaders  ShaderConfig   `toml:"shaders"`
	Camera   CameraConfig   `toml:"camera"`
	Controls ControlsConfig `toml:"controls"`
	Log      LogConfig      `toml:"log"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "Vulkan Engine",
			Width:  800,
			Height: 600,
			PosX:   100,
			PosY:   100,
		},
		Renderer: RendererConfig{
			MaxFramesInFlight: 2,
			ClearColor:        "#030303",
			Validation:        false,
		},
		Shaders: ShaderConfig{
			Vertex:    "shaders/simple_shader.vert.spv",
			Fragment:  "shaders/simple_shader.frag.spv",
			HotReload: false,
		},
		Camera: CameraConfig{
			FOV:  50,
			Near: 0.1,
			Far:  10,
		},
		Controls: ControlsConfig{
			MoveSpeed: 3,
			LookSpeed: 1,
			Keys: KeyMapping{
				MoveLeft:     "a",
				MoveRight:    "d",
				MoveForward:  "w",
				MoveBackward: "s",
				MoveUp:       "e",
				MoveDown:     "q",
				LookLeft:     "left",
				LookRight:    "right",
				LookUp:       "up",
				LookDown:     "down",
			},
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads the TOML file at path on top of the defaults. A missing file
// is not an error: the defaults are returned as they are.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		core.LogWarn("config file %s not found, using defaults", path)
		return Default(), nil
	}
	if err != nil {
		err = fmt.Errorf("failed to read config %s: %w", path, err)
		core.LogError(err.Error())
		return nil, err
	}
	return Parse(data)
}

// Parse decodes TOML on top of the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			err = fmt.Errorf("invalid config at line %d column %d: %w", row, col, err)
		}
		core.LogError(err.Error())
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Window.Width == 0 || c.Window.Height == 0 {
		return fmt.Errorf("window size must be non-zero, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Renderer.MaxFramesInFlight < 1 || c.Renderer.MaxFramesInFlight > 3 {
		return fmt.Errorf("max_frames_in_flight must be between 1 and 3, got %d", c.Renderer.MaxFramesInFlight)
	}
	if _, err := ParseColor(c.Renderer.ClearColor); err != nil {
		return err
	}
	if c.Shaders.Vertex == "" || c.Shaders.Fragment == "" {
		return errors.New("both vertex and fragment shader paths are required")
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return fmt.Errorf("camera planes must satisfy 0 < near < far, got near=%g far=%g", c.Camera.Near, c.Camera.Far)
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		return fmt.Errorf("camera fov must be within (0, 180) degrees, got %g", c.Camera.FOV)
	}
	if _, err := c.Controls.Keys.Resolve(); err != nil {
		return err
	}
	return nil
}

// ResolvedKeys is a KeyMapping translated to key codes.
type ResolvedKeys struct {
	MoveLeft, MoveRight, MoveForward, MoveBackward, MoveUp, MoveDown core.KeyCode
	LookLeft, LookRight, LookUp, LookDown                            core.KeyCode
}

func (k KeyMapping) Resolve() (ResolvedKeys, error) {
	var out ResolvedKeys
	bindings := []struct {
		name string
		dst  *core.KeyCode
	}{
		{k.MoveLeft, &out.MoveLeft},
		{k.MoveRight, &out.MoveRight},
		{k.MoveForward, &out.MoveForward},
		{k.MoveBackward, &out.MoveBackward},
		{k.MoveUp, &out.MoveUp},
		{k.MoveDown, &out.MoveDown},
		{k.LookLeft, &out.LookLeft},
		{k.LookRight, &out.LookRight},
		{k.LookUp, &out.LookUp},
		{k.LookDown, &out.LookDown},
	}
	for _, b := range bindings {
		code, err := core.KeyCodeFromName(b.name)
		if err != nil {
			return ResolvedKeys{}, fmt.Errorf("invalid key binding: %w", err)
		}
		*b.dst = code
	}
	return out, nil
}
