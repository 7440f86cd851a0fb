package systems

import (
	"github.com/spaghettifunk/lve/engine/config"
	"github.com/spaghettifunk/lve/engine/core"
	"github.com/spaghettifunk/lve/engine/math"
	"github.com/spaghettifunk/lve/engine/renderer/metadata"
)

// Pitch is kept inside +-1.5 rad so the view never flips over the poles.
const maxPitch float32 = 1.5

// KeyboardMovementController moves a game object, usually the viewer,
// with FPS-style controls: translation in the XZ plane plus up and down,
// yaw and pitch from the look keys.
type KeyboardMovementController struct {
	Keys      config.ResolvedKeys
	MoveSpeed float32
	LookSpeed float32
}

// NewKeyboardMovementController uses WASD to move, E and Q to rise and
// sink, and the arrow keys to look around.
func NewKeyboardMovementController() *KeyboardMovementController {
	return &KeyboardMovementController{
		Keys: config.ResolvedKeys{
			MoveLeft:     core.KEY_A,
			MoveRight:    core.KEY_D,
			MoveForward:  core.KEY_W,
			MoveBackward: core.KEY_S,
			MoveUp:       core.KEY_E,
			MoveDown:     core.KEY_Q,
			LookLeft:     core.KEY_LEFT,
			LookRight:    core.KEY_RIGHT,
			LookUp:       core.KEY_UP,
			LookDown:     core.KEY_DOWN,
		},
		MoveSpeed: 3,
		LookSpeed: 1,
	}
}

// NewKeyboardMovementControllerFromConfig applies the configured bindings
// and speeds.
func NewKeyboardMovementControllerFromConfig(cfg config.ControlsConfig) (*KeyboardMovementController, error) {
	keys, err := cfg.Keys.Resolve()
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	return &KeyboardMovementController{
		Keys:      keys,
		MoveSpeed: cfg.MoveSpeed,
		LookSpeed: cfg.LookSpeed,
	}, nil
}

func axis(keys core.KeyState, positive, negative core.KeyCode) float32 {
	var v float32
	if keys.IsKeyDown(positive) {
		v++
	}
	if keys.IsKeyDown(negative) {
		v--
	}
	return v
}

// MoveInPlaneXZ applies one frame of input to obj. dt is the frame time in
// seconds.
func (c *KeyboardMovementController) MoveInPlaneXZ(keys core.KeyState, dt float32, obj *metadata.GameObject) {
	rotate := math.NewVec3(
		axis(keys, c.Keys.LookUp, c.Keys.LookDown),
		axis(keys, c.Keys.LookRight, c.Keys.LookLeft),
		0,
	)
	if rotate.LengthSquared() > math.K_FLOAT_EPSILON {
		obj.Transform.Rotation = obj.Transform.Rotation.Add(rotate.Normalized().MulScalar(c.LookSpeed * dt))
	}
	obj.Transform.Rotation.X = math.Clamp(obj.Transform.Rotation.X, -maxPitch, maxPitch)
	obj.Transform.Rotation.Y = math.WrapAngle(obj.Transform.Rotation.Y)

	yaw := obj.Transform.Rotation.Y
	forward := math.NewVec3(math.Sin(yaw), 0, math.Cos(yaw))
	right := math.NewVec3(forward.Z, 0, -forward.X)
	up := math.NewVec3(0, -1, 0)

	move := forward.MulScalar(axis(keys, c.Keys.MoveForward, c.Keys.MoveBackward)).
		Add(right.MulScalar(axis(keys, c.Keys.MoveRight, c.Keys.MoveLeft))).
		Add(up.MulScalar(axis(keys, c.Keys.MoveUp, c.Keys.MoveDown)))
	if move.LengthSquared() > math.K_FLOAT_EPSILON {
		obj.Transform.Translation = obj.Transform.Translation.Add(move.Normalized().MulScalar(c.MoveSpeed * dt))
	}
}
