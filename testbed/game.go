package testbed

import (
	"fmt"

	"github.com/spaghettifunk/lve/engine"
	"github.com/spaghettifunk/lve/engine/config"
	"github.com/spaghettifunk/lve/engine/core"
	"github.com/spaghettifunk/lve/engine/math"
	"github.com/spaghettifunk/lve/engine/renderer/components"
	"github.com/spaghettifunk/lve/engine/renderer/metadata"
	"github.com/spaghettifunk/lve/engine/systems"
)

type TestGame struct {
	*engine.Game
}

type gameState struct {
	WorldCamera *components.Camera
	viewer      *metadata.GameObject
	controller  *systems.KeyboardMovementController

	fov  float32
	near float32
	far  float32

	width  uint32
	height uint32
}

func NewTestGame(cfg *config.Config) (*TestGame, error) {
	appConfig, err := engine.NewApplicationConfig(cfg)
	if err != nil {
		return nil, err
	}
	controller, err := systems.NewKeyboardMovementControllerFromConfig(cfg.Controls)
	if err != nil {
		return nil, err
	}

	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: appConfig,
			State: &gameState{
				viewer: &metadata.GameObject{
					Transform: math.NewTransformComponent(),
				},
				controller: controller,
				fov:        math.DegToRad(cfg.Camera.FOV),
				near:       cfg.Camera.Near,
				far:        cfg.Camera.Far,
			},
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnOnResize = tg.OnResize
	tg.FnShutdown = tg.Shutdown

	return tg, nil
}

func (g *TestGame) Initialize() error {
	core.LogDebug("TestGame Initialize fn....")

	if g.SystemManager == nil {
		return fmt.Errorf("the engine is not yet initialized with all the system managers ")
	}

	state := g.State.(*gameState)
	state.WorldCamera = g.SystemManager.CameraSystem().GetDefault()
	state.WorldCamera.SetViewTarget(
		math.NewVec3(-1, -2, 2),
		math.NewVec3(0, 0, 2.5),
		math.NewVec3(0, -1, 0),
	)

	return g.loadGameObjects()
}

// loadGameObjects uploads the built-in meshes and places one object per
// mesh in front of the viewer.
func (g *TestGame) loadGameObjects() error {
	meshes := g.SystemManager.MeshSystem()
	store := g.SystemManager.ObjectStore()

	place := func(name string, vertices []metadata.Vertex, indices []uint32, translation math.Vec3, scale float32) error {
		mesh, err := meshes.Upload(name, vertices, indices)
		if err != nil {
			return err
		}
		// The store holds its own reference.
		defer mesh.Release()

		obj := store.Create()
		store.SetMesh(obj, mesh)
		obj.Transform.Translation = translation
		obj.Transform.Scale = math.NewVec3(scale, scale, scale)
		return nil
	}

	if err := place("face", systems.Face(math.NewVec3Zero()), nil, math.NewVec3(0, 0, 2.5), .5); err != nil {
		return err
	}
	cubeVertices, cubeIndices := systems.CubeIndexed(math.NewVec3Zero())
	if err := place("cube", cubeVertices, cubeIndices, math.NewVec3(-1.5, 0, 2.5), .3); err != nil {
		return err
	}
	if err := place("triangle", systems.Triangle(math.NewVec3(.8, .2, .2)), nil, math.NewVec3(1.5, 0, 2.5), .4); err != nil {
		return err
	}

	core.LogInfo("loaded %d game objects", store.Len())
	return nil
}

func (g *TestGame) Update(deltaTime float64, aspect float32) error {
	state := g.State.(*gameState)

	state.controller.MoveInPlaneXZ(g.Input, float32(deltaTime), state.viewer)
	state.WorldCamera.SetViewYXZ(state.viewer.Transform.Translation, state.viewer.Transform.Rotation)
	state.WorldCamera.SetPerspectiveProjection(state.fov, aspect, state.near, state.far)

	return nil
}

func (g *TestGame) OnResize(width uint32, height uint32) error {
	state := g.State.(*gameState)

	state.width = width
	state.height = height

	return nil
}

func (g *TestGame) Shutdown() error {
	removed := g.SystemManager.ObjectStore().Len()
	g.SystemManager.ObjectStore().Clear()
	core.LogDebug("released %d game objects", removed)
	return nil
}
