package systems

import (
	"errors"

	"github.com/spaghettifunk/lve/engine/core"
	"github.com/spaghettifunk/lve/engine/renderer"
	"github.com/spaghettifunk/lve/engine/renderer/metadata"
)

type SystemManager struct {
	cameraSystem *CameraSystem
	meshSystem   *MeshSystem
	objectStore  *ObjectStore
	renderSystem *RenderSystem
}

// NewSystemManager builds the systems that sit on top of the renderer. The
// render system follows the renderer's render pass: when a swapchain
// rebuild produces an incompatible one, the pipeline is rebuilt against it.
func NewSystemManager(backend renderer.Backend, loader renderer.ShaderLoader, r *renderer.Renderer, shaders ShaderPaths) (*SystemManager, error) {
	cs, err := NewCameraSystem(&CameraSystemConfig{
		MaxCameraCount: 16,
	})
	if err != nil {
		return nil, err
	}
	ms := NewMeshSystem(backend)
	store := NewObjectStore(core.NewIDAllocator())
	rs, err := NewRenderSystem(backend, loader, RenderSystemConfig{
		RenderPass: r.RenderPass(),
		Extent:     r.Extent(),
		Shaders:    shaders,
	})
	if err != nil {
		return nil, err
	}

	r.Subscribe(func(extent metadata.Extent2D, compatible bool) {
		if compatible {
			return
		}
		if err := rs.Reload(r.RenderPass()); err != nil {
			core.LogError(err.Error())
		}
	})

	return &SystemManager{
		cameraSystem: cs,
		meshSystem:   ms,
		objectStore:  store,
		renderSystem: rs,
	}, nil
}

func (sm *SystemManager) CameraSystem() *CameraSystem {
	return sm.cameraSystem
}

func (sm *SystemManager) MeshSystem() *MeshSystem {
	return sm.meshSystem
}

func (sm *SystemManager) ObjectStore() *ObjectStore {
	return sm.objectStore
}

func (sm *SystemManager) RenderSystem() *RenderSystem {
	return sm.renderSystem
}

// Shutdown tears the systems down in reverse creation order. The device
// must be idle.
func (sm *SystemManager) Shutdown() error {
	sm.renderSystem.Destroy()
	sm.objectStore.Clear()
	return errors.Join(
		sm.meshSystem.Shutdown(),
		sm.cameraSystem.Shutdown(),
	)
}
