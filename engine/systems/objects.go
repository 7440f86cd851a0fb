package systems

import (
	"fmt"
	"slices"

	"github.com/spaghettifunk/lve/engine/core"
	"github.com/spaghettifunk/lve/engine/math"
	"github.com/spaghettifunk/lve/engine/renderer/metadata"
)

// ObjectStore owns the game objects of a scene. Identifiers come from the
// allocator it was given, and objects are handed out by pointer so the
// store stays the single owner of their identity.
type ObjectStore struct {
	ids     *core.IDAllocator
	objects map[uint32]*metadata.GameObject
	// Insertion order, the order objects are drawn in.
	order []uint32
}

func NewObjectStore(ids *core.IDAllocator) *ObjectStore {
	return &ObjectStore{
		ids:     ids,
		objects: make(map[uint32]*metadata.GameObject),
	}
}

// Create adds an object with a fresh identifier, unit scale and no mesh.
// The allocator must not hand out an identifier the store still holds.
func (s *ObjectStore) Create() *metadata.GameObject {
	id := s.ids.AcquireNewID()
	_, taken := s.objects[id]
	core.Assert(!taken, "ObjectStore.Create", fmt.Sprintf("identifier %d is already in use", id))
	obj := &metadata.GameObject{
		ID:        id,
		Kind:      metadata.TransformKind3D,
		Transform: math.NewTransformComponent(),
		Flat:      math.NewTransform2D(),
	}
	s.objects[obj.ID] = obj
	s.order = append(s.order, obj.ID)
	return obj
}

func (s *ObjectStore) Get(id uint32) (*metadata.GameObject, bool) {
	obj, ok := s.objects[id]
	return obj, ok
}

// Remove deletes the object and drops its mesh reference. It reports
// whether the object existed.
func (s *ObjectStore) Remove(id uint32) bool {
	obj, ok := s.objects[id]
	if !ok {
		return false
	}
	if obj.Mesh != nil {
		obj.Mesh.Release()
		obj.Mesh = nil
	}
	delete(s.objects, id)
	s.order = slices.DeleteFunc(s.order, func(v uint32) bool { return v == id })
	return true
}

// SetMesh points obj at mesh, taking a reference to the new mesh and
// dropping the one held on the previous mesh. A nil mesh detaches it.
func (s *ObjectStore) SetMesh(obj *metadata.GameObject, mesh *metadata.Mesh) {
	if mesh != nil {
		mesh.Retain()
	}
	if obj.Mesh != nil {
		obj.Mesh.Release()
	}
	obj.Mesh = mesh
}

// Objects returns the objects in insertion order.
func (s *ObjectStore) Objects() []*metadata.GameObject {
	out := make([]*metadata.GameObject, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.objects[id])
	}
	return out
}

func (s *ObjectStore) Len() int {
	return len(s.order)
}

// Clear removes every object, releasing their meshes.
func (s *ObjectStore) Clear() {
	for _, id := range slices.Clone(s.order) {
		s.Remove(id)
	}
}

// Reset removes every object and restarts identifiers from zero.
func (s *ObjectStore) Reset() {
	s.Clear()
	s.ids.Reset()
}
