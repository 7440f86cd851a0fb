package metadata

import "github.com/spaghettifunk/lve/engine/math"

/** @brief Which transform of a game object is authoritative. */
type TransformKind int

const (
	/** @brief The full 3D transform. */
	TransformKind3D TransformKind = iota
	/** @brief The flat 2D affine transform. */
	TransformKind2D
)

/**
 * @brief An entity to draw: a shared mesh, a colour and a transform.
 * Identity comes from the object store that created it.
 */
type GameObject struct {
	/** @brief Unique within the store that created the object. */
	ID uint32
	/** @brief The shared mesh, or nil for objects that are not drawn. */
	Mesh *Mesh
	/** @brief The tint pushed to the shader. Zero keeps the vertex colours. */
	Color     math.Vec3
	Kind      TransformKind
	Transform math.TransformComponent
	Flat      math.Transform2D
}

// ModelMatrix returns the object's model matrix for its transform kind.
func (o *GameObject) ModelMatrix() math.Mat4 {
	if o.Kind == TransformKind2D {
		return o.Flat.Mat4()
	}
	return o.Transform.Mat4()
}
