package components

import (
	"github.com/spaghettifunk/lve/engine/math"
)

/**
 * @brief A camera holding a projection and a view matrix. The view is
 * either set explicitly (direction, target) or derived from a position and
 * a YXZ Euler rotation, the way the keyboard controller moves the viewer.
 */
type Camera struct {
	/**
	 * @brief The position of this camera.
	 * NOTE: Do not set this directly, use SetPosition() instead
	 * so the view matrix is recalculated when needed.
	 */
	Position math.Vec3
	/**
	 * @brief The rotation of this camera using Euler angles (pitch, yaw, roll).
	 * NOTE: Do not set this directly, use SetEulerRotation() instead
	 * so the view matrix is recalculated when needed.
	 */
	EulerRotation math.Vec3
	/** @brief Internal flag used to determine when the view matrix needs to be rebuilt. */
	IsDirty bool

	ViewMatrix       math.Mat4
	ProjectionMatrix math.Mat4
}

type CameraLookup struct {
	Camera         *Camera
	ReferenceCount uint16
}

const DEFAULT_CAMERA_NAME string = "default"

func NewCamera() *Camera {
	camera := &Camera{}
	camera.Reset()
	return camera
}

func (c *Camera) Reset() {
	c.EulerRotation = math.NewVec3Zero()
	c.Position = math.NewVec3Zero()
	c.IsDirty = false
	c.ViewMatrix = math.NewMat4Identity()
	c.ProjectionMatrix = math.NewMat4Identity()
}

// SetOrthographicProjection maps the given box to Vulkan clip space.
func (c *Camera) SetOrthographicProjection(left, right, top, bottom, near, far float32) {
	c.ProjectionMatrix = math.NewMat4Orthographic(left, right, top, bottom, near, far)
}

// SetPerspectiveProjection takes the vertical field of view in radians.
func (c *Camera) SetPerspectiveProjection(fovy, aspect, near, far float32) {
	c.ProjectionMatrix = math.NewMat4Perspective(fovy, aspect, near, far)
}

func (c *Camera) SetViewDirection(position, direction, up math.Vec3) {
	c.Position = position
	c.ViewMatrix = math.NewMat4ViewDirection(position, direction, up)
	c.IsDirty = false
}

func (c *Camera) SetViewTarget(position, target, up math.Vec3) {
	c.Position = position
	c.ViewMatrix = math.NewMat4ViewTarget(position, target, up)
	c.IsDirty = false
}

// SetViewYXZ places the camera at position looking along the given
// Tait-Bryan angles.
func (c *Camera) SetViewYXZ(position, rotation math.Vec3) {
	c.Position = position
	c.EulerRotation = rotation
	c.ViewMatrix = math.NewMat4ViewYXZ(position, rotation)
	c.IsDirty = false
}

func (c *Camera) GetPosition() math.Vec3 {
	return c.Position
}

func (c *Camera) SetPosition(position math.Vec3) {
	c.Position = position
	c.IsDirty = true
}

func (c *Camera) GetEulerRotation() math.Vec3 {
	return c.EulerRotation
}

func (c *Camera) SetEulerRotation(rotation math.Vec3) {
	c.EulerRotation = rotation
	c.IsDirty = true
}

func (c *Camera) GetView() math.Mat4 {
	if c.IsDirty {
		c.ViewMatrix = math.NewMat4ViewYXZ(c.Position, c.EulerRotation)
		c.IsDirty = false
	}
	return c.ViewMatrix
}

func (c *Camera) GetProjection() math.Mat4 {
	return c.ProjectionMatrix
}

// GetProjectionView returns projection * view, ready to be applied after
// a model matrix.
func (c *Camera) GetProjectionView() math.Mat4 {
	return c.GetView().Mul(c.ProjectionMatrix)
}

func (c *Camera) Yaw(amount float32) {
	c.EulerRotation.Y += amount
	c.IsDirty = true
}

func (c *Camera) Pitch(amount float32) {
	c.EulerRotation.X += amount

	// Clamp to avoid Gimbal lock.
	limit := float32(1.55334306) // 89 degrees, or equivalent to deg_to_rad(89.0f);
	c.EulerRotation.X = math.Clamp(c.EulerRotation.X, -limit, limit)

	c.IsDirty = true
}
