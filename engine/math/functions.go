package math

import (
	"github.com/chewxy/math32"
)

const (
	/** @brief An approximate representation of PI. */
	K_PI float32 = 3.14159265358979323846
	/** @brief An approximate representation of PI multiplied by 2. */
	K_PI_2 float32 = 2.0 * K_PI
	/** @brief An approximate representation of PI divided by 2. */
	K_HALF_PI float32 = 0.5 * K_PI
	/** @brief A multiplier used to convert degrees to radians. */
	K_DEG2RAD_MULTIPLIER float32 = K_PI / 180.0
	/** @brief A multiplier used to convert radians to degrees. */
	K_RAD2DEG_MULTIPLIER float32 = 180.0 / K_PI
	/** @brief Smallest positive number where 1.0 + FLOAT_EPSILON != 0 */
	K_FLOAT_EPSILON float32 = 1.192092896e-07
)

// ------------------------------------------
// Vector 2
// ------------------------------------------

func NewVec2(x, y float32) Vec2 {
	return Vec2{X: x, Y: y}
}

func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{X: v.X + other.X, Y: v.Y + other.Y}
}

func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{X: v.X - other.X, Y: v.Y - other.Y}
}

func (v Vec2) MulScalar(scalar float32) Vec2 {
	return Vec2{X: v.X * scalar, Y: v.Y * scalar}
}

func (v Vec2) Length() float32 {
	return math32.Sqrt(v.X*v.X + v.Y*v.Y)
}

// ------------------------------------------
// Vector 3
// ------------------------------------------

func NewVec3(x, y, z float32) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

func NewVec3Zero() Vec3 {
	return Vec3{}
}

func NewVec3One() Vec3 {
	return Vec3{X: 1, Y: 1, Z: 1}
}

func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{X: v.X + other.X, Y: v.Y + other.Y, Z: v.Z + other.Z}
}

func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{X: v.X - other.X, Y: v.Y - other.Y, Z: v.Z - other.Z}
}

// Mul multiplies component-wise.
func (v Vec3) Mul(other Vec3) Vec3 {
	return Vec3{X: v.X * other.X, Y: v.Y * other.Y, Z: v.Z * other.Z}
}

func (v Vec3) MulScalar(scalar float32) Vec3 {
	return Vec3{X: v.X * scalar, Y: v.Y * scalar, Z: v.Z * scalar}
}

func (v Vec3) Dot(other Vec3) float32 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		X: v.Y*other.Z - v.Z*other.Y,
		Y: v.Z*other.X - v.X*other.Z,
		Z: v.X*other.Y - v.Y*other.X,
	}
}

func (v Vec3) LengthSquared() float32 {
	return v.Dot(v)
}

func (v Vec3) Length() float32 {
	return math32.Sqrt(v.LengthSquared())
}

// Normalized returns a unit length copy of v. The zero vector is returned
// unchanged.
func (v Vec3) Normalized() Vec3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.MulScalar(1 / l)
}

/**
 * @brief Compares all elements of v and other and ensures the difference
 * is less than tolerance.
 */
func (v Vec3) Compare(other Vec3, tolerance float32) bool {
	return math32.Abs(v.X-other.X) <= tolerance &&
		math32.Abs(v.Y-other.Y) <= tolerance &&
		math32.Abs(v.Z-other.Z) <= tolerance
}

// Transform applies m to the point v (w = 1).
func (v Vec3) Transform(m Mat4) Vec3 {
	return Vec3{
		X: m.Data[0]*v.X + m.Data[4]*v.Y + m.Data[8]*v.Z + m.Data[12],
		Y: m.Data[1]*v.X + m.Data[5]*v.Y + m.Data[9]*v.Z + m.Data[13],
		Z: m.Data[2]*v.X + m.Data[6]*v.Y + m.Data[10]*v.Z + m.Data[14],
	}
}

// ------------------------------------------
// Vector 4
// ------------------------------------------

func NewVec4(x, y, z, w float32) Vec4 {
	return Vec4{X: x, Y: y, Z: z, W: w}
}

func (v Vec4) ToVec3() Vec3 {
	return Vec3{X: v.X, Y: v.Y, Z: v.Z}
}

// ------------------------------------------
// Mat2
// ------------------------------------------

func NewMat2Identity() Mat2 {
	return Mat2{Data: [4]float32{1, 0, 0, 1}}
}

// MulVec2 applies m to v.
func (m Mat2) MulVec2(v Vec2) Vec2 {
	return Vec2{
		X: m.Data[0]*v.X + m.Data[2]*v.Y,
		Y: m.Data[1]*v.X + m.Data[3]*v.Y,
	}
}

// ToMat4 lifts m into the upper-left corner of an identity Mat4.
func (m Mat2) ToMat4() Mat4 {
	out := NewMat4Identity()
	out.Data[0] = m.Data[0]
	out.Data[1] = m.Data[1]
	out.Data[4] = m.Data[2]
	out.Data[5] = m.Data[3]
	return out
}

// ------------------------------------------
// Mat4
// ------------------------------------------

/**
 * @brief Creates and returns an identity matrix:
 *
 * {
 *   {1, 0, 0, 0},
 *   {0, 1, 0, 0},
 *   {0, 0, 1, 0},
 *   {0, 0, 0, 1}
 * }
 */
func NewMat4Identity() Mat4 {
	out_matrix := Mat4{}
	out_matrix.Data[0] = 1.0
	out_matrix.Data[5] = 1.0
	out_matrix.Data[10] = 1.0
	out_matrix.Data[15] = 1.0
	return out_matrix
}

/**
 * @brief Returns the matrix that applies mt first and then other. In
 * shader notation this is other * mt, so projection * view * model is
 * written model.Mul(view).Mul(projection).
 */
func (mt Mat4) Mul(other Mat4) Mat4 {
	out_matrix := Mat4{}

	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			sum := float32(0)
			for i := 0; i < 4; i++ {
				sum += mt.Data[row*4+i] * other.Data[i*4+col]
			}
			out_matrix.Data[row*4+col] = sum
		}
	}

	return out_matrix
}

func (mt Mat4) Compare(other Mat4, tolerance float32) bool {
	for i := range mt.Data {
		if math32.Abs(mt.Data[i]-other.Data[i]) > tolerance {
			return false
		}
	}
	return true
}

/**
 * @brief Returns a transposed copy of the provided matrix (rows->colums)
 */
func (mt Mat4) Transposed() Mat4 {
	out := Mat4{}
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			out.Data[col*4+row] = mt.Data[row*4+col]
		}
	}
	return out
}

func NewMat4Translation(position Vec3) Mat4 {
	out_matrix := NewMat4Identity()
	out_matrix.Data[12] = position.X
	out_matrix.Data[13] = position.Y
	out_matrix.Data[14] = position.Z
	return out_matrix
}

func NewMat4Scale(scale Vec3) Mat4 {
	out_matrix := NewMat4Identity()
	out_matrix.Data[0] = scale.X
	out_matrix.Data[5] = scale.Y
	out_matrix.Data[10] = scale.Z
	return out_matrix
}

func NewMat4EulerX(angle_radians float32) Mat4 {
	out_matrix := NewMat4Identity()
	c := math32.Cos(angle_radians)
	s := math32.Sin(angle_radians)

	out_matrix.Data[5] = c
	out_matrix.Data[6] = s
	out_matrix.Data[9] = -s
	out_matrix.Data[10] = c
	return out_matrix
}

func NewMat4EulerY(angle_radians float32) Mat4 {
	out_matrix := NewMat4Identity()
	c := math32.Cos(angle_radians)
	s := math32.Sin(angle_radians)

	out_matrix.Data[0] = c
	out_matrix.Data[2] = -s
	out_matrix.Data[8] = s
	out_matrix.Data[10] = c
	return out_matrix
}

func NewMat4EulerZ(angle_radians float32) Mat4 {
	out_matrix := NewMat4Identity()
	c := math32.Cos(angle_radians)
	s := math32.Sin(angle_radians)

	out_matrix.Data[0] = c
	out_matrix.Data[1] = s
	out_matrix.Data[4] = -s
	out_matrix.Data[5] = c
	return out_matrix
}

// ------------------------------------------
// Projection and view
// ------------------------------------------

/**
 * @brief Creates an orthographic projection for a Y-down, [0,1] depth clip
 * space.
 */
func NewMat4Orthographic(left, right, top, bottom, near, far float32) Mat4 {
	out_matrix := NewMat4Identity()
	out_matrix.Data[0] = 2.0 / (right - left)
	out_matrix.Data[5] = 2.0 / (bottom - top)
	out_matrix.Data[10] = 1.0 / (far - near)
	out_matrix.Data[12] = -(right + left) / (right - left)
	out_matrix.Data[13] = -(bottom + top) / (bottom - top)
	out_matrix.Data[14] = -near / (far - near)
	return out_matrix
}

/**
 * @brief Creates a perspective projection looking down +Z with [0,1] depth.
 *
 * @param fovy The vertical field of view in radians.
 */
func NewMat4Perspective(fovy, aspect, near, far float32) Mat4 {
	tanHalfFovy := math32.Tan(fovy / 2.0)
	out_matrix := Mat4{}
	out_matrix.Data[0] = 1.0 / (aspect * tanHalfFovy)
	out_matrix.Data[5] = 1.0 / tanHalfFovy
	out_matrix.Data[10] = far / (far - near)
	out_matrix.Data[11] = 1.0
	out_matrix.Data[14] = -(far * near) / (far - near)
	return out_matrix
}

// newMat4View builds the view matrix from an orthonormal camera basis.
func newMat4View(position, u, v, w Vec3) Mat4 {
	out_matrix := NewMat4Identity()
	out_matrix.Data[0] = u.X
	out_matrix.Data[4] = u.Y
	out_matrix.Data[8] = u.Z
	out_matrix.Data[1] = v.X
	out_matrix.Data[5] = v.Y
	out_matrix.Data[9] = v.Z
	out_matrix.Data[2] = w.X
	out_matrix.Data[6] = w.Y
	out_matrix.Data[10] = w.Z
	out_matrix.Data[12] = -u.Dot(position)
	out_matrix.Data[13] = -v.Dot(position)
	out_matrix.Data[14] = -w.Dot(position)
	return out_matrix
}

// NewMat4ViewDirection looks from position along direction.
func NewMat4ViewDirection(position, direction, up Vec3) Mat4 {
	w := direction.Normalized()
	u := w.Cross(up).Normalized()
	v := w.Cross(u)
	return newMat4View(position, u, v, w)
}

// NewMat4ViewTarget looks from position at target.
func NewMat4ViewTarget(position, target, up Vec3) Mat4 {
	return NewMat4ViewDirection(position, target.Sub(position), up)
}

// NewMat4ViewYXZ builds the view of a camera at position rotated by the
// Tait-Bryan angles in rotation, applied Y, then X, then Z.
func NewMat4ViewYXZ(position, rotation Vec3) Mat4 {
	c3 := math32.Cos(rotation.Z)
	s3 := math32.Sin(rotation.Z)
	c2 := math32.Cos(rotation.X)
	s2 := math32.Sin(rotation.X)
	c1 := math32.Cos(rotation.Y)
	s1 := math32.Sin(rotation.Y)
	u := Vec3{X: c1*c3 + s1*s2*s3, Y: c2 * s3, Z: c1*s2*s3 - c3*s1}
	v := Vec3{X: c3*s1*s2 - c1*s3, Y: c2 * c3, Z: c1*c3*s2 + s1*s3}
	w := Vec3{X: c2 * s1, Y: -s2, Z: c1 * c2}
	return newMat4View(position, u, v, w)
}

/**
 * @brief Converts provided degrees to radians.
 */
func DegToRad(degrees float32) float32 {
	return degrees * K_DEG2RAD_MULTIPLIER
}

/**
 * @brief Converts provided radians to degrees.
 */
func RadToDeg(radians float32) float32 {
	return radians * K_RAD2DEG_MULTIPLIER
}
