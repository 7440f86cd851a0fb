package math

import "github.com/chewxy/math32"

// NewTransformComponent returns a transform with unit scale at the origin.
func NewTransformComponent() TransformComponent {
	return TransformComponent{Scale: NewVec3One()}
}

/**
 * @brief Returns translate * Ry * Rx * Rz * scale, with the rotation
 * angles read as Tait-Bryan YXZ.
 */
func (t TransformComponent) Mat4() Mat4 {
	c3 := math32.Cos(t.Rotation.Z)
	s3 := math32.Sin(t.Rotation.Z)
	c2 := math32.Cos(t.Rotation.X)
	s2 := math32.Sin(t.Rotation.X)
	c1 := math32.Cos(t.Rotation.Y)
	s1 := math32.Sin(t.Rotation.Y)

	return Mat4{Data: [16]float32{
		t.Scale.X * (c1*c3 + s1*s2*s3),
		t.Scale.X * (c2 * s3),
		t.Scale.X * (c1*s2*s3 - c3*s1),
		0,

		t.Scale.Y * (c3*s1*s2 - c1*s3),
		t.Scale.Y * (c2 * c3),
		t.Scale.Y * (c1*c3*s2 + s1*s3),
		0,

		t.Scale.Z * (c2 * s1),
		t.Scale.Z * (-s2),
		t.Scale.Z * (c1 * c2),
		0,

		t.Translation.X,
		t.Translation.Y,
		t.Translation.Z,
		1,
	}}
}

// NewTransform2D returns a 2D transform with unit scale at the origin.
func NewTransform2D() Transform2D {
	return Transform2D{Scale: NewVec2(1, 1)}
}

// Mat2 returns rotation * scale.
func (t Transform2D) Mat2() Mat2 {
	s := math32.Sin(t.Rotation)
	c := math32.Cos(t.Rotation)
	return Mat2{Data: [4]float32{
		c * t.Scale.X, s * t.Scale.X,
		-s * t.Scale.Y, c * t.Scale.Y,
	}}
}

// Mat4 lifts the 2D transform so it can share the 3D push constant layout.
func (t Transform2D) Mat4() Mat4 {
	out := t.Mat2().ToMat4()
	out.Data[12] = t.Translation.X
	out.Data[13] = t.Translation.Y
	return out
}
