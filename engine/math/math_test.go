package math

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const eps = 1e-5

func TestClamp(t *testing.T) {
	assert.Equal(t, 3, Clamp(5, 0, 3))
	assert.Equal(t, uint32(1), Clamp(uint32(0), 1, 10))
	assert.Equal(t, float32(0.5), Clamp(float32(0.5), -1, 1))
}

func TestWrapAngle(t *testing.T) {
	assert.InDelta(t, 0.5, WrapAngle(0.5), eps)
	assert.InDelta(t, K_PI_2-0.5, WrapAngle(-0.5), eps)
	assert.InDelta(t, 1.0, WrapAngle(K_PI_2+1.0), eps)
}

func TestMulAppliesLeftOperandFirst(t *testing.T) {
	scale := NewMat4Scale(NewVec3(2, 2, 2))
	translate := NewMat4Translation(NewVec3(1, 0, 0))

	p := NewVec3(1, 1, 1).Transform(scale.Mul(translate))
	assert.True(t, p.Compare(NewVec3(3, 2, 2), eps), "got %v", p)

	p = NewVec3(1, 1, 1).Transform(translate.Mul(scale))
	assert.True(t, p.Compare(NewVec3(4, 2, 2), eps), "got %v", p)
}

func TestIdentityIsNeutral(t *testing.T) {
	m := NewMat4EulerY(0.3).Mul(NewMat4Translation(NewVec3(1, 2, 3)))
	assert.True(t, m.Mul(NewMat4Identity()).Compare(m, eps))
	assert.True(t, NewMat4Identity().Mul(m).Compare(m, eps))
	assert.True(t, m.Transposed().Transposed().Compare(m, eps))
}

func TestTransformComponentMatchesComposition(t *testing.T) {
	tc := TransformComponent{
		Translation: NewVec3(1, -2, 3),
		Scale:       NewVec3(0.5, 2, 1.5),
		Rotation:    NewVec3(0.3, -1.1, 0.7),
	}
	// translate * Ry * Rx * Rz * scale, applied right to left
	want := NewMat4Scale(tc.Scale).
		Mul(NewMat4EulerZ(tc.Rotation.Z)).
		Mul(NewMat4EulerX(tc.Rotation.X)).
		Mul(NewMat4EulerY(tc.Rotation.Y)).
		Mul(NewMat4Translation(tc.Translation))

	assert.True(t, tc.Mat4().Compare(want, eps))
}

func TestDefaultTransformIsIdentity(t *testing.T) {
	assert.True(t, NewTransformComponent().Mat4().Compare(NewMat4Identity(), eps))
	assert.True(t, NewTransform2D().Mat4().Compare(NewMat4Identity(), eps))
}

func TestTransform2D(t *testing.T) {
	tr := Transform2D{
		Translation: NewVec2(0.2, 0),
		Scale:       NewVec2(2, 0.5),
		Rotation:    K_HALF_PI,
	}
	// scale first: (1,0) -> (2,0), then rotate 90 degrees -> (0,2)
	v := tr.Mat2().MulVec2(NewVec2(1, 0))
	assert.InDelta(t, 0, v.X, eps)
	assert.InDelta(t, 2, v.Y, eps)

	p := NewVec3(1, 0, 0).Transform(tr.Mat4())
	assert.True(t, p.Compare(NewVec3(0.2, 2, 0), eps), "got %v", p)
}

func TestPerspectiveDepthRange(t *testing.T) {
	near, far := float32(0.1), float32(10)
	proj := NewMat4Perspective(DegToRad(50), 1.5, near, far)

	clip := func(z float32) float32 {
		// w = z for a +Z looking projection
		p := NewVec3(0, 0, z).Transform(proj)
		return p.Z / z
	}
	assert.InDelta(t, 0, clip(near), eps)
	assert.InDelta(t, 1, clip(far), eps)
}

func TestOrthographicMapsBoxToClipSpace(t *testing.T) {
	proj := NewMat4Orthographic(-1, 1, -1, 1, -1, 1)
	p := NewVec3(1, 1, 1).Transform(proj)
	assert.True(t, p.Compare(NewVec3(1, 1, 1), eps), "got %v", p)
	p = NewVec3(-1, -1, -1).Transform(proj)
	assert.True(t, p.Compare(NewVec3(-1, -1, 0), eps), "got %v", p)
}

func TestViewTargetPutsTargetOnForwardAxis(t *testing.T) {
	pos := NewVec3(-1, -2, 2)
	target := NewVec3(0, 0, 2.5)
	view := NewMat4ViewTarget(pos, target, NewVec3(0, -1, 0))

	p := target.Transform(view)
	assert.InDelta(t, 0, p.X, eps)
	assert.InDelta(t, 0, p.Y, eps)
	assert.InDelta(t, target.Sub(pos).Length(), p.Z, eps)

	assert.True(t, pos.Transform(view).Compare(NewVec3Zero(), eps))
}

func TestViewYXZInvertsCameraTransform(t *testing.T) {
	camera := TransformComponent{
		Translation: NewVec3(0.5, -1, -2),
		Scale:       NewVec3One(),
		Rotation:    NewVec3(0.2, 0.9, 0),
	}
	view := NewMat4ViewYXZ(camera.Translation, camera.Rotation)
	world := NewVec3(1, 2, 3)

	roundTrip := world.Transform(camera.Mat4()).Transform(view)
	assert.True(t, roundTrip.Compare(world, eps), "got %v", roundTrip)
}

func TestVec3(t *testing.T) {
	a := NewVec3(1, 0, 0)
	b := NewVec3(0, 1, 0)
	assert.Equal(t, NewVec3(0, 0, 1), a.Cross(b))
	assert.Equal(t, float32(0), a.Dot(b))
	assert.InDelta(t, 1, NewVec3(3, 4, 0).Normalized().Length(), eps)
	assert.Equal(t, NewVec3Zero(), NewVec3Zero().Normalized())
	assert.Equal(t, NewVec3(2, 0, 3), a.Add(NewVec3(1, 0, 3)))
	assert.Equal(t, NewVec3(1, -1, 0), a.Sub(b))
	assert.Equal(t, NewVec3(2, 6, 12), NewVec3(1, 2, 3).Mul(NewVec3(2, 3, 4)))
	assert.InDelta(t, 180, RadToDeg(K_PI), 1e-3)
}

func TestGeometryDeduplicateVertices(t *testing.T) {
	quad := []Vec3{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1},
		{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1},
	}
	unique, indices := GeometryDeduplicateVertices(quad, func(a, b Vec3) bool {
		return a.Compare(b, K_FLOAT_EPSILON)
	})
	assert.Len(t, unique, 4)
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, indices)
	for i, idx := range indices {
		assert.Equal(t, quad[i], unique[idx])
	}
}
