package components

import (
	"testing"

	"github.com/spaghettifunk/lve/engine/math"
	"github.com/stretchr/testify/assert"
)

func TestNewCameraIsIdentity(t *testing.T) {
	c := NewCamera()
	assert.True(t, c.GetProjectionView().Compare(math.NewMat4Identity(), 1e-6))
}

func TestSetViewYXZMatchesDirtyRebuild(t *testing.T) {
	pos := math.NewVec3(0.5, -1, -2)
	rot := math.NewVec3(0.2, 0.9, 0)

	explicit := NewCamera()
	explicit.SetViewYXZ(pos, rot)

	lazy := NewCamera()
	lazy.SetPosition(pos)
	lazy.SetEulerRotation(rot)
	assert.True(t, lazy.IsDirty)

	assert.True(t, explicit.GetView().Compare(lazy.GetView(), 1e-6))
	assert.False(t, lazy.IsDirty)
}

func TestProjectionViewAppliesViewFirst(t *testing.T) {
	c := NewCamera()
	c.SetPerspectiveProjection(math.DegToRad(50), 1, 0.1, 10)
	c.SetViewTarget(math.NewVec3(0, 0, -1), math.NewVec3(0, 0, 1), math.NewVec3(0, -1, 0))

	world := math.NewVec3(0, 0, 1)
	want := world.Transform(c.GetView()).Transform(c.GetProjection())
	got := world.Transform(c.GetProjectionView())
	assert.True(t, got.Compare(want, 1e-5), "got %v want %v", got, want)
}

func TestPitchIsClamped(t *testing.T) {
	c := NewCamera()
	c.Pitch(10)
	assert.InDelta(t, 1.55334306, c.EulerRotation.X, 1e-6)
	c.Pitch(-20)
	assert.InDelta(t, -1.55334306, c.EulerRotation.X, 1e-6)
}
