package systems

import (
	"testing"

	"github.com/spaghettifunk/lve/engine/math"
	"github.com/spaghettifunk/lve/engine/renderer/components"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCameraSystemRejectsZeroCount(t *testing.T) {
	_, err := NewCameraSystem(&CameraSystemConfig{})
	assert.Error(t, err)
}

func TestCameraSystemAcquireRelease(t *testing.T) {
	cs, err := NewCameraSystem(&CameraSystemConfig{MaxCameraCount: 2})
	require.NoError(t, err)

	a, err := cs.Acquire("world")
	require.NoError(t, err)
	again, err := cs.Acquire("world")
	require.NoError(t, err)
	assert.Same(t, a, again)
	assert.Equal(t, uint16(2), cs.Lookup["world"].ReferenceCount)

	a.SetPosition(math.NewVec3(1, 2, 3))
	cs.Release("world")
	assert.Equal(t, math.NewVec3(1, 2, 3), a.GetPosition())
	cs.Release("world")
	assert.NotContains(t, cs.Lookup, "world")
	assert.Equal(t, math.NewVec3Zero(), a.GetPosition())

	// releasing an unknown camera is harmless
	cs.Release("world")
}

func TestCameraSystemCapacity(t *testing.T) {
	cs, err := NewCameraSystem(&CameraSystemConfig{MaxCameraCount: 1})
	require.NoError(t, err)

	_, err = cs.Acquire("first")
	require.NoError(t, err)
	_, err = cs.Acquire("second")
	assert.Error(t, err)

	// the default camera does not take a slot
	def, err := cs.Acquire(components.DEFAULT_CAMERA_NAME)
	require.NoError(t, err)
	assert.Same(t, cs.GetDefault(), def)
	cs.Release(components.DEFAULT_CAMERA_NAME)
	assert.Same(t, def, cs.GetDefault())

	cs.Release("first")
	_, err = cs.Acquire("second")
	assert.NoError(t, err)
	require.NoError(t, cs.Shutdown())
	assert.Empty(t, cs.Lookup)
}
