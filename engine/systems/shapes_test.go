package systems

import (
	"testing"

	"github.com/spaghettifunk/lve/engine/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCube(t *testing.T) {
	offset := math.NewVec3(1, 2, 3)
	vertices := Cube(offset)
	require.Len(t, vertices, 36)

	colors := map[math.Vec3]int{}
	for _, v := range vertices {
		local := v.Position.Sub(offset)
		for _, c := range []float32{local.X, local.Y, local.Z} {
			assert.InDelta(t, 0.5, float64(c*c*2), 1e-6)
		}
		colors[v.Color]++
	}
	// six faces, two triangles each
	assert.Len(t, colors, 6)
	for _, n := range colors {
		assert.Equal(t, 6, n)
	}
}

func TestCubeIndexed(t *testing.T) {
	vertices, indices := CubeIndexed(math.NewVec3Zero())
	assert.Len(t, vertices, 24)
	require.Len(t, indices, 36)
	for _, i := range indices {
		assert.Less(t, i, uint32(24))
	}
}

func TestTriangle(t *testing.T) {
	color := math.NewVec3(0, 1, 0)
	vertices := Triangle(color)
	require.Len(t, vertices, 3)
	for _, v := range vertices {
		assert.Equal(t, color, v.Color)
		assert.Zero(t, v.Position.Z)
	}
}

func TestFaceIsFlippedToYDown(t *testing.T) {
	vertices := Face(math.NewVec3Zero())
	assert.Len(t, vertices, 378)
	assert.Zero(t, len(vertices)%3)

	// The mouth sits below the eyes when authored Y-up, so after the flip
	// its vertices have larger Y values than the eyes.
	mouth := math.NewVec3(.7, .1, .1)
	eye := math.NewVec3(1, 1, 1)
	var mouthY, eyeY float32
	for _, v := range vertices {
		switch v.Color {
		case mouth:
			mouthY = max(mouthY, v.Position.Y)
		case eye:
			eyeY = min(eyeY, v.Position.Y)
		}
	}
	assert.Greater(t, mouthY, float32(0))
	assert.Less(t, eyeY, float32(0))
}

func TestFaceOffsetAppliedOnce(t *testing.T) {
	base := Face(math.NewVec3Zero())
	offset := math.NewVec3(1, 0, 2)
	moved := Face(offset)
	require.Len(t, moved, len(base))
	for i := range base {
		assert.True(t, moved[i].Position.Compare(base[i].Position.Add(offset), 1e-5))
	}
}

func TestIndexed(t *testing.T) {
	vertices, indices := Indexed(Cube(math.NewVec3Zero()))
	assert.Len(t, vertices, 24)
	assert.Len(t, indices, 36)
}
