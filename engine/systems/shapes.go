package systems

import (
	"github.com/spaghettifunk/lve/engine/math"
	"github.com/spaghettifunk/lve/engine/renderer/metadata"
)

// Y points down in Vulkan clip space, so "top" is -Y.
var cubeFaces = []struct {
	color   math.Vec3
	corners [4]math.Vec3
}{
	// left (white)
	{math.NewVec3(.9, .9, .9), [4]math.Vec3{{X: -.5, Y: -.5, Z: -.5}, {X: -.5, Y: .5, Z: .5}, {X: -.5, Y: -.5, Z: .5}, {X: -.5, Y: .5, Z: -.5}}},
	// right (yellow)
	{math.NewVec3(.8, .8, .1), [4]math.Vec3{{X: .5, Y: -.5, Z: -.5}, {X: .5, Y: .5, Z: .5}, {X: .5, Y: -.5, Z: .5}, {X: .5, Y: .5, Z: -.5}}},
	// top (orange)
	{math.NewVec3(.9, .6, .1), [4]math.Vec3{{X: -.5, Y: -.5, Z: -.5}, {X: .5, Y: -.5, Z: .5}, {X: -.5, Y: -.5, Z: .5}, {X: .5, Y: -.5, Z: -.5}}},
	// bottom (red)
	{math.NewVec3(.8, .1, .1), [4]math.Vec3{{X: -.5, Y: .5, Z: -.5}, {X: .5, Y: .5, Z: .5}, {X: -.5, Y: .5, Z: .5}, {X: .5, Y: .5, Z: -.5}}},
	// nose (blue)
	{math.NewVec3(.1, .1, .8), [4]math.Vec3{{X: -.5, Y: -.5, Z: .5}, {X: .5, Y: .5, Z: .5}, {X: -.5, Y: .5, Z: .5}, {X: .5, Y: -.5, Z: .5}}},
	// tail (green)
	{math.NewVec3(.1, .8, .1), [4]math.Vec3{{X: -.5, Y: -.5, Z: -.5}, {X: .5, Y: .5, Z: -.5}, {X: -.5, Y: .5, Z: -.5}, {X: .5, Y: -.5, Z: -.5}}},
}

// two triangles per face
var quadIndices = [6]uint32{0, 1, 2, 0, 3, 1}

// CubeIndexed returns a unit cube centered on offset: 24 vertices, one
// colour per face, and 36 indices.
func CubeIndexed(offset math.Vec3) ([]metadata.Vertex, []uint32) {
	vertices := make([]metadata.Vertex, 0, 24)
	indices := make([]uint32, 0, 36)
	for f, face := range cubeFaces {
		for _, c := range face.corners {
			vertices = append(vertices, metadata.Vertex{Position: c.Add(offset), Color: face.color})
		}
		for _, i := range quadIndices {
			indices = append(indices, uint32(f*4)+i)
		}
	}
	return vertices, indices
}

// Cube returns the same cube as CubeIndexed with the indices expanded into
// 36 vertices.
func Cube(offset math.Vec3) []metadata.Vertex {
	indexed, indices := CubeIndexed(offset)
	vertices := make([]metadata.Vertex, 0, len(indices))
	for _, i := range indices {
		vertices = append(vertices, indexed[i])
	}
	return vertices
}

// Triangle returns a single triangle in the XY plane.
func Triangle(color math.Vec3) []metadata.Vertex {
	return []metadata.Vertex{
		{Position: math.NewVec3(0, -.5, 0), Color: color},
		{Position: math.NewVec3(.5, .5, 0), Color: color},
		{Position: math.NewVec3(-.5, .5, 0), Color: color},
	}
}

// corner order: back face then front face, both starting bottom left
var boxIndices = [36]int{
	0, 1, 2, 0, 2, 3, // back
	4, 5, 6, 4, 6, 7, // front
	0, 1, 5, 0, 5, 4, // bottom
	2, 3, 7, 2, 7, 6, // top
	1, 2, 6, 1, 6, 5, // right
	3, 0, 4, 3, 4, 7, // left
}

func appendBox(vertices []metadata.Vertex, center, size, color math.Vec3) []metadata.Vertex {
	x, y, z := size.X/2, size.Y/2, size.Z/2
	corners := [8]math.Vec3{
		center.Add(math.NewVec3(-x, -y, -z)), center.Add(math.NewVec3(x, -y, -z)),
		center.Add(math.NewVec3(x, y, -z)), center.Add(math.NewVec3(-x, y, -z)),
		center.Add(math.NewVec3(-x, -y, z)), center.Add(math.NewVec3(x, -y, z)),
		center.Add(math.NewVec3(x, y, z)), center.Add(math.NewVec3(-x, y, z)),
	}
	for _, i := range boxIndices {
		vertices = append(vertices, metadata.Vertex{Position: corners[i], Color: color})
	}
	return vertices
}

func appendPyramid(vertices []metadata.Vertex, center math.Vec3, base, height float32, color math.Vec3) []metadata.Vertex {
	b, h := base/2, height/2
	top := center.Add(math.NewVec3(0, h, 0))
	b1 := center.Add(math.NewVec3(-b, -h, -b))
	b2 := center.Add(math.NewVec3(b, -h, -b))
	b3 := center.Add(math.NewVec3(b, -h, b))
	b4 := center.Add(math.NewVec3(-b, -h, b))
	for _, p := range []math.Vec3{
		top, b1, b2,
		top, b2, b3,
		top, b3, b4,
		top, b4, b1,
		b1, b2, b3,
		b1, b3, b4,
	} {
		vertices = append(vertices, metadata.Vertex{Position: p, Color: color})
	}
	return vertices
}

// Face returns a stylized head built from boxes and a pyramid nose,
// authored Y-up and flipped to Vulkan's Y-down convention.
func Face(offset math.Vec3) []metadata.Vertex {
	var v []metadata.Vertex

	// head
	v = appendBox(v, offset, math.NewVec3(1, 1.3, 1), math.NewVec3(1, .85, .75))

	// eyes and pupils
	eye := math.NewVec3(1, 1, 1)
	pupil := math.NewVec3(.1, .1, .1)
	v = appendBox(v, offset.Add(math.NewVec3(-.25, .2, .51)), math.NewVec3(.2, .15, .05), eye)
	v = appendBox(v, offset.Add(math.NewVec3(.25, .2, .51)), math.NewVec3(.2, .15, .05), eye)
	v = appendBox(v, offset.Add(math.NewVec3(-.25, .2, .55)), math.NewVec3(.08, .08, .02), pupil)
	v = appendBox(v, offset.Add(math.NewVec3(.25, .2, .55)), math.NewVec3(.08, .08, .02), pupil)

	// brows
	brow := math.NewVec3(.2, .1, .05)
	v = appendBox(v, offset.Add(math.NewVec3(-.25, .35, .51)), math.NewVec3(.3, .05, .02), brow)
	v = appendBox(v, offset.Add(math.NewVec3(.25, .35, .51)), math.NewVec3(.3, .05, .02), brow)

	// nose
	v = appendPyramid(v, offset.Add(math.NewVec3(0, .05, .52)), .15, .2, math.NewVec3(.95, .75, .6))

	// mouth, three segments in a slight curve
	mouth := math.NewVec3(.7, .1, .1)
	v = appendBox(v, offset.Add(math.NewVec3(-.2, -.4, .51)), math.NewVec3(.15, .07, .02), mouth)
	v = appendBox(v, offset.Add(math.NewVec3(0, -.45, .51)), math.NewVec3(.15, .07, .02), mouth)
	v = appendBox(v, offset.Add(math.NewVec3(.2, -.4, .51)), math.NewVec3(.15, .07, .02), mouth)

	flipY := math.NewMat4Scale(math.NewVec3(1, -1, 1))
	for i := range v {
		v[i].Position = v[i].Position.Transform(flipY)
	}
	return v
}

func vertexEqual(a, b metadata.Vertex) bool {
	return a.Position.Compare(b.Position, math.K_FLOAT_EPSILON) &&
		a.Color.Compare(b.Color, math.K_FLOAT_EPSILON)
}

// Indexed turns a triangle list into shared vertices plus indices.
func Indexed(vertices []metadata.Vertex) ([]metadata.Vertex, []uint32) {
	return math.GeometryDeduplicateVertices(vertices, vertexEqual)
}
