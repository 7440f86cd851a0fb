package math

import "github.com/spaghettifunk/lve/engine/core"

// GeometryDeduplicateVertices collapses a triangle list into unique
// vertices plus an index list. Two vertices are merged when equal reports
// them as the same; the first occurrence keeps its position in the output.
func GeometryDeduplicateVertices[V any](vertices []V, equal func(a, b V) bool) ([]V, []uint32) {
	unique := make([]V, 0, len(vertices))
	indices := make([]uint32, 0, len(vertices))

	for _, v := range vertices {
		found := false
		for u := range unique {
			if equal(v, unique[u]) {
				// Reuse the existing vertex, do not copy
				indices = append(indices, uint32(u))
				found = true
				break
			}
		}
		if !found {
			indices = append(indices, uint32(len(unique)))
			unique = append(unique, v)
		}
	}

	core.LogDebug("geometry_deduplicate_vertices: removed %d vertices, orig/now %d/%d.", len(vertices)-len(unique), len(vertices), len(unique))
	return unique, indices
}
