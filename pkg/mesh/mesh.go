// Package mesh builds the icosahedral orientation tessellation (§3, §4.3):
// a fixed set of unit vectors partitioning the sphere into near-equal-area
// spherical triangles, built once per subdivision level and shared
// read-only across every descriptor extraction in a run, following the
// teacher's grid.RayDirections pattern of precomputing a geometric table
// once rather than per call site.
package mesh

import (
	"github.com/chewxy/math32"

	"github.com/itohio/volreg3d/pkg/core/math/vec"
)

// Face indexes three vertices of Mesh.Vertices forming one spherical
// triangle. Vertex indices are shared between adjacent faces so that
// descriptor accumulation at a shared vertex lands in the same bin.
type Face struct {
	V0, V1, V2 int
}

// Mesh is the icosahedral tessellation: Vertices are unit vectors, Faces
// cover the sphere without gaps or overlaps.
type Mesh struct {
	Vertices []vec.Vector3D
	Faces    []Face
}

// NumBins is the number of orientation bins (vertices) the mesh provides,
// i.e. B in the descriptor's H = 4*4*4*B.
func (m *Mesh) NumBins() int {
	return len(m.Vertices)
}

var goldenRatio = (1 + math32.Sqrt(5)) / 2

// baseIcosahedron returns the 12 vertices and 20 faces of a regular
// icosahedron, vertices normalized to the unit sphere.
func baseIcosahedron() ([]vec.Vector3D, []Face) {
	phi := goldenRatio
	raw := [][3]float32{
		{-1, phi, 0}, {1, phi, 0}, {-1, -phi, 0}, {1, -phi, 0},
		{0, -1, phi}, {0, 1, phi}, {0, -1, -phi}, {0, 1, -phi},
		{phi, 0, -1}, {phi, 0, 1}, {-phi, 0, -1}, {-phi, 0, 1},
	}
	verts := make([]vec.Vector3D, len(raw))
	for i, r := range raw {
		v := vec.Vector3D{r[0], r[1], r[2]}
		v.Normal()
		verts[i] = v
	}

	faces := []Face{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}
	return verts, faces
}

type edgeKey struct{ a, b int }

func makeEdgeKey(a, b int) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// Build constructs the mesh at the given subdivision level. Level 0 is the
// bare icosahedron (12 vertices, 20 faces); each additional level splits
// every face into 4 by inserting normalized edge midpoints, shared between
// adjacent faces via edge-keyed deduplication so the result stays a closed,
// non-overlapping tessellation. Level 1 produces exactly 42 vertices and 80
// faces (§8 scenario 5).
func Build(subdivisions int) *Mesh {
	verts, faces := baseIcosahedron()

	for level := 0; level < subdivisions; level++ {
		midpoints := make(map[edgeKey]int)

		midpoint := func(a, b int) int {
			key := makeEdgeKey(a, b)
			if idx, ok := midpoints[key]; ok {
				return idx
			}
			va, vb := verts[a], verts[b]
			mid := vec.Vector3D{
				(va[0] + vb[0]) / 2,
				(va[1] + vb[1]) / 2,
				(va[2] + vb[2]) / 2,
			}
			mid.Normal()
			idx := len(verts)
			verts = append(verts, mid)
			midpoints[key] = idx
			return idx
		}

		next := make([]Face, 0, len(faces)*4)
		for _, f := range faces {
			ab := midpoint(f.V0, f.V1)
			bc := midpoint(f.V1, f.V2)
			ca := midpoint(f.V2, f.V0)
			next = append(next,
				Face{f.V0, ab, ca},
				Face{f.V1, bc, ab},
				Face{f.V2, ca, bc},
				Face{ab, bc, ca},
			)
		}
		faces = next
	}

	return &Mesh{Vertices: verts, Faces: faces}
}
