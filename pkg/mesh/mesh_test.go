package mesh

import (
	"testing"

	"github.com/chewxy/math32"
)

func TestBuildLevel0IsBareIcosahedron(t *testing.T) {
	m := Build(0)
	if len(m.Vertices) != 12 {
		t.Fatalf("level 0 vertices = %d, want 12", len(m.Vertices))
	}
	if len(m.Faces) != 20 {
		t.Fatalf("level 0 faces = %d, want 20", len(m.Faces))
	}
}

func TestBuildLevel1Has42VerticesAnd80Faces(t *testing.T) {
	m := Build(1)
	if len(m.Vertices) != 42 {
		t.Fatalf("level 1 vertices = %d, want 42", len(m.Vertices))
	}
	if len(m.Faces) != 80 {
		t.Fatalf("level 1 faces = %d, want 80", len(m.Faces))
	}
}

func TestBuildVerticesAreUnitVectors(t *testing.T) {
	m := Build(1)
	for i, v := range m.Vertices {
		mag := v.Magnitude()
		if math32.Abs(mag-1) > 1e-6 {
			t.Fatalf("vertex %d magnitude = %v, want 1 within 1e-6", i, mag)
		}
	}
}

func TestBuildFacesReferenceValidVertices(t *testing.T) {
	m := Build(1)
	n := len(m.Vertices)
	for i, f := range m.Faces {
		for _, idx := range []int{f.V0, f.V1, f.V2} {
			if idx < 0 || idx >= n {
				t.Fatalf("face %d references out-of-range vertex %d", i, idx)
			}
		}
	}
}

func TestNumBinsMatchesVertexCount(t *testing.T) {
	m := Build(1)
	if m.NumBins() != len(m.Vertices) {
		t.Fatalf("NumBins() = %d, want %d", m.NumBins(), len(m.Vertices))
	}
}
