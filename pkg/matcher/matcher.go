// Package matcher finds correspondences between two descriptor stores via
// the forward ratio test with a mutual-nearest-neighbor cross-check (§4.4).
package matcher

import (
	"github.com/chewxy/math32"

	"github.com/itohio/volreg3d/pkg/descriptor"
)

// NoMatch is the sentinel index used when a scene descriptor has no
// accepted reference match.
const NoMatch = -1

// Match pairs a scene descriptor index with its accepted reference
// descriptor index.
type Match struct {
	SceneIndex, ReferenceIndex int
	Distance                  float32
}

func sqDist(a, b []float32) float32 {
	var sum float32
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// nearestTwo returns the indices and squared distances of the nearest and
// second-nearest descriptor in others to query, or ok=false if fewer than
// two candidates exist.
func nearestTwo(query []float32, others []descriptor.Descriptor) (i1, i2 int, d1, d2 float32, ok bool) {
	d1, d2 = math32.MaxFloat32, math32.MaxFloat32
	i1, i2 = NoMatch, NoMatch
	for i, d := range others {
		dist := sqDist(query, d.H)
		if dist < d1 {
			i2, d2 = i1, d1
			i1, d1 = i, dist
		} else if dist < d2 {
			i2, d2 = i, dist
		}
	}
	return i1, i2, d1, d2, i2 != NoMatch
}

// MatchAll runs the O(N_scene*N_reference*H) ratio-test matcher described in
// §4.4: a scene descriptor is accepted only if its nearest reference
// neighbor beats the second nearest by nnThresh, and crossCheck additionally
// requires the match to be each other's nearest neighbor.
func MatchAll(scene, reference *descriptor.Store, nnThresh float32, crossCheck bool) []Match {
	matches := make([]Match, 0, len(scene.Items))
	for si, sd := range scene.Items {
		i1, _, d1, d2, ok := nearestTwo(sd.H, reference.Items)
		if !ok {
			continue
		}
		if d1 >= nnThresh*nnThresh*d2 {
			continue
		}
		if crossCheck {
			rj1, _, _, _, ok2 := nearestTwo(reference.Items[i1].H, scene.Items)
			if !ok2 || rj1 != si {
				continue
			}
		}
		matches = append(matches, Match{SceneIndex: si, ReferenceIndex: i1, Distance: d1})
	}
	return matches
}
