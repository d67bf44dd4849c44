// Package keypoint detects scale-space extrema in a Difference-of-Gaussian
// pyramid and assigns each surviving candidate a canonical orientation
// frame (§4.2).
package keypoint

import (
	"github.com/itohio/volreg3d/pkg/core/math/mat"
)

// Keypoint is a localized, scale- and orientation-normalized interest point.
type Keypoint struct {
	X, Y, Z         float32
	Octave, Sublevel int
	Sigma           float32
	R               mat.Matrix
}

// Store is a growable collection of detected keypoints.
type Store struct {
	Items []Keypoint
}

// Append adds kp to the store.
func (s *Store) Append(kp Keypoint) {
	s.Items = append(s.Items, kp)
}

// Len reports the number of keypoints held.
func (s *Store) Len() int {
	return len(s.Items)
}
