// Package descriptor extracts rotation-normalized gradient histograms at
// each detected keypoint (§4.3): a 4x4x4 spatial grid of orientation
// histograms binned over an icosahedral mesh of gradient directions.
package descriptor

// Descriptor is a fixed-length gradient histogram anchored at a keypoint.
type Descriptor struct {
	X, Y, Z, Sigma float32
	H              []float32
	KeypointIndex  int
}

// Store is a growable collection of extracted descriptors.
type Store struct {
	Items []Descriptor
}

// Append adds d to the store.
func (s *Store) Append(d Descriptor) {
	s.Items = append(s.Items, d)
}

// Len reports the number of descriptors held.
func (s *Store) Len() int {
	return len(s.Items)
}
