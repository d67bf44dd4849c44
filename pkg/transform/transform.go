// Package transform defines the geometric transform capability RANSAC fits
// and the registration result is expressed in (§4.5, §9).
package transform

// Model is the tagged-capability interface every fittable geometric
// transform implements. RANSAC and the registration facade depend only on
// this interface, never on a concrete transform type.
type Model interface {
	// Apply maps a source-space point to reference space.
	Apply(x, y, z float32) (float32, float32, float32)
	// Inverse maps a reference-space point back to source space.
	Inverse(x, y, z float32) (float32, float32, float32)
	// Parameters returns the flattened parameter vector, for logging/I-O.
	Parameters() []float32
	// FitLeastSquares refits the model's parameters from correspondences in
	// place, returning false if the system is degenerate (e.g. fewer than
	// MinSampleSize points or a singular design matrix).
	FitLeastSquares(src, ref [][3]float32) bool
	// MinSampleSize is the minimal correspondence count this model needs to
	// fit a unique solution.
	MinSampleSize() int
}
