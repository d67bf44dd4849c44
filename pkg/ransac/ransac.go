// Package ransac fits a transform.Model to noisy correspondences by random
// sampling and consensus (§4.5).
package ransac

import (
	"math/rand/v2"

	"github.com/chewxy/math32"

	volerrors "github.com/itohio/volreg3d/pkg/core/errors"
	"github.com/itohio/volreg3d/pkg/transform"
)

// Correspondence is a matched (source, reference) point pair.
type Correspondence struct {
	Src, Ref [3]float32
}

// Result holds the winning model and the correspondences it was ultimately
// refit on.
type Result struct {
	Model   transform.Model
	Inliers []int
}

// Factory constructs a fresh, zero-valued Model instance, letting Fit stay
// generic over which concrete Model it fits without reflection.
type Factory func() transform.Model

// Fit runs RANSAC over correspondences using models produced by newModel,
// seeded deterministically from seed so repeated calls with the same inputs
// are bit-identical (§4.5, §8). errThresh is the per-point inlier residual
// threshold; minInlierRatio*len(correspondences), rounded up, is the minimum
// consensus set size required to accept a model.
func Fit(correspondences []Correspondence, newModel Factory, numIter int, errThresh, minInlierRatio float32, seed uint64) (Result, error) {
	n := len(correspondences)
	m := newModel()
	minSample := m.MinSampleSize()
	if n < minSample {
		return Result{}, volerrors.New(volerrors.InsufficientInliers, "ransac.Fit", nil)
	}

	minInliers := int(math32.Ceil(minInlierRatio * float32(n)))
	if minInliers < minSample {
		minInliers = minSample
	}

	rng := rand.New(rand.NewPCG(seed, seed))

	var bestInliers []int
	var bestResidual float32 = math32.MaxFloat32

	for iter := 0; iter < numIter; iter++ {
		sampleIdx := samplePointIndices(rng, n, minSample)
		src := make([][3]float32, minSample)
		ref := make([][3]float32, minSample)
		for i, idx := range sampleIdx {
			src[i] = correspondences[idx].Src
			ref[i] = correspondences[idx].Ref
		}

		candidate := newModel()
		if !candidate.FitLeastSquares(src, ref) {
			continue
		}

		inliers, meanResidual := inlierSet(candidate, correspondences, errThresh)
		if len(inliers) < minSample {
			continue
		}
		if len(inliers) > len(bestInliers) || (len(inliers) == len(bestInliers) && meanResidual < bestResidual) {
			bestInliers = inliers
			bestResidual = meanResidual
		}
	}

	if len(bestInliers) < minInliers {
		return Result{}, volerrors.New(volerrors.InsufficientInliers, "ransac.Fit", nil)
	}

	final := newModel()
	src := make([][3]float32, len(bestInliers))
	ref := make([][3]float32, len(bestInliers))
	for i, idx := range bestInliers {
		src[i] = correspondences[idx].Src
		ref[i] = correspondences[idx].Ref
	}
	if !final.FitLeastSquares(src, ref) {
		return Result{}, volerrors.New(volerrors.InsufficientInliers, "ransac.Fit", nil)
	}

	return Result{Model: final, Inliers: bestInliers}, nil
}

func samplePointIndices(rng *rand.Rand, n, k int) []int {
	chosen := make(map[int]bool, k)
	idx := make([]int, 0, k)
	for len(idx) < k {
		i := rng.IntN(n)
		if chosen[i] {
			continue
		}
		chosen[i] = true
		idx = append(idx, i)
	}
	return idx
}

func inlierSet(m transform.Model, correspondences []Correspondence, errThresh float32) ([]int, float32) {
	inliers := make([]int, 0, len(correspondences))
	var sumResidual float32
	for i, c := range correspondences {
		px, py, pz := m.Apply(c.Src[0], c.Src[1], c.Src[2])
		dx, dy, dz := px-c.Ref[0], py-c.Ref[1], pz-c.Ref[2]
		residual := math32.Sqrt(dx*dx + dy*dy + dz*dz)
		if residual < errThresh {
			inliers = append(inliers, i)
			sumResidual += residual
		}
	}
	if len(inliers) == 0 {
		return inliers, math32.MaxFloat32
	}
	return inliers, sumResidual / float32(len(inliers))
}
