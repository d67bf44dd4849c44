// Package registration wires pyramid -> keypoint -> descriptor -> matcher ->
// ransac into a single entry point. It returns the fitted transform and does
// not resample the source volume.
package registration

import (
	"github.com/itohio/volreg3d/internal/workerpool"
	"github.com/itohio/volreg3d/pkg/core/config"
	volerrors "github.com/itohio/volreg3d/pkg/core/errors"
	"github.com/itohio/volreg3d/pkg/core/logger"
	"github.com/itohio/volreg3d/pkg/descriptor"
	"github.com/itohio/volreg3d/pkg/keypoint"
	"github.com/itohio/volreg3d/pkg/matcher"
	"github.com/itohio/volreg3d/pkg/mesh"
	"github.com/itohio/volreg3d/pkg/pyramid"
	"github.com/itohio/volreg3d/pkg/ransac"
	"github.com/itohio/volreg3d/pkg/transform"
	"github.com/itohio/volreg3d/pkg/volume"
)

// Result is the outcome of a full registration run.
type Result struct {
	Transform          *transform.Affine
	Matches            []matcher.Match
	Inliers            []int
	SourceKeypoints    *keypoint.Store
	ReferenceKeypoints *keypoint.Store
}

// Register recovers the affine transform mapping src into ref's coordinate
// frame: build each volume's Gaussian/DoG pyramid, detect and describe
// keypoints in both, match descriptors, and fit the transform with RANSAC.
func Register(src, ref *volume.Image, cfg config.Config) (Result, error) {
	if err := src.Validate(); err != nil {
		return Result{}, err
	}
	if err := ref.Validate(); err != nil {
		return Result{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}

	var srcGauss, refGauss *pyramid.Gaussian
	var srcDoG, refDoG *pyramid.DoG
	workerpool.Run(2, 2, func(i int) {
		if i == 0 {
			srcGauss = pyramid.BuildGaussian(src, cfg.Sigma0, cfg.SigmaN, cfg.NumIntervals, cfg.NumOctaves)
			srcDoG = pyramid.BuildDoG(srcGauss)
		} else {
			refGauss = pyramid.BuildGaussian(ref, cfg.Sigma0, cfg.SigmaN, cfg.NumIntervals, cfg.NumOctaves)
			refDoG = pyramid.BuildDoG(refGauss)
		}
	})

	var srcKP, refKP *keypoint.Store
	workerpool.Run(2, 2, func(i int) {
		if i == 0 {
			srcKP = keypoint.Detect(srcGauss, srcDoG, cfg)
		} else {
			refKP = keypoint.Detect(refGauss, refDoG, cfg)
		}
	})

	logger.Log.Debug().Int("src_keypoints", srcKP.Len()).Int("ref_keypoints", refKP.Len()).Msg("detection complete")

	orientationMesh := mesh.Build(cfg.IcosahedronSubdivision)
	extractor := descriptor.NewExtractor(orientationMesh)

	srcDesc := extractDescriptors(extractor, srcGauss, srcKP)
	refDesc := extractDescriptors(extractor, refGauss, refKP)

	matches := matcher.MatchAll(srcDesc, refDesc, cfg.NNThresh, true)
	if len(matches) < 4 {
		return Result{}, volerrors.New(volerrors.InsufficientInliers, "registration.Register", nil)
	}

	correspondences := make([]ransac.Correspondence, len(matches))
	for i, m := range matches {
		sd := srcDesc.Items[m.SceneIndex]
		rd := refDesc.Items[m.ReferenceIndex]
		correspondences[i] = ransac.Correspondence{
			Src: [3]float32{sd.X, sd.Y, sd.Z},
			Ref: [3]float32{rd.X, rd.Y, rd.Z},
		}
	}

	res, err := ransac.Fit(correspondences, func() transform.Model { return &transform.Affine{} },
		cfg.NumIter, cfg.ErrThresh, cfg.MinInlierRatio, cfg.Seed)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Transform:          res.Model.(*transform.Affine),
		Matches:            matches,
		Inliers:            res.Inliers,
		SourceKeypoints:    srcKP,
		ReferenceKeypoints: refKP,
	}, nil
}

// extractDescriptors runs descriptor extraction for every keypoint in store
// concurrently, collecting results into a pre-sized slice indexed by
// keypoint index so the final store order is deterministic regardless of
// goroutine completion order (§5(c)), then appends successes in that order.
func extractDescriptors(ex *descriptor.Extractor, gauss *pyramid.Gaussian, store *keypoint.Store) *descriptor.Store {
	n := store.Len()
	results := make([]descriptor.Descriptor, n)
	ok := make([]bool, n)

	workerpool.Run(n, 0, func(i int) {
		d, valid := ex.Extract(gauss, store.Items[i], i)
		results[i] = d
		ok[i] = valid
	})

	out := &descriptor.Store{}
	for i := 0; i < n; i++ {
		if ok[i] {
			out.Append(results[i])
		}
	}
	return out
}
