package ransac_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/itohio/volreg3d/pkg/ransac"
	"github.com/itohio/volreg3d/pkg/transform"
)

func newAffineFactory() ransac.Factory {
	return func() transform.Model { return &transform.Affine{} }
}

func syntheticCorrespondences(n int) []ransac.Correspondence {
	truth := &transform.Affine{}
	truth.A[0][0], truth.A[1][1], truth.A[2][2] = 1, 1, 1
	truth.T = [3]float32{1, 2, 3}

	cs := make([]ransac.Correspondence, n)
	for i := 0; i < n; i++ {
		src := [3]float32{float32(i % 5), float32((i / 5) % 5), float32(i / 25)}
		x, y, z := truth.Apply(src[0], src[1], src[2])
		cs[i] = ransac.Correspondence{Src: src, Ref: [3]float32{x, y, z}}
	}
	return cs
}

func TestFitRecoversTransformFromCleanData(t *testing.T) {
	cs := syntheticCorrespondences(20)
	res, err := ransac.Fit(cs, newAffineFactory(), 50, 0.5, 0.5, 1)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(res.Inliers), 18)
}

func TestFitIsDeterministicForSameSeed(t *testing.T) {
	cs := syntheticCorrespondences(20)
	res1, err1 := ransac.Fit(cs, newAffineFactory(), 50, 0.5, 0.5, 42)
	res2, err2 := ransac.Fit(cs, newAffineFactory(), 50, 0.5, 0.5, 42)
	require.NoError(t, err1)
	require.NoError(t, err2)
	require.Equal(t, res1.Inliers, res2.Inliers)
	require.Equal(t, res1.Model.Parameters(), res2.Model.Parameters())
}

func TestFitFailsWhenConsensusTooSmall(t *testing.T) {
	cs := syntheticCorrespondences(20)
	for i := range cs {
		if i%2 == 0 {
			cs[i].Ref[0] += 100
		}
	}
	_, err := ransac.Fit(cs, newAffineFactory(), 50, 0.5, 0.9, 1)
	require.Error(t, err)
}

func TestFitFailsWithTooFewCorrespondences(t *testing.T) {
	cs := syntheticCorrespondences(2)
	_, err := ransac.Fit(cs, newAffineFactory(), 10, 0.5, 0.5, 1)
	require.Error(t, err)
}
