package transform_test

import (
	"bytes"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/require"

	"github.com/itohio/volreg3d/pkg/transform"
)

func TestIdentityApplyIsNoOp(t *testing.T) {
	a := transform.NewIdentityAffine()
	x, y, z := a.Apply(1, 2, 3)
	require.InDelta(t, 1.0, x, 1e-6)
	require.InDelta(t, 2.0, y, 1e-6)
	require.InDelta(t, 3.0, z, 1e-6)
}

func TestApplyThenInverseRecoversSource(t *testing.T) {
	a := &transform.Affine{}
	a.A[0][0], a.A[1][1], a.A[2][2] = 2, 3, 0.5
	a.T = [3]float32{1, -2, 0.5}

	x, y, z := a.Apply(4, 5, 6)
	sx, sy, sz := a.Inverse(x, y, z)
	require.InDelta(t, 4.0, sx, 1e-4)
	require.InDelta(t, 5.0, sy, 1e-4)
	require.InDelta(t, 6.0, sz, 1e-4)
}

func TestFitLeastSquaresRecoversKnownTransform(t *testing.T) {
	want := &transform.Affine{}
	want.A[0][0], want.A[1][1], want.A[2][2] = 1, 1, 1
	want.T = [3]float32{2, -1, 0.5}

	src := [][3]float32{
		{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {1, 1, 1},
	}
	ref := make([][3]float32, len(src))
	for i, p := range src {
		x, y, z := want.Apply(p[0], p[1], p[2])
		ref[i] = [3]float32{x, y, z}
	}

	got := &transform.Affine{}
	require.True(t, got.FitLeastSquares(src, ref))
	for i := range want.A {
		for j := range want.A[i] {
			require.InDelta(t, want.A[i][j], got.A[i][j], 1e-3)
		}
	}
	for i := range want.T {
		require.InDelta(t, want.T[i], got.T[i], 1e-3)
	}
}

func TestFitLeastSquaresRejectsTooFewPoints(t *testing.T) {
	a := &transform.Affine{}
	ok := a.FitLeastSquares([][3]float32{{0, 0, 0}, {1, 0, 0}}, [][3]float32{{0, 0, 0}, {1, 0, 0}})
	require.False(t, ok)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	a := &transform.Affine{}
	a.A[0][0], a.A[1][1], a.A[2][2] = 1, 2, 3
	a.T = [3]float32{0.5, -0.25, 1.25}

	var buf bytes.Buffer
	require.NoError(t, transform.Save(&buf, a))

	got, err := transform.Load(&buf)
	require.NoError(t, err)
	for i := range a.A {
		for j := range a.A[i] {
			require.True(t, math32.Abs(a.A[i][j]-got.A[i][j]) < 1e-5)
		}
	}
}
