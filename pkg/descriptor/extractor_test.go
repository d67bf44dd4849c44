package descriptor_test

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/require"

	"github.com/itohio/volreg3d/pkg/core/math/mat"
	"github.com/itohio/volreg3d/pkg/descriptor"
	"github.com/itohio/volreg3d/pkg/keypoint"
	"github.com/itohio/volreg3d/pkg/mesh"
	"github.com/itohio/volreg3d/pkg/pyramid"
	"github.com/itohio/volreg3d/pkg/volume"
)

func gradientBlob(n int) *volume.Image {
	img := volume.New(n, n, n, 1)
	c := float32(n) / 2
	for z := 0; z < n; z++ {
		for y := 0; y < n; y++ {
			for x := 0; x < n; x++ {
				dx, dy, dz := float32(x)-c, float32(y)-c, float32(z)-c
				r2 := dx*dx + dy*dy + dz*dz
				img.Set(x, y, z, 0, math32.Exp(-r2/40))
			}
		}
	}
	return img
}

func identityKeypoint(x, y, z, sigma float32) keypoint.Keypoint {
	R := mat.New(3, 3)
	R[0][0], R[1][1], R[2][2] = 1, 1, 1
	return keypoint.Keypoint{X: x, Y: y, Z: z, Octave: 0, Sublevel: 2, Sigma: sigma, R: R}
}

func TestExtractProducesUnitNormWithinEpsilon(t *testing.T) {
	src := gradientBlob(40)
	g := pyramid.BuildGaussian(src, 1.6, 0.5, 3, 1)
	m := mesh.Build(1)
	ex := descriptor.NewExtractor(m)

	kp := identityKeypoint(20, 20, 20, 1.6)
	d, ok := ex.Extract(g, kp, 0)
	require.True(t, ok)

	var sumSq float32
	for _, v := range d.H {
		require.LessOrEqual(t, v, float32(0.2)+1e-4)
		sumSq += v * v
	}
	norm := math32.Sqrt(sumSq)
	require.InDelta(t, 1.0, norm, 0.05)
}

func TestExtractHistogramLengthMatchesGridAndMeshBins(t *testing.T) {
	src := gradientBlob(40)
	g := pyramid.BuildGaussian(src, 1.6, 0.5, 3, 1)
	m := mesh.Build(1)
	ex := descriptor.NewExtractor(m)

	kp := identityKeypoint(20, 20, 20, 1.6)
	d, ok := ex.Extract(g, kp, 0)
	require.True(t, ok)
	require.Equal(t, 4*4*4*m.NumBins(), len(d.H))
}

func TestExtractOutOfBoundsKeypointFails(t *testing.T) {
	src := gradientBlob(10)
	g := pyramid.BuildGaussian(src, 1.6, 0.5, 3, 1)
	m := mesh.Build(1)
	ex := descriptor.NewExtractor(m)

	kp := identityKeypoint(-500, -500, -500, 1.6)
	_, ok := ex.Extract(g, kp, 0)
	require.False(t, ok)
}

func TestStoreAppendGrowsItems(t *testing.T) {
	var s descriptor.Store
	s.Append(descriptor.Descriptor{X: 1})
	s.Append(descriptor.Descriptor{X: 2})
	require.Equal(t, 2, s.Len())
}
