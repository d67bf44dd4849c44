package registration_test

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/require"

	"github.com/itohio/volreg3d/pkg/core/config"
	"github.com/itohio/volreg3d/pkg/registration"
	"github.com/itohio/volreg3d/pkg/volume"
)

func multiBlobVolume(n int) *volume.Image {
	img := volume.New(n, n, n, 1)
	centers := [][3]float32{
		{float32(n) * 0.25, float32(n) * 0.25, float32(n) * 0.25},
		{float32(n) * 0.75, float32(n) * 0.25, float32(n) * 0.3},
		{float32(n) * 0.3, float32(n) * 0.7, float32(n) * 0.6},
		{float32(n) * 0.7, float32(n) * 0.7, float32(n) * 0.7},
		{float32(n) * 0.5, float32(n) * 0.5, float32(n) * 0.2},
	}
	for z := 0; z < n; z++ {
		for y := 0; y < n; y++ {
			for x := 0; x < n; x++ {
				var v float32
				for _, c := range centers {
					dx, dy, dz := float32(x)-c[0], float32(y)-c[1], float32(z)-c[2]
					v += math32.Exp(-(dx*dx + dy*dy + dz*dz) / 20)
				}
				img.Set(x, y, z, 0, v)
			}
		}
	}
	return img
}

func testConfig() config.Config {
	return config.New(
		config.WithNumOctaves(2),
		config.WithNumIter(100),
		config.WithSeed(7),
	)
}

func TestRegisterIdentityRecoversNearIdentityTransform(t *testing.T) {
	img := multiBlobVolume(48)
	cfg := testConfig()

	res, err := registration.Register(img, img, cfg)
	require.NoError(t, err)
	require.NotNil(t, res.Transform)

	var frobDiff float32
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			d := res.Transform.A[i][j]
			if i == j {
				d -= 1
			}
			frobDiff += d * d
		}
	}
	var tNorm float32
	for _, v := range res.Transform.T {
		tNorm += v * v
	}
	require.Less(t, math32.Sqrt(frobDiff)+math32.Sqrt(tNorm), float32(0.5))
}

func TestRegisterRejectsInvalidDimensions(t *testing.T) {
	src := volume.New(10, 10, 10, 1)
	ref := &volume.Image{Nx: 0, Ny: 0, Nz: 0, Nc: 0}
	_, err := registration.Register(src, ref, testConfig())
	require.Error(t, err)
}

func TestRegisterRejectsInvalidConfig(t *testing.T) {
	img := volume.New(16, 16, 16, 1)
	bad := config.New(config.WithNumIntervals(0))
	_, err := registration.Register(img, img, bad)
	require.Error(t, err)
}
