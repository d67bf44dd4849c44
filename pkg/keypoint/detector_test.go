package keypoint_test

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/require"

	"github.com/itohio/volreg3d/pkg/core/config"
	"github.com/itohio/volreg3d/pkg/keypoint"
	"github.com/itohio/volreg3d/pkg/pyramid"
	"github.com/itohio/volreg3d/pkg/volume"
)

func blob(nx, ny, nz int, cx, cy, cz, amp float32) *volume.Image {
	img := volume.New(nx, ny, nz, 1)
	for z := 0; z < nz; z++ {
		for y := 0; y < ny; y++ {
			for x := 0; x < nx; x++ {
				dx, dy, dz := float32(x)-cx, float32(y)-cy, float32(z)-cz
				r2 := dx*dx + dy*dy + dz*dz
				img.Set(x, y, z, 0, amp*math32.Exp(-r2/8))
			}
		}
	}
	return img
}

func TestDetectKeypointCoordinatesWithinImageBounds(t *testing.T) {
	cfg := config.New(config.WithNumOctaves(1))
	src := blob(32, 32, 32, 16, 16, 16, 50)
	g := pyramid.BuildGaussian(src, cfg.Sigma0, cfg.SigmaN, cfg.NumIntervals, cfg.NumOctaves)
	dog := pyramid.BuildDoG(g)
	store := keypoint.Detect(g, dog, cfg)

	for _, kp := range store.Items {
		require.GreaterOrEqual(t, kp.X, float32(0))
		require.GreaterOrEqual(t, kp.Y, float32(0))
		require.GreaterOrEqual(t, kp.Z, float32(0))
		require.LessOrEqual(t, kp.X, float32(src.Nx))
		require.LessOrEqual(t, kp.Y, float32(src.Ny))
		require.LessOrEqual(t, kp.Z, float32(src.Nz))
		require.NotNil(t, kp.R)
		require.Len(t, kp.R, 3)
	}
}

func TestDetectFlatImageYieldsNoKeypoints(t *testing.T) {
	cfg := config.New(config.WithNumOctaves(1))
	src := volume.New(32, 32, 32, 1)
	g := pyramid.BuildGaussian(src, cfg.Sigma0, cfg.SigmaN, cfg.NumIntervals, cfg.NumOctaves)
	dog := pyramid.BuildDoG(g)
	store := keypoint.Detect(g, dog, cfg)
	require.Equal(t, 0, store.Len())
}

func TestStoreAppendGrowsItems(t *testing.T) {
	var s keypoint.Store
	s.Append(keypoint.Keypoint{X: 1})
	s.Append(keypoint.Keypoint{X: 2})
	require.Equal(t, 2, s.Len())
}
