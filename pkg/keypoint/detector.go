package keypoint

import (
	"github.com/chewxy/math32"

	"github.com/itohio/volreg3d/pkg/core/config"
	"github.com/itohio/volreg3d/pkg/core/logger"
	"github.com/itohio/volreg3d/pkg/core/math/mat"
	"github.com/itohio/volreg3d/pkg/pyramid"
	"github.com/itohio/volreg3d/pkg/volume"
)

const maxRefineIterations = 5

// Detect scans every interior DoG level for scale-space extrema, prunes low
// contrast and edge-like candidates, refines survivors to sub-voxel
// precision and assigns each a canonical orientation frame (§4.2). Failures
// local to a single candidate (non-invertible Hessian, degenerate structure
// tensor) drop that candidate without allocating an error (§7).
func Detect(gauss *pyramid.Gaussian, dog *pyramid.DoG, cfg config.Config) *Store {
	store := &Store{}
	for o, levels := range dog.Octaves {
		for s := 1; s < len(levels)-1; s++ {
			img := levels[s].Image
			for z := 1; z < img.Nz-1; z++ {
				for y := 1; y < img.Ny-1; y++ {
					for x := 1; x < img.Nx-1; x++ {
						if !isLocalExtremum(levels, s, x, y, z) {
							continue
						}
						val := img.At(x, y, z, 0)
						if math32.Abs(val) < cfg.PeakThresh {
							continue
						}
						if isEdgeLike(img, x, y, z, cfg.EdgeThresh) {
							continue
						}
						dx, dy, dz, ds, rx, ry, rz, rs, ok := refineLocation(levels, s, x, y, z, cfg.PeakThresh)
						if !ok {
							logger.Log.Debug().Int("octave", o).Msg("keypoint refinement failed, dropping candidate")
							continue
						}
						kp, ok := assignOrientation(gauss, o, rs, rx+dx, ry+dy, rz+dz, cfg)
						if !ok {
							logger.Log.Debug().Int("octave", o).Msg("orientation assignment failed, dropping candidate")
							continue
						}
						store.Append(kp)
					}
				}
			}
		}
	}
	return store
}

func isLocalExtremum(levels []pyramid.Level, s, x, y, z int) bool {
	cur := levels[s].Image
	v := cur.At(x, y, z, 0)

	isMax, isMin := true, true
	for dz := -1; dz <= 1; dz++ {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 && dz == 0 {
					continue
				}
				n := cur.At(x+dx, y+dy, z+dz, 0)
				if n >= v {
					isMax = false
				}
				if n <= v {
					isMin = false
				}
			}
		}
	}
	if !isMax && !isMin {
		return false
	}

	for _, adj := range []*volume.Image{levels[s-1].Image, levels[s+1].Image} {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				n := adj.At(x+dx, y+dy, z, 0)
				if n >= v {
					isMax = false
				}
				if n <= v {
					isMin = false
				}
			}
		}
	}
	return isMax || isMin
}

// isEdgeLike applies the §4.2 principal-curvature test to the 3x3 spatial
// Hessian of the DoG level at (x, y, z): reject when det(H) <= 0 or
// tr(H)^2/det(H) >= (r+1)^2/r.
func isEdgeLike(img *volume.Image, x, y, z int, r float32) bool {
	f := func(dx, dy, dz int) float32 { return img.At(x+dx, y+dy, z+dz, 0) }
	v := f(0, 0, 0)

	dxx := f(1, 0, 0) - 2*v + f(-1, 0, 0)
	dyy := f(0, 1, 0) - 2*v + f(0, -1, 0)
	dzz := f(0, 0, 1) - 2*v + f(0, 0, -1)
	dxy := (f(1, 1, 0) - f(1, -1, 0) - f(-1, 1, 0) + f(-1, -1, 0)) / 4
	dxz := (f(1, 0, 1) - f(1, 0, -1) - f(-1, 0, 1) + f(-1, 0, -1)) / 4
	dyz := (f(0, 1, 1) - f(0, 1, -1) - f(0, -1, 1) + f(0, -1, -1)) / 4

	trace := dxx + dyy + dzz
	det := dxx*(dyy*dzz-dyz*dyz) - dxy*(dxy*dzz-dyz*dxz) + dxz*(dxy*dyz-dyy*dxz)
	if det <= 0 {
		return true
	}
	thresh := (r + 1) * (r + 1) / r
	return (trace*trace)/det >= thresh
}

// refineLocation performs the sub-voxel quadratic refinement of §4.2,
// retrying at a shifted integer voxel when any computed offset exceeds 0.5,
// up to maxRefineIterations times. It returns the fractional remainder
// offsets, the final integer voxel/level, and ok, which is true only when
// refinement converged and the refined contrast is at least contrastThresh.
func refineLocation(levels []pyramid.Level, s, x, y, z int, contrastThresh float32) (dx, dy, dz, ds float32, rx, ry, rz, rs int, ok bool) {
	rx, ry, rz, rs = x, y, z, s
	for iter := 0; iter < maxRefineIterations; iter++ {
		if rs-1 < 0 || rs+1 >= len(levels) {
			return 0, 0, 0, 0, rx, ry, rz, rs, false
		}
		lo, cur, hi := levels[rs-1].Image, levels[rs].Image, levels[rs+1].Image
		if !cur.InBounds(rx-1, ry-1, rz-1) || !cur.InBounds(rx+1, ry+1, rz+1) {
			return 0, 0, 0, 0, rx, ry, rz, rs, false
		}

		fx := func(im *volume.Image, ddx, ddy, ddz int) float32 { return im.At(rx+ddx, ry+ddy, rz+ddz, 0) }
		v := fx(cur, 0, 0, 0)

		gx := (fx(cur, 1, 0, 0) - fx(cur, -1, 0, 0)) / 2
		gy := (fx(cur, 0, 1, 0) - fx(cur, 0, -1, 0)) / 2
		gz := (fx(cur, 0, 0, 1) - fx(cur, 0, 0, -1)) / 2
		gs := (hi.At(rx, ry, rz, 0) - lo.At(rx, ry, rz, 0)) / 2

		dxx := fx(cur, 1, 0, 0) - 2*v + fx(cur, -1, 0, 0)
		dyy := fx(cur, 0, 1, 0) - 2*v + fx(cur, 0, -1, 0)
		dzz := fx(cur, 0, 0, 1) - 2*v + fx(cur, 0, 0, -1)
		dss := hi.At(rx, ry, rz, 0) - 2*v + lo.At(rx, ry, rz, 0)

		dxy := (fx(cur, 1, 1, 0) - fx(cur, 1, -1, 0) - fx(cur, -1, 1, 0) + fx(cur, -1, -1, 0)) / 4
		dxz := (fx(cur, 1, 0, 1) - fx(cur, 1, 0, -1) - fx(cur, -1, 0, 1) + fx(cur, -1, 0, -1)) / 4
		dyz := (fx(cur, 0, 1, 1) - fx(cur, 0, 1, -1) - fx(cur, 0, -1, 1) + fx(cur, 0, -1, -1)) / 4
		dxs := (hi.At(rx+1, ry, rz, 0) - hi.At(rx-1, ry, rz, 0) - lo.At(rx+1, ry, rz, 0) + lo.At(rx-1, ry, rz, 0)) / 4
		dys := (hi.At(rx, ry+1, rz, 0) - hi.At(rx, ry-1, rz, 0) - lo.At(rx, ry+1, rz, 0) + lo.At(rx, ry-1, rz, 0)) / 4
		dzs := (hi.At(rx, ry, rz+1, 0) - hi.At(rx, ry, rz-1, 0) - lo.At(rx, ry, rz+1, 0) + lo.At(rx, ry, rz-1, 0)) / 4

		H := mat.New(4, 4)
		H[0][0], H[0][1], H[0][2], H[0][3] = dxx, dxy, dxz, dxs
		H[1][0], H[1][1], H[1][2], H[1][3] = dxy, dyy, dyz, dys
		H[2][0], H[2][1], H[2][2], H[2][3] = dxz, dyz, dzz, dzs
		H[3][0], H[3][1], H[3][2], H[3][3] = dxs, dys, dzs, dss

		Hinv := mat.New(4, 4)
		if err := H.Inverse(Hinv); err != nil {
			return 0, 0, 0, 0, rx, ry, rz, rs, false
		}

		g := []float32{gx, gy, gz, gs}
		var off [4]float32
		for i := 0; i < 4; i++ {
			var acc float32
			for j := 0; j < 4; j++ {
				acc += Hinv[i][j] * g[j]
			}
			off[i] = -acc
		}

		if math32.Abs(off[0]) <= 0.5 && math32.Abs(off[1]) <= 0.5 && math32.Abs(off[2]) <= 0.5 && math32.Abs(off[3]) <= 0.5 {
			refinedVal := v + 0.5*(gx*off[0]+gy*off[1]+gz*off[2]+gs*off[3])
			if math32.Abs(refinedVal) < contrastThresh {
				return 0, 0, 0, 0, rx, ry, rz, rs, false
			}
			return off[0], off[1], off[2], off[3], rx, ry, rz, rs, true
		}

		rx += roundOffset(off[0])
		ry += roundOffset(off[1])
		rz += roundOffset(off[2])
		rs += roundOffset(off[3])
	}
	return 0, 0, 0, 0, rx, ry, rz, rs, false
}

func roundOffset(v float32) int {
	if v > 0.5 {
		return 1
	}
	if v < -0.5 {
		return -1
	}
	return 0
}

// assignOrientation builds the canonical rotation frame of §4.2: a structure
// tensor is accumulated over a Gaussian-weighted spherical window on the
// Gaussian pyramid level nearest the keypoint's scale, then eigen-decomposed
// via SVD (valid since the tensor is symmetric positive-semidefinite).
func assignOrientation(gauss *pyramid.Gaussian, o int, s int, x, y, z float32, cfg config.Config) (Keypoint, bool) {
	octave := gauss.Octaves[o]
	level := octave[s]
	sigmaKey := cfg.Sigma0 * math32.Pow(2, float32(o)+float32(s)/float32(cfg.NumIntervals))

	radius := 1.5 * sigmaKey
	ri := int(math32.Ceil(radius))
	img := level.Image

	M := mat.New(3, 3)
	var any bool
	for dz := -ri; dz <= ri; dz++ {
		for dy := -ri; dy <= ri; dy++ {
			for dx := -ri; dx <= ri; dx++ {
				r2 := float32(dx*dx + dy*dy + dz*dz)
				if r2 > radius*radius {
					continue
				}
				xi, yi, zi := int(x)+dx, int(y)+dy, int(z)+dz
				if !img.InBounds(xi-1, yi-1, zi-1) || !img.InBounds(xi+1, yi+1, zi+1) {
					continue
				}
				gx := (img.At(xi+1, yi, zi, 0) - img.At(xi-1, yi, zi, 0)) / 2
				gy := (img.At(xi, yi+1, zi, 0) - img.At(xi, yi-1, zi, 0)) / 2
				gz := (img.At(xi, yi, zi+1, 0) - img.At(xi, yi, zi-1, 0)) / 2
				w := math32.Exp(-r2 / (2 * radius * radius))
				any = true
				M[0][0] += w * gx * gx
				M[0][1] += w * gx * gy
				M[0][2] += w * gx * gz
				M[1][1] += w * gy * gy
				M[1][2] += w * gy * gz
				M[2][2] += w * gz * gz
			}
		}
	}
	if !any {
		return Keypoint{}, false
	}
	M[1][0] = M[0][1]
	M[2][0] = M[0][2]
	M[2][1] = M[1][2]

	var svd mat.SVDResult
	if err := M.SVD(&svd); err != nil {
		return Keypoint{}, false
	}

	order := []int{0, 1, 2}
	for i := 0; i < 3; i++ {
		for j := i + 1; j < 3; j++ {
			if svd.S[order[j]] > svd.S[order[i]] {
				order[i], order[j] = order[j], order[i]
			}
		}
	}

	R := mat.New(3, 3)
	for col, idx := range order {
		for row := 0; row < 3; row++ {
			R[row][col] = svd.U[row][idx]
		}
	}
	if R.Det() < 0 {
		for row := 0; row < 3; row++ {
			R[row][2] = -R[row][2]
		}
	}

	return Keypoint{
		X: x * scaleToBase(o), Y: y * scaleToBase(o), Z: z * scaleToBase(o),
		Octave: o, Sublevel: s, Sigma: sigmaKey, R: R,
	}, true
}

// scaleToBase converts an octave-local voxel coordinate back to the
// pre-pyramid image's coordinate space: octave 0 is itself a 2x up-sample
// (§4.1), so a unit step there is half a unit in the original image.
func scaleToBase(o int) float32 {
	return math32.Pow(2, float32(o-1))
}
