package volume

import "github.com/chewxy/math32"

// TrilinearAt samples channel c of img at fractional voxel coordinates
// (x, y, z) using trilinear interpolation. Samples that fall entirely
// outside the volume return 0 (§4.6); samples that straddle the boundary
// clamp their out-of-range corners to 0 contribution rather than to the
// nearest voxel, matching "out-of-bounds inverse samples yield 0".
func TrilinearAt(img *Image, x, y, z float32, c int) float32 {
	x0 := math32.Floor(x)
	y0 := math32.Floor(y)
	z0 := math32.Floor(z)
	fx := x - x0
	fy := y - y0
	fz := z - z0
	ix0, iy0, iz0 := int(x0), int(y0), int(z0)

	sample := func(dx, dy, dz int) float32 {
		xi, yi, zi := ix0+dx, iy0+dy, iz0+dz
		if !img.InBounds(xi, yi, zi) {
			return 0
		}
		return img.At(xi, yi, zi, c)
	}

	c00 := sample(0, 0, 0)*(1-fx) + sample(1, 0, 0)*fx
	c10 := sample(0, 1, 0)*(1-fx) + sample(1, 1, 0)*fx
	c01 := sample(0, 0, 1)*(1-fx) + sample(1, 0, 1)*fx
	c11 := sample(0, 1, 1)*(1-fx) + sample(1, 1, 1)*fx

	c0 := c00*(1-fy) + c10*fy
	c1 := c01*(1-fy) + c11*fy

	return c0*(1-fz) + c1*fz
}

// InverseMap maps an output-space voxel coordinate to the fractional
// input-space voxel coordinate to sample from, i.e. T^-1 applied to the
// output coordinate.
type InverseMap func(x, y, z float32) (float32, float32, float32)

// Resample fills dst with I_in(T^-1(x)) for every voxel of dst, trilinearly
// interpolating src and writing 0 where the inverse-mapped sample falls
// outside src (§4.6). dst's dimensions and spacing are caller-supplied; this
// never infers an output size.
func Resample(dst, src *Image, inv InverseMap) {
	for z := 0; z < dst.Nz; z++ {
		for y := 0; y < dst.Ny; y++ {
			for x := 0; x < dst.Nx; x++ {
				sx, sy, sz := inv(float32(x), float32(y), float32(z))
				for c := 0; c < dst.Nc && c < src.Nc; c++ {
					dst.Set(x, y, z, c, TrilinearAt(src, sx, sy, sz, c))
				}
			}
		}
	}
}

// Upsample2x produces an image with twice the resolution along every axis,
// trilinearly interpolated from src. Used by the pyramid builder's initial
// 2x up-sample (§4.1 step 1).
func Upsample2x(src *Image) *Image {
	dst := New(src.Nx*2, src.Ny*2, src.Nz*2, src.Nc)
	dst.Ux, dst.Uy, dst.Uz = src.Ux/2, src.Uy/2, src.Uz/2
	Resample(dst, src, func(x, y, z float32) (float32, float32, float32) {
		return x / 2, y / 2, z / 2
	})
	return dst
}

// Downsample2x decimates src by a factor of 2 along every axis with no
// additional blur (stride-2 sampling), as required when forming the base of
// the next pyramid octave (§4.1 step 3).
func Downsample2x(src *Image) *Image {
	nx, ny, nz := src.Nx/2, src.Ny/2, src.Nz/2
	dst := New(nx, ny, nz, src.Nc)
	dst.Ux, dst.Uy, dst.Uz = src.Ux*2, src.Uy*2, src.Uz*2
	for z := 0; z < nz; z++ {
		for y := 0; y < ny; y++ {
			for x := 0; x < nx; x++ {
				for c := 0; c < src.Nc; c++ {
					dst.Set(x, y, z, c, src.At(x*2, y*2, z*2, c))
				}
			}
		}
	}
	return dst
}
