// Package volume implements the dense 4D voxel buffer (§3 Image) and the
// trilinear inverse-map resampler (§4.6) the rest of the core operates on.
package volume

import (
	volerrors "github.com/itohio/volreg3d/pkg/core/errors"
)

// Image is a dense (x, y, z, channel) buffer of 32-bit floats with explicit
// element strides and voxel spacing. A default-constructed Image owns no
// buffer. Invariants (§3): Sx = Nc, Sy = Nc*Nx, Sz = Nc*Nx*Ny unless an
// explicit resample changes them; len(Data) = Nc*Nx*Ny*Nz.
type Image struct {
	Nx, Ny, Nz, Nc int
	Sx, Sy, Sz, Sc int
	Ux, Uy, Uz     float32
	Data           []float32
}

// New allocates an Image of the given dimensions with canonical strides and
// unit voxel spacing.
func New(nx, ny, nz, nc int) *Image {
	img := &Image{
		Nx: nx, Ny: ny, Nz: nz, Nc: nc,
		Ux: 1, Uy: 1, Uz: 1,
	}
	img.resetStrides()
	img.Data = make([]float32, nc*nx*ny*nz)
	return img
}

// NewWithSpacing allocates an Image and sets its voxel spacing.
func NewWithSpacing(nx, ny, nz, nc int, ux, uy, uz float32) *Image {
	img := New(nx, ny, nz, nc)
	img.Ux, img.Uy, img.Uz = ux, uy, uz
	return img
}

func (img *Image) resetStrides() {
	img.Sc = 1
	img.Sx = img.Nc
	img.Sy = img.Nc * img.Nx
	img.Sz = img.Nc * img.Nx * img.Ny
}

// IsCanonical reports whether the image's strides match the default
// row-major layout implied by its dimensions.
func (img *Image) IsCanonical() bool {
	return img.Sc == 1 && img.Sx == img.Nc && img.Sy == img.Nc*img.Nx && img.Sz == img.Nc*img.Nx*img.Ny
}

func (img *Image) index(x, y, z, c int) int {
	return x*img.Sx + y*img.Sy + z*img.Sz + c*img.Sc
}

// InBounds reports whether (x, y, z) is a valid voxel index.
func (img *Image) InBounds(x, y, z int) bool {
	return x >= 0 && x < img.Nx && y >= 0 && y < img.Ny && z >= 0 && z < img.Nz
}

// At returns the value of channel c at voxel (x, y, z).
func (img *Image) At(x, y, z, c int) float32 {
	return img.Data[img.index(x, y, z, c)]
}

// Set stores v in channel c at voxel (x, y, z).
func (img *Image) Set(x, y, z, c int, v float32) {
	img.Data[img.index(x, y, z, c)] = v
}

// AtClamped returns channel c at (x, y, z), clamping out-of-range indices to
// the nearest valid voxel (plain edge-clamp; the convolution kernel handles
// its boundary separately by reflection).
func (img *Image) AtClamped(x, y, z, c int) float32 {
	if x < 0 {
		x = 0
	} else if x >= img.Nx {
		x = img.Nx - 1
	}
	if y < 0 {
		y = 0
	} else if y >= img.Ny {
		y = img.Ny - 1
	}
	if z < 0 {
		z = 0
	} else if z >= img.Nz {
		z = img.Nz - 1
	}
	return img.At(x, y, z, c)
}

// Clone returns a deep copy of img.
func (img *Image) Clone() *Image {
	clone := *img
	clone.Data = make([]float32, len(img.Data))
	copy(clone.Data, img.Data)
	return &clone
}

// Validate checks the §3 structural invariants, returning ERR_BAD_DIMENSIONS
// on violation.
func (img *Image) Validate() error {
	if img.Nx <= 0 || img.Ny <= 0 || img.Nz <= 0 || img.Nc <= 0 {
		return volerrors.New(volerrors.BadDimensions, "volume.Image.Validate", nil)
	}
	want := img.Nc * img.Nx * img.Ny * img.Nz
	if len(img.Data) != want {
		return volerrors.New(volerrors.BadDimensions, "volume.Image.Validate", nil)
	}
	return nil
}
