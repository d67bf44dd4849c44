package volume

import (
	"encoding/binary"
	"io"

	volerrors "github.com/itohio/volreg3d/pkg/core/errors"
)

// ReadRaw reads the minimal pixel-buffer stand-in §6 describes: a
// dims+spacing header (four little-endian uint32 for Nx, Ny, Nz, Nc,
// followed by three little-endian float32 for Ux, Uy, Uz), then the flat
// float32 voxel data in the canonical row-major layout. This exists purely
// so cmd/volreg3d is runnable without an imaging codec dependency; it is not
// a NIFTI/DICOM reader.
func ReadRaw(r io.Reader) (*Image, error) {
	var dims [4]uint32
	if err := binary.Read(r, binary.LittleEndian, &dims); err != nil {
		return nil, volerrors.New(volerrors.IORead, "volume.ReadRaw", err)
	}
	var spacing [3]float32
	if err := binary.Read(r, binary.LittleEndian, &spacing); err != nil {
		return nil, volerrors.New(volerrors.IORead, "volume.ReadRaw", err)
	}

	img := NewWithSpacing(int(dims[0]), int(dims[1]), int(dims[2]), int(dims[3]), spacing[0], spacing[1], spacing[2])
	if err := binary.Read(r, binary.LittleEndian, img.Data); err != nil {
		return nil, volerrors.New(volerrors.IORead, "volume.ReadRaw", err)
	}
	if err := img.Validate(); err != nil {
		return nil, err
	}
	return img, nil
}

// WriteRaw writes the format ReadRaw reads.
func WriteRaw(w io.Writer, img *Image) error {
	if err := img.Validate(); err != nil {
		return err
	}
	dims := [4]uint32{uint32(img.Nx), uint32(img.Ny), uint32(img.Nz), uint32(img.Nc)}
	if err := binary.Write(w, binary.LittleEndian, dims); err != nil {
		return volerrors.New(volerrors.IOWrite, "volume.WriteRaw", err)
	}
	spacing := [3]float32{img.Ux, img.Uy, img.Uz}
	if err := binary.Write(w, binary.LittleEndian, spacing); err != nil {
		return volerrors.New(volerrors.IOWrite, "volume.WriteRaw", err)
	}
	if err := binary.Write(w, binary.LittleEndian, img.Data); err != nil {
		return volerrors.New(volerrors.IOWrite, "volume.WriteRaw", err)
	}
	return nil
}
