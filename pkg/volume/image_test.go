package volume

import "testing"

func TestNewCanonicalStrides(t *testing.T) {
	img := New(4, 5, 6, 2)
	if !img.IsCanonical() {
		t.Fatalf("expected canonical strides")
	}
	if img.Sx != 2 || img.Sy != 2*4 || img.Sz != 2*4*5 {
		t.Fatalf("unexpected strides: Sx=%d Sy=%d Sz=%d", img.Sx, img.Sy, img.Sz)
	}
	if len(img.Data) != 2*4*5*6 {
		t.Fatalf("unexpected buffer length %d", len(img.Data))
	}
}

func TestSetAtRoundTrip(t *testing.T) {
	img := New(3, 3, 3, 1)
	img.Set(1, 2, 0, 0, 3.5)
	if got := img.At(1, 2, 0, 0); got != 3.5 {
		t.Fatalf("At() = %v, want 3.5", got)
	}
}

func TestInBounds(t *testing.T) {
	img := New(2, 2, 2, 1)
	if !img.InBounds(0, 0, 0) || !img.InBounds(1, 1, 1) {
		t.Fatalf("expected corner voxels in bounds")
	}
	if img.InBounds(2, 0, 0) || img.InBounds(-1, 0, 0) {
		t.Fatalf("expected out-of-range voxels out of bounds")
	}
}

func TestValidateRejectsBadDimensions(t *testing.T) {
	img := &Image{Nx: 0, Ny: 1, Nz: 1, Nc: 1}
	if err := img.Validate(); err == nil {
		t.Fatalf("expected error for zero dimension")
	}
}

func TestValidateRejectsMismatchedBuffer(t *testing.T) {
	img := New(2, 2, 2, 1)
	img.Data = img.Data[:len(img.Data)-1]
	if err := img.Validate(); err == nil {
		t.Fatalf("expected error for short buffer")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	img := New(2, 2, 2, 1)
	img.Set(0, 0, 0, 0, 1)
	clone := img.Clone()
	clone.Set(0, 0, 0, 0, 2)
	if img.At(0, 0, 0, 0) != 1 {
		t.Fatalf("expected original image unaffected by clone mutation")
	}
}
