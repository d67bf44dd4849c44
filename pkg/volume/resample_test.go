package volume

import "testing"

func TestTrilinearAtExactVoxel(t *testing.T) {
	img := New(3, 3, 3, 1)
	img.Set(1, 1, 1, 0, 5)
	if got := TrilinearAt(img, 1, 1, 1, 0); got != 5 {
		t.Fatalf("TrilinearAt at exact voxel = %v, want 5", got)
	}
}

func TestTrilinearAtMidpointAverages(t *testing.T) {
	img := New(2, 1, 1, 1)
	img.Set(0, 0, 0, 0, 0)
	img.Set(1, 0, 0, 0, 10)
	if got := TrilinearAt(img, 0.5, 0, 0, 0); got != 5 {
		t.Fatalf("TrilinearAt midpoint = %v, want 5", got)
	}
}

func TestTrilinearAtOutOfBoundsIsZero(t *testing.T) {
	img := New(2, 2, 2, 1)
	for i := range img.Data {
		img.Data[i] = 1
	}
	if got := TrilinearAt(img, -5, -5, -5, 0); got != 0 {
		t.Fatalf("TrilinearAt far out of bounds = %v, want 0", got)
	}
}

func TestResampleIdentityReproducesSource(t *testing.T) {
	src := New(4, 4, 4, 1)
	for i := range src.Data {
		src.Data[i] = float32(i)
	}
	dst := New(4, 4, 4, 1)
	Resample(dst, src, func(x, y, z float32) (float32, float32, float32) {
		return x, y, z
	})
	for i := range src.Data {
		if dst.Data[i] != src.Data[i] {
			t.Fatalf("identity resample mismatch at %d: got %v want %v", i, dst.Data[i], src.Data[i])
		}
	}
}

func TestUpsample2xDoublesDimensions(t *testing.T) {
	src := New(4, 5, 6, 1)
	dst := Upsample2x(src)
	if dst.Nx != 8 || dst.Ny != 10 || dst.Nz != 12 {
		t.Fatalf("Upsample2x dims = (%d,%d,%d), want (8,10,12)", dst.Nx, dst.Ny, dst.Nz)
	}
}

func TestDownsample2xHalvesDimensionsAndPicksEvenVoxels(t *testing.T) {
	src := New(4, 4, 4, 1)
	src.Set(2, 2, 2, 0, 9)
	dst := Downsample2x(src)
	if dst.Nx != 2 || dst.Ny != 2 || dst.Nz != 2 {
		t.Fatalf("Downsample2x dims = (%d,%d,%d), want (2,2,2)", dst.Nx, dst.Ny, dst.Nz)
	}
	if got := dst.At(1, 1, 1, 0); got != 9 {
		t.Fatalf("Downsample2x(1,1,1) = %v, want 9", got)
	}
}
