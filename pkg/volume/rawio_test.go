package volume

import (
	"bytes"
	"testing"
)

func TestWriteRawReadRawRoundTrip(t *testing.T) {
	img := NewWithSpacing(2, 3, 4, 1, 0.5, 0.5, 1.0)
	for i := range img.Data {
		img.Data[i] = float32(i)
	}

	var buf bytes.Buffer
	if err := WriteRaw(&buf, img); err != nil {
		t.Fatalf("WriteRaw: %v", err)
	}

	got, err := ReadRaw(&buf)
	if err != nil {
		t.Fatalf("ReadRaw: %v", err)
	}
	if got.Nx != img.Nx || got.Ny != img.Ny || got.Nz != img.Nz || got.Nc != img.Nc {
		t.Fatalf("dims mismatch: got (%d,%d,%d,%d)", got.Nx, got.Ny, got.Nz, got.Nc)
	}
	for i := range img.Data {
		if got.Data[i] != img.Data[i] {
			t.Fatalf("data mismatch at %d: got %v want %v", i, got.Data[i], img.Data[i])
		}
	}
}
