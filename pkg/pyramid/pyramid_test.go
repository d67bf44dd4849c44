package pyramid

import (
	"testing"

	"github.com/chewxy/math32"

	"github.com/itohio/volreg3d/pkg/volume"
)

func TestBuildGaussianLevelCountPerOctave(t *testing.T) {
	src := volume.New(100, 80, 60, 1)
	g := BuildGaussian(src, 1.6, 0.5, 3, 0)
	for o, levels := range g.Octaves {
		if len(levels) != 6 {
			t.Fatalf("octave %d has %d levels, want 6", o, len(levels))
		}
	}
}

func TestBuildGaussianOctaveCountAndShapes(t *testing.T) {
	src := volume.New(100, 80, 60, 1)
	g := BuildGaussian(src, 1.6, 0.5, 3, 0)
	if len(g.Octaves) != 4 {
		t.Fatalf("octave count = %d, want 4", len(g.Octaves))
	}
	wantNx := []int{200, 100, 50, 25}
	for o, levels := range g.Octaves {
		if levels[0].Image.Nx != wantNx[o] {
			t.Fatalf("octave %d Nx = %d, want %d", o, levels[0].Image.Nx, wantNx[o])
		}
	}
}

func TestBuildGaussianScaleLaw(t *testing.T) {
	src := volume.New(32, 32, 32, 1)
	numIntervals := 3
	sigma0 := float32(1.6)
	g := BuildGaussian(src, sigma0, 0.5, numIntervals, 2)
	for o, levels := range g.Octaves {
		for s, lvl := range levels {
			want := sigma0 * math32.Pow(2, float32(o)+float32(s)/float32(numIntervals))
			if math32.Abs(lvl.Sigma-want) > 1e-3 {
				t.Fatalf("octave %d level %d sigma = %v, want %v", o, s, lvl.Sigma, want)
			}
		}
	}
}

func TestBuildDoGLevelCount(t *testing.T) {
	src := volume.New(32, 32, 32, 1)
	g := BuildGaussian(src, 1.6, 0.5, 3, 2)
	dog := BuildDoG(g)
	for o, levels := range dog.Octaves {
		if len(levels) != 5 {
			t.Fatalf("DoG octave %d has %d levels, want 5", o, len(levels))
		}
	}
}

func TestBuildDoGDimensionsMatchGaussian(t *testing.T) {
	src := volume.New(32, 32, 32, 1)
	g := BuildGaussian(src, 1.6, 0.5, 3, 1)
	dog := BuildDoG(g)
	gi := g.Octaves[0][0].Image
	di := dog.Octaves[0][0].Image
	if di.Nx != gi.Nx || di.Ny != gi.Ny || di.Nz != gi.Nz {
		t.Fatalf("DoG dims (%d,%d,%d) != Gaussian dims (%d,%d,%d)", di.Nx, di.Ny, di.Nz, gi.Nx, gi.Ny, gi.Nz)
	}
}
