package descriptor

import (
	"github.com/chewxy/math32"

	"github.com/itohio/volreg3d/pkg/core/logger"
	"github.com/itohio/volreg3d/pkg/core/math/mat"
	"github.com/itohio/volreg3d/pkg/keypoint"
	"github.com/itohio/volreg3d/pkg/mesh"
	"github.com/itohio/volreg3d/pkg/pyramid"
)

const (
	gridSize      = 4
	samplesPerBin = 2
	clipValue     = 0.2
)

// Extractor holds the icosahedral orientation mesh and the per-face inverse
// matrices used to barycentrically bin a gradient direction, precomputed
// once and shared read-only across every extraction in a run, matching the
// teacher's pattern of computing a geometric table once rather than per call
// (pkg/core/math/grid.RayDirections).
type Extractor struct {
	Mesh    *mesh.Mesh
	faceInv []mat.Matrix
	numBins int
}

// NewExtractor builds an Extractor over m, inverting the 3x3 vertex matrix
// of each face so bin lookups reduce to a single matrix-vector multiply.
func NewExtractor(m *mesh.Mesh) *Extractor {
	inv := make([]mat.Matrix, len(m.Faces))
	for i, f := range m.Faces {
		v0, v1, v2 := m.Vertices[f.V0], m.Vertices[f.V1], m.Vertices[f.V2]
		V := mat.New(3, 3)
		V[0][0], V[1][0], V[2][0] = v0[0], v0[1], v0[2]
		V[0][1], V[1][1], V[2][1] = v1[0], v1[1], v1[2]
		V[0][2], V[1][2], V[2][2] = v2[0], v2[1], v2[2]
		Vinv := mat.New(3, 3)
		if err := V.Inverse(Vinv); err != nil {
			inv[i] = nil
			continue
		}
		inv[i] = Vinv
	}
	return &Extractor{Mesh: m, faceInv: inv, numBins: m.NumBins()}
}

// binWeights finds the mesh face whose spherical triangle contains direction
// (dx, dy, dz) and returns its three vertex indices with normalized
// barycentric weights. Direction need not be a unit vector.
func (e *Extractor) binWeights(dx, dy, dz float32) (i0, i1, i2 int, w0, w1, w2 float32, ok bool) {
	const eps = 1e-4
	for fi, f := range e.Mesh.Faces {
		Vinv := e.faceInv[fi]
		if Vinv == nil {
			continue
		}
		a := Vinv[0][0]*dx + Vinv[0][1]*dy + Vinv[0][2]*dz
		b := Vinv[1][0]*dx + Vinv[1][1]*dy + Vinv[1][2]*dz
		c := Vinv[2][0]*dx + Vinv[2][1]*dy + Vinv[2][2]*dz
		if a < -eps || b < -eps || c < -eps {
			continue
		}
		sum := a + b + c
		if sum <= 1e-8 {
			continue
		}
		return f.V0, f.V1, f.V2, a / sum, b / sum, c / sum, true
	}
	return 0, 0, 0, 0, 0, 0, false
}

// Extract builds the descriptor for keypoint kp, drawn from the Gaussian
// level it was detected at. It samples a dense grid inside the cubic region
// of half-width sqrt(3)*2*sigma rotated into the keypoint frame, splats each
// sample's rotated gradient trilinearly across the 2x2x2 neighboring
// spatial bins and barycentrically across the 3 nearest orientation-mesh
// vertices, then SIFT-normalizes the result (§4.3).
func (e *Extractor) Extract(gauss *pyramid.Gaussian, kp keypoint.Keypoint, keypointIndex int) (Descriptor, bool) {
	if kp.Octave < 0 || kp.Octave >= len(gauss.Octaves) {
		return Descriptor{}, false
	}
	octave := gauss.Octaves[kp.Octave]
	if kp.Sublevel < 0 || kp.Sublevel >= len(octave) {
		return Descriptor{}, false
	}
	img := octave[kp.Sublevel].Image

	rDesc := math32.Sqrt(3) * 2 * kp.Sigma
	sigmaW := rDesc / 2
	binWidth := (2 * rDesc) / gridSize
	sampleStep := binWidth / samplesPerBin
	samplesPerAxis := gridSize * samplesPerBin

	H := make([]float32, gridSize*gridSize*gridSize*e.numBins)

	R := kp.R
	if R == nil || len(R) != 3 {
		return Descriptor{}, false
	}

	// octave-local coordinates of the keypoint center, inverse of the
	// scaleToBase conversion applied when the keypoint was stored.
	localScale := math32.Pow(2, float32(1-kp.Octave))
	cx, cy, cz := kp.X*localScale, kp.Y*localScale, kp.Z*localScale

	var any bool
	for iz := 0; iz < samplesPerAxis; iz++ {
		lz := (float32(iz) + 0.5 - float32(samplesPerAxis)/2) * sampleStep
		for iy := 0; iy < samplesPerAxis; iy++ {
			ly := (float32(iy) + 0.5 - float32(samplesPerAxis)/2) * sampleStep
			for ix := 0; ix < samplesPerAxis; ix++ {
				lx := (float32(ix) + 0.5 - float32(samplesPerAxis)/2) * sampleStep

				// rotate local sample offset into world space: world = R * local
				wx := R[0][0]*lx + R[0][1]*ly + R[0][2]*lz
				wy := R[1][0]*lx + R[1][1]*ly + R[1][2]*lz
				wz := R[2][0]*lx + R[2][1]*ly + R[2][2]*lz

				px, py, pz := cx+wx, cy+wy, cz+wz
				xi, yi, zi := int(px), int(py), int(pz)
				if !img.InBounds(xi-1, yi-1, zi-1) || !img.InBounds(xi+1, yi+1, zi+1) {
					continue
				}

				gwx := (img.At(xi+1, yi, zi, 0) - img.At(xi-1, yi, zi, 0)) / 2
				gwy := (img.At(xi, yi+1, zi, 0) - img.At(xi, yi-1, zi, 0)) / 2
				gwz := (img.At(xi, yi, zi+1, 0) - img.At(xi, yi, zi-1, 0)) / 2

				// rotate gradient back into the keypoint frame: local = R^T * world
				glx := R[0][0]*gwx + R[1][0]*gwy + R[2][0]*gwz
				gly := R[0][1]*gwx + R[1][1]*gwy + R[2][1]*gwz
				glz := R[0][2]*gwx + R[1][2]*gwy + R[2][2]*gwz

				mag := math32.Sqrt(glx*glx + gly*gly + glz*glz)
				if mag < 1e-8 {
					continue
				}

				r2 := lx*lx + ly*ly + lz*lz
				weight := math32.Exp(-r2 / (2 * sigmaW * sigmaW))

				v0, v1, v2, w0, w1, w2, ok := e.binWeights(glx, gly, glz)
				if !ok {
					continue
				}

				bx := lx/binWidth + float32(gridSize)/2 - 0.5
				by := ly/binWidth + float32(gridSize)/2 - 0.5
				bz := lz/binWidth + float32(gridSize)/2 - 0.5

				splatSpatial(H, e.numBins, bx, by, bz, weight*mag, v0, w0)
				splatSpatial(H, e.numBins, bx, by, bz, weight*mag, v1, w1)
				splatSpatial(H, e.numBins, bx, by, bz, weight*mag, v2, w2)
				any = true
			}
		}
	}
	if !any {
		logger.Log.Debug().Int("keypoint", keypointIndex).Msg("descriptor sample region entirely out of bounds")
		return Descriptor{}, false
	}

	normalize(H)

	return Descriptor{
		X: kp.X, Y: kp.Y, Z: kp.Z, Sigma: kp.Sigma,
		H: H, KeypointIndex: keypointIndex,
	}, true
}

// splatSpatial trilinearly distributes amount*vertexWeight into the 8
// spatial bins surrounding fractional grid position (bx, by, bz), for
// orientation bin vertex.
func splatSpatial(H []float32, numBins int, bx, by, bz, amount float32, vertex int, vertexWeight float32) {
	x0, y0, z0 := floorClamp(bx), floorClamp(by), floorClamp(bz)
	fx, fy, fz := bx-float32(x0), by-float32(y0), bz-float32(z0)

	for _, cxyz := range [2]int{0, 1} {
		xi := x0 + cxyz
		if xi < 0 || xi >= gridSize {
			continue
		}
		wx := lerpWeight(fx, cxyz)
		for _, cy := range [2]int{0, 1} {
			yi := y0 + cy
			if yi < 0 || yi >= gridSize {
				continue
			}
			wy := lerpWeight(fy, cy)
			for _, cz := range [2]int{0, 1} {
				zi := z0 + cz
				if zi < 0 || zi >= gridSize {
					continue
				}
				wz := lerpWeight(fz, cz)
				idx := ((zi*gridSize+yi)*gridSize+xi)*numBins + vertex
				H[idx] += amount * vertexWeight * wx * wy * wz
			}
		}
	}
}

func floorClamp(v float32) int {
	f := int(math32.Floor(v))
	if f < -1 {
		f = -1
	}
	if f > gridSize {
		f = gridSize
	}
	return f
}

func lerpWeight(frac float32, corner int) float32 {
	if corner == 0 {
		return 1 - frac
	}
	return frac
}

// normalize applies the SIFT-standard L2 normalize / clip(<=0.2) /
// renormalize sequence.
func normalize(H []float32) {
	l2Normalize(H)
	for i, v := range H {
		if v > clipValue {
			H[i] = clipValue
		}
	}
	l2Normalize(H)
}

func l2Normalize(H []float32) {
	var sumSq float32
	for _, v := range H {
		sumSq += v * v
	}
	if sumSq < 1e-12 {
		return
	}
	norm := math32.Sqrt(sumSq)
	for i := range H {
		H[i] /= norm
	}
}
