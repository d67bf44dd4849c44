package transform

import (
	"github.com/itohio/volreg3d/pkg/core/math/mat"
)

// Affine is A*x + t, the only transform §4.5 requires RANSAC to fit.
type Affine struct {
	A [3][3]float32
	T [3]float32
}

// NewIdentityAffine returns the identity transform.
func NewIdentityAffine() *Affine {
	a := &Affine{}
	a.A[0][0], a.A[1][1], a.A[2][2] = 1, 1, 1
	return a
}

func (a *Affine) Apply(x, y, z float32) (float32, float32, float32) {
	return a.A[0][0]*x + a.A[0][1]*y + a.A[0][2]*z + a.T[0],
		a.A[1][0]*x + a.A[1][1]*y + a.A[1][2]*z + a.T[1],
		a.A[2][0]*x + a.A[2][1]*y + a.A[2][2]*z + a.T[2]
}

func (a *Affine) Inverse(x, y, z float32) (float32, float32, float32) {
	inv, ok := a.invertA()
	if !ok {
		return 0, 0, 0
	}
	px, py, pz := x-a.T[0], y-a.T[1], z-a.T[2]
	return inv[0][0]*px + inv[0][1]*py + inv[0][2]*pz,
		inv[1][0]*px + inv[1][1]*py + inv[1][2]*pz,
		inv[2][0]*px + inv[2][1]*py + inv[2][2]*pz
}

// Parameters flattens A row-major followed by T, 12 values total.
func (a *Affine) Parameters() []float32 {
	return []float32{
		a.A[0][0], a.A[0][1], a.A[0][2],
		a.A[1][0], a.A[1][1], a.A[1][2],
		a.A[2][0], a.A[2][1], a.A[2][2],
		a.T[0], a.T[1], a.T[2],
	}
}

func (a *Affine) MinSampleSize() int { return 4 }

// FitLeastSquares solves the overdetermined system ref = A*src + t via
// mat.Matrix.PseudoInverse, which forms the normal equations (X^T X)^-1 X^T
// and inverts them by LU. No SVD is used, so a rank-deficient design matrix
// (for example, all source points coplanar) makes the fit return false.
func (a *Affine) FitLeastSquares(src, ref [][3]float32) bool {
	n := len(src)
	if n < a.MinSampleSize() || n != len(ref) {
		return false
	}

	X := mat.New(n, 4)
	Y := mat.New(n, 3)
	for i := 0; i < n; i++ {
		X[i][0], X[i][1], X[i][2], X[i][3] = src[i][0], src[i][1], src[i][2], 1
		Y[i][0], Y[i][1], Y[i][2] = ref[i][0], ref[i][1], ref[i][2]
	}

	Xpinv := mat.New(4, n)
	if err := X.PseudoInverse(Xpinv); err != nil {
		return false
	}

	params := mat.New(4, 3)
	params.Mul(Xpinv, Y)

	for out := 0; out < 3; out++ {
		a.A[out][0] = params[0][out]
		a.A[out][1] = params[1][out]
		a.A[out][2] = params[2][out]
		a.T[out] = params[3][out]
	}
	return true
}

func (a *Affine) invertA() (mat.Matrix3x3, bool) {
	m := mat.Matrix3x3(a.A)
	var inv mat.Matrix3x3
	if err := m.Inverse(&inv); err != nil {
		return inv, false
	}
	return inv, true
}

var _ Model = (*Affine)(nil)
