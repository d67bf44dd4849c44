package transform

import (
	"bufio"
	"fmt"
	"io"

	volerrors "github.com/itohio/volreg3d/pkg/core/errors"
)

// Save writes m's affine parameters as whitespace-separated rows: the three
// rows of A, then T on its own row (§6).
func Save(w io.Writer, m Model) error {
	a, ok := m.(*Affine)
	if !ok {
		return volerrors.New(volerrors.UnsupportedFormat, "transform.Save", nil)
	}
	bw := bufio.NewWriter(w)
	for _, row := range a.A {
		if _, err := fmt.Fprintf(bw, "%g %g %g\n", row[0], row[1], row[2]); err != nil {
			return volerrors.New(volerrors.IOWrite, "transform.Save", err)
		}
	}
	if _, err := fmt.Fprintf(bw, "%g %g %g\n", a.T[0], a.T[1], a.T[2]); err != nil {
		return volerrors.New(volerrors.IOWrite, "transform.Save", err)
	}
	if err := bw.Flush(); err != nil {
		return volerrors.New(volerrors.IOWrite, "transform.Save", err)
	}
	return nil
}

// Load reads the format Save writes.
func Load(r io.Reader) (*Affine, error) {
	a := &Affine{}
	br := bufio.NewReader(r)
	for i := 0; i < 3; i++ {
		if _, err := fmt.Fscan(br, &a.A[i][0], &a.A[i][1], &a.A[i][2]); err != nil {
			return nil, volerrors.New(volerrors.IORead, "transform.Load", err)
		}
	}
	if _, err := fmt.Fscan(br, &a.T[0], &a.T[1], &a.T[2]); err != nil {
		return nil, volerrors.New(volerrors.IORead, "transform.Load", err)
	}
	return a, nil
}
