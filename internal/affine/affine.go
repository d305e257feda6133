// Package affine provides realizable numeric transforms.
//
// An Affine maps an in-dimensional point to an out-dimensional point. It is
// stored as a homogeneous (out+1)×(in+1) matrix whose last row is
// [0 … 0 1]. A Sequence is an ordered list of Affines applied first to last.
package affine

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrDimensionMismatch is returned when dimensions of operands disagree.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrSingular is returned when inverting a non-invertible matrix.
	ErrSingular = errors.New("singular matrix")

	// ErrNotSquare is returned when an operation needs in == out.
	ErrNotSquare = errors.New("affine is not square")

	// ErrTooManyDims is returned when embedding more than three dimensions.
	ErrTooManyDims = errors.New("too many dimensions for 3-D embedding")
)

// DefaultTolerance is used by IsIdentity and the tests.
const DefaultTolerance = 1e-9

// Affine is an immutable affine map.
type Affine struct {
	in, out int
	m       *mat.Dense
}

func homogeneous(in, out int) *mat.Dense {
	m := mat.NewDense(out+1, in+1, nil)
	m.Set(out, in, 1)
	return m
}

// Identity returns the n-dimensional identity.
func Identity(n int) *Affine {
	m := homogeneous(n, n)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return &Affine{in: n, out: n, m: m}
}

// Scale returns a diagonal map with the given factors.
func Scale(factors ...float64) *Affine {
	n := len(factors)
	m := homogeneous(n, n)
	for i, f := range factors {
		m.Set(i, i, f)
	}
	return &Affine{in: n, out: n, m: m}
}

// Translation returns a pure offset map.
func Translation(offsets ...float64) *Affine {
	n := len(offsets)
	a := Identity(n)
	for i, t := range offsets {
		a.m.Set(i, n, t)
	}
	return a
}

// FromRows builds an affine from out rows of length in+1. The last column of
// each row is the translation.
func FromRows(rows [][]float64) (*Affine, error) {
	out := len(rows)
	if out == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrDimensionMismatch)
	}
	cols := len(rows[0])
	if cols == 0 {
		return nil, fmt.Errorf("%w: empty row", ErrDimensionMismatch)
	}
	in := cols - 1
	m := homogeneous(in, out)
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrDimensionMismatch, i, len(row), cols)
		}
		for j, v := range row {
			m.Set(i, j, v)
		}
	}
	return &Affine{in: in, out: out, m: m}, nil
}

// FromMatrix is FromRows that also accepts a full homogeneous matrix, i.e.
// (n+1) rows of n+1 columns ending in [0 … 0 1].
func FromMatrix(rows [][]float64) (*Affine, error) {
	if isHomogeneous(rows) {
		return FromRows(rows[:len(rows)-1])
	}
	return FromRows(rows)
}

// Shape reports the input and output dimensionality FromMatrix reads from
// rows, without checking that the rows are rectangular.
func Shape(rows [][]float64) (in, out int) {
	n := len(rows)
	switch {
	case n == 0:
		return 0, 0
	case isHomogeneous(rows):
		return n - 1, n - 1
	default:
		return len(rows[0]) - 1, n
	}
}

func isHomogeneous(rows [][]float64) bool {
	n := len(rows)
	return n > 1 && len(rows[n-1]) == n && isHomogeneousRow(rows[n-1])
}

func isHomogeneousRow(row []float64) bool {
	last := len(row) - 1
	for j, v := range row {
		if j == last {
			if v != 1 {
				return false
			}
		} else if v != 0 {
			return false
		}
	}
	return true
}

// InDim returns the input dimensionality.
func (a *Affine) InDim() int { return a.in }

// OutDim returns the output dimensionality.
func (a *Affine) OutDim() int { return a.out }

// IsSquare reports whether in == out.
func (a *Affine) IsSquare() bool { return a.in == a.out }

// At returns element (i, j) of the out×(in+1) block.
func (a *Affine) At(i, j int) float64 {
	return a.m.At(i, j)
}

// Rows returns the out×(in+1) block as a fresh slice.
func (a *Affine) Rows() [][]float64 {
	rows := make([][]float64, a.out)
	for i := range rows {
		rows[i] = make([]float64, a.in+1)
		for j := range rows[i] {
			rows[i][j] = a.m.At(i, j)
		}
	}
	return rows
}

// Apply maps a point.
func (a *Affine) Apply(pt []float64) ([]float64, error) {
	if len(pt) != a.in {
		return nil, fmt.Errorf("%w: point has %d coordinates, want %d", ErrDimensionMismatch, len(pt), a.in)
	}
	res := make([]float64, a.out)
	for i := 0; i < a.out; i++ {
		v := a.m.At(i, a.in)
		for j := 0; j < a.in; j++ {
			v += a.m.At(i, j) * pt[j]
		}
		res[i] = v
	}
	return res, nil
}

// Then returns the map that applies a first and next second.
func (a *Affine) Then(next *Affine) (*Affine, error) {
	if a.out != next.in {
		return nil, fmt.Errorf("%w: %d-D output feeds %d-D input", ErrDimensionMismatch, a.out, next.in)
	}
	var m mat.Dense
	m.Mul(next.m, a.m)
	return &Affine{in: a.in, out: next.out, m: &m}, nil
}

// Inverse returns the inverse map. Only square maps are invertible.
func (a *Affine) Inverse() (*Affine, error) {
	if !a.IsSquare() {
		return nil, fmt.Errorf("%w: %d→%d", ErrNotSquare, a.in, a.out)
	}
	if a.in == 0 {
		return Identity(0), nil
	}
	if math.Abs(mat.Det(a.m)) < 1e-12 {
		return nil, ErrSingular
	}
	var inv mat.Dense
	if err := inv.Inverse(a.m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingular, err)
	}
	return &Affine{in: a.in, out: a.out, m: &inv}, nil
}

// Embed3D places a square map of at most three dimensions into the
// upper-left block of a 3-D map. Axes beyond the map's dimension are identity.
func (a *Affine) Embed3D() (*Affine, error) {
	if !a.IsSquare() {
		return nil, fmt.Errorf("%w: %d→%d", ErrNotSquare, a.in, a.out)
	}
	n := a.in
	if n > 3 {
		return nil, fmt.Errorf("%w: %d", ErrTooManyDims, n)
	}
	e := Identity(3)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			e.m.Set(i, j, a.m.At(i, j))
		}
		e.m.Set(i, 3, a.m.At(i, n))
	}
	return e, nil
}

// EqualApprox reports whether both maps have equal shape and elements within tol.
func (a *Affine) EqualApprox(b *Affine, tol float64) bool {
	if a.in != b.in || a.out != b.out {
		return false
	}
	return mat.EqualApprox(a.m, b.m, tol)
}

// IsIdentity reports whether a is the identity within tol.
func (a *Affine) IsIdentity(tol float64) bool {
	return a.IsSquare() && a.EqualApprox(Identity(a.in), tol)
}

// String renders the rows, one per line.
func (a *Affine) String() string {
	var b strings.Builder
	for i, row := range a.Rows() {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprint(&b, row)
	}
	return b.String()
}
