package transform

import (
	"errors"
	"fmt"

	"github.com/roach88/ctgraph/internal/affine"
)

var (
	// ErrInvalid marks a structurally malformed transform.
	ErrInvalid = errors.New("invalid transform")

	// ErrNotFetched is returned when a Parametrized transform is
	// materialized before its parameters were fetched.
	ErrNotFetched = errors.New("parameters not fetched")

	// ErrNotInvertible is returned when materializing the inverse of a
	// transform that has none.
	ErrNotInvertible = errors.New("transform is not invertible")

	// ErrAxisConflict is returned when two parts claim the same output axis.
	ErrAxisConflict = errors.New("output axis claimed twice")

	// ErrUncoveredAxis is returned when no part produces an output axis.
	ErrUncoveredAxis = errors.New("output axis not covered")

	// ErrUnknownAxis is returned when a part reads an axis the input lacks.
	ErrUnknownAxis = errors.New("unknown input axis")
)

func invalid(t Transform, format string, args ...any) error {
	return fmt.Errorf("%w %q (%s): %s", ErrInvalid, Name(t), t.Kind(), fmt.Sprintf(format, args...))
}

// Validate checks the structure of t without touching any registry or store.
// Children of Sequence and ByDimension are validated recursively; they may be
// anonymous.
func Validate(t Transform) error {
	if inv, ok := t.(Inverse); ok && inv.Of == nil {
		return invalid(t, "inverse of nothing")
	}
	if Name(t) == "" {
		return fmt.Errorf("%w: transform has no name", ErrInvalid)
	}
	return validate(t)
}

func validate(t Transform) error {
	switch v := t.(type) {
	case Identity:
		if v.Dims < 0 {
			return invalid(t, "negative dims %d", v.Dims)
		}
	case Scale:
		if len(v.Factors) == 0 {
			return invalid(t, "no scale factors")
		}
	case Translation:
		if len(v.Offsets) == 0 {
			return invalid(t, "no offsets")
		}
	case Affine:
		if len(v.Rows) == 0 {
			return invalid(t, "no rows")
		}
		cols := len(v.Rows[0])
		for i, row := range v.Rows {
			if len(row) != cols || cols == 0 {
				return invalid(t, "row %d has %d columns, want %d", i, len(row), cols)
			}
		}
	case Sequence:
		if len(v.Children) == 0 {
			return invalid(t, "empty sequence")
		}
		for i, c := range v.Children {
			if err := validate(c); err != nil {
				return fmt.Errorf("child %d: %w", i, err)
			}
		}
	case ByDimension:
		if len(v.Parts) == 0 {
			return invalid(t, "no parts")
		}
		if len(v.InputAxes) == 0 || len(v.OutputAxes) == 0 {
			return invalid(t, "missing axis lists")
		}
		for i, p := range v.Parts {
			if p.Transform == nil {
				return invalid(t, "part %d has no transform", i)
			}
			if len(p.InputAxes) == 0 || len(p.OutputAxes) == 0 {
				return invalid(t, "part %d has no axes", i)
			}
			if err := validate(p.Transform); err != nil {
				return fmt.Errorf("part %d: %w", i, err)
			}
		}
	case Parametrized:
		switch v.Base {
		case KindScale, KindTranslation, KindAffine:
		default:
			return invalid(t, "unsupported parametrized base %q", v.Base)
		}
		if v.Path == "" && v.Params == nil {
			return invalid(t, "no parameter path")
		}
	case Inverse:
		if v.Of == nil {
			return invalid(t, "inverse of nothing")
		}
		return validate(v.Of)
	default:
		return fmt.Errorf("%w: unsupported variant %T", ErrInvalid, t)
	}
	return nil
}

// Invertible reports whether t exposes an inverse.
func Invertible(t Transform) bool {
	switch v := t.(type) {
	case Identity, Translation:
		return true
	case Scale:
		for _, f := range v.Factors {
			if f == 0 {
				return false
			}
		}
		return true
	case Affine:
		in, out := affine.Shape(v.Rows)
		return in > 0 && in == out
	case Sequence:
		for _, c := range v.Children {
			if !Invertible(c) {
				return false
			}
		}
		return len(v.Children) > 0
	case ByDimension:
		if len(v.InputAxes) != len(v.OutputAxes) {
			return false
		}
		for _, p := range v.Parts {
			if !Invertible(p.Transform) {
				return false
			}
		}
		return true
	case Parametrized:
		// the shape is unknown until fetched; singular parameters fail at
		// materialization
		return true
	case Inverse:
		return true
	}
	return false
}

// Invert returns the inverse companion of t. Inverting an Inverse returns
// the original transform.
func Invert(t Transform) Transform {
	if v, ok := t.(Inverse); ok {
		return v.Of
	}
	return Inverse{Of: t}
}
