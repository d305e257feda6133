package transform

import (
	"context"
	"fmt"

	"github.com/roach88/ctgraph/internal/affine"
)

// Parameters is a numeric array read from a parameter store.
// Data is row-major; an empty Shape means a flat vector.
type Parameters struct {
	Shape []int     `json:"shape,omitempty"`
	Data  []float64 `json:"data"`
}

// ParameterSource resolves a parameter path to numbers.
type ParameterSource interface {
	Read(ctx context.Context, path string) (Parameters, error)
}

// FetchParameters reads the parameters of p from src.
func (p Parametrized) FetchParameters(ctx context.Context, src ParameterSource) (Parameters, error) {
	if src == nil {
		return Parameters{}, fmt.Errorf("%w: %q has no parameter source", ErrNotFetched, p.Name)
	}
	params, err := src.Read(ctx, p.Path)
	if err != nil {
		return Parameters{}, fmt.Errorf("fetch parameters %q for %q: %w", p.Path, p.Name, err)
	}
	return params, nil
}

// BuildTransform constructs the realizable map from fetched parameters.
func (p Parametrized) BuildTransform(params Parameters) (*affine.Affine, error) {
	switch p.Base {
	case KindScale:
		if len(params.Data) == 0 {
			return nil, invalid(p, "empty scale parameters")
		}
		return affine.Scale(params.Data...), nil
	case KindTranslation:
		if len(params.Data) == 0 {
			return nil, invalid(p, "empty translation parameters")
		}
		return affine.Translation(params.Data...), nil
	case KindAffine:
		rows, err := params.rows()
		if err != nil {
			return nil, invalid(p, "%v", err)
		}
		return affine.FromMatrix(rows)
	default:
		return nil, invalid(p, "unsupported parametrized base %q", p.Base)
	}
}

// WithParameters returns a copy of p carrying params.
func (p Parametrized) WithParameters(params Parameters) Parametrized {
	p.Params = &params
	return p
}

func (params Parameters) rows() ([][]float64, error) {
	if len(params.Shape) != 2 {
		return nil, fmt.Errorf("affine parameters need a 2-D shape, got %v", params.Shape)
	}
	r, c := params.Shape[0], params.Shape[1]
	if r*c != len(params.Data) || r == 0 || c == 0 {
		return nil, fmt.Errorf("shape %v does not match %d values", params.Shape, len(params.Data))
	}
	rows := make([][]float64, r)
	for i := range rows {
		rows[i] = params.Data[i*c : (i+1)*c]
	}
	return rows, nil
}

// Materializer turns transforms into realizable maps.
type Materializer struct {
	// Source supplies Parametrized values that carry no Params yet.
	Source ParameterSource

	// MaxDims sizes an Identity with Dims 0. Zero means 3.
	MaxDims int
}

// Materialize is Materializer{}.Materialize with a background context.
func Materialize(t Transform) (*affine.Affine, error) {
	return Materializer{}.Materialize(context.Background(), t)
}

// Materialize produces the realizable map of t.
func (m Materializer) Materialize(ctx context.Context, t Transform) (*affine.Affine, error) {
	switch v := t.(type) {
	case Identity:
		n := v.Dims
		if n == 0 {
			n = m.maxDims()
		}
		return affine.Identity(n), nil
	case Scale:
		return affine.Scale(v.Factors...), nil
	case Translation:
		return affine.Translation(v.Offsets...), nil
	case Affine:
		return affine.FromMatrix(v.Rows)
	case Sequence:
		return m.sequence(ctx, v)
	case ByDimension:
		return m.byDimension(ctx, v)
	case Parametrized:
		return m.parametrized(ctx, v)
	case Inverse:
		fwd, err := m.Materialize(ctx, v.Of)
		if err != nil {
			return nil, err
		}
		inv, err := fwd.Inverse()
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrNotInvertible, Name(v.Of), err)
		}
		return inv, nil
	default:
		return nil, fmt.Errorf("%w: unsupported variant %T", ErrInvalid, t)
	}
}

func (m Materializer) maxDims() int {
	if m.MaxDims > 0 {
		return m.MaxDims
	}
	return 3
}

func (m Materializer) parametrized(ctx context.Context, p Parametrized) (*affine.Affine, error) {
	if p.Params != nil {
		return p.BuildTransform(*p.Params)
	}
	if m.Source == nil {
		return nil, fmt.Errorf("%w: %q", ErrNotFetched, p.Name)
	}
	params, err := p.FetchParameters(ctx, m.Source)
	if err != nil {
		return nil, err
	}
	return p.BuildTransform(params)
}

func (m Materializer) sequence(ctx context.Context, s Sequence) (*affine.Affine, error) {
	steps := make([]*affine.Affine, len(s.Children))
	for i, c := range s.Children {
		a, err := m.Materialize(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("sequence %q child %d: %w", s.Name, i, err)
		}
		steps[i] = a
	}
	a, err := affine.NewSequence(steps...).Compose()
	if err != nil {
		return nil, fmt.Errorf("sequence %q: %w", s.Name, err)
	}
	return a, nil
}

// byDimension scatters each part's rows into the full output×input map.
func (m Materializer) byDimension(ctx context.Context, b ByDimension) (*affine.Affine, error) {
	in := len(b.InputAxes)
	rows := make([][]float64, len(b.OutputAxes))
	owner := make([]int, len(b.OutputAxes))

	for pi, part := range b.Parts {
		a, err := m.Materialize(ctx, part.Transform)
		if err != nil {
			return nil, fmt.Errorf("byDimension %q part %d: %w", b.Name, pi, err)
		}
		if a.InDim() != len(part.InputAxes) || a.OutDim() != len(part.OutputAxes) {
			return nil, fmt.Errorf("byDimension %q part %d: %w: %d→%d map for %d→%d axes",
				b.Name, pi, affine.ErrDimensionMismatch, a.InDim(), a.OutDim(), len(part.InputAxes), len(part.OutputAxes))
		}
		for r, label := range part.OutputAxes {
			i := indexOf(b.OutputAxes, label)
			if i < 0 {
				continue
			}
			if rows[i] != nil {
				return nil, fmt.Errorf("byDimension %q: %w: %q by parts %d and %d", b.Name, ErrAxisConflict, label, owner[i], pi)
			}
			row := make([]float64, in+1)
			for c, inLabel := range part.InputAxes {
				j := indexOf(b.InputAxes, inLabel)
				if j < 0 {
					return nil, fmt.Errorf("byDimension %q part %d: %w: %q", b.Name, pi, ErrUnknownAxis, inLabel)
				}
				row[j] = a.At(r, c)
			}
			row[in] = a.At(r, a.InDim())
			rows[i] = row
			owner[i] = pi
		}
	}

	for i, row := range rows {
		if row == nil {
			return nil, fmt.Errorf("byDimension %q: %w: %q", b.Name, ErrUncoveredAxis, b.OutputAxes[i])
		}
	}
	return affine.FromRows(rows)
}

func indexOf(labels []string, label string) int {
	for i, l := range labels {
		if l == label {
			return i
		}
	}
	return -1
}
