package metadata

import (
	"fmt"

	"github.com/roach88/ctgraph/internal/space"
	"github.com/roach88/ctgraph/internal/transform"
)

// Convert builds spaces and transforms from the document. Numeric content
// is not checked here; the graph validates each transform when it is added.
//
// In LoadModeFailFast the first error stops conversion and the partial
// result is returned with it.
func (d *Document) Convert(mode LoadMode) (*Result, []error) {
	res := &Result{Document: d}
	var errs []error

	for i, cs := range d.CoordinateSystems {
		sys, err := convertSystem(cs, fmt.Sprintf("coordinateSystems[%d]", i))
		if err != nil {
			errs = append(errs, err)
			if mode == LoadModeFailFast {
				return res, errs
			}
			continue
		}
		res.Spaces = append(res.Spaces, sys)
	}

	for i, t := range d.CoordinateTransformations {
		tr, err := d.convertTransform(t, fmt.Sprintf("coordinateTransformations[%d]", i))
		if err != nil {
			errs = append(errs, err)
			if mode == LoadModeFailFast {
				return res, errs
			}
			continue
		}
		res.Transforms = append(res.Transforms, tr)
	}

	return res, errs
}

func convertSystem(cs CoordinateSystem, where string) (space.CoordinateSystem, error) {
	if cs.Name == "" {
		return space.CoordinateSystem{}, &LoadError{Code: ErrCodeInvalidSystem, Message: where + ": coordinate system has no name"}
	}
	axes := make([]space.Axis, len(cs.Axes))
	for i, a := range cs.Axes {
		if a.Name == "" {
			return space.CoordinateSystem{}, &LoadError{
				Code:    ErrCodeInvalidSystem,
				Message: fmt.Sprintf("%s %q: axis %d has no name", where, cs.Name, i),
			}
		}
		axes[i] = space.NewAxis(a.Name, a.Type, a.Unit)
	}
	return space.New(cs.Name, axes...), nil
}

func (d *Document) convertTransform(t Transform, where string) (transform.Transform, error) {
	h := transform.Header{
		Name:   t.Name,
		Input:  transform.Ref{Space: t.Input, Axes: t.InputAxes},
		Output: transform.Ref{Space: t.Output, Axes: t.OutputAxes},
	}

	switch t.Type {
	case TypeIdentity:
		dims := len(t.InputAxes)
		if labels, ok := d.systemLabels(t.Input); ok && dims == 0 {
			dims = len(labels)
		}
		return transform.Identity{Header: h, Dims: dims}, nil

	case TypeScale:
		if len(t.Scale) == 0 && t.Path != "" {
			return transform.Parametrized{Header: h, Base: transform.KindScale, Path: t.Path}, nil
		}
		return transform.Scale{Header: h, Factors: t.Scale}, nil

	case TypeTranslation:
		if len(t.Translation) == 0 && t.Path != "" {
			return transform.Parametrized{Header: h, Base: transform.KindTranslation, Path: t.Path}, nil
		}
		return transform.Translation{Header: h, Offsets: t.Translation}, nil

	case TypeAffine:
		if len(t.Affine) == 0 && t.Path != "" {
			return transform.Parametrized{Header: h, Base: transform.KindAffine, Path: t.Path}, nil
		}
		return transform.Affine{Header: h, Rows: t.Affine}, nil

	case TypeSequence:
		children := make([]transform.Transform, len(t.Transformations))
		for i, c := range t.Transformations {
			child, err := d.convertTransform(c, fmt.Sprintf("%s.transformations[%d]", where, i))
			if err != nil {
				return nil, err
			}
			children[i] = child
		}
		return transform.Sequence{Header: h, Children: children}, nil

	case TypeByDimension:
		parts := make([]transform.Part, len(t.Transformations))
		for i, c := range t.Transformations {
			at := fmt.Sprintf("%s.transformations[%d]", where, i)
			if len(c.InputAxes) == 0 || len(c.OutputAxes) == 0 {
				return nil, &LoadError{Code: ErrCodeInvalidPart, Message: at + ": byDimension part needs inputAxes and outputAxes"}
			}
			child, err := d.convertTransform(c, at)
			if err != nil {
				return nil, err
			}
			parts[i] = transform.Part{Transform: child, InputAxes: c.InputAxes, OutputAxes: c.OutputAxes}
		}
		in, out := t.InputAxes, t.OutputAxes
		if len(in) == 0 {
			in, _ = d.systemLabels(t.Input)
		}
		if len(out) == 0 {
			out, _ = d.systemLabels(t.Output)
		}
		return transform.ByDimension{Header: h, InputAxes: in, OutputAxes: out, Parts: parts}, nil

	default:
		return nil, &LoadError{Code: ErrCodeUnknownType, Message: fmt.Sprintf("%s %q: unknown transform type %q", where, t.Name, t.Type)}
	}
}
