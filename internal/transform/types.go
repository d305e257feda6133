package transform

import (
	"strings"
)

// Kind identifies a transform variant.
type Kind string

const (
	KindIdentity     Kind = "identity"
	KindScale        Kind = "scale"
	KindTranslation  Kind = "translation"
	KindAffine       Kind = "affine"
	KindSequence     Kind = "sequence"
	KindByDimension  Kind = "byDimension"
	KindParametrized Kind = "parametrized"
	KindInverse      Kind = "inverse"
)

// InversePrefix prefixes the name of every synthesized inverse.
const InversePrefix = "inv-"

// Ref names a transform endpoint: either a coordinate system by name, or a
// raw list of axis labels. A zero Ref is unset.
type Ref struct {
	Space string   `json:"space,omitempty"`
	Axes  []string `json:"axes,omitempty"`
}

// Named refers to a coordinate system by name.
func Named(name string) Ref {
	return Ref{Space: name}
}

// AxesRef refers to the system whose ordered labels match.
func AxesRef(labels ...string) Ref {
	return Ref{Axes: append([]string(nil), labels...)}
}

// IsZero reports whether the ref is unset.
func (r Ref) IsZero() bool {
	return r.Space == "" && len(r.Axes) == 0
}

// String renders the ref for diagnostics.
func (r Ref) String() string {
	switch {
	case r.Space != "":
		return r.Space
	case len(r.Axes) > 0:
		return "[" + strings.Join(r.Axes, ",") + "]"
	default:
		return "<unset>"
	}
}

// Header carries the identity and endpoints shared by all variants.
type Header struct {
	Name   string `json:"name"`
	Input  Ref    `json:"input"`
	Output Ref    `json:"output"`
}

// Info returns the header.
func (h Header) Info() Header { return h }

func (Header) sealed() {}

// Transform is the sealed transform union.
type Transform interface {
	Kind() Kind
	Info() Header
	sealed()
}

// Identity maps every point to itself. Dims 0 means "MaxDims".
type Identity struct {
	Header
	Dims int
}

// Kind implements Transform.
func (Identity) Kind() Kind { return KindIdentity }

// Scale multiplies each coordinate by a factor.
type Scale struct {
	Header
	Factors []float64
}

// Kind implements Transform.
func (Scale) Kind() Kind { return KindScale }

// Translation adds an offset to each coordinate.
type Translation struct {
	Header
	Offsets []float64
}

// Kind implements Transform.
func (Translation) Kind() Kind { return KindTranslation }

// Affine holds out rows of in+1 columns, or a homogeneous (n+1)×(n+1) matrix.
type Affine struct {
	Header
	Rows [][]float64
}

// Kind implements Transform.
func (Affine) Kind() Kind { return KindAffine }

// Sequence composes its children, first child first.
type Sequence struct {
	Header
	Children []Transform
}

// Kind implements Transform.
func (Sequence) Kind() Kind { return KindSequence }

// Info fills unset endpoints from the first child's input and the last
// child's output.
func (s Sequence) Info() Header {
	h := s.Header
	if len(s.Children) == 0 {
		return h
	}
	if h.Input.IsZero() {
		h.Input = s.Children[0].Info().Input
	}
	if h.Output.IsZero() {
		h.Output = s.Children[len(s.Children)-1].Info().Output
	}
	return h
}

// Part is one per-axis component of a ByDimension transform.
type Part struct {
	Transform  Transform
	InputAxes  []string
	OutputAxes []string
}

// ByDimension stacks independently declared transforms. Each output axis is
// produced by exactly one part.
type ByDimension struct {
	Header
	InputAxes  []string
	OutputAxes []string
	Parts      []Part
}

// Kind implements Transform.
func (ByDimension) Kind() Kind { return KindByDimension }

// Info falls back to the axis lists for unset endpoints.
func (b ByDimension) Info() Header {
	h := b.Header
	if h.Input.IsZero() && len(b.InputAxes) > 0 {
		h.Input = AxesRef(b.InputAxes...)
	}
	if h.Output.IsZero() && len(b.OutputAxes) > 0 {
		h.Output = AxesRef(b.OutputAxes...)
	}
	return h
}

// Parametrized is a scale, translation or affine whose numbers live in an
// external store at Path.
type Parametrized struct {
	Header
	Base   Kind
	Path   string
	Params *Parameters
}

// Kind implements Transform.
func (Parametrized) Kind() Kind { return KindParametrized }

// Inverse is the synthesized companion of an invertible transform.
type Inverse struct {
	Of Transform
}

// Kind implements Transform.
func (Inverse) Kind() Kind { return KindInverse }

// Info swaps the original's endpoints and derives the name from it.
func (v Inverse) Info() Header {
	if v.Of == nil {
		return Header{}
	}
	h := v.Of.Info()
	return Header{
		Name:   InversePrefix + h.Name,
		Input:  h.Output,
		Output: h.Input,
	}
}

func (Inverse) sealed() {}

// Name returns t.Info().Name.
func Name(t Transform) string {
	return t.Info().Name
}
