package space

import (
	"strings"
)

// CoordinateSystem is a named, ordered list of axes.
// Zero-axis (point) systems are permitted.
type CoordinateSystem struct {
	Name string `json:"name"`
	Axes []Axis `json:"axes"`
}

// New creates a coordinate system from axes.
func New(name string, axes ...Axis) CoordinateSystem {
	return CoordinateSystem{Name: name, Axes: append([]Axis(nil), axes...)}
}

// FromLabels creates a coordinate system whose axes carry only labels.
// Each axis gets TypeUnknown and no unit.
func FromLabels(name string, labels ...string) CoordinateSystem {
	axes := make([]Axis, len(labels))
	for i, l := range labels {
		axes[i] = NewAxis(l, TypeUnknown, "")
	}
	return CoordinateSystem{Name: name, Axes: axes}
}

// DefaultName derives the deterministic name of a synthesized system.
func DefaultName(labels []string) string {
	return strings.Join(labels, ",")
}

// Dim returns the number of axes.
func (cs CoordinateSystem) Dim() int {
	return len(cs.Axes)
}

// Labels returns the axis labels in order.
func (cs CoordinateSystem) Labels() []string {
	labels := make([]string, len(cs.Axes))
	for i, a := range cs.Axes {
		labels[i] = a.Label
	}
	return labels
}

// IndexOf returns the index of the first axis with the label, or -1.
func (cs CoordinateSystem) IndexOf(label string) int {
	label = NormalizeLabel(label)
	for i, a := range cs.Axes {
		if a.Label == label {
			return i
		}
	}
	return -1
}

// IndexesOfType returns the indexes of all axes of the given type.
func (cs CoordinateSystem) IndexesOfType(axisType string) []int {
	var idx []int
	for i, a := range cs.Axes {
		if a.Type == axisType {
			idx = append(idx, i)
		}
	}
	return idx
}

// Axis returns the first axis with the label.
func (cs CoordinateSystem) Axis(label string) (Axis, bool) {
	i := cs.IndexOf(label)
	if i < 0 {
		return Axis{}, false
	}
	return cs.Axes[i], true
}

// HasAxis reports whether any axis carries the label.
func (cs CoordinateSystem) HasAxis(label string) bool {
	return cs.IndexOf(label) >= 0
}

// IsSubspaceOf reports whether every label of cs appears in other.
// Order is ignored.
func (cs CoordinateSystem) IsSubspaceOf(other CoordinateSystem) bool {
	for _, a := range cs.Axes {
		if !other.HasAxis(a.Label) {
			return false
		}
	}
	return true
}

// IsSuperspaceOf reports whether every label of other appears in cs.
func (cs CoordinateSystem) IsSuperspaceOf(other CoordinateSystem) bool {
	return other.IsSubspaceOf(cs)
}

// AxesEqual reports whether both systems carry the same multiset of labels.
func (cs CoordinateSystem) AxesEqual(other CoordinateSystem) bool {
	if len(cs.Axes) != len(other.Axes) {
		return false
	}
	counts := make(map[string]int, len(cs.Axes))
	for _, a := range cs.Axes {
		counts[a.Label]++
	}
	for _, a := range other.Axes {
		counts[a.Label]--
		if counts[a.Label] < 0 {
			return false
		}
	}
	return true
}

// SameAxes reports whether both systems have identical axes in identical order.
func (cs CoordinateSystem) SameAxes(other CoordinateSystem) bool {
	if len(cs.Axes) != len(other.Axes) {
		return false
	}
	for i := range cs.Axes {
		if cs.Axes[i] != other.Axes[i] {
			return false
		}
	}
	return true
}

// HasLabels reports whether the ordered label list matches exactly.
func (cs CoordinateSystem) HasLabels(labels []string) bool {
	if len(cs.Axes) != len(labels) {
		return false
	}
	for i, a := range cs.Axes {
		if a.Label != labels[i] {
			return false
		}
	}
	return true
}

// Union returns the axes of cs followed by the axes of other not already in cs.
func (cs CoordinateSystem) Union(other CoordinateSystem) CoordinateSystem {
	axes := append([]Axis(nil), cs.Axes...)
	for _, a := range other.Axes {
		if !cs.HasAxis(a.Label) {
			axes = append(axes, a)
		}
	}
	return derived(axes)
}

// Intersection returns the axes of cs whose labels also appear in other.
func (cs CoordinateSystem) Intersection(other CoordinateSystem) CoordinateSystem {
	var axes []Axis
	for _, a := range cs.Axes {
		if other.HasAxis(a.Label) {
			axes = append(axes, a)
		}
	}
	return derived(axes)
}

// Diff returns the axes of cs whose labels do not appear in other.
func (cs CoordinateSystem) Diff(other CoordinateSystem) CoordinateSystem {
	var axes []Axis
	for _, a := range cs.Axes {
		if !other.HasAxis(a.Label) {
			axes = append(axes, a)
		}
	}
	return derived(axes)
}

func derived(axes []Axis) CoordinateSystem {
	cs := CoordinateSystem{Axes: axes}
	cs.Name = DefaultName(cs.Labels())
	return cs
}

// String renders the system as name(x,y,z).
func (cs CoordinateSystem) String() string {
	return cs.Name + "(" + strings.Join(cs.Labels(), ",") + ")"
}
