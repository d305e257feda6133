package space

import (
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// Well-known axis types. The vocabulary is open; any string is accepted.
const (
	TypeSpace   = "space"
	TypeTime    = "time"
	TypeChannel = "channel"
	TypeArray   = "array"
	TypeUnknown = "unknown"
)

// Axis is an immutable (type, label, unit) triple.
type Axis struct {
	Type  string `json:"type"`
	Label string `json:"name"`
	Unit  string `json:"unit,omitempty"`
}

// NewAxis creates an axis with an NFC-normalized label.
// An empty type becomes TypeUnknown.
func NewAxis(label, axisType, unit string) Axis {
	if axisType == "" {
		axisType = TypeUnknown
	}
	return Axis{
		Type:  axisType,
		Label: NormalizeLabel(label),
		Unit:  unit,
	}
}

// NormalizeLabel returns the NFC form of an axis label.
// Two labels that render identically compare equal after normalization.
func NormalizeLabel(label string) string {
	return norm.NFC.String(label)
}

// NormalizeLabels normalizes every label in place and returns the slice.
func NormalizeLabels(labels []string) []string {
	for i, l := range labels {
		labels[i] = NormalizeLabel(l)
	}
	return labels
}

// String renders the axis as label[type,unit].
func (a Axis) String() string {
	if a.Unit == "" {
		return fmt.Sprintf("%s[%s]", a.Label, a.Type)
	}
	return fmt.Sprintf("%s[%s,%s]", a.Label, a.Type, a.Unit)
}
