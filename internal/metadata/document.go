package metadata

// Transform type names accepted in documents.
const (
	TypeIdentity    = "identity"
	TypeScale       = "scale"
	TypeTranslation = "translation"
	TypeAffine      = "affine"
	TypeSequence    = "sequence"
	TypeByDimension = "byDimension"
)

// Document is one metadata file.
type Document struct {
	CoordinateSystems         []CoordinateSystem `json:"coordinateSystems,omitempty" yaml:"coordinateSystems,omitempty"`
	CoordinateTransformations []Transform        `json:"coordinateTransformations,omitempty" yaml:"coordinateTransformations,omitempty"`
}

// CoordinateSystem is a named, ordered list of axes.
type CoordinateSystem struct {
	Name string `json:"name" yaml:"name"`
	Axes []Axis `json:"axes" yaml:"axes"`
}

// Axis describes one dimension.
type Axis struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type,omitempty" yaml:"type,omitempty"`
	Unit string `json:"unit,omitempty" yaml:"unit,omitempty"`
}

// Transform is one entry of coordinateTransformations, or a child of a
// sequence or byDimension entry.
type Transform struct {
	Type            string      `json:"type" yaml:"type"`
	Name            string      `json:"name,omitempty" yaml:"name,omitempty"`
	Input           string      `json:"input,omitempty" yaml:"input,omitempty"`
	Output          string      `json:"output,omitempty" yaml:"output,omitempty"`
	InputAxes       []string    `json:"inputAxes,omitempty" yaml:"inputAxes,omitempty"`
	OutputAxes      []string    `json:"outputAxes,omitempty" yaml:"outputAxes,omitempty"`
	Scale           []float64   `json:"scale,omitempty" yaml:"scale,omitempty"`
	Translation     []float64   `json:"translation,omitempty" yaml:"translation,omitempty"`
	Affine          [][]float64 `json:"affine,omitempty" yaml:"affine,omitempty"`
	Path            string      `json:"path,omitempty" yaml:"path,omitempty"`
	Transformations []Transform `json:"transformations,omitempty" yaml:"transformations,omitempty"`
}

// systemLabels returns the axis labels of the named system.
func (d *Document) systemLabels(name string) ([]string, bool) {
	if name == "" {
		return nil, false
	}
	for _, cs := range d.CoordinateSystems {
		if cs.Name == name {
			labels := make([]string, len(cs.Axes))
			for i, a := range cs.Axes {
				labels[i] = a.Name
			}
			return labels, true
		}
	}
	return nil, false
}
