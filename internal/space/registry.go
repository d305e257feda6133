package space

import (
	"errors"
	"fmt"
)

// ErrConflict is returned when a name is re-registered with different axes.
var ErrConflict = errors.New("coordinate system conflict")

// ErrUnknownAxis is returned when a label was never observed and has no default type.
var ErrUnknownAxis = errors.New("unknown axis")

// ErrUnnamed is returned when adding a system with an empty name.
var ErrUnnamed = errors.New("coordinate system has no name")

// ConflictError describes a rejected re-registration.
type ConflictError struct {
	Name     string
	Existing CoordinateSystem
	Rejected CoordinateSystem
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("coordinate system %q already registered as %s, rejected %s",
		e.Name, e.Existing, e.Rejected)
}

// Unwrap lets errors.Is match ErrConflict.
func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// ID addresses a coordinate system inside one Registry.
type ID int

// Config controls default-space synthesis.
type Config struct {
	// DefaultAxisTypes maps a label to the type used when the label was
	// never declared on any registered axis.
	DefaultAxisTypes map[string]string

	// MaxDims is the dimensionality of an Identity with no explicit size.
	MaxDims int
}

// DefaultConfig returns the standard label table and MaxDims 3.
func DefaultConfig() Config {
	return Config{
		DefaultAxisTypes: map[string]string{
			"x": TypeSpace,
			"y": TypeSpace,
			"z": TypeSpace,
			"t": TypeTime,
			"c": TypeChannel,
		},
		MaxDims: 3,
	}
}

// Registry maps names to coordinate systems and labels to axes.
//
// Not safe for concurrent mutation.
type Registry struct {
	cfg     Config
	systems []CoordinateSystem
	byName  map[string]ID
	axes    map[string]Axis
}

// NewRegistry creates an empty registry.
func NewRegistry(cfg Config) *Registry {
	if cfg.MaxDims <= 0 {
		cfg.MaxDims = DefaultConfig().MaxDims
	}
	return &Registry{
		cfg:    cfg,
		byName: make(map[string]ID),
		axes:   make(map[string]Axis),
	}
}

// Config returns the registry configuration.
func (r *Registry) Config() Config {
	return r.cfg
}

// Add inserts a coordinate system.
//
// A new name is inserted and its axes registered (first label wins).
// A known name with identical axes returns the existing ID. A known name
// with different axes returns a *ConflictError and leaves the registry
// unchanged.
func (r *Registry) Add(cs CoordinateSystem) (ID, error) {
	if cs.Name == "" {
		return -1, ErrUnnamed
	}
	cs = normalized(cs)
	if id, ok := r.byName[cs.Name]; ok {
		existing := r.systems[id]
		if existing.SameAxes(cs) {
			return id, nil
		}
		return id, &ConflictError{Name: cs.Name, Existing: existing, Rejected: cs}
	}

	id := ID(len(r.systems))
	r.systems = append(r.systems, cs)
	r.byName[cs.Name] = id
	for _, a := range cs.Axes {
		if _, seen := r.axes[a.Label]; !seen {
			r.axes[a.Label] = a
		}
	}
	return id, nil
}

// Lookup returns the ID registered under name.
func (r *Registry) Lookup(name string) (ID, bool) {
	id, ok := r.byName[name]
	return id, ok
}

// Get returns the system registered under name.
func (r *Registry) Get(name string) (CoordinateSystem, bool) {
	id, ok := r.byName[name]
	if !ok {
		return CoordinateSystem{}, false
	}
	return r.systems[id], true
}

// ByID returns the system with the given ID. It panics on a foreign ID.
func (r *Registry) ByID(id ID) CoordinateSystem {
	return r.systems[id]
}

// Systems returns all systems in insertion order.
func (r *Registry) Systems() []CoordinateSystem {
	return append([]CoordinateSystem(nil), r.systems...)
}

// Len returns the number of registered systems.
func (r *Registry) Len() int {
	return len(r.systems)
}

// Axis returns the first axis registered under label.
func (r *Registry) Axis(label string) (Axis, bool) {
	a, ok := r.axes[NormalizeLabel(label)]
	return a, ok
}

// SpacesFromAxes returns every system whose ordered labels match exactly.
func (r *Registry) SpacesFromAxes(labels ...string) []ID {
	labels = NormalizeLabels(append([]string(nil), labels...))
	var ids []ID
	for i, cs := range r.systems {
		if cs.HasLabels(labels) {
			ids = append(ids, ID(i))
		}
	}
	return ids
}

// SpaceFromAxes returns the first system whose ordered labels match exactly,
// synthesizing a default system when none exists.
func (r *Registry) SpaceFromAxes(labels ...string) (ID, error) {
	if ids := r.SpacesFromAxes(labels...); len(ids) > 0 {
		return ids[0], nil
	}
	return r.MakeDefaultSpace(labels...)
}

// MakeDefaultSpace registers a system named DefaultName(labels).
//
// Each label resolves to a previously registered axis, or else to the
// configured default type for that label. A label with neither fails with
// ErrUnknownAxis.
func (r *Registry) MakeDefaultSpace(labels ...string) (ID, error) {
	labels = NormalizeLabels(append([]string(nil), labels...))
	axes, err := r.defaultAxes(labels)
	if err != nil {
		return -1, err
	}
	return r.Add(CoordinateSystem{Name: DefaultName(labels), Axes: axes})
}

// CanResolveAxes reports whether SpaceFromAxes would succeed for labels
// without registering anything.
func (r *Registry) CanResolveAxes(labels ...string) bool {
	if len(r.SpacesFromAxes(labels...)) > 0 {
		return true
	}
	labels = NormalizeLabels(append([]string(nil), labels...))
	axes, err := r.defaultAxes(labels)
	if err != nil {
		return false
	}
	id, ok := r.Lookup(DefaultName(labels))
	return !ok || r.ByID(id).SameAxes(CoordinateSystem{Axes: axes})
}

func (r *Registry) defaultAxes(labels []string) ([]Axis, error) {
	axes := make([]Axis, len(labels))
	for i, l := range labels {
		if a, ok := r.axes[l]; ok {
			axes[i] = a
			continue
		}
		t, ok := r.cfg.DefaultAxisTypes[l]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownAxis, l)
		}
		axes[i] = NewAxis(l, t, "")
	}
	return axes, nil
}

func normalized(cs CoordinateSystem) CoordinateSystem {
	axes := make([]Axis, len(cs.Axes))
	for i, a := range cs.Axes {
		a.Label = NormalizeLabel(a.Label)
		axes[i] = a
	}
	return CoordinateSystem{Name: cs.Name, Axes: axes}
}
