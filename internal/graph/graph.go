package graph

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/roach88/ctgraph/internal/space"
	"github.com/roach88/ctgraph/internal/transform"
)

// ErrUnknownSpace is returned when a query names an unregistered space.
var ErrUnknownSpace = errors.New("unknown coordinate system")

// Edge is a transform bound to its endpoint systems.
type Edge struct {
	Transform transform.Transform
	From      space.ID
	To        space.ID
}

// Name returns the transform name.
func (e Edge) Name() string {
	return transform.Name(e.Transform)
}

// Node is a coordinate system together with its outgoing edges.
type Node struct {
	Space space.CoordinateSystem
	Edges []Edge
}

type entry struct {
	t     transform.Transform
	edge  Edge
	bound bool
}

// Graph is a transform graph over a space registry.
type Graph struct {
	cfg   space.Config
	log   *zap.Logger
	reg   *space.Registry
	nodes map[space.ID][]Edge

	// entries holds every accepted transform in insertion order, bound or not.
	entries []*entry
	byName  map[string]*entry
	diags   []Diagnostic
}

// Option configures a Graph.
type Option func(*Graph)

// WithLogger sets the logger used for diagnostics. Default: zap.NewNop().
func WithLogger(l *zap.Logger) Option {
	return func(g *Graph) {
		if l != nil {
			g.log = l
		}
	}
}

// WithConfig sets the space configuration (default axis types, MaxDims).
func WithConfig(cfg space.Config) Option {
	return func(g *Graph) {
		g.cfg = cfg
	}
}

// New creates an empty graph.
func New(opts ...Option) *Graph {
	g := &Graph{
		cfg:    space.DefaultConfig(),
		log:    zap.NewNop(),
		nodes:  make(map[space.ID][]Edge),
		byName: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.reg = space.NewRegistry(g.cfg)
	g.cfg = g.reg.Config()
	return g
}

// Build creates a graph from spaces and transforms.
//
// Every transform is added with its inverse. Failures are recorded as
// diagnostics and never abort construction.
func Build(spaces []space.CoordinateSystem, transforms []transform.Transform, opts ...Option) *Graph {
	g := New(opts...)
	for _, cs := range spaces {
		_ = g.AddSpace(cs)
	}
	for _, t := range transforms {
		_ = g.AddTransform(t, true)
	}
	g.UpdateTransforms()
	return g
}

// AddSpace registers a coordinate system and creates its node.
func (g *Graph) AddSpace(cs space.CoordinateSystem) error {
	id, err := g.reg.Add(cs)
	if err != nil {
		g.report(Diagnostic{
			Code:    CodeSpaceConflict,
			Message: fmt.Sprintf("space %q rejected: %v", cs.Name, err),
			Space:   cs.Name,
		})
		return err
	}
	g.ensureNode(id)
	return nil
}

func (g *Graph) ensureNode(id space.ID) {
	if _, ok := g.nodes[id]; !ok {
		g.nodes[id] = nil
	}
}

// AddTransform adds t to the graph.
//
// A name already present is a no-op. An invalid transform is rejected with
// an E202 diagnostic. A transform whose endpoints do not resolve is kept
// unbound with an E203 diagnostic. When addInverse is set and t is
// invertible, its inverse is added too (without a further inverse).
func (g *Graph) AddTransform(t transform.Transform, addInverse bool) error {
	if t == nil {
		return fmt.Errorf("%w: nil transform", transform.ErrInvalid)
	}
	if err := transform.Validate(t); err != nil {
		g.report(Diagnostic{
			Code:      CodeInvalidTransform,
			Message:   fmt.Sprintf("transform dropped: %v", err),
			Transform: transform.Name(t),
		})
		return err
	}

	name := transform.Name(t)
	if _, ok := g.byName[name]; ok {
		return nil
	}

	e := &entry{t: t}
	g.entries = append(g.entries, e)
	g.byName[name] = e

	if !g.bind(e) {
		info := t.Info()
		g.report(Diagnostic{
			Code:      CodeUnresolved,
			Message:   fmt.Sprintf("transform %q unbound: cannot resolve %s -> %s", name, info.Input, info.Output),
			Transform: name,
		})
	}

	if addInverse && transform.Invertible(t) {
		return g.AddTransform(transform.Invert(t), false)
	}
	return nil
}

// bind resolves the endpoints of e and attaches it to its input node.
func (g *Graph) bind(e *entry) bool {
	info := e.t.Info()
	if !g.resolvable(info.Input) || !g.resolvable(info.Output) {
		return false
	}
	from, ok := g.resolve(info.Input)
	if !ok {
		return false
	}
	to, ok := g.resolve(info.Output)
	if !ok {
		return false
	}

	e.edge = Edge{Transform: e.t, From: from, To: to}
	e.bound = true
	g.ensureNode(to)
	g.nodes[from] = append(g.nodes[from], e.edge)

	g.log.Debug("bound transform",
		zap.String("transform", info.Name),
		zap.String("from", g.reg.ByID(from).Name),
		zap.String("to", g.reg.ByID(to).Name))
	return true
}

// resolve finds the system a ref points at. An axis list that matches no
// system synthesizes a default one.
func (g *Graph) resolve(ref transform.Ref) (space.ID, bool) {
	if ref.Space != "" {
		if id, ok := g.reg.Lookup(ref.Space); ok {
			return id, true
		}
		if len(ref.Axes) == 0 {
			return -1, false
		}
	}
	if len(ref.Axes) == 0 {
		return -1, false
	}
	return g.spaceFromAxes(ref.Axes)
}

// resolvable is resolve without synthesizing anything.
func (g *Graph) resolvable(ref transform.Ref) bool {
	if ref.Space != "" {
		if _, ok := g.reg.Lookup(ref.Space); ok {
			return true
		}
	}
	return len(ref.Axes) > 0 && g.reg.CanResolveAxes(ref.Axes...)
}

func (g *Graph) spaceFromAxes(labels []string) (space.ID, bool) {
	before := g.reg.Len()
	id, err := g.reg.SpaceFromAxes(labels...)
	if err != nil {
		g.log.Debug("cannot resolve axes", zap.Strings("axes", labels), zap.Error(err))
		return -1, false
	}
	if g.reg.Len() > before {
		g.log.Debug("synthesized default space", zap.String("space", g.reg.ByID(id).Name))
	}
	g.ensureNode(id)
	return id, true
}

// UpdateTransforms binds transforms whose endpoints were unresolved when
// added. Axis-list endpoints of sequence children get default spaces.
// It returns the number of newly bound transforms.
func (g *Graph) UpdateTransforms() int {
	n := 0
	for _, e := range g.entries {
		g.synthesizeChildSpaces(e.t)
		if e.bound {
			continue
		}
		if g.bind(e) {
			n++
		}
	}
	return n
}

func (g *Graph) synthesizeChildSpaces(t transform.Transform) {
	seq, ok := t.(transform.Sequence)
	if !ok {
		return
	}
	for _, c := range seq.Children {
		info := c.Info()
		for _, ref := range []transform.Ref{info.Input, info.Output} {
			if len(ref.Axes) > 0 {
				g.resolve(ref)
			}
		}
		g.synthesizeChildSpaces(c)
	}
}

// Add merges other into g: spaces first, then transforms. Inverses are
// not synthesized again since other already holds them.
func (g *Graph) Add(other *Graph) {
	for _, cs := range other.reg.Systems() {
		_ = g.AddSpace(cs)
	}
	for _, e := range other.entries {
		_ = g.AddTransform(e.t, false)
	}
	g.UpdateTransforms()
}

// Config returns the effective space configuration.
func (g *Graph) Config() space.Config {
	return g.cfg
}

// Registry returns the underlying space registry.
func (g *Graph) Registry() *space.Registry {
	return g.reg
}

// Space returns the system registered under name.
func (g *Graph) Space(name string) (space.CoordinateSystem, bool) {
	return g.reg.Get(name)
}

// Spaces returns all systems in registration order.
func (g *Graph) Spaces() []space.CoordinateSystem {
	return g.reg.Systems()
}

// Transform returns the transform registered under name.
func (g *Graph) Transform(name string) (transform.Transform, bool) {
	e, ok := g.byName[name]
	if !ok {
		return nil, false
	}
	return e.t, true
}

// Transforms returns every accepted transform in insertion order.
func (g *Graph) Transforms() []transform.Transform {
	out := make([]transform.Transform, len(g.entries))
	for i, e := range g.entries {
		out[i] = e.t
	}
	return out
}

// Edge returns the bound edge for the named transform.
func (g *Graph) Edge(name string) (Edge, bool) {
	e, ok := g.byName[name]
	if !ok || !e.bound {
		return Edge{}, false
	}
	return e.edge, true
}

// Unbound returns the transforms that are kept but unreachable.
func (g *Graph) Unbound() []transform.Transform {
	var out []transform.Transform
	for _, e := range g.entries {
		if !e.bound {
			out = append(out, e.t)
		}
	}
	return out
}

// Node returns the named system with a copy of its outgoing edges.
func (g *Graph) Node(name string) (Node, bool) {
	id, ok := g.reg.Lookup(name)
	if !ok {
		return Node{}, false
	}
	return Node{
		Space: g.reg.ByID(id),
		Edges: append([]Edge(nil), g.nodes[id]...),
	}, true
}

// EdgeCount returns the number of bound transforms.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, edges := range g.nodes {
		n += len(edges)
	}
	return n
}

// Diagnostics returns everything construction and synthesis reported.
func (g *Graph) Diagnostics() []Diagnostic {
	return append([]Diagnostic(nil), g.diags...)
}
