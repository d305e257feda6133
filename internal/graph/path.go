package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/ctgraph/internal/affine"
	"github.com/roach88/ctgraph/internal/space"
	"github.com/roach88/ctgraph/internal/transform"
)

// Path is an immutable chain of edges. Each path extends its parent by one
// edge; the root path has no edge and starts and ends at the same space.
type Path struct {
	reg     *space.Registry
	maxDims int
	parent  *Path
	edge    *Edge
	start   space.ID
	end     space.ID
}

func (g *Graph) root(id space.ID) *Path {
	return &Path{reg: g.reg, maxDims: g.cfg.MaxDims, start: id, end: id}
}

func (p *Path) extend(e Edge) *Path {
	return &Path{
		reg:     p.reg,
		maxDims: p.maxDims,
		parent:  p,
		edge:    &e,
		start:   p.start,
		end:     e.To,
	}
}

// Start returns the first system of the path.
func (p *Path) Start() space.CoordinateSystem { return p.reg.ByID(p.start) }

// End returns the last system of the path.
func (p *Path) End() space.CoordinateSystem { return p.reg.ByID(p.end) }

// Len returns the number of edges.
func (p *Path) Len() int {
	n := 0
	for q := p; q.edge != nil; q = q.parent {
		n++
	}
	return n
}

// Edges returns the edges in traversal order.
func (p *Path) Edges() []Edge {
	edges := make([]Edge, p.Len())
	i := len(edges) - 1
	for q := p; q.edge != nil; q = q.parent {
		edges[i] = *q.edge
		i--
	}
	return edges
}

// Transforms returns the edge transforms in traversal order.
func (p *Path) Transforms() []transform.Transform {
	edges := p.Edges()
	out := make([]transform.Transform, len(edges))
	for i, e := range edges {
		out[i] = e.Transform
	}
	return out
}

// HasSpace reports whether the named system appears anywhere on the path.
func (p *Path) HasSpace(name string) bool {
	id, ok := p.reg.Lookup(name)
	return ok && p.hasID(id)
}

func (p *Path) hasID(id space.ID) bool {
	for q := p; q != nil; q = q.parent {
		if q.end == id {
			return true
		}
	}
	return p.start == id
}

// String renders the path as "a -[t1]-> b -[t2]-> c".
func (p *Path) String() string {
	var b strings.Builder
	b.WriteString(p.Start().Name)
	for _, e := range p.Edges() {
		fmt.Fprintf(&b, " -[%s]-> %s", e.Name(), p.reg.ByID(e.To).Name)
	}
	return b.String()
}

// TotalTransform materializes every edge, first edge first. The zero-edge
// path yields one identity step sized to the start system, or to MaxDims
// for a system without axes. src may be nil when no edge is parametrized.
func (p *Path) TotalTransform(ctx context.Context, src transform.ParameterSource) (*affine.Sequence, error) {
	if p.edge == nil {
		n := p.Start().Dim()
		if n == 0 {
			n = p.maxDims
		}
		return affine.NewSequence(affine.Identity(n)), nil
	}

	m := transform.Materializer{Source: src, MaxDims: p.maxDims}
	edges := p.Edges()
	steps := make([]*affine.Affine, len(edges))
	for i, e := range edges {
		a, err := m.Materialize(ctx, e.Transform)
		if err != nil {
			return nil, fmt.Errorf("materialize %q: %w", e.Name(), err)
		}
		steps[i] = a
	}
	return affine.NewSequence(steps...), nil
}

// TotalAffine3D embeds every step into a 3×4 block and composes them in
// traversal order.
func (p *Path) TotalAffine3D(ctx context.Context, src transform.ParameterSource) (*affine.Affine, error) {
	seq, err := p.TotalTransform(ctx, src)
	if err != nil {
		return nil, err
	}
	steps := seq.Steps()
	embedded := make([]*affine.Affine, len(steps))
	for i, s := range steps {
		e, err := s.Embed3D()
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		embedded[i] = e
	}
	return affine.NewSequence(embedded...).Compose()
}
