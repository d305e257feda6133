package graph

import (
	"fmt"

	"github.com/roach88/ctgraph/internal/space"
	"github.com/roach88/ctgraph/internal/transform"
)

// BuildTransformFromAxes stacks declared transforms into one ByDimension
// transform from one named system to another.
//
// For each output axis of to, exactly one bound declared edge must produce
// it, reading only axes of from and writing only axes of to. Synthesized
// inverses are not candidates. Two edges claiming one axis fail with
// transform.ErrAxisConflict; an axis nobody produces fails with
// transform.ErrUncoveredAxis. Both record a diagnostic.
func (g *Graph) BuildTransformFromAxes(from, to string) (transform.Transform, error) {
	return g.buildByDimension(from, to, false)
}

// BuildImpliedTransform is BuildTransformFromAxes, except that an unclaimed
// axis present in both systems passes through unchanged.
func (g *Graph) BuildImpliedTransform(from, to string) (transform.Transform, error) {
	return g.buildByDimension(from, to, true)
}

func (g *Graph) buildByDimension(from, to string, implied bool) (transform.Transform, error) {
	srcID, ok := g.reg.Lookup(from)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSpace, from)
	}
	dstID, ok := g.reg.Lookup(to)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSpace, to)
	}
	src, dst := g.reg.ByID(srcID), g.reg.ByID(dstID)
	name := from + "_to_" + to
	candidates := g.stackCandidates(srcID, dstID)

	var parts []transform.Part
	used := make(map[string]bool)
	for _, label := range dst.Labels() {
		var claim *Edge
		for i := range candidates {
			c := &candidates[i]
			if !g.reg.ByID(c.To).HasAxis(label) {
				continue
			}
			if claim != nil && claim.Name() != c.Name() {
				g.report(Diagnostic{
					Code:      CodeAxisConflict,
					Message:   fmt.Sprintf("%s: axis %q produced by both %q and %q", name, label, claim.Name(), c.Name()),
					Transform: name,
				})
				return nil, fmt.Errorf("%s: %w: %q by %q and %q", name, transform.ErrAxisConflict, label, claim.Name(), c.Name())
			}
			claim = c
		}

		if claim == nil {
			if implied && src.HasAxis(label) {
				parts = append(parts, transform.Part{
					Transform:  transform.Identity{Dims: 1},
					InputAxes:  []string{label},
					OutputAxes: []string{label},
				})
				continue
			}
			g.report(Diagnostic{
				Code:      CodeUncoveredAxis,
				Message:   fmt.Sprintf("%s: no transform produces axis %q", name, label),
				Transform: name,
			})
			return nil, fmt.Errorf("%s: %w: %q", name, transform.ErrUncoveredAxis, label)
		}

		if used[claim.Name()] {
			continue
		}
		used[claim.Name()] = true
		parts = append(parts, transform.Part{
			Transform:  claim.Transform,
			InputAxes:  g.reg.ByID(claim.From).Labels(),
			OutputAxes: g.reg.ByID(claim.To).Labels(),
		})
	}

	return transform.ByDimension{
		Header: transform.Header{
			Name:   name,
			Input:  transform.Named(from),
			Output: transform.Named(to),
		},
		InputAxes:  src.Labels(),
		OutputAxes: dst.Labels(),
		Parts:      parts,
	}, nil
}

// stackCandidates returns declared edges reading a subspace of src and
// writing a subspace of dst, in insertion order. A system carrying all the
// labels of src or dst only qualifies if it is that system itself, so an
// edge between two full-width systems elsewhere in a chain is not stacked.
func (g *Graph) stackCandidates(srcID, dstID space.ID) []Edge {
	src, dst := g.reg.ByID(srcID), g.reg.ByID(dstID)
	var edges []Edge
	for _, e := range g.entries {
		if !e.bound || e.t.Kind() == transform.KindInverse {
			continue
		}
		in, out := g.reg.ByID(e.edge.From), g.reg.ByID(e.edge.To)
		if in.Dim() == 0 || out.Dim() == 0 {
			continue
		}
		if stacksInto(in, e.edge.From, src, srcID) && stacksInto(out, e.edge.To, dst, dstID) {
			edges = append(edges, e.edge)
		}
	}
	return edges
}

// stacksInto reports whether cs may stand in for part of target: it is
// target itself, or a proper subspace of it.
func stacksInto(cs space.CoordinateSystem, id space.ID, target space.CoordinateSystem, targetID space.ID) bool {
	if id == targetID {
		return true
	}
	return cs.IsSubspaceOf(target) && !target.IsSubspaceOf(cs)
}
