package graph

import (
	"github.com/roach88/ctgraph/internal/space"
)

// Path returns a route from one named system to another.
//
// from == to yields the zero-edge path. Otherwise the first path reaching
// to in AllPaths order is returned. Unknown names and unreachable
// destinations return false.
func (g *Graph) Path(from, to string) (*Path, bool) {
	fromID, ok := g.reg.Lookup(from)
	if !ok {
		return nil, false
	}
	toID, ok := g.reg.Lookup(to)
	if !ok {
		return nil, false
	}
	return g.pathByID(fromID, toID)
}

// PathFromAxes is Path for endpoints given as axis labels. A single label
// naming a registered system is taken as that name. Any other label list
// resolves to the first system with exactly those labels, synthesizing a
// default system when there is none.
func (g *Graph) PathFromAxes(from, to []string) (*Path, bool) {
	fromID, ok := g.resolveAxesOrName(from)
	if !ok {
		return nil, false
	}
	toID, ok := g.resolveAxesOrName(to)
	if !ok {
		return nil, false
	}
	return g.pathByID(fromID, toID)
}

func (g *Graph) resolveAxesOrName(labels []string) (space.ID, bool) {
	if len(labels) == 1 {
		if id, ok := g.reg.Lookup(labels[0]); ok {
			return id, true
		}
	}
	return g.spaceFromAxes(labels)
}

func (g *Graph) pathByID(from, to space.ID) (*Path, bool) {
	if from == to {
		return g.root(from), true
	}
	var found *Path
	g.walk(g.root(from), func(p *Path) bool {
		if p.end == to {
			found = p
			return false
		}
		return true
	})
	return found, found != nil
}

// AllPaths lists every simple path of at least one edge starting at the
// named system, in depth-first pre-order.
func (g *Graph) AllPaths(from string) []*Path {
	id, ok := g.reg.Lookup(from)
	if !ok {
		return nil
	}
	var paths []*Path
	g.walk(g.root(id), func(p *Path) bool {
		paths = append(paths, p)
		return true
	})
	return paths
}

// walk visits every extension of p depth-first, skipping edges whose
// destination is already on the path. It stops as soon as visit returns
// false and reports whether it ran to completion.
func (g *Graph) walk(p *Path, visit func(*Path) bool) bool {
	for _, e := range g.nodes[p.end] {
		if p.hasID(e.To) {
			continue
		}
		next := p.extend(e)
		if !visit(next) {
			return false
		}
		if !g.walk(next, visit) {
			return false
		}
	}
	return true
}
