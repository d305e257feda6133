package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/ctgraph/internal/graph"
	"github.com/roach88/ctgraph/internal/space"
)

// EdgeInfo is an outgoing edge of a coordinate system.
type EdgeInfo struct {
	Transform string `json:"transform"`
	To        string `json:"to"`
}

// SpaceInfo describes one coordinate system and its outgoing edges.
type SpaceInfo struct {
	Name  string       `json:"name"`
	Axes  []space.Axis `json:"axes"`
	Edges []EdgeInfo   `json:"edges,omitempty"`
}

// SpacesResult lists the systems of a graph in registration order.
type SpacesResult struct {
	Spaces []SpaceInfo `json:"spaces"`
}

func (r SpacesResult) String() string {
	var b strings.Builder
	for i, s := range r.Spaces {
		if i > 0 {
			b.WriteByte('\n')
		}
		axes := make([]string, len(s.Axes))
		for j, a := range s.Axes {
			axes[j] = a.String()
		}
		fmt.Fprintf(&b, "%s (%s)", s.Name, strings.Join(axes, ", "))
		for _, e := range s.Edges {
			fmt.Fprintf(&b, "\n  -[%s]-> %s", e.Transform, e.To)
		}
	}
	return b.String()
}

// NewSpacesCommand creates the spaces command.
func NewSpacesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "spaces <metadata>",
		Short:         "List coordinate systems and their transforms",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSpaces(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runSpaces(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	g, _, err := loadGraph(opts, path, formatter)
	if err != nil {
		return err
	}
	return formatter.Success(listSpaces(g))
}

func listSpaces(g *graph.Graph) SpacesResult {
	reg := g.Registry()
	result := SpacesResult{Spaces: []SpaceInfo{}}
	for _, cs := range g.Spaces() {
		info := SpaceInfo{Name: cs.Name, Axes: cs.Axes}
		if info.Axes == nil {
			info.Axes = []space.Axis{}
		}
		if node, ok := g.Node(cs.Name); ok {
			for _, e := range node.Edges {
				info.Edges = append(info.Edges, EdgeInfo{Transform: e.Name(), To: reg.ByID(e.To).Name})
			}
		}
		result.Spaces = append(result.Spaces, info)
	}
	return result
}
