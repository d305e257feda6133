package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/ctgraph/internal/affine"
	"github.com/roach88/ctgraph/internal/graph"
	"github.com/roach88/ctgraph/internal/store"
	"github.com/roach88/ctgraph/internal/transform"
)

// PathOptions holds flags for the path command.
type PathOptions struct {
	Axes     bool   // endpoints are comma-separated axis labels
	Params   string // SQLite parameter store for parametrized transforms
	Affine3D bool   // embed every step into 3-D before composing
}

// PathResult is the resolved route and its composed matrix.
type PathResult struct {
	From       string      `json:"from"`
	To         string      `json:"to"`
	Transforms []string    `json:"transforms"`
	Matrix     [][]float64 `json:"matrix"`

	route string
}

func (r PathResult) String() string {
	var b strings.Builder
	b.WriteString(r.route)
	for _, row := range r.Matrix {
		b.WriteByte('\n')
		fmt.Fprint(&b, row)
	}
	return b.String()
}

// NewPathCommand creates the path command.
func NewPathCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PathOptions{}

	cmd := &cobra.Command{
		Use:   "path <metadata> <from> <to>",
		Short: "Resolve the transform between two coordinate systems",
		Long: `Find a chain of transforms from one coordinate system to another and
print the composed affine matrix.

The route is the first one found by a depth-first search in declaration
order, not necessarily the shortest. With --axes, <from> and <to> are
comma-separated axis labels; a label list without a matching system gets a
default system.`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPath(rootOpts, opts, cmd, args[0], args[1], args[2])
		},
	}

	cmd.Flags().BoolVar(&opts.Axes, "axes", false, "treat <from> and <to> as comma-separated axis labels")
	cmd.Flags().StringVar(&opts.Params, "params", "", "SQLite parameter store for parametrized transforms")
	cmd.Flags().BoolVar(&opts.Affine3D, "affine3d", false, "embed each step into a 3x4 matrix before composing")

	return cmd
}

func runPath(rootOpts *RootOptions, opts *PathOptions, cmd *cobra.Command, file, from, to string) error {
	f := newFormatter(rootOpts, cmd)
	log := rootOpts.logger()

	g, _, err := loadGraph(rootOpts, file, f)
	if err != nil {
		return err
	}

	var (
		p  *graph.Path
		ok bool
	)
	if opts.Axes {
		p, ok = g.PathFromAxes(splitList(from), splitList(to))
	} else {
		for _, name := range []string{from, to} {
			if _, known := g.Space(name); !known {
				return f.Fail(ExitFailure, ErrCodeNotFound, fmt.Sprintf("unknown coordinate system %s", name), nil)
			}
		}
		p, ok = g.Path(from, to)
	}
	if !ok {
		return f.Fail(ExitFailure, ErrCodeNoPath, fmt.Sprintf("no path from %s to %s", from, to), unboundDetails(g))
	}
	f.VerboseLog("Route: %s", p)

	var src transform.ParameterSource
	if opts.Params != "" {
		s, err := store.Open(opts.Params)
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeStore, fmt.Sprintf("opening parameter store: %v", err), nil)
		}
		defer s.Close()
		src = s
	}

	m, err := compose(cmd, p, src, opts.Affine3D)
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeMaterialize, err.Error(), nil)
	}

	log.Info("resolved path",
		zap.String("from", p.Start().Name),
		zap.String("to", p.End().Name),
		zap.Int("edges", p.Len()))

	return f.Success(PathResult{
		From:       p.Start().Name,
		To:         p.End().Name,
		Transforms: transformNames(p.Transforms()),
		Matrix:     m.Rows(),
		route:      p.String(),
	})
}

func compose(cmd *cobra.Command, p *graph.Path, src transform.ParameterSource, embed bool) (*affine.Affine, error) {
	if embed {
		return p.TotalAffine3D(cmd.Context(), src)
	}
	seq, err := p.TotalTransform(cmd.Context(), src)
	if err != nil {
		return nil, err
	}
	return seq.Compose()
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
