package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/ctgraph/internal/store"
	"github.com/roach88/ctgraph/internal/transform"
)

// ParamsResult is one stored parameter.
type ParamsResult struct {
	Path  string    `json:"path"`
	Shape []int     `json:"shape,omitempty"`
	Data  []float64 `json:"data"`
}

func (r ParamsResult) String() string {
	if len(r.Shape) > 0 {
		return fmt.Sprintf("%s %v = %v", r.Path, r.Shape, r.Data)
	}
	return fmt.Sprintf("%s = %v", r.Path, r.Data)
}

// ParamsListResult lists stored parameter paths.
type ParamsListResult struct {
	Paths []string `json:"paths"`
}

func (r ParamsListResult) String() string {
	return strings.Join(r.Paths, "\n")
}

// NewParamsCommand creates the params command and its subcommands.
func NewParamsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "params",
		Short: "Manage stored transform parameters",
		Long: `Read and write the numeric parameters that parametrized transforms
fetch at materialization time. Parameters live in a SQLite database and are
addressed by slash-separated paths.`,
	}

	cmd.AddCommand(newParamsSetCommand(rootOpts))
	cmd.AddCommand(newParamsGetCommand(rootOpts))
	cmd.AddCommand(newParamsListCommand(rootOpts))
	cmd.AddCommand(newParamsDeleteCommand(rootOpts))

	return cmd
}

func newParamsSetCommand(rootOpts *RootOptions) *cobra.Command {
	var shape string

	cmd := &cobra.Command{
		Use:   "set <db> <path> <value>...",
		Short: "Store parameters at a path",
		Long: `Store numbers at a parameter path, replacing any previous value.
Flags must precede <db> so that negative values are read as numbers.`,
		Args:          cobra.MinimumNArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParamsSet(rootOpts, cmd, args[0], args[1], shape, args[2:])
		},
	}
	cmd.Flags().SetInterspersed(false)
	cmd.Flags().StringVar(&shape, "shape", "", "matrix shape as rows,cols")

	return cmd
}

func runParamsSet(opts *RootOptions, cmd *cobra.Command, db, path, shape string, values []string) error {
	f := newFormatter(opts, cmd)

	p, err := parseParameters(shape, values)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeBadArgument, err.Error(), nil)
	}

	s, err := store.Open(db)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, fmt.Sprintf("opening parameter store: %v", err), nil)
	}
	defer s.Close()

	if err := s.Put(cmd.Context(), path, p); err != nil {
		if errors.Is(err, store.ErrShapeMismatch) {
			return f.Fail(ExitCommandError, ErrCodeBadArgument, err.Error(), nil)
		}
		return f.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
	}

	opts.logger().Info("stored parameters",
		zap.String("path", store.CleanPath(path)),
		zap.Ints("shape", p.Shape),
		zap.Int("values", len(p.Data)))

	return f.Success(ParamsResult{Path: store.CleanPath(path), Shape: p.Shape, Data: p.Data})
}

func newParamsGetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "get <db> <path>",
		Short:         "Print the parameters stored at a path",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			s, err := store.Open(args[0])
			if err != nil {
				return f.Fail(ExitCommandError, ErrCodeStore, fmt.Sprintf("opening parameter store: %v", err), nil)
			}
			defer s.Close()

			path := store.CleanPath(args[1])
			p, err := s.Read(cmd.Context(), path)
			if errors.Is(err, store.ErrNotFound) {
				return f.Fail(ExitFailure, ErrCodeNotFound, fmt.Sprintf("no parameters at %s", path), nil)
			}
			if err != nil {
				return f.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
			}
			return f.Success(ParamsResult{Path: path, Shape: p.Shape, Data: p.Data})
		},
	}
}

func newParamsListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list <db> [prefix]",
		Short:         "List stored parameter paths",
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			s, err := store.Open(args[0])
			if err != nil {
				return f.Fail(ExitCommandError, ErrCodeStore, fmt.Sprintf("opening parameter store: %v", err), nil)
			}
			defer s.Close()

			var prefix string
			if len(args) == 2 {
				prefix = args[1]
			}
			paths, err := s.List(cmd.Context(), prefix)
			if err != nil {
				return f.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
			}
			return f.Success(ParamsListResult{Paths: paths})
		},
	}
}

func newParamsDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <db> <path>",
		Short:         "Remove the parameters stored at a path",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			s, err := store.Open(args[0])
			if err != nil {
				return f.Fail(ExitCommandError, ErrCodeStore, fmt.Sprintf("opening parameter store: %v", err), nil)
			}
			defer s.Close()

			path := store.CleanPath(args[1])
			err = s.Delete(cmd.Context(), path)
			if errors.Is(err, store.ErrNotFound) {
				return f.Fail(ExitFailure, ErrCodeNotFound, fmt.Sprintf("no parameters at %s", path), nil)
			}
			if err != nil {
				return f.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
			}
			return f.Success(ParamsListResult{Paths: []string{path}})
		},
	}
}

// parseParameters parses numeric arguments and an optional rows,cols shape.
func parseParameters(shape string, values []string) (transform.Parameters, error) {
	var p transform.Parameters
	for _, v := range values {
		x, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return transform.Parameters{}, fmt.Errorf("invalid value %q: not a number", v)
		}
		p.Data = append(p.Data, x)
	}
	if shape == "" {
		return p, nil
	}
	for _, dim := range strings.Split(shape, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(dim))
		if err != nil {
			return transform.Parameters{}, fmt.Errorf("invalid shape %q: want rows,cols", shape)
		}
		p.Shape = append(p.Shape, n)
	}
	return p, nil
}
