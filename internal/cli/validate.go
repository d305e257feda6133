package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/ctgraph/internal/graph"
	"github.com/roach88/ctgraph/internal/metadata"
)

// Issue is one problem found while loading or building the graph.
type Issue struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Line      int    `json:"line,omitempty"`
	Transform string `json:"transform,omitempty"`
	Space     string `json:"space,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid      bool     `json:"valid"`
	Spaces     int      `json:"spaces"`
	Transforms int      `json:"transforms"`
	Edges      int      `json:"edges"`
	Unbound    []string `json:"unbound,omitempty"`
	Issues     []Issue  `json:"issues,omitempty"`
}

func (r ValidationResult) String() string {
	return fmt.Sprintf("✓ Metadata valid: %d coordinate system(s), %d transform(s), %d edge(s)",
		r.Spaces, r.Transforms, r.Edges)
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <metadata>",
		Short: "Validate coordinate metadata",
		Long: `Load a metadata file, build its transform graph and report every
problem found: malformed entries, conflicting coordinate systems, invalid
transforms and transforms whose endpoints cannot be resolved.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	g, loadErrors, err := loadGraph(opts, path, formatter)
	if err != nil {
		return err
	}

	var issues []Issue
	for _, err := range loadErrors {
		issues = append(issues, loadIssue(err))
	}
	for _, d := range g.Diagnostics() {
		formatter.VerboseLog("%s", d)
		issues = append(issues, Issue{
			Code:      string(d.Code),
			Message:   d.Message,
			Transform: d.Transform,
			Space:     d.Space,
		})
	}

	result := summarize(g)
	if len(issues) > 0 {
		result.Issues = issues
		return outputValidationErrors(formatter, result)
	}

	result.Valid = true
	return formatter.Success(result)
}

func summarize(g *graph.Graph) ValidationResult {
	var unbound []string
	if u := g.Unbound(); len(u) > 0 {
		unbound = transformNames(u)
	}
	return ValidationResult{
		Spaces:     len(g.Spaces()),
		Transforms: len(g.Transforms()),
		Edges:      g.EdgeCount(),
		Unbound:    unbound,
	}
}

func loadIssue(err error) Issue {
	var loadErr *metadata.LoadError
	if errors.As(err, &loadErr) {
		issue := Issue{Code: loadErr.Code, Message: loadErr.Message}
		if loadErr.Pos.IsValid() {
			issue.Line = loadErr.Pos.Line()
		}
		return issue
	}
	return Issue{Code: ErrCodeGeneric, Message: err.Error()}
}

// outputValidationErrors outputs every issue and returns a validation failure.
func outputValidationErrors(formatter *OutputFormatter, result ValidationResult) error {
	issues := result.Issues
	failure := NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d issue(s)", len(issues)))

	if formatter.Format == "json" {
		if err := formatter.Report(result, issues[0].Code, issues[0].Message); err != nil {
			return err
		}
		return failure
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, issue := range issues {
		if issue.Line > 0 {
			fmt.Fprintf(formatter.Writer, "line %d\n", issue.Line)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", issue.Code, issue.Message)
	}

	return failure
}
