package cli

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/roach88/ctgraph/internal/graph"
	"github.com/roach88/ctgraph/internal/metadata"
	"github.com/roach88/ctgraph/internal/transform"
)

// loadGraph loads a metadata file and builds its graph. Conversion errors
// do not stop the build; they are returned next to the graph so that
// commands can decide whether to report them.
func loadGraph(opts *RootOptions, path string, f *OutputFormatter) (*graph.Graph, []error, error) {
	log := opts.logger()

	res, errs := metadata.Load(path, metadata.LoadModeCollectAll)
	if res == nil {
		return nil, errs, failLoad(f, errs[0])
	}
	for _, err := range errs {
		log.Warn("metadata entry skipped", zap.String("file", path), zap.Error(err))
	}

	g := graph.Build(res.Spaces, res.Transforms,
		graph.WithLogger(log.With(zap.String("file", path))),
		graph.WithConfig(opts.cfg().Space()),
	)
	f.VerboseLog("Loaded %d coordinate system(s) and %d transform(s) from %s",
		len(res.Spaces), len(res.Transforms), path)
	return g, errs, nil
}

// failLoad reports a metadata load error. Load failures are command errors.
func failLoad(f *OutputFormatter, err error) error {
	var loadErr *metadata.LoadError
	if errors.As(err, &loadErr) {
		var details any
		if loadErr.Pos.IsValid() {
			details = map[string]any{"line": loadErr.Pos.Line(), "column": loadErr.Pos.Column()}
		}
		return f.Fail(ExitCommandError, loadErr.Code, loadErr.Message, details)
	}
	return f.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
}

func transformNames(ts []transform.Transform) []string {
	names := make([]string, len(ts))
	for i, t := range ts {
		names[i] = transform.Name(t)
	}
	return names
}

// unboundDetails explains a missing path when construction left
// transforms unreachable.
func unboundDetails(g *graph.Graph) any {
	unbound := g.Unbound()
	if len(unbound) == 0 {
		return nil
	}
	return map[string]any{
		"unbound": transformNames(unbound),
		"hint":    fmt.Sprintf("%d transform(s) could not be bound; run validate for details", len(unbound)),
	}
}
