// Command ctgraph resolves transforms between coordinate systems declared in
// dataset metadata.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/roach88/ctgraph/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cli.NewRootCommand().ExecuteContext(ctx)
	stop()
	os.Exit(cli.GetExitCode(err))
}
