// Command queryark compares database schemas, table data, and query
// results across connections.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/berbicanes/queryark/cli/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := commands.NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
