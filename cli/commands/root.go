// Package commands implements the queryark CLI.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/berbicanes/queryark/catalog/cache"
	"github.com/berbicanes/queryark/catalog/visibility"
	"github.com/berbicanes/queryark/cli/internal/config"
	"github.com/berbicanes/queryark/cli/internal/version"
	"github.com/berbicanes/queryark/internal/debug"
)

// app is the shared state behind every command: the connection registry,
// the per-process metadata cache, and the schema visibility filter.
type app struct {
	cfg        *config.Config
	cache      *cache.Cache
	visibility *visibility.Filter
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	var debugFlag bool
	a := &app{visibility: visibility.New()}

	root := &cobra.Command{
		Use:     "queryark",
		Short:   "Compare database schemas, data, and query results",
		Version: version.Get().String(),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if debugFlag {
				debug.Init(true)
			} else {
				debug.InitFromEnv()
			}
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			a.cfg = cfg
			a.cache = cache.New(cfg.MaxCachedTables)
			return nil
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")

	root.AddCommand(newDiffCommand(a))
	root.AddCommand(newDataDiffCommand(a))
	root.AddCommand(newCompareCommand(a))
	root.AddCommand(newSchemasCommand(a))
	root.AddCommand(newConnectionsCommand(a))
	return root
}
