package commands

import (
	"context"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/berbicanes/queryark/cli/internal/config"
	"github.com/berbicanes/queryark/cli/internal/ui"
	"github.com/berbicanes/queryark/cli/internal/watch"
	"github.com/berbicanes/queryark/compare"
	"github.com/berbicanes/queryark/migration"
)

type diffOptions struct {
	script  bool
	apply   bool
	verbose bool
}

func newDiffCommand(a *app) *cobra.Command {
	var opts diffOptions
	var watchConfig bool

	cmd := &cobra.Command{
		Use:   "diff <source-conn:schema.table> <target-conn:schema.table>",
		Short: "Compare the structure of two tables",
		Long: `Compare columns, indexes, and foreign keys of two tables, which may
live on different connections and different engines. With --script a
migration script is generated that would bring the source table to the
target's structure; --apply runs it against the source after confirmation.
--watch re-runs the comparison whenever the connection registry changes.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if !watchConfig {
				return a.runDiff(ctx, args[0], args[1], opts)
			}

			if err := a.runDiff(ctx, args[0], args[1], opts); err != nil {
				ui.PrintError("%v", err)
			}
			path, err := config.Path()
			if err != nil {
				return err
			}
			w, err := watch.New(path, func() error {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				// Re-registered connections may point at different servers.
				for _, c := range a.cfg.Connections {
					a.cache.ClearConnection(catalogID(c.Name))
				}
				a.cfg = cfg
				return a.runDiff(ctx, args[0], args[1], opts)
			})
			if err != nil {
				return err
			}
			defer w.Stop()
			w.Start()

			ui.PrintInfo("watching %s, press Ctrl+C to stop", path)
			<-ctx.Done()
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.script, "script", false, "print a migration script for the differences")
	cmd.Flags().BoolVar(&opts.apply, "apply", false, "generate and apply the migration to the source")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "include unchanged objects in the listing")
	cmd.Flags().BoolVar(&watchConfig, "watch", false, "re-run when the connection registry changes")
	return cmd
}

func (a *app) runDiff(ctx context.Context, sourceArg, targetArg string, opts diffOptions) error {
	source, err := parseTarget(a.cfg, sourceArg)
	if err != nil {
		return err
	}
	if err := requireTable(source, sourceArg); err != nil {
		return err
	}
	target, err := parseTarget(a.cfg, targetArg)
	if err != nil {
		return err
	}
	if err := requireTable(target, targetArg); err != nil {
		return err
	}

	srcSession, err := openSession(source)
	if err != nil {
		return err
	}
	defer srcSession.close()
	tgtSession, err := openSession(target)
	if err != nil {
		return err
	}
	defer tgtSession.close()

	spinner := ui.Spinner("loading table structure")
	srcDef, err := a.tableDefinition(ctx, srcSession, source)
	if err != nil {
		spinner.Fail()
		return err
	}
	tgtDef, err := a.tableDefinition(ctx, tgtSession, target)
	if err != nil {
		spinner.Fail()
		return err
	}
	spinner.Success()

	ui.PrintHeader("structural diff", sourceArg, targetArg)

	// Normalize with the source dialect: the migration, if any, runs
	// against the source connection.
	result := compare.NewStructuralDiffer(srcSession.dialect).Compare(srcDef, tgtDef)
	ui.PrintStructuralDiff(result, opts.verbose)

	if !opts.script && !opts.apply {
		return nil
	}
	if result.Summary.Total() == result.Summary.Unchanged {
		return nil
	}

	gen := migration.NewGenerator(srcSession.dialect)
	statements := gen.Generate(result, source.path.Schema, source.path.Table)
	if err := ui.PrintSQL(gen.Script(result, source.path.Schema, source.path.Table)); err != nil {
		return err
	}

	if !opts.apply {
		return nil
	}

	confirmed := false
	prompt := &survey.Confirm{
		Message: fmt.Sprintf("Apply %d statement(s) to %s?", len(statements), source.conn.Name),
	}
	if err := survey.AskOne(prompt, &confirmed); err != nil {
		return err
	}
	if !confirmed {
		ui.PrintInfo("aborted")
		return nil
	}

	executed, err := srcSession.executor.ExecScript(ctx, statements)
	if err != nil {
		return fmt.Errorf("migration failed after %d statement(s): %w", executed, err)
	}
	// Structure changed under the cache, drop the stale entries.
	a.cache.ClearConnection(source.id())
	ui.PrintSuccess("applied %d statement(s)", executed)
	return nil
}
