package commands

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/berbicanes/queryark/cli/internal/ui"
	"github.com/berbicanes/queryark/compare"
)

func newCompareCommand(a *app) *cobra.Command {
	var keys []string
	var pick bool

	cmd := &cobra.Command{
		Use:   "compare <source-conn> <target-conn> <sql>",
		Short: "Run a query on two connections and compare the results",
		Long: `Execute the same query against both connections and compare the
result sets. With --key the named columns identify rows across the two
sides; with --pick they are chosen interactively; otherwise rows are
compared positionally, which is order-sensitive.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			source, err := parseTarget(a.cfg, args[0])
			if err != nil {
				return err
			}
			target, err := parseTarget(a.cfg, args[1])
			if err != nil {
				return err
			}
			query := args[2]

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

			spinner := ui.Spinner("running query on both sides")
			srcResult, err := srcSession.executor.Query(ctx, query)
			if err != nil {
				spinner.Fail()
				return fmt.Errorf("query failed on %s: %w", source.conn.Name, err)
			}
			tgtResult, err := tgtSession.executor.Query(ctx, query)
			if err != nil {
				spinner.Fail()
				return fmt.Errorf("query failed on %s: %w", target.conn.Name, err)
			}
			spinner.Success()

			if pick && len(keys) == 0 {
				prompt := &survey.MultiSelect{
					Message: "Key columns that identify a row:",
					Options: srcResult.Columns,
				}
				if err := survey.AskOne(prompt, &keys); err != nil {
					return err
				}
			}

			keyColumns, err := resolveKeyColumns(srcResult.Columns, keys)
			if err != nil {
				return err
			}

			result := compare.CompareResults(srcResult, tgtResult, keyColumns)
			ui.PrintHeader("result compare", source.conn.Name, target.conn.Name)
			ui.PrintCompareResult(result)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&keys, "key", nil, "columns that identify a row")
	cmd.Flags().BoolVar(&pick, "pick", false, "choose key columns interactively")
	return cmd
}

func resolveKeyColumns(columns, keys []string) ([]int, error) {
	var positions []int
	for _, key := range keys {
		found := -1
		for i, col := range columns {
			if col == key {
				found = i
				break
			}
		}
		if found < 0 {
			return nil, fmt.Errorf("key column %q is not in the result set", key)
		}
		positions = append(positions, found)
	}
	return positions, nil
}
