package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/berbicanes/queryark/cli/internal/ui"
	"github.com/berbicanes/queryark/compare"
)

func newDataDiffCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "datadiff <source-conn:schema.table> <target-conn:schema.table>",
		Short: "Compare the rows of two tables by primary key",
		Long: `Fetch all rows of both tables and match them by primary key. Both
tables need the same column set and a primary key; tables above the row
limit are rejected rather than partially compared.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			source, err := parseTarget(a.cfg, args[0])
			if err != nil {
				return err
			}
			if err := requireTable(source, args[0]); err != nil {
				return err
			}
			target, err := parseTarget(a.cfg, args[1])
			if err != nil {
				return err
			}
			if err := requireTable(target, args[1]); err != nil {
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

			srcDef, err := a.tableDefinition(ctx, srcSession, source)
			if err != nil {
				return err
			}
			keyPositions := srcDef.PrimaryKeyPositions()
			if len(keyPositions) == 0 {
				ui.PrintWarning("%s has no primary key, rows cannot be matched", source.path)
				return compare.ErrNoPrimaryKey
			}

			spinner := ui.Spinner("fetching rows")
			srcRows, err := fetchRows(ctx, srcSession, source, srcDef.ColumnNames())
			if err != nil {
				spinner.Fail()
				return err
			}
			tgtRows, err := fetchRows(ctx, tgtSession, target, srcDef.ColumnNames())
			if err != nil {
				spinner.Fail()
				return err
			}
			spinner.Success()

			result, err := compare.DataDiff(srcRows, tgtRows, srcDef.ColumnNames(), keyPositions)
			if err != nil {
				if errors.Is(err, compare.ErrTooManyRows) {
					ui.PrintWarning("table exceeds the %d row limit, narrow it with a query and use 'compare'", compare.MaxRows)
				}
				return err
			}

			ui.PrintHeader("data diff", args[0], args[1])
			ui.PrintDataDiff(result)
			return nil
		},
	}
	return cmd
}

// fetchRows pulls every row of a table with a deterministic column order.
// One past the engine limit is enough to trigger its row cap check.
func fetchRows(ctx context.Context, s *session, t *target, columns []string) ([][]any, error) {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = s.dialect.Quote(c)
	}
	query := fmt.Sprintf("SELECT %s FROM %s",
		strings.Join(quoted, ", "),
		s.dialect.QualifiedTable(t.path.Schema, t.path.Table))

	s.executor.MaxRows = compare.MaxRows + 1
	result, err := s.executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rows from %s: %w", t.path, err)
	}
	return result.Rows, nil
}
