package compare

import (
	"github.com/berbicanes/queryark/catalog"
)

// CompareRow classifies one matched pair (or unmatched row) of a generic
// result comparison. SourceIndex/TargetIndex are the original row positions,
// -1 when the row is absent on that side. Cells are paired positionally up
// to the shorter column list; column names are not reconciled.
type CompareRow struct {
	Key            string
	SourceIndex    int
	TargetIndex    int
	Source         []any
	Target         []any
	ChangedColumns []int
	Status         DiffStatus
}

// CompareResult is the outcome of comparing two arbitrary result sets.
// Positional is true when no key columns were supplied and rows were
// matched purely by position; the UI surfaces this as a hint, because a
// reordered-but-identical set then reports spurious changed rows.
type CompareResult struct {
	Rows       []CompareRow
	Summary    Summary
	Positional bool
	Width      int
}

// CompareResults aligns two unrelated result sets.
//
// When keyColumns is non-empty, rows are matched by the concatenation of
// those cell values, the same algorithm as the primary-key data diff. When
// empty, row i is matched against row i; that is deliberate behavior for
// keyless results, not a defect.
func CompareResults(source, target *catalog.ResultSet, keyColumns []int) *CompareResult {
	width := len(source.Columns)
	if len(target.Columns) < width {
		width = len(target.Columns)
	}

	if len(keyColumns) == 0 {
		return comparePositional(source, target, width)
	}
	return compareKeyed(source, target, keyColumns, width)
}

func comparePositional(source, target *catalog.ResultSet, width int) *CompareResult {
	result := &CompareResult{Positional: true, Width: width}

	n := len(source.Rows)
	if len(target.Rows) > n {
		n = len(target.Rows)
	}
	for i := 0; i < n; i++ {
		row := CompareRow{SourceIndex: -1, TargetIndex: -1}
		switch {
		case i >= len(source.Rows):
			row.TargetIndex = i
			row.Target = target.Rows[i]
			row.Status = StatusAdded
		case i >= len(target.Rows):
			row.SourceIndex = i
			row.Source = source.Rows[i]
			row.Status = StatusRemoved
		default:
			row.SourceIndex = i
			row.TargetIndex = i
			row.Source = source.Rows[i]
			row.Target = target.Rows[i]
			row.ChangedColumns = changedColumns(row.Source, row.Target, width)
			if len(row.ChangedColumns) > 0 {
				row.Status = StatusChanged
			} else {
				row.Status = StatusUnchanged
			}
		}
		result.Summary.count(row.Status)
		result.Rows = append(result.Rows, row)
	}
	return result
}

func compareKeyed(source, target *catalog.ResultSet, keyColumns []int, width int) *CompareResult {
	result := &CompareResult{Width: width}

	type indexedRow struct {
		row   []any
		index int
	}
	srcByKey := make(map[string]indexedRow, len(source.Rows))
	srcOrder := make([]string, 0, len(source.Rows))
	for i, row := range source.Rows {
		key := keyString(row, keyColumns)
		if _, dup := srcByKey[key]; !dup {
			srcByKey[key] = indexedRow{row: row, index: i}
			srcOrder = append(srcOrder, key)
		}
	}
	tgtByKey := make(map[string]indexedRow, len(target.Rows))
	tgtOrder := make([]string, 0, len(target.Rows))
	for i, row := range target.Rows {
		key := keyString(row, keyColumns)
		if _, dup := tgtByKey[key]; !dup {
			tgtByKey[key] = indexedRow{row: row, index: i}
			tgtOrder = append(tgtOrder, key)
		}
	}

	for _, key := range unionNames(srcOrder, tgtOrder) {
		src, inSrc := srcByKey[key]
		tgt, inTgt := tgtByKey[key]

		row := CompareRow{Key: key, SourceIndex: -1, TargetIndex: -1}
		switch {
		case !inTgt:
			row.SourceIndex = src.index
			row.Source = src.row
			row.Status = StatusRemoved
		case !inSrc:
			row.TargetIndex = tgt.index
			row.Target = tgt.row
			row.Status = StatusAdded
		default:
			row.SourceIndex = src.index
			row.TargetIndex = tgt.index
			row.Source = src.row
			row.Target = tgt.row
			row.ChangedColumns = changedColumns(src.row, tgt.row, width)
			if len(row.ChangedColumns) > 0 {
				row.Status = StatusChanged
			} else {
				row.Status = StatusUnchanged
			}
		}
		result.Summary.count(row.Status)
		result.Rows = append(result.Rows, row)
	}
	return result
}
