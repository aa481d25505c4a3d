package compare

import (
	"errors"
	"fmt"
)

// MaxRows is the per-side row ceiling for data diffs. Callers are expected
// to cap their fetches at this ceiling; the engine rejects larger inputs
// instead of silently truncating.
const MaxRows = 5000

// ErrNoPrimaryKey is returned when a data diff is requested without key
// columns. Callers check the table definition first and surface a dedicated
// "no primary key" state instead of reaching this error.
var ErrNoPrimaryKey = errors.New("data diff requires at least one primary key column")

// ErrTooManyRows is returned when either side exceeds MaxRows.
var ErrTooManyRows = fmt.Errorf("data diff input exceeds %d rows", MaxRows)

// RowDiff classifies one primary-key value from the union of both sides.
// Source/Target are nil for keys present on only one side. ChangedColumns
// holds the positions of differing cells for changed rows.
type RowDiff struct {
	Key            string
	Source         []any
	Target         []any
	ChangedColumns []int
	Status         DiffStatus
}

// DataDiffResult is the outcome of a primary-key data diff. Rows keep the
// caller's original order (source rows first, then target-only keys) so the
// UI can filter by status without re-sorting.
type DataDiffResult struct {
	Columns []string
	Rows    []RowDiff
	Summary Summary
}

// DataDiff aligns two row sets by primary-key value.
//
// keyPositions are the zero-based positions of the primary key columns and
// must be non-empty. A key present only in the source is removed, only in
// the target is added; a key on both sides is changed when any cell differs
// and unchanged otherwise. Duplicate keys within one side keep the first
// occurrence, matching what a primary key guarantees anyway.
func DataDiff(source, target [][]any, columns []string, keyPositions []int) (*DataDiffResult, error) {
	if len(keyPositions) == 0 {
		return nil, ErrNoPrimaryKey
	}
	if len(source) > MaxRows || len(target) > MaxRows {
		return nil, ErrTooManyRows
	}

	srcByKey := make(map[string][]any, len(source))
	srcOrder := make([]string, 0, len(source))
	for _, row := range source {
		key := keyString(row, keyPositions)
		if _, dup := srcByKey[key]; !dup {
			srcByKey[key] = row
			srcOrder = append(srcOrder, key)
		}
	}

	tgtByKey := make(map[string][]any, len(target))
	tgtOrder := make([]string, 0, len(target))
	for _, row := range target {
		key := keyString(row, keyPositions)
		if _, dup := tgtByKey[key]; !dup {
			tgtByKey[key] = row
			tgtOrder = append(tgtOrder, key)
		}
	}

	result := &DataDiffResult{Columns: columns}
	for _, key := range unionNames(srcOrder, tgtOrder) {
		srcRow, inSrc := srcByKey[key]
		tgtRow, inTgt := tgtByKey[key]

		diff := RowDiff{Key: key, Source: srcRow, Target: tgtRow}
		switch {
		case !inTgt:
			diff.Status = StatusRemoved
		case !inSrc:
			diff.Status = StatusAdded
		default:
			diff.ChangedColumns = changedColumns(srcRow, tgtRow, len(columns))
			if len(diff.ChangedColumns) > 0 {
				diff.Status = StatusChanged
			} else {
				diff.Status = StatusUnchanged
			}
		}
		result.Summary.count(diff.Status)
		result.Rows = append(result.Rows, diff)
	}
	return result, nil
}

// changedColumns returns the positions where the two rows differ, comparing
// up to width columns. A row shorter than width counts the missing cells as
// differing unless both sides lack them.
func changedColumns(src, tgt []any, width int) []int {
	var changed []int
	for i := 0; i < width; i++ {
		srcHas := i < len(src)
		tgtHas := i < len(tgt)
		switch {
		case !srcHas && !tgtHas:
			continue
		case srcHas != tgtHas:
			changed = append(changed, i)
		case !valuesEqual(src[i], tgt[i]):
			changed = append(changed, i)
		}
	}
	return changed
}
