package compare

import (
	"fmt"
	"strings"

	"github.com/berbicanes/queryark/catalog"
	"github.com/berbicanes/queryark/dialect"
)

// ColumnDiff classifies one column name from the union of both sides.
// Exactly one of Source/Target is nil for added/removed entries. Changes
// holds one human-readable description per differing attribute.
type ColumnDiff struct {
	Name    string
	Source  *catalog.Column
	Target  *catalog.Column
	Status  DiffStatus
	Changes []string
}

// IndexDiff classifies one index name from the union of both sides.
type IndexDiff struct {
	Name    string
	Source  *catalog.Index
	Target  *catalog.Index
	Status  DiffStatus
	Changes []string
}

// ForeignKeyDiff classifies one foreign key name from the union of both
// sides.
type ForeignKeyDiff struct {
	Name    string
	Source  *catalog.ForeignKey
	Target  *catalog.ForeignKey
	Status  DiffStatus
	Changes []string
}

// StructuralResult is the outcome of comparing two table definitions.
type StructuralResult struct {
	Columns     []ColumnDiff
	Indexes     []IndexDiff
	ForeignKeys []ForeignKeyDiff
	Summary     Summary
}

// StructuralDiffer compares two independently loaded table definitions,
// possibly from different connections and engines.
//
// Direction convention: an object present in the target but absent from the
// source is "added"; present in the source but absent from the target is
// "removed". The migration generator follows the same convention, so the
// generated script migrates the source table toward the target shape.
//
// Type names are compared literally; cross-dialect aliases (int4 vs integer)
// show up as changes. Default values are whitespace-normalized through the
// dialect before comparison.
type StructuralDiffer struct {
	dialect dialect.Dialect
}

// NewStructuralDiffer creates a structural differ. d may be nil, in which
// case defaults are compared after generic whitespace normalization.
func NewStructuralDiffer(d dialect.Dialect) *StructuralDiffer {
	return &StructuralDiffer{dialect: d}
}

// Compare diffs two table definitions and returns the three classified
// lists plus the combined summary.
func (sd *StructuralDiffer) Compare(source, target catalog.TableDefinition) *StructuralResult {
	result := &StructuralResult{
		Columns:     sd.compareColumns(source.Columns, target.Columns),
		Indexes:     sd.compareIndexes(source.Indexes, target.Indexes),
		ForeignKeys: sd.compareForeignKeys(source.ForeignKeys, target.ForeignKeys),
	}
	for _, d := range result.Columns {
		result.Summary.count(d.Status)
	}
	for _, d := range result.Indexes {
		result.Summary.count(d.Status)
	}
	for _, d := range result.ForeignKeys {
		result.Summary.count(d.Status)
	}
	return result
}

func (sd *StructuralDiffer) compareColumns(source, target []catalog.Column) []ColumnDiff {
	srcByName := make(map[string]*catalog.Column, len(source))
	for i := range source {
		srcByName[source[i].Name] = &source[i]
	}
	tgtByName := make(map[string]*catalog.Column, len(target))
	for i := range target {
		tgtByName[target[i].Name] = &target[i]
	}

	var diffs []ColumnDiff
	for _, name := range unionNames(columnNames(source), columnNames(target)) {
		src := srcByName[name]
		tgt := tgtByName[name]
		d := ColumnDiff{Name: name, Source: src, Target: tgt}
		switch {
		case src == nil:
			d.Status = StatusAdded
		case tgt == nil:
			d.Status = StatusRemoved
		default:
			d.Changes = sd.columnChanges(src, tgt)
			if len(d.Changes) > 0 {
				d.Status = StatusChanged
			} else {
				d.Status = StatusUnchanged
			}
		}
		diffs = append(diffs, d)
	}
	return diffs
}

func (sd *StructuralDiffer) columnChanges(src, tgt *catalog.Column) []string {
	var changes []string
	if src.Type != tgt.Type {
		changes = append(changes, fmt.Sprintf("type: %s -> %s", src.Type, tgt.Type))
	}
	if src.Nullable != tgt.Nullable {
		if tgt.Nullable {
			changes = append(changes, "nullable: required -> optional")
		} else {
			changes = append(changes, "nullable: optional -> required")
		}
	}
	if !sd.defaultsEqual(src.DefaultValue, tgt.DefaultValue) {
		changes = append(changes, fmt.Sprintf("default: %s -> %s",
			describeDefault(src.DefaultValue), describeDefault(tgt.DefaultValue)))
	}
	if src.IsPrimaryKey != tgt.IsPrimaryKey {
		if tgt.IsPrimaryKey {
			changes = append(changes, "primary key: added to key")
		} else {
			changes = append(changes, "primary key: removed from key")
		}
	}
	return changes
}

func (sd *StructuralDiffer) defaultsEqual(src, tgt *string) bool {
	if src == nil || tgt == nil {
		return src == nil && tgt == nil
	}
	return sd.normalizeDefault(*src) == sd.normalizeDefault(*tgt)
}

func (sd *StructuralDiffer) normalizeDefault(v string) string {
	if sd.dialect != nil {
		return sd.dialect.NormalizeDefault(v)
	}
	return strings.Join(strings.Fields(v), " ")
}

func (sd *StructuralDiffer) compareIndexes(source, target []catalog.Index) []IndexDiff {
	srcByName := make(map[string]*catalog.Index, len(source))
	for i := range source {
		srcByName[source[i].Name] = &source[i]
	}
	tgtByName := make(map[string]*catalog.Index, len(target))
	for i := range target {
		tgtByName[target[i].Name] = &target[i]
	}

	var diffs []IndexDiff
	for _, name := range unionNames(indexNames(source), indexNames(target)) {
		src := srcByName[name]
		tgt := tgtByName[name]
		d := IndexDiff{Name: name, Source: src, Target: tgt}
		switch {
		case src == nil:
			d.Status = StatusAdded
		case tgt == nil:
			d.Status = StatusRemoved
		default:
			d.Changes = indexChanges(src, tgt)
			if len(d.Changes) > 0 {
				d.Status = StatusChanged
			} else {
				d.Status = StatusUnchanged
			}
		}
		diffs = append(diffs, d)
	}
	return diffs
}

func indexChanges(src, tgt *catalog.Index) []string {
	var changes []string
	if !stringSlicesEqual(src.Columns, tgt.Columns) {
		changes = append(changes, fmt.Sprintf("columns: (%s) -> (%s)",
			strings.Join(src.Columns, ", "), strings.Join(tgt.Columns, ", ")))
	}
	if src.IsUnique != tgt.IsUnique {
		if tgt.IsUnique {
			changes = append(changes, "uniqueness: non-unique -> unique")
		} else {
			changes = append(changes, "uniqueness: unique -> non-unique")
		}
	}
	if src.IsPrimary != tgt.IsPrimary {
		if tgt.IsPrimary {
			changes = append(changes, "kind: secondary -> primary")
		} else {
			changes = append(changes, "kind: primary -> secondary")
		}
	}
	return changes
}

func (sd *StructuralDiffer) compareForeignKeys(source, target []catalog.ForeignKey) []ForeignKeyDiff {
	srcByName := make(map[string]*catalog.ForeignKey, len(source))
	for i := range source {
		srcByName[source[i].Name] = &source[i]
	}
	tgtByName := make(map[string]*catalog.ForeignKey, len(target))
	for i := range target {
		tgtByName[target[i].Name] = &target[i]
	}

	var diffs []ForeignKeyDiff
	for _, name := range unionNames(fkNames(source), fkNames(target)) {
		src := srcByName[name]
		tgt := tgtByName[name]
		d := ForeignKeyDiff{Name: name, Source: src, Target: tgt}
		switch {
		case src == nil:
			d.Status = StatusAdded
		case tgt == nil:
			d.Status = StatusRemoved
		default:
			d.Changes = foreignKeyChanges(src, tgt)
			if len(d.Changes) > 0 {
				d.Status = StatusChanged
			} else {
				d.Status = StatusUnchanged
			}
		}
		diffs = append(diffs, d)
	}
	return diffs
}

func foreignKeyChanges(src, tgt *catalog.ForeignKey) []string {
	var changes []string
	if !stringSlicesEqual(src.Columns, tgt.Columns) {
		changes = append(changes, fmt.Sprintf("columns: (%s) -> (%s)",
			strings.Join(src.Columns, ", "), strings.Join(tgt.Columns, ", ")))
	}
	if src.ReferencedTable != tgt.ReferencedTable {
		changes = append(changes, fmt.Sprintf("referenced table: %s -> %s",
			src.ReferencedTable, tgt.ReferencedTable))
	}
	if !stringSlicesEqual(src.ReferencedColumns, tgt.ReferencedColumns) {
		changes = append(changes, fmt.Sprintf("referenced columns: (%s) -> (%s)",
			strings.Join(src.ReferencedColumns, ", "), strings.Join(tgt.ReferencedColumns, ", ")))
	}
	if src.OnDelete != tgt.OnDelete {
		changes = append(changes, fmt.Sprintf("on delete: %s -> %s", src.OnDelete, tgt.OnDelete))
	}
	if src.OnUpdate != tgt.OnUpdate {
		changes = append(changes, fmt.Sprintf("on update: %s -> %s", src.OnUpdate, tgt.OnUpdate))
	}
	return changes
}

// unionNames returns source names in source order followed by target-only
// names in target order.
func unionNames(source, target []string) []string {
	seen := make(map[string]bool, len(source))
	union := make([]string, 0, len(source)+len(target))
	for _, name := range source {
		if !seen[name] {
			seen[name] = true
			union = append(union, name)
		}
	}
	for _, name := range target {
		if !seen[name] {
			seen[name] = true
			union = append(union, name)
		}
	}
	return union
}

func columnNames(cols []catalog.Column) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}

func indexNames(idxs []catalog.Index) []string {
	names := make([]string, len(idxs))
	for i, idx := range idxs {
		names[i] = idx.Name
	}
	return names
}

func fkNames(fks []catalog.ForeignKey) []string {
	names := make([]string, len(fks))
	for i, fk := range fks {
		names[i] = fk.Name
	}
	return names
}

func stringSlicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func describeDefault(v *string) string {
	if v == nil {
		return "(none)"
	}
	return *v
}
