// Package catalog defines the snapshot model for database metadata.
//
// Everything here is plain read-only data: snapshots are produced by a
// Loader, replaced wholesale on refresh, and never mutated in place by
// consumers.
package catalog

// ConnectionID identifies a configured connection. It is the top-level key
// for every per-connection structure in the core.
type ConnectionID string

// SchemaInfo describes one schema (namespace) of a connection.
type SchemaInfo struct {
	Name      string
	IsDefault bool
}

// TableInfo describes one table as listed in a schema, without detail.
type TableInfo struct {
	Name    string
	Schema  string
	Type    string // "table", "view", "materialized view"
	Comment string
}

// Column describes a table column.
type Column struct {
	Name          string
	Type          string
	Nullable      bool
	DefaultValue  *string
	IsPrimaryKey  bool
	AutoIncrement bool
	Position      int
	Comment       string
}

// Index describes a table index.
type Index struct {
	Name      string
	Columns   []string
	IsUnique  bool
	IsPrimary bool
}

// ForeignKey describes a foreign key constraint.
type ForeignKey struct {
	Name              string
	Columns           []string
	ReferencedTable   string
	ReferencedColumns []string
	OnDelete          string
	OnUpdate          string
}

// TableStats carries the per-table numbers shown in detail panels. It is
// cached separately from the structural collections so a DDL statement can
// invalidate the counts without discarding columns and indexes.
type TableStats struct {
	RowCount   int64
	SizeBytes  int64
	IndexBytes int64
}

// Routine describes a stored procedure or function.
type Routine struct {
	Name       string
	Schema     string
	Kind       string // "procedure" or "function"
	ReturnType string
	Definition string
}

// Sequence describes a database sequence.
type Sequence struct {
	Name      string
	Schema    string
	StartWith int64
	Increment int64
}

// EnumType describes a database enum type.
type EnumType struct {
	Name   string
	Schema string
	Values []string
}

// TableDefinition bundles the structural detail of one table the way the
// diff engines consume it.
type TableDefinition struct {
	Columns     []Column
	Indexes     []Index
	ForeignKeys []ForeignKey
}

// PrimaryKeyPositions returns the zero-based positions of the primary key
// columns in definition order. Callers use this to decide whether a data
// diff is possible at all.
func (d TableDefinition) PrimaryKeyPositions() []int {
	var pos []int
	for i, col := range d.Columns {
		if col.IsPrimaryKey {
			pos = append(pos, i)
		}
	}
	return pos
}

// ColumnNames returns the column names in definition order.
func (d TableDefinition) ColumnNames() []string {
	names := make([]string, len(d.Columns))
	for i, col := range d.Columns {
		names[i] = col.Name
	}
	return names
}
