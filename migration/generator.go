// Package migration turns a structural diff into ordered DDL text.
//
// Statement order is fixed: columns, then indexes, then foreign keys, so
// later statements can reference columns created earlier. Nothing is
// executed here; running the script belongs to the query-execution layer.
package migration

import (
	"fmt"
	"strings"

	"github.com/berbicanes/queryark/compare"
	"github.com/berbicanes/queryark/dialect"
	"github.com/berbicanes/queryark/internal/debug"
)

// Generator emits DDL migrating a source table toward a target definition,
// following the diff engine's direction convention: added objects are
// created, removed objects are dropped.
//
// An operation the target dialect cannot express is emitted as a
// "-- unsupported:" comment rather than silently dropped, so the script is
// never misleadingly complete.
type Generator struct {
	dialect dialect.Dialect
}

// NewGenerator creates a migration generator for the target dialect.
func NewGenerator(d dialect.Dialect) *Generator {
	return &Generator{dialect: d}
}

// Generate returns the ordered statement list for a structural diff applied
// to the table identified by schema and table on the target connection.
func (g *Generator) Generate(result *compare.StructuralResult, schema, table string) []string {
	qualified := g.dialect.QualifiedTable(schema, table)

	var stmts []string
	stmts = append(stmts, g.columnStatements(result.Columns, qualified)...)
	stmts = append(stmts, g.indexStatements(result.Indexes, qualified)...)
	stmts = append(stmts, g.foreignKeyStatements(result.ForeignKeys, qualified)...)

	debug.Debug("generated migration", "dialect", g.dialect.Name(),
		"table", table, "statements", len(stmts))
	return stmts
}

// Script joins generated statements into one executable text block.
func (g *Generator) Script(result *compare.StructuralResult, schema, table string) string {
	return strings.Join(g.Generate(result, schema, table), "\n")
}

func (g *Generator) columnStatements(diffs []compare.ColumnDiff, table string) []string {
	var stmts []string
	for _, d := range diffs {
		switch d.Status {
		case compare.StatusAdded:
			stmts = append(stmts, g.addColumn(table, d))
		case compare.StatusRemoved:
			if g.dialect.SupportsDropColumn() {
				stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s;",
					table, g.dialect.Quote(d.Name)))
			} else {
				stmts = append(stmts, unsupported("drop column %s (%s does not support DROP COLUMN)",
					d.Name, g.dialect.Name()))
			}
		case compare.StatusChanged:
			stmts = append(stmts, g.alterColumn(table, d)...)
		}
	}
	return stmts
}

func (g *Generator) addColumn(table string, d compare.ColumnDiff) string {
	col := d.Target
	var b strings.Builder
	fmt.Fprintf(&b, "ALTER TABLE %s ADD COLUMN %s %s", table, g.dialect.Quote(col.Name), col.Type)
	if !col.Nullable {
		b.WriteString(" NOT NULL")
	}
	if col.DefaultValue != nil {
		fmt.Fprintf(&b, " DEFAULT %s", *col.DefaultValue)
	}
	b.WriteString(";")
	return b.String()
}

// alterColumn emits one statement per differing attribute. The diff engine
// recorded which attributes changed; rather than re-parse its descriptions,
// the source and target descriptors are re-examined here.
func (g *Generator) alterColumn(table string, d compare.ColumnDiff) []string {
	src, tgt := d.Source, d.Target
	var stmts []string

	if src.Type != tgt.Type {
		if g.dialect.SupportsAlterColumnType() {
			stmts = append(stmts, g.dialect.AlterColumnTypeSQL(table, tgt.Name, tgt.Type))
		} else {
			stmts = append(stmts, unsupported("change type of column %s from %s to %s (%s requires a table rebuild)",
				tgt.Name, src.Type, tgt.Type, g.dialect.Name()))
		}
	}

	if src.Nullable != tgt.Nullable {
		if g.dialect.SupportsAlterColumnNull() {
			stmts = append(stmts, g.dialect.AlterColumnNullSQL(table, tgt.Name, tgt.Type, tgt.Nullable))
		} else {
			stmts = append(stmts, unsupported("change nullability of column %s (%s requires a table rebuild)",
				tgt.Name, g.dialect.Name()))
		}
	}

	if !g.defaultsEqual(src.DefaultValue, tgt.DefaultValue) {
		stmts = append(stmts, g.alterDefault(table, d)...)
	}

	if src.IsPrimaryKey != tgt.IsPrimaryKey {
		stmts = append(stmts, unsupported("primary key membership of column %s changed; alter the primary key constraint manually",
			tgt.Name))
	}

	return stmts
}

func (g *Generator) alterDefault(table string, d compare.ColumnDiff) []string {
	if d.Target.DefaultValue != nil {
		if stmt, ok := g.dialect.SetDefaultSQL(table, d.Name, *d.Target.DefaultValue); ok {
			return []string{stmt}
		}
		return []string{unsupported("set default of column %s to %s (%s has no single-statement form)",
			d.Name, *d.Target.DefaultValue, g.dialect.Name())}
	}
	if stmt, ok := g.dialect.DropDefaultSQL(table, d.Name); ok {
		return []string{stmt}
	}
	return []string{unsupported("drop default of column %s (%s has no single-statement form)",
		d.Name, g.dialect.Name())}
}

func (g *Generator) indexStatements(diffs []compare.IndexDiff, table string) []string {
	var stmts []string
	for _, d := range diffs {
		switch d.Status {
		case compare.StatusAdded:
			stmts = append(stmts, g.createIndex(table, d)...)
		case compare.StatusRemoved:
			stmts = append(stmts, g.dropIndex(table, d)...)
		case compare.StatusChanged:
			// Most engines have no ALTER INDEX; recreate.
			stmts = append(stmts, g.dropIndex(table, d)...)
			stmts = append(stmts, g.createIndex(table, d)...)
		}
	}
	return stmts
}

func (g *Generator) createIndex(table string, d compare.IndexDiff) []string {
	idx := d.Target
	if idx.IsPrimary {
		return []string{unsupported("index %s backs the primary key; alter the primary key constraint manually", d.Name)}
	}
	unique := ""
	if idx.IsUnique {
		unique = "UNIQUE "
	}
	cols := make([]string, len(idx.Columns))
	for i, c := range idx.Columns {
		cols[i] = g.dialect.Quote(c)
	}
	return []string{fmt.Sprintf("CREATE %sINDEX %s ON %s (%s);",
		unique, g.dialect.Quote(idx.Name), table, strings.Join(cols, ", "))}
}

func (g *Generator) dropIndex(table string, d compare.IndexDiff) []string {
	src := d.Source
	if src != nil && src.IsPrimary {
		return []string{unsupported("index %s backs the primary key; alter the primary key constraint manually", d.Name)}
	}
	return []string{g.dialect.DropIndexSQL(table, d.Name)}
}

func (g *Generator) foreignKeyStatements(diffs []compare.ForeignKeyDiff, table string) []string {
	var stmts []string
	for _, d := range diffs {
		switch d.Status {
		case compare.StatusAdded:
			stmts = append(stmts, g.addForeignKey(table, d))
		case compare.StatusRemoved:
			stmts = append(stmts, g.dropForeignKey(table, d))
		case compare.StatusChanged:
			stmts = append(stmts, g.dropForeignKey(table, d))
			stmts = append(stmts, g.addForeignKey(table, d))
		}
	}
	return stmts
}

func (g *Generator) addForeignKey(table string, d compare.ForeignKeyDiff) string {
	if !g.dialect.SupportsForeignKeyDDL() {
		return unsupported("add foreign key %s (%s cannot add constraints to an existing table)",
			d.Name, g.dialect.Name())
	}
	fk := d.Target
	cols := make([]string, len(fk.Columns))
	for i, c := range fk.Columns {
		cols[i] = g.dialect.Quote(c)
	}
	refCols := make([]string, len(fk.ReferencedColumns))
	for i, c := range fk.ReferencedColumns {
		refCols[i] = g.dialect.Quote(c)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s)",
		table, g.dialect.Quote(fk.Name), strings.Join(cols, ", "),
		g.dialect.Quote(fk.ReferencedTable), strings.Join(refCols, ", "))
	if fk.OnDelete != "" {
		fmt.Fprintf(&b, " ON DELETE %s", fk.OnDelete)
	}
	if fk.OnUpdate != "" {
		fmt.Fprintf(&b, " ON UPDATE %s", fk.OnUpdate)
	}
	b.WriteString(";")
	return b.String()
}

func (g *Generator) dropForeignKey(table string, d compare.ForeignKeyDiff) string {
	if !g.dialect.SupportsForeignKeyDDL() {
		return unsupported("drop foreign key %s (%s cannot drop constraints from an existing table)",
			d.Name, g.dialect.Name())
	}
	return g.dialect.DropForeignKeySQL(table, d.Name)
}

// defaultsEqual mirrors the diff engine's normalized default comparison so
// a whitespace-only difference never produces a spurious statement.
func (g *Generator) defaultsEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return g.dialect.NormalizeDefault(*a) == g.dialect.NormalizeDefault(*b)
}

func unsupported(format string, args ...any) string {
	return "-- unsupported: " + fmt.Sprintf(format, args...)
}
