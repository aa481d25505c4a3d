// Package dialect: SQLite capability profile.
package dialect

import (
	"fmt"
	"strings"
)

// SQLiteDialect implements Dialect for SQLite.
type SQLiteDialect struct {
	serverVersion string
}

// NewSQLite creates the SQLite dialect for a given library version (may be
// empty).
func NewSQLite(serverVersion string) *SQLiteDialect {
	return &SQLiteDialect{serverVersion: serverVersion}
}

func (d *SQLiteDialect) Name() string { return "sqlite" }

func (d *SQLiteDialect) Quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

func (d *SQLiteDialect) QualifiedTable(schema, table string) string {
	// SQLite schemas are attached databases; "main" is implicit.
	if schema == "" || schema == "main" {
		return d.Quote(table)
	}
	return d.Quote(schema) + "." + d.Quote(table)
}

func (d *SQLiteDialect) NormalizeDefault(value string) string {
	return collapseWhitespace(value)
}

// SupportsDropColumn: DROP COLUMN landed in SQLite 3.35.0.
func (d *SQLiteDialect) SupportsDropColumn() bool {
	return atLeast(d.serverVersion, "3.35.0")
}

// SQLite cannot alter a column in place; a type or nullability change means
// rebuilding the table.
func (d *SQLiteDialect) SupportsAlterColumnType() bool { return false }
func (d *SQLiteDialect) SupportsAlterColumnNull() bool { return false }

// SQLite foreign keys are fixed at CREATE TABLE time.
func (d *SQLiteDialect) SupportsForeignKeyDDL() bool { return false }

func (d *SQLiteDialect) AlterColumnTypeSQL(table, column, newType string) string {
	// Unreachable while SupportsAlterColumnType is false; kept total.
	return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s %s;", table, d.Quote(column), newType)
}

func (d *SQLiteDialect) AlterColumnNullSQL(table, column, colType string, nullable bool) string {
	return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s %s;", table, d.Quote(column), colType)
}

func (d *SQLiteDialect) DropIndexSQL(table, index string) string {
	return fmt.Sprintf("DROP INDEX %s;", d.Quote(index))
}

// SQLite cannot change a default without rebuilding the table.
func (d *SQLiteDialect) SetDefaultSQL(table, column, expr string) (string, bool) {
	return "", false
}

func (d *SQLiteDialect) DropDefaultSQL(table, column string) (string, bool) {
	return "", false
}

func (d *SQLiteDialect) DropForeignKeySQL(table, name string) string {
	// Unreachable while SupportsForeignKeyDDL is false; kept total.
	return fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT %s;", table, d.Quote(name))
}
