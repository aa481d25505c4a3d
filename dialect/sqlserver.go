// Package dialect: SQL Server capability profile.
package dialect

import (
	"fmt"
	"strings"
)

// SQLServerDialect implements Dialect for Microsoft SQL Server.
type SQLServerDialect struct{}

// NewSQLServer creates the SQL Server dialect.
func NewSQLServer() *SQLServerDialect {
	return &SQLServerDialect{}
}

func (d *SQLServerDialect) Name() string { return "sqlserver" }

func (d *SQLServerDialect) Quote(ident string) string {
	return "[" + strings.ReplaceAll(ident, "]", "]]") + "]"
}

func (d *SQLServerDialect) QualifiedTable(schema, table string) string {
	if schema == "" {
		return d.Quote(table)
	}
	return d.Quote(schema) + "." + d.Quote(table)
}

func (d *SQLServerDialect) NormalizeDefault(value string) string {
	// SQL Server wraps defaults in redundant parentheses: ((0)).
	v := collapseWhitespace(value)
	for strings.HasPrefix(v, "(") && strings.HasSuffix(v, ")") {
		v = strings.TrimSpace(v[1 : len(v)-1])
	}
	return v
}

func (d *SQLServerDialect) SupportsDropColumn() bool      { return true }
func (d *SQLServerDialect) SupportsAlterColumnType() bool { return true }
func (d *SQLServerDialect) SupportsAlterColumnNull() bool { return true }
func (d *SQLServerDialect) SupportsForeignKeyDDL() bool   { return true }

func (d *SQLServerDialect) AlterColumnTypeSQL(table, column, newType string) string {
	return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s %s;", table, d.Quote(column), newType)
}

func (d *SQLServerDialect) AlterColumnNullSQL(table, column, colType string, nullable bool) string {
	// SQL Server restates the type in ALTER COLUMN.
	null := "NOT NULL"
	if nullable {
		null = "NULL"
	}
	return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s %s %s;", table, d.Quote(column), colType, null)
}

func (d *SQLServerDialect) DropIndexSQL(table, index string) string {
	return fmt.Sprintf("DROP INDEX %s ON %s;", d.Quote(index), table)
}

// SQL Server defaults are named constraints; changing one needs the
// constraint name, which the catalog snapshot does not carry.
func (d *SQLServerDialect) SetDefaultSQL(table, column, expr string) (string, bool) {
	return "", false
}

func (d *SQLServerDialect) DropDefaultSQL(table, column string) (string, bool) {
	return "", false
}

func (d *SQLServerDialect) DropForeignKeySQL(table, name string) string {
	return fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT %s;", table, d.Quote(name))
}
