// Package dialect: PostgreSQL capability profile.
package dialect

import (
	"fmt"
	"strings"
)

// PostgresDialect implements Dialect for PostgreSQL.
type PostgresDialect struct{}

// NewPostgres creates the PostgreSQL dialect.
func NewPostgres() *PostgresDialect {
	return &PostgresDialect{}
}

func (d *PostgresDialect) Name() string { return "postgres" }

func (d *PostgresDialect) Quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

func (d *PostgresDialect) QualifiedTable(schema, table string) string {
	if schema == "" {
		return d.Quote(table)
	}
	return d.Quote(schema) + "." + d.Quote(table)
}

func (d *PostgresDialect) NormalizeDefault(value string) string {
	return collapseWhitespace(value)
}

func (d *PostgresDialect) SupportsDropColumn() bool      { return true }
func (d *PostgresDialect) SupportsAlterColumnType() bool { return true }
func (d *PostgresDialect) SupportsAlterColumnNull() bool { return true }
func (d *PostgresDialect) SupportsForeignKeyDDL() bool   { return true }

func (d *PostgresDialect) AlterColumnTypeSQL(table, column, newType string) string {
	return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s TYPE %s;", table, d.Quote(column), newType)
}

func (d *PostgresDialect) AlterColumnNullSQL(table, column, colType string, nullable bool) string {
	if nullable {
		return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s DROP NOT NULL;", table, d.Quote(column))
	}
	return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s SET NOT NULL;", table, d.Quote(column))
}

func (d *PostgresDialect) DropIndexSQL(table, index string) string {
	return fmt.Sprintf("DROP INDEX %s;", d.Quote(index))
}

func (d *PostgresDialect) SetDefaultSQL(table, column, expr string) (string, bool) {
	return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s SET DEFAULT %s;", table, d.Quote(column), expr), true
}

func (d *PostgresDialect) DropDefaultSQL(table, column string) (string, bool) {
	return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s DROP DEFAULT;", table, d.Quote(column)), true
}

func (d *PostgresDialect) DropForeignKeySQL(table, name string) string {
	return fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT %s;", table, d.Quote(name))
}
