// Package dialect: MySQL / MariaDB capability profile.
package dialect

import (
	"fmt"
	"strings"
)

// MySQLDialect implements Dialect for MySQL and MariaDB.
type MySQLDialect struct {
	serverVersion string
}

// NewMySQL creates the MySQL dialect for a given server version (may be
// empty).
func NewMySQL(serverVersion string) *MySQLDialect {
	return &MySQLDialect{serverVersion: serverVersion}
}

func (d *MySQLDialect) Name() string { return "mysql" }

func (d *MySQLDialect) Quote(ident string) string {
	return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
}

func (d *MySQLDialect) QualifiedTable(schema, table string) string {
	if schema == "" {
		return d.Quote(table)
	}
	return d.Quote(schema) + "." + d.Quote(table)
}

func (d *MySQLDialect) NormalizeDefault(value string) string {
	return collapseWhitespace(value)
}

func (d *MySQLDialect) SupportsDropColumn() bool      { return true }
func (d *MySQLDialect) SupportsAlterColumnType() bool { return true }
func (d *MySQLDialect) SupportsAlterColumnNull() bool { return true }

// SupportsForeignKeyDDL is version-gated only to exclude ancient servers
// that predate InnoDB-by-default.
func (d *MySQLDialect) SupportsForeignKeyDDL() bool {
	return atLeast(d.serverVersion, "5.6")
}

func (d *MySQLDialect) AlterColumnTypeSQL(table, column, newType string) string {
	return fmt.Sprintf("ALTER TABLE %s MODIFY COLUMN %s %s;", table, d.Quote(column), newType)
}

func (d *MySQLDialect) AlterColumnNullSQL(table, column, colType string, nullable bool) string {
	// MySQL restates the full column definition in MODIFY.
	null := "NOT NULL"
	if nullable {
		null = "NULL"
	}
	return fmt.Sprintf("ALTER TABLE %s MODIFY COLUMN %s %s %s;", table, d.Quote(column), colType, null)
}

func (d *MySQLDialect) DropIndexSQL(table, index string) string {
	return fmt.Sprintf("DROP INDEX %s ON %s;", d.Quote(index), table)
}

func (d *MySQLDialect) SetDefaultSQL(table, column, expr string) (string, bool) {
	return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s SET DEFAULT %s;", table, d.Quote(column), expr), true
}

func (d *MySQLDialect) DropDefaultSQL(table, column string) (string, bool) {
	return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s DROP DEFAULT;", table, d.Quote(column)), true
}

// DropForeignKeySQL uses MySQL's DROP FOREIGN KEY form; DROP CONSTRAINT only
// arrived in 8.0.19 and the older form still works there.
func (d *MySQLDialect) DropForeignKeySQL(table, name string) string {
	return fmt.Sprintf("ALTER TABLE %s DROP FOREIGN KEY %s;", table, d.Quote(name))
}
