// Package dialect describes per-engine SQL capability profiles.
//
// A Dialect is a passive descriptor: identifier quoting, default-value
// normalization for comparison, and the capability flags and statement forms
// the migration generator needs. It never talks to a database; engine
// version strings come from the connection layer and gate
// capabilities that newer servers grew over time.
package dialect

import (
	"fmt"
	"strings"

	goversion "github.com/hashicorp/go-version"
)

// Dialect is the capability profile of one database engine/version.
type Dialect interface {
	// Name returns the provider name ("postgres", "mysql", ...).
	Name() string

	// Quote quotes a single identifier.
	Quote(ident string) string

	// QualifiedTable quotes and joins a schema and table name. An empty
	// schema yields just the quoted table.
	QualifiedTable(schema, table string) string

	// NormalizeDefault prepares a column default expression for literal
	// comparison: whitespace is collapsed, engine decoration is not
	// semantically unified.
	NormalizeDefault(value string) string

	// SupportsDropColumn reports whether ALTER TABLE ... DROP COLUMN works.
	SupportsDropColumn() bool

	// SupportsAlterColumnType reports whether a column type can be changed
	// in place.
	SupportsAlterColumnType() bool

	// SupportsAlterColumnNull reports whether column nullability can be
	// changed in place.
	SupportsAlterColumnNull() bool

	// SupportsForeignKeyDDL reports whether foreign keys can be added to and
	// dropped from an existing table.
	SupportsForeignKeyDDL() bool

	// AlterColumnTypeSQL returns the statement changing a column's type.
	// table is already qualified and quoted.
	AlterColumnTypeSQL(table, column, newType string) string

	// AlterColumnNullSQL returns the statement changing a column's
	// nullability. colType is needed by engines that restate the full
	// definition.
	AlterColumnNullSQL(table, column, colType string, nullable bool) string

	// DropIndexSQL returns the statement dropping an index. Engines differ
	// on whether the owning table is named.
	DropIndexSQL(table, index string) string

	// SetDefaultSQL returns the statement setting a column default, or
	// ok=false when the engine has no single-statement form.
	SetDefaultSQL(table, column, expr string) (string, bool)

	// DropDefaultSQL returns the statement removing a column default, or
	// ok=false when the engine has no single-statement form.
	DropDefaultSQL(table, column string) (string, bool)

	// DropForeignKeySQL returns the statement dropping a foreign key
	// constraint.
	DropForeignKeySQL(table, name string) string
}

// ForProvider returns the dialect for a provider name. serverVersion may be
// empty, in which case the most capable profile of the engine is assumed.
func ForProvider(provider, serverVersion string) (Dialect, error) {
	switch strings.ToLower(provider) {
	case "postgres", "postgresql":
		return NewPostgres(), nil
	case "mysql", "mariadb":
		return NewMySQL(serverVersion), nil
	case "sqlite", "sqlite3":
		return NewSQLite(serverVersion), nil
	case "sqlserver", "mssql":
		return NewSQLServer(), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

// atLeast reports whether a server version string is at least min. An
// unparseable or empty version is treated as current.
func atLeast(serverVersion, min string) bool {
	if serverVersion == "" {
		return true
	}
	have, err := goversion.NewVersion(serverVersion)
	if err != nil {
		return true
	}
	want := goversion.Must(goversion.NewVersion(min))
	return have.GreaterThanOrEqual(want)
}

// collapseWhitespace folds runs of whitespace into single spaces and trims.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
