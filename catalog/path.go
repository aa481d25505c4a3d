package catalog

import "strings"

// CatalogPath scopes a cache entry inside one connection: either a schema
// (Table empty) or a (schema, table) pair.
type CatalogPath struct {
	Schema string
	Table  string
}

// SchemaPath returns a path addressing a whole schema.
func SchemaPath(schema string) CatalogPath {
	return CatalogPath{Schema: schema}
}

// TablePath returns a path addressing one table.
func TablePath(schema, table string) CatalogPath {
	return CatalogPath{Schema: schema, Table: table}
}

// IsTable reports whether the path addresses a table rather than a schema.
func (p CatalogPath) IsTable() bool {
	return p.Table != ""
}

// Key returns the canonical "schema.table" form used as a map key.
func (p CatalogPath) Key() string {
	if p.Table == "" {
		return p.Schema
	}
	return p.Schema + "." + p.Table
}

func (p CatalogPath) String() string {
	return p.Key()
}

// ParsePath parses a "schema.table" or bare "schema" string. Table names
// containing dots are not split further; only the first dot separates.
func ParsePath(s string) CatalogPath {
	if i := strings.Index(s, "."); i >= 0 {
		return CatalogPath{Schema: s[:i], Table: s[i+1:]}
	}
	return CatalogPath{Schema: s}
}
