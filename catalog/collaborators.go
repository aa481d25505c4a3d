package catalog

import (
	"context"
	"time"
)

// Loader is the asynchronous collaborator that reads catalog metadata from a
// live connection. It is the only way cache entries come into existence; the
// cache itself never loads.
type Loader interface {
	Schemas(ctx context.Context) ([]SchemaInfo, error)
	Tables(ctx context.Context, schema string) ([]TableInfo, error)
	Columns(ctx context.Context, path CatalogPath) ([]Column, error)
	Indexes(ctx context.Context, path CatalogPath) ([]Index, error)
	ForeignKeys(ctx context.Context, path CatalogPath) ([]ForeignKey, error)
	Stats(ctx context.Context, path CatalogPath) (*TableStats, error)
	Routines(ctx context.Context, schema string) ([]Routine, error)
	Sequences(ctx context.Context, schema string) ([]Sequence, error)
	Enums(ctx context.Context, schema string) ([]EnumType, error)
}

// ResultSet is the shape query results take on their way into the data
// engines: column names plus row values as scanned by database/sql.
type ResultSet struct {
	Columns []string
	Rows    [][]any
	Elapsed time.Duration
}

// Executor runs SQL against a connection. The core never calls it; callers
// use it to fetch the row sets fed into the data engines and to run
// generated migration statements.
type Executor interface {
	Query(ctx context.Context, sql string) (*ResultSet, error)
	Exec(ctx context.Context, sql string) (int64, error)
}
