// Package loader implements catalog.Loader for the supported engines.
//
// Loaders are the asynchronous collaborator that populates the metadata
// cache: every method issues one or a few catalog queries scoped to the
// requested path, so the IDE can load lazily as the user expands the tree.
// Loaders never touch the cache themselves; the calling layer stores what
// they return.
package loader

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	// Drivers for the supported engines.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/berbicanes/queryark/catalog"
)

// ErrUnsupportedProvider is returned for providers without a loader.
var ErrUnsupportedProvider = errors.New("unsupported provider")

// New creates a loader for an already-open database handle.
func New(db *sql.DB, provider string) (catalog.Loader, error) {
	switch strings.ToLower(provider) {
	case "postgres", "postgresql":
		return &PostgresLoader{db: db}, nil
	case "mysql", "mariadb":
		return &MySQLLoader{db: db}, nil
	case "sqlite", "sqlite3":
		return &SQLiteLoader{db: db}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, provider)
	}
}

// Open opens a database handle for a provider and DSN, mapping the provider
// name onto the registered driver.
func Open(provider, dsn string) (*sql.DB, error) {
	var driver string
	switch strings.ToLower(provider) {
	case "postgres", "postgresql":
		driver = "postgres"
	case "mysql", "mariadb":
		driver = "mysql"
	case "sqlite", "sqlite3":
		driver = "sqlite3"
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, provider)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s connection: %w", provider, err)
	}
	return db, nil
}
