package commands

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/berbicanes/queryark/catalog"
	"github.com/berbicanes/queryark/cli/internal/config"
	"github.com/berbicanes/queryark/dialect"
	"github.com/berbicanes/queryark/executor"
	"github.com/berbicanes/queryark/loader"
)

// target is one side of a comparison: a registered connection plus an
// optional schema.table path.
type target struct {
	conn *config.Connection
	path catalog.CatalogPath
}

// parseTarget splits "connection:schema.table" (or just "connection").
func parseTarget(cfg *config.Config, arg string) (*target, error) {
	name, rest, hasPath := strings.Cut(arg, ":")
	conn, err := cfg.Connection(name)
	if err != nil {
		return nil, err
	}
	t := &target{conn: conn}
	if hasPath {
		t.path = catalog.ParsePath(rest)
	}
	return t, nil
}

func (t *target) id() catalog.ConnectionID {
	return catalogID(t.conn.Name)
}

func catalogID(name string) catalog.ConnectionID {
	return catalog.ConnectionID(name)
}

// session bundles everything a command needs for one side: the open handle,
// the metadata loader, the executor, and the dialect.
type session struct {
	db       *sql.DB
	loader   catalog.Loader
	executor *executor.DB
	dialect  dialect.Dialect
}

func openSession(t *target) (*session, error) {
	db, err := loader.Open(t.conn.Provider, t.conn.DSN)
	if err != nil {
		return nil, err
	}
	l, err := loader.New(db, t.conn.Provider)
	if err != nil {
		db.Close()
		return nil, err
	}
	d, err := dialect.ForProvider(t.conn.Provider, t.conn.Version)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &session{db: db, loader: l, executor: executor.New(db), dialect: d}, nil
}

func (s *session) close() {
	s.db.Close()
}

// tableDefinition loads the full detail set for a table, preferring the
// cache and storing loader results back so repeated comparisons in one
// invocation stay cheap.
func (a *app) tableDefinition(ctx context.Context, s *session, t *target) (catalog.TableDefinition, error) {
	if def, ok := a.cache.TableDefinition(t.id(), t.path); ok {
		return def, nil
	}

	columns, err := s.loader.Columns(ctx, t.path)
	if err != nil {
		return catalog.TableDefinition{}, fmt.Errorf("failed to load columns for %s: %w", t.path, err)
	}
	if len(columns) == 0 {
		return catalog.TableDefinition{}, fmt.Errorf("table %s not found on %s", t.path, t.conn.Name)
	}
	indexes, err := s.loader.Indexes(ctx, t.path)
	if err != nil {
		return catalog.TableDefinition{}, fmt.Errorf("failed to load indexes for %s: %w", t.path, err)
	}
	fks, err := s.loader.ForeignKeys(ctx, t.path)
	if err != nil {
		return catalog.TableDefinition{}, fmt.Errorf("failed to load foreign keys for %s: %w", t.path, err)
	}

	a.cache.SetColumns(t.id(), t.path, columns)
	a.cache.SetIndexes(t.id(), t.path, indexes)
	a.cache.SetForeignKeys(t.id(), t.path, fks)

	return catalog.TableDefinition{Columns: columns, Indexes: indexes, ForeignKeys: fks}, nil
}

// providerDialect normalizes the configured provider to its dialect name,
// so aliases like "postgresql" and "mariadb" share one default set.
func providerDialect(t *target) (string, error) {
	d, err := dialect.ForProvider(t.conn.Provider, t.conn.Version)
	if err != nil {
		return "", err
	}
	return d.Name(), nil
}

func requireTable(t *target, arg string) error {
	if !t.path.IsTable() {
		return fmt.Errorf("%q must name a table as connection:schema.table", arg)
	}
	return nil
}
