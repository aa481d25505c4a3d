package loader

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/berbicanes/queryark/catalog"
)

// SQLiteLoader reads catalog metadata from a SQLite file. SQLite exposes
// almost everything through PRAGMA statements rather than information_schema,
// and the attached databases play the role of schemas ("main" is the default).
type SQLiteLoader struct {
	db *sql.DB
}

func (l *SQLiteLoader) Schemas(ctx context.Context) ([]catalog.SchemaInfo, error) {
	rows, err := l.db.QueryContext(ctx, `PRAGMA database_list`)
	if err != nil {
		return nil, fmt.Errorf("failed to query database list: %w", err)
	}
	defer rows.Close()

	var schemas []catalog.SchemaInfo
	for rows.Next() {
		var seq int
		var name string
		var file sql.NullString
		if err := rows.Scan(&seq, &name, &file); err != nil {
			return nil, fmt.Errorf("failed to scan database: %w", err)
		}
		schemas = append(schemas, catalog.SchemaInfo{
			Name:      name,
			IsDefault: name == "main",
		})
	}
	return schemas, rows.Err()
}

func (l *SQLiteLoader) Tables(ctx context.Context, schema string) ([]catalog.TableInfo, error) {
	query := fmt.Sprintf(`
		SELECT name, type
		FROM %s.sqlite_master
		WHERE type IN ('table', 'view') AND name NOT LIKE 'sqlite_%%'
		ORDER BY name
	`, quoteIdent(schema))
	rows, err := l.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	defer rows.Close()

	var tables []catalog.TableInfo
	for rows.Next() {
		t := catalog.TableInfo{Schema: schema}
		if err := rows.Scan(&t.Name, &t.Type); err != nil {
			return nil, fmt.Errorf("failed to scan table: %w", err)
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

func (l *SQLiteLoader) Columns(ctx context.Context, path catalog.CatalogPath) ([]catalog.Column, error) {
	query := fmt.Sprintf(`PRAGMA %s.table_info(%s)`, quoteIdent(path.Schema), quoteIdent(path.Table))
	rows, err := l.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns: %w", err)
	}
	defer rows.Close()

	var columns []catalog.Column
	for rows.Next() {
		var cid, pk int
		var notNull bool
		var defaultValue sql.NullString
		var col catalog.Column
		if err := rows.Scan(&cid, &col.Name, &col.Type, &notNull, &defaultValue, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		col.Position = cid + 1
		col.Nullable = !notNull
		col.IsPrimaryKey = pk > 0
		if defaultValue.Valid {
			col.DefaultValue = &defaultValue.String
		}
		// A single-column INTEGER primary key is the rowid alias and
		// auto-assigns values.
		col.AutoIncrement = pk == 1 && strings.EqualFold(col.Type, "integer")
		columns = append(columns, col)
	}
	return columns, rows.Err()
}

func (l *SQLiteLoader) Indexes(ctx context.Context, path catalog.CatalogPath) ([]catalog.Index, error) {
	query := fmt.Sprintf(`PRAGMA %s.index_list(%s)`, quoteIdent(path.Schema), quoteIdent(path.Table))
	rows, err := l.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query index list: %w", err)
	}
	defer rows.Close()

	var indexes []catalog.Index
	for rows.Next() {
		var seq int
		var origin string
		var partial bool
		var idx catalog.Index
		if err := rows.Scan(&seq, &idx.Name, &idx.IsUnique, &origin, &partial); err != nil {
			return nil, fmt.Errorf("failed to scan index: %w", err)
		}
		idx.IsPrimary = origin == "pk"
		indexes = append(indexes, idx)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range indexes {
		cols, err := l.indexColumns(ctx, path.Schema, indexes[i].Name)
		if err != nil {
			return nil, err
		}
		indexes[i].Columns = cols
	}
	return indexes, nil
}

func (l *SQLiteLoader) indexColumns(ctx context.Context, schema, index string) ([]string, error) {
	query := fmt.Sprintf(`PRAGMA %s.index_info(%s)`, quoteIdent(schema), quoteIdent(index))
	rows, err := l.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query index info: %w", err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var seqno, cid int
		var name sql.NullString
		if err := rows.Scan(&seqno, &cid, &name); err != nil {
			return nil, fmt.Errorf("failed to scan index column: %w", err)
		}
		if name.Valid {
			cols = append(cols, name.String)
		}
	}
	return cols, rows.Err()
}

func (l *SQLiteLoader) ForeignKeys(ctx context.Context, path catalog.CatalogPath) ([]catalog.ForeignKey, error) {
	query := fmt.Sprintf(`PRAGMA %s.foreign_key_list(%s)`, quoteIdent(path.Schema), quoteIdent(path.Table))
	rows, err := l.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query foreign keys: %w", err)
	}
	defer rows.Close()

	// SQLite foreign keys are unnamed; each id groups the columns of one
	// constraint, so synthesize a stable name from the id.
	byID := make(map[int]*catalog.ForeignKey)
	var order []int
	for rows.Next() {
		var id, seq int
		var refTable, from, to, onUpdate, onDelete, match string
		if err := rows.Scan(&id, &seq, &refTable, &from, &to, &onUpdate, &onDelete, &match); err != nil {
			return nil, fmt.Errorf("failed to scan foreign key: %w", err)
		}
		fk, ok := byID[id]
		if !ok {
			fk = &catalog.ForeignKey{
				Name:            fmt.Sprintf("%s_fk_%d", path.Table, id),
				ReferencedTable: refTable,
				OnDelete:        onDelete,
				OnUpdate:        onUpdate,
			}
			byID[id] = fk
			order = append(order, id)
		}
		fk.Columns = append(fk.Columns, from)
		fk.ReferencedColumns = append(fk.ReferencedColumns, to)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	fks := make([]catalog.ForeignKey, 0, len(order))
	for _, id := range order {
		fks = append(fks, *byID[id])
	}
	return fks, nil
}

func (l *SQLiteLoader) Stats(ctx context.Context, path catalog.CatalogPath) (*catalog.TableStats, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s.%s`, quoteIdent(path.Schema), quoteIdent(path.Table))
	stats := &catalog.TableStats{}
	if err := l.db.QueryRowContext(ctx, query).Scan(&stats.RowCount); err != nil {
		return nil, fmt.Errorf("failed to count rows: %w", err)
	}
	return stats, nil
}

// Routines: SQLite has no stored procedures or functions.
func (l *SQLiteLoader) Routines(ctx context.Context, schema string) ([]catalog.Routine, error) {
	return nil, nil
}

// Sequences: rowid allocation is implicit; sqlite_sequence is bookkeeping for
// AUTOINCREMENT, not a user-visible sequence object.
func (l *SQLiteLoader) Sequences(ctx context.Context, schema string) ([]catalog.Sequence, error) {
	return nil, nil
}

// Enums: SQLite has no enum types.
func (l *SQLiteLoader) Enums(ctx context.Context, schema string) ([]catalog.EnumType, error) {
	return nil, nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
