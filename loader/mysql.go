package loader

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/berbicanes/queryark/catalog"
)

// MySQLLoader reads catalog metadata from a MySQL or MariaDB connection.
// MySQL schemas and databases are the same thing, so the schema axis of a
// CatalogPath maps onto table_schema throughout.
type MySQLLoader struct {
	db *sql.DB
}

func (l *MySQLLoader) Schemas(ctx context.Context) ([]catalog.SchemaInfo, error) {
	query := `
		SELECT schema_name, schema_name = DATABASE()
		FROM information_schema.schemata
		ORDER BY schema_name
	`
	rows, err := l.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query schemas: %w", err)
	}
	defer rows.Close()

	var schemas []catalog.SchemaInfo
	for rows.Next() {
		var s catalog.SchemaInfo
		var isDefault sql.NullBool
		if err := rows.Scan(&s.Name, &isDefault); err != nil {
			return nil, fmt.Errorf("failed to scan schema: %w", err)
		}
		s.IsDefault = isDefault.Valid && isDefault.Bool
		schemas = append(schemas, s)
	}
	return schemas, rows.Err()
}

func (l *MySQLLoader) Tables(ctx context.Context, schema string) ([]catalog.TableInfo, error) {
	query := `
		SELECT table_name,
		       CASE table_type WHEN 'VIEW' THEN 'view' ELSE 'table' END,
		       COALESCE(table_comment, '')
		FROM information_schema.tables
		WHERE table_schema = ?
		ORDER BY table_name
	`
	rows, err := l.db.QueryContext(ctx, query, schema)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	defer rows.Close()

	var tables []catalog.TableInfo
	for rows.Next() {
		t := catalog.TableInfo{Schema: schema}
		if err := rows.Scan(&t.Name, &t.Type, &t.Comment); err != nil {
			return nil, fmt.Errorf("failed to scan table: %w", err)
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

func (l *MySQLLoader) Columns(ctx context.Context, path catalog.CatalogPath) ([]catalog.Column, error) {
	query := `
		SELECT column_name,
		       column_type,
		       is_nullable,
		       column_default,
		       column_key = 'PRI',
		       extra LIKE '%auto_increment%',
		       ordinal_position,
		       COALESCE(column_comment, '')
		FROM information_schema.columns
		WHERE table_schema = ? AND table_name = ?
		ORDER BY ordinal_position
	`
	rows, err := l.db.QueryContext(ctx, query, path.Schema, path.Table)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns: %w", err)
	}
	defer rows.Close()

	var columns []catalog.Column
	for rows.Next() {
		var col catalog.Column
		var isNullable string
		var defaultValue sql.NullString
		if err := rows.Scan(&col.Name, &col.Type, &isNullable, &defaultValue,
			&col.IsPrimaryKey, &col.AutoIncrement, &col.Position, &col.Comment); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		col.Nullable = isNullable == "YES"
		if defaultValue.Valid {
			col.DefaultValue = &defaultValue.String
		}
		columns = append(columns, col)
	}
	return columns, rows.Err()
}

func (l *MySQLLoader) Indexes(ctx context.Context, path catalog.CatalogPath) ([]catalog.Index, error) {
	query := `
		SELECT index_name, column_name, non_unique
		FROM information_schema.statistics
		WHERE table_schema = ? AND table_name = ?
		ORDER BY index_name, seq_in_index
	`
	rows, err := l.db.QueryContext(ctx, query, path.Schema, path.Table)
	if err != nil {
		return nil, fmt.Errorf("failed to query indexes: %w", err)
	}
	defer rows.Close()

	byName := make(map[string]*catalog.Index)
	var order []string
	for rows.Next() {
		var name, column string
		var nonUnique bool
		if err := rows.Scan(&name, &column, &nonUnique); err != nil {
			return nil, fmt.Errorf("failed to scan index: %w", err)
		}
		idx, ok := byName[name]
		if !ok {
			idx = &catalog.Index{
				Name:      name,
				IsUnique:  !nonUnique,
				IsPrimary: name == "PRIMARY",
			}
			byName[name] = idx
			order = append(order, name)
		}
		idx.Columns = append(idx.Columns, column)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	indexes := make([]catalog.Index, 0, len(order))
	for _, name := range order {
		indexes = append(indexes, *byName[name])
	}
	return indexes, nil
}

func (l *MySQLLoader) ForeignKeys(ctx context.Context, path catalog.CatalogPath) ([]catalog.ForeignKey, error) {
	query := `
		SELECT kcu.constraint_name,
		       kcu.column_name,
		       kcu.referenced_table_name,
		       kcu.referenced_column_name,
		       rc.delete_rule,
		       rc.update_rule
		FROM information_schema.key_column_usage kcu
		JOIN information_schema.referential_constraints rc
			ON kcu.constraint_name = rc.constraint_name
			AND kcu.constraint_schema = rc.constraint_schema
		WHERE kcu.table_schema = ? AND kcu.table_name = ?
		  AND kcu.referenced_table_name IS NOT NULL
		ORDER BY kcu.constraint_name, kcu.ordinal_position
	`
	rows, err := l.db.QueryContext(ctx, query, path.Schema, path.Table)
	if err != nil {
		return nil, fmt.Errorf("failed to query foreign keys: %w", err)
	}
	defer rows.Close()

	byName := make(map[string]*catalog.ForeignKey)
	var order []string
	for rows.Next() {
		var name, column, refTable, refColumn, onDelete, onUpdate string
		if err := rows.Scan(&name, &column, &refTable, &refColumn, &onDelete, &onUpdate); err != nil {
			return nil, fmt.Errorf("failed to scan foreign key: %w", err)
		}
		fk, ok := byName[name]
		if !ok {
			fk = &catalog.ForeignKey{
				Name:            name,
				ReferencedTable: refTable,
				OnDelete:        onDelete,
				OnUpdate:        onUpdate,
			}
			byName[name] = fk
			order = append(order, name)
		}
		fk.Columns = append(fk.Columns, column)
		fk.ReferencedColumns = append(fk.ReferencedColumns, refColumn)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	fks := make([]catalog.ForeignKey, 0, len(order))
	for _, name := range order {
		fks = append(fks, *byName[name])
	}
	return fks, nil
}

func (l *MySQLLoader) Stats(ctx context.Context, path catalog.CatalogPath) (*catalog.TableStats, error) {
	query := `
		SELECT COALESCE(table_rows, 0),
		       COALESCE(data_length, 0),
		       COALESCE(index_length, 0)
		FROM information_schema.tables
		WHERE table_schema = ? AND table_name = ?
	`
	stats := &catalog.TableStats{}
	err := l.db.QueryRowContext(ctx, query, path.Schema, path.Table).
		Scan(&stats.RowCount, &stats.SizeBytes, &stats.IndexBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to query table stats: %w", err)
	}
	return stats, nil
}

func (l *MySQLLoader) Routines(ctx context.Context, schema string) ([]catalog.Routine, error) {
	query := `
		SELECT routine_name,
		       LOWER(routine_type),
		       COALESCE(data_type, ''),
		       COALESCE(routine_definition, '')
		FROM information_schema.routines
		WHERE routine_schema = ?
		ORDER BY routine_name
	`
	rows, err := l.db.QueryContext(ctx, query, schema)
	if err != nil {
		return nil, fmt.Errorf("failed to query routines: %w", err)
	}
	defer rows.Close()

	var routines []catalog.Routine
	for rows.Next() {
		r := catalog.Routine{Schema: schema}
		if err := rows.Scan(&r.Name, &r.Kind, &r.ReturnType, &r.Definition); err != nil {
			return nil, fmt.Errorf("failed to scan routine: %w", err)
		}
		routines = append(routines, r)
	}
	return routines, rows.Err()
}

// Sequences: MySQL has no sequences; AUTO_INCREMENT plays that role.
func (l *MySQLLoader) Sequences(ctx context.Context, schema string) ([]catalog.Sequence, error) {
	return nil, nil
}

// Enums: MySQL enums are column-scoped types, not named schema objects, so
// there is nothing to list at the schema level.
func (l *MySQLLoader) Enums(ctx context.Context, schema string) ([]catalog.EnumType, error) {
	return nil, nil
}
