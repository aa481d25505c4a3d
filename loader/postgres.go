package loader

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/berbicanes/queryark/catalog"
)

// PostgresLoader reads catalog metadata from a PostgreSQL connection.
type PostgresLoader struct {
	db *sql.DB
}

func (l *PostgresLoader) Schemas(ctx context.Context) ([]catalog.SchemaInfo, error) {
	query := `
		SELECT schema_name, schema_name = current_schema()
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
		if err := rows.Scan(&s.Name, &s.IsDefault); err != nil {
			return nil, fmt.Errorf("failed to scan schema: %w", err)
		}
		schemas = append(schemas, s)
	}
	return schemas, rows.Err()
}

func (l *PostgresLoader) Tables(ctx context.Context, schema string) ([]catalog.TableInfo, error) {
	query := `
		SELECT t.table_name,
		       CASE t.table_type WHEN 'VIEW' THEN 'view' ELSE 'table' END,
		       COALESCE(obj_description(c.oid), '')
		FROM information_schema.tables t
		LEFT JOIN pg_class c ON c.relname = t.table_name
		LEFT JOIN pg_namespace n ON n.oid = c.relnamespace AND n.nspname = t.table_schema
		WHERE t.table_schema = $1
		ORDER BY t.table_name
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

func (l *PostgresLoader) Columns(ctx context.Context, path catalog.CatalogPath) ([]catalog.Column, error) {
	pkCols, err := l.primaryKeyColumns(ctx, path)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT column_name, data_type, is_nullable, column_default, ordinal_position
		FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2
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
		if err := rows.Scan(&col.Name, &col.Type, &isNullable, &defaultValue, &col.Position); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		col.Nullable = isNullable == "YES"
		if defaultValue.Valid && defaultValue.String != "" {
			col.DefaultValue = &defaultValue.String
			col.AutoIncrement = strings.HasPrefix(defaultValue.String, "nextval(")
		}
		col.IsPrimaryKey = pkCols[col.Name]
		columns = append(columns, col)
	}
	return columns, rows.Err()
}

func (l *PostgresLoader) primaryKeyColumns(ctx context.Context, path catalog.CatalogPath) (map[string]bool, error) {
	query := `
		SELECT kcu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
		WHERE tc.table_schema = $1 AND tc.table_name = $2
		  AND tc.constraint_type = 'PRIMARY KEY'
	`
	rows, err := l.db.QueryContext(ctx, query, path.Schema, path.Table)
	if err != nil {
		return nil, fmt.Errorf("failed to query primary key: %w", err)
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan primary key column: %w", err)
		}
		cols[name] = true
	}
	return cols, rows.Err()
}

func (l *PostgresLoader) Indexes(ctx context.Context, path catalog.CatalogPath) ([]catalog.Index, error) {
	query := `
		SELECT i.relname,
		       ix.indisunique,
		       ix.indisprimary,
		       array_to_string(array_agg(a.attname ORDER BY k.ord), ',')
		FROM pg_class t
		JOIN pg_namespace n ON n.oid = t.relnamespace
		JOIN pg_index ix ON t.oid = ix.indrelid
		JOIN pg_class i ON i.oid = ix.indexrelid
		JOIN LATERAL unnest(ix.indkey) WITH ORDINALITY AS k(attnum, ord) ON true
		JOIN pg_attribute a ON a.attrelid = t.oid AND a.attnum = k.attnum
		WHERE n.nspname = $1 AND t.relname = $2
		GROUP BY i.relname, ix.indisunique, ix.indisprimary
		ORDER BY i.relname
	`
	rows, err := l.db.QueryContext(ctx, query, path.Schema, path.Table)
	if err != nil {
		return nil, fmt.Errorf("failed to query indexes: %w", err)
	}
	defer rows.Close()

	var indexes []catalog.Index
	for rows.Next() {
		var idx catalog.Index
		var cols string
		if err := rows.Scan(&idx.Name, &idx.IsUnique, &idx.IsPrimary, &cols); err != nil {
			return nil, fmt.Errorf("failed to scan index: %w", err)
		}
		idx.Columns = strings.Split(cols, ",")
		indexes = append(indexes, idx)
	}
	return indexes, rows.Err()
}

func (l *PostgresLoader) ForeignKeys(ctx context.Context, path catalog.CatalogPath) ([]catalog.ForeignKey, error) {
	// One row per constrained column, assembled in order.
	query := `
		SELECT tc.constraint_name,
		       kcu.column_name,
		       ccu.table_name,
		       ccu.column_name,
		       rc.delete_rule,
		       rc.update_rule
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
		JOIN information_schema.constraint_column_usage ccu
			ON tc.constraint_name = ccu.constraint_name
			AND tc.table_schema = ccu.table_schema
		JOIN information_schema.referential_constraints rc
			ON tc.constraint_name = rc.constraint_name
			AND tc.table_schema = rc.constraint_schema
		WHERE tc.table_schema = $1 AND tc.table_name = $2
		  AND tc.constraint_type = 'FOREIGN KEY'
		ORDER BY tc.constraint_name, kcu.ordinal_position
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

func (l *PostgresLoader) Stats(ctx context.Context, path catalog.CatalogPath) (*catalog.TableStats, error) {
	query := `
		SELECT GREATEST(c.reltuples::bigint, 0),
		       pg_table_size(c.oid),
		       pg_indexes_size(c.oid)
		FROM pg_class c
		JOIN pg_namespace n ON n.oid = c.relnamespace
		WHERE n.nspname = $1 AND c.relname = $2
	`
	stats := &catalog.TableStats{}
	err := l.db.QueryRowContext(ctx, query, path.Schema, path.Table).
		Scan(&stats.RowCount, &stats.SizeBytes, &stats.IndexBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to query table stats: %w", err)
	}
	return stats, nil
}

func (l *PostgresLoader) Routines(ctx context.Context, schema string) ([]catalog.Routine, error) {
	query := `
		SELECT routine_name,
		       LOWER(routine_type),
		       COALESCE(data_type, ''),
		       COALESCE(routine_definition, '')
		FROM information_schema.routines
		WHERE routine_schema = $1
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

func (l *PostgresLoader) Sequences(ctx context.Context, schema string) ([]catalog.Sequence, error) {
	query := `
		SELECT sequence_name, start_value::bigint, increment::bigint
		FROM information_schema.sequences
		WHERE sequence_schema = $1
		ORDER BY sequence_name
	`
	rows, err := l.db.QueryContext(ctx, query, schema)
	if err != nil {
		return nil, fmt.Errorf("failed to query sequences: %w", err)
	}
	defer rows.Close()

	var sequences []catalog.Sequence
	for rows.Next() {
		s := catalog.Sequence{Schema: schema}
		if err := rows.Scan(&s.Name, &s.StartWith, &s.Increment); err != nil {
			return nil, fmt.Errorf("failed to scan sequence: %w", err)
		}
		sequences = append(sequences, s)
	}
	return sequences, rows.Err()
}

func (l *PostgresLoader) Enums(ctx context.Context, schema string) ([]catalog.EnumType, error) {
	query := `
		SELECT t.typname, e.enumlabel
		FROM pg_type t
		JOIN pg_enum e ON t.oid = e.enumtypid
		JOIN pg_namespace n ON n.oid = t.typnamespace
		WHERE n.nspname = $1
		ORDER BY t.typname, e.enumsortorder
	`
	rows, err := l.db.QueryContext(ctx, query, schema)
	if err != nil {
		return nil, fmt.Errorf("failed to query enums: %w", err)
	}
	defer rows.Close()

	byName := make(map[string]*catalog.EnumType)
	var order []string
	for rows.Next() {
		var name, label string
		if err := rows.Scan(&name, &label); err != nil {
			return nil, fmt.Errorf("failed to scan enum: %w", err)
		}
		e, ok := byName[name]
		if !ok {
			e = &catalog.EnumType{Name: name, Schema: schema}
			byName[name] = e
			order = append(order, name)
		}
		e.Values = append(e.Values, label)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	enums := make([]catalog.EnumType, 0, len(order))
	for _, name := range order {
		enums = append(enums, *byName[name])
	}
	return enums, nil
}
