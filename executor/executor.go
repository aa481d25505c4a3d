// Package executor runs SQL against an open connection and shapes the
// results for the comparison engines.
package executor

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/berbicanes/queryark/catalog"
	"github.com/berbicanes/queryark/internal/debug"
)

// DB implements catalog.Executor over a database/sql handle.
//
// MaxRows caps how many rows Query buffers; zero means no cap. Callers that
// feed the data diff engines set it one past the engine limit so an
// over-limit table is detected without draining the whole result.
type DB struct {
	db      *sql.DB
	MaxRows int
}

func New(db *sql.DB) *DB {
	return &DB{db: db}
}

func (e *DB) Query(ctx context.Context, query string) (*catalog.ResultSet, error) {
	start := time.Now()
	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	result := &catalog.ResultSet{Columns: columns}
	for rows.Next() {
		if e.MaxRows > 0 && len(result.Rows) >= e.MaxRows {
			break
		}
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		for i, v := range values {
			// Drivers reuse []byte buffers between rows.
			if b, ok := v.([]byte); ok {
				values[i] = append([]byte(nil), b...)
			}
		}
		result.Rows = append(result.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}

	result.Elapsed = time.Since(start)
	debug.Debug("query executed", "rows", len(result.Rows), "elapsed", result.Elapsed)
	return result, nil
}

func (e *DB) Exec(ctx context.Context, query string) (int64, error) {
	res, err := e.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("exec failed: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		// Some drivers cannot report affected rows.
		return 0, nil
	}
	return affected, nil
}

// ExecScript runs a multi-statement migration script inside a transaction,
// skipping comment-only lines such as unsupported-operation placeholders.
// It returns how many statements were executed.
func (e *DB) ExecScript(ctx context.Context, statements []string) (int, error) {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}

	executed := 0
	for _, stmt := range statements {
		if isCommentOnly(stmt) {
			continue
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			tx.Rollback()
			return executed, fmt.Errorf("statement %d failed: %w", executed+1, err)
		}
		executed++
	}
	if err := tx.Commit(); err != nil {
		return executed, fmt.Errorf("failed to commit: %w", err)
	}
	debug.Debug("migration script executed", "statements", executed)
	return executed, nil
}

func isCommentOnly(stmt string) bool {
	trimmed := strings.TrimLeft(stmt, " \t\n")
	return trimmed == "" || strings.HasPrefix(trimmed, "--")
}
