package warehouse

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"cubedeck/internal/domain"
)

// Compile-time check.
var _ domain.WarehouseConn = (*Executor)(nil)

// Executor runs compiled statements against a shared *sql.DB pool. It holds
// no per-query state; concurrent calls are safe.
type Executor struct {
	db      *sql.DB
	timeout time.Duration
	logger  *slog.Logger
}

// NewExecutor creates an Executor. timeout bounds each query when positive;
// zero disables the deadline.
func NewExecutor(db *sql.DB, timeout time.Duration, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{db: db, timeout: timeout, logger: logger}
}

// Execute runs one parameterized statement and returns all rows. Store
// failures are wrapped in ExecutionError; there are no retries — reads are
// idempotent and the caller decides whether to retry.
func (e *Executor) Execute(ctx context.Context, sqlText string, params []interface{}) ([]domain.Row, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	queryID := uuid.NewString()
	start := time.Now()
	e.logger.Debug("executing query", "query_id", queryID, "sql", sqlText, "params", len(params))

	rows, err := e.db.QueryContext(ctx, sqlText, params...)
	if err != nil {
		e.logger.Warn("query failed", "query_id", queryID, "error", err)
		return nil, domain.ErrExecution(err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, domain.ErrExecution(err)
	}

	var out []domain.Row
	for rows.Next() {
		values := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, domain.ErrExecution(err)
		}
		for i, v := range values {
			// Drivers may hand back raw bytes for text columns.
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		out = append(out, domain.Row{Columns: cols, Values: values})
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrExecution(err)
	}

	e.logger.Debug("query complete", "query_id", queryID, "rows", len(out), "elapsed", time.Since(start))
	return out, nil
}

// ExecBatch runs the statements inside a single transaction, rolling back on
// the first failure.
func (e *Executor) ExecBatch(ctx context.Context, stmts []string) error {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.ErrExecution(err)
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			return domain.ErrExecution(err)
		}
	}
	if err := tx.Commit(); err != nil {
		return domain.ErrExecution(err)
	}
	return nil
}
