package domain

import "context"

// WarehouseConn is the pooled warehouse connection the engine runs against.
type WarehouseConn interface {
	// Execute runs a parameterized statement and returns all rows.
	Execute(ctx context.Context, sqlText string, params []interface{}) ([]Row, error)
	// ExecBatch runs DDL/DML statements inside a single transaction.
	ExecBatch(ctx context.Context, stmts []string) error
}
