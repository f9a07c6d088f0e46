// Package warehouse provides the warehouse connection and the query executor
// the cube engine runs against.
package warehouse

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"cubedeck/internal/domain"
)

// OpenDuckDB opens a pooled DuckDB connection for the warehouse file at path.
// An empty path opens an in-memory database.
//
// maxOpen bounds the connection pool (0 defaults to 4). The connection is
// pinged before being returned.
func OpenDuckDB(path string, maxOpen int) (*sql.DB, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, domain.ErrExecution(err)
	}

	if maxOpen <= 0 {
		maxOpen = 4
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxOpen)
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, domain.ErrExecution(err)
	}

	return db, nil
}
