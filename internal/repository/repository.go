package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// DBTX is the subset of sqlx operations shared by *sqlx.DB and *sqlx.Tx,
// so repositories can run against either the pool or an open transaction.
type DBTX interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// nextID fetches the next value of an Oracle sequence. IDs are allocated
// inside the caller's transaction so inserts across related tables stay
// consistent.
func nextID(ctx context.Context, ex DBTX, sequence string) (int64, error) {
	var id int64
	query := fmt.Sprintf(`SELECT %s.NEXTVAL FROM dual`, sequence)
	if err := ex.GetContext(ctx, &id, query); err != nil {
		return 0, fmt.Errorf("failed to fetch next value of %s: %w", sequence, err)
	}
	return id, nil
}
