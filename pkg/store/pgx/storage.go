package pgx

import (
	"context"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type pgxIConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, optionsAndArgs ...any) (pgxv5.Rows, error)
	QueryRow(ctx context.Context, sql string, optionsAndArgs ...any) pgxv5.Row
	Begin(ctx context.Context) (pgxv5.Tx, error)
}

// EvalDBStorage implements the store.EvalStorage interface using
// PostgreSQL with pgvector for the embedding cache. The connection must
// have the pgvector types registered.
type EvalDBStorage struct {
	conn pgxIConn
}

// NewEvalDBStorageWithConnection creates a new EvalDBStorage using an
// existing database connection or pool.
func NewEvalDBStorageWithConnection(conn pgxIConn) *EvalDBStorage {
	return &EvalDBStorage{conn: conn}
}
