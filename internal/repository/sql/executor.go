package sql

import (
	"context"
	"database/sql"
)

// preparer is satisfied by *sql.DB and *sql.Tx, so repositories can join a caller's transaction.
type preparer interface {
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}
