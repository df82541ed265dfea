package db

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// DBTX is the common interface satisfied by both *sql.DB and *sql.Tx.
// Repository implementations depend on this interface instead of the
// concrete *sql.DB, enabling transactional composition.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Compile-time verification that *sql.DB and *sql.Tx satisfy DBTX.
var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
	_ DBTX = rebindDBTX{}
)

// rebindDBTX rewrites the repositories' '?' placeholders into the bind style
// of the target driver before delegating.
type rebindDBTX struct {
	DBTX
	bindType int
}

func (r rebindDBTX) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return r.DBTX.ExecContext(ctx, sqlx.Rebind(r.bindType, query), args...)
}

func (r rebindDBTX) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return r.DBTX.QueryContext(ctx, sqlx.Rebind(r.bindType, query), args...)
}

func (r rebindDBTX) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return r.DBTX.QueryRowContext(ctx, sqlx.Rebind(r.bindType, query), args...)
}

// Wrap adapts conn to the dialect's placeholder style.
func (d Dialect) Wrap(conn DBTX) DBTX {
	if d == Postgres {
		return rebindDBTX{DBTX: conn, bindType: sqlx.DOLLAR}
	}
	return conn
}
