package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// UnitOfWork manages transactional boundaries. The callback receives a DBTX
// backed by a *sql.Tx in the store's placeholder dialect; callers create
// tx-scoped repositories from it.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error
}

// SQLUnitOfWork runs callbacks in database/sql transactions. Any error or
// panic from the callback rolls the transaction back.
type SQLUnitOfWork struct {
	db      *sql.DB
	dialect Dialect
}

func NewUnitOfWork(db *sql.DB, dialect Dialect) *SQLUnitOfWork {
	return &SQLUnitOfWork{db: db, dialect: dialect}
}

// NewSQLiteUnitOfWork is NewUnitOfWork for a SQLite pool.
func NewSQLiteUnitOfWork(db *sql.DB) *SQLUnitOfWork {
	return NewUnitOfWork(db, SQLite)
}

func (u *SQLUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			err = errors.Join(err, fmt.Errorf("rolling back: %w", rbErr))
		}
	}()

	if err = fn(ctx, u.dialect.Wrap(tx)); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	committed = true
	return nil
}
