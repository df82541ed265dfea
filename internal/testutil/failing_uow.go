package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/alexanderramin/masterplan/internal/db"
)

// FailOnNthExecUoW is a test UoW that injects Err on the Nth ExecContext call
// within a transaction, so rollback tests can break a multi-write operation
// at a precise step. Calls are counted from 1; reads pass through uncounted.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int32
	Err    error

	execs atomic.Int32
}

// Execs reports how many ExecContext calls the last transaction attempted.
func (u *FailOnNthExecUoW) Execs() int32 {
	return u.execs.Load()
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	u.execs.Store(0)
	return runFailingTx(ctx, u.DB, fn, func(string) error {
		if u.execs.Add(1) == u.FailOn {
			return u.Err
		}
		return nil
	})
}

// FailOnQueryUoW injects Err into the first ExecContext whose SQL contains
// Match, regardless of position.
type FailOnQueryUoW struct {
	DB    *sql.DB
	Match string
	Err   error
}

func (u *FailOnQueryUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return runFailingTx(ctx, u.DB, fn, func(query string) error {
		if strings.Contains(query, u.Match) {
			return u.Err
		}
		return nil
	})
}

func runFailingTx(ctx context.Context, conn *sql.DB, fn func(ctx context.Context, tx db.DBTX) error, inject func(string) error) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if fnErr := fn(ctx, &failingExec{DBTX: tx, inject: inject}); fnErr != nil {
		_ = tx.Rollback()
		return fnErr
	}
	return tx.Commit()
}

type failingExec struct {
	db.DBTX
	inject func(query string) error
}

func (f *failingExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if err := f.inject(query); err != nil {
		return nil, err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
