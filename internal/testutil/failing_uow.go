package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"

	"github.com/alexanderramin/ticktrack/internal/db"
)

// FailOnNthExecUoW runs transactions like db.TxRunner but makes the Nth
// ExecContext call (counted from 1, per transaction) return Err. Reads pass
// through untouched.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int32
	Err    error
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	wrapped := &failOnNthExec{DBTX: tx, failOn: u.FailOn, err: u.Err}
	if fnErr := fn(ctx, wrapped); fnErr != nil {
		_ = tx.Rollback()
		return fnErr
	}
	return tx.Commit()
}

type failOnNthExec struct {
	db.DBTX
	count  atomic.Int32
	failOn int32
	err    error
}

func (f *failOnNthExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if f.count.Add(1) == f.failOn {
		return nil, f.err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}

// FailBeforeCommitUoW runs fn inside Inner's transaction and then returns Err
// instead of committing, so every write fn made must be rolled back by Inner.
// Writes counts the ExecContext calls that reached the database.
type FailBeforeCommitUoW struct {
	Inner  db.UnitOfWork
	Err    error
	Writes atomic.Int32
}

func (u *FailBeforeCommitUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return u.Inner.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := fn(ctx, &countingExec{DBTX: tx, writes: &u.Writes}); err != nil {
			return err
		}
		return u.Err
	})
}

type countingExec struct {
	db.DBTX
	writes *atomic.Int32
}

func (c *countingExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	res, err := c.DBTX.ExecContext(ctx, query, args...)
	if err == nil {
		c.writes.Add(1)
	}
	return res, err
}
