// Package dbx holds what repositories share: the DBTX handle satisfied by
// both *sql.DB and *sql.Tx, the unit-of-work helper, and driver-neutral
// helpers for dates and constraint errors.
package dbx

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// DBTX is the part of database/sql the repositories use.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ReadOnly is passed to WithTx by units of work that only read.
var ReadOnly = &sql.TxOptions{ReadOnly: true}

// WithTx runs fn inside one transaction. The writes fn makes become visible
// together on commit; an error or panic from fn rolls all of them back, so
// a step that fails halfway needs no explicit undo:
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    ok, err := slots.TryClaim(ctx, caregiver, date)
//	    ...
//	    return common.ErrInsufficientDoses // the claim is undone
//	})
//
// Errors from fn are returned as is. A failed rollback is joined to them.
// Panics are rethrown after the rollback.
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				err = errors.Join(err, fmt.Errorf("rollback tx: %w", rbErr))
			}
			return
		}
		if cErr := tx.Commit(); cErr != nil {
			err = fmt.Errorf("commit tx: %w", cErr)
		}
	}()

	return fn(ctx, tx)
}
