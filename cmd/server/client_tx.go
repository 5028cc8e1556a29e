package main

import (
	"context"
	"database/sql"
	"time"

	dErrors "bimadesk/pkg/domain-errors"
	txcontext "bimadesk/pkg/platform/tx"
)

const defaultClientTxTimeout = 5 * time.Second

// clientPostgresTx runs service mutations inside one database transaction.
// The open *sql.Tx travels in the context; stores route their statements
// through it, so the entity write and its audit entries commit together.
type clientPostgresTx struct {
	db      *sql.DB
	timeout time.Duration
}

func newClientPostgresTx(db *sql.DB) *clientPostgresTx {
	return &clientPostgresTx{db: db}
}

func (t *clientPostgresTx) RunInTx(ctx context.Context, _ string, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultClientTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(txcontext.WithTx(ctx, tx)); err != nil {
		return err
	}
	return tx.Commit()
}
