package db

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
)

type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
	commitErr  error
}

func (f *fakeTx) Commit(context.Context) error {
	f.committed = true
	return f.commitErr
}

func (f *fakeTx) Rollback(context.Context) error {
	f.rolledBack = true
	return nil
}

type fakeBeginner struct {
	tx  *fakeTx
	err error
}

func (b fakeBeginner) BeginTx(context.Context, pgx.TxOptions) (pgx.Tx, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.tx, nil
}

func TestWithTx_CommitsOnSuccess(t *testing.T) {
	tx := &fakeTx{}
	if err := WithTx(context.Background(), fakeBeginner{tx: tx}, func(pgx.Tx) error { return nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !tx.committed {
		t.Fatalf("expected commit")
	}
}

func TestWithTx_ReturnsCallbackErrorUnwrapped(t *testing.T) {
	sentinel := errors.New("booking not found")
	tx := &fakeTx{}
	err := WithTx(context.Background(), fakeBeginner{tx: tx}, func(pgx.Tx) error { return sentinel })
	if err != sentinel {
		t.Fatalf("expected the callback's own error, got %v", err)
	}
	if tx.committed || !tx.rolledBack {
		t.Fatalf("expected rollback without commit (committed=%v rolledBack=%v)", tx.committed, tx.rolledBack)
	}
}

func TestWithTx_WrapsBeginAndCommitFailures(t *testing.T) {
	down := errors.New("connection refused")
	err := WithTx(context.Background(), fakeBeginner{err: down}, func(pgx.Tx) error {
		t.Fatalf("callback must not run")
		return nil
	})
	if !errors.Is(err, down) || err.Error() != "begin tx: connection refused" {
		t.Fatalf("unexpected begin error: %v", err)
	}

	tx := &fakeTx{commitErr: down}
	err = WithTx(context.Background(), fakeBeginner{tx: tx}, func(pgx.Tx) error { return nil })
	if !errors.Is(err, down) || err.Error() != "commit tx: connection refused" {
		t.Fatalf("unexpected commit error: %v", err)
	}
}
