package mysql

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/PaulosSouza/gostack-desafio-database-relations/pkg/domain/model"
)

type txKey struct{}

func NewTransactionalClient(db *sqlx.DB) model.TransactionalClient {
	return &transactionalClient{db: db}
}

type transactionalClient struct {
	db *sqlx.DB
}

// WithinTransaction runs fn inside a database transaction carried through the
// context; repositories in this package pick it up as their executor. A
// nested call joins the transaction already in flight.
func (c *transactionalClient) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return fn(ctx)
	}

	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	return errors.Wrap(tx.Commit(), "commit transaction")
}

// executor resolves the statement executor for ctx: the transaction opened by
// WithinTransaction when present, the plain connection pool otherwise.
func executor(ctx context.Context, db *sqlx.DB) sqlx.ExtContext {
	if tx, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return tx
	}
	return db
}
