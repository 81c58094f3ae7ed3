package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

// Tx is the loose transaction handle threaded through repositories.
// Concrete repos assert it to their executor type; NoTX selects the
// pool directly.
type Tx interface{}

var NoTX Tx = nil

type TransactionManager interface {
	// WithTx runs fn inside a transaction, committing on nil error and
	// rolling back otherwise.
	WithTx(ctx context.Context, opts pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}
