package repositories

import "context"

// TxFn runs with a context that carries the active transaction
type TxFn func(ctx context.Context) error

// TransactionManager runs a group of repository calls atomically.
// Repositories pick the transaction up from the context they are given.
type TransactionManager interface {
	ExecTx(ctx context.Context, fn TxFn) error
}
