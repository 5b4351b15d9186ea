package repository

import "context"

// TxManager runs fn inside one store transaction. Repositories called with the context handed
// to fn join that transaction; nested calls reuse it.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
