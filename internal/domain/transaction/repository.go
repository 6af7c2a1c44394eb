package transaction

import "context"

type Repository interface {
	Create(ctx context.Context, t *Transaction) error
	Save(ctx context.Context, t *Transaction) error
	GetByTransactionID(ctx context.Context, transactionID string) (*Transaction, error)
	// ExistsByReference reports whether any transaction already carries
	// the external payment reference.
	ExistsByReference(ctx context.Context, reference string) (bool, error)
}
