package transactionmock

import (
	"context"

	domain "kobolend-backend/internal/domain/transaction"
)

// Repo is a function-backed mock that satisfies transaction.Repository.
type Repo struct {
	CreateFn             func(ctx context.Context, t *domain.Transaction) error
	SaveFn               func(ctx context.Context, t *domain.Transaction) error
	GetByTransactionIDFn func(ctx context.Context, transactionID string) (*domain.Transaction, error)
	ExistsByReferenceFn  func(ctx context.Context, reference string) (bool, error)
}

func (m *Repo) Create(ctx context.Context, t *domain.Transaction) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, t)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, t *domain.Transaction) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, t)
	}
	return nil
}

func (m *Repo) GetByTransactionID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	if m.GetByTransactionIDFn != nil {
		return m.GetByTransactionIDFn(ctx, transactionID)
	}
	return nil, context.Canceled
}

func (m *Repo) ExistsByReference(ctx context.Context, reference string) (bool, error) {
	if m.ExistsByReferenceFn != nil {
		return m.ExistsByReferenceFn(ctx, reference)
	}
	return false, nil
}
