package offermock

import (
	"context"

	domain "kobolend-backend/internal/domain/offer"
)

// Repo is a function-backed mock that satisfies offer.Repository.
type Repo struct {
	ListUpToAmountFn func(ctx context.Context, maxAmount int64) ([]domain.Offer, error)
	GetByAmountFn    func(ctx context.Context, amount int64) (*domain.Offer, error)
	NextAboveFn      func(ctx context.Context, amount int64) (*domain.Offer, error)
	NextBelowFn      func(ctx context.Context, amount int64) (*domain.Offer, error)
	GetByOfferIDFn   func(ctx context.Context, offerID string) (*domain.Offer, error)
}

func (m *Repo) ListUpToAmount(ctx context.Context, maxAmount int64) ([]domain.Offer, error) {
	if m.ListUpToAmountFn != nil {
		return m.ListUpToAmountFn(ctx, maxAmount)
	}
	return nil, nil
}

func (m *Repo) GetByAmount(ctx context.Context, amount int64) (*domain.Offer, error) {
	if m.GetByAmountFn != nil {
		return m.GetByAmountFn(ctx, amount)
	}
	return nil, nil
}

func (m *Repo) NextAbove(ctx context.Context, amount int64) (*domain.Offer, error) {
	if m.NextAboveFn != nil {
		return m.NextAboveFn(ctx, amount)
	}
	return nil, nil
}

func (m *Repo) NextBelow(ctx context.Context, amount int64) (*domain.Offer, error) {
	if m.NextBelowFn != nil {
		return m.NextBelowFn(ctx, amount)
	}
	return nil, nil
}

func (m *Repo) GetByOfferID(ctx context.Context, offerID string) (*domain.Offer, error) {
	if m.GetByOfferIDFn != nil {
		return m.GetByOfferIDFn(ctx, offerID)
	}
	return nil, domain.ErrNotFound
}

// FeeRepo satisfies offer.FeeRepository.
type FeeRepo struct {
	ListActiveFn func(ctx context.Context) ([]domain.Fee, error)
}

func (m *FeeRepo) ListActive(ctx context.Context) ([]domain.Fee, error) {
	if m.ListActiveFn != nil {
		return m.ListActiveFn(ctx)
	}
	return nil, nil
}
