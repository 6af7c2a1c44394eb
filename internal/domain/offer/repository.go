package offer

import "context"

type Repository interface {
	ListUpToAmount(ctx context.Context, maxAmount int64) ([]Offer, error)
	GetByAmount(ctx context.Context, amount int64) (*Offer, error)
	// NextAbove returns the cheapest catalog offer strictly above amount.
	NextAbove(ctx context.Context, amount int64) (*Offer, error)
	// NextBelow returns the priciest catalog offer strictly below amount.
	NextBelow(ctx context.Context, amount int64) (*Offer, error)
	GetByOfferID(ctx context.Context, offerID string) (*Offer, error)
}

type FeeRepository interface {
	ListActive(ctx context.Context) ([]Fee, error)
}
