package customer

import "context"

type Repository interface {
	// UpsertByPhone returns the existing customer for the phone number or
	// creates one. Customers are never hard-deleted.
	UpsertByPhone(ctx context.Context, phone string) (*Customer, error)
	GetByID(ctx context.Context, id uint64) (*Customer, error)
	GetByPhone(ctx context.Context, phone string) (*Customer, error)
	GetByCustomerID(ctx context.Context, customerID string) (*Customer, error)
	Save(ctx context.Context, c *Customer) error
}

type BlacklistRepository interface {
	// GetActive returns the newest non-completed row for the phone, if any.
	GetActive(ctx context.Context, phone string, typ ListType) (*Blacklist, error)
	// GetNewest returns the newest row for the phone regardless of
	// completion, if any. A completed BY_CODE row marks a suspension
	// already served and must not look like a clean slate.
	GetNewest(ctx context.Context, phone string, typ ListType) (*Blacklist, error)
	Create(ctx context.Context, b *Blacklist) error
	Save(ctx context.Context, b *Blacklist) error
	// DeleteCompletedByCode removes a served-out BY_CODE suspension.
	DeleteCompletedByCode(ctx context.Context, phone string) error
}

type WhitelistRepository interface {
	Exists(ctx context.Context, phone string) (bool, error)
	Create(ctx context.Context, w *Whitelist) error
}
