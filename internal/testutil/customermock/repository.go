package customermock

import (
	"context"

	domain "kobolend-backend/internal/domain/customer"
)

// Repo is a function-backed mock that satisfies customer.Repository.
// Only methods you need are included; add more as tests require.
type Repo struct {
	UpsertByPhoneFn   func(ctx context.Context, phone string) (*domain.Customer, error)
	GetByIDFn         func(ctx context.Context, id uint64) (*domain.Customer, error)
	GetByPhoneFn      func(ctx context.Context, phone string) (*domain.Customer, error)
	GetByCustomerIDFn func(ctx context.Context, customerID string) (*domain.Customer, error)
	SaveFn            func(ctx context.Context, c *domain.Customer) error
}

func (m *Repo) UpsertByPhone(ctx context.Context, phone string) (*domain.Customer, error) {
	if m.UpsertByPhoneFn != nil {
		return m.UpsertByPhoneFn(ctx, phone)
	}
	return &domain.Customer{PhoneNumber: phone}, nil
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.Customer, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return &domain.Customer{ID: id}, nil
}

func (m *Repo) GetByPhone(ctx context.Context, phone string) (*domain.Customer, error) {
	if m.GetByPhoneFn != nil {
		return m.GetByPhoneFn(ctx, phone)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByCustomerID(ctx context.Context, customerID string) (*domain.Customer, error) {
	if m.GetByCustomerIDFn != nil {
		return m.GetByCustomerIDFn(ctx, customerID)
	}
	return nil, context.Canceled
}

func (m *Repo) Save(ctx context.Context, c *domain.Customer) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, c)
	}
	return nil
}

// BlacklistRepo satisfies customer.BlacklistRepository.
type BlacklistRepo struct {
	GetActiveFn             func(ctx context.Context, phone string, typ domain.ListType) (*domain.Blacklist, error)
	GetNewestFn             func(ctx context.Context, phone string, typ domain.ListType) (*domain.Blacklist, error)
	CreateFn                func(ctx context.Context, b *domain.Blacklist) error
	SaveFn                  func(ctx context.Context, b *domain.Blacklist) error
	DeleteCompletedByCodeFn func(ctx context.Context, phone string) error
}

func (m *BlacklistRepo) GetActive(ctx context.Context, phone string, typ domain.ListType) (*domain.Blacklist, error) {
	if m.GetActiveFn != nil {
		return m.GetActiveFn(ctx, phone, typ)
	}
	return nil, nil
}

func (m *BlacklistRepo) GetNewest(ctx context.Context, phone string, typ domain.ListType) (*domain.Blacklist, error) {
	if m.GetNewestFn != nil {
		return m.GetNewestFn(ctx, phone, typ)
	}
	return nil, nil
}

func (m *BlacklistRepo) Create(ctx context.Context, b *domain.Blacklist) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, b)
	}
	return nil
}

func (m *BlacklistRepo) Save(ctx context.Context, b *domain.Blacklist) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, b)
	}
	return nil
}

func (m *BlacklistRepo) DeleteCompletedByCode(ctx context.Context, phone string) error {
	if m.DeleteCompletedByCodeFn != nil {
		return m.DeleteCompletedByCodeFn(ctx, phone)
	}
	return nil
}

// WhitelistRepo satisfies customer.WhitelistRepository.
type WhitelistRepo struct {
	ExistsFn func(ctx context.Context, phone string) (bool, error)
	CreateFn func(ctx context.Context, w *domain.Whitelist) error
}

func (m *WhitelistRepo) Exists(ctx context.Context, phone string) (bool, error) {
	if m.ExistsFn != nil {
		return m.ExistsFn(ctx, phone)
	}
	return false, nil
}

func (m *WhitelistRepo) Create(ctx context.Context, w *domain.Whitelist) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, w)
	}
	return nil
}
