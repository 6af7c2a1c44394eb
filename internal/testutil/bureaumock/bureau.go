package bureaumock

import (
	"context"
	"time"

	domain "kobolend-backend/internal/domain/bureau"
)

// Repo is a function-backed mock that satisfies bureau.Repository.
type Repo struct {
	GetByCustomerFn func(ctx context.Context, bureau domain.Name, customerID uint64) (*domain.Report, error)
	UpsertReportFn  func(ctx context.Context, r *domain.Report) error
	UpsertHistoryFn func(ctx context.Context, bureau domain.Name, customerID uint64, day time.Time, passed bool) error
}

func (m *Repo) GetByCustomer(ctx context.Context, bureau domain.Name, customerID uint64) (*domain.Report, error) {
	if m.GetByCustomerFn != nil {
		return m.GetByCustomerFn(ctx, bureau, customerID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) UpsertReport(ctx context.Context, r *domain.Report) error {
	if m.UpsertReportFn != nil {
		return m.UpsertReportFn(ctx, r)
	}
	return nil
}

func (m *Repo) UpsertHistory(ctx context.Context, bureau domain.Name, customerID uint64, day time.Time, passed bool) error {
	if m.UpsertHistoryFn != nil {
		return m.UpsertHistoryFn(ctx, bureau, customerID, day, passed)
	}
	return nil
}

// Gateway satisfies bureau.Gateway.
type Gateway struct {
	NameValue domain.Name
	LookupFn  func(ctx context.Context, bvn string) (domain.LookupResult, error)
	MergeFn   func(ctx context.Context, bvn string, candidates []string) (domain.LookupResult, error)
}

func (m *Gateway) Name() domain.Name {
	if m.NameValue != "" {
		return m.NameValue
	}
	return domain.CRC
}

func (m *Gateway) Lookup(ctx context.Context, bvn string) (domain.LookupResult, error) {
	if m.LookupFn != nil {
		return m.LookupFn(ctx, bvn)
	}
	return domain.LookupResult{Kind: domain.NoHit}, nil
}

func (m *Gateway) Merge(ctx context.Context, bvn string, candidates []string) (domain.LookupResult, error) {
	if m.MergeFn != nil {
		return m.MergeFn(ctx, bvn, candidates)
	}
	return domain.LookupResult{Kind: domain.NoHit}, nil
}
