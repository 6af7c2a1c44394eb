package loanmock

import (
	"context"
	"time"

	domain "kobolend-backend/internal/domain/loan"
)

// OfferRepo is a function-backed mock that satisfies
// loan.OfferRepository. Only methods you need are included; add more as
// tests require.
type OfferRepo struct {
	CreateFn                        func(ctx context.Context, lo *domain.LoanOffer) error
	CreateBatchFn                   func(ctx context.Context, offers []*domain.LoanOffer) error
	SaveFn                          func(ctx context.Context, lo *domain.LoanOffer) error
	GetByLoanOfferIDFn              func(ctx context.Context, loanOfferID string) (*domain.LoanOffer, error)
	GetByIDFn                       func(ctx context.Context, id uint64) (*domain.LoanOffer, error)
	GetByLoanOfferIDForUpdateFn     func(ctx context.Context, loanOfferID string) (*domain.LoanOffer, error)
	GetOutstandingByCustomerFn      func(ctx context.Context, customerID uint64) (*domain.LoanOffer, error)
	MostRecentClosedFn              func(ctx context.Context, customerID uint64) (*domain.LoanOffer, error)
	HasAnyWithStatusFn              func(ctx context.Context, customerID uint64, statuses ...domain.Status) (bool, error)
	SumAmountsUpdatedTodayFn        func(ctx context.Context, day time.Time, statuses ...domain.Status) (int64, error)
	CountClosedSinceFn              func(ctx context.Context, customerID uint64, since time.Time) (int, error)
	CountTimelyRepaymentsAtAmountFn func(ctx context.Context, customerID uint64, amount int64, maxLateDays int) (int, error)
}

func (m *OfferRepo) Create(ctx context.Context, lo *domain.LoanOffer) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, lo)
	}
	return nil
}

func (m *OfferRepo) CreateBatch(ctx context.Context, offers []*domain.LoanOffer) error {
	if m.CreateBatchFn != nil {
		return m.CreateBatchFn(ctx, offers)
	}
	return nil
}

func (m *OfferRepo) Save(ctx context.Context, lo *domain.LoanOffer) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, lo)
	}
	return nil
}

func (m *OfferRepo) GetByLoanOfferID(ctx context.Context, loanOfferID string) (*domain.LoanOffer, error) {
	if m.GetByLoanOfferIDFn != nil {
		return m.GetByLoanOfferIDFn(ctx, loanOfferID)
	}
	return nil, domain.ErrNotFound
}

func (m *OfferRepo) GetByID(ctx context.Context, id uint64) (*domain.LoanOffer, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *OfferRepo) GetByLoanOfferIDForUpdate(ctx context.Context, loanOfferID string) (*domain.LoanOffer, error) {
	if m.GetByLoanOfferIDForUpdateFn != nil {
		return m.GetByLoanOfferIDForUpdateFn(ctx, loanOfferID)
	}
	return nil, domain.ErrNotFound
}

func (m *OfferRepo) GetOutstandingByCustomer(ctx context.Context, customerID uint64) (*domain.LoanOffer, error) {
	if m.GetOutstandingByCustomerFn != nil {
		return m.GetOutstandingByCustomerFn(ctx, customerID)
	}
	return nil, nil
}

func (m *OfferRepo) MostRecentClosed(ctx context.Context, customerID uint64) (*domain.LoanOffer, error) {
	if m.MostRecentClosedFn != nil {
		return m.MostRecentClosedFn(ctx, customerID)
	}
	return nil, nil
}

func (m *OfferRepo) HasAnyWithStatus(ctx context.Context, customerID uint64, statuses ...domain.Status) (bool, error) {
	if m.HasAnyWithStatusFn != nil {
		return m.HasAnyWithStatusFn(ctx, customerID, statuses...)
	}
	return false, nil
}

func (m *OfferRepo) SumAmountsUpdatedToday(ctx context.Context, day time.Time, statuses ...domain.Status) (int64, error) {
	if m.SumAmountsUpdatedTodayFn != nil {
		return m.SumAmountsUpdatedTodayFn(ctx, day, statuses...)
	}
	return 0, nil
}

func (m *OfferRepo) CountClosedSince(ctx context.Context, customerID uint64, since time.Time) (int, error) {
	if m.CountClosedSinceFn != nil {
		return m.CountClosedSinceFn(ctx, customerID, since)
	}
	return 0, nil
}

func (m *OfferRepo) CountTimelyRepaymentsAtAmount(ctx context.Context, customerID uint64, amount int64, maxLateDays int) (int, error) {
	if m.CountTimelyRepaymentsAtAmountFn != nil {
		return m.CountTimelyRepaymentsAtAmountFn(ctx, customerID, amount, maxLateDays)
	}
	return 0, nil
}

// Repo satisfies loan.Repository.
type Repo struct {
	UpsertByLoanOfferIDFn func(ctx context.Context, l *domain.Loan) (*domain.Loan, error)
	GetByLoanOfferIDFn    func(ctx context.Context, loanOfferID uint64) (*domain.Loan, error)
	SaveFn                func(ctx context.Context, l *domain.Loan) error
	ListOpenPastDueFn     func(ctx context.Context, cutoff time.Time) ([]domain.Loan, error)
}

func (m *Repo) UpsertByLoanOfferID(ctx context.Context, l *domain.Loan) (*domain.Loan, error) {
	if m.UpsertByLoanOfferIDFn != nil {
		return m.UpsertByLoanOfferIDFn(ctx, l)
	}
	return l, nil
}

func (m *Repo) GetByLoanOfferID(ctx context.Context, loanOfferID uint64) (*domain.Loan, error) {
	if m.GetByLoanOfferIDFn != nil {
		return m.GetByLoanOfferIDFn(ctx, loanOfferID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) Save(ctx context.Context, l *domain.Loan) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, l)
	}
	return nil
}

func (m *Repo) ListOpenPastDue(ctx context.Context, cutoff time.Time) ([]domain.Loan, error) {
	if m.ListOpenPastDueFn != nil {
		return m.ListOpenPastDueFn(ctx, cutoff)
	}
	return nil, nil
}

// CaseRepo satisfies loan.CollectionCaseRepository.
type CaseRepo struct {
	CreateFn          func(ctx context.Context, c *domain.CollectionCase) error
	GetOpenByLoanIDFn func(ctx context.Context, loanID uint64) (*domain.CollectionCase, error)
	SaveFn            func(ctx context.Context, c *domain.CollectionCase) error
}

func (m *CaseRepo) Create(ctx context.Context, c *domain.CollectionCase) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, c)
	}
	return nil
}

func (m *CaseRepo) GetOpenByLoanID(ctx context.Context, loanID uint64) (*domain.CollectionCase, error) {
	if m.GetOpenByLoanIDFn != nil {
		return m.GetOpenByLoanIDFn(ctx, loanID)
	}
	return nil, nil
}

func (m *CaseRepo) Save(ctx context.Context, c *domain.CollectionCase) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, c)
	}
	return nil
}
