package uowmock

import (
	"context"

	"kobolend-backend/internal/domain/loan"
	"kobolend-backend/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

// UoW is a pass-through fake for uow.UnitOfWork: no real transaction,
// fn just runs against the bundled repos. WithinLoanOfferTx resolves
// the offer through Repos.LoanOffers, so tests stub
// GetByLoanOfferIDForUpdateFn on the offer repo mock.
type UoW struct {
	Repos uow.Repos

	WithinTxFn          func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinLoanOfferTxFn func(ctx context.Context, loanOfferID string, fn func(r uow.Repos, lo *loan.LoanOffer) error) error
}

func New(r uow.Repos) *UoW { return &UoW{Repos: r} }

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return fn(m.Repos)
}

func (m *UoW) WithinLoanOfferTx(ctx context.Context, loanOfferID string, fn func(r uow.Repos, lo *loan.LoanOffer) error) error {
	if m.WithinLoanOfferTxFn != nil {
		return m.WithinLoanOfferTxFn(ctx, loanOfferID, fn)
	}
	lo, err := m.Repos.LoanOffers.GetByLoanOfferIDForUpdate(ctx, loanOfferID)
	if err != nil {
		return err
	}
	return fn(m.Repos, lo)
}
