package uow

import (
	"context"

	"kobolend-backend/internal/domain/bureau"
	"kobolend-backend/internal/domain/customer"
	"kobolend-backend/internal/domain/loan"
	"kobolend-backend/internal/domain/transaction"
)

// Repos is the bundle of repositories bound to one transaction.
type Repos struct {
	Customers    customer.Repository
	Blacklists   customer.BlacklistRepository
	LoanOffers   loan.OfferRepository
	Loans        loan.Repository
	Cases        loan.CollectionCaseRepository
	Transactions transaction.Repository
	Bureau       bureau.Repository
}

type UnitOfWork interface {
	// WithinTx runs fn inside one database transaction.
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// WithinLoanOfferTx locks the loan offer row first, then runs fn.
	// Serializes webhook vs staff-initiated mutations on the same loan.
	WithinLoanOfferTx(ctx context.Context, loanOfferID string, fn func(r Repos, lo *loan.LoanOffer) error) error
}
