package loan

import (
	"context"
	"time"
)

type OfferRepository interface {
	Create(ctx context.Context, lo *LoanOffer) error
	CreateBatch(ctx context.Context, offers []*LoanOffer) error
	Save(ctx context.Context, lo *LoanOffer) error
	GetByLoanOfferID(ctx context.Context, loanOfferID string) (*LoanOffer, error)
	GetByID(ctx context.Context, id uint64) (*LoanOffer, error)
	// GetByLoanOfferIDForUpdate row-locks the offer for the duration of
	// the surrounding transaction.
	GetByLoanOfferIDForUpdate(ctx context.Context, loanOfferID string) (*LoanOffer, error)
	GetOutstandingByCustomer(ctx context.Context, customerID uint64) (*LoanOffer, error)
	// MostRecentClosed returns the newest CLOSED offer for the customer.
	MostRecentClosed(ctx context.Context, customerID uint64) (*LoanOffer, error)
	// HasAnyWithStatus reports whether the customer has ever held an offer
	// in one of the given statuses.
	HasAnyWithStatus(ctx context.Context, customerID uint64, statuses ...Status) (bool, error)
	// SumAmountsUpdatedToday totals OPEN/CLOSED offer amounts whose
	// updated_at falls on the given calendar day.
	SumAmountsUpdatedToday(ctx context.Context, day time.Time, statuses ...Status) (int64, error)
	// CountClosedSince counts CLOSED offers for the customer updated on or
	// after the given instant.
	CountClosedSince(ctx context.Context, customerID uint64, since time.Time) (int, error)
	// CountTimelyRepaymentsAtAmount counts CLOSED offers at exactly amount
	// whose loan settled no more than maxLateDays after its due date.
	CountTimelyRepaymentsAtAmount(ctx context.Context, customerID uint64, amount int64, maxLateDays int) (int, error)
}

type Repository interface {
	// UpsertByLoanOfferID creates the ledger row for an offer or returns
	// the existing one. Acceptance retries must not create duplicates.
	UpsertByLoanOfferID(ctx context.Context, l *Loan) (*Loan, error)
	GetByLoanOfferID(ctx context.Context, loanOfferID uint64) (*Loan, error)
	Save(ctx context.Context, l *Loan) error
	// ListOpenPastDue returns loans on OPEN offers whose due date is
	// before the cutoff.
	ListOpenPastDue(ctx context.Context, cutoff time.Time) ([]Loan, error)
}

type CollectionCaseRepository interface {
	Create(ctx context.Context, c *CollectionCase) error
	GetOpenByLoanID(ctx context.Context, loanID uint64) (*CollectionCase, error)
	Save(ctx context.Context, c *CollectionCase) error
}
