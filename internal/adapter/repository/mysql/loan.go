package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	loanDomain "kobolend-backend/internal/domain/loan"
)

type LoanOfferRepository struct{ db *gorm.DB }

func NewLoanOfferRepository(db *gorm.DB) *LoanOfferRepository { return &LoanOfferRepository{db: db} }

func (r *LoanOfferRepository) Create(ctx context.Context, lo *loanDomain.LoanOffer) error {
	return r.db.WithContext(ctx).Create(lo).Error
}

func (r *LoanOfferRepository) CreateBatch(ctx context.Context, offers []*loanDomain.LoanOffer) error {
	if len(offers) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(offers).Error
}

func (r *LoanOfferRepository) Save(ctx context.Context, lo *loanDomain.LoanOffer) error {
	return r.db.WithContext(ctx).Save(lo).Error
}

func (r *LoanOfferRepository) GetByLoanOfferID(ctx context.Context, loanOfferID string) (*loanDomain.LoanOffer, error) {
	var out loanDomain.LoanOffer
	res := r.db.WithContext(ctx).Where("loan_offer_id = ?", loanOfferID).First(&out)
	return &out, res.Error
}

func (r *LoanOfferRepository) GetByID(ctx context.Context, id uint64) (*loanDomain.LoanOffer, error) {
	var out loanDomain.LoanOffer
	res := r.db.WithContext(ctx).First(&out, id)
	return &out, res.Error
}

func (r *LoanOfferRepository) GetByLoanOfferIDForUpdate(ctx context.Context, loanOfferID string) (*loanDomain.LoanOffer, error) {
	var out loanDomain.LoanOffer
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("loan_offer_id = ?", loanOfferID).
		First(&out)
	return &out, res.Error
}

// GetOutstandingByCustomer returns the customer's OPEN or OVERDUE offer,
// nil when the slot is free.
func (r *LoanOfferRepository) GetOutstandingByCustomer(ctx context.Context, customerID uint64) (*loanDomain.LoanOffer, error) {
	var out loanDomain.LoanOffer
	res := r.db.WithContext(ctx).
		Where("customer_id = ? AND status IN ?", customerID, []loanDomain.Status{loanDomain.StatusOpen, loanDomain.StatusOverdue}).
		Order("id DESC").
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &out, res.Error
}

func (r *LoanOfferRepository) MostRecentClosed(ctx context.Context, customerID uint64) (*loanDomain.LoanOffer, error) {
	var out loanDomain.LoanOffer
	res := r.db.WithContext(ctx).
		Where("customer_id = ? AND status = ?", customerID, loanDomain.StatusClosed).
		Order("updated_at DESC, id DESC").
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &out, res.Error
}

func (r *LoanOfferRepository) HasAnyWithStatus(ctx context.Context, customerID uint64, statuses ...loanDomain.Status) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&loanDomain.LoanOffer{}).
		Where("customer_id = ? AND status IN ?", customerID, statuses).
		Count(&n).Error
	return n > 0, err
}

func (r *LoanOfferRepository) SumAmountsUpdatedToday(ctx context.Context, day time.Time, statuses ...loanDomain.Status) (int64, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)
	var total *int64
	err := r.db.WithContext(ctx).Model(&loanDomain.LoanOffer{}).
		Select("SUM(amount)").
		Where("status IN ? AND updated_at >= ? AND updated_at < ?", statuses, start, end).
		Scan(&total).Error
	if err != nil || total == nil {
		return 0, err
	}
	return *total, nil
}

func (r *LoanOfferRepository) CountClosedSince(ctx context.Context, customerID uint64, since time.Time) (int, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&loanDomain.LoanOffer{}).
		Where("customer_id = ? AND status = ? AND updated_at >= ?", customerID, loanDomain.StatusClosed, since).
		Count(&n).Error
	return int(n), err
}

// CountTimelyRepaymentsAtAmount counts closed offers at exactly amount
// whose ledger settled no later than maxLateDays past the due date. Two
// queries and a Go-side comparison keep this portable across MySQL and
// the sqlite test driver.
func (r *LoanOfferRepository) CountTimelyRepaymentsAtAmount(ctx context.Context, customerID uint64, amount int64, maxLateDays int) (int, error) {
	var offers []loanDomain.LoanOffer
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND status = ? AND amount = ?", customerID, loanDomain.StatusClosed, amount).
		Find(&offers).Error
	if err != nil {
		return 0, err
	}
	count := 0
	for i := range offers {
		var l loanDomain.Loan
		res := r.db.WithContext(ctx).Where("loan_offer_id = ?", offers[i].ID).First(&l)
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			continue
		}
		if res.Error != nil {
			return 0, res.Error
		}
		if !offers[i].UpdatedAt.After(l.DueDate.AddDate(0, 0, maxLateDays)) {
			count++
		}
	}
	return count, nil
}

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

// UpsertByLoanOfferID creates the ledger row once per offer; a retry
// returns the existing row untouched.
func (r *LoanRepository) UpsertByLoanOfferID(ctx context.Context, l *loanDomain.Loan) (*loanDomain.Loan, error) {
	var existing loanDomain.Loan
	res := r.db.WithContext(ctx).Where("loan_offer_id = ?", l.LoanOfferID).First(&existing)
	if res.Error == nil {
		return &existing, nil
	}
	if !errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, res.Error
	}
	if err := r.db.WithContext(ctx).Create(l).Error; err != nil {
		return nil, err
	}
	return l, nil
}

func (r *LoanRepository) GetByLoanOfferID(ctx context.Context, loanOfferID uint64) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).Where("loan_offer_id = ?", loanOfferID).First(&out)
	return &out, res.Error
}

func (r *LoanRepository) Save(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *LoanRepository) ListOpenPastDue(ctx context.Context, cutoff time.Time) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	err := r.db.WithContext(ctx).
		Joins("JOIN loan_offers ON loan_offers.id = loans.loan_offer_id").
		Where("loan_offers.status = ? AND loans.due_date < ?", loanDomain.StatusOpen, cutoff).
		Find(&out).Error
	return out, err
}

type CollectionCaseRepository struct{ db *gorm.DB }

func NewCollectionCaseRepository(db *gorm.DB) *CollectionCaseRepository {
	return &CollectionCaseRepository{db: db}
}

func (r *CollectionCaseRepository) Create(ctx context.Context, c *loanDomain.CollectionCase) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CollectionCaseRepository) GetOpenByLoanID(ctx context.Context, loanID uint64) (*loanDomain.CollectionCase, error) {
	var out loanDomain.CollectionCase
	res := r.db.WithContext(ctx).
		Where("loan_id = ? AND status = ?", loanID, loanDomain.CaseOpen).
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &out, res.Error
}

func (r *CollectionCaseRepository) Save(ctx context.Context, c *loanDomain.CollectionCase) error {
	return r.db.WithContext(ctx).Save(c).Error
}
