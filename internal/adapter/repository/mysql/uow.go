package mysql

import (
	"context"

	"gorm.io/gorm"

	"kobolend-backend/internal/domain/loan"
	"kobolend-backend/internal/domain/uow"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func bind(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Customers:    &CustomerRepository{db: tx},
		Blacklists:   &BlacklistRepository{db: tx},
		LoanOffers:   &LoanOfferRepository{db: tx},
		Loans:        &LoanRepository{db: tx},
		Cases:        &CollectionCaseRepository{db: tx},
		Transactions: &TransactionRepository{db: tx},
		Bureau:       &BureauRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(bind(tx))
	})
}

func (u *GormUoW) WithinLoanOfferTx(ctx context.Context, loanOfferID string, fn func(r uow.Repos, lo *loan.LoanOffer) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := bind(tx)
		// lock the offer row up-front to serialize concurrent mutations
		lo, err := r.LoanOffers.GetByLoanOfferIDForUpdate(ctx, loanOfferID)
		if err != nil {
			return err
		}
		return fn(r, lo)
	})
}
