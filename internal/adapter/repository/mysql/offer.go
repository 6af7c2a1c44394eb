package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	offerDomain "kobolend-backend/internal/domain/offer"
)

type OfferRepository struct{ db *gorm.DB }

func NewOfferRepository(db *gorm.DB) *OfferRepository { return &OfferRepository{db: db} }

func (r *OfferRepository) ListUpToAmount(ctx context.Context, maxAmount int64) ([]offerDomain.Offer, error) {
	var out []offerDomain.Offer
	err := r.db.WithContext(ctx).
		Where("amount <= ?", maxAmount).
		Order("amount ASC").
		Find(&out).Error
	return out, err
}

// GetByAmount returns nil when no catalog row matches; deleted tiers are
// a legitimate state the eligibility rules branch on.
func (r *OfferRepository) GetByAmount(ctx context.Context, amount int64) (*offerDomain.Offer, error) {
	var out offerDomain.Offer
	res := r.db.WithContext(ctx).Where("amount = ?", amount).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &out, res.Error
}

func (r *OfferRepository) NextAbove(ctx context.Context, amount int64) (*offerDomain.Offer, error) {
	var out offerDomain.Offer
	res := r.db.WithContext(ctx).
		Where("amount > ?", amount).
		Order("amount ASC").
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &out, res.Error
}

func (r *OfferRepository) NextBelow(ctx context.Context, amount int64) (*offerDomain.Offer, error) {
	var out offerDomain.Offer
	res := r.db.WithContext(ctx).
		Where("amount < ?", amount).
		Order("amount DESC").
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &out, res.Error
}

func (r *OfferRepository) GetByOfferID(ctx context.Context, offerID string) (*offerDomain.Offer, error) {
	var out offerDomain.Offer
	res := r.db.WithContext(ctx).Where("offer_id = ?", offerID).First(&out)
	return &out, res.Error
}

type FeeRepository struct{ db *gorm.DB }

func NewFeeRepository(db *gorm.DB) *FeeRepository { return &FeeRepository{db: db} }

func (r *FeeRepository) ListActive(ctx context.Context) ([]offerDomain.Fee, error) {
	var out []offerDomain.Fee
	err := r.db.WithContext(ctx).Where("active = ?", true).Find(&out).Error
	return out, err
}
