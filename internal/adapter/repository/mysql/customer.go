package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	customerDomain "kobolend-backend/internal/domain/customer"
	"kobolend-backend/pkg/id"
)

type CustomerRepository struct{ db *gorm.DB }

func NewCustomerRepository(db *gorm.DB) *CustomerRepository { return &CustomerRepository{db: db} }

func (r *CustomerRepository) UpsertByPhone(ctx context.Context, phone string) (*customerDomain.Customer, error) {
	var out customerDomain.Customer
	res := r.db.WithContext(ctx).Where("phone_number = ?", phone).First(&out)
	if res.Error == nil {
		return &out, nil
	}
	if !errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, res.Error
	}
	out = customerDomain.Customer{CustomerID: id.NewID32(), PhoneNumber: phone}
	// Two first-offer requests can race on the same phone; the unique
	// index turns the loser into a re-read.
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&out).Error; err != nil {
		return nil, err
	}
	if out.ID == 0 {
		res = r.db.WithContext(ctx).Where("phone_number = ?", phone).First(&out)
		return &out, res.Error
	}
	return &out, nil
}

func (r *CustomerRepository) GetByID(ctx context.Context, cid uint64) (*customerDomain.Customer, error) {
	var out customerDomain.Customer
	res := r.db.WithContext(ctx).First(&out, cid)
	return &out, res.Error
}

func (r *CustomerRepository) GetByPhone(ctx context.Context, phone string) (*customerDomain.Customer, error) {
	var out customerDomain.Customer
	res := r.db.WithContext(ctx).Where("phone_number = ?", phone).First(&out)
	return &out, res.Error
}

func (r *CustomerRepository) GetByCustomerID(ctx context.Context, customerID string) (*customerDomain.Customer, error) {
	var out customerDomain.Customer
	res := r.db.WithContext(ctx).Where("customer_id = ?", customerID).First(&out)
	return &out, res.Error
}

func (r *CustomerRepository) Save(ctx context.Context, c *customerDomain.Customer) error {
	return r.db.WithContext(ctx).Save(c).Error
}

type BlacklistRepository struct{ db *gorm.DB }

func NewBlacklistRepository(db *gorm.DB) *BlacklistRepository { return &BlacklistRepository{db: db} }

// GetActive returns the newest non-completed row, or nil when none.
func (r *BlacklistRepository) GetActive(ctx context.Context, phone string, typ customerDomain.ListType) (*customerDomain.Blacklist, error) {
	var out customerDomain.Blacklist
	res := r.db.WithContext(ctx).
		Where("phone_number = ? AND type = ? AND completed = ?", phone, typ, false).
		Order("id DESC").
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &out, res.Error
}

// GetNewest returns the newest row whether completed or not, or nil
// when the phone has never been listed under the type.
func (r *BlacklistRepository) GetNewest(ctx context.Context, phone string, typ customerDomain.ListType) (*customerDomain.Blacklist, error) {
	var out customerDomain.Blacklist
	res := r.db.WithContext(ctx).
		Where("phone_number = ? AND type = ?", phone, typ).
		Order("id DESC").
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &out, res.Error
}

func (r *BlacklistRepository) Create(ctx context.Context, b *customerDomain.Blacklist) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BlacklistRepository) Save(ctx context.Context, b *customerDomain.Blacklist) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *BlacklistRepository) DeleteCompletedByCode(ctx context.Context, phone string) error {
	return r.db.WithContext(ctx).
		Where("phone_number = ? AND type = ? AND completed = ?", phone, customerDomain.ListByCode, true).
		Delete(&customerDomain.Blacklist{}).Error
}

type WhitelistRepository struct{ db *gorm.DB }

func NewWhitelistRepository(db *gorm.DB) *WhitelistRepository { return &WhitelistRepository{db: db} }

func (r *WhitelistRepository) Exists(ctx context.Context, phone string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&customerDomain.Whitelist{}).
		Where("phone_number = ?", phone).Count(&n).Error
	return n > 0, err
}

func (r *WhitelistRepository) Create(ctx context.Context, w *customerDomain.Whitelist) error {
	return r.db.WithContext(ctx).Create(w).Error
}
