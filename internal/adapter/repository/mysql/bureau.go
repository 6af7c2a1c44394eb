package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	bureauDomain "kobolend-backend/internal/domain/bureau"
)

type BureauRepository struct{ db *gorm.DB }

func NewBureauRepository(db *gorm.DB) *BureauRepository { return &BureauRepository{db: db} }

func (r *BureauRepository) GetByCustomer(ctx context.Context, name bureauDomain.Name, customerID uint64) (*bureauDomain.Report, error) {
	var out bureauDomain.Report
	res := r.db.WithContext(ctx).
		Where("bureau = ? AND customer_id = ?", name, customerID).
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, bureauDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *BureauRepository) UpsertReport(ctx context.Context, rep *bureauDomain.Report) error {
	var existing bureauDomain.Report
	res := r.db.WithContext(ctx).
		Where("bureau = ? AND customer_id = ?", rep.Bureau, rep.CustomerID).
		First(&existing)
	if res.Error == nil {
		rep.ID = existing.ID
		rep.CreatedAt = existing.CreatedAt
		return r.db.WithContext(ctx).Save(rep).Error
	}
	if !errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return res.Error
	}
	return r.db.WithContext(ctx).Create(rep).Error
}

// UpsertHistory keeps one row per (bureau, customer, calendar day).
func (r *BureauRepository) UpsertHistory(ctx context.Context, name bureauDomain.Name, customerID uint64, day time.Time, passed bool) error {
	date := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	var existing bureauDomain.History
	res := r.db.WithContext(ctx).
		Where("bureau = ? AND customer_id = ? AND check_date = ?", name, customerID, date).
		First(&existing)
	if res.Error == nil {
		existing.Passed = passed
		return r.db.WithContext(ctx).Save(&existing).Error
	}
	if !errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return res.Error
	}
	return r.db.WithContext(ctx).Create(&bureauDomain.History{
		Bureau:     name,
		CustomerID: customerID,
		CheckDate:  date,
		Passed:     passed,
	}).Error
}
