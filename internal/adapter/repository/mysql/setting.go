package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	settingDomain "kobolend-backend/internal/domain/setting"
)

type SettingRepository struct{ db *gorm.DB }

func NewSettingRepository(db *gorm.DB) *SettingRepository { return &SettingRepository{db: db} }

// Get returns the singleton record. ErrNotFound signals "use defaults".
func (r *SettingRepository) Get(ctx context.Context) (*settingDomain.Setting, error) {
	var out settingDomain.Setting
	res := r.db.WithContext(ctx).Order("id ASC").First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, settingDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *SettingRepository) Save(ctx context.Context, s *settingDomain.Setting) error {
	// Monotonic buckets are enforced at write time, not read time.
	if len(s.BucketOffersJSON) > 0 {
		if _, err := settingDomain.ParseBuckets(s.BucketOffersJSON); err != nil {
			return err
		}
	}
	return r.db.WithContext(ctx).Save(s).Error
}
