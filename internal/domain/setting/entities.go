package setting

import (
	"encoding/json"
	"errors"
	"time"
)

var (
	ErrNotFound           = errors.New("settings record not found")
	ErrBucketsNotOrdered  = errors.New("bucket offers must be non-decreasing")
	ErrBucketsWrongLength = errors.New("bucket offers must have exactly 10 entries")
)

// BucketOffers maps credit-score deciles (0-9, 10-19, ... 90-100) to
// first-time loan ceilings in kobo. Ordered and validated non-decreasing
// at write time.
type BucketOffers [10]int64

// Validate enforces the monotonic invariant.
func (b BucketOffers) Validate() error {
	for i := 1; i < len(b); i++ {
		if b[i] < b[i-1] {
			return ErrBucketsNotOrdered
		}
	}
	return nil
}

// AmountForScore maps an internal credit score onto its decile ceiling.
// Scores outside [0, 100] have no bucket.
func (b BucketOffers) AmountForScore(score int) (int64, bool) {
	if score < 0 || score > 100 {
		return 0, false
	}
	idx := score / 10
	if idx > 9 { // score == 100 shares the top decile
		idx = 9
	}
	return b[idx], true
}

// ParseBuckets decodes a JSON array of exactly 10 kobo amounts.
func ParseBuckets(raw []byte) (BucketOffers, error) {
	var vals []int64
	if err := json.Unmarshal(raw, &vals); err != nil {
		return BucketOffers{}, err
	}
	if len(vals) != 10 {
		return BucketOffers{}, ErrBucketsWrongLength
	}
	var b BucketOffers
	copy(b[:], vals)
	return b, b.Validate()
}

// Setting is the persisted tunables record. Nil fields fall back to the
// static defaults when resolved.
type Setting struct {
	ID                       uint64  `gorm:"primaryKey;column:id"`
	ShouldGiveLoans          *bool   `gorm:"column:should_give_loans"`
	BucketOffersJSON         []byte  `gorm:"column:bucket_offers;type:json"`
	FirstTimeLoanCap         *int64  `gorm:"column:first_time_loan_cap"`
	DailyAggregateCap        *int64  `gorm:"column:daily_aggregate_cap"`
	UseCrcCheck              *bool   `gorm:"column:use_crc_check"`
	UseFirstCentralCheck     *bool   `gorm:"column:use_first_central_check"`
	UseCreditScoreCheck      *bool   `gorm:"column:use_credit_score_check"`
	MinimumBureauScore       *int    `gorm:"column:minimum_bureau_score"`
	MaxOutstandingToQualify  *int    `gorm:"column:max_outstanding_to_qualify"`
	CrcLookbackDays          *int    `gorm:"column:crc_lookback_days"`
	FirstCentralLookbackDays *int    `gorm:"column:first_central_lookback_days"`
	MinimumDaysForDemotion   *int    `gorm:"column:minimum_days_for_demotion"`
	MaximumDaysForDemotion   *int    `gorm:"column:maximum_days_for_demotion"`
	BlacklistPenaltyDays     *int    `gorm:"column:blacklist_penalty_days"`
	DefaultPenaltyPct        *string `gorm:"column:default_penalty_pct;size:16"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Setting) TableName() string { return "settings" }
