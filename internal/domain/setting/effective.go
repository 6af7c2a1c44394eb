package setting

import (
	"context"

	"github.com/shopspring/decimal"
)

type Repository interface {
	// Get returns the singleton settings record, ErrNotFound if unset.
	Get(ctx context.Context) (*Setting, error)
	Save(ctx context.Context, s *Setting) error
}

// Effective is the fully-resolved configuration a use case works with:
// the persisted record merged over static defaults, computed once per
// invocation and passed explicitly. No ambient lookups.
type Effective struct {
	ShouldGiveLoans          bool
	BucketOffers             BucketOffers
	BucketsSet               bool
	FirstTimeLoanCap         int64
	DailyAggregateCap        int64
	UseCrcCheck              bool
	UseFirstCentralCheck     bool
	UseCreditScoreCheck      bool
	MinimumBureauScore       int
	MaxOutstandingToQualify  int
	CrcLookbackDays          int
	FirstCentralLookbackDays int
	MinimumDaysForDemotion   int
	MaximumDaysForDemotion   int
	BlacklistPenaltyDays     int
	DefaultPenaltyPct        decimal.Decimal

	// Repeat-borrower cycle windows. Fixed product rules, not persisted.
	RepeatLateMinDays      int
	RepeatLateMaxDays      int
	TimelyRepaymentMaxDays int
	TrailingWindowDays     int
	TrailingWindowMaxLoans int

	// Per-channel first-time caps, e.g. a USSD ceiling that applies
	// regardless of score.
	ChannelCaps map[string]int64
}

// Defaults mirrors the config-file fallback for every tunable.
func Defaults() Effective {
	return Effective{
		ShouldGiveLoans:          true,
		FirstTimeLoanCap:         1_000_000, // 10,000 naira
		DailyAggregateCap:        500_000_000,
		UseCrcCheck:              true,
		UseFirstCentralCheck:     true,
		UseCreditScoreCheck:      false,
		MinimumBureauScore:       300,
		MaxOutstandingToQualify:  0,
		CrcLookbackDays:          30,
		FirstCentralLookbackDays: 30,
		MinimumDaysForDemotion:   30,
		MaximumDaysForDemotion:   90,
		BlacklistPenaltyDays:     90,
		DefaultPenaltyPct:        decimal.NewFromInt(10),
		RepeatLateMinDays:        3,
		RepeatLateMaxDays:        30,
		TimelyRepaymentMaxDays:   2,
		TrailingWindowDays:       14,
		TrailingWindowMaxLoans:   3,
		ChannelCaps:              map[string]int64{},
	}
}

// Resolve merges the persisted record over the given defaults. A nil
// record yields the defaults untouched.
func Resolve(base Effective, s *Setting) (Effective, error) {
	out := base
	if s == nil {
		return out, nil
	}
	if s.ShouldGiveLoans != nil {
		out.ShouldGiveLoans = *s.ShouldGiveLoans
	}
	if len(s.BucketOffersJSON) > 0 {
		b, err := ParseBuckets(s.BucketOffersJSON)
		if err != nil {
			return out, err
		}
		out.BucketOffers = b
		out.BucketsSet = true
	}
	if s.FirstTimeLoanCap != nil {
		out.FirstTimeLoanCap = *s.FirstTimeLoanCap
	}
	if s.DailyAggregateCap != nil {
		out.DailyAggregateCap = *s.DailyAggregateCap
	}
	if s.UseCrcCheck != nil {
		out.UseCrcCheck = *s.UseCrcCheck
	}
	if s.UseFirstCentralCheck != nil {
		out.UseFirstCentralCheck = *s.UseFirstCentralCheck
	}
	if s.UseCreditScoreCheck != nil {
		out.UseCreditScoreCheck = *s.UseCreditScoreCheck
	}
	if s.MinimumBureauScore != nil {
		out.MinimumBureauScore = *s.MinimumBureauScore
	}
	if s.MaxOutstandingToQualify != nil {
		out.MaxOutstandingToQualify = *s.MaxOutstandingToQualify
	}
	if s.CrcLookbackDays != nil {
		out.CrcLookbackDays = *s.CrcLookbackDays
	}
	if s.FirstCentralLookbackDays != nil {
		out.FirstCentralLookbackDays = *s.FirstCentralLookbackDays
	}
	if s.MinimumDaysForDemotion != nil {
		out.MinimumDaysForDemotion = *s.MinimumDaysForDemotion
	}
	if s.MaximumDaysForDemotion != nil {
		out.MaximumDaysForDemotion = *s.MaximumDaysForDemotion
	}
	if s.BlacklistPenaltyDays != nil {
		out.BlacklistPenaltyDays = *s.BlacklistPenaltyDays
	}
	if s.DefaultPenaltyPct != nil {
		pct, err := decimal.NewFromString(*s.DefaultPenaltyPct)
		if err != nil {
			return out, err
		}
		out.DefaultPenaltyPct = pct
	}
	return out, nil
}

// FirstTimeAmount maps the internal score to its bucket ceiling, or the
// single configured cap when buckets are unset. ok=false means the score
// has no bucket and the customer gets no offer.
func (e Effective) FirstTimeAmount(score int) (int64, bool) {
	if !e.BucketsSet {
		if score < 0 || score > 100 {
			return 0, false
		}
		return e.FirstTimeLoanCap, true
	}
	return e.BucketOffers.AmountForScore(score)
}
