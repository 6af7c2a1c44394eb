package setting

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestBucketOffers_Validate(t *testing.T) {
	ordered := BucketOffers{1, 2, 2, 3, 4, 5, 6, 7, 8, 9}
	if err := ordered.Validate(); err != nil {
		t.Fatalf("non-decreasing buckets must validate: %v", err)
	}
	unordered := BucketOffers{1, 2, 1, 3, 4, 5, 6, 7, 8, 9}
	if err := unordered.Validate(); !errors.Is(err, ErrBucketsNotOrdered) {
		t.Fatalf("want ErrBucketsNotOrdered, got %v", err)
	}
}

func TestBucketOffers_AmountForScore(t *testing.T) {
	b := BucketOffers{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}

	cases := []struct {
		score int
		want  int64
		ok    bool
	}{
		{0, 10, true},
		{9, 10, true},
		{10, 20, true},
		{35, 40, true},
		{99, 100, true},
		{100, 100, true}, // top score shares the last decile
		{-1, 0, false},
		{101, 0, false},
	}
	for _, tc := range cases {
		got, ok := b.AmountForScore(tc.score)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("score %d: want (%d,%v), got (%d,%v)", tc.score, tc.want, tc.ok, got, ok)
		}
	}
}

func TestParseBuckets(t *testing.T) {
	b, err := ParseBuckets([]byte(`[1,2,3,4,5,6,7,8,9,10]`))
	if err != nil {
		t.Fatalf("ParseBuckets: %v", err)
	}
	if b[9] != 10 {
		t.Fatalf("last bucket: want 10, got %d", b[9])
	}

	if _, err := ParseBuckets([]byte(`[1,2,3]`)); !errors.Is(err, ErrBucketsWrongLength) {
		t.Fatalf("want ErrBucketsWrongLength, got %v", err)
	}
	if _, err := ParseBuckets([]byte(`[10,9,8,7,6,5,4,3,2,1]`)); !errors.Is(err, ErrBucketsNotOrdered) {
		t.Fatalf("want ErrBucketsNotOrdered, got %v", err)
	}
	if _, err := ParseBuckets([]byte(`not-json`)); err == nil {
		t.Fatalf("malformed json must be rejected")
	}
}

func TestResolve_OverlaysRecordOverDefaults(t *testing.T) {
	off := false
	cap := int64(250_000)
	pct := "12.5"
	s := &Setting{
		ShouldGiveLoans:   &off,
		FirstTimeLoanCap:  &cap,
		DefaultPenaltyPct: &pct,
		BucketOffersJSON:  []byte(`[1,2,3,4,5,6,7,8,9,10]`),
	}

	eff, err := Resolve(Defaults(), s)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if eff.ShouldGiveLoans {
		t.Fatalf("kill switch overlay missing")
	}
	if eff.FirstTimeLoanCap != 250_000 {
		t.Fatalf("cap overlay: want 250000, got %d", eff.FirstTimeLoanCap)
	}
	if !eff.DefaultPenaltyPct.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("penalty pct overlay: got %s", eff.DefaultPenaltyPct)
	}
	if !eff.BucketsSet || eff.BucketOffers[0] != 1 {
		t.Fatalf("buckets overlay missing: %+v", eff.BucketOffers)
	}
	// Untouched fields keep defaults.
	if eff.MaximumDaysForDemotion != 90 {
		t.Fatalf("default not preserved: %d", eff.MaximumDaysForDemotion)
	}
}

func TestResolve_NilRecordYieldsDefaults(t *testing.T) {
	eff, err := Resolve(Defaults(), nil)
	if err != nil {
		t.Fatalf("Resolve nil: %v", err)
	}
	if !eff.ShouldGiveLoans || eff.FirstTimeLoanCap != 1_000_000 {
		t.Fatalf("defaults mangled: %+v", eff)
	}
}

func TestFirstTimeAmount_WithoutBuckets(t *testing.T) {
	eff := Defaults()
	amt, ok := eff.FirstTimeAmount(50)
	if !ok || amt != eff.FirstTimeLoanCap {
		t.Fatalf("bucketless cap: want %d, got %d ok=%v", eff.FirstTimeLoanCap, amt, ok)
	}
	if _, ok := eff.FirstTimeAmount(101); ok {
		t.Fatalf("out-of-range score must have no amount")
	}
}
