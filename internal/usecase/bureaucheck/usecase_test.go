package bureaucheck

import (
	"context"
	"errors"
	"testing"
	"time"

	"kobolend-backend/internal/domain/bureau"
	"kobolend-backend/internal/domain/customer"
	"kobolend-backend/internal/domain/setting"
	"kobolend-backend/internal/domain/uow"
	"kobolend-backend/internal/testutil/bureaumock"
	"kobolend-backend/internal/testutil/customermock"
	"kobolend-backend/internal/testutil/uowmock"
)

func borrower() *customer.Customer {
	return &customer.Customer{ID: 7, PhoneNumber: "+2348012345678", BVN: "12345678901"}
}

func newUsecase(gw *bureaumock.Gateway) (*Usecase, *customermock.Repo, *bureaumock.Repo, *customermock.WhitelistRepo) {
	customers := &customermock.Repo{}
	reports := &bureaumock.Repo{}
	whitelists := &customermock.WhitelistRepo{}
	u := uowmock.New(uow.Repos{Customers: customers, Bureau: reports})
	return NewUsecase(whitelists, reports, u, gw), customers, reports, whitelists
}

func TestPassesAllChecks_DisabledBureauPasses(t *testing.T) {
	gw := &bureaumock.Gateway{NameValue: bureau.CRC}
	gw.LookupFn = func(ctx context.Context, bvn string) (bureau.LookupResult, error) {
		t.Fatalf("disabled bureau must not be called")
		return bureau.LookupResult{}, nil
	}
	uc, _, _, _ := newUsecase(gw)
	eff := setting.Defaults()
	eff.UseCrcCheck = false

	ok, err := uc.PassesAllChecks(context.Background(), borrower(), eff)
	if err != nil || !ok {
		t.Fatalf("disabled check: want pass, got ok=%v err=%v", ok, err)
	}
}

func TestPassesAllChecks_WhitelistedSkipsLookup(t *testing.T) {
	gw := &bureaumock.Gateway{NameValue: bureau.CRC}
	gw.LookupFn = func(ctx context.Context, bvn string) (bureau.LookupResult, error) {
		t.Fatalf("whitelisted customer must not be looked up")
		return bureau.LookupResult{}, nil
	}
	uc, _, _, whitelists := newUsecase(gw)
	whitelists.ExistsFn = func(ctx context.Context, phone string) (bool, error) { return true, nil }

	ok, err := uc.PassesAllChecks(context.Background(), borrower(), setting.Defaults())
	if err != nil || !ok {
		t.Fatalf("whitelisted: want pass, got ok=%v err=%v", ok, err)
	}
}

func TestPassesAllChecks_NoBVNFails(t *testing.T) {
	uc, _, _, _ := newUsecase(&bureaumock.Gateway{NameValue: bureau.CRC})
	c := borrower()
	c.BVN = ""

	ok, err := uc.PassesAllChecks(context.Background(), c, setting.Defaults())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if ok {
		t.Fatalf("no identity anchor must fail the check")
	}
}

func TestPassesAllChecks_NoHitPasses(t *testing.T) {
	gw := &bureaumock.Gateway{NameValue: bureau.CRC}
	gw.LookupFn = func(ctx context.Context, bvn string) (bureau.LookupResult, error) {
		return bureau.LookupResult{Kind: bureau.NoHit}, nil
	}
	uc, _, reports, _ := newUsecase(gw)
	var historyPassed *bool
	reports.UpsertHistoryFn = func(ctx context.Context, name bureau.Name, customerID uint64, day time.Time, passed bool) error {
		historyPassed = &passed
		return nil
	}

	ok, err := uc.PassesAllChecks(context.Background(), borrower(), setting.Defaults())
	if err != nil || !ok {
		t.Fatalf("no-hit: want pass, got ok=%v err=%v", ok, err)
	}
	if historyPassed == nil || !*historyPassed {
		t.Fatalf("no-hit must still write a passing history row")
	}
}

func TestPassesAllChecks_DelinquenciesFail(t *testing.T) {
	gw := &bureaumock.Gateway{NameValue: bureau.CRC}
	gw.LookupFn = func(ctx context.Context, bvn string) (bureau.LookupResult, error) {
		return bureau.LookupResult{Kind: bureau.Hit, Delinquencies: 2, Sections: []byte(`{}`)}, nil
	}
	uc, _, reports, _ := newUsecase(gw)
	var saved *bureau.Report
	reports.UpsertReportFn = func(ctx context.Context, r *bureau.Report) error {
		saved = r
		return nil
	}

	c := borrower()
	ok, err := uc.PassesAllChecks(context.Background(), c, setting.Defaults())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if ok {
		t.Fatalf("2 delinquencies over a 0 threshold must fail")
	}
	if saved == nil || saved.PassesRecentCheck != "NO" || saved.TotalDelinquencies != 2 {
		t.Fatalf("snapshot not written: %+v", saved)
	}
	if c.CrcLastRequestedAt == nil {
		t.Fatalf("freshness stamp not set")
	}
}

func TestPassesAllChecks_MergeRequiredFollowsUp(t *testing.T) {
	gw := &bureaumock.Gateway{NameValue: bureau.CRC}
	gw.LookupFn = func(ctx context.Context, bvn string) (bureau.LookupResult, error) {
		return bureau.LookupResult{Kind: bureau.MergeRequired, MergeCandidates: []string{"r1", "r2"}}, nil
	}
	var mergedWith []string
	gw.MergeFn = func(ctx context.Context, bvn string, candidates []string) (bureau.LookupResult, error) {
		mergedWith = candidates
		return bureau.LookupResult{Kind: bureau.Hit, Delinquencies: 0, Sections: []byte(`{}`)}, nil
	}
	uc, _, _, _ := newUsecase(gw)

	ok, err := uc.PassesAllChecks(context.Background(), borrower(), setting.Defaults())
	if err != nil || !ok {
		t.Fatalf("merged clean record: want pass, got ok=%v err=%v", ok, err)
	}
	if len(mergedWith) != 2 {
		t.Fatalf("merge candidates not forwarded: %v", mergedWith)
	}
}

func TestPassesAllChecks_TransportErrorPropagates(t *testing.T) {
	gw := &bureaumock.Gateway{NameValue: bureau.CRC}
	gw.LookupFn = func(ctx context.Context, bvn string) (bureau.LookupResult, error) {
		return bureau.LookupResult{}, bureau.ErrUnavailable
	}
	uc, _, _, _ := newUsecase(gw)

	ok, err := uc.PassesAllChecks(context.Background(), borrower(), setting.Defaults())
	if !errors.Is(err, bureau.ErrUnavailable) {
		t.Fatalf("want ErrUnavailable, got %v", err)
	}
	if ok {
		t.Fatalf("an unreachable bureau must never pass")
	}
}

func TestPassesAllChecks_FreshSnapshotSkipsLookup(t *testing.T) {
	gw := &bureaumock.Gateway{NameValue: bureau.CRC}
	gw.LookupFn = func(ctx context.Context, bvn string) (bureau.LookupResult, error) {
		t.Fatalf("fresh snapshot must not trigger a new pull")
		return bureau.LookupResult{}, nil
	}
	uc, _, reports, _ := newUsecase(gw)
	reports.GetByCustomerFn = func(ctx context.Context, name bureau.Name, customerID uint64) (*bureau.Report, error) {
		return &bureau.Report{Bureau: name, CustomerID: customerID, TotalDelinquencies: 0}, nil
	}

	c := borrower()
	stamp := time.Now().UTC().AddDate(0, 0, -5) // inside the 30-day lookback
	c.CrcLastRequestedAt = &stamp

	ok, err := uc.PassesAllChecks(context.Background(), c, setting.Defaults())
	if err != nil || !ok {
		t.Fatalf("cached clean report: want pass, got ok=%v err=%v", ok, err)
	}
}

func TestPassesAllChecks_StaleSnapshotRefetches(t *testing.T) {
	gw := &bureaumock.Gateway{NameValue: bureau.CRC}
	pulled := false
	gw.LookupFn = func(ctx context.Context, bvn string) (bureau.LookupResult, error) {
		pulled = true
		return bureau.LookupResult{Kind: bureau.NoHit}, nil
	}
	uc, _, _, _ := newUsecase(gw)

	c := borrower()
	stamp := time.Now().UTC().AddDate(0, 0, -40) // beyond the 30-day lookback
	c.CrcLastRequestedAt = &stamp

	if _, err := uc.PassesAllChecks(context.Background(), c, setting.Defaults()); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !pulled {
		t.Fatalf("stale snapshot must trigger a fresh pull")
	}
}

func TestPassesAllChecks_FirstFailureShortCircuits(t *testing.T) {
	crc := &bureaumock.Gateway{NameValue: bureau.CRC}
	crc.LookupFn = func(ctx context.Context, bvn string) (bureau.LookupResult, error) {
		return bureau.LookupResult{Kind: bureau.Hit, Delinquencies: 3, Sections: []byte(`{}`)}, nil
	}
	fc := &bureaumock.Gateway{NameValue: bureau.FirstCentral}
	fc.LookupFn = func(ctx context.Context, bvn string) (bureau.LookupResult, error) {
		t.Fatalf("second bureau must not run after the first fails")
		return bureau.LookupResult{}, nil
	}

	customers := &customermock.Repo{}
	reports := &bureaumock.Repo{}
	u := uowmock.New(uow.Repos{Customers: customers, Bureau: reports})
	uc := NewUsecase(&customermock.WhitelistRepo{}, reports, u, crc, fc)

	ok, err := uc.PassesAllChecks(context.Background(), borrower(), setting.Defaults())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if ok {
		t.Fatalf("want fail from first bureau")
	}
}

func TestEvaluate_ScoreGate(t *testing.T) {
	eff := setting.Defaults()
	eff.UseCreditScoreCheck = true
	eff.MinimumBureauScore = 300

	low := 250
	if evaluate(0, &low, eff) {
		t.Fatalf("score below minimum must fail")
	}
	high := 700
	if !evaluate(0, &high, eff) {
		t.Fatalf("clean record above minimum must pass")
	}
	// Score check disabled: only delinquencies matter.
	eff.UseCreditScoreCheck = false
	if !evaluate(0, &low, eff) {
		t.Fatalf("disabled score check must ignore the score")
	}
}
