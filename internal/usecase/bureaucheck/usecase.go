package bureaucheck

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"kobolend-backend/internal/domain/bureau"
	"kobolend-backend/internal/domain/customer"
	"kobolend-backend/internal/domain/setting"
	"kobolend-backend/internal/domain/uow"
)

// Usecase evaluates a customer against the external credit bureaus,
// serving cached snapshots while they are fresh and persisting new pulls
// atomically.
type Usecase struct {
	whitelists customer.WhitelistRepository
	reports    bureau.Repository
	uow        uow.UnitOfWork
	gateways   []bureau.Gateway
}

func NewUsecase(whitelists customer.WhitelistRepository, reports bureau.Repository, tx uow.UnitOfWork, gateways ...bureau.Gateway) *Usecase {
	return &Usecase{whitelists: whitelists, reports: reports, uow: tx, gateways: gateways}
}

// PassesAllChecks runs every enabled bureau. The first failing bureau
// short-circuits. Transport errors propagate; they never count as a pass.
func (u *Usecase) PassesAllChecks(ctx context.Context, c *customer.Customer, eff setting.Effective) (bool, error) {
	for _, gw := range u.gateways {
		ok, err := u.passesCheck(ctx, c, eff, gw)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func (u *Usecase) passesCheck(ctx context.Context, c *customer.Customer, eff setting.Effective, gw bureau.Gateway) (bool, error) {
	if !enabled(gw.Name(), eff) {
		return true, nil
	}
	listed, err := u.whitelists.Exists(ctx, c.PhoneNumber)
	if err != nil {
		return false, err
	}
	if listed {
		return true, nil
	}
	if c.BVN == "" {
		// No identity anchor: nothing to check against, so fail.
		return false, nil
	}

	if cached, fresh := u.freshReport(ctx, gw.Name(), c, eff); fresh {
		passed := evaluate(cached.TotalDelinquencies, cached.Score, eff)
		if err := u.reports.UpsertHistory(ctx, gw.Name(), c.ID, time.Now().UTC(), passed); err != nil {
			return false, err
		}
		return passed, nil
	}

	res, err := gw.Lookup(ctx, c.BVN)
	if err != nil {
		return false, err
	}
	if res.Kind == bureau.MergeRequired {
		res, err = gw.Merge(ctx, c.BVN, res.MergeCandidates)
		if err != nil {
			return false, err
		}
	}
	if res.Kind == bureau.NoHit {
		// Unknown to the bureau: nothing held against the customer.
		if err := u.reports.UpsertHistory(ctx, gw.Name(), c.ID, time.Now().UTC(), true); err != nil {
			return false, err
		}
		return true, nil
	}

	passed := evaluate(res.Delinquencies, res.Score, eff)
	if err := u.saveSnapshot(ctx, gw.Name(), c, res, passed); err != nil {
		return false, err
	}
	return passed, nil
}

// saveSnapshot writes the report, the day's history row and the
// customer freshness stamp in one transaction.
func (u *Usecase) saveSnapshot(ctx context.Context, name bureau.Name, c *customer.Customer, res bureau.LookupResult, passed bool) error {
	now := time.Now().UTC()
	return u.uow.WithinTx(ctx, func(r uow.Repos) error {
		rep := &bureau.Report{
			Bureau:             name,
			CustomerID:         c.ID,
			Sections:           res.Sections,
			TotalDelinquencies: res.Delinquencies,
			Score:              res.Score,
			PassesRecentCheck:  yesNo(passed),
		}
		if err := r.Bureau.UpsertReport(ctx, rep); err != nil {
			return err
		}
		if err := r.Bureau.UpsertHistory(ctx, name, c.ID, now, passed); err != nil {
			return err
		}
		switch name {
		case bureau.CRC:
			c.CrcLastRequestedAt = &now
		case bureau.FirstCentral:
			c.FirstCentralLastRequestedAt = &now
		}
		return r.Customers.Save(ctx, c)
	})
}

func (u *Usecase) freshReport(ctx context.Context, name bureau.Name, c *customer.Customer, eff setting.Effective) (*bureau.Report, bool) {
	var stamp *time.Time
	lookback := 0
	switch name {
	case bureau.CRC:
		stamp, lookback = c.CrcLastRequestedAt, eff.CrcLookbackDays
	case bureau.FirstCentral:
		stamp, lookback = c.FirstCentralLastRequestedAt, eff.FirstCentralLookbackDays
	}
	if stamp == nil || !stamp.AddDate(0, 0, lookback).After(time.Now().UTC()) {
		return nil, false
	}
	rep, err := u.reports.GetByCustomer(ctx, name, c.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, bureau.ErrNotFound) {
			return nil, false
		}
		return nil, false
	}
	return rep, true
}

func evaluate(delinquencies int, score *int, eff setting.Effective) bool {
	if eff.UseCreditScoreCheck && score != nil && *score < eff.MinimumBureauScore {
		return false
	}
	return delinquencies <= eff.MaxOutstandingToQualify
}

func enabled(name bureau.Name, eff setting.Effective) bool {
	switch name {
	case bureau.CRC:
		return eff.UseCrcCheck
	case bureau.FirstCentral:
		return eff.UseFirstCentralCheck
	}
	return false
}

func yesNo(b bool) string {
	if b {
		return "YES"
	}
	return "NO"
}
