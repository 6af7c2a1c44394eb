package eligibility

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"kobolend-backend/internal/domain/customer"
	"kobolend-backend/internal/domain/loan"
	"kobolend-backend/internal/domain/offer"
	"kobolend-backend/internal/domain/setting"
	"kobolend-backend/internal/domain/uow"
	"kobolend-backend/internal/gateway/switchclient"
	"kobolend-backend/pkg/id"
)

var (
	ErrNoOffer     = errors.New("no qualifying offer")
	ErrBlacklisted = errors.New("customer is blacklisted")
)

type Usecase struct {
	customers  customer.Repository
	blacklists customer.BlacklistRepository
	whitelists customer.WhitelistRepository
	offers     offer.Repository
	fees       offer.FeeRepository
	loanOffers loan.OfferRepository
	loans      loan.Repository
	settings   setting.Repository
	switchc    switchclient.Client
	uow        uow.UnitOfWork
}

func NewUsecase(
	customers customer.Repository,
	blacklists customer.BlacklistRepository,
	whitelists customer.WhitelistRepository,
	offers offer.Repository,
	fees offer.FeeRepository,
	loanOffers loan.OfferRepository,
	loans loan.Repository,
	settings setting.Repository,
	switchc switchclient.Client,
	tx uow.UnitOfWork,
) *Usecase {
	return &Usecase{
		customers: customers, blacklists: blacklists, whitelists: whitelists,
		offers: offers, fees: fees, loanOffers: loanOffers, loans: loans,
		settings: settings, switchc: switchc, uow: tx,
	}
}

type GetOffersInput struct {
	Phone           string
	RequestedAmount int64 // 0 = no cap requested
	ChannelCode     string
}

// ResolveSettings merges the persisted settings record over the static
// defaults. Called once per invocation; the result is passed around
// explicitly.
func (u *Usecase) ResolveSettings(ctx context.Context) (setting.Effective, error) {
	rec, err := u.settings.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, setting.ErrNotFound) {
			rec = nil
		} else {
			return setting.Effective{}, err
		}
	}
	return setting.Resolve(setting.Defaults(), rec)
}

// GetOffers runs the decision funnel and persists the qualifying catalog
// offers as fresh LoanOffer rows in status NONE.
func (u *Usecase) GetOffers(ctx context.Context, in GetOffersInput) ([]*loan.LoanOffer, error) {
	eff, err := u.ResolveSettings(ctx)
	if err != nil {
		return nil, err
	}
	if !eff.ShouldGiveLoans {
		return nil, ErrNoOffer
	}

	c, err := u.customers.UpsertByPhone(ctx, in.Phone)
	if err != nil {
		return nil, err
	}

	if b, err := u.blacklists.GetActive(ctx, c.PhoneNumber, customer.ListManually); err != nil {
		return nil, err
	} else if b != nil {
		return nil, ErrBlacklisted
	}

	whitelisted, err := u.whitelists.Exists(ctx, c.PhoneNumber)
	if err != nil {
		return nil, err
	}
	// Identity anchor: even with bureau checks disabled the system needs
	// either a whitelisting or a BVN to lend against.
	if !whitelisted && c.BVN == "" {
		return nil, ErrNoOffer
	}

	score, err := u.fetchCreditScore(ctx, c.PhoneNumber)
	if err != nil {
		return nil, err
	}
	firstTimeAmount, ok := eff.FirstTimeAmount(score)
	if !ok {
		return nil, ErrNoOffer
	}
	if cap, capped := eff.ChannelCaps[in.ChannelCode]; capped && cap < firstTimeAmount {
		firstTimeAmount = cap
	}

	today := time.Now().UTC()
	lentToday, err := u.loanOffers.SumAmountsUpdatedToday(ctx, today, loan.StatusOpen, loan.StatusClosed)
	if err != nil {
		return nil, err
	}
	permissible := eff.DailyAggregateCap - lentToday
	if permissible <= 0 {
		return nil, ErrNoOffer
	}

	if outstanding, err := u.loanOffers.GetOutstandingByCustomer(ctx, c.ID); err != nil {
		return nil, err
	} else if outstanding != nil {
		return nil, loan.ErrOutstandingLoan
	}

	hasPrior, err := u.loanOffers.HasAnyWithStatus(ctx, c.ID, loan.StatusOpen, loan.StatusClosed, loan.StatusOverdue)
	if err != nil {
		return nil, err
	}

	var ceiling int64
	if !hasPrior {
		ceiling = minInt64(permissible, firstTimeAmount)
	} else {
		ceiling, err = u.repeatBorrowerCeiling(ctx, c, eff, firstTimeAmount)
		if err != nil {
			return nil, err
		}
		ceiling = minInt64(ceiling, permissible)
	}
	if in.RequestedAmount > 0 {
		ceiling = minInt64(ceiling, in.RequestedAmount)
	}

	catalog, err := u.offers.ListUpToAmount(ctx, ceiling)
	if err != nil {
		return nil, err
	}
	if len(catalog) == 0 {
		return nil, ErrNoOffer
	}

	feeTotal, err := u.activeFeeTotal(ctx)
	if err != nil {
		return nil, err
	}

	loanOffers := make([]*loan.LoanOffer, 0, len(catalog))
	now := time.Now().UTC()
	for i := range catalog {
		o := catalog[i]
		loanOffers = append(loanOffers, &loan.LoanOffer{
			LoanOfferID: id.NewID32(),
			CustomerID:  c.ID,
			OfferID:     &o.ID,
			Amount:      o.Amount,
			InterestPct: o.InterestPct,
			Fees:        feeTotal,
			TenureDays:  o.TenureDays,
			ExpiryDate:  now.AddDate(0, 0, o.ExpiryDays),
			Status:      loan.StatusNone,
			ChannelCode: in.ChannelCode,
		})
	}

	// One transaction: the new offer rows plus the cached score upsert.
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.LoanOffers.CreateBatch(ctx, loanOffers); err != nil {
			return err
		}
		c.CreditScore = &score
		c.CreditScoreUpdatedAt = &now
		return r.Customers.Save(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	return loanOffers, nil
}

// repeatBorrowerCeiling applies the blacklist-by-code, demotion, cycle
// and promotion rules to the most recent closed loan.
func (u *Usecase) repeatBorrowerCeiling(ctx context.Context, c *customer.Customer, eff setting.Effective, firstTimeAmount int64) (int64, error) {
	recent, err := u.loanOffers.MostRecentClosed(ctx, c.ID)
	if err != nil {
		return 0, err
	}
	if recent == nil {
		// Prior OPEN/OVERDUE history but nothing closed yet.
		return firstTimeAmount, nil
	}
	ledger, err := u.loans.GetByLoanOfferID(ctx, recent.ID)
	if err != nil {
		return 0, err
	}
	dueDate := ledger.DueDate
	settledAt := recent.UpdatedAt

	// Severe lateness: suspension by code.
	if startOfDay(settledAt).After(dueDate.AddDate(0, 0, eff.MaximumDaysForDemotion)) {
		return u.byCodeBlacklist(ctx, c, eff, firstTimeAmount)
	}

	// Demotion window: settled late, but not severely.
	if settledAt.After(dueDate.AddDate(0, 0, eff.MinimumDaysForDemotion)) &&
		!settledAt.After(dueDate.AddDate(0, 0, eff.MaximumDaysForDemotion)) {
		return firstTimeAmount, nil
	}

	return u.cycleOrPromote(ctx, c, eff, recent, dueDate, settledAt, firstTimeAmount)
}

// byCodeBlacklist creates or advances the system-imposed suspension.
// A served-out suspension falls through to first-time offers.
func (u *Usecase) byCodeBlacklist(ctx context.Context, c *customer.Customer, eff setting.Effective, firstTimeAmount int64) (int64, error) {
	b, err := u.blacklists.GetNewest(ctx, c.PhoneNumber, customer.ListByCode)
	if err != nil {
		return 0, err
	}
	if b == nil {
		if err := u.blacklists.Create(ctx, &customer.Blacklist{
			PhoneNumber: c.PhoneNumber,
			Type:        customer.ListByCode,
			Reason:      "loan settled beyond the demotion window",
		}); err != nil {
			return 0, err
		}
		return 0, ErrBlacklisted
	}
	if b.Completed {
		// Suspension already served; the completed row stays until the
		// next disbursement clears it.
		return firstTimeAmount, nil
	}
	if b.UpdatedAt.AddDate(0, 0, eff.BlacklistPenaltyDays).After(time.Now().UTC()) {
		return 0, ErrBlacklisted
	}
	b.Completed = true
	if err := u.blacklists.Save(ctx, b); err != nil {
		return 0, err
	}
	return firstTimeAmount, nil
}

func (u *Usecase) cycleOrPromote(ctx context.Context, c *customer.Customer, eff setting.Effective, recent *loan.LoanOffer, dueDate, settledAt time.Time, firstTimeAmount int64) (int64, error) {
	lateDays := int(settledAt.Sub(dueDate).Hours() / 24)

	repeatTier := lateDays >= eff.RepeatLateMinDays && lateDays <= eff.RepeatLateMaxDays
	if !repeatTier {
		since := time.Now().UTC().AddDate(0, 0, -eff.TrailingWindowDays)
		n, err := u.loanOffers.CountClosedSince(ctx, c.ID, since)
		if err != nil {
			return 0, err
		}
		repeatTier = n > eff.TrailingWindowMaxLoans
	}

	matching, err := u.offers.GetByAmount(ctx, recent.Amount)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && !errors.Is(err, offer.ErrNotFound) {
		return 0, err
	}

	if matching != nil && !repeatTier {
		// Cycle counting: the borrower must complete the catalog offer's
		// cycles of timely repayments at this amount before promotion.
		done, err := u.loanOffers.CountTimelyRepaymentsAtAmount(ctx, c.ID, recent.Amount, eff.TimelyRepaymentMaxDays)
		if err != nil {
			return 0, err
		}
		repeatTier = done < matching.Cycles
	}

	if repeatTier {
		return maxInt64(recent.Amount, firstTimeAmount), nil
	}

	// Promote: one catalog tier up. When the matching row was deleted the
	// cycle test above was skipped and the directional search decides.
	next, err := u.offers.NextAbove(ctx, recent.Amount)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && !errors.Is(err, offer.ErrNotFound) {
		return 0, err
	}
	if next == nil && matching == nil {
		// Deleted tier with nothing above it in the catalog: land on the
		// nearest real tier below instead.
		next, err = u.offers.NextBelow(ctx, recent.Amount)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && !errors.Is(err, offer.ErrNotFound) {
			return 0, err
		}
		if next != nil {
			return maxInt64(next.Amount, firstTimeAmount), nil
		}
	}
	var nextAmount int64
	if next != nil {
		nextAmount = next.Amount
	}
	return maxInt64(nextAmount, maxInt64(recent.Amount, firstTimeAmount)), nil
}

func (u *Usecase) fetchCreditScore(ctx context.Context, phone string) (int, error) {
	resp, err := u.switchc.CreditScore(ctx, phone)
	if err != nil {
		return 0, err
	}
	if len(resp.CreditScores) == 0 {
		return 0, ErrNoOffer
	}
	return resp.CreditScores[0].Score, nil
}

func (u *Usecase) activeFeeTotal(ctx context.Context) (int64, error) {
	fees, err := u.fees.ListActive(ctx)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, f := range fees {
		total += f.Amount
	}
	return total, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
