package loan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"kobolend-backend/internal/domain/customer"
	domain "kobolend-backend/internal/domain/loan"
	"kobolend-backend/internal/domain/setting"
	"kobolend-backend/internal/domain/uow"
	"kobolend-backend/internal/gateway/switchclient"
	"kobolend-backend/pkg/id"
	"kobolend-backend/pkg/money"
)

// ErrCustomerIneligible is a business rejection from the bureau checks,
// distinct from a bureau being unreachable.
var ErrCustomerIneligible = errors.New("customer failed credit bureau checks")

// BureauChecker is the slice of the eligibility machinery acceptance
// needs: a definitive pass/fail, or a transport error.
type BureauChecker interface {
	PassesAllChecks(ctx context.Context, c *customer.Customer, eff setting.Effective) (bool, error)
}

// Usecase owns LoanOffer status transitions and the loan ledger.
type Usecase struct {
	settings setting.Repository
	bureau   BureauChecker
	switchc  switchclient.Client
	loans    domain.Repository
	uow      uow.UnitOfWork
}

func NewUsecase(settings setting.Repository, bureau BureauChecker, switchc switchclient.Client, loans domain.Repository, tx uow.UnitOfWork) *Usecase {
	return &Usecase{settings: settings, bureau: bureau, switchc: switchc, loans: loans, uow: tx}
}

type AcceptInput struct {
	LoanOfferID     string
	DestinationAcct string
	DestinationBank string
}

// Accept moves an offer NONE -> ACCEPTED and creates its ledger row.
// Retried acceptance is idempotent: the ledger upsert is keyed by the
// offer, and an already-ACCEPTED offer resumes instead of duplicating.
func (u *Usecase) Accept(ctx context.Context, in AcceptInput) (*domain.Loan, error) {
	eff, err := u.resolveSettings(ctx)
	if err != nil {
		return nil, err
	}

	var out *domain.Loan
	err = u.uow.WithinLoanOfferTx(ctx, in.LoanOfferID, func(r uow.Repos, lo *domain.LoanOffer) error {
		switch lo.Status {
		case domain.StatusNone, domain.StatusAccepted:
		case domain.StatusDeclined:
			return domain.ErrOfferDeclined
		default:
			return domain.ErrInvalidTransition
		}
		now := time.Now().UTC()
		if lo.ExpiryDate.Before(now) {
			return domain.ErrOfferExpired
		}
		outstanding, err := r.LoanOffers.GetOutstandingByCustomer(ctx, lo.CustomerID)
		if err != nil {
			return err
		}
		if outstanding != nil && outstanding.ID != lo.ID {
			return domain.ErrOutstandingLoan
		}

		c, err := r.Customers.GetByID(ctx, lo.CustomerID)
		if err != nil {
			return err
		}

		ok, err := u.bureau.PassesAllChecks(ctx, c, eff)
		if err != nil {
			// Bureau transport trouble surfaces as service-unavailable at
			// the boundary; it must not silently pass eligibility.
			return err
		}
		if !ok {
			return ErrCustomerIneligible
		}

		payable := money.TotalPayable(lo.Amount, lo.InterestPct, lo.Fees)
		l := &domain.Loan{
			LoanID:          id.NewID32(),
			LoanOfferID:     lo.ID,
			Amount:          lo.Amount,
			AmountPayable:   payable,
			AmountRemaining: payable,
			DueDate:         now.AddDate(0, 0, lo.TenureDays),
			DestinationAcct: in.DestinationAcct,
			DestinationBank: in.DestinationBank,
		}
		l, err = r.Loans.UpsertByLoanOfferID(ctx, l)
		if err != nil {
			return err
		}

		lo.Status = domain.StatusAccepted
		if err := r.LoanOffers.Save(ctx, lo); err != nil {
			return err
		}
		out = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MarkDisbursed moves ACCEPTED -> OPEN after an explicit credit success
// and removes a served-out by-code suspension. Runs inside the caller's
// transaction.
func (u *Usecase) MarkDisbursed(ctx context.Context, r uow.Repos, lo *domain.LoanOffer) error {
	if lo.Status != domain.StatusAccepted {
		return domain.ErrInvalidTransition
	}
	lo.Status = domain.StatusOpen
	if err := r.LoanOffers.Save(ctx, lo); err != nil {
		return err
	}
	c, err := r.Customers.GetByID(ctx, lo.CustomerID)
	if err != nil {
		return err
	}
	return r.Blacklists.DeleteCompletedByCode(ctx, c.PhoneNumber)
}

// ApplyFunds applies a successful collection inside the caller's locked
// transaction: penalty first, then principal; full settlement closes the
// offer and its collection case. The external status sync runs before
// any local write, so a sync failure rolls the whole transition back.
func (u *Usecase) ApplyFunds(ctx context.Context, r uow.Repos, lo *domain.LoanOffer, amount int64) (*domain.Loan, error) {
	if !lo.Status.Outstanding() {
		return nil, domain.ErrInvalidTransition
	}
	l, err := r.Loans.GetByLoanOfferID(ctx, lo.ID)
	if err != nil {
		return nil, err
	}
	if l.Settled() {
		return nil, domain.ErrLoanPaidInFull
	}

	l.ApplyPayment(amount)

	if l.Settled() {
		if err := u.switchc.Status(ctx, string(domain.StatusClosed), lo.LoanOfferID); err != nil {
			return nil, err
		}
		lo.Status = domain.StatusClosed
		if err := r.LoanOffers.Save(ctx, lo); err != nil {
			return nil, err
		}
		if cc, err := r.Cases.GetOpenByLoanID(ctx, l.ID); err != nil {
			return nil, err
		} else if cc != nil {
			cc.Status = domain.CaseClosed
			if err := r.Cases.Save(ctx, cc); err != nil {
				return nil, err
			}
		}
	}
	if err := r.Loans.Save(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// SweepOverdue marks OPEN loans past their due date OVERDUE, applies the
// one-time default penalty, and opens a collection case per loan. Safe
// to re-run: offers no longer OPEN are skipped.
func (u *Usecase) SweepOverdue(ctx context.Context) error {
	eff, err := u.resolveSettings(ctx)
	if err != nil {
		return err
	}
	due, err := u.loans.ListOpenPastDue(ctx, time.Now().UTC())
	if err != nil {
		return err
	}
	for i := range due {
		l := due[i]
		err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
			lo, err := r.LoanOffers.GetByID(ctx, l.LoanOfferID)
			if err != nil {
				return err
			}
			if lo.Status != domain.StatusOpen {
				return nil
			}
			if err := u.switchc.Status(ctx, string(domain.StatusOverdue), lo.LoanOfferID); err != nil {
				return err
			}
			lo.Status = domain.StatusOverdue
			if err := r.LoanOffers.Save(ctx, lo); err != nil {
				return err
			}
			penalty := money.Percentage(l.AmountPayable, eff.DefaultPenaltyPct)
			l.Penalty += penalty
			l.PenaltyRemaining += penalty
			l.Defaults++
			if err := r.Loans.Save(ctx, &l); err != nil {
				return err
			}
			if cc, err := r.Cases.GetOpenByLoanID(ctx, l.ID); err != nil {
				return err
			} else if cc == nil {
				return r.Cases.Create(ctx, &domain.CollectionCase{LoanID: l.ID, Status: domain.CaseOpen})
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("sweep loan %s: %w", l.LoanID, err)
		}
	}
	return nil
}

func (u *Usecase) resolveSettings(ctx context.Context) (setting.Effective, error) {
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
