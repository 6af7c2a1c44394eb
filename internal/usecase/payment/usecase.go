package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	domain "kobolend-backend/internal/domain/loan"
	"kobolend-backend/internal/domain/transaction"
	"kobolend-backend/internal/domain/uow"
	"kobolend-backend/internal/gateway/switchclient"
	"kobolend-backend/internal/notify"
	"kobolend-backend/internal/queue"
	loanuc "kobolend-backend/internal/usecase/loan"
)

// SwitchError is an explicit failure response from the payment switch.
// It is final: no retry is scheduled for it.
type SwitchError struct {
	Code    string
	Message string
}

func (e *SwitchError) Error() string {
	return fmt.Sprintf("switch declined: %s %s", e.Code, e.Message)
}

// Ack is the immediate answer for a money movement. Processing means the
// outcome was ambiguous and a background requery will settle it.
type Ack struct {
	TransactionID string          `json:"transaction_id"`
	Processing    bool            `json:"processing"`
	Loan          *loanuc.LoanDTO `json:"loan,omitempty"`
}

// RequeryPayload is the task body for a scheduled transaction requery.
type RequeryPayload struct {
	TransactionID string `json:"transaction_id"`
}

// Usecase drives disbursement, collection, refunds and webhook
// reconciliation against the payment switch.
type Usecase struct {
	switchc   switchclient.Client
	statem    *loanuc.Usecase
	scheduler queue.Scheduler
	notifier  notify.Dispatcher
	uow       uow.UnitOfWork

	loanOffers   domain.OfferRepository
	transactions transaction.Repository

	debitRequeryDelay  time.Duration
	creditRequeryDelay time.Duration
}

func NewUsecase(
	switchc switchclient.Client,
	statem *loanuc.Usecase,
	scheduler queue.Scheduler,
	notifier notify.Dispatcher,
	tx uow.UnitOfWork,
	loanOffers domain.OfferRepository,
	transactions transaction.Repository,
	debitRequeryDelay, creditRequeryDelay time.Duration,
) *Usecase {
	return &Usecase{
		switchc: switchc, statem: statem, scheduler: scheduler, notifier: notifier,
		uow: tx, loanOffers: loanOffers, transactions: transactions,
		debitRequeryDelay: debitRequeryDelay, creditRequeryDelay: creditRequeryDelay,
	}
}

// Credit disburses an accepted loan to the customer.
//
// Outcome classes: explicit success opens the loan; an explicit failure
// code marks the offer FAILED and propagates; no interpretable response
// schedules a requery and acknowledges immediately.
func (u *Usecase) Credit(ctx context.Context, loanOfferID string) (Ack, error) {
	t, phone, amount, err := u.prepare(ctx, loanOfferID, transaction.TypeCredit, 0, nil, func(s domain.Status) bool {
		return s == domain.StatusAccepted
	})
	if err != nil {
		return Ack{}, err
	}

	resp, err := u.switchc.Credit(ctx, phone, loanOfferID, amount, t.TransactionID)
	if err != nil {
		return u.ambiguous(ctx, t, u.creditRequeryDelay, err)
	}
	if !resp.Success() {
		return Ack{}, u.creditFailed(ctx, loanOfferID, t, resp)
	}
	return u.creditSucceeded(ctx, loanOfferID, t, resp, phone)
}

func (u *Usecase) creditSucceeded(ctx context.Context, loanOfferID string, t *transaction.Transaction, resp switchclient.Response, phone string) (Ack, error) {
	var ack Ack
	err := u.uow.WithinLoanOfferTx(ctx, loanOfferID, func(r uow.Repos, lo *domain.LoanOffer) error {
		recordResponse(t, resp)
		if err := r.Transactions.Save(ctx, t); err != nil {
			return err
		}
		if lo.Status == domain.StatusAccepted {
			if err := u.statem.MarkDisbursed(ctx, r, lo); err != nil {
				return err
			}
		}
		ack = Ack{TransactionID: t.TransactionID}
		return nil
	})
	if err != nil {
		return Ack{}, err
	}
	if phone != "" {
		if err := u.notifier.Send(ctx, "Your loan has been disbursed.", phone, loanOfferID); err != nil {
			log.Printf("payment: disbursement sms: %v", err)
		}
	}
	return ack, nil
}

func (u *Usecase) creditFailed(ctx context.Context, loanOfferID string, t *transaction.Transaction, resp switchclient.Response) error {
	err := u.uow.WithinLoanOfferTx(ctx, loanOfferID, func(r uow.Repos, lo *domain.LoanOffer) error {
		recordResponse(t, resp)
		if err := r.Transactions.Save(ctx, t); err != nil {
			return err
		}
		if lo.Status == domain.StatusAccepted {
			lo.Status = domain.StatusFailed
			return r.LoanOffers.Save(ctx, lo)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return &SwitchError{Code: resp.ResponseCode, Message: resp.ResponseMessage}
}

// Debit collects against an open or overdue loan. amount 0 means the
// full outstanding figure. An explicit insufficiency failure carrying a
// deductible amount triggers one secondary take-available-balance debit.
func (u *Usecase) Debit(ctx context.Context, loanOfferID string, amount int64) (Ack, error) {
	t, phone, debitAmount, err := u.prepare(ctx, loanOfferID, transaction.TypeDebit, amount, nil, func(s domain.Status) bool {
		return s.Outstanding()
	})
	if err != nil {
		return Ack{}, err
	}

	resp, err := u.switchc.Debit(ctx, debitAmount, phone, loanOfferID, t.TransactionID, false)
	if err != nil {
		return u.ambiguous(ctx, t, u.debitRequeryDelay, err)
	}
	if resp.Success() {
		return u.collected(ctx, loanOfferID, t, resp.Response, debitAmount, phone)
	}

	// Explicit failure: record it, then try the switch-reported
	// deductible amount if one was offered.
	if err := u.recordFailure(ctx, t, resp.Response); err != nil {
		return Ack{}, err
	}
	if resp.DeductableAmount == nil || *resp.DeductableAmount <= 0 {
		return Ack{}, &SwitchError{Code: resp.ResponseCode, Message: resp.ResponseMessage}
	}
	return u.secondaryDebit(ctx, loanOfferID, phone, *resp.DeductableAmount)
}

func (u *Usecase) secondaryDebit(ctx context.Context, loanOfferID, phone string, amount int64) (Ack, error) {
	t, _, _, err := u.prepare(ctx, loanOfferID, transaction.TypeDebit, amount, nil, func(s domain.Status) bool {
		return s.Outstanding()
	})
	if err != nil {
		return Ack{}, err
	}
	resp, err := u.switchc.Debit(ctx, amount, phone, loanOfferID, t.TransactionID, true)
	if err != nil {
		return u.ambiguous(ctx, t, u.debitRequeryDelay, err)
	}
	if !resp.Success() {
		if err := u.recordFailure(ctx, t, resp.Response); err != nil {
			return Ack{}, err
		}
		return Ack{}, &SwitchError{Code: resp.ResponseCode, Message: resp.ResponseMessage}
	}
	return u.collected(ctx, loanOfferID, t, resp.Response, amount, phone)
}

func (u *Usecase) collected(ctx context.Context, loanOfferID string, t *transaction.Transaction, resp switchclient.Response, amount int64, phone string) (Ack, error) {
	var ack Ack
	err := u.uow.WithinLoanOfferTx(ctx, loanOfferID, func(r uow.Repos, lo *domain.LoanOffer) error {
		recordResponse(t, resp)
		if err := r.Transactions.Save(ctx, t); err != nil {
			return err
		}
		l, err := u.statem.ApplyFunds(ctx, r, lo, amount)
		if err != nil {
			return err
		}
		dto := loanuc.ToDTO(l, lo)
		ack = Ack{TransactionID: t.TransactionID, Loan: &dto}
		return nil
	})
	if err != nil {
		return Ack{}, err
	}
	if phone != "" {
		if err := u.notifier.Send(ctx, "Payment received, thank you.", phone, loanOfferID); err != nil {
			log.Printf("payment: collection sms: %v", err)
		}
	}
	return ack, nil
}

// Refund returns money to the customer. There is no fallback path: an
// explicit failure propagates as a structured failure.
func (u *Usecase) Refund(ctx context.Context, loanOfferID string, amount int64) (Ack, error) {
	t, phone, _, err := u.prepare(ctx, loanOfferID, transaction.TypeRefund, amount, nil, func(s domain.Status) bool {
		return s.Outstanding() || s == domain.StatusClosed
	})
	if err != nil {
		return Ack{}, err
	}
	resp, err := u.switchc.Refund(ctx, amount, phone, loanOfferID, t.TransactionID)
	if err != nil {
		return u.ambiguous(ctx, t, u.creditRequeryDelay, err)
	}
	if !resp.Success() {
		if err := u.recordFailure(ctx, t, resp); err != nil {
			return Ack{}, err
		}
		return Ack{}, &SwitchError{Code: resp.ResponseCode, Message: resp.ResponseMessage}
	}
	recordResponse(t, resp)
	if err := u.transactions.Save(ctx, t); err != nil {
		return Ack{}, err
	}
	return Ack{TransactionID: t.TransactionID}, nil
}

// Notification reconciles a switch payment webhook. At-least-once
// delivery is deduped solely on the external payment reference.
func (u *Usecase) Notification(ctx context.Context, loanOfferID, paymentRef string, amount int64) (Ack, error) {
	exists, err := u.transactions.ExistsByReference(ctx, paymentRef)
	if err != nil {
		return Ack{}, err
	}
	if exists {
		return Ack{}, nil // replay: already applied
	}

	var ack Ack
	err = u.uow.WithinLoanOfferTx(ctx, loanOfferID, func(r uow.Repos, lo *domain.LoanOffer) error {
		// Re-check under the lock; two replays can race past the first
		// read.
		exists, err := r.Transactions.ExistsByReference(ctx, paymentRef)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}
		code := switchclient.CodeSuccess
		t := &transaction.Transaction{
			TransactionID: uuid.NewString(),
			LoanOfferID:   lo.ID,
			Type:          transaction.TypePayment,
			Amount:        amount,
			Reference:     &paymentRef,
			ResponseCode:  &code,
		}
		if err := r.Transactions.Create(ctx, t); err != nil {
			return err
		}
		l, err := u.statem.ApplyFunds(ctx, r, lo, amount)
		if err != nil {
			return err
		}
		dto := loanuc.ToDTO(l, lo)
		ack = Ack{TransactionID: t.TransactionID, Loan: &dto}
		return nil
	})
	if err != nil {
		return Ack{}, err
	}
	return ack, nil
}

// ManualPayment records a staff-entered repayment and applies it like
// any other collection. No switch call is involved.
func (u *Usecase) ManualPayment(ctx context.Context, loanOfferID string, amount int64, userID uint64) (Ack, error) {
	var ack Ack
	err := u.uow.WithinLoanOfferTx(ctx, loanOfferID, func(r uow.Repos, lo *domain.LoanOffer) error {
		code := switchclient.CodeSuccess
		t := &transaction.Transaction{
			TransactionID: uuid.NewString(),
			LoanOfferID:   lo.ID,
			Type:          transaction.TypeManual,
			Amount:        amount,
			ResponseCode:  &code,
			UserID:        &userID,
		}
		if err := r.Transactions.Create(ctx, t); err != nil {
			return err
		}
		l, err := u.statem.ApplyFunds(ctx, r, lo, amount)
		if err != nil {
			return err
		}
		dto := loanuc.ToDTO(l, lo)
		ack = Ack{TransactionID: t.TransactionID, Loan: &dto}
		return nil
	})
	if err != nil {
		return Ack{}, err
	}
	return ack, nil
}

// Requery settles a previously ambiguous transaction. Idempotent: a
// transaction that already resolved is a no-op, so re-delivery of the
// task is harmless.
func (u *Usecase) Requery(ctx context.Context, transactionID string) error {
	t, err := u.transactions.GetByTransactionID(ctx, transactionID)
	if err != nil {
		return err
	}
	if t.Resolved() {
		return nil
	}
	lo, err := u.loanOffers.GetByID(ctx, t.LoanOfferID)
	if err != nil {
		return err
	}

	resp, err := u.switchc.Query(ctx, t.TransactionID)
	if err != nil || resp.ResponseCode == "" {
		// Still ambiguous: keep asking.
		return u.scheduler.Schedule(ctx, queue.TaskRequeryTransaction,
			RequeryPayload{TransactionID: t.TransactionID}, u.delayFor(t.Type))
	}
	if !resp.Success() {
		if err := u.recordFailure(ctx, t, resp.Response); err != nil {
			return err
		}
		if t.Type == transaction.TypeCredit {
			return u.failAcceptedOffer(ctx, lo.LoanOfferID)
		}
		return nil
	}

	switch t.Type {
	case transaction.TypeCredit:
		_, err = u.creditSucceeded(ctx, lo.LoanOfferID, t, resp.Response, "")
	case transaction.TypeDebit, transaction.TypePayment:
		_, err = u.collected(ctx, lo.LoanOfferID, t, resp.Response, t.Amount, "")
	case transaction.TypeRefund:
		recordResponse(t, resp.Response)
		err = u.transactions.Save(ctx, t)
	}
	return err
}

// HandleRequeryTask adapts Requery to the queue handler contract.
func (u *Usecase) HandleRequeryTask(ctx context.Context, payload []byte) error {
	var p RequeryPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return err
	}
	return u.Requery(ctx, p.TransactionID)
}

// prepare locks the offer, checks the status guard and commits the
// pending transaction row before any switch call, so an ambiguous
// outcome always has a row to requery against.
func (u *Usecase) prepare(ctx context.Context, loanOfferID string, typ transaction.Type, amount int64, userID *uint64, statusOK func(domain.Status) bool) (*transaction.Transaction, string, int64, error) {
	var (
		t     *transaction.Transaction
		phone string
	)
	err := u.uow.WithinLoanOfferTx(ctx, loanOfferID, func(r uow.Repos, lo *domain.LoanOffer) error {
		if !statusOK(lo.Status) {
			return domain.ErrInvalidTransition
		}
		c, err := r.Customers.GetByID(ctx, lo.CustomerID)
		if err != nil {
			return err
		}
		phone = c.PhoneNumber

		if amount == 0 {
			switch typ {
			case transaction.TypeCredit:
				amount = lo.Amount
			default:
				l, err := r.Loans.GetByLoanOfferID(ctx, lo.ID)
				if err != nil {
					return err
				}
				if l.Settled() {
					return domain.ErrLoanPaidInFull
				}
				amount = l.AmountRemaining + l.PenaltyRemaining
			}
		}

		t = &transaction.Transaction{
			TransactionID: uuid.NewString(),
			LoanOfferID:   lo.ID,
			Type:          typ,
			Amount:        amount,
			UserID:        userID,
		}
		return r.Transactions.Create(ctx, t)
	})
	if err != nil {
		return nil, "", 0, err
	}
	return t, phone, amount, nil
}

func (u *Usecase) ambiguous(ctx context.Context, t *transaction.Transaction, delay time.Duration, cause error) (Ack, error) {
	log.Printf("payment: ambiguous outcome for %s, scheduling requery in %s: %v", t.TransactionID, delay, cause)
	if err := u.scheduler.Schedule(ctx, queue.TaskRequeryTransaction,
		RequeryPayload{TransactionID: t.TransactionID}, delay); err != nil {
		return Ack{}, err
	}
	return Ack{TransactionID: t.TransactionID, Processing: true}, nil
}

func (u *Usecase) recordFailure(ctx context.Context, t *transaction.Transaction, resp switchclient.Response) error {
	recordResponse(t, resp)
	return u.transactions.Save(ctx, t)
}

func (u *Usecase) failAcceptedOffer(ctx context.Context, loanOfferID string) error {
	return u.uow.WithinLoanOfferTx(ctx, loanOfferID, func(r uow.Repos, lo *domain.LoanOffer) error {
		if lo.Status != domain.StatusAccepted {
			return nil
		}
		lo.Status = domain.StatusFailed
		return r.LoanOffers.Save(ctx, lo)
	})
}

func (u *Usecase) delayFor(typ transaction.Type) time.Duration {
	if typ == transaction.TypeDebit {
		return u.debitRequeryDelay
	}
	return u.creditRequeryDelay
}

func recordResponse(t *transaction.Transaction, resp switchclient.Response) {
	code := resp.ResponseCode
	t.ResponseCode = &code
	t.ResponseMessage = resp.ResponseMessage
	if resp.TransactionRef != "" {
		ref := resp.TransactionRef
		t.Reference = &ref
	}
}
