package loan

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("loan offer not found")
	ErrOfferExpired      = errors.New("offer has expired")
	ErrOfferDeclined     = errors.New("offer was declined")
	ErrOutstandingLoan   = errors.New("customer has an outstanding loan")
	ErrLoanPaidInFull    = errors.New("loan is already paid in full")
	ErrInvalidTransition = errors.New("invalid status for this operation")
)

type Status string

const (
	StatusNone     Status = "NONE"
	StatusPending  Status = "PENDING"
	StatusAccepted Status = "ACCEPTED"
	StatusOpen     Status = "OPEN"
	StatusOverdue  Status = "OVERDUE"
	StatusClosed   Status = "CLOSED"
	StatusDeclined Status = "DECLINED"
	StatusFailed   Status = "FAILED"
)

// Outstanding reports whether the offer still ties up the customer's
// single-active-loan slot.
func (s Status) Outstanding() bool { return s == StatusOpen || s == StatusOverdue }

// LoanOffer is a customer-specific, stateful instance of a catalog offer.
// Amounts are kobo.
type LoanOffer struct {
	ID          uint64          `gorm:"primaryKey;column:id"`
	LoanOfferID string          `gorm:"size:32;uniqueIndex:ux_loan_offers_public_id"`
	CustomerID  uint64          `gorm:"not null;index:idx_loan_offers_customer"`
	OfferID     *uint64         `gorm:"column:offer_id;index"`
	Amount      int64           `gorm:"not null"`
	InterestPct decimal.Decimal `gorm:"column:interest_pct;type:decimal(6,2)"`
	Fees        int64           `gorm:"default:0"`
	TenureDays  int             `gorm:"not null"`
	ExpiryDate  time.Time       `gorm:"not null"`
	Status      Status          `gorm:"size:16;default:'NONE';index:idx_loan_offers_status"`
	ChannelCode string          `gorm:"size:32"`
	IsTest      bool            `gorm:"default:false"`
	CreatedAt   time.Time       `gorm:"autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt  `gorm:"index"`
}

func (LoanOffer) TableName() string { return "loan_offers" }

// Loan is the financial ledger for an accepted offer, exactly one per
// LoanOffer. Never deleted.
type Loan struct {
	ID               uint64 `gorm:"primaryKey;column:id"`
	LoanID           string `gorm:"size:32;uniqueIndex:ux_loans_public_id"`
	LoanOfferID      uint64 `gorm:"not null;uniqueIndex:ux_loans_loan_offer"`
	Amount           int64  `gorm:"not null"`
	AmountPayable    int64  `gorm:"not null"`
	AmountRemaining  int64  `gorm:"not null"`
	Penalty          int64  `gorm:"default:0"`
	PenaltyRemaining int64  `gorm:"default:0"`
	DueDate          time.Time
	DestinationAcct  string    `gorm:"column:destination_account;size:20"`
	DestinationBank  string    `gorm:"column:destination_bank;size:10"`
	Defaults         int       `gorm:"default:0"`
	CreatedAt        time.Time `gorm:"autoCreateTime"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`
}

func (Loan) TableName() string { return "loans" }

// Settled reports whether nothing further is owed.
func (l *Loan) Settled() bool { return l.AmountRemaining <= 0 && l.PenaltyRemaining <= 0 }

// ApplyPayment consumes amount kobo, penalty first, then principal, and
// returns any unconsumed surplus. The remainders never go negative.
func (l *Loan) ApplyPayment(amount int64) int64 {
	if amount <= 0 {
		return 0
	}
	if l.PenaltyRemaining > 0 {
		take := min64(amount, l.PenaltyRemaining)
		l.PenaltyRemaining -= take
		amount -= take
	}
	if amount > 0 && l.AmountRemaining > 0 {
		take := min64(amount, l.AmountRemaining)
		l.AmountRemaining -= take
		amount -= take
	}
	return amount
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

type CaseStatus string

const (
	CaseOpen   CaseStatus = "OPEN"
	CaseClosed CaseStatus = "CLOSED"
)

// CollectionCase tracks collections activity for an overdue loan. It is
// closed automatically when the loan closes.
type CollectionCase struct {
	ID        uint64     `gorm:"primaryKey;column:id"`
	LoanID    uint64     `gorm:"not null;index:idx_collection_cases_loan"`
	Status    CaseStatus `gorm:"size:16;default:'OPEN'"`
	Notes     string     `gorm:"type:text"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
}

func (CollectionCase) TableName() string { return "collection_cases" }
