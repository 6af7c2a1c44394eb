package transaction

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("transaction not found")

type Type string

const (
	TypeDebit   Type = "DEBIT"
	TypeCredit  Type = "CREDIT"
	TypePayment Type = "PAYMENT"
	TypeRefund  Type = "REFUND"
	TypeManual  Type = "MANUAL"
	TypeNone    Type = "NONE"
)

// Transaction is one row per attempted money movement. Append-only; the
// external payment reference is the dedup key for webhook replay.
type Transaction struct {
	ID            uint64 `gorm:"primaryKey;column:id"`
	TransactionID string `gorm:"size:36;uniqueIndex:ux_transactions_public_id"`
	LoanOfferID   uint64 `gorm:"not null;index:idx_transactions_loan_offer"`
	Type          Type   `gorm:"size:16;default:'NONE'"`
	Amount        int64  `gorm:"not null"`
	// Reference is the switch-assigned payment reference. Unique when
	// present; at-least-once webhook delivery dedupes on it.
	Reference       *string   `gorm:"column:payment_reference;size:64;uniqueIndex:ux_transactions_reference"`
	ResponseCode    *string   `gorm:"size:8"`
	ResponseMessage string    `gorm:"type:text"`
	UserID          *uint64   `gorm:"column:user_id"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

func (Transaction) TableName() string { return "transactions" }

// Resolved reports whether the switch gave a definitive answer. An
// unresolved transaction is what the requery job re-checks.
func (t *Transaction) Resolved() bool { return t.ResponseCode != nil }

// Succeeded reports an explicit success response from the switch.
func (t *Transaction) Succeeded() bool { return t.ResponseCode != nil && *t.ResponseCode == "00" }
