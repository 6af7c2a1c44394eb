package offer

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("offer not found")

// Offer is a reusable catalog template. Amounts are kobo.
type Offer struct {
	ID                 uint64          `gorm:"primaryKey;column:id"`
	OfferID            string          `gorm:"size:32;uniqueIndex:ux_offers_offer_id"`
	Amount             int64           `gorm:"not null;index:idx_offers_amount"`
	InterestPct        decimal.Decimal `gorm:"column:interest_pct;type:decimal(6,2)"`
	DefaultInterestPct decimal.Decimal `gorm:"column:default_interest_pct;type:decimal(6,2)"`
	TenureDays         int             `gorm:"not null"`
	// Cycles is how many on-time repayments at this amount a borrower
	// needs before being promoted a tier.
	Cycles     int            `gorm:"default:1"`
	ExpiryDays int            `gorm:"default:7"`
	CreatedAt  time.Time      `gorm:"autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime"`
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func (Offer) TableName() string { return "offers" }

// Fee is a flat kobo charge attached to disbursement.
type Fee struct {
	ID        uint64    `gorm:"primaryKey;column:id"`
	Name      string    `gorm:"size:100"`
	Amount    int64     `gorm:"not null"`
	Active    bool      `gorm:"default:true"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Fee) TableName() string { return "fees" }
