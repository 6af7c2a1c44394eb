package customer

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("customer not found")

// ListType distinguishes staff-entered list rows from ones the system
// imposed itself after severe lateness.
type ListType string

const (
	ListManually ListType = "MANUALLY"
	ListByCode   ListType = "BY_CODE"
)

type Customer struct {
	ID          uint64 `gorm:"primaryKey;column:id"`
	CustomerID  string `gorm:"size:32;uniqueIndex:ux_customers_customer_id"`
	PhoneNumber string `gorm:"size:20;uniqueIndex:ux_customers_phone"`
	FirstName   string `gorm:"size:100"`
	LastName    string `gorm:"size:100"`
	BVN         string `gorm:"column:bvn;size:11"`
	Address     string `gorm:"type:text"`

	// Cached internal credit score from the most recent offer request.
	CreditScore          *int       `gorm:"column:credit_score"`
	CreditScoreUpdatedAt *time.Time `gorm:"column:credit_score_updated_at"`

	// Bureau snapshot freshness stamps.
	CrcLastRequestedAt          *time.Time `gorm:"column:crc_check_last_requested_at"`
	FirstCentralLastRequestedAt *time.Time `gorm:"column:first_central_check_last_requested_at"`

	// Virtual account assigned by the payment switch, if provisioned.
	VirtualAccountNumber string `gorm:"size:20"`
	VirtualAccountBank   string `gorm:"size:100"`

	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Customer) TableName() string { return "customers" }

// Blacklist suspends borrowing for a phone number. BY_CODE rows carry a
// completed flag set once the penalty window has elapsed.
type Blacklist struct {
	ID          uint64    `gorm:"primaryKey;column:id"`
	PhoneNumber string    `gorm:"size:20;index:idx_blacklists_phone"`
	Type        ListType  `gorm:"size:16"`
	Completed   bool      `gorm:"default:false"`
	Reason      string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (Blacklist) TableName() string { return "blacklists" }

type Whitelist struct {
	ID          uint64    `gorm:"primaryKey;column:id"`
	PhoneNumber string    `gorm:"size:20;index:idx_whitelists_phone"`
	Type        ListType  `gorm:"size:16"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (Whitelist) TableName() string { return "whitelists" }
