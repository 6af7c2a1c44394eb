package bureau

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("bureau report not found")

// Name identifies a credit bureau provider.
type Name string

const (
	CRC          Name = "CRC"
	FirstCentral Name = "FIRST_CENTRAL"
)

// Report is the cached snapshot of a bureau pull for one customer. The
// raw sections are kept as opaque JSON keyed by the bureau's own section
// names; only the derived fields drive decisions.
type Report struct {
	ID                 uint64    `gorm:"primaryKey;column:id"`
	Bureau             Name      `gorm:"size:16;uniqueIndex:ux_bureau_reports_customer,priority:1"`
	CustomerID         uint64    `gorm:"not null;uniqueIndex:ux_bureau_reports_customer,priority:2"`
	Sections           []byte    `gorm:"type:json"`
	TotalDelinquencies int       `gorm:"default:0"`
	Score              *int      `gorm:"column:score"`
	PassesRecentCheck  string    `gorm:"size:3;default:'NO'"` // YES / NO
	CreatedAt          time.Time `gorm:"autoCreateTime"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime"`
}

func (Report) TableName() string { return "bureau_reports" }

// History records one row per calendar day a check was effectively
// evaluated for the customer, whether served from cache or a live pull.
type History struct {
	ID         uint64    `gorm:"primaryKey;column:id"`
	Bureau     Name      `gorm:"size:16;uniqueIndex:ux_bureau_histories_day,priority:1"`
	CustomerID uint64    `gorm:"not null;uniqueIndex:ux_bureau_histories_day,priority:2"`
	CheckDate  time.Time `gorm:"type:date;uniqueIndex:ux_bureau_histories_day,priority:3"`
	Passed     bool      `gorm:"not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (History) TableName() string { return "bureau_histories" }
