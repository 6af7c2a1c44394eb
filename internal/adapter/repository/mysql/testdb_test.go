package mysql

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"kobolend-backend/internal/domain/loan"
	"kobolend-backend/internal/infrastructure/db"
	"kobolend-backend/pkg/id"
)

// openTestDB creates an in-memory sqlite DB with the full schema. The
// sqlite driver drops row-locking clauses, so the repositories run
// unchanged against it.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(gdb); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return gdb
}

func makeOffer(customerID uint64, status loan.Status, amount int64) *loan.LoanOffer {
	return &loan.LoanOffer{
		LoanOfferID: id.NewID32(),
		CustomerID:  customerID,
		Amount:      amount,
		InterestPct: decimal.NewFromInt(10),
		Fees:        750,
		TenureDays:  14,
		ExpiryDate:  time.Now().UTC().Add(24 * time.Hour),
		Status:      status,
		ChannelCode: "USSD",
	}
}
