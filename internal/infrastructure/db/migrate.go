package db

import (
	"gorm.io/gorm"

	"kobolend-backend/internal/domain/bureau"
	"kobolend-backend/internal/domain/customer"
	"kobolend-backend/internal/domain/loan"
	"kobolend-backend/internal/domain/offer"
	"kobolend-backend/internal/domain/setting"
	"kobolend-backend/internal/domain/transaction"
)

// AutoMigrate keeps the schema in step with the entity structs.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&customer.Customer{},
		&customer.Blacklist{},
		&customer.Whitelist{},
		&offer.Offer{},
		&offer.Fee{},
		&loan.LoanOffer{},
		&loan.Loan{},
		&loan.CollectionCase{},
		&transaction.Transaction{},
		&bureau.Report{},
		&bureau.History{},
		&setting.Setting{},
	)
}
