package loan

import (
	"time"

	domain "kobolend-backend/internal/domain/loan"
)

// LoanDTO is the outward shape of an accepted loan.
type LoanDTO struct {
	LoanID           string    `json:"loan_id"`
	LoanOfferID      string    `json:"loan_offer_id"`
	Amount           int64     `json:"amount"`
	AmountPayable    int64     `json:"amount_payable"`
	AmountRemaining  int64     `json:"amount_remaining"`
	Penalty          int64     `json:"penalty"`
	PenaltyRemaining int64     `json:"penalty_remaining"`
	DueDate          time.Time `json:"due_date"`
	Status           string    `json:"status"`
}

// ToDTO flattens a ledger row and its offer for transport.
func ToDTO(l *domain.Loan, lo *domain.LoanOffer) LoanDTO {
	return LoanDTO{
		LoanID:           l.LoanID,
		LoanOfferID:      lo.LoanOfferID,
		Amount:           l.Amount,
		AmountPayable:    l.AmountPayable,
		AmountRemaining:  l.AmountRemaining,
		Penalty:          l.Penalty,
		PenaltyRemaining: l.PenaltyRemaining,
		DueDate:          l.DueDate,
		Status:           string(lo.Status),
	}
}
