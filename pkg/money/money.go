package money

import "github.com/shopspring/decimal"

// All amounts move through the system as int64 kobo (minor units).
// Decimal is only used transiently for percentage math; results are
// truncated back to whole kobo before they touch persistence.

// ToHigherDenomination converts kobo to the display denomination (naira).
// Display only, never persist this form.
func ToHigherDenomination(kobo int64) decimal.Decimal {
	return decimal.NewFromInt(kobo).Div(decimal.NewFromInt(100))
}

// FromHigherDenomination converts a naira figure to kobo, truncating
// anything below one kobo.
func FromHigherDenomination(naira decimal.Decimal) int64 {
	return naira.Mul(decimal.NewFromInt(100)).IntPart()
}

// Percentage returns pct% of amount in kobo, truncated.
func Percentage(amount int64, pct decimal.Decimal) int64 {
	return decimal.NewFromInt(amount).Mul(pct).Div(decimal.NewFromInt(100)).IntPart()
}

// TotalPayable returns principal + interest + the given fee amounts.
// interestPct is a whole-number-or-fraction percentage (e.g. 15, 12.5).
func TotalPayable(principal int64, interestPct decimal.Decimal, fees ...int64) int64 {
	total := principal + Percentage(principal, interestPct)
	for _, f := range fees {
		total += f
	}
	return total
}
