package calculator

import "github.com/shopspring/decimal"

// centPlaces is the number of decimal places money is kept at.
const centPlaces = 2

var (
	hundred = decimal.NewFromInt(100)
	oneCent = decimal.New(1, -centPlaces)
)

// RoundCents rounds an amount to whole cents, half away from zero.
func RoundCents(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(centPlaces)
}

// Money parses a wire amount into a decimal rounded to cents.
// The float is read at its shortest decimal representation, so 0.1 stays 0.1.
func Money(amount float64) decimal.Decimal {
	return RoundCents(decimal.NewFromFloat(amount))
}
