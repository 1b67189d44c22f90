package core

import (
	"github.com/shopspring/decimal"
)

const monetaryPrecision int32 = 4 // 4 decimal places for amounts (0.0001 precision)

// MeetsFloor returns true if the bid amount meets or exceeds the floor price.
// Uses decimal arithmetic with monetaryPrecision to avoid floating-point errors.
func MeetsFloor(amount, floorPrice float64) bool {
	amountDecimal := decimal.NewFromFloat(amount).Round(monetaryPrecision)
	floorDecimal := decimal.NewFromFloat(floorPrice).Round(monetaryPrecision)

	return amountDecimal.GreaterThanOrEqual(floorDecimal)
}

// CompareAmounts compares two monetary amounts at monetaryPrecision.
// Returns -1 if a < b, 0 if they are equal, and +1 if a > b.
func CompareAmounts(a, b float64) int {
	aDecimal := decimal.NewFromFloat(a).Round(monetaryPrecision)
	bDecimal := decimal.NewFromFloat(b).Round(monetaryPrecision)

	return aDecimal.Cmp(bDecimal)
}

// AddAmounts returns a + b computed with decimal arithmetic at monetaryPrecision.
func AddAmounts(a, b float64) float64 {
	result, _ := decimal.NewFromFloat(a).
		Add(decimal.NewFromFloat(b)).
		Round(monetaryPrecision).
		Float64()
	return result
}

// SubAmounts returns a - b computed with decimal arithmetic at monetaryPrecision.
func SubAmounts(a, b float64) float64 {
	result, _ := decimal.NewFromFloat(a).
		Sub(decimal.NewFromFloat(b)).
		Round(monetaryPrecision).
		Float64()
	return result
}
