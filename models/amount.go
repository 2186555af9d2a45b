package models

import (
	"fmt"
	"math"
)

// pennies per unit of currency
const penny = 100

// Common lower bounds for Amount construction.
var (
	MinBalanceAmount = Amount(0)
)

// Amount is a monetary quantity in minor units (pennies). Construction
// validates an optional lower bound so an invalid amount never enters
// persisted state.
type Amount int64

// NewAmount validates pennies against an optional lower bound.
func NewAmount(pennies int64, floor *Amount) (Amount, error) {
	a := Amount(pennies)
	if floor != nil && a < *floor {
		return 0, fmt.Errorf("amount %d is below the minimum of %d", pennies, int64(*floor))
	}
	return a, nil
}

// NewAmountFromFloat converts a currency value (e.g. user input) to minor
// units, rounding to the nearest penny before validation.
func NewAmountFromFloat(value float64, floor *Amount) (Amount, error) {
	return NewAmount(int64(math.Round(value*penny)), floor)
}

// Float converts back to currency units for presentation.
func (a Amount) Float() float64 {
	return float64(a) / penny
}

// Pennies returns the raw minor-unit value for persistence.
func (a Amount) Pennies() int64 {
	return int64(a)
}

// Add returns the sum validated against the given lower bound. Crediting
// against MinBalanceAmount can never fail; debiting (negative addend) fails
// when the result would undershoot the floor.
func (a Amount) Add(other Amount, floor *Amount) (Amount, error) {
	return NewAmount(int64(a)+int64(other), floor)
}

// MulCoefficient computes a payout: the stake times decimal odds. Both sides
// are fixed-point (pennies × centi-odds), so the product is downscaled with
// round-half-up rather than truncated.
func (a Amount) MulCoefficient(c Coefficient) Amount {
	product := int64(a) * int64(c)
	return Amount((product + centi/2) / centi)
}
