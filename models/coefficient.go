package models

import (
	"fmt"
	"math"
)

// centi-units per whole coefficient point
const centi = 100

// minCoefficient is the smallest payout multiplier a bookmaker would quote
// (1.01, exclusive). Anything at or below it signals a misconfigured
// margin/alpha rather than a valid market.
const minCoefficient = 101

// Coefficient is decimal betting odds stored as a fixed-point ×100 value.
type Coefficient int32

// NewCoefficient validates a raw centi-odds value.
func NewCoefficient(centiOdds int32) (Coefficient, error) {
	if centiOdds <= minCoefficient {
		return 0, fmt.Errorf("coefficient %d is not above the minimum of %d", centiOdds, minCoefficient)
	}
	return Coefficient(centiOdds), nil
}

// NewCoefficientFromFloat converts decimal odds, rounding to the nearest
// centi-point before validation.
func NewCoefficientFromFloat(value float64) (Coefficient, error) {
	return NewCoefficient(int32(math.Round(value * centi)))
}

// Float converts back to decimal odds for presentation.
func (c Coefficient) Float() float64 {
	return float64(c) / centi
}

// Centi returns the raw fixed-point value for persistence.
func (c Coefficient) Centi() int32 {
	return int32(c)
}
