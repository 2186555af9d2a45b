package models

import "fmt"

// Margin is the bookmaker's edge (overround). Quoted coefficients imply a
// total probability mass of 1/(1-margin) after normalization.
type Margin float64

// NewMargin validates the [0, 1) range.
func NewMargin(value float64) (Margin, error) {
	if value < 0 || value >= 1 {
		return 0, fmt.Errorf("margin %v is outside [0, 1)", value)
	}
	return Margin(value), nil
}

// Float returns the margin as a plain fraction.
func (m Margin) Float() float64 {
	return float64(m)
}
