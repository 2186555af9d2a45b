package models

// BetStatistics is the session report: the bankroll the client started with
// and the cheapest coefficient it has lost a bet at (nil until a loss).
type BetStatistics struct {
	StartBalance         Amount       `json:"start_balance"`
	MinLosingCoefficient *Coefficient `json:"min_losing_coefficient,omitempty"`
}
