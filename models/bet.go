package models

// Bet is a stake placed against a quoted coefficient on a predicted event.
// Settlement mutates IsWon exactly once, from nil to a terminal value; a bet
// is never deleted.
type Bet struct {
	ID           ID[Bet]        `db:"id" json:"id"`
	SimulationID ID[Simulation] `db:"simulation_id" json:"simulation_id"`
	Amount       Amount         `db:"amount" json:"amount"`
	Coefficient  Coefficient    `db:"coefficient" json:"coefficient"`
	GameID       ID[Game]       `db:"game_id" json:"game_id"`
	Event        Event          `db:"-" json:"event"`

	// IsWon is the tri-state settlement flag: nil while unsettled.
	IsWon *bool `db:"is_won" json:"is_won,omitempty"`
}

// Settled reports whether the bet has already been reconciled.
func (b Bet) Settled() bool {
	return b.IsWon != nil
}

// Payout is what settlement credits back: stake times coefficient on a win,
// nothing on a loss.
func (b Bet) Payout(won bool) Amount {
	if !won {
		return 0
	}
	return b.Amount.MulCoefficient(b.Coefficient)
}
