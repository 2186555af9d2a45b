package models

// Simulation is one client's betting session: its round counter and
// bankroll. One simulation exists per originating client key; restart
// removes and recreates it.
type Simulation struct {
	ID        ID[Simulation] `db:"id" json:"id"`
	ClientKey string         `db:"client_key" json:"-"`
	Round     uint32         `db:"round" json:"round"`
	Balance   Amount         `db:"balance" json:"balance"`
}

// NewSimulation starts a session at round zero with the configured bankroll.
func NewSimulation(clientKey string, balance Amount) *Simulation {
	return &Simulation{
		ID:        NewID[Simulation](),
		ClientKey: clientKey,
		Round:     0,
		Balance:   balance,
	}
}

// IncrementRound advances the round counter after fixtures are created.
func (s *Simulation) IncrementRound() {
	s.Round++
}
