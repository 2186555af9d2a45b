package models

// Game is one scheduled fixture between two teams within one round of one
// simulation. Created once by round creation and never mutated.
type Game struct {
	ID           ID[Game]       `db:"id" json:"id"`
	SimulationID ID[Simulation] `db:"simulation_id" json:"simulation_id"`
	HomeTeamID   ID[Team]       `db:"home_team_id" json:"home_team_id"`
	GuestTeamID  ID[Team]       `db:"guest_team_id" json:"guest_team_id"`
	Round        uint32         `db:"round" json:"round"`
}

// TeamGameRef points at a past fixture from one team's perspective: the
// fixture id plus whether that team played at home.
type TeamGameRef struct {
	GameID ID[Game]
	IsHome bool
}
