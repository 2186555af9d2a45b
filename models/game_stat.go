package models

// GameStat is a fixture's realized scoreline. Its existence is the signal
// that the fixture has been resolved; it is written exactly once.
type GameStat struct {
	ID             ID[GameStat] `db:"id" json:"id"`
	GameID         ID[Game]     `db:"game_id" json:"game_id"`
	HomeTeamTotal  uint8        `db:"home_team_total" json:"home_team_total"`
	GuestTeamTotal uint8        `db:"guest_team_total" json:"guest_team_total"`
}

// Winner derives the 1X2 outcome from the scoreline.
func (s GameStat) Winner() Winner {
	switch {
	case s.HomeTeamTotal > s.GuestTeamTotal:
		return WinnerHome
	case s.HomeTeamTotal < s.GuestTeamTotal:
		return WinnerGuest
	default:
		return WinnerDraw
	}
}

// CombinedGoals is the total-goals figure settlement compares thresholds to.
func (s GameStat) CombinedGoals() uint8 {
	return s.HomeTeamTotal + s.GuestTeamTotal
}

// Score is a scoreline seen from one team's perspective.
type Score struct {
	For     uint8
	Against uint8
}

// Perspective returns the scoreline as seen by the home or guest side.
func (s GameStat) Perspective(isHome bool) Score {
	if isHome {
		return Score{For: s.HomeTeamTotal, Against: s.GuestTeamTotal}
	}
	return Score{For: s.GuestTeamTotal, Against: s.HomeTeamTotal}
}

// PerspectiveWinner returns the 1X2 outcome relative to the given side:
// WinnerHome means "that side won".
func (s GameStat) PerspectiveWinner(isHome bool) Winner {
	if isHome {
		return s.Winner()
	}
	return s.Winner().Mirror()
}
