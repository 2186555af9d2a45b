package models

// pointsPerWin is the standard 3-point football scoring.
const pointsPerWin = 3

// PastResults accumulates a team's win/draw/loss tallies over its tracked
// window of historical fixtures.
type PastResults struct {
	Wins   uint32
	Draws  uint32
	Losses uint32
}

// AddResult folds one realized outcome into the tally.
func (p *PastResults) AddResult(winner Winner) {
	switch winner {
	case WinnerHome:
		p.Wins++
	case WinnerDraw:
		p.Draws++
	case WinnerGuest:
		p.Losses++
	}
}

// PtsDiff is the points differential 3*(wins - losses).
func (p PastResults) PtsDiff() int32 {
	return pointsPerWin * (int32(p.Wins) - int32(p.Losses))
}
