package models

import "fmt"

// Winner is a 1X2 match outcome from the home side's perspective.
type Winner string

const (
	WinnerHome  Winner = "W1"
	WinnerDraw  Winner = "X"
	WinnerGuest Winner = "W2"
)

// Mirror returns the same outcome seen from the other side of the pitch.
func (w Winner) Mirror() Winner {
	switch w {
	case WinnerHome:
		return WinnerGuest
	case WinnerGuest:
		return WinnerHome
	default:
		return WinnerDraw
	}
}

// Comparison relates a realized combined goal count to a bet's threshold.
type Comparison string

const (
	ComparisonGreater Comparison = "greater"
	ComparisonEqual   Comparison = "equal"
	ComparisonLess    Comparison = "less"
)

// EventKind discriminates the two market types.
type EventKind string

const (
	EventKindWinner EventKind = "winner"
	EventKindTotal  EventKind = "total"
)

// Event is the predicted outcome a bet is placed on: either a 1X2 winner or
// a total-goals comparison against a threshold. It is a closed union; code
// switching on Kind is expected to handle exactly these two cases.
type Event struct {
	Kind       EventKind  `json:"kind"`
	Winner     Winner     `json:"winner,omitempty"`
	Threshold  uint8      `json:"threshold,omitempty"`
	Comparison Comparison `json:"comparison,omitempty"`
}

// WinnerEvent builds a 1X2 market event.
func WinnerEvent(w Winner) Event {
	return Event{Kind: EventKindWinner, Winner: w}
}

// TotalEvent builds a total-goals market event.
func TotalEvent(threshold uint8, cmp Comparison) Event {
	return Event{Kind: EventKindTotal, Threshold: threshold, Comparison: cmp}
}

// Matches reports whether the event came true for the realized scoreline.
func (e Event) Matches(winner Winner, combinedGoals uint8) (bool, error) {
	switch e.Kind {
	case EventKindWinner:
		return e.Winner == winner, nil
	case EventKindTotal:
		switch e.Comparison {
		case ComparisonGreater:
			return combinedGoals > e.Threshold, nil
		case ComparisonEqual:
			return combinedGoals == e.Threshold, nil
		case ComparisonLess:
			return combinedGoals < e.Threshold, nil
		default:
			return false, fmt.Errorf("unknown comparison %q", e.Comparison)
		}
	default:
		return false, fmt.Errorf("unknown event kind %q", e.Kind)
	}
}

func (e Event) String() string {
	if e.Kind == EventKindWinner {
		return string(e.Winner)
	}
	return fmt.Sprintf("total %s %d", e.Comparison, e.Threshold)
}
