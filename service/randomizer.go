package service

import (
	"math"
	"math/rand"

	"rombet/models"
)

// processRand delegates to the process-wide runtime-seeded source, which is
// safe for concurrent use.
type processRand struct{}

func (processRand) Float64() float64                   { return rand.Float64() }
func (processRand) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }

// ProcessRand returns the production random source.
func ProcessRand() Rand {
	return processRand{}
}

// randomizer draws match outcomes and scorelines from form-derived
// distributions. It is pure apart from the injected random source.
type randomizer struct {
	rand         Rand
	deviationMin float64
	deviationMax float64
}

func newRandomizer(r Rand, deviationMin, deviationMax float64) *randomizer {
	return &randomizer{rand: r, deviationMin: deviationMin, deviationMax: deviationMax}
}

// uniform draws from [lo, hi].
func (r *randomizer) uniform(lo, hi float64) float64 {
	return lo + r.rand.Float64()*(hi-lo)
}

// deviation draws a fresh multiplicative noise factor.
func (r *randomizer) deviation() float64 {
	return r.uniform(r.deviationMin, r.deviationMax)
}

// weightedChoice draws an index proportionally to the weights: draw from
// [0, sum], walk the weights subtracting as you go, return the first index
// whose weight exceeds the remaining draw. Floating error that leaves the
// draw unconsumed falls through to the last index.
func (r *randomizer) weightedChoice(weights []float64) int {
	var sum float64
	for _, w := range weights {
		sum += w
	}
	num := r.uniform(0, sum)
	for i, w := range weights {
		if w > num {
			return i
		}
		num -= w
	}
	return len(weights) - 1
}

// RandomizeWinner draws a 1X2 outcome from the same raw probabilities the
// odds calculator quotes, each scaled by an independent deviation factor so
// identical form does not pin down an identical distribution.
func (r *randomizer) RandomizeWinner(home, guest, h2h models.PastResults, alpha int32, trackedGames uint8) models.Winner {
	probs := winnerProbabilities(home, guest, h2h, alpha, trackedGames)
	weights := []float64{
		probs[0] * r.deviation(),
		probs[1] * r.deviation(),
		probs[2] * r.deviation(),
	}
	switch r.weightedChoice(weights) {
	case 0:
		return models.WinnerHome
	case 1:
		return models.WinnerDraw
	default:
		return models.WinnerGuest
	}
}

// RandomizeTotals draws a scoreline consistent with the chosen winner. Each
// side's count comes from [avg-1, avg+1] rounded ties-to-even; the winning
// side is floored at 1 and the losing side is capped strictly below it, so
// the final score always respects the outcome. A draw shares one count drawn
// from the mean of both sides' averages.
func (r *randomizer) RandomizeTotals(winner models.Winner, homeAvgGoals, guestAvgGoals float64) (uint8, uint8) {
	switch winner {
	case models.WinnerHome:
		home, guest := r.decisiveScore(homeAvgGoals, guestAvgGoals)
		return home, guest
	case models.WinnerGuest:
		guest, home := r.decisiveScore(guestAvgGoals, homeAvgGoals)
		return home, guest
	default:
		avg := (homeAvgGoals + guestAvgGoals) / 2
		goals := uint8(math.RoundToEven(r.uniform(math.Max(avg-1, 0), avg+1)))
		return goals, goals
	}
}

// decisiveScore draws (winner goals, loser goals) for a decisive outcome.
func (r *randomizer) decisiveScore(winnerAvg, loserAvg float64) (uint8, uint8) {
	winnerGoals := math.RoundToEven(r.uniform(math.Max(winnerAvg-1, 1), winnerAvg+1))
	lo := math.Min(math.Max(loserAvg-1, 0), winnerGoals-1)
	hi := math.Min(loserAvg+1, winnerGoals-1)
	loserGoals := math.RoundToEven(r.uniform(lo, hi))
	return uint8(winnerGoals), uint8(loserGoals)
}
