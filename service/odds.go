package service

import (
	"fmt"

	"rombet/models"
)

// probEps is the normalization tolerance: weight sets already within this
// distance of 1 are left untouched to avoid needless floating drift.
const probEps = 1e-7

// normalize scales positive weights in place so they sum to 1.
func normalize(probs []float64) {
	var sum float64
	for _, p := range probs {
		sum += p
	}
	if diff := sum - 1; diff > -probEps && diff < probEps {
		return
	}
	for i := range probs {
		probs[i] /= sum
	}
}

// winnerProbabilities computes the raw win/draw/lose probabilities from
// form. The +1 terms are Laplace smoothing so no outcome is ever impossible,
// even with no history; the head-to-head points differential shifts mass
// between win and lose, scaled down by alpha.
func winnerProbabilities(home, guest, h2h models.PastResults, alpha int32, trackedGames uint8) [3]float64 {
	diff := float64(h2h.PtsDiff()) / float64(alpha)
	denom := 2 * float64(uint32(trackedGames)+3)
	win := float64(home.Wins+1+guest.Losses+1)/denom + diff
	draw := float64(home.Draws+1+guest.Draws+1) / denom
	lose := float64(home.Losses+1+guest.Wins+1)/denom - diff
	return [3]float64{win, draw, lose}
}

// quote converts normalized probabilities to margin-adjusted coefficients.
// The overround construction (1-margin)/p guarantees the implied probability
// mass exceeds 1; a coefficient landing below the minimum multiplier is a
// hard failure signalling a misconfigured margin/alpha.
func quote(events []models.Event, probs []float64, margin models.Margin) ([]MarketQuote, error) {
	normalize(probs)
	quotes := make([]MarketQuote, 0, len(probs))
	for i, p := range probs {
		coefficient, err := models.NewCoefficientFromFloat((1 - margin.Float()) / p)
		if err != nil {
			return nil, fmt.Errorf("failed to quote %s: %w", events[i], err)
		}
		quotes = append(quotes, MarketQuote{Event: events[i], Coefficient: coefficient})
	}
	return quotes, nil
}

// winnerCoefficients quotes the 1X2 market for the given form aggregates.
func winnerCoefficients(home, guest, h2h models.PastResults, alpha int32, trackedGames uint8, margin models.Margin) ([]MarketQuote, error) {
	probs := winnerProbabilities(home, guest, h2h, alpha, trackedGames)
	return quote(
		[]models.Event{
			models.WinnerEvent(models.WinnerHome),
			models.WinnerEvent(models.WinnerDraw),
			models.WinnerEvent(models.WinnerGuest),
		},
		probs[:],
		margin,
	)
}

// totalCoefficients quotes the over/equal/under triple for one threshold.
// Raw probabilities use inverse-frequency weighting: the rarer a bucket in
// the pooled history, the higher its raw probability, matching bookmaking
// convention for totals.
func totalCoefficients(totals models.PastTotals, margin models.Margin) ([]MarketQuote, error) {
	n := float64(totals.Size() + 3)
	probs := []float64{
		n / float64(totals.Greater()+1),
		n / float64(totals.Equal()+1),
		n / float64(totals.Less()+1),
	}
	threshold := totals.Threshold()
	return quote(
		[]models.Event{
			models.TotalEvent(threshold, models.ComparisonGreater),
			models.TotalEvent(threshold, models.ComparisonEqual),
			models.TotalEvent(threshold, models.ComparisonLess),
		},
		probs,
		margin,
	)
}
