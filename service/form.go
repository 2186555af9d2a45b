package service

import (
	"context"
	"fmt"

	"rombet/models"
)

// Form aggregation: fold a team's tracked window of past fixtures into the
// aggregates the odds calculator and randomizer consume. Fixtures without a
// result yet contribute nothing; no history is an empty aggregate, never an
// error.

func pastResultsByTeam(ctx context.Context, uow UnitOfWork, teamID models.ID[models.Team], simulationID models.ID[models.Simulation], trackedGames uint8) (models.PastResults, error) {
	refs, err := uow.GameRepository().LastIDsByTeam(ctx, teamID, simulationID, int(trackedGames))
	if err != nil {
		return models.PastResults{}, fmt.Errorf("failed to get games for team %s: %w", teamID, err)
	}
	return resultsFromRefs(ctx, uow, refs)
}

func headToHeadResults(ctx context.Context, uow UnitOfWork, game *models.Game, trackedGames uint8) (models.PastResults, error) {
	refs, err := uow.GameRepository().LastHeadToHeadIDs(ctx, game.HomeTeamID, game.GuestTeamID, game.SimulationID, int(trackedGames))
	if err != nil {
		return models.PastResults{}, fmt.Errorf("failed to get head-to-head games: %w", err)
	}
	return resultsFromRefs(ctx, uow, refs)
}

func resultsFromRefs(ctx context.Context, uow UnitOfWork, refs []models.TeamGameRef) (models.PastResults, error) {
	var results models.PastResults
	for _, ref := range refs {
		winner, err := uow.GameStatRepository().WinnerByGameID(ctx, ref.GameID, ref.IsHome)
		if err != nil {
			return models.PastResults{}, fmt.Errorf("failed to get winner for game %s: %w", ref.GameID, err)
		}
		if winner != nil {
			results.AddResult(*winner)
		}
	}
	return results, nil
}

// avgGoalsByTeam averages the goals a team scored over its tracked window.
// The divisor is the window size, not the number of resolved fixtures, so a
// thin history reads as a low-scoring side.
func avgGoalsByTeam(ctx context.Context, uow UnitOfWork, teamID models.ID[models.Team], simulationID models.ID[models.Simulation], trackedGames uint8) (float64, error) {
	refs, err := uow.GameRepository().LastIDsByTeam(ctx, teamID, simulationID, int(trackedGames))
	if err != nil {
		return 0, fmt.Errorf("failed to get games for team %s: %w", teamID, err)
	}
	var goals uint32
	for _, ref := range refs {
		g, err := uow.GameStatRepository().GoalsByGameID(ctx, ref.GameID, ref.IsHome)
		if err != nil {
			return 0, fmt.Errorf("failed to get goals for game %s: %w", ref.GameID, err)
		}
		if g != nil {
			goals += uint32(*g)
		}
	}
	return float64(goals) / float64(trackedGames), nil
}

// headToHeadAvgGoals averages both sides' goals over their mutual history,
// oriented to the current matchup.
func headToHeadAvgGoals(ctx context.Context, uow UnitOfWork, game *models.Game, trackedGames uint8) (float64, float64, error) {
	refs, err := uow.GameRepository().LastHeadToHeadIDs(ctx, game.HomeTeamID, game.GuestTeamID, game.SimulationID, int(trackedGames))
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get head-to-head games: %w", err)
	}
	var homeGoals, guestGoals uint32
	for _, ref := range refs {
		score, err := uow.GameStatRepository().ScoreByGameID(ctx, ref.GameID, ref.IsHome)
		if err != nil {
			return 0, 0, fmt.Errorf("failed to get score for game %s: %w", ref.GameID, err)
		}
		if score != nil {
			homeGoals += uint32(score.For)
			guestGoals += uint32(score.Against)
		}
	}
	tracked := float64(trackedGames)
	return float64(homeGoals) / tracked, float64(guestGoals) / tracked, nil
}

// pastTotalsForGame pools the combined-goals history of the home side, the
// guest side and their head-to-head record into one tally per threshold.
func pastTotalsForGame(ctx context.Context, uow UnitOfWork, game *models.Game, threshold uint8, trackedGames uint8) (models.PastTotals, error) {
	homeRefs, err := uow.GameRepository().LastIDsByTeam(ctx, game.HomeTeamID, game.SimulationID, int(trackedGames))
	if err != nil {
		return models.PastTotals{}, fmt.Errorf("failed to get games for team %s: %w", game.HomeTeamID, err)
	}
	guestRefs, err := uow.GameRepository().LastIDsByTeam(ctx, game.GuestTeamID, game.SimulationID, int(trackedGames))
	if err != nil {
		return models.PastTotals{}, fmt.Errorf("failed to get games for team %s: %w", game.GuestTeamID, err)
	}
	h2hRefs, err := uow.GameRepository().LastHeadToHeadIDs(ctx, game.HomeTeamID, game.GuestTeamID, game.SimulationID, int(trackedGames))
	if err != nil {
		return models.PastTotals{}, fmt.Errorf("failed to get head-to-head games: %w", err)
	}

	pooled := models.NewPastTotals(threshold)
	for _, refs := range [][]models.TeamGameRef{h2hRefs, homeRefs, guestRefs} {
		totals, err := totalsFromRefs(ctx, uow, refs, threshold)
		if err != nil {
			return models.PastTotals{}, err
		}
		pooled, err = pooled.Sum(totals)
		if err != nil {
			return models.PastTotals{}, err
		}
	}
	return pooled, nil
}

func totalsFromRefs(ctx context.Context, uow UnitOfWork, refs []models.TeamGameRef, threshold uint8) (models.PastTotals, error) {
	totals := models.NewPastTotals(threshold)
	for _, ref := range refs {
		score, err := uow.GameStatRepository().ScoreByGameID(ctx, ref.GameID, ref.IsHome)
		if err != nil {
			return models.PastTotals{}, fmt.Errorf("failed to get score for game %s: %w", ref.GameID, err)
		}
		if score != nil {
			totals.AddTotal(score.For + score.Against)
		}
	}
	return totals, nil
}
