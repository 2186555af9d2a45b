package service

import (
	"context"
	"fmt"

	"rombet/events"
	"rombet/models"

	log "github.com/sirupsen/logrus"
)

type gameService struct {
	uowFactory UnitOfWorkFactory
	config     OddsConfig
	randomizer *randomizer
}

// NewGameService creates a new fixture randomization service
func NewGameService(uowFactory UnitOfWorkFactory, rand Rand, config OddsConfig) GameService {
	return &gameService{
		uowFactory: uowFactory,
		config:     config,
		randomizer: newRandomizer(rand, config.DeviationMin, config.DeviationMax),
	}
}

func (s *gameService) RandomizeRound(ctx context.Context, simulation *models.Simulation) ([]*FixtureView, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	if err := s.checkRoundNotRandomized(ctx, uow, simulation); err != nil {
		return nil, err
	}

	gameIDs, err := uow.GameRepository().IDsByRound(ctx, simulation.Round, simulation.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get games for round %d: %w", simulation.Round, err)
	}

	views := make([]*FixtureView, 0, len(gameIDs))
	for _, gameID := range gameIDs {
		game, err := uow.GameRepository().GetByID(ctx, gameID)
		if err != nil {
			return nil, fmt.Errorf("failed to get game %s: %w", gameID, err)
		}
		stat, err := s.randomizeGame(ctx, uow, game)
		if err != nil {
			return nil, err
		}
		view, err := fixtureView(ctx, uow, game, stat)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}

	uow.Publish(events.RoundRandomizedEvent{
		SimulationID: simulation.ID,
		Round:        simulation.Round,
		Fixtures:     len(views),
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"simulationID": simulation.ID,
		"round":        simulation.Round,
		"fixtures":     len(views),
	}).Info("Round randomized")

	return views, nil
}

func (s *gameService) RandomizeGame(ctx context.Context, game *models.Game) (*models.GameStat, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	stat, err := s.randomizeGame(ctx, uow, game)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return stat, nil
}

// randomizeGame resolves one fixture within an open transaction: draw the
// winner from form, draw a scoreline consistent with it, persist the stat.
func (s *gameService) randomizeGame(ctx context.Context, uow UnitOfWork, game *models.Game) (*models.GameStat, error) {
	winner, err := s.randomizeWinner(ctx, uow, game)
	if err != nil {
		return nil, err
	}
	homeGoals, guestGoals, err := s.randomizeTotals(ctx, uow, game, winner)
	if err != nil {
		return nil, err
	}

	stat := &models.GameStat{
		ID:             models.NewID[models.GameStat](),
		GameID:         game.ID,
		HomeTeamTotal:  homeGoals,
		GuestTeamTotal: guestGoals,
	}
	if err := uow.GameStatRepository().Create(ctx, stat); err != nil {
		return nil, fmt.Errorf("failed to create game stat: %w", err)
	}

	log.WithFields(log.Fields{
		"gameID":     game.ID,
		"homeGoals":  homeGoals,
		"guestGoals": guestGoals,
	}).Debug("Game randomized")

	return stat, nil
}

// checkRoundNotRandomized is the inverted twin of the round-creation guard:
// randomization requires that no fixture of the current round has a result.
func (s *gameService) checkRoundNotRandomized(ctx context.Context, uow UnitOfWork, simulation *models.Simulation) error {
	gameIDs, err := uow.GameRepository().IDsByRound(ctx, simulation.Round, simulation.ID)
	if err != nil {
		return fmt.Errorf("failed to get games for round %d: %w", simulation.Round, err)
	}
	for _, gameID := range gameIDs {
		stat, err := uow.GameStatRepository().GetByGameID(ctx, gameID)
		if err != nil {
			return fmt.Errorf("failed to get stat for game %s: %w", gameID, err)
		}
		if stat != nil {
			return ErrRoundAlreadyRandomized
		}
	}
	return nil
}

func (s *gameService) randomizeWinner(ctx context.Context, uow UnitOfWork, game *models.Game) (models.Winner, error) {
	homeResults, err := pastResultsByTeam(ctx, uow, game.HomeTeamID, game.SimulationID, s.config.TrackedGames)
	if err != nil {
		return "", err
	}
	guestResults, err := pastResultsByTeam(ctx, uow, game.GuestTeamID, game.SimulationID, s.config.TrackedGames)
	if err != nil {
		return "", err
	}
	h2hResults, err := headToHeadResults(ctx, uow, game, s.config.TrackedGames)
	if err != nil {
		return "", err
	}

	return s.randomizer.RandomizeWinner(homeResults, guestResults, h2hResults, s.config.Alpha, s.config.TrackedGames), nil
}

func (s *gameService) randomizeTotals(ctx context.Context, uow UnitOfWork, game *models.Game, winner models.Winner) (uint8, uint8, error) {
	h2hHomeAvg, h2hGuestAvg, err := headToHeadAvgGoals(ctx, uow, game, s.config.TrackedGames)
	if err != nil {
		return 0, 0, err
	}
	homeAvg, err := avgGoalsByTeam(ctx, uow, game.HomeTeamID, game.SimulationID, s.config.TrackedGames)
	if err != nil {
		return 0, 0, err
	}
	guestAvg, err := avgGoalsByTeam(ctx, uow, game.GuestTeamID, game.SimulationID, s.config.TrackedGames)
	if err != nil {
		return 0, 0, err
	}

	homeGoals, guestGoals := s.randomizer.RandomizeTotals(winner, homeAvg+h2hHomeAvg, guestAvg+h2hGuestAvg)
	return homeGoals, guestGoals, nil
}
