package service

import (
	"context"
	"fmt"

	"rombet/events"
	"rombet/models"

	log "github.com/sirupsen/logrus"
)

// teamsPerGame: fixtures are pairings, teams consumed two at a time.
const teamsPerGame = 2

type simulationService struct {
	uowFactory      UnitOfWorkFactory
	rand            Rand
	startingBalance models.Amount
}

// NewSimulationService creates a new simulation lifecycle service
func NewSimulationService(uowFactory UnitOfWorkFactory, rand Rand, startingBalance models.Amount) SimulationService {
	return &simulationService{
		uowFactory:      uowFactory,
		rand:            rand,
		startingBalance: startingBalance,
	}
}

func (s *simulationService) Start(ctx context.Context, clientKey string) (*models.Simulation, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	simulation, err := uow.SimulationRepository().GetByClientKey(ctx, clientKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get simulation: %w", err)
	}
	if simulation != nil {
		if err := uow.Commit(); err != nil {
			return nil, fmt.Errorf("failed to commit transaction: %w", err)
		}
		return simulation, nil
	}

	simulation = models.NewSimulation(clientKey, s.startingBalance)
	if err := uow.SimulationRepository().Create(ctx, simulation); err != nil {
		return nil, fmt.Errorf("failed to create simulation: %w", err)
	}

	uow.Publish(events.SimulationStartedEvent{
		SimulationID: simulation.ID,
		ClientKey:    clientKey,
		Balance:      simulation.Balance,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"simulationID": simulation.ID,
		"balance":      simulation.Balance.Float(),
	}).Info("Simulation started")

	return simulation, nil
}

func (s *simulationService) Restart(ctx context.Context, clientKey string) (*models.Simulation, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	existing, err := uow.SimulationRepository().GetByClientKey(ctx, clientKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get simulation: %w", err)
	}
	if existing != nil {
		if err := uow.SimulationRepository().Delete(ctx, existing.ID); err != nil {
			return nil, fmt.Errorf("failed to delete simulation: %w", err)
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return s.Start(ctx, clientKey)
}

func (s *simulationService) Get(ctx context.Context, clientKey string) (*models.Simulation, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // read-only

	simulation, err := uow.SimulationRepository().GetByClientKey(ctx, clientKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get simulation: %w", err)
	}
	if simulation == nil {
		return nil, ErrSimulationNotFound
	}

	return simulation, nil
}

func (s *simulationService) CreateRound(ctx context.Context, simulation *models.Simulation) ([]*FixtureView, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := s.checkLastRoundResolved(ctx, uow, simulation); err != nil {
		return nil, err
	}

	teamIDs, err := uow.TeamRepository().AllTeamIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get teams: %w", err)
	}
	s.rand.Shuffle(len(teamIDs), func(i, j int) {
		teamIDs[i], teamIDs[j] = teamIDs[j], teamIDs[i]
	})

	round := simulation.Round + 1
	fixtures := make([]*FixtureView, 0, len(teamIDs)/teamsPerGame)
	for i := 0; i+teamsPerGame <= len(teamIDs); i += teamsPerGame {
		game := &models.Game{
			ID:           models.NewID[models.Game](),
			SimulationID: simulation.ID,
			HomeTeamID:   teamIDs[i],
			GuestTeamID:  teamIDs[i+1],
			Round:        round,
		}
		if err := uow.GameRepository().Create(ctx, game); err != nil {
			return nil, fmt.Errorf("failed to create game: %w", err)
		}
		view, err := fixtureView(ctx, uow, game, nil)
		if err != nil {
			return nil, err
		}
		fixtures = append(fixtures, view)
	}

	simulation.IncrementRound()
	if err := uow.SimulationRepository().Update(ctx, simulation); err != nil {
		return nil, fmt.Errorf("failed to update simulation: %w", err)
	}

	uow.Publish(events.RoundCreatedEvent{
		SimulationID: simulation.ID,
		Round:        simulation.Round,
		Fixtures:     len(fixtures),
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"simulationID": simulation.ID,
		"round":        simulation.Round,
		"fixtures":     len(fixtures),
	}).Info("Round created")

	return fixtures, nil
}

// checkLastRoundResolved requires every fixture of the current round to have
// a result before the next round may be created. Round zero has no fixtures
// and passes vacuously. The randomization guard in the game service runs the
// same existence check with the opposite expectation; the two call sites are
// deliberately kept separate.
func (s *simulationService) checkLastRoundResolved(ctx context.Context, uow UnitOfWork, simulation *models.Simulation) error {
	gameIDs, err := uow.GameRepository().IDsByRound(ctx, simulation.Round, simulation.ID)
	if err != nil {
		return fmt.Errorf("failed to get games for round %d: %w", simulation.Round, err)
	}
	for _, gameID := range gameIDs {
		stat, err := uow.GameStatRepository().GetByGameID(ctx, gameID)
		if err != nil {
			return fmt.Errorf("failed to get stat for game %s: %w", gameID, err)
		}
		if stat == nil {
			return ErrRoundNotResolved
		}
	}
	return nil
}

// fixtureView joins a fixture with its teams for display.
func fixtureView(ctx context.Context, uow UnitOfWork, game *models.Game, stat *models.GameStat) (*FixtureView, error) {
	homeTeam, err := uow.TeamRepository().GetByID(ctx, game.HomeTeamID)
	if err != nil {
		return nil, fmt.Errorf("failed to get team %s: %w", game.HomeTeamID, err)
	}
	guestTeam, err := uow.TeamRepository().GetByID(ctx, game.GuestTeamID)
	if err != nil {
		return nil, fmt.Errorf("failed to get team %s: %w", game.GuestTeamID, err)
	}
	return &FixtureView{Game: game, HomeTeam: homeTeam, GuestTeam: guestTeam, Stat: stat}, nil
}
