package service

import (
	"context"

	"rombet/events"
	"rombet/models"

	"github.com/stretchr/testify/mock"
)

// MockTeamRepository is a mock implementation of TeamRepository
type MockTeamRepository struct {
	mock.Mock
}

func (m *MockTeamRepository) AllTeamIDs(ctx context.Context) ([]models.ID[models.Team], error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ID[models.Team]), args.Error(1)
}

func (m *MockTeamRepository) GetByID(ctx context.Context, id models.ID[models.Team]) (*models.Team, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Team), args.Error(1)
}

// MockGameRepository is a mock implementation of GameRepository
type MockGameRepository struct {
	mock.Mock
}

func (m *MockGameRepository) Create(ctx context.Context, game *models.Game) error {
	args := m.Called(ctx, game)
	return args.Error(0)
}

func (m *MockGameRepository) GetByID(ctx context.Context, id models.ID[models.Game]) (*models.Game, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Game), args.Error(1)
}

func (m *MockGameRepository) IDsByRound(ctx context.Context, round uint32, simulationID models.ID[models.Simulation]) ([]models.ID[models.Game], error) {
	args := m.Called(ctx, round, simulationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ID[models.Game]), args.Error(1)
}

func (m *MockGameRepository) LastIDsByTeam(ctx context.Context, teamID models.ID[models.Team], simulationID models.ID[models.Simulation], limit int) ([]models.TeamGameRef, error) {
	args := m.Called(ctx, teamID, simulationID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TeamGameRef), args.Error(1)
}

func (m *MockGameRepository) LastHeadToHeadIDs(ctx context.Context, homeTeamID, guestTeamID models.ID[models.Team], simulationID models.ID[models.Simulation], limit int) ([]models.TeamGameRef, error) {
	args := m.Called(ctx, homeTeamID, guestTeamID, simulationID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TeamGameRef), args.Error(1)
}

// MockGameStatRepository is a mock implementation of GameStatRepository
type MockGameStatRepository struct {
	mock.Mock
}

func (m *MockGameStatRepository) Create(ctx context.Context, stat *models.GameStat) error {
	args := m.Called(ctx, stat)
	return args.Error(0)
}

func (m *MockGameStatRepository) GetByGameID(ctx context.Context, gameID models.ID[models.Game]) (*models.GameStat, error) {
	args := m.Called(ctx, gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GameStat), args.Error(1)
}

func (m *MockGameStatRepository) WinnerByGameID(ctx context.Context, gameID models.ID[models.Game], isHome bool) (*models.Winner, error) {
	args := m.Called(ctx, gameID, isHome)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Winner), args.Error(1)
}

func (m *MockGameStatRepository) ScoreByGameID(ctx context.Context, gameID models.ID[models.Game], isHome bool) (*models.Score, error) {
	args := m.Called(ctx, gameID, isHome)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Score), args.Error(1)
}

func (m *MockGameStatRepository) GoalsByGameID(ctx context.Context, gameID models.ID[models.Game], isHome bool) (*uint8, error) {
	args := m.Called(ctx, gameID, isHome)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*uint8), args.Error(1)
}

// MockBetRepository is a mock implementation of BetRepository
type MockBetRepository struct {
	mock.Mock
}

func (m *MockBetRepository) Create(ctx context.Context, bet *models.Bet) error {
	args := m.Called(ctx, bet)
	return args.Error(0)
}

func (m *MockBetRepository) Unsettled(ctx context.Context, simulationID models.ID[models.Simulation]) ([]*models.Bet, error) {
	args := m.Called(ctx, simulationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Bet), args.Error(1)
}

func (m *MockBetRepository) UpdateSettlement(ctx context.Context, betID models.ID[models.Bet], won bool) error {
	args := m.Called(ctx, betID, won)
	return args.Error(0)
}

func (m *MockBetRepository) MinLosingCoefficient(ctx context.Context, simulationID models.ID[models.Simulation]) (*models.Coefficient, error) {
	args := m.Called(ctx, simulationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Coefficient), args.Error(1)
}

// MockSimulationRepository is a mock implementation of SimulationRepository
type MockSimulationRepository struct {
	mock.Mock
}

func (m *MockSimulationRepository) GetByClientKey(ctx context.Context, clientKey string) (*models.Simulation, error) {
	args := m.Called(ctx, clientKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Simulation), args.Error(1)
}

func (m *MockSimulationRepository) GetByID(ctx context.Context, id models.ID[models.Simulation]) (*models.Simulation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Simulation), args.Error(1)
}

func (m *MockSimulationRepository) Create(ctx context.Context, simulation *models.Simulation) error {
	args := m.Called(ctx, simulation)
	return args.Error(0)
}

func (m *MockSimulationRepository) Update(ctx context.Context, simulation *models.Simulation) error {
	args := m.Called(ctx, simulation)
	return args.Error(0)
}

func (m *MockSimulationRepository) Delete(ctx context.Context, id models.ID[models.Simulation]) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockUnitOfWork is a mock implementation of UnitOfWork. Repositories are
// injected with SetRepositories; published events are collected for
// inspection rather than mocked.
type MockUnitOfWork struct {
	mock.Mock
	teamRepo       TeamRepository
	gameRepo       GameRepository
	gameStatRepo   GameStatRepository
	betRepo        BetRepository
	simulationRepo SimulationRepository
	Published      []events.Event
}

func (m *MockUnitOfWork) SetRepositories(teamRepo TeamRepository, gameRepo GameRepository, gameStatRepo GameStatRepository, betRepo BetRepository, simulationRepo SimulationRepository) {
	m.teamRepo = teamRepo
	m.gameRepo = gameRepo
	m.gameStatRepo = gameStatRepo
	m.betRepo = betRepo
	m.simulationRepo = simulationRepo
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) TeamRepository() TeamRepository             { return m.teamRepo }
func (m *MockUnitOfWork) GameRepository() GameRepository             { return m.gameRepo }
func (m *MockUnitOfWork) GameStatRepository() GameStatRepository     { return m.gameStatRepo }
func (m *MockUnitOfWork) BetRepository() BetRepository               { return m.betRepo }
func (m *MockUnitOfWork) SimulationRepository() SimulationRepository { return m.simulationRepo }

func (m *MockUnitOfWork) Publish(event events.Event) {
	m.Published = append(m.Published, event)
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
