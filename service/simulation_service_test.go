package service

import (
	"context"
	"testing"

	"rombet/events"
	"rombet/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// testEnv bundles a mocked unit of work with its repositories, wired the way
// the services see them.
type testEnv struct {
	factory        *MockUnitOfWorkFactory
	uow            *MockUnitOfWork
	teamRepo       *MockTeamRepository
	gameRepo       *MockGameRepository
	gameStatRepo   *MockGameStatRepository
	betRepo        *MockBetRepository
	simulationRepo *MockSimulationRepository
}

func newTestEnv() *testEnv {
	env := &testEnv{
		factory:        &MockUnitOfWorkFactory{},
		uow:            &MockUnitOfWork{},
		teamRepo:       &MockTeamRepository{},
		gameRepo:       &MockGameRepository{},
		gameStatRepo:   &MockGameStatRepository{},
		betRepo:        &MockBetRepository{},
		simulationRepo: &MockSimulationRepository{},
	}
	env.uow.SetRepositories(env.teamRepo, env.gameRepo, env.gameStatRepo, env.betRepo, env.simulationRepo)
	env.factory.On("Create").Return(env.uow)
	env.uow.On("Begin", mock.Anything).Return(nil)
	env.uow.On("Commit").Return(nil)
	env.uow.On("Rollback").Return(nil)
	return env
}

func amount(t *testing.T, value float64) models.Amount {
	t.Helper()
	a, err := models.NewAmountFromFloat(value, &models.MinBalanceAmount)
	require.NoError(t, err)
	return a
}

func TestSimulationService_Start_ReturnsExisting(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	existing := models.NewSimulation("203.0.113.7", amount(t, 100))
	existing.Round = 3
	env.simulationRepo.On("GetByClientKey", ctx, "203.0.113.7").Return(existing, nil)

	service := NewSimulationService(env.factory, testRand(1), amount(t, 100))
	simulation, err := service.Start(ctx, "203.0.113.7")

	require.NoError(t, err)
	assert.Equal(t, existing, simulation)
	env.simulationRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assert.Empty(t, env.uow.Published)
}

func TestSimulationService_Start_CreatesNew(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	env.simulationRepo.On("GetByClientKey", ctx, "203.0.113.7").Return(nil, nil)
	env.simulationRepo.On("Create", ctx, mock.AnythingOfType("*models.Simulation")).Return(nil)

	service := NewSimulationService(env.factory, testRand(1), amount(t, 100))
	simulation, err := service.Start(ctx, "203.0.113.7")

	require.NoError(t, err)
	require.NotNil(t, simulation)
	assert.Equal(t, "203.0.113.7", simulation.ClientKey)
	assert.Equal(t, uint32(0), simulation.Round)
	assert.Equal(t, amount(t, 100), simulation.Balance)
	assert.False(t, simulation.ID.IsZero())

	require.Len(t, env.uow.Published, 1)
	started, ok := env.uow.Published[0].(events.SimulationStartedEvent)
	require.True(t, ok)
	assert.Equal(t, simulation.ID, started.SimulationID)
}

func TestSimulationService_Get(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	existing := models.NewSimulation("203.0.113.7", amount(t, 100))
	env.simulationRepo.On("GetByClientKey", ctx, "203.0.113.7").Return(existing, nil)
	env.simulationRepo.On("GetByClientKey", ctx, "203.0.113.8").Return(nil, nil)

	service := NewSimulationService(env.factory, testRand(1), amount(t, 100))

	simulation, err := service.Get(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.Equal(t, existing, simulation)

	_, err = service.Get(ctx, "203.0.113.8")
	assert.ErrorIs(t, err, ErrSimulationNotFound)
}

func TestSimulationService_Restart_DeletesAndRecreates(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	existing := models.NewSimulation("203.0.113.7", amount(t, 100))
	existing.Round = 5
	env.simulationRepo.On("GetByClientKey", ctx, "203.0.113.7").Return(existing, nil).Once()
	env.simulationRepo.On("GetByClientKey", ctx, "203.0.113.7").Return(nil, nil).Once()
	env.simulationRepo.On("Delete", ctx, existing.ID).Return(nil)
	env.simulationRepo.On("Create", ctx, mock.AnythingOfType("*models.Simulation")).Return(nil)

	service := NewSimulationService(env.factory, testRand(1), amount(t, 100))
	simulation, err := service.Restart(ctx, "203.0.113.7")

	require.NoError(t, err)
	require.NotNil(t, simulation)
	assert.NotEqual(t, existing.ID, simulation.ID)
	assert.Equal(t, uint32(0), simulation.Round)
	env.simulationRepo.AssertCalled(t, "Delete", ctx, existing.ID)
}

func TestSimulationService_CreateRound_PairsEveryTeamOnce(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	simulation := models.NewSimulation("203.0.113.7", amount(t, 100))

	teamIDs := make([]models.ID[models.Team], 4)
	for i := range teamIDs {
		teamIDs[i] = models.NewID[models.Team]()
		env.teamRepo.On("GetByID", ctx, teamIDs[i]).Return(&models.Team{ID: teamIDs[i]}, nil)
	}
	env.gameRepo.On("IDsByRound", ctx, uint32(0), simulation.ID).Return([]models.ID[models.Game]{}, nil)
	env.teamRepo.On("AllTeamIDs", ctx).Return(teamIDs, nil)
	env.gameRepo.On("Create", ctx, mock.AnythingOfType("*models.Game")).Return(nil)
	env.simulationRepo.On("Update", ctx, simulation).Return(nil)

	service := NewSimulationService(env.factory, testRand(3), amount(t, 100))
	fixtures, err := service.CreateRound(ctx, simulation)

	require.NoError(t, err)
	require.Len(t, fixtures, 2)
	assert.Equal(t, uint32(1), simulation.Round)

	seen := map[models.ID[models.Team]]int{}
	for _, fixture := range fixtures {
		assert.Equal(t, uint32(1), fixture.Game.Round)
		assert.Equal(t, simulation.ID, fixture.Game.SimulationID)
		assert.NotEqual(t, fixture.Game.HomeTeamID, fixture.Game.GuestTeamID)
		assert.Nil(t, fixture.Stat)
		seen[fixture.Game.HomeTeamID]++
		seen[fixture.Game.GuestTeamID]++
	}
	assert.Len(t, seen, 4)
	for _, count := range seen {
		assert.Equal(t, 1, count)
	}

	require.Len(t, env.uow.Published, 1)
	created, ok := env.uow.Published[0].(events.RoundCreatedEvent)
	require.True(t, ok)
	assert.Equal(t, uint32(1), created.Round)
	assert.Equal(t, 2, created.Fixtures)
}

func TestSimulationService_CreateRound_BlockedByUnresolvedFixture(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	simulation := models.NewSimulation("203.0.113.7", amount(t, 100))
	simulation.Round = 2

	gameID := models.NewID[models.Game]()
	env.gameRepo.On("IDsByRound", ctx, uint32(2), simulation.ID).Return([]models.ID[models.Game]{gameID}, nil)
	env.gameStatRepo.On("GetByGameID", ctx, gameID).Return(nil, nil)

	service := NewSimulationService(env.factory, testRand(1), amount(t, 100))
	fixtures, err := service.CreateRound(ctx, simulation)

	assert.ErrorIs(t, err, ErrRoundNotResolved)
	assert.Nil(t, fixtures)
	assert.Equal(t, uint32(2), simulation.Round)
	env.gameRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	env.uow.AssertNotCalled(t, "Commit")
}

func TestSimulationService_CreateRound_ProceedsWhenRoundResolved(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	simulation := models.NewSimulation("203.0.113.7", amount(t, 100))
	simulation.Round = 1

	resolvedID := models.NewID[models.Game]()
	stat := &models.GameStat{ID: models.NewID[models.GameStat](), GameID: resolvedID, HomeTeamTotal: 2, GuestTeamTotal: 1}
	env.gameRepo.On("IDsByRound", ctx, uint32(1), simulation.ID).Return([]models.ID[models.Game]{resolvedID}, nil)
	env.gameStatRepo.On("GetByGameID", ctx, resolvedID).Return(stat, nil)
	env.teamRepo.On("AllTeamIDs", ctx).Return([]models.ID[models.Team]{}, nil)
	env.simulationRepo.On("Update", ctx, simulation).Return(nil)

	service := NewSimulationService(env.factory, testRand(1), amount(t, 100))
	fixtures, err := service.CreateRound(ctx, simulation)

	require.NoError(t, err)
	assert.Empty(t, fixtures)
	assert.Equal(t, uint32(2), simulation.Round)
}
