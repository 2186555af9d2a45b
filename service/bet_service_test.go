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

func coefficient(t *testing.T, value float64) models.Coefficient {
	t.Helper()
	c, err := models.NewCoefficientFromFloat(value)
	require.NoError(t, err)
	return c
}

func TestBetService_MakeBet_DebitsStake(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	simulation := models.NewSimulation("203.0.113.7", amount(t, 100))
	gameID := models.NewID[models.Game]()
	env.simulationRepo.On("GetByID", ctx, simulation.ID).Return(simulation, nil)
	env.simulationRepo.On("Update", ctx, simulation).Return(nil)
	env.betRepo.On("Create", ctx, mock.AnythingOfType("*models.Bet")).Return(nil)

	service := NewBetService(env.factory, testOddsConfig(), amount(t, 100), amount(t, 1))
	bet, err := service.MakeBet(ctx, simulation.ID, gameID, amount(t, 10), models.WinnerEvent(models.WinnerHome), coefficient(t, 2.5))

	require.NoError(t, err)
	require.NotNil(t, bet)
	assert.Equal(t, amount(t, 90), simulation.Balance)
	assert.Equal(t, amount(t, 10), bet.Amount)
	assert.Equal(t, gameID, bet.GameID)
	assert.False(t, bet.Settled())

	require.Len(t, env.uow.Published, 1)
	placed, ok := env.uow.Published[0].(events.BetPlacedEvent)
	require.True(t, ok)
	assert.Equal(t, bet.ID, placed.BetID)
}

func TestBetService_MakeBet_InsufficientFunds(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	simulation := models.NewSimulation("203.0.113.7", amount(t, 5))
	env.simulationRepo.On("GetByID", ctx, simulation.ID).Return(simulation, nil)

	service := NewBetService(env.factory, testOddsConfig(), amount(t, 100), amount(t, 1))
	bet, err := service.MakeBet(ctx, simulation.ID, models.NewID[models.Game](), amount(t, 10), models.WinnerEvent(models.WinnerDraw), coefficient(t, 3.1))

	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Nil(t, bet)
	assert.Equal(t, amount(t, 5), simulation.Balance)
	env.betRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	env.uow.AssertNotCalled(t, "Commit")
}

func TestBetService_MakeBet_BelowMinimumStake(t *testing.T) {
	env := newTestEnv()

	service := NewBetService(env.factory, testOddsConfig(), amount(t, 100), amount(t, 1))
	bet, err := service.MakeBet(context.Background(), models.NewID[models.Simulation](), models.NewID[models.Game](), amount(t, 0.5), models.WinnerEvent(models.WinnerHome), coefficient(t, 2))

	assert.Error(t, err)
	assert.Nil(t, bet)
	env.factory.AssertNotCalled(t, "Create")
}

func TestBetService_MakeBet_UnknownSimulation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	simulationID := models.NewID[models.Simulation]()
	env.simulationRepo.On("GetByID", ctx, simulationID).Return(nil, nil)

	service := NewBetService(env.factory, testOddsConfig(), amount(t, 100), amount(t, 1))
	bet, err := service.MakeBet(ctx, simulationID, models.NewID[models.Game](), amount(t, 10), models.WinnerEvent(models.WinnerHome), coefficient(t, 2))

	assert.ErrorIs(t, err, ErrSimulationNotFound)
	assert.Nil(t, bet)
}

func TestBetService_SettleBets_CreditsWinningsOnce(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	simulation := models.NewSimulation("203.0.113.7", amount(t, 80))
	gameID := models.NewID[models.Game]()
	stat := &models.GameStat{ID: models.NewID[models.GameStat](), GameID: gameID, HomeTeamTotal: 2, GuestTeamTotal: 1}

	winning := &models.Bet{
		ID:           models.NewID[models.Bet](),
		SimulationID: simulation.ID,
		Amount:       amount(t, 10),
		Coefficient:  coefficient(t, 2.5),
		GameID:       gameID,
		Event:        models.WinnerEvent(models.WinnerHome),
	}
	losing := &models.Bet{
		ID:           models.NewID[models.Bet](),
		SimulationID: simulation.ID,
		Amount:       amount(t, 10),
		Coefficient:  coefficient(t, 3.2),
		GameID:       gameID,
		Event:        models.WinnerEvent(models.WinnerDraw),
	}

	env.betRepo.On("Unsettled", ctx, simulation.ID).Return([]*models.Bet{winning, losing}, nil)
	env.gameStatRepo.On("GetByGameID", ctx, gameID).Return(stat, nil)
	env.betRepo.On("UpdateSettlement", ctx, winning.ID, true).Return(nil)
	env.betRepo.On("UpdateSettlement", ctx, losing.ID, false).Return(nil)
	env.simulationRepo.On("GetByID", ctx, simulation.ID).Return(simulation, nil)
	env.simulationRepo.On("Update", ctx, simulation).Return(nil)

	service := NewBetService(env.factory, testOddsConfig(), amount(t, 100), amount(t, 1))
	profit, err := service.SettleBets(ctx, simulation.ID)

	require.NoError(t, err)
	assert.Equal(t, amount(t, 25), profit)
	assert.Equal(t, amount(t, 105), simulation.Balance)
	env.simulationRepo.AssertNumberOfCalls(t, "Update", 1)

	require.Len(t, env.uow.Published, 1)
	settled, ok := env.uow.Published[0].(events.BetsSettledEvent)
	require.True(t, ok)
	assert.Equal(t, 2, settled.Settled)
	assert.Equal(t, amount(t, 25), settled.Profit)
}

func TestBetService_SettleBets_SkipsUnresolvedFixtures(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	simulationID := models.NewID[models.Simulation]()
	gameID := models.NewID[models.Game]()

	pending := &models.Bet{
		ID:           models.NewID[models.Bet](),
		SimulationID: simulationID,
		Amount:       amount(t, 10),
		Coefficient:  coefficient(t, 2),
		GameID:       gameID,
		Event:        models.TotalEvent(2, models.ComparisonGreater),
	}
	env.betRepo.On("Unsettled", ctx, simulationID).Return([]*models.Bet{pending}, nil)
	env.gameStatRepo.On("GetByGameID", ctx, gameID).Return(nil, nil)

	service := NewBetService(env.factory, testOddsConfig(), amount(t, 100), amount(t, 1))
	profit, err := service.SettleBets(ctx, simulationID)

	require.NoError(t, err)
	assert.Equal(t, models.Amount(0), profit)
	env.betRepo.AssertNotCalled(t, "UpdateSettlement", mock.Anything, mock.Anything, mock.Anything)
	env.simulationRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	assert.Empty(t, env.uow.Published)
}

func TestBetService_SettleBets_NothingToSettle(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	simulationID := models.NewID[models.Simulation]()
	env.betRepo.On("Unsettled", ctx, simulationID).Return([]*models.Bet{}, nil)

	service := NewBetService(env.factory, testOddsConfig(), amount(t, 100), amount(t, 1))
	profit, err := service.SettleBets(ctx, simulationID)

	require.NoError(t, err)
	assert.Equal(t, models.Amount(0), profit)
	assert.Empty(t, env.uow.Published)
}

func TestBetService_SettleBets_TotalBets(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	simulation := models.NewSimulation("203.0.113.7", amount(t, 50))
	gameID := models.NewID[models.Game]()
	// Combined goals 4: over 2 wins, exactly 2 loses.
	stat := &models.GameStat{ID: models.NewID[models.GameStat](), GameID: gameID, HomeTeamTotal: 3, GuestTeamTotal: 1}

	over := &models.Bet{
		ID:           models.NewID[models.Bet](),
		SimulationID: simulation.ID,
		Amount:       amount(t, 20),
		Coefficient:  coefficient(t, 1.8),
		GameID:       gameID,
		Event:        models.TotalEvent(2, models.ComparisonGreater),
	}
	exact := &models.Bet{
		ID:           models.NewID[models.Bet](),
		SimulationID: simulation.ID,
		Amount:       amount(t, 20),
		Coefficient:  coefficient(t, 4),
		GameID:       gameID,
		Event:        models.TotalEvent(2, models.ComparisonEqual),
	}

	env.betRepo.On("Unsettled", ctx, simulation.ID).Return([]*models.Bet{over, exact}, nil)
	env.gameStatRepo.On("GetByGameID", ctx, gameID).Return(stat, nil)
	env.betRepo.On("UpdateSettlement", ctx, over.ID, true).Return(nil)
	env.betRepo.On("UpdateSettlement", ctx, exact.ID, false).Return(nil)
	env.simulationRepo.On("GetByID", ctx, simulation.ID).Return(simulation, nil)
	env.simulationRepo.On("Update", ctx, simulation).Return(nil)

	service := NewBetService(env.factory, testOddsConfig(), amount(t, 100), amount(t, 1))
	profit, err := service.SettleBets(ctx, simulation.ID)

	require.NoError(t, err)
	assert.Equal(t, amount(t, 36), profit)
	assert.Equal(t, amount(t, 86), simulation.Balance)
}

func TestBetService_MakeReport(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	simulationID := models.NewID[models.Simulation]()
	minLosing := coefficient(t, 1.45)
	env.betRepo.On("MinLosingCoefficient", ctx, simulationID).Return(&minLosing, nil)

	service := NewBetService(env.factory, testOddsConfig(), amount(t, 100), amount(t, 1))
	report, err := service.MakeReport(ctx, simulationID)

	require.NoError(t, err)
	require.NotNil(t, report)
	assert.Equal(t, amount(t, 100), report.StartBalance)
	require.NotNil(t, report.MinLosingCoefficient)
	assert.Equal(t, minLosing, *report.MinLosingCoefficient)
}

func TestBetService_MakeReport_NoLosingBets(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	simulationID := models.NewID[models.Simulation]()
	env.betRepo.On("MinLosingCoefficient", ctx, simulationID).Return(nil, nil)

	service := NewBetService(env.factory, testOddsConfig(), amount(t, 100), amount(t, 1))
	report, err := service.MakeReport(ctx, simulationID)

	require.NoError(t, err)
	require.NotNil(t, report)
	assert.Nil(t, report.MinLosingCoefficient)
}

func TestBetService_CalculateCoefficients_FullMarket(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	simulation := models.NewSimulation("203.0.113.7", amount(t, 100))
	game := &models.Game{
		ID:           models.NewID[models.Game](),
		SimulationID: simulation.ID,
		HomeTeamID:   models.NewID[models.Team](),
		GuestTeamID:  models.NewID[models.Team](),
		Round:        1,
	}
	env.gameRepo.On("LastIDsByTeam", ctx, game.HomeTeamID, simulation.ID, 25).Return([]models.TeamGameRef{}, nil)
	env.gameRepo.On("LastIDsByTeam", ctx, game.GuestTeamID, simulation.ID, 25).Return([]models.TeamGameRef{}, nil)
	env.gameRepo.On("LastHeadToHeadIDs", ctx, game.HomeTeamID, game.GuestTeamID, simulation.ID, 25).Return([]models.TeamGameRef{}, nil)

	service := NewBetService(env.factory, testOddsConfig(), amount(t, 100), amount(t, 1))
	quotes, err := service.CalculateCoefficients(ctx, game)

	require.NoError(t, err)
	// 1X2 plus a greater/equal/less triple per configured threshold.
	require.Len(t, quotes, 3+3*len(testOddsConfig().Totals))
	for _, quote := range quotes {
		assert.Greater(t, quote.Coefficient.Float(), 1.01)
	}
}
