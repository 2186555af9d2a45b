package testutil

import (
	"rombet/models"
)

// CreateTestSimulation creates a test simulation with the default bankroll
func CreateTestSimulation(clientKey string) *models.Simulation {
	return models.NewSimulation(clientKey, models.Amount(10000))
}

// CreateTestSimulationWithBalance creates a test simulation with a specific balance
func CreateTestSimulationWithBalance(clientKey string, balance int64) *models.Simulation {
	simulation := CreateTestSimulation(clientKey)
	simulation.Balance = models.Amount(balance)
	return simulation
}

// CreateTestGame creates a test fixture between the given teams
func CreateTestGame(simulationID models.ID[models.Simulation], homeTeamID, guestTeamID models.ID[models.Team], round uint32) *models.Game {
	return &models.Game{
		ID:           models.NewID[models.Game](),
		SimulationID: simulationID,
		HomeTeamID:   homeTeamID,
		GuestTeamID:  guestTeamID,
		Round:        round,
	}
}

// CreateTestGameStat creates a test result for the given fixture
func CreateTestGameStat(gameID models.ID[models.Game], homeGoals, guestGoals uint8) *models.GameStat {
	return &models.GameStat{
		ID:             models.NewID[models.GameStat](),
		GameID:         gameID,
		HomeTeamTotal:  homeGoals,
		GuestTeamTotal: guestGoals,
	}
}

// CreateTestBet creates an unsettled test bet on the given fixture
func CreateTestBet(simulationID models.ID[models.Simulation], gameID models.ID[models.Game], event models.Event) *models.Bet {
	return &models.Bet{
		ID:           models.NewID[models.Bet](),
		SimulationID: simulationID,
		Amount:       models.Amount(1000),
		Coefficient:  models.Coefficient(250),
		GameID:       gameID,
		Event:        event,
	}
}

// CreateTestBetWithOdds creates an unsettled test bet with specific stake and odds
func CreateTestBetWithOdds(simulationID models.ID[models.Simulation], gameID models.ID[models.Game], event models.Event, amount int64, coefficient int32) *models.Bet {
	bet := CreateTestBet(simulationID, gameID, event)
	bet.Amount = models.Amount(amount)
	bet.Coefficient = models.Coefficient(coefficient)
	return bet
}
