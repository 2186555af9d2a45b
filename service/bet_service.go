package service

import (
	"context"
	"fmt"

	"rombet/events"
	"rombet/models"

	log "github.com/sirupsen/logrus"
)

type betService struct {
	uowFactory      UnitOfWorkFactory
	config          OddsConfig
	startingBalance models.Amount
	minStake        models.Amount
}

// NewBetService creates a new betting service
func NewBetService(uowFactory UnitOfWorkFactory, config OddsConfig, startingBalance, minStake models.Amount) BetService {
	return &betService{
		uowFactory:      uowFactory,
		config:          config,
		startingBalance: startingBalance,
		minStake:        minStake,
	}
}

func (s *betService) CalculateCoefficients(ctx context.Context, game *models.Game) ([]MarketQuote, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // read-only

	homeResults, err := pastResultsByTeam(ctx, uow, game.HomeTeamID, game.SimulationID, s.config.TrackedGames)
	if err != nil {
		return nil, err
	}
	guestResults, err := pastResultsByTeam(ctx, uow, game.GuestTeamID, game.SimulationID, s.config.TrackedGames)
	if err != nil {
		return nil, err
	}
	h2hResults, err := headToHeadResults(ctx, uow, game, s.config.TrackedGames)
	if err != nil {
		return nil, err
	}

	quotes, err := winnerCoefficients(homeResults, guestResults, h2hResults, s.config.Alpha, s.config.TrackedGames, s.config.Margin)
	if err != nil {
		return nil, err
	}

	for _, threshold := range s.config.Totals {
		totals, err := pastTotalsForGame(ctx, uow, game, threshold, s.config.TrackedGames)
		if err != nil {
			return nil, err
		}
		totalQuotes, err := totalCoefficients(totals, s.config.Margin)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, totalQuotes...)
	}

	return quotes, nil
}

func (s *betService) MakeBet(ctx context.Context, simulationID models.ID[models.Simulation], gameID models.ID[models.Game], amount models.Amount, event models.Event, coefficient models.Coefficient) (*models.Bet, error) {
	if amount < s.minStake {
		return nil, fmt.Errorf("stake %v is below the minimum of %v", amount.Float(), s.minStake.Float())
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	simulation, err := uow.SimulationRepository().GetByID(ctx, simulationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get simulation: %w", err)
	}
	if simulation == nil {
		return nil, ErrSimulationNotFound
	}

	// Stakes are debited at placement; settlement only ever credits.
	balance, err := simulation.Balance.Add(-amount, &models.MinBalanceAmount)
	if err != nil {
		return nil, fmt.Errorf("%w: have %v, need %v", ErrInsufficientFunds, simulation.Balance.Float(), amount.Float())
	}
	simulation.Balance = balance
	if err := uow.SimulationRepository().Update(ctx, simulation); err != nil {
		return nil, fmt.Errorf("failed to update simulation: %w", err)
	}

	bet := &models.Bet{
		ID:           models.NewID[models.Bet](),
		SimulationID: simulationID,
		Amount:       amount,
		Coefficient:  coefficient,
		GameID:       gameID,
		Event:        event,
	}
	if err := uow.BetRepository().Create(ctx, bet); err != nil {
		return nil, fmt.Errorf("failed to create bet: %w", err)
	}

	uow.Publish(events.BetPlacedEvent{
		SimulationID: simulationID,
		BetID:        bet.ID,
		GameID:       gameID,
		Amount:       amount,
		Coefficient:  coefficient,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"simulationID": simulationID,
		"betID":        bet.ID,
		"amount":       amount.Float(),
		"coefficient":  coefficient.Float(),
		"event":        event.String(),
	}).Info("Bet placed")

	return bet, nil
}

func (s *betService) SettleBets(ctx context.Context, simulationID models.ID[models.Simulation]) (models.Amount, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	bets, err := uow.BetRepository().Unsettled(ctx, simulationID)
	if err != nil {
		return 0, fmt.Errorf("failed to get unsettled bets: %w", err)
	}

	var profit models.Amount
	settled := 0
	for _, bet := range bets {
		stat, err := uow.GameStatRepository().GetByGameID(ctx, bet.GameID)
		if err != nil {
			return 0, fmt.Errorf("failed to get stat for game %s: %w", bet.GameID, err)
		}
		if stat == nil {
			// Fixture not resolved yet; the bet stays unsettled.
			continue
		}

		won, err := bet.Event.Matches(stat.Winner(), stat.CombinedGoals())
		if err != nil {
			return 0, fmt.Errorf("failed to settle bet %s: %w", bet.ID, err)
		}
		if err := uow.BetRepository().UpdateSettlement(ctx, bet.ID, won); err != nil {
			return 0, fmt.Errorf("failed to update bet %s: %w", bet.ID, err)
		}
		profit += bet.Payout(won)
		settled++
	}

	// One balance write per settlement batch, not per bet.
	if settled > 0 && profit > 0 {
		simulation, err := uow.SimulationRepository().GetByID(ctx, simulationID)
		if err != nil {
			return 0, fmt.Errorf("failed to get simulation: %w", err)
		}
		if simulation == nil {
			return 0, ErrSimulationNotFound
		}
		balance, err := simulation.Balance.Add(profit, &models.MinBalanceAmount)
		if err != nil {
			return 0, fmt.Errorf("failed to credit payout: %w", err)
		}
		simulation.Balance = balance
		if err := uow.SimulationRepository().Update(ctx, simulation); err != nil {
			return 0, fmt.Errorf("failed to update simulation: %w", err)
		}
	}

	if settled > 0 {
		uow.Publish(events.BetsSettledEvent{
			SimulationID: simulationID,
			Settled:      settled,
			Profit:       profit,
		})
	}

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	if settled > 0 {
		log.WithFields(log.Fields{
			"simulationID": simulationID,
			"settled":      settled,
			"profit":       profit.Float(),
		}).Info("Bets settled")
	}

	return profit, nil
}

func (s *betService) MakeReport(ctx context.Context, simulationID models.ID[models.Simulation]) (*models.BetStatistics, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // read-only

	minLosing, err := uow.BetRepository().MinLosingCoefficient(ctx, simulationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get minimum losing coefficient: %w", err)
	}

	return &models.BetStatistics{
		StartBalance:         s.startingBalance,
		MinLosingCoefficient: minLosing,
	}, nil
}
