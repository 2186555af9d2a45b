package repository

import (
	"context"
	"fmt"

	"rombet/database"
	"rombet/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// BetRepository implements the BetRepository interface
type BetRepository struct {
	q queryable
}

// NewBetRepository creates a new bet repository
func NewBetRepository(db *database.DB) *BetRepository {
	return &BetRepository{q: db.Pool}
}

// newBetRepositoryWithTx creates a new bet repository with a transaction
func newBetRepositoryWithTx(tx queryable) *BetRepository {
	return &BetRepository{q: tx}
}

// Create persists a freshly placed bet with is_won unset.
func (r *BetRepository) Create(ctx context.Context, bet *models.Bet) error {
	query := `
		INSERT INTO bets (id, simulation_id, game_id, amount, coefficient, event_kind, event_winner, event_threshold, event_comparison)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.q.Exec(ctx, query,
		bet.ID.UUID(),
		bet.SimulationID.UUID(),
		bet.GameID.UUID(),
		bet.Amount.Pennies(),
		bet.Coefficient.Centi(),
		bet.Event.Kind,
		bet.Event.Winner,
		bet.Event.Threshold,
		bet.Event.Comparison,
	)
	if err != nil {
		return fmt.Errorf("failed to create bet %s: %w", bet.ID, err)
	}

	return nil
}

// Unsettled returns every bet of the simulation that has no outcome yet.
func (r *BetRepository) Unsettled(ctx context.Context, simulationID models.ID[models.Simulation]) ([]*models.Bet, error) {
	query := `
		SELECT id, simulation_id, game_id, amount, coefficient, event_kind, event_winner, event_threshold, event_comparison, is_won
		FROM bets
		WHERE simulation_id = $1 AND is_won IS NULL
		ORDER BY id
	`

	rows, err := r.q.Query(ctx, query, simulationID.UUID())
	if err != nil {
		return nil, fmt.Errorf("failed to get unsettled bets: %w", err)
	}
	defer rows.Close()

	var bets []*models.Bet
	for rows.Next() {
		bet, err := scanBet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bet: %w", err)
		}
		bets = append(bets, bet)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read bets: %w", err)
	}

	return bets, nil
}

// UpdateSettlement records a bet's outcome. The is_won IS NULL predicate
// makes settlement at-most-once at the database level.
func (r *BetRepository) UpdateSettlement(ctx context.Context, betID models.ID[models.Bet], won bool) error {
	query := `
		UPDATE bets
		SET is_won = $2
		WHERE id = $1 AND is_won IS NULL
	`

	result, err := r.q.Exec(ctx, query, betID.UUID(), won)
	if err != nil {
		return fmt.Errorf("failed to update bet %s: %w", betID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("bet %s is missing or already settled", betID)
	}

	return nil
}

// MinLosingCoefficient returns the smallest coefficient among the
// simulation's lost bets, nil when nothing has been lost yet.
func (r *BetRepository) MinLosingCoefficient(ctx context.Context, simulationID models.ID[models.Simulation]) (*models.Coefficient, error) {
	query := `
		SELECT MIN(coefficient)
		FROM bets
		WHERE simulation_id = $1 AND is_won = FALSE
	`

	var centi *int32
	err := r.q.QueryRow(ctx, query, simulationID.UUID()).Scan(&centi)
	if err != nil {
		return nil, fmt.Errorf("failed to get minimum losing coefficient: %w", err)
	}
	if centi == nil {
		return nil, nil
	}

	coefficient, err := models.NewCoefficient(*centi)
	if err != nil {
		return nil, fmt.Errorf("failed to load coefficient: %w", err)
	}
	return &coefficient, nil
}

func scanBet(row pgx.Row) (*models.Bet, error) {
	var (
		id           uuid.UUID
		simulationID uuid.UUID
		gameID       uuid.UUID
		amount       int64
		coefficient  int32
		bet          models.Bet
	)
	err := row.Scan(
		&id,
		&simulationID,
		&gameID,
		&amount,
		&coefficient,
		&bet.Event.Kind,
		&bet.Event.Winner,
		&bet.Event.Threshold,
		&bet.Event.Comparison,
		&bet.IsWon,
	)
	if err != nil {
		return nil, err
	}
	bet.ID = models.IDFromUUID[models.Bet](id)
	bet.SimulationID = models.IDFromUUID[models.Simulation](simulationID)
	bet.GameID = models.IDFromUUID[models.Game](gameID)
	bet.Amount = models.Amount(amount)
	bet.Coefficient = models.Coefficient(coefficient)
	return &bet, nil
}
