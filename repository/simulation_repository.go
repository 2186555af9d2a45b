package repository

import (
	"context"
	"fmt"

	"rombet/database"
	"rombet/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SimulationRepository implements the SimulationRepository interface
type SimulationRepository struct {
	q queryable
}

// NewSimulationRepository creates a new simulation repository
func NewSimulationRepository(db *database.DB) *SimulationRepository {
	return &SimulationRepository{q: db.Pool}
}

// newSimulationRepositoryWithTx creates a new simulation repository with a transaction
func newSimulationRepositoryWithTx(tx queryable) *SimulationRepository {
	return &SimulationRepository{q: tx}
}

// GetByClientKey retrieves the simulation owned by the given client key.
func (r *SimulationRepository) GetByClientKey(ctx context.Context, clientKey string) (*models.Simulation, error) {
	query := `
		SELECT id, client_key, round, balance
		FROM simulations
		WHERE client_key = $1
	`

	simulation, err := scanSimulation(r.q.QueryRow(ctx, query, clientKey))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get simulation for client key: %w", err)
	}

	return simulation, nil
}

// GetByID retrieves a simulation by its id
func (r *SimulationRepository) GetByID(ctx context.Context, id models.ID[models.Simulation]) (*models.Simulation, error) {
	query := `
		SELECT id, client_key, round, balance
		FROM simulations
		WHERE id = $1
	`

	simulation, err := scanSimulation(r.q.QueryRow(ctx, query, id.UUID()))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get simulation %s: %w", id, err)
	}

	return simulation, nil
}

// Create persists a new simulation
func (r *SimulationRepository) Create(ctx context.Context, simulation *models.Simulation) error {
	query := `
		INSERT INTO simulations (id, client_key, round, balance)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.q.Exec(ctx, query,
		simulation.ID.UUID(),
		simulation.ClientKey,
		simulation.Round,
		simulation.Balance.Pennies(),
	)
	if err != nil {
		return fmt.Errorf("failed to create simulation %s: %w", simulation.ID, err)
	}

	return nil
}

// Update persists the round counter and balance
func (r *SimulationRepository) Update(ctx context.Context, simulation *models.Simulation) error {
	query := `
		UPDATE simulations
		SET round = $2, balance = $3
		WHERE id = $1
	`

	result, err := r.q.Exec(ctx, query, simulation.ID.UUID(), simulation.Round, simulation.Balance.Pennies())
	if err != nil {
		return fmt.Errorf("failed to update simulation %s: %w", simulation.ID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("simulation %s not found", simulation.ID)
	}

	return nil
}

// Delete removes a simulation with everything it owns. Games, stats and
// bets go with it through ON DELETE CASCADE.
func (r *SimulationRepository) Delete(ctx context.Context, id models.ID[models.Simulation]) error {
	query := `DELETE FROM simulations WHERE id = $1`

	result, err := r.q.Exec(ctx, query, id.UUID())
	if err != nil {
		return fmt.Errorf("failed to delete simulation %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("simulation %s not found", id)
	}

	return nil
}

func scanSimulation(row pgx.Row) (*models.Simulation, error) {
	var (
		id         uuid.UUID
		balance    int64
		simulation models.Simulation
	)
	err := row.Scan(&id, &simulation.ClientKey, &simulation.Round, &balance)
	if err != nil {
		return nil, err
	}
	simulation.ID = models.IDFromUUID[models.Simulation](id)
	simulation.Balance = models.Amount(balance)
	return &simulation, nil
}
