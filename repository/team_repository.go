package repository

import (
	"context"
	"fmt"

	"rombet/database"
	"rombet/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TeamRepository implements the TeamRepository interface
type TeamRepository struct {
	q queryable
}

// NewTeamRepository creates a new team repository
func NewTeamRepository(db *database.DB) *TeamRepository {
	return &TeamRepository{q: db.Pool}
}

// newTeamRepositoryWithTx creates a new team repository with a transaction
func newTeamRepositoryWithTx(tx queryable) *TeamRepository {
	return &TeamRepository{q: tx}
}

// AllTeamIDs returns every team id in a stable order.
func (r *TeamRepository) AllTeamIDs(ctx context.Context) ([]models.ID[models.Team], error) {
	query := `SELECT id FROM teams ORDER BY name`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get team ids: %w", err)
	}
	defer rows.Close()

	var ids []models.ID[models.Team]
	for rows.Next() {
		var value uuid.UUID
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("failed to scan team id: %w", err)
		}
		ids = append(ids, models.IDFromUUID[models.Team](value))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read team ids: %w", err)
	}

	return ids, nil
}

// GetByID retrieves a team by its id
func (r *TeamRepository) GetByID(ctx context.Context, id models.ID[models.Team]) (*models.Team, error) {
	query := `SELECT id, name FROM teams WHERE id = $1`

	var (
		value uuid.UUID
		team  models.Team
	)
	err := r.q.QueryRow(ctx, query, id.UUID()).Scan(&value, &team.Name)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team %s: %w", id, err)
	}
	team.ID = models.IDFromUUID[models.Team](value)

	return &team, nil
}
