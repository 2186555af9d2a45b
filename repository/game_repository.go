package repository

import (
	"context"
	"fmt"

	"rombet/database"
	"rombet/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// GameRepository implements the GameRepository interface
type GameRepository struct {
	q queryable
}

// NewGameRepository creates a new game repository
func NewGameRepository(db *database.DB) *GameRepository {
	return &GameRepository{q: db.Pool}
}

// newGameRepositoryWithTx creates a new game repository with a transaction
func newGameRepositoryWithTx(tx queryable) *GameRepository {
	return &GameRepository{q: tx}
}

// Create persists a new fixture
func (r *GameRepository) Create(ctx context.Context, game *models.Game) error {
	query := `
		INSERT INTO games (id, simulation_id, home_team_id, guest_team_id, round)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.q.Exec(ctx, query,
		game.ID.UUID(),
		game.SimulationID.UUID(),
		game.HomeTeamID.UUID(),
		game.GuestTeamID.UUID(),
		game.Round,
	)
	if err != nil {
		return fmt.Errorf("failed to create game %s: %w", game.ID, err)
	}

	return nil
}

// GetByID retrieves a fixture by its id
func (r *GameRepository) GetByID(ctx context.Context, id models.ID[models.Game]) (*models.Game, error) {
	query := `
		SELECT id, simulation_id, home_team_id, guest_team_id, round
		FROM games
		WHERE id = $1
	`

	game, err := scanGame(r.q.QueryRow(ctx, query, id.UUID()))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game %s: %w", id, err)
	}

	return game, nil
}

// IDsByRound returns the ids of every fixture of the given round.
func (r *GameRepository) IDsByRound(ctx context.Context, round uint32, simulationID models.ID[models.Simulation]) ([]models.ID[models.Game], error) {
	query := `
		SELECT id FROM games
		WHERE round = $1 AND simulation_id = $2
		ORDER BY id
	`

	rows, err := r.q.Query(ctx, query, round, simulationID.UUID())
	if err != nil {
		return nil, fmt.Errorf("failed to get games for round %d: %w", round, err)
	}
	defer rows.Close()

	var ids []models.ID[models.Game]
	for rows.Next() {
		var value uuid.UUID
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("failed to scan game id: %w", err)
		}
		ids = append(ids, models.IDFromUUID[models.Game](value))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read game ids: %w", err)
	}

	return ids, nil
}

// LastIDsByTeam returns the team's most recent fixtures, newest first, each
// tagged with the side the team played on.
func (r *GameRepository) LastIDsByTeam(ctx context.Context, teamID models.ID[models.Team], simulationID models.ID[models.Simulation], limit int) ([]models.TeamGameRef, error) {
	query := `
		SELECT id, home_team_id = $1 AS is_home
		FROM games
		WHERE (home_team_id = $1 OR guest_team_id = $1) AND simulation_id = $2
		ORDER BY round DESC
		LIMIT $3
	`

	return r.queryRefs(ctx, query, teamID.UUID(), simulationID.UUID(), limit)
}

// LastHeadToHeadIDs returns the most recent meetings of the two teams in
// either orientation, tagged with the first team's side.
func (r *GameRepository) LastHeadToHeadIDs(ctx context.Context, homeTeamID, guestTeamID models.ID[models.Team], simulationID models.ID[models.Simulation], limit int) ([]models.TeamGameRef, error) {
	query := `
		SELECT id, home_team_id = $1 AS is_home
		FROM games
		WHERE ((home_team_id = $1 AND guest_team_id = $2) OR (home_team_id = $2 AND guest_team_id = $1))
		  AND simulation_id = $3
		ORDER BY round DESC
		LIMIT $4
	`

	return r.queryRefs(ctx, query, homeTeamID.UUID(), guestTeamID.UUID(), simulationID.UUID(), limit)
}

func (r *GameRepository) queryRefs(ctx context.Context, query string, args ...any) ([]models.TeamGameRef, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get game refs: %w", err)
	}
	defer rows.Close()

	var refs []models.TeamGameRef
	for rows.Next() {
		var (
			value  uuid.UUID
			isHome bool
		)
		if err := rows.Scan(&value, &isHome); err != nil {
			return nil, fmt.Errorf("failed to scan game ref: %w", err)
		}
		refs = append(refs, models.TeamGameRef{GameID: models.IDFromUUID[models.Game](value), IsHome: isHome})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read game refs: %w", err)
	}

	return refs, nil
}

func scanGame(row pgx.Row) (*models.Game, error) {
	var (
		id           uuid.UUID
		simulationID uuid.UUID
		homeTeamID   uuid.UUID
		guestTeamID  uuid.UUID
		game         models.Game
	)
	err := row.Scan(&id, &simulationID, &homeTeamID, &guestTeamID, &game.Round)
	if err != nil {
		return nil, err
	}
	game.ID = models.IDFromUUID[models.Game](id)
	game.SimulationID = models.IDFromUUID[models.Simulation](simulationID)
	game.HomeTeamID = models.IDFromUUID[models.Team](homeTeamID)
	game.GuestTeamID = models.IDFromUUID[models.Team](guestTeamID)
	return &game, nil
}
