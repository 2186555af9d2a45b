package repository

import (
	"context"
	"fmt"

	"rombet/database"
	"rombet/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// GameStatRepository implements the GameStatRepository interface
type GameStatRepository struct {
	q queryable
}

// NewGameStatRepository creates a new game stat repository
func NewGameStatRepository(db *database.DB) *GameStatRepository {
	return &GameStatRepository{q: db.Pool}
}

// newGameStatRepositoryWithTx creates a new game stat repository with a transaction
func newGameStatRepositoryWithTx(tx queryable) *GameStatRepository {
	return &GameStatRepository{q: tx}
}

// Create persists a fixture's realized scoreline. The unique constraint on
// game_id makes writing a second result for the same fixture a hard error.
func (r *GameStatRepository) Create(ctx context.Context, stat *models.GameStat) error {
	query := `
		INSERT INTO game_stats (id, game_id, home_team_total, guest_team_total)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.q.Exec(ctx, query,
		stat.ID.UUID(),
		stat.GameID.UUID(),
		stat.HomeTeamTotal,
		stat.GuestTeamTotal,
	)
	if err != nil {
		return fmt.Errorf("failed to create game stat for game %s: %w", stat.GameID, err)
	}

	return nil
}

// GetByGameID retrieves the result of a fixture, nil while unresolved.
func (r *GameStatRepository) GetByGameID(ctx context.Context, gameID models.ID[models.Game]) (*models.GameStat, error) {
	query := `
		SELECT id, game_id, home_team_total, guest_team_total
		FROM game_stats
		WHERE game_id = $1
	`

	var (
		id   uuid.UUID
		gid  uuid.UUID
		stat models.GameStat
	)
	err := r.q.QueryRow(ctx, query, gameID.UUID()).Scan(&id, &gid, &stat.HomeTeamTotal, &stat.GuestTeamTotal)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stat for game %s: %w", gameID, err)
	}
	stat.ID = models.IDFromUUID[models.GameStat](id)
	stat.GameID = models.IDFromUUID[models.Game](gid)

	return &stat, nil
}

// WinnerByGameID returns the outcome seen from the given side, nil while the
// fixture is unresolved.
func (r *GameStatRepository) WinnerByGameID(ctx context.Context, gameID models.ID[models.Game], isHome bool) (*models.Winner, error) {
	stat, err := r.GetByGameID(ctx, gameID)
	if err != nil || stat == nil {
		return nil, err
	}
	winner := stat.PerspectiveWinner(isHome)
	return &winner, nil
}

// ScoreByGameID returns the scoreline seen from the given side, nil while
// the fixture is unresolved.
func (r *GameStatRepository) ScoreByGameID(ctx context.Context, gameID models.ID[models.Game], isHome bool) (*models.Score, error) {
	stat, err := r.GetByGameID(ctx, gameID)
	if err != nil || stat == nil {
		return nil, err
	}
	score := stat.Perspective(isHome)
	return &score, nil
}

// GoalsByGameID returns the goals the given side scored, nil while the
// fixture is unresolved.
func (r *GameStatRepository) GoalsByGameID(ctx context.Context, gameID models.ID[models.Game], isHome bool) (*uint8, error) {
	score, err := r.ScoreByGameID(ctx, gameID, isHome)
	if err != nil || score == nil {
		return nil, err
	}
	return &score.For, nil
}
