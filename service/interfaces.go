package service

import (
	"context"

	"rombet/events"
	"rombet/models"
)

// TeamRepository defines the interface for team reference data access
type TeamRepository interface {
	// AllTeamIDs returns the ids of every seeded team
	AllTeamIDs(ctx context.Context) ([]models.ID[models.Team], error)

	// GetByID retrieves a team by its id
	GetByID(ctx context.Context, id models.ID[models.Team]) (*models.Team, error)
}

// GameRepository defines the interface for fixture data access
type GameRepository interface {
	// Create inserts a new fixture
	Create(ctx context.Context, game *models.Game) error

	// GetByID retrieves a fixture by its id
	GetByID(ctx context.Context, id models.ID[models.Game]) (*models.Game, error)

	// IDsByRound returns the fixture ids of one round of one simulation
	IDsByRound(ctx context.Context, round uint32, simulationID models.ID[models.Simulation]) ([]models.ID[models.Game], error)

	// LastIDsByTeam returns a team's most recent fixtures within a
	// simulation, newest first, tagged with the team's home/away side
	LastIDsByTeam(ctx context.Context, teamID models.ID[models.Team], simulationID models.ID[models.Simulation], limit int) ([]models.TeamGameRef, error)

	// LastHeadToHeadIDs returns the most recent fixtures between two teams
	// within a simulation, tagged with the first team's home/away side
	LastHeadToHeadIDs(ctx context.Context, homeTeamID, guestTeamID models.ID[models.Team], simulationID models.ID[models.Simulation], limit int) ([]models.TeamGameRef, error)
}

// GameStatRepository defines the interface for realized-result data access
type GameStatRepository interface {
	// Create inserts a fixture's result; a fixture gets exactly one
	Create(ctx context.Context, stat *models.GameStat) error

	// GetByGameID retrieves the result for a fixture, or nil while the
	// fixture is unresolved
	GetByGameID(ctx context.Context, gameID models.ID[models.Game]) (*models.GameStat, error)

	// WinnerByGameID derives the outcome relative to the given side, or nil
	// while the fixture is unresolved
	WinnerByGameID(ctx context.Context, gameID models.ID[models.Game], isHome bool) (*models.Winner, error)

	// ScoreByGameID derives the scoreline relative to the given side, or nil
	// while the fixture is unresolved
	ScoreByGameID(ctx context.Context, gameID models.ID[models.Game], isHome bool) (*models.Score, error)

	// GoalsByGameID derives the goals scored by the given side, or nil while
	// the fixture is unresolved
	GoalsByGameID(ctx context.Context, gameID models.ID[models.Game], isHome bool) (*uint8, error)
}

// BetRepository defines the interface for bet data access
type BetRepository interface {
	// Create inserts a new bet record
	Create(ctx context.Context, bet *models.Bet) error

	// Unsettled returns every bet of a simulation that has not been settled
	Unsettled(ctx context.Context, simulationID models.ID[models.Simulation]) ([]*models.Bet, error)

	// UpdateSettlement flips a bet's settlement flag; called at most once
	// per bet
	UpdateSettlement(ctx context.Context, betID models.ID[models.Bet], won bool) error

	// MinLosingCoefficient returns the cheapest coefficient the simulation
	// has lost a bet at, or nil if nothing has been lost yet
	MinLosingCoefficient(ctx context.Context, simulationID models.ID[models.Simulation]) (*models.Coefficient, error)
}

// SimulationRepository defines the interface for simulation data access
type SimulationRepository interface {
	// GetByClientKey retrieves a simulation by its originating client key
	GetByClientKey(ctx context.Context, clientKey string) (*models.Simulation, error)

	// GetByID retrieves a simulation by its id
	GetByID(ctx context.Context, id models.ID[models.Simulation]) (*models.Simulation, error)

	// Create inserts a new simulation
	Create(ctx context.Context, simulation *models.Simulation) error

	// Update persists the round counter and balance
	Update(ctx context.Context, simulation *models.Simulation) error

	// Delete removes a simulation (restart)
	Delete(ctx context.Context, id models.ID[models.Simulation]) error
}

// UnitOfWork provides a transactional boundary over the repositories
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction and flushes pending events
	Commit() error

	// Rollback rolls back the transaction; no-op if already committed
	Rollback() error

	// TeamRepository returns the team repository bound to this transaction
	TeamRepository() TeamRepository

	// GameRepository returns the game repository bound to this transaction
	GameRepository() GameRepository

	// GameStatRepository returns the stat repository bound to this transaction
	GameStatRepository() GameStatRepository

	// BetRepository returns the bet repository bound to this transaction
	BetRepository() BetRepository

	// SimulationRepository returns the simulation repository bound to this transaction
	SimulationRepository() SimulationRepository

	// Publish queues an event for emission after a successful commit
	Publish(event events.Event)
}

// UnitOfWorkFactory creates units of work
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// Rand is the source of entropy for fixture assignment and outcome
// randomization. Production wires the process-wide runtime-seeded source;
// tests inject a seeded generator for determinism.
type Rand interface {
	Float64() float64
	Shuffle(n int, swap func(i, j int))
}

// MarketQuote is one quoted outcome: the predicted event and its
// margin-adjusted coefficient.
type MarketQuote struct {
	Event       models.Event
	Coefficient models.Coefficient
}

// FixtureView is a fixture joined with its teams for display, plus its
// result once resolved.
type FixtureView struct {
	Game      *models.Game
	HomeTeam  *models.Team
	GuestTeam *models.Team
	Stat      *models.GameStat
}

// OddsConfig carries the tuning knobs the odds calculator and the outcome
// randomizer consume.
type OddsConfig struct {
	TrackedGames uint8
	Margin       models.Margin
	Alpha        int32
	Totals       []uint8
	DeviationMin float64
	DeviationMax float64
}

// SimulationService owns the round/simulation lifecycle
type SimulationService interface {
	// Start returns the client's simulation, creating it on first contact
	Start(ctx context.Context, clientKey string) (*models.Simulation, error)

	// Restart deletes the client's simulation and creates a fresh one
	Restart(ctx context.Context, clientKey string) (*models.Simulation, error)

	// Get returns the client's existing simulation; fails with
	// ErrSimulationNotFound before Start
	Get(ctx context.Context, clientKey string) (*models.Simulation, error)

	// CreateRound pairs all teams into the next round's fixtures; fails
	// with ErrRoundNotResolved while the current round has open fixtures
	CreateRound(ctx context.Context, simulation *models.Simulation) ([]*FixtureView, error)
}

// GameService resolves fixtures into scorelines
type GameService interface {
	// RandomizeRound resolves every fixture of the current round; fails
	// with ErrRoundAlreadyRandomized if any fixture already has a result
	RandomizeRound(ctx context.Context, simulation *models.Simulation) ([]*FixtureView, error)

	// RandomizeGame resolves a single fixture, producing exactly one stat
	RandomizeGame(ctx context.Context, game *models.Game) (*models.GameStat, error)
}

// BetService quotes markets, accepts stakes and settles bets
type BetService interface {
	// CalculateCoefficients quotes the 1X2 market and one totals triple per
	// configured threshold for a fixture
	CalculateCoefficients(ctx context.Context, game *models.Game) ([]MarketQuote, error)

	// MakeBet debits the stake and records an unsettled bet
	MakeBet(ctx context.Context, simulationID models.ID[models.Simulation], gameID models.ID[models.Game], amount models.Amount, event models.Event, coefficient models.Coefficient) (*models.Bet, error)

	// SettleBets reconciles all unsettled bets whose fixture is resolved
	// and credits the batch payout in one balance update; returns the
	// batch profit
	SettleBets(ctx context.Context, simulationID models.ID[models.Simulation]) (models.Amount, error)

	// MakeReport summarizes the session's betting statistics
	MakeReport(ctx context.Context, simulationID models.ID[models.Simulation]) (*models.BetStatistics, error)
}
