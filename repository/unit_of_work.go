package repository

import (
	"context"
	"fmt"

	"rombet/database"
	"rombet/events"
	"rombet/service"

	"github.com/jackc/pgx/v5"
)

// unitOfWork implements the UnitOfWork interface
type unitOfWork struct {
	db               *database.DB
	tx               pgx.Tx
	ctx              context.Context
	transactionalBus *events.TransactionalBus
	teamRepo         service.TeamRepository
	gameRepo         service.GameRepository
	gameStatRepo     service.GameStatRepository
	betRepo          service.BetRepository
	simulationRepo   service.SimulationRepository
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB, eventBus *events.Bus) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:       db,
		eventBus: eventBus,
	}
}

type unitOfWorkFactory struct {
	db       *database.DB
	eventBus *events.Bus
}

func (f *unitOfWorkFactory) Create() service.UnitOfWork {
	return &unitOfWork{
		db:               f.db,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	// Create repositories with the transaction
	u.teamRepo = newTeamRepositoryWithTx(tx)
	u.gameRepo = newGameRepositoryWithTx(tx)
	u.gameStatRepo = newGameStatRepositoryWithTx(tx)
	u.betRepo = newBetRepositoryWithTx(tx)
	u.simulationRepo = newSimulationRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	if err := u.tx.Commit(u.ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	// Flush pending events after successful commit
	if u.transactionalBus != nil {
		u.transactionalBus.Flush(u.ctx)
	}

	return nil
}

// Rollback rolls back the transaction
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil // Nothing to rollback
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil

	// Discard pending events on rollback
	if u.transactionalBus != nil {
		u.transactionalBus.Discard()
	}

	return nil
}

// TeamRepository returns the team repository for this unit of work
func (u *unitOfWork) TeamRepository() service.TeamRepository {
	if u.teamRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.teamRepo
}

// GameRepository returns the game repository for this unit of work
func (u *unitOfWork) GameRepository() service.GameRepository {
	if u.gameRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.gameRepo
}

// GameStatRepository returns the game stat repository for this unit of work
func (u *unitOfWork) GameStatRepository() service.GameStatRepository {
	if u.gameStatRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.gameStatRepo
}

// BetRepository returns the bet repository for this unit of work
func (u *unitOfWork) BetRepository() service.BetRepository {
	if u.betRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.betRepo
}

// SimulationRepository returns the simulation repository for this unit of work
func (u *unitOfWork) SimulationRepository() service.SimulationRepository {
	if u.simulationRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.simulationRepo
}

// Publish buffers an event until the transaction commits
func (u *unitOfWork) Publish(event events.Event) {
	u.transactionalBus.Publish(event)
}
