package repository

import (
	"context"
	"fmt"

	"smokeybot/database"
	"smokeybot/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

// unitOfWork implements the interfaces.UnitOfWork contract over a pgx
// transaction. Repositories handed out by the getters share that
// transaction, and buffered events flush only after Commit.
type unitOfWork struct {
	db        *database.DB
	tx        pgx.Tx
	ctx       context.Context
	guildID   int64
	publisher interfaces.TransactionalEventPublisher

	guildSettingsRepo *GuildSettingsRepository
	monsterRepo       *MonsterRepository
	playerRepo        *PlayerRepository
	caughtMonsterRepo *CaughtMonsterRepository
	tradeRepo         *TradeRepository
	itemRepo          *ItemRepository
}

type unitOfWorkFactory struct {
	db *database.DB
}

// NewUnitOfWorkFactory creates a factory producing transaction-scoped
// units of work over the given pool
func NewUnitOfWorkFactory(db *database.DB) *unitOfWorkFactory {
	return &unitOfWorkFactory{db: db}
}

// CreateForGuildWithPublisher creates a unit of work whose events are
// buffered in the given publisher until commit
func (f *unitOfWorkFactory) CreateForGuildWithPublisher(guildID int64, publisher interfaces.TransactionalEventPublisher) interfaces.UnitOfWork {
	return &unitOfWork{
		db:        f.db,
		guildID:   guildID,
		publisher: publisher,
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	u.guildSettingsRepo = newGuildSettingsRepository(tx)
	u.monsterRepo = newMonsterRepository(tx)
	u.playerRepo = newPlayerRepository(tx)
	u.caughtMonsterRepo = newCaughtMonsterRepository(tx)
	u.tradeRepo = newTradeRepository(tx)
	u.itemRepo = newItemRepository(tx)

	return nil
}

// Commit commits the transaction and flushes buffered events
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	if err := u.tx.Commit(u.ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	u.tx = nil

	if u.publisher != nil {
		u.publisher.Flush(u.ctx)
	}
	return nil
}

// Rollback rolls back the transaction and discards buffered events
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	u.tx = nil

	if u.publisher != nil {
		u.publisher.Discard()
	}
	return nil
}

func (u *unitOfWork) GuildSettingsRepository() interfaces.GuildSettingsRepository {
	if u.guildSettingsRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.guildSettingsRepo
}

func (u *unitOfWork) MonsterRepository() interfaces.MonsterRepository {
	if u.monsterRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.monsterRepo
}

func (u *unitOfWork) PlayerRepository() interfaces.PlayerRepository {
	if u.playerRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.playerRepo
}

func (u *unitOfWork) CaughtMonsterRepository() interfaces.CaughtMonsterRepository {
	if u.caughtMonsterRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.caughtMonsterRepo
}

func (u *unitOfWork) TradeRepository() interfaces.TradeRepository {
	if u.tradeRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.tradeRepo
}

func (u *unitOfWork) ItemRepository() interfaces.ItemRepository {
	if u.itemRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.itemRepo
}

// Publisher returns the transactional event publisher for this unit of work
func (u *unitOfWork) Publisher() interfaces.EventPublisher {
	if u.publisher == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.publisher
}
