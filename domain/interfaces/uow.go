package interfaces

import (
	"context"

	"smokeybot/domain/events"
)

// EventPublisher publishes domain events to whatever transport is configured
type EventPublisher interface {
	Publish(event events.Event) error
}

// TransactionalEventPublisher buffers events for the duration of a
// transaction. Flush is called after a successful commit, Discard on
// rollback.
type TransactionalEventPublisher interface {
	EventPublisher
	Flush(ctx context.Context)
	Discard()
}

// UnitOfWork provides transactional access to the repositories.
// Events recorded during the transaction are published only after Commit.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	GuildSettingsRepository() GuildSettingsRepository
	MonsterRepository() MonsterRepository
	PlayerRepository() PlayerRepository
	CaughtMonsterRepository() CaughtMonsterRepository
	TradeRepository() TradeRepository
	ItemRepository() ItemRepository

	// Publisher buffers events until the transaction commits
	Publisher() EventPublisher
}

// UnitOfWorkFactory creates guild-scoped units of work
type UnitOfWorkFactory interface {
	CreateForGuild(guildID int64) UnitOfWork
}
