package infrastructure

import (
	"context"

	"smokeybot/database"
	"smokeybot/domain/events"
	"smokeybot/domain/interfaces"
	"smokeybot/repository"
)

// UnitOfWorkFactory implements interfaces.UnitOfWorkFactory.
// Each unit of work it creates carries its own transactional publisher
// so events reach the configured transport only after commit.
type UnitOfWorkFactory struct {
	repoFactory interface {
		CreateForGuildWithPublisher(guildID int64, publisher interfaces.TransactionalEventPublisher) interfaces.UnitOfWork
	}
	eventPublisher interfaces.EventPublisher
}

// NewUnitOfWorkFactory creates a new UnitOfWorkFactory
func NewUnitOfWorkFactory(db *database.DB, eventPublisher interfaces.EventPublisher) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{
		repoFactory:    repository.NewUnitOfWorkFactory(db),
		eventPublisher: eventPublisher,
	}
}

// RegisterLocalHandler registers a handler invoked in-process for events.
// Only effective when the underlying publisher is the NATS publisher.
func (f *UnitOfWorkFactory) RegisterLocalHandler(eventType events.EventType, handler func(context.Context, events.Event) error) {
	if natsPublisher, ok := f.eventPublisher.(*NATSEventPublisher); ok {
		natsPublisher.RegisterLocalHandler(eventType, handler)
	}
}

// CreateForGuild creates a new UnitOfWork with a transactional event publisher
func (f *UnitOfWorkFactory) CreateForGuild(guildID int64) interfaces.UnitOfWork {
	return f.repoFactory.CreateForGuildWithPublisher(guildID, NewTransactionalPublisher(f.eventPublisher))
}
