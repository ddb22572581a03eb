package infrastructure

import (
	"fmt"

	"smokeybot/domain/events"
)

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventToSubject converts a domain event to its corresponding NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	switch event.Type() {
	case events.EventTypeMonsterSpawned:
		return "game.monster.spawned"
	case events.EventTypeMonsterCaught:
		return "game.monster.caught"
	case events.EventTypeTradeCompleted:
		return "game.trade.completed"
	case events.EventTypeEmoteSyncCompleted:
		return "emotes.sync.completed"
	default:
		return fmt.Sprintf("unknown.%s", event.Type())
	}
}

// GetAllSubjects returns all subjects that this service publishes to
func (m *EventSubjectMapper) GetAllSubjects() []string {
	return []string{
		"game.monster.spawned",
		"game.monster.caught",
		"game.trade.completed",
		"emotes.sync.completed",
	}
}
