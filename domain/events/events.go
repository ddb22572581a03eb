package events

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeMonsterSpawned     EventType = "monster_spawned"
	EventTypeMonsterCaught      EventType = "monster_caught"
	EventTypeTradeCompleted     EventType = "trade_completed"
	EventTypeEmoteSyncCompleted EventType = "emote_sync_completed"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// MonsterSpawnedEvent is emitted when a monster appears in a guild
type MonsterSpawnedEvent struct {
	GuildID   int64
	MonsterID int64
	Name      string
	Category  string
	Boosted   bool
}

func (e MonsterSpawnedEvent) Type() EventType {
	return EventTypeMonsterSpawned
}

// MonsterCaughtEvent is emitted when a catch attempt succeeds
type MonsterCaughtEvent struct {
	GuildID   int64
	UserID    int64
	MonsterID int64
	Name      string
	Level     int
	Shiny     bool
	Duplicate bool
	Reward    int64
}

func (e MonsterCaughtEvent) Type() EventType {
	return EventTypeMonsterCaught
}

// TradeCompletedEvent is emitted when a trade offer is accepted
type TradeCompletedEvent struct {
	TradeID     string
	GuildID     int64
	OffererID   int64
	RecipientID int64
	MonsterID   int64
}

func (e TradeCompletedEvent) Type() EventType {
	return EventTypeTradeCompleted
}

// EmoteSyncCompletedEvent is emitted when a guild's emote sync job drains
type EmoteSyncCompletedEvent struct {
	GuildID  int64
	Provider string
	Uploaded int
	Skipped  int
}

func (e EmoteSyncCompletedEvent) Type() EventType {
	return EventTypeEmoteSyncCompleted
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers.
// Handlers run asynchronously; a panicking handler is logged and contained.
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	for _, handler := range handlers {
		go func(h Handler) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType": event.Type(),
						"panic":     r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler)
	}
}
