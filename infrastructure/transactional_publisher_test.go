package infrastructure

import (
	"context"
	"errors"
	"testing"

	"smokeybot/domain/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingPublisher records everything published to it
type recordingPublisher struct {
	PublishedEvents []events.Event
	PublishError    error
}

func (m *recordingPublisher) Publish(event events.Event) error {
	if m.PublishError != nil {
		return m.PublishError
	}
	m.PublishedEvents = append(m.PublishedEvents, event)
	return nil
}

func TestTransactionalPublisher_FlushPublishesBuffered(t *testing.T) {
	downstream := &recordingPublisher{}
	transPublisher := NewTransactionalPublisher(downstream)

	testEvent := events.MonsterCaughtEvent{
		GuildID:   456,
		UserID:    789,
		MonsterID: 25,
		Name:      "pikachu",
		Level:     12,
		Reward:    10,
	}

	err := transPublisher.Publish(testEvent)
	require.NoError(t, err)

	// Nothing reaches the downstream publisher until flush
	assert.Len(t, downstream.PublishedEvents, 0)

	transPublisher.Flush(context.Background())

	assert.Len(t, downstream.PublishedEvents, 1)
	assert.Equal(t, testEvent, downstream.PublishedEvents[0])
}

func TestTransactionalPublisher_FlushPreservesOrder(t *testing.T) {
	downstream := &recordingPublisher{}
	transPublisher := NewTransactionalPublisher(downstream)

	first := events.MonsterSpawnedEvent{GuildID: 1, MonsterID: 16, Name: "pidgey"}
	second := events.MonsterCaughtEvent{GuildID: 1, UserID: 2, MonsterID: 16, Name: "pidgey"}

	require.NoError(t, transPublisher.Publish(first))
	require.NoError(t, transPublisher.Publish(second))

	transPublisher.Flush(context.Background())

	require.Len(t, downstream.PublishedEvents, 2)
	assert.Equal(t, first, downstream.PublishedEvents[0])
	assert.Equal(t, second, downstream.PublishedEvents[1])
}

func TestTransactionalPublisher_Discard(t *testing.T) {
	downstream := &recordingPublisher{}
	transPublisher := NewTransactionalPublisher(downstream)

	err := transPublisher.Publish(events.TradeCompletedEvent{
		TradeID: "60c2d5e1-0000-0000-0000-000000000000",
		GuildID: 456,
	})
	require.NoError(t, err)

	transPublisher.Discard()

	assert.Len(t, downstream.PublishedEvents, 0)

	// A flush after discard must not resurrect discarded events
	transPublisher.Flush(context.Background())
	assert.Len(t, downstream.PublishedEvents, 0)
}

func TestTransactionalPublisher_FlushContinuesOnError(t *testing.T) {
	downstream := &recordingPublisher{PublishError: errors.New("nats down")}
	transPublisher := NewTransactionalPublisher(downstream)

	require.NoError(t, transPublisher.Publish(events.MonsterSpawnedEvent{GuildID: 1, MonsterID: 16}))
	require.NoError(t, transPublisher.Publish(events.MonsterSpawnedEvent{GuildID: 2, MonsterID: 37}))

	// Flush swallows downstream errors and clears the buffer
	transPublisher.Flush(context.Background())

	downstream.PublishError = nil
	transPublisher.Flush(context.Background())
	assert.Len(t, downstream.PublishedEvents, 0)
}
