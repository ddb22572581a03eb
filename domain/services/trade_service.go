package services

import (
	"context"
	"errors"
	"fmt"

	"smokeybot/domain/entities"
	"smokeybot/domain/events"
	"smokeybot/domain/interfaces"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var (
	// ErrTradeNotFound means no trade exists for the given ID
	ErrTradeNotFound = errors.New("trade not found")
	// ErrTradeNotOpen means the trade was already accepted or cancelled
	ErrTradeNotOpen = errors.New("trade is no longer open")
	// ErrNotYourTrade means the actor is not a party to the trade
	ErrNotYourTrade = errors.New("you are not a party to this trade")
	// ErrNotYourMonster means the offered monster is not owned by the offerer
	ErrNotYourMonster = errors.New("you do not own that monster")
)

// tradeService manages trade offers between players
type tradeService struct {
	tradeRepo  interfaces.TradeRepository
	caughtRepo interfaces.CaughtMonsterRepository
	publisher  interfaces.EventPublisher
}

// NewTradeService creates a trade service
func NewTradeService(
	tradeRepo interfaces.TradeRepository,
	caughtRepo interfaces.CaughtMonsterRepository,
	publisher interfaces.EventPublisher,
) *tradeService {
	return &tradeService{
		tradeRepo:  tradeRepo,
		caughtRepo: caughtRepo,
		publisher:  publisher,
	}
}

// CreateOffer opens a trade offering one caught monster to another player
func (s *tradeService) CreateOffer(ctx context.Context, guildID, offererID, recipientID, caughtMonsterID int64) (*entities.Trade, error) {
	if offererID == recipientID {
		return nil, errors.New("cannot trade with yourself")
	}

	caught, err := s.caughtRepo.GetByID(ctx, caughtMonsterID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up monster: %w", err)
	}
	if caught == nil || caught.GuildID != guildID || caught.UserID != offererID {
		return nil, ErrNotYourMonster
	}

	trade := &entities.Trade{
		ID:              uuid.New(),
		GuildID:         guildID,
		OffererID:       offererID,
		RecipientID:     recipientID,
		CaughtMonsterID: caughtMonsterID,
		Status:          entities.TradeStatusOpen,
	}
	if err := s.tradeRepo.Create(ctx, trade); err != nil {
		return nil, fmt.Errorf("failed to create trade: %w", err)
	}
	return trade, nil
}

// Accept completes an open trade, moving the monster to the recipient
func (s *tradeService) Accept(ctx context.Context, tradeID uuid.UUID, actorID int64) (*entities.Trade, error) {
	trade, err := s.tradeRepo.GetByID(ctx, tradeID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up trade: %w", err)
	}
	if trade == nil {
		return nil, ErrTradeNotFound
	}
	if !trade.IsOpen() {
		return nil, ErrTradeNotOpen
	}
	if trade.RecipientID != actorID {
		return nil, ErrNotYourTrade
	}

	// Ownership transfer and status change are independent best-effort
	// writes within the caller's unit of work
	if err := s.caughtRepo.UpdateOwner(ctx, trade.CaughtMonsterID, trade.RecipientID); err != nil {
		return nil, fmt.Errorf("failed to transfer monster: %w", err)
	}
	if err := s.tradeRepo.UpdateStatus(ctx, trade.ID, entities.TradeStatusAccepted); err != nil {
		return nil, fmt.Errorf("failed to close trade: %w", err)
	}
	trade.Status = entities.TradeStatusAccepted

	caught, err := s.caughtRepo.GetByID(ctx, trade.CaughtMonsterID)
	if err != nil {
		log.WithError(err).Warn("Failed to load traded monster for event")
	}
	monsterID := int64(0)
	if caught != nil {
		monsterID = caught.MonsterID
	}

	if err := s.publisher.Publish(events.TradeCompletedEvent{
		TradeID:     trade.ID.String(),
		GuildID:     trade.GuildID,
		OffererID:   trade.OffererID,
		RecipientID: trade.RecipientID,
		MonsterID:   monsterID,
	}); err != nil {
		log.WithError(err).Warn("Failed to publish trade event")
	}

	return trade, nil
}

// Cancel closes an open trade without transferring anything. Either party
// may cancel.
func (s *tradeService) Cancel(ctx context.Context, tradeID uuid.UUID, actorID int64) error {
	trade, err := s.tradeRepo.GetByID(ctx, tradeID)
	if err != nil {
		return fmt.Errorf("failed to look up trade: %w", err)
	}
	if trade == nil {
		return ErrTradeNotFound
	}
	if !trade.IsOpen() {
		return ErrTradeNotOpen
	}
	if trade.OffererID != actorID && trade.RecipientID != actorID {
		return ErrNotYourTrade
	}

	if err := s.tradeRepo.UpdateStatus(ctx, trade.ID, entities.TradeStatusCancelled); err != nil {
		return fmt.Errorf("failed to cancel trade: %w", err)
	}
	return nil
}

// ListOpen returns the guild's open trades
func (s *tradeService) ListOpen(ctx context.Context, guildID int64) ([]*entities.Trade, error) {
	trades, err := s.tradeRepo.ListOpenByGuild(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list trades: %w", err)
	}
	return trades, nil
}
