package services

import (
	"context"
	"errors"
	"fmt"

	"smokeybot/domain/entities"
	"smokeybot/domain/interfaces"
)

var (
	// ErrItemNotFound means no catalog item matches the given name
	ErrItemNotFound = errors.New("no such item")
	// ErrInsufficientFunds means the player cannot afford the item
	ErrInsufficientFunds = errors.New("not enough currency")
	// ErrItemNotHeld means the player does not hold the item
	ErrItemNotHeld = errors.New("you do not hold that item")
)

// UseOutcome describes what applying an item did
type UseOutcome struct {
	Evolved bool
	From    *entities.Monster
	Into    *entities.Monster
}

// itemService manages buying, giving and applying evolution items
type itemService struct {
	itemRepo    interfaces.ItemRepository
	playerRepo  interfaces.PlayerRepository
	caughtRepo  interfaces.CaughtMonsterRepository
	monsterRepo interfaces.MonsterRepository
}

// NewItemService creates an item service
func NewItemService(
	itemRepo interfaces.ItemRepository,
	playerRepo interfaces.PlayerRepository,
	caughtRepo interfaces.CaughtMonsterRepository,
	monsterRepo interfaces.MonsterRepository,
) *itemService {
	return &itemService{
		itemRepo:    itemRepo,
		playerRepo:  playerRepo,
		caughtRepo:  caughtRepo,
		monsterRepo: monsterRepo,
	}
}

// Buy purchases one item for the player, deducting its cost
func (s *itemService) Buy(ctx context.Context, guildID, userID int64, itemName string) (*entities.Item, error) {
	item, err := s.itemRepo.GetByName(ctx, itemName)
	if err != nil {
		return nil, fmt.Errorf("failed to look up item: %w", err)
	}
	if item == nil {
		return nil, ErrItemNotFound
	}

	player, err := s.playerRepo.GetOrCreatePlayer(ctx, guildID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load player: %w", err)
	}
	if player.Currency < item.Cost {
		return nil, ErrInsufficientFunds
	}

	if err := s.playerRepo.AddCurrency(ctx, guildID, userID, -item.Cost); err != nil {
		return nil, fmt.Errorf("failed to charge player: %w", err)
	}
	if err := s.itemRepo.AdjustQuantity(ctx, guildID, userID, item.ID, 1); err != nil {
		return nil, fmt.Errorf("failed to grant item: %w", err)
	}
	return item, nil
}

// Give transfers one held item to another player
func (s *itemService) Give(ctx context.Context, guildID, fromID, toID int64, itemName string) (*entities.Item, error) {
	if fromID == toID {
		return nil, errors.New("cannot give an item to yourself")
	}

	item, err := s.itemRepo.GetByName(ctx, itemName)
	if err != nil {
		return nil, fmt.Errorf("failed to look up item: %w", err)
	}
	if item == nil {
		return nil, ErrItemNotFound
	}

	held, err := s.itemRepo.GetQuantity(ctx, guildID, fromID, item.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check holdings: %w", err)
	}
	if held < 1 {
		return nil, ErrItemNotHeld
	}

	if err := s.itemRepo.AdjustQuantity(ctx, guildID, fromID, item.ID, -1); err != nil {
		return nil, fmt.Errorf("failed to take item: %w", err)
	}
	if err := s.itemRepo.AdjustQuantity(ctx, guildID, toID, item.ID, 1); err != nil {
		return nil, fmt.Errorf("failed to grant item: %w", err)
	}
	return item, nil
}

// Use applies a held item to a caught monster. A species with no evolution
// data is a normal branch, not an error: the item is kept and nothing
// happens.
func (s *itemService) Use(ctx context.Context, guildID, userID int64, itemName string, caughtMonsterID int64) (*UseOutcome, error) {
	item, err := s.itemRepo.GetByName(ctx, itemName)
	if err != nil {
		return nil, fmt.Errorf("failed to look up item: %w", err)
	}
	if item == nil {
		return nil, ErrItemNotFound
	}

	held, err := s.itemRepo.GetQuantity(ctx, guildID, userID, item.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check holdings: %w", err)
	}
	if held < 1 {
		return nil, ErrItemNotHeld
	}

	caught, err := s.caughtRepo.GetByID(ctx, caughtMonsterID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up monster: %w", err)
	}
	if caught == nil || caught.GuildID != guildID || caught.UserID != userID {
		return nil, ErrNotYourMonster
	}

	species, err := s.monsterRepo.GetByID(ctx, caught.MonsterID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up species: %w", err)
	}
	if species == nil || !species.CanEvolve() {
		return &UseOutcome{Evolved: false, From: species}, nil
	}

	evolved, err := s.monsterRepo.GetByID(ctx, *species.EvolvesTo)
	if err != nil {
		return nil, fmt.Errorf("failed to look up evolution: %w", err)
	}
	if evolved == nil {
		return &UseOutcome{Evolved: false, From: species}, nil
	}

	if err := s.caughtRepo.UpdateSpecies(ctx, caught.ID, evolved.ID); err != nil {
		return nil, fmt.Errorf("failed to evolve monster: %w", err)
	}
	if err := s.itemRepo.AdjustQuantity(ctx, guildID, userID, item.ID, -1); err != nil {
		return nil, fmt.Errorf("failed to consume item: %w", err)
	}

	return &UseOutcome{Evolved: true, From: species, Into: evolved}, nil
}
