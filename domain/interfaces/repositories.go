package interfaces

import (
	"context"

	"smokeybot/domain/entities"

	"github.com/google/uuid"
)

// GuildSettingsRepository manages per-guild configuration
type GuildSettingsRepository interface {
	// GetOrCreateGuildSettings retrieves settings or creates defaults if not found
	GetOrCreateGuildSettings(ctx context.Context, guildID int64) (*entities.GuildSettings, error)

	// UpdateGuildSettings persists changed settings
	UpdateGuildSettings(ctx context.Context, settings *entities.GuildSettings) error

	// ListEnabledGuilds returns settings for every guild with the game enabled
	ListEnabledGuilds(ctx context.Context) ([]*entities.GuildSettings, error)
}

// MonsterRepository reads the monster catalog
type MonsterRepository interface {
	// GetByID returns one catalog entry
	GetByID(ctx context.Context, id int64) (*entities.Monster, error)

	// ListSpawnCandidates returns every entry with a positive spawn weight
	ListSpawnCandidates(ctx context.Context) ([]*entities.Monster, error)
}

// PlayerRepository manages per-guild player records
type PlayerRepository interface {
	// GetOrCreatePlayer retrieves a player record or creates a zeroed one
	GetOrCreatePlayer(ctx context.Context, guildID, userID int64) (*entities.Player, error)

	// AddCurrency adjusts a player's balance by delta (may be negative)
	AddCurrency(ctx context.Context, guildID, userID, delta int64) error

	// IncrementCatches bumps a player's catch counter
	IncrementCatches(ctx context.Context, guildID, userID int64) error

	// TopByCurrency returns the richest players in a guild
	TopByCurrency(ctx context.Context, guildID int64, limit int) ([]*entities.Player, error)

	// TopByCatches returns the players with the most catches in a guild
	TopByCatches(ctx context.Context, guildID int64, limit int) ([]*entities.Player, error)
}

// CaughtMonsterRepository manages owned monsters
type CaughtMonsterRepository interface {
	// Create inserts a caught monster and fills its ID
	Create(ctx context.Context, cm *entities.CaughtMonster) error

	// GetByID returns one caught monster
	GetByID(ctx context.Context, id int64) (*entities.CaughtMonster, error)

	// GetLatest returns a player's most recent catch, nil if none
	GetLatest(ctx context.Context, guildID, userID int64) (*entities.CaughtMonster, error)

	// ListByOwner returns a player's monsters, newest first
	ListByOwner(ctx context.Context, guildID, userID int64, limit int) ([]*entities.CaughtMonster, error)

	// CountSpecies returns how many of one species a player owns
	CountSpecies(ctx context.Context, guildID, userID, monsterID int64) (int, error)

	// UpdateOwner reassigns a caught monster to another player
	UpdateOwner(ctx context.Context, id, newUserID int64) error

	// UpdateSpecies changes the species of a caught monster (evolution)
	UpdateSpecies(ctx context.Context, id, monsterID int64) error
}

// TradeRepository manages trade offers
type TradeRepository interface {
	// Create inserts a new trade offer
	Create(ctx context.Context, trade *entities.Trade) error

	// GetByID returns one trade
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Trade, error)

	// UpdateStatus transitions a trade; only open trades may transition
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.TradeStatus) error

	// ListOpenByGuild returns all open trades in a guild
	ListOpenByGuild(ctx context.Context, guildID int64) ([]*entities.Trade, error)
}

// ItemRepository manages the item catalog and player holdings
type ItemRepository interface {
	// GetByName returns an item by its unique name
	GetByName(ctx context.Context, name string) (*entities.Item, error)

	// ListAll returns the whole item catalog
	ListAll(ctx context.Context) ([]*entities.Item, error)

	// GetQuantity returns how many of an item a player holds
	GetQuantity(ctx context.Context, guildID, userID, itemID int64) (int, error)

	// AdjustQuantity changes a player's holding by delta (may be negative)
	AdjustQuantity(ctx context.Context, guildID, userID, itemID int64, delta int) error
}
