package repository

import (
	"context"
	"fmt"

	"smokeybot/database"
	"smokeybot/domain/entities"
)

// PlayerRepository manages per-guild player records
type PlayerRepository struct {
	q Queryable
}

// NewPlayerRepository creates a repository over the pool
func NewPlayerRepository(db *database.DB) *PlayerRepository {
	return &PlayerRepository{q: db.Pool}
}

func newPlayerRepository(tx Queryable) *PlayerRepository {
	return &PlayerRepository{q: tx}
}

// GetOrCreatePlayer retrieves a player record or creates a zeroed one
func (r *PlayerRepository) GetOrCreatePlayer(ctx context.Context, guildID, userID int64) (*entities.Player, error) {
	query := `
		INSERT INTO players (guild_id, user_id, currency, catches)
		VALUES ($1, $2, 0, 0)
		ON CONFLICT (guild_id, user_id) DO UPDATE SET guild_id = EXCLUDED.guild_id
		RETURNING guild_id, user_id, currency, catches`

	var p entities.Player
	err := r.q.QueryRow(ctx, query, guildID, userID).Scan(&p.GuildID, &p.UserID, &p.Currency, &p.Catches)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create player %d/%d: %w", guildID, userID, err)
	}
	return &p, nil
}

// AddCurrency adjusts a player's balance by delta (may be negative)
func (r *PlayerRepository) AddCurrency(ctx context.Context, guildID, userID, delta int64) error {
	query := `UPDATE players SET currency = currency + $3 WHERE guild_id = $1 AND user_id = $2`

	tag, err := r.q.Exec(ctx, query, guildID, userID, delta)
	if err != nil {
		return fmt.Errorf("failed to adjust currency for player %d/%d: %w", guildID, userID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("player %d/%d not found", guildID, userID)
	}
	return nil
}

// IncrementCatches bumps a player's catch counter
func (r *PlayerRepository) IncrementCatches(ctx context.Context, guildID, userID int64) error {
	query := `UPDATE players SET catches = catches + 1 WHERE guild_id = $1 AND user_id = $2`

	tag, err := r.q.Exec(ctx, query, guildID, userID)
	if err != nil {
		return fmt.Errorf("failed to increment catches for player %d/%d: %w", guildID, userID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("player %d/%d not found", guildID, userID)
	}
	return nil
}

// TopByCurrency returns the richest players in a guild
func (r *PlayerRepository) TopByCurrency(ctx context.Context, guildID int64, limit int) ([]*entities.Player, error) {
	query := `
		SELECT guild_id, user_id, currency, catches
		FROM players
		WHERE guild_id = $1
		ORDER BY currency DESC, user_id
		LIMIT $2`

	return r.listPlayers(ctx, query, guildID, limit)
}

// TopByCatches returns the players with the most catches in a guild
func (r *PlayerRepository) TopByCatches(ctx context.Context, guildID int64, limit int) ([]*entities.Player, error) {
	query := `
		SELECT guild_id, user_id, currency, catches
		FROM players
		WHERE guild_id = $1
		ORDER BY catches DESC, user_id
		LIMIT $2`

	return r.listPlayers(ctx, query, guildID, limit)
}

func (r *PlayerRepository) listPlayers(ctx context.Context, query string, args ...any) ([]*entities.Player, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	var result []*entities.Player
	for rows.Next() {
		var p entities.Player
		if err := rows.Scan(&p.GuildID, &p.UserID, &p.Currency, &p.Catches); err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		result = append(result, &p)
	}
	return result, rows.Err()
}
