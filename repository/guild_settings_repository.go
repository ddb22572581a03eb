package repository

import (
	"context"
	"fmt"

	"smokeybot/config"
	"smokeybot/database"
	"smokeybot/domain/entities"

	"github.com/jackc/pgx/v5"
)

// GuildSettingsRepository is the pgx-backed guild settings store
type GuildSettingsRepository struct {
	q Queryable
}

// NewGuildSettingsRepository creates a repository over the pool
func NewGuildSettingsRepository(db *database.DB) *GuildSettingsRepository {
	return &GuildSettingsRepository{q: db.Pool}
}

func newGuildSettingsRepository(tx Queryable) *GuildSettingsRepository {
	return &GuildSettingsRepository{q: tx}
}

// GetOrCreateGuildSettings retrieves guild settings or creates default ones if not found
func (r *GuildSettingsRepository) GetOrCreateGuildSettings(ctx context.Context, guildID int64) (*entities.GuildSettings, error) {
	query := `
		SELECT guild_id, prefix, smokemon_enabled, spawn_channel_id
		FROM guild_settings
		WHERE guild_id = $1
	`

	var settings entities.GuildSettings
	err := r.q.QueryRow(ctx, query, guildID).Scan(
		&settings.GuildID,
		&settings.Prefix,
		&settings.SmokemonEnabled,
		&settings.SpawnChannelID,
	)

	if err == nil {
		return &settings, nil
	}
	if err != pgx.ErrNoRows {
		return nil, fmt.Errorf("failed to get guild settings for guild %d: %w", guildID, err)
	}

	insertQuery := `
		INSERT INTO guild_settings (guild_id, prefix, smokemon_enabled, spawn_channel_id)
		VALUES ($1, $2, FALSE, NULL)
		RETURNING guild_id, prefix, smokemon_enabled, spawn_channel_id
	`

	err = r.q.QueryRow(ctx, insertQuery, guildID, config.Get().DefaultPrefix).Scan(
		&settings.GuildID,
		&settings.Prefix,
		&settings.SmokemonEnabled,
		&settings.SpawnChannelID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create guild settings for guild %d: %w", guildID, err)
	}

	return &settings, nil
}

// UpdateGuildSettings updates guild settings
func (r *GuildSettingsRepository) UpdateGuildSettings(ctx context.Context, settings *entities.GuildSettings) error {
	query := `
		UPDATE guild_settings
		SET prefix = $2,
		    smokemon_enabled = $3,
		    spawn_channel_id = $4
		WHERE guild_id = $1
	`

	result, err := r.q.Exec(ctx, query,
		settings.GuildID,
		settings.Prefix,
		settings.SmokemonEnabled,
		settings.SpawnChannelID,
	)
	if err != nil {
		return fmt.Errorf("failed to update guild settings for guild %d: %w", settings.GuildID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("guild settings for guild %d not found", settings.GuildID)
	}

	return nil
}

// ListEnabledGuilds returns settings for every guild with the game enabled
func (r *GuildSettingsRepository) ListEnabledGuilds(ctx context.Context) ([]*entities.GuildSettings, error) {
	query := `
		SELECT guild_id, prefix, smokemon_enabled, spawn_channel_id
		FROM guild_settings
		WHERE smokemon_enabled = TRUE
		ORDER BY guild_id
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list enabled guilds: %w", err)
	}
	defer rows.Close()

	var result []*entities.GuildSettings
	for rows.Next() {
		var settings entities.GuildSettings
		if err := rows.Scan(
			&settings.GuildID,
			&settings.Prefix,
			&settings.SmokemonEnabled,
			&settings.SpawnChannelID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan guild settings: %w", err)
		}
		result = append(result, &settings)
	}
	return result, rows.Err()
}
