package services

import (
	"context"
	"fmt"

	"smokeybot/domain/entities"
	"smokeybot/domain/interfaces"
)

// guildSettingsService manages per-guild configuration
type guildSettingsService struct {
	settingsRepo interfaces.GuildSettingsRepository
}

// NewGuildSettingsService creates a new guild settings service
func NewGuildSettingsService(settingsRepo interfaces.GuildSettingsRepository) *guildSettingsService {
	return &guildSettingsService{settingsRepo: settingsRepo}
}

// GetOrCreateSettings retrieves guild settings or creates default ones
func (s *guildSettingsService) GetOrCreateSettings(ctx context.Context, guildID int64) (*entities.GuildSettings, error) {
	settings, err := s.settingsRepo.GetOrCreateGuildSettings(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get guild settings: %w", err)
	}
	return settings, nil
}

// SetGameEnabled toggles the catching game for a guild
func (s *guildSettingsService) SetGameEnabled(ctx context.Context, guildID int64, enabled bool) error {
	settings, err := s.settingsRepo.GetOrCreateGuildSettings(ctx, guildID)
	if err != nil {
		return fmt.Errorf("failed to get guild settings: %w", err)
	}

	settings.SmokemonEnabled = enabled

	if err := s.settingsRepo.UpdateGuildSettings(ctx, settings); err != nil {
		return fmt.Errorf("failed to update guild settings: %w", err)
	}
	return nil
}

// UpdateSpawnChannel changes the channel monsters spawn into (nil disables)
func (s *guildSettingsService) UpdateSpawnChannel(ctx context.Context, guildID int64, channelID *int64) error {
	settings, err := s.settingsRepo.GetOrCreateGuildSettings(ctx, guildID)
	if err != nil {
		return fmt.Errorf("failed to get guild settings: %w", err)
	}

	settings.SetSpawnChannel(channelID)

	if err := s.settingsRepo.UpdateGuildSettings(ctx, settings); err != nil {
		return fmt.Errorf("failed to update guild settings: %w", err)
	}
	return nil
}

// UpdatePrefix changes the guild's text-command prefix
func (s *guildSettingsService) UpdatePrefix(ctx context.Context, guildID int64, prefix string) error {
	if !entities.IsAllowedPrefix(prefix) {
		return fmt.Errorf("prefix %q is not allowed", prefix)
	}

	settings, err := s.settingsRepo.GetOrCreateGuildSettings(ctx, guildID)
	if err != nil {
		return fmt.Errorf("failed to get guild settings: %w", err)
	}

	settings.Prefix = prefix

	if err := s.settingsRepo.UpdateGuildSettings(ctx, settings); err != nil {
		return fmt.Errorf("failed to update guild settings: %w", err)
	}
	return nil
}
