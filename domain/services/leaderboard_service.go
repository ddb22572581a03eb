package services

import (
	"context"
	"fmt"

	"smokeybot/domain/entities"
	"smokeybot/domain/interfaces"
)

// leaderboardService answers ranking queries for a guild
type leaderboardService struct {
	playerRepo interfaces.PlayerRepository
}

// NewLeaderboardService creates a leaderboard service
func NewLeaderboardService(playerRepo interfaces.PlayerRepository) *leaderboardService {
	return &leaderboardService{playerRepo: playerRepo}
}

// TopCatchers returns the guild's best catchers
func (s *leaderboardService) TopCatchers(ctx context.Context, guildID int64, limit int) ([]*entities.Player, error) {
	if limit <= 0 {
		limit = 10
	}
	players, err := s.playerRepo.TopByCatches(ctx, guildID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load catch leaderboard: %w", err)
	}
	return players, nil
}

// TopBalances returns the guild's richest players
func (s *leaderboardService) TopBalances(ctx context.Context, guildID int64, limit int) ([]*entities.Player, error) {
	if limit <= 0 {
		limit = 10
	}
	players, err := s.playerRepo.TopByCurrency(ctx, guildID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load balance leaderboard: %w", err)
	}
	return players, nil
}
