package services

import (
	"context"
	"errors"
	"testing"

	"smokeybot/domain/entities"
	"smokeybot/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSetGameEnabled(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		enabled   bool
		setupMock func(*testhelpers.MockGuildSettingsRepository)
		wantErr   bool
	}{
		{
			name:    "enable persists flag",
			enabled: true,
			setupMock: func(repo *testhelpers.MockGuildSettingsRepository) {
				repo.On("GetOrCreateGuildSettings", mock.Anything, int64(1)).
					Return(&entities.GuildSettings{GuildID: 1, Prefix: "~"}, nil)
				repo.On("UpdateGuildSettings", mock.Anything, mock.MatchedBy(func(gs *entities.GuildSettings) bool {
					return gs.SmokemonEnabled
				})).Return(nil)
			},
		},
		{
			name:    "repository error propagates",
			enabled: true,
			setupMock: func(repo *testhelpers.MockGuildSettingsRepository) {
				repo.On("GetOrCreateGuildSettings", mock.Anything, int64(1)).
					Return(nil, errors.New("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := new(testhelpers.MockGuildSettingsRepository)
			tt.setupMock(repo)

			svc := NewGuildSettingsService(repo)
			err := svc.SetGameEnabled(context.Background(), 1, tt.enabled)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				repo.AssertExpectations(t)
			}
		})
	}
}

func TestUpdatePrefix(t *testing.T) {
	t.Parallel()

	repo := new(testhelpers.MockGuildSettingsRepository)
	repo.On("GetOrCreateGuildSettings", mock.Anything, int64(1)).
		Return(&entities.GuildSettings{GuildID: 1, Prefix: "~"}, nil)
	repo.On("UpdateGuildSettings", mock.Anything, mock.MatchedBy(func(gs *entities.GuildSettings) bool {
		return gs.Prefix == "p!"
	})).Return(nil)

	svc := NewGuildSettingsService(repo)
	require.NoError(t, svc.UpdatePrefix(context.Background(), 1, "p!"))
	repo.AssertExpectations(t)
}

func TestUpdatePrefix_RejectsUnknownPrefix(t *testing.T) {
	t.Parallel()

	repo := new(testhelpers.MockGuildSettingsRepository)
	svc := NewGuildSettingsService(repo)

	err := svc.UpdatePrefix(context.Background(), 1, "$$")
	assert.Error(t, err)
	repo.AssertNotCalled(t, "UpdateGuildSettings", mock.Anything, mock.Anything)
}

func TestUpdateSpawnChannel(t *testing.T) {
	t.Parallel()

	repo := new(testhelpers.MockGuildSettingsRepository)
	repo.On("GetOrCreateGuildSettings", mock.Anything, int64(1)).
		Return(&entities.GuildSettings{GuildID: 1, Prefix: "~"}, nil)
	repo.On("UpdateGuildSettings", mock.Anything, mock.MatchedBy(func(gs *entities.GuildSettings) bool {
		return gs.HasSpawnChannel() && *gs.SpawnChannelID == 555
	})).Return(nil)

	svc := NewGuildSettingsService(repo)
	channelID := int64(555)
	require.NoError(t, svc.UpdateSpawnChannel(context.Background(), 1, &channelID))
	repo.AssertExpectations(t)
}
