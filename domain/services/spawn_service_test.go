package services

import (
	"context"
	"testing"

	"smokeybot/domain/entities"
	"smokeybot/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	exists bool
}

func (s stubResolver) ChannelExists(int64) bool { return s.exists }

type recordingAnnouncer struct {
	calls []int64
}

func (a *recordingAnnouncer) AnnounceSpawn(guildID, channelID int64, monster *entities.Monster, boosted bool) {
	a.calls = append(a.calls, guildID)
}

func enabledSettings(guildID, channelID int64) *entities.GuildSettings {
	return &entities.GuildSettings{
		GuildID:         guildID,
		Prefix:          "~",
		SmokemonEnabled: true,
		SpawnChannelID:  &channelID,
	}
}

func TestTrySpawn_PublishesAndAnnounces(t *testing.T) {
	t.Parallel()

	settingsRepo := new(testhelpers.MockGuildSettingsRepository)
	monsterRepo := new(testhelpers.MockMonsterRepository)
	registry := NewSpawnRegistry()
	announcer := &recordingAnnouncer{}

	settingsRepo.On("GetOrCreateGuildSettings", mock.Anything, int64(1)).
		Return(enabledSettings(1, 555), nil)
	monsterRepo.On("ListSpawnCandidates", mock.Anything).
		Return([]*entities.Monster{testMonster(7, "pidgey")}, nil)

	svc := NewSpawnService(settingsRepo, monsterRepo, registry, NewWeather(), stubResolver{exists: true}, announcer, testhelpers.NoopPublisher{})

	err := svc.TrySpawn(context.Background(), 1)
	require.NoError(t, err)

	state, active := registry.Current(1)
	require.True(t, active)
	assert.Equal(t, int64(7), state.Monster.ID)
	assert.Equal(t, []int64{1}, announcer.calls)
}

func TestTrySpawn_DisabledGuildIsSkipped(t *testing.T) {
	t.Parallel()

	settingsRepo := new(testhelpers.MockGuildSettingsRepository)
	monsterRepo := new(testhelpers.MockMonsterRepository)
	registry := NewSpawnRegistry()
	announcer := &recordingAnnouncer{}

	settings := enabledSettings(1, 555)
	settings.SmokemonEnabled = false
	settingsRepo.On("GetOrCreateGuildSettings", mock.Anything, int64(1)).Return(settings, nil)

	svc := NewSpawnService(settingsRepo, monsterRepo, registry, NewWeather(), stubResolver{exists: true}, announcer, testhelpers.NoopPublisher{})

	err := svc.TrySpawn(context.Background(), 1)
	require.NoError(t, err)

	_, active := registry.Current(1)
	assert.False(t, active)
	assert.Empty(t, announcer.calls)
	monsterRepo.AssertNotCalled(t, "ListSpawnCandidates", mock.Anything)
}

func TestTrySpawn_UnresolvableChannelDisablesGame(t *testing.T) {
	t.Parallel()

	settingsRepo := new(testhelpers.MockGuildSettingsRepository)
	monsterRepo := new(testhelpers.MockMonsterRepository)
	registry := NewSpawnRegistry()
	announcer := &recordingAnnouncer{}

	settingsRepo.On("GetOrCreateGuildSettings", mock.Anything, int64(1)).
		Return(enabledSettings(1, 555), nil)
	settingsRepo.On("UpdateGuildSettings", mock.Anything, mock.MatchedBy(func(gs *entities.GuildSettings) bool {
		return gs.GuildID == 1 && !gs.SmokemonEnabled
	})).Return(nil)

	svc := NewSpawnService(settingsRepo, monsterRepo, registry, NewWeather(), stubResolver{exists: false}, announcer, testhelpers.NoopPublisher{})

	err := svc.TrySpawn(context.Background(), 1)
	require.NoError(t, err)

	_, active := registry.Current(1)
	assert.False(t, active, "no spawn when the channel is gone")
	assert.Empty(t, announcer.calls)
	settingsRepo.AssertExpectations(t)
}

func TestTrySpawn_SkipsInvalidCandidates(t *testing.T) {
	t.Parallel()

	settingsRepo := new(testhelpers.MockGuildSettingsRepository)
	monsterRepo := new(testhelpers.MockMonsterRepository)
	registry := NewSpawnRegistry()
	announcer := &recordingAnnouncer{}

	// One broken record (no artwork) alongside a valid one at equal weight,
	// so both the redraw path and the valid publish are hit; repeated spawns
	// must only ever publish the valid record.
	broken := &entities.Monster{ID: 9, NameEnglish: "glitch", Category: "normal", BaseWeight: 1000}
	valid := testMonster(7, "pidgey")
	valid.BaseWeight = 1000

	settingsRepo.On("GetOrCreateGuildSettings", mock.Anything, int64(1)).
		Return(enabledSettings(1, 555), nil)
	monsterRepo.On("ListSpawnCandidates", mock.Anything).
		Return([]*entities.Monster{broken, valid}, nil)

	svc := NewSpawnService(settingsRepo, monsterRepo, registry, NewWeather(), stubResolver{exists: true}, announcer, testhelpers.NoopPublisher{})

	published := 0
	for i := 0; i < 20; i++ {
		if err := svc.TrySpawn(context.Background(), 1); err != nil {
			// Redraw limit hit on an unlucky streak; acceptable outcome
			continue
		}
		if state, active := registry.Current(1); active {
			assert.Equal(t, int64(7), state.Monster.ID, "broken records never publish")
			published++
			registry.Clear(1)
		}
	}
	assert.Greater(t, published, 0)
}

func TestEffectiveWeight(t *testing.T) {
	t.Parallel()

	m := testMonster(1, "vulpix")
	m.Category = "fire"
	m.BaseWeight = 10

	assert.Equal(t, 10, effectiveWeight(m, "water"))
	assert.Equal(t, 40, effectiveWeight(m, "fire"), "boosted category weighs heavier")

	m.BaseWeight = 0
	assert.Equal(t, 0, effectiveWeight(m, "fire"), "zero weight stays unspawnable")
}
