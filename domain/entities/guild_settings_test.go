package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGuildSettings_HasSpawnChannel(t *testing.T) {
	t.Parallel()

	channelID := int64(123456789)
	zero := int64(0)

	tests := []struct {
		name     string
		settings GuildSettings
		expected bool
	}{
		{
			name:     "nil channel",
			settings: GuildSettings{GuildID: 1},
			expected: false,
		},
		{
			name:     "zero channel",
			settings: GuildSettings{GuildID: 1, SpawnChannelID: &zero},
			expected: false,
		},
		{
			name:     "configured channel",
			settings: GuildSettings{GuildID: 1, SpawnChannelID: &channelID},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, tt.settings.HasSpawnChannel())
		})
	}
}

func TestIsAllowedPrefix(t *testing.T) {
	t.Parallel()

	for _, p := range AllowedPrefixes {
		assert.True(t, IsAllowedPrefix(p), "prefix %q should be allowed", p)
	}

	assert.False(t, IsAllowedPrefix(""))
	assert.False(t, IsAllowedPrefix("$"))
	assert.False(t, IsAllowedPrefix("!!"))
	assert.False(t, IsAllowedPrefix("P!"))
}
