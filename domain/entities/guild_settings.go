package entities

// GuildSettings represents per-guild configuration settings
type GuildSettings struct {
	GuildID         int64  `db:"guild_id"`
	Prefix          string `db:"prefix"`
	SmokemonEnabled bool   `db:"smokemon_enabled"`
	SpawnChannelID  *int64 `db:"spawn_channel_id"` // Nullable - channel monsters spawn into
}

// HasSpawnChannel checks if a spawn channel is configured
func (gs *GuildSettings) HasSpawnChannel() bool {
	return gs.SpawnChannelID != nil && *gs.SpawnChannelID > 0
}

// SetSpawnChannel sets the spawn channel ID
func (gs *GuildSettings) SetSpawnChannel(channelID *int64) {
	gs.SpawnChannelID = channelID
}

// AllowedPrefixes are the text-command prefixes a guild may choose from.
var AllowedPrefixes = []string{"!", "~", "p!", "m!"}

// IsAllowedPrefix reports whether p is one of the configurable prefixes
func IsAllowedPrefix(p string) bool {
	for _, allowed := range AllowedPrefixes {
		if p == allowed {
			return true
		}
	}
	return false
}
