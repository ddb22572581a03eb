package entities

import "time"

// CaughtMonster is one monster owned by a player
type CaughtMonster struct {
	ID        int64     `db:"id"`
	GuildID   int64     `db:"guild_id"`
	UserID    int64     `db:"user_id"`
	MonsterID int64     `db:"monster_id"`
	Level     int       `db:"level"`
	Shiny     bool      `db:"shiny"`
	CaughtAt  time.Time `db:"caught_at"`
}

// Player is a per-guild player record
type Player struct {
	GuildID  int64 `db:"guild_id"`
	UserID   int64 `db:"user_id"`
	Currency int64 `db:"currency"`
	Catches  int   `db:"catches"`
}
