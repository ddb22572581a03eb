package entities

import (
	"time"

	"github.com/google/uuid"
)

// TradeStatus represents the lifecycle state of a trade offer
type TradeStatus string

const (
	TradeStatusOpen      TradeStatus = "open"
	TradeStatusAccepted  TradeStatus = "accepted"
	TradeStatusCancelled TradeStatus = "cancelled"
)

// Trade is an offer to transfer one caught monster to another player
type Trade struct {
	ID              uuid.UUID   `db:"id"`
	GuildID         int64       `db:"guild_id"`
	OffererID       int64       `db:"offerer_id"`
	RecipientID     int64       `db:"recipient_id"`
	CaughtMonsterID int64       `db:"caught_monster_id"`
	Status          TradeStatus `db:"status"`
	CreatedAt       time.Time   `db:"created_at"`
}

// IsOpen reports whether the trade can still be accepted or cancelled
func (t *Trade) IsOpen() bool {
	return t.Status == TradeStatusOpen
}
