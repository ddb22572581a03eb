package entities

// Item is an evolution item players can buy and hold
type Item struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
	Cost int64  `db:"cost"`
}

// PlayerItem is a player's holding of one item type
type PlayerItem struct {
	GuildID  int64 `db:"guild_id"`
	UserID   int64 `db:"user_id"`
	ItemID   int64 `db:"item_id"`
	Quantity int   `db:"quantity"`
}
