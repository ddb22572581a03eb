package repository

import (
	"context"
	"fmt"

	"smokeybot/database"
	"smokeybot/domain/entities"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TradeRepository manages trade offers
type TradeRepository struct {
	q Queryable
}

// NewTradeRepository creates a repository over the pool
func NewTradeRepository(db *database.DB) *TradeRepository {
	return &TradeRepository{q: db.Pool}
}

func newTradeRepository(tx Queryable) *TradeRepository {
	return &TradeRepository{q: tx}
}

const tradeColumns = `id, guild_id, offerer_id, recipient_id, caught_monster_id, status, created_at`

func scanTrade(row pgx.Row) (*entities.Trade, error) {
	var t entities.Trade
	err := row.Scan(
		&t.ID,
		&t.GuildID,
		&t.OffererID,
		&t.RecipientID,
		&t.CaughtMonsterID,
		&t.Status,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserts a new trade offer
func (r *TradeRepository) Create(ctx context.Context, trade *entities.Trade) error {
	query := `
		INSERT INTO trades (id, guild_id, offerer_id, recipient_id, caught_monster_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.q.Exec(ctx, query,
		trade.ID, trade.GuildID, trade.OffererID, trade.RecipientID,
		trade.CaughtMonsterID, trade.Status, trade.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create trade %s: %w", trade.ID, err)
	}
	return nil
}

// GetByID returns one trade, nil if absent
func (r *TradeRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Trade, error) {
	query := fmt.Sprintf(`SELECT %s FROM trades WHERE id = $1`, tradeColumns)

	t, err := scanTrade(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trade %s: %w", id, err)
	}
	return t, nil
}

// UpdateStatus transitions a trade; only open trades may transition
func (r *TradeRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.TradeStatus) error {
	query := `UPDATE trades SET status = $2 WHERE id = $1 AND status = $3`

	tag, err := r.q.Exec(ctx, query, id, status, entities.TradeStatusOpen)
	if err != nil {
		return fmt.Errorf("failed to update trade %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("trade %s is not open", id)
	}
	return nil
}

// ListOpenByGuild returns all open trades in a guild
func (r *TradeRepository) ListOpenByGuild(ctx context.Context, guildID int64) ([]*entities.Trade, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM trades
		WHERE guild_id = $1 AND status = $2
		ORDER BY created_at`, tradeColumns)

	rows, err := r.q.Query(ctx, query, guildID, entities.TradeStatusOpen)
	if err != nil {
		return nil, fmt.Errorf("failed to list open trades for guild %d: %w", guildID, err)
	}
	defer rows.Close()

	var result []*entities.Trade
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		result = append(result, t)
	}
	return result, rows.Err()
}
