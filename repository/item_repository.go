package repository

import (
	"context"
	"fmt"

	"smokeybot/database"
	"smokeybot/domain/entities"

	"github.com/jackc/pgx/v5"
)

// ItemRepository manages the item catalog and player holdings
type ItemRepository struct {
	q Queryable
}

// NewItemRepository creates a repository over the pool
func NewItemRepository(db *database.DB) *ItemRepository {
	return &ItemRepository{q: db.Pool}
}

func newItemRepository(tx Queryable) *ItemRepository {
	return &ItemRepository{q: tx}
}

// GetByName returns an item by its unique name, nil if absent
func (r *ItemRepository) GetByName(ctx context.Context, name string) (*entities.Item, error) {
	query := `SELECT id, name, cost FROM items WHERE name = $1`

	var item entities.Item
	err := r.q.QueryRow(ctx, query, name).Scan(&item.ID, &item.Name, &item.Cost)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item %q: %w", name, err)
	}
	return &item, nil
}

// ListAll returns the whole item catalog
func (r *ItemRepository) ListAll(ctx context.Context) ([]*entities.Item, error) {
	query := `SELECT id, name, cost FROM items ORDER BY cost, name`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var result []*entities.Item
	for rows.Next() {
		var item entities.Item
		if err := rows.Scan(&item.ID, &item.Name, &item.Cost); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		result = append(result, &item)
	}
	return result, rows.Err()
}

// GetQuantity returns how many of an item a player holds
func (r *ItemRepository) GetQuantity(ctx context.Context, guildID, userID, itemID int64) (int, error) {
	query := `
		SELECT quantity FROM player_items
		WHERE guild_id = $1 AND user_id = $2 AND item_id = $3`

	var quantity int
	err := r.q.QueryRow(ctx, query, guildID, userID, itemID).Scan(&quantity)
	if err == pgx.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get item quantity for %d/%d: %w", guildID, userID, err)
	}
	return quantity, nil
}

// AdjustQuantity changes a player's holding by delta. Rows that reach
// zero are removed so holdings listings stay clean.
func (r *ItemRepository) AdjustQuantity(ctx context.Context, guildID, userID, itemID int64, delta int) error {
	query := `
		INSERT INTO player_items (guild_id, user_id, item_id, quantity)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (guild_id, user_id, item_id)
		DO UPDATE SET quantity = player_items.quantity + EXCLUDED.quantity`

	if _, err := r.q.Exec(ctx, query, guildID, userID, itemID, delta); err != nil {
		return fmt.Errorf("failed to adjust item %d for %d/%d: %w", itemID, guildID, userID, err)
	}

	cleanup := `
		DELETE FROM player_items
		WHERE guild_id = $1 AND user_id = $2 AND item_id = $3 AND quantity <= 0`

	if _, err := r.q.Exec(ctx, cleanup, guildID, userID, itemID); err != nil {
		return fmt.Errorf("failed to clean up item %d for %d/%d: %w", itemID, guildID, userID, err)
	}
	return nil
}
