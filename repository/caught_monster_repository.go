package repository

import (
	"context"
	"fmt"
	"time"

	"smokeybot/database"
	"smokeybot/domain/entities"

	"github.com/jackc/pgx/v5"
)

// CaughtMonsterRepository manages owned monsters
type CaughtMonsterRepository struct {
	q Queryable
}

// NewCaughtMonsterRepository creates a repository over the pool
func NewCaughtMonsterRepository(db *database.DB) *CaughtMonsterRepository {
	return &CaughtMonsterRepository{q: db.Pool}
}

func newCaughtMonsterRepository(tx Queryable) *CaughtMonsterRepository {
	return &CaughtMonsterRepository{q: tx}
}

const caughtMonsterColumns = `id, guild_id, user_id, monster_id, level, shiny, caught_at`

func scanCaughtMonster(row pgx.Row) (*entities.CaughtMonster, error) {
	var cm entities.CaughtMonster
	err := row.Scan(
		&cm.ID,
		&cm.GuildID,
		&cm.UserID,
		&cm.MonsterID,
		&cm.Level,
		&cm.Shiny,
		&cm.CaughtAt,
	)
	if err != nil {
		return nil, err
	}
	return &cm, nil
}

// Create inserts a caught monster and fills its ID
func (r *CaughtMonsterRepository) Create(ctx context.Context, cm *entities.CaughtMonster) error {
	if cm.CaughtAt.IsZero() {
		cm.CaughtAt = time.Now().UTC()
	}

	query := `
		INSERT INTO caught_monsters (guild_id, user_id, monster_id, level, shiny, caught_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := r.q.QueryRow(ctx, query,
		cm.GuildID, cm.UserID, cm.MonsterID, cm.Level, cm.Shiny, cm.CaughtAt,
	).Scan(&cm.ID)
	if err != nil {
		return fmt.Errorf("failed to create caught monster: %w", err)
	}
	return nil
}

// GetByID returns one caught monster, nil if absent
func (r *CaughtMonsterRepository) GetByID(ctx context.Context, id int64) (*entities.CaughtMonster, error) {
	query := fmt.Sprintf(`SELECT %s FROM caught_monsters WHERE id = $1`, caughtMonsterColumns)

	cm, err := scanCaughtMonster(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get caught monster %d: %w", id, err)
	}
	return cm, nil
}

// GetLatest returns a player's most recent catch, nil if none
func (r *CaughtMonsterRepository) GetLatest(ctx context.Context, guildID, userID int64) (*entities.CaughtMonster, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM caught_monsters
		WHERE guild_id = $1 AND user_id = $2
		ORDER BY caught_at DESC, id DESC
		LIMIT 1`, caughtMonsterColumns)

	cm, err := scanCaughtMonster(r.q.QueryRow(ctx, query, guildID, userID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest catch for %d/%d: %w", guildID, userID, err)
	}
	return cm, nil
}

// ListByOwner returns a player's monsters, newest first
func (r *CaughtMonsterRepository) ListByOwner(ctx context.Context, guildID, userID int64, limit int) ([]*entities.CaughtMonster, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM caught_monsters
		WHERE guild_id = $1 AND user_id = $2
		ORDER BY caught_at DESC, id DESC
		LIMIT $3`, caughtMonsterColumns)

	rows, err := r.q.Query(ctx, query, guildID, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list caught monsters for %d/%d: %w", guildID, userID, err)
	}
	defer rows.Close()

	var result []*entities.CaughtMonster
	for rows.Next() {
		cm, err := scanCaughtMonster(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan caught monster: %w", err)
		}
		result = append(result, cm)
	}
	return result, rows.Err()
}

// CountSpecies returns how many of one species a player owns
func (r *CaughtMonsterRepository) CountSpecies(ctx context.Context, guildID, userID, monsterID int64) (int, error) {
	query := `
		SELECT COUNT(*) FROM caught_monsters
		WHERE guild_id = $1 AND user_id = $2 AND monster_id = $3`

	var count int
	err := r.q.QueryRow(ctx, query, guildID, userID, monsterID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count species %d for %d/%d: %w", monsterID, guildID, userID, err)
	}
	return count, nil
}

// UpdateOwner reassigns a caught monster to another player
func (r *CaughtMonsterRepository) UpdateOwner(ctx context.Context, id, newUserID int64) error {
	query := `UPDATE caught_monsters SET user_id = $2 WHERE id = $1`

	tag, err := r.q.Exec(ctx, query, id, newUserID)
	if err != nil {
		return fmt.Errorf("failed to update owner of caught monster %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("caught monster %d not found", id)
	}
	return nil
}

// UpdateSpecies changes the species of a caught monster
func (r *CaughtMonsterRepository) UpdateSpecies(ctx context.Context, id, monsterID int64) error {
	query := `UPDATE caught_monsters SET monster_id = $2 WHERE id = $1`

	tag, err := r.q.Exec(ctx, query, id, monsterID)
	if err != nil {
		return fmt.Errorf("failed to update species of caught monster %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("caught monster %d not found", id)
	}
	return nil
}
