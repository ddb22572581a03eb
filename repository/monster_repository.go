package repository

import (
	"context"
	"fmt"

	"smokeybot/database"
	"smokeybot/domain/entities"

	"github.com/jackc/pgx/v5"
)

// MonsterRepository reads the monster catalog
type MonsterRepository struct {
	q Queryable
}

// NewMonsterRepository creates a repository over the pool
func NewMonsterRepository(db *database.DB) *MonsterRepository {
	return &MonsterRepository{q: db.Pool}
}

func newMonsterRepository(tx Queryable) *MonsterRepository {
	return &MonsterRepository{q: tx}
}

const monsterColumns = `id, name_english, name_japanese, artwork_url, category, base_weight, currency_reward, evolves_to`

func scanMonster(row pgx.Row) (*entities.Monster, error) {
	var m entities.Monster
	err := row.Scan(
		&m.ID,
		&m.NameEnglish,
		&m.NameJapanese,
		&m.ArtworkURL,
		&m.Category,
		&m.BaseWeight,
		&m.CurrencyReward,
		&m.EvolvesTo,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// GetByID returns one catalog entry, nil if absent
func (r *MonsterRepository) GetByID(ctx context.Context, id int64) (*entities.Monster, error) {
	query := fmt.Sprintf(`SELECT %s FROM monsters WHERE id = $1`, monsterColumns)

	m, err := scanMonster(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get monster %d: %w", id, err)
	}
	return m, nil
}

// ListSpawnCandidates returns every entry with a positive spawn weight
func (r *MonsterRepository) ListSpawnCandidates(ctx context.Context) ([]*entities.Monster, error) {
	query := fmt.Sprintf(`SELECT %s FROM monsters WHERE base_weight > 0 ORDER BY id`, monsterColumns)

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list spawn candidates: %w", err)
	}
	defer rows.Close()

	var result []*entities.Monster
	for rows.Next() {
		m, err := scanMonster(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan monster: %w", err)
		}
		result = append(result, m)
	}
	return result, rows.Err()
}
