package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"gamify-hexad/internal/domain"
)

type AttributionRepository interface {
	Create(ctx context.Context, attribution domain.Attribution) error
	FindByUserID(ctx context.Context, userID string) ([]domain.Attribution, error)
}

type PgAttributionRepository struct {
	pool *pgxpool.Pool
}

func NewPgAttributionRepository(pool *pgxpool.Pool) *PgAttributionRepository {
	return &PgAttributionRepository{pool: pool}
}

// Create es idempotente por (game_element_id, user_id).
func (r *PgAttributionRepository) Create(ctx context.Context, attribution domain.Attribution) error {
	const query = `
		INSERT INTO element_attributions (id, game_element_id, user_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (game_element_id, user_id) DO NOTHING
	`
	_, err := r.pool.Exec(ctx, query,
		attribution.ID,
		attribution.GameElementID,
		attribution.UserID,
		attribution.CreatedAt,
	)
	return err
}

func (r *PgAttributionRepository) FindByUserID(ctx context.Context, userID string) ([]domain.Attribution, error) {
	const query = `
		SELECT id, game_element_id, user_id, created_at
		FROM element_attributions
		WHERE user_id = $1
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Attribution
	for rows.Next() {
		var a domain.Attribution
		if err := rows.Scan(&a.ID, &a.GameElementID, &a.UserID, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}
