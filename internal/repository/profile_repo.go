package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gamify-hexad/internal/domain"
)

// ProfileRepository persiste la sugerencia HEXAD de cada usuario.
// GetByUserID devuelve pgx.ErrNoRows cuando el usuario todavia no tiene perfil.
type ProfileRepository interface {
	Create(ctx context.Context, profile domain.Profile) error
	Update(ctx context.Context, profile domain.Profile) error
	GetByUserID(ctx context.Context, userID string) (domain.Profile, error)
}

type PgProfileRepository struct {
	pool *pgxpool.Pool
}

func NewPgProfileRepository(pool *pgxpool.Pool) *PgProfileRepository {
	return &PgProfileRepository{pool: pool}
}

func (r *PgProfileRepository) Create(ctx context.Context, profile domain.Profile) error {
	const query = `
		INSERT INTO hexad_profiles (id, user_id, suggestion, combined_scores, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		profile.ID,
		profile.UserID,
		string(profile.Suggestion),
		profile.CombinedScores,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	return err
}

func (r *PgProfileRepository) Update(ctx context.Context, profile domain.Profile) error {
	const query = `
		UPDATE hexad_profiles
		SET suggestion = $2, combined_scores = $3, updated_at = $4
		WHERE user_id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		profile.UserID,
		string(profile.Suggestion),
		profile.CombinedScores,
		profile.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgProfileRepository) GetByUserID(ctx context.Context, userID string) (domain.Profile, error) {
	const query = `
		SELECT id, user_id, suggestion, combined_scores, created_at, updated_at
		FROM hexad_profiles
		WHERE user_id = $1
	`
	var (
		profile    domain.Profile
		suggestion string
	)
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&profile.ID,
		&profile.UserID,
		&suggestion,
		&profile.CombinedScores,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Profile{}, err
	}
	profile.Suggestion = domain.ElementType(suggestion)
	return profile, err
}
