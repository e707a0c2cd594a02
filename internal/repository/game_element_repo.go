package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"gamify-hexad/internal/domain"
)

// GameElementRepository resuelve que instancias gamificadas corresponden a una sugerencia.
type GameElementRepository interface {
	Create(ctx context.Context, element domain.GameElement) error
	FindForSuggestion(ctx context.Context, suggestion domain.ElementType, courseID string) ([]string, error)
}

type PgGameElementRepository struct {
	pool *pgxpool.Pool
}

func NewPgGameElementRepository(pool *pgxpool.Pool) *PgGameElementRepository {
	return &PgGameElementRepository{pool: pool}
}

func (r *PgGameElementRepository) Create(ctx context.Context, element domain.GameElement) error {
	const query = `
		INSERT INTO game_elements (id, course_id, module_id, type, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query,
		element.ID,
		element.CourseID,
		element.ModuleID,
		string(element.Type),
		element.CreatedAt,
	)
	return err
}

// FindForSuggestion devuelve los ids de los elementos del curso (y sus actividades) del tipo sugerido.
func (r *PgGameElementRepository) FindForSuggestion(ctx context.Context, suggestion domain.ElementType, courseID string) ([]string, error) {
	const query = `
		SELECT id
		FROM game_elements
		WHERE type = $1 AND course_id = $2
		ORDER BY created_at, id
	`

	rows, err := r.pool.Query(ctx, query, string(suggestion), courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}
