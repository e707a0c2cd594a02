package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gamify-hexad/internal/domain"
)

// AnswerRepository define el acceso a las respuestas del cuestionario HEXAD.
type AnswerRepository interface {
	UpsertMany(ctx context.Context, answers []domain.Answer) error
	FindByUserID(ctx context.Context, userID string) ([]domain.Answer, error)
}

type PgAnswerRepository struct {
	pool *pgxpool.Pool
}

func NewPgAnswerRepository(pool *pgxpool.Pool) *PgAnswerRepository {
	return &PgAnswerRepository{pool: pool}
}

// UpsertMany guarda todas las respuestas en un unico batch.
func (r *PgAnswerRepository) UpsertMany(ctx context.Context, answers []domain.Answer) error {
	const query = `
		INSERT INTO hexad_answers (user_id, question_id, score, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, question_id)
		DO UPDATE SET
			score = EXCLUDED.score,
			updated_at = EXCLUDED.updated_at
	`
	if len(answers) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, a := range answers {
		batch.Queue(query, a.UserID, a.QuestionID, a.Score, a.CreatedAt, a.UpdatedAt)
	}
	return r.pool.SendBatch(ctx, batch).Close()
}

func (r *PgAnswerRepository) FindByUserID(ctx context.Context, userID string) ([]domain.Answer, error) {
	const query = `
		SELECT user_id, question_id, score, created_at, updated_at
		FROM hexad_answers
		WHERE user_id = $1
		ORDER BY question_id
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var answers []domain.Answer
	for rows.Next() {
		var a domain.Answer
		if err := rows.Scan(
			&a.UserID,
			&a.QuestionID,
			&a.Score,
			&a.CreatedAt,
			&a.UpdatedAt,
		); err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return answers, nil
}
