package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"gamify-hexad/internal/domain"
	"gamify-hexad/internal/repository"
)

// ScoringService convierte las respuestas del cuestionario en puntajes por rasgo.
type ScoringService struct {
	answers repository.AnswerRepository
	logger  *zap.Logger
}

func NewScoringService(answers repository.AnswerRepository, logger *zap.Logger) *ScoringService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScoringService{
		answers: answers,
		logger:  logger,
	}
}

// ComputeTraitScores lee las respuestas del usuario y las agrega por rasgo.
// Un usuario sin respuestas obtiene todos los rasgos en cero; solo fallan los errores de storage.
func (s *ScoringService) ComputeTraitScores(ctx context.Context, userID string) (domain.TraitScores, error) {
	answers, err := s.answers.FindByUserID(ctx, userID)
	if err != nil {
		return domain.TraitScores{}, fmt.Errorf("find answers for user %s: %w", userID, err)
	}
	scores := AggregateTraitScores(userID, answers)
	s.logger.Debug("trait scores computed",
		zap.String("user_id", userID),
		zap.Int("answers", len(answers)),
		zap.Any("scores", scores.AsMap()),
	)
	return scores, nil
}

// AggregateTraitScores suma los puntajes de cada rasgo segun la tabla pregunta -> rasgo.
// Se ignoran respuestas de otros usuarios y preguntas fuera de la tabla.
func AggregateTraitScores(userID string, answers []domain.Answer) domain.TraitScores {
	var scores domain.TraitScores
	for _, a := range answers {
		if a.UserID != userID {
			continue
		}
		trait, ok := domain.TraitForQuestion(a.QuestionID)
		if !ok {
			continue
		}
		// La tabla solo contiene rasgos validos.
		_ = scores.Add(trait, float64(a.Score))
	}
	return scores
}
