package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"gamify-hexad/internal/domain"
	"gamify-hexad/internal/repository"
)

// QuestionnaireService recibe el cuestionario HEXAD y dispara el calculo de la sugerencia.
type QuestionnaireService struct {
	answers   repository.AnswerRepository
	limiter   SubmissionLimiter
	logger    *zap.Logger
	suggestFn func(ctx context.Context, userID, courseID string) (SuggestionResult, error)
	now       func() time.Time
}

var (
	ErrQuestionnaireNotConfigured = errors.New("questionnaire service not configured")
	ErrQuestionnaireInvalidInput  = errors.New("questionnaire invalid input")
	ErrRateLimited                = errors.New("rate limited")
)

func NewQuestionnaireService(
	answers repository.AnswerRepository,
	suggestions *SuggestionService,
	limiter SubmissionLimiter,
	logger *zap.Logger,
) *QuestionnaireService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if limiter == nil {
		limiter = NewSubmissionLimiter(time.Minute, 5)
	}
	svc := &QuestionnaireService{
		answers: answers,
		limiter: limiter,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
	if suggestions != nil {
		svc.suggestFn = suggestions.Suggest
	}
	return svc
}

var hexadStatements = map[int]string{
	1:  "It makes me happy if I am able to help others.",
	2:  "Interacting with others is important to me.",
	3:  "I like helping others to orient themselves in new situations.",
	4:  "I like being part of a team.",
	5:  "I like mastering difficult tasks.",
	6:  "I enjoy emerging victorious out of difficult circumstances.",
	7:  "Being independent is important to me.",
	8:  "I like to provoke.",
	9:  "Rewards are a great way to motivate me.",
	10: "I often let my curiosity guide me.",
	11: "I like to question the status quo.",
	12: "If the reward is sufficient, I will put in the effort.",
}

// Questions devuelve las doce afirmaciones del cuestionario HEXAD-12.
func (s *QuestionnaireService) Questions() []domain.Question {
	questions := make([]domain.Question, 0, domain.QuestionCount)
	for id := 1; id <= domain.QuestionCount; id++ {
		trait, _ := domain.TraitForQuestion(id)
		questions = append(questions, domain.Question{
			ID:    id,
			Text:  hexadStatements[id],
			Trait: trait,
		})
	}
	return questions
}

// SubmitAnswers valida y guarda las respuestas (escala Likert 1-7) y recalcula la sugerencia.
// Se aceptan envios parciales: las preguntas sin responder aportan cero.
func (s *QuestionnaireService) SubmitAnswers(ctx context.Context, userID, courseID string, answers map[int]int) (SuggestionResult, error) {
	if s == nil || s.answers == nil || s.suggestFn == nil {
		return SuggestionResult{}, ErrQuestionnaireNotConfigured
	}
	userID = strings.TrimSpace(userID)
	courseID = strings.TrimSpace(courseID)
	if userID == "" || len(answers) == 0 {
		return SuggestionResult{}, ErrQuestionnaireInvalidInput
	}

	now := s.now()
	records := make([]domain.Answer, 0, len(answers))
	for id := 1; id <= domain.QuestionCount; id++ {
		score, ok := answers[id]
		if !ok {
			continue
		}
		if score < domain.AnswerMin || score > domain.AnswerMax {
			return SuggestionResult{}, fmt.Errorf("%w: question %d score %d outside %d-%d",
				ErrQuestionnaireInvalidInput, id, score, domain.AnswerMin, domain.AnswerMax)
		}
		records = append(records, domain.Answer{
			UserID:     userID,
			QuestionID: id,
			Score:      score,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}
	if len(records) != len(answers) {
		return SuggestionResult{}, fmt.Errorf("%w: unknown question id", ErrQuestionnaireInvalidInput)
	}

	if !s.limiter.Allow(userID) {
		return SuggestionResult{}, ErrRateLimited
	}

	if err := s.answers.UpsertMany(ctx, records); err != nil {
		return SuggestionResult{}, fmt.Errorf("save hexad answers: %w", err)
	}
	s.logger.Info("hexad answers saved", zap.String("user_id", userID), zap.Int("answers", len(records)))

	result, err := s.suggestFn(ctx, userID, courseID)
	if err != nil {
		return result, fmt.Errorf("compute hexad suggestion: %w", err)
	}
	return result, nil
}

// Recompute recalcula la sugerencia con las respuestas ya guardadas.
func (s *QuestionnaireService) Recompute(ctx context.Context, userID, courseID string) (SuggestionResult, error) {
	if s == nil || s.suggestFn == nil {
		return SuggestionResult{}, ErrQuestionnaireNotConfigured
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return SuggestionResult{}, ErrQuestionnaireInvalidInput
	}
	if !s.limiter.Allow(userID) {
		return SuggestionResult{}, ErrRateLimited
	}
	return s.suggestFn(ctx, userID, strings.TrimSpace(courseID))
}
