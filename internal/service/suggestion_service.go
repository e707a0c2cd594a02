package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"gamify-hexad/internal/domain"
	"gamify-hexad/internal/event"
	"gamify-hexad/internal/repository"
)

var (
	ErrNoSuggestion            = errors.New("no suggestion available")
	ErrProfileNotFound         = errors.New("hexad profile not found")
	ErrSuggestionNotConfigured = errors.New("suggestion service not configured")
	ErrSuggestionInvalidUserID = errors.New("suggestion invalid user id")
)

// SuggestionResult resume un calculo completo para un usuario.
type SuggestionResult struct {
	UserID       string                `json:"user_id"`
	CourseID     string                `json:"course_id,omitempty"`
	Traits       domain.TraitScores    `json:"traits"`
	Ranking      []domain.ElementScore `json:"ranking"`
	Suggestion   domain.ElementType    `json:"suggestion"`
	Attributions []domain.Attribution  `json:"attributions"`
}

// StoredProfile es el perfil guardado junto con sus puntajes decodificados.
type StoredProfile struct {
	Profile        domain.Profile                 `json:"profile"`
	CombinedScores map[domain.ElementType]float64 `json:"combined_scores"`
	Attributions   []domain.Attribution           `json:"attributions"`
}

// SuggestionService orquesta agregacion, ranking y persistencia de la sugerencia HEXAD.
type SuggestionService struct {
	scoring      *ScoringService
	matrix       domain.AffinityMatrix
	profiles     repository.ProfileRepository
	elements     repository.GameElementRepository
	attributions repository.AttributionRepository
	publisher    event.Publisher
	observer     SuggestionObserver
	logger       *zap.Logger
	now          func() time.Time
}

func NewSuggestionService(
	scoring *ScoringService,
	matrix domain.AffinityMatrix,
	profiles repository.ProfileRepository,
	elements repository.GameElementRepository,
	attributions repository.AttributionRepository,
	publisher event.Publisher,
	observer SuggestionObserver,
	logger *zap.Logger,
) *SuggestionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SuggestionService{
		scoring:      scoring,
		matrix:       matrix,
		profiles:     profiles,
		elements:     elements,
		attributions: attributions,
		publisher:    publisher,
		observer:     observer,
		logger:       logger,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Suggest lee las respuestas del usuario, rankea los elementos, guarda el mejor y crea
// las atribuciones correspondientes en el curso.
func (s *SuggestionService) Suggest(ctx context.Context, userID, courseID string) (SuggestionResult, error) {
	if s == nil || s.scoring == nil || s.profiles == nil {
		return SuggestionResult{}, ErrSuggestionNotConfigured
	}
	if userID == "" {
		return SuggestionResult{}, ErrSuggestionInvalidUserID
	}

	start := time.Now()
	result, err := s.suggest(ctx, userID, courseID)
	if s.observer != nil {
		s.observer.RecordSuggestion(time.Since(start), result.Suggestion, len(result.Attributions), err)
	}
	if err != nil {
		return result, err
	}

	s.publish(ctx, result)
	s.logger.Info("hexad suggestion computed",
		zap.String("user_id", userID),
		zap.String("course_id", courseID),
		zap.String("suggestion", string(result.Suggestion)),
		zap.Int("attributions", len(result.Attributions)),
	)
	return result, nil
}

func (s *SuggestionService) suggest(ctx context.Context, userID, courseID string) (SuggestionResult, error) {
	result := SuggestionResult{UserID: userID, CourseID: courseID}

	traits, err := s.scoring.ComputeTraitScores(ctx, userID)
	if err != nil {
		return result, err
	}
	result.Traits = traits
	result.Ranking = RankElements(traits, s.matrix)

	suggestion, ok := TopSuggestion(result.Ranking)
	if !ok {
		return result, ErrNoSuggestion
	}
	result.Suggestion = suggestion

	attributions, err := s.PersistSuggestion(ctx, userID, courseID, suggestion, result.Ranking)
	if err != nil {
		return result, err
	}
	result.Attributions = attributions
	return result, nil
}

// PersistSuggestion crea o actualiza el perfil del usuario y atribuye cada elemento del
// tipo sugerido. Los errores de storage se devuelven sin reintentos.
// Dos requests simultaneos del mismo usuario se pisan: gana la ultima escritura.
func (s *SuggestionService) PersistSuggestion(
	ctx context.Context,
	userID, courseID string,
	suggestion domain.ElementType,
	combined []domain.ElementScore,
) ([]domain.Attribution, error) {
	if suggestion == "" {
		return nil, ErrNoSuggestion
	}
	encoded, err := domain.EncodeCombinedScores(combined)
	if err != nil {
		return nil, err
	}

	now := s.now()
	profile, err := s.profiles.GetByUserID(ctx, userID)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		profile = domain.Profile{
			ID:             uuid.NewString(),
			UserID:         userID,
			Suggestion:     suggestion,
			CombinedScores: encoded,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := s.profiles.Create(ctx, profile); err != nil {
			return nil, fmt.Errorf("create hexad profile: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("get hexad profile for user %s: %w", userID, err)
	default:
		profile.Suggestion = suggestion
		profile.CombinedScores = encoded
		profile.UpdatedAt = now
		if err := s.profiles.Update(ctx, profile); err != nil {
			return nil, fmt.Errorf("update hexad profile: %w", err)
		}
	}

	if s.elements == nil || s.attributions == nil {
		return nil, nil
	}
	elementIDs, err := s.elements.FindForSuggestion(ctx, suggestion, courseID)
	if err != nil {
		return nil, fmt.Errorf("find %s elements for course %s: %w", suggestion, courseID, err)
	}

	attributions := make([]domain.Attribution, 0, len(elementIDs))
	for _, elementID := range elementIDs {
		a := domain.Attribution{
			ID:            uuid.NewString(),
			GameElementID: elementID,
			UserID:        userID,
			CreatedAt:     now,
		}
		if err := s.attributions.Create(ctx, a); err != nil {
			return attributions, fmt.Errorf("create attribution for element %s: %w", elementID, err)
		}
		attributions = append(attributions, a)
	}
	return attributions, nil
}

// GetProfile devuelve el perfil guardado del usuario.
func (s *SuggestionService) GetProfile(ctx context.Context, userID string) (StoredProfile, error) {
	if s == nil || s.profiles == nil {
		return StoredProfile{}, ErrSuggestionNotConfigured
	}
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return StoredProfile{}, ErrProfileNotFound
	}
	if err != nil {
		return StoredProfile{}, fmt.Errorf("get hexad profile for user %s: %w", userID, err)
	}
	scores, err := domain.DecodeCombinedScores(profile.CombinedScores)
	if err != nil {
		return StoredProfile{}, err
	}
	stored := StoredProfile{Profile: profile, CombinedScores: scores, Attributions: []domain.Attribution{}}
	if s.attributions != nil {
		attributions, err := s.attributions.FindByUserID(ctx, userID)
		if err != nil {
			return StoredProfile{}, fmt.Errorf("find attributions for user %s: %w", userID, err)
		}
		if attributions != nil {
			stored.Attributions = attributions
		}
	}
	return stored, nil
}

func (s *SuggestionService) publish(ctx context.Context, result SuggestionResult) {
	if s.publisher == nil {
		return
	}
	scores := make(map[string]float64, len(result.Ranking))
	for _, es := range result.Ranking {
		scores[string(es.Element)] = es.Score
	}
	ids := make([]string, 0, len(result.Attributions))
	for _, a := range result.Attributions {
		ids = append(ids, a.GameElementID)
	}
	err := s.publisher.PublishSuggestion(ctx, event.SuggestionEvent{
		EventType:      event.EventSuggestionComputed,
		UserID:         result.UserID,
		CourseID:       result.CourseID,
		Suggestion:     string(result.Suggestion),
		CombinedScores: scores,
		Attributions:   ids,
		OccurredAt:     s.now(),
	})
	if err != nil {
		// La sugerencia ya quedo persistida; el evento es best-effort.
		s.logger.Warn("publish suggestion event failed", zap.Error(err), zap.String("user_id", result.UserID))
	}
}
