package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gamify-hexad/internal/domain"
	"gamify-hexad/internal/service"
)

// HexadHandler expone el cuestionario y la sugerencia HEXAD.
type HexadHandler struct {
	logger        *zap.Logger
	questionnaire *service.QuestionnaireService
	suggestions   *service.SuggestionService
}

// NewHexadHandler crea una instancia de HexadHandler con dependencias necesarias.
func NewHexadHandler(
	logger *zap.Logger,
	questionnaire *service.QuestionnaireService,
	suggestions *service.SuggestionService,
) *HexadHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HexadHandler{
		logger:        logger,
		questionnaire: questionnaire,
		suggestions:   suggestions,
	}
}

// suggestionResponse usa punteros para que una sugerencia ausente salga como null.
type suggestionResponse struct {
	UserID       string                `json:"user_id"`
	CourseID     string                `json:"course_id,omitempty"`
	Traits       domain.TraitScores    `json:"traits"`
	Ranking      []domain.ElementScore `json:"ranking"`
	Suggestion   *domain.ElementType   `json:"suggestion"`
	Attributions []domain.Attribution  `json:"attributions"`
}

func toSuggestionResponse(r service.SuggestionResult) suggestionResponse {
	resp := suggestionResponse{
		UserID:       r.UserID,
		CourseID:     r.CourseID,
		Traits:       r.Traits,
		Ranking:      r.Ranking,
		Attributions: r.Attributions,
	}
	if resp.Ranking == nil {
		resp.Ranking = []domain.ElementScore{}
	}
	if resp.Attributions == nil {
		resp.Attributions = []domain.Attribution{}
	}
	if r.Suggestion != "" {
		s := r.Suggestion
		resp.Suggestion = &s
	}
	return resp
}

// GetQuestions maneja GET /hexad/questions.
func (h *HexadHandler) GetQuestions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"questions": h.questionnaire.Questions()})
}

// SubmitAnswers maneja POST /hexad/answers.
func (h *HexadHandler) SubmitAnswers(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req struct {
		CourseID string         `json:"course_id"`
		Answers  map[string]int `json:"answers" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid hexad answers request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	answers := make(map[int]int, len(req.Answers))
	for key, score := range req.Answers {
		id, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "question ids must be numeric"})
			return
		}
		answers[id] = score
	}

	result, err := h.questionnaire.SubmitAnswers(c.Request.Context(), claims.UserID, courseFor(req.CourseID, claims), answers)
	h.respondSuggestion(c, result, err)
}

// Recompute maneja POST /hexad/suggestion y recalcula con las respuestas guardadas.
func (h *HexadHandler) Recompute(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req struct {
		CourseID string `json:"course_id"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
	}

	result, err := h.questionnaire.Recompute(c.Request.Context(), claims.UserID, courseFor(req.CourseID, claims))
	h.respondSuggestion(c, result, err)
}

// GetProfile maneja GET /hexad/profile.
func (h *HexadHandler) GetProfile(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	stored, err := h.suggestions.GetProfile(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		h.logger.Error("get hexad profile failed", zap.Error(err), zap.String("user_id", claims.UserID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch profile"})
		return
	}

	c.JSON(http.StatusOK, stored)
}

func (h *HexadHandler) respondSuggestion(c *gin.Context, result service.SuggestionResult, err error) {
	switch {
	case err == nil, errors.Is(err, service.ErrNoSuggestion):
		c.JSON(http.StatusOK, toSuggestionResponse(result))
	case errors.Is(err, service.ErrQuestionnaireInvalidInput), errors.Is(err, service.ErrSuggestionInvalidUserID):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many submissions"})
	default:
		h.logger.Error("hexad suggestion failed", zap.Error(err), zap.String("user_id", result.UserID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not compute suggestion"})
	}
}

// courseFor usa el curso del body y cae al del token si no viene.
func courseFor(requested string, claims service.Claims) string {
	if strings.TrimSpace(requested) != "" {
		return requested
	}
	return claims.CourseID
}
