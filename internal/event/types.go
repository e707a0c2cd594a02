package event

import "time"

type EventType string

const (
	EventSuggestionComputed EventType = "hexad.suggestion.computed"
)

// SuggestionEvent notifica al resto de la plataforma que un usuario tiene nueva sugerencia.
type SuggestionEvent struct {
	EventType      EventType          `json:"event_type"`
	UserID         string             `json:"user_id"`
	CourseID       string             `json:"course_id,omitempty"`
	Suggestion     string             `json:"suggestion"`
	CombinedScores map[string]float64 `json:"combined_scores"`
	Attributions   []string           `json:"attributions,omitempty"`
	OccurredAt     time.Time          `json:"occurred_at"`
}
