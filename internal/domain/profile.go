package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Profile guarda la sugerencia vigente de un usuario. Hay uno solo por usuario.
type Profile struct {
	ID             string      `json:"id"`
	UserID         string      `json:"user_id"`
	Suggestion     ElementType `json:"suggestion"`
	CombinedScores string      `json:"combined_scores"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// Attribution vincula un elemento gamificado con un usuario.
type Attribution struct {
	ID            string    `json:"id"`
	GameElementID string    `json:"game_element_id"`
	UserID        string    `json:"user_id"`
	CreatedAt     time.Time `json:"created_at"`
}

// EncodeCombinedScores serializa el ranking como objeto JSON {"elemento": puntaje}.
// encoding/json ordena las claves, por lo que la salida es estable.
func EncodeCombinedScores(scores []ElementScore) (string, error) {
	m := make(map[ElementType]float64, len(scores))
	for _, s := range scores {
		m[s.Element] = s.Score
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("encode combined scores: %w", err)
	}
	return string(b), nil
}

// DecodeCombinedScores es la inversa de EncodeCombinedScores.
func DecodeCombinedScores(raw string) (map[ElementType]float64, error) {
	out := map[ElementType]float64{}
	if raw == "" {
		return out, nil
	}
	var decoded map[string]float64
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, fmt.Errorf("decode combined scores: %w", err)
	}
	for name, v := range decoded {
		e, err := ParseElementType(name)
		if err != nil {
			return nil, fmt.Errorf("decode combined scores: %w", err)
		}
		out[e] = v
	}
	return out, nil
}
