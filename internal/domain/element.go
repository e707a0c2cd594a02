package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// ElementType es una mecanica de gamificacion que puede sugerirse a un usuario.
type ElementType string

const (
	ElementAvatar   ElementType = "avatar"
	ElementBadge    ElementType = "badge"
	ElementProgress ElementType = "progress"
	ElementRanking  ElementType = "ranking"
	ElementScore    ElementType = "score"
	ElementTimer    ElementType = "timer"
)

var (
	ErrUnknownElement   = errors.New("unknown game element")
	ErrWeightOutOfRange = errors.New("affinity weight out of range")
)

const (
	MinAffinityWeight = -1.0
	MaxAffinityWeight = 1.0
)

var allElementTypes = []ElementType{
	ElementAvatar,
	ElementBadge,
	ElementProgress,
	ElementRanking,
	ElementScore,
	ElementTimer,
}

// AllElementTypes devuelve los elementos en el orden usado para desempatar el ranking.
func AllElementTypes() []ElementType {
	out := make([]ElementType, len(allElementTypes))
	copy(out, allElementTypes)
	return out
}

func ParseElementType(name string) (ElementType, error) {
	candidate := ElementType(strings.ToLower(strings.TrimSpace(name)))
	for _, e := range allElementTypes {
		if e == candidate {
			return e, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownElement, name)
}

// AffinityMatrix pondera cuanto atrae cada elemento a cada rasgo.
// Se carga una sola vez y no se modifica despues.
type AffinityMatrix map[ElementType]map[Trait]float64

// Weight devuelve el peso de (elemento, rasgo); ok=false si la entrada no existe.
func (m AffinityMatrix) Weight(e ElementType, t Trait) (float64, bool) {
	row, ok := m[e]
	if !ok {
		return 0, false
	}
	w, ok := row[t]
	return w, ok
}

// Validate verifica que todos los pesos sean finitos y esten dentro del rango permitido.
func (m AffinityMatrix) Validate() error {
	for e, row := range m {
		if _, err := ParseElementType(string(e)); err != nil {
			return err
		}
		for t, w := range row {
			if _, err := ParseTrait(string(t)); err != nil {
				return fmt.Errorf("element %s: %w", e, err)
			}
			if math.IsNaN(w) || w < MinAffinityWeight || w > MaxAffinityWeight {
				return fmt.Errorf("%w: %s.%s=%v", ErrWeightOutOfRange, e, t, w)
			}
		}
	}
	return nil
}

// ElementScore es el puntaje combinado de un elemento para un usuario.
type ElementScore struct {
	Element ElementType `json:"element"`
	Score   float64     `json:"score"`
}

// GameElement es una instancia gamificada de un curso o actividad.
type GameElement struct {
	ID        string      `json:"id"`
	CourseID  string      `json:"course_id"`
	ModuleID  *string     `json:"module_id,omitempty"`
	Type      ElementType `json:"type"`
	CreatedAt time.Time   `json:"created_at"`
}
