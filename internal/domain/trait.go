package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Trait identifica uno de los seis perfiles motivacionales HEXAD.
type Trait string

const (
	TraitAchiever       Trait = "achiever"
	TraitPlayer         Trait = "player"
	TraitSocialiser     Trait = "socialiser"
	TraitFreeSpirit     Trait = "free_spirit"
	TraitDisruptor      Trait = "disruptor"
	TraitPhilanthropist Trait = "philanthropist"
)

var ErrUnknownTrait = errors.New("unknown trait")

var allTraits = []Trait{
	TraitAchiever,
	TraitPlayer,
	TraitSocialiser,
	TraitFreeSpirit,
	TraitDisruptor,
	TraitPhilanthropist,
}

// AllTraits devuelve los rasgos en orden fijo.
func AllTraits() []Trait {
	out := make([]Trait, len(allTraits))
	copy(out, allTraits)
	return out
}

// ParseTrait normaliza el nombre y falla con ErrUnknownTrait si no corresponde a ningun rasgo.
func ParseTrait(name string) (Trait, error) {
	candidate := Trait(strings.ToLower(strings.TrimSpace(name)))
	for _, t := range allTraits {
		if t == candidate {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTrait, name)
}

// TraitScores acumula los puntajes de cada rasgo. El valor cero es un perfil vacio.
type TraitScores struct {
	Achiever       float64 `json:"achiever"`
	Player         float64 `json:"player"`
	Socialiser     float64 `json:"socialiser"`
	FreeSpirit     float64 `json:"free_spirit"`
	Disruptor      float64 `json:"disruptor"`
	Philanthropist float64 `json:"philanthropist"`
}

func (s *TraitScores) field(t Trait) (*float64, error) {
	switch t {
	case TraitAchiever:
		return &s.Achiever, nil
	case TraitPlayer:
		return &s.Player, nil
	case TraitSocialiser:
		return &s.Socialiser, nil
	case TraitFreeSpirit:
		return &s.FreeSpirit, nil
	case TraitDisruptor:
		return &s.Disruptor, nil
	case TraitPhilanthropist:
		return &s.Philanthropist, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownTrait, string(t))
}

// Get devuelve el puntaje de un rasgo.
func (s TraitScores) Get(t Trait) (float64, error) {
	f, err := s.field(t)
	if err != nil {
		return 0, err
	}
	return *f, nil
}

// Add suma value al rasgo indicado.
func (s *TraitScores) Add(t Trait, value float64) error {
	f, err := s.field(t)
	if err != nil {
		return err
	}
	*f += value
	return nil
}

// AsMap expone los puntajes indexados por nombre de rasgo.
func (s TraitScores) AsMap() map[string]float64 {
	out := make(map[string]float64, len(allTraits))
	for _, t := range allTraits {
		v, _ := s.Get(t)
		out[string(t)] = v
	}
	return out
}
