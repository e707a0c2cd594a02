package service

import (
	"math"
	"sort"

	"gamify-hexad/internal/domain"
)

// round2 redondea a dos decimales, con los medios alejandose de cero.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// RankElements combina los puntajes del usuario con la matriz de afinidad.
// Para cada elemento: suma sobre rasgos de round2(puntaje * round2(peso)); las entradas
// ausentes de la matriz no aportan. El doble redondeo mantiene compatibilidad con
// sugerencias ya guardadas.
// El resultado siempre tiene los seis elementos, ordenados de mayor a menor; los empates
// respetan el orden fijo de domain.AllElementTypes.
func RankElements(scores domain.TraitScores, matrix domain.AffinityMatrix) []domain.ElementScore {
	elements := domain.AllElementTypes()
	ranked := make([]domain.ElementScore, 0, len(elements))
	for _, e := range elements {
		total := 0.0
		for _, t := range domain.AllTraits() {
			w, ok := matrix.Weight(e, t)
			if !ok {
				continue
			}
			v, _ := scores.Get(t)
			total += round2(v * round2(w))
		}
		ranked = append(ranked, domain.ElementScore{Element: e, Score: total})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// TopSuggestion devuelve el primer elemento del ranking; ok=false si esta vacio.
func TopSuggestion(ranked []domain.ElementScore) (domain.ElementType, bool) {
	if len(ranked) == 0 {
		return "", false
	}
	return ranked[0].Element, true
}
