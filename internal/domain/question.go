package domain

import "time"

const (
	QuestionCount = 12
	AnswerMin     = 1
	AnswerMax     = 7
)

// questionTraits es la tabla fija pregunta -> rasgo (dos preguntas por rasgo).
var questionTraits = map[int]Trait{
	1:  TraitPhilanthropist,
	2:  TraitSocialiser,
	3:  TraitPhilanthropist,
	4:  TraitSocialiser,
	5:  TraitAchiever,
	6:  TraitAchiever,
	7:  TraitFreeSpirit,
	8:  TraitDisruptor,
	9:  TraitPlayer,
	10: TraitFreeSpirit,
	11: TraitDisruptor,
	12: TraitPlayer,
}

// TraitForQuestion indica a que rasgo aporta una pregunta.
func TraitForQuestion(questionID int) (Trait, bool) {
	t, ok := questionTraits[questionID]
	return t, ok
}

// QuestionsForTrait devuelve las preguntas asociadas a un rasgo, en orden ascendente.
func QuestionsForTrait(t Trait) []int {
	var ids []int
	for q := 1; q <= QuestionCount; q++ {
		if questionTraits[q] == t {
			ids = append(ids, q)
		}
	}
	return ids
}

type Question struct {
	ID    int    `json:"id"`
	Text  string `json:"text"`
	Trait Trait  `json:"trait"`
}

// Answer es la respuesta Likert de un usuario a una pregunta del cuestionario.
type Answer struct {
	UserID     string    `json:"user_id"`
	QuestionID int       `json:"question_id"`
	Score      int       `json:"score"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
