package game

import (
	"math/rand"

	"github.com/Croissanton/Quiziosity/internal/domain"
)

// Evaluate decides whether the selected answer matches the correct one.
// Comparison is verbatim, case-sensitive. An empty selection means the timer
// ran out and is never correct.
func Evaluate(selected, correct string) bool {
	return selected != "" && selected == correct
}

// ShuffleOptions builds the display options for a question: the correct answer
// and the incorrect ones in random order. Re-derived every time a question is
// shown, never stored with the question.
func ShuffleOptions(rnd *rand.Rand, q domain.Question) []string {
	options := make([]string, 0, len(q.IncorrectAnswers)+1)
	options = append(options, q.CorrectAnswer)
	options = append(options, q.IncorrectAnswers...)
	for i := len(options) - 1; i > 0; i-- {
		j := rnd.Intn(i + 1)
		options[i], options[j] = options[j], options[i]
	}
	return options
}
