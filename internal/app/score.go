package app

import (
	"fmt"
	"math"

	"github.com/kitikazis/ELAC-Lectura/internal/domain"
)

// Evaluate compares submitted answers against the correct indices.
// answers must match questions in length and order; the unanswered sentinel
// never equals a correct index, so skipped questions count as incorrect.
// An empty quiz scores 0 of 0 at 0%, not an error.
func Evaluate(questions []domain.Question, answers []int) (domain.Score, error) {
	if len(answers) != len(questions) {
		return domain.Score{}, fmt.Errorf("%w: %d answers for %d questions", domain.ErrValidation, len(answers), len(questions))
	}

	score := domain.Score{Total: len(questions)}
	for i, q := range questions {
		if answers[i] == q.Correct {
			score.Correct++
		}
	}
	if score.Total > 0 {
		score.Percentage = int(math.Round(100 * float64(score.Correct) / float64(score.Total)))
	}
	return score, nil
}
