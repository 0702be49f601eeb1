// Package scoring grades onboarding quiz answers against the answer key.
//
// Everything here is pure. It is only ever called on the server, with the
// full question rows loaded from the database; the doer receives the
// ScoreResult, never the CorrectOptionIDs.
package scoring

import (
	"errors"
	"fmt"
	"slices"

	"github.com/doerhub/doerhub-backend/internal/model"
)

const (
	// DefaultPassingThreshold is the minimum percentage that passes the quiz.
	DefaultPassingThreshold = 80.0
	// DefaultMaxAttempts is the number of attempts allowed per window.
	DefaultMaxAttempts = 3
)

var (
	ErrNoCorrectOptions = errors.New("question has no correct option")
	ErrUnknownOption    = errors.New("correct option does not reference an existing option")
)

// CalculateScore counts the questions whose selected option is one of the
// accepted options. Unanswered questions are incorrect.
func CalculateScore(questions []model.QuizQuestion, answers model.AnswerSet) model.ScoreResult {
	correct := 0
	for i := range questions {
		selected, ok := answers[questions[i].ID]
		if !ok {
			continue
		}
		if IsAnswerCorrect(questions[i], &selected) {
			correct++
		}
	}

	total := len(questions)
	var percentage float64
	if total > 0 {
		percentage = float64(correct) / float64(total) * 100
	}

	return model.ScoreResult{
		CorrectCount:   correct,
		TotalQuestions: total,
		Percentage:     percentage,
	}
}

// IsPassed reports whether percentage reaches threshold (inclusive).
func IsPassed(percentage, threshold float64) bool {
	return percentage >= threshold
}

// IsAnswerCorrect reports whether selected is a member of the question's
// accepted options. A nil selection is never correct.
func IsAnswerCorrect(q model.QuizQuestion, selected *int) bool {
	if selected == nil {
		return false
	}
	return slices.Contains(q.CorrectOptionIDs, *selected)
}

// RemainingAttempts never goes below zero.
func RemainingAttempts(previousAttempts, maxAttempts int) int {
	return max(0, maxAttempts-previousAttempts)
}

// ValidateQuestion checks the answer key invariant: at least one correct
// option, each referencing an option of the question.
func ValidateQuestion(q model.QuizQuestion) error {
	if len(q.CorrectOptionIDs) == 0 {
		return fmt.Errorf("question %s: %w", q.ID, ErrNoCorrectOptions)
	}
	for _, id := range q.CorrectOptionIDs {
		found := slices.ContainsFunc(q.Options, func(o model.QuizOption) bool {
			return o.ID == id
		})
		if !found {
			return fmt.Errorf("question %s option %d: %w", q.ID, id, ErrUnknownOption)
		}
	}
	return nil
}
