package model

import (
	"time"

	"github.com/google/uuid"
)

// QuizOption is one selectable answer of a quiz question.
type QuizOption struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
}

// QuizQuestion is a full question row including the answer key.
// It must never be serialized to the doer taking the quiz.
type QuizQuestion struct {
	ID               uuid.UUID    `json:"id"`
	Prompt           string       `json:"prompt"`
	Options          []QuizOption `json:"options"`
	CorrectOptionIDs []int        `json:"correct_option_ids"`
	OrderNum         int          `json:"order_num"`
}

// QuizQuestionForDoer is a question without the answer key, sent to doers.
type QuizQuestionForDoer struct {
	ID       uuid.UUID    `json:"id"`
	Prompt   string       `json:"prompt"`
	Options  []QuizOption `json:"options"`
	OrderNum int          `json:"order_num"`
}

// AnswerSet maps question id to the single selected option id.
type AnswerSet map[uuid.UUID]int

// ScoreResult is derived from a question set and an answer set.
type ScoreResult struct {
	CorrectCount   int     `json:"correct_count"`
	TotalQuestions int     `json:"total_questions"`
	Percentage     float64 `json:"percentage"`
}

// QuizAttempt is the immutable record of one scoring event.
type QuizAttempt struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	AttemptNumber  int       `json:"attempt_number"`
	CorrectCount   int       `json:"correct_count"`
	TotalQuestions int       `json:"total_questions"`
	Percentage     float64   `json:"percentage"`
	Passed         bool      `json:"passed"`
	Answers        AnswerSet `json:"answers"`
	StartedAt      time.Time `json:"started_at"`
	SubmittedAt    time.Time `json:"submitted_at"`
}

// SubmitQuizRequest is the payload for one quiz attempt.
type SubmitQuizRequest struct {
	Answers   AnswerSet  `json:"answers" binding:"required"`
	StartedAt *time.Time `json:"started_at" binding:"omitempty"`
}

// QuizSubmission is the outcome of a submit call. A rate-limited call
// carries no attempt.
type QuizSubmission struct {
	RateLimited       bool         `json:"rate_limited"`
	RetryAfterMinutes int          `json:"retry_after_minutes,omitempty"`
	Attempt           *QuizAttempt `json:"attempt,omitempty"`
	Score             *ScoreResult `json:"score,omitempty"`
	Passed            bool         `json:"passed"`
	RemainingAttempts int          `json:"remaining_attempts"`
}
