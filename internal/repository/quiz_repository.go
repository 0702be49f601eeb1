package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/doerhub/doerhub-backend/internal/model"
	"github.com/doerhub/doerhub-backend/internal/scoring"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// insertAttemptRetries bounds retries when two submissions race for the
// same attempt number.
const insertAttemptRetries = 3

var ErrAttemptNumberConflict = errors.New("could not assign a quiz attempt number")

const attemptColumns = `id, user_id, attempt_number, correct_count, total_questions, percentage, passed, answers, started_at, submitted_at`

// QuizRepository handles quiz question and attempt data access.
type QuizRepository struct {
	pool *pgxpool.Pool
}

// NewQuizRepository creates a new QuizRepository.
func NewQuizRepository(pool *pgxpool.Pool) *QuizRepository {
	return &QuizRepository{pool: pool}
}

// ListActiveQuestions returns the active questions including the answer key,
// in display order. Rows that break the question invariants are rejected
// here, before they can reach scoring.
func (r *QuizRepository) ListActiveQuestions(ctx context.Context) ([]model.QuizQuestion, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, prompt, options, correct_option_ids, order_num
		 FROM quiz_questions
		 WHERE is_active
		 ORDER BY order_num, id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.QuizQuestion
	for rows.Next() {
		var q model.QuizQuestion
		if err := rows.Scan(&q.ID, &q.Prompt, &q.Options, &q.CorrectOptionIDs, &q.OrderNum); err != nil {
			return nil, err
		}
		if err := scoring.ValidateQuestion(q); err != nil {
			return nil, fmt.Errorf("question %s: %w", q.ID, err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// CreateQuestions bulk-loads questions with CopyFrom.
func (r *QuizRepository) CreateQuestions(ctx context.Context, questions []model.QuizQuestion) (int64, error) {
	return r.pool.CopyFrom(
		ctx,
		pgx.Identifier{"quiz_questions"},
		[]string{"id", "prompt", "options", "correct_option_ids", "order_num"},
		pgx.CopyFromSlice(len(questions), func(i int) ([]interface{}, error) {
			q := questions[i]
			return []interface{}{q.ID, q.Prompt, q.Options, q.CorrectOptionIDs, q.OrderNum}, nil
		}),
	)
}

// DeactivateAllQuestions hides every current question, used before a reseed.
func (r *QuizRepository) DeactivateAllQuestions(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `UPDATE quiz_questions SET is_active = FALSE WHERE is_active`)
	return err
}

// ListAttemptTimesSince returns submission times of a user's attempts at or
// after since.
func (r *QuizRepository) ListAttemptTimesSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]time.Time, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT submitted_at FROM quiz_attempts
		 WHERE user_id = $1 AND submitted_at >= $2
		 ORDER BY submitted_at`, userID, since,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var times []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		times = append(times, t)
	}
	return times, rows.Err()
}

// ListAttempts returns a user's attempts, newest first.
func (r *QuizRepository) ListAttempts(ctx context.Context, userID uuid.UUID) ([]model.QuizAttempt, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+attemptColumns+` FROM quiz_attempts
		 WHERE user_id = $1
		 ORDER BY attempt_number DESC`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []model.QuizAttempt
	for rows.Next() {
		var a model.QuizAttempt
		if err := rows.Scan(&a.ID, &a.UserID, &a.AttemptNumber, &a.CorrectCount, &a.TotalQuestions,
			&a.Percentage, &a.Passed, &a.Answers, &a.StartedAt, &a.SubmittedAt); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

// InsertAttempt stores an attempt with the next attempt number for its user
// and bumps the attempt counter on the activation record, atomically.
// AttemptNumber, ID and SubmittedAt are filled in on a.
func (r *QuizRepository) InsertAttempt(ctx context.Context, a *model.QuizAttempt) error {
	for range insertAttemptRetries {
		err := r.insertAttempt(ctx, a)
		if err == nil {
			return nil
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			continue
		}
		return err
	}
	return ErrAttemptNumberConflict
}

func (r *QuizRepository) insertAttempt(ctx context.Context, a *model.QuizAttempt) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	answers := a.Answers
	if answers == nil {
		answers = model.AnswerSet{}
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO quiz_attempts
			(user_id, attempt_number, correct_count, total_questions, percentage, passed, answers, started_at, submitted_at)
		 SELECT $1, COALESCE(MAX(attempt_number), 0) + 1, $2, $3, $4, $5, $6, $7, $8
		 FROM quiz_attempts WHERE user_id = $1
		 RETURNING id, attempt_number`,
		a.UserID, a.CorrectCount, a.TotalQuestions, a.Percentage, a.Passed, answers, a.StartedAt, a.SubmittedAt,
	).Scan(&a.ID, &a.AttemptNumber)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE activation_records
		 SET quiz_attempts = GREATEST(quiz_attempts, $2), updated_at = NOW()
		 WHERE user_id = $1`,
		a.UserID, a.AttemptNumber,
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
