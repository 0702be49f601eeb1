package repository

import (
	"context"

	"github.com/doerhub/doerhub-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const activationColumns = `user_id, training_completed, quiz_passed, bank_details_added, is_fully_activated,
	quiz_attempts, training_completed_at, quiz_passed_at, bank_details_added_at, activated_at, created_at, updated_at`

// ActivationRepository handles activation record data access.
type ActivationRepository struct {
	pool *pgxpool.Pool
}

// NewActivationRepository creates a new ActivationRepository.
func NewActivationRepository(pool *pgxpool.Pool) *ActivationRepository {
	return &ActivationRepository{pool: pool}
}

func scanActivation(row pgx.Row) (*model.ActivationRecord, error) {
	a := &model.ActivationRecord{}
	err := row.Scan(
		&a.UserID, &a.TrainingCompleted, &a.QuizPassed, &a.BankDetailsAdded, &a.IsFullyActivated,
		&a.QuizAttempts, &a.TrainingCompletedAt, &a.QuizPassedAt, &a.BankDetailsAddedAt, &a.ActivatedAt,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// GetByUserID retrieves the activation record of a user.
func (r *ActivationRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.ActivationRecord, error) {
	return scanActivation(r.pool.QueryRow(ctx,
		`SELECT `+activationColumns+` FROM activation_records WHERE user_id = $1`, userID,
	))
}

// SaveFlags persists the flags of rec. The statement only ever turns flags on
// and keeps the first timestamp of each step, so a stale or concurrent write
// cannot regress progress.
func (r *ActivationRepository) SaveFlags(ctx context.Context, rec *model.ActivationRecord) (*model.ActivationRecord, error) {
	return scanActivation(r.pool.QueryRow(ctx,
		`UPDATE activation_records SET
			training_completed    = training_completed OR $2,
			quiz_passed           = quiz_passed OR $3,
			bank_details_added    = bank_details_added OR $4,
			is_fully_activated    = is_fully_activated OR $5,
			training_completed_at = COALESCE(training_completed_at, $6),
			quiz_passed_at        = COALESCE(quiz_passed_at, $7),
			bank_details_added_at = COALESCE(bank_details_added_at, $8),
			activated_at          = COALESCE(activated_at, $9),
			updated_at            = NOW()
		 WHERE user_id = $1
		 RETURNING `+activationColumns,
		rec.UserID, rec.TrainingCompleted, rec.QuizPassed, rec.BankDetailsAdded, rec.IsFullyActivated,
		rec.TrainingCompletedAt, rec.QuizPassedAt, rec.BankDetailsAddedAt, rec.ActivatedAt,
	))
}
