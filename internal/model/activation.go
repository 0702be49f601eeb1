package model

import (
	"time"

	"github.com/google/uuid"
)

// ActivationRecord holds the onboarding flags of one user. Flags only ever
// move from false to true.
type ActivationRecord struct {
	UserID              uuid.UUID  `json:"user_id"`
	TrainingCompleted   bool       `json:"training_completed"`
	QuizPassed          bool       `json:"quiz_passed"`
	BankDetailsAdded    bool       `json:"bank_details_added"`
	IsFullyActivated    bool       `json:"is_fully_activated"`
	QuizAttempts        int        `json:"quiz_attempts"`
	TrainingCompletedAt *time.Time `json:"training_completed_at,omitempty"`
	QuizPassedAt        *time.Time `json:"quiz_passed_at,omitempty"`
	BankDetailsAddedAt  *time.Time `json:"bank_details_added_at,omitempty"`
	ActivatedAt         *time.Time `json:"activated_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// ActivationStatus is returned to the doer portal to route onboarding.
type ActivationStatus struct {
	Record            ActivationRecord `json:"record"`
	CurrentStep       string           `json:"current_step"`
	RemainingAttempts int              `json:"remaining_attempts"`
}
