package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/doerhub/doerhub-backend/internal/activation"
	"github.com/doerhub/doerhub-backend/internal/authz"
	"github.com/doerhub/doerhub-backend/internal/config"
	"github.com/doerhub/doerhub-backend/internal/metrics"
	"github.com/doerhub/doerhub-backend/internal/model"
	"github.com/doerhub/doerhub-backend/internal/scoring"
	"github.com/doerhub/doerhub-backend/internal/security"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog"
)

// Activation flow errors.
var (
	ErrStepLocked        = errors.New("previous activation step is not complete")
	ErrQuizAlreadyPassed = errors.New("quiz already passed")
	ErrNoQuestions       = errors.New("quiz has no questions")
	ErrAttemptInProgress = errors.New("another quiz submission is in progress")
)

// submitLockTTL bounds how long one submission may hold the per-user lock.
const submitLockTTL = 15 * time.Second

// ActivationStore persists activation records.
type ActivationStore interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.ActivationRecord, error)
	SaveFlags(ctx context.Context, rec *model.ActivationRecord) (*model.ActivationRecord, error)
}

// QuizStore persists quiz questions and attempts.
type QuizStore interface {
	ListActiveQuestions(ctx context.Context) ([]model.QuizQuestion, error)
	ListAttemptTimesSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]time.Time, error)
	ListAttempts(ctx context.Context, userID uuid.UUID) ([]model.QuizAttempt, error)
	InsertAttempt(ctx context.Context, a *model.QuizAttempt) error
}

// BankDetailsStore persists payout details.
type BankDetailsStore interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.BankDetails, error)
	Upsert(ctx context.Context, b *model.BankDetails) (*model.BankDetails, error)
}

// ActivationService drives the doer onboarding flow: training, the scored
// quiz and bank details.
type ActivationService struct {
	cfg    *config.Config
	guard  *authz.Guard
	states ActivationStore
	quiz   QuizStore
	banks  BankDetailsStore
	sealer *security.Sealer
	locker Locker
	log    zerolog.Logger
	now    func() time.Time
}

// NewActivationService creates a new ActivationService.
func NewActivationService(
	cfg *config.Config,
	guard *authz.Guard,
	states ActivationStore,
	quiz QuizStore,
	banks BankDetailsStore,
	sealer *security.Sealer,
	locker Locker,
	log zerolog.Logger,
) *ActivationService {
	return &ActivationService{
		cfg:    cfg,
		guard:  guard,
		states: states,
		quiz:   quiz,
		banks:  banks,
		sealer: sealer,
		locker: locker,
		log:    log.With().Str("component", "activation").Logger(),
		now:    time.Now,
	}
}

// ─── Status ─────────────────────────────────────────────────────────────────

// Status returns the record, the current step and the attempts left in the
// current window.
func (s *ActivationService) Status(ctx context.Context, userID uuid.UUID) (*model.ActivationStatus, error) {
	return authz.Guarded(ctx, s.guard.Self(authz.ResourceActivation, userID), func(ctx context.Context) (*model.ActivationStatus, error) {
		rec, err := s.load(ctx, userID)
		if err != nil {
			return nil, err
		}
		return s.status(ctx, rec), nil
	})
}

func (s *ActivationService) status(ctx context.Context, rec *model.ActivationRecord) *model.ActivationStatus {
	st := &model.ActivationStatus{
		Record:      *rec,
		CurrentStep: string(activation.CurrentStep(rec)),
	}
	if rec.QuizPassed {
		return st
	}

	now := s.now()
	times, err := s.quiz.ListAttemptTimesSince(ctx, rec.UserID, now.Add(-s.cfg.QuizAttemptWindow))
	if err != nil {
		s.log.Error().Err(err).Str("user_id", rec.UserID.String()).Msg("Failed to load quiz attempt times")
		times = nil
	}
	d := activation.CheckWindow(times, now, s.cfg.QuizMaxAttempts, s.cfg.QuizAttemptWindow)
	st.RemainingAttempts = scoring.RemainingAttempts(d.Used, s.cfg.QuizMaxAttempts)
	return st
}

// CompleteTraining marks the training step done. Repeating it is harmless.
func (s *ActivationService) CompleteTraining(ctx context.Context, userID uuid.UUID) (*model.ActivationStatus, error) {
	return authz.Guarded(ctx, s.guard.Self(authz.ResourceActivation, userID), func(ctx context.Context) (*model.ActivationStatus, error) {
		rec, err := s.fire(ctx, userID, activation.EventTrainingCompleted)
		if err != nil {
			return nil, err
		}
		return s.status(ctx, rec), nil
	})
}

// ─── Quiz ───────────────────────────────────────────────────────────────────

// QuizQuestions returns the active questions without their answer key.
func (s *ActivationService) QuizQuestions(ctx context.Context, userID uuid.UUID) ([]model.QuizQuestionForDoer, error) {
	return authz.Guarded(ctx, s.guard.Self(authz.ResourceActivation, userID), func(ctx context.Context) ([]model.QuizQuestionForDoer, error) {
		rec, err := s.load(ctx, userID)
		if err != nil {
			return nil, err
		}
		if !activation.Unlocked(rec, activation.StepQuiz) {
			return nil, ErrStepLocked
		}

		questions, err := s.quiz.ListActiveQuestions(ctx)
		if err != nil {
			return nil, fmt.Errorf("list questions: %w", err)
		}

		out := make([]model.QuizQuestionForDoer, 0, len(questions))
		if err := copier.Copy(&out, &questions); err != nil {
			return nil, fmt.Errorf("strip answer key: %w", err)
		}
		return out, nil
	})
}

// SubmitQuiz scores answers against the stored key, records the attempt and
// advances activation on a pass. Hitting the attempt limit is reported in the
// result, not as an error.
func (s *ActivationService) SubmitQuiz(ctx context.Context, userID uuid.UUID, req *model.SubmitQuizRequest) (*model.QuizSubmission, error) {
	return authz.Guarded(ctx, s.guard.Self(authz.ResourceActivation, userID), func(ctx context.Context) (*model.QuizSubmission, error) {
		release, ok, err := s.locker.TryLock(ctx, config.CacheKey.QuizSubmitLockKey(userID.String()), submitLockTTL)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrAttemptInProgress
		}
		defer release()

		// Read under the lock so a pass recorded by the previous holder is seen.
		rec, err := s.load(ctx, userID)
		if err != nil {
			return nil, err
		}
		if rec.QuizPassed {
			return nil, ErrQuizAlreadyPassed
		}
		if !activation.Unlocked(rec, activation.StepQuiz) {
			return nil, ErrStepLocked
		}

		now := s.now()
		times, err := s.quiz.ListAttemptTimesSince(ctx, userID, now.Add(-s.cfg.QuizAttemptWindow))
		if err != nil {
			return nil, fmt.Errorf("list attempt times: %w", err)
		}
		window := activation.CheckWindow(times, now, s.cfg.QuizMaxAttempts, s.cfg.QuizAttemptWindow)
		if window.RateLimited {
			metrics.QuizAttempts.WithLabelValues("rate_limited").Inc()
			return &model.QuizSubmission{
				RateLimited:       true,
				RetryAfterMinutes: window.RetryAfterMinutes,
			}, nil
		}

		questions, err := s.quiz.ListActiveQuestions(ctx)
		if err != nil {
			return nil, fmt.Errorf("list questions: %w", err)
		}
		if len(questions) == 0 {
			return nil, ErrNoQuestions
		}

		score := scoring.CalculateScore(questions, req.Answers)
		passed := scoring.IsPassed(score.Percentage, s.cfg.QuizPassingThreshold)

		startedAt := now
		if req.StartedAt != nil && !req.StartedAt.After(now) {
			startedAt = *req.StartedAt
		}
		attempt := &model.QuizAttempt{
			UserID:         userID,
			CorrectCount:   score.CorrectCount,
			TotalQuestions: score.TotalQuestions,
			Percentage:     score.Percentage,
			Passed:         passed,
			Answers:        req.Answers,
			StartedAt:      startedAt,
			SubmittedAt:    now,
		}
		if err := s.quiz.InsertAttempt(ctx, attempt); err != nil {
			return nil, fmt.Errorf("insert attempt: %w", err)
		}

		outcome := "failed"
		if passed {
			outcome = "passed"
			if _, err := activation.Apply(rec, activation.EventQuizPassed, now); err != nil {
				return nil, err
			}
			if _, err := s.states.SaveFlags(ctx, rec); err != nil {
				return nil, fmt.Errorf("save activation: %w", err)
			}
		}
		metrics.QuizAttempts.WithLabelValues(outcome).Inc()

		s.log.Info().
			Str("user_id", userID.String()).
			Int("attempt", attempt.AttemptNumber).
			Float64("percentage", score.Percentage).
			Bool("passed", passed).
			Msg("Quiz attempt recorded")

		return &model.QuizSubmission{
			Attempt:           attempt,
			Score:             &score,
			Passed:            passed,
			RemainingAttempts: scoring.RemainingAttempts(window.Used+1, s.cfg.QuizMaxAttempts),
		}, nil
	})
}

// Attempts lists the caller's past attempts. Store failures yield an empty list.
func (s *ActivationService) Attempts(ctx context.Context, userID uuid.UUID) ([]model.QuizAttempt, error) {
	return authz.Guarded(ctx, s.guard.Self(authz.ResourceActivation, userID), func(ctx context.Context) ([]model.QuizAttempt, error) {
		attempts, err := s.quiz.ListAttempts(ctx, userID)
		if err != nil {
			s.log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list quiz attempts")
			return []model.QuizAttempt{}, nil
		}
		if attempts == nil {
			attempts = []model.QuizAttempt{}
		}
		return attempts, nil
	})
}

// ─── Bank details ───────────────────────────────────────────────────────────

// SaveBankDetails seals and stores payout details, completing activation the
// first time.
func (s *ActivationService) SaveBankDetails(ctx context.Context, userID uuid.UUID, req *model.BankDetailsRequest) (*model.BankDetails, *model.ActivationStatus, error) {
	type result struct {
		details *model.BankDetails
		status  *model.ActivationStatus
	}

	res, err := authz.Guarded(ctx, s.guard.Self(authz.ResourceBankDetails, userID), func(ctx context.Context) (result, error) {
		rec, err := s.load(ctx, userID)
		if err != nil {
			return result{}, err
		}
		if !activation.Unlocked(rec, activation.StepBankDetails) {
			return result{}, ErrStepLocked
		}

		sealed, err := s.sealer.Seal([]byte(req.AccountNumber), userID[:])
		if err != nil {
			return result{}, fmt.Errorf("seal account number: %w", err)
		}

		details, err := s.banks.Upsert(ctx, &model.BankDetails{
			UserID:              userID,
			AccountHolderName:   req.AccountHolderName,
			BankName:            req.BankName,
			IFSCCode:            strings.ToUpper(req.IFSCCode),
			AccountNumberSealed: sealed,
			AccountNumberLast4:  security.Last4(req.AccountNumber),
			UPIID:               req.UPIID,
		})
		if err != nil {
			return result{}, fmt.Errorf("save bank details: %w", err)
		}

		if _, err := activation.Apply(rec, activation.EventBankDetailsAdded, s.now()); err != nil {
			return result{}, err
		}
		rec, err = s.states.SaveFlags(ctx, rec)
		if err != nil {
			return result{}, fmt.Errorf("save activation: %w", err)
		}

		if rec.IsFullyActivated {
			s.log.Info().Str("user_id", userID.String()).Msg("Doer fully activated")
		}
		return result{details: details, status: s.status(ctx, rec)}, nil
	})
	return res.details, res.status, err
}

// BankDetails returns the masked payout details of a user.
func (s *ActivationService) BankDetails(ctx context.Context, userID uuid.UUID) (*model.BankDetails, error) {
	return authz.Guarded(ctx, s.guard.Self(authz.ResourceBankDetails, userID), func(ctx context.Context) (*model.BankDetails, error) {
		details, err := s.banks.GetByUserID(ctx, userID)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &authz.NotFoundError{Resource: authz.ResourceBankDetails, ID: userID.String()}
		}
		return details, err
	})
}

// IsActivated reports whether a user finished onboarding.
func (s *ActivationService) IsActivated(ctx context.Context, userID uuid.UUID) (bool, error) {
	return authz.Guarded(ctx, s.guard.Self(authz.ResourceActivation, userID), func(ctx context.Context) (bool, error) {
		rec, err := s.states.GetByUserID(ctx, userID)
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("load activation: %w", err)
		}
		return rec.IsFullyActivated, nil
	})
}

// ─── Internal helpers ───────────────────────────────────────────────────────

func (s *ActivationService) load(ctx context.Context, userID uuid.UUID) (*model.ActivationRecord, error) {
	rec, err := s.states.GetByUserID(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &authz.NotFoundError{Resource: authz.ResourceActivation, ID: userID.String()}
	}
	if err != nil {
		return nil, fmt.Errorf("load activation: %w", err)
	}
	return rec, nil
}

func (s *ActivationService) fire(ctx context.Context, userID uuid.UUID, ev activation.Event) (*model.ActivationRecord, error) {
	rec, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if _, err := activation.Apply(rec, ev, s.now()); err != nil {
		if errors.Is(err, activation.ErrInvalidTransition) {
			return nil, ErrStepLocked
		}
		return nil, err
	}

	rec, err = s.states.SaveFlags(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("save activation: %w", err)
	}
	return rec, nil
}
