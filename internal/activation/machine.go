// Package activation models doer onboarding as an explicit state machine:
// training, then the quiz, then bank details, then activated.
package activation

import (
	"errors"
	"fmt"
	"time"

	"github.com/doerhub/doerhub-backend/internal/model"
)

// Step is a state of the onboarding flow.
type Step string

const (
	StepTraining    Step = "training"
	StepQuiz        Step = "quiz"
	StepBankDetails Step = "bank_details"
	StepActivated   Step = "activated"
)

// Event completes the step it is named after.
type Event string

const (
	EventTrainingCompleted Event = "training_completed"
	EventQuizPassed        Event = "quiz_passed"
	EventBankDetailsAdded  Event = "bank_details_added"
)

var ErrInvalidTransition = errors.New("activation step is locked")

// transitions lists the only allowed moves. Anything missing is rejected.
var transitions = map[Step]map[Event]Step{
	StepTraining:    {EventTrainingCompleted: StepQuiz},
	StepQuiz:        {EventQuizPassed: StepBankDetails},
	StepBankDetails: {EventBankDetailsAdded: StepActivated},
	StepActivated:   {},
}

// order is the fixed scan order used to derive the current step.
var order = []Step{StepTraining, StepQuiz, StepBankDetails}

// CurrentStep returns the first incomplete step, or StepActivated.
func CurrentStep(r *model.ActivationRecord) Step {
	for _, s := range order {
		if !stepDone(r, s) {
			return s
		}
	}
	return StepActivated
}

// Next returns the step reached from `from` on ev.
func Next(from Step, ev Event) (Step, error) {
	to, ok := transitions[from][ev]
	if !ok {
		return from, fmt.Errorf("%w: %s not allowed at %s", ErrInvalidTransition, ev, from)
	}
	return to, nil
}

// Apply fires ev on r, setting the flag and its timestamp. Reaching
// StepActivated also sets IsFullyActivated and ActivatedAt. Re-firing an
// event whose flag is already set is a no-op, so flags stay monotonic.
func Apply(r *model.ActivationRecord, ev Event, now time.Time) (Step, error) {
	if eventDone(r, ev) {
		return CurrentStep(r), nil
	}

	to, err := Next(CurrentStep(r), ev)
	if err != nil {
		return CurrentStep(r), err
	}

	ts := now
	switch ev {
	case EventTrainingCompleted:
		r.TrainingCompleted = true
		r.TrainingCompletedAt = &ts
	case EventQuizPassed:
		r.QuizPassed = true
		r.QuizPassedAt = &ts
	case EventBankDetailsAdded:
		r.BankDetailsAdded = true
		r.BankDetailsAddedAt = &ts
	}

	if to == StepActivated {
		r.IsFullyActivated = true
		r.ActivatedAt = &ts
	}
	return to, nil
}

// Unlocked reports whether s is reachable now, i.e. every earlier step is done.
func Unlocked(r *model.ActivationRecord, s Step) bool {
	for _, prev := range order {
		if prev == s {
			return true
		}
		if !stepDone(r, prev) {
			return false
		}
	}
	return s == StepActivated
}

func stepDone(r *model.ActivationRecord, s Step) bool {
	switch s {
	case StepTraining:
		return r.TrainingCompleted
	case StepQuiz:
		return r.QuizPassed
	case StepBankDetails:
		return r.BankDetailsAdded
	}
	return r.IsFullyActivated
}

func eventDone(r *model.ActivationRecord, ev Event) bool {
	switch ev {
	case EventTrainingCompleted:
		return r.TrainingCompleted
	case EventQuizPassed:
		return r.QuizPassed
	case EventBankDetailsAdded:
		return r.BankDetailsAdded
	}
	return false
}
