package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrTokenRequired ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid  ErrCode = "TOKEN_INVALID"
	ErrTokenExpired  ErrCode = "TOKEN_EXPIRED"
	ErrTokenRevoked  ErrCode = "TOKEN_REVOKED"
	ErrUnauthorized  ErrCode = "UNAUTHORIZED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden          ErrCode = "FORBIDDEN"
	ErrSupervisorOnly     ErrCode = "SUPERVISOR_ACCESS_ONLY"
	ErrDoerOnly           ErrCode = "DOER_ACCESS_ONLY"
	ErrActivationRequired ErrCode = "ACTIVATION_REQUIRED"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound        ErrCode = "NOT_FOUND"
	ErrConflict        ErrCode = "CONFLICT"
	ErrActionForbidden ErrCode = "ACTION_FORBIDDEN"

	// ─── Activation ────────────────────────────────────────────────────
	ErrStepLocked        ErrCode = "ACTIVATION_STEP_LOCKED"
	ErrQuizAlreadyPassed ErrCode = "QUIZ_ALREADY_PASSED"
	ErrNoQuestions       ErrCode = "NO_QUESTIONS"
	ErrAttemptInProgress ErrCode = "ATTEMPT_IN_PROGRESS"

	// ─── Projects ──────────────────────────────────────────────────────
	ErrInvalidStatusChange ErrCode = "INVALID_STATUS_CHANGE"
	ErrNotTextDeliverable  ErrCode = "NOT_TEXT_DELIVERABLE"

	// ─── Media ─────────────────────────────────────────────────────────
	ErrFileRequired    ErrCode = "FILE_REQUIRED"
	ErrUnsupportedFile ErrCode = "UNSUPPORTED_FILE_TYPE"
	ErrFileTooLarge    ErrCode = "FILE_TOO_LARGE"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrTokenRequired:
		return "Authentication token is required."
	case ErrTokenInvalid:
		return "Authentication token is invalid."
	case ErrTokenExpired:
		return "Authentication token has expired."
	case ErrTokenRevoked:
		return "Your session has ended. Please sign in again."
	case ErrUnauthorized:
		return "Please sign in to continue."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You do not have permission to access this resource."
	case ErrSupervisorOnly:
		return "This resource is restricted to supervisors."
	case ErrDoerOnly:
		return "This resource is restricted to doers."
	case ErrActivationRequired:
		return "Complete account activation first."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "Resource already exists."
	case ErrActionForbidden:
		return "This action is not allowed."

	// ─── Activation ────────────────────────────────────────────────────
	case ErrStepLocked:
		return "Finish the previous activation step first."
	case ErrQuizAlreadyPassed:
		return "The quiz has already been passed."
	case ErrNoQuestions:
		return "The quiz has no questions yet."
	case ErrAttemptInProgress:
		return "Another quiz submission is being processed."

	// ─── Projects ──────────────────────────────────────────────────────
	case ErrInvalidStatusChange:
		return "The project cannot move to that status."
	case ErrNotTextDeliverable:
		return "Only text deliverables can be analyzed."

	// ─── Media ─────────────────────────────────────────────────────────
	case ErrFileRequired:
		return "A file upload is required."
	case ErrUnsupportedFile:
		return "Unsupported file type."
	case ErrFileTooLarge:
		return "File exceeds the size limit."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
