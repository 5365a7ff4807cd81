package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates the acting user lacks the permission or company scope for an action.
var ErrForbidden = errors.New("permission denied")

// ErrSubscription indicates the company's subscription does not allow the operation.
var ErrSubscription = errors.New("subscription error")

// ErrConcurrency indicates an isolation failure; the whole unit of work may be retried.
var ErrConcurrency = errors.New("concurrent modification")

// ErrInternal is used for unexpected failures that should not leak details to callers.
var ErrInternal = errors.New("internal error")

// Specific errors. Each wraps one of the sentinels above so callers can match either.
var (
	ErrUnbalanced          = fmt.Errorf("%w: unbalanced entry", ErrValidation)
	ErrInvalidTransition   = fmt.Errorf("%w: invalid status transition", ErrValidation)
	ErrAlreadyPerformed    = fmt.Errorf("%w: already performed", ErrValidation)
	ErrAlreadyReversed     = fmt.Errorf("%w: transaction already reversed", ErrValidation)
	ErrInsufficientStock   = fmt.Errorf("%w: insufficient stock", ErrValidation)
	ErrDocumentOwned       = fmt.Errorf("%w: transaction belongs to a business document", ErrValidation)
	ErrAccountNotFound     = fmt.Errorf("%w: account", ErrNotFound)
	ErrRequiredAccounts    = fmt.Errorf("%w: required accounts not found", ErrNotFound)
	ErrSubscriptionExpired = fmt.Errorf("%w: expired", ErrSubscription)
	ErrLimitReached        = fmt.Errorf("%w: limit reached", ErrSubscription)
)

// AppError carries an HTTP-ish status code alongside a wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError. A nil err is replaced by ErrInternal for 5xx codes.
func NewAppError(code int, message string, err error) *AppError {
	if err == nil && code >= 500 {
		err = ErrInternal
	}
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError returns an error matching ErrNotFound that names the missing resource.
func NewNotFoundError(resource string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, resource)
}

// NewValidationError returns an error matching ErrValidation.
func NewValidationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
