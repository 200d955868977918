package services

import "fmt"

// Stable machine-readable error codes surfaced to HTTP clients.
const (
	CodeNotFound           = "not_found"
	CodeForbidden          = "forbidden"
	CodeInvalidTransition  = "invalid_transition"
	CodeAlreadyFinal       = "already_final"
	CodeStorageConflict    = "storage_conflict"
	CodePersistenceFailure = "persistence_failure"
)

// WorkflowError is the error type returned by the authorizer and the engine.
// Allowed carries the legal next statuses for invalid_transition responses so
// the UI can self-correct.
type WorkflowError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Allowed []int  `json:"allowed,omitempty"`
	cause   error
}

func (e *WorkflowError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *WorkflowError) Unwrap() error { return e.cause }

// Is matches by code so callers can compare against the sentinel values.
func (e *WorkflowError) Is(target error) bool {
	t, ok := target.(*WorkflowError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

var (
	ErrNotFound        = &WorkflowError{Code: CodeNotFound, Message: "entity not found"}
	ErrForbidden       = &WorkflowError{Code: CodeForbidden, Message: "acting role does not own the current status"}
	ErrAlreadyFinal    = &WorkflowError{Code: CodeAlreadyFinal, Message: "entity is in a terminal status"}
	ErrStorageConflict = &WorkflowError{Code: CodeStorageConflict, Message: "concurrent update lost, safe to retry"}
)

func invalidTransitionError(toStatusID int, allowed []int) *WorkflowError {
	return &WorkflowError{
		Code:    CodeInvalidTransition,
		Message: fmt.Sprintf("status %d is not reachable from the current status", toStatusID),
		Allowed: allowed,
	}
}

func persistenceError(op string, cause error) *WorkflowError {
	return &WorkflowError{
		Code:    CodePersistenceFailure,
		Message: fmt.Sprintf("failed to %s", op),
		cause:   cause,
	}
}
