package services

import "fmt"

// ErrorCode classifies workflow failures for transport mapping. Exactly one
// code is surfaced per failed call.
type ErrorCode string

const (
	CodeUnauthenticated    ErrorCode = "unauthenticated"
	CodePermissionDenied   ErrorCode = "permission-denied"
	CodeInvalidArgument    ErrorCode = "invalid-argument"
	CodeFailedPrecondition ErrorCode = "failed-precondition"
	CodeNotFound           ErrorCode = "not-found"
	CodeInternal           ErrorCode = "internal"
)

type WorkflowError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *WorkflowError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *WorkflowError) Unwrap() error { return e.Err }

func newError(code ErrorCode, message string) *WorkflowError {
	return &WorkflowError{Code: code, Message: message}
}

func internalError(message string, err error) *WorkflowError {
	return &WorkflowError{Code: CodeInternal, Message: message, Err: err}
}
