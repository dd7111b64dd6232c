package shared

import "errors"

// ErrorKind classifies a DomainError
type ErrorKind string

const (
	KindValidation   ErrorKind = "VALIDATION"
	KindLookup       ErrorKind = "LOOKUP"
	KindSubmission   ErrorKind = "SUBMISSION"
	KindPersistence  ErrorKind = "PERSISTENCE"
	KindNotFound     ErrorKind = "NOT_FOUND"
	KindInvalidState ErrorKind = "INVALID_STATE"
)

// DomainError represents a domain-level error
type DomainError struct {
	Kind    ErrorKind `json:"kind"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
	Cause   error     `json:"-"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap exposes the underlying cause
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is matches by code when the target carries one, otherwise by kind.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	if t.Code != "" {
		return t.Code == e.Code
	}
	return t.Kind != "" && t.Kind == e.Kind
}

// WithCause returns a copy of the error carrying cause
func (e *DomainError) WithCause(cause error) *DomainError {
	c := *e
	c.Cause = cause
	return &c
}

// WithMessage returns a copy of the error with a different message but the same code
func (e *DomainError) WithMessage(message string) *DomainError {
	c := *e
	c.Message = message
	return &c
}

// NewDomainError creates a new domain error
func NewDomainError(kind ErrorKind, code, message string) *DomainError {
	return &DomainError{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// NewValidationError reports malformed input caught before any side effect
func NewValidationError(code, message string) *DomainError {
	return NewDomainError(KindValidation, code, message)
}

// NewLookupError reports an address/shipping lookup transport failure
func NewLookupError(message string, cause error) *DomainError {
	return &DomainError{Kind: KindLookup, Code: "LOOKUP_FAILED", Message: message, Cause: cause}
}

// NewSubmissionError reports an order backend transport failure or rejection
func NewSubmissionError(message string, cause error) *DomainError {
	return &DomainError{Kind: KindSubmission, Code: "SUBMISSION_FAILED", Message: message, Cause: cause}
}

// NewPersistenceWarning reports a non-fatal durable storage failure
func NewPersistenceWarning(message string, cause error) *DomainError {
	return &DomainError{Kind: KindPersistence, Code: "PERSISTENCE_WARNING", Message: message, Cause: cause}
}

// NewNotFoundError reports a missing resource
func NewNotFoundError(message string) *DomainError {
	return NewDomainError(KindNotFound, "NOT_FOUND", message)
}

// NewInvalidStateError reports an operation not allowed in the current state
func NewInvalidStateError(code, message string) *DomainError {
	return NewDomainError(KindInvalidState, code, message)
}

// Kind-only sentinels, usable with errors.Is against any error of that kind
var (
	ErrValidation   = &DomainError{Kind: KindValidation}
	ErrLookup       = &DomainError{Kind: KindLookup}
	ErrSubmission   = &DomainError{Kind: KindSubmission}
	ErrPersistence  = &DomainError{Kind: KindPersistence}
	ErrNotFound     = &DomainError{Kind: KindNotFound}
	ErrInvalidState = &DomainError{Kind: KindInvalidState}
)

// KindOf returns the kind of the first DomainError in err's chain, or "" if none
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}
