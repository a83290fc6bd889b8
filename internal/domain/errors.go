package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a domain error so the transport layer can map it to an
// HTTP status without inspecting error text.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindValidation
	KindConflict
	KindUnauthorized
	KindForbidden
	KindInvalidState
)

// Error is a typed domain error carrying a Kind and a caller-safe message.
type Error struct {
	kind    Kind
	message string
}

// Error implements the error interface.
func (e *Error) Error() string { return e.message }

// Kind returns the error classification.
func (e *Error) Kind() Kind { return e.kind }

// NewNotFoundError indicates the referenced resource does not exist.
func NewNotFoundError(resource, id string) *Error {
	return &Error{kind: KindNotFound, message: fmt.Sprintf("%s not found: %s", resource, id)}
}

// NewValidationError indicates the request violates a domain constraint.
func NewValidationError(message string) *Error {
	return &Error{kind: KindValidation, message: message}
}

// NewConflictError indicates the operation conflicts with current state,
// e.g. a blocking reference or a duplicate unique value.
func NewConflictError(message string) *Error {
	return &Error{kind: KindConflict, message: message}
}

// NewUnauthorizedError indicates missing or invalid credentials.
func NewUnauthorizedError(message string) *Error {
	return &Error{kind: KindUnauthorized, message: message}
}

// NewForbiddenError indicates the requester may not act on this resource.
func NewForbiddenError(message string) *Error {
	return &Error{kind: KindForbidden, message: message}
}

// NewInvalidStateError indicates a disallowed lifecycle transition.
func NewInvalidStateError(from, to string) *Error {
	return &Error{kind: KindInvalidState, message: fmt.Sprintf("invalid status transition: %s -> %s", from, to)}
}

// KindOf extracts the Kind from an error chain, defaulting to KindInternal.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.kind
	}
	return KindInternal
}

// IsNotFound reports whether the error chain contains a not-found error.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}
