package domain

import "errors"

// Error kinds. Concrete errors wrap exactly one of these so callers can branch with errors.Is.
var (
	// ErrValidation is the kind of errors caused by malformed or out-of-range input.
	ErrValidation = errors.New("validation failed")
	// ErrConflict is the kind of errors caused by a duplicate unique key.
	ErrConflict = errors.New("conflict")
	// ErrUnauthorized is the kind of errors caused by missing caller identity or bad credentials.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound is the kind of errors caused by a referenced entity that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is the kind of errors caused by a caller acting on an entity it does not own.
	ErrForbidden = errors.New("forbidden")
)

// Error is a domain error with a caller-facing message.
type Error struct {
	Kind error  // One of the kind sentinels above
	Msg  string // Message safe to show to the caller
}

// Error implements error.
func (e *Error) Error() string {
	return e.Msg
}

// Unwrap returns the error kind.
func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

var (
	ErrUsernameTooShort = newError(ErrValidation, "username too short")
	ErrUsernameTooLong  = newError(ErrValidation, "username too long")
	ErrPasswordTooShort = newError(ErrValidation, "password too short")
	ErrPasswordTooLong  = newError(ErrValidation, "password too long")
	ErrUsernameExists   = newError(ErrConflict, "username exists")

	// ErrInvalidCredentials is shared by the unknown-user and wrong-password cases.
	ErrInvalidCredentials = newError(ErrUnauthorized, "invalid credentials")
	// ErrNoCaller is returned when a request carries no caller identity.
	ErrNoCaller = newError(ErrUnauthorized, "missing caller identity")

	ErrInvalidDate       = newError(ErrValidation, "invalid date")
	ErrAmountRequired    = newError(ErrValidation, "amount required")
	ErrAmountNotPositive = newError(ErrValidation, "amount must be positive")
	ErrAmountTooLarge    = newError(ErrValidation, "amount too large")
	ErrNameRequired      = newError(ErrValidation, "name required")
	ErrInvalidID         = newError(ErrValidation, "invalid id")
	ErrMalformedBody     = newError(ErrValidation, "malformed request body")

	ErrExpenseNotFound  = newError(ErrNotFound, "expense not found")
	ErrExpenseForbidden = newError(ErrForbidden, "not allowed to delete this expense")
)
