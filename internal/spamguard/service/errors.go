package service

import "errors"

// Validation failures, reported to the caller as 400.
var (
	ErrInvalidRequest   = errors.New("invalid request")
	ErrInvalidEmail     = errors.New("invalid email")
	ErrWeakPassword     = errors.New("weak password")
	ErrIdentityExists   = errors.New("identity already exists")
	ErrAdversarialInput = errors.New("adversarial input")
)

// Authentication failures, reported as 401.
var (
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrInvalidCode           = errors.New("invalid or expired verification code")
	ErrSessionMissing        = errors.New("session token missing")
	ErrSessionInvalid        = errors.New("session token invalid")
	ErrSessionExpired        = errors.New("session token expired")
	ErrSessionOriginMismatch = errors.New("session token used from another origin")
)

var (
	ErrForbidden        = errors.New("forbidden")
	ErrIdentityNotFound = errors.New("identity not found")
)

// Infrastructure failures, reported as 500 with a generic message.
var (
	ErrDelivery         = errors.New("failed to deliver verification code")
	ErrModelUnavailable = errors.New("model unavailable")
)

// ValidationError carries the message shown to the caller alongside one of
// the validation sentinels.
type ValidationError struct {
	Err     error
	Message string
}

func (e *ValidationError) Error() string { return e.Message }
func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(err error, msg string) error {
	return &ValidationError{Err: err, Message: msg}
}
