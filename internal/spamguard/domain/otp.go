package domain

import "time"

// Purpose scopes a one-time code to a single flow.
type Purpose string

const (
	PurposeSignup Purpose = "signup"
	PurposeLogin  Purpose = "login"
)

const (
	// OTPTTL is how long a one-time code stays live after issue.
	OTPTTL = 10 * time.Minute

	// OTPMaxAttempts is the number of wrong submissions that burns a code.
	OTPMaxAttempts = 5
)

// OneTimeCode is a 6-digit verification code. Only the fingerprint of the
// code is stored.
type OneTimeCode struct {
	ID        string
	Identity  string // email the code was sent to
	Purpose   Purpose
	CodeHash  string
	CreatedAt time.Time
	ExpiresAt time.Time
	Verified  bool
	Attempts  int
	Origin    string
}

// Live reports whether the code can still be verified at t.
func (c OneTimeCode) Live(t time.Time) bool {
	return !c.Verified && t.Before(c.ExpiresAt)
}
