package domain

import "time"

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Valid reports whether s is a known severity.
func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return true
	}
	return false
}

// Security event types.
const (
	EventFailedLogin        = "failed_login"
	EventInvalidOTP         = "invalid_otp"
	EventMaxOTPAttempts     = "max_otp_attempts"
	EventInvalidToken       = "invalid_token"
	EventExpiredToken       = "expired_token"
	EventIPMismatch         = "ip_mismatch"
	EventMissingToken       = "missing_token"
	EventUnauthorizedAccess = "unauthorized_access"
	EventRateLimitExceeded  = "rate_limit_exceeded"
	EventAdversarialInput   = "potential_adversarial_input"
	EventBootstrapAdmin     = "bootstrap_admin"
)

// SecurityEvent is an append-only audit record. ChainHash covers this event
// and PrevHash, so any edit, deletion or reordering breaks the chain.
type SecurityEvent struct {
	Seq       int64
	ID        string
	Type      string
	Details   string
	Origin    string
	Identity  *string
	Severity  Severity
	Timestamp time.Time
	PrevHash  string
	ChainHash string
}

// Event is what callers hand to the event log; the log fills in the rest.
type Event struct {
	Type     string
	Details  string
	Origin   string
	Identity string
	Severity Severity
}
