package guardsdk

import "time"

// ============================================================================
// Error Types
// ============================================================================

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	// Error is a coarse error code (e.g., "bad_request", "unauthorized")
	Error string `json:"error" example:"bad_request"`

	// Message is a human-readable description safe to show to users
	Message string `json:"message" example:"Invalid input format"`
}

// MessageResponse is returned by endpoints that only report an outcome.
type MessageResponse struct {
	Message string `json:"message" example:"User registered successfully"`
}

// ============================================================================
// Registration Types
// ============================================================================

// RegisterInitiateRequest starts a registration.
type RegisterInitiateRequest struct {
	Email    string `json:"email" example:"user@example.com"`
	Password string `json:"password" example:"Secr3tPassword"`
}

// RegisterInitiateResponse carries the sealed password back to the client so
// the verify step does not need the plaintext again.
type RegisterInitiateResponse struct {
	Message string `json:"message" example:"Verification code sent to your email"`
	Email   string `json:"email" example:"user@example.com"`

	// Password is the sealed password carrier, opaque to the client
	Password string `json:"password"`

	// Encrypted is always true; echo it back on verify
	Encrypted bool `json:"encrypted" example:"true"`
}

// RegisterVerifyRequest completes a registration with the emailed code.
type RegisterVerifyRequest struct {
	Email string `json:"email" example:"user@example.com"`

	// Password is either the sealed carrier from initiate (Encrypted=true) or
	// the plaintext password
	Password  string `json:"password"`
	Encrypted bool   `json:"encrypted" example:"true"`
	OTP       string `json:"otp" example:"123456"`
}

// ============================================================================
// Login Types
// ============================================================================

// LoginInitiateRequest checks credentials and triggers a login code.
type LoginInitiateRequest struct {
	Email    string `json:"email" example:"user@example.com"`
	Password string `json:"password" example:"Secr3tPassword"`
}

// LoginInitiateResponse confirms a login code was sent.
type LoginInitiateResponse struct {
	Message string `json:"message" example:"Verification code sent to your email"`
	Email   string `json:"email" example:"user@example.com"`
}

// LoginVerifyRequest exchanges a login code for a session token.
type LoginVerifyRequest struct {
	Email string `json:"email" example:"user@example.com"`
	OTP   string `json:"otp" example:"123456"`
}

// LoginVerifyResponse holds the session token. The token is bound to the
// address it was issued to.
type LoginVerifyResponse struct {
	Token     string    `json:"token"`
	Role      string    `json:"role" example:"user"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ============================================================================
// Classification Types
// ============================================================================

// ClassifyRequest submits text for classification.
type ClassifyRequest struct {
	Mail string `json:"mail" example:"Congratulations, you have won a prize"`
}

// ClassifyResponse is the model verdict.
type ClassifyResponse struct {
	Result          string  `json:"result" example:"SPAM"`
	Confidence      float64 `json:"confidence" example:"0.93"`
	ConfidenceLevel string  `json:"confidence_level" example:"high"`
	Warning         string  `json:"warning,omitempty"`
}

// ============================================================================
// Audit Types
// ============================================================================

// PredictionLog is one logged classification.
type PredictionLog struct {
	ID              string    `json:"id"`
	User            string    `json:"user" example:"user@example.com"`
	Excerpt         string    `json:"excerpt"`
	Result          string    `json:"result" example:"NOT SPAM"`
	Confidence      float64   `json:"confidence" example:"0.71"`
	ConfidenceLevel string    `json:"confidence_level" example:"medium"`
	IPAddress       string    `json:"ip_address" example:"203.0.113.7"`
	Timestamp       time.Time `json:"timestamp"`
}

// LogsResponse is a page of prediction logs, newest first.
type LogsResponse struct {
	Logs    []PredictionLog `json:"logs"`
	Page    int             `json:"page" example:"1"`
	PerPage int             `json:"per_page" example:"10"`
	Total   int             `json:"total" example:"42"`
}

// SecurityEvent is one entry of the tamper-evident event log.
type SecurityEvent struct {
	Seq       int64     `json:"seq"`
	ID        string    `json:"id"`
	EventType string    `json:"event_type" example:"failed_login"`
	Details   string    `json:"details"`
	IPAddress string    `json:"ip_address" example:"203.0.113.7"`
	UserEmail string    `json:"user_email,omitempty"`
	Severity  string    `json:"severity" example:"medium"`
	Timestamp time.Time `json:"timestamp"`
	ChainHash string    `json:"chain_hash"`
}

// SecurityEventsResponse is a page of security events, newest first.
type SecurityEventsResponse struct {
	Events  []SecurityEvent `json:"events"`
	Page    int             `json:"page" example:"1"`
	PerPage int             `json:"per_page" example:"10"`
	Total   int             `json:"total" example:"42"`
}

// ChainReport is the result of verifying the security event chain.
type ChainReport struct {
	Events    int    `json:"events" example:"42"`
	Intact    bool   `json:"intact" example:"true"`
	BrokenSeq int64  `json:"broken_seq,omitempty"`
	BrokenID  string `json:"broken_id,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// EventQuery filters a security event listing. Zero values are omitted.
type EventQuery struct {
	Severity string
	Since    time.Time
	Until    time.Time
	Page     int
	PerPage  int
}

// ============================================================================
// Bootstrap Types
// ============================================================================

// BootstrapRequest creates the first admin identity.
type BootstrapRequest struct {
	Email    string `json:"email" example:"admin@example.com"`
	Password string `json:"password" example:"Adm1nPassword"`
}

// BootstrapResponse identifies the created admin.
type BootstrapResponse struct {
	IdentityID string `json:"identity_id" example:"01HZX3J8Q9K3V7T2M4N5P6R7S8"`
	Email      string `json:"email" example:"admin@example.com"`
	Role       string `json:"role" example:"admin"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse represents the response structure for health check endpoints.
// Used by both /livez and /readyz endpoints (readyz includes additional Checks field).
type HealthResponse struct {
	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	// Checks contains readiness check results for critical dependencies (only for /readyz)
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks represents the status of critical service dependencies.
type HealthChecks struct {
	// Database indicates the database connection status
	Database string `json:"database"`

	// Model indicates whether the classification model answers
	Model string `json:"model"`
}
