package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/spamguard/internal/spamguard/service"
	"github.com/aussiebroadwan/spamguard/pkg/httpx"
	"github.com/aussiebroadwan/spamguard/pkg/slogx"
)

// Response messages shared by several handlers.
const (
	msgInvalidJSON     = "Invalid request format"
	msgInvalidCode     = "Invalid or expired verification code"
	msgSessionExpired  = "Session expired, please login again"
	msgUserNotFound    = "User not found"
	msgInternal        = "An internal error occurred"
	msgDeliveryFailed  = "Failed to send verification code"
	msgClassifyFailure = "Error processing email content"
)

// writeServiceError maps a service error onto a response. Validation errors
// carry their own message; everything else gets a fixed one so nothing
// internal leaks. It is also the AuthnMiddleware failure writer, the session
// service has already recorded the reason by then.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeBadRequest, verr.Message)

	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, httpx.CodeUnauthorized, "Invalid credentials")
	case errors.Is(err, service.ErrInvalidCode):
		httpx.WriteError(w, http.StatusUnauthorized, httpx.CodeUnauthorized, msgInvalidCode)
	case isSessionError(err):
		httpx.WriteError(w, http.StatusUnauthorized, httpx.CodeUnauthorized, msgSessionExpired)

	case errors.Is(err, service.ErrIdentityNotFound):
		httpx.WriteError(w, http.StatusNotFound, httpx.CodeNotFound, msgUserNotFound)

	case errors.Is(err, service.ErrDelivery):
		httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeServerError, msgDeliveryFailed)
	case errors.Is(err, service.ErrModelUnavailable):
		httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeServerError, msgClassifyFailure)

	default:
		slogx.FromContext(r.Context()).Error("request failed", slog.Any("error", err))
		httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeServerError, msgInternal)
	}
}

func isSessionError(err error) bool {
	return errors.Is(err, service.ErrSessionMissing) ||
		errors.Is(err, service.ErrSessionInvalid) ||
		errors.Is(err, service.ErrSessionExpired) ||
		errors.Is(err, service.ErrSessionOriginMismatch)
}

// writeBadJSON answers a body that could not be decoded.
func writeBadJSON(w http.ResponseWriter) {
	httpx.WriteError(w, http.StatusBadRequest, httpx.CodeBadRequest, msgInvalidJSON)
}
