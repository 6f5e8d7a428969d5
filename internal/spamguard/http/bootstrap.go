package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/spamguard/internal/spamguard/service"
	"github.com/aussiebroadwan/spamguard/pkg/guardsdk"
	"github.com/aussiebroadwan/spamguard/pkg/httpx"
	"github.com/aussiebroadwan/spamguard/pkg/slogx"
)

type BootstrapHandler struct {
	BootstrapService *service.BootstrapService
}

// ServeHTTP handles the bootstrap endpoint for initial system setup.
//
//	@Summary		Create the first admin
//	@Description	Creates the first admin identity. Only available when a bootstrap token is configured and no admin exists yet.
//	@Tags			Bootstrap
//	@Accept			json
//	@Produce		json
//	@Param			X-Bootstrap-Token	header		string						true	"Bootstrap token for authorization"
//	@Param			request				body		guardsdk.BootstrapRequest	true	"Admin credentials"
//	@Success		201					{object}	guardsdk.BootstrapResponse	"Admin created"
//	@Failure		400					{object}	guardsdk.ErrorResponse		"Invalid email or weak password"
//	@Failure		401					{object}	guardsdk.ErrorResponse		"Missing or invalid bootstrap token, or system already bootstrapped"
//	@Failure		404					{object}	guardsdk.ErrorResponse		"Bootstrap not enabled (no token configured)"
//	@Failure		429					{object}	guardsdk.ErrorResponse		"Rate limit exceeded"
//	@Failure		500					{object}	guardsdk.ErrorResponse		"Failed to create admin"
//	@Router			/bootstrap [post].
func (h *BootstrapHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	l := slogx.FromContext(r.Context())
	l.Info("Starting to bootstrap")

	// 1. Check if enabled
	if h.BootstrapService.Token == "" {
		httpx.WriteError(w, http.StatusNotFound, httpx.CodeNotFound, "Bootstrap endpoint is not enabled")
		return
	}

	// 2. Parse request body
	var req guardsdk.BootstrapRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadJSON(w)
		return
	}

	// 3. Perform bootstrap, a missing token header is just a wrong token
	identity, err := h.BootstrapService.Bootstrap(r.Context(),
		r.Header.Get("X-Bootstrap-Token"), req.Email, req.Password,
		httpx.OriginFromContext(r.Context()),
	)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBootstrapDisabled):
			httpx.WriteError(w, http.StatusNotFound, httpx.CodeNotFound, "Bootstrap endpoint is not enabled")
		case errors.Is(err, service.ErrBootstrapAlready):
			httpx.WriteError(w, http.StatusUnauthorized, httpx.CodeUnauthorized, "System has already been bootstrapped")
		case errors.Is(err, service.ErrBootstrapUnauthorized):
			httpx.WriteError(w, http.StatusUnauthorized, httpx.CodeUnauthorized, "Invalid bootstrap token")
		default:
			writeServiceError(w, r, err)
		}
		return
	}

	// 4. Respond with the created admin
	httpx.WriteJSON(w, http.StatusCreated, guardsdk.BootstrapResponse{
		IdentityID: identity.ID,
		Email:      identity.Email,
		Role:       identity.Role,
	})
}
