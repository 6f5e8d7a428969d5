package http

import (
	"net/http"

	"github.com/aussiebroadwan/spamguard/internal/spamguard/service"
	"github.com/aussiebroadwan/spamguard/pkg/guardsdk"
	"github.com/aussiebroadwan/spamguard/pkg/httpx"
)

const msgCodeSent = "Verification code sent to your email"

type RegisterHandler struct {
	AuthService *service.AuthService
}

// HandleInitiate starts a registration.
//
//	@Summary		Start registration
//	@Description	Validates the email and password and emails a 6-digit signup code. The password comes back sealed so the verify step does not need the plaintext again.
//	@Tags			Registration
//	@Accept			json
//	@Produce		json
//	@Param			request	body		guardsdk.RegisterInitiateRequest	true	"Email and password"
//	@Success		200		{object}	guardsdk.RegisterInitiateResponse	"Code sent, carrier returned"
//	@Failure		400		{object}	guardsdk.ErrorResponse				"Invalid email, weak password or email already registered"
//	@Failure		429		{object}	guardsdk.ErrorResponse				"Rate limit exceeded"
//	@Failure		500		{object}	guardsdk.ErrorResponse				"Failed to send verification code"
//	@Router			/register/initiate [post].
func (h *RegisterHandler) HandleInitiate(w http.ResponseWriter, r *http.Request) {
	var req guardsdk.RegisterInitiateRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadJSON(w)
		return
	}

	challenge, err := h.AuthService.InitiateSignup(r.Context(), req.Email, req.Password, httpx.OriginFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, guardsdk.RegisterInitiateResponse{
		Message:   msgCodeSent,
		Email:     challenge.Email,
		Password:  challenge.Carrier,
		Encrypted: true,
	})
}

// HandleVerify completes a registration.
//
//	@Summary		Complete registration
//	@Description	Checks the signup code and creates the identity. Password is either the sealed carrier from /register/initiate with encrypted=true, or the plaintext password.
//	@Tags			Registration
//	@Accept			json
//	@Produce		json
//	@Param			request	body		guardsdk.RegisterVerifyRequest	true	"Email, password carrier and code"
//	@Success		201		{object}	guardsdk.MessageResponse		"Identity created"
//	@Failure		400		{object}	guardsdk.ErrorResponse			"Missing fields or invalid carrier"
//	@Failure		401		{object}	guardsdk.ErrorResponse			"Invalid or expired verification code"
//	@Failure		429		{object}	guardsdk.ErrorResponse			"Rate limit exceeded"
//	@Router			/register/verify [post].
func (h *RegisterHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	var req guardsdk.RegisterVerifyRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadJSON(w)
		return
	}

	_, err := h.AuthService.VerifySignup(r.Context(),
		req.Email, req.Password, req.Encrypted, req.OTP,
		httpx.OriginFromContext(r.Context()),
	)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, guardsdk.MessageResponse{Message: "User registered successfully"})
}
