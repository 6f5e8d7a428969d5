package http

import (
	"net/http"

	"github.com/aussiebroadwan/spamguard/internal/spamguard/service"
	"github.com/aussiebroadwan/spamguard/pkg/guardsdk"
	"github.com/aussiebroadwan/spamguard/pkg/httpx"
)

type LoginHandler struct {
	AuthService *service.AuthService
}

// HandleInitiate checks credentials and emails a login code.
//
//	@Summary		Start login
//	@Description	Checks the password and emails a 6-digit login code. Unknown emails and wrong passwords get the same answer after the same delay.
//	@Tags			Login
//	@Accept			json
//	@Produce		json
//	@Param			request	body		guardsdk.LoginInitiateRequest	true	"Email and password"
//	@Success		200		{object}	guardsdk.LoginInitiateResponse	"Code sent"
//	@Failure		400		{object}	guardsdk.ErrorResponse			"Missing fields"
//	@Failure		401		{object}	guardsdk.ErrorResponse			"Invalid credentials"
//	@Failure		429		{object}	guardsdk.ErrorResponse			"Rate limit exceeded"
//	@Failure		500		{object}	guardsdk.ErrorResponse			"Failed to send verification code"
//	@Router			/login/initiate [post].
func (h *LoginHandler) HandleInitiate(w http.ResponseWriter, r *http.Request) {
	var req guardsdk.LoginInitiateRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadJSON(w)
		return
	}

	email, err := h.AuthService.InitiateLogin(r.Context(), req.Email, req.Password, httpx.OriginFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, guardsdk.LoginInitiateResponse{
		Message: msgCodeSent,
		Email:   email,
	})
}

// HandleVerify exchanges a login code for a session token.
//
//	@Summary		Complete login
//	@Description	Checks the login code and issues a session token bound to the caller's address for 8 hours.
//	@Tags			Login
//	@Accept			json
//	@Produce		json
//	@Param			request	body		guardsdk.LoginVerifyRequest		true	"Email and code"
//	@Success		200		{object}	guardsdk.LoginVerifyResponse	"Session token"
//	@Failure		400		{object}	guardsdk.ErrorResponse			"Missing fields"
//	@Failure		401		{object}	guardsdk.ErrorResponse			"Invalid or expired verification code"
//	@Failure		404		{object}	guardsdk.ErrorResponse			"User not found"
//	@Failure		429		{object}	guardsdk.ErrorResponse			"Rate limit exceeded"
//	@Router			/login/verify [post].
func (h *LoginHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	var req guardsdk.LoginVerifyRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadJSON(w)
		return
	}

	res, err := h.AuthService.VerifyLogin(r.Context(), req.Email, req.OTP, httpx.OriginFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, guardsdk.LoginVerifyResponse{
		Token:     res.Token,
		Role:      res.Role,
		ExpiresAt: res.ExpiresAt,
	})
}
