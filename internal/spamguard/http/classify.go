package http

import (
	"net/http"

	"github.com/aussiebroadwan/spamguard/internal/spamguard/service"
	"github.com/aussiebroadwan/spamguard/pkg/guardsdk"
	"github.com/aussiebroadwan/spamguard/pkg/httpx"
)

type ClassifyHandler struct {
	ClassifyService *service.ClassifyService
}

// ServeHTTP classifies submitted text.
//
//	@Summary		Classify text
//	@Description	Sanitises the text and screens it for adversarial input before scoring it with the model. Suspicious input is rejected without reaching the model.
//	@Tags			Classification
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		guardsdk.ClassifyRequest	true	"Text to classify"
//	@Success		200		{object}	guardsdk.ClassifyResponse	"Model verdict"
//	@Failure		400		{object}	guardsdk.ErrorResponse		"Missing text or adversarial input"
//	@Failure		401		{object}	guardsdk.ErrorResponse		"Missing, invalid or expired session"
//	@Failure		404		{object}	guardsdk.ErrorResponse		"User not found"
//	@Failure		429		{object}	guardsdk.ErrorResponse		"Rate limit exceeded"
//	@Failure		500		{object}	guardsdk.ErrorResponse		"Model unavailable"
//	@Router			/check_spam [post].
func (h *ClassifyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	identity, ok := principalIdentity(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, httpx.CodeUnauthorized, msgSessionExpired)
		return
	}

	var req guardsdk.ClassifyRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadJSON(w)
		return
	}

	pred, err := h.ClassifyService.Classify(r.Context(), identity, req.Mail, httpx.OriginFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, guardsdk.ClassifyResponse{
		Result:          pred.Result,
		Confidence:      pred.Confidence,
		ConfidenceLevel: pred.ConfidenceLevel,
		Warning:         pred.Warning,
	})
}
