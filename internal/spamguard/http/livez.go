package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/spamguard/pkg/guardsdk"
	"github.com/aussiebroadwan/spamguard/pkg/httpx"
)

// LivezHandler godoc
//
//	@Summary		Liveness
//	@Description	Reports that the gatekeeper process is serving. Neither the database nor the model is consulted, use /readyz for that.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	guardsdk.HealthResponse	"status, uptime, version"
//	@Router			/livez [get].
func LivezHandler(started time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, guardsdk.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(started).Round(time.Second).String(),
			Version: version,
		})
	}
}
