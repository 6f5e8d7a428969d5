package http

import (
	"context"
	"net/http"
	"time"

	"github.com/aussiebroadwan/spamguard/internal/spamguard/model"
	"github.com/aussiebroadwan/spamguard/internal/spamguard/store"
	"github.com/aussiebroadwan/spamguard/pkg/guardsdk"
	"github.com/aussiebroadwan/spamguard/pkg/httpx"
)

// pinger is implemented by predictors that can be probed without scoring
// anything.
type pinger interface {
	Ping(ctx context.Context) error
}

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe endpoint returning service health status and checks for critical dependencies
//	@Description	Includes uptime, version, and status of the database and the classification model
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	guardsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	guardsdk.HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(
	startTime time.Time,
	version string,
	st store.Store,
	predictor model.Predictor,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &guardsdk.HealthChecks{
			Database: "ok",
			Model:    "ok",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		// Check database connectivity
		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		// Check the model answers, when it can be probed
		switch p := predictor.(type) {
		case nil:
			checks.Model = "error: not configured"
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		case pinger:
			if err := p.Ping(r.Context()); err != nil {
				checks.Model = "error: " + err.Error()
				overallStatus = "degraded"
				statusCode = http.StatusServiceUnavailable
			}
		}

		response := guardsdk.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		}
		httpx.WriteJSON(w, statusCode, response)
	}
}
