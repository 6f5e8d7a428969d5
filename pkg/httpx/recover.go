package httpx

import (
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/spamguard/pkg/slogx"
	"github.com/getsentry/sentry-go"
)

// Recover turns panics into a 500 response. The panic is reported to Sentry
// when a client is configured.
func Recover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				slogx.FromContext(r.Context()).Error("panic in handler",
					"panic", fmt.Sprint(rec),
				)

				hub := sentry.GetHubFromContext(r.Context())
				if hub == nil {
					hub = sentry.CurrentHub().Clone()
				}
				if hub.Client() != nil {
					hub.Scope().SetRequest(r)
					hub.RecoverWithContext(r.Context(), rec)
				}

				WriteError(w, http.StatusInternalServerError, CodeServerError, "Internal server error")
			}()

			next.ServeHTTP(w, r)
		})
	}
}
