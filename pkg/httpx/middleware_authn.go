package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/spamguard/pkg/slogx"
)

// Authenticator turns a raw bearer token into a Principal. An empty token
// means the header was missing or not a bearer credential; implementations
// decide what to record for that.
type Authenticator interface {
	Authenticate(ctx context.Context, token, origin string) (Principal, error)
}

// AuthFailure writes the response for a failed authentication.
type AuthFailure func(w http.ResponseWriter, r *http.Request, err error)

// AuthnMiddleware validates the bearer token and injects the Principal into
// the request context. The request logger is tagged with the caller.
func AuthnMiddleware(a Authenticator, fail AuthFailure) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			principal, err := a.Authenticate(ctx, BearerToken(r), OriginFromContext(ctx))
			if err != nil {
				fail(w, r, err)
				return
			}

			ctx = slogx.With(WithPrincipal(ctx, principal),
				"identity", principal.Email,
				"role", principal.Role,
			)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(r *http.Request) string {
	authz := r.Header.Get("Authorization")
	if len(authz) < 7 || !strings.EqualFold(authz[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(authz[7:])
}
