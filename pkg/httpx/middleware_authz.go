package httpx

import (
	"net/http"
)

// DeniedHook is called when an authenticated caller lacks the required role.
type DeniedHook func(r *http.Request, p Principal)

// RequireRole the caller must carry exactly the given role. Must run after
// AuthnMiddleware.
func RequireRole(role string, onDenied DeniedHook) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if ok && p.Role == role {
				next.ServeHTTP(w, r)
				return
			}

			if onDenied != nil {
				onDenied(r, p)
			}
			WriteError(w, http.StatusForbidden, CodeForbidden, "Unauthorized access")
		})
	}
}
