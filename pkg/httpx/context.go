package httpx

import "context"

type ctxKey string

const (
	CtxKeyOrigin    ctxKey = "origin"
	CtxKeyPrincipal ctxKey = "principal"
)

// Principal is the authenticated caller attached by AuthnMiddleware.
type Principal struct {
	IdentityID string
	Email      string
	Role       string
	Origin     string
}

// WithOrigin stores the resolved client address.
func WithOrigin(ctx context.Context, origin string) context.Context {
	return context.WithValue(ctx, CtxKeyOrigin, origin)
}

// OriginFromContext returns the client address set by OriginMiddleware, or
// "unknown" when the middleware did not run.
func OriginFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyOrigin).(string); ok && v != "" {
		return v
	}
	return "unknown"
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, CtxKeyPrincipal, p)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(CtxKeyPrincipal).(Principal)
	return p, ok
}
