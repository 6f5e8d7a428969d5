package httpx_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aussiebroadwan/spamguard/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}), mark("first"), mark("second"), mark("third"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"first", "second", "third", "handler"}, order)
}

type stubAuthenticator struct {
	gotToken  string
	gotOrigin string
}

func (s *stubAuthenticator) Authenticate(_ context.Context, token, origin string) (httpx.Principal, error) {
	s.gotToken, s.gotOrigin = token, origin
	if token != "good" {
		return httpx.Principal{}, errors.New("bad token")
	}
	return httpx.Principal{IdentityID: "01ID", Role: "user", Origin: origin}, nil
}

func TestAuthnAndRequireRole(t *testing.T) {
	auth := &stubAuthenticator{}
	var denied []string

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := httpx.PrincipalFromContext(r.Context())
		require.True(t, ok)
		_, _ = w.Write([]byte(p.IdentityID))
	})
	fail := func(w http.ResponseWriter, r *http.Request, err error) {
		httpx.WriteError(w, http.StatusUnauthorized, httpx.CodeUnauthorized, "session expired, please login again")
	}

	userRoute := httpx.Chain(inner, httpx.OriginMiddleware(false), httpx.AuthnMiddleware(auth, fail))
	adminRoute := httpx.Chain(inner,
		httpx.OriginMiddleware(false),
		httpx.AuthnMiddleware(auth, fail),
		httpx.RequireRole("admin", func(r *http.Request, p httpx.Principal) { denied = append(denied, p.IdentityID) }),
	)

	t.Run("missing header passes empty token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		userRoute.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "", auth.gotToken)
	})

	t.Run("bearer scheme is case insensitive", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.1.1.1:999"
		req.Header.Set("Authorization", "bearer good")
		rec := httptest.NewRecorder()
		userRoute.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "01ID", rec.Body.String())
		require.Equal(t, "10.1.1.1", auth.gotOrigin)
	})

	t.Run("non admin is forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer good")
		rec := httptest.NewRecorder()
		adminRoute.ServeHTTP(rec, req)
		require.Equal(t, http.StatusForbidden, rec.Code)
		require.Equal(t, []string{"01ID"}, denied)
	})
}

func TestCORS(t *testing.T) {
	h := httpx.CORS([]string{"http://localhost:3000"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("preflight from allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/check_spam", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", "POST")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
		require.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
		require.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
	})

	t.Run("unknown origin gets no headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/logs", nil)
		req.Header.Set("Origin", "http://evil.example")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRecover(t *testing.T) {
	h := httpx.Recover()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "server_error")
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		Email string `json:"email"`
	}

	t.Run("single object", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@example.com"}`))
		require.NoError(t, httpx.DecodeJSON(httptest.NewRecorder(), req, &v))
		require.Equal(t, "a@example.com", v.Email)
	})

	t.Run("trailing data", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a"}{"email":"b"}`))
		require.ErrorIs(t, httpx.DecodeJSON(httptest.NewRecorder(), req, &v), httpx.ErrBadJSON)
	})

	t.Run("not json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`email=a`))
		require.ErrorIs(t, httpx.DecodeJSON(httptest.NewRecorder(), req, &v), httpx.ErrBadJSON)
	})
}
