package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/spamguard/pkg/httpx"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestClientIP(t *testing.T) {
	t.Run("extracts from RemoteAddr", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		require.Equal(t, "192.168.1.1", httpx.ClientIP(req, false))
	})

	t.Run("ignores proxy headers when untrusted", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		req.Header.Set("X-Forwarded-For", "203.0.113.1")
		require.Equal(t, "192.168.1.1", httpx.ClientIP(req, false))
	})

	t.Run("prefers X-Forwarded-For when trusted", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		req.Header.Set("X-Forwarded-For", "203.0.113.1, 192.168.1.1")
		require.Equal(t, "203.0.113.1", httpx.ClientIP(req, true))
	})

	t.Run("uses X-Real-IP if X-Forwarded-For absent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		req.Header.Set("X-Real-IP", "203.0.113.2")
		require.Equal(t, "203.0.113.2", httpx.ClientIP(req, true))
	})
}

func TestRateLimiter_Allow(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	rl := httpx.NewRateLimiter(
		httpx.RateLimitConfig{RequestsPerWindow: 5, Window: time.Minute, Burst: 5},
		httpx.WithOperationLimit("classify", httpx.RateLimitConfig{RequestsPerWindow: 10, Window: time.Minute, Burst: 10}),
		httpx.WithClock(clock.Now),
	)

	t.Run("sixth request in a minute is rejected", func(t *testing.T) {
		for i := range 5 {
			ok, _ := rl.Allow("login_initiate", "10.0.0.1")
			require.True(t, ok, "request %d should pass", i+1)
		}
		ok, delay := rl.Allow("login_initiate", "10.0.0.1")
		require.False(t, ok)
		require.Greater(t, delay, time.Duration(0))
	})

	t.Run("keys by operation", func(t *testing.T) {
		ok, _ := rl.Allow("register_initiate", "10.0.0.1")
		require.True(t, ok, "a different operation has its own bucket")
	})

	t.Run("keys by origin", func(t *testing.T) {
		ok, _ := rl.Allow("login_initiate", "10.0.0.2")
		require.True(t, ok, "a different origin has its own bucket")
	})

	t.Run("operation override", func(t *testing.T) {
		for i := range 10 {
			ok, _ := rl.Allow("classify", "10.0.0.1")
			require.True(t, ok, "request %d should pass", i+1)
		}
		ok, _ := rl.Allow("classify", "10.0.0.1")
		require.False(t, ok)
	})

	t.Run("refills over time", func(t *testing.T) {
		clock.Advance(time.Minute)
		ok, _ := rl.Allow("login_initiate", "10.0.0.1")
		require.True(t, ok)
	})
}

func TestRateLimiter_Middleware(t *testing.T) {
	var hooked []string
	rl := httpx.NewRateLimiter(
		httpx.RateLimitConfig{RequestsPerWindow: 2, Window: time.Minute, Burst: 2},
		httpx.WithLimitHook(func(r *http.Request, op, key string) {
			hooked = append(hooked, op+"|"+key)
		}),
	)

	h := httpx.Chain(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }),
		httpx.OriginMiddleware(false),
		rl.Middleware("login_verify"),
	)

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/login/verify", nil)
		req.RemoteAddr = "198.51.100.7:4000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusOK, do().Code)
	require.Equal(t, http.StatusOK, do().Code)

	rec := do()
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))
	require.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	require.Contains(t, rec.Body.String(), `"error":"rate_limited"`)
	require.Equal(t, []string{"login_verify|198.51.100.7"}, hooked)
}

func TestParseRateLimitFromEnv(t *testing.T) {
	t.Setenv("RATELIMIT_CLASSIFY_REQUESTS", "3")
	t.Setenv("RATELIMIT_WINDOW_SEC", "30")

	cfg := httpx.ParseRateLimitFromEnv("CLASSIFY", httpx.ClassifyLimit)
	require.Equal(t, 3, cfg.RequestsPerWindow)
	require.Equal(t, 30*time.Second, cfg.Window)
	require.Equal(t, 3, cfg.Burst, "burst follows the request count")

	t.Setenv("RATELIMIT_CLASSIFY_BURST", "1")
	cfg = httpx.ParseRateLimitFromEnv("CLASSIFY", httpx.ClassifyLimit)
	require.Equal(t, 1, cfg.Burst)
}
