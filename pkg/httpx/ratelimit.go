package httpx

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/aussiebroadwan/spamguard/pkg/slogx"
	"golang.org/x/time/rate"
)

// RateLimitConfig defines the rate limiting parameters.
type RateLimitConfig struct {
	// RequestsPerWindow is the number of requests allowed in the time window
	RequestsPerWindow int
	// Window is the time window for rate limiting
	Window time.Duration
	// Burst allows for temporary bursts above the rate limit
	Burst int
}

var (
	// DefaultLimit applies to every operation without its own limit.
	// 5 requests per minute, all 5 available as a burst.
	DefaultLimit = RateLimitConfig{
		RequestsPerWindow: 5,
		Window:            time.Minute,
		Burst:             5,
	}

	// ClassifyLimit applies to the classification endpoint.
	ClassifyLimit = RateLimitConfig{
		RequestsPerWindow: 10,
		Window:            time.Minute,
		Burst:             10,
	}

	// HealthLimit is for probes, which poll far more often than users.
	HealthLimit = RateLimitConfig{
		RequestsPerWindow: 120,
		Window:            time.Minute,
		Burst:             20,
	}
)

// ParseRateLimitFromEnv reads rate limit configuration from environment variables.
// Environment variables follow the pattern: RATELIMIT_{prefix}_{field}
// For example: RATELIMIT_CLASSIFY_REQUESTS, RATELIMIT_CLASSIFY_WINDOW_SEC, RATELIMIT_CLASSIFY_BURST
// A shared RATELIMIT_WINDOW_SEC applies when the prefixed window is unset.
func ParseRateLimitFromEnv(prefix string, defaultConfig RateLimitConfig) RateLimitConfig {
	config := defaultConfig
	burstSet := false

	if val := os.Getenv("RATELIMIT_" + prefix + "_REQUESTS"); val != "" {
		if requests, err := strconv.Atoi(val); err == nil && requests > 0 {
			config.RequestsPerWindow = requests
		}
	}

	window := os.Getenv("RATELIMIT_" + prefix + "_WINDOW_SEC")
	if window == "" {
		window = os.Getenv("RATELIMIT_WINDOW_SEC")
	}
	if window != "" {
		if windowSec, err := strconv.Atoi(window); err == nil && windowSec > 0 {
			config.Window = time.Duration(windowSec) * time.Second
		}
	}

	if val := os.Getenv("RATELIMIT_" + prefix + "_BURST"); val != "" {
		if burst, err := strconv.Atoi(val); err == nil && burst > 0 {
			config.Burst = burst
			burstSet = true
		}
	}

	// A fixed window of N requests means N are available at once
	if !burstSet {
		config.Burst = config.RequestsPerWindow
	}

	return config
}

// LimitHook is called every time a request is rejected.
type LimitHook func(r *http.Request, op, key string)

// RateLimiter holds one token bucket per (operation, key) pair. The bucket
// refills at RequestsPerWindow/Window and holds Burst tokens, so a caller
// gets at most Burst requests in any window.
type RateLimiter struct {
	limiters sync.Map // map[string]*rate.Limiter

	def     RateLimitConfig
	configs map[string]RateLimitConfig
	onLimit LimitHook
	now     func() time.Time

	mu          sync.Mutex
	lastCleanup time.Time
}

// RateLimiterOption customises a RateLimiter.
type RateLimiterOption func(*RateLimiter)

// WithOperationLimit overrides the limit for a single operation.
func WithOperationLimit(op string, cfg RateLimitConfig) RateLimiterOption {
	return func(rl *RateLimiter) { rl.configs[op] = cfg }
}

// WithLimitHook registers a callback for rejected requests.
func WithLimitHook(h LimitHook) RateLimiterOption {
	return func(rl *RateLimiter) { rl.onLimit = h }
}

// WithClock overrides the time source, mostly for tests.
func WithClock(now func() time.Time) RateLimiterOption {
	return func(rl *RateLimiter) { rl.now = now }
}

// NewRateLimiter builds a limiter with def as the fallback limit.
func NewRateLimiter(def RateLimitConfig, opts ...RateLimiterOption) *RateLimiter {
	rl := &RateLimiter{
		def:     def,
		configs: make(map[string]RateLimitConfig),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(rl)
	}
	rl.lastCleanup = rl.now()
	return rl
}

// Config returns the effective limit for op.
func (rl *RateLimiter) Config(op string) RateLimitConfig {
	if cfg, ok := rl.configs[op]; ok {
		return cfg
	}
	return rl.def
}

// Allow consumes a token for (op, key). When the bucket is empty it returns
// false and how long until the next token.
func (rl *RateLimiter) Allow(op, key string) (bool, time.Duration) {
	now := rl.now()
	limiter := rl.getLimiter(op, key, now)

	if limiter.AllowN(now, 1) {
		return true, 0
	}

	// Work out when the next token lands without consuming it
	res := limiter.ReserveN(now, 1)
	delay := res.DelayFrom(now)
	res.CancelAt(now)
	return false, delay
}

// getLimiter retrieves or creates a rate limiter for the given key
func (rl *RateLimiter) getLimiter(op, key string, now time.Time) *rate.Limiter {
	k := op + "|" + key

	if limiter, ok := rl.limiters.Load(k); ok {
		return limiter.(*rate.Limiter)
	}

	cfg := rl.Config(op)
	limiter := rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerWindow)/cfg.Window.Seconds()), cfg.Burst)
	actual, _ := rl.limiters.LoadOrStore(k, limiter)

	rl.maybeCleanup(now)

	return actual.(*rate.Limiter)
}

// maybeCleanup removes limiters whose buckets have refilled completely,
// they carry no state worth keeping.
func (rl *RateLimiter) maybeCleanup(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if now.Sub(rl.lastCleanup) < 5*time.Minute {
		return
	}
	rl.lastCleanup = now

	rl.limiters.Range(func(key, value any) bool {
		limiter := value.(*rate.Limiter)
		if limiter.TokensAt(now) >= float64(limiter.Burst()) {
			rl.limiters.Delete(key)
		}
		return true
	})
}

// Middleware admits requests for op keyed by the client origin. Rejected
// requests get a 429 with Retry-After.
func (rl *RateLimiter) Middleware(op string) Middleware {
	cfg := rl.Config(op)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := slogx.FromContext(r.Context())
			key := OriginFromContext(r.Context())

			ok, delay := rl.Allow(op, key)
			if ok {
				next.ServeHTTP(w, r)
				return
			}

			retryAfter := max(int(delay.Seconds()+0.999), 1)

			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.RequestsPerWindow))
			w.Header().Set("X-RateLimit-Window", cfg.Window.String())

			log.Warn("rate limit exceeded",
				"key", key,
				"operation", op,
				"retry_after", retryAfter,
			)

			if rl.onLimit != nil {
				rl.onLimit(r, op, key)
			}

			WriteError(w, http.StatusTooManyRequests, CodeRateLimited,
				fmt.Sprintf("Too many requests. Please try again in %d seconds.", retryAfter))
		})
	}
}
