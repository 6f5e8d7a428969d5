package service_test

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/spamguard/internal/spamguard/detect"
	"github.com/aussiebroadwan/spamguard/internal/spamguard/domain"
	"github.com/aussiebroadwan/spamguard/internal/spamguard/mail"
	"github.com/aussiebroadwan/spamguard/internal/spamguard/model"
	"github.com/aussiebroadwan/spamguard/internal/spamguard/service"
	"github.com/aussiebroadwan/spamguard/internal/spamguard/store/drivers/sqlite"
	"github.com/aussiebroadwan/spamguard/pkg/cryptox"
	"github.com/aussiebroadwan/spamguard/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer   = "spamguard-test"
	testOrigin   = "10.0.0.1"
	testPassword = "Password1"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type env struct {
	store     *sqlite.Store
	clock     *clock
	outbox    *mail.Outbox
	hasher    *cryptox.PasswordHasher
	events    *service.EventLog
	otp       *service.OTPService
	sessions  *service.SessionService
	auth      *service.AuthService
	audit     *service.AuditService
	classify  *service.ClassifyService
	bootstrap *service.BootstrapService

	// predict backs the classify service's predictor.
	predict func(ctx context.Context, text string) (float64, error)
}

func newMemoryStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())
	return s
}

func newEnv(t *testing.T) *env {
	return newEnvWithStore(t, newMemoryStore(t))
}

func newEnvWithStore(t *testing.T, s *sqlite.Store) *env {
	t.Helper()

	clk := &clock{t: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}

	hasher, err := cryptox.NewPasswordHasher("test-pepper")
	require.NoError(t, err)
	sealer, err := cryptox.NewSealer([]byte("carrier-key"))
	require.NoError(t, err)

	secret := []byte(strings.Repeat("s", jwtx.MinSecretLength))
	signer, err := jwtx.NewSignerHS256(secret)
	require.NoError(t, err)
	verifier := jwtx.NewVerifierHS256(secret, testIssuer, 0).WithClock(clk.Now)

	e := &env{
		store:  s,
		clock:  clk,
		outbox: &mail.Outbox{},
		hasher: hasher,
		predict: func(context.Context, string) (float64, error) {
			return 0.9, nil
		},
	}

	e.events = &service.EventLog{Store: s, Key: []byte("event-key"), Now: clk.Now}
	e.otp = &service.OTPService{Store: s, Events: e.events, Key: []byte("otp-key"), Now: clk.Now}
	e.sessions = &service.SessionService{
		Store:    s,
		Events:   e.events,
		Signer:   signer,
		Verifier: verifier,
		Issuer:   testIssuer,
		Now:      clk.Now,
	}
	e.auth = &service.AuthService{
		Store:        s,
		OTP:          e.otp,
		Sessions:     e.sessions,
		Events:       e.events,
		Mailer:       e.outbox,
		Hasher:       hasher,
		Carrier:      &service.Carrier{Sealer: sealer, Now: clk.Now},
		FailureDelay: func() time.Duration { return 0 },
		Now:          clk.Now,
	}
	e.audit = &service.AuditService{Store: s}
	e.classify = &service.ClassifyService{
		Store:    s,
		Detector: detect.New(nil, e.events),
		Predictor: model.PredictorFunc(func(ctx context.Context, text string) (float64, error) {
			return e.predict(ctx, text)
		}),
		Events: e.events,
		Now:    clk.Now,
	}
	e.bootstrap = &service.BootstrapService{
		Store:  s,
		Events: e.events,
		Hasher: hasher,
		Token:  "bootstrap-token",
		Now:    clk.Now,
	}
	return e
}

var codePattern = regexp.MustCompile(`>(\d{6})</h3>`)

// lastCode pulls the verification code out of the latest mail to addr.
func (e *env) lastCode(t *testing.T, addr string) string {
	t.Helper()

	msg, ok := e.outbox.Last(addr)
	require.True(t, ok, "no mail sent to %s", addr)
	m := codePattern.FindStringSubmatch(msg.Body)
	require.Len(t, m, 2, "no code in mail body")
	return m[1]
}

func wrongCode(code string) string {
	if code == "000000" {
		return "111111"
	}
	return "000000"
}

// register runs the full signup flow for email.
func (e *env) register(t *testing.T, email string) domain.Identity {
	t.Helper()
	ctx := context.Background()

	ch, err := e.auth.InitiateSignup(ctx, email, testPassword, testOrigin)
	require.NoError(t, err)

	id, err := e.auth.VerifySignup(ctx, ch.Email, ch.Carrier, true, e.lastCode(t, ch.Email), testOrigin)
	require.NoError(t, err)
	return id
}

// login runs the full login flow for email.
func (e *env) login(t *testing.T, email string) service.LoginResult {
	t.Helper()
	ctx := context.Background()

	_, err := e.auth.InitiateLogin(ctx, email, testPassword, testOrigin)
	require.NoError(t, err)

	res, err := e.auth.VerifyLogin(ctx, email, e.lastCode(t, email), testOrigin)
	require.NoError(t, err)
	return res
}

// eventTypes lists recorded event types, oldest first.
func (e *env) eventTypes(t *testing.T) []string {
	t.Helper()

	var types []string
	err := e.store.SecurityEvents().WalkEvents(context.Background(), func(ev domain.SecurityEvent) error {
		types = append(types, ev.Type)
		return nil
	})
	require.NoError(t, err)
	return types
}

func (e *env) eventsOfType(t *testing.T, typ string) []domain.SecurityEvent {
	t.Helper()

	var out []domain.SecurityEvent
	err := e.store.SecurityEvents().WalkEvents(context.Background(), func(ev domain.SecurityEvent) error {
		if ev.Type == typ {
			out = append(out, ev)
		}
		return nil
	})
	require.NoError(t, err)
	return out
}
