package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/aussiebroadwan/spamguard/internal/spamguard/domain"
	"github.com/aussiebroadwan/spamguard/internal/spamguard/mail"
	"github.com/aussiebroadwan/spamguard/internal/spamguard/store"
	"github.com/aussiebroadwan/spamguard/pkg/cryptox"
	"github.com/aussiebroadwan/spamguard/pkg/idx"
	"github.com/aussiebroadwan/spamguard/pkg/slogx"
)

// MinPasswordLength is counted in characters.
const MinPasswordLength = 8

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// SignupChallenge is returned once a signup code has been sent.
type SignupChallenge struct {
	Email   string
	Carrier string
}

// LoginResult is returned once a login code has been verified.
type LoginResult struct {
	Token     string
	Role      string
	ExpiresAt time.Time
}

// AuthService runs the two-step registration and login flows: credentials
// first, then a one-time code delivered by email.
type AuthService struct {
	Store    store.Store
	OTP      *OTPService
	Sessions *SessionService
	Events   EventRecorder
	Mailer   mail.Mailer
	Hasher   *cryptox.PasswordHasher
	Carrier  *Carrier

	// FailureDelay is how long a failed login waits before answering.
	// Defaults to a random 0.5 to 1.5 seconds.
	FailureDelay func() time.Duration

	Now func() time.Time
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// NormalizeEmail trims and lowercases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks the address shape.
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return invalid(ErrInvalidEmail, "Invalid email format")
	}
	return nil
}

// ValidatePassword requires at least MinPasswordLength characters with an
// uppercase letter, a lowercase letter and a digit.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return invalid(ErrWeakPassword, "Password must be at least 8 characters")
	}

	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return invalid(ErrWeakPassword, "Password must contain uppercase, lowercase and numbers")
	}
	return nil
}

// InitiateSignup validates the credentials, emails a signup code and seals
// the password into a carrier for the verify step.
func (s *AuthService) InitiateSignup(ctx context.Context, email, password, origin string) (SignupChallenge, error) {
	l := slogx.FromContext(ctx)

	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return SignupChallenge{}, invalid(ErrInvalidRequest, "Email and password are required")
	}
	if err := ValidateEmail(email); err != nil {
		return SignupChallenge{}, err
	}
	if err := ValidatePassword(password); err != nil {
		return SignupChallenge{}, err
	}

	_, err := s.Store.Identities().GetIdentityByEmail(ctx, email)
	switch {
	case err == nil:
		return SignupChallenge{}, invalid(ErrIdentityExists, "Email already exists")
	case !errors.Is(err, store.ErrNotFound):
		return SignupChallenge{}, fmt.Errorf("lookup identity: %w", err)
	}

	carrier, err := s.Carrier.Seal(email, password)
	if err != nil {
		return SignupChallenge{}, err
	}

	if err := s.sendCode(ctx, email, domain.PurposeSignup, origin); err != nil {
		return SignupChallenge{}, err
	}

	l.Info("signup code sent", slog.String("email", email))
	return SignupChallenge{Email: email, Carrier: carrier}, nil
}

// VerifySignup checks the signup code and creates the identity. carrier is
// either a sealed carrier from InitiateSignup (encrypted) or the plaintext
// password.
func (s *AuthService) VerifySignup(
	ctx context.Context,
	email, carrier string,
	encrypted bool,
	code, origin string,
) (domain.Identity, error) {
	l := slogx.FromContext(ctx)

	email = NormalizeEmail(email)
	if email == "" || carrier == "" || code == "" {
		return domain.Identity{}, invalid(ErrInvalidRequest, "Email, password and verification code are required")
	}

	password := carrier
	if encrypted {
		var err error
		if password, err = s.Carrier.Open(carrier, email); err != nil {
			return domain.Identity{}, invalid(ErrInvalidRequest, "Invalid request format")
		}
	} else if err := ValidatePassword(password); err != nil {
		return domain.Identity{}, err
	}

	ok, err := s.OTP.Verify(ctx, email, domain.PurposeSignup, code, origin)
	if err != nil {
		return domain.Identity{}, err
	}
	if !ok {
		s.recordInvalidCode(ctx, email, domain.PurposeSignup, origin)
		return domain.Identity{}, ErrInvalidCode
	}

	hash, err := s.Hasher.Hash(password)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("hash password: %w", err)
	}

	identity := domain.Identity{
		ID:           idx.New().String(),
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		CreatedAt:    s.now().Truncate(time.Millisecond),
	}
	err = s.Store.Identities().CreateIdentity(ctx, identity)
	if errors.Is(err, store.ErrAlreadyExists) {
		return domain.Identity{}, invalid(ErrIdentityExists, "Email already exists")
	}
	if err != nil {
		return domain.Identity{}, fmt.Errorf("create identity: %w", err)
	}

	l.Info("new identity registered",
		slog.String("identity_id", identity.ID),
		slog.String("email", email),
	)
	return identity, nil
}

// InitiateLogin checks the password and emails a login code. Unknown emails
// and wrong passwords take the same path and the same time.
func (s *AuthService) InitiateLogin(ctx context.Context, email, password, origin string) (string, error) {
	l := slogx.FromContext(ctx)

	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return "", invalid(ErrInvalidRequest, "Email and password are required")
	}

	identity, err := s.Store.Identities().GetIdentityByEmail(ctx, email)
	switch {
	case errors.Is(err, store.ErrNotFound):
		_ = s.Hasher.VerifyDummy(password)
		return "", s.failLogin(ctx, email, origin)
	case err != nil:
		return "", fmt.Errorf("lookup identity: %w", err)
	}

	if err := s.Hasher.Verify(password, identity.PasswordHash); err != nil {
		return "", s.failLogin(ctx, email, origin)
	}

	if cryptox.NeedsRehash(identity.PasswordHash) {
		s.upgradeHash(ctx, identity, password)
	}

	if err := s.sendCode(ctx, email, domain.PurposeLogin, origin); err != nil {
		return "", err
	}

	l.Info("login code sent", slog.String("identity_id", identity.ID))
	return email, nil
}

// VerifyLogin checks the login code and issues a session token.
func (s *AuthService) VerifyLogin(ctx context.Context, email, code, origin string) (LoginResult, error) {
	l := slogx.FromContext(ctx)

	email = NormalizeEmail(email)
	if email == "" || code == "" {
		return LoginResult{}, invalid(ErrInvalidRequest, "Email and verification code are required")
	}

	ok, err := s.OTP.Verify(ctx, email, domain.PurposeLogin, code, origin)
	if err != nil {
		return LoginResult{}, err
	}
	if !ok {
		s.recordInvalidCode(ctx, email, domain.PurposeLogin, origin)
		return LoginResult{}, ErrInvalidCode
	}

	identity, err := s.Store.Identities().GetIdentityByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return LoginResult{}, ErrIdentityNotFound
	}
	if err != nil {
		return LoginResult{}, fmt.Errorf("lookup identity: %w", err)
	}

	if err := s.Store.Identities().UpdateLastLogin(ctx, identity.ID, s.now()); err != nil {
		return LoginResult{}, fmt.Errorf("update last login: %w", err)
	}

	token, expiresAt, err := s.Sessions.Issue(identity, origin)
	if err != nil {
		return LoginResult{}, err
	}

	l.Info("identity logged in", slog.String("identity_id", identity.ID))
	return LoginResult{Token: token, Role: identity.Role, ExpiresAt: expiresAt}, nil
}

func (s *AuthService) sendCode(ctx context.Context, email string, purpose domain.Purpose, origin string) error {
	code, err := s.OTP.Issue(ctx, email, purpose, origin)
	if err != nil {
		return fmt.Errorf("issue %s code: %w", purpose, err)
	}

	if err := mail.SendCode(ctx, s.Mailer, email, purpose, code, origin, s.OTP.ttl()); err != nil {
		slogx.FromContext(ctx).Error("failed to send verification code",
			slog.String("purpose", string(purpose)),
			slog.Any("error", err),
		)
		return fmt.Errorf("%w: %w", ErrDelivery, err)
	}
	return nil
}

// failLogin records the failure and holds the response for the failure
// delay. No lock is held while waiting.
func (s *AuthService) failLogin(ctx context.Context, email, origin string) error {
	s.Events.Record(ctx, domain.Event{
		Type:     domain.EventFailedLogin,
		Details:  fmt.Sprintf("Failed login attempt for %s", email),
		Origin:   origin,
		Identity: email,
		Severity: domain.SeverityMedium,
	})

	delay := s.failureDelay()
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	}
	return ErrInvalidCredentials
}

func (s *AuthService) failureDelay() time.Duration {
	if s.FailureDelay != nil {
		return s.FailureDelay()
	}
	return 500*time.Millisecond + rand.N(time.Second)
}

func (s *AuthService) recordInvalidCode(ctx context.Context, email string, purpose domain.Purpose, origin string) {
	s.Events.Record(ctx, domain.Event{
		Type:     domain.EventInvalidOTP,
		Details:  fmt.Sprintf("Invalid or expired %s code for %s", purpose, email),
		Origin:   origin,
		Identity: email,
		Severity: domain.SeverityMedium,
	})
}

// upgradeHash replaces a legacy hash after a successful login. Failure only
// means the upgrade is retried next time.
func (s *AuthService) upgradeHash(ctx context.Context, identity domain.Identity, password string) {
	l := slogx.FromContext(ctx)

	hash, err := s.Hasher.Hash(password)
	if err != nil {
		l.Warn("failed to rehash legacy password", slog.Any("error", err))
		return
	}
	if err := s.Store.Identities().UpdatePasswordHash(ctx, identity.ID, hash); err != nil {
		l.Warn("failed to store upgraded password hash", slog.Any("error", err))
		return
	}
	l.Info("upgraded legacy password hash", slog.String("identity_id", identity.ID))
}
