package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/spamguard/internal/spamguard/domain"
	"github.com/aussiebroadwan/spamguard/internal/spamguard/store"
	"github.com/aussiebroadwan/spamguard/pkg/httpx"
	"github.com/aussiebroadwan/spamguard/pkg/jwtx"
)

// SessionService issues and validates HS256 session tokens bound to the
// origin they were issued to.
type SessionService struct {
	Store    store.Store
	Events   EventRecorder
	Signer   jwtx.Signer
	Verifier jwtx.Verifier
	Issuer   string

	// TTL defaults to jwtx.DefaultSessionTTL.
	TTL time.Duration
	Now func() time.Time
}

func (s *SessionService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Issue signs a session token for identity.
func (s *SessionService) Issue(identity domain.Identity, origin string) (string, time.Time, error) {
	ttl := s.TTL
	if ttl <= 0 {
		ttl = jwtx.DefaultSessionTTL
	}

	now := s.now().Truncate(time.Second)
	claims := jwtx.NewSessionClaims(identity.ID, identity.Email, identity.Role, origin, ttl, s.Issuer, now)

	token, err := s.Signer.Sign(claims)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return token, claims.ExpiresAt.Time, nil
}

// Validate checks the token and that it is presented from the origin it was
// issued to. Each failure records its own security event.
func (s *SessionService) Validate(ctx context.Context, token, origin string) (jwtx.Claims, error) {
	claims, err := s.Verifier.Verify(token)
	switch {
	case errors.Is(err, jwtx.ErrExpired):
		s.Events.Record(ctx, domain.Event{
			Type:     domain.EventExpiredToken,
			Details:  "Expired token used",
			Origin:   origin,
			Identity: claims.Email,
			Severity: domain.SeverityLow,
		})
		return jwtx.Claims{}, ErrSessionExpired

	case err != nil:
		s.Events.Record(ctx, domain.Event{
			Type:     domain.EventInvalidToken,
			Details:  "Invalid token used",
			Origin:   origin,
			Severity: domain.SeverityHigh,
		})
		return jwtx.Claims{}, ErrSessionInvalid
	}

	if claims.Origin != origin {
		s.Events.Record(ctx, domain.Event{
			Type:     domain.EventIPMismatch,
			Details:  fmt.Sprintf("Token IP %s doesn't match current IP %s", claims.Origin, origin),
			Origin:   origin,
			Identity: claims.Email,
			Severity: domain.SeverityHigh,
		})
		return jwtx.Claims{}, ErrSessionOriginMismatch
	}

	return claims, nil
}

// Authenticate implements httpx.Authenticator. The identity named by the
// token must still exist.
func (s *SessionService) Authenticate(ctx context.Context, token, origin string) (httpx.Principal, error) {
	if token == "" {
		s.Events.Record(ctx, domain.Event{
			Type:     domain.EventMissingToken,
			Details:  "API request without token",
			Origin:   origin,
			Severity: domain.SeverityMedium,
		})
		return httpx.Principal{}, ErrSessionMissing
	}

	claims, err := s.Validate(ctx, token, origin)
	if err != nil {
		return httpx.Principal{}, err
	}

	identity, err := s.Store.Identities().GetIdentityByID(ctx, claims.Subject)
	if errors.Is(err, store.ErrNotFound) {
		return httpx.Principal{}, ErrIdentityNotFound
	}
	if err != nil {
		return httpx.Principal{}, fmt.Errorf("load session identity: %w", err)
	}

	return httpx.Principal{
		IdentityID: identity.ID,
		Email:      identity.Email,
		Role:       identity.Role,
		Origin:     origin,
	}, nil
}
