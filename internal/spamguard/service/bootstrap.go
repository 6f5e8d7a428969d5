package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/spamguard/internal/spamguard/domain"
	"github.com/aussiebroadwan/spamguard/internal/spamguard/store"
	"github.com/aussiebroadwan/spamguard/pkg/cryptox"
	"github.com/aussiebroadwan/spamguard/pkg/idx"
	"github.com/aussiebroadwan/spamguard/pkg/slogx"
)

var (
	ErrBootstrapDisabled     = errors.New("bootstrap is not enabled")
	ErrBootstrapAlready      = errors.New("system already bootstrapped")
	ErrBootstrapUnauthorized = errors.New("unauthorized bootstrap attempt")
)

// BootstrapService creates the first admin identity. It only works while a
// bootstrap token is configured and no admin exists yet.
type BootstrapService struct {
	Store  store.Store
	Events EventRecorder
	Hasher *cryptox.PasswordHasher
	Token  string // Pre-configured bootstrap token

	Now func() time.Time
}

func (s *BootstrapService) IsBootstrapped(ctx context.Context) (bool, error) {
	admins, err := s.Store.Identities().CountByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return false, fmt.Errorf("count admins: %w", err)
	}
	return admins > 0, nil
}

func (s *BootstrapService) Bootstrap(ctx context.Context, token, email, password, origin string) (domain.Identity, error) {
	l := slogx.FromContext(ctx)

	// 1. Bootstrap must be switched on
	if s.Token == "" {
		return domain.Identity{}, ErrBootstrapDisabled
	}

	// 2. Validate provided token
	if !cryptox.EqualSecrets(token, s.Token) {
		l.Warn("unauthorized bootstrap attempt", slog.String("origin", origin))
		s.Events.Record(ctx, domain.Event{
			Type:     domain.EventUnauthorizedAccess,
			Details:  "Bootstrap attempted with an invalid token",
			Origin:   origin,
			Severity: domain.SeverityHigh,
		})
		return domain.Identity{}, ErrBootstrapUnauthorized
	}

	// 3. Validate admin credentials
	email = NormalizeEmail(email)
	if err := ValidateEmail(email); err != nil {
		return domain.Identity{}, err
	}
	if err := ValidatePassword(password); err != nil {
		return domain.Identity{}, err
	}

	hash, err := s.Hasher.Hash(password)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("hash admin password: %w", err)
	}

	now := time.Now().UTC()
	if s.Now != nil {
		now = s.Now().UTC()
	}
	admin := domain.Identity{
		ID:           idx.New().String(),
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		CreatedAt:    now.Truncate(time.Millisecond),
	}

	// 4. Check and create in one transaction so two racing requests cannot
	// both create an admin.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		admins, err := tx.Identities().CountByRole(ctx, domain.RoleAdmin)
		if err != nil {
			return fmt.Errorf("count admins: %w", err)
		}
		if admins > 0 {
			return ErrBootstrapAlready
		}

		err = tx.Identities().CreateIdentity(ctx, admin)
		if errors.Is(err, store.ErrAlreadyExists) {
			return invalid(ErrIdentityExists, "Email already exists")
		}
		return err
	})
	if errors.Is(err, store.ErrConflict) {
		// Another bootstrap held the write lock past busy_timeout
		return domain.Identity{}, fmt.Errorf("%w: %w", ErrBootstrapAlready, err)
	}
	if err != nil {
		if errors.Is(err, ErrBootstrapAlready) {
			l.Warn("attempted bootstrap on already-bootstrapped system")
			s.Events.Record(ctx, domain.Event{
				Type:     domain.EventUnauthorizedAccess,
				Details:  fmt.Sprintf("Bootstrap attempted for %s after an admin exists", email),
				Origin:   origin,
				Identity: email,
				Severity: domain.SeverityHigh,
			})
		}
		return domain.Identity{}, err
	}

	s.Events.Record(ctx, domain.Event{
		Type:     domain.EventBootstrapAdmin,
		Details:  fmt.Sprintf("Admin %s created by bootstrap", email),
		Origin:   origin,
		Identity: email,
		Severity: domain.SeverityHigh,
	})

	l.Info("successfully bootstrapped system", slog.String("admin_id", admin.ID))
	return admin, nil
}
