package service

import (
	"context"
	"encoding/base32"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/hotp"

	"github.com/aussiebroadwan/spamguard/internal/spamguard/domain"
	"github.com/aussiebroadwan/spamguard/internal/spamguard/store"
	"github.com/aussiebroadwan/spamguard/pkg/cryptox"
	"github.com/aussiebroadwan/spamguard/pkg/idx"
	"github.com/aussiebroadwan/spamguard/pkg/slogx"
)

// OTPService issues and verifies 6-digit one-time codes. At most one live
// code exists per (identity, purpose); only a keyed fingerprint of the code
// is stored.
type OTPService struct {
	Store  store.Store
	Events EventRecorder
	Key    []byte

	// TTL and MaxAttempts default to domain.OTPTTL and domain.OTPMaxAttempts.
	TTL         time.Duration
	MaxAttempts int

	Now func() time.Time
}

func (s *OTPService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *OTPService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return domain.OTPTTL
}

func (s *OTPService) maxAttempts() int {
	if s.MaxAttempts > 0 {
		return s.MaxAttempts
	}
	return domain.OTPMaxAttempts
}

var hotpSecretEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// generateCode derives a 6-digit code by HOTP truncation over a fresh
// 160-bit secret.
func generateCode() (string, error) {
	secret, err := cryptox.RandomBytes(cryptox.TokenSize160)
	if err != nil {
		return "", err
	}
	return hotp.GenerateCodeCustom(hotpSecretEncoding.EncodeToString(secret), 0, hotp.ValidateOpts{
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
}

// Issue replaces any code for the pair with a fresh one and returns the
// plaintext code for delivery.
func (s *OTPService) Issue(ctx context.Context, identity string, purpose domain.Purpose, origin string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}

	now := s.now().Truncate(time.Millisecond)
	rec := domain.OneTimeCode{
		ID:        idx.NewAt(now).String(),
		Identity:  identity,
		Purpose:   purpose,
		CodeHash:  cryptox.KeyedFingerprint(s.Key, code),
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl()),
		Origin:    origin,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.OneTimeCodes().DeleteCodes(ctx, identity, purpose); err != nil {
			return fmt.Errorf("delete previous codes: %w", err)
		}
		if err := tx.OneTimeCodes().CreateCode(ctx, rec); err != nil {
			return fmt.Errorf("create code: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	slogx.FromContext(ctx).Debug("one-time code issued",
		slog.String("purpose", string(purpose)),
		slog.String("code_id", rec.ID),
	)
	return code, nil
}

// Verify reports whether code is the live code for the pair. Missing,
// expired, already verified and wrong codes all report false. A wrong code
// counts an attempt; the attempt that reaches the limit burns the code.
func (s *OTPService) Verify(ctx context.Context, identity string, purpose domain.Purpose, code, origin string) (bool, error) {
	codes := s.Store.OneTimeCodes()

	rec, err := codes.GetLiveCode(ctx, identity, purpose, s.now(), s.maxAttempts())
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get live code: %w", err)
	}

	if !cryptox.EqualFingerprints(cryptox.KeyedFingerprint(s.Key, code), rec.CodeHash) {
		attempts, err := codes.IncrementAttempts(ctx, rec.ID)
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("increment attempts: %w", err)
		}

		if attempts >= s.maxAttempts() {
			if err := codes.DeleteCode(ctx, rec.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
				return false, fmt.Errorf("delete exhausted code: %w", err)
			}
			s.Events.Record(ctx, domain.Event{
				Type:     domain.EventMaxOTPAttempts,
				Details:  fmt.Sprintf("User %s exceeded maximum OTP attempts for %s", identity, purpose),
				Origin:   origin,
				Identity: identity,
				Severity: domain.SeverityHigh,
			})
		}
		return false, nil
	}

	ok, err := codes.MarkVerified(ctx, rec.ID)
	if err != nil {
		return false, fmt.Errorf("mark verified: %w", err)
	}
	return ok, nil
}

// DeleteStale removes expired and verified codes.
func (s *OTPService) DeleteStale(ctx context.Context) (int64, error) {
	return s.Store.OneTimeCodes().DeleteStaleCodes(ctx, s.now())
}
