package app

import (
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/spamguard/pkg/cryptox"
	"github.com/aussiebroadwan/spamguard/pkg/jwtx"
)

// Keys holds every secret the services need.
type Keys struct {
	Pepper   string
	Signer   jwtx.Signer
	Verifier jwtx.Verifier
	Sealer   *cryptox.Sealer

	// OTPKey and EventKey are derived from the pepper so they survive
	// restarts together with the database.
	OTPKey   []byte
	EventKey []byte
}

// InitKeys loads the pepper and builds the session and carrier keys.
//
// Key sources:
//   - pepper: read from PepperFile, generated on first start.
//   - session secret: JWT_SECRET, or a random per-process secret. A random
//     secret invalidates every session on restart.
//   - carrier key: ENCRYPTION_KEY, or a random per-process key. Pending
//     registrations are lost on restart.
func InitKeys(cfg Config, logger *slog.Logger) (Keys, error) {
	pepper, err := cryptox.LoadOrGeneratePepper(cfg.PepperFile)
	if err != nil {
		return Keys{}, fmt.Errorf("failed to load pepper: %w", err)
	}

	secret := []byte(cfg.JWTSecret)
	if len(secret) == 0 {
		secret, err = cryptox.RandomBytes(cryptox.TokenSize256)
		if err != nil {
			return Keys{}, err
		}
		logger.Warn("JWT_SECRET not set, generated an ephemeral session secret")
		logger.Warn("all existing sessions are now invalid")
	}
	signer, err := jwtx.NewSignerHS256(secret)
	if err != nil {
		return Keys{}, fmt.Errorf("JWT_SECRET must be at least %d bytes: %w", jwtx.MinSecretLength, err)
	}
	verifier := jwtx.NewVerifierHS256(secret, cfg.Issuer, 0)

	material := []byte(cfg.EncryptionKey)
	if len(material) == 0 {
		material, err = cryptox.RandomBytes(cryptox.TokenSize256)
		if err != nil {
			return Keys{}, err
		}
		logger.Warn("ENCRYPTION_KEY not set, generated an ephemeral carrier key")
	}
	sealer, err := cryptox.NewSealer(material)
	if err != nil {
		return Keys{}, fmt.Errorf("failed to initialize carrier key: %w", err)
	}

	logger.Info("keys initialized", "issuer", cfg.Issuer, "alg", signer.Alg())

	return Keys{
		Pepper:   pepper,
		Signer:   signer,
		Verifier: verifier,
		Sealer:   sealer,
		OTPKey:   cryptox.DeriveKey([]byte(pepper), "spamguard/otp"),
		EventKey: cryptox.DeriveKey([]byte(pepper), "spamguard/security-events"),
	}, nil
}
