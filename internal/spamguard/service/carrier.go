package service

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/spamguard/internal/spamguard/domain"
	"github.com/aussiebroadwan/spamguard/pkg/cryptox"
)

// Carrier seals the signup password so the client can hand it back at
// verify time without the server keeping pending registrations.
type Carrier struct {
	Sealer *cryptox.Sealer

	// TTL defaults to domain.OTPTTL.
	TTL time.Duration
	Now func() time.Time
}

type carrierPayload struct {
	Password  string `json:"password"`
	Email     string `json:"email"`
	ExpiresAt int64  `json:"expires_at"`
}

var errCarrierRejected = errors.New("carrier rejected")

func (c *Carrier) now() time.Time {
	if c.Now != nil {
		return c.Now().UTC()
	}
	return time.Now().UTC()
}

// Seal binds password to email with an expiry and returns the base64url
// encoded ciphertext.
func (c *Carrier) Seal(email, password string) (string, error) {
	ttl := c.TTL
	if ttl <= 0 {
		ttl = domain.OTPTTL
	}

	plain, err := json.Marshal(carrierPayload{
		Password:  password,
		Email:     email,
		ExpiresAt: c.now().Add(ttl).Unix(),
	})
	if err != nil {
		return "", fmt.Errorf("encode carrier: %w", err)
	}

	sealed, err := c.Sealer.Seal(plain)
	if err != nil {
		return "", fmt.Errorf("seal carrier: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Open returns the password sealed for email. Tampered, foreign and expired
// carriers are all rejected alike.
func (c *Carrier) Open(token, email string) (string, error) {
	sealed, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", errCarrierRejected
	}

	plain, err := c.Sealer.Open(sealed)
	if err != nil {
		return "", errCarrierRejected
	}

	var p carrierPayload
	if err := json.Unmarshal(plain, &p); err != nil {
		return "", errCarrierRejected
	}
	if p.Email != email || c.now().Unix() >= p.ExpiresAt {
		return "", errCarrierRejected
	}
	return p.Password, nil
}
