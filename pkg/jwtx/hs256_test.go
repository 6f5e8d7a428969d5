package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/spamguard/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestHS256_SignAndVerify(t *testing.T) {
	signer, err := jwtx.NewSignerHS256(testSecret)
	require.NoError(t, err)
	require.Equal(t, "HS256", signer.Alg())

	now := time.Now().UTC()
	claims := jwtx.NewSessionClaims("01ABC", "a@example.com", "user", "10.0.0.1", time.Hour, "spamguard", now)

	token, err := signer.Sign(claims)
	require.NoError(t, err)
	require.Equal(t, 2, strings.Count(token, "."))

	got, err := jwtx.NewVerifierHS256(testSecret, "spamguard", 0).Verify(token)
	require.NoError(t, err)
	require.Equal(t, "01ABC", got.Subject)
	require.Equal(t, "a@example.com", got.Email)
	require.Equal(t, "10.0.0.1", got.Origin)
}

func TestNewSignerHS256_ShortSecret(t *testing.T) {
	_, err := jwtx.NewSignerHS256([]byte("short"))
	require.Error(t, err)
}

func TestHS256_VerifyFailures(t *testing.T) {
	signer, err := jwtx.NewSignerHS256(testSecret)
	require.NoError(t, err)
	now := time.Now().UTC()

	t.Run("wrong secret", func(t *testing.T) {
		token, err := signer.Sign(jwtx.NewSessionClaims("s", "e", "user", "o", time.Hour, "spamguard", now))
		require.NoError(t, err)

		_, err = jwtx.NewVerifierHS256([]byte("ffffffffffffffffffffffffffffffff"), "spamguard", 0).Verify(token)
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("tampered payload", func(t *testing.T) {
		token, err := signer.Sign(jwtx.NewSessionClaims("s", "e", "user", "o", time.Hour, "spamguard", now))
		require.NoError(t, err)

		forged, err := signer.Sign(jwtx.NewSessionClaims("s", "e", "admin", "o", time.Hour, "spamguard", now))
		require.NoError(t, err)

		parts := strings.Split(token, ".")
		forgedParts := strings.Split(forged, ".")
		mixed := parts[0] + "." + forgedParts[1] + "." + parts[2]

		_, err = jwtx.NewVerifierHS256(testSecret, "spamguard", 0).Verify(mixed)
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := jwtx.NewVerifierHS256(testSecret, "spamguard", 0).Verify("not.a.jwt")
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		token, err := signer.Sign(jwtx.NewSessionClaims("s", "e", "user", "o", time.Hour, "elsewhere", now))
		require.NoError(t, err)

		_, err = jwtx.NewVerifierHS256(testSecret, "spamguard", 0).Verify(token)
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := signer.Sign(jwtx.NewSessionClaims("s", "e", "user", "o", time.Hour, "spamguard", now.Add(-2*time.Hour)))
		require.NoError(t, err)

		_, err = jwtx.NewVerifierHS256(testSecret, "spamguard", 0).Verify(token)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("expired by clock", func(t *testing.T) {
		token, err := signer.Sign(jwtx.NewSessionClaims("s", "e", "user", "o", time.Hour, "spamguard", now))
		require.NoError(t, err)

		v := jwtx.NewVerifierHS256(testSecret, "spamguard", 0).
			WithClock(func() time.Time { return now.Add(jwtx.DefaultSessionTTL) })
		_, err = v.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("none algorithm", func(t *testing.T) {
		claims := jwtx.NewSessionClaims("s", "e", "admin", "o", time.Hour, "spamguard", now)
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = jwtx.NewVerifierHS256(testSecret, "spamguard", 0).Verify(token)
		require.Error(t, err)
	})
}
