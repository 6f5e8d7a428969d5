package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	tests := []struct {
		name string
		size int
	}{
		{"128-bit token", TokenSize128},
		{"160-bit token", TokenSize160},
		{"256-bit token", TokenSize256},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := GenerateToken(tt.size)
			require.NoError(t, err)
			require.NotEmpty(t, token)

			token2, err := GenerateToken(tt.size)
			require.NoError(t, err)
			require.NotEqual(t, token, token2, "tokens should be unique")
		})
	}
}

func TestGenerateToken_InvalidSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		token, err := GenerateToken(size)
		require.Error(t, err)
		require.Empty(t, token)
	}
}

func TestFingerprintToken(t *testing.T) {
	fp1a := FingerprintToken("123456")
	fp1b := FingerprintToken("123456")
	fp2 := FingerprintToken("654321")

	require.Equal(t, fp1a, fp1b, "fingerprint should be deterministic")
	require.NotEqual(t, fp1a, fp2)
	require.Len(t, fp1a, 43, "SHA-256 base64url should be 43 chars")

	require.True(t, EqualFingerprints(fp1a, fp1b))
	require.False(t, EqualFingerprints(fp1a, fp2))
}

func TestEqualSecrets(t *testing.T) {
	require.True(t, EqualSecrets("bootstrap-token", "bootstrap-token"))
	require.False(t, EqualSecrets("bootstrap-token", "bootstrap-tokem"))
	require.False(t, EqualSecrets("bootstrap-token", "bootstrap"))
	require.False(t, EqualSecrets("bootstrap-token", ""))
}

func TestKeyedFingerprint(t *testing.T) {
	k1 := DeriveKey([]byte("master"), "otp")
	k2 := DeriveKey([]byte("master"), "events")
	require.Len(t, k1, 32)
	require.NotEqual(t, k1, k2)

	a := KeyedFingerprint(k1, "123456")
	require.Equal(t, a, KeyedFingerprint(k1, "123456"))
	require.NotEqual(t, a, KeyedFingerprint(k2, "123456"))
	require.NotEqual(t, a, FingerprintToken("123456"))
	require.Len(t, a, 43)
}
