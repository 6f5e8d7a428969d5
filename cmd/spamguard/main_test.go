package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aussiebroadwan/spamguard/internal/spamguard/detect"
	"github.com/stretchr/testify/require"
)

func writeRules(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestCountRules(t *testing.T) {
	n, err := countRules(writeRules(t, "max_length = 1000\npatterns = ['<script.*?>']\n"))
	require.NoError(t, err)
	require.Len(t, detect.DefaultRules(), n)
}

func TestCountRulesRejectsBadFiles(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown key", "max_len = 10\n"},
		{"bad pattern", "patterns = ['(']\n"},
		{"inverted bounds", "min_length = 10\nmax_length = 5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := countRules(writeRules(t, tt.body))
			require.ErrorIs(t, err, detect.ErrInvalidConfig)
		})
	}
}
