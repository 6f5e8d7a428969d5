package detect_test

import (
	"math/rand/v2"
	"testing"

	"github.com/aussiebroadwan/spamguard/internal/spamguard/detect"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hello", "hello"},
		{"<b>win</b> money", "win money"},
		{`say "hi"; it's fine`, "say hi its fine"},
		{"  lots \t of\n\nspace  ", "lots of space"},
		{"<script>alert(1)</script>", "alert(1)"},
		{"a < b", "a < b"},
		{"", ""},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, detect.Sanitize(tt.in), "input %q", tt.in)
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	alphabet := []rune("ab <>'\";\t\n/xé")
	rng := rand.New(rand.NewPCG(1, 2))

	for range 500 {
		buf := make([]rune, rng.IntN(40))
		for i := range buf {
			buf[i] = alphabet[rng.IntN(len(alphabet))]
		}

		once := detect.Sanitize(string(buf))
		require.Equal(t, once, detect.Sanitize(once), "input %q", string(buf))
	}
}
