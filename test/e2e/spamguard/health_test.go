//go:build e2e

package spamguard_test

import (
	"net/http"
	"testing"

	"github.com/aussiebroadwan/spamguard/pkg/guardsdk"
	"github.com/stretchr/testify/require"
)

// TestLivezEndpoint verifies the liveness check works before bootstrap.
func TestLivezEndpoint(t *testing.T) {
	s := setupStack(t, relaxedLimits)
	client := guardsdk.NewSDKClient(s.BaseURL)

	health, err := client.GetLiveness(t.Context())
	require.NoError(t, err)
	require.Equal(t, "ok", health.Status)
	require.NotEmpty(t, health.Uptime)
}

// TestReadyzReportsMissingModel verifies readiness fails while the model is
// unreachable, with the database still reported healthy.
func TestReadyzReportsMissingModel(t *testing.T) {
	s := setupStack(t, relaxedLimits)
	client := guardsdk.NewSDKClient(s.BaseURL)

	health, err := client.GetReadiness(t.Context())
	assertStatus(t, err, http.StatusServiceUnavailable, "readiness without a model")
	require.NotNil(t, health)
	require.Equal(t, "degraded", health.Status)
	require.NotNil(t, health.Checks)
	require.Equal(t, "ok", health.Checks.Database)
	require.Contains(t, health.Checks.Model, "error")
}
