package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aussiebroadwan/spamguard/internal/spamguard/domain"
	"github.com/aussiebroadwan/spamguard/internal/spamguard/service"
	"github.com/aussiebroadwan/spamguard/pkg/idx"
	"github.com/stretchr/testify/require"
)

func seedPredictions(t *testing.T, e *env, n int, at time.Time) {
	t.Helper()
	for i := range n {
		require.NoError(t, e.store.Predictions().CreatePrediction(context.Background(), domain.PredictionLog{
			ID:              idx.New().String(),
			Identity:        "alice@example.com",
			Excerpt:         fmt.Sprintf("message %d", i),
			Result:          domain.ResultNotSpam,
			Confidence:      0.9,
			ConfidenceLevel: domain.ConfidenceHigh,
			Origin:          testOrigin,
			Timestamp:       at.Add(time.Duration(i) * time.Second),
		}))
	}
}

func TestListPredictions(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	seedPredictions(t, e, 25, e.clock.Now())

	got, err := e.audit.ListPredictions(ctx, domain.Page{Number: 3, PerPage: 10})
	require.NoError(t, err)
	require.Len(t, got.Items, 5)
	require.Equal(t, 25, got.Total)
	require.Equal(t, 3, got.Page)
	require.Equal(t, 3, got.Pages())

	first, err := e.audit.ListPredictions(ctx, domain.Page{})
	require.NoError(t, err)
	require.Equal(t, 1, first.Page)
	require.Equal(t, domain.DefaultPerPage, first.PerPage)
	require.Equal(t, "message 24", first.Items[0].Excerpt, "newest first")

	capped, err := e.audit.ListPredictions(ctx, domain.Page{Number: 1, PerPage: 1000})
	require.NoError(t, err)
	require.Equal(t, domain.MaxPerPage, capped.PerPage)
	require.Len(t, capped.Items, 25)
}

func TestListSecurityEvents(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	recordSome(e)

	all, err := e.audit.ListSecurityEvents(ctx, domain.EventFilter{}, domain.Page{})
	require.NoError(t, err)
	require.Equal(t, 3, all.Total)
	require.Equal(t, domain.EventExpiredToken, all.Items[0].Type, "newest first")

	high, err := e.audit.ListSecurityEvents(ctx, domain.EventFilter{Severity: domain.SeverityHigh}, domain.Page{})
	require.NoError(t, err)
	require.Equal(t, 1, high.Total)
	require.Equal(t, domain.EventInvalidToken, high.Items[0].Type)

	future, err := e.audit.ListSecurityEvents(ctx, domain.EventFilter{Since: e.clock.Now().Add(time.Hour)}, domain.Page{})
	require.NoError(t, err)
	require.Zero(t, future.Total)
	require.Empty(t, future.Items)

	_, err = e.audit.ListSecurityEvents(ctx, domain.EventFilter{Severity: "urgent"}, domain.Page{})
	require.ErrorIs(t, err, service.ErrInvalidRequest)

	_, err = e.audit.ListSecurityEvents(ctx, domain.EventFilter{
		Since: e.clock.Now(),
		Until: e.clock.Now().Add(-time.Hour),
	}, domain.Page{})
	require.ErrorIs(t, err, service.ErrInvalidRequest)
}
