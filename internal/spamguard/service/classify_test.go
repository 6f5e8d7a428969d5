package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aussiebroadwan/spamguard/internal/spamguard/detect"
	"github.com/aussiebroadwan/spamguard/internal/spamguard/domain"
	"github.com/aussiebroadwan/spamguard/internal/spamguard/service"
	"github.com/stretchr/testify/require"
)

func TestScore(t *testing.T) {
	tests := []struct {
		prob       float64
		result     string
		confidence float64
		level      string
		warning    bool
	}{
		{0.93, domain.ResultSpam, 0.93, domain.ConfidenceHigh, false},
		{0.1, domain.ResultNotSpam, 0.9, domain.ConfidenceHigh, false},
		{0.3, domain.ResultNotSpam, 0.7, domain.ConfidenceMedium, false},
		{0.55, domain.ResultSpam, 0.55, domain.ConfidenceLow, true},
		{0.5, domain.ResultNotSpam, 0.5, domain.ConfidenceLow, true},
	}

	for _, tt := range tests {
		p := service.Score(tt.prob)
		require.Equal(t, tt.result, p.Result, "prob %v", tt.prob)
		require.Equal(t, tt.result == domain.ResultSpam, p.IsSpam)
		require.InDelta(t, tt.confidence, p.Confidence, 1e-9)
		require.Equal(t, tt.level, p.ConfidenceLevel, "prob %v", tt.prob)
		if tt.warning {
			require.Equal(t, service.LowConfidenceWarning, p.Warning)
		} else {
			require.Empty(t, p.Warning)
		}
	}
}

func TestClassify(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	user := e.register(t, "alice@example.com")

	var seen string
	e.predict = func(_ context.Context, text string) (float64, error) {
		seen = text
		return 0.93, nil
	}

	pred, err := e.classify.Classify(ctx, user, "<b>Meeting</b> at noon?", testOrigin)
	require.NoError(t, err)
	require.Equal(t, "Meeting at noon?", seen)
	require.True(t, pred.IsSpam)
	require.Equal(t, domain.ResultSpam, pred.Result)
	require.Equal(t, domain.ConfidenceHigh, pred.ConfidenceLevel)

	logs, err := e.store.Predictions().ListPredictions(ctx, domain.Page{Number: 1, PerPage: 10})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.Equal(t, "alice@example.com", logs[0].Identity)
	require.Equal(t, "Meeting at noon?", logs[0].Excerpt)
	require.Equal(t, domain.ResultSpam, logs[0].Result)
	require.Equal(t, testOrigin, logs[0].Origin)
}

func TestClassifyRejections(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	user := e.register(t, "alice@example.com")

	calls := 0
	e.predict = func(context.Context, string) (float64, error) {
		calls++
		return 0.2, nil
	}

	t.Run("empty", func(t *testing.T) {
		_, err := e.classify.Classify(ctx, user, "", testOrigin)
		require.ErrorIs(t, err, service.ErrInvalidRequest)
	})

	t.Run("adversarial", func(t *testing.T) {
		_, err := e.classify.Classify(ctx, user, "please select name from users", testOrigin)
		require.ErrorIs(t, err, service.ErrAdversarialInput)

		var ve *service.ValidationError
		require.True(t, errors.As(err, &ve))
		require.Equal(t, "Invalid input format", ve.Message)

		rule := e.eventsOfType(t, detect.RuleSuspiciousPat)
		require.Len(t, rule, 1)
		require.Equal(t, testOrigin, rule[0].Origin)

		flagged := e.eventsOfType(t, domain.EventAdversarialInput)
		require.Len(t, flagged, 1)
		require.Equal(t, domain.SeverityHigh, flagged[0].Severity)
		require.Equal(t, "alice@example.com", *flagged[0].Identity)
	})

	require.Zero(t, calls)

	n, err := e.store.Predictions().CountPredictions(ctx)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestClassifyModelFailure(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	user := e.register(t, "alice@example.com")

	e.predict = func(context.Context, string) (float64, error) {
		return 0, errors.New("connection refused")
	}

	_, err := e.classify.Classify(ctx, user, "Meeting at noon?", testOrigin)
	require.ErrorIs(t, err, service.ErrModelUnavailable)

	n, err := e.store.Predictions().CountPredictions(ctx)
	require.NoError(t, err)
	require.Zero(t, n)
}
