package model_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aussiebroadwan/spamguard/internal/spamguard/model"
	"github.com/stretchr/testify/require"
)

func TestHTTPPredictor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusOK)
			return
		}
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body struct {
			Text string `json:"text"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		p := 0.1
		if body.Text == "win money now" {
			p = 0.93
		}
		_ = json.NewEncoder(w).Encode(map[string]float64{"spam_probability": p})
	}))
	t.Cleanup(srv.Close)

	pred := model.NewHTTPPredictor(srv.URL, time.Second)

	p, err := pred.Predict(context.Background(), "win money now")
	require.NoError(t, err)
	require.InDelta(t, 0.93, p, 1e-9)

	p, err = pred.Predict(context.Background(), "lunch tomorrow")
	require.NoError(t, err)
	require.InDelta(t, 0.1, p, 1e-9)

	require.NoError(t, pred.Ping(context.Background()))
}

func TestHTTPPredictorErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    error
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
			want: model.ErrUnavailable,
		},
		{
			name: "missing field",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"label":"spam"}`))
			},
			want: model.ErrBadResponse,
		},
		{
			name: "out of range",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"spam_probability":1.5}`))
			},
			want: model.ErrBadResponse,
		},
		{
			name: "not json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`<html>`))
			},
			want: model.ErrBadResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			t.Cleanup(srv.Close)

			_, err := model.NewHTTPPredictor(srv.URL, time.Second).Predict(context.Background(), "x")
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestHTTPPredictorPing(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{name: "healthy", status: http.StatusOK},
		{name: "method not allowed is still up", status: http.StatusMethodNotAllowed},
		{name: "unavailable", status: http.StatusServiceUnavailable, want: model.ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, http.MethodHead, r.Method)
				w.WriteHeader(tt.status)
			}))
			t.Cleanup(srv.Close)

			err := model.NewHTTPPredictor(srv.URL, time.Second).Ping(context.Background())
			if tt.want == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestHTTPPredictorUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	pred := model.NewHTTPPredictor(url, time.Second)
	_, err := pred.Predict(context.Background(), "x")
	require.ErrorIs(t, err, model.ErrUnavailable)
	require.ErrorIs(t, pred.Ping(context.Background()), model.ErrUnavailable)
}

func TestPredictorFunc(t *testing.T) {
	var p model.Predictor = model.PredictorFunc(func(context.Context, string) (float64, error) {
		return 0.42, nil
	})
	got, err := p.Predict(context.Background(), "anything")
	require.NoError(t, err)
	require.Equal(t, 0.42, got)
}
