// Package model scores submissions with a pretrained spam classifier.
package model

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Predictor returns the probability in [0, 1] that text is spam.
type Predictor interface {
	Predict(ctx context.Context, text string) (float64, error)
}

// PredictorFunc adapts a function to Predictor.
type PredictorFunc func(ctx context.Context, text string) (float64, error)

func (f PredictorFunc) Predict(ctx context.Context, text string) (float64, error) {
	return f(ctx, text)
}

var (
	ErrUnavailable = errors.New("model: inference service unavailable")
	ErrBadResponse = errors.New("model: malformed inference response")
)

const DefaultTimeout = 5 * time.Second

// maxResponseBytes bounds how much of an inference response is read.
const maxResponseBytes = 64 << 10

// HTTPPredictor calls an inference server that accepts {"text": ...} and
// answers {"spam_probability": p}.
type HTTPPredictor struct {
	URL        string
	HTTPClient *http.Client
}

// NewHTTPPredictor creates a predictor for url. A zero timeout uses
// DefaultTimeout.
func NewHTTPPredictor(url string, timeout time.Duration) *HTTPPredictor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPPredictor{
		URL:        strings.TrimSuffix(url, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

type predictRequest struct {
	Text string `json:"text"`
}

type predictResponse struct {
	SpamProbability *float64 `json:"spam_probability"`
}

func (p *HTTPPredictor) Predict(ctx context.Context, text string) (float64, error) {
	body, err := json.Marshal(predictRequest{Text: text})
	if err != nil {
		return 0, fmt.Errorf("model: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.URL, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("model: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := p.HTTPClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return 0, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var out predictResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&out); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBadResponse, err)
	}
	if out.SpamProbability == nil {
		return 0, fmt.Errorf("%w: missing spam_probability", ErrBadResponse)
	}

	prob := *out.SpamProbability
	if prob < 0 || prob > 1 {
		return 0, fmt.Errorf("%w: probability %v out of range", ErrBadResponse, prob)
	}
	return prob, nil
}

// Ping reports whether the inference server answers. A 5xx response counts
// as unavailable.
func (p *HTTPPredictor) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.URL, nil)
	if err != nil {
		return fmt.Errorf("model: create request: %w", err)
	}
	resp, err := p.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	resp.Body.Close()

	// A POST-only endpoint may reject HEAD with 405, that is still up
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	return nil
}
