package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/aussiebroadwan/spamguard/internal/spamguard/detect"
	"github.com/aussiebroadwan/spamguard/internal/spamguard/domain"
	"github.com/aussiebroadwan/spamguard/internal/spamguard/model"
	"github.com/aussiebroadwan/spamguard/internal/spamguard/store"
	"github.com/aussiebroadwan/spamguard/pkg/idx"
	"github.com/aussiebroadwan/spamguard/pkg/slogx"
)

// LowConfidenceWarning is attached to predictions below medium confidence.
const LowConfidenceWarning = "Prediction has low confidence, please review carefully"

// ClassifyService screens a submission and scores it with the model.
type ClassifyService struct {
	Store     store.Store
	Detector  *detect.Detector
	Predictor model.Predictor
	Events    EventRecorder

	Now func() time.Time
}

func (s *ClassifyService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Classify sanitises text, rejects adversarial input before it reaches the
// model and logs every prediction.
func (s *ClassifyService) Classify(ctx context.Context, identity domain.Identity, text, origin string) (domain.Prediction, error) {
	l := slogx.FromContext(ctx)

	if text == "" {
		return domain.Prediction{}, invalid(ErrInvalidRequest, "Email content is required")
	}

	text = detect.Sanitize(text)

	verdict := s.Detector.Classify(detect.WithSubject(ctx, origin, identity.Email), text)
	if verdict.Suspicious {
		s.Events.Record(ctx, domain.Event{
			Type:     domain.EventAdversarialInput,
			Details:  "Potential adversarial input detected",
			Origin:   origin,
			Identity: identity.Email,
			Severity: domain.SeverityHigh,
		})
		return domain.Prediction{}, invalid(ErrAdversarialInput, "Invalid input format")
	}

	prob, err := s.Predictor.Predict(ctx, text)
	if err != nil {
		l.Error("model prediction failed", slog.Any("error", err))
		return domain.Prediction{}, fmt.Errorf("%w: %w", ErrModelUnavailable, err)
	}

	pred := Score(prob)

	entry := domain.PredictionLog{
		ID:              idx.New().String(),
		Identity:        identity.Email,
		Excerpt:         excerpt(text, domain.ExcerptLength),
		Result:          pred.Result,
		Confidence:      pred.Confidence,
		ConfidenceLevel: pred.ConfidenceLevel,
		Origin:          origin,
		Timestamp:       s.now().Truncate(time.Millisecond),
	}
	if err := s.Store.Predictions().CreatePrediction(ctx, entry); err != nil {
		l.Error("failed to log prediction", slog.Any("error", err))
	}

	l.Info("prediction made",
		slog.String("result", pred.Result),
		slog.Float64("confidence", pred.Confidence),
	)
	return pred, nil
}

// Score turns a spam probability into a labelled prediction.
func Score(prob float64) domain.Prediction {
	p := domain.Prediction{
		IsSpam:     prob > 0.5,
		Confidence: math.Max(prob, 1-prob),
		Result:     domain.ResultNotSpam,
	}
	if p.IsSpam {
		p.Result = domain.ResultSpam
	}

	switch {
	case p.Confidence > 0.8:
		p.ConfidenceLevel = domain.ConfidenceHigh
	case p.Confidence > 0.6:
		p.ConfidenceLevel = domain.ConfidenceMedium
	default:
		p.ConfidenceLevel = domain.ConfidenceLow
	}

	if p.Confidence < 0.6 {
		p.Warning = LowConfidenceWarning
	}
	return p
}

func excerpt(text string, n int) string {
	r := []rune(text)
	if len(r) <= n {
		return text
	}
	return string(r[:n])
}
