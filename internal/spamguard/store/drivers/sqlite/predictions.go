package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/spamguard/internal/spamguard/domain"
	"github.com/aussiebroadwan/spamguard/internal/spamguard/store/drivers/sqlite/gen"
)

type predictionsRepo struct {
	q *gen.Queries
}

func (r *predictionsRepo) CreatePrediction(ctx context.Context, p domain.PredictionLog) error {
	err := r.q.CreatePrediction(ctx, gen.CreatePredictionParams{
		ID:              p.ID,
		Identity:        p.Identity,
		Excerpt:         p.Excerpt,
		Result:          p.Result,
		Confidence:      p.Confidence,
		ConfidenceLevel: p.ConfidenceLevel,
		Origin:          p.Origin,
		Timestamp:       toMillis(p.Timestamp),
	})
	return mapConstraint(err)
}

func (r *predictionsRepo) ListPredictions(ctx context.Context, p domain.Page) ([]domain.PredictionLog, error) {
	p = p.Normalize()

	rows, err := r.q.ListPredictions(ctx, gen.ListPredictionsParams{
		Limit:  int64(p.PerPage),
		Offset: int64(p.Offset()),
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.PredictionLog, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapPredictionLog(row))
	}
	return out, nil
}

func (r *predictionsRepo) CountPredictions(ctx context.Context) (int, error) {
	n, err := r.q.CountPredictions(ctx)
	return int(n), err
}

func (r *predictionsRepo) DeletePredictionsBefore(ctx context.Context, t time.Time) (int64, error) {
	return r.q.DeletePredictionsBefore(ctx, toMillis(t))
}
