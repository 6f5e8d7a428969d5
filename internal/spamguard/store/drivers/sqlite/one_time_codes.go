package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/spamguard/internal/spamguard/domain"
	"github.com/aussiebroadwan/spamguard/internal/spamguard/store/drivers/sqlite/gen"
)

type oneTimeCodesRepo struct {
	q *gen.Queries
}

func (r *oneTimeCodesRepo) CreateCode(ctx context.Context, c domain.OneTimeCode) error {
	err := r.q.CreateCode(ctx, gen.CreateCodeParams{
		ID:        c.ID,
		Identity:  c.Identity,
		Purpose:   string(c.Purpose),
		CodeHash:  c.CodeHash,
		CreatedAt: toMillis(c.CreatedAt),
		ExpiresAt: toMillis(c.ExpiresAt),
		Verified:  boolToInt(c.Verified),
		Attempts:  int64(c.Attempts),
		Origin:    c.Origin,
	})
	return mapConstraint(err)
}

func (r *oneTimeCodesRepo) DeleteCodes(ctx context.Context, identity string, purpose domain.Purpose) error {
	return r.q.DeleteCodes(ctx, gen.DeleteCodesParams{
		Identity: identity,
		Purpose:  string(purpose),
	})
}

func (r *oneTimeCodesRepo) GetLiveCode(
	ctx context.Context,
	identity string,
	purpose domain.Purpose,
	now time.Time,
	maxAttempts int,
) (domain.OneTimeCode, error) {
	row, err := r.q.GetLiveCode(ctx, gen.GetLiveCodeParams{
		Identity:  identity,
		Purpose:   string(purpose),
		ExpiresAt: toMillis(now),
		Attempts:  int64(maxAttempts),
	})
	if err != nil {
		return domain.OneTimeCode{}, mapNotFound(err)
	}
	return mapOneTimeCode(row), nil
}

func (r *oneTimeCodesRepo) IncrementAttempts(ctx context.Context, id string) (int, error) {
	attempts, err := r.q.IncrementAttempts(ctx, id)
	if err != nil {
		return 0, mapNotFound(err)
	}
	return int(attempts), nil
}

func (r *oneTimeCodesRepo) MarkVerified(ctx context.Context, id string) (bool, error) {
	n, err := r.q.MarkVerified(ctx, id)
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *oneTimeCodesRepo) DeleteCode(ctx context.Context, id string) error {
	return r.q.DeleteCode(ctx, id)
}

func (r *oneTimeCodesRepo) DeleteStaleCodes(ctx context.Context, now time.Time) (int64, error) {
	return r.q.DeleteStaleCodes(ctx, toMillis(now))
}
