package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/spamguard/internal/spamguard/domain"
	"github.com/aussiebroadwan/spamguard/internal/spamguard/store/drivers/sqlite/gen"
)

// walkBatch is how many events WalkEvents reads per query.
const walkBatch = 500

type securityEventsRepo struct {
	q *gen.Queries
}

func (r *securityEventsRepo) AppendEvent(ctx context.Context, e domain.SecurityEvent) (int64, error) {
	seq, err := r.q.AppendEvent(ctx, gen.AppendEventParams{
		ID:        e.ID,
		EventType: e.Type,
		Details:   e.Details,
		Origin:    e.Origin,
		Identity:  mapOptionalString(e.Identity),
		Severity:  string(e.Severity),
		Timestamp: toMillis(e.Timestamp),
		PrevHash:  e.PrevHash,
		ChainHash: e.ChainHash,
	})
	if err != nil {
		return 0, mapConstraint(err)
	}
	return seq, nil
}

func (r *securityEventsRepo) LastEvent(ctx context.Context) (domain.SecurityEvent, error) {
	row, err := r.q.LastEvent(ctx)
	if err != nil {
		return domain.SecurityEvent{}, mapNotFound(err)
	}
	return mapSecurityEvent(row), nil
}

// eventFilter turns zero filter fields into NULL so the query skips them.
func eventFilter(f domain.EventFilter) (sql.NullString, sql.NullInt64, sql.NullInt64) {
	var (
		severity     sql.NullString
		since, until sql.NullInt64
	)
	if f.Severity != "" {
		severity = sql.NullString{String: string(f.Severity), Valid: true}
	}
	if !f.Since.IsZero() {
		since = sql.NullInt64{Int64: toMillis(f.Since), Valid: true}
	}
	if !f.Until.IsZero() {
		until = sql.NullInt64{Int64: toMillis(f.Until), Valid: true}
	}
	return severity, since, until
}

func (r *securityEventsRepo) ListEvents(
	ctx context.Context,
	f domain.EventFilter,
	p domain.Page,
) ([]domain.SecurityEvent, error) {
	p = p.Normalize()
	severity, since, until := eventFilter(f)

	rows, err := r.q.ListEvents(ctx, gen.ListEventsParams{
		Severity: severity,
		Since:    since,
		Until:    until,
		Limit:    int64(p.PerPage),
		Offset:   int64(p.Offset()),
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.SecurityEvent, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapSecurityEvent(row))
	}
	return out, nil
}

func (r *securityEventsRepo) CountEvents(ctx context.Context, f domain.EventFilter) (int, error) {
	severity, since, until := eventFilter(f)

	n, err := r.q.CountEvents(ctx, gen.CountEventsParams{
		Severity: severity,
		Since:    since,
		Until:    until,
	})
	return int(n), err
}

func (r *securityEventsRepo) WalkEvents(ctx context.Context, fn func(domain.SecurityEvent) error) error {
	var after int64
	for {
		rows, err := r.q.ListEventsAfter(ctx, gen.ListEventsAfterParams{
			After: after,
			Limit: walkBatch,
		})
		if err != nil {
			return err
		}

		for _, row := range rows {
			if err := fn(mapSecurityEvent(row)); err != nil {
				return err
			}
			after = row.Seq
		}

		if len(rows) < walkBatch {
			return nil
		}
	}
}
