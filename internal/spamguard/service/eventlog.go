package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/aussiebroadwan/spamguard/internal/spamguard/domain"
	"github.com/aussiebroadwan/spamguard/internal/spamguard/store"
	"github.com/aussiebroadwan/spamguard/pkg/idx"
	"github.com/aussiebroadwan/spamguard/pkg/slogx"
)

// EventRecorder accepts security events. Recording never fails from the
// caller's point of view.
type EventRecorder interface {
	Record(ctx context.Context, ev domain.Event)
}

// EventLog appends security events to the store as an HMAC hash chain. Each
// event's ChainHash covers its own fields and the previous event's hash, so
// an edited, removed or reordered event breaks every link after it.
type EventLog struct {
	Store store.Store
	Key   []byte

	// Sentry reports append failures when set.
	Sentry bool

	Now func() time.Time

	mu     sync.Mutex
	last   string
	loaded bool
}

// ChainReport is the result of walking the whole chain.
type ChainReport struct {
	Events    int    `json:"events"`
	Intact    bool   `json:"intact"`
	BrokenSeq int64  `json:"broken_seq,omitempty"`
	BrokenID  string `json:"broken_id,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

func (l *EventLog) now() time.Time {
	if l.Now != nil {
		return l.Now().UTC()
	}
	return time.Now().UTC()
}

// Record appends ev and mirrors it to the request logger. It must not be
// called from inside a store transaction.
func (l *EventLog) Record(ctx context.Context, ev domain.Event) {
	logger := slogx.FromContext(ctx)
	if !ev.Severity.Valid() {
		ev.Severity = domain.SeverityMedium
	}

	logger.Warn("security event",
		slog.String("event_type", ev.Type),
		slog.String("severity", string(ev.Severity)),
		slog.String("origin", ev.Origin),
		slog.String("identity", ev.Identity),
		slog.String("details", ev.Details),
	)

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.append(ctx, ev); err != nil {
		// Force a reload of the chain head on the next append.
		l.loaded = false

		logger.Error("failed to persist security event",
			slog.String("event_type", ev.Type),
			slog.Any("error", err),
		)
		if l.Sentry {
			hub := sentry.GetHubFromContext(ctx)
			if hub == nil {
				hub = sentry.CurrentHub()
			}
			hub.WithScope(func(scope *sentry.Scope) {
				scope.SetTag("event_type", ev.Type)
				hub.CaptureException(err)
			})
		}
	}
}

func (l *EventLog) append(ctx context.Context, ev domain.Event) error {
	if !l.loaded {
		head, err := l.Store.SecurityEvents().LastEvent(ctx)
		switch {
		case errors.Is(err, store.ErrNotFound):
			l.last = ""
		case err != nil:
			return fmt.Errorf("load chain head: %w", err)
		default:
			l.last = head.ChainHash
		}
		l.loaded = true
	}

	e := domain.SecurityEvent{
		ID:        idx.New().String(),
		Type:      ev.Type,
		Details:   ev.Details,
		Origin:    ev.Origin,
		Severity:  ev.Severity,
		Timestamp: l.now().Truncate(time.Millisecond),
		PrevHash:  l.last,
	}
	if ev.Identity != "" {
		identity := ev.Identity
		e.Identity = &identity
	}
	e.ChainHash = l.chainHash(e)

	if _, err := l.Store.SecurityEvents().AppendEvent(ctx, e); err != nil {
		return err
	}
	l.last = e.ChainHash
	return nil
}

func (l *EventLog) chainHash(e domain.SecurityEvent) string {
	mac := hmac.New(sha256.New, l.Key)
	identity := ""
	if e.Identity != nil {
		identity = *e.Identity
	}
	for _, f := range []string{
		e.PrevHash,
		e.ID,
		e.Type,
		e.Details,
		e.Origin,
		identity,
		string(e.Severity),
		strconv.FormatInt(e.Timestamp.UnixMilli(), 10),
	} {
		writeField(mac, f)
	}
	return hex.EncodeToString(mac.Sum(nil))
}

// writeField length-prefixes f so adjacent fields cannot be shifted into
// each other.
func writeField(h hash.Hash, f string) {
	h.Write([]byte(strconv.Itoa(len(f))))
	h.Write([]byte{':'})
	h.Write([]byte(f))
}

var errChainBroken = errors.New("chain broken")

// Verify walks every event in sequence order and reports the first broken
// link.
func (l *EventLog) Verify(ctx context.Context) (ChainReport, error) {
	var (
		report ChainReport
		prev   string
	)

	err := l.Store.SecurityEvents().WalkEvents(ctx, func(e domain.SecurityEvent) error {
		report.Events++

		switch {
		case e.PrevHash != prev:
			report.Reason = "previous hash does not match"
		case !hmac.Equal([]byte(e.ChainHash), []byte(l.chainHash(e))):
			report.Reason = "event contents do not match hash"
		default:
			prev = e.ChainHash
			return nil
		}

		report.BrokenSeq = e.Seq
		report.BrokenID = e.ID
		return errChainBroken
	})
	if err != nil && !errors.Is(err, errChainBroken) {
		return ChainReport{}, fmt.Errorf("walk security events: %w", err)
	}

	report.Intact = report.Reason == ""
	if !report.Intact {
		slogx.FromContext(ctx).Error("security event chain broken",
			slog.Int64("seq", report.BrokenSeq),
			slog.String("id", report.BrokenID),
			slog.String("reason", report.Reason),
		)
	}
	return report, nil
}
