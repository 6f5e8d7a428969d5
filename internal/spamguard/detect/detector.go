package detect

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/aussiebroadwan/spamguard/internal/spamguard/domain"
	"github.com/aussiebroadwan/spamguard/pkg/slogx"
)

// Recorder receives a security event for every suspicious verdict.
type Recorder interface {
	Record(ctx context.Context, ev domain.Event)
}

// Verdict is the outcome of screening one input.
type Verdict struct {
	Suspicious bool
	Rule       string
	Reason     string
	Severity   domain.Severity
}

// Detector evaluates an ordered rule list and stops at the first match. The
// rule list can be replaced at runtime with SetRules.
type Detector struct {
	rules    atomic.Pointer[[]Rule]
	recorder Recorder
}

// New creates a detector. A nil rule list uses DefaultRules, a nil recorder
// drops findings.
func New(rules []Rule, rec Recorder) *Detector {
	if rules == nil {
		rules = DefaultRules()
	}
	d := &Detector{recorder: rec}
	d.rules.Store(&rules)
	return d
}

// SetRules atomically replaces the rule list. In-flight classifications
// finish against the list they started with.
func (d *Detector) SetRules(rules []Rule) {
	d.rules.Store(&rules)
}

// Classify screens text. Suspicious verdicts are recorded with the rule name
// as the event type and the subject attached to ctx, if any.
func (d *Detector) Classify(ctx context.Context, text string) Verdict {
	in := NewInput(text)

	for _, rule := range *d.rules.Load() {
		f, hit := rule.Check(in)
		if !hit {
			continue
		}

		slogx.FromContext(ctx).Debug("detector rule matched",
			slog.String("rule", f.Rule),
			slog.String("reason", f.Reason),
		)

		if d.recorder != nil {
			subj := SubjectFromContext(ctx)
			d.recorder.Record(ctx, domain.Event{
				Type:     f.Rule,
				Details:  f.Reason,
				Origin:   subj.Origin,
				Identity: subj.Identity,
				Severity: f.Severity,
			})
		}

		return Verdict{Suspicious: true, Rule: f.Rule, Reason: f.Reason, Severity: f.Severity}
	}

	return Verdict{}
}

// Subject identifies who submitted the text being screened.
type Subject struct {
	Origin   string
	Identity string
}

type subjectKey struct{}

// WithSubject attaches the submitter to ctx for event attribution.
func WithSubject(ctx context.Context, origin, identity string) context.Context {
	return context.WithValue(ctx, subjectKey{}, Subject{Origin: origin, Identity: identity})
}

// SubjectFromContext returns the attached submitter, or an empty one.
func SubjectFromContext(ctx context.Context) Subject {
	s, _ := ctx.Value(subjectKey{}).(Subject)
	return s
}
