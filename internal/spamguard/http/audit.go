package http

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/aussiebroadwan/spamguard/internal/spamguard/domain"
	"github.com/aussiebroadwan/spamguard/internal/spamguard/service"
	"github.com/aussiebroadwan/spamguard/pkg/guardsdk"
	"github.com/aussiebroadwan/spamguard/pkg/httpx"
)

type AuditHandler struct {
	AuditService *service.AuditService
	EventLog     *service.EventLog
}

// HandleLogs lists prediction logs.
//
//	@Summary		List prediction logs
//	@Description	Returns logged classifications, newest first. Admin only.
//	@Tags			Audit
//	@Produce		json
//	@Security		BearerAuth
//	@Param			page		query		int						false	"Page number, 1-based"	default(1)
//	@Param			per_page	query		int						false	"Items per page, max 100"	default(10)
//	@Success		200			{object}	guardsdk.LogsResponse	"A page of prediction logs"
//	@Failure		400			{object}	guardsdk.ErrorResponse	"Invalid pagination"
//	@Failure		401			{object}	guardsdk.ErrorResponse	"Missing, invalid or expired session"
//	@Failure		403			{object}	guardsdk.ErrorResponse	"Not an admin"
//	@Failure		429			{object}	guardsdk.ErrorResponse	"Rate limit exceeded"
//	@Router			/logs [get].
func (h *AuditHandler) HandleLogs(w http.ResponseWriter, r *http.Request) {
	page, ok := parsePage(w, r.URL.Query())
	if !ok {
		return
	}

	listing, err := h.AuditService.ListPredictions(r.Context(), page)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	logs := make([]guardsdk.PredictionLog, len(listing.Items))
	for i, p := range listing.Items {
		logs[i] = guardsdk.PredictionLog{
			ID:              p.ID,
			User:            p.Identity,
			Excerpt:         p.Excerpt,
			Result:          p.Result,
			Confidence:      p.Confidence,
			ConfidenceLevel: p.ConfidenceLevel,
			IPAddress:       p.Origin,
			Timestamp:       p.Timestamp,
		}
	}

	httpx.WriteJSON(w, http.StatusOK, guardsdk.LogsResponse{
		Logs:    logs,
		Page:    listing.Page,
		PerPage: listing.PerPage,
		Total:   listing.Total,
	})
}

// HandleSecurityEvents lists security events.
//
//	@Summary		List security events
//	@Description	Returns security events, newest first, optionally filtered by severity and time range. Admin only.
//	@Tags			Audit
//	@Produce		json
//	@Security		BearerAuth
//	@Param			severity	query		string							false	"Severity filter"	Enums(low, medium, high)
//	@Param			since		query		string							false	"RFC3339 lower bound, inclusive"
//	@Param			until		query		string							false	"RFC3339 upper bound, inclusive"
//	@Param			page		query		int								false	"Page number, 1-based"	default(1)
//	@Param			per_page	query		int								false	"Items per page, max 100"	default(10)
//	@Success		200			{object}	guardsdk.SecurityEventsResponse	"A page of security events"
//	@Failure		400			{object}	guardsdk.ErrorResponse			"Invalid filter or pagination"
//	@Failure		401			{object}	guardsdk.ErrorResponse			"Missing, invalid or expired session"
//	@Failure		403			{object}	guardsdk.ErrorResponse			"Not an admin"
//	@Failure		429			{object}	guardsdk.ErrorResponse			"Rate limit exceeded"
//	@Router			/security-events [get].
func (h *AuditHandler) HandleSecurityEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, ok := parsePage(w, q)
	if !ok {
		return
	}

	filter := domain.EventFilter{Severity: domain.Severity(q.Get("severity"))}
	if filter.Since, ok = parseTime(w, q, "since"); !ok {
		return
	}
	if filter.Until, ok = parseTime(w, q, "until"); !ok {
		return
	}

	listing, err := h.AuditService.ListSecurityEvents(r.Context(), filter, page)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	events := make([]guardsdk.SecurityEvent, len(listing.Items))
	for i, e := range listing.Items {
		events[i] = guardsdk.SecurityEvent{
			Seq:       e.Seq,
			ID:        e.ID,
			EventType: e.Type,
			Details:   e.Details,
			IPAddress: e.Origin,
			Severity:  string(e.Severity),
			Timestamp: e.Timestamp,
			ChainHash: e.ChainHash,
		}
		if e.Identity != nil {
			events[i].UserEmail = *e.Identity
		}
	}

	httpx.WriteJSON(w, http.StatusOK, guardsdk.SecurityEventsResponse{
		Events:  events,
		Page:    listing.Page,
		PerPage: listing.PerPage,
		Total:   listing.Total,
	})
}

// HandleVerifyChain walks the security event hash chain.
//
//	@Summary		Verify the security event chain
//	@Description	Recomputes every link of the security event hash chain and reports the first broken one. Admin only.
//	@Tags			Audit
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	guardsdk.ChainReport	"Chain report, intact=false names the first broken event"
//	@Failure		401	{object}	guardsdk.ErrorResponse	"Missing, invalid or expired session"
//	@Failure		403	{object}	guardsdk.ErrorResponse	"Not an admin"
//	@Failure		429	{object}	guardsdk.ErrorResponse	"Rate limit exceeded"
//	@Failure		500	{object}	guardsdk.ErrorResponse	"Failed to read the event log"
//	@Router			/security-events/verify [get].
func (h *AuditHandler) HandleVerifyChain(w http.ResponseWriter, r *http.Request) {
	report, err := h.EventLog.Verify(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, guardsdk.ChainReport{
		Events:    report.Events,
		Intact:    report.Intact,
		BrokenSeq: report.BrokenSeq,
		BrokenID:  report.BrokenID,
		Reason:    report.Reason,
	})
}

func parsePage(w http.ResponseWriter, q url.Values) (domain.Page, bool) {
	var page domain.Page
	var err error

	if v := q.Get("page"); v != "" {
		if page.Number, err = strconv.Atoi(v); err != nil || page.Number < 1 {
			httpx.WriteError(w, http.StatusBadRequest, httpx.CodeBadRequest, "Invalid page")
			return domain.Page{}, false
		}
	}
	if v := q.Get("per_page"); v != "" {
		if page.PerPage, err = strconv.Atoi(v); err != nil || page.PerPage < 1 {
			httpx.WriteError(w, http.StatusBadRequest, httpx.CodeBadRequest, "Invalid per_page")
			return domain.Page{}, false
		}
	}
	return page.Normalize(), true
}

func parseTime(w http.ResponseWriter, q url.Values, key string) (time.Time, bool) {
	v := q.Get(key)
	if v == "" {
		return time.Time{}, true
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeBadRequest, "Invalid "+key+" timestamp")
		return time.Time{}, false
	}
	return t.UTC(), true
}
