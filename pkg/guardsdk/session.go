package guardsdk

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Session is an authenticated session. Tokens are bound to the client
// address and cannot be refreshed; log in again once Expired reports true.
type Session struct {
	client    *SDKClient
	token     string
	role      string
	expiresAt time.Time
}

// Token returns the raw session token.
func (s *Session) Token() string { return s.token }

// Role returns the role the identity had at login.
func (s *Session) Role() string { return s.role }

// Expired reports whether the token has passed its expiry.
func (s *Session) Expired() bool {
	return !s.expiresAt.IsZero() && !time.Now().Before(s.expiresAt)
}

func (s *Session) doAuthRequest(ctx context.Context, method, path string, payload any) (*http.Response, error) {
	return s.client.doRequest(ctx, method, path, payload, map[string]string{
		"Authorization": "Bearer " + s.token,
	})
}

// CheckSpam classifies text.
func (s *Session) CheckSpam(ctx context.Context, text string) (*ClassifyResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/check_spam", ClassifyRequest{Mail: text})
	if err != nil {
		return nil, err
	}

	var out ClassifyResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListLogs returns a page of prediction logs. Admin only.
func (s *Session) ListLogs(ctx context.Context, page, perPage int) (*LogsResponse, error) {
	q := url.Values{}
	setInt(q, "page", page)
	setInt(q, "per_page", perPage)

	resp, err := s.doAuthRequest(ctx, http.MethodGet, withQuery("/logs", q), nil)
	if err != nil {
		return nil, err
	}

	var out LogsResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListSecurityEvents returns a page of security events. Admin only.
func (s *Session) ListSecurityEvents(ctx context.Context, query EventQuery) (*SecurityEventsResponse, error) {
	q := url.Values{}
	if query.Severity != "" {
		q.Set("severity", query.Severity)
	}
	if !query.Since.IsZero() {
		q.Set("since", query.Since.UTC().Format(time.RFC3339))
	}
	if !query.Until.IsZero() {
		q.Set("until", query.Until.UTC().Format(time.RFC3339))
	}
	setInt(q, "page", query.Page)
	setInt(q, "per_page", query.PerPage)

	resp, err := s.doAuthRequest(ctx, http.MethodGet, withQuery("/security-events", q), nil)
	if err != nil {
		return nil, err
	}

	var out SecurityEventsResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifySecurityEvents walks the event hash chain server side. Admin only.
func (s *Session) VerifySecurityEvents(ctx context.Context) (*ChainReport, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/security-events/verify", nil)
	if err != nil {
		return nil, err
	}

	var out ChainReport
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func setInt(q url.Values, key string, v int) {
	if v > 0 {
		q.Set(key, strconv.Itoa(v))
	}
}

func withQuery(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}
