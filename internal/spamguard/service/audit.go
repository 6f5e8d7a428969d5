package service

import (
	"context"
	"fmt"
	"time"

	"github.com/aussiebroadwan/spamguard/internal/spamguard/domain"
	"github.com/aussiebroadwan/spamguard/internal/spamguard/store"
)

// AuditService is the admin read path over prediction logs and security
// events.
type AuditService struct {
	Store store.Store
}

func (s *AuditService) ListPredictions(ctx context.Context, page domain.Page) (domain.Listing[domain.PredictionLog], error) {
	page = page.Normalize()

	items, err := s.Store.Predictions().ListPredictions(ctx, page)
	if err != nil {
		return domain.Listing[domain.PredictionLog]{}, fmt.Errorf("list predictions: %w", err)
	}
	total, err := s.Store.Predictions().CountPredictions(ctx)
	if err != nil {
		return domain.Listing[domain.PredictionLog]{}, fmt.Errorf("count predictions: %w", err)
	}

	return domain.Listing[domain.PredictionLog]{
		Items:   items,
		Total:   total,
		Page:    page.Number,
		PerPage: page.PerPage,
	}, nil
}

func (s *AuditService) ListSecurityEvents(
	ctx context.Context,
	filter domain.EventFilter,
	page domain.Page,
) (domain.Listing[domain.SecurityEvent], error) {
	page = page.Normalize()

	if filter.Severity != "" && !filter.Severity.Valid() {
		return domain.Listing[domain.SecurityEvent]{}, invalid(ErrInvalidRequest, "Invalid severity")
	}
	if !filter.Since.IsZero() && !filter.Until.IsZero() && filter.Until.Before(filter.Since) {
		return domain.Listing[domain.SecurityEvent]{}, invalid(ErrInvalidRequest, "Invalid time range")
	}

	items, err := s.Store.SecurityEvents().ListEvents(ctx, filter, page)
	if err != nil {
		return domain.Listing[domain.SecurityEvent]{}, fmt.Errorf("list security events: %w", err)
	}
	total, err := s.Store.SecurityEvents().CountEvents(ctx, filter)
	if err != nil {
		return domain.Listing[domain.SecurityEvent]{}, fmt.Errorf("count security events: %w", err)
	}

	return domain.Listing[domain.SecurityEvent]{
		Items:   items,
		Total:   total,
		Page:    page.Number,
		PerPage: page.PerPage,
	}, nil
}

// PrunePredictions deletes prediction logs older than cutoff.
func (s *AuditService) PrunePredictions(ctx context.Context, cutoff time.Time) (int64, error) {
	return s.Store.Predictions().DeletePredictionsBefore(ctx, cutoff)
}
