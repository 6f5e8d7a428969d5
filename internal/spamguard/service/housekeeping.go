package service

import (
	"context"
	"log/slog"
	"time"
)

// DefaultPredictionRetention is how long prediction logs are kept.
const DefaultPredictionRetention = 90 * 24 * time.Hour

// HousekeepingService periodically removes stale one-time codes and old
// prediction logs. Security events are never pruned.
type HousekeepingService struct {
	OTP       *OTPService
	Audit     *AuditService
	Logger    *slog.Logger
	Interval  time.Duration
	Retention time.Duration

	Now func() time.Time

	// Internal channels for lifecycle management
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a housekeeping service. A zero interval
// defaults to one hour and a zero retention to DefaultPredictionRetention.
func NewHousekeepingService(
	otp *OTPService,
	audit *AuditService,
	logger *slog.Logger,
	interval, retention time.Duration,
) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}
	if retention <= 0 {
		retention = DefaultPredictionRetention
	}

	return &HousekeepingService{
		OTP:       otp,
		Audit:     audit,
		Logger:    logger,
		Interval:  interval,
		Retention: retention,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start begins the background worker. Call Stop to shut it down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop blocks until any in-progress cleanup has finished.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run cleanup immediately on startup
	s.Cleanup(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Cleanup(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Cleanup runs one pass. Each deletion is independent, a failure in one
// does not stop the other.
func (s *HousekeepingService) Cleanup(ctx context.Context) {
	now := time.Now().UTC()
	if s.Now != nil {
		now = s.Now().UTC()
	}

	codes, err := s.OTP.DeleteStale(ctx)
	if err != nil {
		s.Logger.Error("failed to delete stale one-time codes", "error", err)
	}

	preds, err := s.Audit.PrunePredictions(ctx, now.Add(-s.Retention))
	if err != nil {
		s.Logger.Error("failed to prune prediction logs", "error", err)
	}

	s.Logger.Info("housekeeping cleanup completed",
		"codes_deleted", codes,
		"predictions_deleted", preds,
	)
}
