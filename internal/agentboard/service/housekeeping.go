package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/agentboard/internal/agentboard/metrics"
	"github.com/aussiebroadwan/agentboard/internal/agentboard/store"
)

// DefaultRetention is how long expired keys and old rotation records are kept.
const DefaultRetention = 30 * 24 * time.Hour

// HousekeepingService periodically prunes expired API keys and rotation
// history so the tables do not grow without bound.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration
	Metrics  *metrics.Metrics

	// Retention applies to both tables. Rotation records inside the limiter
	// window are always kept regardless.
	Retention time.Duration
	Window    time.Duration

	Now func() time.Time

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a new housekeeping service with the given interval.
// If interval is 0 or negative, defaults to 1 hour.
func NewHousekeepingService(store store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Store:     store,
		Logger:    logger,
		Interval:  interval,
		Retention: DefaultRetention,
		Window:    DefaultRotationWindow,
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

func (s *HousekeepingService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Cleanup runs one pass. Each deletion is independent - a failure in one
// does not stop the other. Returns the rows removed per table.
func (s *HousekeepingService) Cleanup(ctx context.Context) map[string]int {
	now := s.now()
	retention := s.Retention
	if retention <= 0 {
		retention = DefaultRetention
	}

	deleted := map[string]int{}

	n, err := s.Store.APIKeys().DeleteAPIKeysExpiredBefore(ctx, now.Add(-retention))
	if err != nil {
		s.Logger.Error("failed to delete expired api keys", "error", err)
	} else {
		deleted["api_keys"] = n
		s.Metrics.RecordHousekeeping("api_keys", n)
	}

	n, err = s.Store.Rotations().DeleteRotationsBefore(ctx, now.Add(-max(retention, s.Window)))
	if err != nil {
		s.Logger.Error("failed to delete old key rotations", "error", err)
	} else {
		deleted["key_rotations"] = n
		s.Metrics.RecordHousekeeping("key_rotations", n)
	}

	s.Logger.Info("housekeeping cleanup completed",
		"api_keys", deleted["api_keys"],
		"key_rotations", deleted["key_rotations"],
	)
	return deleted
}
