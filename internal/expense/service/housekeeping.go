package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/expenseflow/internal/expense/store"
)

// HousekeepingService periodically deletes expired signing keys and, when a
// session TTL is configured, sessions older than it.
type HousekeepingService struct {
	Store      store.Store
	Logger     *slog.Logger
	Interval   time.Duration
	SessionTTL time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a housekeeping service. A non-positive
// interval defaults to one hour.
func NewHousekeepingService(store store.Store, logger *slog.Logger, interval, sessionTTL time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Store:      store,
		Logger:     logger,
		Interval:   interval,
		SessionTTL: sessionTTL,
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
}

// Start launches the background worker. Call Stop to shut it down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval, "session_ttl", s.SessionTTL)
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

	s.cleanup(context.Background(), time.Now().UTC())

	for {
		select {
		case <-ticker.C:
			s.cleanup(context.Background(), time.Now().UTC())
		case <-s.stopCh:
			return
		}
	}
}

// cleanup runs each deletion independently so one failure doesn't stop
// the others.
func (s *HousekeepingService) cleanup(ctx context.Context, now time.Time) {
	s.Logger.Debug("starting housekeeping cleanup")

	var keys, sessions int64

	n, err := s.Store.SigningKeys().DeleteExpiredSigningKeys(ctx, now)
	if err != nil {
		s.Logger.Error("failed to delete expired signing keys", "error", err)
	} else {
		keys = n
	}

	if s.SessionTTL > 0 {
		n, err := s.Store.Sessions().DeleteSessionsCreatedBefore(ctx, now.Add(-s.SessionTTL))
		if err != nil {
			s.Logger.Error("failed to delete expired sessions", "error", err)
		} else {
			sessions = n
		}
	}

	s.Logger.Info("housekeeping cleanup completed",
		"deleted_signing_keys", keys,
		"deleted_sessions", sessions,
	)
}
