package usecase

import (
	"context"
	"time"

	"field-booking/internal/data/repository"

	"go.uber.org/zap"
)

// Sweeper periodically releases lapsed holds so they do not sit in storage
// until the next competing hold reclaims them. Correctness never depends on
// it running: every read and transition already treats a lapsed hold as
// available.
type Sweeper struct {
	repo     *repository.Repository
	notifier Notifier
	clock    Clock
	interval time.Duration
	log      *zap.Logger
}

func NewSweeper(repo *repository.Repository, notifier Notifier, clk Clock, interval time.Duration, log *zap.Logger) *Sweeper {
	return &Sweeper{
		repo:     repo,
		notifier: notifier,
		clock:    clk,
		interval: interval,
		log:      log.With(zap.String("service", "sweeper")),
	}
}

// Run blocks until ctx is cancelled, sweeping once per interval.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info("Sweeper started", zap.Duration("interval", s.interval))

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Sweeper stopped")
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs a single pass: expired holds go back to available and every
// affected field gets a change signal.
func (s *Sweeper) Sweep(ctx context.Context) {
	now := s.clock.Now()

	fieldIDs, err := s.repo.TimeSlot.ReleaseExpired(ctx, now)
	if err != nil {
		s.log.Error("Failed to release expired holds", zap.Error(err))
		return
	}

	for _, fieldID := range fieldIDs {
		s.notifier.Publish(fieldID)
	}

	if len(fieldIDs) > 0 {
		s.log.Info("Expired holds released", zap.Int("fields", len(fieldIDs)))
	}

	if err := s.repo.Session.CleanExpiredSessions(ctx); err != nil {
		s.log.Error("Failed to clean expired sessions", zap.Error(err))
	}
}
