package scheduler

import (
	"fmt"
	"time"

	"github.com/clozet/clozet-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Advancer moves every tracked courier marker one step.
type Advancer interface {
	Advance()
	Tracked() int
}

// TrackingScheduler drives the simulated courier markers on a fixed interval.
type TrackingScheduler struct {
	cron     *cron.Cron
	tracking Advancer
	interval time.Duration
}

func NewTrackingScheduler(tracking Advancer, interval time.Duration) *TrackingScheduler {
	return &TrackingScheduler{
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		tracking: tracking,
		interval: interval,
	}
}

// Spec is the cron schedule the ticker runs on.
func (s *TrackingScheduler) Spec() string {
	return "@every " + s.interval.String()
}

func (s *TrackingScheduler) Start() error {
	if s.interval <= 0 {
		return fmt.Errorf("tracking interval must be positive, got %s", s.interval)
	}

	_, err := s.cron.AddFunc(s.Spec(), s.tick)
	if err != nil {
		logger.Error("Failed to add cron job for tracking updates", err)
		return err
	}

	s.cron.Start()
	logger.Info("Tracking scheduler started", map[string]interface{}{
		"interval": s.interval.String(),
	})
	return nil
}

func (s *TrackingScheduler) tick() {
	s.tracking.Advance()
	logger.Debug("Tracking markers advanced", map[string]interface{}{
		"tracked": s.tracking.Tracked(),
	})
}

// Stop waits for a running tick to finish.
func (s *TrackingScheduler) Stop() {
	logger.Info("Stopping tracking scheduler...")
	<-s.cron.Stop().Done()
	logger.Info("Tracking scheduler stopped")
}
