package infra

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"gemtrader/pkg/logger"
)

// PriceDrifter moves asset prices one step
type PriceDrifter interface {
	DriftPrices(ctx context.Context) error
}

// Scheduler manages scheduled tasks
type Scheduler struct {
	cron     *cron.Cron
	drifter  PriceDrifter
	schedule string
}

// NewScheduler creates a new scheduler running the price drift on schedule ("@every 1m", "*/30 * * * *")
func NewScheduler(drifter PriceDrifter, schedule string) *Scheduler {
	if schedule == "" {
		schedule = "@every 1m"
	}
	cl := cronLogger{l: logger.Get()}
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		drifter:  drifter,
		schedule: schedule,
	}
}

// Start registers the jobs and starts the cron loop
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		ctx := logger.WithRequestID(context.Background(), "cron-price-drift")
		if err := s.drifter.DriftPrices(ctx); err != nil {
			logger.Error(ctx, "scheduled price drift failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	logger.Info(context.Background(), "scheduler started", "price_drift_schedule", s.schedule)
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	logger.Info(context.Background(), "scheduler stopped")
}

// cronLogger routes cron's internal logging through slog
type cronLogger struct {
	l *slog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debug("cron: "+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
