// Package scheduler provides the gocron-backed driver for recurring pipeline
// sweeps.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"NewsHyperlocalizer/internal/config"
	"NewsHyperlocalizer/internal/ports"
)

// Gocron runs the registered job at a fixed interval in the configured
// timezone.
type Gocron struct {
	interval  time.Duration
	scheduler gocron.Scheduler
	logger    *slog.Logger
}

var _ ports.Scheduler = (*Gocron)(nil)

func New(cfg config.SchedulerConfig, logger *slog.Logger) (*Gocron, error) {
	s, err := gocron.NewScheduler(gocron.WithLocation(cfg.Location()))
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = 24 * time.Hour
	}

	return &Gocron{interval: interval, scheduler: s, logger: logger}, nil
}

// Start registers the job and begins the recurring schedule.
func (g *Gocron) Start(_ context.Context, job func(time.Time)) error {
	_, err := g.scheduler.NewJob(
		gocron.DurationJob(g.interval),
		gocron.NewTask(func() {
			job(time.Now())
		}),
	)
	if err != nil {
		return fmt.Errorf("register job: %w", err)
	}

	g.scheduler.Start()
	g.logger.Info("scheduler started", "interval", g.interval)
	return nil
}

// Stop shuts the scheduler down, waiting for a running job to finish.
func (g *Gocron) Stop(_ context.Context) error {
	if err := g.scheduler.Shutdown(); err != nil {
		return fmt.Errorf("shutdown scheduler: %w", err)
	}
	return nil
}
