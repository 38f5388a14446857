package usecase

import (
	"context"
	"log/slog"
	"time"

	"NewsHyperlocalizer/internal/ports"
)

// Sweep runs the full pipeline: collect new stories, score the unscored
// ones, and classify everything.
type Sweep struct {
	collector  *Collector
	evaluator  *NeedsEvaluator
	classifier *Classifier
	logger     *slog.Logger
}

func NewSweep(collector *Collector, evaluator *NeedsEvaluator, classifier *Classifier, logger *slog.Logger) *Sweep {
	return &Sweep{collector: collector, evaluator: evaluator, classifier: classifier, logger: logger}
}

// Run executes one full pass. Stage failures are logged; a later stage still
// runs so earlier results are not wasted.
func (s *Sweep) Run(ctx context.Context, trigger time.Time) {
	s.logger.Info("starting pipeline sweep", "trigger", trigger)

	if err := s.collector.CollectAll(ctx); err != nil {
		s.logger.Error("collection stage failed", "error", err)
	}
	if err := s.evaluator.EvaluateUnscored(ctx); err != nil {
		s.logger.Error("evaluation stage failed", "error", err)
	}
	if err := s.classifier.ClassifyStories(ctx); err != nil {
		s.logger.Error("classification stage failed", "error", err)
	}

	s.logger.Info("pipeline sweep finished")
}

// ScheduledSweep wires the recurring driver with the sweep use case.
type ScheduledSweep struct {
	driver ports.Scheduler
	sweep  *Sweep
}

func NewScheduledSweep(driver ports.Scheduler, sweep *Sweep) *ScheduledSweep {
	return &ScheduledSweep{driver: driver, sweep: sweep}
}

// Start registers the sweep with the provided scheduler.
func (s *ScheduledSweep) Start(ctx context.Context) error {
	if s.driver == nil || s.sweep == nil {
		return nil
	}
	return s.driver.Start(ctx, func(trigger time.Time) {
		s.sweep.Run(ctx, trigger)
	})
}

// Stop gracefully tears down the underlying scheduler.
func (s *ScheduledSweep) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}
	return s.driver.Stop(ctx)
}
