// Package app wires configuration into the use cases and owns the lifecycle
// of shared resources.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"NewsHyperlocalizer/internal/cache"
	"NewsHyperlocalizer/internal/config"
	"NewsHyperlocalizer/internal/infrastructure/ai"
	"NewsHyperlocalizer/internal/infrastructure/browser"
	"NewsHyperlocalizer/internal/infrastructure/scheduler"
	"NewsHyperlocalizer/internal/infrastructure/scrape"
	"NewsHyperlocalizer/internal/infrastructure/storage"
	"NewsHyperlocalizer/internal/infrastructure/userneeds"
	"NewsHyperlocalizer/internal/logging"
	"NewsHyperlocalizer/internal/ports"
	"NewsHyperlocalizer/internal/usecase"
)

// Sizing for the per-process seen-URL filter.
const (
	seenURLCapacity = 1_000_000
	seenURLFPRate   = 0.001
)

// Application holds the wired pipeline components.
type Application struct {
	cfg        config.Config
	logger     *slog.Logger
	db         *sql.DB
	browser    *browser.Browser
	Collector  *usecase.Collector
	Evaluator  *usecase.NeedsEvaluator
	Classifier *usecase.Classifier
	Sweep      *usecase.Sweep
}

// New builds a runnable application instance. Close must be called when done.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	db, err := storage.Open(cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sources := storage.NewSourceRepository(db)
	stories := storage.NewStoryRepository(db)
	labels := storage.NewLabelRepository(db)

	b := browser.New(cfg.Scrape.UserAgent, cfg.Scrape.BrowserTimeout)
	selector := scrape.NewSelector(cfg.Scrape, b, baseLogger.With("component", "scrape"))
	aiClient := ai.NewClient(cfg.OpenAI)
	seen := cache.NewSeenURLs(seenURLCapacity, seenURLFPRate)

	var scorer ports.NeedsScorer
	if cfg.SmartOcto.APIKey != "" {
		scorer = userneeds.NewSmartOctoScorer(cfg.SmartOcto, baseLogger.With("component", "userneeds"))
	} else {
		baseLogger.Info("no scoring API key configured, using random scores")
		scorer = userneeds.NewStubScorer()
	}

	collector := usecase.NewCollector(selector, aiClient, stories, sources, seen, cfg.Collector,
		baseLogger.With("component", "collector"))
	evaluator := usecase.NewNeedsEvaluator(stories, scorer, baseLogger.With("component", "evaluator"))
	classifier := usecase.NewClassifier(aiClient, stories, labels, baseLogger.With("component", "classifier"))
	sweep := usecase.NewSweep(collector, evaluator, classifier, baseLogger.With("component", "sweep"))

	return &Application{
		cfg:        cfg,
		logger:     baseLogger,
		db:         db,
		browser:    b,
		Collector:  collector,
		Evaluator:  evaluator,
		Classifier: classifier,
		Sweep:      sweep,
	}, nil
}

// RunScheduled blocks running recurring sweeps until the context is
// cancelled.
func (a *Application) RunScheduled(ctx context.Context) error {
	driver, err := scheduler.New(a.cfg.Scheduler, a.logger.With("component", "scheduler"))
	if err != nil {
		return err
	}

	scheduled := usecase.NewScheduledSweep(driver, a.Sweep)
	if err := scheduled.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	return scheduled.Stop(context.Background())
}

// Close releases the database and browser resources.
func (a *Application) Close() {
	a.browser.Close()
	if err := a.db.Close(); err != nil {
		a.logger.Warn("closing database", "error", err)
	}
}
