package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"NewsHyperlocalizer/internal/app"
	"NewsHyperlocalizer/internal/config"
	"NewsHyperlocalizer/internal/logging"
)

var (
	flagSourceID int64
	flagStoryID  int64
)

var rootCmd = &cobra.Command{
	Use:   "newshyperlocalizer",
	Short: "Collects and classifies hyperlocal news stories",
	Long: "newshyperlocalizer scrapes configured news sites, extracts stories with an " +
		"AI text-understanding service, scores them on user needs, and labels them " +
		"by topic and location.",
}

func init() {
	collectCmd.Flags().Int64Var(&flagSourceID, "source", 0, "collect from one source by id instead of all")
	classifyCmd.Flags().Int64Var(&flagStoryID, "story", 0, "classify one story by id instead of all")

	rootCmd.AddCommand(collectCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(runCmd)
}

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Collect stories from configured sources",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app.Application) error {
			if flagSourceID > 0 {
				return a.Collector.CollectFromSourceID(ctx, flagSourceID)
			}
			return a.Collector.CollectAll(ctx)
		})
	},
}

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Label stored stories by topic and location",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app.Application) error {
			if flagStoryID > 0 {
				return a.Classifier.ClassifyByID(ctx, flagStoryID)
			}
			return a.Classifier.ClassifyStories(ctx)
		})
	},
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Score unscored stories on user needs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app.Application) error {
			return a.Evaluator.EvaluateUnscored(ctx)
		})
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run recurring pipeline sweeps until interrupted",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app.Application) error {
			return a.RunScheduled(ctx)
		})
	},
}

// withApp builds the application, runs fn under a signal-aware context, and
// tears everything down.
func withApp(parent context.Context, fn func(context.Context, *app.Application) error) error {
	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	a, err := app.New(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return fn(ctx, a)
}
