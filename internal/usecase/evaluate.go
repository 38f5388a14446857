package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"NewsHyperlocalizer/internal/ports"
)

// NeedsEvaluator scores stories that have never been evaluated and persists
// the results.
type NeedsEvaluator struct {
	stories ports.StoryRepository
	scorer  ports.NeedsScorer
	logger  *slog.Logger
}

func NewNeedsEvaluator(stories ports.StoryRepository, scorer ports.NeedsScorer, logger *slog.Logger) *NeedsEvaluator {
	return &NeedsEvaluator{stories: stories, scorer: scorer, logger: logger}
}

// EvaluateUnscored scores every story whose four need scores are all zero.
// A story that fails to score is logged and left for the next sweep.
func (e *NeedsEvaluator) EvaluateUnscored(ctx context.Context) error {
	stories, err := e.stories.ListUnscored(ctx)
	if err != nil {
		return fmt.Errorf("list unscored stories: %w", err)
	}

	e.logger.Info("evaluating user needs", "count", len(stories))

	for _, story := range stories {
		needs, err := e.scorer.Score(ctx, story.Story)
		if err != nil {
			e.logger.Warn("scoring failed", "story_id", story.ID, "error", err)
			continue
		}

		needs.Apply(&story)
		if err := e.stories.SaveNeeds(ctx, story); err != nil {
			e.logger.Warn("cannot save scores", "story_id", story.ID, "error", err)
		}
	}

	return nil
}
