package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"NewsHyperlocalizer/internal/domain"
	"NewsHyperlocalizer/internal/ports"
)

const (
	topicInstruction = "You are an expert in classifying news stories by topic based on IPTC " +
		"NewsCodes and providing tags in Dutch. Your task is to read the following story and " +
		"classify the text to return a collection of topic labels. Each label should include " +
		"a name and a confidence score."
	topicAnswerFormat = "Please use the IPTC NewsCodes aka Media Topics taxonomy, with broad " +
		"specificity, and provide them in Dutch. Example: 'Onderwijs' NOT 'Education', " +
		"'Klimaat' NOT 'Climate'. You should always capitalize the first letter of nouns in " +
		"the topic. Example: 'Onderwijs' NOT 'onderwijs', 'Wet en Regelgeving' NOT " +
		"'wet en regelgeving'."

	locationInstruction = "You are an expert in extracting location information from stories. " +
		"Your task is to read the following story and identify and list all relevant locations " +
		"mentioned in the story. Focus on general locations (cities, towns, neighborhoods) that " +
		"are central to the story's content, and avoid mentioning locations that are only " +
		"tangentially referenced. Each label should include a name and a confidence score."
	locationAnswerFormat = "Please use the Dutch names for the locations."

	maxLabelNameLength = 200
)

// candidateLabel is one entry of the classifier response.
type candidateLabel struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// Classifier assigns topic and location labels to stories through the
// extraction service.
type Classifier struct {
	ai      ports.AIClient
	stories ports.StoryRepository
	labels  ports.LabelRepository
	logger  *slog.Logger
}

func NewClassifier(aiClient ports.AIClient, stories ports.StoryRepository, labels ports.LabelRepository, logger *slog.Logger) *Classifier {
	return &Classifier{ai: aiClient, stories: stories, labels: labels, logger: logger}
}

// ClassifyStory runs one classification call per label dimension and attaches
// the results. Failures on one dimension do not stop the other.
func (c *Classifier) ClassifyStory(ctx context.Context, story domain.Story) {
	logger := c.logger.With("story_id", story.ID, "title", story.Title)

	topics := c.collectLabels(ctx, story, topicInstruction, topicAnswerFormat, logger)
	logger.Info("collected potential topic labels", "count", len(topics))
	c.saveLabels(ctx, story, topics, domain.LabelTopic, logger)

	locations := c.collectLabels(ctx, story, locationInstruction, locationAnswerFormat, logger)
	logger.Info("collected potential location labels", "count", len(locations))
	c.saveLabels(ctx, story, locations, domain.LabelLocation, logger)
}

// ClassifyByID resolves the story first.
func (c *Classifier) ClassifyByID(ctx context.Context, id int64) error {
	story, err := c.stories.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("resolve story %d: %w", id, err)
	}
	c.ClassifyStory(ctx, story)
	return nil
}

// ClassifyStories classifies every stored story.
func (c *Classifier) ClassifyStories(ctx context.Context) error {
	stories, err := c.stories.List(ctx)
	if err != nil {
		return fmt.Errorf("list stories: %w", err)
	}
	for _, story := range stories {
		c.ClassifyStory(ctx, story)
	}
	return nil
}

// collectLabels sends the story text for one dimension and parses the labels
// out of the response. The service tends to wrap the array under varying
// keys, so several are accepted. Any failure yields an empty list.
func (c *Classifier) collectLabels(ctx context.Context, story domain.Story, instruction, answerFormat string, logger *slog.Logger) []candidateLabel {
	content := fmt.Sprintf("Title: %s\nSummary: %s\nStory: %s", story.Title, story.Summary, story.Story)

	raw, err := c.ai.Extract(ctx, instruction, content, answerFormat, "story_labels")
	if err != nil {
		logger.Warn("label collection failed", "error", err)
		return nil
	}

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &wrapped); err != nil {
		logger.Warn("cannot parse label response", "error", err)
		return nil
	}

	for _, key := range []string{"items", "topics", "labels", "locations"} {
		blob, ok := wrapped[key]
		if !ok {
			continue
		}
		var labels []candidateLabel
		if err := json.Unmarshal(blob, &labels); err != nil {
			logger.Warn("cannot parse label list", "key", key, "error", err)
			return nil
		}
		return labels
	}

	logger.Warn("label response used an unexpected key")
	return nil
}

// saveLabels persists labels of one type, skipping invalid entries. A label
// already attached to the story is logged and skipped.
func (c *Classifier) saveLabels(ctx context.Context, story domain.Story, labels []candidateLabel, labelType domain.LabelType, logger *slog.Logger) {
	if !labelType.Valid() {
		logger.Warn("invalid label type", "type", labelType)
		return
	}

	for _, candidate := range labels {
		if len(candidate.Name) < 1 || len(candidate.Name) > maxLabelNameLength {
			logger.Warn("invalid label name", "name", candidate.Name)
			continue
		}
		if candidate.Confidence < 0 || candidate.Confidence > 1 {
			logger.Warn("invalid label confidence", "name", candidate.Name, "confidence", candidate.Confidence)
			continue
		}

		label, err := c.labels.GetOrCreate(ctx, candidate.Name, labelType)
		if err != nil {
			logger.Warn("cannot store label", "name", candidate.Name, "error", err)
			continue
		}

		err = c.labels.Attach(ctx, story.ID, label.ID, candidate.Confidence)
		if errors.Is(err, ports.ErrDuplicateStoryLabel) {
			logger.Debug("label already attached", "name", label.Name)
			continue
		}
		if err != nil {
			logger.Warn("cannot attach label", "name", label.Name, "error", err)
		}
	}
}
