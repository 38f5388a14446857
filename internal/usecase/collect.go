package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"NewsHyperlocalizer/internal/cache"
	"NewsHyperlocalizer/internal/config"
	"NewsHyperlocalizer/internal/domain"
	"NewsHyperlocalizer/internal/infrastructure/scrape"
	"NewsHyperlocalizer/internal/ports"
)

const (
	urlFilterInstruction = "You are a helpful assistant designed to output JSON. " +
		"Your task is to determine which of the provided urls are news stories, " +
		"and which are not, and return only those that may be news stories."
	urlFilterAnswerFormat = "Please return the URLs to the news stories in a JSON format " +
		"according to the schema provided below."

	interpretInstruction = "You are a helpful assistant designed to output JSON. " +
		"Your task is to extract the news story from the given content, which includes " +
		"the extracted text content, meta properties and images of a HTML page. " +
		"Any reference to publication, creation or release dates should be considered " +
		"as the 'created' date."
	interpretAnswerFormat = "Please return the story in a JSON format, extracting the " +
		"following properties from the HTML content: " +
		"title, created, updated, author, story, summary, image_url. " +
		"If you cannot find one of these properties, you can leave it as a blank string."

	summaryInstruction = "You are a helpful assistant designed to output JSON. " +
		"Your task is to write a summary of the given story, in the same language as the story."
	summaryAnswerFormat = "Please write a summary of maximum 30 words based on the story."

	validationInstruction = "You are a helpful assistant designed to output JSON. " +
		"Your task is to validate if the given summary accurately represents the story."
	validationAnswerFormat = "Does the summary accurately represent the story? " +
		"Please answer with 'yes' or 'no'."

	summaryWordLimit = 30
)

// Collector runs the story collection pipeline: discover candidate URLs on a
// source site, interpret each page into a story, and upsert the result.
type Collector struct {
	selector ports.ScraperSelector
	ai       ports.AIClient
	stories  ports.StoryRepository
	sources  ports.SourceRepository
	seen     *cache.SeenURLs
	limiter  *rate.Limiter
	cfg      config.CollectorConfig
	logger   *slog.Logger
}

// NewCollector wires the collection pipeline.
func NewCollector(
	selector ports.ScraperSelector,
	aiClient ports.AIClient,
	stories ports.StoryRepository,
	sources ports.SourceRepository,
	seen *cache.SeenURLs,
	cfg config.CollectorConfig,
	logger *slog.Logger,
) *Collector {
	perSecond := cfg.RatePerSecond
	if perSecond <= 0 {
		perSecond = 1
	}
	return &Collector{
		selector: selector,
		ai:       aiClient,
		stories:  stories,
		sources:  sources,
		seen:     seen,
		limiter:  rate.NewLimiter(rate.Limit(perSecond), 1),
		cfg:      cfg,
		logger:   logger,
	}
}

// CollectAll runs collection for every configured source concurrently. Each
// source gets its own deadline; a failing source never aborts the others.
func (c *Collector) CollectAll(ctx context.Context) error {
	sources, err := c.sources.List(ctx)
	if err != nil {
		return fmt.Errorf("list sources: %w", err)
	}

	workers := c.cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	jobs := make(chan domain.Source)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for source := range jobs {
				c.collectWithDeadline(ctx, source)
			}
		}()
	}

	for _, source := range sources {
		select {
		case jobs <- source:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return ctx.Err()
		}
	}
	close(jobs)
	wg.Wait()

	return nil
}

// CollectFromSourceID resolves the source and collects from it.
func (c *Collector) CollectFromSourceID(ctx context.Context, id int64) error {
	source, err := c.sources.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("resolve source %d: %w", id, err)
	}
	c.CollectFromSource(ctx, source)
	return nil
}

func (c *Collector) collectWithDeadline(ctx context.Context, source domain.Source) {
	deadline := c.cfg.SourceDeadline
	if deadline <= 0 {
		deadline = 5 * time.Minute
	}
	sourceCtx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()
	c.CollectFromSource(sourceCtx, source)
}

// CollectFromSource discovers story URLs on a source site and collects up to
// the configured cap of stories from them. Failures on individual URLs are
// logged and skipped.
func (c *Collector) CollectFromSource(ctx context.Context, source domain.Source) {
	logger := c.logger.With("run_id", uuid.NewString(), "source", source.Name)

	urls := c.discoverURLs(ctx, source, logger)
	logger.Info("discovered candidate story URLs", "count", len(urls))

	limit := c.cfg.StoryCap
	if limit <= 0 {
		limit = 5
	}

	collected := 0
	for _, url := range urls {
		if collected >= limit {
			logger.Info("story cap reached, stopping collection", "cap", limit)
			break
		}
		if err := c.limiter.Wait(ctx); err != nil {
			logger.Warn("collection run interrupted", "error", err)
			return
		}
		if c.seen != nil && c.seen.Seen(url) {
			logger.Debug("skipping already handled URL", "url", url)
			continue
		}

		story, err := c.collectURL(ctx, url, source)
		if err != nil {
			logger.Warn("skipping URL", "url", url, "error", err)
			continue
		}

		if c.seen != nil {
			c.seen.Add(url)
		}
		logger.Info("collected story", "url", url, "story_id", story.ID)
		collected++
	}
}

// discoverURLs fetches the source front page, extracts every hyperlink, and
// asks the extraction service which of them look like news stories. Any
// failure yields an empty list.
func (c *Collector) discoverURLs(ctx context.Context, source domain.Source, logger *slog.Logger) []string {
	scraper, err := c.selector.Select(ctx, source.Website)
	if err != nil {
		logger.Warn("cannot classify source site", "error", err)
		return nil
	}

	html, err := scraper.Fetch(ctx, source.Website)
	if err != nil {
		logger.Warn("cannot fetch source site", "error", err)
		return nil
	}

	urls := scrape.ExtractURLs(html, source.Website)
	if len(urls) == 0 {
		return nil
	}

	raw, err := c.ai.Extract(ctx, urlFilterInstruction, strings.Join(urls, "\n"), urlFilterAnswerFormat, "url_collection")
	if err != nil {
		logger.Warn("URL filtering failed", "error", err)
		return nil
	}

	var parsed struct {
		Items []string `json:"items"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		logger.Warn("cannot parse filtered URLs", "error", err)
		return nil
	}

	return parsed.Items
}

// collectURL turns one page into a persisted story.
func (c *Collector) collectURL(ctx context.Context, url string, source domain.Source) (domain.Story, error) {
	scraper, err := c.selector.Select(ctx, url)
	if err != nil {
		return domain.Story{}, fmt.Errorf("classify page: %w", err)
	}

	html, err := scraper.Fetch(ctx, url)
	if err != nil {
		return domain.Story{}, fmt.Errorf("fetch page: %w", err)
	}

	candidate, err := c.interpretHTML(ctx, html)
	if err != nil {
		return domain.Story{}, err
	}

	c.ensureSummary(ctx, candidate)

	if err := sanitizeCandidate(candidate); err != nil {
		return domain.Story{}, err
	}

	story := candidateToStory(candidate, url, source.ID)
	saved, err := c.stories.UpsertByURL(ctx, story)
	if err != nil {
		return domain.Story{}, fmt.Errorf("save story: %w", err)
	}

	return saved, nil
}

// interpretHTML sends the normalized page content to the extraction service
// and decodes the candidate story it returns.
func (c *Collector) interpretHTML(ctx context.Context, html string) (*domain.CandidateStory, error) {
	content := scrape.ExtractContent(html)
	payload, err := json.Marshal(content)
	if err != nil {
		return nil, fmt.Errorf("encode page content: %w", err)
	}

	raw, err := c.ai.Extract(ctx, interpretInstruction, string(payload), interpretAnswerFormat, "story_collection")
	if err != nil {
		return nil, fmt.Errorf("interpret page: %w", err)
	}

	var candidate domain.CandidateStory
	if err := json.Unmarshal([]byte(raw), &candidate); err != nil {
		return nil, fmt.Errorf("parse candidate story: %w", err)
	}

	return &candidate, nil
}

// ensureSummary makes sure the candidate carries a summary of at most the
// word limit, then checks it against the story. A summary that fails the
// check is regenerated exactly once; the result is kept either way.
func (c *Collector) ensureSummary(ctx context.Context, candidate *domain.CandidateStory) {
	if candidate.Summary == "" || wordCount(candidate.Summary) > summaryWordLimit {
		if summary, err := c.generateSummary(ctx, candidate.Story); err == nil {
			candidate.Summary = summary
		}
	}

	if !c.validateSummary(ctx, candidate.Story, candidate.Summary) {
		if summary, err := c.generateSummary(ctx, candidate.Story); err == nil {
			candidate.Summary = summary
		}
	}
}

func (c *Collector) generateSummary(ctx context.Context, story string) (string, error) {
	raw, err := c.ai.Extract(ctx, summaryInstruction, story, summaryAnswerFormat, "story_summary")
	if err != nil {
		return "", fmt.Errorf("generate summary: %w", err)
	}

	var parsed struct {
		Summary string `json:"summary"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return "", fmt.Errorf("parse summary: %w", err)
	}

	return parsed.Summary, nil
}

func (c *Collector) validateSummary(ctx context.Context, story, summary string) bool {
	content := fmt.Sprintf("Story: %s\nSummary: %s", story, summary)
	raw, err := c.ai.Extract(ctx, validationInstruction, content, validationAnswerFormat, "summary_validation")
	if err != nil {
		return false
	}

	var parsed struct {
		Validation string `json:"validation"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return false
	}

	return strings.EqualFold(strings.TrimSpace(parsed.Validation), "yes")
}

// candidateToStory builds the persistence record. sanitizeCandidate has
// already guaranteed the date strings are parseable or empty.
func candidateToStory(c *domain.CandidateStory, url string, sourceID int64) domain.Story {
	story := domain.Story{
		Title:    c.Title,
		Author:   c.Author,
		Story:    c.Story,
		Summary:  c.Summary,
		URL:      url,
		ImageURL: c.ImageURL,
		SourceID: &sourceID,
	}

	if t, err := parseDate(c.Created); err == nil {
		story.Created = &t
	}
	if t, err := parseDate(c.Updated); err == nil {
		story.Updated = &t
	}

	return story
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}
