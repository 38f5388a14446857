package userneeds

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"NewsHyperlocalizer/internal/config"
	"NewsHyperlocalizer/internal/domain"
	"NewsHyperlocalizer/internal/ports"
)

// SmartOctoScorer scores story texts against the SmartOcto content insights
// API. The API names the four dimensions know/context/emotion/action; they
// map onto know/understand/feel/do here. When the API misbehaves the scorer
// degrades to random scores instead of stalling the evaluation sweep.
type SmartOctoScorer struct {
	url        string
	apiKey     string
	httpClient *http.Client
	fallback   *StubScorer
	logger     *slog.Logger
}

var _ ports.NeedsScorer = (*SmartOctoScorer)(nil)

func NewSmartOctoScorer(cfg config.SmartOctoConfig, logger *slog.Logger) *SmartOctoScorer {
	return &SmartOctoScorer{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		fallback:   NewStubScorer(),
		logger:     logger,
	}
}

type analyzeRequest struct {
	Text        string `json:"text"`
	Perspective string `json:"cpi_perspective"`
}

type analyzeResponse struct {
	Know    int `json:"know"`
	Context int `json:"context"`
	Emotion int `json:"emotion"`
	Action  int `json:"action"`
}

func (s *SmartOctoScorer) Score(ctx context.Context, text string) (domain.UserNeeds, error) {
	needs, err := s.call(ctx, text)
	if err != nil {
		s.logger.Warn("user-needs API unavailable, using random scores", "error", err)
		return s.fallback.Score(ctx, text)
	}
	return needs, nil
}

func (s *SmartOctoScorer) call(ctx context.Context, text string) (domain.UserNeeds, error) {
	body, err := json.Marshal(analyzeRequest{Text: text, Perspective: "user_needs"})
	if err != nil {
		return domain.UserNeeds{}, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return domain.UserNeeds{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return domain.UserNeeds{}, fmt.Errorf("call scoring API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.UserNeeds{}, fmt.Errorf("scoring API returned %s", resp.Status)
	}

	var parsed analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return domain.UserNeeds{}, fmt.Errorf("decode response: %w", err)
	}

	return domain.UserNeeds{
		Know:       parsed.Know,
		Understand: parsed.Context,
		Feel:       parsed.Emotion,
		Do:         parsed.Action,
	}, nil
}
