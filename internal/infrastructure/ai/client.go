package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"NewsHyperlocalizer/internal/config"
	"NewsHyperlocalizer/internal/ports"
)

const (
	defaultInstruction  = "You are a helpful assistant designed to output JSON."
	defaultAnswerFormat = "Please respond in the provided JSON schema."

	// Low temperature for near-deterministic extraction.
	extractionTemperature = 0.2
)

// Client implements ports.AIClient against an OpenAI-compatible chat
// completions API constrained to JSON output.
type Client struct {
	endpoint   string
	model      string
	apiKey     string
	httpClient *http.Client
}

var _ ports.AIClient = (*Client)(nil)

// NewClient builds a client from configuration.
func NewClient(cfg config.OpenAIConfig) *Client {
	return &Client{
		endpoint: cfg.Endpoint,
		model:    cfg.Model,
		apiKey:   cfg.APIKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	ResponseFormat map[string]any  `json:"response_format"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Extract sends the instruction, answer-format hint, named schema, and user
// content to the service and returns the raw JSON response text. Transport
// failures, non-2xx statuses, and in-payload error envelopes all surface as
// errors; callers skip or fall back, never crash.
func (c *Client) Extract(ctx context.Context, instruction, content, answerFormat, schemaKey string) (string, error) {
	if c.apiKey == "" || c.endpoint == "" || c.model == "" {
		return "", fmt.Errorf("ai client misconfigured")
	}

	schema, err := schemaJSON(schemaKey)
	if err != nil {
		return "", err
	}

	if instruction == "" {
		instruction = defaultInstruction
	}
	if answerFormat == "" {
		answerFormat = defaultAnswerFormat
	}

	body, err := json.Marshal(chatRequest{
		Model:          c.model,
		ResponseFormat: map[string]any{"type": "json_object"},
		Messages: []chatMessage{
			{Role: "system", Content: instruction},
			{Role: "system", Content: answerFormat},
			{Role: "system", Content: "Please make sure to follow this JSON schema: " + schema},
			{Role: "user", Content: content},
		},
		Temperature: extractionTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("ai service %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("empty ai response")
	}

	text := parsed.Choices[0].Message.Content
	if hasErrorEnvelope(text) {
		return "", fmt.Errorf("ai service returned error envelope")
	}

	return text, nil
}

// hasErrorEnvelope detects the service's in-payload failure shape by key
// presence, treated identically to a transport failure.
func hasErrorEnvelope(text string) bool {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &envelope); err != nil {
		return false
	}
	_, found := envelope["error"]
	return found
}
