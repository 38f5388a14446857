package userneeds

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NewsHyperlocalizer/internal/config"
	"NewsHyperlocalizer/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestStubScorerRange(t *testing.T) {
	t.Parallel()

	s := NewStubScorer()
	for i := 0; i < 50; i++ {
		needs, err := s.Score(context.Background(), "text")
		require.NoError(t, err)
		for _, v := range []int{needs.Know, needs.Understand, needs.Feel, needs.Do} {
			assert.GreaterOrEqual(t, v, 0)
			assert.LessOrEqual(t, v, 100)
		}
	}
}

func TestSmartOctoScorerMapsDimensions(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"know": 10, "context": 20, "emotion": 30, "action": 40}`))
	}))
	defer server.Close()

	s := NewSmartOctoScorer(config.SmartOctoConfig{URL: server.URL, APIKey: "key"}, discardLogger())
	needs, err := s.Score(context.Background(), "story text")
	require.NoError(t, err)

	assert.Equal(t, domain.UserNeeds{Know: 10, Understand: 20, Feel: 30, Do: 40}, needs)
}

func TestSmartOctoScorerFallsBackOnFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	s := NewSmartOctoScorer(config.SmartOctoConfig{URL: server.URL, APIKey: "key"}, discardLogger())
	needs, err := s.Score(context.Background(), "story text")
	require.NoError(t, err)

	// Fallback scores are random but stay in range.
	for _, v := range []int{needs.Know, needs.Understand, needs.Feel, needs.Do} {
		assert.GreaterOrEqual(t, v, 0)
		assert.LessOrEqual(t, v, 100)
	}
}
