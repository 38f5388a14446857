package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NewsHyperlocalizer/internal/domain"
)

type fakeScorer struct {
	needs domain.UserNeeds
	err   error
}

func (f *fakeScorer) Score(_ context.Context, _ string) (domain.UserNeeds, error) {
	return f.needs, f.err
}

func TestEvaluateUnscoredSavesScores(t *testing.T) {
	t.Parallel()

	stories := newFakeStories()
	saved, err := stories.UpsertByURL(context.Background(), domain.Story{URL: "http://news.test/a", Title: "T", Story: "text"})
	require.NoError(t, err)

	scorer := &fakeScorer{needs: domain.UserNeeds{Know: 10, Understand: 20, Feel: 30, Do: 40}}
	e := NewNeedsEvaluator(stories, scorer, discardLogger())

	require.NoError(t, e.EvaluateUnscored(context.Background()))

	got, err := stories.GetByID(context.Background(), saved.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, got.NeedsSum)
	assert.Equal(t, "Do", got.NeedsPrimary)
	assert.False(t, got.Unscored())
}

func TestEvaluateUnscoredSkipsScoredStories(t *testing.T) {
	t.Parallel()

	stories := newFakeStories()
	_, err := stories.UpsertByURL(context.Background(), domain.Story{
		URL: "http://news.test/a", Title: "T", NeedsKnow: 50,
	})
	require.NoError(t, err)

	unscored, err := stories.ListUnscored(context.Background())
	require.NoError(t, err)
	assert.Empty(t, unscored)
}

func TestEvaluateUnscoredContinuesAfterScoringFailure(t *testing.T) {
	t.Parallel()

	stories := newFakeStories()
	_, err := stories.UpsertByURL(context.Background(), domain.Story{URL: "http://news.test/a", Title: "T"})
	require.NoError(t, err)

	e := NewNeedsEvaluator(stories, &fakeScorer{err: errors.New("api down")}, discardLogger())
	require.NoError(t, e.EvaluateUnscored(context.Background()))

	unscored, err := stories.ListUnscored(context.Background())
	require.NoError(t, err)
	assert.Len(t, unscored, 1)
}
