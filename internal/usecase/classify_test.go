package usecase

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NewsHyperlocalizer/internal/domain"
	"NewsHyperlocalizer/internal/ports"
)

// fakeLabels records created labels and attachments, refusing duplicates the
// way the database does.
type fakeLabels struct {
	mu       sync.Mutex
	nextID   int64
	labels   map[string]domain.Label
	attached map[[2]int64]float64
}

func newFakeLabels() *fakeLabels {
	return &fakeLabels{
		labels:   map[string]domain.Label{},
		attached: map[[2]int64]float64{},
	}
}

func (f *fakeLabels) GetOrCreate(_ context.Context, name string, labelType domain.LabelType) (domain.Label, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := strings.ToLower(name)
	if label, ok := f.labels[key]; ok {
		return label, nil
	}
	f.nextID++
	label := domain.Label{ID: f.nextID, Name: name, Type: labelType}
	f.labels[key] = label
	return label, nil
}

func (f *fakeLabels) Attach(_ context.Context, storyID, labelID int64, confidence float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := [2]int64{storyID, labelID}
	if _, ok := f.attached[key]; ok {
		return ports.ErrDuplicateStoryLabel
	}
	f.attached[key] = confidence
	return nil
}

func (f *fakeLabels) attachedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.attached)
}

func TestClassifyStoryAttachesTopicAndLocationLabels(t *testing.T) {
	t.Parallel()

	ai := newFakeAI()
	ai.responses["story_labels"] = `{"items": [
		{"name": "Onderwijs", "type": "TOPIC", "confidence": 0.9},
		{"name": "Utrecht", "type": "LOCATION", "confidence": 0.8}]}`

	labels := newFakeLabels()
	c := NewClassifier(ai, newFakeStories(), labels, discardLogger())

	c.ClassifyStory(context.Background(), domain.Story{ID: 1, Title: "T", Summary: "S", Story: "B"})

	// One call per label dimension, both returning the same two labels.
	assert.Equal(t, 2, ai.callCount("story_labels"))
	assert.Equal(t, 2, labels.attachedCount())
}

func TestCollectLabelsAcceptsAlternateWrapperKeys(t *testing.T) {
	t.Parallel()

	story := domain.Story{ID: 1, Title: "T", Summary: "S", Story: "B"}

	for _, key := range []string{"items", "topics", "labels", "locations"} {
		ai := newFakeAI()
		ai.responses["story_labels"] = `{"` + key + `": [{"name": "Sport", "confidence": 0.7}]}`

		c := NewClassifier(ai, newFakeStories(), newFakeLabels(), discardLogger())
		got := c.collectLabels(context.Background(), story, topicInstruction, topicAnswerFormat, discardLogger())

		require.Len(t, got, 1, "key %q", key)
		assert.Equal(t, "Sport", got[0].Name)
	}
}

func TestCollectLabelsRejectsUnknownWrapperKey(t *testing.T) {
	t.Parallel()

	ai := newFakeAI()
	ai.responses["story_labels"] = `{"tags": [{"name": "Sport", "confidence": 0.7}]}`

	c := NewClassifier(ai, newFakeStories(), newFakeLabels(), discardLogger())
	got := c.collectLabels(context.Background(), domain.Story{}, topicInstruction, topicAnswerFormat, discardLogger())

	assert.Empty(t, got)
}

func TestSaveLabelsSkipsInvalidEntries(t *testing.T) {
	t.Parallel()

	labels := newFakeLabels()
	c := NewClassifier(newFakeAI(), newFakeStories(), labels, discardLogger())

	c.saveLabels(context.Background(), domain.Story{ID: 1}, []candidateLabel{
		{Name: "", Confidence: 0.5},
		{Name: strings.Repeat("x", 201), Confidence: 0.5},
		{Name: "Valid", Confidence: 1.5},
		{Name: "Valid", Confidence: -0.1},
		{Name: "Kept", Confidence: 0.5},
	}, domain.LabelTopic, discardLogger())

	assert.Equal(t, 1, labels.attachedCount())
}

func TestSaveLabelsToleratesDuplicateAttachment(t *testing.T) {
	t.Parallel()

	labels := newFakeLabels()
	c := NewClassifier(newFakeAI(), newFakeStories(), labels, discardLogger())

	entries := []candidateLabel{{Name: "Utrecht", Confidence: 0.8}}
	c.saveLabels(context.Background(), domain.Story{ID: 1}, entries, domain.LabelLocation, discardLogger())
	c.saveLabels(context.Background(), domain.Story{ID: 1}, entries, domain.LabelLocation, discardLogger())

	assert.Equal(t, 1, labels.attachedCount())
}

func TestSaveLabelsReusesExistingLabelCaseInsensitively(t *testing.T) {
	t.Parallel()

	labels := newFakeLabels()
	c := NewClassifier(newFakeAI(), newFakeStories(), labels, discardLogger())

	c.saveLabels(context.Background(), domain.Story{ID: 1},
		[]candidateLabel{{Name: "Onderwijs", Confidence: 0.9}}, domain.LabelTopic, discardLogger())
	c.saveLabels(context.Background(), domain.Story{ID: 2},
		[]candidateLabel{{Name: "onderwijs", Confidence: 0.7}}, domain.LabelTopic, discardLogger())

	require.Len(t, labels.labels, 1)
	assert.Equal(t, 2, labels.attachedCount())
}

func TestClassifyByIDMissingStory(t *testing.T) {
	t.Parallel()

	c := NewClassifier(newFakeAI(), newFakeStories(), newFakeLabels(), discardLogger())
	err := c.ClassifyByID(context.Background(), 42)
	assert.Error(t, err)
}
