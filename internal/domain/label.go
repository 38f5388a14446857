package domain

// LabelType enumerates the supported label taxonomies.
type LabelType string

const (
	LabelLocation LabelType = "LOCATION"
	LabelTopic    LabelType = "TOPIC"
	LabelCategory LabelType = "CATEGORY"
	LabelAudience LabelType = "AUDIENCE"
)

// Valid reports whether the type is one of the enumerated kinds.
func (t LabelType) Valid() bool {
	switch t {
	case LabelLocation, LabelTopic, LabelCategory, LabelAudience:
		return true
	}
	return false
}

// Label is a named, typed tag. Names are unique case-insensitively; labels
// are created lazily by the classifier on first occurrence of a name.
type Label struct {
	ID   int64
	Name string
	Type LabelType
}

// StoryLabel links one story to one label with a classifier confidence.
// The (story, label) pair is unique in storage.
type StoryLabel struct {
	StoryID    int64
	LabelID    int64
	Confidence float64
}
