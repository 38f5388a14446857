package domain

import (
	"strings"
	"time"
)

// Source is a configured origin site stories are collected from.
// It is read-only input to the collection pipeline.
type Source struct {
	ID           int64
	Name         string
	Website      string
	Country      string
	Province     string
	Region       string
	Municipality string
	Medium       string
}

// Story is a persisted news article. URL is the upsert key: collecting the
// same URL twice updates the existing row.
type Story struct {
	ID       int64
	Title    string
	Created  *time.Time
	Updated  *time.Time
	Author   string
	Story    string
	Summary  string
	URL      string
	ImageURL string
	SourceID *int64

	NeedsKnow       int
	NeedsUnderstand int
	NeedsFeel       int
	NeedsDo         int
	NeedsSum        int
	NeedsPrimary    string
}

// needOrder fixes tie-breaking for the primary need: the first
// highest-scoring entry in this order wins.
var needOrder = []string{"know", "understand", "feel", "do"}

// RecomputeNeeds refreshes NeedsSum and NeedsPrimary from the four need
// scores. Repositories call it on every save.
func (s *Story) RecomputeNeeds() {
	scores := map[string]int{
		"know":       s.NeedsKnow,
		"understand": s.NeedsUnderstand,
		"feel":       s.NeedsFeel,
		"do":         s.NeedsDo,
	}

	sum := 0
	primary := needOrder[0]
	best := scores[primary]
	for _, name := range needOrder {
		sum += scores[name]
		if scores[name] > best {
			best = scores[name]
			primary = name
		}
	}

	s.NeedsSum = sum
	s.NeedsPrimary = strings.ToUpper(primary[:1]) + primary[1:]
}

// UserNeeds carries one scoring result for a story text.
type UserNeeds struct {
	Know       int
	Understand int
	Feel       int
	Do         int
}

// Apply copies the scores onto the story.
func (n UserNeeds) Apply(s *Story) {
	s.NeedsKnow = n.Know
	s.NeedsUnderstand = n.Understand
	s.NeedsFeel = n.Feel
	s.NeedsDo = n.Do
}

// Unscored reports whether the story has never been evaluated.
func (s *Story) Unscored() bool {
	return s.NeedsKnow == 0 && s.NeedsUnderstand == 0 && s.NeedsFeel == 0 && s.NeedsDo == 0
}
