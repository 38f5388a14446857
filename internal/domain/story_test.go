package domain

import "testing"

func TestRecomputeNeeds(t *testing.T) {
	t.Parallel()

	s := Story{NeedsKnow: 20, NeedsUnderstand: 30, NeedsFeel: 40, NeedsDo: 50}
	s.RecomputeNeeds()

	if s.NeedsSum != 140 {
		t.Fatalf("expected sum 140, got %d", s.NeedsSum)
	}
	if s.NeedsPrimary != "Do" {
		t.Fatalf("expected primary Do, got %s", s.NeedsPrimary)
	}
}

func TestRecomputeNeedsTieBreak(t *testing.T) {
	t.Parallel()

	s := Story{NeedsKnow: 10, NeedsUnderstand: 50, NeedsFeel: 50, NeedsDo: 50}
	s.RecomputeNeeds()

	if s.NeedsPrimary != "Understand" {
		t.Fatalf("expected first highest need to win the tie, got %s", s.NeedsPrimary)
	}
}

func TestRecomputeNeedsAllZero(t *testing.T) {
	t.Parallel()

	var s Story
	s.RecomputeNeeds()

	if s.NeedsSum != 0 {
		t.Fatalf("expected sum 0, got %d", s.NeedsSum)
	}
	if s.NeedsPrimary != "Know" {
		t.Fatalf("expected primary Know for all-zero scores, got %s", s.NeedsPrimary)
	}
}

func TestUserNeedsApply(t *testing.T) {
	t.Parallel()

	var s Story
	UserNeeds{Know: 1, Understand: 2, Feel: 3, Do: 4}.Apply(&s)

	if s.NeedsKnow != 1 || s.NeedsUnderstand != 2 || s.NeedsFeel != 3 || s.NeedsDo != 4 {
		t.Fatalf("scores not copied: %+v", s)
	}
	if !(&Story{}).Unscored() {
		t.Fatal("zero story should be unscored")
	}
	if s.Unscored() {
		t.Fatal("scored story reported as unscored")
	}
}

func TestLabelTypeValid(t *testing.T) {
	t.Parallel()

	for _, lt := range []LabelType{LabelLocation, LabelTopic, LabelCategory, LabelAudience} {
		if !lt.Valid() {
			t.Fatalf("%s should be valid", lt)
		}
	}
	if LabelType("PERSON").Valid() {
		t.Fatal("unknown type should be invalid")
	}
}
