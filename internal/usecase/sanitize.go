package usecase

import (
	"errors"
	"strings"
	"time"

	"NewsHyperlocalizer/internal/domain"
)

// ErrUnusableCandidate marks a candidate missing a required field. The
// collector drops the URL and moves on.
var ErrUnusableCandidate = errors.New("candidate story missing required fields")

// dateLayouts are tried in order when parsing candidate timestamps.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// sanitizeCandidate normalizes a raw extraction result in place. Title and
// summary are required; unparsable dates are cleared; a lone updated date is
// promoted to created. Running it twice gives the same result.
func sanitizeCandidate(c *domain.CandidateStory) error {
	c.Title = strings.TrimSpace(c.Title)
	c.Summary = strings.TrimSpace(c.Summary)
	c.Author = strings.TrimSpace(c.Author)
	c.Story = strings.TrimSpace(c.Story)
	c.ImageURL = strings.TrimSpace(c.ImageURL)

	if c.Title == "" || c.Summary == "" {
		return ErrUnusableCandidate
	}

	if _, err := parseDate(c.Created); err != nil {
		c.Created = ""
	}
	if _, err := parseDate(c.Updated); err != nil {
		c.Updated = ""
	}

	if c.Created == "" && c.Updated != "" {
		c.Created = c.Updated
		c.Updated = ""
	}

	return nil
}

// parseDate parses a candidate timestamp against the accepted layouts.
func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errors.New("empty date")
	}
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
