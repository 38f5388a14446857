package ports

import (
	"context"
	"errors"
	"time"

	"NewsHyperlocalizer/internal/domain"
)

// ErrNotFound is returned by repositories when the requested row is absent.
var ErrNotFound = errors.New("not found")

// ErrDuplicateStoryLabel signals a (story, label) pair that already exists.
// Callers treat it as an expected, recoverable condition.
var ErrDuplicateStoryLabel = errors.New("story label already exists")

// Scraper produces final rendered HTML for a URL. Any network or browser
// failure is reported as an error; callers skip the URL rather than abort.
type Scraper interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// ScraperSelector fetches a URL once and returns the scraping strategy
// (static, dynamic, or AJAX) suited to the page.
type ScraperSelector interface {
	Select(ctx context.Context, url string) (Scraper, error)
}

// AIClient sends content plus a task instruction and a named JSON schema to
// the external text-understanding service and returns the raw response text.
type AIClient interface {
	Extract(ctx context.Context, instruction, content, answerFormat, schemaKey string) (string, error)
}

// SourceRepository reads configured origin sites.
type SourceRepository interface {
	GetByID(ctx context.Context, id int64) (domain.Source, error)
	List(ctx context.Context) ([]domain.Source, error)
}

// StoryRepository persists collected stories. Implementations recompute the
// derived need fields on every write.
type StoryRepository interface {
	UpsertByURL(ctx context.Context, story domain.Story) (domain.Story, error)
	GetByID(ctx context.Context, id int64) (domain.Story, error)
	List(ctx context.Context) ([]domain.Story, error)
	ListUnscored(ctx context.Context) ([]domain.Story, error)
	SaveNeeds(ctx context.Context, story domain.Story) error
}

// LabelRepository manages labels and their story attachments. Attach returns
// ErrDuplicateStoryLabel when the pair already exists.
type LabelRepository interface {
	GetOrCreate(ctx context.Context, name string, labelType domain.LabelType) (domain.Label, error)
	Attach(ctx context.Context, storyID, labelID int64, confidence float64) error
}

// NeedsScorer evaluates the four user-need scores for a story text.
type NeedsScorer interface {
	Score(ctx context.Context, text string) (domain.UserNeeds, error)
}

// Scheduler controls when recurring pipeline sweeps execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
