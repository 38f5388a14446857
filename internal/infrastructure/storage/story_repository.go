package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"NewsHyperlocalizer/internal/domain"
	"NewsHyperlocalizer/internal/ports"
)

var storyColumns = []string{
	"id", "title", "created", "updated", "author", "story", "summary",
	"url", "image_url", "source_id",
	"needs_know", "needs_understand", "needs_feel", "needs_do",
	"needs_sum", "needs_primary",
}

// StoryRepository persists stories in Postgres. Every write path recomputes
// the derived need fields first.
type StoryRepository struct {
	db *sql.DB
}

var _ ports.StoryRepository = (*StoryRepository)(nil)

// NewStoryRepository wires a sql.DB implementation.
func NewStoryRepository(db *sql.DB) *StoryRepository {
	return &StoryRepository{db: db}
}

// UpsertByURL inserts the story or, when the URL already exists, overwrites
// the collected fields of the existing row. Last write wins.
func (r *StoryRepository) UpsertByURL(ctx context.Context, story domain.Story) (domain.Story, error) {
	story.RecomputeNeeds()

	query, args, err := psql.Insert("stories").
		Columns("title", "created", "updated", "author", "story", "summary",
			"url", "image_url", "source_id",
			"needs_know", "needs_understand", "needs_feel", "needs_do",
			"needs_sum", "needs_primary").
		Values(story.Title, story.Created, story.Updated, story.Author, story.Story, story.Summary,
			story.URL, story.ImageURL, story.SourceID,
			story.NeedsKnow, story.NeedsUnderstand, story.NeedsFeel, story.NeedsDo,
			story.NeedsSum, story.NeedsPrimary).
		Suffix(`ON CONFLICT (url) DO UPDATE SET
			title = EXCLUDED.title,
			created = EXCLUDED.created,
			updated = EXCLUDED.updated,
			author = EXCLUDED.author,
			story = EXCLUDED.story,
			summary = EXCLUDED.summary,
			image_url = EXCLUDED.image_url,
			source_id = EXCLUDED.source_id
			RETURNING id`).
		ToSql()
	if err != nil {
		return domain.Story{}, fmt.Errorf("build upsert: %w", err)
	}

	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&story.ID); err != nil {
		return domain.Story{}, fmt.Errorf("upsert story %s: %w", story.URL, err)
	}

	return story, nil
}

// GetByID returns one story or ports.ErrNotFound.
func (r *StoryRepository) GetByID(ctx context.Context, id int64) (domain.Story, error) {
	query, args, err := psql.Select(storyColumns...).
		From("stories").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return domain.Story{}, fmt.Errorf("build query: %w", err)
	}

	story, err := scanStory(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Story{}, ports.ErrNotFound
	}
	if err != nil {
		return domain.Story{}, fmt.Errorf("query story %d: %w", id, err)
	}
	return story, nil
}

// List returns all stories, newest first.
func (r *StoryRepository) List(ctx context.Context) ([]domain.Story, error) {
	return r.list(ctx, nil)
}

// ListUnscored returns stories whose four need scores are all zero.
func (r *StoryRepository) ListUnscored(ctx context.Context) ([]domain.Story, error) {
	return r.list(ctx, sq.Eq{
		"needs_know":       0,
		"needs_understand": 0,
		"needs_feel":       0,
		"needs_do":         0,
	})
}

func (r *StoryRepository) list(ctx context.Context, where any) ([]domain.Story, error) {
	builder := psql.Select(storyColumns...).From("stories").OrderBy("id DESC")
	if where != nil {
		builder = builder.Where(where)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query stories: %w", err)
	}
	defer rows.Close()

	var stories []domain.Story
	for rows.Next() {
		story, err := scanStory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan story: %w", err)
		}
		stories = append(stories, story)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return stories, nil
}

// SaveNeeds writes the four need scores and their derived fields.
func (r *StoryRepository) SaveNeeds(ctx context.Context, story domain.Story) error {
	story.RecomputeNeeds()

	query, args, err := psql.Update("stories").
		Set("needs_know", story.NeedsKnow).
		Set("needs_understand", story.NeedsUnderstand).
		Set("needs_feel", story.NeedsFeel).
		Set("needs_do", story.NeedsDo).
		Set("needs_sum", story.NeedsSum).
		Set("needs_primary", story.NeedsPrimary).
		Where(sq.Eq{"id": story.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save needs for story %d: %w", story.ID, err)
	}

	return nil
}

func scanStory(row rowScanner) (domain.Story, error) {
	var story domain.Story
	err := row.Scan(
		&story.ID, &story.Title, &story.Created, &story.Updated,
		&story.Author, &story.Story, &story.Summary,
		&story.URL, &story.ImageURL, &story.SourceID,
		&story.NeedsKnow, &story.NeedsUnderstand, &story.NeedsFeel, &story.NeedsDo,
		&story.NeedsSum, &story.NeedsPrimary,
	)
	return story, err
}
