package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"NewsHyperlocalizer/internal/domain"
	"NewsHyperlocalizer/internal/ports"
)

// Postgres unique_violation.
const uniqueViolationCode = "23505"

// LabelRepository manages labels and story attachments in Postgres.
type LabelRepository struct {
	db *sql.DB
}

var _ ports.LabelRepository = (*LabelRepository)(nil)

// NewLabelRepository wires a sql.DB implementation.
func NewLabelRepository(db *sql.DB) *LabelRepository {
	return &LabelRepository{db: db}
}

// GetOrCreate finds a label by case-insensitive name or creates it with the
// given type. A creation race with another writer resolves to the winner's
// row.
func (r *LabelRepository) GetOrCreate(ctx context.Context, name string, labelType domain.LabelType) (domain.Label, error) {
	label, err := r.findByName(ctx, name)
	if err == nil {
		return label, nil
	}
	if !errors.Is(err, ports.ErrNotFound) {
		return domain.Label{}, err
	}

	query, args, err := psql.Insert("labels").
		Columns("name", "type").
		Values(name, string(labelType)).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return domain.Label{}, fmt.Errorf("build insert: %w", err)
	}

	label = domain.Label{Name: name, Type: labelType}
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&label.ID)
	if isUniqueViolation(err) {
		return r.findByName(ctx, name)
	}
	if err != nil {
		return domain.Label{}, fmt.Errorf("create label %q: %w", name, err)
	}

	return label, nil
}

// Attach links a label to a story with the classifier confidence. An already
// existing (story, label) pair yields ports.ErrDuplicateStoryLabel.
func (r *LabelRepository) Attach(ctx context.Context, storyID, labelID int64, confidence float64) error {
	query, args, err := psql.Insert("story_labels").
		Columns("story_id", "label_id", "confidence").
		Values(storyID, labelID, confidence).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	if isUniqueViolation(err) {
		return ports.ErrDuplicateStoryLabel
	}
	if err != nil {
		return fmt.Errorf("attach label %d to story %d: %w", labelID, storyID, err)
	}

	return nil
}

func (r *LabelRepository) findByName(ctx context.Context, name string) (domain.Label, error) {
	query, args, err := psql.Select("id", "name", "type").
		From("labels").
		Where(sq.Expr("LOWER(name) = LOWER(?)", name)).
		ToSql()
	if err != nil {
		return domain.Label{}, fmt.Errorf("build query: %w", err)
	}

	var label domain.Label
	var labelType string
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&label.ID, &label.Name, &labelType)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Label{}, ports.ErrNotFound
	}
	if err != nil {
		return domain.Label{}, fmt.Errorf("query label %q: %w", name, err)
	}

	label.Type = domain.LabelType(labelType)
	return label, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolationCode
}
