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

var sourceColumns = []string{
	"id", "name", "website", "country", "province", "region", "municipality", "medium",
}

// SourceRepository reads configured sources from Postgres.
type SourceRepository struct {
	db *sql.DB
}

var _ ports.SourceRepository = (*SourceRepository)(nil)

// NewSourceRepository wires a sql.DB implementation.
func NewSourceRepository(db *sql.DB) *SourceRepository {
	return &SourceRepository{db: db}
}

// GetByID returns one source or ports.ErrNotFound.
func (r *SourceRepository) GetByID(ctx context.Context, id int64) (domain.Source, error) {
	query, args, err := psql.Select(sourceColumns...).
		From("sources").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return domain.Source{}, fmt.Errorf("build query: %w", err)
	}

	src, err := scanSource(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Source{}, ports.ErrNotFound
	}
	if err != nil {
		return domain.Source{}, fmt.Errorf("query source %d: %w", id, err)
	}
	return src, nil
}

// List returns all sources ordered by name.
func (r *SourceRepository) List(ctx context.Context) ([]domain.Source, error) {
	query, args, err := psql.Select(sourceColumns...).
		From("sources").
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sources: %w", err)
	}
	defer rows.Close()

	var sources []domain.Source
	for rows.Next() {
		src, err := scanSource(rows)
		if err != nil {
			return nil, fmt.Errorf("scan source: %w", err)
		}
		sources = append(sources, src)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return sources, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSource(row rowScanner) (domain.Source, error) {
	var src domain.Source
	err := row.Scan(
		&src.ID, &src.Name, &src.Website,
		&src.Country, &src.Province, &src.Region, &src.Municipality, &src.Medium,
	)
	return src, err
}
