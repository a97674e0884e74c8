package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"BlogPublisher/internal/domain"
	"BlogPublisher/internal/ports"
)

// CategoryRepository reads the category lookup table; categories are
// managed outside the publication engine.
type CategoryRepository struct {
	db *DB
}

var _ ports.CategoryRepository = (*CategoryRepository)(nil)

// NewCategoryRepository wires the shared handle.
func NewCategoryRepository(db *DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	query, args, err := r.db.builder.
		Select("id", "name", "slug", "created_at").
		From("categories").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select category: %w", err)
	}

	category, err := scanCategory(r.db.sql.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select category %d: %w", id, err)
	}
	return category, nil
}

func (r *CategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	query, args, err := r.db.builder.
		Select("id", "name", "slug", "created_at").
		From("categories").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list categories: %w", err)
	}

	rows, err := r.db.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, *category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return categories, nil
}

func scanCategory(row rowScanner) (*domain.Category, error) {
	var (
		category  domain.Category
		createdAt int64
	)
	if err := row.Scan(&category.ID, &category.Name, &category.Slug, &createdAt); err != nil {
		return nil, err
	}
	category.CreatedAt = fromMillis(createdAt)
	return &category, nil
}
