package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"BlogPublisher/internal/domain"
	"BlogPublisher/internal/ports"
)

var blogColumns = []string{
	"id", "category_id", "title", "slug", "content", "excerpt",
	"meta_title", "meta_description", "published_at", "created_at",
}

// BlogRepository persists published blogs. Slug uniqueness is enforced by a
// unique index; inserts surface violations as domain.ErrSlugTaken so the
// engine can retry with the next suffix.
type BlogRepository struct {
	db *DB
}

var _ ports.BlogRepository = (*BlogRepository)(nil)

// NewBlogRepository wires the shared handle.
func NewBlogRepository(db *DB) *BlogRepository {
	return &BlogRepository{db: db}
}

// Insert stores a new published blog and assigns its ID.
func (r *BlogRepository) Insert(ctx context.Context, blog *domain.Blog) error {
	if blog.PublishedAt.IsZero() {
		blog.PublishedAt = time.Now().UTC()
	}
	if blog.CreatedAt.IsZero() {
		blog.CreatedAt = time.Now().UTC()
	}

	query, args, err := r.db.builder.
		Insert("blogs").
		Columns("category_id", "title", "slug", "content", "excerpt",
			"meta_title", "meta_description", "status", "published_at", "created_at").
		Values(blog.CategoryID, blog.Title, blog.Slug, blog.Content, blog.Excerpt,
			blog.MetaTitle, blog.MetaDescription, "published",
			toMillis(blog.PublishedAt), toMillis(blog.CreatedAt)).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert blog: %w", err)
	}

	if err := r.db.sql.QueryRowContext(ctx, query, args...).Scan(&blog.ID); err != nil {
		if r.db.isUniqueViolation(err) {
			return domain.ErrSlugTaken
		}
		return fmt.Errorf("insert blog: %w", err)
	}
	return nil
}

func (r *BlogRepository) GetByID(ctx context.Context, id int64) (*domain.Blog, error) {
	q := r.db.builder.
		Select(blogColumns...).
		From("blogs").
		Where(sq.Eq{"id": id})
	blog, err := r.queryBlog(ctx, q)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("blog %d: %w", id, domain.ErrBlogNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("select blog %d: %w", id, err)
	}
	return blog, nil
}

func (r *BlogRepository) GetBySlug(ctx context.Context, slug string) (*domain.Blog, error) {
	q := r.db.builder.
		Select(blogColumns...).
		From("blogs").
		Where(sq.Eq{"slug": slug, "status": "published"})
	blog, err := r.queryBlog(ctx, q)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("blog %q: %w", slug, domain.ErrBlogNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("select blog %q: %w", slug, err)
	}
	return blog, nil
}

// ListPublished returns a page of published blogs newest-first plus the
// total match count.
func (r *BlogRepository) ListPublished(ctx context.Context, categorySlug string, limit, offset int) ([]domain.Blog, int, error) {
	where := sq.And{sq.Eq{"b.status": "published"}}
	if categorySlug != "" {
		where = append(where, sq.Eq{"c.slug": categorySlug})
	}

	countQuery, countArgs, err := r.db.builder.
		Select("COUNT(*)").
		From("blogs b").
		Join("categories c ON c.id = b.category_id").
		Where(where).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count blogs: %w", err)
	}

	var total int
	if err := r.db.sql.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count blogs: %w", err)
	}

	prefixed := make([]string, len(blogColumns))
	for i, col := range blogColumns {
		prefixed[i] = "b." + col
	}

	listQuery, listArgs, err := r.db.builder.
		Select(prefixed...).
		From("blogs b").
		Join("categories c ON c.id = b.category_id").
		Where(where).
		OrderBy("b.published_at DESC", "b.id DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list blogs: %w", err)
	}

	rows, err := r.db.sql.QueryContext(ctx, listQuery, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("query blogs: %w", err)
	}
	defer rows.Close()

	var blogs []domain.Blog
	for rows.Next() {
		blog, err := scanBlog(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan blog: %w", err)
		}
		blogs = append(blogs, *blog)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate blogs: %w", err)
	}
	return blogs, total, nil
}

func (r *BlogRepository) queryBlog(ctx context.Context, q sq.SelectBuilder) (*domain.Blog, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select blog: %w", err)
	}
	return scanBlog(r.db.sql.QueryRowContext(ctx, query, args...))
}

func scanBlog(row rowScanner) (*domain.Blog, error) {
	var (
		blog        domain.Blog
		publishedAt int64
		createdAt   int64
	)
	if err := row.Scan(&blog.ID, &blog.CategoryID, &blog.Title, &blog.Slug, &blog.Content,
		&blog.Excerpt, &blog.MetaTitle, &blog.MetaDescription, &publishedAt, &createdAt); err != nil {
		return nil, err
	}
	blog.PublishedAt = fromMillis(publishedAt)
	blog.CreatedAt = fromMillis(createdAt)
	return &blog, nil
}
