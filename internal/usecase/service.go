package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"BlogPublisher/internal/domain"
	"BlogPublisher/internal/ports"
)

const (
	maxTitleRunes = 500
	blogPerPage   = 12
)

// CreateScheduleInput carries a publication request across the boundary.
type CreateScheduleInput struct {
	Title       string
	CategoryID  int64
	Cadence     domain.Cadence
	ScheduledAt *time.Time
}

// CreateScheduleResult is either a published blog (instant cadence) or a
// stored pending schedule (all other cadences); exactly one field is set.
type CreateScheduleResult struct {
	Blog     *domain.Blog
	Schedule *domain.Schedule
}

// BlogPage is a page of published blogs with pagination totals.
type BlogPage struct {
	Blogs      []domain.Blog
	Page       int
	PerPage    int
	Total      int
	TotalPages int
}

// Service exposes the transport-agnostic boundary operations: schedule
// creation and inspection, cancellation, on-demand processing, and the
// public blog reads.
type Service struct {
	engine     *Engine
	schedules  ports.ScheduleRepository
	blogs      ports.BlogRepository
	categories ports.CategoryRepository
	logger     *slog.Logger
}

// NewService constructs the boundary service on top of the engine.
func NewService(engine *Engine, schedules ports.ScheduleRepository, blogs ports.BlogRepository, categories ports.CategoryRepository, logger *slog.Logger) *Service {
	return &Service{
		engine:     engine,
		schedules:  schedules,
		blogs:      blogs,
		categories: categories,
		logger:     logger,
	}
}

// CreateSchedule validates the request and either publishes synchronously
// (instant cadence, no pending schedule is ever persisted) or stores a
// pending schedule for the triggers to pick up.
func (s *Service) CreateSchedule(ctx context.Context, in CreateScheduleInput) (*CreateScheduleResult, error) {
	title := sanitizeTitle(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if !in.Cadence.Valid() {
		return nil, fmt.Errorf("%w: unknown cadence %q", domain.ErrValidation, in.Cadence)
	}
	if in.Cadence == domain.CadenceManual && in.ScheduledAt == nil {
		return nil, fmt.Errorf("%w: manual cadence requires scheduledAt", domain.ErrValidation)
	}
	if in.Cadence != domain.CadenceManual {
		in.ScheduledAt = nil
	}

	category, err := s.categories.GetByID(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}

	if in.Cadence == domain.CadenceInstant {
		blog, err := s.engine.Publish(ctx, title, *category)
		if err != nil {
			return nil, err
		}
		return &CreateScheduleResult{Blog: blog}, nil
	}

	schedule := &domain.Schedule{
		Title:       title,
		CategoryID:  category.ID,
		Cadence:     in.Cadence,
		ScheduledAt: in.ScheduledAt,
		Status:      domain.StatusPending,
	}
	if err := s.schedules.Create(ctx, schedule); err != nil {
		return nil, fmt.Errorf("create schedule: %w", err)
	}
	return &CreateScheduleResult{Schedule: schedule}, nil
}

// ListSchedules returns schedules newest-first, optionally filtered by
// status.
func (s *Service) ListSchedules(ctx context.Context, status domain.ScheduleStatus) ([]domain.Schedule, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, status)
	}
	return s.schedules.List(ctx, status)
}

// CancelSchedule cancels a pending schedule; non-pending schedules yield
// domain.ErrNotPending so the caller can report a conflict.
func (s *Service) CancelSchedule(ctx context.Context, id int64) error {
	return s.engine.Cancel(ctx, id)
}

// ProcessNow processes a pending schedule on demand, bypassing the manual
// cadence's time gate. It returns the published blog, or ErrNotPending /
// ErrAlreadyClaimed on conflicts.
func (s *Service) ProcessNow(ctx context.Context, id int64) (*domain.Blog, error) {
	schedule, err := s.schedules.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if schedule.Status != domain.StatusPending {
		return nil, domain.ErrNotPending
	}

	blogID, err := s.engine.Process(ctx, *schedule)
	if err != nil {
		return nil, err
	}
	return s.blogs.GetByID(ctx, blogID)
}

// ListCategories exposes the category lookup table.
func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}

// ListBlogs returns a page of published blogs newest-first, optionally
// filtered by category slug.
func (s *Service) ListBlogs(ctx context.Context, categorySlug string, page int) (*BlogPage, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * blogPerPage

	blogs, total, err := s.blogs.ListPublished(ctx, categorySlug, blogPerPage, offset)
	if err != nil {
		return nil, fmt.Errorf("list blogs: %w", err)
	}
	return &BlogPage{
		Blogs:      blogs,
		Page:       page,
		PerPage:    blogPerPage,
		Total:      total,
		TotalPages: (total + blogPerPage - 1) / blogPerPage,
	}, nil
}

// GetBlog returns a published blog by slug.
func (s *Service) GetBlog(ctx context.Context, slug string) (*domain.Blog, error) {
	return s.blogs.GetBySlug(ctx, slug)
}

func sanitizeTitle(title string) string {
	title = strings.TrimSpace(title)
	runes := []rune(title)
	if len(runes) > maxTitleRunes {
		title = string(runes[:maxTitleRunes])
	}
	return title
}
