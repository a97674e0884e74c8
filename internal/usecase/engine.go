package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"BlogPublisher/internal/domain"
	"BlogPublisher/internal/ports"
)

// maxSlugAttempts bounds collision retries; with "-2", "-3", ... suffixes
// fifty attempts is already pathological.
const maxSlugAttempts = 50

// EngineDeps wires all driven adapters into the schedule engine.
type EngineDeps struct {
	Schedules  ports.ScheduleRepository
	Blogs      ports.BlogRepository
	Categories ports.CategoryRepository
	Generator  ports.ContentGenerator
	Notifier   ports.Notifier
	Logger     *slog.Logger
	Now        func() time.Time
}

// Engine turns pending schedules into published blogs. It holds no mutable
// state of its own; every coordination point is an atomic conditional update
// in the schedule repository, so Process is safe to call from any number of
// concurrent triggers.
type Engine struct {
	schedules  ports.ScheduleRepository
	blogs      ports.BlogRepository
	categories ports.CategoryRepository
	generator  ports.ContentGenerator
	notifier   ports.Notifier
	logger     *slog.Logger
	now        func() time.Time
}

// NewEngine constructs the engine.
func NewEngine(deps EngineDeps) *Engine {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{
		schedules:  deps.Schedules,
		blogs:      deps.Blogs,
		categories: deps.Categories,
		generator:  deps.Generator,
		notifier:   deps.Notifier,
		logger:     deps.Logger,
		now:        now,
	}
}

// Process claims the schedule and runs it to a terminal state. Exactly one
// of any set of concurrent callers gets past the claim; the rest receive
// domain.ErrAlreadyClaimed and must treat it as a no-op, not a failure.
// Every post-claim failure is recorded on the schedule and returned.
func (e *Engine) Process(ctx context.Context, schedule domain.Schedule) (int64, error) {
	claimed, err := e.schedules.Claim(ctx, schedule.ID)
	if err != nil {
		return 0, fmt.Errorf("claim schedule %d: %w", schedule.ID, err)
	}
	if !claimed {
		return 0, domain.ErrAlreadyClaimed
	}

	blog, err := e.publishForSchedule(ctx, schedule)
	if err != nil {
		e.recordFailure(ctx, schedule.ID, err)
		return 0, err
	}

	if err := e.schedules.MarkCompleted(ctx, schedule.ID, blog.ID); err != nil {
		return 0, fmt.Errorf("complete schedule %d: %w", schedule.ID, err)
	}

	e.info("schedule published", "schedule_id", schedule.ID, "blog_id", blog.ID, "slug", blog.Slug)
	return blog.ID, nil
}

func (e *Engine) publishForSchedule(ctx context.Context, schedule domain.Schedule) (*domain.Blog, error) {
	category, err := e.categories.GetByID(ctx, schedule.CategoryID)
	if err != nil {
		return nil, err
	}
	return e.Publish(ctx, schedule.Title, *category)
}

// Publish runs the synthesis -> slug -> insert pipeline and announces the
// result. It is shared by schedule processing and the synchronous instant
// path.
func (e *Engine) Publish(ctx context.Context, title string, category domain.Category) (*domain.Blog, error) {
	content, err := e.generator.Generate(ctx, title, category.Name)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	blog := &domain.Blog{
		CategoryID:      category.ID,
		Title:           title,
		Content:         content.Content,
		Excerpt:         content.Excerpt,
		MetaTitle:       content.MetaTitle,
		MetaDescription: content.MetaDescription,
		PublishedAt:     e.now(),
	}
	if err := e.insertWithUniqueSlug(ctx, blog, content.Slug); err != nil {
		return nil, err
	}

	if e.notifier != nil {
		if err := e.notifier.AnnouncePublished(ctx, *blog); err != nil {
			// Announcements are best effort; the blog is already out.
			e.warn("announce published blog", "blog_id", blog.ID, "error", err)
		}
	}
	return blog, nil
}

// insertWithUniqueSlug inserts the blog, resolving slug collisions against
// the unique index by retrying with "-2", "-3", ... suffixes.
func (e *Engine) insertWithUniqueSlug(ctx context.Context, blog *domain.Blog, baseSlug string) error {
	if baseSlug == "" {
		baseSlug = "post"
	}

	slug := baseSlug
	for attempt := 2; ; attempt++ {
		blog.Slug = slug
		err := e.blogs.Insert(ctx, blog)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrSlugTaken) {
			return fmt.Errorf("insert blog: %w", err)
		}
		if attempt > maxSlugAttempts+1 {
			return fmt.Errorf("allocate slug for %q: %w", baseSlug, domain.ErrSlugExhausted)
		}
		slug = fmt.Sprintf("%s-%d", baseSlug, attempt)
	}
}

// Cancel moves a pending schedule to cancelled. A schedule that is already
// claimed or terminal yields domain.ErrNotPending; an unknown id yields
// domain.ErrScheduleNotFound.
func (e *Engine) Cancel(ctx context.Context, id int64) error {
	cancelled, err := e.schedules.Cancel(ctx, id)
	if err != nil {
		return fmt.Errorf("cancel schedule %d: %w", id, err)
	}
	if cancelled {
		return nil
	}
	if _, err := e.schedules.GetByID(ctx, id); err != nil {
		return err
	}
	return domain.ErrNotPending
}

// ProcessDueManual runs every pending manual schedule whose ScheduledAt has
// elapsed. Schedules are processed concurrently and independently; one
// failure never blocks the others, and errors are logged rather than
// propagated because the caller is a periodic trigger.
func (e *Engine) ProcessDueManual(ctx context.Context) {
	due, err := e.schedules.DueManual(ctx, e.now())
	if err != nil {
		e.error("list due manual schedules", "error", err)
		return
	}

	var wg sync.WaitGroup
	for _, schedule := range due {
		wg.Add(1)
		go func(s domain.Schedule) {
			defer wg.Done()
			if _, err := e.Process(ctx, s); err != nil && !errors.Is(err, domain.ErrAlreadyClaimed) {
				e.error("process manual schedule", "schedule_id", s.ID, "error", err)
			}
		}(schedule)
	}
	wg.Wait()
}

// ProcessNextHourly claims at most the single oldest pending hourly schedule.
func (e *Engine) ProcessNextHourly(ctx context.Context) {
	e.processNext(ctx, domain.CadenceHourly)
}

// ProcessNextDaily claims at most the single oldest pending daily schedule.
func (e *Engine) ProcessNextDaily(ctx context.Context) {
	e.processNext(ctx, domain.CadenceDaily)
}

func (e *Engine) processNext(ctx context.Context, cadence domain.Cadence) {
	next, err := e.schedules.NextPending(ctx, cadence)
	if err != nil {
		e.error("select next pending schedule", "cadence", cadence, "error", err)
		return
	}
	if next == nil {
		return
	}
	if _, err := e.Process(ctx, *next); err != nil && !errors.Is(err, domain.ErrAlreadyClaimed) {
		e.error("process scheduled publication", "cadence", cadence, "schedule_id", next.ID, "error", err)
	}
}

// recordFailure pins the failure message on the schedule so it stays
// inspectable. Errors while recording are logged; the original failure is
// what the caller sees.
func (e *Engine) recordFailure(ctx context.Context, id int64, cause error) {
	if err := e.schedules.MarkFailed(ctx, id, cause.Error()); err != nil {
		e.error("mark schedule failed", "schedule_id", id, "error", err)
	}
}

func (e *Engine) info(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Info(msg, args...)
	}
}

func (e *Engine) warn(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Warn(msg, args...)
	}
}

func (e *Engine) error(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Error(msg, args...)
	}
}
