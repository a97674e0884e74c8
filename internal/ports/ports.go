package ports

import (
	"context"
	"time"

	"BlogPublisher/internal/domain"
)

// ScheduleRepository persists publication schedules and owns the atomic
// conditional updates the engine relies on for mutual exclusion.
type ScheduleRepository interface {
	// Create stores a new pending schedule and assigns ID and CreatedAt.
	Create(ctx context.Context, schedule *domain.Schedule) error
	GetByID(ctx context.Context, id int64) (*domain.Schedule, error)
	// List returns schedules newest-first, optionally filtered by status
	// (empty status means no filter).
	List(ctx context.Context, status domain.ScheduleStatus) ([]domain.Schedule, error)
	// DueManual returns all pending manual schedules with ScheduledAt <= now.
	DueManual(ctx context.Context, now time.Time) ([]domain.Schedule, error)
	// NextPending returns the oldest pending schedule of the given cadence,
	// or nil when there is none.
	NextPending(ctx context.Context, cadence domain.Cadence) (*domain.Schedule, error)
	// Claim atomically moves the schedule from pending to processing and
	// clears its error message. It reports false when the schedule was not
	// pending, which is how concurrent claimers lose the race.
	Claim(ctx context.Context, id int64) (bool, error)
	// Cancel atomically moves the schedule from pending to cancelled,
	// reporting false when it was not pending.
	Cancel(ctx context.Context, id int64) (bool, error)
	// MarkCompleted moves a processing schedule to completed and records
	// the created blog.
	MarkCompleted(ctx context.Context, id, blogID int64) error
	// MarkFailed moves a processing schedule to failed and records the
	// failure message.
	MarkFailed(ctx context.Context, id int64, message string) error
}

// BlogRepository persists published blogs. Inserts are append-only from the
// engine's perspective.
type BlogRepository interface {
	// Insert stores a new published blog and assigns its ID. It returns
	// domain.ErrSlugTaken when the slug is already in use.
	Insert(ctx context.Context, blog *domain.Blog) error
	GetByID(ctx context.Context, id int64) (*domain.Blog, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Blog, error)
	// ListPublished returns a page of published blogs newest-first together
	// with the total match count. categorySlug filters when non-empty.
	ListPublished(ctx context.Context, categorySlug string, limit, offset int) ([]domain.Blog, int, error)
}

// CategoryRepository is the lookup capability the engine consumes from the
// external category store.
type CategoryRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
}

// ContentGenerator produces a finished article body plus SEO metadata for a
// title and category pair.
type ContentGenerator interface {
	Generate(ctx context.Context, title, categoryName string) (domain.GeneratedContent, error)
}

// Notifier announces freshly published blogs to an outbound channel.
type Notifier interface {
	AnnouncePublished(ctx context.Context, blog domain.Blog) error
}

// Scheduler drives the periodic trigger entrypoints on cron specs.
type Scheduler interface {
	Add(spec string, job func(time.Time)) error
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
