package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"BlogPublisher/internal/domain"
	"BlogPublisher/internal/ports"
	"BlogPublisher/pkg/slugify"
)

// In-memory fakes mirroring the repository contracts, including the
// conditional-update semantics of Claim and Cancel.

type fakeScheduleRepo struct {
	mu        sync.Mutex
	nextID    int64
	schedules map[int64]*domain.Schedule
}

var _ ports.ScheduleRepository = (*fakeScheduleRepo)(nil)

func newFakeScheduleRepo() *fakeScheduleRepo {
	return &fakeScheduleRepo{schedules: map[int64]*domain.Schedule{}}
}

// seed stores a schedule as-is (keeping status and timestamps) and returns
// a copy with its assigned ID.
func (r *fakeScheduleRepo) seed(s domain.Schedule) domain.Schedule {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	s.ID = r.nextID
	if s.Status == "" {
		s.Status = domain.StatusPending
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	stored := s
	r.schedules[s.ID] = &stored
	return s
}

func (r *fakeScheduleRepo) get(id int64) domain.Schedule {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.schedules[id]
}

func (r *fakeScheduleRepo) Create(_ context.Context, schedule *domain.Schedule) error {
	stored := r.seed(*schedule)
	*schedule = stored
	return nil
}

func (r *fakeScheduleRepo) GetByID(_ context.Context, id int64) (*domain.Schedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.schedules[id]
	if !ok {
		return nil, fmt.Errorf("schedule %d: %w", id, domain.ErrScheduleNotFound)
	}
	copied := *s
	return &copied, nil
}

func (r *fakeScheduleRepo) List(_ context.Context, status domain.ScheduleStatus) ([]domain.Schedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.Schedule
	for _, s := range r.schedules {
		if status != "" && s.Status != status {
			continue
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *fakeScheduleRepo) DueManual(_ context.Context, now time.Time) ([]domain.Schedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.Schedule
	for _, s := range r.schedules {
		if s.Status != domain.StatusPending || s.Cadence != domain.CadenceManual {
			continue
		}
		if s.ScheduledAt == nil || s.ScheduledAt.After(now) {
			continue
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeScheduleRepo) NextPending(_ context.Context, cadence domain.Cadence) (*domain.Schedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var next *domain.Schedule
	for _, s := range r.schedules {
		if s.Status != domain.StatusPending || s.Cadence != cadence {
			continue
		}
		if next == nil || s.CreatedAt.Before(next.CreatedAt) ||
			(s.CreatedAt.Equal(next.CreatedAt) && s.ID < next.ID) {
			next = s
		}
	}
	if next == nil {
		return nil, nil
	}
	copied := *next
	return &copied, nil
}

func (r *fakeScheduleRepo) Claim(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.schedules[id]
	if !ok || s.Status != domain.StatusPending {
		return false, nil
	}
	s.Status = domain.StatusProcessing
	s.ErrorMessage = ""
	return true, nil
}

func (r *fakeScheduleRepo) Cancel(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.schedules[id]
	if !ok || s.Status != domain.StatusPending {
		return false, nil
	}
	s.Status = domain.StatusCancelled
	return true, nil
}

func (r *fakeScheduleRepo) MarkCompleted(_ context.Context, id, blogID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.schedules[id]
	if !ok || s.Status != domain.StatusProcessing {
		return fmt.Errorf("schedule %d is not processing", id)
	}
	s.Status = domain.StatusCompleted
	s.CreatedBlogID = &blogID
	return nil
}

func (r *fakeScheduleRepo) MarkFailed(_ context.Context, id int64, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.schedules[id]
	if !ok || s.Status != domain.StatusProcessing {
		return fmt.Errorf("schedule %d is not processing", id)
	}
	s.Status = domain.StatusFailed
	s.ErrorMessage = message
	return nil
}

type fakeBlogRepo struct {
	mu            sync.Mutex
	nextID        int64
	blogs         map[int64]*domain.Blog
	bySlug        map[string]int64
	categorySlugs map[int64]string
}

var _ ports.BlogRepository = (*fakeBlogRepo)(nil)

func newFakeBlogRepo() *fakeBlogRepo {
	return &fakeBlogRepo{
		blogs:         map[int64]*domain.Blog{},
		bySlug:        map[string]int64{},
		categorySlugs: map[int64]string{},
	}
}

func (r *fakeBlogRepo) Insert(_ context.Context, blog *domain.Blog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.bySlug[blog.Slug]; taken {
		return domain.ErrSlugTaken
	}
	r.nextID++
	blog.ID = r.nextID
	if blog.PublishedAt.IsZero() {
		blog.PublishedAt = time.Now().UTC()
	}
	stored := *blog
	r.blogs[blog.ID] = &stored
	r.bySlug[blog.Slug] = blog.ID
	return nil
}

func (r *fakeBlogRepo) GetByID(_ context.Context, id int64) (*domain.Blog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.blogs[id]
	if !ok {
		return nil, fmt.Errorf("blog %d: %w", id, domain.ErrBlogNotFound)
	}
	copied := *b
	return &copied, nil
}

func (r *fakeBlogRepo) GetBySlug(_ context.Context, slug string) (*domain.Blog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.bySlug[slug]
	if !ok {
		return nil, fmt.Errorf("blog %q: %w", slug, domain.ErrBlogNotFound)
	}
	copied := *r.blogs[id]
	return &copied, nil
}

func (r *fakeBlogRepo) ListPublished(_ context.Context, categorySlug string, limit, offset int) ([]domain.Blog, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var all []domain.Blog
	for _, b := range r.blogs {
		if categorySlug != "" && r.categorySlugs[b.CategoryID] != categorySlug {
			continue
		}
		all = append(all, *b)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].PublishedAt.Equal(all[j].PublishedAt) {
			return all[i].PublishedAt.After(all[j].PublishedAt)
		}
		return all[i].ID > all[j].ID
	})

	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (r *fakeBlogRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.blogs)
}

type fakeCategoryRepo struct {
	categories map[int64]domain.Category
}

var _ ports.CategoryRepository = (*fakeCategoryRepo)(nil)

func newFakeCategoryRepo(categories ...domain.Category) *fakeCategoryRepo {
	repo := &fakeCategoryRepo{categories: map[int64]domain.Category{}}
	for _, c := range categories {
		repo.categories[c.ID] = c
	}
	return repo
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, id int64) (*domain.Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	return &c, nil
}

func (r *fakeCategoryRepo) List(_ context.Context) ([]domain.Category, error) {
	var out []domain.Category
	for _, c := range r.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// fakeGenerator produces minimal deterministic content with a real base
// slug derived from the title.
type fakeGenerator struct {
	err error
}

var _ ports.ContentGenerator = (*fakeGenerator)(nil)

func (g *fakeGenerator) Generate(_ context.Context, title, _ string) (domain.GeneratedContent, error) {
	if g.err != nil {
		return domain.GeneratedContent{}, g.err
	}
	return domain.GeneratedContent{
		Content:         fmt.Sprintf("<p>%s hakkında içerik.</p>", title),
		Excerpt:         "özet",
		MetaTitle:       title,
		MetaDescription: "açıklama",
		Slug:            slugify.Slug(title),
	}, nil
}

type fakeNotifier struct {
	mu        sync.Mutex
	announced []domain.Blog
	err       error
}

var _ ports.Notifier = (*fakeNotifier)(nil)

func (n *fakeNotifier) AnnouncePublished(_ context.Context, blog domain.Blog) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.announced = append(n.announced, blog)
	return nil
}

// fixture bundles an engine with its fakes.
type fixture struct {
	engine     *Engine
	schedules  *fakeScheduleRepo
	blogs      *fakeBlogRepo
	categories *fakeCategoryRepo
	notifier   *fakeNotifier
	generator  *fakeGenerator
}

var testCategory = domain.Category{ID: 1, Name: "Mimari", Slug: "mimari"}

func newFixture() *fixture {
	f := &fixture{
		schedules:  newFakeScheduleRepo(),
		blogs:      newFakeBlogRepo(),
		categories: newFakeCategoryRepo(testCategory),
		notifier:   &fakeNotifier{},
		generator:  &fakeGenerator{},
	}
	f.blogs.categorySlugs[testCategory.ID] = testCategory.Slug
	f.engine = NewEngine(EngineDeps{
		Schedules:  f.schedules,
		Blogs:      f.blogs,
		Categories: f.categories,
		Generator:  f.generator,
		Notifier:   f.notifier,
	})
	return f
}

func (f *fixture) service() *Service {
	return NewService(f.engine, f.schedules, f.blogs, f.categories, nil)
}
