package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"BlogPublisher/internal/config"
	"BlogPublisher/internal/domain"
	"BlogPublisher/internal/infrastructure/generator"
)

func TestCreateScheduleValidation(t *testing.T) {
	t.Parallel()

	f := newFixture()
	svc := f.service()

	cases := []struct {
		name string
		in   CreateScheduleInput
	}{
		{
			name: "empty title",
			in:   CreateScheduleInput{Title: "   ", CategoryID: testCategory.ID, Cadence: domain.CadenceHourly},
		},
		{
			name: "unknown cadence",
			in:   CreateScheduleInput{Title: "Başlık", CategoryID: testCategory.ID, Cadence: "weekly"},
		},
		{
			name: "manual without scheduledAt",
			in:   CreateScheduleInput{Title: "Başlık", CategoryID: testCategory.ID, Cadence: domain.CadenceManual},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateSchedule(context.Background(), tc.in)
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestCreateScheduleUnknownCategory(t *testing.T) {
	t.Parallel()

	f := newFixture()
	svc := f.service()

	_, err := svc.CreateSchedule(context.Background(), CreateScheduleInput{
		Title: "Başlık", CategoryID: 999, Cadence: domain.CadenceHourly,
	})
	if !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestCreateScheduleTruncatesLongTitle(t *testing.T) {
	t.Parallel()

	f := newFixture()
	svc := f.service()

	long := strings.Repeat("ç", maxTitleRunes+50)
	result, err := svc.CreateSchedule(context.Background(), CreateScheduleInput{
		Title: "  " + long + "  ", CategoryID: testCategory.ID, Cadence: domain.CadenceDaily,
	})
	if err != nil {
		t.Fatalf("CreateSchedule error: %v", err)
	}
	if got := len([]rune(result.Schedule.Title)); got != maxTitleRunes {
		t.Fatalf("expected title capped at %d runes, got %d", maxTitleRunes, got)
	}
}

func TestCreateScheduleNonManualDropsScheduledAt(t *testing.T) {
	t.Parallel()

	f := newFixture()
	svc := f.service()

	at := time.Now().UTC().Add(time.Hour)
	result, err := svc.CreateSchedule(context.Background(), CreateScheduleInput{
		Title: "Saatlik", CategoryID: testCategory.ID, Cadence: domain.CadenceHourly, ScheduledAt: &at,
	})
	if err != nil {
		t.Fatalf("CreateSchedule error: %v", err)
	}
	if result.Schedule.ScheduledAt != nil {
		t.Fatal("hourly schedule should not carry scheduledAt")
	}
}

// Instant cadence publishes synchronously through the full synthesis
// pipeline; no schedule row survives the call.
func TestCreateScheduleInstantPublishes(t *testing.T) {
	t.Parallel()

	f := newFixture()
	tmpl := generator.NewTemplateGenerator(config.GeneratorConfig{MinWords: 800, MaxWords: 1200}, "Blog")
	f.engine.generator = generator.NewFallbackGenerator(nil, tmpl, nil)
	svc := f.service()

	result, err := svc.CreateSchedule(context.Background(), CreateScheduleInput{
		Title: "Enerji Verimliliği", CategoryID: testCategory.ID, Cadence: domain.CadenceInstant,
	})
	if err != nil {
		t.Fatalf("CreateSchedule error: %v", err)
	}
	if result.Schedule != nil {
		t.Fatal("instant cadence must not persist a schedule")
	}
	blog := result.Blog
	if blog == nil {
		t.Fatal("instant cadence must return the published blog")
	}
	if blog.Slug != "enerji-verimliligi" {
		t.Fatalf("unexpected slug: %q", blog.Slug)
	}
	if blog.PublishedAt.IsZero() {
		t.Fatal("published blog has no publication time")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(blog.Content))
	if err != nil {
		t.Fatalf("parse content: %v", err)
	}
	words := 0
	doc.Find("h2, h3, p").Each(func(_ int, sel *goquery.Selection) {
		words += len(strings.Fields(sel.Text()))
	})
	if words < 800 {
		t.Fatalf("expected at least 800 words, got %d", words)
	}

	schedules, err := svc.ListSchedules(context.Background(), "")
	if err != nil {
		t.Fatalf("ListSchedules error: %v", err)
	}
	if len(schedules) != 0 {
		t.Fatalf("expected no stored schedules, got %d", len(schedules))
	}
}

func TestCreateScheduleManualStoresPending(t *testing.T) {
	t.Parallel()

	f := newFixture()
	svc := f.service()

	at := time.Now().UTC().Add(2 * time.Hour)
	result, err := svc.CreateSchedule(context.Background(), CreateScheduleInput{
		Title: "Gelecek Yazı", CategoryID: testCategory.ID, Cadence: domain.CadenceManual, ScheduledAt: &at,
	})
	if err != nil {
		t.Fatalf("CreateSchedule error: %v", err)
	}
	if result.Blog != nil {
		t.Fatal("manual cadence must not publish immediately")
	}
	schedule := result.Schedule
	if schedule == nil || schedule.ID == 0 {
		t.Fatal("manual cadence must persist a schedule")
	}
	if schedule.Status != domain.StatusPending {
		t.Fatalf("expected pending schedule, got %s", schedule.Status)
	}
	if schedule.ScheduledAt == nil || !schedule.ScheduledAt.Equal(at) {
		t.Fatalf("scheduledAt not stored: %v", schedule.ScheduledAt)
	}
	if f.blogs.count() != 0 {
		t.Fatalf("no blogs should exist yet, got %d", f.blogs.count())
	}
}

// ProcessNow ignores the manual time gate: a schedule due hours from now
// still runs immediately.
func TestProcessNowBypassesTimeGate(t *testing.T) {
	t.Parallel()

	f := newFixture()
	svc := f.service()

	future := time.Now().UTC().Add(3 * time.Hour)
	schedule := f.schedules.seed(domain.Schedule{
		Title: "Şimdi Yayınla", CategoryID: testCategory.ID,
		Cadence: domain.CadenceManual, ScheduledAt: &future,
	})

	blog, err := svc.ProcessNow(context.Background(), schedule.ID)
	if err != nil {
		t.Fatalf("ProcessNow error: %v", err)
	}
	if blog == nil || blog.Slug != "simdi-yayinla" {
		t.Fatalf("unexpected blog: %+v", blog)
	}
	if got := f.schedules.get(schedule.ID); got.Status != domain.StatusCompleted {
		t.Fatalf("expected completed schedule, got %s", got.Status)
	}
}

func TestProcessNowNonPending(t *testing.T) {
	t.Parallel()

	f := newFixture()
	svc := f.service()

	schedule := f.schedules.seed(domain.Schedule{
		Title: "Bitti", CategoryID: testCategory.ID,
		Cadence: domain.CadenceHourly, Status: domain.StatusCompleted,
	})

	_, err := svc.ProcessNow(context.Background(), schedule.ID)
	if !errors.Is(err, domain.ErrNotPending) {
		t.Fatalf("expected ErrNotPending, got %v", err)
	}
}

func TestProcessNowUnknownSchedule(t *testing.T) {
	t.Parallel()

	f := newFixture()
	svc := f.service()

	_, err := svc.ProcessNow(context.Background(), 42)
	if !errors.Is(err, domain.ErrScheduleNotFound) {
		t.Fatalf("expected ErrScheduleNotFound, got %v", err)
	}
}

func TestListSchedulesRejectsUnknownStatus(t *testing.T) {
	t.Parallel()

	f := newFixture()
	svc := f.service()

	_, err := svc.ListSchedules(context.Background(), "archived")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestListSchedulesFiltersByStatus(t *testing.T) {
	t.Parallel()

	f := newFixture()
	svc := f.service()

	f.schedules.seed(domain.Schedule{Title: "A", CategoryID: 1, Cadence: domain.CadenceDaily})
	f.schedules.seed(domain.Schedule{Title: "B", CategoryID: 1, Cadence: domain.CadenceDaily, Status: domain.StatusCancelled})

	pending, err := svc.ListSchedules(context.Background(), domain.StatusPending)
	if err != nil {
		t.Fatalf("ListSchedules error: %v", err)
	}
	if len(pending) != 1 || pending[0].Title != "A" {
		t.Fatalf("unexpected pending schedules: %+v", pending)
	}
}

func TestListBlogsPagination(t *testing.T) {
	t.Parallel()

	f := newFixture()
	svc := f.service()

	base := time.Now().UTC()
	for i := 0; i < blogPerPage+3; i++ {
		err := f.blogs.Insert(context.Background(), &domain.Blog{
			CategoryID:  testCategory.ID,
			Title:       "Yazı",
			Slug:        "yazi-" + strings.Repeat("x", i+1),
			Content:     "<p>içerik</p>",
			PublishedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("seed blog %d: %v", i, err)
		}
	}

	first, err := svc.ListBlogs(context.Background(), "", 1)
	if err != nil {
		t.Fatalf("ListBlogs error: %v", err)
	}
	if len(first.Blogs) != blogPerPage {
		t.Fatalf("expected full first page, got %d", len(first.Blogs))
	}
	if first.Total != blogPerPage+3 || first.TotalPages != 2 {
		t.Fatalf("unexpected totals: total=%d pages=%d", first.Total, first.TotalPages)
	}

	second, err := svc.ListBlogs(context.Background(), "", 2)
	if err != nil {
		t.Fatalf("ListBlogs error: %v", err)
	}
	if len(second.Blogs) != 3 {
		t.Fatalf("expected 3 blogs on second page, got %d", len(second.Blogs))
	}
	// Newest first across pages.
	if !first.Blogs[0].PublishedAt.After(second.Blogs[0].PublishedAt) {
		t.Fatal("pages are not ordered newest first")
	}
}
