package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"BlogPublisher/internal/config"
	"BlogPublisher/internal/infrastructure/generator"
	"BlogPublisher/internal/infrastructure/scheduler"
	"BlogPublisher/internal/infrastructure/storage"
	"BlogPublisher/internal/infrastructure/telegram"
	"BlogPublisher/internal/logging"
	"BlogPublisher/internal/ports"
	"BlogPublisher/internal/usecase"
)

// shutdownTimeout bounds how long Run waits for in-flight trigger jobs
// after ctx is cancelled.
const shutdownTimeout = 30 * time.Second

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	db        *storage.DB
	service   *usecase.Service
	scheduler *usecase.Scheduler
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	db, err := storage.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	schedules := storage.NewScheduleRepository(db)
	blogs := storage.NewBlogRepository(db)
	categories := storage.NewCategoryRepository(db)

	var primary ports.ContentGenerator
	if cfg.OpenAI.APIKey != "" {
		primary = generator.NewOpenAIGenerator(cfg.OpenAI, cfg.Generator)
	}
	gen := generator.NewFallbackGenerator(
		primary,
		generator.NewTemplateGenerator(cfg.Generator, cfg.Site.Name),
		baseLogger.With("component", "generator"),
	)

	var notifier ports.Notifier
	if tg := cfg.Notifications.Telegram; tg.BotToken != "" && tg.ChatID != "" {
		notifier = telegram.NewNotifier(tg.BotToken, tg.ChatID)
	}

	engine := usecase.NewEngine(usecase.EngineDeps{
		Schedules:  schedules,
		Blogs:      blogs,
		Categories: categories,
		Generator:  gen,
		Notifier:   notifier,
		Logger:     baseLogger.With("component", "engine"),
	})

	service := usecase.NewService(engine, schedules, blogs, categories,
		baseLogger.With("component", "service"))

	driver := scheduler.NewCronScheduler(cfg.Scheduler.Location())
	sched := usecase.NewScheduler(driver, engine, usecase.TriggerSpecs{
		Manual: cfg.Scheduler.ManualSpec,
		Hourly: cfg.Scheduler.HourlySpec,
		Daily:  cfg.Scheduler.DailySpec,
	})

	return &Application{
		cfg:       cfg,
		logger:    baseLogger,
		db:        db,
		service:   service,
		scheduler: sched,
	}, nil
}

// Service exposes the boundary operations to whatever transport hosts the
// application.
func (a *Application) Service() *usecase.Service {
	return a.service
}

// Run starts the periodic triggers and blocks until ctx is cancelled.
func (a *Application) Run(ctx context.Context) error {
	if err := a.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	a.logger.Info("publication scheduler started",
		"manual", a.cfg.Scheduler.ManualSpec,
		"hourly", a.cfg.Scheduler.HourlySpec,
		"daily", a.cfg.Scheduler.DailySpec)

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.scheduler.Stop(stopCtx); err != nil {
		a.logger.Warn("scheduler stop", "error", err)
	}
	return a.db.Close()
}
