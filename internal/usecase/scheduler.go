package usecase

import (
	"context"
	"fmt"
	"time"

	"BlogPublisher/internal/ports"
)

// TriggerSpecs carries the cron expressions for the three periodic
// entrypoints, one per non-instant cadence.
type TriggerSpecs struct {
	Manual string
	Hourly string
	Daily  string
}

// Scheduler wires the cron-like driver to the engine's trigger entrypoints.
// Every entrypoint is idempotent per invocation window thanks to the claim
// primitive, so overlapping or repeated firings are harmless.
type Scheduler struct {
	driver ports.Scheduler
	engine *Engine
	specs  TriggerSpecs
}

// NewScheduler returns a helper to start/stop the periodic triggers.
func NewScheduler(driver ports.Scheduler, engine *Engine, specs TriggerSpecs) *Scheduler {
	return &Scheduler{driver: driver, engine: engine, specs: specs}
}

// Start registers the per-cadence jobs and starts the driver.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.engine == nil {
		return nil
	}

	jobs := []struct {
		name string
		spec string
		run  func(context.Context)
	}{
		{"manual", s.specs.Manual, s.engine.ProcessDueManual},
		{"hourly", s.specs.Hourly, s.engine.ProcessNextHourly},
		{"daily", s.specs.Daily, s.engine.ProcessNextDaily},
	}

	for _, job := range jobs {
		run := job.run
		if err := s.driver.Add(job.spec, func(time.Time) { run(ctx) }); err != nil {
			return fmt.Errorf("register %s trigger: %w", job.name, err)
		}
	}

	return s.driver.Start(ctx)
}

// Stop gracefully tears down the underlying driver.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}
	return s.driver.Stop(ctx)
}
