// Package scheduler adapts robfig/cron as the driver behind the periodic
// trigger entrypoints.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"BlogPublisher/internal/ports"
)

// CronScheduler drives registered jobs on standard five-field cron specs in
// a configured location.
type CronScheduler struct {
	c *cron.Cron
}

var _ ports.Scheduler = (*CronScheduler)(nil)

// NewCronScheduler builds an idle scheduler; jobs fire only after Start.
func NewCronScheduler(loc *time.Location) *CronScheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &CronScheduler{
		c: cron.New(cron.WithLocation(loc)),
	}
}

// Add registers a job under the given cron spec.
func (s *CronScheduler) Add(spec string, job func(time.Time)) error {
	if job == nil {
		return nil
	}
	if _, err := s.c.AddFunc(spec, func() { job(time.Now()) }); err != nil {
		return fmt.Errorf("add cron job %q: %w", spec, err)
	}
	return nil
}

// Start begins firing registered jobs.
func (s *CronScheduler) Start(ctx context.Context) error {
	s.c.Start()
	return nil
}

// Stop halts scheduling and waits for running jobs, bounded by ctx.
func (s *CronScheduler) Stop(ctx context.Context) error {
	done := s.c.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
