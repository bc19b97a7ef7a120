// Package scheduler wraps robfig/cron for the twice-daily pipeline trigger.
// Jobs run on the cron goroutine with overlap suppression, so two scheduled
// runs can never execute concurrently.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"twitterai/pkg/logger"
)

// Job is a scheduled task
type Job func(ctx context.Context) error

// jobTimeout bounds a single run; a wedged run must not block the next
// trigger forever.
const jobTimeout = 30 * time.Minute

// Scheduler manages the periodic pipeline runs
type Scheduler struct {
	cron   *cron.Cron
	jobs   map[string]cron.EntryID
	logger logger.Logger
}

// New creates a scheduler in the given timezone. "Local" follows the host.
func New(timezone string, log logger.Logger) (*Scheduler, error) {
	if log == nil {
		log = logger.Get()
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %s: %w", timezone, err)
	}

	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)

	return &Scheduler{
		cron:   c,
		jobs:   make(map[string]cron.EntryID),
		logger: log,
	}, nil
}

// AddJob registers a job under a standard 5-field cron schedule
func (s *Scheduler) AddJob(name, schedule string, job Job) error {
	entryID, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		start := time.Now()
		s.logger.InfoWithFields("starting scheduled job", map[string]interface{}{
			"job": name,
		})

		if err := job(ctx); err != nil {
			s.logger.ErrorWithFields("scheduled job failed", map[string]interface{}{
				"job":   name,
				"error": err.Error(),
			})
			return
		}

		s.logger.InfoWithFields("scheduled job completed", map[string]interface{}{
			"job":      name,
			"duration": time.Since(start).Round(time.Second).String(),
		})
	})
	if err != nil {
		return fmt.Errorf("failed to schedule job %s: %w", name, err)
	}

	s.jobs[name] = entryID
	s.logger.InfoWithFields("added job", map[string]interface{}{
		"job":      name,
		"schedule": schedule,
	})
	return nil
}

// Start begins running scheduled jobs
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and returns a context that closes once any running
// job finishes.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// NextRun returns the next scheduled time for a named job
func (s *Scheduler) NextRun(name string) (time.Time, bool) {
	entryID, ok := s.jobs[name]
	if !ok {
		return time.Time{}, false
	}
	entry := s.cron.Entry(entryID)
	return entry.Next, !entry.Next.IsZero()
}
