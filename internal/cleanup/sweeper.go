// Package cleanup runs the scheduled store hygiene sweeps: expired
// challenges and tokens, stale rate limit buckets, and audit rows past
// their retention.
package cleanup

import (
	"context"
	"fmt"
	"log"
	"time"

	"teamplan/internal/repository"

	"github.com/robfig/cron/v3"
)

// Task is one named sweep
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Sweeper schedules and executes the registered sweeps
type Sweeper struct {
	schedule string
	tasks    []Task
	cron     *cron.Cron
}

// NewSweeper creates a sweeper that runs its tasks on the given cron
// schedule
func NewSweeper(schedule string) *Sweeper {
	c := cron.New(cron.WithParser(cron.NewParser(
		cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow,
	)))

	return &Sweeper{
		schedule: schedule,
		cron:     c,
	}
}

// Register adds a sweep task
func (s *Sweeper) Register(name string, run func(ctx context.Context) error) {
	s.tasks = append(s.tasks, Task{Name: name, Run: run})
}

// RunOnce executes every registered task once. Individual task failures
// are logged; the first error is returned after all tasks have run.
func (s *Sweeper) RunOnce(ctx context.Context) error {
	var firstErr error
	for _, task := range s.tasks {
		if err := task.Run(ctx); err != nil {
			log.Printf("Sweep %s failed: %v", task.Name, err)
			if firstErr == nil {
				firstErr = fmt.Errorf("sweep %s: %w", task.Name, err)
			}
		}
	}
	return firstErr
}

// Start schedules the sweeps and blocks until the context is cancelled
func (s *Sweeper) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		if err := s.RunOnce(ctx); err != nil {
			log.Printf("Error running sweeps: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule sweeps: %w", err)
	}

	s.cron.Start()
	log.Printf("Cleanup sweeper started with schedule %s", s.schedule)

	<-ctx.Done()
	log.Println("Stopping cleanup sweeper...")
	s.cron.Stop()

	return nil
}

// NewStoreSweeper wires the standard sweeps over the given stores.
// bucketRetention should cover the longest configured limit window so no
// live bucket is ever removed.
func NewStoreSweeper(
	schedule string,
	challenges repository.ChallengeRepository,
	tokens repository.OperationTokenRepository,
	buckets repository.RateLimitRepository,
	audit repository.AuditLogRepository,
	bucketRetention time.Duration,
	auditRetention time.Duration,
) *Sweeper {
	s := NewSweeper(schedule)

	s.Register("expired-challenges", func(ctx context.Context) error {
		n, err := challenges.DeleteExpired(ctx, time.Now())
		if err != nil {
			return err
		}
		if n > 0 {
			log.Printf("Removed %d expired challenges", n)
		}
		return nil
	})

	s.Register("expired-tokens", func(ctx context.Context) error {
		n, err := tokens.DeleteExpired(ctx, time.Now())
		if err != nil {
			return err
		}
		if n > 0 {
			log.Printf("Removed %d expired operation tokens", n)
		}
		return nil
	})

	s.Register("stale-rate-buckets", func(ctx context.Context) error {
		n, err := buckets.DeleteBefore(ctx, time.Now().Add(-bucketRetention))
		if err != nil {
			return err
		}
		if n > 0 {
			log.Printf("Removed %d stale rate limit buckets", n)
		}
		return nil
	})

	s.Register("audit-retention", func(ctx context.Context) error {
		return audit.CleanupOld(ctx, auditRetention)
	})

	return s
}
