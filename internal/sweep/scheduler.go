package sweep

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Job is one periodically-run sweep.
type Job struct {
	// Name identifies the job in logs.
	Name string

	// Interval is the cadence the job runs on.
	Interval time.Duration

	// Run performs one pass. It must return before the next tick is
	// due; if it has not, the scheduler skips ticks rather than
	// overlap runs of the same job.
	Run func(ctx context.Context) (Summary, error)
}

// Scheduler drives registered jobs on their cadences. Each job gets
// its own goroutine and ticker; a per-job TryLock guarantees at most
// one in-flight execution per job kind.
type Scheduler struct {
	logger *slog.Logger

	mu      sync.Mutex
	jobs    []Job
	inUse   []*sync.Mutex
	stopCh  chan struct{}
	wg      sync.WaitGroup
	running bool
}

// NewScheduler creates an empty scheduler.
func NewScheduler(logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		logger: logger,
		stopCh: make(chan struct{}),
	}
}

// Register adds a job. Must be called before Start.
func (s *Scheduler) Register(job Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, job)
	s.inUse = append(s.inUse, &sync.Mutex{})
}

// Start launches one goroutine per registered job. Each job runs once
// immediately, then on its ticker.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	jobs := make([]Job, len(s.jobs))
	copy(jobs, s.jobs)
	s.mu.Unlock()

	for i, job := range jobs {
		s.wg.Add(1)
		go s.runJob(ctx, job, s.inUse[i])
	}
}

// Stop halts all job goroutines and waits for in-flight runs to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	close(s.stopCh)
	s.running = false
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *Scheduler) runJob(ctx context.Context, job Job, guard *sync.Mutex) {
	defer s.wg.Done()

	interval := job.Interval
	if interval <= 0 {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.fire(ctx, job, guard)

	for {
		select {
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.fire(ctx, job, guard)
		}
	}
}

// fire runs one pass of a job unless the previous pass is still going,
// in which case the tick is dropped.
func (s *Scheduler) fire(ctx context.Context, job Job, guard *sync.Mutex) {
	if !guard.TryLock() {
		s.logger.Warn("sweep still running, skipping tick", "job", job.Name)
		return
	}
	defer guard.Unlock()

	started := time.Now()
	summary, err := job.Run(ctx)
	if err != nil {
		s.logger.Error("sweep failed", "job", job.Name, "error", err)
		return
	}

	s.logger.Info("sweep finished",
		"job", job.Name,
		"evaluated", summary.Evaluated,
		"emitted", summary.Emitted,
		"errors", len(summary.Errors),
		"elapsed", time.Since(started),
	)
	for _, e := range summary.Errors {
		s.logger.Warn("sweep candidate skipped", "job", job.Name, "error", e)
	}
}
