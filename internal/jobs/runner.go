package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is a unit of background work
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// RunnerConfig holds configuration for the job runner
type RunnerConfig struct {
	Logger  *slog.Logger
	Timeout time.Duration // per run. Default: 2m
}

// Runner executes jobs on cron schedules. Overlapping runs of the same job
// are skipped, and a failed run is logged without stopping the schedule.
type Runner struct {
	cron    *cron.Cron
	logger  *slog.Logger
	timeout time.Duration

	mu      sync.Mutex
	running bool
}

// NewRunner creates a new job runner
func NewRunner(cfg RunnerConfig) *Runner {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 2 * time.Minute
	}
	return &Runner{
		cron: cron.New(cron.WithChain(
			cron.Recover(cron.DiscardLogger),
			cron.SkipIfStillRunning(cron.DiscardLogger),
		)),
		logger:  cfg.Logger,
		timeout: cfg.Timeout,
	}
}

// Schedule registers job under a standard five-field cron spec or a
// descriptor such as "@hourly"
func (r *Runner) Schedule(spec string, job Job) error {
	_, err := r.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		_ = r.RunNow(ctx, job)
	})
	if err != nil {
		return err
	}
	r.logger.Info("job scheduled", slog.String("job", job.Name()), slog.String("spec", spec))
	return nil
}

// RunNow runs job once in the caller's goroutine and logs the outcome
func (r *Runner) RunNow(ctx context.Context, job Job) error {
	start := time.Now()
	err := job.Run(ctx)
	if err != nil {
		r.logger.Error("job failed",
			slog.String("job", job.Name()),
			slog.Duration("duration", time.Since(start)),
			slog.String("error", err.Error()))
		return err
	}
	r.logger.Info("job completed",
		slog.String("job", job.Name()),
		slog.Duration("duration", time.Since(start)))
	return nil
}

// Start begins running scheduled jobs
func (r *Runner) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return
	}
	r.running = true
	r.cron.Start()
	r.logger.Info("job runner started", slog.Int("jobs", len(r.cron.Entries())))
}

// Stop halts the schedule and waits for in-flight runs to finish
func (r *Runner) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	r.mu.Unlock()

	<-r.cron.Stop().Done()
	r.logger.Info("job runner stopped")
}

// IsRunning returns whether the runner is started
func (r *Runner) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}
