package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sjperalta/feedesk-api/pkg/logger"
)

// Job represents a background task
type Job func(ctx context.Context) error

// Worker manages background jobs and scheduled tasks. Receipt archiving and
// emailing run here so a download never waits on disk or the mail provider.
type Worker struct {
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
	async         sync.WaitGroup
	queue         chan namedJob
	asyncSem      chan struct{}
	maxConcurrent int
	stats         WorkerStats
	statsMu       sync.RWMutex
	closeOnce     sync.Once
}

type namedJob struct {
	name string
	run  Job
}

// WorkerStats holds statistics about the worker.
// CompletedJobs counts every finished job; FailedJobs is the subset that
// returned an error or panicked.
type WorkerStats struct {
	ActiveJobs    int   `json:"active_jobs"`
	CompletedJobs int64 `json:"completed_jobs"`
	FailedJobs    int64 `json:"failed_jobs"`
	QueueLength   int   `json:"queue_length"`
	MaxConcurrent int   `json:"max_concurrent"`
}

// NewWorker creates a worker with N concurrent processors
func NewWorker(numWorkers int) *Worker {
	if numWorkers < 1 {
		numWorkers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	// Allow 2x workers for async jobs
	asyncLimit := numWorkers * 2
	if asyncLimit < 10 {
		asyncLimit = 10
	}

	w := &Worker{
		ctx:           ctx,
		cancel:        cancel,
		queue:         make(chan namedJob, 100),
		asyncSem:      make(chan struct{}, asyncLimit),
		maxConcurrent: asyncLimit,
	}

	for i := 0; i < numWorkers; i++ {
		w.wg.Add(1)
		go w.process(i)
	}

	return w
}

// Enqueue adds a job to be processed by the worker pool. When the queue is
// full the job runs on the caller's goroutine.
func (w *Worker) Enqueue(name string, job Job) {
	select {
	case w.queue <- namedJob{name: name, run: job}:
	default:
		logger.Warn("Worker queue full, running job synchronously", slog.String("job", name))
		w.run("worker", namedJob{name: name, run: job})
	}
}

// EnqueueAsync runs a job in a new goroutine (fire-and-forget), bounded by semaphore
func (w *Worker) EnqueueAsync(name string, job Job) {
	// Registered before the goroutine starts so Wait and Shutdown always see it.
	w.async.Add(1)
	go func() {
		defer w.async.Done()

		w.asyncSem <- struct{}{}
		defer func() { <-w.asyncSem }()

		w.run("async", namedJob{name: name, run: job})
	}()
}

// process handles jobs from the queue
func (w *Worker) process(workerID int) {
	defer w.wg.Done()
	source := fmt.Sprintf("worker-%d", workerID)
	for {
		select {
		case <-w.ctx.Done():
			return
		case job, ok := <-w.queue:
			if !ok {
				return
			}
			w.run(source, job)
		}
	}
}

// ScheduleEvery runs a job at fixed intervals. The first run happens after the interval (not at startup).
func (w *Worker) ScheduleEvery(name string, interval time.Duration, job Job) {
	w.schedule(name, interval, job, false)
}

// ScheduleEveryImmediate runs a job once at startup, then at fixed intervals, so a
// restarted process does not wait a whole interval before the first run.
func (w *Worker) ScheduleEveryImmediate(name string, interval time.Duration, job Job) {
	w.schedule(name, interval, job, true)
}

func (w *Worker) schedule(name string, interval time.Duration, job Job, immediate bool) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		nj := namedJob{name: name, run: job}
		if immediate {
			w.run("scheduler", nj)
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-w.ctx.Done():
				return
			case <-ticker.C:
				w.run("scheduler", nj)
			}
		}
	}()
}

// run executes one job, recording stats and recovering from panics.
func (w *Worker) run(source string, job namedJob) {
	w.trackJobStart()
	start := time.Now()
	failed := false

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panic", slog.String("source", source), slog.String("job", job.name), slog.Any("panic", r))
			failed = true
		}
		w.trackJobEnd(failed)
	}()

	if err := job.run(w.ctx); err != nil {
		failed = true
		logger.Error("Job failed", slog.String("source", source), slog.String("job", job.name), slog.String("error", err.Error()))
		return
	}
	logger.Debug("Job completed", slog.String("source", source), slog.String("job", job.name), slog.Duration("elapsed", time.Since(start)))
}

// Shutdown gracefully stops all workers and waits for in-flight jobs
func (w *Worker) Shutdown() {
	w.closeOnce.Do(func() {
		w.cancel()
		close(w.queue)
	})
	w.wg.Wait()
	w.async.Wait()
}

// Wait blocks until every async job enqueued so far has finished.
func (w *Worker) Wait() {
	w.async.Wait()
}

// Context returns the worker's context for checking cancellation
func (w *Worker) Context() context.Context {
	return w.ctx
}

// GetStats returns the current worker statistics
func (w *Worker) GetStats() WorkerStats {
	w.statsMu.RLock()
	defer w.statsMu.RUnlock()
	stats := w.stats
	stats.QueueLength = len(w.queue)
	stats.MaxConcurrent = w.maxConcurrent
	return stats
}

func (w *Worker) trackJobStart() {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	w.stats.ActiveJobs++
}

func (w *Worker) trackJobEnd(failed bool) {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	w.stats.ActiveJobs--
	w.stats.CompletedJobs++
	if failed {
		w.stats.FailedJobs++
	}
}
