package analyzer

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/anime-shed/palette-inspector-go/internal/logger"
	"github.com/sirupsen/logrus"
)

// PoolStats is a point-in-time view of worker pool activity
type PoolStats struct {
	Workers       int   `json:"workers"`
	TotalJobs     int64 `json:"total_jobs"`
	CompletedJobs int64 `json:"completed_jobs"`
	FailedJobs    int64 `json:"failed_jobs"`
	ActiveWorkers int64 `json:"active_workers"`
	QueuedJobs    int   `json:"queued_jobs"`
}

// WorkerPool bounds the number of extractions running at once
type WorkerPool struct {
	workers  int
	jobQueue chan func()
	wg       sync.WaitGroup
	once     sync.Once

	mu     sync.RWMutex
	closed bool

	totalJobs     atomic.Int64
	completedJobs atomic.Int64
	failedJobs    atomic.Int64
	activeWorkers atomic.Int64
}

// NewWorkerPool creates a new worker pool with the specified number of workers
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	return &WorkerPool{
		workers:  workers,
		jobQueue: make(chan func(), workers*2),
	}
}

// Start initializes and starts all workers in the pool
func (wp *WorkerPool) Start() {
	wp.once.Do(func() {
		for i := 0; i < wp.workers; i++ {
			go wp.worker(i)
		}
	})
}

func (wp *WorkerPool) worker(id int) {
	for job := range wp.jobQueue {
		wp.run(id, job)
	}
}

func (wp *WorkerPool) run(id int, job func()) {
	wp.activeWorkers.Add(1)
	defer func() {
		if r := recover(); r != nil {
			wp.failedJobs.Add(1)
			logger.WithFields(logrus.Fields{
				"worker": id,
				"panic":  r,
			}).Error("Worker job panicked")
		}
		wp.activeWorkers.Add(-1)
		wp.completedJobs.Add(1)
		wp.wg.Done()
	}()
	job()
}

// Submit adds a job to the queue, blocking while the queue is full. It
// reports false once the pool is closed.
func (wp *WorkerPool) Submit(job func()) bool {
	return wp.SubmitContext(context.Background(), job)
}

// SubmitContext is Submit that gives up when ctx is done before the job
// could be queued.
func (wp *WorkerPool) SubmitContext(ctx context.Context, job func()) bool {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	if wp.closed {
		return false
	}

	wp.wg.Add(1)
	select {
	case wp.jobQueue <- job:
		wp.totalJobs.Add(1)
		return true
	case <-ctx.Done():
		wp.wg.Done()
		return false
	}
}

// Wait waits for all submitted jobs to complete
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

// GetStats returns current counters
func (wp *WorkerPool) GetStats() PoolStats {
	return PoolStats{
		Workers:       wp.workers,
		TotalJobs:     wp.totalJobs.Load(),
		CompletedJobs: wp.completedJobs.Load(),
		FailedJobs:    wp.failedJobs.Load(),
		ActiveWorkers: wp.activeWorkers.Load(),
		QueuedJobs:    len(wp.jobQueue),
	}
}

// Close stops accepting jobs and lets workers drain the queue. Safe to call
// more than once.
func (wp *WorkerPool) Close() {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if wp.closed {
		return
	}
	wp.closed = true
	close(wp.jobQueue)
}
