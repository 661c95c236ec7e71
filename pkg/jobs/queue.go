package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Job is one unit of work submitted to a Queue. IDs must be unique within a run.
type Job struct {
	ID       string
	Type     string
	Payload  interface{}
	Enqueued time.Time
}

// Result carries the handler output for one job.
type Result struct {
	Job      Job
	Value    interface{}
	Err      error
	Duration time.Duration
}

// Handler processes a job and returns its value.
type Handler func(context.Context, Job) (interface{}, error)

// QueueConfig configures worker pool behaviour.
type QueueConfig struct {
	Workers    int
	BufferSize int
	Logger     *zap.Logger
}

// Queue fans jobs out to a fixed set of goroutines and streams their results back.
type Queue struct {
	name    string
	handler Handler
	workers int
	logger  *zap.Logger

	jobs    chan Job
	results chan Result
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
	closed  bool
}

// NewQueue builds a new queue with the provided handler.
func NewQueue(name string, handler Handler, cfg QueueConfig) *Queue {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = cfg.Workers * 4
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Queue{
		name:    name,
		handler: handler,
		workers: cfg.Workers,
		logger:  cfg.Logger,
		jobs:    make(chan Job, cfg.BufferSize),
		results: make(chan Result, cfg.BufferSize),
	}
}

// Start launches the workers. Safe to call once.
func (q *Queue) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started {
		return
	}
	q.ctx, q.cancel = context.WithCancel(ctx)
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(i + 1)
	}
	q.started = true
	q.logger.Debug("queue started", zap.String("queue", q.name), zap.Int("workers", q.workers))
}

// Enqueue pushes a job onto the queue.
func (q *Queue) Enqueue(job Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.started {
		return fmt.Errorf("queue %s not started", q.name)
	}
	if q.closed {
		return fmt.Errorf("queue %s closed", q.name)
	}
	if job.Enqueued.IsZero() {
		job.Enqueued = time.Now().UTC()
	}

	select {
	case <-q.ctx.Done():
		return fmt.Errorf("queue %s stopped: %w", q.name, q.ctx.Err())
	case q.jobs <- job:
		return nil
	}
}

// Results streams finished jobs. The channel closes once Close was called and every worker exited.
func (q *Queue) Results() <-chan Result {
	return q.results
}

// Close stops accepting jobs. Workers drain what is already queued.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.jobs)
	cancel := q.cancel
	q.mu.Unlock()

	go func() {
		q.wg.Wait()
		if cancel != nil {
			cancel()
		}
		close(q.results)
		q.logger.Debug("queue drained", zap.String("queue", q.name))
	}()
}

func (q *Queue) worker(workerID int) {
	defer q.wg.Done()
	for {
		select {
		case <-q.ctx.Done():
			return
		case job, ok := <-q.jobs:
			if !ok {
				return
			}
			start := time.Now()
			value, err := q.handler(q.ctx, job)
			result := Result{Job: job, Value: value, Err: err, Duration: time.Since(start)}
			if err != nil {
				q.logger.Warn("job failed", zap.String("queue", q.name), zap.Int("worker", workerID), zap.String("job_id", job.ID), zap.String("type", job.Type), zap.Error(err))
			}
			select {
			case <-q.ctx.Done():
				return
			case q.results <- result:
			}
		}
	}
}

// RunAll executes every job on a fresh queue and returns results in input order.
// Jobs that never ran because ctx ended carry the context error.
func RunAll(ctx context.Context, name string, jobs []Job, handler Handler, cfg QueueConfig) []Result {
	q := NewQueue(name, handler, cfg)
	q.Start(ctx)

	go func() {
		defer q.Close()
		for _, job := range jobs {
			if err := q.Enqueue(job); err != nil {
				q.logger.Warn("enqueue aborted", zap.String("queue", name), zap.String("job_id", job.ID), zap.Error(err))
				return
			}
		}
	}()

	position := make(map[string]int, len(jobs))
	for i, job := range jobs {
		position[job.ID] = i
	}
	results := make([]Result, len(jobs))
	done := make([]bool, len(jobs))
	for res := range q.Results() {
		i := position[res.Job.ID]
		results[i] = res
		done[i] = true
	}

	for i := range results {
		if done[i] {
			continue
		}
		err := ctx.Err()
		if err == nil {
			err = fmt.Errorf("job %s did not run", jobs[i].ID)
		}
		results[i] = Result{Job: jobs[i], Err: err}
	}
	return results
}
