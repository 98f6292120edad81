// Package worker runs queued analysis jobs and records their outcome.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/okian/skillgap/internal/adapters/mq/queue"
	"github.com/okian/skillgap/internal/domain/model"
	"github.com/okian/skillgap/pkg/logger"
	"github.com/okian/skillgap/pkg/metrics"
)

const (
	defaultWorkerMultiplier = 2 // analysis is CPU bound
	poolShutdownTimeout     = 30 * time.Second
)

// Analyzer runs the analysis pipeline for a job.
type Analyzer interface {
	AnalyzeJob(ctx context.Context, job model.AnalysisJob) (model.RecommendationBundle, error)
}

// ResultWriter stores analysis records.
type ResultWriter interface {
	Put(ctx context.Context, rec model.AnalysisRecord) error
}

// ReadinessWriter records a learner's readiness for a role.
type ReadinessWriter interface {
	Upsert(ctx context.Context, role, learnerID string, readiness int) error
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// Worker processes jobs until stopped.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)
	// Shutdown stops the worker after its current job.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue     Queue
	analyzer  Analyzer
	results   ResultWriter
	readiness ReadinessWriter
	name      string
	now       func() time.Time
	busy      *atomic.Int64 // shared by a pool, may be nil

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker. readiness may be nil.
func NewInMemoryWorker(q Queue, a Analyzer, results ResultWriter, readiness ReadinessWriter, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:     q,
		analyzer:  a,
		results:   results,
		readiness: readiness,
		name:      "worker",
		now:       time.Now,
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			if err := w.process(ctx, job); err != nil {
				w.logger.Error(ctx, "error processing job",
					logger.String("request_id", job.RequestID),
					logger.Error(err),
				)
			}
		}
	}
}

// Shutdown stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	select {
	case <-w.shutdown:
	default:
		close(w.shutdown)
	}
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// process analyzes a job and stores its record. A failed analysis is stored
// as a failed record; only storage errors are returned.
func (w *InMemoryWorker) process(ctx context.Context, job queue.Job) error { //nolint:gocritic // hugeParam: jobs travel by value
	if w.busy != nil {
		metrics.UpdateWorkerActiveCount(int(w.busy.Add(1)))
		defer func() { metrics.UpdateWorkerActiveCount(int(w.busy.Add(-1))) }()
	}
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	bundle, err := w.analyzer.AnalyzeJob(ctx, job)
	completed := w.now()
	rec := model.AnalysisRecord{
		RequestID:   job.RequestID,
		LearnerID:   job.LearnerID,
		RoleName:    job.TargetRole(),
		SubmittedAt: job.SubmittedAt,
		CompletedAt: &completed,
	}

	if err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", errorType(err))
		w.logger.Warn(ctx, "analysis failed",
			logger.String("request_id", job.RequestID),
			logger.String("role", rec.RoleName),
			logger.Error(err),
		)
		rec.Status = model.StatusFailed
		rec.Error = err.Error()
	} else {
		rec.Status = model.StatusDone
		rec.RoleName = bundle.RoleName
		rec.Bundle = &bundle
	}

	if err := w.results.Put(ctx, rec); err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "result_store")
		return fmt.Errorf("store result %s: %w", job.RequestID, err)
	}

	if rec.Status == model.StatusDone && job.LearnerID != "" && w.readiness != nil {
		if err := w.readiness.Upsert(ctx, bundle.RoleName, job.LearnerID, bundle.Readiness); err != nil {
			metrics.RecordWorkerError()
			metrics.RecordErrorByComponent("worker", "readiness_store")
			return fmt.Errorf("update readiness %s: %w", job.LearnerID, err)
		}
	}
	return nil
}

func errorType(err error) string {
	switch {
	case model.IsInvalidInput(err):
		return metrics.OutcomeInvalidInput
	case model.IsInternalInvariant(err):
		return metrics.OutcomeInternalInvariant
	default:
		return "analysis_failed"
	}
}

// Pool manages multiple workers.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	busy    atomic.Int64
	logger  logger.Logger
}

// NewPool creates a worker pool. workerCount < 1 selects a multiple of NumCPU.
func NewPool(workerCount int, q Queue, a Analyzer, results ResultWriter, readiness ReadinessWriter, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}
	p := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := range p.workers {
		wopts := append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)
		w := NewInMemoryWorker(q, a, results, readiness, wopts...)
		w.busy = &p.busy
		p.workers[i] = w
	}

	metrics.UpdateWorkerCount(workerCount)
	metrics.UpdateWorkerActiveCount(0)
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Active returns the number of workers currently processing a job.
func (p *Pool) Active() int { return int(p.busy.Load()) }

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Shutdown closes the queue, lets workers drain it, and waits for them.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	var timedOut bool
	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			timedOut = true
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	if timedOut {
		return fmt.Errorf("worker pool shutdown: %w", shutdownCtx.Err())
	}
	return nil
}
