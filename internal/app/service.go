// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the analysis workers.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/okian/skillgap/internal/adapters/catalog"
	"github.com/okian/skillgap/internal/adapters/mq/queue"
	"github.com/okian/skillgap/internal/adapters/mq/worker"
	"github.com/okian/skillgap/internal/adapters/repository"
	"github.com/okian/skillgap/internal/domain/analyzer"
	"github.com/okian/skillgap/internal/domain/dedupe"
	"github.com/okian/skillgap/internal/domain/model"
	"github.com/okian/skillgap/internal/domain/normalize"
	"github.com/okian/skillgap/internal/domain/scoring"
	"github.com/okian/skillgap/internal/domain/types"
	"github.com/okian/skillgap/pkg/logger"
	"github.com/okian/skillgap/pkg/metrics"
)

const (
	defaultQueueSize        = 10_000
	defaultDedupeSize       = 50_000
	defaultResultCapacity   = 10_000
	defaultBatchConcurrency = 4
	stopTimeout             = 30 * time.Second
)

// ErrNotStarted is returned by Submit before Start or after Stop.
var ErrNotStarted = errors.New("service not started")

// Service implements the API dependencies for the skill gap analyzer.
type Service struct {
	mu sync.RWMutex
	// submitMu orders the duplicate check before the pending write.
	submitMu sync.Mutex

	// Core components
	catalog   *catalog.Catalog
	results   repository.ResultStore
	readiness repository.ReadinessStore
	deduper   dedupe.Deduper
	jobs      queue.Queue
	pool      *worker.Pool

	// Configuration
	workerCount      int
	queueSize        int
	dedupeSize       int
	resultCapacity   int
	batchConcurrency int

	// State
	started bool
	now     func() time.Time

	logger logger.Logger
}

// New constructs a Service. Without WithCatalog the built-in catalog is used.
func New(opts ...Option) (*Service, error) {
	s := &Service{
		workerCount:      runtime.NumCPU() * 2,
		queueSize:        defaultQueueSize,
		dedupeSize:       defaultDedupeSize,
		resultCapacity:   defaultResultCapacity,
		batchConcurrency: defaultBatchConcurrency,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.catalog == nil {
		c, err := catalog.Builtin()
		if err != nil {
			return nil, fmt.Errorf("load built-in catalog: %w", err)
		}
		s.catalog = c
	}

	s.results = repository.NewMemoryResultStore(repository.WithCapacity(s.resultCapacity))
	s.readiness = repository.NewReadinessIndex()
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	return s, nil
}

// Start creates the queue and starts the worker pool.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.logger.Info(ctx, "starting skill gap service...")

	s.jobs = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.jobs, s, s.results, s.readiness,
		worker.WithLogger(s.logger.Named("worker")))
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "skill gap service started",
		logger.Int("workers", s.pool.Size()),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Int("roles", s.catalog.Len()),
	)
	return nil
}

// Stop closes the queue and waits for the workers to drain it.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()

	s.logger.Info(ctx, "stopping skill gap service...")
	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Error(ctx, "worker pool shutdown failed", logger.Error(err))
	}

	s.started = false
	s.logger.Info(ctx, "skill gap service stopped")
}

// role resolves the role a job targets: the inline profile, else the catalog entry.
func (s *Service) role(job *model.AnalysisJob) (model.RoleProfile, error) {
	if job.Role != nil {
		return *job.Role, nil
	}
	return s.catalog.Get(job.RoleName)
}

// AnalyzeJob runs the analysis pipeline for job. It implements worker.Analyzer.
func (s *Service) AnalyzeJob(ctx context.Context, job model.AnalysisJob) (model.RecommendationBundle, error) { //nolint:gocritic // hugeParam: jobs travel by value
	const op = "analyze"
	start := time.Now()

	if err := ctx.Err(); err != nil {
		s.observe(ctx, op, start, nil, err)
		return model.RecommendationBundle{}, err
	}
	role, err := s.role(&job)
	if err != nil {
		s.observe(ctx, op, start, nil, err)
		return model.RecommendationBundle{}, err
	}

	bundle, err := analyzer.Analyze(job.Skills, role)
	s.observe(ctx, op, start, &bundle, err)
	return bundle, err
}

// Analyze runs a synchronous analysis. A job with a learner ID updates the
// learner's readiness for the role.
func (s *Service) Analyze(ctx context.Context, job model.AnalysisJob) (model.RecommendationBundle, error) { //nolint:gocritic // hugeParam: jobs travel by value
	bundle, err := s.AnalyzeJob(ctx, job)
	if err != nil {
		return model.RecommendationBundle{}, err
	}
	s.recordReadiness(ctx, job.LearnerID, &bundle)
	return bundle, nil
}

// AnalyzeBatch evaluates one learner against the named catalog roles followed
// by the inline roles. An unknown role name fails the whole batch.
func (s *Service) AnalyzeBatch(ctx context.Context, job model.BatchJob) ([]analyzer.BatchResult, error) {
	const op = "analyze_batch"
	start := time.Now()

	roles := make([]model.RoleProfile, 0, len(job.RoleNames)+len(job.Roles))
	for _, name := range job.RoleNames {
		r, err := s.catalog.Get(name)
		if err != nil {
			s.observe(ctx, op, start, nil, err)
			return nil, err
		}
		roles = append(roles, r)
	}
	roles = append(roles, job.Roles...)
	metrics.RecordBatchRoles(len(roles))

	results, err := analyzer.AnalyzeBatch(ctx, job.Skills, roles,
		analyzer.WithConcurrency(s.batchConcurrency))
	if err != nil {
		s.observe(ctx, op, start, nil, err)
		return nil, err
	}

	for i := range results {
		s.observe(ctx, op, start, results[i].Bundle, results[i].Err)
		if results[i].Bundle != nil {
			s.recordReadiness(ctx, job.LearnerID, results[i].Bundle)
		}
	}
	return results, nil
}

// Submit queues job for asynchronous analysis and records it as pending.
// It reports duplicate when the request ID was already submitted and its
// record is still readable; an ID whose record was evicted is analyzed again.
// Skills and role are checked up front so malformed jobs are rejected
// synchronously.
func (s *Service) Submit(ctx context.Context, job model.AnalysisJob) (duplicate bool, err error) { //nolint:gocritic // hugeParam: jobs travel by value
	const op = "submit"
	if job.RequestID == "" {
		return false, model.InvalidInput(op, "request_id", "must not be empty")
	}
	role, err := s.role(&job)
	if err != nil {
		return false, err
	}
	if err := scoring.ValidateRole(role); err != nil {
		metrics.RecordInvalidInput(op)
		return false, err
	}
	if _, err := normalize.Normalize(job.Skills); err != nil {
		metrics.RecordInvalidInput(op)
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return false, ErrNotStarted
	}

	s.submitMu.Lock()
	defer s.submitMu.Unlock()

	if s.deduper.SeenAndRecord(ctx, job.RequestID) {
		if _, err := s.results.Get(ctx, job.RequestID); err == nil {
			metrics.RecordSubmissionDuplicate()
			return true, nil
		}
		// The record was evicted from the result store; analyze again.
		s.logger.Debug(ctx, "resubmitting evicted analysis",
			logger.String("request_id", job.RequestID),
		)
	}

	job.SubmittedAt = s.now()
	pending := model.AnalysisRecord{
		RequestID:   job.RequestID,
		LearnerID:   job.LearnerID,
		RoleName:    normalize.Display(role.RoleName),
		Status:      model.StatusPending,
		SubmittedAt: job.SubmittedAt,
	}
	if err := s.results.Put(ctx, pending); err != nil {
		s.deduper.Unrecord(ctx, job.RequestID)
		return false, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.jobs.Enqueue(ctx, job); err != nil {
		s.deduper.Unrecord(ctx, job.RequestID)
		s.results.Delete(ctx, job.RequestID)
		s.logger.Warn(ctx, "submission rejected",
			logger.String("request_id", job.RequestID),
			logger.Error(err),
		)
		return false, fmt.Errorf("%s: %w", op, err)
	}

	s.logger.Debug(ctx, "analysis submitted",
		logger.String("request_id", job.RequestID),
		logger.String("role", pending.RoleName),
	)
	return false, nil
}

// Result returns the record of an asynchronous analysis.
func (s *Service) Result(ctx context.Context, requestID string) (model.AnalysisRecord, error) {
	return s.results.Get(ctx, requestID)
}

// Roles lists the catalog roles sorted by name.
func (s *Service) Roles(_ context.Context) []types.RoleSummary {
	roles := s.catalog.List()
	out := make([]types.RoleSummary, len(roles))
	for i, r := range roles {
		skills := make([]string, len(r.RequiredSkills))
		for j, rs := range r.RequiredSkills {
			skills[j] = rs.Name
		}
		out[i] = types.RoleSummary{RoleName: r.RoleName, Description: r.Description, Skills: skills}
	}
	return out
}

// Role returns a catalog role by name.
func (s *Service) Role(_ context.Context, name string) (model.RoleProfile, error) {
	return s.catalog.Get(name)
}

// TopReady returns the n most ready learners for role.
func (s *Service) TopReady(ctx context.Context, role string, n int) ([]types.ReadinessEntry, error) {
	return s.readiness.TopN(ctx, role, n)
}

// ReadinessRank returns a learner's readiness rank for role.
func (s *Service) ReadinessRank(ctx context.Context, role, learnerID string) (types.ReadinessEntry, error) {
	return s.readiness.Rank(ctx, role, learnerID)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]any{
		"started":         s.started,
		"workerCount":     s.workerCount,
		"queueSize":       s.queueSize,
		"dedupeSize":      s.dedupeSize,
		"roles":           s.catalog.Len(),
		"resultsStored":   s.results.Count(ctx),
		"requestsTracked": s.deduper.Size(),
		"rankedRoles":     len(s.readiness.Roles(ctx)),
	}

	if s.started {
		queueLen := s.jobs.Len(ctx)
		stats["queueLength"] = queueLen
		stats["activeWorkers"] = s.pool.Active()
		metrics.UpdateQueueSize(queueLen)
	}
	return stats
}

func (s *Service) recordReadiness(ctx context.Context, learnerID string, bundle *model.RecommendationBundle) {
	if learnerID == "" {
		return
	}
	if err := s.readiness.Upsert(ctx, bundle.RoleName, learnerID, bundle.Readiness); err != nil {
		metrics.RecordErrorByComponent("service", "readiness_store")
		s.logger.Warn(ctx, "readiness update failed",
			logger.String("learner_id", learnerID),
			logger.String("role", bundle.RoleName),
			logger.Error(err),
		)
	}
}

// observe records the outcome of one analysis. Invariant violations are
// logged at error level.
func (s *Service) observe(ctx context.Context, op string, start time.Time, bundle *model.RecommendationBundle, err error) {
	ms := float64(time.Since(start).Microseconds()) / 1000
	switch {
	case err == nil:
		metrics.RecordAnalysis(metrics.OutcomeOK, ms)
		if bundle != nil {
			metrics.RecordBundle(len(bundle.RankedRecommendations), bundle.Readiness)
		}
	case model.IsInvalidInput(err):
		metrics.RecordAnalysis(metrics.OutcomeInvalidInput, ms)
		metrics.RecordInvalidInput(op)
	case model.IsInternalInvariant(err):
		metrics.RecordAnalysis(metrics.OutcomeInternalInvariant, ms)
		metrics.RecordInvariantViolation(op)
		s.logger.Error(ctx, "internal invariant violation",
			logger.String("op", op),
			logger.String("field", model.FieldOf(err)),
			logger.Error(err),
		)
	case errors.Is(err, catalog.ErrRoleNotFound):
		metrics.RecordAnalysis(metrics.OutcomeUnknownRole, ms)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		metrics.RecordAnalysis(metrics.OutcomeCanceled, ms)
	default:
		metrics.RecordErrorByComponent("service", "analysis_failed")
	}
}
