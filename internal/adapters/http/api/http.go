// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/okian/skillgap/internal/domain/analyzer"
	"github.com/okian/skillgap/internal/domain/model"
	"github.com/okian/skillgap/internal/domain/types"
)

// AnalyzeDependencies runs synchronous analyses.
type AnalyzeDependencies interface {
	Analyze(ctx context.Context, job model.AnalysisJob) (model.RecommendationBundle, error)
	AnalyzeBatch(ctx context.Context, job model.BatchJob) ([]analyzer.BatchResult, error)
}

// SubmitDependencies queues asynchronous analyses and reads their outcome.
type SubmitDependencies interface {
	// Submit enqueues job. duplicate is true when job.RequestID was already submitted.
	Submit(ctx context.Context, job model.AnalysisJob) (duplicate bool, err error)
	Result(ctx context.Context, requestID string) (model.AnalysisRecord, error)
}

// RoleDependencies exposes the role catalog.
type RoleDependencies interface {
	Roles(ctx context.Context) []types.RoleSummary
	Role(ctx context.Context, name string) (model.RoleProfile, error)
}

// ReadinessDependencies exposes the per-role readiness rankings.
type ReadinessDependencies interface {
	TopReady(ctx context.Context, role string, n int) ([]types.ReadinessEntry, error)
	ReadinessRank(ctx context.Context, role, learnerID string) (types.ReadinessEntry, error)
}

// Dependencies required by HTTP handlers.
type Dependencies interface {
	AnalyzeDependencies
	SubmitDependencies
	RoleDependencies
	ReadinessDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	analyzeHandler   *AnalyzeHandler
	analysesHandler  *AnalysesHandler
	rolesHandler     *RolesHandler
	readinessHandler *ReadinessHandler

	maxSkills         int
	maxBatchRoles     int
	maxReadinessLimit int
	limiter           *rate.Limiter
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		maxSkills:         defaultMaxSkills,
		maxBatchRoles:     defaultMaxBatchRoles,
		maxReadinessLimit: defaultMaxReadinessLimit,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider)
	s.analyzeHandler = NewAnalyzeHandler(deps, s.maxSkills, s.maxBatchRoles)
	s.analysesHandler = NewAnalysesHandler(deps, s.maxSkills)
	s.rolesHandler = NewRolesHandler(deps)
	s.readinessHandler = NewReadinessHandler(deps, s.maxReadinessLimit)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("/metrics", s.healthHandler.MetricsHandler())
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("/analyze", MetricsMiddleware(
		RateLimitMiddleware(s.analyzeHandler.HandleAnalyze, "analyze", s.limiter), "analyze"))
	mux.HandleFunc("/analyze/batch", MetricsMiddleware(
		RateLimitMiddleware(s.analyzeHandler.HandleBatch, "analyze_batch", s.limiter), "analyze_batch"))
	mux.HandleFunc("/analyses", MetricsMiddleware(
		RateLimitMiddleware(s.analysesHandler.HandleSubmit, "analyses", s.limiter), "analyses"))
	mux.HandleFunc("/analyses/", MetricsMiddleware(s.analysesHandler.HandleGet, "analysis"))

	mux.HandleFunc("/roles", MetricsMiddleware(s.rolesHandler.HandleList, "roles"))
	mux.HandleFunc("/roles/", MetricsMiddleware(s.rolesHandler.HandleGet, "role"))

	mux.HandleFunc("/readiness", MetricsMiddleware(s.readinessHandler.HandleTop, "readiness"))
	mux.HandleFunc("/readiness/", MetricsMiddleware(s.readinessHandler.HandleRank, "readiness_rank"))
}

type ackResponse struct {
	RequestID string `json:"request_id"`
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg, Field: model.FieldOf(err)})
}

// writeFailure writes err with the status and code it maps to.
func writeFailure(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeError(w, status, code, err)
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}
