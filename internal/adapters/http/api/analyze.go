package api

import (
	"net/http"

	"github.com/okian/skillgap/internal/domain/model"
)

// AnalyzeHandler handles synchronous analysis requests.
type AnalyzeHandler struct {
	deps          AnalyzeDependencies
	maxSkills     int
	maxBatchRoles int
}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler(deps AnalyzeDependencies, maxSkills, maxBatchRoles int) *AnalyzeHandler {
	return &AnalyzeHandler{deps: deps, maxSkills: maxSkills, maxBatchRoles: maxBatchRoles}
}

// HandleAnalyze handles POST /analyze requests.
func (h *AnalyzeHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	const op = "api.analyze"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req analyzeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.Validate(h.maxSkills); err != nil {
		writeFailure(w, validationError(err))
		return
	}

	bundle, err := h.deps.Analyze(r.Context(), req.job())
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, bundle)
}

type batchItem struct {
	RoleName string                      `json:"role_name"`
	Bundle   *model.RecommendationBundle `json:"bundle,omitempty"`
	Error    *errorResponse              `json:"error,omitempty"`
}

type batchResponse struct {
	Results []batchItem `json:"results"`
}

// HandleBatch handles POST /analyze/batch requests. A role rejected as
// invalid only fails its own item.
func (h *AnalyzeHandler) HandleBatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.analyze_batch"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req batchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.Validate(h.maxSkills, h.maxBatchRoles); err != nil {
		writeFailure(w, validationError(err))
		return
	}

	results, err := h.deps.AnalyzeBatch(r.Context(), req.job())
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}

	resp := batchResponse{Results: make([]batchItem, len(results))}
	for i, res := range results {
		resp.Results[i] = batchItem{RoleName: res.RoleName, Bundle: res.Bundle}
		if res.Err != nil {
			_, code := classify(res.Err)
			resp.Results[i].Error = &errorResponse{
				Code:    code,
				Message: res.Err.Error(),
				Field:   model.FieldOf(res.Err),
			}
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
