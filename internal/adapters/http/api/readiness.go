package api

import (
	"net/http"
	"strconv"
	"strings"
)

// ReadinessHandler serves the per-role readiness rankings.
type ReadinessHandler struct {
	deps     ReadinessDependencies
	maxLimit int
}

// NewReadinessHandler creates a new readiness handler.
func NewReadinessHandler(deps ReadinessDependencies, maxLimit int) *ReadinessHandler {
	return &ReadinessHandler{deps: deps, maxLimit: maxLimit}
}

// HandleTop handles GET /readiness?role=R&limit=N requests.
func (h *ReadinessHandler) HandleTop(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_readiness"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	role := strings.TrimSpace(q.Get("role"))
	if role == "" {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errMissingRole))
		return
	}

	n := defaultReadinessLimit
	if limitStr := q.Get("limit"); limitStr != "" {
		var err error
		n, err = strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
	}
	if n > h.maxLimit {
		writeFailure(w, NewKind(op, ErrLimitExceeded))
		return
	}

	entries, err := h.deps.TopReady(r.Context(), role, n)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// HandleRank handles GET /readiness/{learner_id}?role=R requests.
func (h *ReadinessHandler) HandleRank(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_readiness_rank"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	learnerID := strings.TrimPrefix(r.URL.Path, "/readiness/")
	if learnerID == "" || strings.Contains(learnerID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	role := strings.TrimSpace(r.URL.Query().Get("role"))
	if role == "" {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errMissingRole))
		return
	}

	entry, err := h.deps.ReadinessRank(r.Context(), role, learnerID)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
