package api

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// AnalysesHandler handles asynchronous analysis submissions.
type AnalysesHandler struct {
	deps      SubmitDependencies
	maxSkills int
}

// NewAnalysesHandler creates a new analyses handler.
func NewAnalysesHandler(deps SubmitDependencies, maxSkills int) *AnalysesHandler {
	return &AnalysesHandler{deps: deps, maxSkills: maxSkills}
}

// HandleSubmit handles POST /analyses requests.
func (h *AnalysesHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit_analysis"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req submitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.Validate(h.maxSkills); err != nil {
		writeFailure(w, validationError(err))
		return
	}

	job := req.job()
	if job.RequestID == "" {
		job.RequestID = uuid.NewString()
	}

	duplicate, err := h.deps.Submit(r.Context(), job)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	if duplicate {
		writeJSON(w, http.StatusOK, ackResponse{RequestID: job.RequestID, Status: "duplicate", Duplicate: true})
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{RequestID: job.RequestID, Status: "accepted"})
}

// HandleGet handles GET /analyses/{request_id} requests.
func (h *AnalysesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_analysis"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/analyses/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	rec, err := h.deps.Result(r.Context(), id)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
