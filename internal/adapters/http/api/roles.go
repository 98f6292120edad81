package api

import (
	"net/http"
	"strings"
)

// RolesHandler serves the role catalog.
type RolesHandler struct {
	deps RoleDependencies
}

// NewRolesHandler creates a new roles handler.
func NewRolesHandler(deps RoleDependencies) *RolesHandler {
	return &RolesHandler{deps: deps}
}

// HandleList handles GET /roles requests.
func (h *RolesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Roles(r.Context()))
}

// HandleGet handles GET /roles/{name} requests. Names match case-insensitively.
func (h *RolesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_role"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	name := strings.TrimPrefix(r.URL.Path, "/roles/")
	if strings.TrimSpace(name) == "" || strings.Contains(name, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	role, err := h.deps.Role(r.Context(), name)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, role)
}
