package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"doctree/internal/domain"
	docsysSvc "doctree/internal/domain/services/docsystem"
	"doctree/internal/hierarchy"
	"doctree/internal/httputil"
)

// TreeHandler handles HTTP requests for tree operations
type TreeHandler struct {
	hierarchy docsysSvc.HierarchyService
	logger    *slog.Logger
}

// NewTreeHandler creates a new tree handler
func NewTreeHandler(hierarchy docsysSvc.HierarchyService, logger *slog.Logger) *TreeHandler {
	return &TreeHandler{
		hierarchy: hierarchy,
		logger:    logger,
	}
}

// GetTree returns the nested document tree for a workspace
// GET /api/workspaces/{ws}/tree
func (h *TreeHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.hierarchy.GetTree(r.Context(), r.PathValue("ws"))
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tree)
}

// ListWorkspaces returns the ids of all workspaces with stored nodes
// GET /api/workspaces
func (h *TreeHandler) ListWorkspaces(w http.ResponseWriter, r *http.Request) {
	ids, err := h.hierarchy.ListWorkspaces(r.Context())
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]any{"workspaces": ids})
}

// CheckResponse reports whether the stored sequence is a valid flattening
type CheckResponse struct {
	Contiguous bool   `json:"contiguous"`
	Problem    string `json:"problem,omitempty"`
	Index      *int   `json:"index,omitempty"`
	NodeID     string `json:"node_id,omitempty"`
}

// CheckWorkspace verifies the stored sequence. A broken sequence is a
// successful check with contiguous=false.
// GET /api/workspaces/{ws}/check
func (h *TreeHandler) CheckWorkspace(w http.ResponseWriter, r *http.Request) {
	err := h.hierarchy.CheckWorkspace(r.Context(), r.PathValue("ws"))

	var contiguity *hierarchy.ContiguityError
	var dangling *domain.DanglingReferenceError
	switch {
	case err == nil:
		httputil.RespondJSON(w, http.StatusOK, CheckResponse{Contiguous: true})
	case errors.As(err, &contiguity):
		httputil.RespondJSON(w, http.StatusOK, CheckResponse{
			Problem: contiguity.Error(),
			Index:   &contiguity.Index,
			NodeID:  contiguity.NodeID,
		})
	case errors.As(err, &dangling):
		httputil.RespondJSON(w, http.StatusOK, CheckResponse{
			Problem: dangling.Error(),
			NodeID:  dangling.NodeID,
		})
	default:
		handleError(w, r, h.logger, err)
	}
}
