package handler

import (
	"log/slog"
	"net/http"

	models "doctree/internal/domain/models/docsystem"
	docsysSvc "doctree/internal/domain/services/docsystem"
	"doctree/internal/httputil"
)

// ImportHandler handles bulk replacement of a workspace.
//
// The body is the full ordered sequence. It is checked for contiguity and
// dangling parents before anything is written.
type ImportHandler struct {
	hierarchy docsysSvc.HierarchyService
	logger    *slog.Logger
}

// NewImportHandler creates a new import handler
func NewImportHandler(hierarchy docsysSvc.HierarchyService, logger *slog.Logger) *ImportHandler {
	return &ImportHandler{
		hierarchy: hierarchy,
		logger:    logger,
	}
}

// ImportRequest carries the replacement sequence
type ImportRequest struct {
	Nodes []models.Node `json:"nodes"`
}

// ImportResponse reports how many nodes the workspace now holds
type ImportResponse struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
}

// Replace swaps the stored sequence for the request's nodes
// PUT /api/workspaces/{ws}/nodes
func (h *ImportHandler) Replace(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if !parseBody(w, r, &req) {
		return
	}

	workspaceID := r.PathValue("ws")
	if err := h.hierarchy.ReplaceNodes(r.Context(), workspaceID, req.Nodes); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	h.logger.Info("workspace replaced",
		"workspace_id", workspaceID,
		"count", len(req.Nodes),
	)
	httputil.RespondJSON(w, http.StatusOK, ImportResponse{Success: true, Count: len(req.Nodes)})
}
