package handler

import (
	"log/slog"
	"net/http"

	models "doctree/internal/domain/models/docsystem"
	docsysSvc "doctree/internal/domain/services/docsystem"
	"doctree/internal/httputil"
)

// NodeHandler handles node HTTP requests
type NodeHandler struct {
	hierarchy docsysSvc.HierarchyService
	logger    *slog.Logger
}

// NewNodeHandler creates a new node handler
func NewNodeHandler(hierarchy docsysSvc.HierarchyService, logger *slog.Logger) *NodeHandler {
	return &NodeHandler{
		hierarchy: hierarchy,
		logger:    logger,
	}
}

// ListNodes returns the flat ordered sequence
// GET /api/workspaces/{ws}/nodes
func (h *NodeHandler) ListNodes(w http.ResponseWriter, r *http.Request) {
	nodes, err := h.hierarchy.ListNodes(r.Context(), r.PathValue("ws"))
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	if nodes == nil {
		nodes = []models.Node{}
	}

	httputil.RespondJSON(w, http.StatusOK, nodes)
}

// CreateNode creates a document or folder as the last child of its parent
// POST /api/workspaces/{ws}/nodes
func (h *NodeHandler) CreateNode(w http.ResponseWriter, r *http.Request) {
	var req docsysSvc.CreateNodeRequest
	if !parseBody(w, r, &req) {
		return
	}
	req.WorkspaceID = r.PathValue("ws")

	node, err := h.hierarchy.CreateNode(r.Context(), &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, node)
}

// GetNode retrieves a node by ID
// GET /api/workspaces/{ws}/nodes/{id}
func (h *NodeHandler) GetNode(w http.ResponseWriter, r *http.Request) {
	node, err := h.hierarchy.GetNode(r.Context(), r.PathValue("ws"), r.PathValue("id"))
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, node)
}

// UpdateNode assigns simple fields
// PATCH /api/workspaces/{ws}/nodes/{id}
func (h *NodeHandler) UpdateNode(w http.ResponseWriter, r *http.Request) {
	var req docsysSvc.UpdateNodeRequest
	if !parseBody(w, r, &req) {
		return
	}
	req.WorkspaceID = r.PathValue("ws")
	req.NodeID = r.PathValue("id")

	node, err := h.hierarchy.UpdateNode(r.Context(), &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, node)
}

// DeleteNode removes a node and its whole subtree
// DELETE /api/workspaces/{ws}/nodes/{id}
func (h *NodeHandler) DeleteNode(w http.ResponseWriter, r *http.Request) {
	result, err := h.hierarchy.DeleteNode(r.Context(), r.PathValue("ws"), r.PathValue("id"))
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// MoveNode handles a drag-and-drop
// POST /api/workspaces/{ws}/nodes/{id}/move
func (h *NodeHandler) MoveNode(w http.ResponseWriter, r *http.Request) {
	var req docsysSvc.MoveNodeRequest
	if !parseBody(w, r, &req) {
		return
	}
	req.WorkspaceID = r.PathValue("ws")
	req.NodeID = r.PathValue("id")

	node, err := h.hierarchy.MoveNode(r.Context(), &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, node)
}

// DuplicateNode copies a node and places the copy after the original's subtree
// POST /api/workspaces/{ws}/nodes/{id}/duplicate
func (h *NodeHandler) DuplicateNode(w http.ResponseWriter, r *http.Request) {
	node, err := h.hierarchy.DuplicateNode(r.Context(), r.PathValue("ws"), r.PathValue("id"))
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, node)
}
