package handler

import (
	"log/slog"
	"net/http"

	models "doctree/internal/domain/models/docsystem"
	docsysSvc "doctree/internal/domain/services/docsystem"
	"doctree/internal/httputil"
)

// SearchHandler handles search HTTP requests
type SearchHandler struct {
	hierarchy docsysSvc.HierarchyService
	logger    *slog.Logger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(hierarchy docsysSvc.HierarchyService, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{
		hierarchy: hierarchy,
		logger:    logger,
	}
}

// SearchResponse wraps the results with the echoed query
type SearchResponse struct {
	Query   string                `json:"query"`
	Results []models.SearchResult `json:"results"`
	Total   int                   `json:"total"`
}

// Search runs a substring search over titles and bodies
// GET /api/workspaces/{ws}/search?q=&limit=&include_deleted=
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	limit, err := httputil.QueryInt(r, "limit", 0)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	includeDeleted, err := httputil.QueryBool(r, "include_deleted")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	req := &docsysSvc.SearchNodesRequest{
		WorkspaceID:    r.PathValue("ws"),
		Query:          r.URL.Query().Get("q"),
		Limit:          limit,
		IncludeDeleted: includeDeleted,
	}

	results, err := h.hierarchy.SearchNodes(r.Context(), req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	if results == nil {
		results = []models.SearchResult{}
	}

	httputil.RespondJSON(w, http.StatusOK, SearchResponse{
		Query:   req.Query,
		Results: results,
		Total:   len(results),
	})
}
