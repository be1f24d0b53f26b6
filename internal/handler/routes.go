package handler

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	docsysSvc "doctree/internal/domain/services/docsystem"
)

// NewRouter builds the API mux. The returned handler is unwrapped; callers
// add CORS, recovery and request logging around it.
func NewRouter(hierarchy docsysSvc.HierarchyService, gatherer prometheus.Gatherer, logger *slog.Logger) *http.ServeMux {
	nodeHandler := NewNodeHandler(hierarchy, logger)
	treeHandler := NewTreeHandler(hierarchy, logger)
	searchHandler := NewSearchHandler(hierarchy, logger)
	importHandler := NewImportHandler(hierarchy, logger)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", HealthCheck)
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	// Workspaces
	mux.HandleFunc("GET /api/workspaces", treeHandler.ListWorkspaces)
	mux.HandleFunc("GET /api/workspaces/{ws}/tree", treeHandler.GetTree)
	mux.HandleFunc("GET /api/workspaces/{ws}/check", treeHandler.CheckWorkspace)
	mux.HandleFunc("GET /api/workspaces/{ws}/search", searchHandler.Search)

	// Nodes
	mux.HandleFunc("GET /api/workspaces/{ws}/nodes", nodeHandler.ListNodes)
	mux.HandleFunc("POST /api/workspaces/{ws}/nodes", nodeHandler.CreateNode)
	mux.HandleFunc("PUT /api/workspaces/{ws}/nodes", importHandler.Replace)
	mux.HandleFunc("GET /api/workspaces/{ws}/nodes/{id}", nodeHandler.GetNode)
	mux.HandleFunc("PATCH /api/workspaces/{ws}/nodes/{id}", nodeHandler.UpdateNode)
	mux.HandleFunc("DELETE /api/workspaces/{ws}/nodes/{id}", nodeHandler.DeleteNode)
	mux.HandleFunc("POST /api/workspaces/{ws}/nodes/{id}/move", nodeHandler.MoveNode)
	mux.HandleFunc("POST /api/workspaces/{ws}/nodes/{id}/duplicate", nodeHandler.DuplicateNode)

	return mux
}
