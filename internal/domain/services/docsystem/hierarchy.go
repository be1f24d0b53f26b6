package docsystem

import (
	"context"

	models "doctree/internal/domain/models/docsystem"
	"doctree/internal/httputil"
)

// HierarchyService handles document hierarchy business logic. Mutations on
// one workspace are serialised; reads see the last committed sequence.
type HierarchyService interface {
	// GetTree returns the workspace as a nested forest
	GetTree(ctx context.Context, workspaceID string) ([]*models.TreeNode, error)

	// ListNodes returns the flat ordered sequence
	ListNodes(ctx context.Context, workspaceID string) ([]models.Node, error)

	// GetNode retrieves a single node
	GetNode(ctx context.Context, workspaceID, id string) (*models.Node, error)

	// CreateNode appends a new node as the last child of its parent (or last root)
	CreateNode(ctx context.Context, req *CreateNodeRequest) (*models.Node, error)

	// UpdateNode assigns simple fields; structure never changes
	UpdateNode(ctx context.Context, req *UpdateNodeRequest) (*models.Node, error)

	// MoveNode reorders or reparents a node together with its subtree
	MoveNode(ctx context.Context, req *MoveNodeRequest) (*models.Node, error)

	// DuplicateNode copies a single node (children are not copied)
	DuplicateNode(ctx context.Context, workspaceID, id string) (*models.Node, error)

	// DeleteNode removes a node and all of its descendants
	DeleteNode(ctx context.Context, workspaceID, id string) (*DeleteResult, error)

	// SearchNodes runs a case-insensitive substring search
	SearchNodes(ctx context.Context, req *SearchNodesRequest) ([]models.SearchResult, error)

	// ReplaceNodes swaps in a whole sequence after checking its invariants.
	// Used by fixture loading and imports.
	ReplaceNodes(ctx context.Context, workspaceID string, nodes []models.Node) error

	// CheckWorkspace verifies the persisted sequence without changing it
	CheckWorkspace(ctx context.Context, workspaceID string) error

	// ListWorkspaces returns the ids of workspaces with stored nodes
	ListWorkspaces(ctx context.Context) ([]string, error)
}

// CreateNodeRequest represents a node creation request
type CreateNodeRequest struct {
	WorkspaceID string      `json:"-"`
	ParentID    *string     `json:"parent_id"` // null for root level
	Kind        models.Kind `json:"kind"`      // "document" or "folder"
	Title       *string     `json:"title,omitempty"`
	Body        *string     `json:"body,omitempty"`
	Tags        []string    `json:"tags,omitempty"`
}

// UpdateNodeRequest represents a field update. Absent fields are untouched.
type UpdateNodeRequest struct {
	WorkspaceID string    `json:"-"`
	NodeID      string    `json:"-"`
	Title       *string   `json:"title,omitempty"`
	Body        *string   `json:"body,omitempty"`
	IsExpanded  *bool     `json:"is_expanded,omitempty"`
	IsArchived  *bool     `json:"is_archived,omitempty"`
	IsDeleted   *bool     `json:"is_deleted,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
}

// Patch converts the request into the model's field patch
func (r *UpdateNodeRequest) Patch() models.NodePatch {
	return models.NodePatch{
		Title:      r.Title,
		Body:       r.Body,
		IsExpanded: r.IsExpanded,
		IsArchived: r.IsArchived,
		IsDeleted:  r.IsDeleted,
		Tags:       r.Tags,
	}
}

// MoveNodeRequest represents a drag-and-drop. TargetID must be present;
// JSON null targets root level.
type MoveNodeRequest struct {
	WorkspaceID string                  `json:"-"`
	NodeID      string                  `json:"-"`
	TargetID    httputil.OptionalString `json:"target_id"`
	Position    models.Position         `json:"position"`
}

// SearchNodesRequest represents a search query
type SearchNodesRequest struct {
	WorkspaceID    string `json:"-"`
	Query          string `json:"query"`
	Limit          int    `json:"limit"`
	IncludeDeleted bool   `json:"include_deleted"`
}

// DeleteResult lists every node a cascading delete removed, so callers can
// drop cached references (open editors, selections)
type DeleteResult struct {
	RemovedIDs []string `json:"removed_ids"`
}
