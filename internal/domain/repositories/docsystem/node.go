package docsystem

import (
	"context"

	models "doctree/internal/domain/models/docsystem"
)

// NodeRepository persists one ordered node sequence per workspace.
//
// The sequence is written whole. Implementations keep the order exactly as
// given, so that a load returns what the last ReplaceAll stored.
type NodeRepository interface {
	// LoadAll returns the workspace's nodes in sequence order. An unknown
	// workspace yields an empty sequence, not an error.
	LoadAll(ctx context.Context, workspaceID string) ([]models.Node, error)

	// ReplaceAll overwrites the workspace's sequence. Run it inside
	// TransactionManager.ExecTx so readers never see a half-written sequence.
	ReplaceAll(ctx context.Context, workspaceID string, nodes []models.Node) error

	// ListWorkspaces returns the ids of workspaces holding at least one node
	ListWorkspaces(ctx context.Context) ([]string, error)
}
