// Package memory keeps node sequences in process memory. It backs tests and
// the default server configuration.
package memory

import (
	"context"
	"slices"
	"sync"

	models "doctree/internal/domain/models/docsystem"
	"doctree/internal/domain/repositories"
	docsysRepo "doctree/internal/domain/repositories/docsystem"
)

// NodeRepository implements the NodeRepository interface with a map
type NodeRepository struct {
	mu         sync.RWMutex
	workspaces map[string][]models.Node
}

// NewNodeRepository creates an empty repository
func NewNodeRepository() *NodeRepository {
	return &NodeRepository{workspaces: make(map[string][]models.Node)}
}

var _ docsysRepo.NodeRepository = (*NodeRepository)(nil)

// LoadAll returns a copy of the workspace's sequence
func (r *NodeRepository) LoadAll(_ context.Context, workspaceID string) ([]models.Node, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneNodes(r.workspaces[workspaceID]), nil
}

// ReplaceAll stores a copy of nodes. An empty sequence forgets the workspace.
func (r *NodeRepository) ReplaceAll(_ context.Context, workspaceID string, nodes []models.Node) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(nodes) == 0 {
		delete(r.workspaces, workspaceID)
		return nil
	}
	r.workspaces[workspaceID] = cloneNodes(nodes)
	return nil
}

// ListWorkspaces returns the workspace ids in sorted order
func (r *NodeRepository) ListWorkspaces(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.workspaces))
	for id := range r.workspaces {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

func cloneNodes(nodes []models.Node) []models.Node {
	out := make([]models.Node, len(nodes))
	for i := range nodes {
		out[i] = nodes[i].Clone()
	}
	return out
}

// TransactionManager runs fn directly. A single ReplaceAll is already atomic
// under the repository lock.
type TransactionManager struct{}

// NewTransactionManager creates a new transaction manager
func NewTransactionManager() repositories.TransactionManager {
	return TransactionManager{}
}

// ExecTx executes fn
func (TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}
