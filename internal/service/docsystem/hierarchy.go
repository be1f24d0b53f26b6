package docsystem

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"doctree/internal/domain"
	models "doctree/internal/domain/models/docsystem"
	"doctree/internal/domain/repositories"
	docsysRepo "doctree/internal/domain/repositories/docsystem"
	"doctree/internal/domain/services"
	docsysSvc "doctree/internal/domain/services/docsystem"
	"doctree/internal/hierarchy"
	"doctree/internal/metrics"
)

// HierarchyConfig tunes a hierarchy service
type HierarchyConfig struct {
	// SnippetRadius is the default number of characters around a body match
	SnippetRadius int

	// CheckInvariants re-verifies contiguity after every mutation and refuses
	// to commit a broken sequence
	CheckInvariants bool

	// StoreOptions are passed to every hierarchy.Store (clock, id generator)
	StoreOptions []hierarchy.Option
}

// session is the in-memory handle for one workspace. The store is replaced
// wholesale on commit, never mutated in place, so readers holding the read
// lock always see a committed sequence.
type session struct {
	mu    sync.RWMutex
	store *hierarchy.Store

	// contiguous is false when the persisted sequence was already broken at
	// load time; invariant checks are skipped until it is replaced
	contiguous bool
}

type hierarchyService struct {
	repo      docsysRepo.NodeRepository
	txManager repositories.TransactionManager
	analyzer  services.ContentAnalyzer
	metrics   *metrics.Metrics
	logger    *slog.Logger
	cfg       HierarchyConfig

	mu       sync.Mutex
	sessions map[string]*session
}

// NewHierarchyService creates a new hierarchy service
func NewHierarchyService(
	repo docsysRepo.NodeRepository,
	txManager repositories.TransactionManager,
	analyzer services.ContentAnalyzer,
	m *metrics.Metrics,
	logger *slog.Logger,
	cfg HierarchyConfig,
) docsysSvc.HierarchyService {
	if cfg.SnippetRadius <= 0 {
		cfg.SnippetRadius = models.DefaultSnippetRadius
	}
	return &hierarchyService{
		repo:      repo,
		txManager: txManager,
		analyzer:  analyzer,
		metrics:   m,
		logger:    logger,
		cfg:       cfg,
		sessions:  make(map[string]*session),
	}
}

// GetTree returns the workspace as a nested forest
func (s *hierarchyService) GetTree(ctx context.Context, workspaceID string) ([]*models.TreeNode, error) {
	var forest []*models.TreeNode
	err := s.read(ctx, workspaceID, func(store *hierarchy.Store) error {
		forest = store.Forest()
		return nil
	})
	return forest, err
}

// ListNodes returns the flat ordered sequence
func (s *hierarchyService) ListNodes(ctx context.Context, workspaceID string) ([]models.Node, error) {
	var nodes []models.Node
	err := s.read(ctx, workspaceID, func(store *hierarchy.Store) error {
		nodes = store.Nodes()
		return nil
	})
	return nodes, err
}

// GetNode retrieves a single node
func (s *hierarchyService) GetNode(ctx context.Context, workspaceID, id string) (*models.Node, error) {
	var node models.Node
	err := s.read(ctx, workspaceID, func(store *hierarchy.Store) error {
		var err error
		node, err = store.Get(id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &node, nil
}

// CreateNode appends a node as the last child of its parent, then applies
// any initial fields in the same commit
func (s *hierarchyService) CreateNode(ctx context.Context, req *docsysSvc.CreateNodeRequest) (*models.Node, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, err
	}

	var node models.Node
	err := s.mutate(ctx, req.WorkspaceID, "create", func(store *hierarchy.Store) error {
		created, err := store.Create(req.ParentID, req.Kind)
		if err != nil {
			return err
		}

		patch := models.NodePatch{Title: req.Title, Body: req.Body}
		if req.Tags != nil {
			patch.Tags = &req.Tags
		}
		node, err = store.Update(created.ID, patch)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("node created",
		"workspace_id", req.WorkspaceID,
		"node_id", node.ID,
		"parent_id", derefOrRoot(node.ParentID),
		"kind", req.Kind,
	)
	return &node, nil
}

// UpdateNode assigns simple fields; structure never changes
func (s *hierarchyService) UpdateNode(ctx context.Context, req *docsysSvc.UpdateNodeRequest) (*models.Node, error) {
	if err := s.validateUpdateRequest(req); err != nil {
		return nil, err
	}

	var node models.Node
	err := s.mutate(ctx, req.WorkspaceID, "update", func(store *hierarchy.Store) error {
		var err error
		node, err = store.Update(req.NodeID, req.Patch())
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("node updated", "workspace_id", req.WorkspaceID, "node_id", req.NodeID)
	return &node, nil
}

// MoveNode reorders or reparents a node together with its subtree. A rejected
// move leaves both the session and storage untouched.
func (s *hierarchyService) MoveNode(ctx context.Context, req *docsysSvc.MoveNodeRequest) (*models.Node, error) {
	if err := s.validateMoveRequest(req); err != nil {
		return nil, err
	}

	var node models.Node
	err := s.mutate(ctx, req.WorkspaceID, "move", func(store *hierarchy.Store) error {
		if err := store.Move(req.NodeID, req.TargetID.Value, req.Position); err != nil {
			return err
		}
		var err error
		node, err = store.Get(req.NodeID)
		return err
	})
	if err != nil {
		var opErr *domain.InvalidOperationError
		if errors.As(err, &opErr) {
			s.metrics.RecordRejection(string(opErr.Reason))
			s.logger.Info("move rejected",
				"workspace_id", req.WorkspaceID,
				"node_id", req.NodeID,
				"target_id", derefOrRoot(req.TargetID.Value),
				"reason", opErr.Reason,
			)
		}
		return nil, err
	}

	s.logger.Info("node moved",
		"workspace_id", req.WorkspaceID,
		"node_id", req.NodeID,
		"target_id", derefOrRoot(req.TargetID.Value),
		"position", req.Position,
		"parent_id", derefOrRoot(node.ParentID),
	)
	return &node, nil
}

// DuplicateNode copies a single node; the copy follows the original's subtree
func (s *hierarchyService) DuplicateNode(ctx context.Context, workspaceID, id string) (*models.Node, error) {
	if err := validateWorkspaceID(workspaceID); err != nil {
		return nil, err
	}

	var node models.Node
	err := s.mutate(ctx, workspaceID, "duplicate", func(store *hierarchy.Store) error {
		var err error
		node, err = store.Duplicate(id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("node duplicated", "workspace_id", workspaceID, "source_id", id, "node_id", node.ID)
	return &node, nil
}

// DeleteNode removes a node and all of its descendants
func (s *hierarchyService) DeleteNode(ctx context.Context, workspaceID, id string) (*docsysSvc.DeleteResult, error) {
	if err := validateWorkspaceID(workspaceID); err != nil {
		return nil, err
	}

	var removed []string
	err := s.mutate(ctx, workspaceID, "delete", func(store *hierarchy.Store) error {
		var err error
		removed, err = store.CascadingDelete(id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RemovedNodesTotal.Add(float64(len(removed)))
	s.logger.Info("nodes deleted", "workspace_id", workspaceID, "node_id", id, "removed", len(removed))
	return &docsysSvc.DeleteResult{RemovedIDs: removed}, nil
}

// SearchNodes matches the query against titles and the plain-text projection
// of bodies. A blank query matches nothing.
func (s *hierarchyService) SearchNodes(ctx context.Context, req *docsysSvc.SearchNodesRequest) ([]models.SearchResult, error) {
	if err := validateWorkspaceID(req.WorkspaceID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Query) == "" {
		return []models.SearchResult{}, nil
	}

	opts := models.SearchOptions{
		Query:          req.Query,
		Limit:          req.Limit,
		SnippetRadius:  s.cfg.SnippetRadius,
		IncludeDeleted: req.IncludeDeleted,
	}
	opts.ApplyDefaults()
	if err := opts.Validate(); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}

	start := time.Now()
	var results []models.SearchResult
	err := s.read(ctx, req.WorkspaceID, func(store *hierarchy.Store) error {
		results = store.Search(opts, s.analyzer.PlainText)
		return nil
	})
	if err != nil {
		s.metrics.RecordOperation("search", metrics.StatusError, time.Since(start))
		return nil, err
	}
	if results == nil {
		results = []models.SearchResult{}
	}

	s.metrics.RecordOperation("search", metrics.StatusOK, time.Since(start))
	s.metrics.RecordSearch(len(results))
	return results, nil
}

// ReplaceNodes swaps in a whole sequence after checking its invariants
func (s *hierarchyService) ReplaceNodes(ctx context.Context, workspaceID string, nodes []models.Node) error {
	if err := validateWorkspaceID(workspaceID); err != nil {
		return err
	}
	if err := hierarchy.CheckContiguity(nodes); err != nil {
		return &domain.ValidationError{Message: fmt.Sprintf("invalid sequence: %v", err)}
	}

	sess, err := s.session(ctx, workspaceID)
	if err != nil {
		return err
	}

	start := time.Now()
	sess.mu.Lock()
	defer sess.mu.Unlock()

	next := hierarchy.NewStore(nodes, s.cfg.StoreOptions...)
	if err := s.persist(ctx, workspaceID, next); err != nil {
		s.metrics.RecordOperation("replace", metrics.StatusError, time.Since(start))
		return err
	}
	sess.store = next
	sess.contiguous = true

	s.metrics.RecordOperation("replace", metrics.StatusOK, time.Since(start))
	s.metrics.UpdateWorkspace(workspaceID, next.Len())
	s.logger.Info("workspace replaced", "workspace_id", workspaceID, "nodes", next.Len())
	return nil
}

// CheckWorkspace verifies the persisted sequence without changing it
func (s *hierarchyService) CheckWorkspace(ctx context.Context, workspaceID string) error {
	if err := validateWorkspaceID(workspaceID); err != nil {
		return err
	}
	nodes, err := s.repo.LoadAll(ctx, workspaceID)
	if err != nil {
		return fmt.Errorf("load workspace %s: %w", workspaceID, err)
	}
	return hierarchy.CheckContiguity(nodes)
}

// ListWorkspaces returns the ids of workspaces with stored nodes
func (s *hierarchyService) ListWorkspaces(ctx context.Context) ([]string, error) {
	ids, err := s.repo.ListWorkspaces(ctx)
	if err != nil {
		return nil, fmt.Errorf("list workspaces: %w", err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// session returns the workspace's handle, loading it from storage on first use
func (s *hierarchyService) session(ctx context.Context, workspaceID string) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[workspaceID]; ok {
		return sess, nil
	}

	nodes, err := s.repo.LoadAll(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("load workspace %s: %w", workspaceID, err)
	}

	sess := &session{
		store:      hierarchy.NewStore(nodes, s.cfg.StoreOptions...),
		contiguous: true,
	}
	if err := hierarchy.CheckContiguity(nodes); err != nil {
		// still served: the forest builder degrades gracefully
		sess.contiguous = false
		s.metrics.InvariantFailures.Inc()
		s.logger.Warn("loaded workspace violates contiguity", "workspace_id", workspaceID, "error", err)
	}

	s.sessions[workspaceID] = sess
	s.metrics.WorkspacesLoaded.Set(float64(len(s.sessions)))
	s.metrics.UpdateWorkspace(workspaceID, len(nodes))
	s.logger.Debug("workspace loaded", "workspace_id", workspaceID, "nodes", len(nodes))
	return sess, nil
}

func (s *hierarchyService) read(ctx context.Context, workspaceID string, fn func(*hierarchy.Store) error) error {
	if err := validateWorkspaceID(workspaceID); err != nil {
		return err
	}
	sess, err := s.session(ctx, workspaceID)
	if err != nil {
		return err
	}

	sess.mu.RLock()
	defer sess.mu.RUnlock()
	return fn(sess.store)
}

// mutate runs fn against a clone of the workspace store, persists the result
// and only then makes it visible. Any failure leaves the session as it was.
func (s *hierarchyService) mutate(ctx context.Context, workspaceID, op string, fn func(*hierarchy.Store) error) (err error) {
	start := time.Now()
	defer func() {
		s.metrics.RecordOperation(op, operationStatus(err), time.Since(start))
	}()

	sess, err := s.session(ctx, workspaceID)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	next := sess.store.Clone()
	if err := fn(next); err != nil {
		return err
	}

	if s.cfg.CheckInvariants && sess.contiguous {
		if err := next.Check(); err != nil {
			s.metrics.InvariantFailures.Inc()
			s.logger.Error("mutation broke contiguity", "workspace_id", workspaceID, "operation", op, "error", err)
			return fmt.Errorf("%s produced an invalid sequence: %w", op, err)
		}
	}

	if err := s.persist(ctx, workspaceID, next); err != nil {
		return err
	}

	sess.store = next
	s.metrics.UpdateWorkspace(workspaceID, next.Len())
	return nil
}

func (s *hierarchyService) persist(ctx context.Context, workspaceID string, store *hierarchy.Store) error {
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		return s.repo.ReplaceAll(txCtx, workspaceID, store.Nodes())
	})
	if err != nil {
		return fmt.Errorf("persist workspace %s: %w", workspaceID, err)
	}
	return nil
}

// operationStatus classifies an operation result for metrics
func operationStatus(err error) string {
	switch {
	case err == nil:
		return metrics.StatusOK
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidOperation):
		return metrics.StatusRejected
	default:
		return metrics.StatusError
	}
}

func derefOrRoot(id *string) string {
	if id == nil {
		return "root"
	}
	return *id
}
