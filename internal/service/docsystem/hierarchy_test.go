package docsystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doctree/internal/domain"
	models "doctree/internal/domain/models/docsystem"
	docsysRepo "doctree/internal/domain/repositories/docsystem"
	docsysSvc "doctree/internal/domain/services/docsystem"
	"doctree/internal/hierarchy"
	"doctree/internal/httputil"
	"doctree/internal/metrics"
	"doctree/internal/repository/memory"
)

const ws = "team-notes"

type fixture struct {
	svc     docsysSvc.HierarchyService
	repo    *memory.NodeRepository
	metrics *metrics.Metrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := memory.NewNodeRepository()
	return newFixtureWithRepo(t, repo, repo)
}

// newFixtureWithRepo serves nodeRepo; repo is the underlying store tests inspect
func newFixtureWithRepo(t *testing.T, repo *memory.NodeRepository, nodeRepo docsysRepo.NodeRepository) *fixture {
	t.Helper()

	var mu sync.Mutex
	next := 0
	ids := func() string {
		mu.Lock()
		defer mu.Unlock()
		next++
		return fmt.Sprintf("n%d", next)
	}
	clock := func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }

	m := metrics.NewMetrics(prometheus.NewRegistry())
	svc := NewHierarchyService(
		nodeRepo,
		memory.NewTransactionManager(),
		NewContentAnalyzer(),
		m,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		HierarchyConfig{
			CheckInvariants: true,
			StoreOptions:    []hierarchy.Option{hierarchy.WithIDGenerator(ids), hierarchy.WithClock(clock)},
		},
	)
	return &fixture{svc: svc, repo: repo, metrics: m}
}

func (f *fixture) create(t *testing.T, parent *string, kind models.Kind, title string) *models.Node {
	t.Helper()
	node, err := f.svc.CreateNode(context.Background(), &docsysSvc.CreateNodeRequest{
		WorkspaceID: ws,
		ParentID:    parent,
		Kind:        kind,
		Title:       &title,
	})
	require.NoError(t, err)
	return node
}

func (f *fixture) order(t *testing.T) []string {
	t.Helper()
	nodes, err := f.svc.ListNodes(context.Background(), ws)
	require.NoError(t, err)
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Title
	}
	return out
}

func (f *fixture) persistedOrder(t *testing.T) []string {
	t.Helper()
	nodes, err := f.repo.LoadAll(context.Background(), ws)
	require.NoError(t, err)
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Title
	}
	return out
}

// build creates A{B{D}, C} and returns the nodes by title
func (f *fixture) build(t *testing.T) map[string]*models.Node {
	a := f.create(t, nil, models.KindFolder, "A")
	b := f.create(t, &a.ID, models.KindFolder, "B")
	c := f.create(t, &a.ID, models.KindDocument, "C")
	d := f.create(t, &b.ID, models.KindDocument, "D")
	return map[string]*models.Node{"A": a, "B": b, "C": c, "D": d}
}

func TestCreateNode(t *testing.T) {
	f := newFixture(t)
	nodes := f.build(t)

	assert.Equal(t, []string{"A", "B", "D", "C"}, f.order(t))
	assert.Equal(t, f.order(t), f.persistedOrder(t))
	assert.True(t, nodes["A"].IsFolder)
	assert.False(t, nodes["C"].IsFolder)
	assert.Equal(t, nodes["A"].ID, *nodes["C"].ParentID)
	assert.Equal(t, []string{}, nodes["C"].Tags)

	tree, err := f.svc.GetTree(context.Background(), ws)
	require.NoError(t, err)
	require.Len(t, tree, 1)
	require.Len(t, tree[0].Children, 2)
	assert.Equal(t, "B", tree[0].Children[0].Title)
	assert.Equal(t, "D", tree[0].Children[0].Children[0].Title)
}

func TestCreateNode_WithInitialFields(t *testing.T) {
	f := newFixture(t)
	body := "hello"
	node, err := f.svc.CreateNode(context.Background(), &docsysSvc.CreateNodeRequest{
		WorkspaceID: ws,
		Kind:        models.KindDocument,
		Body:        &body,
		Tags:        []string{"x", "x", "y"},
	})
	require.NoError(t, err)
	assert.Equal(t, "", node.Title)
	assert.Equal(t, "hello", node.Body)
	assert.Equal(t, []string{"x", "y"}, node.Tags)
}

func TestCreateNode_Validation(t *testing.T) {
	f := newFixture(t)
	tooMany := make([]string, 40)
	for i := range tooMany {
		tooMany[i] = fmt.Sprintf("t%d", i)
	}

	tests := []struct {
		name string
		req  docsysSvc.CreateNodeRequest
	}{
		{"bad kind", docsysSvc.CreateNodeRequest{WorkspaceID: ws, Kind: "sheet"}},
		{"missing kind", docsysSvc.CreateNodeRequest{WorkspaceID: ws}},
		{"bad workspace", docsysSvc.CreateNodeRequest{WorkspaceID: "../etc", Kind: models.KindDocument}},
		{"empty parent id", docsysSvc.CreateNodeRequest{WorkspaceID: ws, Kind: models.KindDocument, ParentID: new(string)}},
		{"too many tags", docsysSvc.CreateNodeRequest{WorkspaceID: ws, Kind: models.KindDocument, Tags: tooMany}},
		{"blank tag", docsysSvc.CreateNodeRequest{WorkspaceID: ws, Kind: models.KindDocument, Tags: []string{"ok", ""}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateNode(context.Background(), &tt.req)
			assert.True(t, errors.Is(err, domain.ErrValidation), "got %v", err)
		})
	}
}

func TestCreateNode_UnknownParent(t *testing.T) {
	f := newFixture(t)
	missing := "nope"
	_, err := f.svc.CreateNode(context.Background(), &docsysSvc.CreateNodeRequest{
		WorkspaceID: ws, ParentID: &missing, Kind: models.KindDocument,
	})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestMoveNode(t *testing.T) {
	f := newFixture(t)
	nodes := f.build(t)

	moved, err := f.svc.MoveNode(context.Background(), &docsysSvc.MoveNodeRequest{
		WorkspaceID: ws,
		NodeID:      nodes["C"].ID,
		TargetID:    httputil.OptionalString{Present: true, Value: &nodes["B"].ID},
		Position:    models.PositionChild,
	})
	require.NoError(t, err)
	assert.Equal(t, nodes["B"].ID, *moved.ParentID)
	assert.Equal(t, []string{"A", "B", "D", "C"}, f.order(t))
	assert.Equal(t, f.order(t), f.persistedOrder(t))

	// to root, before everything
	_, err = f.svc.MoveNode(context.Background(), &docsysSvc.MoveNodeRequest{
		WorkspaceID: ws,
		NodeID:      nodes["D"].ID,
		TargetID:    httputil.OptionalString{Present: true},
		Position:    models.PositionBefore,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"D", "A", "B", "C"}, f.order(t))
}

func TestMoveNode_RejectionChangesNothing(t *testing.T) {
	f := newFixture(t)
	nodes := f.build(t)
	before := f.persistedOrder(t)

	_, err := f.svc.MoveNode(context.Background(), &docsysSvc.MoveNodeRequest{
		WorkspaceID: ws,
		NodeID:      nodes["A"].ID,
		TargetID:    httputil.OptionalString{Present: true, Value: &nodes["D"].ID},
		Position:    models.PositionChild,
	})
	require.Error(t, err)

	var opErr *domain.InvalidOperationError
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, domain.ReasonCycle, opErr.Reason)

	assert.Equal(t, before, f.order(t))
	assert.Equal(t, before, f.persistedOrder(t))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.RejectionsTotal.WithLabelValues("cycle")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.OperationsTotal.WithLabelValues("move", metrics.StatusRejected)))
}

func TestMoveNode_Validation(t *testing.T) {
	f := newFixture(t)
	nodes := f.build(t)

	_, err := f.svc.MoveNode(context.Background(), &docsysSvc.MoveNodeRequest{
		WorkspaceID: ws, NodeID: nodes["C"].ID, Position: models.PositionChild,
	})
	assert.True(t, errors.Is(err, domain.ErrValidation), "absent target_id")

	_, err = f.svc.MoveNode(context.Background(), &docsysSvc.MoveNodeRequest{
		WorkspaceID: ws, NodeID: nodes["C"].ID, Position: "inside",
		TargetID: httputil.OptionalString{Present: true},
	})
	assert.True(t, errors.Is(err, domain.ErrValidation), "bad position")
}

func TestDuplicateNode(t *testing.T) {
	f := newFixture(t)
	nodes := f.build(t)

	dup, err := f.svc.DuplicateNode(context.Background(), ws, nodes["B"].ID)
	require.NoError(t, err)
	assert.Equal(t, "B (Copy)", dup.Title)
	assert.Equal(t, []string{"A", "B", "D", "B (Copy)", "C"}, f.order(t))
}

func TestDeleteNode(t *testing.T) {
	f := newFixture(t)
	nodes := f.build(t)

	result, err := f.svc.DeleteNode(context.Background(), ws, nodes["B"].ID)
	require.NoError(t, err)
	assert.Equal(t, []string{nodes["B"].ID, nodes["D"].ID}, result.RemovedIDs)
	assert.Equal(t, []string{"A", "C"}, f.order(t))
	assert.Equal(t, []string{"A", "C"}, f.persistedOrder(t))
	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.RemovedNodesTotal))

	_, err = f.svc.DeleteNode(context.Background(), ws, nodes["B"].ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestUpdateNode(t *testing.T) {
	f := newFixture(t)
	nodes := f.build(t)

	title := "Renamed"
	deleted := true
	node, err := f.svc.UpdateNode(context.Background(), &docsysSvc.UpdateNodeRequest{
		WorkspaceID: ws,
		NodeID:      nodes["C"].ID,
		Title:       &title,
		IsDeleted:   &deleted,
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", node.Title)
	assert.True(t, node.IsDeleted)
	assert.Equal(t, []string{"A", "B", "D", "Renamed"}, f.order(t))

	badTags := []string{""}
	_, err = f.svc.UpdateNode(context.Background(), &docsysSvc.UpdateNodeRequest{
		WorkspaceID: ws, NodeID: nodes["C"].ID, Tags: &badTags,
	})
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestSearchNodes(t *testing.T) {
	f := newFixture(t)
	nodes := f.build(t)

	body := `{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"Quarterly budget review"}]}]}`
	_, err := f.svc.UpdateNode(context.Background(), &docsysSvc.UpdateNodeRequest{
		WorkspaceID: ws, NodeID: nodes["D"].ID, Body: &body,
	})
	require.NoError(t, err)

	results, err := f.svc.SearchNodes(context.Background(), &docsysSvc.SearchNodesRequest{WorkspaceID: ws, Query: "BUDGET"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, nodes["D"].ID, results[0].Node.ID)
	assert.Equal(t, models.SearchFieldBody, results[0].MatchedField)
	assert.Equal(t, "Quarterly budget review", results[0].Snippet)

	results, err = f.svc.SearchNodes(context.Background(), &docsysSvc.SearchNodesRequest{WorkspaceID: ws, Query: "  "})
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)

	_, err = f.svc.SearchNodes(context.Background(), &docsysSvc.SearchNodesRequest{WorkspaceID: ws, Query: "a", Limit: 10_000})
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestSessionReloadsFromStorage(t *testing.T) {
	f := newFixture(t)
	f.build(t)

	other := newFixtureWithRepo(t, f.repo, f.repo)
	assert.Equal(t, []string{"A", "B", "D", "C"}, other.order(t))

	ids, err := other.svc.ListWorkspaces(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{ws}, ids)
}

type failingRepo struct {
	*memory.NodeRepository
	fail bool
}

func (r *failingRepo) ReplaceAll(ctx context.Context, workspaceID string, nodes []models.Node) error {
	if r.fail {
		return errors.New("disk full")
	}
	return r.NodeRepository.ReplaceAll(ctx, workspaceID, nodes)
}

func TestPersistFailureKeepsSession(t *testing.T) {
	repo := memory.NewNodeRepository()
	failing := &failingRepo{NodeRepository: repo}
	f := newFixtureWithRepo(t, repo, failing)
	nodes := f.build(t)

	failing.fail = true
	_, err := f.svc.DeleteNode(context.Background(), ws, nodes["A"].ID)
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrNotFound))

	assert.Equal(t, []string{"A", "B", "D", "C"}, f.order(t))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.OperationsTotal.WithLabelValues("delete", metrics.StatusError)))
}

func TestReplaceAndCheckWorkspace(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	root := "r"
	good := []models.Node{{ID: "r", Title: "R"}, {ID: "c", Title: "C", ParentID: &root}}
	require.NoError(t, f.svc.ReplaceNodes(ctx, ws, good))
	assert.Equal(t, []string{"R", "C"}, f.order(t))
	require.NoError(t, f.svc.CheckWorkspace(ctx, ws))

	bad := []models.Node{{ID: "c", Title: "C", ParentID: &root}, {ID: "r", Title: "R"}}
	err := f.svc.ReplaceNodes(ctx, ws, bad)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.Equal(t, []string{"R", "C"}, f.order(t))

	// broken data written behind the service's back is reported, and still served
	require.NoError(t, f.repo.ReplaceAll(ctx, "legacy", bad))
	var cErr *hierarchy.ContiguityError
	require.True(t, errors.As(f.svc.CheckWorkspace(ctx, "legacy"), &cErr))

	tree, err := f.svc.GetTree(ctx, "legacy")
	require.NoError(t, err)
	assert.Len(t, tree, 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.InvariantFailures))
}

func TestConcurrentCreates(t *testing.T) {
	f := newFixture(t)
	root := f.create(t, nil, models.KindFolder, "root")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			parent := &root.ID
			if i%2 == 0 {
				parent = nil
			}
			title := fmt.Sprintf("doc-%d", i)
			_, err := f.svc.CreateNode(context.Background(), &docsysSvc.CreateNodeRequest{
				WorkspaceID: ws, ParentID: parent, Kind: models.KindDocument, Title: &title,
			})
			assert.NoError(t, err)
			_, err = f.svc.GetTree(context.Background(), ws)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	nodes, err := f.svc.ListNodes(context.Background(), ws)
	require.NoError(t, err)
	assert.Len(t, nodes, 21)
	assert.NoError(t, hierarchy.CheckContiguity(nodes))
	assert.Equal(t, len(nodes), len(f.persistedOrder(t)))
}
