package hierarchy

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doctree/internal/domain"
	models "doctree/internal/domain/models/docsystem"
)

func shape(forest []*models.TreeNode) map[string][]string {
	out := map[string][]string{}
	for _, root := range forest {
		out[""] = append(out[""], root.ID)
		root.Walk(0, func(t *models.TreeNode, _ int) {
			for _, c := range t.Children {
				out[t.ID] = append(out[t.ID], c.ID)
			}
		})
	}
	return out
}

func TestBuildForest(t *testing.T) {
	forest := BuildForest(sample())

	want := map[string][]string{
		"":  {"A", "E"},
		"A": {"B", "C"},
		"B": {"D"},
	}
	assert.Equal(t, want, shape(forest))

	require.Len(t, forest, 2)
	assert.True(t, forest[0].HasChildren())
	assert.False(t, forest[1].HasChildren())
	assert.NotNil(t, forest[1].Children, "leaf children should be an empty slice")
}

func TestBuildForest_Empty(t *testing.T) {
	forest := BuildForest(nil)
	assert.NotNil(t, forest)
	assert.Empty(t, forest)
}

func TestBuildForest_DanglingAndSelfParentBecomeRoots(t *testing.T) {
	nodes := []models.Node{n("A", ""), n("X", "ghost"), n("S", "S"), n("B", "A")}

	assert.Equal(t, map[string][]string{
		"":  {"A", "X", "S"},
		"A": {"B"},
	}, shape(BuildForest(nodes)))
}

func TestBuildForest_DoesNotModifyInput(t *testing.T) {
	input := sample()
	snapshot := cloneNodes(input)

	forest := BuildForest(input)
	forest[0].Title = "changed"
	*forest[0].Children[0].ParentID = "changed"

	if diff := cmp.Diff(snapshot, input); diff != "" {
		t.Errorf("input mutated (-want +got):\n%s", diff)
	}
}

func TestFlatten_RoundTrip(t *testing.T) {
	input := sample()
	if diff := cmp.Diff(input, Flatten(BuildForest(input))); diff != "" {
		t.Errorf("round trip differs (-want +got):\n%s", diff)
	}
	assert.Nil(t, Flatten(nil))
}

func TestWalkDepth(t *testing.T) {
	depths := map[string]int{}
	for _, root := range BuildForest(sample()) {
		root.Walk(0, func(t *models.TreeNode, d int) { depths[t.ID] = d })
	}
	assert.Equal(t, map[string]int{"A": 0, "B": 1, "D": 2, "C": 1, "E": 0}, depths)
}

func TestIsDescendant(t *testing.T) {
	nodes := sample()

	tests := []struct {
		ancestor, node string
		want           bool
	}{
		{"A", "A", true},
		{"A", "B", true},
		{"A", "D", true},
		{"B", "D", true},
		{"B", "C", false},
		{"D", "A", false},
		{"E", "D", false},
		{"A", "missing", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsDescendant(nodes, tt.ancestor, tt.node), "%s above %s", tt.ancestor, tt.node)
	}
}

func TestIsDescendant_TerminatesOnCorruptCycle(t *testing.T) {
	nodes := []models.Node{n("X", "Y"), n("Y", "X")}
	assert.False(t, IsDescendant(nodes, "Z", "X"))
	assert.True(t, IsDescendant(nodes, "Y", "X"))
}

func TestAncestors(t *testing.T) {
	s := NewStore(sample())

	chain, err := s.Ancestors("D")
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, chain)

	chain, err = s.Ancestors("E")
	require.NoError(t, err)
	assert.Empty(t, chain)

	_, err = s.Ancestors("Z")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCheckContiguity(t *testing.T) {
	tests := []struct {
		name      string
		nodes     []models.Node
		wantIndex int // -1: valid
	}{
		{"empty", nil, -1},
		{"sample", sample(), -1},
		{"parent after child", []models.Node{n("B", "A"), n("A", "")}, 0},
		{"broken descendant run", []models.Node{n("A", ""), n("B", "A"), n("C", "A"), n("D", "B")}, 3},
		{"root splits a subtree", []models.Node{n("A", ""), n("E", ""), n("B", "A")}, 2},
		{"duplicate id", []models.Node{n("A", ""), n("A", "")}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckContiguity(tt.nodes)
			if tt.wantIndex < 0 {
				assert.NoError(t, err)
				return
			}
			var cErr *ContiguityError
			require.True(t, errors.As(err, &cErr), "got %v", err)
			assert.Equal(t, tt.wantIndex, cErr.Index)
		})
	}
}

func TestCheckContiguity_Dangling(t *testing.T) {
	err := CheckContiguity([]models.Node{n("A", ""), n("B", "ghost")})

	var dErr *domain.DanglingReferenceError
	require.True(t, errors.As(err, &dErr))
	assert.Equal(t, "B", dErr.NodeID)
	assert.Equal(t, "ghost", dErr.ParentID)
	assert.True(t, errors.Is(err, domain.ErrDanglingReference))
}
