// Package hierarchy keeps a flat, ordered collection of nodes organised as a
// forest. The order of the sequence is the pre-order flattening of the forest:
// every node precedes all of its descendants and a node's descendants form one
// unbroken run. Every mutation leaves the sequence in that shape.
//
// Nothing in this package is safe for concurrent mutation. Callers serialise
// writes per store; reads may share an unchanging snapshot.
package hierarchy

import (
	"time"

	"github.com/google/uuid"

	"doctree/internal/domain"
	models "doctree/internal/domain/models/docsystem"
)

// Clock supplies timestamps for created/updated fields
type Clock func() time.Time

// IDGenerator allocates node ids
type IDGenerator func() string

// Option configures a Store
type Option func(*Store)

// WithClock overrides time.Now
func WithClock(clock Clock) Option {
	return func(s *Store) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithIDGenerator overrides uuid.NewString
func WithIDGenerator(gen IDGenerator) Option {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// Store owns an ordered node sequence
type Store struct {
	nodes []models.Node
	now   Clock
	newID IDGenerator
}

// NewStore takes a copy of nodes. The input is expected to already satisfy
// the contiguity invariant; see CheckContiguity.
func NewStore(nodes []models.Node, opts ...Option) *Store {
	s := &Store{
		nodes: cloneNodes(nodes),
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Nodes returns a snapshot of the sequence
func (s *Store) Nodes() []models.Node {
	return cloneNodes(s.nodes)
}

// Len returns the number of nodes
func (s *Store) Len() int {
	return len(s.nodes)
}

// Get returns a copy of the node with the given id
func (s *Store) Get(id string) (models.Node, error) {
	i := indexOf(s.nodes, id)
	if i < 0 {
		return models.Node{}, notFound(id)
	}
	return s.nodes[i].Clone(), nil
}

// Clone returns an independent store sharing the same clock and id generator
func (s *Store) Clone() *Store {
	return &Store{
		nodes: cloneNodes(s.nodes),
		now:   s.now,
		newID: s.newID,
	}
}

// Forest builds the display tree of the current sequence
func (s *Store) Forest() []*models.TreeNode {
	return BuildForest(s.nodes)
}

// Check verifies the store's structural invariants
func (s *Store) Check() error {
	return CheckContiguity(s.nodes)
}

func cloneNodes(nodes []models.Node) []models.Node {
	out := make([]models.Node, len(nodes))
	for i := range nodes {
		out[i] = nodes[i].Clone()
	}
	return out
}

func indexOf(nodes []models.Node, id string) int {
	for i := range nodes {
		if nodes[i].ID == id {
			return i
		}
	}
	return -1
}

// subtreeEnd returns the index one past the last descendant of nodes[i].
// It scans forward while each node's parent is already inside the run,
// which is exact when the sequence is contiguous.
func subtreeEnd(nodes []models.Node, i int) int {
	inside := map[string]struct{}{nodes[i].ID: {}}
	j := i + 1
	for ; j < len(nodes); j++ {
		p := nodes[j].ParentID
		if p == nil {
			break
		}
		if _, ok := inside[*p]; !ok {
			break
		}
		inside[nodes[j].ID] = struct{}{}
	}
	return j
}

// descendantSet returns id plus every node whose parent chain passes through
// id, found by parent matching. Array position plays no part.
func descendantSet(nodes []models.Node, id string) map[string]struct{} {
	children := make(map[string][]string, len(nodes))
	for i := range nodes {
		if p := nodes[i].ParentID; p != nil {
			children[*p] = append(children[*p], nodes[i].ID)
		}
	}

	set := map[string]struct{}{id: {}}
	queue := []string{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, child := range children[cur] {
			if _, seen := set[child]; seen {
				continue
			}
			set[child] = struct{}{}
			queue = append(queue, child)
		}
	}
	return set
}

// partition splits nodes into members of set and the rest, each in original order
func partition(nodes []models.Node, set map[string]struct{}) (in, out []models.Node) {
	in = make([]models.Node, 0, len(set))
	out = make([]models.Node, 0, max(len(nodes)-len(set), 0))
	for _, n := range nodes {
		if _, ok := set[n.ID]; ok {
			in = append(in, n)
		} else {
			out = append(out, n)
		}
	}
	return in, out
}

// splice inserts block into nodes at index at
func splice(nodes []models.Node, at int, block []models.Node) []models.Node {
	out := make([]models.Node, 0, len(nodes)+len(block))
	out = append(out, nodes[:at]...)
	out = append(out, block...)
	out = append(out, nodes[at:]...)
	return out
}

func notFound(id string) error {
	return domain.NewNotFound(id)
}

func ptr[T any](v T) *T {
	return &v
}
