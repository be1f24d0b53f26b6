package hierarchy

import (
	"fmt"

	"doctree/internal/domain"
	models "doctree/internal/domain/models/docsystem"
)

// ContiguityError describes the first position at which a sequence stops
// being a pre-order flattening of its forest
type ContiguityError struct {
	Index  int
	NodeID string
	Detail string
}

func (e *ContiguityError) Error() string {
	return fmt.Sprintf("contiguity violated at index %d (node %s): %s", e.Index, e.NodeID, e.Detail)
}

// CheckContiguity verifies that ids are unique, every parent resolves, and
// the sequence is a pre-order flattening: each node's parent is an ancestor
// on the currently open path. The last condition implies parents precede
// children, descendants are unbroken runs, and there are no cycles.
func CheckContiguity(nodes []models.Node) error {
	seen := make(map[string]int, len(nodes))
	for i := range nodes {
		if j, dup := seen[nodes[i].ID]; dup {
			return &ContiguityError{Index: i, NodeID: nodes[i].ID, Detail: fmt.Sprintf("duplicate id (first at index %d)", j)}
		}
		seen[nodes[i].ID] = i
	}
	for i := range nodes {
		if p := nodes[i].ParentID; p != nil {
			if _, ok := seen[*p]; !ok {
				return &domain.DanglingReferenceError{NodeID: nodes[i].ID, ParentID: *p}
			}
		}
	}

	// path holds the ids from a root down to the previous node
	var path []string
	for i := range nodes {
		n := &nodes[i]
		if n.ParentID == nil {
			path = append(path[:0], n.ID)
			continue
		}
		for len(path) > 0 && path[len(path)-1] != *n.ParentID {
			path = path[:len(path)-1]
		}
		if len(path) == 0 {
			detail := "parent " + *n.ParentID + " is not an open ancestor"
			if seen[*n.ParentID] > i {
				detail = "parent " + *n.ParentID + " appears after its child"
			}
			return &ContiguityError{Index: i, NodeID: n.ID, Detail: detail}
		}
		path = append(path, n.ID)
	}
	return nil
}
