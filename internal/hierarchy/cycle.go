package hierarchy

import (
	models "doctree/internal/domain/models/docsystem"
)

// IsDescendant reports whether nodeID is ancestorID itself or lies anywhere
// below it. A node counts as its own descendant so that a single check
// rejects both self-moves and cycles.
func IsDescendant(nodes []models.Node, ancestorID, nodeID string) bool {
	if nodeID == ancestorID {
		return true
	}

	parents := make(map[string]*string, len(nodes))
	for i := range nodes {
		parents[nodes[i].ID] = nodes[i].ParentID
	}

	// Walk up from nodeID. The step bound keeps a corrupted (cyclic) store
	// from looping forever.
	cur, ok := parents[nodeID]
	for steps := 0; ok && cur != nil && steps <= len(nodes); steps++ {
		if *cur == ancestorID {
			return true
		}
		cur, ok = parents[*cur]
	}
	return false
}

// IsDescendant is the store-bound form of the package function
func (s *Store) IsDescendant(ancestorID, nodeID string) bool {
	return IsDescendant(s.nodes, ancestorID, nodeID)
}

// Ancestors returns the chain of ancestor ids of id, nearest first
func (s *Store) Ancestors(id string) ([]string, error) {
	i := indexOf(s.nodes, id)
	if i < 0 {
		return nil, notFound(id)
	}

	var chain []string
	cur := s.nodes[i].ParentID
	for steps := 0; cur != nil && steps < len(s.nodes); steps++ {
		chain = append(chain, *cur)
		j := indexOf(s.nodes, *cur)
		if j < 0 {
			break
		}
		cur = s.nodes[j].ParentID
	}
	return chain, nil
}
