package hierarchy

import (
	models "doctree/internal/domain/models/docsystem"
)

// BuildForest nests a flat node sequence into trees. The input is not modified.
//
// Nodes are attached to their parents in sequence order, so on a contiguous
// sequence every children slice is already in sibling order. A node whose
// parent is nil, or does not resolve, becomes a root.
func BuildForest(nodes []models.Node) []*models.TreeNode {
	// First pass: create all tree nodes
	byID := make(map[string]*models.TreeNode, len(nodes))
	for i := range nodes {
		byID[nodes[i].ID] = &models.TreeNode{
			Node:     nodes[i].Clone(),
			Children: []*models.TreeNode{},
		}
	}

	// Second pass: connect children to parents in store order
	roots := make([]*models.TreeNode, 0)
	for i := range nodes {
		node := byID[nodes[i].ID]
		if p := nodes[i].ParentID; p != nil {
			if parent, exists := byID[*p]; exists && parent != node {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	return roots
}

// Flatten walks a forest in pre-order, the inverse of BuildForest on a
// contiguous sequence
func Flatten(forest []*models.TreeNode) []models.Node {
	var out []models.Node
	for _, root := range forest {
		root.Walk(0, func(n *models.TreeNode, _ int) {
			out = append(out, n.Node.Clone())
		})
	}
	return out
}
