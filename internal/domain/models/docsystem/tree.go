package docsystem

// TreeNode is a Node with its nested children, ready for rendering
type TreeNode struct {
	Node
	Children []*TreeNode `json:"children"` // Pointers for proper nesting
}

// HasChildren drives expand/collapse affordances. IsFolder is not consulted.
func (t *TreeNode) HasChildren() bool {
	return len(t.Children) > 0
}

// Walk visits t and its descendants in pre-order with their depth
func (t *TreeNode) Walk(depth int, fn func(n *TreeNode, depth int)) {
	fn(t, depth)
	for _, child := range t.Children {
		child.Walk(depth+1, fn)
	}
}
