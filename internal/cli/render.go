package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"

	models "doctree/internal/domain/models/docsystem"
)

var (
	folderStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	documentStyle  = lipgloss.NewStyle()
	mutedStyle     = lipgloss.NewStyle().Faint(true)
	deletedStyle   = lipgloss.NewStyle().Strikethrough(true).Faint(true)
	enumStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).PaddingRight(1)
	highlightStyle = lipgloss.NewStyle().Bold(true).Underline(true)
)

// label renders one node line: marker, title and id
func label(n *models.Node, hasChildren bool) string {
	title := n.DisplayTitle()
	style := documentStyle
	if n.IsFolder || hasChildren {
		style = folderStyle
	}
	if n.IsDeleted {
		style = deletedStyle
	}

	var b strings.Builder
	b.WriteString(style.Render(title))
	if n.IsArchived {
		b.WriteString(mutedStyle.Render(" (archived)"))
	}
	b.WriteString(" ")
	b.WriteString(mutedStyle.Render("[" + n.ID + "]"))
	return b.String()
}

// renderForest draws the forest with box-drawing guides. With collapse set,
// children of collapsed nodes are hidden and the node gets a "+" marker.
func renderForest(forest []*models.TreeNode, collapse bool) string {
	t := tree.New().
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(enumStyle)
	for _, root := range forest {
		t.Child(buildTree(root, collapse))
	}
	return t.String()
}

func buildTree(n *models.TreeNode, collapse bool) any {
	text := label(&n.Node, n.HasChildren())
	if !n.HasChildren() {
		return text
	}
	if collapse && !n.IsExpanded {
		return text + mutedStyle.Render(fmt.Sprintf(" +%d", countDescendants(n)))
	}

	sub := tree.Root(text).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(enumStyle)
	for _, c := range n.Children {
		sub.Child(buildTree(c, collapse))
	}
	return sub
}

func countDescendants(n *models.TreeNode) int {
	total := 0
	for _, c := range n.Children {
		total += 1 + countDescendants(c)
	}
	return total
}

// depths maps each id to its nesting level. The sequence is contiguous, so a
// parent's depth is always known before its children are reached.
func depths(nodes []models.Node) map[string]int {
	out := make(map[string]int, len(nodes))
	for i := range nodes {
		if p := nodes[i].ParentID; p != nil {
			out[nodes[i].ID] = out[*p] + 1
			continue
		}
		out[nodes[i].ID] = 0
	}
	return out
}

// highlight marks every case-insensitive occurrence of query in s
func highlight(s, query string) string {
	if query == "" {
		return s
	}
	lower := strings.ToLower(s)
	q := strings.ToLower(query)
	if len(lower) != len(s) {
		return s
	}

	var b strings.Builder
	for {
		i := strings.Index(lower, q)
		if i < 0 {
			b.WriteString(s)
			return b.String()
		}
		b.WriteString(s[:i])
		b.WriteString(highlightStyle.Render(s[i : i+len(q)]))
		s, lower = s[i+len(q):], lower[i+len(q):]
	}
}
