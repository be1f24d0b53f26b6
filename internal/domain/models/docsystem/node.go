package docsystem

import (
	"slices"
	"time"
)

// UntitledTitle is shown in place of an empty title. It is never stored.
const UntitledTitle = "Untitled"

// Kind selects what Create produces
type Kind string

const (
	KindDocument Kind = "document"
	KindFolder   Kind = "folder"
)

// Position says where a dragged node lands relative to its drop target
type Position string

const (
	PositionBefore Position = "before"
	PositionAfter  Position = "after"
	PositionChild  Position = "child"
)

// Valid reports whether p is one of the three drop positions
func (p Position) Valid() bool {
	switch p {
	case PositionBefore, PositionAfter, PositionChild:
		return true
	}
	return false
}

// Node is a document or folder. Structure is encoded only by ParentID and
// by the node's position in its store.
type Node struct {
	ID         string    `json:"id" db:"id"`
	Title      string    `json:"title" db:"title"`
	Body       string    `json:"body" db:"body"`           // Editor payload, opaque to the hierarchy
	ParentID   *string   `json:"parent_id" db:"parent_id"` // NULL = root level
	IsFolder   bool      `json:"is_folder" db:"is_folder"` // Rendering hint only, any node may have children
	IsExpanded bool      `json:"is_expanded" db:"is_expanded"`
	IsArchived bool      `json:"is_archived" db:"is_archived"`
	IsDeleted  bool      `json:"is_deleted" db:"is_deleted"`
	Tags       []string  `json:"tags" db:"tags"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// DisplayTitle returns the title, or "Untitled" when it is empty
func (n *Node) DisplayTitle() string {
	if n.Title == "" {
		return UntitledTitle
	}
	return n.Title
}

// IsRoot reports whether the node sits at root level
func (n *Node) IsRoot() bool {
	return n.ParentID == nil
}

// Clone returns a copy that shares no memory with n
func (n Node) Clone() Node {
	c := n
	if n.ParentID != nil {
		p := *n.ParentID
		c.ParentID = &p
	}
	c.Tags = slices.Clone(n.Tags)
	return c
}

// NodePatch carries simple field assignments. Nil fields are left untouched.
type NodePatch struct {
	Title      *string   `json:"title,omitempty"`
	Body       *string   `json:"body,omitempty"`
	IsExpanded *bool     `json:"is_expanded,omitempty"`
	IsArchived *bool     `json:"is_archived,omitempty"`
	IsDeleted  *bool     `json:"is_deleted,omitempty"`
	Tags       *[]string `json:"tags,omitempty"`
}

// Empty reports whether the patch changes nothing
func (p *NodePatch) Empty() bool {
	return p.Title == nil && p.Body == nil && p.IsExpanded == nil &&
		p.IsArchived == nil && p.IsDeleted == nil && p.Tags == nil
}

// Apply assigns the present fields to n. Tags are de-duplicated since they form a set.
func (p *NodePatch) Apply(n *Node) {
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Body != nil {
		n.Body = *p.Body
	}
	if p.IsExpanded != nil {
		n.IsExpanded = *p.IsExpanded
	}
	if p.IsArchived != nil {
		n.IsArchived = *p.IsArchived
	}
	if p.IsDeleted != nil {
		n.IsDeleted = *p.IsDeleted
	}
	if p.Tags != nil {
		n.Tags = NormalizeTags(*p.Tags)
	}
}

// NormalizeTags drops duplicates while keeping first-seen order
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
