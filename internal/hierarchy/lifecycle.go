package hierarchy

import (
	"fmt"

	"doctree/internal/domain"
	models "doctree/internal/domain/models/docsystem"
)

// CopySuffix is appended to the title of a duplicated node
const CopySuffix = " (Copy)"

// Create adds an empty node as the last child of parentID, or as the last
// root when parentID is nil
func (s *Store) Create(parentID *string, kind models.Kind) (models.Node, error) {
	if kind != models.KindDocument && kind != models.KindFolder {
		return models.Node{}, &domain.ValidationError{Message: fmt.Sprintf("invalid kind %q (expected document or folder)", kind)}
	}

	at := len(s.nodes)
	if parentID != nil {
		pi := indexOf(s.nodes, *parentID)
		if pi < 0 {
			return models.Node{}, notFound(*parentID)
		}
		at = subtreeEnd(s.nodes, pi)
	}

	now := s.now()
	node := models.Node{
		ID:        s.newID(),
		ParentID:  clonePtr(parentID),
		IsFolder:  kind == models.KindFolder,
		Tags:      []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.nodes = splice(s.nodes, at, []models.Node{node})
	return node.Clone(), nil
}

// Duplicate clones a single node, never its children. The copy keeps the
// parent and body, gets a fresh id and timestamps, and becomes the sibling
// right behind the original. It is placed after the original's descendants
// so that the sequence stays contiguous.
func (s *Store) Duplicate(id string) (models.Node, error) {
	i := indexOf(s.nodes, id)
	if i < 0 {
		return models.Node{}, notFound(id)
	}

	now := s.now()
	dup := s.nodes[i].Clone()
	dup.ID = s.newID()
	dup.Title = dup.Title + CopySuffix
	dup.CreatedAt = now
	dup.UpdatedAt = now
	if dup.Tags == nil {
		dup.Tags = []string{}
	}

	s.nodes = splice(s.nodes, subtreeEnd(s.nodes, i), []models.Node{dup})
	return dup.Clone(), nil
}

// CascadingDelete removes id and every node whose parent chain passes
// through it, in one step. Membership is decided by parent matching, not by
// position, so a store whose order was disturbed still loses exactly the
// right nodes. Removed ids are returned in sequence order.
func (s *Store) CascadingDelete(id string) ([]string, error) {
	if indexOf(s.nodes, id) < 0 {
		return nil, notFound(id)
	}

	removed, kept := partition(s.nodes, descendantSet(s.nodes, id))
	ids := make([]string, len(removed))
	for i := range removed {
		ids[i] = removed[i].ID
	}
	s.nodes = kept
	return ids, nil
}

// Update assigns the patch's fields in place and bumps UpdatedAt. Structure
// and order never change here.
func (s *Store) Update(id string, patch models.NodePatch) (models.Node, error) {
	i := indexOf(s.nodes, id)
	if i < 0 {
		return models.Node{}, notFound(id)
	}
	if patch.Empty() {
		return s.nodes[i].Clone(), nil
	}

	patch.Apply(&s.nodes[i])
	s.nodes[i].UpdatedAt = s.now()
	return s.nodes[i].Clone(), nil
}

// Create is the functional form of Store.Create
func Create(nodes []models.Node, parentID *string, kind models.Kind, opts ...Option) ([]models.Node, models.Node, error) {
	s := NewStore(nodes, opts...)
	node, err := s.Create(parentID, kind)
	if err != nil {
		return nodes, models.Node{}, err
	}
	return s.nodes, node, nil
}

// Duplicate is the functional form of Store.Duplicate
func Duplicate(nodes []models.Node, id string, opts ...Option) ([]models.Node, models.Node, error) {
	s := NewStore(nodes, opts...)
	node, err := s.Duplicate(id)
	if err != nil {
		return nodes, models.Node{}, err
	}
	return s.nodes, node, nil
}

// CascadingDelete is the functional form of Store.CascadingDelete
func CascadingDelete(nodes []models.Node, id string) ([]models.Node, []string, error) {
	s := NewStore(nodes)
	removed, err := s.CascadingDelete(id)
	if err != nil {
		return nodes, nil, err
	}
	return s.nodes, removed, nil
}

func clonePtr(p *string) *string {
	if p == nil {
		return nil
	}
	return ptr(*p)
}
