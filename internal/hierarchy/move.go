package hierarchy

import (
	"fmt"

	"doctree/internal/domain"
	models "doctree/internal/domain/models/docsystem"
)

// Move relocates draggedID, together with its whole subtree, relative to
// targetID. A nil target means root level.
//
//   - child:  dragged becomes the last child of target (nil: last root)
//   - before: dragged becomes target's sibling directly in front of it (nil: first root)
//   - after:  dragged becomes target's sibling directly behind it (nil: last root)
//
// Every rejection is decided before anything changes, so a failed Move leaves
// the store exactly as it was.
func (s *Store) Move(draggedID string, targetID *string, position models.Position) error {
	if !position.Valid() {
		return &domain.ValidationError{Message: fmt.Sprintf("invalid position %q (expected before, after or child)", position)}
	}

	di := indexOf(s.nodes, draggedID)
	if di < 0 {
		return notFound(draggedID)
	}

	var newParent *string
	if targetID != nil {
		if *targetID == draggedID {
			return &domain.InvalidOperationError{
				Message: "cannot move onto itself",
				Reason:  domain.ReasonSelfMove,
			}
		}
		ti := indexOf(s.nodes, *targetID)
		if ti < 0 {
			return notFound(*targetID)
		}
		if IsDescendant(s.nodes, draggedID, *targetID) {
			return &domain.InvalidOperationError{
				Message: "cannot move a node into its own subtree",
				Reason:  domain.ReasonCycle,
			}
		}

		if position == models.PositionChild {
			newParent = ptr(*targetID)
		} else if p := s.nodes[ti].ParentID; p != nil {
			newParent = ptr(*p)
		}
	}

	// Commit: lift the dragged block out, preserving its internal order
	block, rest := partition(s.nodes, descendantSet(s.nodes, draggedID))
	if bi := indexOf(block, draggedID); bi > 0 {
		// only reachable on a store that was already non-contiguous
		dragged := block[bi]
		copy(block[1:bi+1], block[:bi])
		block[0] = dragged
	}
	block[0].ParentID = newParent
	block[0].UpdatedAt = s.now()

	at := insertionIndex(rest, targetID, position)
	s.nodes = splice(rest, at, block)
	return nil
}

// insertionIndex computes where the dragged block goes in the sequence that
// no longer contains it
func insertionIndex(rest []models.Node, targetID *string, position models.Position) int {
	if targetID == nil {
		if position == models.PositionBefore {
			return 0
		}
		return len(rest)
	}

	ti := indexOf(rest, *targetID)
	switch position {
	case models.PositionBefore:
		return ti
	default:
		// child and after both land past target's descendants: as its last
		// child, or as the sibling that follows its whole subtree
		return subtreeEnd(rest, ti)
	}
}

// Move applies a move to a copy of nodes and returns the new sequence. On
// error the input is returned unchanged.
func Move(nodes []models.Node, draggedID string, targetID *string, position models.Position, opts ...Option) ([]models.Node, error) {
	s := NewStore(nodes, opts...)
	if err := s.Move(draggedID, targetID, position); err != nil {
		return nodes, err
	}
	return s.nodes, nil
}
