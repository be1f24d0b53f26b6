package hierarchy

import (
	"fmt"
	"time"

	models "doctree/internal/domain/models/docsystem"
)

var epoch = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

// n builds a node with an optional parent ("" means root)
func n(id, parent string) models.Node {
	node := models.Node{ID: id, Title: id, Tags: []string{}, CreatedAt: epoch, UpdatedAt: epoch}
	if parent != "" {
		node.ParentID = ptr(parent)
	}
	return node
}

func ids(nodes []models.Node) []string {
	out := make([]string, len(nodes))
	for i := range nodes {
		out[i] = nodes[i].ID
	}
	return out
}

func parentOf(nodes []models.Node, id string) string {
	i := indexOf(nodes, id)
	if i < 0 || nodes[i].ParentID == nil {
		return ""
	}
	return *nodes[i].ParentID
}

// fixedClock returns a clock that ticks one second per call
func fixedClock() Clock {
	t := epoch
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

// seqIDs returns a generator yielding new-1, new-2, ...
func seqIDs() IDGenerator {
	next := 0
	return func() string {
		next++
		return fmt.Sprintf("new-%d", next)
	}
}

func testOpts() []Option {
	return []Option{WithClock(fixedClock()), WithIDGenerator(seqIDs())}
}

// sample is a contiguous store:
//
//	A
//	  B
//	    D
//	  C
//	E
func sample() []models.Node {
	return []models.Node{
		n("A", ""),
		n("B", "A"),
		n("D", "B"),
		n("C", "A"),
		n("E", ""),
	}
}
