// Package seed loads fixture workspaces from YAML files or markdown
// directories and writes them through the hierarchy service.
package seed

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	models "doctree/internal/domain/models/docsystem"
)

// Fixture is a workspace described as a nested outline
type Fixture struct {
	Workspace string        `yaml:"workspace"`
	Nodes     []FixtureNode `yaml:"nodes"`
}

// FixtureNode is one entry of the outline. Children nest under it.
type FixtureNode struct {
	ID       string        `yaml:"id,omitempty"`
	Title    string        `yaml:"title"`
	Folder   bool          `yaml:"folder,omitempty"`
	Expanded bool          `yaml:"expanded,omitempty"`
	Archived bool          `yaml:"archived,omitempty"`
	Body     string        `yaml:"body,omitempty"`
	Tags     []string      `yaml:"tags,omitempty"`
	Children []FixtureNode `yaml:"children,omitempty"`
}

// ParseFixture decodes a YAML fixture
func ParseFixture(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}
	return &f, nil
}

// LoadFixtureFile reads and decodes a YAML fixture from disk
func LoadFixtureFile(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	return ParseFixture(data)
}

// BuildOptions control id and timestamp assignment
type BuildOptions struct {
	NewID func() string
	Now   func() time.Time
}

func (o BuildOptions) withDefaults() BuildOptions {
	if o.NewID == nil {
		o.NewID = uuid.NewString
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Build flattens the outline depth-first, which yields a contiguous
// sequence. Nodes without an explicit id get a fresh one. Later nodes get
// later timestamps so that newest-first search ordering follows the outline
// in reverse.
func Build(nodes []FixtureNode, opts BuildOptions) []models.Node {
	opts = opts.withDefaults()
	var out []models.Node
	var walk func(items []FixtureNode, parent *string)
	walk = func(items []FixtureNode, parent *string) {
		for _, item := range items {
			id := item.ID
			if id == "" {
				id = opts.NewID()
			}
			now := opts.Now()
			node := models.Node{
				ID:         id,
				Title:      item.Title,
				Body:       item.Body,
				IsFolder:   item.Folder || len(item.Children) > 0,
				IsExpanded: item.Expanded,
				IsArchived: item.Archived,
				Tags:       models.NormalizeTags(item.Tags),
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			if parent != nil {
				p := *parent
				node.ParentID = &p
			}
			out = append(out, node)
			walk(item.Children, &id)
		}
	}
	walk(nodes, nil)
	return out
}

// Count returns the number of nodes in the outline
func Count(nodes []FixtureNode) int {
	n := 0
	for _, item := range nodes {
		n += 1 + Count(item.Children)
	}
	return n
}
