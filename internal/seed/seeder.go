package seed

import (
	"context"
	"fmt"
	"log/slog"

	models "doctree/internal/domain/models/docsystem"
	docsysSvc "doctree/internal/domain/services/docsystem"
)

// Seeder writes outlines into workspaces. Seeding replaces the workspace.
type Seeder struct {
	hierarchy docsysSvc.HierarchyService
	opts      BuildOptions
	logger    *slog.Logger
}

// NewSeeder creates a new seeder
func NewSeeder(hierarchy docsysSvc.HierarchyService, opts BuildOptions, logger *slog.Logger) *Seeder {
	return &Seeder{
		hierarchy: hierarchy,
		opts:      opts,
		logger:    logger,
	}
}

// Seed replaces the workspace with the flattened outline
func (s *Seeder) Seed(ctx context.Context, workspaceID string, outline []FixtureNode) ([]models.Node, error) {
	nodes := Build(outline, s.opts)
	if err := s.hierarchy.ReplaceNodes(ctx, workspaceID, nodes); err != nil {
		return nil, fmt.Errorf("seed workspace %s: %w", workspaceID, err)
	}

	s.logger.Info("workspace seeded",
		"workspace_id", workspaceID,
		"nodes", len(nodes),
	)
	return nodes, nil
}

// SeedFixture seeds the fixture's own workspace, or override when set
func (s *Seeder) SeedFixture(ctx context.Context, f *Fixture, override string) ([]models.Node, error) {
	workspaceID := f.Workspace
	if override != "" {
		workspaceID = override
	}
	if workspaceID == "" {
		return nil, fmt.Errorf("fixture has no workspace and none was given")
	}
	return s.Seed(ctx, workspaceID, f.Nodes)
}
