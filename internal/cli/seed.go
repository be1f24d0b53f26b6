package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"doctree/internal/seed"
)

// NewSeedCmd replaces a workspace with a fixture
func NewSeedCmd(app func() *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "seed [fixture.yaml|directory]",
		Short: "Replace the workspace with a fixture",
		Long: `Replace the workspace with a fixture.

With no argument the built-in demo outline is loaded. A YAML file describes
a nested outline; a directory is imported with sub-directories as folders
and *.md files as documents (YAML frontmatter may set title and tags).

The workspace named by --workspace wins over the one in the fixture.
Seeding a workspace that already has nodes requires --force.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			ctx := cmd.Context()

			outline, fixtureWorkspace, err := loadOutline(args)
			if err != nil {
				return err
			}
			workspace := a.Workspace
			if !cmd.Flags().Changed("workspace") && fixtureWorkspace != "" {
				workspace = fixtureWorkspace
			}

			existing, err := a.Hierarchy.ListNodes(ctx, workspace)
			if err != nil {
				return err
			}
			if len(existing) > 0 && !force {
				return fmt.Errorf("workspace %s already has %d node(s); pass --force to replace it", workspace, len(existing))
			}

			seeder := seed.NewSeeder(a.Hierarchy, seed.BuildOptions{}, a.Logger)
			nodes, err := seeder.Seed(ctx, workspace, outline)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d node(s) into %s\n", len(nodes), workspace)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "replace a non-empty workspace")
	return cmd
}

func loadOutline(args []string) ([]seed.FixtureNode, string, error) {
	if len(args) == 0 {
		f, err := seed.Demo()
		if err != nil {
			return nil, "", err
		}
		return f.Nodes, f.Workspace, nil
	}

	path := args[0]
	info, err := os.Stat(path)
	if err != nil {
		return nil, "", err
	}
	if info.IsDir() {
		outline, err := seed.FromDirectory(os.DirFS(path), ".")
		return outline, "", err
	}

	f, err := seed.LoadFixtureFile(path)
	if err != nil {
		return nil, "", err
	}
	return f.Nodes, f.Workspace, nil
}
