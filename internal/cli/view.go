package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"doctree/internal/domain"
	docsysSvc "doctree/internal/domain/services/docsystem"
	"doctree/internal/hierarchy"
)

// NewTreeCmd prints the workspace as a tree
func NewTreeCmd(app func() *App) *cobra.Command {
	var collapse bool

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Show the workspace as a tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			forest, err := a.Hierarchy.GetTree(cmd.Context(), a.Workspace)
			if err != nil {
				return err
			}
			if len(forest) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "workspace %s is empty\n", a.Workspace)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderForest(forest, collapse))
			return nil
		},
	}

	cmd.Flags().BoolVar(&collapse, "collapse", false, "hide children of collapsed folders")
	return cmd
}

// NewListCmd prints the flat ordered sequence with indentation
func NewListCmd(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List nodes in order with word counts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			nodes, err := a.Hierarchy.ListNodes(cmd.Context(), a.Workspace)
			if err != nil {
				return err
			}

			depth := depths(nodes)
			out := cmd.OutOrStdout()
			for i := range nodes {
				n := &nodes[i]
				words := ""
				if !n.IsFolder {
					words = mutedStyle.Render(fmt.Sprintf("  %d words", a.Analyzer.CountWords(n.Body)))
				}
				fmt.Fprintf(out, "%s%s%s\n", strings.Repeat("  ", depth[n.ID]), label(n, false), words)
			}
			return nil
		},
	}
	return cmd
}

// NewSearchCmd runs a substring search
func NewSearchCmd(app func() *App) *cobra.Command {
	var (
		limit          int
		includeDeleted bool
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search titles and bodies",
		Long: `Search for nodes whose title or body contains the query.

Matching ignores case and Unicode normalization. Title matches are reported
without a snippet; body matches show the surrounding text.

Examples:
  doctree search friday
  doctree search "launch plan" --limit 5
  doctree search draft --deleted`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			query := strings.Join(args, " ")
			results, err := a.Hierarchy.SearchNodes(cmd.Context(), &docsysSvc.SearchNodesRequest{
				WorkspaceID:    a.Workspace,
				Query:          query,
				Limit:          limit,
				IncludeDeleted: includeDeleted,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(results) == 0 {
				fmt.Fprintln(out, "No results found")
				return nil
			}
			fmt.Fprintf(out, "Found %d results:\n", len(results))
			for i, r := range results {
				fmt.Fprintf(out, "%d. %s (%s)\n", i+1, label(&r.Node, false), r.MatchedField)
				if r.Snippet != "" {
					fmt.Fprintf(out, "   %s\n", highlight(r.Snippet, query))
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of results (default 50)")
	cmd.Flags().BoolVar(&includeDeleted, "deleted", false, "include nodes in the trash")
	return cmd
}

// NewCheckCmd verifies the stored sequence
func NewCheckCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify that the stored sequence is a valid tree flattening",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			err := a.Hierarchy.CheckWorkspace(cmd.Context(), a.Workspace)

			var contiguity *hierarchy.ContiguityError
			if err != nil && !errors.As(err, &contiguity) && !errors.Is(err, domain.ErrDanglingReference) {
				return err
			}
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "workspace %s: FAIL: %v\n", a.Workspace, err)
				return fmt.Errorf("workspace %s is not contiguous", a.Workspace)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "workspace %s: ok\n", a.Workspace)
			return nil
		},
	}
}

// NewWorkspacesCmd lists workspaces with stored nodes
func NewWorkspacesCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "workspaces",
		Short: "List workspaces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := app().Hierarchy.ListWorkspaces(cmd.Context())
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
}
