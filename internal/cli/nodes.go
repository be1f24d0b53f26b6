package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	models "doctree/internal/domain/models/docsystem"
	docsysSvc "doctree/internal/domain/services/docsystem"
	"doctree/internal/httputil"
)

// rootTarget names root level in place of a target id
const rootTarget = "root"

// NewNewCmd creates a document or folder
func NewNewCmd(app func() *App) *cobra.Command {
	var (
		parent string
		folder bool
		body   string
		tags   []string
	)

	cmd := &cobra.Command{
		Use:   "new [title]",
		Short: "Create a document or folder as the last child of its parent",
		Long: `Create a document or folder.

Examples:
  doctree new "Launch plan" --parent <folder-id>
  doctree new Projects --folder
  doctree new --body "# Notes" --tag work`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			req := &docsysSvc.CreateNodeRequest{
				WorkspaceID: a.Workspace,
				Kind:        models.KindDocument,
				Tags:        tags,
			}
			if folder {
				req.Kind = models.KindFolder
			}
			if parent != "" {
				req.ParentID = &parent
			}
			if len(args) == 1 {
				req.Title = &args[0]
			}
			if cmd.Flags().Changed("body") {
				req.Body = &body
			}

			node, err := a.Hierarchy.CreateNode(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", label(node, false))
			return nil
		},
	}

	cmd.Flags().StringVarP(&parent, "parent", "p", "", "parent node id (default root level)")
	cmd.Flags().BoolVar(&folder, "folder", false, "create a folder")
	cmd.Flags().StringVar(&body, "body", "", "initial body")
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "tag (repeatable)")
	return cmd
}

// NewMoveCmd moves a node with its subtree
func NewMoveCmd(app func() *App) *cobra.Command {
	var position string

	cmd := &cobra.Command{
		Use:   "mv <id> <target-id|root>",
		Short: "Move a node and its subtree relative to a target",
		Long: `Move a node and its subtree.

--position before|after places the node next to the target as a sibling;
child makes it the target's last child. Use "root" as the target to move to
root level: before puts it first, after puts it last.

Examples:
  doctree mv <id> <folder-id> --position child
  doctree mv <id> <sibling-id> --position before
  doctree mv <id> root`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			req := &docsysSvc.MoveNodeRequest{
				WorkspaceID: a.Workspace,
				NodeID:      args[0],
				TargetID:    httputil.OptionalString{Present: true},
				Position:    models.Position(strings.ToLower(position)),
			}
			if args[1] != rootTarget {
				req.TargetID.Value = &args[1]
			}

			node, err := a.Hierarchy.MoveNode(cmd.Context(), req)
			if err != nil {
				return err
			}
			parent := rootTarget
			if node.ParentID != nil {
				parent = *node.ParentID
			}
			fmt.Fprintf(cmd.OutOrStdout(), "moved %s under %s\n", label(node, false), parent)
			return nil
		},
	}

	cmd.Flags().StringVar(&position, "position", string(models.PositionAfter), "before, after or child")
	return cmd
}

// NewDuplicateCmd copies a node without its children
func NewDuplicateCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:     "dup <id>",
		Aliases: []string{"duplicate"},
		Short:   "Copy a node (children are not copied)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			node, err := a.Hierarchy.DuplicateNode(cmd.Context(), a.Workspace, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", label(node, false))
			return nil
		},
	}
}

// NewRemoveCmd deletes a node and everything beneath it
func NewRemoveCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a node and all of its descendants",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			result, err := a.Hierarchy.DeleteNode(cmd.Context(), a.Workspace, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d node(s): %s\n", len(result.RemovedIDs), strings.Join(result.RemovedIDs, ", "))
			return nil
		},
	}
}

// NewEditCmd assigns simple fields
func NewEditCmd(app func() *App) *cobra.Command {
	var (
		title    string
		body     string
		tags     []string
		expanded bool
		archived bool
		deleted  bool
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a node's title, body, tags or flags",
		Long: `Change simple fields of a node. Only the flags given are changed.

Examples:
  doctree edit <id> --title "New title"
  doctree edit <id> --tag work --tag urgent
  doctree edit <id> --expanded=false
  doctree edit <id> --deleted      # move to trash
  doctree edit <id> --deleted=false`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			flags := cmd.Flags()
			req := &docsysSvc.UpdateNodeRequest{
				WorkspaceID: a.Workspace,
				NodeID:      args[0],
			}
			if flags.Changed("title") {
				req.Title = &title
			}
			if flags.Changed("body") {
				req.Body = &body
			}
			if flags.Changed("tag") {
				req.Tags = &tags
			}
			if flags.Changed("expanded") {
				req.IsExpanded = &expanded
			}
			if flags.Changed("archived") {
				req.IsArchived = &archived
			}
			if flags.Changed("deleted") {
				req.IsDeleted = &deleted
			}
			if patch := req.Patch(); patch.Empty() {
				return fmt.Errorf("nothing to change: pass at least one of --title, --body, --tag, --expanded, --archived, --deleted")
			}

			node, err := a.Hierarchy.UpdateNode(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %s\n", label(node, false))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title (empty shows as Untitled)")
	cmd.Flags().StringVar(&body, "body", "", "new body")
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "replace tags (repeatable)")
	cmd.Flags().BoolVar(&expanded, "expanded", false, "expand or collapse in the tree")
	cmd.Flags().BoolVar(&archived, "archived", false, "archive or unarchive")
	cmd.Flags().BoolVar(&deleted, "deleted", false, "move to or restore from trash")
	return cmd
}
