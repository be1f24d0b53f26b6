package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	models "doctree/internal/domain/models/docsystem"
	docsysRepo "doctree/internal/domain/repositories/docsystem"
)

// NodeRepository implements the NodeRepository interface on SQLite
type NodeRepository struct {
	db     *DB
	logger *slog.Logger
}

// NewNodeRepository creates a new node repository
func NewNodeRepository(db *DB, logger *slog.Logger) docsysRepo.NodeRepository {
	return &NodeRepository{db: db, logger: logger}
}

// LoadAll retrieves a workspace's nodes ordered by position
func (r *NodeRepository) LoadAll(ctx context.Context, workspaceID string) ([]models.Node, error) {
	query := fmt.Sprintf(`
		SELECT id, parent_id, title, body, is_folder, is_expanded, is_archived, is_deleted,
		       tags, created_at, updated_at
		FROM %s
		WHERE workspace_id = ?
		ORDER BY position ASC
	`, r.db.table)

	rows, err := r.db.executor(ctx).QueryContext(ctx, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("load nodes: %w", err)
	}
	defer rows.Close()

	nodes := []models.Node{}
	for rows.Next() {
		var (
			n                models.Node
			parentID         sql.NullString
			tags             string
			created, updated string
		)
		err := rows.Scan(
			&n.ID,
			&parentID,
			&n.Title,
			&n.Body,
			&n.IsFolder,
			&n.IsExpanded,
			&n.IsArchived,
			&n.IsDeleted,
			&tags,
			&created,
			&updated,
		)
		if err != nil {
			return nil, fmt.Errorf("scan node: %w", err)
		}

		if parentID.Valid {
			p := parentID.String
			n.ParentID = &p
		}
		if err := json.Unmarshal([]byte(tags), &n.Tags); err != nil {
			return nil, fmt.Errorf("decode tags of %s: %w", n.ID, err)
		}
		if n.Tags == nil {
			n.Tags = []string{}
		}
		if n.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("parse created_at of %s: %w", n.ID, err)
		}
		if n.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
			return nil, fmt.Errorf("parse updated_at of %s: %w", n.ID, err)
		}
		nodes = append(nodes, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate nodes: %w", err)
	}
	return nodes, nil
}

// ReplaceAll deletes the workspace's rows and inserts the new sequence
func (r *NodeRepository) ReplaceAll(ctx context.Context, workspaceID string, nodes []models.Node) error {
	exec := r.db.executor(ctx)

	if _, err := exec.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE workspace_id = ?`, r.db.table), workspaceID); err != nil {
		return fmt.Errorf("clear nodes: %w", err)
	}

	insert := fmt.Sprintf(`
		INSERT INTO %s (workspace_id, id, position, parent_id, title, body,
		                is_folder, is_expanded, is_archived, is_deleted, tags, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.db.table)

	for i := range nodes {
		n := &nodes[i]
		tags := n.Tags
		if tags == nil {
			tags = []string{}
		}
		encoded, err := json.Marshal(tags)
		if err != nil {
			return fmt.Errorf("encode tags of %s: %w", n.ID, err)
		}

		var parentID sql.NullString
		if n.ParentID != nil {
			parentID = sql.NullString{String: *n.ParentID, Valid: true}
		}

		_, err = exec.ExecContext(ctx, insert,
			workspaceID, n.ID, i, parentID, n.Title, n.Body,
			n.IsFolder, n.IsExpanded, n.IsArchived, n.IsDeleted, string(encoded),
			n.CreatedAt.UTC().Format(time.RFC3339Nano), n.UpdatedAt.UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("insert node %s: %w", n.ID, err)
		}
	}

	r.logger.Debug("nodes replaced", "workspace_id", workspaceID, "rows", len(nodes))
	return nil
}

// ListWorkspaces returns every workspace id with stored nodes
func (r *NodeRepository) ListWorkspaces(ctx context.Context) ([]string, error) {
	rows, err := r.db.executor(ctx).QueryContext(ctx,
		fmt.Sprintf(`SELECT DISTINCT workspace_id FROM %s ORDER BY workspace_id`, r.db.table))
	if err != nil {
		return nil, fmt.Errorf("list workspaces: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan workspace: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
