package docsystem

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"doctree/internal/domain"
	models "doctree/internal/domain/models/docsystem"
	docsysRepo "doctree/internal/domain/repositories/docsystem"
	"doctree/internal/repository/postgres"
)

var nodeColumns = []string{
	"workspace_id", "id", "position", "parent_id", "title", "body",
	"is_folder", "is_expanded", "is_archived", "is_deleted", "tags",
	"created_at", "updated_at",
}

// PostgresNodeRepository implements the NodeRepository interface
type PostgresNodeRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewNodeRepository creates a new node repository
func NewNodeRepository(config *postgres.RepositoryConfig) docsysRepo.NodeRepository {
	return &PostgresNodeRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// LoadAll retrieves a workspace's nodes ordered by position
func (r *PostgresNodeRepository) LoadAll(ctx context.Context, workspaceID string) ([]models.Node, error) {
	query := fmt.Sprintf(`
		SELECT id, parent_id, title, body, is_folder, is_expanded, is_archived, is_deleted,
		       tags, created_at, updated_at
		FROM %s
		WHERE workspace_id = $1
		ORDER BY position ASC
	`, r.tables.Nodes)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("load nodes: %w", err)
	}
	defer rows.Close()

	nodes := []models.Node{}
	for rows.Next() {
		var n models.Node
		err := rows.Scan(
			&n.ID,
			&n.ParentID,
			&n.Title,
			&n.Body,
			&n.IsFolder,
			&n.IsExpanded,
			&n.IsArchived,
			&n.IsDeleted,
			&n.Tags,
			&n.CreatedAt,
			&n.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan node: %w", err)
		}
		if n.Tags == nil {
			n.Tags = []string{}
		}
		nodes = append(nodes, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate nodes: %w", err)
	}

	return nodes, nil
}

// ReplaceAll deletes the workspace's rows and copies the new sequence in,
// recording each node's index as its position
func (r *PostgresNodeRepository) ReplaceAll(ctx context.Context, workspaceID string, nodes []models.Node) error {
	executor := postgres.GetExecutor(ctx, r.pool)

	query := fmt.Sprintf(`DELETE FROM %s WHERE workspace_id = $1`, r.tables.Nodes)
	if _, err := executor.Exec(ctx, query, workspaceID); err != nil {
		return fmt.Errorf("clear nodes: %w", err)
	}

	if len(nodes) == 0 {
		return nil
	}

	copied, err := executor.CopyFrom(ctx,
		pgx.Identifier{r.tables.Nodes},
		nodeColumns,
		pgx.CopyFromSlice(len(nodes), func(i int) ([]any, error) {
			n := &nodes[i]
			tags := n.Tags
			if tags == nil {
				tags = []string{}
			}
			return []any{
				workspaceID, n.ID, i, n.ParentID, n.Title, n.Body,
				n.IsFolder, n.IsExpanded, n.IsArchived, n.IsDeleted, tags,
				n.CreatedAt, n.UpdatedAt,
			}, nil
		}),
	)
	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return &domain.ValidationError{Message: "duplicate node id in sequence"}
		}
		return fmt.Errorf("copy nodes: %w", err)
	}

	r.logger.Debug("nodes replaced", "workspace_id", workspaceID, "rows", copied)
	return nil
}

// ListWorkspaces returns every workspace id with stored nodes
func (r *PostgresNodeRepository) ListWorkspaces(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf(`SELECT DISTINCT workspace_id FROM %s ORDER BY workspace_id`, r.tables.Nodes)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list workspaces: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan workspace: %w", err)
	}
	return ids, nil
}
