package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the node table and its ordering index if missing.
// Parent references carry no foreign key: a dangling parent is legal data
// that the forest builder shows at root level.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	stmts := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				workspace_id TEXT NOT NULL,
				id TEXT NOT NULL,
				position INTEGER NOT NULL,
				parent_id TEXT,
				title TEXT NOT NULL DEFAULT '',
				body TEXT NOT NULL DEFAULT '',
				is_folder BOOLEAN NOT NULL DEFAULT FALSE,
				is_expanded BOOLEAN NOT NULL DEFAULT FALSE,
				is_archived BOOLEAN NOT NULL DEFAULT FALSE,
				is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
				tags TEXT[] NOT NULL DEFAULT '{}',
				created_at TIMESTAMPTZ NOT NULL,
				updated_at TIMESTAMPTZ NOT NULL,
				PRIMARY KEY (workspace_id, id)
			)`, tables.Nodes),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_position_idx ON %s (workspace_id, position)`,
			tables.Nodes, tables.Nodes),
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
