package repository

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doctree/internal/config"
	models "doctree/internal/domain/models/docsystem"
)

func TestOpen(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("memory", func(t *testing.T) {
		b, err := Open(t.Context(), &config.Config{StorageDriver: config.DriverMemory}, logger)
		require.NoError(t, err)
		defer b.Close()
		assert.Equal(t, config.DriverMemory, b.Driver)
	})

	t.Run("sqlite round trip", func(t *testing.T) {
		cfg := &config.Config{
			StorageDriver: config.DriverSQLite,
			SQLitePath:    filepath.Join(t.TempDir(), "doctree.db"),
			TablePrefix:   "test_",
		}
		b, err := Open(t.Context(), cfg, logger)
		require.NoError(t, err)
		defer b.Close()

		require.NoError(t, b.Nodes.ReplaceAll(t.Context(), "ws", []models.Node{{ID: "a", Title: "A", Tags: []string{}}}))
		nodes, err := b.Nodes.LoadAll(t.Context(), "ws")
		require.NoError(t, err)
		require.Len(t, nodes, 1)
		assert.Equal(t, "A", nodes[0].Title)
	})

	t.Run("postgres needs a url", func(t *testing.T) {
		_, err := Open(t.Context(), &config.Config{StorageDriver: config.DriverPostgres}, logger)
		assert.ErrorContains(t, err, "DATABASE_URL")
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := Open(t.Context(), &config.Config{StorageDriver: "mongo"}, logger)
		assert.ErrorContains(t, err, "unknown storage driver")
	})
}
