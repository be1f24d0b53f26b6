// Package repository selects and opens the configured storage driver.
package repository

import (
	"context"
	"fmt"
	"log/slog"

	"doctree/internal/config"
	"doctree/internal/domain/repositories"
	docsysRepo "doctree/internal/domain/repositories/docsystem"
	"doctree/internal/repository/memory"
	"doctree/internal/repository/postgres"
	postgresDocsys "doctree/internal/repository/postgres/docsystem"
	"doctree/internal/repository/sqlite"
)

// Backend bundles the node repository with its transaction manager
type Backend struct {
	Driver    string
	Nodes     docsysRepo.NodeRepository
	TxManager repositories.TransactionManager

	close func()
}

// Close releases the driver's connections
func (b *Backend) Close() {
	if b.close != nil {
		b.close()
	}
}

// Open connects to the storage named by cfg.StorageDriver and makes sure
// its schema exists
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Backend, error) {
	switch cfg.StorageDriver {
	case config.DriverMemory, "":
		repo := memory.NewNodeRepository()
		return &Backend{
			Driver:    config.DriverMemory,
			Nodes:     repo,
			TxManager: memory.NewTransactionManager(),
		}, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath, cfg.TablePrefix)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", cfg.SQLitePath, err)
		}
		logger.Info("database connected", "driver", config.DriverSQLite, "path", cfg.SQLitePath)
		return &Backend{
			Driver:    config.DriverSQLite,
			Nodes:     sqlite.NewNodeRepository(db, logger),
			TxManager: sqlite.NewTransactionManager(db, logger),
			close:     func() { _ = db.Close() },
		}, nil

	case config.DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for the %s driver", config.DriverPostgres)
		}
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("create connection pool: %w", err)
		}
		tables := postgres.NewTableNames(cfg.TablePrefix)
		if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		logger.Info("database connected",
			"driver", config.DriverPostgres,
			"max_conns", pool.Config().MaxConns,
			"table_prefix", cfg.TablePrefix,
		)

		repoConfig := &postgres.RepositoryConfig{
			Pool:   pool,
			Tables: tables,
			Logger: logger,
		}
		return &Backend{
			Driver:    config.DriverPostgres,
			Nodes:     postgresDocsys.NewNodeRepository(repoConfig),
			TxManager: postgres.NewTransactionManager(pool, logger),
			close:     pool.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q (expected %s, %s or %s)",
			cfg.StorageDriver, config.DriverMemory, config.DriverSQLite, config.DriverPostgres)
	}
}
