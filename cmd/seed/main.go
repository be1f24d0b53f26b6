package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"doctree/internal/config"
	"doctree/internal/metrics"
	"doctree/internal/repository"
	"doctree/internal/seed"
	serviceDocsys "doctree/internal/service/docsystem"
)

func main() {
	// Parse command-line flags
	fixturePath := flag.String("fixture", "", "YAML fixture to load (default: built-in demo outline)")
	workspace := flag.String("workspace", "", "Workspace to seed (default: the fixture's workspace)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed nodes")
	clearData := flag.Bool("clear-data", false, "Remove all nodes of the workspace (keep schema)")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && *clearData {
		log.Fatalf("BLOCKED: Cannot run destructive operations (--clear-data) in production environment")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	ctx := context.Background()

	// Opening the backend creates missing tables
	backend, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer backend.Close()
	log.Printf("Schema ready (driver: %s, prefix: %s)", backend.Driver, cfg.TablePrefix)

	if *schemaOnly {
		return
	}

	fixture, err := loadFixture(*fixturePath)
	if err != nil {
		log.Fatalf("Failed to load fixture: %v", err)
	}
	target := fixture.Workspace
	if *workspace != "" {
		target = *workspace
	}

	hierarchyService := serviceDocsys.NewHierarchyService(
		backend.Nodes,
		backend.TxManager,
		serviceDocsys.NewContentAnalyzer(),
		metrics.NewMetrics(prometheus.NewRegistry()),
		logger,
		serviceDocsys.HierarchyConfig{CheckInvariants: true},
	)

	if *clearData {
		if err := hierarchyService.ReplaceNodes(ctx, target, nil); err != nil {
			log.Fatalf("Failed to clear workspace %s: %v", target, err)
		}
		log.Printf("Workspace %s cleared", target)
		return
	}

	seeder := seed.NewSeeder(hierarchyService, seed.BuildOptions{}, logger)
	nodes, err := seeder.SeedFixture(ctx, fixture, target)
	if err != nil {
		log.Fatalf("Failed to seed: %v", err)
	}
	log.Printf("Seeding complete: %d nodes in workspace %s", len(nodes), target)
}

func loadFixture(path string) (*seed.Fixture, error) {
	if path == "" {
		return seed.Demo()
	}
	return seed.LoadFixtureFile(path)
}
