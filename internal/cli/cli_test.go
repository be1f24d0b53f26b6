package cli

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doctree/internal/hierarchy"
	"doctree/internal/metrics"
	"doctree/internal/repository/memory"
	serviceDocsys "doctree/internal/service/docsystem"
)

func newTestApp(t *testing.T) *App {
	t.Helper()

	next := 0
	ids := func() string {
		next++
		return fmt.Sprintf("n%d", next)
	}
	clock := func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	analyzer := serviceDocsys.NewContentAnalyzer()
	return &App{
		Hierarchy: serviceDocsys.NewHierarchyService(
			memory.NewNodeRepository(),
			memory.NewTransactionManager(),
			analyzer,
			metrics.NewMetrics(prometheus.NewRegistry()),
			logger,
			serviceDocsys.HierarchyConfig{
				CheckInvariants: true,
				StoreOptions:    []hierarchy.Option{hierarchy.WithIDGenerator(ids), hierarchy.WithClock(clock)},
			},
		),
		Analyzer:  analyzer,
		Logger:    logger,
		Workspace: "notes",
	}
}

func run(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, app *App, args ...string) string {
	t.Helper()
	out, err := run(t, app, args...)
	require.NoError(t, err, out)
	return out
}

func lineIndex(t *testing.T, out, needle string) int {
	t.Helper()
	for i, line := range strings.Split(out, "\n") {
		if strings.Contains(line, needle) {
			return i
		}
	}
	t.Fatalf("%q not found in:\n%s", needle, out)
	return -1
}

func TestCreateAndTree(t *testing.T) {
	app := newTestApp(t)

	assert.Contains(t, mustRun(t, app, "new", "Projects", "--folder"), "[n1]")
	assert.Contains(t, mustRun(t, app, "new", "Plan", "--parent", "n1", "--body", "Ship on Friday", "-t", "work"), "[n2]")
	mustRun(t, app, "new", "Inbox")

	out := mustRun(t, app, "tree")
	assert.Less(t, lineIndex(t, out, "Projects"), lineIndex(t, out, "Plan"))
	assert.Less(t, lineIndex(t, out, "Plan"), lineIndex(t, out, "Inbox"))

	out = mustRun(t, app, "tree", "--collapse")
	assert.NotContains(t, out, "Plan")
	assert.Contains(t, out, "+1")

	out = mustRun(t, app, "ls")
	assert.Contains(t, out, "  Plan [n2]")
	assert.Contains(t, out, "3 words")
}

func TestEmptyTree(t *testing.T) {
	out := mustRun(t, newTestApp(t), "tree")
	assert.Contains(t, out, "workspace notes is empty")
}

func TestMoveDuplicateRemove(t *testing.T) {
	app := newTestApp(t)
	mustRun(t, app, "new", "A", "--folder")
	mustRun(t, app, "new", "B", "--parent", "n1")
	mustRun(t, app, "new", "C")

	out := mustRun(t, app, "mv", "n3", "n1", "--position", "child")
	assert.Contains(t, out, "under n1")

	out = mustRun(t, app, "mv", "n3", "root", "--position", "before")
	assert.Contains(t, out, "under root")
	out = mustRun(t, app, "ls")
	assert.Less(t, lineIndex(t, out, "[n3]"), lineIndex(t, out, "[n1]"))

	_, err := run(t, app, "mv", "n1", "n2", "--position", "child")
	assert.ErrorContains(t, err, "own subtree")

	out = mustRun(t, app, "dup", "n1")
	assert.Contains(t, out, "A (Copy) [n4]")

	out = mustRun(t, app, "rm", "n1")
	assert.Contains(t, out, "removed 2 node(s)")
	out = mustRun(t, app, "ls")
	assert.NotContains(t, out, "[n2]")
}

func TestEdit(t *testing.T) {
	app := newTestApp(t)
	mustRun(t, app, "new", "Draft")

	out := mustRun(t, app, "edit", "n1", "--title", "Final", "--archived")
	assert.Contains(t, out, "Final (archived) [n1]")

	_, err := run(t, app, "edit", "n1")
	assert.ErrorContains(t, err, "nothing to change")

	mustRun(t, app, "edit", "n1", "--deleted")
	out = mustRun(t, app, "search", "final")
	assert.Contains(t, out, "No results found")
	out = mustRun(t, app, "search", "final", "--deleted")
	assert.Contains(t, out, "Found 1 results")
}

func TestSearch(t *testing.T) {
	app := newTestApp(t)
	mustRun(t, app, "new", "Plan", "--body", "We ship on Friday after review")

	out := mustRun(t, app, "search", "FRIDAY")
	assert.Contains(t, out, "1. Plan [n1] (body)")
	assert.Contains(t, out, "Friday")

	out = mustRun(t, app, "search", "plan")
	assert.Contains(t, out, "(title)")
}

func TestSeedAndCheck(t *testing.T) {
	app := newTestApp(t)

	out := mustRun(t, app, "seed")
	assert.Contains(t, out, "seeded 7 node(s) into demo")

	_, err := run(t, app, "seed")
	assert.ErrorContains(t, err, "--force")
	mustRun(t, app, "seed", "--force")

	out = mustRun(t, app, "workspaces")
	assert.Equal(t, "demo\n", out)

	out = mustRun(t, app, "check", "-W", "demo")
	assert.Contains(t, out, "workspace demo: ok")

	out = mustRun(t, app, "tree", "-W", "demo")
	assert.Contains(t, out, "Launch plan")
}

func TestSeedFromFiles(t *testing.T) {
	dir := t.TempDir()
	fixture := filepath.Join(dir, "fixture.yaml")
	require.NoError(t, os.WriteFile(fixture, []byte(`
workspace: team
nodes:
  - title: Root
    children:
      - title: Leaf
`), 0o644))

	app := newTestApp(t)
	out := mustRun(t, app, "seed", fixture)
	assert.Contains(t, out, "seeded 2 node(s) into team")

	notes := filepath.Join(dir, "notes")
	require.NoError(t, os.MkdirAll(filepath.Join(notes, "Work"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(notes, "Work", "todo.md"), []byte("- [ ] ship"), 0o644))

	out = mustRun(t, app, "seed", notes, "-W", "imported")
	assert.Contains(t, out, "seeded 2 node(s) into imported")
}

func TestHighlight(t *testing.T) {
	assert.Equal(t, "abc", highlight("abc", ""))
	assert.Contains(t, highlight("Ship on Friday", "friday"), "Friday")
}
