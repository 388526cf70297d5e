//go:build integration

package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/gantrylabs/gantry/internal/config"
	"github.com/gantrylabs/gantry/internal/layer"
	"github.com/gantrylabs/gantry/internal/log"
	"github.com/gantrylabs/gantry/internal/output"
)

// resolvePath resolves symlinks in a path.
// This is needed on macOS where /var is a symlink to /private/var.
func resolvePath(t *testing.T, path string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		t.Fatalf("failed to resolve path %s: %v", path, err)
	}
	return resolved
}

// setupTestRepo creates a git repo with an initial commit in dir/name and
// returns its absolute path (with symlinks resolved).
func setupTestRepo(t *testing.T, dir, name string) string {
	t.Helper()

	dir = resolvePath(t, dir)

	repoPath := filepath.Join(dir, name)
	if err := os.MkdirAll(repoPath, 0o755); err != nil {
		t.Fatalf("failed to create repo dir: %v", err)
	}

	cmds := [][]string{
		{"git", "init", "-b", "main"},
		{"git", "config", "user.email", "test@test.com"},
		{"git", "config", "user.name", "Test User"},
		{"git", "config", "commit.gpgsign", "false"},
	}
	for _, args := range cmds {
		runInRepo(t, repoPath, args...)
	}

	readmePath := filepath.Join(repoPath, "README.md")
	if err := os.WriteFile(readmePath, []byte("# "+name+"\n"), 0o644); err != nil {
		t.Fatalf("failed to write README: %v", err)
	}
	runInRepo(t, repoPath, "git", "add", "README.md")
	runInRepo(t, repoPath, "git", "commit", "-m", "Initial commit")

	return repoPath
}

// createBranch creates a branch without checking it out.
func createBranch(t *testing.T, repoPath, branch string) {
	t.Helper()
	runInRepo(t, repoPath, "git", "branch", branch)
}

func runInRepo(t *testing.T, repoPath string, args ...string) {
	t.Helper()
	cmd := exec.Command(args[0], args[1:]...)
	cmd.Dir = repoPath
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("failed to run %v: %v\n%s", args, err, out)
	}
}

// scaffoldShareDir writes the default layer templates into a temp share dir.
func scaffoldShareDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if _, err := layer.Scaffold(dir, false); err != nil {
		t.Fatalf("scaffold share dir: %v", err)
	}
	return dir
}

// testContext returns a context with a quiet logger, a discarded printer, and
// a resolver over a default config rooted in temp directories.
func testContext(t *testing.T) context.Context {
	t.Helper()
	cfg := config.Default()
	cfg.ConfigDir = t.TempDir()
	cfg.ShareDir = scaffoldShareDir(t)
	return testContextWithConfig(t, &cfg)
}

// testContextWithConfig returns a context wired up for command execution with
// the given config.
func testContextWithConfig(t *testing.T, cfg *config.Config) context.Context {
	t.Helper()
	ctx := log.WithLogger(context.Background(), log.New(io.Discard, false, true))
	ctx = output.WithPrinter(ctx, io.Discard)
	return config.WithResolver(ctx, config.NewResolver(cfg))
}

// executeCommand runs a command with args and returns the primary output.
func executeCommand(ctx context.Context, cmd *cobra.Command, args ...string) (string, error) {
	var buf bytes.Buffer
	cmd.SetContext(output.WithPrinter(ctx, &buf))
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	err := cmd.Execute()
	return buf.String(), err
}
