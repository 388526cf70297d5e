//go:build integration

package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gantrylabs/gantry/internal/config"
	"github.com/gantrylabs/gantry/internal/creds"
	"github.com/gantrylabs/gantry/internal/git"
)

// TestRun_UnauthenticatedShortCircuits tests the first gate of the launch.
//
// Scenario: `gantry run claude <repo>` without any claude credentials
// Expected: The launch aborts with the remediation hint before composing
// anything or touching a branch
func TestRun_UnauthenticatedShortCircuits(t *testing.T) {
	isolateCredentials(t)

	repo := setupTestRepo(t, t.TempDir(), "proj")
	ctx := testContext(t)

	_, err := executeCommand(ctx, newRunCmd(), "claude", repo)
	if err == nil {
		t.Fatal("expected the launch to abort")
	}
	if !strings.Contains(err.Error(), "not authenticated") {
		t.Errorf("error = %v, want a credential failure", err)
	}
	if !strings.Contains(err.Error(), "gantry auth login claude") {
		t.Errorf("error = %v, want the remediation hint", err)
	}

	// Nothing may have happened after the failed gate.
	if _, err := os.Lstat(filepath.Join(repo, "CLAUDE.md")); !os.IsNotExist(err) {
		t.Error("instruction symlink must not exist after a credential failure")
	}
	branches, err := git.LocalBranches(context.Background(), repo)
	if err != nil {
		t.Fatal(err)
	}
	if len(branches) != 1 || branches[0] != "main" {
		t.Errorf("branches = %v, want only main", branches)
	}
}

// TestRun_ComposeFailureBeforeBranch tests the gate order.
//
// Scenario: claude is authenticated but the share dir has no protected layers
// Expected: The launch aborts at composition; the repository branch state is
// untouched
func TestRun_ComposeFailureBeforeBranch(t *testing.T) {
	home := isolateCredentials(t)

	tokenDir := filepath.Join(home, ".claude")
	if err := os.MkdirAll(tokenDir, 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tokenDir, creds.ClaudeTokenFile), []byte(`{"token":"t"}`), 0o600); err != nil {
		t.Fatal(err)
	}

	repo := setupTestRepo(t, t.TempDir(), "proj")

	cfg := config.Default()
	cfg.ConfigDir = t.TempDir()
	cfg.ShareDir = t.TempDir() // no layers scaffolded
	ctx := testContextWithConfig(t, &cfg)

	_, err := executeCommand(ctx, newRunCmd(), "claude", repo)
	if err == nil {
		t.Fatal("expected the launch to abort at composition")
	}

	current, err := git.CurrentBranch(context.Background(), repo)
	if err != nil {
		t.Fatal(err)
	}
	if current != "main" {
		t.Errorf("current branch = %q, want main untouched", current)
	}
	branches, err := git.LocalBranches(context.Background(), repo)
	if err != nil {
		t.Fatal(err)
	}
	if len(branches) != 1 {
		t.Errorf("branches = %v, want only main", branches)
	}
}
