//go:build integration

package forge

import (
	"context"
	"os"
	"os/exec"
	"testing"
)

// These tests exercise the real gh/glab CLIs. They only run when the CLI is
// installed and GANTRY_TEST_GITHUB_REPO / GANTRY_TEST_GITLAB_REPO point at a
// repository the authenticated user can read.

func TestGitHub_ProtectedBranches(t *testing.T) {
	remoteURL := os.Getenv("GANTRY_TEST_GITHUB_REPO")
	if remoteURL == "" {
		t.Skip("GANTRY_TEST_GITHUB_REPO not set")
	}
	if _, err := exec.LookPath("gh"); err != nil {
		t.Skip("gh not installed")
	}

	gh := &GitHub{}
	ctx := context.Background()
	if err := gh.Check(ctx); err != nil {
		t.Skipf("gh not authenticated: %v", err)
	}

	branches, err := gh.ProtectedBranches(ctx, remoteURL)
	if err != nil {
		t.Fatalf("ProtectedBranches() = %v", err)
	}
	t.Logf("protected branches: %v", branches)
}

func TestGitLab_ProtectedBranches(t *testing.T) {
	remoteURL := os.Getenv("GANTRY_TEST_GITLAB_REPO")
	if remoteURL == "" {
		t.Skip("GANTRY_TEST_GITLAB_REPO not set")
	}
	if _, err := exec.LookPath("glab"); err != nil {
		t.Skip("glab not installed")
	}

	gl := &GitLab{}
	ctx := context.Background()
	if err := gl.Check(ctx); err != nil {
		t.Skipf("glab not authenticated: %v", err)
	}

	branches, err := gl.ProtectedBranches(ctx, remoteURL)
	if err != nil {
		t.Fatalf("ProtectedBranches() = %v", err)
	}
	t.Logf("protected branches: %v", branches)
}
