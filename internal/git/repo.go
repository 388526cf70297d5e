package git

import (
	"context"
	"fmt"
	"strings"
)

// OpError reports a failed git operation. It wraps the underlying error so
// callers can distinguish git failures from policy decisions layered on top.
type OpError struct {
	Op  string // e.g. "create branch", "checkout"
	Err error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("git %s: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

// ProjectRoot returns the top-level directory of the repository containing
// path.
func ProjectRoot(ctx context.Context, path string) (string, error) {
	output, err := outputGit(ctx, path, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", &OpError{Op: "resolve project root", Err: err}
	}
	return strings.TrimSpace(string(output)), nil
}

// CurrentBranch returns the checked-out branch name.
// Returns an empty string for detached HEAD state.
func CurrentBranch(ctx context.Context, repoPath string) (string, error) {
	output, err := outputGit(ctx, repoPath, "branch", "--show-current")
	if err != nil {
		return "", &OpError{Op: "read current branch", Err: err}
	}
	return strings.TrimSpace(string(output)), nil
}

// LocalBranches returns all local branch names.
func LocalBranches(ctx context.Context, repoPath string) ([]string, error) {
	output, err := outputGit(ctx, repoPath, "for-each-ref", "--format=%(refname:short)", "refs/heads/")
	if err != nil {
		return nil, &OpError{Op: "list branches", Err: err}
	}

	var branches []string
	for _, line := range strings.Split(string(output), "\n") {
		if name := strings.TrimSpace(line); name != "" {
			branches = append(branches, name)
		}
	}
	return branches, nil
}

// BranchExists checks if a local branch exists
func BranchExists(ctx context.Context, repoPath, branch string) bool {
	// Exit code 128 means the ref doesn't exist
	return runGit(ctx, repoPath, "rev-parse", "--verify", "refs/heads/"+branch) == nil
}

// CreateBranch creates a branch pointing at base without checking it out.
func CreateBranch(ctx context.Context, repoPath, name, base string) error {
	if err := runGit(ctx, repoPath, "branch", name, base); err != nil {
		return &OpError{Op: "create branch " + name, Err: err}
	}
	return nil
}

// Checkout switches the working tree to the named branch.
func Checkout(ctx context.Context, repoPath, name string) error {
	if err := runGit(ctx, repoPath, "checkout", name); err != nil {
		return &OpError{Op: "checkout " + name, Err: err}
	}
	return nil
}

// DefaultRemoteBranch returns the default branch name of the origin remote
// (e.g. "main" or "master"). Returns an empty string when the repository has
// no usable remote; detection is best effort and never fails hard.
func DefaultRemoteBranch(ctx context.Context, repoPath string) string {
	// Try to get default branch from remote HEAD
	output, err := outputGit(ctx, repoPath, "symbolic-ref", "refs/remotes/origin/HEAD")
	if err == nil {
		// Output is like "refs/remotes/origin/main"
		ref := strings.TrimSpace(string(output))
		if idx := strings.LastIndex(ref, "/"); idx != -1 && idx+1 < len(ref) {
			return ref[idx+1:]
		}
	}

	// Fallback: check if origin/main exists
	if runGit(ctx, repoPath, "rev-parse", "--verify", "origin/main") == nil {
		return "main"
	}

	// Fallback: check if origin/master exists
	if runGit(ctx, repoPath, "rev-parse", "--verify", "origin/master") == nil {
		return "master"
	}

	return ""
}

// RemoteURL returns the origin URL for a repository.
func RemoteURL(ctx context.Context, repoPath string) (string, error) {
	output, err := outputGit(ctx, repoPath, "remote", "get-url", "origin")
	if err != nil {
		return "", &OpError{Op: "read origin URL", Err: err}
	}
	return strings.TrimSpace(string(output)), nil
}

// Identity returns the committer name and email configured for the
// repository (local config falling back to global, as git resolves it).
// Missing values come back empty; identity lookup is best effort.
func Identity(ctx context.Context, repoPath string) (name, email string) {
	if out, err := outputGit(ctx, repoPath, "config", "user.name"); err == nil {
		name = strings.TrimSpace(string(out))
	}
	if out, err := outputGit(ctx, repoPath, "config", "user.email"); err == nil {
		email = strings.TrimSpace(string(out))
	}
	return name, email
}

// IsDirty returns true if the working tree has uncommitted changes or
// untracked files
func IsDirty(ctx context.Context, repoPath string) bool {
	output, err := outputGit(ctx, repoPath, "status", "--porcelain")
	if err != nil {
		return false // Treat error as clean (safe default)
	}
	return strings.TrimSpace(string(output)) != ""
}

// ShortHead returns the short (7 char) commit hash for HEAD
func ShortHead(ctx context.Context, repoPath string) (string, error) {
	output, err := outputGit(ctx, repoPath, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", &OpError{Op: "read HEAD", Err: err}
	}
	return strings.TrimSpace(string(output)), nil
}
