package forge

import "context"

// Forge represents a git hosting service (GitHub, GitLab, etc.)
type Forge interface {
	// Name returns the forge name ("github" or "gitlab")
	Name() string

	// Check verifies the CLI is installed and authenticated
	Check(ctx context.Context) error

	// ProtectedBranches returns the branch names the forge marks as
	// protected for the repository behind remoteURL. Wildcard rules are
	// returned verbatim.
	ProtectedBranches(ctx context.Context, remoteURL string) ([]string, error)
}
