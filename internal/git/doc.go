// Package git provides git operations via shell commands.
//
// All operations use [os/exec.Command] to call the git CLI directly rather
// than using Go git libraries. This approach is simpler, more reliable, and
// ensures compatibility with user configurations (SSH keys, credential
// helpers, aliases).
//
// # Repository Queries
//
//   - [ProjectRoot]: Resolve the repository top level for a path
//   - [CurrentBranch], [LocalBranches], [BranchExists]: Branch queries
//   - [DefaultRemoteBranch]: Detect the remote HEAD branch (main/master)
//   - [RemoteURL]: Origin URL for forge detection
//   - [IsDirty], [ShortHead]: Working tree state
//
// # Branch Lifecycle
//
//   - [CreateBranch]: Create a branch from an explicit base ref
//   - [Checkout]: Switch the working tree to a branch
//
// Failures carry an [*OpError] naming the operation, so callers can separate
// git failures from policy decisions made on top of them.
package git
