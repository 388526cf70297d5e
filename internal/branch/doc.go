// Package branch decides and applies the work branch for a launch.
//
// The decision is a small state machine evaluated once per launch. Without an
// explicit work branch it always creates a fresh timestamped branch from the
// resolved base. With an explicit name it validates the format, requires a
// multi-branch repository, refuses members of the protected set, reuses the
// branch if it exists, and otherwise creates it from the base branch captured
// before any checkout moved HEAD.
//
// [Decide] is pure and operates on an observed [State], so every policy rule
// is unit-testable without a repository. [Ensure] observes the repository,
// decides, and applies the decision with git.
package branch
