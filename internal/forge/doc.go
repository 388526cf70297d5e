// Package forge provides an abstraction layer for git hosting services.
//
// The package supports GitHub (via gh CLI) and GitLab (via glab CLI), so the
// branch policy can consult server-side branch protection without duplicating
// platform logic.
//
// # Platform Detection
//
// Use [Detect] to automatically determine the forge from a repository's
// origin URL. Detection checks:
//
//  1. Custom host mappings from config (for self-hosted instances)
//  2. URL patterns (gitlab.com, gitlab.* domains)
//  3. Falls back to GitHub (most common)
//
// # Best Effort
//
// Forge queries are advisory: a missing CLI, missing auth, or network failure
// returns an error that callers treat as "no additional information", never as
// a hard stop. Never call gh or glab directly outside this package.
package forge
