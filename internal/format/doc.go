// Package format handles generated work-branch name formatting and
// sanitization.
//
// When no explicit work branch is requested, a branch name is generated from
// a configurable format string with placeholders substituted at decision
// time.
//
// # Format Placeholders
//
// Available placeholders for branch_format config:
//
//   - {assistant}: lower-case assistant name
//   - {timestamp}: local time as yyyy-mm-dd-HHMMSS
//
// Default format is "{assistant}-{timestamp}", creating branches like
// "claude-2025-11-04-153102". The timestamp makes generated names unique, so
// the no-explicit-branch path never collides and never rejects.
//
// # Sanitization
//
// Substituted values are sanitized to the branch-name character set
// [A-Za-z0-9._/-]; anything else becomes "-".
//
// # Validation
//
// Use [ValidateFormat] to check format strings before use. It ensures:
//   - All placeholders are recognized
//   - The {timestamp} placeholder is present (uniqueness depends on it)
package format
