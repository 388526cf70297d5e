// Package hooks provides launch lifecycle hook execution with placeholder substitution.
//
// Hooks are shell commands defined in config that run around assistant
// launches. Pre-run hooks execute before the container starts and abort the
// launch when they fail; post-run hooks execute after the container exits
// and only warn on failure.
//
// Example config:
//
//	[hooks]
//	pre_run = ["git fetch --prune", "npm install"]
//	post_run = ["notify-send gantry 'run on {branch} finished'"]
//
// # Placeholder Substitution
//
// Static placeholders available in all hooks:
//
//   - {assistant}: Assistant name (claude, codex, gemini, ...)
//   - {branch}: Work branch name (empty in shell mode)
//   - {project}: Absolute project root path
//   - {prompt}: Absolute path of the composed instruction file
//   - {phase}: Lifecycle phase (pre-run, post-run)
//
// Custom variables via --arg key=value:
//
//   - {key}: Value from --arg key=value
//   - {key:raw}: Unquoted value (for embedding in existing quotes)
//   - {key:-default}: Value with fallback if not provided
//
// # Execution Context
//
// Hooks run via sh -c with the working directory set to the project root and
// stdio attached to the terminal, so interactive commands work.
//
// Pre-run hook failures stop the launch ([Run]). Post-run hook failures are
// logged but never change the launch outcome ([RunNonFatal]).
//
// # Stdin Support
//
// Use --arg key=- to read stdin content into a variable:
//
//	echo "my content" | gantry run --arg content=-
package hooks
