// Package config handles loading and validation of gantry configuration.
//
// Configuration is read from <config dir>/config.toml with environment
// variable overrides for directory settings, resolved once at process start
// into an immutable Config passed down to all components.
//
// # Configuration Sources (highest priority first)
//
//   - GANTRY_REGISTRY env var: image registry for default assistant images
//   - GANTRY_SHARE_DIR env var: system share directory holding prompt layers
//   - GANTRY_CONFIG_DIR env var: user config directory (default ~/.config/gantry)
//   - Config file settings
//   - Default values
//
// # Key Settings
//
//   - registry: image registry prefix (default "ghcr.io/gantrylabs")
//   - share_dir: system share directory (default "/usr/local/share/gantry")
//   - default_assistant: assistant used when none is named (default "claude")
//   - branch_format: generated work-branch name format (default "{assistant}-{timestamp}")
//
// # Per-Assistant Configuration
//
// The [images] table overrides the container image per assistant. Custom
// assistants are declared in [assistants.NAME] sections:
//
//	[assistants.aider]
//	image = "docker.io/me/aider:latest"
//	instruction_file = "CONVENTIONS.md"
//	api_key_env = "AIDER_API_KEY"
//	auth_file = "auth.json"
//
// A custom assistant with no api_key_env configured requires no
// authentication at all.
//
// # Project Overrides
//
// A project may carry .gantry/config.toml with a pinned assistant, extra
// container env, per-assistant image overrides, and additional hooks. Project
// values are merged over the global config per invocation.
//
// # Path Validation
//
// Directory paths must be absolute or start with ~ (no relative paths like
// "." or "..") to avoid confusion about the working directory.
package config
