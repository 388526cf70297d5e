package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ProjectDirName is the hidden per-project directory holding the project's
// override layers, composed prompts, and project config.
const ProjectDirName = ".gantry"

// ProjectConfigFileName is the per-project config file inside ProjectDirName.
const ProjectConfigFileName = "config.toml"

// ProjectConfig holds per-project overrides from .gantry/config.toml.
// Empty values mean "not set" (inherit from global).
type ProjectConfig struct {
	Assistant string            `toml:"assistant"` // pinned default assistant for this project
	Images    map[string]string `toml:"images"`
	Hooks     HooksConfig       `toml:"hooks"` // appended to global hooks
	Env       map[string]string `toml:"env"`   // merged over global env
}

// ProjectDir returns the project's .gantry directory path.
func ProjectDir(projectPath string) string {
	return filepath.Join(projectPath, ProjectDirName)
}

// LoadProject reads the per-project config from <project>/.gantry/config.toml.
// Returns nil (no error) if the file doesn't exist; an error only on parse or
// validation failure.
func LoadProject(projectPath string) (*ProjectConfig, error) {
	configFile := filepath.Join(ProjectDir(projectPath), ProjectConfigFileName)

	data, err := os.ReadFile(configFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, &Error{Msg: fmt.Sprintf("read project config %s", configFile), Err: err}
	}

	var pc ProjectConfig
	if err := toml.Unmarshal(data, &pc); err != nil {
		return nil, &Error{Msg: fmt.Sprintf("parse project config %s", configFile), Err: err}
	}

	return &pc, nil
}

// defaultProjectConfig is the template for gantry init --project.
const defaultProjectConfig = `# gantry project config (per-project overrides)
# Settings here override the global config for this project only.

# Pin the assistant launched when none is named.
# assistant = "codex"

# Per-assistant image overrides for this project.
# [images]
# claude = "ghcr.io/me/claude:project-pinned"

# Extra container environment for this project (merged over global [env]).
# [env]
# NODE_OPTIONS = "--max-old-space-size=4096"

# Additional hooks, appended to the global ones.
# [hooks]
# pre_run = ["./scripts/check-deps.sh"]
`

// DefaultProjectConfig returns the default project configuration template.
func DefaultProjectConfig() string {
	return defaultProjectConfig
}
