package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/gantrylabs/gantry/internal/assistant"
	"github.com/gantrylabs/gantry/internal/format"
)

// Error is a configuration error: unusable directories, invalid config
// values, or an unknown assistant. It is always fatal before any container
// is started.
type Error struct {
	Msg string
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Errorf builds a config error from a format string.
func Errorf(format string, args ...any) *Error {
	return &Error{Msg: fmt.Sprintf(format, args...)}
}

// AssistantConfig declares a custom assistant in [assistants.NAME].
type AssistantConfig struct {
	Image         string `toml:"image"`
	Instruction   string `toml:"instruction_file"`
	CredentialDir string `toml:"credential_dir"`
	APIKeyEnv     string `toml:"api_key_env"`
	AuthFile      string `toml:"auth_file"`
	ConfigFile    string `toml:"config_file"`
}

// HooksConfig holds launch lifecycle hooks.
type HooksConfig struct {
	PreRun  []string `toml:"pre_run"`
	PostRun []string `toml:"post_run"`
}

// Config holds the effective gantry configuration.
type Config struct {
	Registry         string                     `toml:"registry"`
	ShareDir         string                     `toml:"share_dir"`
	DefaultAssistant string                     `toml:"default_assistant"`
	BranchFormat     string                     `toml:"branch_format"`
	Images           map[string]string          `toml:"images"`
	Assistants       map[string]AssistantConfig `toml:"assistants"`
	Hooks            HooksConfig                `toml:"hooks"`
	Hosts            map[string]string          `toml:"hosts"` // domain -> forge type mapping
	Env              map[string]string          `toml:"env"`   // extra container environment

	// Resolved at load time, never read from the file.
	ConfigDir string `toml:"-"`
}

// Defaults applied when the config file or individual settings are absent.
const (
	DefaultRegistry  = "ghcr.io/gantrylabs"
	DefaultShareDir  = "/usr/local/share/gantry"
	DefaultAssistant = "claude"
)

// Default returns the default configuration with directories resolved from
// the environment.
func Default() Config {
	return Config{
		Registry:         DefaultRegistry,
		ShareDir:         DefaultShareDir,
		DefaultAssistant: DefaultAssistant,
		BranchFormat:     format.DefaultBranchFormat,
		ConfigDir:        configDir(),
	}
}

// configDir returns the user config directory, honoring GANTRY_CONFIG_DIR.
func configDir() string {
	if dir := os.Getenv("GANTRY_CONFIG_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "gantry")
}

// Path returns the path of the global config file.
func Path() string {
	return filepath.Join(configDir(), "config.toml")
}

// Load reads the global config file, applies environment overrides, and
// validates the result. Returns Default() if the file doesn't exist; an
// error only if it exists but is invalid.
func Load() (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(Path())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, &Error{Msg: "read config file", Err: err}
	}
	if err == nil {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Default(), &Error{Msg: fmt.Sprintf("parse %s", Path()), Err: err}
		}
		cfg.ConfigDir = configDir()
	}

	// Environment overrides beat file settings.
	if reg := os.Getenv("GANTRY_REGISTRY"); reg != "" {
		cfg.Registry = reg
	}
	if share := os.Getenv("GANTRY_SHARE_DIR"); share != "" {
		cfg.ShareDir = share
	}

	if err := ValidatePath(cfg.ShareDir, "share_dir"); err != nil {
		return Default(), err
	}
	cfg.ShareDir, err = expandPath(cfg.ShareDir)
	if err != nil {
		return Default(), &Error{Msg: "expand share_dir", Err: err}
	}

	for host, forgeType := range cfg.Hosts {
		if err := validateEnum(forgeType, fmt.Sprintf("forge type for host %q", host), ValidForgeTypes); err != nil {
			return Default(), err
		}
	}

	for name, ac := range cfg.Assistants {
		if _, builtin := assistant.ParseKind(name); builtin {
			return Default(), Errorf("[assistants.%s] conflicts with the built-in assistant of the same name", name)
		}
		if err := validateAssistantName(name); err != nil {
			return Default(), err
		}
		if err := ValidatePath(ac.CredentialDir, fmt.Sprintf("assistants.%s.credential_dir", name)); err != nil {
			return Default(), err
		}
	}

	if cfg.Registry == "" {
		cfg.Registry = DefaultRegistry
	}
	if cfg.ShareDir == "" {
		cfg.ShareDir = DefaultShareDir
	}
	if cfg.DefaultAssistant == "" {
		cfg.DefaultAssistant = DefaultAssistant
	}
	if cfg.BranchFormat == "" {
		cfg.BranchFormat = format.DefaultBranchFormat
	}
	if err := format.ValidateFormat(cfg.BranchFormat); err != nil {
		return Default(), &Error{Msg: "branch_format", Err: err}
	}

	return cfg, nil
}

// Assistant resolves a name to an assistant: built-ins first, then custom
// [assistants.NAME] declarations. Image overrides from [images] apply to
// built-ins.
func (c *Config) Assistant(name string) (assistant.Assistant, error) {
	name = strings.ToLower(name)
	if kind, ok := assistant.ParseKind(name); ok {
		a := assistant.Builtin(kind)
		if img, ok := c.Images[name]; ok {
			a.Image = img
		}
		return a, nil
	}
	if ac, ok := c.Assistants[name]; ok {
		a := assistant.Assistant{
			Kind:           assistant.Custom,
			Name:           name,
			Image:          ac.Image,
			Instruction:    ac.Instruction,
			CredentialPath: ac.CredentialDir,
			APIKeyEnv:      ac.APIKeyEnv,
			AuthFile:       ac.AuthFile,
			ConfigFile:     ac.ConfigFile,
		}
		if img, ok := c.Images[name]; ok && a.Image == "" {
			a.Image = img
		}
		if a.CredentialPath != "" {
			expanded, err := expandPath(a.CredentialPath)
			if err != nil {
				return assistant.Assistant{}, &Error{Msg: fmt.Sprintf("expand assistants.%s.credential_dir", name), Err: err}
			}
			a.CredentialPath = expanded
		}
		return a, nil
	}
	return assistant.Assistant{}, Errorf("unknown assistant %q (built-ins: claude, codex, gemini; customs come from [assistants.NAME])", name)
}

// AllAssistants returns every configured assistant: built-ins plus customs,
// customs sorted by name.
func (c *Config) AllAssistants() []assistant.Assistant {
	all := assistant.Builtins()
	for i := range all {
		if img, ok := c.Images[all[i].Name]; ok {
			all[i].Image = img
		}
	}
	names := make([]string, 0, len(c.Assistants))
	for name := range c.Assistants {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		a, err := c.Assistant(name)
		if err != nil {
			continue
		}
		all = append(all, a)
	}
	return all
}

// ValidatePath checks that the path is absolute or starts with ~.
// Returns an error if the path is relative (like "." or "..").
func ValidatePath(path, fieldName string) error {
	if path == "" {
		return nil // empty means not configured
	}
	if path[0] == '~' {
		return nil
	}
	if !filepath.IsAbs(path) {
		return Errorf("%s must be absolute or start with ~, got: %q", fieldName, path)
	}
	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	if path == "~" {
		return os.UserHomeDir()
	}
	return path, nil
}

const defaultConfig = `# gantry configuration

# Image registry for default assistant images.
# The image for an assistant defaults to "{registry}/{assistant}:latest".
# registry = "ghcr.io/gantrylabs"

# System share directory holding the protected prompt layers
# (prefix.md, suffix.md) and the configurable system layers.
# Must be an absolute path or start with ~.
# share_dir = "/usr/local/share/gantry"

# Assistant launched when none is named on the command line.
# default_assistant = "claude"

# Format for generated work-branch names when no explicit branch is given.
# Placeholders: {assistant}, {timestamp}
# branch_format = "{assistant}-{timestamp}"

# Per-assistant image overrides.
# [images]
# claude = "ghcr.io/me/claude:nightly"
# codex = "docker.io/me/codex:latest"

# Custom assistants. A custom assistant authenticates via api_key_env,
# then auth_file, then config_file (first satisfied wins). Without an
# api_key_env it requires no authentication.
#
# [assistants.aider]
# image = "docker.io/me/aider:latest"
# instruction_file = "CONVENTIONS.md"
# credential_dir = "~/.aider"
# api_key_env = "AIDER_API_KEY"
# auth_file = "auth.json"
# config_file = "config.yml"

# Extra environment passed to every assistant container.
# [env]
# HTTP_PROXY = "http://proxy.internal:3128"

# Lifecycle hooks. pre_run failures abort the launch; post_run failures
# only warn. Placeholders: {assistant}, {branch}, {project}, {prompt}.
# [hooks]
# pre_run = ["./scripts/preflight.sh {project}"]
# post_run = ["notify-send 'gantry finished on {branch}'"]

# Host mappings for self-hosted forges, used for protected-branch lookup.
# [hosts]
# "github.mycompany.com" = "github"
# "gitlab.internal.corp" = "gitlab"
`

// Init creates a default config file under the config dir.
// If force is true, an existing file is overwritten.
// Returns the path of the created file.
func Init(force bool) (string, error) {
	path := Path()

	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", errors.New("config file already exists: " + path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}

	if err := os.WriteFile(path, []byte(defaultConfig), 0o644); err != nil {
		return "", err
	}

	return path, nil
}
