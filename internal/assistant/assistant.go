// Package assistant defines the coding assistants gantry can launch and the
// per-assistant conventions: instruction filename, credential directory, and
// container image. Every per-assistant behavior switches exhaustively on Kind
// so adding an assistant is a compile-time-checked change.
package assistant

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Kind identifies an assistant family.
type Kind int

const (
	// Claude authenticates via a token file in its credential directory.
	Claude Kind = iota
	// Codex authenticates via API-key env var or an auth file.
	Codex
	// Gemini authenticates via OAuth cache, API-key env var, or a
	// service-account pair.
	Gemini
	// Custom is a config-declared assistant with the generic credential
	// policy.
	Custom
)

// String returns the lower-case kind name.
func (k Kind) String() string {
	switch k {
	case Claude:
		return "claude"
	case Codex:
		return "codex"
	case Gemini:
		return "gemini"
	case Custom:
		return "custom"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind maps a built-in assistant name to its Kind.
// Returns false for anything that is not a built-in.
func ParseKind(name string) (Kind, bool) {
	switch strings.ToLower(name) {
	case "claude":
		return Claude, true
	case "codex":
		return Codex, true
	case "gemini":
		return Gemini, true
	}
	return 0, false
}

// Assistant describes one launchable assistant. For built-ins the override
// fields are empty and conventions apply; for Custom they come from config.
type Assistant struct {
	Kind Kind
	Name string // lower-case identifier, unique across the config

	// Overrides for custom assistants (and per-assistant config).
	Image          string // full image reference; empty = registry default
	Instruction    string // instruction symlink filename at the project root
	CredentialPath string // credential directory; empty = ~/.{name}
	APIKeyEnv      string // generic policy: API key environment variable
	AuthFile       string // generic policy: auth file inside the credential dir
	ConfigFile     string // generic policy: named config file inside the credential dir
}

// Builtin returns the assistant for a built-in kind.
func Builtin(k Kind) Assistant {
	return Assistant{Kind: k, Name: k.String()}
}

// Builtins returns all built-in assistants in stable order.
func Builtins() []Assistant {
	return []Assistant{Builtin(Claude), Builtin(Codex), Builtin(Gemini)}
}

func (a Assistant) String() string {
	return a.Name
}

// InstructionFile returns the conventional instruction filename linked at the
// project root for this assistant.
func (a Assistant) InstructionFile() string {
	switch a.Kind {
	case Claude:
		return "CLAUDE.md"
	case Codex:
		return "AGENTS.md"
	case Gemini:
		return "GEMINI.md"
	case Custom:
		if a.Instruction != "" {
			return a.Instruction
		}
		return strings.ToUpper(a.Name) + ".md"
	}
	return strings.ToUpper(a.Name) + ".md"
}

// CredentialDir returns the directory holding this assistant's credential
// files, rooted at the user's home directory unless overridden.
func (a Assistant) CredentialDir(home string) string {
	switch a.Kind {
	case Claude:
		return filepath.Join(home, ".claude")
	case Codex:
		return filepath.Join(home, ".codex")
	case Gemini:
		return filepath.Join(home, ".gemini")
	case Custom:
		if a.CredentialPath != "" {
			return a.CredentialPath
		}
		return filepath.Join(home, "."+a.Name)
	}
	return filepath.Join(home, "."+a.Name)
}

// ImageRef returns the container image to run: the explicit override when
// set, otherwise {registry}/{name}:latest.
func (a Assistant) ImageRef(registry string) string {
	if a.Image != "" {
		return a.Image
	}
	return fmt.Sprintf("%s/%s:latest", strings.TrimSuffix(registry, "/"), a.Name)
}
