// Package layer resolves the on-disk location of prompt layers.
//
// A composed prompt is built from up to eight layers in fixed scope order.
// The protected prefix and suffix live in the system share dir and are
// mandatory; everything else is optional. Layers are plain UTF-8 text with
// no internal schema; the store only resolves paths and reads bytes.
package layer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Scope identifies one layer position in the fixed composition order.
type Scope int

const (
	ProtectedPrefix Scope = iota
	ConfigurableUniversal
	UserBaseOverride
	ConfigurableAssistant
	UserAssistantOverride
	ProjectGlobalOverride
	ProjectAssistantOverride
	ProtectedSuffix
)

// Scopes lists all scopes in composition order.
var Scopes = []Scope{
	ProtectedPrefix,
	ConfigurableUniversal,
	UserBaseOverride,
	ConfigurableAssistant,
	UserAssistantOverride,
	ProjectGlobalOverride,
	ProjectAssistantOverride,
	ProtectedSuffix,
}

// String returns the scope name used in metadata footers and errors.
func (s Scope) String() string {
	switch s {
	case ProtectedPrefix:
		return "protected-prefix"
	case ConfigurableUniversal:
		return "universal"
	case UserBaseOverride:
		return "user-base"
	case ConfigurableAssistant:
		return "assistant"
	case UserAssistantOverride:
		return "user-assistant"
	case ProjectGlobalOverride:
		return "project-base"
	case ProjectAssistantOverride:
		return "project-assistant"
	case ProtectedSuffix:
		return "protected-suffix"
	}
	return fmt.Sprintf("scope(%d)", int(s))
}

// Mandatory reports whether absence of this layer is fatal.
func (s Scope) Mandatory() bool {
	return s == ProtectedPrefix || s == ProtectedSuffix
}

// Layer is one resolved layer: a scope plus the path it would be read from.
// Assistant is set only for assistant-scoped layers.
type Layer struct {
	Scope     Scope
	Assistant string
	Path      string
}

// MissingProtectedError reports an absent mandatory layer. It aborts
// composition before any output is written.
type MissingProtectedError struct {
	Scope Scope
	Path  string
}

func (e *MissingProtectedError) Error() string {
	return fmt.Sprintf("%s layer missing at %s (run 'gantry init --share' or point GANTRY_SHARE_DIR at your share directory)", e.Scope, e.Path)
}

// Store resolves layer paths for one (project, assistant) composition pass.
type Store struct {
	ShareDir   string // system share dir: protected + configurable layers
	ConfigDir  string // user config dir: user overrides
	ProjectDir string // project root: project overrides under .gantry/
}

// Layers returns all eight layers for the assistant in composition order.
// Paths are resolved unconditionally; existence is checked at read time.
func (s Store) Layers(assistantName string) []Layer {
	projectDir := filepath.Join(s.ProjectDir, ".gantry")
	assistantFile := assistantName + ".md"

	return []Layer{
		{Scope: ProtectedPrefix, Path: filepath.Join(s.ShareDir, "prefix.md")},
		{Scope: ConfigurableUniversal, Path: filepath.Join(s.ShareDir, "base.md")},
		{Scope: UserBaseOverride, Path: filepath.Join(s.ConfigDir, "base.md")},
		{Scope: ConfigurableAssistant, Assistant: assistantName, Path: filepath.Join(s.ShareDir, assistantFile)},
		{Scope: UserAssistantOverride, Assistant: assistantName, Path: filepath.Join(s.ConfigDir, assistantFile)},
		{Scope: ProjectGlobalOverride, Path: filepath.Join(projectDir, "base.md")},
		{Scope: ProjectAssistantOverride, Assistant: assistantName, Path: filepath.Join(projectDir, assistantFile)},
		{Scope: ProtectedSuffix, Path: filepath.Join(s.ShareDir, "suffix.md")},
	}
}

// Read returns the layer's bytes and whether it is present.
// A missing mandatory layer is a MissingProtectedError; a missing optional
// layer is (nil, false, nil).
func (s Store) Read(l Layer) ([]byte, bool, error) {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if l.Scope.Mandatory() {
				return nil, false, &MissingProtectedError{Scope: l.Scope, Path: l.Path}
			}
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read %s layer %s: %w", l.Scope, l.Path, err)
	}
	return data, true, nil
}
