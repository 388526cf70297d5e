package layer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func testStore(t *testing.T) Store {
	t.Helper()
	return Store{
		ShareDir:   t.TempDir(),
		ConfigDir:  t.TempDir(),
		ProjectDir: t.TempDir(),
	}
}

func writeLayer(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLayers_OrderAndPaths(t *testing.T) {
	t.Parallel()

	s := testStore(t)
	layers := s.Layers("claude")

	if len(layers) != 8 {
		t.Fatalf("Layers() returned %d layers, want 8", len(layers))
	}

	wantScopes := []Scope{
		ProtectedPrefix,
		ConfigurableUniversal,
		UserBaseOverride,
		ConfigurableAssistant,
		UserAssistantOverride,
		ProjectGlobalOverride,
		ProjectAssistantOverride,
		ProtectedSuffix,
	}
	for i, l := range layers {
		if l.Scope != wantScopes[i] {
			t.Errorf("Layers()[%d].Scope = %v, want %v", i, l.Scope, wantScopes[i])
		}
	}

	if layers[0].Path != filepath.Join(s.ShareDir, "prefix.md") {
		t.Errorf("prefix path = %q", layers[0].Path)
	}
	if layers[3].Path != filepath.Join(s.ShareDir, "claude.md") {
		t.Errorf("assistant path = %q", layers[3].Path)
	}
	if layers[5].Path != filepath.Join(s.ProjectDir, ".gantry", "base.md") {
		t.Errorf("project base path = %q", layers[5].Path)
	}
	if layers[7].Path != filepath.Join(s.ShareDir, "suffix.md") {
		t.Errorf("suffix path = %q", layers[7].Path)
	}

	// Assistant is set only on assistant-scoped layers.
	for i, l := range layers {
		scoped := l.Scope == ConfigurableAssistant || l.Scope == UserAssistantOverride || l.Scope == ProjectAssistantOverride
		if scoped && l.Assistant != "claude" {
			t.Errorf("Layers()[%d].Assistant = %q, want claude", i, l.Assistant)
		}
		if !scoped && l.Assistant != "" {
			t.Errorf("Layers()[%d].Assistant = %q, want empty", i, l.Assistant)
		}
	}
}

func TestRead_Present(t *testing.T) {
	t.Parallel()

	s := testStore(t)
	writeLayer(t, filepath.Join(s.ShareDir, "prefix.md"), "prefix text\n")

	layers := s.Layers("claude")
	data, present, err := s.Read(layers[0])
	if err != nil {
		t.Fatalf("Read() = %v", err)
	}
	if !present {
		t.Fatal("Read() present = false")
	}
	if string(data) != "prefix text\n" {
		t.Errorf("Read() = %q", data)
	}
}

func TestRead_MissingOptional(t *testing.T) {
	t.Parallel()

	s := testStore(t)
	layers := s.Layers("claude")

	// universal layer (index 1) is optional
	data, present, err := s.Read(layers[1])
	if err != nil {
		t.Fatalf("Read() missing optional = %v, want nil", err)
	}
	if present || data != nil {
		t.Errorf("Read() = (%q, %v), want absent", data, present)
	}
}

func TestRead_MissingProtected(t *testing.T) {
	t.Parallel()

	s := testStore(t)
	layers := s.Layers("claude")

	for _, idx := range []int{0, 7} {
		_, _, err := s.Read(layers[idx])
		if err == nil {
			t.Fatalf("Read() missing %v = nil error", layers[idx].Scope)
		}
		var missing *MissingProtectedError
		if !errors.As(err, &missing) {
			t.Fatalf("Read() error = %T, want *MissingProtectedError", err)
		}
		if missing.Scope != layers[idx].Scope {
			t.Errorf("MissingProtectedError.Scope = %v, want %v", missing.Scope, layers[idx].Scope)
		}
	}
}

func TestScopeMandatory(t *testing.T) {
	t.Parallel()

	for _, s := range Scopes {
		want := s == ProtectedPrefix || s == ProtectedSuffix
		if got := s.Mandatory(); got != want {
			t.Errorf("%v.Mandatory() = %v, want %v", s, got, want)
		}
	}
}

func TestScaffold(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	written, err := Scaffold(dir, false)
	if err != nil {
		t.Fatalf("Scaffold() = %v", err)
	}
	if len(written) != 6 {
		t.Fatalf("Scaffold() wrote %d files, want 6: %v", len(written), written)
	}

	for _, name := range []string{"prefix.md", "suffix.md", "base.md", "claude.md", "codex.md", "gemini.md"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("Scaffold() did not create %s: %v", name, err)
		}
	}

	// Second run without force writes nothing.
	written, err = Scaffold(dir, false)
	if err != nil {
		t.Fatalf("second Scaffold() = %v", err)
	}
	if len(written) != 0 {
		t.Errorf("second Scaffold() wrote %v, want nothing", written)
	}

	// Force rewrites a modified file.
	prefix := filepath.Join(dir, "prefix.md")
	if err := os.WriteFile(prefix, []byte("edited"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Scaffold(dir, true); err != nil {
		t.Fatalf("Scaffold(force) = %v", err)
	}
	data, err := os.ReadFile(prefix)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) == "edited" {
		t.Error("Scaffold(force) did not overwrite prefix.md")
	}
}
