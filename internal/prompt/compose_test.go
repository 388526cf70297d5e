package prompt

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gantrylabs/gantry/internal/assistant"
	"github.com/gantrylabs/gantry/internal/layer"
)

func testComposer(t *testing.T) Composer {
	t.Helper()
	return Composer{Store: layer.Store{
		ShareDir:   t.TempDir(),
		ConfigDir:  t.TempDir(),
		ProjectDir: t.TempDir(),
	}}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// writeProtected writes the mandatory prefix and suffix layers.
func writeProtected(t *testing.T, c Composer) {
	t.Helper()
	writeFile(t, filepath.Join(c.Store.ShareDir, "prefix.md"), "PREFIX\n")
	writeFile(t, filepath.Join(c.Store.ShareDir, "suffix.md"), "SUFFIX\n")
}

// stripTimestamp removes the composed: footer line for idempotence checks.
func stripTimestamp(body []byte) []byte {
	lines := bytes.Split(body, []byte("\n"))
	out := make([][]byte, 0, len(lines))
	for _, l := range lines {
		if bytes.HasPrefix(l, []byte("composed: ")) {
			continue
		}
		out = append(out, l)
	}
	return bytes.Join(out, []byte("\n"))
}

func TestCompose_AllLayersInOrder(t *testing.T) {
	t.Parallel()

	c := testComposer(t)
	writeProtected(t, c)
	writeFile(t, filepath.Join(c.Store.ShareDir, "base.md"), "UNIVERSAL\n")
	writeFile(t, filepath.Join(c.Store.ConfigDir, "base.md"), "USER-BASE\n")
	writeFile(t, filepath.Join(c.Store.ShareDir, "claude.md"), "ASSISTANT\n")
	writeFile(t, filepath.Join(c.Store.ConfigDir, "claude.md"), "USER-ASSISTANT\n")
	writeFile(t, filepath.Join(c.Store.ProjectDir, ".gantry", "base.md"), "PROJECT-BASE\n")
	writeFile(t, filepath.Join(c.Store.ProjectDir, ".gantry", "claude.md"), "PROJECT-ASSISTANT\n")

	composed, err := c.Compose(context.Background(), assistant.Builtin(assistant.Claude))
	if err != nil {
		t.Fatalf("Compose() = %v", err)
	}

	body := string(composed.Body)
	want := "PREFIX\n\nUNIVERSAL\n\nUSER-BASE\n\nASSISTANT\n\nUSER-ASSISTANT\n\nPROJECT-BASE\n\nPROJECT-ASSISTANT\n\nSUFFIX\n\n"
	if !strings.HasPrefix(body, want) {
		t.Errorf("Compose() body =\n%q\nwant prefix\n%q", body, want)
	}
	if len(composed.Sections) != 8 {
		t.Errorf("Sections = %d, want 8", len(composed.Sections))
	}
}

func TestCompose_SkipsAbsentWithoutReordering(t *testing.T) {
	t.Parallel()

	c := testComposer(t)
	writeProtected(t, c)
	// Only a middle layer present: user assistant override.
	writeFile(t, filepath.Join(c.Store.ConfigDir, "claude.md"), "USER-ASSISTANT\n")

	composed, err := c.Compose(context.Background(), assistant.Builtin(assistant.Claude))
	if err != nil {
		t.Fatalf("Compose() = %v", err)
	}

	body := string(composed.Body)
	if !strings.HasPrefix(body, "PREFIX\n\nUSER-ASSISTANT\n\nSUFFIX\n\n") {
		t.Errorf("Compose() body =\n%q", body)
	}

	wantScopes := []layer.Scope{layer.ProtectedPrefix, layer.UserAssistantOverride, layer.ProtectedSuffix}
	if len(composed.Sections) != len(wantScopes) {
		t.Fatalf("Sections = %v", composed.Sections)
	}
	for i, s := range composed.Sections {
		if s.Scope != wantScopes[i] {
			t.Errorf("Sections[%d].Scope = %v, want %v", i, s.Scope, wantScopes[i])
		}
	}
}

func TestCompose_SeparatorHandlesMissingNewline(t *testing.T) {
	t.Parallel()

	c := testComposer(t)
	writeFile(t, filepath.Join(c.Store.ShareDir, "prefix.md"), "PREFIX") // no trailing newline
	writeFile(t, filepath.Join(c.Store.ShareDir, "suffix.md"), "SUFFIX\n")

	composed, err := c.Compose(context.Background(), assistant.Builtin(assistant.Claude))
	if err != nil {
		t.Fatalf("Compose() = %v", err)
	}
	if !strings.HasPrefix(string(composed.Body), "PREFIX\n\nSUFFIX\n\n") {
		t.Errorf("Compose() body = %q", composed.Body)
	}
	// Byte length records the raw layer, not the added separator.
	if composed.Sections[0].Bytes != len("PREFIX") {
		t.Errorf("Sections[0].Bytes = %d", composed.Sections[0].Bytes)
	}
}

func TestCompose_MissingProtectedFatalNoOutput(t *testing.T) {
	t.Parallel()

	for _, missing := range []string{"prefix.md", "suffix.md"} {
		missing := missing
		t.Run(missing, func(t *testing.T) {
			t.Parallel()
			c := testComposer(t)
			// Write the other protected layer plus plenty of optional ones.
			for _, name := range []string{"prefix.md", "suffix.md"} {
				if name != missing {
					writeFile(t, filepath.Join(c.Store.ShareDir, name), "PRESENT\n")
				}
			}
			writeFile(t, filepath.Join(c.Store.ShareDir, "base.md"), "UNIVERSAL\n")

			_, err := c.Compose(context.Background(), assistant.Builtin(assistant.Claude))
			if err == nil {
				t.Fatal("Compose() = nil error with protected layer missing")
			}
			var mpe *layer.MissingProtectedError
			if !errors.As(err, &mpe) {
				t.Fatalf("Compose() error = %T (%v)", err, err)
			}

			// No partial output may exist.
			outPath := filepath.Join(c.Store.ProjectDir, ".gantry", OutputFileName("claude"))
			if _, statErr := os.Stat(outPath); !os.IsNotExist(statErr) {
				t.Errorf("Compose() left partial output at %s", outPath)
			}
			linkPath := filepath.Join(c.Store.ProjectDir, "CLAUDE.md")
			if _, statErr := os.Lstat(linkPath); !os.IsNotExist(statErr) {
				t.Errorf("Compose() left symlink at %s", linkPath)
			}
		})
	}
}

func TestCompose_NeverFailsForAbsentOptionalLayers(t *testing.T) {
	t.Parallel()

	c := testComposer(t)
	writeProtected(t, c)

	if _, err := c.Compose(context.Background(), assistant.Builtin(assistant.Claude)); err != nil {
		t.Fatalf("Compose() with only protected layers = %v", err)
	}
}

func TestCompose_IdempotentModuloTimestamp(t *testing.T) {
	t.Parallel()

	c := testComposer(t)
	writeProtected(t, c)
	writeFile(t, filepath.Join(c.Store.ShareDir, "base.md"), "UNIVERSAL\n")
	writeFile(t, filepath.Join(c.Store.ProjectDir, ".gantry", "claude.md"), "PROJECT\n")

	a := assistant.Builtin(assistant.Claude)
	first, err := c.Compose(context.Background(), a)
	if err != nil {
		t.Fatalf("first Compose() = %v", err)
	}
	second, err := c.Compose(context.Background(), a)
	if err != nil {
		t.Fatalf("second Compose() = %v", err)
	}

	if !bytes.Equal(stripTimestamp(first.Body), stripTimestamp(second.Body)) {
		t.Errorf("Compose() not idempotent modulo timestamp:\n%q\nvs\n%q", first.Body, second.Body)
	}
}

func TestCompose_Footer(t *testing.T) {
	t.Parallel()

	c := testComposer(t)
	writeProtected(t, c)

	composed, err := c.Compose(context.Background(), assistant.Builtin(assistant.Gemini))
	if err != nil {
		t.Fatalf("Compose() = %v", err)
	}

	body := string(composed.Body)
	if !strings.Contains(body, "assistant: gemini\n") {
		t.Errorf("footer missing assistant line:\n%s", body)
	}
	if !strings.Contains(body, "composed: ") {
		t.Errorf("footer missing composed line:\n%s", body)
	}
	if !strings.Contains(body, "part: protected-prefix 7 bytes\n") {
		t.Errorf("footer missing prefix part line:\n%s", body)
	}
	if !strings.Contains(body, "part: protected-suffix 7 bytes\n") {
		t.Errorf("footer missing suffix part line:\n%s", body)
	}
}

func TestCompose_WritesFileAndSymlink(t *testing.T) {
	t.Parallel()

	c := testComposer(t)
	writeProtected(t, c)

	composed, err := c.Compose(context.Background(), assistant.Builtin(assistant.Codex))
	if err != nil {
		t.Fatalf("Compose() = %v", err)
	}

	wantPath := filepath.Join(c.Store.ProjectDir, ".gantry", "prompt.codex.md")
	if composed.Path != wantPath {
		t.Errorf("Path = %q, want %q", composed.Path, wantPath)
	}

	onDisk, err := os.ReadFile(composed.Path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !bytes.Equal(onDisk, composed.Body) {
		t.Error("file content differs from Composed.Body")
	}

	link := filepath.Join(c.Store.ProjectDir, "AGENTS.md")
	target, err := os.Readlink(link)
	if err != nil {
		t.Fatalf("readlink: %v", err)
	}
	if target != filepath.Join(".gantry", "prompt.codex.md") {
		t.Errorf("symlink target = %q", target)
	}

	// Reading through the link must yield the composed document.
	viaLink, err := os.ReadFile(link)
	if err != nil {
		t.Fatalf("read via link: %v", err)
	}
	if !bytes.Equal(viaLink, composed.Body) {
		t.Error("content via symlink differs")
	}
}

func TestCompose_ReplacesExistingInstructionFile(t *testing.T) {
	t.Parallel()

	t.Run("regular file", func(t *testing.T) {
		t.Parallel()
		c := testComposer(t)
		writeProtected(t, c)
		writeFile(t, filepath.Join(c.Store.ProjectDir, "CLAUDE.md"), "stale handwritten file\n")

		if _, err := c.Compose(context.Background(), assistant.Builtin(assistant.Claude)); err != nil {
			t.Fatalf("Compose() = %v", err)
		}
		info, err := os.Lstat(filepath.Join(c.Store.ProjectDir, "CLAUDE.md"))
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode()&os.ModeSymlink == 0 {
			t.Error("existing regular file was not replaced by a symlink")
		}
	})

	t.Run("stale symlink", func(t *testing.T) {
		t.Parallel()
		c := testComposer(t)
		writeProtected(t, c)
		link := filepath.Join(c.Store.ProjectDir, "CLAUDE.md")
		if err := os.Symlink("somewhere-else", link); err != nil {
			t.Fatal(err)
		}

		if _, err := c.Compose(context.Background(), assistant.Builtin(assistant.Claude)); err != nil {
			t.Fatalf("Compose() = %v", err)
		}
		target, err := os.Readlink(link)
		if err != nil {
			t.Fatal(err)
		}
		if target != filepath.Join(".gantry", "prompt.claude.md") {
			t.Errorf("symlink target = %q, want repointed", target)
		}
	})

	t.Run("correct symlink untouched", func(t *testing.T) {
		t.Parallel()
		c := testComposer(t)
		writeProtected(t, c)

		a := assistant.Builtin(assistant.Claude)
		if _, err := c.Compose(context.Background(), a); err != nil {
			t.Fatalf("first Compose() = %v", err)
		}
		if _, err := c.Compose(context.Background(), a); err != nil {
			t.Fatalf("second Compose() = %v", err)
		}
	})
}

func TestEstimateTokens(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("the quick brown fox jumps over the lazy dog ", 20)
	got := EstimateTokens(text)
	if got <= 0 {
		t.Fatalf("EstimateTokens() = %d, want > 0", got)
	}
	// Sanity bound: between one token per word-ish and one per character.
	if got > len(text) {
		t.Errorf("EstimateTokens() = %d, more than character count %d", got, len(text))
	}
}
