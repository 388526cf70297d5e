package assistant

import (
	"path/filepath"
	"testing"
)

func TestParseKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		want   Kind
		wantOK bool
	}{
		{"claude", Claude, true},
		{"codex", Codex, true},
		{"gemini", Gemini, true},
		{"Claude", Claude, true},
		{"GEMINI", Gemini, true},
		{"aider", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseKind(tt.name)
			if ok != tt.wantOK {
				t.Fatalf("ParseKind(%q) ok = %v, want %v", tt.name, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("ParseKind(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestInstructionFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a    Assistant
		want string
	}{
		{"claude", Builtin(Claude), "CLAUDE.md"},
		{"codex", Builtin(Codex), "AGENTS.md"},
		{"gemini", Builtin(Gemini), "GEMINI.md"},
		{"custom default", Assistant{Kind: Custom, Name: "aider"}, "AIDER.md"},
		{"custom override", Assistant{Kind: Custom, Name: "aider", Instruction: "CONVENTIONS.md"}, "CONVENTIONS.md"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.a.InstructionFile(); got != tt.want {
				t.Errorf("InstructionFile() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCredentialDir(t *testing.T) {
	t.Parallel()

	home := "/home/dev"

	tests := []struct {
		name string
		a    Assistant
		want string
	}{
		{"claude", Builtin(Claude), filepath.Join(home, ".claude")},
		{"codex", Builtin(Codex), filepath.Join(home, ".codex")},
		{"gemini", Builtin(Gemini), filepath.Join(home, ".gemini")},
		{"custom default", Assistant{Kind: Custom, Name: "aider"}, filepath.Join(home, ".aider")},
		{"custom override", Assistant{Kind: Custom, Name: "aider", CredentialPath: "/srv/aider"}, "/srv/aider"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.a.CredentialDir(home); got != tt.want {
				t.Errorf("CredentialDir() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestImageRef(t *testing.T) {
	t.Parallel()

	t.Run("registry default", func(t *testing.T) {
		t.Parallel()
		a := Builtin(Claude)
		if got := a.ImageRef("ghcr.io/gantrylabs"); got != "ghcr.io/gantrylabs/claude:latest" {
			t.Errorf("ImageRef() = %q", got)
		}
	})

	t.Run("trailing slash trimmed", func(t *testing.T) {
		t.Parallel()
		a := Builtin(Codex)
		if got := a.ImageRef("ghcr.io/gantrylabs/"); got != "ghcr.io/gantrylabs/codex:latest" {
			t.Errorf("ImageRef() = %q", got)
		}
	})

	t.Run("explicit image wins", func(t *testing.T) {
		t.Parallel()
		a := Assistant{Kind: Custom, Name: "aider", Image: "docker.io/me/aider:v2"}
		if got := a.ImageRef("ghcr.io/gantrylabs"); got != "docker.io/me/aider:v2" {
			t.Errorf("ImageRef() = %q", got)
		}
	})
}
