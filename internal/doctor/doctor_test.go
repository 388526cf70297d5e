package doctor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gantrylabs/gantry/internal/config"
	"github.com/gantrylabs/gantry/internal/creds"
	"github.com/gantrylabs/gantry/internal/layer"
)

// clearCredentialEnv blanks every credential variable the checks read so
// results don't depend on the host environment.
func clearCredentialEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		creds.CodexAPIKeyEnv,
		creds.GeminiAPIKeyEnv,
		creds.GeminiProjectEnv,
		creds.GeminiCredentialsEnv,
	} {
		t.Setenv(name, "")
	}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.ShareDir = filepath.Join(t.TempDir(), "share")
	cfg.ConfigDir = t.TempDir()
	return &cfg
}

func TestCheckLayers_MissingShareDir(t *testing.T) {
	cfg := testConfig(t)

	issues, present := checkLayers(cfg)
	if len(issues) != 1 {
		t.Fatalf("issues = %d, want 1", len(issues))
	}
	if present != 0 {
		t.Errorf("present = %d, want 0", present)
	}
	if !issues[0].Fatal {
		t.Error("missing share dir must be fatal")
	}
	if issues[0].FixAction != FixScaffoldShare {
		t.Errorf("FixAction = %q, want %q", issues[0].FixAction, FixScaffoldShare)
	}
}

func TestCheckLayers_MissingProtectedLayer(t *testing.T) {
	cfg := testConfig(t)
	if _, err := layer.Scaffold(cfg.ShareDir, false); err != nil {
		t.Fatalf("Scaffold: %v", err)
	}
	if err := os.Remove(filepath.Join(cfg.ShareDir, "prefix.md")); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	issues, present := checkLayers(cfg)
	if len(issues) != 1 {
		t.Fatalf("issues = %d, want 1", len(issues))
	}
	if present != 1 {
		t.Errorf("present = %d, want 1", present)
	}
	if !issues[0].Fatal || issues[0].FixAction != FixScaffoldShare {
		t.Errorf("issue = %+v, want fatal and fixable", issues[0])
	}
}

func TestCheckLayers_AllPresent(t *testing.T) {
	cfg := testConfig(t)
	if _, err := layer.Scaffold(cfg.ShareDir, false); err != nil {
		t.Fatalf("Scaffold: %v", err)
	}

	issues, present := checkLayers(cfg)
	if len(issues) != 0 {
		t.Fatalf("issues = %v, want none", issues)
	}
	if present != 2 {
		t.Errorf("present = %d, want 2", present)
	}
}

func TestCheckConfig(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*config.Config)
		wantIssues int
	}{
		{
			name:       "defaults are clean",
			mutate:     func(*config.Config) {},
			wantIssues: 0,
		},
		{
			name: "unknown default assistant",
			mutate: func(cfg *config.Config) {
				cfg.DefaultAssistant = "clippy"
			},
			wantIssues: 1,
		},
		{
			name: "orphan image override",
			mutate: func(cfg *config.Config) {
				cfg.Images = map[string]string{"claud": "ghcr.io/x/claud:latest"}
			},
			wantIssues: 1,
		},
		{
			name: "image override for custom assistant is fine",
			mutate: func(cfg *config.Config) {
				cfg.Assistants = map[string]config.AssistantConfig{
					"aider": {Image: "ghcr.io/x/aider:latest"},
				}
				cfg.Images = map[string]string{"aider": "ghcr.io/x/aider:v2"}
			},
			wantIssues: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			tt.mutate(cfg)

			issues := checkConfig(cfg)
			if len(issues) != tt.wantIssues {
				t.Errorf("issues = %v, want %d", issues, tt.wantIssues)
			}
		})
	}
}

func TestCheckCredentials_NothingConfigured(t *testing.T) {
	clearCredentialEnv(t)
	cfg := testConfig(t)
	home := t.TempDir()

	issues, ready := checkCredentials(cfg, home)
	if ready != 0 {
		t.Errorf("ready = %d, want 0", ready)
	}
	// All three builtins should be reported with a remediation.
	if len(issues) != 3 {
		t.Fatalf("issues = %d, want 3", len(issues))
	}
	for _, issue := range issues {
		if issue.Description == "" {
			t.Errorf("issue %q has no remediation", issue.Key)
		}
	}
}

func TestCheckCredentials_AuthenticatedAssistant(t *testing.T) {
	clearCredentialEnv(t)
	cfg := testConfig(t)
	home := t.TempDir()

	dir := filepath.Join(home, ".claude")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	tokenPath := filepath.Join(dir, creds.ClaudeTokenFile)
	if err := os.WriteFile(tokenPath, []byte(`{"token":"t"}`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	issues, ready := checkCredentials(cfg, home)
	if ready != 1 {
		t.Errorf("ready = %d, want 1", ready)
	}
	for _, issue := range issues {
		if issue.Key == "claude" {
			t.Error("claude should not be reported once its token file exists")
		}
	}
}

func TestFixAllIssues_ScaffoldsShare(t *testing.T) {
	cfg := testConfig(t)

	issues, _ := checkLayers(cfg)
	if len(issues) == 0 {
		t.Fatal("expected issues for a missing share dir")
	}

	if err := fixAllIssues(context.Background(), cfg, issues); err != nil {
		t.Fatalf("fixAllIssues: %v", err)
	}

	after, present := checkLayers(cfg)
	if len(after) != 0 {
		t.Errorf("issues after fix = %v, want none", after)
	}
	if present != 2 {
		t.Errorf("present after fix = %d, want 2", present)
	}
}
