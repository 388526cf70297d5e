//go:build integration

package main

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/gantrylabs/gantry/internal/config"
)

// TestConfig_Path tests printing the config file location.
//
// Scenario: User runs `gantry config --path`
// Expected: The global config.toml path is printed
func TestConfig_Path(t *testing.T) {
	t.Setenv("GANTRY_CONFIG_DIR", t.TempDir())

	ctx := testContext(t)

	out, err := executeCommand(ctx, newConfigCmd(), "--path")
	if err != nil {
		t.Fatalf("config --path failed: %v", err)
	}
	if strings.TrimSpace(out) != config.Path() {
		t.Errorf("output = %q, want %q", strings.TrimSpace(out), config.Path())
	}
}

// TestConfig_ShowsEffectiveSettings tests the default display.
//
// Scenario: User runs `gantry config`
// Expected: The resolved settings are listed key by key
func TestConfig_ShowsEffectiveSettings(t *testing.T) {
	t.Parallel()

	ctx := testContext(t)

	out, err := executeCommand(ctx, newConfigCmd())
	if err != nil {
		t.Fatalf("config failed: %v", err)
	}
	for _, want := range []string{"registry:", "share_dir:", "default_assistant: claude", "branch_format:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

// TestConfig_JSON tests machine-readable output.
//
// Scenario: User runs `gantry config --json`
// Expected: Valid JSON carrying the effective settings
func TestConfig_JSON(t *testing.T) {
	t.Parallel()

	ctx := testContext(t)

	out, err := executeCommand(ctx, newConfigCmd(), "--json")
	if err != nil {
		t.Fatalf("config --json failed: %v", err)
	}

	var decoded config.Config
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, out)
	}
	if decoded.DefaultAssistant != "claude" {
		t.Errorf("DefaultAssistant = %q, want claude", decoded.DefaultAssistant)
	}
}
