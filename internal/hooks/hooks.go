package hooks

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"regexp"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/gantrylabs/gantry/internal/config"
	"github.com/gantrylabs/gantry/internal/log"
	"github.com/gantrylabs/gantry/internal/output"
)

// shellQuote escapes a string for safe use in shell commands.
// It wraps the value in single quotes and escapes any embedded single quotes.
func shellQuote(s string) string {
	// Single quotes preserve everything literally except single quotes themselves.
	// To include a single quote, we end the quoted string, add an escaped quote, and restart.
	// e.g., "it's" becomes 'it'\''s'
	return "'" + strings.ReplaceAll(s, "'", "'\\''") + "'"
}

// Phase identifies where in the launch lifecycle a hook runs.
type Phase string

const (
	PhasePreRun  Phase = "pre-run"
	PhasePostRun Phase = "post-run"
)

// Context holds the values for placeholder substitution.
type Context struct {
	Assistant string            // assistant name (claude, codex, ...)
	Branch    string            // work branch of the launch, empty in shell mode
	Project   string            // absolute project root path, also the hook working directory
	Prompt    string            // absolute path of the composed instruction file
	Phase     Phase             // lifecycle phase triggering the hook
	Env       map[string]string // custom variables from --arg key=value flags
	DryRun    bool              // if true, print commands instead of executing
}

// ForPhase returns the configured hook commands for a lifecycle phase.
func ForPhase(cfg config.HooksConfig, phase Phase) []string {
	switch phase {
	case PhasePreRun:
		return cfg.PreRun
	case PhasePostRun:
		return cfg.PostRun
	}
	return nil
}

// Run executes hook commands in order with the given context.
// It returns on the first failure: pre-run hooks gate the launch.
func Run(ctx context.Context, commands []string, hctx Context) error {
	for i, command := range commands {
		if err := runHook(ctx, i, len(commands), command, hctx); err != nil {
			return fmt.Errorf("%s hook %d failed: %w", hctx.Phase, i+1, err)
		}
	}
	return nil
}

// RunNonFatal executes hook commands in order, reporting failures as
// warnings. Post-run hooks must not mask the launch result.
func RunNonFatal(ctx context.Context, commands []string, hctx Context) {
	logger := log.FromContext(ctx)
	for i, command := range commands {
		if err := runHook(ctx, i, len(commands), command, hctx); err != nil {
			logger.Printf("Warning: %s hook %d failed: %v\n", hctx.Phase, i+1, err)
		}
	}
}

// runHook executes a single hook command with variable substitution.
func runHook(ctx context.Context, index, total int, command string, hctx Context) error {
	expanded := SubstitutePlaceholders(command, hctx)

	if hctx.DryRun {
		output.FromContext(ctx).Printf("[dry-run] %s: %s\n", hctx.Phase, expanded)
		return nil
	}

	log.FromContext(ctx).Debug("running hook",
		"phase", string(hctx.Phase),
		"command", expanded,
	)
	output.FromContext(ctx).Printf("Running %s hook (%d/%d)...\n", hctx.Phase, index+1, total)

	cmd := exec.CommandContext(ctx, "sh", "-c", expanded)
	cmd.Dir = hctx.Project
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	return cmd.Run()
}

// ParseEnv parses a slice of "key=value" strings into a map.
// Returns an error if any entry doesn't contain "=".
func ParseEnv(envSlice []string) (map[string]string, error) {
	result := make(map[string]string)
	for _, e := range envSlice {
		idx := strings.Index(e, "=")
		if idx == -1 {
			return nil, fmt.Errorf("invalid arg format %q: expected KEY=VALUE", e)
		}
		key := e[:idx]
		value := e[idx+1:]
		if key == "" {
			return nil, fmt.Errorf("invalid arg format %q: key cannot be empty", e)
		}
		result[key] = value
	}
	return result, nil
}

// readStdinIfPiped reads all content from stdin if it's piped (not a TTY).
// Returns empty string and nil if stdin is a TTY (interactive).
func readStdinIfPiped() (string, error) {
	if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return "", nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

// ParseEnvWithStdin parses a slice of "key=value" strings into a map.
// If any value is "-", reads stdin content and assigns it to all such keys.
// Returns an error if stdin is requested but not piped or empty.
func ParseEnvWithStdin(envSlice []string) (map[string]string, error) {
	result := make(map[string]string)
	var stdinKeys []string

	// First pass: parse all entries and identify stdin keys
	for _, e := range envSlice {
		idx := strings.Index(e, "=")
		if idx == -1 {
			return nil, fmt.Errorf("invalid arg format %q: expected KEY=VALUE", e)
		}
		key := e[:idx]
		value := e[idx+1:]
		if key == "" {
			return nil, fmt.Errorf("invalid arg format %q: key cannot be empty", e)
		}
		if value == "-" {
			stdinKeys = append(stdinKeys, key)
		} else {
			result[key] = value
		}
	}

	// If any keys need stdin, read it once
	if len(stdinKeys) > 0 {
		content, err := readStdinIfPiped()
		if err != nil {
			return nil, err
		}
		if content == "" {
			return nil, fmt.Errorf("stdin not piped: KEY=- requires piped input")
		}
		for _, key := range stdinKeys {
			result[key] = content
		}
	}

	return result, nil
}

// envPlaceholderRegex matches {key}, {key:raw}, or {key:-default} patterns for custom variables.
// This is used after static replacements to expand custom placeholders.
// Supported formats:
//   - {key}           - value is shell-quoted
//   - {key:raw}       - value is used as-is (no quoting)
//   - {key:-default}  - value is shell-quoted, uses default if key not set
var envPlaceholderRegex = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)(?:(:raw)|:-([^}]*))?\}`)

// SubstitutePlaceholders replaces {placeholder} with shell-quoted values from Context.
// Values are properly escaped to prevent command injection.
//
// Static placeholders: {assistant}, {branch}, {project}, {prompt}, {phase}
// Custom placeholders (from Context.Env):
//   - {key}         - shell-quoted value
//   - {key:raw}     - unquoted value (for embedding in existing quotes)
//   - {key:-default} - shell-quoted value with default if key missing
func SubstitutePlaceholders(command string, ctx Context) string {
	// First, handle static replacements
	replacements := map[string]string{
		"{assistant}": shellQuote(ctx.Assistant),
		"{branch}":    shellQuote(ctx.Branch),
		"{project}":   shellQuote(ctx.Project),
		"{prompt}":    shellQuote(ctx.Prompt),
		"{phase}":     shellQuote(string(ctx.Phase)),
	}

	result := command
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	// Then, handle custom placeholders with optional defaults: {key}, {key:raw}, or {key:-default}
	result = envPlaceholderRegex.ReplaceAllStringFunc(result, func(match string) string {
		// Parse the match to extract key, raw flag, and optional default
		submatch := envPlaceholderRegex.FindStringSubmatch(match)
		if submatch == nil {
			return match
		}
		key := submatch[1]
		isRaw := submatch[2] == ":raw"
		defaultVal := submatch[3] // empty string if no default specified

		// Look up value in the custom variable map
		if ctx.Env != nil {
			if val, ok := ctx.Env[key]; ok {
				if isRaw {
					return val
				}
				return shellQuote(val)
			}
		}

		// Use default if specified, otherwise empty string
		if isRaw {
			return defaultVal
		}
		return shellQuote(defaultVal)
	})

	return result
}
