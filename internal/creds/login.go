package creds

import (
	"path/filepath"

	"github.com/gantrylabs/gantry/internal/assistant"
)

// LoginCommand returns the interactive command run inside the assistant's
// container to authenticate it.
func LoginCommand(a assistant.Assistant) []string {
	switch a.Kind {
	case assistant.Claude:
		return []string{"claude", "setup-token"}
	case assistant.Codex:
		return []string{"codex", "login"}
	case assistant.Gemini:
		// Gemini runs its OAuth flow on first launch.
		return []string{"gemini"}
	case assistant.Custom:
		return []string{a.Name}
	}
	return []string{a.Name}
}

// VerifyPersisted reports whether a login left a durable credential behind.
// Environment variables don't count: only the file-based methods survive the
// login container.
func VerifyPersisted(a assistant.Assistant, home string) bool {
	dir := a.CredentialDir(home)

	switch a.Kind {
	case assistant.Claude:
		return nonEmptyFile(filepath.Join(dir, ClaudeTokenFile))
	case assistant.Codex:
		return fileExists(filepath.Join(dir, CodexAuthFile))
	case assistant.Gemini:
		return fileExists(filepath.Join(dir, GeminiOAuthFile))
	case assistant.Custom:
		if a.AuthFile != "" {
			return fileExists(filepath.Join(dir, a.AuthFile))
		}
		if a.ConfigFile != "" {
			return fileExists(filepath.Join(dir, a.ConfigFile))
		}
		// Nothing to persist means nothing to verify.
		return true
	}
	return false
}

// Remediation returns the assistant-specific hint shown when a launch is
// aborted for missing credentials.
func Remediation(a assistant.Assistant) string {
	switch a.Kind {
	case assistant.Claude:
		return "run 'gantry auth login claude' to authenticate"
	case assistant.Codex:
		return "set $" + CodexAPIKeyEnv + " or run 'gantry auth login codex'"
	case assistant.Gemini:
		return "set $" + GeminiAPIKeyEnv + ", provide a service account via $" +
			GeminiProjectEnv + " and $" + GeminiCredentialsEnv +
			", or run 'gantry auth login gemini'"
	case assistant.Custom:
		if a.APIKeyEnv != "" {
			return "set $" + a.APIKeyEnv + " or run 'gantry auth login " + a.Name + "'"
		}
		return "run 'gantry auth login " + a.Name + "'"
	}
	return "run 'gantry auth login " + a.Name + "'"
}
