package creds

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gantrylabs/gantry/internal/assistant"
)

// Credential file names and environment variables per assistant.
const (
	ClaudeTokenFile = ".credentials.json"

	CodexAuthFile  = "auth.json"
	CodexAPIKeyEnv = "OPENAI_API_KEY"

	GeminiOAuthFile      = "oauth_creds.json"
	GeminiAPIKeyEnv      = "GEMINI_API_KEY"
	GeminiProjectEnv     = "GOOGLE_CLOUD_PROJECT"
	GeminiCredentialsEnv = "GOOGLE_APPLICATION_CREDENTIALS"
)

// Method is the credential source that satisfied (or failed) the check.
type Method int

const (
	// MethodNone means no configured method was satisfied.
	MethodNone Method = iota
	// MethodTokenFile is a non-empty token file in the credential directory.
	MethodTokenFile
	// MethodOAuthFile is a cached OAuth credential file.
	MethodOAuthFile
	// MethodAPIKeyEnv is a non-empty API-key environment variable.
	MethodAPIKeyEnv
	// MethodServiceAccount is a project-id variable plus a credentials file
	// named by a second variable; both must resolve.
	MethodServiceAccount
	// MethodAuthFile is an auth file in the credential directory.
	MethodAuthFile
	// MethodConfigFile is a named config file in the credential directory.
	MethodConfigFile
	// MethodNoAuthRequired applies to custom assistants with no credential
	// sources configured at all.
	MethodNoAuthRequired
)

func (m Method) String() string {
	switch m {
	case MethodNone:
		return "none"
	case MethodTokenFile:
		return "token-file"
	case MethodOAuthFile:
		return "oauth-file"
	case MethodAPIKeyEnv:
		return "api-key-env"
	case MethodServiceAccount:
		return "service-account-pair"
	case MethodAuthFile:
		return "auth-file"
	case MethodConfigFile:
		return "config-file"
	case MethodNoAuthRequired:
		return "no-auth-required"
	default:
		return "unknown"
	}
}

// Verdict is the outcome of one credential check. Detail names the files and
// variables involved, never their contents. Verdicts are computed fresh per
// launch and never persisted.
type Verdict struct {
	Assistant     string
	Method        Method
	Authenticated bool
	Detail        string
}

// NotAuthenticatedError aborts a launch before any container is started.
type NotAuthenticatedError struct {
	Assistant string
	Verdict   Verdict
}

func (e *NotAuthenticatedError) Error() string {
	return fmt.Sprintf("%s is not authenticated: %s", e.Assistant, e.Verdict.Detail)
}

// Check evaluates the fixed credential policy for the assistant. home is the
// invoking user's home directory; the policy table itself is not
// configurable.
func Check(a assistant.Assistant, home string) Verdict {
	switch a.Kind {
	case assistant.Claude:
		return checkClaude(a, home)
	case assistant.Codex:
		return checkCodex(a, home)
	case assistant.Gemini:
		return checkGemini(a, home)
	case assistant.Custom:
		return checkGeneric(a, home)
	}
	return Verdict{Assistant: a.Name, Method: MethodNone, Detail: "unknown assistant kind"}
}

// checkClaude: a non-empty token file is the only method.
func checkClaude(a assistant.Assistant, home string) Verdict {
	token := filepath.Join(a.CredentialDir(home), ClaudeTokenFile)
	if nonEmptyFile(token) {
		return authenticated(a, MethodTokenFile, "found "+token)
	}
	return unauthenticated(a, "no token file at "+token)
}

// checkCodex: API-key variable first, then the auth file.
func checkCodex(a assistant.Assistant, home string) Verdict {
	if os.Getenv(CodexAPIKeyEnv) != "" {
		return authenticated(a, MethodAPIKeyEnv, "$"+CodexAPIKeyEnv+" is set")
	}

	authFile := filepath.Join(a.CredentialDir(home), CodexAuthFile)
	if nonEmptyFile(authFile) {
		return authenticated(a, MethodAuthFile, "found "+authFile)
	}

	return unauthenticated(a, fmt.Sprintf("checked $%s and %s", CodexAPIKeyEnv, authFile))
}

// checkGemini: OAuth cache, then API-key variable, then the service-account
// pair (project id plus an existing credentials file).
func checkGemini(a assistant.Assistant, home string) Verdict {
	oauth := filepath.Join(a.CredentialDir(home), GeminiOAuthFile)
	if fileExists(oauth) {
		return authenticated(a, MethodOAuthFile, "found "+oauth)
	}

	if os.Getenv(GeminiAPIKeyEnv) != "" {
		return authenticated(a, MethodAPIKeyEnv, "$"+GeminiAPIKeyEnv+" is set")
	}

	if os.Getenv(GeminiProjectEnv) != "" {
		if credFile := os.Getenv(GeminiCredentialsEnv); credFile != "" && fileExists(credFile) {
			return authenticated(a, MethodServiceAccount,
				fmt.Sprintf("$%s and $%s are set", GeminiProjectEnv, GeminiCredentialsEnv))
		}
	}

	return unauthenticated(a, fmt.Sprintf("checked %s, $%s, and $%s/$%s",
		oauth, GeminiAPIKeyEnv, GeminiProjectEnv, GeminiCredentialsEnv))
}

// checkGeneric: custom assistants check whatever sources their config names.
// With no sources configured at all, authentication is not required.
func checkGeneric(a assistant.Assistant, home string) Verdict {
	if a.APIKeyEnv == "" && a.AuthFile == "" && a.ConfigFile == "" {
		return Verdict{
			Assistant:     a.Name,
			Method:        MethodNoAuthRequired,
			Authenticated: true,
			Detail:        "no credential sources configured",
		}
	}

	var checked []string

	if a.APIKeyEnv != "" {
		if os.Getenv(a.APIKeyEnv) != "" {
			return authenticated(a, MethodAPIKeyEnv, "$"+a.APIKeyEnv+" is set")
		}
		checked = append(checked, "$"+a.APIKeyEnv)
	}

	dir := a.CredentialDir(home)
	if a.AuthFile != "" {
		authFile := filepath.Join(dir, a.AuthFile)
		if fileExists(authFile) {
			return authenticated(a, MethodAuthFile, "found "+authFile)
		}
		checked = append(checked, authFile)
	}

	if a.ConfigFile != "" {
		configFile := filepath.Join(dir, a.ConfigFile)
		if fileExists(configFile) {
			return authenticated(a, MethodConfigFile, "found "+configFile)
		}
		checked = append(checked, configFile)
	}

	detail := "no credential found"
	for i, c := range checked {
		if i == 0 {
			detail = "checked " + c
		} else {
			detail += ", " + c
		}
	}
	return unauthenticated(a, detail)
}

// PassthroughEnv returns the names of the environment variables whose values
// are forwarded into the assistant's container. Values are forwarded through
// the owner-only env file, never through engine arguments.
func PassthroughEnv(a assistant.Assistant) []string {
	switch a.Kind {
	case assistant.Claude:
		// Claude authenticates via its mounted token file.
		return nil
	case assistant.Codex:
		return []string{CodexAPIKeyEnv}
	case assistant.Gemini:
		return []string{GeminiAPIKeyEnv, GeminiProjectEnv, GeminiCredentialsEnv}
	case assistant.Custom:
		if a.APIKeyEnv != "" {
			return []string{a.APIKeyEnv}
		}
		return nil
	}
	return nil
}

func authenticated(a assistant.Assistant, m Method, detail string) Verdict {
	return Verdict{Assistant: a.Name, Method: m, Authenticated: true, Detail: detail}
}

func unauthenticated(a assistant.Assistant, detail string) Verdict {
	return Verdict{Assistant: a.Name, Method: MethodNone, Authenticated: false, Detail: detail}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func nonEmptyFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir() && info.Size() > 0
}
