package config

import (
	"regexp"
	"slices"
	"strings"
)

// Valid enum values for configuration fields.
var ValidForgeTypes = []string{"github", "gitlab"}

// assistantNameRe constrains custom assistant names: they become file names,
// branch name prefixes, and container name parts.
var assistantNameRe = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

// validateAssistantName checks that a custom assistant name is usable in
// file names, branch names, and container names.
func validateAssistantName(name string) error {
	if !assistantNameRe.MatchString(name) {
		return Errorf("invalid assistant name %q: must match [a-z0-9][a-z0-9._-]*", name)
	}
	return nil
}

// validateEnum checks that value (if non-empty) is one of the allowed values.
// Returns a formatted error mentioning the field name and allowed options.
func validateEnum(value, field string, allowed []string) error {
	if value == "" {
		return nil
	}
	if !slices.Contains(allowed, value) {
		return Errorf("invalid %s %q: must be %s", field, value, formatOptions(allowed))
	}
	return nil
}

// formatOptions formats a list of allowed values for error messages.
// E.g., ["a", "b", "c"] -> `"a", "b", or "c"`
func formatOptions(opts []string) string {
	quoted := make([]string, len(opts))
	for i, o := range opts {
		quoted[i] = `"` + o + `"`
	}
	if len(quoted) <= 2 {
		return strings.Join(quoted, " or ")
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
}
