package format

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DefaultBranchFormat is the default format for generated work-branch names
const DefaultBranchFormat = "{assistant}-{timestamp}"

// TimestampLayout is the layout of the {timestamp} placeholder
const TimestampLayout = "2006-01-02-150405"

// ValidPlaceholders lists all supported placeholders
var ValidPlaceholders = []string{"{assistant}", "{timestamp}"}

// BranchParams contains the values for placeholder substitution
type BranchParams struct {
	Assistant string    // lower-case assistant name
	Now       time.Time // timestamp source, substituted in local time
}

// placeholderRegex matches {placeholder-name} patterns
var placeholderRegex = regexp.MustCompile(`\{[a-z-]+\}`)

// ValidateFormat checks if a branch format string is valid.
// Returns an error if the format contains unknown placeholders or lacks
// {timestamp} (generated names must stay collision-free).
func ValidateFormat(format string) error {
	matches := placeholderRegex.FindAllString(format, -1)
	for _, match := range matches {
		if !isValidPlaceholder(match) {
			return fmt.Errorf("unknown placeholder %q in format %q (valid: %s)",
				match, format, strings.Join(ValidPlaceholders, ", "))
		}
	}

	if !strings.Contains(format, "{timestamp}") {
		return fmt.Errorf("format %q must contain {timestamp} to keep generated branch names unique", format)
	}

	return nil
}

// isValidPlaceholder checks if a placeholder is in the valid list
func isValidPlaceholder(placeholder string) bool {
	for _, valid := range ValidPlaceholders {
		if placeholder == valid {
			return true
		}
	}
	return false
}

// BranchName applies the format template to generate a work-branch name
func BranchName(format string, params BranchParams) string {
	result := format
	result = strings.ReplaceAll(result, "{assistant}", SanitizeForBranch(params.Assistant))
	result = strings.ReplaceAll(result, "{timestamp}", params.Now.Format(TimestampLayout))
	return result
}

// branchCharRe matches one character allowed in a branch name
var branchCharRe = regexp.MustCompile(`[A-Za-z0-9._/-]`)

// SanitizeForBranch replaces characters outside the branch-name character
// set [A-Za-z0-9._/-] with "-".
func SanitizeForBranch(name string) string {
	var sb strings.Builder
	sb.Grow(len(name))
	for _, r := range name {
		if branchCharRe.MatchString(string(r)) {
			sb.WriteRune(r)
		} else {
			sb.WriteRune('-')
		}
	}
	return sb.String()
}
