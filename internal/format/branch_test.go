package format

import (
	"testing"
	"time"
)

func TestValidateFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		format  string
		wantErr bool
	}{
		{"default", DefaultBranchFormat, false},
		{"timestamp only", "ai/{timestamp}", false},
		{"prefixed", "bot-{assistant}-{timestamp}", false},
		{"unknown placeholder", "{assistant}-{branch}", true},
		{"missing timestamp", "{assistant}-work", true},
		{"static only", "work", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateFormat(tt.format)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
			}
		})
	}
}

func TestBranchName(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 11, 4, 15, 31, 2, 0, time.Local)

	tests := []struct {
		name   string
		format string
		params BranchParams
		want   string
	}{
		{
			"default format",
			DefaultBranchFormat,
			BranchParams{Assistant: "claude", Now: now},
			"claude-2025-11-04-153102",
		},
		{
			"custom prefix",
			"ai/{assistant}/{timestamp}",
			BranchParams{Assistant: "codex", Now: now},
			"ai/codex/2025-11-04-153102",
		},
		{
			"assistant name sanitized",
			DefaultBranchFormat,
			BranchParams{Assistant: "my bot", Now: now},
			"my-bot-2025-11-04-153102",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := BranchName(tt.format, tt.params); got != tt.want {
				t.Errorf("BranchName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSanitizeForBranch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"claude", "claude"},
		{"feature/x", "feature/x"},
		{"has space", "has-space"},
		{"weird:name?", "weird-name-"},
		{"dots.and_underscores", "dots.and_underscores"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			if got := SanitizeForBranch(tt.in); got != tt.want {
				t.Errorf("SanitizeForBranch(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
