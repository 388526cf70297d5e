package doctor

import (
	"context"
	"fmt"
	"os"

	"github.com/gantrylabs/gantry/internal/config"
	"github.com/gantrylabs/gantry/internal/output"
	"github.com/gantrylabs/gantry/internal/ui"
)

// Run performs environment checks and optionally fixes what it can.
// Finding issues is not an error; only operational failures are.
func Run(ctx context.Context, cfg *config.Config, fix bool) error {
	p := output.FromContext(ctx)

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("resolve home dir: %w", err)
	}

	var all []Issue
	var stats Stats

	p.Println("Checking tools...")
	toolIssues, toolsPresent := checkTools(ctx)
	all = append(all, toolIssues...)
	stats.ToolsPresent = toolsPresent

	p.Println("Checking prompt layers...")
	layerIssues, layersPresent := checkLayers(cfg)
	all = append(all, layerIssues...)
	stats.LayersPresent = layersPresent

	p.Println("Checking config...")
	configIssues := checkConfig(cfg)
	all = append(all, configIssues...)
	stats.ConfigValid = len(configIssues) == 0

	p.Println("Checking credentials...")
	credIssues, ready := checkCredentials(cfg, home)
	all = append(all, credIssues...)
	stats.AssistantsReady = ready

	printSummary(p, stats, all)

	if len(all) == 0 {
		p.Println("\n" + ui.StatusOK("No issues found"))
		return nil
	}

	p.Printf("\nFound %d issues:\n", len(all))
	printIssuesByCategory(p, all)

	if fix {
		return fixAllIssues(ctx, cfg, all)
	}

	if countFixable(all) > 0 {
		p.Println("\nRun 'gantry doctor --fix' to repair.")
	}
	return nil
}

// printSummary prints a categorized summary with status glyphs.
func printSummary(p *output.Printer, stats Stats, all []Issue) {
	count := func(cat IssueCategory) (n int, fatal bool) {
		for _, issue := range all {
			if issue.Category != cat {
				continue
			}
			n++
			fatal = fatal || issue.Fatal
		}
		return n, fatal
	}

	line := func(healthy string, cat IssueCategory, problem string) string {
		n, fatal := count(cat)
		switch {
		case n == 0:
			return ui.StatusOK(healthy)
		case fatal:
			return ui.StatusFail(fmt.Sprintf("%d %s", n, problem))
		default:
			return ui.StatusWarn(fmt.Sprintf("%d %s", n, problem))
		}
	}

	p.Println()
	p.Printf("  %s\n", line(
		fmt.Sprintf("%d tools available", stats.ToolsPresent),
		CategoryTools, "tool issues"))
	p.Printf("  %s\n", line(
		"protected layers present",
		CategoryLayers, "layer issues"))
	p.Printf("  %s\n", line(
		"config valid",
		CategoryConfig, "config issues"))
	p.Printf("  %s\n", line(
		fmt.Sprintf("%d assistants authenticated", stats.AssistantsReady),
		CategoryCredentials, "assistants not authenticated"))
}

// printIssuesByCategory groups and prints issues.
func printIssuesByCategory(p *output.Printer, issues []Issue) {
	byCategory := make(map[IssueCategory][]Issue)
	for _, issue := range issues {
		byCategory[issue.Category] = append(byCategory[issue.Category], issue)
	}

	categoryNames := map[IssueCategory]string{
		CategoryTools:       "Tool issues",
		CategoryLayers:      "Layer issues",
		CategoryConfig:      "Config issues",
		CategoryCredentials: "Credential issues",
	}

	for _, cat := range []IssueCategory{CategoryTools, CategoryLayers, CategoryConfig, CategoryCredentials} {
		catIssues := byCategory[cat]
		if len(catIssues) == 0 {
			continue
		}

		p.Printf("\n%s:\n", categoryNames[cat])
		for _, issue := range catIssues {
			p.Printf("  • %s: %s\n", issue.Key, issue.Description)
		}
	}
}

func countFixable(issues []Issue) int {
	n := 0
	for _, issue := range issues {
		if issue.FixAction != "" {
			n++
		}
	}
	return n
}
