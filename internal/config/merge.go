package config

import "maps"

// MergeProject merges a per-project config into the global config, returning
// a new Config without mutating the global. Returns global unchanged if
// project is nil.
func MergeProject(global *Config, project *ProjectConfig) *Config {
	if project == nil {
		return global
	}

	// Shallow copy global. Fields without a project-level counterpart
	// (Registry, ShareDir, BranchFormat, Assistants, Hosts, ConfigDir) are
	// inherited as-is.
	merged := *global

	if project.Assistant != "" {
		merged.DefaultAssistant = project.Assistant
	}

	if len(project.Images) > 0 {
		merged.Images = make(map[string]string, len(global.Images)+len(project.Images))
		maps.Copy(merged.Images, global.Images)
		maps.Copy(merged.Images, project.Images)
	}

	if len(project.Env) > 0 {
		merged.Env = make(map[string]string, len(global.Env)+len(project.Env))
		maps.Copy(merged.Env, global.Env)
		maps.Copy(merged.Env, project.Env)
	}

	// Hooks append: global hooks run first, project hooks after.
	if len(project.Hooks.PreRun) > 0 {
		merged.Hooks.PreRun = appendUnique(global.Hooks.PreRun, project.Hooks.PreRun)
	}
	if len(project.Hooks.PostRun) > 0 {
		merged.Hooks.PostRun = appendUnique(global.Hooks.PostRun, project.Hooks.PostRun)
	}

	return &merged
}

// appendUnique appends items from extra to base, skipping duplicates.
// Returns a new slice (never mutates base).
func appendUnique(base, extra []string) []string {
	seen := make(map[string]bool, len(base))
	for _, v := range base {
		seen[v] = true
	}

	result := make([]string, len(base))
	copy(result, base)

	for _, v := range extra {
		if !seen[v] {
			result = append(result, v)
			seen[v] = true
		}
	}

	return result
}
