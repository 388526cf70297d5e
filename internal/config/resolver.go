package config

import "context"

// resolverKey is the context key for Resolver
type resolverKey struct{}

// Resolver provides lazy per-project config resolution with caching.
// It loads and merges per-project .gantry/config.toml files with the global
// config on demand. The global config is resolved exactly once at process
// start; the resolver is the only way components see configuration.
type Resolver struct {
	global *Config
	cache  map[string]*Config // projectPath -> merged config
}

// NewResolver creates a new Resolver backed by the given global config.
func NewResolver(global *Config) *Resolver {
	return &Resolver{
		global: global,
		cache:  make(map[string]*Config),
	}
}

// ForProject returns the effective config for a project, merging any
// .gantry/config.toml found at the project path with the global config.
// Results are cached per projectPath.
func (r *Resolver) ForProject(projectPath string) (*Config, error) {
	if cached, ok := r.cache[projectPath]; ok {
		return cached, nil
	}

	project, err := LoadProject(projectPath)
	if err != nil {
		return nil, err
	}

	merged := MergeProject(r.global, project)
	r.cache[projectPath] = merged
	return merged, nil
}

// Global returns the global config (without any project overrides).
func (r *Resolver) Global() *Config {
	return r.global
}

// WithResolver returns a new context with the Resolver stored in it.
func WithResolver(ctx context.Context, r *Resolver) context.Context {
	return context.WithValue(ctx, resolverKey{}, r)
}

// ResolverFromContext returns the Resolver from context.
// Returns nil if no resolver is stored.
func ResolverFromContext(ctx context.Context) *Resolver {
	if r, ok := ctx.Value(resolverKey{}).(*Resolver); ok {
		return r
	}
	return nil
}
