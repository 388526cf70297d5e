package main

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gantrylabs/gantry/internal/assistant"
	"github.com/gantrylabs/gantry/internal/branch"
	"github.com/gantrylabs/gantry/internal/config"
	"github.com/gantrylabs/gantry/internal/creds"
	"github.com/gantrylabs/gantry/internal/forge"
	"github.com/gantrylabs/gantry/internal/git"
	"github.com/gantrylabs/gantry/internal/history"
	"github.com/gantrylabs/gantry/internal/hooks"
	"github.com/gantrylabs/gantry/internal/layer"
	"github.com/gantrylabs/gantry/internal/log"
	"github.com/gantrylabs/gantry/internal/output"
	"github.com/gantrylabs/gantry/internal/preflight"
	"github.com/gantrylabs/gantry/internal/prompt"
	"github.com/gantrylabs/gantry/internal/runtime"
)

// containerHome is where the assistant's credential directory is mounted.
// The container runs as the invoking uid, which usually has no passwd entry
// in the image, so HOME is pinned explicitly.
const containerHome = "/home/assistant"

// launchOptions carries the flag surface of `run` and `shell`.
type launchOptions struct {
	Branch     string            // explicit work branch, empty = generate
	Base       string            // explicit base branch, empty = current
	Image      string            // image override
	ExtraEnv   []string          // extra KEY=VALUE pairs for the env file
	HookArgs   map[string]string // custom hook placeholders
	NoWarnings bool
	Shell      bool // debug shell: no branch move, no hooks, shell entrypoint
}

// launch runs the invocation sequence: credentials, composition, branch,
// container. It short-circuits on the first fatal error; warnings are printed
// and never block.
func launch(ctx context.Context, cfg *config.Config, a assistant.Assistant, project string, opts launchOptions) error {
	l := log.FromContext(ctx)
	out := output.FromContext(ctx)

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("resolve home directory: %w", err)
	}

	// 1. Credentials. Nothing else happens for an unauthenticated assistant.
	verdict := creds.Check(a, home)
	l.Debug("credential check",
		"assistant", a.Name,
		"method", verdict.Method.String(),
		"authenticated", fmt.Sprintf("%t", verdict.Authenticated))
	if !verdict.Authenticated {
		return fmt.Errorf("%w; %s",
			&creds.NotAuthenticatedError{Assistant: a.Name, Verdict: verdict},
			creds.Remediation(a))
	}

	// 2. Instruction document.
	composer := prompt.Composer{Store: layer.Store{
		ShareDir:   cfg.ShareDir,
		ConfigDir:  cfg.ConfigDir,
		ProjectDir: project,
	}}
	composed, err := composer.Compose(ctx, a)
	if err != nil {
		return err
	}
	l.Printf("Composed %s (%d parts)\n", composed.Link, len(composed.Sections))

	// 3. Work branch. The debug shell leaves HEAD where it is.
	targetBranch := ""
	baseBranch := ""
	if opts.Shell {
		if targetBranch, err = git.CurrentBranch(ctx, project); err != nil {
			return err
		}
	} else {
		decision, err := branch.Ensure(ctx, project, branch.Request{
			Assistant:  a.Name,
			WorkBranch: opts.Branch,
			BaseBranch: opts.Base,
			Format:     cfg.BranchFormat,
		}, detectForge(ctx, cfg, project))
		if err != nil {
			return err
		}

		targetBranch = decision.Target
		baseBranch = decision.Base
		switch decision.Action {
		case branch.Create:
			out.Printf("Created branch %s from %s\n", decision.Target, decision.Base)
		case branch.Reuse:
			out.Printf("Reusing branch %s\n", decision.Target)
		}
	}

	// 4. Advisory warnings.
	if !opts.NoWarnings {
		for _, w := range preflight.Run(ctx, project) {
			l.Printf("Warning: %s\n", w.Message)
		}
	}

	image := opts.Image
	if image == "" {
		image = a.ImageRef(cfg.Registry)
	}

	// 5. Secret env file. Cleaned up on every exit path; the signal context
	// cancels the container run, then the defers unwind.
	env, err := launchEnv(a, targetBranch, opts.ExtraEnv)
	if err != nil {
		return err
	}
	envFile, removeEnvFile, err := runtime.WriteEnvFile("", env)
	if err != nil {
		return err
	}
	defer removeEnvFile()

	engine, err := runtime.DetectEngine()
	if err != nil {
		return err
	}
	if !engine.Available(ctx) {
		return fmt.Errorf("container engine %s is not responding; is the daemon running?", engine)
	}

	spec := runtime.Spec{
		Image:       image,
		ProjectDir:  project,
		EnvFile:     envFile,
		Env:         append(staticEnv(cfg), gitIdentityEnv(ctx, project)...),
		Mounts:      credentialMounts(a, home, false),
		Interactive: true,
		TTY:         runtime.StdinIsTerminal(),
	}
	if opts.Shell {
		spec.Command = []string{"sh"}
	}

	hctx := hooks.Context{
		Assistant: a.Name,
		Branch:    targetBranch,
		Project:   project,
		Prompt:    composed.Path,
		Env:       opts.HookArgs,
	}

	if !opts.Shell {
		hctx.Phase = hooks.PhasePreRun
		if err := hooks.Run(ctx, hooks.ForPhase(cfg.Hooks, hooks.PhasePreRun), hctx); err != nil {
			return err
		}
	}

	started := time.Now()
	runErr := runtime.Runner{Engine: engine}.Run(ctx, spec)

	if !opts.Shell {
		hctx.Phase = hooks.PhasePostRun
		hooks.RunNonFatal(ctx, hooks.ForPhase(cfg.Hooks, hooks.PhasePostRun), hctx)

		recordLaunch(ctx, cfg, history.Launch{
			Project:    project,
			Assistant:  a.Name,
			Branch:     targetBranch,
			BaseBranch: baseBranch,
			Image:      image,
			StartedAt:  started,
			Duration:   time.Since(started),
			ExitedOK:   runErr == nil,
		})
	}

	return runErr
}

// launchEnv assembles the secret env file contents: the assistant's
// forwarded credential variables, the launch metadata, and any --env pairs.
func launchEnv(a assistant.Assistant, branchName string, extra []string) (map[string]string, error) {
	env := make(map[string]string)

	for _, name := range creds.PassthroughEnv(a) {
		if val := os.Getenv(name); val != "" {
			env[name] = val
		}
	}

	env["GANTRY_ASSISTANT"] = a.Name
	env["GANTRY_BRANCH"] = branchName
	env["GANTRY_PROMPT"] = path.Join("/workspace", config.ProjectDirName, prompt.OutputFileName(a.Name))

	for _, pair := range extra {
		key, val, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --env %q, want KEY=VALUE", pair)
		}
		env[key] = val
	}

	return env, nil
}

// staticEnv returns the non-secret container environment: the pinned HOME
// plus the config [env] table. These travel as engine arguments and are
// visible in process listings, so nothing sensitive belongs here.
func staticEnv(cfg *config.Config) []string {
	env := []string{"HOME=" + containerHome}

	keys := make([]string, 0, len(cfg.Env))
	for k := range cfg.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		env = append(env, k+"="+cfg.Env[k])
	}

	return env
}

// gitIdentityEnv forwards the host's git identity so commits made inside the
// container are attributed to the user. Identity is commit metadata, not a
// secret, so it rides along with the static environment.
func gitIdentityEnv(ctx context.Context, project string) []string {
	name, email := git.Identity(ctx, project)

	var env []string
	if name != "" {
		env = append(env, "GIT_AUTHOR_NAME="+name, "GIT_COMMITTER_NAME="+name)
	}
	if email != "" {
		env = append(env, "GIT_AUTHOR_EMAIL="+email, "GIT_COMMITTER_EMAIL="+email)
	}
	return env
}

// credentialMounts mounts the assistant's credential directory into the
// container home, read-only for normal launches and writable for login.
// A directory that doesn't exist on the host is skipped rather than letting
// the engine create a root-owned stub.
func credentialMounts(a assistant.Assistant, home string, writable bool) []runtime.Mount {
	dir := a.CredentialDir(home)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil
	}

	return []runtime.Mount{{
		Source:   dir,
		Target:   path.Join(containerHome, filepath.Base(dir)),
		ReadOnly: !writable,
	}}
}

// detectForge picks the forge client for the project's origin remote.
// No remote or an unknown host yields nil, which degrades the protected set
// to the static names plus the remote default.
func detectForge(ctx context.Context, cfg *config.Config, project string) forge.Forge {
	remoteURL, err := git.RemoteURL(ctx, project)
	if err != nil || remoteURL == "" {
		return nil
	}
	return forge.Detect(remoteURL, cfg.Hosts)
}

// recordLaunch appends the launch to the history store. History is telemetry
// for the user, not part of the launch contract, so failures only warn.
func recordLaunch(ctx context.Context, cfg *config.Config, l history.Launch) {
	logger := log.FromContext(ctx)

	store, err := history.Open(historyPath(cfg))
	if err != nil {
		logger.Printf("Warning: history unavailable: %v\n", err)
		return
	}
	defer store.Close()

	if err := store.Record(ctx, l); err != nil {
		logger.Printf("Warning: recording launch failed: %v\n", err)
	}
}

// historyPath returns the SQLite history database location.
func historyPath(cfg *config.Config) string {
	return filepath.Join(cfg.ConfigDir, "history.db")
}
