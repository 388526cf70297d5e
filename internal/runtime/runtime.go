// Package runtime starts assistant containers via the docker or podman CLI.
//
// The launch sequence owns everything the container needs: the image
// reference, the workspace mount, the non-secret environment, and the
// ephemeral secret env file (see [WriteEnvFile]). The container runs attached
// to the user's terminal; on cancellation the container is stopped and
// removed with a fresh context so interrupted sessions don't leak containers.
package runtime

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"

	"github.com/gantrylabs/gantry/internal/log"
)

// Engine is the container engine CLI used to run assistants.
type Engine string

const (
	Docker Engine = "docker"
	Podman Engine = "podman"
)

// DetectEngine returns the first available engine, preferring docker.
func DetectEngine() (Engine, error) {
	if _, err := exec.LookPath("docker"); err == nil {
		return Docker, nil
	}
	if _, err := exec.LookPath("podman"); err == nil {
		return Podman, nil
	}
	return "", fmt.Errorf("no container engine found: install docker (https://docs.docker.com) or podman (https://podman.io)")
}

// Available reports whether the engine daemon responds.
func (e Engine) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return exec.CommandContext(ctx, string(e), "ps", "-q").Run() == nil
}

// Mount is an additional bind mount for the container.
type Mount struct {
	Source   string
	Target   string
	ReadOnly bool
}

// Spec describes one container launch.
//
// Env carries non-secret variables only; they are visible in the engine's
// process list and container metadata. Secrets go through EnvFile.
type Spec struct {
	Image       string
	Name        string // container name; generated when empty
	ProjectDir  string // mounted read-write at /workspace
	EnvFile     string // ephemeral secret env file, already written
	Env         []string
	Mounts      []Mount
	Command     []string // overrides the image default command
	Interactive bool     // attach stdin
	TTY         bool     // allocate a pseudo-terminal; needs a real terminal
	Network     string   // e.g. "none"; empty keeps the engine default
}

// StdinIsTerminal reports whether the process is attached to a real terminal,
// which is what TTY allocation for the container requires.
func StdinIsTerminal() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

// ContainerName generates a unique container name.
func ContainerName() string {
	return "gantry-" + uuid.NewString()[:8]
}

// Runner executes containers on one engine.
type Runner struct {
	Engine Engine
}

// Run starts the container attached to the current terminal and waits for it
// to exit. The container is always stopped and removed afterwards, including
// on context cancellation.
func (r Runner) Run(ctx context.Context, spec Spec) error {
	if spec.Name == "" {
		spec.Name = ContainerName()
	}

	args, err := buildArgs(spec)
	if err != nil {
		return err
	}

	logger := log.FromContext(ctx)
	done := logger.Command("", string(r.Engine), args...)

	cmd := exec.CommandContext(ctx, string(r.Engine), args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	start := time.Now()
	runErr := cmd.Run()
	done(time.Since(start))

	// The engine client dies with the context, but the container can
	// outlive it. Clean up with a fresh context either way; both commands
	// are no-ops for a container that already exited under --rm.
	r.cleanup(spec.Name)

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if runErr != nil {
		if exitErr, ok := runErr.(*exec.ExitError); ok {
			return fmt.Errorf("assistant exited with code %d", exitErr.ExitCode())
		}
		return fmt.Errorf("%s run failed: %w", r.Engine, runErr)
	}
	return nil
}

// cleanup stops and removes the container, ignoring failures: the usual case
// is that --rm already removed it.
func (r Runner) cleanup(name string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = exec.CommandContext(ctx, string(r.Engine), "stop", name).Run()
	_ = exec.CommandContext(ctx, string(r.Engine), "rm", "-f", name).Run()
}
