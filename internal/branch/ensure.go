package branch

import (
	"context"
	"time"

	"github.com/gantrylabs/gantry/internal/forge"
	"github.com/gantrylabs/gantry/internal/git"
	"github.com/gantrylabs/gantry/internal/log"
)

// Ensure observes the repository, decides the branch action, and applies it.
// The current branch is captured as the very first step, before anything can
// move HEAD, so created branches start from where the user actually was.
//
// On rejection the returned error is a *PolicyError; git failures during
// create/checkout are returned as *git.OpError and must abort the launch.
func Ensure(ctx context.Context, repoPath string, req Request, f forge.Forge) (*Decision, error) {
	logger := log.FromContext(ctx)

	state, err := Observe(ctx, repoPath, f)
	if err != nil {
		return nil, err
	}

	if req.Now.IsZero() {
		req.Now = time.Now()
	}

	d := Decide(state, req)
	logger.Debug("branch decision",
		"action", d.Action.String(),
		"target", d.Target,
		"base", d.Base)

	switch d.Action {
	case Reject:
		return nil, d.Rejection
	case Reuse:
		if err := git.Checkout(ctx, repoPath, d.Target); err != nil {
			return nil, err
		}
	case Create:
		if err := git.CreateBranch(ctx, repoPath, d.Target, d.Base); err != nil {
			return nil, err
		}
		if err := git.Checkout(ctx, repoPath, d.Target); err != nil {
			return nil, err
		}
	}

	return &d, nil
}

// Observe captures the repository state a branch decision is made from.
// The current branch is read first, before anything can move HEAD.
func Observe(ctx context.Context, repoPath string, f forge.Forge) (State, error) {
	current, err := git.CurrentBranch(ctx, repoPath)
	if err != nil {
		return State{}, err
	}

	branches, err := git.LocalBranches(ctx, repoPath)
	if err != nil {
		return State{}, err
	}

	return State{
		CurrentBranch: current,
		Branches:      branches,
		Protected:     protectedSet(ctx, repoPath, f),
	}, nil
}

// protectedSet assembles the protected branch names for one launch. The forge
// lookup is best effort: any failure degrades to the static set plus the
// remote default, never to an error.
func protectedSet(ctx context.Context, repoPath string, f forge.Forge) []string {
	logger := log.FromContext(ctx)

	remoteDefault := git.DefaultRemoteBranch(ctx, repoPath)

	var reported []string
	if f != nil {
		remoteURL, err := git.RemoteURL(ctx, repoPath)
		if err == nil {
			reported, err = f.ProtectedBranches(ctx, remoteURL)
			if err != nil {
				logger.Debug("forge protected-branch lookup failed",
					"forge", f.Name(),
					"error", err.Error())
			}
		}
	}

	return ProtectedSet(remoteDefault, reported)
}
