package branch

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/gantrylabs/gantry/internal/format"
)

// Action is the branch operation a launch performs.
type Action int

const (
	// Reuse switches to an existing branch without altering its base.
	Reuse Action = iota
	// Create makes a new branch from the resolved base and switches to it.
	Create
	// Reject aborts the launch; no branch is touched.
	Reject
)

func (a Action) String() string {
	switch a {
	case Reuse:
		return "reuse"
	case Create:
		return "create"
	case Reject:
		return "reject"
	default:
		return "unknown"
	}
}

// Rule names the policy that rejected an explicit work branch.
type Rule int

const (
	// RuleInvalidName rejects names outside the allowed character set.
	RuleInvalidName Rule = iota
	// RuleSingleBranch rejects explicit branches in single-branch repositories.
	RuleSingleBranch
	// RuleProtected rejects members of the protected branch set.
	RuleProtected
)

func (r Rule) String() string {
	switch r {
	case RuleInvalidName:
		return "invalid-name"
	case RuleSingleBranch:
		return "single-branch-repo"
	case RuleProtected:
		return "protected-branch"
	default:
		return "unknown"
	}
}

// PolicyError reports why an explicit work branch was refused. It carries the
// full protected set so callers can show the user what is off limits.
type PolicyError struct {
	Rule      Rule
	Name      string
	Protected []string
}

func (e *PolicyError) Error() string {
	switch e.Rule {
	case RuleInvalidName:
		return fmt.Sprintf("invalid work branch %q: allowed characters are letters, digits, '.', '_', '/' and '-'", e.Name)
	case RuleSingleBranch:
		return fmt.Sprintf("work branch %q refused: the repository has at most one branch, explicit work branches need a multi-branch repository", e.Name)
	case RuleProtected:
		return fmt.Sprintf("%q is a protected branch (protected: %s)", e.Name, strings.Join(e.Protected, ", "))
	default:
		return fmt.Sprintf("work branch %q refused", e.Name)
	}
}

// State is the observed repository state a decision is made from. It must be
// captured before any checkout, so the base branch reflects where the user
// actually was.
type State struct {
	CurrentBranch string   // empty for detached HEAD
	Branches      []string // all local branch names
	Protected     []string // see ProtectedSet
}

// Request describes one work-branch request.
type Request struct {
	Assistant  string    // assistant name, used for generated branch names
	WorkBranch string    // explicit work branch; empty means generate one
	BaseBranch string    // explicit base; empty means the current branch
	Format     string    // generated-name format; empty means format.DefaultBranchFormat
	Now        time.Time // timestamp for generated names
}

// Decision is the outcome of evaluating branch policy for one launch.
type Decision struct {
	Action    Action
	Target    string
	Base      string       // set for Create
	Rejection *PolicyError // set iff Action == Reject
}

var validNameRe = regexp.MustCompile(`^[A-Za-z0-9._/-]+$`)

// ValidName reports whether name uses only the allowed work-branch
// character set.
func ValidName(name string) bool {
	return validNameRe.MatchString(name)
}

// StaticProtected are branch names that are never used as work branches,
// regardless of repository or forge state.
var StaticProtected = []string{"main", "master", "stable", "production", "release"}

// ProtectedSet unions the static names, the remote default branch, and any
// forge-reported protected branches. The result is deduplicated and sorted.
func ProtectedSet(remoteDefault string, forgeReported []string) []string {
	names := slices.Clone(StaticProtected)
	if remoteDefault != "" {
		names = append(names, remoteDefault)
	}
	names = append(names, forgeReported...)

	slices.Sort(names)
	return slices.Compact(names)
}

// Decide evaluates the branch policy. It is pure: all repository observation
// happens in the caller, all git side effects happen after.
func Decide(state State, req Request) Decision {
	if req.WorkBranch == "" {
		// Default path: a generated name never collides with protected
		// branches (the timestamp placeholder is mandatory) and never
		// rejects.
		f := req.Format
		if f == "" {
			f = format.DefaultBranchFormat
		}
		name := format.BranchName(f, format.BranchParams{Assistant: req.Assistant, Now: req.Now})
		return Decision{Action: Create, Target: name, Base: resolveBase(state, req)}
	}

	if !ValidName(req.WorkBranch) {
		return reject(&PolicyError{Rule: RuleInvalidName, Name: req.WorkBranch, Protected: state.Protected})
	}

	if len(state.Branches) <= 1 {
		return reject(&PolicyError{Rule: RuleSingleBranch, Name: req.WorkBranch, Protected: state.Protected})
	}

	if slices.Contains(state.Protected, req.WorkBranch) {
		return reject(&PolicyError{Rule: RuleProtected, Name: req.WorkBranch, Protected: state.Protected})
	}

	if slices.Contains(state.Branches, req.WorkBranch) {
		return Decision{Action: Reuse, Target: req.WorkBranch}
	}

	return Decision{Action: Create, Target: req.WorkBranch, Base: resolveBase(state, req)}
}

// resolveBase picks the explicit base if given, else the captured current
// branch, else HEAD (detached state).
func resolveBase(state State, req Request) string {
	if req.BaseBranch != "" {
		return req.BaseBranch
	}
	if state.CurrentBranch != "" {
		return state.CurrentBranch
	}
	return "HEAD"
}

func reject(err *PolicyError) Decision {
	return Decision{Action: Reject, Target: err.Name, Rejection: err}
}
