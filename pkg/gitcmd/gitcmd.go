// Package gitcmd is a thin wrapper around the git executable. Every call
// is synchronous and blocking; the exit code and captured output are the
// sole observable result. Git-level failures never surface as Go errors,
// callers inspect exit codes.
package gitcmd

import (
	"os/exec"
	"strings"

	"github.com/arthur-debert/savesync/pkg/logging"
)

// CmdResult captures one git invocation
type CmdResult struct {
	ExitCode int
	Output   string
}

// OK reports whether the command exited cleanly
func (r CmdResult) OK() bool {
	return r.ExitCode == 0
}

// Runner executes a git command in a working directory. Swappable so the
// orchestrator can be tested against a scripted fake.
type Runner interface {
	Run(dir string, args ...string) CmdResult
}

// ExecRunner shells out to the real git binary
type ExecRunner struct{}

// Run executes git with the given arguments and captures combined output
func (ExecRunner) Run(dir string, args ...string) CmdResult {
	logging.LogCommand("git", args)

	cmd := exec.Command("git", args...)
	if dir != "" {
		cmd.Dir = dir
	}
	out, err := cmd.CombinedOutput()
	result := CmdResult{Output: string(out)}
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
		} else {
			// binary missing or not startable
			result.ExitCode = -1
			result.Output = err.Error()
		}
	}
	return result
}

// Repo wraps git operations on one working tree
type Repo struct {
	Dir    string
	runner Runner
}

// NewRepo creates a Repo backed by the real git binary
func NewRepo(dir string) *Repo {
	return &Repo{Dir: dir, runner: ExecRunner{}}
}

// NewRepoWithRunner creates a Repo with a custom runner, used in tests
func NewRepoWithRunner(dir string, runner Runner) *Repo {
	return &Repo{Dir: dir, runner: runner}
}

// Version probes for the git binary itself; a non-zero exit code means
// the tool is missing or broken.
func Version() CmdResult {
	return ExecRunner{}.Run("", "--version")
}

// IsRepo reports whether the directory is already a git working tree
func (r *Repo) IsRepo() bool {
	return r.runner.Run(r.Dir, "rev-parse", "--is-inside-work-tree").OK()
}

// Init initializes a repository in the working directory
func (r *Repo) Init() CmdResult {
	return r.runner.Run(r.Dir, "init")
}

// AddRemote registers origin; replaces an existing origin URL
func (r *Repo) AddRemote(url string) CmdResult {
	if r.runner.Run(r.Dir, "remote", "get-url", "origin").OK() {
		return r.runner.Run(r.Dir, "remote", "set-url", "origin", url)
	}
	return r.runner.Run(r.Dir, "remote", "add", "origin", url)
}

// Pull fetches and merges the branch from origin
func (r *Repo) Pull(branch string) CmdResult {
	return r.runner.Run(r.Dir, "pull", "origin", branch)
}

// Fetch updates remote tracking refs
func (r *Repo) Fetch() CmdResult {
	return r.runner.Run(r.Dir, "fetch", "origin")
}

// AddAll stages every change in the working tree
func (r *Repo) AddAll() CmdResult {
	return r.runner.Run(r.Dir, "add", "-A")
}

// Commit records staged changes
func (r *Repo) Commit(message string) CmdResult {
	return r.runner.Run(r.Dir, "commit", "-m", message)
}

// Push publishes the branch to origin
func (r *Repo) Push(branch string) CmdResult {
	return r.runner.Run(r.Dir, "push", "origin", branch)
}

// ResetHard discards the working tree and index in favor of ref
func (r *Repo) ResetHard(ref string) CmdResult {
	return r.runner.Run(r.Dir, "reset", "--hard", ref)
}

// CheckoutOurs resolves conflicted paths by keeping the local version
func (r *Repo) CheckoutOurs(paths []string) CmdResult {
	args := append([]string{"checkout", "--ours", "--"}, paths...)
	return r.runner.Run(r.Dir, args...)
}

// DiffCachedNames lists staged paths whose content actually changed
func (r *Repo) DiffCachedNames() ([]string, CmdResult) {
	result := r.runner.Run(r.Dir, "diff", "--cached", "--name-only")
	if !result.OK() {
		return nil, result
	}
	var names []string
	for _, line := range strings.Split(result.Output, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			names = append(names, line)
		}
	}
	return names, result
}

// Status returns the parsed porcelain status of the working tree
func (r *Repo) Status() ([]StatusEntry, CmdResult) {
	result := r.runner.Run(r.Dir, "status", "--porcelain")
	if !result.OK() {
		return nil, result
	}
	return ParseStatus(result.Output), result
}
