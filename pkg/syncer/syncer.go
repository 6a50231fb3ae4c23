// Package syncer sequences the save-data synchronization around a play
// session: pre-launch pull with conflict resolution, and post-launch
// stage/commit/push with bounded retry.
//
// Sync is best-effort by design: no outcome of either phase ever blocks
// the launch. Conflicts are resolved by policy (remote-wins unless the
// operator explicitly keeps local), not by semantic merging, because save
// files are opaque binary blobs.
package syncer

import (
	"fmt"
	"time"

	"github.com/arthur-debert/savesync/pkg/backup"
	"github.com/arthur-debert/savesync/pkg/errors"
	"github.com/arthur-debert/savesync/pkg/gitcmd"
	"github.com/arthur-debert/savesync/pkg/logging"
	"github.com/arthur-debert/savesync/pkg/online"
)

// PreOutcome is the terminal state of the pre-launch phase
type PreOutcome string

const (
	PreOffline        PreOutcome = "offline"
	PreClean          PreOutcome = "clean"
	PreResolvedRemote PreOutcome = "resolved-remote"
	PreResolvedLocal  PreOutcome = "resolved-local"
	PreSoftError      PreOutcome = "soft-error"
)

// PostOutcome is the terminal state of the post-launch phase
type PostOutcome string

const (
	PostNoChanges       PostOutcome = "no-changes"
	PostDeferredOffline PostOutcome = "deferred-offline"
	PostStagingFailed   PostOutcome = "staging-failed"
	PostNothingStaged   PostOutcome = "nothing-staged"
	PostPushed          PostOutcome = "pushed"
	PostPushFailed      PostOutcome = "push-failed"
)

// Resolver decides a conflict in favor of the local side when the
// operator explicitly asks for it. Unattended runs never choose local.
type Resolver interface {
	KeepLocal(conflicted []string) bool
}

// RemoteWins is the unattended resolver: always discard local divergence
type RemoteWins struct{}

// KeepLocal always returns false
func (RemoteWins) KeepLocal([]string) bool { return false }

// Syncer orchestrates both sync phases against one store repository
type Syncer struct {
	repo       *gitcmd.Repo
	prober     online.Prober
	resolver   Resolver
	branch     string
	machine    string
	storeRoot  string
	backupsDir string

	// staging retry policy: fixed delay, not exponential; the intent is
	// to outwait brief external file locks, not remote flakiness
	stagingAttempts int
	stagingBackoff  time.Duration

	// injectable for tests
	sleep    func(time.Duration)
	snapshot func(storeRoot, backupsDir string) (string, error)
}

// New creates a Syncer with the given collaborators
func New(repo *gitcmd.Repo, prober online.Prober, resolver Resolver, branch, machine, storeRoot, backupsDir string, stagingAttempts int, stagingBackoff time.Duration) *Syncer {
	if resolver == nil {
		resolver = RemoteWins{}
	}
	return &Syncer{
		repo:            repo,
		prober:          prober,
		resolver:        resolver,
		branch:          branch,
		machine:         machine,
		storeRoot:       storeRoot,
		backupsDir:      backupsDir,
		stagingAttempts: stagingAttempts,
		stagingBackoff:  stagingBackoff,
		sleep:           time.Sleep,
		snapshot:        backup.Snapshot,
	}
}

// PreSync pulls the branch before launch and resolves conflicts per
// policy. Every outcome is terminal success for the caller: stale local
// data is preferred over blocking play.
func (s *Syncer) PreSync() PreOutcome {
	logger := logging.GetLogger("syncer.pre")

	if !s.prober.IsOnline() {
		logger.Info().Msg("Offline, skipping pre-launch sync")
		return PreOffline
	}

	pull := s.repo.Pull(s.branch)
	if pull.OK() {
		logger.Info().Str("branch", s.branch).Msg("Pulled latest save data")
		return PreClean
	}

	entries, status := s.repo.Status()
	if !status.OK() {
		logger.Warn().
			Int("exitCode", status.ExitCode).
			Str("output", status.Output).
			Msg("Status failed after pull error, launching with local data")
		return PreSoftError
	}

	if !gitcmd.HasConflicts(entries) {
		logger.Warn().
			Int("exitCode", pull.ExitCode).
			Str("output", pull.Output).
			Msg("Pull failed without conflicts, launching with local data")
		return PreSoftError
	}

	conflicted := gitcmd.ConflictedPaths(entries)
	logger.Warn().
		Err(errors.Newf(errors.ErrMergeConflict, "%d unmerged path(s) in store", len(conflicted))).
		Strs("paths", conflicted).
		Msg("Merge conflict detected")

	if s.resolver.KeepLocal(conflicted) {
		return s.resolveLocal(conflicted)
	}
	return s.resolveRemote()
}

// resolveRemote discards local uncommitted divergence in favor of the
// upstream reference. Destructive and irreversible except for the
// snapshot taken immediately before.
func (s *Syncer) resolveRemote() PreOutcome {
	logger := logging.GetLogger("syncer.pre")

	snapshotPath, err := s.snapshot(s.storeRoot, s.backupsDir)
	if err != nil {
		// without a snapshot the overwrite is not safe; keep local state
		logger.Error().Err(err).Msg("Backup snapshot failed, keeping local data")
		return PreSoftError
	}
	logger.Info().Str("snapshot", snapshotPath).Msg("Backed up local data")

	if res := s.repo.Fetch(); !res.OK() {
		logger.Warn().Str("output", res.Output).Msg("Fetch failed, launching with local data")
		return PreSoftError
	}

	remoteRef := "origin/" + s.branch
	if res := s.repo.ResetHard(remoteRef); !res.OK() {
		logger.Warn().Str("output", res.Output).Msg("Reset failed, launching with local data")
		return PreSoftError
	}

	logger.Info().Str("ref", remoteRef).Msg("Conflict resolved in favor of remote")
	return PreResolvedRemote
}

// resolveLocal keeps the local version of every conflicted path and
// records a resolution commit.
func (s *Syncer) resolveLocal(conflicted []string) PreOutcome {
	logger := logging.GetLogger("syncer.pre")

	if res := s.repo.CheckoutOurs(conflicted); !res.OK() {
		logger.Warn().Str("output", res.Output).Msg("Checkout of local versions failed")
		return PreSoftError
	}
	if res := s.repo.AddAll(); !res.OK() {
		logger.Warn().Str("output", res.Output).Msg("Staging of resolution failed")
		return PreSoftError
	}
	if res := s.repo.Commit(s.commitMessage("conflict resolved, local kept")); !res.OK() {
		logger.Warn().Str("output", res.Output).Msg("Resolution commit failed")
		return PreSoftError
	}

	logger.Info().Strs("paths", conflicted).Msg("Conflict resolved in favor of local")
	return PreResolvedLocal
}

// PostSync stages, commits and pushes whatever the play session changed.
// Push failures are logged, never retried and never fatal: the commit
// stays local and rides along on a future successful sync.
func (s *Syncer) PostSync() PostOutcome {
	logger := logging.GetLogger("syncer.post")

	entries, status := s.repo.Status()
	if status.OK() && len(entries) == 0 {
		logger.Info().Msg("No changes after play session")
		return PostNoChanges
	}

	if !s.prober.IsOnline() {
		logger.Info().Msg("Offline, sync deferred; changes will be picked up next run")
		return PostDeferredOffline
	}

	if !s.stageWithRetry() {
		logger.Warn().
			Err(errors.Newf(errors.ErrStagingLocked, "staging failed after %d attempts", s.stagingAttempts)).
			Msg("Staging failed on every attempt, will retry next run")
		return PostStagingFailed
	}

	names, diff := s.repo.DiffCachedNames()
	if !diff.OK() {
		logger.Warn().Str("output", diff.Output).Msg("Diff of staged files failed")
		return PostStagingFailed
	}
	if len(names) == 0 {
		logger.Info().Msg("Staged set net-changed nothing")
		return PostNothingStaged
	}

	commit := s.repo.Commit(s.commitMessage("session sync"))
	if !commit.OK() {
		logger.Warn().Str("output", commit.Output).Msg("Commit failed")
		return PostStagingFailed
	}
	logger.Info().Strs("files", names).Msg("Committed session changes")

	push := s.repo.Push(s.branch)
	if !push.OK() {
		logger.Warn().
			Err(errors.New(errors.ErrPushRejected, "remote rejected the session commit")).
			Int("exitCode", push.ExitCode).
			Str("output", push.Output).
			Msgf("Push failed; commit kept locally. Run 'git push origin %s' inside %s to retry manually", s.branch, s.storeRoot)
		return PostPushFailed
	}

	logger.Info().Str("branch", s.branch).Msg("Pushed session changes")
	return PostPushed
}

// stageWithRetry tolerates transient file locks held by the OS or
// antivirus scanners with a short, bounded, fixed-delay retry.
func (s *Syncer) stageWithRetry() bool {
	logger := logging.GetLogger("syncer.post")

	for attempt := 1; attempt <= s.stagingAttempts; attempt++ {
		res := s.repo.AddAll()
		if res.OK() {
			return true
		}
		logger.Warn().
			Int("attempt", attempt).
			Int("exitCode", res.ExitCode).
			Str("output", res.Output).
			Msg("Staging attempt failed")
		if attempt < s.stagingAttempts {
			s.sleep(s.stagingBackoff)
		}
	}
	return false
}

// commitMessage embeds wall-clock time and the machine identifier for
// provenance across synced machines.
func (s *Syncer) commitMessage(what string) string {
	return fmt.Sprintf("savesync: %s at %s on %s", what, time.Now().Format(time.RFC3339), s.machine)
}
