// Package setup performs the one-time bootstrap of a games root: it
// verifies (or installs) git, creates the shared store repository, writes
// ignore and attribute rules, performs the initial pull, links every sync
// target of every discovered game, creates launcher shortcuts and finally
// writes the setup marker.
//
// Setup is idempotent per marker. Anything that breaks after the marker
// is written is the operator's to fix; partial setup is not rolled back.
package setup

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/pterm/pterm"

	"github.com/arthur-debert/savesync/pkg/config"
	"github.com/arthur-debert/savesync/pkg/errors"
	"github.com/arthur-debert/savesync/pkg/games"
	"github.com/arthur-debert/savesync/pkg/gitcmd"
	"github.com/arthur-debert/savesync/pkg/link"
	"github.com/arthur-debert/savesync/pkg/logging"
	"github.com/arthur-debert/savesync/pkg/manifest"
	"github.com/arthur-debert/savesync/pkg/online"
	"github.com/arthur-debert/savesync/pkg/paths"
	"github.com/arthur-debert/savesync/pkg/shortcut"
	"github.com/arthur-debert/savesync/pkg/syncer"
	"github.com/arthur-debert/savesync/pkg/types"
)

// default ignore rules written into a fresh store
const defaultIgnore = `# OS and tooling junk that must not sync
Thumbs.db
Desktop.ini
*.tmp
*.bak
`

// save data is opaque binary; disable eol conversion and diffing
const defaultAttributes = `* -text
*.dat binary
*.rpy binary
*.cfg binary
`

// Controller runs the bootstrap
type Controller struct {
	Paths    *paths.Paths
	Settings *config.Settings

	repo      *gitcmd.Repo
	prober    online.Prober
	manifests *manifest.Loader
	resolver  syncer.Resolver

	// injectable for tests
	installGit   func() error
	gitVersion   func() gitcmd.CmdResult
	promptRemote func() string
	launcherPath func() (string, error)
	ensureLink   func(linkPath, targetPath string, kind types.TargetKind) (link.Result, error)
}

// New wires a Controller against the real collaborators
func New(p *paths.Paths, settings *config.Settings, resolver syncer.Resolver) *Controller {
	return &Controller{
		Paths:        p,
		Settings:     settings,
		repo:         gitcmd.NewRepo(p.StoreRoot()),
		prober:       online.New(settings.Probe.Host, settings.ProbeTimeout()),
		manifests:    manifest.NewLoader(p, settings.Manifest.BaseURL, settings.ManifestTimeout()),
		resolver:     resolver,
		installGit:   installGitWithPackageManager,
		gitVersion:   gitcmd.Version,
		promptRemote: promptRemoteInteractive,
		launcherPath: os.Executable,
		ensureLink:   link.EnsureLink,
	}
}

// Run executes the bootstrap. interactive enables the remote-URL prompt
// and the operator conflict choice; unattended runs take every default.
func (c *Controller) Run(interactive bool) error {
	logger := logging.GetLogger("setup")
	done := logging.LogOperationStart(logger, "setup")
	defer done()

	if err := c.ensureGit(); err != nil {
		return err
	}

	if err := os.MkdirAll(c.Paths.StoreRoot(), 0755); err != nil {
		return errors.Wrap(err, errors.ErrDirCreate, "cannot create shared store").
			WithDetail("path", c.Paths.StoreRoot())
	}

	if !c.repo.IsRepo() {
		if res := c.repo.Init(); !res.OK() {
			return errors.Newf(errors.ErrInternal, "git init failed: %s", res.Output)
		}
		logger.Info().Str("store", c.Paths.StoreRoot()).Msg("Initialized store repository")
	}

	c.configureRemote(interactive)
	c.writeRepoRules()

	if _, err := os.Stat(c.Paths.ConfigPath()); os.IsNotExist(err) {
		if err := config.WriteDefault(c.Paths.ConfigPath(), c.Settings); err != nil {
			logger.Warn().Err(err).Msg("Could not write store config, continuing")
		}
	}

	// initial pull, same conflict policy as every launch
	if c.Settings.Sync.Remote != "" {
		s := syncer.New(c.repo, c.prober, c.resolver,
			c.Settings.Sync.Branch, c.Settings.MachineName(),
			c.Paths.StoreRoot(), c.Paths.BackupsDir(),
			c.Settings.Sync.StagingAttempts, c.Settings.StagingBackoff())
		outcome := s.PreSync()
		logger.Info().Str("outcome", string(outcome)).Msg("Initial pull finished")
	}

	found, err := c.discoverGames()
	if err != nil {
		return err
	}

	for i := range found {
		if err := c.linkGame(&found[i]); err != nil {
			return err
		}
	}

	c.createShortcuts(found)

	if err := c.writeMarker(); err != nil {
		return err
	}

	pterm.Success.Printfln("Setup complete: %d game(s) linked into %s", len(found), c.Paths.StoreRoot())
	return nil
}

// ensureGit verifies the tool is present, installing it if necessary.
// After an install the process must be restarted: the new PATH entries
// are not visible to the current environment.
func (c *Controller) ensureGit() error {
	logger := logging.GetLogger("setup")

	if c.gitVersion().OK() {
		return nil
	}

	logger.Warn().Msg("git not found, attempting install via package manager")
	if err := c.installGit(); err != nil {
		return errors.Wrap(err, errors.ErrToolMissing, "git is missing and automatic install failed")
	}

	return errors.New(errors.ErrRestartNeeded,
		"git was installed; restart savesync so the refreshed environment is picked up")
}

func (c *Controller) configureRemote(interactive bool) {
	logger := logging.GetLogger("setup")

	if c.Settings.Sync.Remote == "" && interactive {
		c.Settings.Sync.Remote = c.promptRemote()
	}
	if c.Settings.Sync.Remote == "" {
		logger.Info().Msg("No remote configured, store stays local-only")
		return
	}

	if res := c.repo.AddRemote(c.Settings.Sync.Remote); !res.OK() {
		logger.Warn().Str("output", res.Output).Msg("Could not register remote, continuing local-only")
		return
	}
	logger.Info().Str("remote", c.Settings.Sync.Remote).Msg("Registered store remote")
}

// writeRepoRules writes ignore and attribute files, only if absent so
// operator edits survive re-runs
func (c *Controller) writeRepoRules() {
	logger := logging.GetLogger("setup")

	rules := map[string]string{
		filepath.Join(c.Paths.StoreRoot(), paths.IgnoreFile):     defaultIgnore,
		filepath.Join(c.Paths.StoreRoot(), paths.AttributesFile): defaultAttributes,
	}
	for path, content := range rules {
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("Could not write repo rules file")
			continue
		}
		logger.Debug().Str("path", path).Msg("Wrote repo rules file")
	}
}

func (c *Controller) discoverGames() ([]types.GameFolder, error) {
	storeName := ""
	if filepath.Dir(c.Paths.StoreRoot()) == c.Paths.GamesRoot() {
		storeName = filepath.Base(c.Paths.StoreRoot())
	}

	found, err := games.Discover(c.Paths.GamesRoot(), storeName)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, errors.New(errors.ErrGameNotFound, "no game folder with a recognizable executable found").
			WithDetail("root", c.Paths.GamesRoot())
	}
	return found, nil
}

// linkGame links every sync target of one game into the store. Individual
// link failures are logged and skipped; a missing manifest is fatal.
func (c *Controller) linkGame(game *types.GameFolder) error {
	logger := logging.GetLogger("setup")

	targets, err := c.manifests.Load(game)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(c.Paths.GameStoreDir(game.ID), 0755); err != nil {
		return errors.Wrap(err, errors.ErrDirCreate, "cannot create per-game store folder").
			WithDetail("game", game.ID)
	}

	for _, target := range targets {
		result, err := c.ensureLink(target.LinkPath(game), target.StorePath(c.Paths.StoreRoot(), game), target.Kind)
		if err != nil {
			logger.Error().
				Err(err).
				Str("game", game.ID).
				Str("target", target.RelPath).
				Msg("Link failed, continuing with remaining targets")
			continue
		}
		logger.Info().
			Str("game", game.ID).
			Str("target", target.RelPath).
			Str("result", string(result)).
			Msg("Sync target linked")
	}
	return nil
}

func (c *Controller) createShortcuts(found []types.GameFolder) {
	logger := logging.GetLogger("setup")

	launcher, err := c.launcherPath()
	if err != nil {
		logger.Warn().Err(err).Msg("Cannot resolve launcher path, skipping shortcuts")
		return
	}
	dir, err := c.Paths.ShortcutsDir()
	if err != nil {
		logger.Warn().Err(err).Msg("Cannot resolve shortcut directory, skipping shortcuts")
		return
	}

	for i := range found {
		if err := shortcut.Create(dir, &found[i], launcher); err != nil {
			logger.Warn().Err(err).Str("game", found[i].Name).Msg("Shortcut creation failed")
		}
	}
}

func (c *Controller) writeMarker() error {
	markerPath := c.Paths.MarkerPath()
	if err := os.MkdirAll(filepath.Dir(markerPath), 0755); err != nil {
		return errors.Wrap(err, errors.ErrDirCreate, "cannot create marker directory").
			WithDetail("path", filepath.Dir(markerPath))
	}
	content := fmt.Sprintf("setup completed %s\n", time.Now().Format(time.RFC3339))
	if err := os.WriteFile(markerPath, []byte(content), 0644); err != nil {
		return errors.Wrap(err, errors.ErrFileWrite, "cannot write setup marker").
			WithDetail("path", c.Paths.MarkerPath())
	}
	return nil
}

// VerifyMarkerIntegrity checks the marker invariant: its presence must
// imply the store repository and ignore rules exist. A violation is a
// loud failure, not a silent re-setup.
func VerifyMarkerIntegrity(p *paths.Paths) error {
	if !p.MarkerExists() {
		return errors.New(errors.ErrSetupNotDone, "first-time setup has not completed for this store")
	}
	if _, err := os.Stat(filepath.Join(p.StoreRoot(), ".git")); err != nil {
		return errors.New(errors.ErrInternal, "setup marker present but store repository missing; re-run setup or restore the store").
			WithDetail("store", p.StoreRoot())
	}
	if _, err := os.Stat(filepath.Join(p.StoreRoot(), paths.IgnoreFile)); err != nil {
		return errors.New(errors.ErrInternal, "setup marker present but ignore rules missing; re-run setup or restore the store").
			WithDetail("store", p.StoreRoot())
	}
	return nil
}

// promptRemoteInteractive asks the operator for a remote URL; empty
// input keeps the store local-only
func promptRemoteInteractive() string {
	remote, _ := pterm.DefaultInteractiveTextInput.
		WithDefaultText("Remote repository URL for the shared store (empty for local-only)").
		Show()
	return remote
}

// installGitWithPackageManager shells out to the platform package manager
func installGitWithPackageManager() error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("winget", "install", "--id", "Git.Git", "-e", "--source", "winget")
	case "darwin":
		cmd = exec.Command("brew", "install", "git")
	default:
		cmd = exec.Command("sudo", "apt-get", "install", "-y", "git")
	}

	logging.LogCommand(cmd.Path, cmd.Args[1:])
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("package manager failed: %w: %s", err, string(out))
	}
	return nil
}
