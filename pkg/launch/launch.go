// Package launch starts a game and waits for it to finish. The wait on
// the child process is unbounded; a fixed settle delay after exit gives
// the game time to flush save files it writes asynchronously after its
// window closes.
package launch

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/arthur-debert/savesync/pkg/errors"
	"github.com/arthur-debert/savesync/pkg/logging"
	"github.com/arthur-debert/savesync/pkg/types"
)

// Controller resolves and runs game executables
type Controller struct {
	// SettleDelay is the pause after the game exits before returning
	SettleDelay time.Duration

	// injectable for tests
	run   func(exe, dir string) error
	sleep func(time.Duration)
}

// New creates a Controller with the given settle delay
func New(settleDelay time.Duration) *Controller {
	return &Controller{
		SettleDelay: settleDelay,
		run:         runProcess,
		sleep:       time.Sleep,
	}
}

// Run launches the game and blocks until it exits plus the settle delay.
// A missing executable is a reported, non-fatal error.
func (c *Controller) Run(game *types.GameFolder) error {
	logger := logging.GetLogger("launch")

	exe, err := ResolveExecutable(game)
	if err != nil {
		return err
	}

	logger.Info().Str("game", game.Name).Str("executable", exe).Msg("Launching game")
	start := time.Now()

	if err := c.run(exe, game.Path); err != nil {
		// a game crashing is the player's problem, not a sync problem;
		// still settle and sync whatever it wrote
		logger.Warn().Err(err).Str("game", game.Name).Msg("Game exited with error")
	}

	logger.Info().
		Str("game", game.Name).
		Dur("session", time.Since(start)).
		Msg("Game exited, settling")

	c.sleep(c.SettleDelay)
	return nil
}

// ResolveExecutable picks what to start: a patch launcher found in the
// same folder takes priority over the bare game executable.
func ResolveExecutable(game *types.GameFolder) (string, error) {
	if patcher, ok := findPatchLauncher(game.Path); ok {
		return patcher, nil
	}

	if _, err := os.Stat(game.Executable); err != nil {
		return "", errors.Wrap(err, errors.ErrExeNotFound, "game executable missing").
			WithDetail("game", game.Name).
			WithDetail("executable", game.Executable)
	}
	return game.Executable, nil
}

// patch launchers wrap the game with input-lag or practice fixes; when
// the player installed one, it is the intended entry point
var patchLauncherNames = []string{"vpatch.exe", "thprac.exe"}

func findPatchLauncher(folder string) (string, bool) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return "", false
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		lower := strings.ToLower(entry.Name())
		for _, name := range patchLauncherNames {
			if lower == name {
				return filepath.Join(folder, entry.Name()), true
			}
		}
		if strings.HasSuffix(lower, "patch.exe") {
			return filepath.Join(folder, entry.Name()), true
		}
	}
	return "", false
}

// runProcess starts the executable with the game folder as working
// directory and blocks until it exits. No special environment is passed.
func runProcess(exe, dir string) error {
	cmd := exec.Command(exe)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
