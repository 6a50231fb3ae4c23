// Package shortcut writes per-game launcher shortcuts that invoke the
// savesync binary with the game name, so every start of the game goes
// through the sync workflow.
package shortcut

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/arthur-debert/savesync/pkg/errors"
	"github.com/arthur-debert/savesync/pkg/logging"
	"github.com/arthur-debert/savesync/pkg/types"
)

// Create writes a shortcut for the game into dir. On Windows this is a
// small batch stub; elsewhere a freedesktop .desktop entry. Failures are
// reported for logging but are never fatal to setup.
func Create(dir string, game *types.GameFolder, launcherPath string) error {
	return create(dir, game, launcherPath, runtime.GOOS)
}

func create(dir string, game *types.GameFolder, launcherPath, goos string) error {
	logger := logging.GetLogger("shortcut")

	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, errors.ErrDirCreate, "cannot create shortcut directory").
			WithDetail("path", dir)
	}

	var path string
	var content string
	var mode os.FileMode

	if goos == "windows" {
		path = filepath.Join(dir, game.Name+".bat")
		content = fmt.Sprintf("@echo off\r\n\"%s\" launch \"%s\"\r\n", launcherPath, game.Name)
		mode = 0755
	} else {
		path = filepath.Join(dir, game.Name+".desktop")
		content = fmt.Sprintf(`[Desktop Entry]
Type=Application
Name=%s
Comment=Play %s with synchronized saves
Exec="%s" launch "%s"
Terminal=false
Categories=Game;
`, game.Name, game.Name, launcherPath, game.Name)
		mode = 0755
	}

	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		return errors.Wrap(err, errors.ErrFileWrite, "cannot write shortcut").
			WithDetail("path", path)
	}

	logger.Info().Str("game", game.Name).Str("path", path).Msg("Created launcher shortcut")
	return nil
}
