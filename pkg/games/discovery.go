// Package games discovers game installations by scanning the immediate
// subfolders of the games root for a known executable naming pattern.
// Discovery is derived state: it is recomputed on every run and never
// persisted.
package games

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/arthur-debert/savesync/pkg/errors"
	"github.com/arthur-debert/savesync/pkg/logging"
	"github.com/arthur-debert/savesync/pkg/types"
)

// gameExePattern matches the numbered main-game executables (th06.exe,
// th07.exe, th12.5.exe and friends)
var gameExePattern = regexp.MustCompile(`(?i)^th[0-9]+(\.[0-9]+)?[a-z]*\.exe$`)

// helper executables that never identify a game folder
var helperExeNames = map[string]bool{
	"config.exe":    true,
	"custom.exe":    true,
	"setup.exe":     true,
	"uninstall.exe": true,
	"unins000.exe":  true,
	"vpatch.exe":    true,
	"thprac.exe":    true,
}

// Discover scans the immediate subfolders of root and returns every
// folder holding a recognizable game executable, sorted by name.
// Folders listed in skipNames (the shared store, typically) are ignored.
func Discover(root string, skipNames ...string) ([]types.GameFolder, error) {
	logger := logging.GetLogger("games.discovery")
	logger.Trace().Str("root", root).Msg("Scanning for game folders")

	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(err, errors.ErrNotFound, "games root does not exist").
				WithDetail("path", root)
		}
		return nil, errors.Wrap(err, errors.ErrFileAccess, "cannot access games root").
			WithDetail("path", root)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrInvalidInput, "games root is not a directory").
			WithDetail("path", root)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrFileAccess, "cannot read games root").
			WithDetail("path", root)
	}

	skip := make(map[string]bool, len(skipNames))
	for _, name := range skipNames {
		skip[name] = true
	}

	var found []types.GameFolder
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || strings.HasPrefix(name, ".") || skip[name] {
			continue
		}

		folderPath := filepath.Join(root, name)
		exe, ok := findGameExecutable(folderPath)
		if !ok {
			logger.Debug().Str("folder", name).Msg("No game executable, skipping folder")
			continue
		}

		game := types.GameFolder{
			Name:       name,
			Path:       folderPath,
			Executable: exe,
			ID:         gameID(exe),
		}
		found = append(found, game)
		logger.Trace().
			Str("name", game.Name).
			Str("executable", game.Executable).
			Str("id", game.ID).
			Msg("Found game folder")
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].Name < found[j].Name
	})

	logger.Info().Int("count", len(found)).Msg("Discovered game folders")
	return found, nil
}

// Find returns the discovered game matching name (folder name or game id)
func Find(gamesList []types.GameFolder, name string) (types.GameFolder, error) {
	for _, g := range gamesList {
		if g.Name == name || g.ID == name {
			return g, nil
		}
	}
	return types.GameFolder{}, errors.Newf(errors.ErrGameNotFound, "no game folder named %q", name)
}

// findGameExecutable looks for the main game executable in a folder.
// The numbered pattern wins; otherwise the first non-helper .exe does.
func findGameExecutable(folder string) (string, bool) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return "", false
	}

	var fallback string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		lower := strings.ToLower(name)
		if !strings.HasSuffix(lower, ".exe") {
			continue
		}
		if gameExePattern.MatchString(name) {
			return filepath.Join(folder, name), true
		}
		if fallback == "" && !helperExeNames[lower] && !strings.Contains(lower, "patch") {
			fallback = filepath.Join(folder, name)
		}
	}

	if fallback != "" {
		return fallback, true
	}
	return "", false
}

// gameID derives the store folder name from the executable name
func gameID(exe string) string {
	base := strings.ToLower(filepath.Base(exe))
	return strings.TrimSuffix(base, ".exe")
}
