package launch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	syncerrors "github.com/arthur-debert/savesync/pkg/errors"
	"github.com/arthur-debert/savesync/pkg/types"
)

func gameWithFiles(t *testing.T, files ...string) *types.GameFolder {
	t.Helper()
	dir := t.TempDir()
	for _, f := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f), []byte("MZ"), 0755))
	}
	return &types.GameFolder{
		Name:       "th07",
		Path:       dir,
		Executable: filepath.Join(dir, "th07.exe"),
		ID:         "th07",
	}
}

func TestResolveExecutableBareGame(t *testing.T) {
	game := gameWithFiles(t, "th07.exe")

	exe, err := ResolveExecutable(game)
	require.NoError(t, err)
	assert.Equal(t, game.Executable, exe)
}

func TestResolveExecutablePrefersPatchLauncher(t *testing.T) {
	game := gameWithFiles(t, "th07.exe", "vpatch.exe")

	exe, err := ResolveExecutable(game)
	require.NoError(t, err)
	assert.Equal(t, "vpatch.exe", filepath.Base(exe))
}

func TestResolveExecutableGenericPatchSuffix(t *testing.T) {
	game := gameWithFiles(t, "th07.exe", "thcrap_loader_patch.exe")

	exe, err := ResolveExecutable(game)
	require.NoError(t, err)
	assert.Equal(t, "thcrap_loader_patch.exe", filepath.Base(exe))
}

func TestResolveExecutableMissing(t *testing.T) {
	game := gameWithFiles(t) // empty folder

	_, err := ResolveExecutable(game)
	require.Error(t, err)
	assert.True(t, syncerrors.IsErrorCode(err, syncerrors.ErrExeNotFound))
}

func TestRunWaitsForExitThenSettles(t *testing.T) {
	game := gameWithFiles(t, "th07.exe")

	c := New(2 * time.Second)
	var ranExe, ranDir string
	c.run = func(exe, dir string) error {
		ranExe, ranDir = exe, dir
		return nil
	}
	var slept time.Duration
	c.sleep = func(d time.Duration) { slept = d }

	require.NoError(t, c.Run(game))
	assert.Equal(t, game.Executable, ranExe)
	assert.Equal(t, game.Path, ranDir)
	assert.Equal(t, 2*time.Second, slept)
}

func TestRunToleratesGameCrash(t *testing.T) {
	game := gameWithFiles(t, "th07.exe")

	c := New(time.Second)
	c.run = func(exe, dir string) error { return assert.AnError }
	settled := false
	c.sleep = func(time.Duration) { settled = true }

	// a crashing game still settles and returns success for sync
	require.NoError(t, c.Run(game))
	assert.True(t, settled)
}

func TestRunMissingExecutableIsReported(t *testing.T) {
	game := gameWithFiles(t)

	c := New(time.Second)
	c.run = func(exe, dir string) error {
		t.Error("run called despite missing executable")
		return nil
	}

	err := c.Run(game)
	assert.True(t, syncerrors.IsErrorCode(err, syncerrors.ErrExeNotFound))
}
