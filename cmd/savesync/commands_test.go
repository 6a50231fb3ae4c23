package savesync

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/savesync/pkg/config"
	"github.com/arthur-debert/savesync/pkg/paths"
)

func TestNewRootCmdStructure(t *testing.T) {
	root := NewRootCmd()

	assert.Equal(t, "savesync [game]", root.Use)
	assert.True(t, root.SilenceUsage)
	assert.True(t, root.SilenceErrors)

	expected := []string{"launch", "setup", "status", "version", "completion"}
	for _, name := range expected {
		found := false
		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		assert.True(t, found, "missing subcommand %s", name)
	}
}

func TestRootCmdGlobalFlags(t *testing.T) {
	root := NewRootCmd()

	for _, name := range []string{"verbose", "yes", "games-root"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(name), "missing flag %s", name)
	}
}

func TestVersionCommand(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	root := NewRootCmd()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	assert.Contains(t, buf.String(), "savesync version")
}

func TestCompletionCommand(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	root := NewRootCmd()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs([]string{"completion", "bash"})

	require.NoError(t, root.Execute())
	assert.Contains(t, buf.String(), "savesync")
}

func newTestApp(t *testing.T) *app {
	t.Helper()

	root := t.TempDir()
	t.Setenv(paths.EnvStoreRoot, filepath.Join(root, "store"))
	t.Setenv(paths.EnvGamesRoot, root)
	t.Setenv("XDG_STATE_HOME", filepath.Join(root, "state"))
	xdg.Reload()

	p, err := paths.New("")
	require.NoError(t, err)
	settings, err := config.Load("")
	require.NoError(t, err)

	return &app{paths: p, settings: settings}
}

// shortcuts run 'savesync launch <game>'; on a machine that has not set
// up yet that must enter setup instead of failing
func TestSessionBootstrapsWhenMarkerAbsent(t *testing.T) {
	a := newTestApp(t)

	called := false
	a.bootstrap = func() error { called = true; return assert.AnError }

	err := a.session("th07")
	assert.True(t, called)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestSessionSkipsBootstrapWhenMarkerPresent(t *testing.T) {
	a := newTestApp(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(a.paths.MarkerPath()), 0755))
	require.NoError(t, os.WriteFile(a.paths.MarkerPath(), []byte("done\n"), 0644))

	a.bootstrap = func() error {
		t.Error("bootstrap ran despite completed setup")
		return nil
	}

	// marker present but store missing: the integrity check fails loudly
	// before anything touches git or the games
	err := a.session("th07")
	require.Error(t, err)
}

func TestRootNoArgsWithMarkerReportsMissingGame(t *testing.T) {
	a := newTestApp(t)
	require.NoError(t, os.MkdirAll(a.paths.StoreRoot(), 0755))
	require.NoError(t, os.MkdirAll(filepath.Dir(a.paths.MarkerPath()), 0755))
	require.NoError(t, os.WriteFile(a.paths.MarkerPath(), []byte("done\n"), 0644))

	root := NewRootCmd()
	root.SetOut(new(bytes.Buffer))
	root.SetErr(new(bytes.Buffer))
	root.SetArgs([]string{})

	err := root.Execute()
	require.Error(t, err)
	assert.Equal(t, MsgErrNoGame, err.Error())
}

func TestCompletionRejectsUnknownShell(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	root := NewRootCmd()
	root.SetOut(new(bytes.Buffer))
	root.SetErr(new(bytes.Buffer))
	root.SetArgs([]string{"completion", "tcsh"})

	assert.Error(t, root.Execute())
}
