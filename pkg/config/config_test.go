package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	settings, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "main", settings.Sync.Branch)
	assert.Equal(t, 3, settings.Sync.StagingAttempts)
	assert.Equal(t, 2*time.Second, settings.StagingBackoff())
	assert.Equal(t, "github.com:443", settings.Probe.Host)
	assert.Equal(t, 2*time.Second, settings.SettleDelay())
	assert.NotEmpty(t, settings.Manifest.BaseURL)
}

func TestLoadStoreConfigOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "savesync.toml")
	content := `
[sync]
branch = "saves"
remote = "git@example.com:saves.git"

[launch]
settle_delay_secs = 5
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	settings, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "saves", settings.Sync.Branch)
	assert.Equal(t, "git@example.com:saves.git", settings.Sync.Remote)
	assert.Equal(t, 5*time.Second, settings.SettleDelay())
	// untouched keys keep their defaults
	assert.Equal(t, 3, settings.Sync.StagingAttempts)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	t.Setenv("SAVESYNC_SYNC_BRANCH", "trunk")
	t.Setenv("SAVESYNC_MACHINE_NAME", "desk-01")

	settings, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "trunk", settings.Sync.Branch)
	assert.Equal(t, "desk-01", settings.MachineName())
}

func TestMachineNameFallsBackToHostname(t *testing.T) {
	settings, err := Load("")
	require.NoError(t, err)

	host, herr := os.Hostname()
	if herr != nil {
		t.Skip("no hostname available")
	}
	assert.Equal(t, host, settings.MachineName())
}

func TestWriteDefaultRoundTrips(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "savesync.toml")

	settings, err := Load("")
	require.NoError(t, err)
	settings.Sync.Remote = "https://example.com/saves.git"

	require.NoError(t, WriteDefault(configPath, settings))

	reloaded, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/saves.git", reloaded.Sync.Remote)
	assert.Equal(t, settings.Sync.Branch, reloaded.Sync.Branch)
	assert.Equal(t, settings.Probe.Host, reloaded.Probe.Host)
}
