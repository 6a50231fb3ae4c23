// Package config loads savesync settings: embedded defaults, then the
// store-level savesync.toml, then SAVESYNC_* environment variables, each
// layer overriding the previous one.
package config

import (
	_ "embed"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	gotoml "github.com/pelletier/go-toml/v2"

	syncerrors "github.com/arthur-debert/savesync/pkg/errors"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}

// Settings is the fully resolved configuration
type Settings struct {
	Sync     SyncSettings     `koanf:"sync" toml:"sync"`
	Probe    ProbeSettings    `koanf:"probe" toml:"probe"`
	Launch   LaunchSettings   `koanf:"launch" toml:"launch"`
	Manifest ManifestSettings `koanf:"manifest" toml:"manifest"`
	Machine  MachineSettings  `koanf:"machine" toml:"machine"`
}

// SyncSettings controls the orchestrator
type SyncSettings struct {
	Branch             string `koanf:"branch" toml:"branch"`
	Remote             string `koanf:"remote" toml:"remote"`
	StagingAttempts    int    `koanf:"staging_attempts" toml:"staging_attempts"`
	StagingBackoffSecs int    `koanf:"staging_backoff_secs" toml:"staging_backoff_secs"`
}

// ProbeSettings controls the connectivity check
type ProbeSettings struct {
	Host        string `koanf:"host" toml:"host"`
	TimeoutSecs int    `koanf:"timeout_secs" toml:"timeout_secs"`
}

// LaunchSettings controls the game launcher
type LaunchSettings struct {
	SettleDelaySecs int `koanf:"settle_delay_secs" toml:"settle_delay_secs"`
}

// ManifestSettings controls sync-target manifest fetching
type ManifestSettings struct {
	BaseURL     string `koanf:"base_url" toml:"base_url"`
	TimeoutSecs int    `koanf:"timeout_secs" toml:"timeout_secs"`
}

// MachineSettings identifies this machine in commit messages
type MachineSettings struct {
	Name string `koanf:"name" toml:"name"`
}

// StagingBackoff returns the fixed delay between staging attempts
func (s *Settings) StagingBackoff() time.Duration {
	return time.Duration(s.Sync.StagingBackoffSecs) * time.Second
}

// ProbeTimeout returns the connectivity probe deadline
func (s *Settings) ProbeTimeout() time.Duration {
	return time.Duration(s.Probe.TimeoutSecs) * time.Second
}

// SettleDelay returns the pause after a game exits before post-sync
func (s *Settings) SettleDelay() time.Duration {
	return time.Duration(s.Launch.SettleDelaySecs) * time.Second
}

// ManifestTimeout returns the manifest fetch deadline
func (s *Settings) ManifestTimeout() time.Duration {
	return time.Duration(s.Manifest.TimeoutSecs) * time.Second
}

// MachineName returns the configured machine identifier, falling back to
// the hostname. Used for commit provenance across synced machines.
func (s *Settings) MachineName() string {
	if s.Machine.Name != "" {
		return s.Machine.Name
	}
	host, err := os.Hostname()
	if err != nil || host == "" {
		return "unknown-machine"
	}
	return host
}

// Load resolves settings from defaults, the given config file (if it
// exists) and the environment.
func Load(configPath string) (*Settings, error) {
	k := koanf.New(".")

	// 1. Built-in defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, syncerrors.Wrap(err, syncerrors.ErrConfigLoad, "failed to load defaults")
	}

	// 2. Store config if present
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
				return nil, syncerrors.Wrap(err, syncerrors.ErrConfigParse, "failed to parse store config").
					WithDetail("path", configPath)
			}
		}
	}

	// 3. Environment overrides: SAVESYNC_SYNC_BRANCH -> sync.branch
	if err := k.Load(env.Provider("SAVESYNC_", ".", func(s string) string {
		return strings.Replace(
			strings.ToLower(strings.TrimPrefix(s, "SAVESYNC_")), "_", ".", 1)
	}), nil); err != nil {
		return nil, syncerrors.Wrap(err, syncerrors.ErrConfigLoad, "failed to load environment")
	}

	var settings Settings
	if err := k.Unmarshal("", &settings); err != nil {
		return nil, syncerrors.Wrap(err, syncerrors.ErrConfigParse, "failed to unmarshal settings")
	}

	return &settings, nil
}

// WriteDefault writes the current settings to the store config file so the
// operator has something concrete to edit. Called once during setup.
func WriteDefault(configPath string, settings *Settings) error {
	data, err := gotoml.Marshal(settings)
	if err != nil {
		return syncerrors.Wrap(err, syncerrors.ErrInternal, "failed to marshal settings")
	}
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return syncerrors.Wrap(err, syncerrors.ErrFileWrite, "failed to write store config").
			WithDetail("path", configPath)
	}
	return nil
}
