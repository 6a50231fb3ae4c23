// Package paths provides centralized path handling for savesync.
// It resolves the shared store, the games root, the setup marker and the
// backup area, following the XDG Base Directory specification.
package paths

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/savesync/pkg/errors"
)

// Environment variable names
const (
	// EnvStoreRoot overrides the shared store location
	EnvStoreRoot = "SAVESYNC_STORE"

	// EnvGamesRoot overrides the directory scanned for game folders
	EnvGamesRoot = "SAVESYNC_GAMES"
)

// Well-known names inside the store. These are not user-configurable:
// they must be stable across machines sharing one store.
const (
	// ConfigFile is the store-level configuration file
	ConfigFile = "savesync.toml"

	// ManifestDir holds cached per-game sync-target manifests
	ManifestDir = ".savesync"

	// IgnoreFile and AttributesFile are written into the store root
	IgnoreFile     = ".gitignore"
	AttributesFile = ".gitattributes"
)

// Paths resolves every location savesync reads or writes
type Paths struct {
	storeRoot string
	gamesRoot string
}

// New creates a Paths instance. An empty gamesRoot falls back to the
// SAVESYNC_GAMES variable and then to the store's parent directory.
func New(gamesRoot string) (*Paths, error) {
	store := os.Getenv(EnvStoreRoot)
	if store == "" {
		store = filepath.Join(xdg.DataHome, "savesync", "store")
	}
	store, err := filepath.Abs(store)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidInput, "cannot resolve store root")
	}

	if gamesRoot == "" {
		gamesRoot = os.Getenv(EnvGamesRoot)
	}
	if gamesRoot == "" {
		gamesRoot = filepath.Dir(store)
	}
	gamesRoot, err = filepath.Abs(gamesRoot)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidInput, "cannot resolve games root")
	}

	return &Paths{storeRoot: store, gamesRoot: gamesRoot}, nil
}

// StoreRoot returns the version-controlled shared store directory
func (p *Paths) StoreRoot() string {
	return p.storeRoot
}

// GamesRoot returns the directory scanned for game folders
func (p *Paths) GamesRoot() string {
	return p.gamesRoot
}

// GameStoreDir returns the per-game directory inside the store
func (p *Paths) GameStoreDir(gameID string) string {
	return filepath.Join(p.storeRoot, gameID)
}

// MarkerPath returns the setup-complete marker location. The marker is
// machine-local state keyed by the store path, deliberately outside the
// synced store: the links it vouches for exist per machine, so a marker
// pushed by another machine must never count as this machine's.
func (p *Paths) MarkerPath() string {
	sum := sha256.Sum256([]byte(p.storeRoot))
	name := hex.EncodeToString(sum[:8]) + ".done"
	return filepath.Join(xdg.StateHome, "savesync", "markers", name)
}

// MarkerExists reports whether first-time setup has completed on this
// machine. Its presence implies the store, ignore rules and links exist.
func (p *Paths) MarkerExists() bool {
	_, err := os.Stat(p.MarkerPath())
	return err == nil
}

// ConfigPath returns the store-level configuration file location
func (p *Paths) ConfigPath() string {
	return filepath.Join(p.storeRoot, ConfigFile)
}

// ManifestCachePath returns the cached manifest location for a game
func (p *Paths) ManifestCachePath(gameID string) string {
	return filepath.Join(p.storeRoot, ManifestDir, gameID+".json")
}

// ManifestOverridePath returns the hand-editable manifest override
func (p *Paths) ManifestOverridePath(gameID string) string {
	return filepath.Join(p.storeRoot, ManifestDir, gameID+".yaml")
}

// BackupsDir returns the area for pre-overwrite snapshots. Snapshots are
// write-once; pruning is left to the operator.
func (p *Paths) BackupsDir() string {
	return filepath.Join(xdg.StateHome, "savesync", "backups")
}

// ShortcutsDir returns where launcher shortcuts are written
func (p *Paths) ShortcutsDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrNotFound, "cannot resolve home directory")
	}
	return filepath.Join(home, "Desktop"), nil
}
