// Package types holds the domain entities shared across savesync:
// discovered game folders and the sync targets tracked for each of them.
package types

import (
	"path/filepath"
	"strings"
)

// GameFolder represents one game installation discovered under the games
// root. It is recomputed on every run from the filesystem and never
// persisted.
type GameFolder struct {
	// Name is the display name (the directory name)
	Name string

	// Path is the absolute path to the game directory
	Path string

	// Executable is the absolute path of the detected game executable
	Executable string

	// ID is the identifier used for the per-game store folder and the
	// sync-target manifest (lowercased executable base name)
	ID string
}

// ExecutableName returns the bare executable file name
func (g *GameFolder) ExecutableName() string {
	return filepath.Base(g.Executable)
}

// TargetKind distinguishes tracked files from tracked directories
type TargetKind string

const (
	TargetFile TargetKind = "file"
	TargetDir  TargetKind = "dir"
)

// SyncTarget is one tracked path of a game, relative to the game folder.
// Manifest entries prefixed with "/" denote directories, bare names files.
type SyncTarget struct {
	RelPath string
	Kind    TargetKind
}

// ParseSyncTarget converts a raw manifest entry into a SyncTarget
func ParseSyncTarget(entry string) SyncTarget {
	if strings.HasPrefix(entry, "/") {
		return SyncTarget{
			RelPath: strings.TrimPrefix(entry, "/"),
			Kind:    TargetDir,
		}
	}
	return SyncTarget{RelPath: entry, Kind: TargetFile}
}

// LinkPath returns the live location of the target inside the game folder
func (t SyncTarget) LinkPath(game *GameFolder) string {
	return filepath.Join(game.Path, filepath.FromSlash(t.RelPath))
}

// StorePath returns the tracked location inside the per-game store folder
func (t SyncTarget) StorePath(storeRoot string, game *GameFolder) string {
	return filepath.Join(storeRoot, game.ID, filepath.FromSlash(t.RelPath))
}
