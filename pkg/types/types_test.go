package types

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSyncTarget(t *testing.T) {
	tests := []struct {
		name     string
		entry    string
		wantPath string
		wantKind TargetKind
	}{
		{"directory entry", "/replay", "replay", TargetDir},
		{"nested directory entry", "/data/score", "data/score", TargetDir},
		{"file entry", "score.dat", "score.dat", TargetFile},
		{"file with extension only", "th07.cfg", "th07.cfg", TargetFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseSyncTarget(tt.entry)
			assert.Equal(t, tt.wantPath, got.RelPath)
			assert.Equal(t, tt.wantKind, got.Kind)
		})
	}
}

func TestSyncTargetPaths(t *testing.T) {
	game := &GameFolder{
		Name:       "th07",
		Path:       filepath.Join("/games", "th07"),
		Executable: filepath.Join("/games", "th07", "th07.exe"),
		ID:         "th07",
	}

	target := ParseSyncTarget("/replay")
	assert.Equal(t, filepath.Join("/games", "th07", "replay"), target.LinkPath(game))
	assert.Equal(t, filepath.Join("/store", "th07", "replay"), target.StorePath("/store", game))

	assert.Equal(t, "th07.exe", game.ExecutableName())
}
