package backup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotCopiesTrackedData(t *testing.T) {
	store := t.TempDir()
	backups := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(store, "th07", "replay"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(store, "th07", "score.dat"), []byte("scores"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(store, "th07", "replay", "rpy01.rpy"), []byte("replay"), 0644))

	// repository internals must not be part of the snapshot
	require.NoError(t, os.MkdirAll(filepath.Join(store, ".git", "objects"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(store, ".git", "HEAD"), []byte("ref"), 0644))

	dest, err := Snapshot(store, backups)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dest, "th07", "score.dat"))
	require.NoError(t, err)
	assert.Equal(t, "scores", string(data))

	data, err = os.ReadFile(filepath.Join(dest, "th07", "replay", "rpy01.rpy"))
	require.NoError(t, err)
	assert.Equal(t, "replay", string(data))

	_, err = os.Stat(filepath.Join(dest, ".git"))
	assert.True(t, os.IsNotExist(err))
}

func TestSnapshotLeavesSourceIntact(t *testing.T) {
	store := t.TempDir()
	backups := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(store, "score.dat"), []byte("scores"), 0644))

	_, err := Snapshot(store, backups)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(store, "score.dat"))
	require.NoError(t, err)
	assert.Equal(t, "scores", string(data))
}

func TestConsecutiveSnapshotsNeverCollide(t *testing.T) {
	store := t.TempDir()
	backups := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(store, "score.dat"), []byte("scores"), 0644))

	first, err := Snapshot(store, backups)
	require.NoError(t, err)
	second, err := Snapshot(store, backups)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)

	entries, err := os.ReadDir(backups)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
