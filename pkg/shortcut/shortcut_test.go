package shortcut

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/savesync/pkg/types"
)

func testGame() *types.GameFolder {
	return &types.GameFolder{
		Name:       "Perfect Cherry Blossom",
		Path:       "/games/pcb",
		Executable: "/games/pcb/th07.exe",
		ID:         "th07",
	}
}

func TestCreateDesktopEntry(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, create(dir, testGame(), "/usr/local/bin/savesync", "linux"))

	data, err := os.ReadFile(filepath.Join(dir, "Perfect Cherry Blossom.desktop"))
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "[Desktop Entry]")
	assert.Contains(t, content, `Exec="/usr/local/bin/savesync" launch "Perfect Cherry Blossom"`)
	assert.Contains(t, content, "Categories=Game;")
}

func TestCreateWindowsBatchStub(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, create(dir, testGame(), `C:\Tools\savesync.exe`, "windows"))

	data, err := os.ReadFile(filepath.Join(dir, "Perfect Cherry Blossom.bat"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"C:\Tools\savesync.exe" launch "Perfect Cherry Blossom"`)
}

func TestCreateMakesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "shortcuts")

	require.NoError(t, create(dir, testGame(), "/usr/local/bin/savesync", "linux"))

	_, err := os.Stat(dir)
	assert.NoError(t, err)
}
