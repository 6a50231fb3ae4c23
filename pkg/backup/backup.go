// Package backup creates pre-overwrite snapshots of the shared store.
// A snapshot is taken exactly once, immediately before a remote-wins
// conflict resolution discards local state. Snapshots are write-once and
// never pruned by savesync; retention is the operator's responsibility.
package backup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/arthur-debert/savesync/pkg/errors"
	"github.com/arthur-debert/savesync/pkg/logging"
)

// timestampLayout names snapshot directories sortably
const timestampLayout = "20060102-150405"

// Snapshot copies the tracked data under storeRoot into a fresh
// timestamped directory below backupsDir and returns its path. The
// store's .git directory is not part of the tracked data and is skipped.
func Snapshot(storeRoot, backupsDir string) (string, error) {
	logger := logging.GetLogger("backup")

	stamp := time.Now().Format(timestampLayout)
	dest := filepath.Join(backupsDir, stamp)
	for i := 1; ; i++ {
		if _, err := os.Stat(dest); os.IsNotExist(err) {
			break
		}
		dest = filepath.Join(backupsDir, fmt.Sprintf("%s-%d", stamp, i))
	}

	if err := os.MkdirAll(dest, 0755); err != nil {
		return "", errors.Wrap(err, errors.ErrBackupFailed, "cannot create snapshot directory").
			WithDetail("path", dest)
	}

	err := filepath.WalkDir(storeRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, rerr := filepath.Rel(storeRoot, path)
		if rerr != nil {
			return rerr
		}
		if rel == "." {
			return nil
		}
		if d.IsDir() && d.Name() == ".git" {
			return filepath.SkipDir
		}

		destPath := filepath.Join(dest, rel)
		if d.IsDir() {
			return os.MkdirAll(destPath, 0755)
		}
		return copyFile(path, destPath)
	})
	if err != nil {
		return "", errors.Wrap(err, errors.ErrBackupFailed, "snapshot copy failed").
			WithDetail("store", storeRoot).
			WithDetail("path", dest)
	}

	logger.Info().Str("snapshot", dest).Msg("Created backup snapshot")
	return dest, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
