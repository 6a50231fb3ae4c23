// Package link establishes filesystem links between a game's live data
// locations and their tracked locations in the shared store. Directory
// targets become directory links (junction on Windows, symlink elsewhere);
// file targets become hard links. Every operation is idempotent: running
// it twice with identical inputs produces the same filesystem end-state
// and never duplicates or loses data.
package link

import (
	"io"
	"os"
	"path/filepath"

	"github.com/arthur-debert/savesync/pkg/errors"
	"github.com/arthur-debert/savesync/pkg/logging"
	"github.com/arthur-debert/savesync/pkg/types"
)

// Result reports what EnsureLink did
type Result string

const (
	// Linked means a new link was created
	Linked Result = "linked"

	// Skipped means the link already existed, or there was nothing to
	// link yet (file targets the game has not populated)
	Skipped Result = "skipped"
)

// EnsureLink makes linkPath an alias of targetPath. Real data found at
// linkPath is merged into targetPath before the link is created.
func EnsureLink(linkPath, targetPath string, kind types.TargetKind) (Result, error) {
	switch kind {
	case types.TargetDir:
		return ensureDirLink(linkPath, targetPath)
	case types.TargetFile:
		return ensureFileLink(linkPath, targetPath)
	default:
		return Skipped, errors.Newf(errors.ErrInvalidInput, "unknown target kind %q", kind)
	}
}

func ensureDirLink(linkPath, targetPath string) (Result, error) {
	logger := logging.GetLogger("link")

	if info, err := os.Lstat(linkPath); err == nil {
		if info.Mode()&os.ModeSymlink != 0 {
			logger.Debug().Str("link", linkPath).Msg("Already a link point, skipping")
			return Skipped, nil
		}
		if !info.IsDir() {
			return Skipped, errors.New(errors.ErrLinkCreate, "link path exists and is not a directory").
				WithDetail("link", linkPath)
		}
		// live data present; fold it into the store before linking
		if err := mergeDir(linkPath, targetPath); err != nil {
			return Skipped, err
		}
		if err := os.Remove(linkPath); err != nil {
			return Skipped, errors.Wrap(err, errors.ErrLinkCreate, "cannot remove merged source directory").
				WithDetail("link", linkPath)
		}
	}

	if err := os.MkdirAll(targetPath, 0755); err != nil {
		return Skipped, errors.Wrap(err, errors.ErrDirCreate, "cannot create store directory").
			WithDetail("target", targetPath)
	}
	if err := os.MkdirAll(filepath.Dir(linkPath), 0755); err != nil {
		return Skipped, errors.Wrap(err, errors.ErrDirCreate, "cannot create link parent").
			WithDetail("link", linkPath)
	}

	if err := os.Symlink(targetPath, linkPath); err != nil {
		return Skipped, errors.Wrap(err, errors.ErrLinkCreate, "cannot create directory link").
			WithDetail("link", linkPath).
			WithDetail("target", targetPath)
	}

	logger.Info().Str("link", linkPath).Str("target", targetPath).Msg("Created directory link")
	return Linked, nil
}

func ensureFileLink(linkPath, targetPath string) (Result, error) {
	logger := logging.GetLogger("link")

	linkInfo, linkErr := os.Lstat(linkPath)
	targetInfo, targetErr := os.Stat(targetPath)

	if linkErr == nil && targetErr == nil && os.SameFile(linkInfo, targetInfo) {
		logger.Debug().Str("link", linkPath).Msg("Already hard-linked, skipping")
		return Skipped, nil
	}

	// Nothing on either side: the game has not written the file yet.
	// Acceptable; a later setup run will pick it up.
	if os.IsNotExist(linkErr) && os.IsNotExist(targetErr) {
		logger.Debug().Str("link", linkPath).Msg("No data to link yet, skipping")
		return Skipped, nil
	}

	// Live data wins over whatever the store holds
	if linkErr == nil {
		if err := moveFile(linkPath, targetPath); err != nil {
			return Skipped, err
		}
	}

	if err := os.MkdirAll(filepath.Dir(linkPath), 0755); err != nil {
		return Skipped, errors.Wrap(err, errors.ErrDirCreate, "cannot create link parent").
			WithDetail("link", linkPath)
	}

	if err := os.Link(targetPath, linkPath); err != nil {
		return Skipped, errors.Wrap(err, errors.ErrLinkCreate, "cannot create hard link").
			WithDetail("link", linkPath).
			WithDetail("target", targetPath)
	}

	logger.Info().Str("link", linkPath).Str("target", targetPath).Msg("Created file link")
	return Linked, nil
}

// mergeDir moves every entry of src into dst, file by file. Existing
// files in dst are replaced by the live copy from src.
func mergeDir(src, dst string) error {
	if err := os.MkdirAll(dst, 0755); err != nil {
		return errors.Wrap(err, errors.ErrDirCreate, "cannot create merge destination").
			WithDetail("target", dst)
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return errors.Wrap(err, errors.ErrFileAccess, "cannot read merge source").
			WithDetail("link", src)
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		if entry.IsDir() {
			if err := mergeDir(srcPath, dstPath); err != nil {
				return err
			}
			if err := os.Remove(srcPath); err != nil {
				return errors.Wrap(err, errors.ErrFileAccess, "cannot remove merged subdirectory").
					WithDetail("link", srcPath)
			}
			continue
		}

		if err := moveFile(srcPath, dstPath); err != nil {
			return err
		}
	}

	return nil
}

// moveFile relocates src to dst, replacing dst if present. Falls back to
// copy-and-delete when rename fails (cross-volume moves).
func moveFile(src, dst string) error {
	if _, err := os.Stat(dst); err == nil {
		if err := os.Remove(dst); err != nil {
			return errors.Wrap(err, errors.ErrFileAccess, "cannot replace store file").
				WithDetail("target", dst)
		}
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return errors.Wrap(err, errors.ErrDirCreate, "cannot create store parent").
			WithDetail("target", dst)
	}

	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	if err := copyFile(src, dst); err != nil {
		return err
	}
	if err := os.Remove(src); err != nil {
		return errors.Wrap(err, errors.ErrFileAccess, "cannot remove moved source file").
			WithDetail("link", src)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrap(err, errors.ErrFileAccess, "cannot open source file").
			WithDetail("link", src)
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return errors.Wrap(err, errors.ErrFileCreate, "cannot create store file").
			WithDetail("target", dst)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return errors.Wrap(err, errors.ErrFileWrite, "cannot copy file content").
			WithDetail("target", dst)
	}
	return out.Close()
}
