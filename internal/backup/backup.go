package backup

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"io/fs"
	"os"

	"github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/pkg/fileutil"
)

// Suffix is appended to a config path to form its sidecar backup path.
const Suffix = ".bak"

// Sidecar describes the backup copy of a config file.
type Sidecar struct {
	// Path is the backup location (original path + Suffix).
	Path string

	// Created is true when this call produced the copy.
	Created bool

	// SHA256 is the hex digest of the backed-up content, set when Created.
	SHA256 string
}

// PathFor returns the sidecar backup path for a config file.
func PathFor(path string) string {
	return path + Suffix
}

// EnsureSidecar copies path to its sidecar location unless a sidecar
// already exists or path itself does not exist yet. The copy keeps the
// original file mode.
func EnsureSidecar(path string) (*Sidecar, error) {
	sidecar := &Sidecar{Path: PathFor(path)}

	exists, err := fileutil.Exists(sidecar.Path)
	if err != nil {
		return nil, err
	}
	if exists {
		return sidecar, nil
	}

	hash, err := copyFile(path, sidecar.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// Nothing to back up on first creation
			return sidecar, nil
		}
		return nil, errors.Wrapf(err, "backing up %s", path)
	}

	sidecar.Created = true
	sidecar.SHA256 = hash
	return sidecar, nil
}

// Restore copies the sidecar of path back over path.
func Restore(path string) error {
	src := PathFor(path)
	data, err := os.ReadFile(src)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrapf(errors.ErrNotFound, "no backup at %s", src)
		}
		return errors.Wrap(err, "reading backup")
	}

	info, err := os.Stat(src)
	if err != nil {
		return errors.Wrap(err, "stat backup")
	}

	return errors.Wrap(fileutil.AtomicWriteFile(path, data, info.Mode().Perm()), "restoring backup")
}

// copyFile copies src to dst, preserving mode, and returns the content hash.
// dst is created exclusively so a concurrent sidecar is never overwritten.
func copyFile(src, dst string) (string, error) {
	srcFile, err := os.Open(src)
	if err != nil {
		return "", errors.Wrap(err, "opening source file")
	}
	defer srcFile.Close()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return "", errors.Wrap(err, "stat source file")
	}
	mode := srcInfo.Mode().Perm()

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, mode)
	if err != nil {
		return "", errors.Wrap(err, "creating backup file")
	}

	h := sha256.New()
	if _, err := io.Copy(io.MultiWriter(dstFile, h), srcFile); err != nil {
		dstFile.Close()
		return "", errors.Wrap(err, "copying file")
	}

	if err := dstFile.Close(); err != nil {
		return "", errors.Wrap(err, "closing backup file")
	}

	// OpenFile honours umask; apply the source mode explicitly
	if err := os.Chmod(dst, mode); err != nil {
		return "", errors.Wrap(err, "setting permissions")
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
