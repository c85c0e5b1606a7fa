package platform

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/multierr"
)

// ErrSourceNotRemoved is returned by MoveFile when the destination was
// written by the copy fallback but the source could not be deleted.
var ErrSourceNotRemoved = errors.New("source not removed after copy")

// Replaced in tests to force the copy fallback.
var (
	rename = os.Rename
	remove = os.Remove
)

// MoveFile moves src to dst, replacing dst if it exists. It tries an atomic
// rename first. When that fails (for example across filesystems) it copies
// src into a temp file beside dst, renames that over dst and removes src.
// A failed copy leaves src and any existing dst untouched.
func MoveFile(src, dst string) error {
	renameErr := rename(src, dst)
	if renameErr == nil {
		return nil
	}
	renameErr = fmt.Errorf("rename: %w", renameErr)

	in, err := os.Open(src)
	if err != nil {
		return renameErr
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return multierr.Append(renameErr, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*")
	if err != nil {
		return multierr.Append(renameErr, fmt.Errorf("creating temp file beside %s: %w", dst, err))
	}
	tmpPath := tmp.Name()

	_, copyErr := io.Copy(tmp, in)
	copyErr = multierr.Combine(copyErr, tmp.Close(), Chmod(tmpPath, info.Mode().Perm()))
	if copyErr == nil {
		if err := os.Rename(tmpPath, dst); err != nil {
			copyErr = fmt.Errorf("replacing %s: %w", dst, err)
		}
	}
	if copyErr != nil {
		err := fmt.Errorf("copying %s to %s: %w", src, dst, copyErr)
		if rmErr := os.Remove(tmpPath); rmErr != nil && !os.IsNotExist(rmErr) {
			err = multierr.Append(err, fmt.Errorf("removing %s: %w", tmpPath, rmErr))
		}
		return multierr.Append(renameErr, err)
	}

	in.Close()
	if err := remove(src); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrSourceNotRemoved, src, err)
	}
	return nil
}

// Exists reports whether path exists without following a final symlink.
func Exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}
