package fsutil

import (
	"io"
	"os"
	"path/filepath"
	"syscall"

	"gitlab.com/tozd/go/errors"
)

// ErrDestinationExists is returned by CopyFile when overwrite is false and the
// destination name is already taken.
var ErrDestinationExists = errors.New("destination already exists")

const tempPattern = ".textools-*.tmp"

// WriteAtomic streams write into a temporary file in dest's directory and
// renames it over dest once it is fully flushed. A failure at any step leaves
// dest untouched.
func WriteAtomic(dest string, mode os.FileMode, write func(w io.Writer) error) error {
	tmpName, err := writeTemp(filepath.Dir(dest), mode, write)
	if err != nil {
		return err
	}
	defer os.Remove(tmpName)

	return ReplaceFile(tmpName, dest)
}

func writeTemp(dir string, mode os.FileMode, write func(w io.Writer) error) (string, error) {
	tmpFile, err := os.CreateTemp(dir, tempPattern)
	if err != nil {
		return "", errors.Errorf("creating temp file: %w", err)
	}

	fail := func(err error) (string, error) {
		_ = tmpFile.Close()
		_ = os.Remove(tmpFile.Name())
		return "", err
	}

	if err := tmpFile.Chmod(mode); err != nil {
		return fail(errors.Errorf("chmod temp file: %w", err))
	}
	if err := write(tmpFile); err != nil {
		return fail(err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fail(errors.Errorf("sync temp file: %w", err))
	}
	if err := tmpFile.Close(); err != nil {
		_ = os.Remove(tmpFile.Name())
		return "", errors.Errorf("close temp file: %w", err)
	}
	return tmpFile.Name(), nil
}

// ReplaceFile renames tmpPath over destPath. On failure destPath is left as
// it was.
func ReplaceFile(tmpPath, destPath string) error {
	if err := os.Rename(tmpPath, destPath); err != nil {
		return errors.Errorf("replacing %s: %w", destPath, err)
	}
	return nil
}

// CopyFile copies src to dst, keeping the source's mode and modification time.
// With overwrite set an existing dst is atomically replaced. Without it the
// copy is published with a hard link, which fails instead of clobbering a file
// that appeared in the meantime; such collisions return ErrDestinationExists.
func CopyFile(src, dst string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Lstat(dst); err == nil {
			return errors.Errorf("%s: %w", dst, ErrDestinationExists)
		}
	}

	tmpName, err := copyToTemp(src, filepath.Dir(dst))
	if err != nil {
		return err
	}
	defer os.Remove(tmpName)

	if overwrite {
		return ReplaceFile(tmpName, dst)
	}
	return publishExclusive(tmpName, dst)
}

// copyToTemp copies src into a new temp file in dir with the source's mode and
// modification time.
func copyToTemp(src, dir string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", errors.Errorf("opening source: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return "", errors.Errorf("stat source: %w", err)
	}

	tmpName, err := writeTemp(dir, info.Mode().Perm(), func(w io.Writer) error {
		if _, err := io.Copy(w, in); err != nil {
			return errors.Errorf("copying data: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if err := os.Chtimes(tmpName, info.ModTime(), info.ModTime()); err != nil {
		_ = os.Remove(tmpName)
		return "", errors.Errorf("setting times: %w", err)
	}
	return tmpName, nil
}

func publishExclusive(tmpName, dst string) error {
	linkErr := os.Link(tmpName, dst)
	if linkErr == nil {
		return nil
	}
	if os.IsExist(linkErr) {
		return errors.Errorf("%s: %w", dst, ErrDestinationExists)
	}

	// no hard links on this filesystem: fall back to an exclusive create
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return errors.Errorf("%s: %w", dst, ErrDestinationExists)
		}
		return errors.Errorf("creating %s: %w", dst, err)
	}
	in, err := os.Open(tmpName)
	if err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return errors.Errorf("reopening temp file: %w", err)
	}
	defer in.Close()

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return errors.Errorf("copying data: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return errors.Errorf("closing %s: %w", dst, err)
	}
	return nil
}

// Swapped out by tests to reach the cross-device path.
var (
	rename = os.Rename
	remove = os.Remove
)

// MoveFile renames src to dst, replacing an existing dst. Across devices the
// file is staged in a temp file next to dst, the source removed, and only then
// the temp renamed over dst; if the source cannot be removed dst is never
// touched.
func MoveFile(src, dst string) error {
	renameErr := rename(src, dst)
	if renameErr == nil {
		return nil
	}
	if !errors.Is(renameErr, syscall.EXDEV) {
		return errors.Errorf("moving %s: %w", src, renameErr)
	}

	tmpName, err := copyToTemp(src, filepath.Dir(dst))
	if err != nil {
		return errors.Errorf("moving %s across devices: %w", src, err)
	}
	if err := remove(src); err != nil {
		_ = os.Remove(tmpName)
		return errors.Errorf("removing moved source %s: %w", src, err)
	}
	if err := ReplaceFile(tmpName, dst); err != nil {
		// the source is gone; put it back before giving up on the move
		if restoreErr := CopyFile(tmpName, src, false); restoreErr != nil {
			return errors.Errorf("moving %s (contents kept in %s): %w", src, tmpName, err)
		}
		_ = os.Remove(tmpName)
		return errors.Errorf("moving %s: %w", src, err)
	}
	return nil
}

// RemoveFile deletes path. It never touches directories.
func RemoveFile(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		return errors.Errorf("removing %s: %w", path, err)
	}
	if info.IsDir() {
		return errors.Errorf("removing %s: %w", path, ErrNotRegular)
	}
	if err := os.Remove(path); err != nil {
		return errors.Errorf("removing %s: %w", path, err)
	}
	return nil
}

// ErrNotRegular is returned by RemoveFile for directories.
var ErrNotRegular = errors.New("not a regular file")
