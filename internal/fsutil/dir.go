// Package fsutil holds the filesystem plumbing shared by every tool: directory
// validation, non-recursive file-set enumeration and atomic file writes.
package fsutil

import (
	"os"
	"path/filepath"
	"strings"

	"gitlab.com/tozd/go/errors"
)

var (
	ErrDirNotFound     = errors.New("directory does not exist")
	ErrNotADirectory   = errors.New("path is not a directory")
	ErrDirCreateFailed = errors.New("could not create directory")
)

// DirectoryError reports why a directory argument cannot be used. Kind is one
// of ErrDirNotFound, ErrNotADirectory or ErrDirCreateFailed.
type DirectoryError struct {
	Kind error
	Path string
	Err  error
}

func (e *DirectoryError) Error() string {
	if e.Err != nil {
		return e.Kind.Error() + ": " + e.Path + ": " + e.Err.Error()
	}
	return e.Kind.Error() + ": " + e.Path
}

func (e *DirectoryError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// ValidateDir resolves path to an absolute, cleaned directory path. A leading
// "~" is expanded to the user's home directory. When createIfMissing is set a
// missing directory tree is created; otherwise the filesystem is only read.
func ValidateDir(path string, createIfMissing bool) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", &DirectoryError{Kind: ErrDirNotFound, Path: path}
	}

	expanded, err := expandHome(path)
	if err != nil {
		return "", &DirectoryError{Kind: ErrDirNotFound, Path: path, Err: err}
	}

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", &DirectoryError{Kind: ErrDirNotFound, Path: path, Err: err}
	}

	info, err := os.Stat(abs)
	if err == nil {
		if !info.IsDir() {
			return "", &DirectoryError{Kind: ErrNotADirectory, Path: abs}
		}
		return abs, nil
	}

	if !createIfMissing {
		if os.IsNotExist(err) {
			err = nil
		}
		return "", &DirectoryError{Kind: ErrDirNotFound, Path: abs, Err: err}
	}
	if mkErr := os.MkdirAll(abs, 0o755); mkErr != nil {
		return "", &DirectoryError{Kind: ErrDirCreateFailed, Path: abs, Err: mkErr}
	}
	return abs, nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, "~"+string(filepath.Separator)) {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}
