package fsutil

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

// TexturePattern selects the files every tool works on. Names are lowercased
// before matching, so the extension check is case-insensitive.
const TexturePattern = "*.png"

// FileSet is the set of qualifying file names found directly inside one
// directory. Names are compared byte for byte, so "A.png" and "a.png" are
// different members even on case-insensitive filesystems.
type FileSet struct {
	Dir   string
	names []string
	index map[string]struct{}
}

// NewFileSet builds a set rooted at dir from names. Duplicates are dropped.
func NewFileSet(dir string, names []string) FileSet {
	fs := FileSet{Dir: dir, index: make(map[string]struct{}, len(names))}
	for _, name := range names {
		if _, ok := fs.index[name]; ok {
			continue
		}
		fs.index[name] = struct{}{}
		fs.names = append(fs.names, name)
	}
	slices.Sort(fs.names)
	return fs
}

// ListFileSet enumerates dir once, non-recursively, keeping regular files (or
// symlinks to regular files) whose lowercased name matches TexturePattern.
func ListFileSet(dir string) (FileSet, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return FileSet{}, errors.Errorf("listing %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		ok, err := IsTextureName(entry.Name())
		if err != nil {
			return FileSet{}, err
		}
		if !ok || !isRegular(dir, entry) {
			continue
		}
		names = append(names, entry.Name())
	}
	return NewFileSet(dir, names), nil
}

// IsTextureName reports whether name has the supported extension.
func IsTextureName(name string) (bool, error) {
	return doublestar.Match(TexturePattern, strings.ToLower(name))
}

func isRegular(dir string, entry os.DirEntry) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, entry.Name()))
	return err == nil && info.Mode().IsRegular()
}

// Names returns the members in sorted order.
func (s FileSet) Names() []string {
	return slices.Clone(s.names)
}

func (s FileSet) Len() int {
	return len(s.names)
}

func (s FileSet) Contains(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Path joins name onto the set's directory.
func (s FileSet) Path(name string) string {
	return filepath.Join(s.Dir, name)
}

// Intersect returns the names present in both s and other, rooted at s.Dir.
func (s FileSet) Intersect(other FileSet) FileSet {
	return s.Filter(other.Contains)
}

// Difference returns the names in s that other does not contain.
func (s FileSet) Difference(other FileSet) FileSet {
	return s.Filter(func(name string) bool { return !other.Contains(name) })
}

// Filter keeps the names for which keep returns true.
func (s FileSet) Filter(keep func(name string) bool) FileSet {
	kept := make([]string, 0, len(s.names))
	for _, name := range s.names {
		if keep(name) {
			kept = append(kept, name)
		}
	}
	return NewFileSet(s.Dir, kept)
}

// MatchPrefix keeps the names that start with prefix. The comparison is case-sensitive.
func (s FileSet) MatchPrefix(prefix string) FileSet {
	return s.Filter(func(name string) bool { return strings.HasPrefix(name, prefix) })
}
