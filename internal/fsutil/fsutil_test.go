package fsutil

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func TestValidateDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "plain.txt")
	writeFile(t, file, "x")

	got, err := ValidateDir(dir, false)
	require.NoError(t, err)
	require.Equal(t, dir, got)

	_, err = ValidateDir(filepath.Join(dir, "missing"), false)
	var dirErr *DirectoryError
	require.True(t, errors.As(err, &dirErr))
	require.True(t, errors.Is(err, ErrDirNotFound))

	_, err = ValidateDir(file, true)
	require.True(t, errors.Is(err, ErrNotADirectory))

	_, err = ValidateDir("", false)
	require.True(t, errors.Is(err, ErrDirNotFound))

	created, err := ValidateDir(filepath.Join(dir, "a", "b"), true)
	require.NoError(t, err)
	info, err := os.Stat(created)
	require.NoError(t, err)
	require.True(t, info.IsDir())

	_, err = ValidateDir(filepath.Join(file, "child"), true)
	require.True(t, errors.Is(err, ErrDirCreateFailed))
}

func TestValidateDirExpandsHomeAndRelative(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	require.NoError(t, os.Mkdir(filepath.Join(home, "textures"), 0o755))

	got, err := ValidateDir("~/textures", false)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, "textures"), got)

	t.Chdir(home)
	got, err = ValidateDir("./textures/../textures", false)
	require.NoError(t, err)
	require.True(t, filepath.IsAbs(got))
	require.True(t, strings.HasSuffix(got, "textures"))
}

func TestListFileSet(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.png", "B.PNG", "c.Png", "notes.txt", "png", ".textools-1.tmp"} {
		writeFile(t, filepath.Join(dir, name), "x")
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "folder.png"), 0o755))
	writeFile(t, filepath.Join(dir, "folder.png", "nested.png"), "x")
	require.NoError(t, os.Symlink(filepath.Join(dir, "a.png"), filepath.Join(dir, "link.png")))

	set, err := ListFileSet(dir)
	require.NoError(t, err)
	require.Equal(t, []string{"B.PNG", "a.png", "c.Png", "link.png"}, set.Names())
	require.Equal(t, 4, set.Len())
	require.Equal(t, filepath.Join(dir, "a.png"), set.Path("a.png"))

	empty, err := ListFileSet(t.TempDir())
	require.NoError(t, err)
	require.Equal(t, 0, empty.Len())
	require.Empty(t, empty.Names())
}

func TestFileSetAlgebra(t *testing.T) {
	s := NewFileSet("/src", []string{"a.png", "b.png", "c.png"})
	d := NewFileSet("/dst", []string{"b.png", "c.png", "d.png"})

	require.Equal(t, []string{"b.png", "c.png"}, s.Intersect(d).Names())
	require.Equal(t, "/src", s.Intersect(d).Dir)
	require.Equal(t, []string{"a.png"}, s.Difference(d).Names())
	require.Equal(t, []string{"d.png"}, d.Difference(s).Names())

	var zero FileSet
	require.False(t, zero.Contains("a.png"))
	require.Equal(t, s.Names(), s.Difference(zero).Names())
}

func TestFileSetIsCaseSensitive(t *testing.T) {
	s := NewFileSet("/src", []string{"Tex.png"})
	d := NewFileSet("/dst", []string{"tex.png"})

	require.Equal(t, 0, s.Intersect(d).Len())
	require.Equal(t, []string{"Tex.png"}, s.Difference(d).Names())
}

func TestMatchPrefix(t *testing.T) {
	s := NewFileSet("/d", []string{"BKP_x.png", "x.png", "bkp_y.png", "old_BKP_z.png"})
	require.Equal(t, []string{"BKP_x.png"}, s.MatchPrefix("BKP_").Names())
}

func TestWriteAtomicKeepsOriginalOnFailure(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "tex.png")
	writeFile(t, dest, "original")

	err := WriteAtomic(dest, 0o644, func(w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return errors.New("encoder failed")
	})
	require.Error(t, err)
	require.Equal(t, "original", readFile(t, dest))
	requireNoTempFiles(t, dir)

	require.NoError(t, WriteAtomic(dest, 0o600, func(w io.Writer) error {
		_, err := w.Write([]byte("updated"))
		return err
	}))
	require.Equal(t, "updated", readFile(t, dest))
	info, err := os.Stat(dest)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	requireNoTempFiles(t, dir)
}

func TestCopyFile(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeFile(t, filepath.Join(src, "a.png"), "new")
	writeFile(t, filepath.Join(dst, "a.png"), "old")
	past := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, os.Chtimes(filepath.Join(src, "a.png"), past, past))

	err := CopyFile(filepath.Join(src, "a.png"), filepath.Join(dst, "a.png"), false)
	require.True(t, errors.Is(err, ErrDestinationExists))
	require.Equal(t, "old", readFile(t, filepath.Join(dst, "a.png")))

	require.NoError(t, CopyFile(filepath.Join(src, "a.png"), filepath.Join(dst, "a.png"), true))
	require.Equal(t, "new", readFile(t, filepath.Join(dst, "a.png")))
	require.Equal(t, "new", readFile(t, filepath.Join(src, "a.png")))

	require.NoError(t, CopyFile(filepath.Join(src, "a.png"), filepath.Join(dst, "b.png"), false))
	require.Equal(t, "new", readFile(t, filepath.Join(dst, "b.png")))
	info, err := os.Stat(filepath.Join(dst, "b.png"))
	require.NoError(t, err)
	require.True(t, info.ModTime().Equal(past))

	require.Error(t, CopyFile(filepath.Join(src, "missing.png"), filepath.Join(dst, "c.png"), false))
	requireNoTempFiles(t, dst)
}

func TestMoveFile(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeFile(t, filepath.Join(src, "a.png"), "alpha")

	require.NoError(t, MoveFile(filepath.Join(src, "a.png"), filepath.Join(dst, "a.png")))
	require.NoFileExists(t, filepath.Join(src, "a.png"))
	require.Equal(t, "alpha", readFile(t, filepath.Join(dst, "a.png")))

	err := MoveFile(filepath.Join(src, "a.png"), filepath.Join(dst, "again.png"))
	require.Error(t, err)
}

func TestMoveFileReplacesDestination(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeFile(t, filepath.Join(src, "a.png"), "new")
	writeFile(t, filepath.Join(dst, "a.png"), "old")

	require.NoError(t, MoveFile(filepath.Join(src, "a.png"), filepath.Join(dst, "a.png")))
	require.NoFileExists(t, filepath.Join(src, "a.png"))
	require.Equal(t, "new", readFile(t, filepath.Join(dst, "a.png")))
}

// crossDevice makes every rename fail the way it does between filesystems.
func crossDevice(t *testing.T) {
	t.Helper()
	prev := rename
	rename = func(oldpath, newpath string) error {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: syscall.EXDEV}
	}
	t.Cleanup(func() { rename = prev })
}

func TestMoveFileAcrossDevices(t *testing.T) {
	crossDevice(t)
	src := t.TempDir()
	dst := t.TempDir()
	writeFile(t, filepath.Join(src, "a.png"), "new")
	writeFile(t, filepath.Join(dst, "a.png"), "old")
	past := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, os.Chtimes(filepath.Join(src, "a.png"), past, past))

	require.NoError(t, MoveFile(filepath.Join(src, "a.png"), filepath.Join(dst, "a.png")))
	require.NoFileExists(t, filepath.Join(src, "a.png"))
	require.Equal(t, "new", readFile(t, filepath.Join(dst, "a.png")))
	info, err := os.Stat(filepath.Join(dst, "a.png"))
	require.NoError(t, err)
	require.True(t, info.ModTime().Equal(past))
	requireNoTempFiles(t, dst)
}

func TestMoveFileKeepsDestinationWhenSourceStays(t *testing.T) {
	crossDevice(t)
	prev := remove
	remove = func(string) error { return os.ErrPermission }
	t.Cleanup(func() { remove = prev })

	src := t.TempDir()
	dst := t.TempDir()
	writeFile(t, filepath.Join(src, "a.png"), "new")
	writeFile(t, filepath.Join(dst, "a.png"), "old")

	err := MoveFile(filepath.Join(src, "a.png"), filepath.Join(dst, "a.png"))
	require.True(t, errors.Is(err, os.ErrPermission))
	require.Equal(t, "new", readFile(t, filepath.Join(src, "a.png")))
	require.Equal(t, "old", readFile(t, filepath.Join(dst, "a.png")))
	requireNoTempFiles(t, dst)
}

func TestMoveFileOnlyCopiesAcrossDevices(t *testing.T) {
	prev := rename
	rename = func(oldpath, newpath string) error {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: syscall.EACCES}
	}
	t.Cleanup(func() { rename = prev })

	src := t.TempDir()
	dst := t.TempDir()
	writeFile(t, filepath.Join(src, "a.png"), "new")
	writeFile(t, filepath.Join(dst, "a.png"), "old")

	err := MoveFile(filepath.Join(src, "a.png"), filepath.Join(dst, "a.png"))
	require.True(t, errors.Is(err, syscall.EACCES))
	require.Equal(t, "new", readFile(t, filepath.Join(src, "a.png")))
	require.Equal(t, "old", readFile(t, filepath.Join(dst, "a.png")))
	requireNoTempFiles(t, dst)
}

func TestReplaceFileKeepsDestinationOnFailure(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "tex.png")
	require.NoError(t, os.Mkdir(dest, 0o755))

	err := WriteAtomic(dest, 0o644, func(w io.Writer) error {
		_, err := w.Write([]byte("data"))
		return err
	})
	require.Error(t, err)
	info, err := os.Stat(dest)
	require.NoError(t, err)
	require.True(t, info.IsDir())
	requireNoTempFiles(t, dir)
}

func TestRemoveFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.png"), "x")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "d.png"), 0o755))

	require.NoError(t, RemoveFile(filepath.Join(dir, "a.png")))
	require.NoFileExists(t, filepath.Join(dir, "a.png"))
	require.True(t, errors.Is(RemoveFile(filepath.Join(dir, "d.png")), ErrNotRegular))
	require.Error(t, RemoveFile(filepath.Join(dir, "a.png")))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func requireNoTempFiles(t *testing.T, dir string) {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, ".textools-*.tmp"))
	require.NoError(t, err)
	require.Empty(t, matches)
}
