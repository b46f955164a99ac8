package filex

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsureDir_CreatesAndIsIdempotent(t *testing.T) {
	tmp := t.TempDir()
	want := filepath.Join(tmp, "a", "b")

	first, err := EnsureDir(want)
	require.NoError(t, err)
	require.Equal(t, want, first)

	second, err := EnsureDir(want)
	require.NoError(t, err)
	require.Equal(t, first, second)

	fi, err := os.Stat(want)
	require.NoError(t, err)
	require.True(t, fi.IsDir())
}

func TestEnsureDir_FailsIfFileWithSameNameExists(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "attachments")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o660))

	_, err := EnsureDir(path)
	require.Error(t, err, "should fail when a file exists with the same name")
}

func TestEnsureSubDir(t *testing.T) {
	tmp := t.TempDir()

	got, err := EnsureSubDir(tmp, "attachments")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(tmp, "attachments"), got)
}

func TestMakeStagingDir_FreshAndLabelled(t *testing.T) {
	d1, err := MakeStagingDir("export")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(d1) })

	d2, err := MakeStagingDir("export")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(d2) })

	require.NotEqual(t, d1, d2)
	require.True(t, strings.Contains(filepath.Base(d1), "export"))

	fi, err := os.Stat(d1)
	require.NoError(t, err)
	require.True(t, fi.IsDir())
}

func TestCopyFile_CreatesParentAndCopiesContent(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "src.jpg")
	dst := filepath.Join(tmp, "nested", "dst.jpg")
	require.NoError(t, os.WriteFile(src, []byte("image-bytes"), 0o660))

	require.NoError(t, CopyFile(src, dst))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, []byte("image-bytes"), got)
}

func TestCopyFile_MissingSource(t *testing.T) {
	tmp := t.TempDir()
	err := CopyFile(filepath.Join(tmp, "nope"), filepath.Join(tmp, "dst"))
	require.Error(t, err)
}

func TestDirSize_SumsRegularFiles(t *testing.T) {
	tmp := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmp, "a"), []byte("12345"), 0o660))
	sub, err := EnsureSubDir(tmp, "sub")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(sub, "b"), []byte("123"), 0o660))

	size, err := DirSize(tmp)
	require.NoError(t, err)
	require.Equal(t, int64(8), size)
}

func TestDirSize_MissingDirIsZero(t *testing.T) {
	size, err := DirSize(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	require.Equal(t, int64(0), size)
}

func TestFileSize(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "f")
	require.NoError(t, os.WriteFile(path, []byte("1234"), 0o660))

	size, err := FileSize(path)
	require.NoError(t, err)
	require.Equal(t, int64(4), size)

	size, err = FileSize(filepath.Join(tmp, "missing"))
	require.NoError(t, err)
	require.Equal(t, int64(0), size)
}
