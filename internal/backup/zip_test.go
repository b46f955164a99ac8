package backup

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressExtract_RoundTrip(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "metadata.enc"), []byte("cipher"), 0o600))
	require.NoError(t, os.MkdirAll(filepath.Join(src, "attachments"), 0o770))
	require.NoError(t, os.WriteFile(filepath.Join(src, "attachments", "a.jpg"), []byte("img"), 0o660))

	archive := filepath.Join(t.TempDir(), "out.zip")
	require.NoError(t, compressDir(src, archive))

	dst := t.TempDir()
	require.NoError(t, extractArchive(archive, dst))

	data, err := os.ReadFile(filepath.Join(dst, "metadata.enc"))
	require.NoError(t, err)
	assert.Equal(t, []byte("cipher"), data)

	data, err = os.ReadFile(filepath.Join(dst, "attachments", "a.jpg"))
	require.NoError(t, err)
	assert.Equal(t, []byte("img"), data)
}

func TestExtractArchive_RejectsEscapingEntries(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "evil.zip")

	f, err := os.Create(archive)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create("../escape.txt")
	require.NoError(t, err)
	_, err = w.Write([]byte("evil"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	dst := t.TempDir()
	err = extractArchive(archive, dst)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "escapes")

	_, statErr := os.Stat(filepath.Join(filepath.Dir(dst), "escape.txt"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestExtractArchive_MissingFile(t *testing.T) {
	err := extractArchive(filepath.Join(t.TempDir(), "nope.zip"), t.TempDir())
	require.Error(t, err)
}
