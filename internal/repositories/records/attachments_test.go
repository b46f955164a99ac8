package records

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttachmentStore_SaveAndDelete(t *testing.T) {
	tmp := t.TempDir()
	s := NewAttachmentStore(tmp)

	src := filepath.Join(tmp, "photo.jpg")
	require.NoError(t, os.WriteFile(src, []byte("jpeg-bytes"), 0o660))

	uri, err := s.Save("rec-1", ".jpg", src)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmp, "attachments", "rec-1.jpg"), uri)

	data, err := os.ReadFile(uri)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), data)

	require.NoError(t, s.Delete(uri))
	_, err = os.Stat(uri)
	assert.True(t, os.IsNotExist(err))

	// second delete and empty uri are no-ops
	require.NoError(t, s.Delete(uri))
	require.NoError(t, s.Delete(""))
}

func TestAttachmentStore_CountAndTotalBytes(t *testing.T) {
	tmp := t.TempDir()
	s := NewAttachmentStore(tmp)

	// empty store before any save
	n, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	size, err := s.TotalBytes()
	require.NoError(t, err)
	assert.Equal(t, int64(0), size)

	src := filepath.Join(tmp, "a.png")
	require.NoError(t, os.WriteFile(src, []byte("12345"), 0o660))
	_, err = s.Save("rec-a", ".png", src)
	require.NoError(t, err)
	_, err = s.Save("rec-b", ".png", src)
	require.NoError(t, err)

	n, err = s.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	size, err = s.TotalBytes()
	require.NoError(t, err)
	assert.Equal(t, int64(10), size)
}

func TestAttachmentStore_SaveMissingSource(t *testing.T) {
	s := NewAttachmentStore(t.TempDir())
	_, err := s.Save("rec-1", ".jpg", "/does/not/exist.jpg")
	require.Error(t, err)
}
