package keystore

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/receiptvault/internal/common"
)

// low iteration count to keep derivation fast in tests
const testIterations = 16

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	return NewManager(NewFileSecretStore(t.TempDir()), testIterations)
}

func TestFileSecretStore_SetGetDelete(t *testing.T) {
	s := NewFileSecretStore(t.TempDir())

	_, err := s.Get("missing")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	require.NoError(t, s.Set("name", "value"))
	v, err := s.Get("name")
	require.NoError(t, err)
	assert.Equal(t, "value", v)

	require.NoError(t, s.Delete("name"))
	_, err = s.Get("name")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	// deleting an absent secret is not an error
	require.NoError(t, s.Delete("name"))
}

func TestFileSecretStore_FilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not meaningful on windows")
	}
	dir := t.TempDir()
	s := NewFileSecretStore(dir)
	require.NoError(t, s.Set("k", "v"))

	fi, err := os.Stat(filepath.Join(dir, "secrets.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), fi.Mode().Perm())
}

func TestFileSecretStore_NotHardwareBacked(t *testing.T) {
	s := NewFileSecretStore(t.TempDir())
	assert.False(t, s.HardwareBacked())
	assert.False(t, NewManager(s, testIterations).HardwareBacked())
}

func TestManager_MasterKeyGeneratedOnceAndStable(t *testing.T) {
	m := newTestManager(t)

	k1, err := m.GetOrCreateMasterKey()
	require.NoError(t, err)
	assert.Len(t, k1, 32)

	k2, err := m.GetOrCreateMasterKey()
	require.NoError(t, err)
	assert.Equal(t, k1, k2, "must return the same key on subsequent calls")

	salt, err := m.GetOrCreateSalt()
	require.NoError(t, err)
	assert.Len(t, salt, 32)
	assert.NotEqual(t, k1, salt)
}

func TestManager_KeySurvivesRestart(t *testing.T) {
	dir := t.TempDir()

	m1 := NewManager(NewFileSecretStore(dir), testIterations)
	k1, err := m1.GetOrCreateMasterKey()
	require.NoError(t, err)

	m2 := NewManager(NewFileSecretStore(dir), testIterations)
	k2, err := m2.GetOrCreateMasterKey()
	require.NoError(t, err)

	assert.Equal(t, k1, k2)
}

func TestManager_SealOpenRoundTrip(t *testing.T) {
	m := newTestManager(t)

	sealed, err := m.Seal([]byte("ocr text cached on device"))
	require.NoError(t, err)

	opened, err := m.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, []byte("ocr text cached on device"), opened)
}

func TestManager_DerivationWipesOnlyWorkingCopies(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(NewFileSecretStore(dir), testIterations)

	sealed, err := m.Seal([]byte("state"))
	require.NoError(t, err)

	// the persisted secrets must survive derivation intact
	zeros := make([]byte, 32)
	master, err := m.GetOrCreateMasterKey()
	require.NoError(t, err)
	assert.NotEqual(t, zeros, master)
	salt, err := m.GetOrCreateSalt()
	require.NoError(t, err)
	assert.NotEqual(t, zeros, salt)

	// a fresh manager over the same store derives the same key
	m2 := NewManager(NewFileSecretStore(dir), testIterations)
	opened, err := m2.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, []byte("state"), opened)
}

func TestManager_SealNotReadableOnOtherDevice(t *testing.T) {
	m1 := newTestManager(t)
	m2 := newTestManager(t)

	sealed, err := m1.Seal([]byte("device-local"))
	require.NoError(t, err)

	_, err = m2.Open(sealed)
	assert.Error(t, err)
}

func TestManager_ClearIsIrreversible(t *testing.T) {
	m := newTestManager(t)

	k1, err := m.GetOrCreateMasterKey()
	require.NoError(t, err)
	sealed, err := m.Seal([]byte("state"))
	require.NoError(t, err)

	require.NoError(t, m.Clear())

	k2, err := m.GetOrCreateMasterKey()
	require.NoError(t, err)
	assert.NotEqual(t, k1, k2, "a new key must be generated after reset")

	_, err = m.Open(sealed)
	assert.Error(t, err, "state sealed before reset must be unreadable")
}
