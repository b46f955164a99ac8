package keystore

import (
	"encoding/hex"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/receiptvault/internal/common"
	"github.com/dmitrijs2005/receiptvault/internal/cryptox"
)

const (
	secretMasterKey  = "device_master_key"
	secretDeviceSalt = "device_salt"
)

// Manager owns the device master key and device salt lifecycle on top of a
// SecretStore, and exposes the implicit encryption path derived from them.
//
// The device key is a separate trust domain from any user-supplied export
// password: it never leaves the device and is never used for portable
// archives.
type Manager struct {
	store      SecretStore
	iterations int

	mu        sync.Mutex
	deviceKey []byte // cached derived key, populated lazily
}

// NewManager wraps the given secret store. iterations is the key derivation
// work factor; pass 0 for the default.
func NewManager(store SecretStore, iterations int) *Manager {
	return &Manager{store: store, iterations: iterations}
}

// GetOrCreateMasterKey returns the 32-byte device master key, generating
// and persisting it on first use.
func (m *Manager) GetOrCreateMasterKey() ([]byte, error) {
	return m.getOrCreate(secretMasterKey)
}

// GetOrCreateSalt returns the 32-byte device salt, generating and
// persisting it on first use.
func (m *Manager) GetOrCreateSalt() ([]byte, error) {
	return m.getOrCreate(secretDeviceSalt)
}

// HardwareBacked reports whether the underlying store is platform secure
// storage. False means reduced confidentiality.
func (m *Manager) HardwareBacked() bool {
	return m.store.HardwareBacked()
}

// Clear irreversibly deletes the master key and salt. Only for explicit
// user-initiated reset; anything sealed with the old key becomes
// unreadable.
func (m *Manager) Clear() error {
	m.mu.Lock()
	common.WipeByteArray(m.deviceKey)
	m.deviceKey = nil
	m.mu.Unlock()

	if err := m.store.Delete(secretMasterKey); err != nil {
		return fmt.Errorf("delete master key: %w", err)
	}
	if err := m.store.Delete(secretDeviceSalt); err != nil {
		return fmt.Errorf("delete device salt: %w", err)
	}
	return nil
}

// Seal encrypts local state with the device-derived key. The result is
// only readable on this device while the keystore is intact.
func (m *Manager) Seal(plaintext []byte) ([]byte, error) {
	key, err := m.derivedKey()
	if err != nil {
		return nil, err
	}
	return cryptox.Seal(plaintext, key)
}

// Open reverses Seal.
func (m *Manager) Open(sealed []byte) ([]byte, error) {
	key, err := m.derivedKey()
	if err != nil {
		return nil, err
	}
	return cryptox.Open(sealed, key)
}

func (m *Manager) getOrCreate(name string) ([]byte, error) {
	v, err := m.store.Get(name)
	if err == nil {
		b, err := hex.DecodeString(v)
		if err != nil {
			return nil, fmt.Errorf("stored %s is not valid hex: %w", name, err)
		}
		return b, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	s, err := common.MakeRandHexString(cryptox.KeySize)
	if err != nil {
		return nil, fmt.Errorf("generate %s: %w", name, err)
	}
	if err := m.store.Set(name, s); err != nil {
		return nil, fmt.Errorf("persist %s: %w", name, err)
	}

	b, _ := hex.DecodeString(s)
	return b, nil
}

// derivedKey derives (and caches) the implicit encryption key from the
// master key and device salt.
func (m *Manager) derivedKey() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.deviceKey != nil {
		return m.deviceKey, nil
	}

	master, err := m.GetOrCreateMasterKey()
	if err != nil {
		return nil, err
	}
	salt, err := m.GetOrCreateSalt()
	if err != nil {
		return nil, err
	}

	m.deviceKey = cryptox.DeriveKey(master, salt, m.iterations)
	common.WipeByteArray(master)
	common.WipeByteArray(salt)
	return m.deviceKey, nil
}
