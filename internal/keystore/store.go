// Package keystore manages the device-bound key material used for implicit
// (passwordless) encryption of local state: a long-lived master key and a
// device salt, generated once and reused thereafter.
//
// Persistence goes through the SecretStore interface so a hardware-backed
// platform store can be injected where one exists. The shipped
// implementation is a plain file with 0600 permissions; it reports
// HardwareBacked() == false so callers can see that confidentiality is
// reduced rather than having the fallback hidden from them.
package keystore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dmitrijs2005/receiptvault/internal/common"
)

// SecretStore persists named string secrets.
type SecretStore interface {
	// Get returns the secret by name, or common.ErrorNotFound.
	Get(name string) (string, error)

	// Set stores or replaces the secret.
	Set(name, value string) error

	// Delete removes the secret. Deleting an absent secret is not an error.
	Delete(name string) error

	// HardwareBacked reports whether the secrets live in platform secure
	// storage. False means the best-effort file fallback is in use.
	HardwareBacked() bool
}

// FileSecretStore keeps secrets in a single JSON file. It is the fallback
// for environments without a platform secure store.
type FileSecretStore struct {
	path string
	mu   sync.Mutex
}

// NewFileSecretStore returns a store writing to dir/secrets.json. The file
// is created lazily on the first Set.
func NewFileSecretStore(dir string) *FileSecretStore {
	return &FileSecretStore{path: filepath.Join(dir, "secrets.json")}
}

func (s *FileSecretStore) Get(name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	secrets, err := s.load()
	if err != nil {
		return "", err
	}
	v, ok := secrets[name]
	if !ok {
		return "", common.ErrorNotFound
	}
	return v, nil
}

func (s *FileSecretStore) Set(name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	secrets, err := s.load()
	if err != nil {
		return err
	}
	secrets[name] = value
	return s.save(secrets)
}

func (s *FileSecretStore) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	secrets, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := secrets[name]; !ok {
		return nil
	}
	delete(secrets, name)
	return s.save(secrets)
}

func (s *FileSecretStore) HardwareBacked() bool { return false }

func (s *FileSecretStore) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read secrets: %w", err)
	}

	var secrets map[string]string
	if err := json.Unmarshal(data, &secrets); err != nil {
		return nil, fmt.Errorf("parse secrets: %w", err)
	}
	return secrets, nil
}

func (s *FileSecretStore) save(secrets map[string]string) error {
	data, err := json.Marshal(secrets)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("mkdir secrets dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write secrets: %w", err)
	}
	return nil
}
