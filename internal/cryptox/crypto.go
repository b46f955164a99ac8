// Package cryptox implements the key derivation and symmetric encryption
// primitives used for portable backups and for implicit at-rest protection
// of local state. Portable archives use a password-derived PBKDF2 key with
// AES-256-GCM; local state is sealed with ChaCha20-Poly1305 under the
// device master key. Both constructions are authenticated, so decrypting
// with a wrong key fails explicitly instead of producing garbage.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// KeySize is the derived symmetric key length in bytes (AES-256).
	KeySize = 32

	// SaltSize is the length of derivation salts in bytes.
	SaltSize = 32

	// DefaultIterations is the PBKDF2 work factor applied to passwords.
	// Roughly 10k rounds keeps offline guessing expensive without making
	// a single export noticeably slow on phone-class hardware.
	DefaultIterations = 10_000
)

// ErrDecrypt is returned when an authenticated decryption fails. With an
// AEAD this covers both a wrong key and a tampered ciphertext; the two are
// indistinguishable by design.
var ErrDecrypt = errors.New("decryption failed")

// DeriveKey stretches a secret (a user password or the device master key)
// and a salt into a fixed-length symmetric key using PBKDF2-SHA256 with
// the given iteration count. Deterministic: same inputs, same key.
func DeriveKey(secret, salt []byte, iterations int) []byte {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	return pbkdf2.Key(secret, salt, iterations, KeySize, sha256.New)
}

// EncryptPayload encrypts plaintext with AES-256-GCM under key and returns
// the result as base64 text safe to embed in an archive entry. A fresh
// random 12-byte nonce is generated per call and prepended to the
// ciphertext before encoding, so the output is self-contained.
func EncryptPayload(plaintext, key []byte) (string, error) {
	aead, err := newGCM(key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	sealed := aead.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// DecryptPayload reverses EncryptPayload. It returns ErrDecrypt when the
// key is wrong or the ciphertext has been modified; callers decide how to
// phrase that for the user.
func DecryptPayload(encoded string, key []byte) ([]byte, error) {
	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid transport encoding", ErrDecrypt)
	}

	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	if len(sealed) < aead.NonceSize() {
		return nil, fmt.Errorf("%w: ciphertext too short", ErrDecrypt)
	}

	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecrypt
	}
	return plaintext, nil
}

// Seal encrypts plaintext with ChaCha20-Poly1305 under a 32-byte key,
// returning nonce||ciphertext. Used for implicit (passwordless) protection
// of local state with the device master key.
func Seal(plaintext, key []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Open reverses Seal. Returns ErrDecrypt on a wrong key or tampered input.
func Open(sealed, key []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}

	if len(sealed) < aead.NonceSize() {
		return nil, fmt.Errorf("%w: ciphertext too short", ErrDecrypt)
	}

	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecrypt
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
