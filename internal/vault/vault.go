// Package vault encrypts session values before they are written to local
// storage.
//
// The key combines a static secret with a host fingerprint, so ciphertexts
// cannot be moved to another machine or profile. This keeps tokens away from
// casual inspection of the storage directory. It is not a boundary against a
// process running as the same user, which can rebuild the fingerprint.
package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"immo-client/internal/model"
)

const (
	keySize = 32
	keyInfo = "immo-session-v1"
)

type Vault struct {
	aead cipher.AEAD
}

// New derives the encryption key from secret and fingerprint.
func New(secret string, fingerprint string) (*Vault, error) {
	if secret == "" {
		return nil, errors.New("vault secret is required")
	}

	key, err := deriveKey(secret, fingerprint)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("init gcm: %w", err)
	}

	return &Vault{aead: aead}, nil
}

func deriveKey(secret string, fingerprint string) ([]byte, error) {
	ikm := []byte(secret + "-" + fingerprint)
	h := hkdf.New(sha256.New, ikm, nil, []byte(keyInfo))
	out := make([]byte, keySize)
	if _, err := io.ReadFull(h, out); err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	return out, nil
}

// Encrypt returns base64(nonce || ciphertext). The empty string encrypts to
// the empty string.
func (v *Vault) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	nonce := make([]byte, v.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	sealed := v.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. Corrupt input or a foreign key yields
// model.ErrDecrypt.
func (v *Vault) Decrypt(encoded string) (string, error) {
	if encoded == "" {
		return "", nil
	}

	blob, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrDecrypt, err)
	}

	ns := v.aead.NonceSize()
	if len(blob) < ns+v.aead.Overhead() {
		return "", fmt.Errorf("%w: ciphertext too short", model.ErrDecrypt)
	}

	plain, err := v.aead.Open(nil, blob[:ns], blob[ns:], nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrDecrypt, err)
	}
	if len(plain) == 0 {
		return "", fmt.Errorf("%w: empty plaintext", model.ErrDecrypt)
	}

	return string(plain), nil
}

func (v *Vault) EncryptObject(obj any) (string, error) {
	data, err := json.Marshal(obj)
	if err != nil {
		return "", fmt.Errorf("encode object: %w", err)
	}
	return v.Encrypt(string(data))
}

func (v *Vault) DecryptObject(encoded string, out any) error {
	plain, err := v.Decrypt(encoded)
	if err != nil {
		return err
	}
	if plain == "" {
		return fmt.Errorf("%w: empty object", model.ErrDecrypt)
	}
	if err := json.Unmarshal([]byte(plain), out); err != nil {
		return fmt.Errorf("%w: %v", model.ErrDecrypt, err)
	}
	return nil
}
