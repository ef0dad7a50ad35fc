// Package crypt seals small secrets (the spreadsheet service-account key)
// with AES-256-GCM before they are written to disk.
//
// Output is base64url(nonce || ciphertext || tag), safe for a file or cookie.
//
//	box, _ := crypt.New(config.AppKey())
//	sealed, _ := box.SealJSON(creds)
//	_ = box.OpenJSON(sealed, &creds)
package crypt

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
)

// ErrDecrypt is returned when decryption or authentication fails.
var ErrDecrypt = errors.New("crypt: decryption failed")

// Box encrypts with a key derived from a secret.
type Box struct {
	gcm cipher.AEAD
}

// New derives a 32-byte key from secret via SHA-256.
func New(secret string) (*Box, error) {
	if secret == "" {
		return nil, errors.New("crypt: APP_KEY not configured")
	}
	k := sha256.Sum256([]byte(secret))

	block, err := aes.NewCipher(k[:])
	if err != nil {
		return nil, fmt.Errorf("crypt: new cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("crypt: new GCM: %w", err)
	}
	return &Box{gcm: gcm}, nil
}

// Seal encrypts data.
func (b *Box) Seal(data []byte) (string, error) {
	nonce := make([]byte, b.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("crypt: nonce: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b.gcm.Seal(nonce, nonce, data, nil)), nil
}

// Open decrypts a string produced by Seal.
func (b *Box) Open(encoded string) ([]byte, error) {
	data, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrDecrypt
	}
	n := b.gcm.NonceSize()
	if len(data) < n {
		return nil, ErrDecrypt
	}
	plain, err := b.gcm.Open(nil, data[:n], data[n:], nil)
	if err != nil {
		return nil, ErrDecrypt
	}
	return plain, nil
}

// SealJSON marshals v to JSON then encrypts it.
func (b *Box) SealJSON(v interface{}) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("crypt: marshal: %w", err)
	}
	return b.Seal(raw)
}

// OpenJSON decrypts encoded and unmarshals the result into dest.
func (b *Box) OpenJSON(encoded string, dest interface{}) error {
	raw, err := b.Open(encoded)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("crypt: unmarshal: %w", err)
	}
	return nil
}
