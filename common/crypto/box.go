// Package crypto seals small secrets (integration credentials) at rest with
// AES-256-GCM. The key is derived from APP_KEY with HKDF-SHA256 so the raw
// application key never touches the cipher directly.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	keyInfo = "liveoverlay/integration-credentials/v1"

	// sealed = version || nonce || ciphertext+tag
	version byte = 1
)

var (
	ErrEmptyKey = errors.New("crypto: key material is empty")
	ErrOpen     = errors.New("crypto: cannot open sealed value")
)

type Box struct {
	aead cipher.AEAD
}

func NewBox(keyMaterial []byte) (*Box, error) {
	if len(keyMaterial) == 0 {
		return nil, ErrEmptyKey
	}

	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, keyMaterial, nil, []byte(keyInfo)), key); err != nil {
		return nil, fmt.Errorf("deriving key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("creating gcm: %w", err)
	}
	return &Box{aead: aead}, nil
}

// Seal encrypts plaintext. associated binds the ciphertext to its owner (the
// integration id) so a blob copied to another row fails to open.
func (b *Box) Seal(plaintext, associated []byte) ([]byte, error) {
	nonceSize := b.aead.NonceSize()
	out := make([]byte, 1+nonceSize, 1+nonceSize+len(plaintext)+b.aead.Overhead())
	out[0] = version
	if _, err := rand.Read(out[1 : 1+nonceSize]); err != nil {
		return nil, fmt.Errorf("reading nonce: %w", err)
	}
	return b.aead.Seal(out, out[1:1+nonceSize], plaintext, associated), nil
}

func (b *Box) Open(sealed, associated []byte) ([]byte, error) {
	nonceSize := b.aead.NonceSize()
	if len(sealed) < 1+nonceSize+b.aead.Overhead() || sealed[0] != version {
		return nil, ErrOpen
	}
	plaintext, err := b.aead.Open(nil, sealed[1:1+nonceSize], sealed[1+nonceSize:], associated)
	if err != nil {
		return nil, ErrOpen
	}
	return plaintext, nil
}
