package tokenstore

import (
	"bytes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

const (
	minSecretLength = 8
	keyInfo         = "fulboost token store v1"
)

// sealedMagic prefixes every sealed file so a plaintext store can be told apart
var sealedMagic = []byte("FBSEAL1\n")

// Sealer encrypts store contents with XChaCha20-Poly1305.
// The key is derived from a secret with HKDF-SHA256.
type Sealer struct {
	aead cipher.AEAD
}

func NewSealer(secret []byte) (*Sealer, error) {
	if len(secret) < minSecretLength {
		return nil, ErrSecretTooShort
	}

	reader := hkdf.New(sha256.New, secret, nil, []byte(keyInfo))
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("tokenstore: derive key: %w", err)
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("tokenstore: init cipher: %w", err)
	}
	return &Sealer{aead: aead}, nil
}

// Seal returns magic || nonce || ciphertext
func (s *Sealer) Seal(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("tokenstore: generate nonce: %w", err)
	}

	out := make([]byte, 0, len(sealedMagic)+len(nonce)+len(plaintext)+s.aead.Overhead())
	out = append(out, sealedMagic...)
	out = append(out, nonce...)
	return s.aead.Seal(out, nonce, plaintext, sealedMagic), nil
}

func (s *Sealer) Open(sealed []byte) ([]byte, error) {
	if !isSealed(sealed) {
		return nil, ErrUnsealFailed
	}
	body := sealed[len(sealedMagic):]
	if len(body) < s.aead.NonceSize()+s.aead.Overhead() {
		return nil, ErrUnsealFailed
	}

	nonce, ciphertext := body[:s.aead.NonceSize()], body[s.aead.NonceSize():]
	plaintext, err := s.aead.Open(nil, nonce, ciphertext, sealedMagic)
	if err != nil {
		return nil, ErrUnsealFailed
	}
	return plaintext, nil
}

func isSealed(data []byte) bool {
	return bytes.HasPrefix(data, sealedMagic)
}
