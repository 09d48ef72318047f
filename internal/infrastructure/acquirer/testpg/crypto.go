package testpg

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
)

var ErrInvalidIV = errors.New("testpg: iv must decode to 12 bytes")

// Sealer encrypts request bodies with AES-256-GCM. The key is the SHA-256 of
// the API key and the IV is fixed by the acquirer, so one Sealer is built at
// startup and shared by every request.
type Sealer struct {
	aead cipher.AEAD
	iv   []byte
}

func NewSealer(apiKey, ivB64 string) (*Sealer, error) {
	iv, err := base64.RawURLEncoding.DecodeString(ivB64)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIV, err)
	}
	if len(iv) != 12 {
		return nil, ErrInvalidIV
	}

	key := sha256.Sum256([]byte(apiKey))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &Sealer{aead: aead, iv: iv}, nil
}

// Seal returns base64url(ciphertext || tag) without padding.
func (s *Sealer) Seal(plaintext []byte) string {
	return base64.RawURLEncoding.EncodeToString(s.aead.Seal(nil, s.iv, plaintext, nil))
}

func (s *Sealer) Open(enc string) ([]byte, error) {
	data, err := base64.RawURLEncoding.DecodeString(enc)
	if err != nil {
		return nil, err
	}
	return s.aead.Open(nil, s.iv, data, nil)
}
