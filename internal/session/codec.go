package session

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"
)

// codecSalt is fixed so every instance derives the same key from the same
// password. Session cookies carry no cross-deployment secrets, so a
// per-deployment salt buys nothing here.
var codecSalt = []byte("condy-session-v1")

// Codec seals and opens session payloads with ChaCha20-Poly1305. The key is
// derived from the configured session password.
type Codec struct {
	aead cipher.AEAD
}

// NewCodec derives a key from password via scrypt and builds the AEAD.
func NewCodec(password string) (*Codec, error) {
	if password == "" {
		return nil, fmt.Errorf("session password is required")
	}

	key, err := scrypt.Key([]byte(password), codecSalt, 1<<15, 8, 1, chacha20poly1305.KeySize)
	if err != nil {
		return nil, fmt.Errorf("deriving session key: %w", err)
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("creating AEAD: %w", err)
	}

	return &Codec{aead: aead}, nil
}

// Seal encrypts plaintext and returns a base64url string with the nonce
// prepended, suitable for a cookie value.
func (c *Codec) Seal(plaintext []byte) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}

	sealed := c.aead.Seal(nonce, nonce, plaintext, nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Open decrypts a value produced by Seal. Any tampering or truncation makes
// it fail.
func (c *Codec) Open(value string) ([]byte, error) {
	data, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("decoding cookie value: %w", err)
	}

	nonceSize := c.aead.NonceSize()
	if len(data) < nonceSize {
		return nil, fmt.Errorf("cookie value too short")
	}

	nonce, sealed := data[:nonceSize], data[nonceSize:]
	plaintext, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("opening sealed cookie: %w", err)
	}

	return plaintext, nil
}
