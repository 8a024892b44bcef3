// Package crypto seals the persisted state blob with a passphrase.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters
const (
	argon2Time    = 3
	argon2Memory  = 64 * 1024 // 64 MB
	argon2Threads = 4
	argon2KeyLen  = 32 // AES-256
	saltLen       = 16
	nonceLen      = 12 // GCM standard nonce size
)

// Envelope is the on-disk form of a sealed blob.
type Envelope struct {
	Version    int    `json:"version"`
	Salt       string `json:"salt"`
	Nonce      string `json:"nonce"`
	Ciphertext string `json:"ciphertext"`
}

// ErrOpenFailed is returned when the passphrase is wrong or the blob is damaged.
var ErrOpenFailed = errors.New("decryption failed: invalid passphrase or corrupted data")

// DeriveKey derives an AES-256 key from a passphrase using Argon2id
func DeriveKey(passphrase string, salt []byte) []byte {
	return argon2.IDKey([]byte(passphrase), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)
}

// Seal encrypts plaintext with AES-256-GCM under a passphrase-derived key.
func Seal(plaintext []byte, passphrase string) (*Envelope, error) {
	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	gcm, err := newGCM(passphrase, salt)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, nonceLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return &Envelope{
		Version:    1,
		Salt:       base64.StdEncoding.EncodeToString(salt),
		Nonce:      base64.StdEncoding.EncodeToString(nonce),
		Ciphertext: base64.StdEncoding.EncodeToString(gcm.Seal(nil, nonce, plaintext, nil)),
	}, nil
}

// Open reverses Seal.
func Open(env *Envelope, passphrase string) ([]byte, error) {
	if env == nil {
		return nil, ErrOpenFailed
	}
	if env.Version != 1 {
		return nil, fmt.Errorf("unsupported encryption version: %d", env.Version)
	}

	salt, err := base64.StdEncoding.DecodeString(env.Salt)
	if err != nil {
		return nil, fmt.Errorf("failed to decode salt: %w", err)
	}
	nonce, err := base64.StdEncoding.DecodeString(env.Nonce)
	if err != nil {
		return nil, fmt.Errorf("failed to decode nonce: %w", err)
	}
	ciphertext, err := base64.StdEncoding.DecodeString(env.Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ciphertext: %w", err)
	}

	gcm, err := newGCM(passphrase, salt)
	if err != nil {
		return nil, err
	}
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrOpenFailed
	}
	return plaintext, nil
}

func newGCM(passphrase string, salt []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(DeriveKey(passphrase, salt))
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}

// SealJSON marshals value and seals it, returning the envelope as JSON.
func SealJSON(value interface{}, passphrase string) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal value: %w", err)
	}
	env, err := Seal(data, passphrase)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(env, "", "  ")
}

// OpenJSON parses an envelope, opens it, and unmarshals into target.
func OpenJSON(raw []byte, passphrase string, target interface{}) error {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("failed to parse envelope: %w", err)
	}
	plaintext, err := Open(&env, passphrase)
	if err != nil {
		return err
	}
	return json.Unmarshal(plaintext, target)
}

// IsSealed reports whether raw looks like a sealed envelope.
func IsSealed(raw []byte) bool {
	var probe struct {
		Version    int    `json:"version"`
		Ciphertext string `json:"ciphertext"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return false
	}
	return probe.Version > 0 && probe.Ciphertext != ""
}
