package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidKey is returned when the provided API key does not match.
var ErrInvalidKey = errors.New("invalid API key")

// Service verifies the operator API key that guards run triggers.
type Service struct {
	hash []byte
}

// NewService creates a Service that accepts keys matching the bcrypt hash.
func NewService(hash string) *Service {
	return &Service{hash: []byte(hash)}
}

// GenerateKey creates a new API key and its bcrypt hash.
// The raw key is: 32 random bytes -> base64url -> prepend "smoke_".
func GenerateKey(cost int) (rawKey, hash string, err error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", fmt.Errorf("generating random bytes: %w", err)
	}

	rawKey = "smoke_" + base64.RawURLEncoding.EncodeToString(b)

	hashBytes, err := bcrypt.GenerateFromPassword([]byte(rawKey), cost)
	if err != nil {
		return "", "", fmt.Errorf("hashing key: %w", err)
	}

	return rawKey, string(hashBytes), nil
}

// Bootstrap returns a Service for the configured hash. When no hash is
// configured it generates a key, logs it once and uses its hash.
func Bootstrap(hash string, cost int) (*Service, error) {
	if hash != "" {
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, fmt.Errorf("parsing API key hash: %w", err)
		}
		return NewService(hash), nil
	}

	rawKey, hash, err := GenerateKey(cost)
	if err != nil {
		return nil, fmt.Errorf("generating API key: %w", err)
	}

	slog.Info("API key created; set API_KEY_HASH to keep it across restarts", "key", rawKey, "hash", hash)

	return NewService(hash), nil
}

// Authenticate checks rawKey against the configured hash.
func (s *Service) Authenticate(rawKey string) error {
	if rawKey == "" {
		return ErrInvalidKey
	}
	if bcrypt.CompareHashAndPassword(s.hash, []byte(rawKey)) != nil {
		return ErrInvalidKey
	}
	return nil
}
