package auth_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/daap14/clustersmoke/internal/auth"
)

const testBcryptCost = 4 // low cost for fast tests

func TestGenerateKey_Format(t *testing.T) {
	rawKey, hash, err := auth.GenerateKey(testBcryptCost)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(rawKey, "smoke_"), "raw key should start with smoke_")
	assert.NotEmpty(t, hash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte(rawKey)))
}

func TestGenerateKey_Uniqueness(t *testing.T) {
	key1, _, err := auth.GenerateKey(testBcryptCost)
	require.NoError(t, err)
	key2, _, err := auth.GenerateKey(testBcryptCost)
	require.NoError(t, err)

	assert.NotEqual(t, key1, key2)
}

func TestAuthenticate(t *testing.T) {
	rawKey, hash, err := auth.GenerateKey(testBcryptCost)
	require.NoError(t, err)
	svc := auth.NewService(hash)

	tests := []struct {
		name    string
		key     string
		wantErr error
	}{
		{name: "valid key", key: rawKey},
		{name: "empty key", key: "", wantErr: auth.ErrInvalidKey},
		{name: "wrong key", key: "smoke_not-the-key", wantErr: auth.ErrInvalidKey},
		{name: "truncated key", key: rawKey[:len(rawKey)-1], wantErr: auth.ErrInvalidKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Authenticate(tt.key)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestBootstrap_UsesConfiguredHash(t *testing.T) {
	rawKey, hash, err := auth.GenerateKey(testBcryptCost)
	require.NoError(t, err)

	svc, err := auth.Bootstrap(hash, testBcryptCost)

	require.NoError(t, err)
	assert.NoError(t, svc.Authenticate(rawKey))
}

func TestBootstrap_GeneratesWhenEmpty(t *testing.T) {
	svc, err := auth.Bootstrap("", testBcryptCost)

	require.NoError(t, err)
	assert.ErrorIs(t, svc.Authenticate("smoke_guess"), auth.ErrInvalidKey)
}

func TestBootstrap_InvalidHash(t *testing.T) {
	_, err := auth.Bootstrap("not-a-bcrypt-hash", testBcryptCost)

	assert.Error(t, err)
}
